package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crmkit/lead-management/internal/transport"
	"github.com/crmkit/lead-management/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Manager:     manager,
	}
}

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, perPage := transport.PageParams(r)
	query := ListQuery{
		Search:  r.URL.Query().Get("search"),
		Page:    page,
		PerPage: perPage,
	}
	if active := r.URL.Query().Get("active"); active != "" {
		v := active == "true"
		query.Active = &v
	}

	services, total, err := h.Manager.ListServices(scope, query)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WritePaginated(w, http.StatusOK, services, transport.NewPagination(total, page, perPage))
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid service ID")
		return
	}

	svc, err := h.Manager.GetService(scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, svc)
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	principal, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateServiceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svc, err := h.Manager.CreateService(r.Context(), principal, scope, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("service created", "service_id", svc.ID, "organization_id", svc.OrganizationID, "user_id", principal.UserID)
	h.WriteJSON(w, http.StatusCreated, svc)
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid service ID")
		return
	}

	var dto UpdateServiceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svc, err := h.Manager.UpdateService(r.Context(), scope, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, svc)
}

func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid service ID")
		return
	}

	if err := h.Manager.DeleteService(r.Context(), scope, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "service deleted")
}
