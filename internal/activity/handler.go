package activity

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
	Service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	principal, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, perPage := transport.PageParams(r)
	query := ListQuery{
		LeadID:    transport.IDParam(r, "lead_id"),
		ContactID: transport.IDParam(r, "contact_id"),
		Type:      r.URL.Query().Get("type"),
		From:      transport.DateParam(r, "from"),
		To:        transport.DateParam(r, "to"),
		Page:      page,
		PerPage:   perPage,
	}

	activities, total, err := h.Service.ListActivities(principal, scope, query)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WritePaginated(w, http.StatusOK, activities, transport.NewPagination(total, page, perPage))
}

func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid activity ID")
		return
	}

	a, err := h.Service.GetActivity(scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	principal, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateActivityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.CreateActivity(r.Context(), principal, scope, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("activity created", "activity_id", a.ID, "organization_id", a.OrganizationID, "user_id", principal.UserID)
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid activity ID")
		return
	}

	var dto UpdateActivityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.UpdateActivity(r.Context(), scope, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid activity ID")
		return
	}

	if err := h.Service.DeleteActivity(r.Context(), scope, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "activity deleted")
}
