package organization

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

func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	principal, _, ok := transport.RequestContext(r)
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

	// Non-super-admins only ever see their own organization.
	if !principal.IsSuperAdmin() {
		if principal.OrganizationID == nil {
			h.WriteError(w, http.StatusForbidden, "no organization resolved for user")
			return
		}
		o, err := h.Service.GetOrganization(*principal.OrganizationID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WritePaginated(w, http.StatusOK, []*Organization{o}, transport.NewPagination(1, 1, perPage))
		return
	}

	orgs, total, err := h.Service.ListOrganizations(query)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WritePaginated(w, http.StatusOK, orgs, transport.NewPagination(total, page, perPage))
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	principal, _, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	// A tenant user asking about a foreign organization gets the same answer
	// as for a missing one.
	if !principal.IsSuperAdmin() {
		if principal.OrganizationID == nil || *principal.OrganizationID != id {
			h.WriteError(w, http.StatusNotFound, "record not found")
			return
		}
	}

	o, err := h.Service.GetOrganization(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	principal, _, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.Service.CreateOrganization(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("organization created", "organization_id", o.ID, "user_id", principal.UserID)
	h.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	principal, _, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	if !principal.IsSuperAdmin() {
		if principal.OrganizationID == nil || *principal.OrganizationID != id {
			h.WriteError(w, http.StatusNotFound, "record not found")
			return
		}
	}

	var dto UpdateOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.Service.UpdateOrganization(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	principal, _, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	if err := h.Service.DeleteOrganization(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("organization purged", "organization_id", id, "user_id", principal.UserID)
	h.WriteMessage(w, http.StatusOK, "organization deleted")
}
