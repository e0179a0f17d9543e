package billing

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

func (h *Handler) ListBillings(w http.ResponseWriter, r *http.Request) {
	principal, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, perPage := transport.PageParams(r)
	query := ListQuery{
		Search:    r.URL.Query().Get("search"),
		Status:    r.URL.Query().Get("status"),
		ContactID: transport.IDParam(r, "contact_id"),
		From:      transport.DateParam(r, "from"),
		To:        transport.DateParam(r, "to"),
		Page:      page,
		PerPage:   perPage,
	}

	billings, total, err := h.Service.ListBillings(principal, scope, query)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WritePaginated(w, http.StatusOK, billings, transport.NewPagination(total, page, perPage))
}

func (h *Handler) GetBilling(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid billing ID")
		return
	}

	b, err := h.Service.GetBilling(scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) CreateBilling(w http.ResponseWriter, r *http.Request) {
	principal, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateBillingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.CreateBilling(r.Context(), principal, scope, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("billing created", "billing_id", b.ID, "invoice_number", b.InvoiceNumber, "user_id", principal.UserID)
	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) UpdateBilling(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid billing ID")
		return
	}

	var dto UpdateBillingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.UpdateBilling(r.Context(), scope, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBilling(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid billing ID")
		return
	}

	if err := h.Service.DeleteBilling(r.Context(), scope, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "billing deleted")
}
