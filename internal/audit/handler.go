package audit

import (
	"log/slog"
	"net/http"

	"github.com/crmkit/lead-management/internal/transport"
	"github.com/crmkit/lead-management/pkg/logger"
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

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := transport.RequestContext(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, perPage := transport.PageParams(r)
	query := ListQuery{
		EntityType: r.URL.Query().Get("entity_type"),
		Action:     r.URL.Query().Get("action"),
		UserID:     transport.IDParam(r, "user_id"),
		From:       transport.DateParam(r, "from"),
		To:         transport.DateParam(r, "to"),
		Page:       page,
		PerPage:    perPage,
	}

	logs, total, err := h.Service.ListLogs(scope, query)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WritePaginated(w, http.StatusOK, logs, transport.NewPagination(total, page, perPage))
}
