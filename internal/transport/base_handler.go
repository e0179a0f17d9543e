package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/pkg/logger"
)

// Envelope is the uniform response shape: {success, data, message?, pagination?}.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Next  *int  `json:"next,omitempty"`
	Prev  *int  `json:"prev,omitempty"`
}

// NewPagination derives page descriptors from a total count.
func NewPagination(total int64, page, perPage int) *Pagination {
	if perPage < 1 {
		perPage = 20
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	p := &Pagination{Total: total, Page: page, Pages: pages}
	if page < pages {
		next := page + 1
		p.Next = &next
	}
	if page > 1 {
		prev := page - 1
		p.Prev = &prev
	}
	return p
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a success envelope
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	h.write(w, status, Envelope{Success: true, Data: data})
}

// WritePaginated writes a success envelope carrying page descriptors
func (h *BaseHandler) WritePaginated(w http.ResponseWriter, status int, data interface{}, pagination *Pagination) {
	h.write(w, status, Envelope{Success: true, Data: data, Pagination: pagination})
}

// WriteMessage writes a success envelope with only a message
func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string) {
	h.write(w, status, Envelope{Success: true, Message: message})
}

// WriteError writes an error envelope
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.write(w, status, Envelope{Success: false, Message: message})
}

// HandleServiceError maps a typed service error onto the error envelope. Errors
// that are not AppError become opaque 500s.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("internal service error", "error", appErr.Error())
			h.write(w, appErr.StatusCode, Envelope{Success: false, Message: "internal server error"})
			return
		}
		h.write(w, appErr.StatusCode, Envelope{Success: false, Message: appErr.GetDetailedMessage()})
		return
	}
	h.Logger.Error("unhandled service error", "error", err)
	h.write(w, http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error"})
}

func (h *BaseHandler) write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
