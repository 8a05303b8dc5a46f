package notificationshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perftrack/internal/domain/audit"
	"perftrack/internal/domain/notifications"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

const defaultListLimit = 20

type Handler struct {
	Notify *notifications.Emitter
	Audit  *audit.Service
}

func NewHandler(notify *notifications.Emitter, auditSvc *audit.Service) *Handler {
	return &Handler{Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/mark-as-read", h.handleMarkAllRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	limit := defaultListLimit
	if r.URL.Query().Get("all") == "true" {
		limit = 0
	}

	items, err := h.Notify.List(r.Context(), caller.UserID, limit, 0)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	total, err := h.Notify.Count(r.Context(), caller.UserID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"notifications": items,
		"total":         total,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	marked, err := h.Notify.MarkAllRead(r.Context(), caller.UserID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	if err := h.Audit.Record(r.Context(), caller.UserID, audit.ActionNotificationsRead, "notification", "", map[string]any{
		"marked": marked,
	}); err != nil {
		slog.Warn("audit notifications-read failed", "err", err)
	}

	api.Success(w, map[string]any{"marked": marked}, middleware.GetRequestID(r.Context()))
}
