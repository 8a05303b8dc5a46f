package adminhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perftrack/internal/domain/audit"
	"perftrack/internal/domain/auth"
	"perftrack/internal/domain/backup"
	"perftrack/internal/domain/notifications"
	"perftrack/internal/domain/reports"
	"perftrack/internal/domain/settings"
	"perftrack/internal/platform/metrics"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

type Handler struct {
	Settings *settings.Service
	Audit    *audit.Service
	Backup   *backup.Exporter
	Notify   *notifications.Emitter
	Reports  *reports.Service
	Metrics  *metrics.Collector
}

func NewHandler(settingsSvc *settings.Service, auditSvc *audit.Service, exporter *backup.Exporter, notify *notifications.Emitter, reportsSvc *reports.Service, collector *metrics.Collector) *Handler {
	return &Handler{
		Settings: settingsSvc,
		Audit:    auditSvc,
		Backup:   exporter,
		Notify:   notify,
		Reports:  reportsSvc,
		Metrics:  collector,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)
		r.Get("/audit-logs", h.handleListAuditLogs)
		r.Get("/backup", h.handleBackup)
		r.Get("/auto-message-triggers", h.handleListTriggers)
		r.Put("/auto-message-triggers/{eventName}", h.handleUpdateTrigger)
		r.Get("/reports/performance", h.handlePerformanceReport)
		r.Get("/metrics", h.handleMetrics)
	})
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.Settings.Get(r.Context())
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, current, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	var payload settings.SystemSetting
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator().
		Require("appName", payload.AppName).
		Require("systemTheme", payload.SystemTheme)
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	changes, err := h.Settings.Update(r.Context(), payload)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	// A no-op update writes nothing and leaves no audit trace.
	if len(changes) > 0 {
		if err := h.Audit.Record(r.Context(), caller.UserID, audit.ActionSettingsUpdate, "system_settings", "system", changes); err != nil {
			slog.Warn("audit settings-update failed", "err", err)
		}
	}

	api.Success(w, map[string]any{
		"settings": payload,
		"changes":  changes,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Audit.List(r.Context(), r.URL.Query().Get("action"))
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBackup(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	doc, filename, err := h.Backup.Export(r.Context())
	if err != nil {
		if auditErr := h.Audit.Record(r.Context(), caller.UserID, audit.ActionBackupFailure, "backup", "", map[string]string{
			"error": err.Error(),
		}); auditErr != nil {
			slog.Warn("audit backup-failure failed", "err", auditErr)
		}
		shared.WriteStoreError(w, r, err)
		return
	}

	if err := h.Audit.Record(r.Context(), caller.UserID, audit.ActionBackupSuccess, "backup", filename, map[string]any{
		"bytes": len(doc),
	}); err != nil {
		slog.Warn("audit backup-success failed", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		slog.Warn("backup write failed", "err", err)
	}
}

func (h *Handler) handleListTriggers(w http.ResponseWriter, r *http.Request) {
	triggers, err := h.Notify.ListTriggers(r.Context())
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, triggers, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTrigger(w http.ResponseWriter, r *http.Request) {
	eventName := chi.URLParam(r, "eventName")
	if !notifications.ValidTriggerEvent(eventName) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown trigger event", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		MessageTemplate string `json:"messageTemplate"`
		IsActive        bool   `json:"isActive"`
		DaysBeforeEvent *int   `json:"daysBeforeEvent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator().Require("messageTemplate", payload.MessageTemplate)
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	updated, err := h.Notify.UpdateTrigger(r.Context(), eventName, notifications.AutoMessageTrigger{
		EventName:       eventName,
		MessageTemplate: payload.MessageTemplate,
		IsActive:        payload.IsActive,
		DaysBeforeEvent: payload.DaysBeforeEvent,
	})
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "trigger not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"eventName": eventName}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePerformanceReport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Reports.PerformancePDF(r.Context())
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="performance-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		slog.Warn("report write failed", "err", err)
	}
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "metrics collection is disabled", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}
