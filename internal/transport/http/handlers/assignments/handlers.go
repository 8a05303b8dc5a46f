package assignmentshandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perftrack/internal/domain/audit"
	"perftrack/internal/domain/auth"
	"perftrack/internal/domain/core"
	"perftrack/internal/domain/notifications"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

type Handler struct {
	Users  *core.Service
	Notify *notifications.Emitter
	Audit  *audit.Service
}

func NewHandler(users *core.Service, notify *notifications.Emitter, auditSvc *audit.Service) *Handler {
	return &Handler{Users: users, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assignments", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Post("/update", h.handleAssign)
		r.Post("/batch-update", h.handleBatchAssign)
	})
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	var payload struct {
		EmployeeID   string `json:"employeeId"`
		SupervisorID string `json:"supervisorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := payload.EmployeeID
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee id required", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.SupervisorID == employeeID {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "an employee cannot supervise themselves", middleware.GetRequestID(r.Context()))
		return
	}

	exists, err := h.Users.UserExists(r.Context(), employeeID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !exists {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.SupervisorID != "" {
		supervisorExists, err := h.Users.UserExists(r.Context(), payload.SupervisorID)
		if err != nil {
			shared.WriteStoreError(w, r, err)
			return
		}
		if !supervisorExists {
			api.Fail(w, http.StatusBadRequest, "invalid_reference", "supervisor does not exist", middleware.GetRequestID(r.Context()))
			return
		}
	}

	previous, err := h.Users.AssignSupervisor(r.Context(), employeeID, payload.SupervisorID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	if previous != payload.SupervisorID {
		supervisorName := ""
		if payload.SupervisorID != "" {
			name, err := h.Users.UserName(r.Context(), payload.SupervisorID)
			if err != nil {
				slog.Warn("supervisor name lookup failed", "err", err)
			} else {
				supervisorName = name
			}
		}
		if err := h.Notify.Emit(r.Context(), notifications.SupervisorChanged{
			ActorID:        caller.UserID,
			EmployeeID:     employeeID,
			SupervisorID:   payload.SupervisorID,
			SupervisorName: supervisorName,
		}); err != nil {
			slog.Warn("supervisor changed notification failed", "err", err)
		}
	}

	api.Success(w, map[string]string{
		"employeeId":   employeeID,
		"supervisorId": payload.SupervisorID,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBatchAssign(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	var payload struct {
		EmployeeIDs  []string `json:"employeeIds"`
		SupervisorID string   `json:"supervisorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if len(payload.EmployeeIDs) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee ids required", middleware.GetRequestID(r.Context()))
		return
	}
	for _, employeeID := range payload.EmployeeIDs {
		if employeeID == payload.SupervisorID {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "an employee cannot supervise themselves", middleware.GetRequestID(r.Context()))
			return
		}
	}

	if payload.SupervisorID != "" {
		supervisorExists, err := h.Users.UserExists(r.Context(), payload.SupervisorID)
		if err != nil {
			shared.WriteStoreError(w, r, err)
			return
		}
		if !supervisorExists {
			api.Fail(w, http.StatusBadRequest, "invalid_reference", "supervisor does not exist", middleware.GetRequestID(r.Context()))
			return
		}
	}

	// Snapshot current supervisors so no-op members of the batch do
	// not produce a notification afterwards.
	changed := make([]string, 0, len(payload.EmployeeIDs))
	for _, employeeID := range payload.EmployeeIDs {
		previous, err := h.Users.SupervisorOf(r.Context(), employeeID)
		if err != nil {
			slog.Warn("previous supervisor lookup failed", "err", err)
			changed = append(changed, employeeID)
			continue
		}
		if previous != payload.SupervisorID {
			changed = append(changed, employeeID)
		}
	}

	updated, err := h.Users.BatchAssignSupervisor(r.Context(), payload.EmployeeIDs, payload.SupervisorID)
	if err != nil {
		if auditErr := h.Audit.Record(r.Context(), caller.UserID, audit.ActionBatchAssignFailure, "user", "", map[string]any{
			"employeeIds":  payload.EmployeeIDs,
			"supervisorId": payload.SupervisorID,
		}); auditErr != nil {
			slog.Warn("audit batch-assignment-failure failed", "err", auditErr)
		}
		shared.WriteStoreError(w, r, err)
		return
	}

	supervisorName := ""
	if payload.SupervisorID != "" && len(changed) > 0 {
		name, err := h.Users.UserName(r.Context(), payload.SupervisorID)
		if err != nil {
			slog.Warn("supervisor name lookup failed", "err", err)
		} else {
			supervisorName = name
		}
	}
	for _, employeeID := range changed {
		if err := h.Notify.Emit(r.Context(), notifications.SupervisorChanged{
			ActorID:        caller.UserID,
			EmployeeID:     employeeID,
			SupervisorID:   payload.SupervisorID,
			SupervisorName: supervisorName,
		}); err != nil {
			slog.Warn("supervisor changed notification failed", "err", err)
		}
	}

	if err := h.Audit.Record(r.Context(), caller.UserID, audit.ActionBatchAssignSuccess, "user", "", map[string]any{
		"employeeIds":  payload.EmployeeIDs,
		"supervisorId": payload.SupervisorID,
		"updated":      updated,
	}); err != nil {
		slog.Warn("audit batch-assignment-success failed", "err", err)
	}

	api.Success(w, map[string]any{"updated": updated}, middleware.GetRequestID(r.Context()))
}
