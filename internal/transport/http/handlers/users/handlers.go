package usershandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"

	"perftrack/internal/domain/access"
	"perftrack/internal/domain/audit"
	"perftrack/internal/domain/auth"
	"perftrack/internal/domain/core"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

const minPasswordLength = 8

type Handler struct {
	Users *core.Service
	Audit *audit.Service
}

func NewHandler(users *core.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Users: users, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreate)
		r.With(middleware.RequireAuth).Get("/{userID}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{userID}", h.handleUpdate)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{userID}", h.handleDelete)
		r.With(middleware.RequireAuth).Post("/{userID}/password", h.handleChangePassword)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r)
	users, err := h.Users.ListUsers(r.Context(), page.PageSize, page.Offset())
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	total, err := h.Users.CountUsers(r.Context())
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"users":    users,
		"total":    total,
		"page":     page.Page,
		"pageSize": page.PageSize,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	if caller.UserID != userID && !access.CanManageUsers(caller) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Users.GetUser(r.Context(), userID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	var payload struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Department   string `json:"department"`
		Position     string `json:"position"`
		HireDate     string `json:"hireDate"`
		AvatarURL    string `json:"avatarUrl"`
		Role         string `json:"role"`
		SupervisorID string `json:"supervisorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator().
		Require("name", payload.Name).
		Require("email", payload.Email).
		Require("password", payload.Password).
		Require("role", payload.Role).
		Check(len(payload.Password) == 0 || len(payload.Password) >= minPasswordLength, "password", "must be at least 8 characters").
		Check(payload.Role == "" || auth.ValidRole(payload.Role), "role", "unknown role")
	if payload.Email != "" {
		if _, err := mail.ParseAddress(payload.Email); err != nil {
			v.Check(false, "email", "invalid email address")
		}
	}
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	hireDate, err := shared.ParseDatePtr(payload.HireDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid hire date", middleware.GetRequestID(r.Context()))
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		slog.Error("password hash failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Users.CreateUser(r.Context(), core.User{
		Name:         payload.Name,
		Email:        payload.Email,
		Department:   payload.Department,
		Position:     payload.Position,
		HireDate:     hireDate,
		AvatarURL:    payload.AvatarURL,
		Role:         payload.Role,
		SupervisorID: payload.SupervisorID,
	}, hash)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	if err := h.Audit.Record(r.Context(), caller.UserID, "user-create", "user", id, map[string]string{
		"email": payload.Email,
		"role":  payload.Role,
	}); err != nil {
		slog.Warn("audit user-create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	current, err := h.Users.GetUser(r.Context(), userID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	var payload struct {
		Name       *string `json:"name"`
		Department *string `json:"department"`
		Position   *string `json:"position"`
		HireDate   *string `json:"hireDate"`
		AvatarURL  *string `json:"avatarUrl"`
		Role       *string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if payload.Name != nil {
		current.Name = *payload.Name
	}
	if payload.Department != nil {
		current.Department = *payload.Department
	}
	if payload.Position != nil {
		current.Position = *payload.Position
	}
	if payload.AvatarURL != nil {
		current.AvatarURL = *payload.AvatarURL
	}
	if payload.Role != nil {
		if !auth.ValidRole(*payload.Role) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown role", middleware.GetRequestID(r.Context()))
			return
		}
		current.Role = *payload.Role
	}
	if payload.HireDate != nil {
		parsed, err := shared.ParseDatePtr(*payload.HireDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid hire date", middleware.GetRequestID(r.Context()))
			return
		}
		current.HireDate = parsed
	}

	if current.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "name required", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Users.UpdateUser(r.Context(), userID, *current)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), caller.UserID, "user-update", "user", userID, payload); err != nil {
		slog.Warn("audit user-update failed", "err", err)
	}
	api.Success(w, map[string]string{"id": userID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	exists, err := h.Users.UserExists(r.Context(), userID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !exists {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Users.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, core.ErrSupervisesOthers) {
			api.Fail(w, http.StatusConflict, "supervises_others", "user still supervises other employees", middleware.GetRequestID(r.Context()))
			return
		}
		shared.WriteStoreError(w, r, err)
		return
	}

	if err := h.Audit.Record(r.Context(), caller.UserID, "user-delete", "user", userID, nil); err != nil {
		slog.Warn("audit user-delete failed", "err", err)
	}
	api.Success(w, map[string]string{"id": userID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	if !access.CanChangePassword(caller, userID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "password change is self-service only", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator().
		Require("currentPassword", payload.CurrentPassword).
		Require("newPassword", payload.NewPassword).
		Check(len(payload.NewPassword) == 0 || len(payload.NewPassword) >= minPasswordLength, "newPassword", "must be at least 8 characters")
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	hash, err := h.Users.PasswordHash(r.Context(), userID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	if err := auth.CheckPassword(hash, payload.CurrentPassword); err != nil {
		if err := h.Audit.Record(r.Context(), caller.UserID, audit.ActionPasswordChangeFailure, "user", userID, map[string]string{
			"reason": "current password mismatch",
		}); err != nil {
			slog.Warn("audit password-change-failure failed", "err", err)
		}
		api.Fail(w, http.StatusForbidden, "invalid_credentials", "current password is incorrect", middleware.GetRequestID(r.Context()))
		return
	}

	newHash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		slog.Error("password hash failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), userID, newHash); err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	if err := h.Audit.Record(r.Context(), caller.UserID, audit.ActionPasswordChangeSuccess, "user", userID, nil); err != nil {
		slog.Warn("audit password-change-success failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "password_changed"}, middleware.GetRequestID(r.Context()))
}
