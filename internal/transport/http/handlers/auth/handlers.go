package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"perftrack/internal/domain/audit"
	"perftrack/internal/domain/auth"
	"perftrack/internal/domain/core"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

const tokenTTL = 24 * time.Hour

type Handler struct {
	Users     *core.Service
	Audit     *audit.Service
	JWTSecret string
}

func NewHandler(users *core.Service, auditSvc *audit.Service, jwtSecret string) *Handler {
	return &Handler{Users: users, Audit: auditSvc, JWTSecret: jwtSecret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator().
		Require("email", payload.Email).
		Require("password", payload.Password)
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	user, err := h.Users.GetUserByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.recordFailure(r, payload.Email, "user not found")
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
			return
		}
		shared.WriteStoreError(w, r, err)
		return
	}

	if err := auth.CheckPassword(user.Password, payload.Password); err != nil {
		h.recordFailure(r, payload.Email, "password mismatch")
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{UserID: user.ID, Role: user.Role}, tokenTTL)
	if err != nil {
		slog.Error("token generation failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.ID, audit.ActionLoginSuccess, "user", user.ID, map[string]string{
		"email": user.Email,
		"ip":    shared.ClientIP(r),
	}); err != nil {
		slog.Warn("audit login-success failed", "err", err)
	}

	api.Success(w, map[string]any{
		"token": token,
		"user":  user,
	}, middleware.GetRequestID(r.Context()))
}

// recordFailure writes the login-failure audit row with no user id;
// failed attempts must never leak which part of the credential was
// wrong beyond the audit trail.
func (h *Handler) recordFailure(r *http.Request, email, reason string) {
	if err := h.Audit.Record(r.Context(), "", audit.ActionLoginFailure, "user", "", map[string]string{
		"email":  email,
		"reason": reason,
		"ip":     shared.ClientIP(r),
	}); err != nil {
		slog.Warn("audit login-failure failed", "err", err)
	}
}
