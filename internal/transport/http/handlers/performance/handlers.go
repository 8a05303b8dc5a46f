package performancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"perftrack/internal/domain/access"
	"perftrack/internal/domain/auth"
	"perftrack/internal/domain/core"
	"perftrack/internal/domain/notifications"
	"perftrack/internal/domain/performance"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

type Handler struct {
	Service *performance.Service
	Users   *core.Service
	Notify  *notifications.Emitter
}

func NewHandler(service *performance.Service, users *core.Service, notify *notifications.Emitter) *Handler {
	return &Handler{Service: service, Users: users, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListGoals)
		r.Post("/", h.handleCreateGoal)
		r.Get("/{goalID}", h.handleGetGoal)
		r.Put("/{goalID}", h.handleUpdateGoal)
		r.Delete("/{goalID}", h.handleDeleteGoal)
	})
	r.Route("/performance-scores", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListScores)
		r.Post("/", h.handleCreateScore)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{scoreID}", h.handleDeleteScore)
	})
	r.Route("/evaluation-criteria", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListCriteria)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreateCriteria)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{criteriaID}", h.handleDeleteCriteria)
	})
	r.Route("/work-outputs", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListWorkOutputs)
		r.Post("/", h.handleCreateWorkOutput)
	})
	r.Route("/attendance-records", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListAttendance)
		r.Post("/", h.handleCreateAttendance)
	})
}

// liveSupervisor resolves the employee's current supervisor, tolerating
// a missing employee row by returning empty.
func (h *Handler) liveSupervisor(r *http.Request, employeeID string) (string, error) {
	supervisorID, err := h.Users.SupervisorOf(r.Context(), employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return supervisorID, err
}

func (h *Handler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	filterEmployeeID := r.URL.Query().Get("employeeId")

	filterIsDirectReport := false
	if caller.Role == auth.RoleSupervisor && filterEmployeeID != "" && filterEmployeeID != caller.UserID {
		isReport, err := h.Users.IsDirectReport(r.Context(), caller.UserID, filterEmployeeID)
		if err != nil {
			shared.WriteStoreError(w, r, err)
			return
		}
		filterIsDirectReport = isReport
	}

	scope, allowed := access.ScopeGoalList(caller, filterEmployeeID, filterIsDirectReport)
	if !allowed {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to view those goals", middleware.GetRequestID(r.Context()))
		return
	}

	goals, err := h.Service.ListGoals(r.Context(), scope)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, goals, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	var payload struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		DueDate     string `json:"dueDate"`
		EmployeeID  string `json:"employeeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		payload.EmployeeID = caller.UserID
	}
	if payload.Status == "" {
		payload.Status = performance.GoalStatusNotStarted
	}

	v := shared.NewValidator().
		Require("title", payload.Title).
		Check(performance.ValidGoalStatus(payload.Status), "status", "unknown goal status")
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	dueDate, err := shared.ParseDatePtr(payload.DueDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid due date", middleware.GetRequestID(r.Context()))
		return
	}

	employeeSupervisorID, err := h.liveSupervisor(r, payload.EmployeeID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !access.CanCreateGoalFor(caller, payload.EmployeeID, employeeSupervisorID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to create goals for that employee", middleware.GetRequestID(r.Context()))
		return
	}

	goalID, err := h.Service.CreateGoal(r.Context(), performance.Goal{
		Title:        payload.Title,
		Description:  payload.Description,
		Status:       payload.Status,
		DueDate:      dueDate,
		EmployeeID:   payload.EmployeeID,
		SupervisorID: access.DeriveGoalSupervisor(caller, payload.EmployeeID, employeeSupervisorID),
	})
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	if err := h.Notify.Emit(r.Context(), notifications.GoalAssigned{
		ActorID:    caller.UserID,
		ActorName:  h.callerName(r, caller.UserID),
		EmployeeID: payload.EmployeeID,
		GoalID:     goalID,
		GoalTitle:  payload.Title,
	}); err != nil {
		slog.Warn("goal assigned notification failed", "err", err)
	}

	api.Created(w, map[string]string{"id": goalID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	goalID := chi.URLParam(r, "goalID")

	goal, err := h.Service.GetGoal(r.Context(), goalID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	supervisorID, err := h.liveSupervisor(r, goal.EmployeeID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !access.CanAccessGoal(caller, access.GoalView{EmployeeID: goal.EmployeeID, EmployeeSupervisorID: supervisorID}) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, goal, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	goalID := chi.URLParam(r, "goalID")

	current, err := h.Service.GetGoal(r.Context(), goalID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	supervisorID, err := h.liveSupervisor(r, current.EmployeeID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !access.CanAccessGoal(caller, access.GoalView{EmployeeID: current.EmployeeID, EmployeeSupervisorID: supervisorID}) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		DueDate     *string `json:"dueDate"`
		EmployeeID  *string `json:"employeeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if payload.Title != nil {
		current.Title = *payload.Title
	}
	if payload.Description != nil {
		current.Description = *payload.Description
	}
	if payload.Status != nil {
		if !performance.ValidGoalStatus(*payload.Status) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown goal status", middleware.GetRequestID(r.Context()))
			return
		}
		current.Status = *payload.Status
	}
	if payload.DueDate != nil {
		parsed, err := shared.ParseDatePtr(*payload.DueDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid due date", middleware.GetRequestID(r.Context()))
			return
		}
		current.DueDate = parsed
	}
	if current.Title == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "title required", middleware.GetRequestID(r.Context()))
		return
	}

	// Reassignment to another employee is an admin move; the supervisor
	// column is re-derived from the new employee's current supervisor.
	if payload.EmployeeID != nil && *payload.EmployeeID != current.EmployeeID {
		if !access.CanManageUsers(caller) {
			api.Fail(w, http.StatusForbidden, "forbidden", "only an admin may reassign a goal", middleware.GetRequestID(r.Context()))
			return
		}
		newSupervisorID, err := h.liveSupervisor(r, *payload.EmployeeID)
		if err != nil {
			shared.WriteStoreError(w, r, err)
			return
		}
		if _, err := h.Service.ReassignGoalEmployee(r.Context(), goalID, *payload.EmployeeID, newSupervisorID); err != nil {
			shared.WriteStoreError(w, r, err)
			return
		}
		if err := h.Notify.Emit(r.Context(), notifications.GoalAssigned{
			ActorID:    caller.UserID,
			ActorName:  h.callerName(r, caller.UserID),
			EmployeeID: *payload.EmployeeID,
			GoalID:     goalID,
			GoalTitle:  current.Title,
		}); err != nil {
			slog.Warn("goal reassigned notification failed", "err", err)
		}
	}

	updated, err := h.Service.UpdateGoal(r.Context(), goalID, *current)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "goal not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": goalID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	goalID := chi.URLParam(r, "goalID")

	goal, err := h.Service.GetGoal(r.Context(), goalID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	supervisorID, err := h.liveSupervisor(r, goal.EmployeeID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !access.CanAccessGoal(caller, access.GoalView{EmployeeID: goal.EmployeeID, EmployeeSupervisorID: supervisorID}) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	if _, err := h.Service.DeleteGoal(r.Context(), goalID); err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"id": goalID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListScores(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r)
	scores, err := h.Service.ListScores(r.Context(), page.PageSize, page.Offset())
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, scores, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateScore(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	var payload struct {
		EmployeeID     string  `json:"employeeId"`
		CriteriaID     string  `json:"criteriaId"`
		Score          float64 `json:"score"`
		Comments       string  `json:"comments"`
		EvaluationDate string  `json:"evaluationDate"`
		EvaluatorID    string  `json:"evaluatorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EvaluatorID == "" {
		payload.EvaluatorID = caller.UserID
	}

	if !access.CanCreateScore(caller, payload.EvaluatorID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "evaluator must be the authenticated caller", middleware.GetRequestID(r.Context()))
		return
	}

	score, ok := performance.ScoreFromPayload(payload.Score)
	v := shared.NewValidator().
		Require("employeeId", payload.EmployeeID).
		Require("criteriaId", payload.CriteriaID).
		Check(ok, "score", "must be a whole number from 1 to 5")
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	evaluationDate := time.Now().UTC()
	if payload.EvaluationDate != "" {
		parsed, err := shared.ParseDate(payload.EvaluationDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid evaluation date", middleware.GetRequestID(r.Context()))
			return
		}
		evaluationDate = parsed
	}

	scoreID, err := h.Service.CreateScore(r.Context(), performance.PerformanceScore{
		EmployeeID:     payload.EmployeeID,
		CriteriaID:     payload.CriteriaID,
		Score:          score,
		Comments:       payload.Comments,
		EvaluationDate: evaluationDate,
		EvaluatorID:    payload.EvaluatorID,
	})
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}

	criteriaName, err := h.Service.CriteriaName(r.Context(), payload.CriteriaID)
	if err != nil {
		slog.Warn("criteria name lookup failed", "err", err)
	}
	if err := h.Notify.Emit(r.Context(), notifications.EvaluationCompleted{
		ActorID:      caller.UserID,
		ActorName:    h.callerName(r, caller.UserID),
		EmployeeID:   payload.EmployeeID,
		CriteriaName: criteriaName,
	}); err != nil {
		slog.Warn("evaluation completed notification failed", "err", err)
	}

	api.Created(w, map[string]string{"id": scoreID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	scoreID := chi.URLParam(r, "scoreID")
	deleted, err := h.Service.DeleteScore(r.Context(), scoreID)
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	if !deleted {
		api.Fail(w, http.StatusNotFound, "not_found", "score not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": scoreID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.Service.ListCriteria(r.Context())
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, criteria, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCriteria(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Weight      *float64 `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator().Require("name", payload.Name)
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	id, err := h.Service.CreateCriteria(r.Context(), performance.EvaluationCriteria{
		Name:        payload.Name,
		Description: payload.Description,
		Weight:      payload.Weight,
	})
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteCriteria(w http.ResponseWriter, r *http.Request) {
	criteriaID := chi.URLParam(r, "criteriaID")
	if err := h.Service.DeleteCriteria(r.Context(), criteriaID); err != nil {
		if errors.Is(err, performance.ErrCriteriaInUse) {
			api.Fail(w, http.StatusConflict, "criteria_in_use", "criteria is referenced by existing scores", middleware.GetRequestID(r.Context()))
			return
		}
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"id": criteriaID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListWorkOutputs(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r)
	outputs, err := h.Service.ListWorkOutputs(r.Context(), page.PageSize, page.Offset())
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, outputs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateWorkOutput(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	var payload struct {
		EmployeeID     string `json:"employeeId"`
		Title          string `json:"title"`
		Description    string `json:"description"`
		FileURL        string `json:"fileUrl"`
		SubmissionDate string `json:"submissionDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		payload.EmployeeID = caller.UserID
	}

	v := shared.NewValidator().Require("title", payload.Title)
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	submissionDate := time.Now().UTC()
	if payload.SubmissionDate != "" {
		parsed, err := shared.ParseDate(payload.SubmissionDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid submission date", middleware.GetRequestID(r.Context()))
			return
		}
		submissionDate = parsed
	}

	id, err := h.Service.CreateWorkOutput(r.Context(), performance.WorkOutput{
		EmployeeID:     payload.EmployeeID,
		Title:          payload.Title,
		Description:    payload.Description,
		FileURL:        payload.FileURL,
		SubmissionDate: submissionDate,
	})
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r)
	records, err := h.Service.ListAttendance(r.Context(), page.PageSize, page.Offset())
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateAttendance(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())

	var payload struct {
		EmployeeID string `json:"employeeId"`
		Date       string `json:"date"`
		Status     string `json:"status"`
		Notes      string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		payload.EmployeeID = caller.UserID
	}
	if payload.Status == "" {
		payload.Status = performance.AttendancePresent
	}

	v := shared.NewValidator().
		Require("date", payload.Date).
		Check(performance.ValidAttendanceStatus(payload.Status), "status", "unknown attendance status")
	if !v.Valid() {
		shared.FailValidation(w, r, v)
		return
	}

	date, err := shared.ParseDate(payload.Date)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.CreateAttendance(r.Context(), performance.AttendanceRecord{
		EmployeeID: payload.EmployeeID,
		Date:       date,
		Status:     payload.Status,
		Notes:      payload.Notes,
	})
	if err != nil {
		shared.WriteStoreError(w, r, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) callerName(r *http.Request, userID string) string {
	name, err := h.Users.UserName(r.Context(), userID)
	if err != nil {
		slog.Warn("actor name lookup failed", "err", err)
		return ""
	}
	return name
}
