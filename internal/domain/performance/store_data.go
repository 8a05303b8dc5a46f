package performance

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"perftrack/internal/domain/access"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const goalColumns = `
    id,
    title,
    COALESCE(description, ''),
    status,
    due_date,
    employee_id,
    COALESCE(supervisor_id::text, ''),
    created_at`

func (s *Store) ListGoals(ctx context.Context, scope access.GoalListScope) ([]Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals"
	var args []any
	switch {
	case scope.EmployeeID != "":
		query += " WHERE employee_id = $1"
		args = append(args, scope.EmployeeID)
	case scope.SupervisorID != "":
		// Union of the supervisor's own goals and their current direct
		// reports' goals; live supervision, not the denormalized column.
		query += ` WHERE employee_id = $1
      OR employee_id IN (SELECT id FROM users WHERE supervisor_id = $1)`
		args = append(args, scope.SupervisorID)
	case !scope.All:
		return nil, nil
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Status, &g.DueDate, &g.EmployeeID, &g.SupervisorID, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) GetGoal(ctx context.Context, goalID string) (*Goal, error) {
	var g Goal
	err := s.DB.QueryRow(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = $1", goalID).
		Scan(&g.ID, &g.Title, &g.Description, &g.Status, &g.DueDate, &g.EmployeeID, &g.SupervisorID, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g Goal) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO goals (title, description, status, due_date, employee_id, supervisor_id)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, g.Title, nullIfEmpty(g.Description), g.Status, g.DueDate, g.EmployeeID, nullIfEmpty(g.SupervisorID)).Scan(&id)
	return id, err
}

func (s *Store) UpdateGoal(ctx context.Context, goalID string, g Goal) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE goals
    SET title = $1, description = $2, status = $3, due_date = $4
    WHERE id = $5
  `, g.Title, nullIfEmpty(g.Description), g.Status, g.DueDate, goalID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ReassignGoalEmployee moves a goal to another employee and rewrites the
// denormalized supervisor column in the same statement.
func (s *Store) ReassignGoalEmployee(ctx context.Context, goalID, employeeID, supervisorID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE goals SET employee_id = $1, supervisor_id = $2 WHERE id = $3
  `, employeeID, nullIfEmpty(supervisorID), goalID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteGoal(ctx context.Context, goalID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM goals WHERE id = $1", goalID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const scoreColumns = `
    id,
    employee_id,
    criteria_id,
    score,
    COALESCE(comments, ''),
    evaluation_date,
    COALESCE(evaluator_id::text, '')`

func (s *Store) CreateScore(ctx context.Context, sc PerformanceScore) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_scores (employee_id, criteria_id, score, comments, evaluation_date, evaluator_id)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, sc.EmployeeID, sc.CriteriaID, sc.Score, nullIfEmpty(sc.Comments), sc.EvaluationDate, sc.EvaluatorID).Scan(&id)
	return id, err
}

func (s *Store) ListScores(ctx context.Context, limit, offset int) ([]PerformanceScore, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+scoreColumns+" FROM performance_scores ORDER BY evaluation_date DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PerformanceScore
	for rows.Next() {
		var sc PerformanceScore
		if err := rows.Scan(&sc.ID, &sc.EmployeeID, &sc.CriteriaID, &sc.Score, &sc.Comments, &sc.EvaluationDate, &sc.EvaluatorID); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) GetScore(ctx context.Context, scoreID string) (*PerformanceScore, error) {
	var sc PerformanceScore
	err := s.DB.QueryRow(ctx, "SELECT "+scoreColumns+" FROM performance_scores WHERE id = $1", scoreID).
		Scan(&sc.ID, &sc.EmployeeID, &sc.CriteriaID, &sc.Score, &sc.Comments, &sc.EvaluationDate, &sc.EvaluatorID)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Store) DeleteScore(ctx context.Context, scoreID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM performance_scores WHERE id = $1", scoreID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListCriteria(ctx context.Context) ([]EvaluationCriteria, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, COALESCE(description, ''), weight FROM evaluation_criteria ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EvaluationCriteria
	for rows.Next() {
		var c EvaluationCriteria
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Weight); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCriteria(ctx context.Context, c EvaluationCriteria) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO evaluation_criteria (name, description, weight)
    VALUES ($1,$2,$3)
    RETURNING id
  `, c.Name, nullIfEmpty(c.Description), c.Weight).Scan(&id)
	return id, err
}

func (s *Store) DeleteCriteria(ctx context.Context, criteriaID string) error {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM performance_scores WHERE criteria_id = $1", criteriaID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrCriteriaInUse
	}
	_, err := s.DB.Exec(ctx, "DELETE FROM evaluation_criteria WHERE id = $1", criteriaID)
	return err
}

func (s *Store) CriteriaName(ctx context.Context, criteriaID string) (string, error) {
	var name string
	if err := s.DB.QueryRow(ctx, "SELECT name FROM evaluation_criteria WHERE id = $1", criteriaID).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Store) ListWorkOutputs(ctx context.Context, limit, offset int) ([]WorkOutput, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, title, COALESCE(description, ''), COALESCE(file_url, ''), submission_date
    FROM work_outputs
    ORDER BY submission_date DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkOutput
	for rows.Next() {
		var w WorkOutput
		if err := rows.Scan(&w.ID, &w.EmployeeID, &w.Title, &w.Description, &w.FileURL, &w.SubmissionDate); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) CreateWorkOutput(ctx context.Context, w WorkOutput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO work_outputs (employee_id, title, description, file_url, submission_date)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, w.EmployeeID, w.Title, nullIfEmpty(w.Description), nullIfEmpty(w.FileURL), w.SubmissionDate).Scan(&id)
	return id, err
}

func (s *Store) ListAttendance(ctx context.Context, limit, offset int) ([]AttendanceRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, date, status, COALESCE(notes, '')
    FROM attendance_records
    ORDER BY date DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendanceRecord
	for rows.Next() {
		var a AttendanceRecord
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.Notes); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) CreateAttendance(ctx context.Context, a AttendanceRecord) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, date, status, notes)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, a.EmployeeID, a.Date, a.Status, nullIfEmpty(a.Notes)).Scan(&id)
	return id, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
