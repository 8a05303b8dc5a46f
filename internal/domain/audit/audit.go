package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Action     string          `json:"action"`
	TargetType string          `json:"targetType"`
	TargetID   string          `json:"targetId"`
	Details    json.RawMessage `json:"details,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Record appends one audit row. An empty userID marks an
// unauthenticated event. Callers treat failures as best-effort: log
// and move on, never fail the primary operation.
func (s *Service) Record(ctx context.Context, userID, action, targetType, targetID string, details any) error {
	var detailsJSON []byte
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_logs (user_id, action, target_type, target_id, details)
    VALUES ($1,$2,$3,$4,$5)
  `, nullIfEmpty(userID), action, targetType, nullIfEmpty(targetID), detailsJSON)
	return err
}

// List returns the latest 100 entries, newest first, optionally
// filtered to one action.
func (s *Service) List(ctx context.Context, action string) ([]Entry, error) {
	query := `
    SELECT id, COALESCE(user_id::text, ''), action, COALESCE(target_type, ''), COALESCE(target_id, ''), details, created_at
    FROM audit_logs`
	var args []any
	if action != "" {
		query += " WHERE action = $1"
		args = append(args, action)
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.TargetType, &e.TargetID, &e.Details, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
