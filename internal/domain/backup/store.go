package backup

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"perftrack/internal/domain/core"
)

type Store struct {
	DB    *pgxpool.Pool
	users *core.Store
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db, users: core.NewStore(db)}
}

func (s *Store) Users(ctx context.Context) ([]core.User, error) {
	var out []core.User
	offset := 0
	const page = 500
	for {
		batch, err := s.users.ListUsers(ctx, page, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < page {
			return out, nil
		}
		offset += page
	}
}

func (s *Store) Goals(ctx context.Context) ([]map[string]any, error) {
	return s.queryRows(ctx, "SELECT row_to_json(g) FROM goals g ORDER BY g.created_at")
}

func (s *Store) PerformanceScores(ctx context.Context) ([]map[string]any, error) {
	return s.queryRows(ctx, "SELECT row_to_json(ps) FROM performance_scores ps ORDER BY ps.evaluation_date")
}

func (s *Store) EvaluationCriteria(ctx context.Context) ([]map[string]any, error) {
	return s.queryRows(ctx, "SELECT row_to_json(ec) FROM evaluation_criteria ec ORDER BY ec.name")
}

func (s *Store) WorkOutputs(ctx context.Context) ([]map[string]any, error) {
	return s.queryRows(ctx, "SELECT row_to_json(wo) FROM work_outputs wo ORDER BY wo.submission_date")
}

func (s *Store) AttendanceRecords(ctx context.Context) ([]map[string]any, error) {
	return s.queryRows(ctx, "SELECT row_to_json(ar) FROM attendance_records ar ORDER BY ar.date")
}

func (s *Store) SystemSettings(ctx context.Context) ([]map[string]any, error) {
	return s.queryRows(ctx, "SELECT row_to_json(ss) FROM system_settings ss")
}

func (s *Store) AutoMessageTriggers(ctx context.Context) ([]map[string]any, error) {
	return s.queryRows(ctx, "SELECT row_to_json(t) FROM auto_message_triggers t ORDER BY t.event_name")
}

func (s *Store) queryRows(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var rowJSON []byte
		if err := rows.Scan(&rowJSON); err != nil {
			return nil, err
		}
		var row map[string]any
		if err := json.Unmarshal(rowJSON, &row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
