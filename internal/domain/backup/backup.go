package backup

import (
	"context"
	"encoding/json"
	"time"

	"perftrack/internal/domain/core"
)

type StoreAPI interface {
	Users(ctx context.Context) ([]core.User, error)
	Goals(ctx context.Context) ([]map[string]any, error)
	PerformanceScores(ctx context.Context) ([]map[string]any, error)
	EvaluationCriteria(ctx context.Context) ([]map[string]any, error)
	WorkOutputs(ctx context.Context) ([]map[string]any, error)
	AttendanceRecords(ctx context.Context) ([]map[string]any, error)
	SystemSettings(ctx context.Context) ([]map[string]any, error)
	AutoMessageTriggers(ctx context.Context) ([]map[string]any, error)
}

// Snapshot is the full-export document. Users serialize through
// core.User, whose password hash is never marshalled.
type Snapshot struct {
	GeneratedAt         time.Time        `json:"generatedAt"`
	Users               []core.User      `json:"users"`
	Goals               []map[string]any `json:"goals"`
	PerformanceScores   []map[string]any `json:"performanceScores"`
	EvaluationCriteria  []map[string]any `json:"evaluationCriteria"`
	WorkOutputs         []map[string]any `json:"workOutputs"`
	AttendanceRecords   []map[string]any `json:"attendanceRecords"`
	SystemSettings      []map[string]any `json:"systemSettings"`
	AutoMessageTriggers []map[string]any `json:"autoMessageTriggers"`
}

type Exporter struct {
	store StoreAPI
}

func New(store StoreAPI) *Exporter {
	return &Exporter{store: store}
}

// Export assembles one JSON document from all domain tables and names
// the file after the generation time.
func (e *Exporter) Export(ctx context.Context) ([]byte, string, error) {
	now := time.Now().UTC()
	snapshot := Snapshot{GeneratedAt: now}

	var err error
	if snapshot.Users, err = e.store.Users(ctx); err != nil {
		return nil, "", err
	}
	if snapshot.Goals, err = e.store.Goals(ctx); err != nil {
		return nil, "", err
	}
	if snapshot.PerformanceScores, err = e.store.PerformanceScores(ctx); err != nil {
		return nil, "", err
	}
	if snapshot.EvaluationCriteria, err = e.store.EvaluationCriteria(ctx); err != nil {
		return nil, "", err
	}
	if snapshot.WorkOutputs, err = e.store.WorkOutputs(ctx); err != nil {
		return nil, "", err
	}
	if snapshot.AttendanceRecords, err = e.store.AttendanceRecords(ctx); err != nil {
		return nil, "", err
	}
	if snapshot.SystemSettings, err = e.store.SystemSettings(ctx); err != nil {
		return nil, "", err
	}
	if snapshot.AutoMessageTriggers, err = e.store.AutoMessageTriggers(ctx); err != nil {
		return nil, "", err
	}

	doc, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, "", err
	}
	filename := "backup-" + now.Format("20060102-150405") + ".json"
	return doc, filename, nil
}
