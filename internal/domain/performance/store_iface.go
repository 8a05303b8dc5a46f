package performance

import (
	"context"

	"perftrack/internal/domain/access"
)

type StoreAPI interface {
	ListGoals(ctx context.Context, scope access.GoalListScope) ([]Goal, error)
	GetGoal(ctx context.Context, goalID string) (*Goal, error)
	CreateGoal(ctx context.Context, g Goal) (string, error)
	UpdateGoal(ctx context.Context, goalID string, g Goal) (bool, error)
	ReassignGoalEmployee(ctx context.Context, goalID, employeeID, supervisorID string) (bool, error)
	DeleteGoal(ctx context.Context, goalID string) (bool, error)

	CreateScore(ctx context.Context, sc PerformanceScore) (string, error)
	ListScores(ctx context.Context, limit, offset int) ([]PerformanceScore, error)
	GetScore(ctx context.Context, scoreID string) (*PerformanceScore, error)
	DeleteScore(ctx context.Context, scoreID string) (bool, error)

	ListCriteria(ctx context.Context) ([]EvaluationCriteria, error)
	CreateCriteria(ctx context.Context, c EvaluationCriteria) (string, error)
	DeleteCriteria(ctx context.Context, criteriaID string) error
	CriteriaName(ctx context.Context, criteriaID string) (string, error)

	ListWorkOutputs(ctx context.Context, limit, offset int) ([]WorkOutput, error)
	CreateWorkOutput(ctx context.Context, w WorkOutput) (string, error)

	ListAttendance(ctx context.Context, limit, offset int) ([]AttendanceRecord, error)
	CreateAttendance(ctx context.Context, a AttendanceRecord) (string, error)
}
