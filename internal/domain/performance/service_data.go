package performance

import (
	"context"
	"math"

	"perftrack/internal/domain/access"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// ScoreFromPayload validates a JSON-decoded score value. Scores are
// whole numbers from ScoreMin to ScoreMax; anything else is a
// validation failure, not an authorization one.
func ScoreFromPayload(value float64) (int, bool) {
	if value != math.Trunc(value) {
		return 0, false
	}
	score := int(value)
	if score < ScoreMin || score > ScoreMax {
		return 0, false
	}
	return score, true
}

func (s *Service) ListGoals(ctx context.Context, scope access.GoalListScope) ([]Goal, error) {
	return s.store.ListGoals(ctx, scope)
}

func (s *Service) GetGoal(ctx context.Context, goalID string) (*Goal, error) {
	return s.store.GetGoal(ctx, goalID)
}

func (s *Service) CreateGoal(ctx context.Context, g Goal) (string, error) {
	return s.store.CreateGoal(ctx, g)
}

func (s *Service) UpdateGoal(ctx context.Context, goalID string, g Goal) (bool, error) {
	return s.store.UpdateGoal(ctx, goalID, g)
}

func (s *Service) ReassignGoalEmployee(ctx context.Context, goalID, employeeID, supervisorID string) (bool, error) {
	return s.store.ReassignGoalEmployee(ctx, goalID, employeeID, supervisorID)
}

func (s *Service) DeleteGoal(ctx context.Context, goalID string) (bool, error) {
	return s.store.DeleteGoal(ctx, goalID)
}

func (s *Service) CreateScore(ctx context.Context, sc PerformanceScore) (string, error) {
	return s.store.CreateScore(ctx, sc)
}

func (s *Service) ListScores(ctx context.Context, limit, offset int) ([]PerformanceScore, error) {
	return s.store.ListScores(ctx, limit, offset)
}

func (s *Service) GetScore(ctx context.Context, scoreID string) (*PerformanceScore, error) {
	return s.store.GetScore(ctx, scoreID)
}

func (s *Service) DeleteScore(ctx context.Context, scoreID string) (bool, error) {
	return s.store.DeleteScore(ctx, scoreID)
}

func (s *Service) ListCriteria(ctx context.Context) ([]EvaluationCriteria, error) {
	return s.store.ListCriteria(ctx)
}

func (s *Service) CreateCriteria(ctx context.Context, c EvaluationCriteria) (string, error) {
	return s.store.CreateCriteria(ctx, c)
}

func (s *Service) DeleteCriteria(ctx context.Context, criteriaID string) error {
	return s.store.DeleteCriteria(ctx, criteriaID)
}

func (s *Service) CriteriaName(ctx context.Context, criteriaID string) (string, error) {
	return s.store.CriteriaName(ctx, criteriaID)
}

func (s *Service) ListWorkOutputs(ctx context.Context, limit, offset int) ([]WorkOutput, error) {
	return s.store.ListWorkOutputs(ctx, limit, offset)
}

func (s *Service) CreateWorkOutput(ctx context.Context, w WorkOutput) (string, error) {
	return s.store.CreateWorkOutput(ctx, w)
}

func (s *Service) ListAttendance(ctx context.Context, limit, offset int) ([]AttendanceRecord, error) {
	return s.store.ListAttendance(ctx, limit, offset)
}

func (s *Service) CreateAttendance(ctx context.Context, a AttendanceRecord) (string, error) {
	return s.store.CreateAttendance(ctx, a)
}
