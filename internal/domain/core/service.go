package core

import "context"

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.GetUserByEmail(ctx, email)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	return s.store.ListUsers(ctx, limit, offset)
}

func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}

func (s *Service) CreateUser(ctx context.Context, u User, passwordHash string) (string, error) {
	return s.store.CreateUser(ctx, u, passwordHash)
}

func (s *Service) UpdateUser(ctx context.Context, userID string, u User) (bool, error) {
	return s.store.UpdateUser(ctx, userID, u)
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	return s.store.DeleteUser(ctx, userID)
}

func (s *Service) PasswordHash(ctx context.Context, userID string) (string, error) {
	return s.store.PasswordHash(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, hash string) error {
	return s.store.UpdatePassword(ctx, userID, hash)
}

func (s *Service) SupervisorOf(ctx context.Context, userID string) (string, error) {
	return s.store.SupervisorOf(ctx, userID)
}

func (s *Service) IsDirectReport(ctx context.Context, supervisorID, employeeID string) (bool, error) {
	return s.store.IsDirectReport(ctx, supervisorID, employeeID)
}

func (s *Service) AssignSupervisor(ctx context.Context, employeeID, supervisorID string) (string, error) {
	return s.store.AssignSupervisor(ctx, employeeID, supervisorID)
}

func (s *Service) BatchAssignSupervisor(ctx context.Context, employeeIDs []string, supervisorID string) (int64, error) {
	return s.store.BatchAssignSupervisor(ctx, employeeIDs, supervisorID)
}

func (s *Service) UserName(ctx context.Context, userID string) (string, error) {
	return s.store.UserName(ctx, userID)
}

func (s *Service) UserExists(ctx context.Context, userID string) (bool, error) {
	return s.store.UserExists(ctx, userID)
}
