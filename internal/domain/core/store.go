package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = `
    id,
    name,
    email,
    password_hash,
    COALESCE(department, ''),
    COALESCE(position, ''),
    hire_date,
    COALESCE(avatar_url, ''),
    role,
    COALESCE(supervisor_id::text, ''),
    created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Department, &u.Position,
		&u.HireDate, &u.AvatarURL, &u.Role, &u.SupervisorID, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*User, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", userID)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) CreateUser(ctx context.Context, u User, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, department, position, hire_date, avatar_url, role, supervisor_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, u.Name, u.Email, passwordHash, nullIfEmpty(u.Department), nullIfEmpty(u.Position),
		u.HireDate, nullIfEmpty(u.AvatarURL), u.Role, nullIfEmpty(u.SupervisorID)).Scan(&id)
	return id, err
}

func (s *Store) UpdateUser(ctx context.Context, userID string, u User) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET name = $1, department = $2, position = $3, hire_date = $4, avatar_url = $5, role = $6
    WHERE id = $7
  `, u.Name, nullIfEmpty(u.Department), nullIfEmpty(u.Position), u.HireDate, nullIfEmpty(u.AvatarURL), u.Role, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) SupervisesCount(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE supervisor_id = $1", userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteUser refuses to remove a user who still supervises others.
// Evaluator references on performance scores are nulled by the schema.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	count, err := s.SupervisesCount(ctx, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSupervisesOthers
	}
	_, err = s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
	return err
}

func (s *Store) PasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	if err := s.DB.QueryRow(ctx, "SELECT password_hash FROM users WHERE id = $1", userID).Scan(&hash); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID, hash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", hash, userID)
	return err
}

// SupervisorOf returns the user's current supervisor id, empty when
// unassigned.
func (s *Store) SupervisorOf(ctx context.Context, userID string) (string, error) {
	var supervisorID string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(supervisor_id::text, '') FROM users WHERE id = $1", userID).Scan(&supervisorID)
	if err != nil {
		return "", err
	}
	return supervisorID, nil
}

func (s *Store) IsDirectReport(ctx context.Context, supervisorID, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM users WHERE id = $1 AND supervisor_id = $2
  `, employeeID, supervisorID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AssignSupervisor sets or clears one employee's supervisor and returns
// the previous assignment.
func (s *Store) AssignSupervisor(ctx context.Context, employeeID, supervisorID string) (string, error) {
	previous, err := s.SupervisorOf(ctx, employeeID)
	if err != nil {
		return "", err
	}
	_, err = s.DB.Exec(ctx, "UPDATE users SET supervisor_id = $1 WHERE id = $2", nullIfEmpty(supervisorID), employeeID)
	if err != nil {
		return "", err
	}
	return previous, nil
}

// BatchAssignSupervisor reassigns many employees in one statement so
// the change is all-or-nothing.
func (s *Store) BatchAssignSupervisor(ctx context.Context, employeeIDs []string, supervisorID string) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET supervisor_id = $1 WHERE id = ANY($2)
  `, nullIfEmpty(supervisorID), employeeIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) UserName(ctx context.Context, userID string) (string, error) {
	var name string
	if err := s.DB.QueryRow(ctx, "SELECT name FROM users WHERE id = $1", userID).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE id = $1", userID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
