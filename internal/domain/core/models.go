package core

import "time"

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	Department   string     `json:"department"`
	Position     string     `json:"position"`
	HireDate     *time.Time `json:"hireDate,omitempty"`
	AvatarURL    string     `json:"avatarUrl"`
	Role         string     `json:"role"`
	SupervisorID string     `json:"supervisorId"`
	CreatedAt    time.Time  `json:"createdAt"`
}
