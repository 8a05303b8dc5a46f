package performance

import "time"

type Goal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	EmployeeID   string     `json:"employeeId"`
	SupervisorID string     `json:"supervisorId"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type PerformanceScore struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	CriteriaID     string    `json:"criteriaId"`
	Score          int       `json:"score"`
	Comments       string    `json:"comments"`
	EvaluationDate time.Time `json:"evaluationDate"`
	EvaluatorID    string    `json:"evaluatorId"`
}

type EvaluationCriteria struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Weight      *float64 `json:"weight,omitempty"`
}

type WorkOutput struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	FileURL        string    `json:"fileUrl"`
	SubmissionDate time.Time `json:"submissionDate"`
}

type AttendanceRecord struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
}
