package notifications

// Event is a domain change that may notify the affected user. Events
// are published by handlers after the primary write has committed;
// emission is best-effort and never rolls the primary mutation back.
type Event interface {
	Recipient() string
	Actor() string
}

// GoalAssigned fires when a goal is created for an employee.
type GoalAssigned struct {
	ActorID    string
	ActorName  string
	EmployeeID string
	GoalID     string
	GoalTitle  string
}

func (e GoalAssigned) Recipient() string { return e.EmployeeID }
func (e GoalAssigned) Actor() string     { return e.ActorID }

// SupervisorChanged fires when an employee's supervisor assignment is
// set or cleared. An empty SupervisorID means unassigned.
type SupervisorChanged struct {
	ActorID        string
	EmployeeID     string
	SupervisorID   string
	SupervisorName string
}

func (e SupervisorChanged) Recipient() string { return e.EmployeeID }
func (e SupervisorChanged) Actor() string     { return e.ActorID }

// EvaluationCompleted fires when a performance score is recorded for an
// employee.
type EvaluationCompleted struct {
	ActorID      string
	ActorName    string
	EmployeeID   string
	CriteriaName string
}

func (e EvaluationCompleted) Recipient() string { return e.EmployeeID }
func (e EvaluationCompleted) Actor() string     { return e.ActorID }
