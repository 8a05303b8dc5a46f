// Package access decides who may read or mutate which records. Every
// function is a pure function of the caller identity and a snapshot of
// the target resource, so the rules stay testable independently of the
// identity transport in front of them.
package access

import "perftrack/internal/domain/auth"

// Identity is the verified caller.
type Identity struct {
	UserID string
	Role   string
}

// GoalView is the slice of goal state an access decision needs.
// EmployeeSupervisorID is the goal employee's live supervisor, not the
// value denormalized onto the goal row at creation time.
type GoalView struct {
	EmployeeID           string
	EmployeeSupervisorID string
}

// CanAccessGoal covers read, update and delete of a single goal.
func CanAccessGoal(caller Identity, goal GoalView) bool {
	switch caller.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleEmployee:
		return caller.UserID == goal.EmployeeID
	case auth.RoleSupervisor:
		return caller.UserID == goal.EmployeeID || caller.UserID == goal.EmployeeSupervisorID
	}
	return false
}

// CanCreateGoalFor decides whether the caller may create a goal for the
// given employee.
func CanCreateGoalFor(caller Identity, employeeID, employeeSupervisorID string) bool {
	switch caller.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleEmployee:
		return caller.UserID == employeeID
	case auth.RoleSupervisor:
		return caller.UserID == employeeID || caller.UserID == employeeSupervisorID
	}
	return false
}

// DeriveGoalSupervisor returns the supervisor id to denormalize onto a
// new goal. A supervisor creating a goal for a direct report becomes
// that goal's supervisor; everyone else inherits the employee's current
// supervisor, which may be empty.
func DeriveGoalSupervisor(caller Identity, employeeID, employeeSupervisorID string) string {
	if caller.Role == auth.RoleSupervisor && caller.UserID != employeeID {
		return caller.UserID
	}
	return employeeSupervisorID
}

// GoalListScope narrows a goal listing. Exactly one of the fields is
// meaningful: All for admins, EmployeeID for a single-employee view,
// SupervisorID for that supervisor's own goals plus their reports'.
type GoalListScope struct {
	All          bool
	EmployeeID   string
	SupervisorID string
}

// ScopeGoalList resolves the listing scope for a caller and an optional
// employee filter. filterIsDirectReport reports whether the filtered
// employee currently has the caller as supervisor; it is ignored unless
// the caller is a supervisor filtering on somebody else.
func ScopeGoalList(caller Identity, filterEmployeeID string, filterIsDirectReport bool) (GoalListScope, bool) {
	switch caller.Role {
	case auth.RoleAdmin:
		if filterEmployeeID != "" {
			return GoalListScope{EmployeeID: filterEmployeeID}, true
		}
		return GoalListScope{All: true}, true
	case auth.RoleSupervisor:
		if filterEmployeeID == "" {
			return GoalListScope{SupervisorID: caller.UserID}, true
		}
		if filterEmployeeID == caller.UserID || filterIsDirectReport {
			return GoalListScope{EmployeeID: filterEmployeeID}, true
		}
		return GoalListScope{}, false
	case auth.RoleEmployee:
		if filterEmployeeID != "" && filterEmployeeID != caller.UserID {
			return GoalListScope{}, false
		}
		return GoalListScope{EmployeeID: caller.UserID}, true
	}
	return GoalListScope{}, false
}

// CanCreateScore enforces self-attestation: the payload's evaluator must
// be the caller, whatever the caller's role.
func CanCreateScore(caller Identity, evaluatorID string) bool {
	return caller.UserID != "" && caller.UserID == evaluatorID
}

// CanChangePassword is self-service only, even for admins.
func CanChangePassword(caller Identity, targetUserID string) bool {
	return caller.UserID == targetUserID
}

// CanManageUsers gates user CRUD and score deletion.
func CanManageUsers(caller Identity) bool {
	return caller.Role == auth.RoleAdmin
}

// CanReassignSupervisor gates both the single and the batch assignment
// endpoints. The batch variant always required an admin; the
// single-record variant is held to the same rule here.
func CanReassignSupervisor(caller Identity) bool {
	return caller.Role == auth.RoleAdmin
}

// CanAdministerSystem gates audit logs, settings, backup, reports and
// metrics.
func CanAdministerSystem(caller Identity) bool {
	return caller.Role == auth.RoleAdmin
}
