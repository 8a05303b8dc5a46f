package performance

const (
	GoalStatusNotStarted = "NOT_STARTED"
	GoalStatusInProgress = "IN_PROGRESS"
	GoalStatusCompleted  = "COMPLETED"
	GoalStatusOnHold     = "ON_HOLD"
	GoalStatusCancelled  = "CANCELLED"

	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
	AttendanceOnLeave = "ON_LEAVE"

	ScoreMin = 1
	ScoreMax = 5
)

var GoalStatuses = []string{
	GoalStatusNotStarted,
	GoalStatusInProgress,
	GoalStatusCompleted,
	GoalStatusOnHold,
	GoalStatusCancelled,
}

var AttendanceStatuses = []string{
	AttendancePresent,
	AttendanceAbsent,
	AttendanceLate,
	AttendanceOnLeave,
}

func ValidGoalStatus(status string) bool {
	for _, candidate := range GoalStatuses {
		if status == candidate {
			return true
		}
	}
	return false
}

func ValidAttendanceStatus(status string) bool {
	for _, candidate := range AttendanceStatuses {
		if status == candidate {
			return true
		}
	}
	return false
}
