package notifications

const (
	EventDeadlineApproaching = "DEADLINE_APPROACHING"
	EventReviewDue           = "REVIEW_DUE"
	EventFeedbackRequest     = "FEEDBACK_REQUEST"
	EventEvaluationCompleted = "EVALUATION_COMPLETED"
	EventNewAssignment       = "NEW_ASSIGNMENT"
)

var TriggerEvents = []string{
	EventDeadlineApproaching,
	EventReviewDue,
	EventFeedbackRequest,
	EventEvaluationCompleted,
	EventNewAssignment,
}

func ValidTriggerEvent(eventName string) bool {
	for _, candidate := range TriggerEvents {
		if eventName == candidate {
			return true
		}
	}
	return false
}
