package notifications

import "time"

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	ActorID     string    `json:"actorId"`
	Message     string    `json:"message"`
	Link        string    `json:"link"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AutoMessageTrigger struct {
	ID              string `json:"id"`
	EventName       string `json:"eventName"`
	MessageTemplate string `json:"messageTemplate"`
	IsActive        bool   `json:"isActive"`
	DaysBeforeEvent *int   `json:"daysBeforeEvent,omitempty"`
}
