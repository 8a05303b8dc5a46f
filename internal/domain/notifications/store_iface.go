package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, recipientID, actorID, message, link string) error
	ListForRecipient(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error)
	CountForRecipient(ctx context.Context, recipientID string) (int, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	ActiveTemplate(ctx context.Context, eventName string) (string, error)
	ListTriggers(ctx context.Context) ([]AutoMessageTrigger, error)
	UpdateTrigger(ctx context.Context, eventName string, t AutoMessageTrigger) (bool, error)
}
