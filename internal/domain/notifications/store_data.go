package notifications

import "context"

func (s *Store) CreateNotification(ctx context.Context, recipientID, actorID, message, link string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (recipient_id, actor_id, message, link)
    VALUES ($1,$2,$3,$4)
  `, recipientID, nullIfEmpty(actorID), message, nullIfEmpty(link))
	return err
}

// ListForRecipient returns the recipient's notifications newest first.
// A non-positive limit lifts the page cap.
func (s *Store) ListForRecipient(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error) {
	query := `
    SELECT id, recipient_id, COALESCE(actor_id::text, ''), message, COALESCE(link, ''), is_read, created_at
    FROM notifications
    WHERE recipient_id = $1
    ORDER BY created_at DESC`
	args := []any{recipientID}
	if limit > 0 {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.ActorID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountForRecipient(ctx context.Context, recipientID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE recipient_id = $1", recipientID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET is_read = true
    WHERE recipient_id = $1 AND is_read = false
  `, recipientID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ActiveTemplate returns the message template for an active trigger,
// empty when the trigger is missing or disabled.
func (s *Store) ActiveTemplate(ctx context.Context, eventName string) (string, error) {
	var template string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(message_template, '')
    FROM auto_message_triggers
    WHERE event_name = $1 AND is_active = true
  `, eventName).Scan(&template)
	if err != nil {
		return "", err
	}
	return template, nil
}

func (s *Store) ListTriggers(ctx context.Context) ([]AutoMessageTrigger, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, event_name, message_template, is_active, days_before_event
    FROM auto_message_triggers
    ORDER BY event_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AutoMessageTrigger
	for rows.Next() {
		var t AutoMessageTrigger
		if err := rows.Scan(&t.ID, &t.EventName, &t.MessageTemplate, &t.IsActive, &t.DaysBeforeEvent); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTrigger(ctx context.Context, eventName string, t AutoMessageTrigger) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE auto_message_triggers
    SET message_template = $1, is_active = $2, days_before_event = $3
    WHERE event_name = $4
  `, t.MessageTemplate, t.IsActive, t.DaysBeforeEvent, eventName)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
