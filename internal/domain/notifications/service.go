package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Emitter turns domain events into notification rows. Exactly one
// notification per emitted event; events where the actor is also the
// recipient are dropped.
type Emitter struct {
	store StoreAPI
}

func New(store StoreAPI) *Emitter {
	return &Emitter{store: store}
}

func (s *Emitter) Emit(ctx context.Context, event Event) error {
	recipient := event.Recipient()
	if recipient == "" || recipient == event.Actor() {
		return nil
	}
	message, link := s.render(ctx, event)
	return s.store.CreateNotification(ctx, recipient, event.Actor(), message, link)
}

func (s *Emitter) render(ctx context.Context, event Event) (string, string) {
	switch e := event.(type) {
	case GoalAssigned:
		eventName := EventNewAssignment
		fallback := "{actor} assigned you a new goal: {title}"
		if strings.Contains(strings.ToLower(e.GoalTitle), "feedback") {
			eventName = EventFeedbackRequest
			fallback = "{actor} requested your feedback: {title}"
		}
		template := s.template(ctx, eventName, fallback)
		message := applyTemplate(template, map[string]string{
			"{actor}": displayName(e.ActorName, e.ActorID),
			"{title}": e.GoalTitle,
		})
		return message, "/goals/" + e.GoalID
	case SupervisorChanged:
		if e.SupervisorID == "" {
			return "Your supervisor has been unassigned.", ""
		}
		name := displayName(e.SupervisorName, e.SupervisorID)
		return "You have been assigned supervisor " + name + ".", "/users/" + e.SupervisorID
	case EvaluationCompleted:
		template := s.template(ctx, EventEvaluationCompleted, "{actor} evaluated you on {criteria}.")
		message := applyTemplate(template, map[string]string{
			"{actor}":    displayName(e.ActorName, e.ActorID),
			"{criteria}": e.CriteriaName,
		})
		return message, "/performance-scores"
	}
	return "", ""
}

// template prefers the active auto-message trigger for the event and
// falls back to the built-in wording when none is configured.
func (s *Emitter) template(ctx context.Context, eventName, fallback string) string {
	template, err := s.store.ActiveTemplate(ctx, eventName)
	if err != nil || template == "" {
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("trigger template lookup failed", "event", eventName, "err", err)
		}
		return fallback
	}
	return template
}

func applyTemplate(template string, values map[string]string) string {
	out := template
	for placeholder, value := range values {
		out = strings.ReplaceAll(out, placeholder, value)
	}
	return out
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func (s *Emitter) List(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error) {
	return s.store.ListForRecipient(ctx, recipientID, limit, offset)
}

func (s *Emitter) Count(ctx context.Context, recipientID string) (int, error) {
	return s.store.CountForRecipient(ctx, recipientID)
}

func (s *Emitter) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return s.store.MarkAllRead(ctx, recipientID)
}

func (s *Emitter) ListTriggers(ctx context.Context) ([]AutoMessageTrigger, error) {
	return s.store.ListTriggers(ctx)
}

func (s *Emitter) UpdateTrigger(ctx context.Context, eventName string, t AutoMessageTrigger) (bool, error) {
	return s.store.UpdateTrigger(ctx, eventName, t)
}
