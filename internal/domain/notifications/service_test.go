package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeStore struct {
	StoreAPI
	created   []Notification
	templates map[string]string
	tmplErr   error
}

func (f *fakeStore) CreateNotification(ctx context.Context, recipientID, actorID, message, link string) error {
	f.created = append(f.created, Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Message:     message,
		Link:        link,
	})
	return nil
}

func (f *fakeStore) ActiveTemplate(ctx context.Context, eventName string) (string, error) {
	if f.tmplErr != nil {
		return "", f.tmplErr
	}
	return f.templates[eventName], nil
}

func TestEmitGoalAssigned(t *testing.T) {
	store := &fakeStore{}
	emitter := New(store)

	event := GoalAssigned{
		ActorID:    "sup-1",
		ActorName:  "Maria Santos",
		EmployeeID: "emp-1",
		GoalID:     "goal-1",
		GoalTitle:  "Ship Q3 report",
	}
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(store.created))
	}
	n := store.created[0]
	if n.RecipientID != "emp-1" || n.ActorID != "sup-1" {
		t.Fatalf("unexpected recipient/actor: %+v", n)
	}
	if !strings.Contains(n.Message, "Maria Santos") || !strings.Contains(n.Message, "Ship Q3 report") {
		t.Fatalf("unexpected message: %q", n.Message)
	}
	if n.Link != "/goals/goal-1" {
		t.Fatalf("unexpected link: %q", n.Link)
	}
}

func TestEmitSuppressedWhenActorIsRecipient(t *testing.T) {
	store := &fakeStore{}
	emitter := New(store)

	event := GoalAssigned{ActorID: "emp-1", EmployeeID: "emp-1", GoalID: "goal-1", GoalTitle: "Self goal"}
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("expected no notification for self-directed event, got %d", len(store.created))
	}
}

func TestEmitFeedbackGoalUsesFeedbackWording(t *testing.T) {
	store := &fakeStore{}
	emitter := New(store)

	event := GoalAssigned{
		ActorID:    "sup-1",
		ActorName:  "Maria Santos",
		EmployeeID: "emp-1",
		GoalID:     "goal-2",
		GoalTitle:  "Feedback on onboarding flow",
	}
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one notification, got %d", len(store.created))
	}
	if !strings.Contains(store.created[0].Message, "feedback") {
		t.Fatalf("expected feedback wording, got %q", store.created[0].Message)
	}
}

func TestEmitUsesActiveTriggerTemplate(t *testing.T) {
	store := &fakeStore{templates: map[string]string{
		EventNewAssignment: "New goal from {actor}: {title}",
	}}
	emitter := New(store)

	event := GoalAssigned{
		ActorID:    "admin-1",
		ActorName:  "Admin",
		EmployeeID: "emp-1",
		GoalID:     "goal-3",
		GoalTitle:  "Learn Go",
	}
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if got := store.created[0].Message; got != "New goal from Admin: Learn Go" {
		t.Fatalf("template not applied, got %q", got)
	}
}

func TestEmitFallsBackWhenTemplateLookupFails(t *testing.T) {
	store := &fakeStore{tmplErr: errors.New("db down")}
	emitter := New(store)

	event := EvaluationCompleted{
		ActorID:      "sup-1",
		ActorName:    "Maria Santos",
		EmployeeID:   "emp-1",
		CriteriaName: "Teamwork",
	}
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if !strings.Contains(store.created[0].Message, "Teamwork") {
		t.Fatalf("expected criteria name in fallback message, got %q", store.created[0].Message)
	}
}

func TestEmitSupervisorChanged(t *testing.T) {
	store := &fakeStore{}
	emitter := New(store)

	assigned := SupervisorChanged{
		ActorID:        "admin-1",
		EmployeeID:     "emp-1",
		SupervisorID:   "sup-2",
		SupervisorName: "Priya Nair",
	}
	if err := emitter.Emit(context.Background(), assigned); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	unassigned := SupervisorChanged{ActorID: "admin-1", EmployeeID: "emp-1"}
	if err := emitter.Emit(context.Background(), unassigned); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if len(store.created) != 2 {
		t.Fatalf("expected two notifications, got %d", len(store.created))
	}
	if !strings.Contains(store.created[0].Message, "Priya Nair") {
		t.Fatalf("assignment message should name the supervisor, got %q", store.created[0].Message)
	}
	if !strings.Contains(store.created[1].Message, "unassigned") {
		t.Fatalf("expected unassigned wording, got %q", store.created[1].Message)
	}
}
