package settings

import "testing"

func TestDiffIdenticalValuesProducesNoChanges(t *testing.T) {
	current := Defaults()
	if changes := Diff(current, current); len(changes) != 0 {
		t.Fatalf("expected no changes, got %+v", changes)
	}
}

func TestDiffSingleFieldChange(t *testing.T) {
	current := Defaults()
	next := current
	next.SystemTheme = "dark"

	changes := Diff(current, next)
	if len(changes) != 1 {
		t.Fatalf("expected exactly one change, got %+v", changes)
	}
	change := changes[0]
	if change.Field != "systemTheme" {
		t.Fatalf("expected systemTheme, got %s", change.Field)
	}
	if change.Old != "light" || change.New != "dark" {
		t.Fatalf("expected old/new values, got %+v", change)
	}
}

func TestDiffMultipleFieldChanges(t *testing.T) {
	current := Defaults()
	next := current
	next.AppName = "Acme Performance"
	next.MaintenanceMode = true
	next.EmailNotifications = true

	changes := Diff(current, next)
	if len(changes) != 3 {
		t.Fatalf("expected three changes, got %+v", changes)
	}

	fields := map[string]bool{}
	for _, c := range changes {
		fields[c.Field] = true
	}
	for _, want := range []string{"appName", "maintenanceMode", "emailNotifications"} {
		if !fields[want] {
			t.Fatalf("expected change for %s, got %+v", want, changes)
		}
	}
}
