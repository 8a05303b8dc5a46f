package performance

import "testing"

func TestScoreFromPayload(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  int
		ok    bool
	}{
		{"minimum", 1, 1, true},
		{"maximum", 5, 5, true},
		{"middle", 3, 3, true},
		{"zero rejected", 0, 0, false},
		{"above range rejected", 6, 0, false},
		{"fractional rejected", 3.5, 0, false},
		{"negative rejected", -1, 0, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ScoreFromPayload(tc.value)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestValidGoalStatus(t *testing.T) {
	for _, status := range GoalStatuses {
		if !ValidGoalStatus(status) {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if ValidGoalStatus("DONE") {
		t.Fatal("expected unknown status to be invalid")
	}
	if ValidGoalStatus("in_progress") {
		t.Fatal("statuses are case sensitive")
	}
}

func TestValidAttendanceStatus(t *testing.T) {
	for _, status := range AttendanceStatuses {
		if !ValidAttendanceStatus(status) {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if ValidAttendanceStatus("SICK") {
		t.Fatal("expected unknown status to be invalid")
	}
}
