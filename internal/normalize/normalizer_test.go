package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/types"
)

var testNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) // Monday

func TestNormalizeMissingTitle(t *testing.T) {
	if _, err := Normalize("   ", nil, testNow); !errors.Is(err, types.ErrMissingTitle) {
		t.Fatalf("err = %v, want ErrMissingTitle", err)
	}

	draft := &models.TaskDraft{Title: ""}
	if _, err := Normalize("something", draft, testNow); !errors.Is(err, types.ErrMissingTitle) {
		t.Fatalf("draft with empty title: err = %v, want ErrMissingTitle", err)
	}
}

func TestNormalizeRuleBasedSingle(t *testing.T) {
	task, err := Normalize("submit tax forms tomorrow urgent", nil, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if task.Kind != models.KindSingle {
		t.Errorf("Kind = %s, want single", task.Kind)
	}
	if task.Title != "submit tax forms" {
		t.Errorf("Title = %q, want %q", task.Title, "submit tax forms")
	}
	if task.Priority != models.PriorityHighest {
		t.Errorf("Priority = %d, want %d", task.Priority, models.PriorityHighest)
	}

	wantDeadline := time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)
	if task.Deadline == nil || !task.Deadline.Equal(wantDeadline) {
		t.Errorf("Deadline = %v, want %v", task.Deadline, wantDeadline)
	}
	if task.NextDueAt == nil || !task.NextDueAt.Equal(wantDeadline) {
		t.Errorf("NextDueAt = %v, want it to mirror the deadline %v", task.NextDueAt, wantDeadline)
	}
}

func TestNormalizeRuleBasedHabit(t *testing.T) {
	task, err := Normalize("water the plants every 3 days", nil, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if task.Kind != models.KindHabit {
		t.Fatalf("Kind = %s, want habit", task.Kind)
	}
	if task.Title != "water the plants" {
		t.Errorf("Title = %q, want %q", task.Title, "water the plants")
	}
	if task.Recurrence == nil || task.Recurrence.Frequency != "every 3 days" {
		t.Fatalf("Recurrence = %+v, want verbatim frequency 'every 3 days'", task.Recurrence)
	}

	wantDue := time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)
	if task.NextDueAt == nil || !task.NextDueAt.Equal(wantDue) {
		t.Errorf("NextDueAt = %v, want %v", task.NextDueAt, wantDue)
	}
}

func TestNormalizeWeekdayHabit(t *testing.T) {
	task, err := Normalize("review PR queue every monday at 9am", nil, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if task.Kind != models.KindHabit {
		t.Fatalf("Kind = %s, want habit", task.Kind)
	}
	if task.Recurrence.DayOfWeek == nil || *task.Recurrence.DayOfWeek != 1 {
		t.Fatalf("DayOfWeek = %v, want Monday (1)", task.Recurrence.DayOfWeek)
	}
	// Monday 9am has passed relative to 10:00, so the habit lands next week.
	wantDue := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	if task.NextDueAt == nil || !task.NextDueAt.Equal(wantDue) {
		t.Errorf("NextDueAt = %v, want %v", task.NextDueAt, wantDue)
	}
}

func TestNormalizeLowPriorityWords(t *testing.T) {
	task, err := Normalize("clean the garage someday", nil, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if task.Priority != models.PriorityLowest {
		t.Errorf("Priority = %d, want %d", task.Priority, models.PriorityLowest)
	}
	if task.Title != "clean the garage" {
		t.Errorf("Title = %q, want %q", task.Title, "clean the garage")
	}
}

func TestNormalizeFromDraft(t *testing.T) {
	draft := &models.TaskDraft{
		Title:    "  Pay rent  ",
		Kind:     "single",
		Deadline: "tomorrow",
		Priority: 99, // out of range, clamps to default
	}
	task, err := Normalize("pay rent tomorrow", draft, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if task.Title != "Pay rent" {
		t.Errorf("Title = %q, want trimmed draft title", task.Title)
	}
	if task.Priority != models.PriorityDefault {
		t.Errorf("Priority = %d, want clamped default %d", task.Priority, models.PriorityDefault)
	}
	wantDeadline := time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)
	if task.Deadline == nil || !task.Deadline.Equal(wantDeadline) {
		t.Errorf("Deadline = %v, want %v", task.Deadline, wantDeadline)
	}
}

func TestNormalizeDraftHabitWithoutFrequencyDegrades(t *testing.T) {
	draft := &models.TaskDraft{Title: "Meditate", Kind: "habit"}
	task, err := Normalize("meditate", draft, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if task.Kind != models.KindSingle {
		t.Errorf("Kind = %s, want degradation to single", task.Kind)
	}
	if task.Recurrence != nil {
		t.Errorf("Recurrence = %+v, want nil", task.Recurrence)
	}
}

func TestNormalizeStampsLifecycleDefaults(t *testing.T) {
	task, err := Normalize("write report", nil, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if task.Completed || task.Deferred {
		t.Errorf("new task must start neither completed nor deferred")
	}
	if task.Reflection != "" || task.ReflectionDate != nil {
		t.Errorf("new task must start with no reflection")
	}
	if !task.CreatedAt.Equal(testNow) || !task.UpdatedAt.Equal(testNow) {
		t.Errorf("timestamps = %v/%v, want both %v", task.CreatedAt, task.UpdatedAt, testNow)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first, err := Normalize("water plants every 3 days", nil, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	second, err := Normalize("water plants every 3 days", nil, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if first.Title != second.Title || first.Kind != second.Kind ||
		!first.NextDueAt.Equal(*second.NextDueAt) || first.Priority != second.Priority {
		t.Errorf("same input and instant produced different records:\n%+v\n%+v", first, second)
	}
}
