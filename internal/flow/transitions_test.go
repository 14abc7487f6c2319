package flow

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/types"
)

var now = time.Date(2024, 1, 10, 22, 0, 0, 0, time.UTC)

func singleTask() models.Task {
	return models.Task{ID: "s1", Title: "file expenses", Kind: models.KindSingle, Priority: 2}
}

func habitTask() models.Task {
	due := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC) // overdue
	return models.Task{
		ID: "h1", Title: "daily review", Kind: models.KindHabit, Priority: 2,
		Recurrence: &models.RecurrenceRule{Frequency: "daily"},
		NextDueAt:  &due,
	}
}

func TestCompleteSingle(t *testing.T) {
	got := Complete(singleTask(), now)

	if !got.Completed {
		t.Errorf("Completed = false, want true")
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, now)
	}
	if !got.IsTerminal() {
		t.Errorf("completed single should be terminal")
	}
}

func TestCompleteHabitReschedulesFromNow(t *testing.T) {
	got := Complete(habitTask(), now)

	if got.Completed {
		t.Errorf("habit completion must not set the terminal flag")
	}
	if got.LastCompletedAt == nil || !got.LastCompletedAt.Equal(now) {
		t.Errorf("LastCompletedAt = %v, want %v", got.LastCompletedAt, now)
	}

	// One cycle from the completion instant, not from the missed due date.
	want := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)
	if got.NextDueAt == nil || !got.NextDueAt.Equal(want) {
		t.Errorf("NextDueAt = %v, want %v", got.NextDueAt, want)
	}
	if got.IsTerminal() {
		t.Errorf("habit must never be terminal")
	}
}

func TestCompleteHabitClearsDeferral(t *testing.T) {
	task := habitTask()
	task = Defer(task, now.Add(-time.Hour))
	got := Complete(task, now)

	if got.Deferred || got.DeferredAt != nil {
		t.Errorf("completion should clear deferral, got Deferred=%v DeferredAt=%v", got.Deferred, got.DeferredAt)
	}
}

func TestDefer(t *testing.T) {
	got := Defer(singleTask(), now)
	if !got.Deferred {
		t.Errorf("Deferred = false, want true")
	}
	if got.DeferredAt == nil || !got.DeferredAt.Equal(now) {
		t.Errorf("DeferredAt = %v, want %v", got.DeferredAt, now)
	}
}

func TestDeclineWithReflectionTooShort(t *testing.T) {
	task := singleTask()
	got, err := DeclineWithReflection(task, "just not feeling it", 200, now)
	if !errors.Is(err, types.ErrReflectionTooShort) {
		t.Fatalf("err = %v, want ErrReflectionTooShort", err)
	}
	if got.RecheckPending || got.Reflection != "" {
		t.Errorf("rejected reflection must not transition the task: %+v", got)
	}
}

func TestDeclineWithReflectionAccepted(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("because I keep putting this off ", 10))
	got, err := DeclineWithReflection(singleTask(), text, 50, now)
	if err != nil {
		t.Fatalf("DeclineWithReflection: %v", err)
	}
	if !got.RecheckPending {
		t.Errorf("RecheckPending = false, want true")
	}
	if got.Reflection != text {
		t.Errorf("Reflection not stored verbatim")
	}
	if got.ReflectionDate == nil || !got.ReflectionDate.Equal(now) {
		t.Errorf("ReflectionDate = %v, want %v", got.ReflectionDate, now)
	}
}

func TestResolvePriorityRecheck(t *testing.T) {
	pending, err := DeclineWithReflection(singleTask(), strings.Repeat("word ", 20), 10, now)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("changed closes with annotation", func(t *testing.T) {
		got, err := ResolvePriorityRecheck(pending, " Changed \n", now)
		if err != nil {
			t.Fatalf("ResolvePriorityRecheck: %v", err)
		}
		if !got.Completed || got.CompletionNote != "priority changed" {
			t.Errorf("got Completed=%v note=%q", got.Completed, got.CompletionNote)
		}
		if got.RecheckPending {
			t.Errorf("RecheckPending should clear")
		}
	})

	t.Run("avoiding defers", func(t *testing.T) {
		got, err := ResolvePriorityRecheck(pending, "avoiding", now)
		if err != nil {
			t.Fatalf("ResolvePriorityRecheck: %v", err)
		}
		if !got.Deferred || got.Completed {
			t.Errorf("got Deferred=%v Completed=%v, want deferred only", got.Deferred, got.Completed)
		}
		if got.RecheckPending {
			t.Errorf("RecheckPending should clear")
		}
	})

	t.Run("anything else is rejected", func(t *testing.T) {
		got, err := ResolvePriorityRecheck(pending, "dunno", now)
		if !errors.Is(err, types.ErrInvalidRecheckAnswer) {
			t.Fatalf("err = %v, want ErrInvalidRecheckAnswer", err)
		}
		if !got.RecheckPending {
			t.Errorf("rejected answer must leave the task awaiting its recheck")
		}
	})
}
