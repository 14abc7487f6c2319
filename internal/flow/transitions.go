// Package flow applies user actions to a task, producing the next persisted
// state. Transitions are pure record-in/record-out functions: callers hold
// the store and decide when to write. Re-applying a transition to a record
// already in the target state is a no-op overwrite, not an error.
package flow

import (
	"strings"
	"time"

	"github.com/josephgoksu/focusflow/internal/recurrence"
	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/types"
)

// RecheckAnswer values accepted by ResolvePriorityRecheck.
const (
	AnswerChanged  = "changed"
	AnswerAvoiding = "avoiding"
)

// Complete applies the completion action. A habit cycles back to active:
// its due instant advances exactly one cycle from the real completion
// moment, not from the missed due date, so there is no catch-up across
// multiple missed cycles. A single task becomes terminal.
func Complete(t models.Task, now time.Time) models.Task {
	if t.Kind == models.KindHabit && t.Recurrence != nil {
		last := now
		next := recurrence.NextDueAt(*t.Recurrence, now)
		t.LastCompletedAt = &last
		t.NextDueAt = &next
		t.Deferred = false
		t.DeferredAt = nil
	} else {
		done := now
		t.Completed = true
		t.CompletedAt = &done
	}
	t.UpdatedAt = now
	return t
}

// Defer flags the task as not-now. It stays persisted and visible but sorts
// after every non-deferred task. No recurrence recompute happens here.
func Defer(t models.Task, now time.Time) models.Task {
	at := now
	t.Deferred = true
	t.DeferredAt = &at
	t.UpdatedAt = now
	return t
}

// DeclineWithReflection stores the user's reflection on why they are
// avoiding the task and moves it into the awaiting-priority-recheck state.
// The reflection must reach minWords words; otherwise the transition does
// not occur and the caller must re-prompt.
func DeclineWithReflection(t models.Task, text string, minWords int, now time.Time) (models.Task, error) {
	if len(strings.Fields(text)) < minWords {
		return t, types.ErrReflectionTooShort
	}
	at := now
	t.Reflection = strings.TrimSpace(text)
	t.ReflectionDate = &at
	t.RecheckPending = true
	t.UpdatedAt = now
	return t, nil
}

// ResolvePriorityRecheck consumes the answer to "has the priority changed,
// or are you avoiding this?". "changed" treats the task as completed with an
// annotation; "avoiding" defers it. Any other answer is rejected with no
// transition.
func ResolvePriorityRecheck(t models.Task, answer string, now time.Time) (models.Task, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case AnswerChanged:
		t.RecheckPending = false
		t.CompletionNote = "priority changed"
		done := now
		t.Completed = true
		t.CompletedAt = &done
		t.UpdatedAt = now
		return t, nil
	case AnswerAvoiding:
		t.RecheckPending = false
		return Defer(t, now), nil
	default:
		return t, types.ErrInvalidRecheckAnswer
	}
}
