package prioritize

import (
	"testing"
	"time"

	"github.com/josephgoksu/focusflow/models"
)

func tp(t time.Time) *time.Time { return &t }

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(" Priority "); err != nil || p != PolicyPriority {
		t.Errorf("ParsePolicy(priority) = %v, %v", p, err)
	}
	if p, err := ParsePolicy("duedate"); err != nil || p != PolicyDueDate {
		t.Errorf("ParsePolicy(duedate) = %v, %v", p, err)
	}
	if _, err := ParsePolicy("chaos"); err == nil {
		t.Errorf("ParsePolicy(chaos) should fail")
	}
}

func TestSortPriorityPolicy(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	overdueP2 := models.Task{ID: "a", Title: "overdue p2", Kind: models.KindSingle, Priority: 2, NextDueAt: tp(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))}
	futureP1 := models.Task{ID: "b", Title: "future p1", Kind: models.KindSingle, Priority: 1, NextDueAt: tp(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))}
	overdueP1 := models.Task{ID: "c", Title: "overdue p1", Kind: models.KindSingle, Priority: 1, NextDueAt: tp(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))}
	deferredP3 := models.Task{ID: "d", Title: "deferred p3", Kind: models.KindSingle, Priority: 3, Deferred: true, NextDueAt: tp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}

	got := Sort([]models.Task{overdueP2, futureP1, overdueP1, deferredP3}, PolicyPriority, now)

	wantIDs := []string{"c", "b", "a", "d"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("position %d = %s (%s), want %s", i, got[i].ID, got[i].Title, id)
		}
	}
}

func TestSortDueDatePolicy(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	overdueP2 := models.Task{ID: "a", Kind: models.KindSingle, Priority: 2, NextDueAt: tp(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))}
	futureP1 := models.Task{ID: "b", Kind: models.KindSingle, Priority: 1, NextDueAt: tp(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))}
	overdueP1 := models.Task{ID: "c", Kind: models.KindSingle, Priority: 1, NextDueAt: tp(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))}
	deferredP3 := models.Task{ID: "d", Kind: models.KindSingle, Priority: 3, Deferred: true, NextDueAt: tp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}

	got := Sort([]models.Task{overdueP2, futureP1, overdueP1, deferredP3}, PolicyDueDate, now)

	// Earliest overdue first, then later overdue, then future, deferred last.
	wantIDs := []string{"c", "a", "b", "d"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestSortNilDueLast(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	withDue := models.Task{ID: "due", Kind: models.KindSingle, Priority: 1, NextDueAt: tp(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))}
	noDue := models.Task{ID: "nodue", Kind: models.KindSingle, Priority: 1}

	for _, policy := range []Policy{PolicyPriority, PolicyDueDate} {
		got := Sort([]models.Task{noDue, withDue}, policy, now)
		if got[0].ID != "due" {
			t.Errorf("policy %s: task with a due instant should sort before one without", policy)
		}
	}
}

func TestSortExcludesTerminal(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	doneSingle := models.Task{ID: "done", Kind: models.KindSingle, Priority: 1, Completed: true}
	habit := models.Task{ID: "habit", Kind: models.KindHabit, Priority: 3,
		Recurrence: &models.RecurrenceRule{Frequency: "daily"},
		NextDueAt:  tp(time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC))}

	got := Sort([]models.Task{doneSingle, habit}, PolicyPriority, now)
	if len(got) != 1 || got[0].ID != "habit" {
		t.Fatalf("got %d tasks, want only the habit; completed singles are terminal", len(got))
	}
}

func TestSelectCurrentEmpty(t *testing.T) {
	if _, ok := SelectCurrent(nil, PolicyPriority, time.Now()); ok {
		t.Errorf("SelectCurrent on empty set should report ok=false")
	}
}

func TestSortDeterministicAcrossCalls(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "x", Kind: models.KindSingle, Priority: 2},
		{ID: "y", Kind: models.KindSingle, Priority: 2},
	}

	first := Sort(tasks, PolicyPriority, now)
	second := Sort(tasks, PolicyPriority, now)
	if first[0].ID != second[0].ID {
		t.Errorf("equal tasks flip-flopped between calls: %s then %s", first[0].ID, second[0].ID)
	}
}
