package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/types"
)

func newSQLiteTestStore(t *testing.T) *SQLiteTaskStore {
	t.Helper()
	s := NewSQLiteTaskStore()
	if err := s.Initialize(map[string]string{"dbPath": filepath.Join(t.TempDir(), "tasks.db")}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newSQLiteTestStore(t)

	due := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	monday := 1
	habit := models.Task{
		Title:    "weekly review",
		Kind:     models.KindHabit,
		Priority: 2,
		Recurrence: &models.RecurrenceRule{
			Frequency: "every monday at 9am",
			DayOfWeek: &monday,
			Hour:      9, ExplicitTime: true,
		},
		NextDueAt: &due,
	}

	created, err := s.CreateTask(habit)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("no ID assigned")
	}

	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Recurrence == nil || got.Recurrence.Frequency != "every monday at 9am" {
		t.Errorf("recurrence lost in round trip: %+v", got.Recurrence)
	}
	if got.Recurrence.DayOfWeek == nil || *got.Recurrence.DayOfWeek != 1 {
		t.Errorf("DayOfWeek lost: %+v", got.Recurrence)
	}
	if got.NextDueAt == nil || !got.NextDueAt.Equal(due) {
		t.Errorf("NextDueAt = %v, want %v", got.NextDueAt, due)
	}
}

func TestSQLiteStoreUpdateAndDelete(t *testing.T) {
	s := newSQLiteTestStore(t)

	created, err := s.CreateTask(models.Task{Title: "draft email", Kind: models.KindSingle, Priority: 3})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	updated, err := s.UpdateTask(created.ID, map[string]interface{}{
		"title":    "send email",
		"priority": 1,
		"deferred": true,
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Title != "send email" || updated.Priority != 1 || !updated.Deferred {
		t.Errorf("update not applied: %+v", updated)
	}

	if _, err := s.UpdateTask("ffffffff-ffff-4fff-8fff-ffffffffffff", map[string]interface{}{"title": "x"}); !errors.Is(err, types.ErrTaskNotFound) {
		t.Errorf("update of missing task err = %v, want ErrTaskNotFound", err)
	}

	if err := s.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := s.GetTask(created.ID); !errors.Is(err, types.ErrTaskNotFound) {
		t.Errorf("deleted task still present: %v", err)
	}
}

func TestSQLiteStoreListFilter(t *testing.T) {
	s := newSQLiteTestStore(t)

	for _, title := range []string{"one", "two", "three"} {
		if _, err := s.CreateTask(models.Task{Title: title, Kind: models.KindSingle, Priority: 2}); err != nil {
			t.Fatalf("CreateTask(%s): %v", title, err)
		}
	}

	got, err := s.ListTasks(func(task models.Task) bool { return task.Title == "two" }, nil)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(got) != 1 || got[0].Title != "two" {
		t.Errorf("filter returned %+v", got)
	}
}
