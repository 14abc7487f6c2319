package enrich

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/store"
)

type fakeParser struct {
	draft *models.TaskDraft
	err   error
	// block makes the parser wait for ctx cancellation before answering.
	block bool
}

func (f *fakeParser) ParseTask(ctx context.Context, text string) (*models.TaskDraft, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.draft, f.err
}

func newStore(t *testing.T) store.TaskStore {
	t.Helper()
	s := store.NewFileTaskStore()
	err := s.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "tasks.json"),
		"dataFileFormat": "json",
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var enrichNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func TestCreateWithoutParser(t *testing.T) {
	st := newStore(t)
	e := New(st, nil, time.Second)
	e.now = func() time.Time { return enrichNow }

	result, err := e.Create(context.Background(), "water plants every 3 days")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Enriched {
		t.Errorf("Enriched = true without a parser")
	}
	if result.Task.Pending {
		t.Errorf("Pending should be false when no enrichment is coming")
	}
	if result.Task.Kind != models.KindHabit {
		t.Errorf("rule-based parse lost the habit: %+v", result.Task)
	}
}

func TestCreateEnrichesFromDraft(t *testing.T) {
	st := newStore(t)
	parser := &fakeParser{draft: &models.TaskDraft{
		Title:    "Pay rent",
		Kind:     "single",
		Deadline: "tomorrow",
		Priority: 1,
	}}
	e := New(st, parser, time.Second)
	e.now = func() time.Time { return enrichNow }

	result, err := e.Create(context.Background(), "pay rent tomorrow urgent")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !result.Enriched {
		t.Fatalf("Enriched = false, err = %v", result.Err)
	}
	if result.Task.Pending {
		t.Errorf("Pending flag not cleared after enrichment")
	}
	if result.Task.Title != "Pay rent" {
		t.Errorf("Title = %q, want the draft title", result.Task.Title)
	}
	if result.Task.Priority != models.PriorityHighest {
		t.Errorf("Priority = %d, want %d", result.Task.Priority, models.PriorityHighest)
	}

	wantDeadline := time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)
	if result.Task.NextDueAt == nil || !result.Task.NextDueAt.Equal(wantDeadline) {
		t.Errorf("NextDueAt = %v, want %v", result.Task.NextDueAt, wantDeadline)
	}

	// The patch must have landed in the store too.
	persisted, err := st.GetTask(result.Task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if persisted.Title != "Pay rent" || persisted.Pending {
		t.Errorf("persisted record not patched: %+v", persisted)
	}
}

func TestCreateKeepsPendingRecordOnParseFailure(t *testing.T) {
	st := newStore(t)
	parser := &fakeParser{err: errors.New("model unreachable")}
	e := New(st, parser, time.Second)
	e.now = func() time.Time { return enrichNow }

	result, err := e.Create(context.Background(), "call the dentist tomorrow")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Enriched {
		t.Errorf("Enriched = true on parse failure")
	}
	if result.Err == nil {
		t.Errorf("Err should carry the parse failure")
	}
	if !result.Task.Pending {
		t.Errorf("failed enrichment must leave the pending flag set")
	}

	// Rule-based record stays fully usable.
	persisted, err := st.GetTask(result.Task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if persisted.Title == "" || persisted.NextDueAt == nil {
		t.Errorf("pending record unusable: %+v", persisted)
	}
}

func TestCreateTimesOutSlowParser(t *testing.T) {
	st := newStore(t)
	e := New(st, &fakeParser{block: true}, 20*time.Millisecond)
	e.now = func() time.Time { return enrichNow }

	start := time.Now()
	result, err := e.Create(context.Background(), "write the quarterly report")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Create took %v, deadline did not bound the parser", elapsed)
	}
	if result.Enriched {
		t.Errorf("Enriched = true after timeout")
	}
	if !errors.Is(result.Err, context.DeadlineExceeded) {
		t.Errorf("Err = %v, want context.DeadlineExceeded", result.Err)
	}
}

func TestCreateRejectsEmptyText(t *testing.T) {
	st := newStore(t)
	e := New(st, nil, time.Second)

	if _, err := e.Create(context.Background(), "   "); err == nil {
		t.Fatalf("empty text should be rejected before any write")
	}
	tasks, err := st.ListTasks(nil, nil)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("rejected create still persisted %d tasks", len(tasks))
	}
}
