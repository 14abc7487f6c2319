// Package enrich runs the optimistic create flow: a rule-parsed record is
// persisted immediately so nothing the user typed is ever lost, then the
// language model refines it in the background within a hard deadline.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/josephgoksu/focusflow/internal/normalize"
	"github.com/josephgoksu/focusflow/llm"
	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/store"
)

// Result reports what the enricher produced. Task is always a persisted
// record; Enriched tells whether the parser's draft made it in, and Err
// carries the parse failure when it did not.
type Result struct {
	Task     models.Task
	Enriched bool
	Err      error
}

// Enricher creates tasks optimistically and upgrades them with parser output.
type Enricher struct {
	Store   store.TaskStore
	Parser  llm.Parser
	Timeout time.Duration

	// now is swapped in tests.
	now func() time.Time
}

// New returns an enricher with the given collaborators. A nil parser
// disables enrichment entirely; timeout <= 0 falls back to 30 seconds.
func New(st store.TaskStore, parser llm.Parser, timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Enricher{Store: st, Parser: parser, Timeout: timeout, now: time.Now}
}

// Create runs the full pipeline for one piece of free text. The rule-parsed
// record is written first with the pending flag set; if the parser succeeds
// in time, the record is patched with the enriched fields and the flag
// cleared. A parse failure leaves the pending record in place, fully usable.
func (e *Enricher) Create(ctx context.Context, rawText string) (Result, error) {
	now := e.now()

	provisional, err := normalize.Normalize(rawText, nil, now)
	if err != nil {
		return Result{}, err
	}
	provisional.Pending = e.Parser != nil

	created, err := e.Store.CreateTask(provisional)
	if err != nil {
		return Result{}, fmt.Errorf("persist provisional task: %w", err)
	}

	if e.Parser == nil {
		return Result{Task: created, Enriched: false}, nil
	}

	parseCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	draft, err := e.Parser.ParseTask(parseCtx, rawText)
	if err != nil {
		// The provisional record stays pending and usable. Clearing the
		// flag here would hide that enrichment never happened.
		return Result{Task: created, Enriched: false, Err: err}, nil
	}

	enriched, err := normalize.Normalize(rawText, draft, now)
	if err != nil {
		return Result{Task: created, Enriched: false, Err: err}, nil
	}

	updates := map[string]interface{}{
		"title":       enriched.Title,
		"description": enriched.Description,
		"kind":        string(enriched.Kind),
		"recurrence":  enriched.Recurrence,
		"deadline":    enriched.Deadline,
		"nextDueAt":   enriched.NextDueAt,
		"priority":    enriched.Priority,
		"pending":     false,
	}
	patched, err := e.Store.UpdateTask(created.ID, updates)
	if err != nil {
		return Result{Task: created, Enriched: false, Err: err}, nil
	}
	return Result{Task: patched, Enriched: true}, nil
}
