// Package prioritize orders the task set into a single deterministic "next
// task to show". Overdue-ness depends on the evaluation instant, so orderings
// must be recomputed on every selection and never cached.
package prioritize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/josephgoksu/focusflow/models"
)

// Policy names one of the two supported orderings. The original surfaces
// genuinely exercise both, so they are kept as explicit, independently
// testable strategies rather than collapsed into one.
type Policy string

const (
	// PolicyPriority orders by numeric priority first (1 highest), then
	// overdue state, then due instant.
	PolicyPriority Policy = "priority"
	// PolicyDueDate orders by overdue state and due instant first, with
	// priority as the late tie-breaker.
	PolicyDueDate Policy = "duedate"
)

// ParsePolicy validates a policy name from config or a CLI flag.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyPriority:
		return PolicyPriority, nil
	case PolicyDueDate:
		return PolicyDueDate, nil
	default:
		return "", fmt.Errorf("unknown selection policy %q (supported: priority, duedate)", s)
	}
}

// Sort returns the candidate tasks in policy order. Completed single tasks
// are excluded before ordering; habits are never removed by completion. The
// sort is stable, so equal tasks keep their incoming order.
func Sort(tasks []models.Task, policy Policy, now time.Time) []models.Task {
	candidates := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsTerminal() {
			continue
		}
		candidates = append(candidates, t)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return less(candidates[i], candidates[j], policy, now)
	})
	return candidates
}

// SelectCurrent returns the head of the sorted, filtered sequence, or
// ok=false when no candidate remains.
func SelectCurrent(tasks []models.Task, policy Policy, now time.Time) (models.Task, bool) {
	ordered := Sort(tasks, policy, now)
	if len(ordered) == 0 {
		return models.Task{}, false
	}
	return ordered[0], true
}

// less is the strict ordering underlying both policies. Deferred tasks sort
// after non-deferred ones regardless of anything else.
func less(a, b models.Task, policy Policy, now time.Time) bool {
	if a.Deferred != b.Deferred {
		return !a.Deferred
	}

	if policy == PolicyPriority {
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if cmp, decided := compareDue(a, b, now); decided {
			return cmp
		}
		return false
	}

	// PolicyDueDate
	if cmp, decided := compareDue(a, b, now); decided {
		return cmp
	}
	return a.Priority < b.Priority
}

// compareDue orders overdue before not-overdue, then by ascending due
// instant; tasks without a due instant sort after those with one. decided is
// false when the pair is equivalent on due state.
func compareDue(a, b models.Task, now time.Time) (bool, bool) {
	aOver, bOver := a.IsOverdue(now), b.IsOverdue(now)
	if aOver != bOver {
		return aOver, true
	}

	aDue, bDue := a.DueInstant(), b.DueInstant()
	switch {
	case aDue == nil && bDue == nil:
		return false, false
	case aDue == nil:
		return false, true
	case bDue == nil:
		return true, true
	case aDue.Equal(*bDue):
		return false, false
	default:
		return aDue.Before(*bDue), true
	}
}
