// Package normalize turns raw free text, optionally pre-processed by the
// external parser into a draft, into a fully-populated, internally
// consistent task record.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/josephgoksu/focusflow/internal/recurrence"
	"github.com/josephgoksu/focusflow/internal/temporal"
	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/types"
)

// recurrenceKeywords flag a phrase as describing a habit. Order matters: the
// first match supplies the start of the verbatim frequency string.
var recurrenceKeywords = []string{
	"every", "daily", "everyday", "weekly", "monthly", "repeat", "recurring",
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

var (
	deadlinePhraseRegex = regexp.MustCompile(`(?i)\b(in\s+\d+\s+(?:hours?|hrs?|minutes?|mins?|days?)|by\s+tomorrow|tomorrow|today|next week)\b`)
	priorityWordRegex   = regexp.MustCompile(`(?i)\b(urgent|asap|high priority|low priority|important|someday|whenever)\b`)
	spaceCollapseRegex  = regexp.MustCompile(`\s{2,}`)
)

// Normalize produces a consistent task from raw text and an optional
// external draft. It is a pure function over its inputs and now; callers are
// responsible for persistence. The only error it can return is
// types.ErrMissingTitle; fuzzy input always degrades to defaults.
func Normalize(rawText string, draft *models.TaskDraft, now time.Time) (models.Task, error) {
	raw := strings.TrimSpace(rawText)

	var task models.Task
	if draft != nil {
		task = fromDraft(raw, *draft, now)
	} else {
		task = fromRules(raw, now)
	}
	if task.Title == "" {
		return models.Task{}, types.ErrMissingTitle
	}

	// Derived due instant.
	if task.Kind == models.KindHabit {
		due := recurrence.NextDueAt(*task.Recurrence, now)
		task.NextDueAt = &due
	} else if task.Deadline != nil {
		due := *task.Deadline
		task.NextDueAt = &due
	}

	// Defaults stamped unconditionally regardless of input source. Deferred
	// and completed state belongs to the lifecycle transitions, never to
	// normalization.
	task.CreatedAt = now
	task.UpdatedAt = now
	task.Completed = false
	task.Deferred = false
	task.Reflection = ""
	task.ReflectionDate = nil
	task.CompletedAt = nil
	task.LastCompletedAt = nil

	return task, nil
}

// fromDraft validates and defaults every draft field independently.
func fromDraft(raw string, draft models.TaskDraft, now time.Time) models.Task {
	task := models.Task{
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Priority:    models.ClampPriority(draft.Priority),
	}

	kind := models.TaskKind(strings.ToLower(strings.TrimSpace(draft.Kind)))
	freq := strings.TrimSpace(draft.Frequency)
	if kind == models.KindHabit && freq != "" {
		task.Kind = models.KindHabit
		task.Recurrence = buildRule(freq, raw)
	} else {
		// Missing or invalid kind defaults to single; a habit without a
		// frequency degrades the same way.
		task.Kind = models.KindSingle
		if phrase := strings.TrimSpace(draft.Deadline); phrase != "" {
			if deadline, ok := temporal.ResolveDeadline(phrase, now, temporal.EndOfDay); ok {
				task.Deadline = &deadline
			}
		}
	}
	return task
}

// fromRules is the rule-based fallback parse used when no draft is
// available.
func fromRules(raw string, now time.Time) models.Task {
	task := models.Task{
		Priority: detectPriority(raw),
	}

	if idx := detectRecurrence(raw); idx >= 0 {
		task.Kind = models.KindHabit
		// Frequency runs from the first recurrence keyword to the end of the
		// text so interval qualifiers ("every 2 weeks") survive verbatim.
		task.Recurrence = buildRule(raw[idx:], raw)
		task.Title = cleanTitle(raw[:idx])
	} else {
		task.Kind = models.KindSingle
		if deadline, ok := temporal.ResolveDeadline(raw, now, temporal.EndOfDay); ok {
			task.Deadline = &deadline
		}
		task.Title = cleanTitle(raw)
	}
	return task
}

// detectRecurrence returns the byte offset of the first recurrence keyword
// in the phrase, or -1.
func detectRecurrence(raw string) int {
	lower := strings.ToLower(raw)
	best := -1
	for _, kw := range recurrenceKeywords {
		if idx := indexWord(lower, kw); idx >= 0 && (best == -1 || idx < best) {
			best = idx
		}
	}
	return best
}

// indexWord finds kw in s at a word boundary.
func indexWord(s, kw string) int {
	from := 0
	for {
		idx := strings.Index(s[from:], kw)
		if idx < 0 {
			return -1
		}
		idx += from
		beforeOK := idx == 0 || !isWordChar(s[idx-1])
		end := idx + len(kw)
		afterOK := end == len(s) || !isWordChar(s[end])
		if beforeOK && afterOK {
			return idx
		}
		from = idx + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// buildRule assembles a recurrence rule from the verbatim frequency phrase,
// pulling weekday and time-of-day out of the frequency first and falling
// back to the full raw text for qualifiers the frequency dropped.
func buildRule(freq, raw string) *models.RecurrenceRule {
	timing := temporal.ResolveRecurrenceTiming(freq)
	if timing.DayOfWeek == nil && !timing.Explicit && raw != freq {
		timing = temporal.ResolveRecurrenceTiming(raw)
	}
	return &models.RecurrenceRule{
		Frequency:    freq,
		DayOfWeek:    timing.DayOfWeek,
		Hour:         timing.Hour,
		Minute:       timing.Minute,
		ExplicitTime: timing.Explicit,
	}
}

// detectPriority maps urgency words onto the numeric scale (1 = highest).
// Absent markers yield the documented default.
func detectPriority(raw string) int {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "urgent") || strings.Contains(lower, "asap"):
		return models.PriorityHighest
	case strings.Contains(lower, "someday") || strings.Contains(lower, "whenever"):
		return models.PriorityLowest
	case strings.Contains(lower, "low priority"):
		return 4
	default:
		return models.PriorityDefault
	}
}

// cleanTitle strips deadline phrases and priority markers from the action
// phrase and tidies whitespace and dangling connectives.
func cleanTitle(s string) string {
	s = deadlinePhraseRegex.ReplaceAllString(s, " ")
	s = priorityWordRegex.ReplaceAllString(s, " ")
	s = spaceCollapseRegex.ReplaceAllString(strings.TrimSpace(s), " ")
	s = strings.Trim(s, " ,.;:-")
	// A dangling "in"/"by"/"at" left behind by phrase removal reads badly.
	for _, suffix := range []string{" in", " by", " at", " on"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.TrimSpace(s)
}
