// Package recurrence computes the next due instant for habit tasks. It is
// invoked both at normalization time (reference = now) and at completion
// time (reference = the real completion instant, not the missed due date),
// so a habit completed early or late reschedules exactly one cycle forward
// with no catch-up to multiple missed cycles.
package recurrence

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/josephgoksu/focusflow/internal/temporal"
	"github.com/josephgoksu/focusflow/models"
)

var intervalRegex = regexp.MustCompile(`(\d+)\s*(day|week|month)s?\b`)

// NextDueAt computes the next due instant for the rule, strictly after ref.
//
// Resolution order: an explicit weekday wins, then named cadences, then a
// generic "<N> <unit>" interval, then a conservative +1 day fallback that
// keeps an unrecognized habit alive rather than losing it.
func NextDueAt(rule models.RecurrenceRule, ref time.Time) time.Time {
	if rule.DayOfWeek != nil {
		return nextWeekday(*rule.DayOfWeek, rule.Hour, rule.Minute, ref)
	}

	freq := strings.ToLower(rule.Frequency)
	hour, minute := temporal.DefaultHour, 0
	if rule.ExplicitTime {
		hour, minute = rule.Hour, rule.Minute
	}

	switch {
	case strings.Contains(freq, "daily") || strings.Contains(freq, "every day") || strings.Contains(freq, "everyday"):
		return temporal.SetClock(ref.AddDate(0, 0, 1), hour, minute)
	case strings.Contains(freq, "every 2 weeks") || strings.Contains(freq, "bi-weekly") || strings.Contains(freq, "biweekly"):
		return temporal.SetClock(ref.AddDate(0, 0, 14), hour, minute)
	case strings.Contains(freq, "weekly") || strings.Contains(freq, "every week"):
		return temporal.SetClock(ref.AddDate(0, 0, 7), hour, minute)
	case strings.Contains(freq, "monthly") || strings.Contains(freq, "every month"):
		// AddDate handles month rollover (Jan 31 + 1 month normalizes per
		// the standard library's calendar arithmetic).
		return temporal.SetClock(ref.AddDate(0, 1, 0), hour, minute)
	}

	if m := intervalRegex.FindStringSubmatch(freq); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n > 0 {
			switch m[2] {
			case "day":
				return temporal.SetClock(ref.AddDate(0, 0, n), hour, minute)
			case "week":
				return temporal.SetClock(ref.AddDate(0, 0, n*7), hour, minute)
			case "month":
				return temporal.SetClock(ref.AddDate(0, n, 0), hour, minute)
			}
		}
	}

	// Unrecognized free-form recurrence.
	return temporal.SetClock(ref.AddDate(0, 0, 1), hour, minute)
}

// nextWeekday returns the next occurrence of the target weekday at the given
// time of day. If the slot today has already passed, the occurrence is a full
// week out. Day-of-week arithmetic is modulo 7 and never negative.
func nextWeekday(target, hour, minute int, ref time.Time) time.Time {
	delta := (target - int(ref.Weekday()) + 7) % 7
	candidate := temporal.SetClock(ref.AddDate(0, 0, delta), hour, minute)
	if !candidate.After(ref) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
