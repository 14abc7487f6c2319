// Package temporal converts natural-language deadline and recurrence phrases
// into concrete instants and timing records. It never returns an error for
// fuzzy input: unresolvable phrases yield a zero value and ok=false.
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimePolicy selects the time-of-day pinned onto day-granular phrases such
// as "tomorrow" or "in 3 days".
type TimePolicy int

const (
	// EndOfDay pins 23:59:59. Used when resolving a deadline captured at
	// task creation.
	EndOfDay TimePolicy = iota
	// MorningStart pins 09:00. Used in recurrence context and when a user
	// re-edits a deadline interactively.
	MorningStart
)

// Timing is the day-of-week and time-of-day extracted from a recurrence
// phrase. The zero value (no weekday, 09:00 default) is returned for phrases
// that name neither.
type Timing struct {
	// DayOfWeek is 0 (Sunday) through 6 (Saturday), nil when the phrase does
	// not name a weekday.
	DayOfWeek *int
	Hour      int
	Minute    int
	// Explicit records whether the phrase named a time of day.
	Explicit bool
}

// DefaultHour is applied when a recurrence mentions a day or interval
// without an explicit time.
const DefaultHour = 9

var (
	leadingIntRegex = regexp.MustCompile(`(\d+)`)
	daysRegex       = regexp.MustCompile(`(\d+)\s*days?\b`)
	clockRegex      = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)

	// weekday names in time.Weekday order, index 0 = Sunday
	weekdayNames = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

	// absolute date layouts tried, in order, when no relative rule matches
	absoluteLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"Jan 2, 2006 15:04",
		"Jan 2, 2006",
		"January 2, 2006",
		"01/02/2006",
	}
)

// ResolveDeadline converts a deadline phrase into an absolute instant
// relative to ref. Rules are evaluated in priority order against the
// case-insensitive phrase; first match wins. ok is false when the phrase is
// unresolvable.
func ResolveDeadline(phrase string, ref time.Time, policy TimePolicy) (time.Time, bool) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return time.Time{}, false
	}

	switch {
	case strings.Contains(p, "hour") || strings.Contains(p, "hr"):
		n := extractLeadingInt(p, 1)
		return ref.Add(time.Duration(n) * time.Hour), true

	case strings.Contains(p, "minute") || strings.Contains(p, "min"):
		n := extractLeadingInt(p, 30)
		return ref.Add(time.Duration(n) * time.Minute), true

	case strings.Contains(p, "tomorrow"):
		return pinClock(ref.AddDate(0, 0, 1), policy), true

	case strings.Contains(p, "next week"):
		return pinClock(ref.AddDate(0, 0, 7), policy), true

	case strings.Contains(p, "today"):
		// End of the same day regardless of policy.
		return pinClock(ref, EndOfDay), true

	case daysRegex.MatchString(p) && !strings.Contains(p, "to"):
		// The "to" guard keeps "today" and "day after tomorrow"-ish phrases
		// from matching the generic N-days rule twice.
		m := daysRegex.FindStringSubmatch(p)
		n, _ := strconv.Atoi(m[1])
		return pinClock(ref.AddDate(0, 0, n), policy), true
	}

	// Fall back to a direct parse of the phrase as an absolute date/time.
	for _, layout := range absoluteLayouts {
		if ts, err := time.ParseInLocation(layout, strings.TrimSpace(phrase), ref.Location()); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ResolveRecurrenceTiming extracts a weekday and time-of-day from a
// recurrence phrase. Missing pieces fall back to defaults: no weekday, 09:00.
func ResolveRecurrenceTiming(phrase string) Timing {
	p := strings.ToLower(phrase)
	timing := Timing{Hour: DefaultHour}

	for i, name := range weekdayNames {
		if strings.Contains(p, name) {
			day := i
			timing.DayOfWeek = &day
			break
		}
	}

	if m := clockRegex.FindStringSubmatch(p); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour >= 1 && hour <= 12 && minute >= 0 && minute <= 59 {
			// 12-hour conversion: 12am -> 0, 12pm -> 12.
			if m[3] == "pm" && hour != 12 {
				hour += 12
			}
			if m[3] == "am" && hour == 12 {
				hour = 0
			}
			timing.Hour = hour
			timing.Minute = minute
			timing.Explicit = true
		}
	}

	return timing
}

// extractLeadingInt returns the first integer found in the phrase, or def
// when none is present.
func extractLeadingInt(phrase string, def int) int {
	m := leadingIntRegex.FindStringSubmatch(phrase)
	if m == nil {
		return def
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// pinClock sets the time-of-day on t according to the policy, preserving the
// date and location.
func pinClock(t time.Time, policy TimePolicy) time.Time {
	if policy == MorningStart {
		return time.Date(t.Year(), t.Month(), t.Day(), DefaultHour, 0, 0, 0, t.Location())
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SetClock returns t with its time-of-day replaced.
func SetClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
