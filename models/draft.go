package models

// TaskDraft is the partial, untrusted record produced by the external
// text-understanding collaborator. Every field is validated and defaulted
// independently by the normalizer; nothing here is trusted as-is.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// Kind is "single" or "habit"; anything else defaults to single.
	Kind string `json:"kind"`
	// Frequency is the recurrence phrase for habits, e.g. "every 2 weeks".
	Frequency string `json:"frequency,omitempty"`
	// Deadline is a natural-language phrase ("in 2 hours", "tomorrow"),
	// never a pre-resolved timestamp. Resolution happens engine-side.
	Deadline string `json:"deadline,omitempty"`
	// Priority is 1 (highest) through 5 (lowest); out-of-range values are
	// clamped to the default.
	Priority int `json:"priority,omitempty"`
}
