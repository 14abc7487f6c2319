package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskKind discriminates one-off tasks from recurring habits.
type TaskKind string

const (
	// KindSingle is a one-time task, optionally with a deadline, terminal on
	// completion.
	KindSingle TaskKind = "single"
	// KindHabit is a recurring task tracked by next-due-instant. Completing a
	// habit never destroys it; its due/last-completed instants advance.
	KindHabit TaskKind = "habit"
)

// Priority bounds and default. 1 is the highest urgency in the priority-first
// selection policy; the due-date-first policy uses the same numeric order as
// a late tie-breaker.
const (
	PriorityHighest = 1
	PriorityLowest  = 5
	PriorityDefault = 2
)

// RecurrenceRule describes when a habit comes due again. Frequency keeps the
// cadence phrase verbatim ("daily", "every 2 weeks", ...); DayOfWeek and the
// time-of-day fields carry what the temporal resolver extracted from it.
type RecurrenceRule struct {
	Frequency string `json:"frequency" yaml:"frequency" toml:"frequency" validate:"required,min=1"`
	// DayOfWeek is 0 (Sunday) through 6 (Saturday) when the rule names a
	// weekday, nil otherwise.
	DayOfWeek *int `json:"dayOfWeek,omitempty" yaml:"dayOfWeek,omitempty" toml:"dayOfWeek,omitempty" validate:"omitempty,min=0,max=6"`
	Hour      int  `json:"hour" yaml:"hour" toml:"hour" validate:"min=0,max=23"`
	Minute    int  `json:"minute" yaml:"minute" toml:"minute" validate:"min=0,max=59"`
	// ExplicitTime records whether the phrase named a time of day; when false
	// the 09:00 default applies.
	ExplicitTime bool `json:"explicitTime" yaml:"explicitTime" toml:"explicitTime"`
}

// Task is the central entity of the engine.
type Task struct {
	// ID is assigned by the store at creation; the engine never invents it.
	ID          string   `json:"id" yaml:"id" toml:"id" validate:"omitempty,uuid4"`
	Title       string   `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Kind        TaskKind `json:"kind" yaml:"kind" toml:"kind" validate:"required,oneof=single habit"`

	// Recurrence is present iff Kind == habit.
	Recurrence *RecurrenceRule `json:"recurrence,omitempty" yaml:"recurrence,omitempty" toml:"recurrence,omitempty"`

	// Deadline is only meaningful for single tasks.
	Deadline *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty" toml:"deadline,omitempty"`
	// NextDueAt is the single field selection reads for due-ness. For habits
	// it is always set after normalization; for singles it mirrors Deadline
	// (nil when no deadline was given).
	NextDueAt *time.Time `json:"nextDueAt,omitempty" yaml:"nextDueAt,omitempty" toml:"nextDueAt,omitempty"`

	Priority int `json:"priority" yaml:"priority" toml:"priority" validate:"min=1,max=5"`

	Completed bool `json:"completed" yaml:"completed" toml:"completed"`
	Deferred  bool `json:"deferred" yaml:"deferred" toml:"deferred"`
	// Pending marks a task whose text has been saved but not yet enriched by
	// the external parser; cleared once normalization completes.
	Pending bool `json:"pending,omitempty" yaml:"pending,omitempty" toml:"pending,omitempty"`
	// RecheckPending marks a task that has a stored reflection and is waiting
	// for the priority-recheck answer.
	RecheckPending bool `json:"recheckPending,omitempty" yaml:"recheckPending,omitempty" toml:"recheckPending,omitempty"`

	Reflection     string     `json:"reflection,omitempty" yaml:"reflection,omitempty" toml:"reflection,omitempty"`
	ReflectionDate *time.Time `json:"reflectionDate,omitempty" yaml:"reflectionDate,omitempty" toml:"reflectionDate,omitempty"`
	// CompletionNote annotates completions that did not come from the normal
	// done action, e.g. a priority recheck answered with "changed".
	CompletionNote string `json:"completionNote,omitempty" yaml:"completionNote,omitempty" toml:"completionNote,omitempty"`

	CreatedAt       time.Time  `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt       time.Time  `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
	DeferredAt      *time.Time `json:"deferredAt,omitempty" yaml:"deferredAt,omitempty" toml:"deferredAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty" toml:"completedAt,omitempty"`
	LastCompletedAt *time.Time `json:"lastCompletedAt,omitempty" yaml:"lastCompletedAt,omitempty" toml:"lastCompletedAt,omitempty"`
}

// TaskList represents a collection of tasks as stored on disk.
type TaskList struct {
	Tasks      []Task `json:"tasks" yaml:"tasks" toml:"tasks" validate:"dive"`
	TotalCount int    `json:"totalCount" yaml:"totalCount" toml:"totalCount"`
}

// DueInstant returns the instant selection should compare against, or nil
// when the task has none.
func (t Task) DueInstant() *time.Time {
	return t.NextDueAt
}

// IsOverdue reports whether the task's due instant is strictly in the past
// relative to now. Tasks without a due instant are never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	return t.NextDueAt != nil && t.NextDueAt.Before(now)
}

// IsTerminal reports whether the task is excluded from future selection.
// Only completed single tasks are terminal; habits never are.
func (t Task) IsTerminal() bool {
	return t.Kind == KindSingle && t.Completed
}

// ClampPriority forces p into the valid [1,5] range, substituting the
// documented default for out-of-range or absent values.
func ClampPriority(p int) int {
	if p < PriorityHighest || p > PriorityLowest {
		return PriorityDefault
	}
	return p
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(taskStructLevelValidation, Task{})
}

// taskStructLevelValidation enforces the kind/recurrence invariant: habit
// requires a recurrence rule, single forbids one.
func taskStructLevelValidation(sl validator.StructLevel) {
	task := sl.Current().Interface().(Task)
	switch task.Kind {
	case KindHabit:
		if task.Recurrence == nil {
			sl.ReportError(task.Recurrence, "Recurrence", "Recurrence", "required_for_habit", "")
		}
	case KindSingle:
		if task.Recurrence != nil {
			sl.ReportError(task.Recurrence, "Recurrence", "Recurrence", "forbidden_for_single", "")
		}
	}
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
