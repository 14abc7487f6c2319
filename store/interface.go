package store

import "github.com/josephgoksu/focusflow/models"

// ChangeKind identifies what happened to a task in a change notification.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change is one event on the store's subscription feed. Task carries the
// post-change record for creates and updates; for deletes only ID is set.
type Change struct {
	Kind ChangeKind
	ID   string
	Task models.Task
}

// TaskStore defines the interface for task persistence. Identity is assigned
// here: CreateTask stamps the ID, and the engine never invents one.
// Concurrent updates to the same task from two clients are last-write-wins;
// the engine does not arbitrate.
type TaskStore interface {
	// Initialize configures the store with backend-specific settings
	// (file path, data format, and so on). It must be called before any
	// other store operation.
	Initialize(config map[string]string) error

	// CreateTask adds a new task to the store, assigning its ID and
	// timestamps. It returns the created task.
	CreateTask(task models.Task) (models.Task, error)

	// GetTask retrieves a task by its unique identifier. It returns
	// types.ErrTaskNotFound (wrapped) when the id does not exist.
	GetTask(id string) (models.Task, error)

	// UpdateTask applies a field-level patch to an existing task. The
	// updates map goes from field names (JSON names: "title", "priority",
	// "nextDueAt", ...) to new values. It returns the updated task.
	UpdateTask(id string, updates map[string]interface{}) (models.Task, error)

	// DeleteTask removes a task from the store.
	DeleteTask(id string) error

	// DeleteAllTasks removes every task. Destructive.
	DeleteAllTasks() error

	// ListTasks retrieves tasks, optionally filtered and sorted. A nil
	// filterFn keeps everything; a nil sortFn returns natural order.
	ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error)

	// Subscribe returns a change feed and a cancel function. The feed is
	// push-based: selection should be re-run on every event. Events may be
	// dropped for slow consumers; the store never blocks on a subscriber.
	Subscribe() (<-chan Change, func())

	// Close releases file locks or database handles held by the store.
	Close() error
}
