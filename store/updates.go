package store

import (
	"fmt"
	"time"

	"github.com/josephgoksu/focusflow/models"
)

// applyTaskUpdates mutates task according to the patch map. Keys are the
// JSON field names. Unknown keys are an error so callers notice typos
// instead of silently losing writes.
func applyTaskUpdates(task *models.Task, updates map[string]interface{}) error {
	for key, value := range updates {
		switch key {
		case "title":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			task.Title = s
		case "description":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			task.Description = s
		case "kind":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			task.Kind = models.TaskKind(s)
		case "recurrence":
			r, err := asRecurrence(key, value)
			if err != nil {
				return err
			}
			task.Recurrence = r
		case "deadline":
			t, err := asTimePtr(key, value)
			if err != nil {
				return err
			}
			task.Deadline = t
		case "nextDueAt":
			t, err := asTimePtr(key, value)
			if err != nil {
				return err
			}
			task.NextDueAt = t
		case "priority":
			n, err := asInt(key, value)
			if err != nil {
				return err
			}
			task.Priority = models.ClampPriority(n)
		case "completed":
			b, err := asBool(key, value)
			if err != nil {
				return err
			}
			task.Completed = b
		case "deferred":
			b, err := asBool(key, value)
			if err != nil {
				return err
			}
			task.Deferred = b
		case "pending":
			b, err := asBool(key, value)
			if err != nil {
				return err
			}
			task.Pending = b
		case "recheckPending":
			b, err := asBool(key, value)
			if err != nil {
				return err
			}
			task.RecheckPending = b
		case "reflection":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			task.Reflection = s
		case "reflectionDate":
			t, err := asTimePtr(key, value)
			if err != nil {
				return err
			}
			task.ReflectionDate = t
		case "completionNote":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			task.CompletionNote = s
		case "deferredAt":
			t, err := asTimePtr(key, value)
			if err != nil {
				return err
			}
			task.DeferredAt = t
		case "completedAt":
			t, err := asTimePtr(key, value)
			if err != nil {
				return err
			}
			task.CompletedAt = t
		case "lastCompletedAt":
			t, err := asTimePtr(key, value)
			if err != nil {
				return err
			}
			task.LastCompletedAt = t
		default:
			return fmt.Errorf("unknown update field: %s", key)
		}
	}
	return nil
}

func asString(key string, value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %s expects a string, got %T", key, value)
	}
	return s, nil
}

func asInt(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("field %s expects an integer, got %T", key, value)
	}
}

func asBool(key string, value interface{}) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("field %s expects a bool, got %T", key, value)
	}
	return b, nil
}

func asTimePtr(key string, value interface{}) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		return v, nil
	case time.Time:
		return &v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("field %s expects an RFC3339 time: %w", key, err)
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("field %s expects a time, got %T", key, value)
	}
}

func asRecurrence(key string, value interface{}) (*models.RecurrenceRule, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *models.RecurrenceRule:
		return v, nil
	case models.RecurrenceRule:
		return &v, nil
	default:
		return nil, fmt.Errorf("field %s expects a recurrence rule, got %T", key, value)
	}
}
