package models

import (
	"testing"
	"time"
)

func validSingle() Task {
	return Task{
		Title:     "write report",
		Kind:      KindSingle,
		Priority:  2,
		CreatedAt: time.Now(),
	}
}

func validHabit() Task {
	return Task{
		Title:      "daily review",
		Kind:       KindHabit,
		Priority:   3,
		Recurrence: &RecurrenceRule{Frequency: "daily"},
		CreatedAt:  time.Now(),
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		task    Task
		wantErr bool
	}{
		{name: "valid single", task: validSingle()},
		{name: "valid habit", task: validHabit()},
		{
			name:    "missing title",
			task:    validSingle(),
			mutate:  func(task *Task) { task.Title = "" },
			wantErr: true,
		},
		{
			name:    "priority out of range",
			task:    validSingle(),
			mutate:  func(task *Task) { task.Priority = 6 },
			wantErr: true,
		},
		{
			name:    "habit requires recurrence",
			task:    validHabit(),
			mutate:  func(task *Task) { task.Recurrence = nil },
			wantErr: true,
		},
		{
			name:    "single forbids recurrence",
			task:    validSingle(),
			mutate:  func(task *Task) { task.Recurrence = &RecurrenceRule{Frequency: "daily"} },
			wantErr: true,
		},
		{
			name:    "unknown kind",
			task:    validSingle(),
			mutate:  func(task *Task) { task.Kind = "chore" },
			wantErr: true,
		},
		{
			name:    "malformed id",
			task:    validSingle(),
			mutate:  func(task *Task) { task.ID = "not-a-uuid" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.task
			if tt.mutate != nil {
				tt.mutate(&task)
			}
			err := ValidateStruct(task)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestClampPriority(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, PriorityDefault},
		{-3, PriorityDefault},
		{6, PriorityDefault},
		{1, 1},
		{3, 3},
		{5, 5},
	}
	for _, tt := range tests {
		if got := ClampPriority(tt.in); got != tt.want {
			t.Errorf("ClampPriority(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	task := validSingle()
	if task.IsOverdue(now) {
		t.Errorf("task without a due instant must never be overdue")
	}

	task.NextDueAt = &past
	if !task.IsOverdue(now) {
		t.Errorf("past due instant should be overdue")
	}

	task.NextDueAt = &future
	if task.IsOverdue(now) {
		t.Errorf("future due instant should not be overdue")
	}

	task.NextDueAt = &now
	if task.IsOverdue(now) {
		t.Errorf("due exactly now is not yet overdue")
	}
}

func TestIsTerminal(t *testing.T) {
	single := validSingle()
	if single.IsTerminal() {
		t.Errorf("active single is not terminal")
	}
	single.Completed = true
	if !single.IsTerminal() {
		t.Errorf("completed single is terminal")
	}

	habit := validHabit()
	habit.Completed = true
	if habit.IsTerminal() {
		t.Errorf("habits are never terminal")
	}
}
