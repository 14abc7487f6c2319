/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/focusflow/internal/prioritize"
	"github.com/josephgoksu/focusflow/internal/ui"
	"github.com/josephgoksu/focusflow/internal/utils"
	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/store"
)

// resolveTask finds a task by full ID or unique ID prefix.
func resolveTask(taskStore store.TaskStore, ref string) (models.Task, error) {
	if task, err := taskStore.GetTask(ref); err == nil {
		return task, nil
	}

	matches, err := taskStore.ListTasks(func(t models.Task) bool {
		return strings.HasPrefix(t.ID, ref)
	}, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to search tasks: %w", err)
	}

	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("no task found with ID or prefix '%s'", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("ID prefix '%s' is ambiguous (%d matches); use a longer prefix", ref, len(matches))
	}
}

// pickTarget resolves an explicit task reference, or falls back to the
// current selection when none was given.
func pickTarget(taskStore store.TaskStore, args []string) (models.Task, error) {
	if len(args) > 0 {
		return resolveTask(taskStore, args[0])
	}
	return currentSelection(taskStore)
}

// currentSelection runs the configured policy and returns its head task.
func currentSelection(taskStore store.TaskStore) (models.Task, error) {
	policy, err := prioritize.ParsePolicy(GetConfig().Selection.Policy)
	if err != nil {
		return models.Task{}, err
	}
	tasks, err := taskStore.ListTasks(nil, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	task, ok := prioritize.SelectCurrent(tasks, policy, time.Now())
	if !ok {
		return models.Task{}, ErrNoTasksFound
	}
	return task, nil
}

// formatDue renders a due instant relative to now.
func formatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return ui.StyleSubtle.Render("no deadline")
	}
	stamp := due.Local().Format("Mon Jan 2 15:04")
	if due.Before(now) {
		return ui.StyleError.Render("overdue since " + stamp)
	}
	return ui.StyleSubtle.Render("due " + stamp)
}

// describeKind renders the kind with its cadence for habits.
func describeKind(t models.Task) string {
	if t.Kind == models.KindHabit && t.Recurrence != nil {
		return fmt.Sprintf("habit (%s)", t.Recurrence.Frequency)
	}
	return string(t.Kind)
}

// printTaskLine renders one task as a list row.
func printTaskLine(t models.Task, now time.Time) {
	flags := ""
	if t.Completed {
		flags += ui.StyleSuccess.Render(" ✓")
	}
	if t.Deferred {
		flags += ui.StyleWarning.Render(" deferred")
	}
	if t.Pending {
		flags += ui.StyleSubtle.Render(" pending")
	}
	if t.RecheckPending {
		flags += ui.StyleWarning.Render(" recheck")
	}

	fmt.Printf("%s  P%d  %s  [%s]  %s%s\n",
		ui.StyleSubtle.Render(shortID(t.ID)),
		t.Priority,
		ui.StyleTitle.Render(utils.Truncate(t.Title, 60)),
		describeKind(t),
		formatDue(t.DueInstant(), now),
		flags,
	)
}

// printCurrentTask renders the single current task in a box.
func printCurrentTask(t models.Task, now time.Time) {
	lines := []string{
		ui.StyleTitle.Render(t.Title),
	}
	if t.Description != "" {
		lines = append(lines, utils.Truncate(t.Description, 200))
	}
	lines = append(lines, fmt.Sprintf("P%d  [%s]  %s", t.Priority, describeKind(t), formatDue(t.DueInstant(), now)))
	lines = append(lines, ui.StyleSubtle.Render("id: "+shortID(t.ID)))
	fmt.Println(ui.StyleCurrentBox.Render(strings.Join(lines, "\n")))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
