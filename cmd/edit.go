/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/focusflow/internal/recurrence"
	"github.com/josephgoksu/focusflow/internal/temporal"
	"github.com/josephgoksu/focusflow/internal/ui"
	"github.com/josephgoksu/focusflow/models"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Change a task's title, priority, deadline, or cadence",
	Long: `Edit fields of an existing task.

Deadlines given as phrases resolve against the current moment; a bare
date lands at 9am, not midnight, so the task is not overdue before the
day has started. Changing the cadence of a habit recomputes when it is
next due.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle       string
	editDescription string
	editPriority    int
	editDeadline    string
	editEvery       string
)

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description")
	editCmd.Flags().IntVar(&editPriority, "priority", 0, "New priority, 1 (highest) to 5")
	editCmd.Flags().StringVar(&editDeadline, "deadline", "", "New deadline phrase, e.g. 'tomorrow' or '2026-03-01'")
	editCmd.Flags().StringVar(&editEvery, "every", "", "New cadence for a habit, e.g. 'daily' or 'every monday at 9am'")
}

func runEdit(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	task, err := resolveTask(taskStore, args[0])
	if err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{}

	if cmd.Flags().Changed("title") {
		updates["title"] = editTitle
	}
	if cmd.Flags().Changed("description") {
		updates["description"] = editDescription
	}
	if cmd.Flags().Changed("priority") {
		updates["priority"] = models.ClampPriority(editPriority)
	}

	if cmd.Flags().Changed("deadline") {
		if task.Kind == models.KindHabit {
			return fmt.Errorf("habits have a cadence, not a deadline; use --every")
		}
		// Morning anchor: an edited deadline should start the day owing
		// nothing, unlike creation-time phrases which close out the day.
		deadline, ok := temporal.ResolveDeadline(editDeadline, now, temporal.MorningStart)
		if !ok {
			return fmt.Errorf("could not understand deadline %q", editDeadline)
		}
		updates["deadline"] = deadline
		updates["nextDueAt"] = deadline
	}

	if cmd.Flags().Changed("every") {
		if task.Kind != models.KindHabit {
			return fmt.Errorf("only habits have a cadence; use --deadline for one-off tasks")
		}
		timing := temporal.ResolveRecurrenceTiming(editEvery)
		rule := models.RecurrenceRule{
			Frequency:    editEvery,
			DayOfWeek:    timing.DayOfWeek,
			Hour:         timing.Hour,
			Minute:       timing.Minute,
			ExplicitTime: timing.Explicit,
		}
		next := recurrence.NextDueAt(rule, now)
		updates["recurrence"] = &rule
		updates["nextDueAt"] = next
	}

	if len(updates) == 0 {
		return fmt.Errorf("nothing to change; pass at least one of --title, --description, --priority, --deadline, --every")
	}

	saved, err := taskStore.UpdateTask(task.ID, updates)
	if err != nil {
		return fmt.Errorf("failed to save edit: %w", err)
	}

	fmt.Printf("%s %s\n", ui.StyleSuccess.Render("✓ Updated"), ui.StyleTitle.Render(saved.Title))
	printTaskLine(saved, now)
	return nil
}
