/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/focusflow/internal/flow"
	"github.com/josephgoksu/focusflow/internal/ui"
	"github.com/josephgoksu/focusflow/models"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Complete a task",
	Long: `Mark a task as completed.

With no argument the currently selected task is completed. A one-off task
becomes terminal; a habit reschedules one cycle out from right now, so
missed cycles never pile up.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	task, err := pickTarget(taskStore, args)
	if err != nil {
		return err
	}

	now := time.Now()
	next := flow.Complete(task, now)

	updates := map[string]interface{}{
		"completed":       next.Completed,
		"completedAt":     next.CompletedAt,
		"lastCompletedAt": next.LastCompletedAt,
		"nextDueAt":       next.NextDueAt,
		"deferred":        next.Deferred,
		"deferredAt":      next.DeferredAt,
	}
	saved, err := taskStore.UpdateTask(task.ID, updates)
	if err != nil {
		return fmt.Errorf("failed to save completion: %w", err)
	}

	if saved.Kind == models.KindHabit {
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render("✓ Done."), ui.StyleTitle.Render(saved.Title))
		fmt.Printf("  next %s\n", formatDue(saved.NextDueAt, now))
	} else {
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render("✓ Completed"), ui.StyleTitle.Render(saved.Title))
	}
	return nil
}
