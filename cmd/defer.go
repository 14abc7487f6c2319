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
)

// deferCmd represents the defer command
var deferCmd = &cobra.Command{
	Use:   "defer [task-id]",
	Short: "Push a task to the back of the queue",
	Long: `Defer a task without completing or deleting it.

A deferred task keeps its deadline and recurrence but sorts after every
non-deferred task, so something else becomes current. No reflection is
required; use 'skip' for the guided decline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDefer,
}

func init() {
	rootCmd.AddCommand(deferCmd)
}

func runDefer(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	task, err := pickTarget(taskStore, args)
	if err != nil {
		return err
	}

	next := flow.Defer(task, time.Now())
	saved, err := taskStore.UpdateTask(task.ID, map[string]interface{}{
		"deferred":   next.Deferred,
		"deferredAt": next.DeferredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save deferral: %w", err)
	}

	fmt.Printf("%s %s\n", ui.StyleWarning.Render("Deferred"), ui.StyleTitle.Render(saved.Title))
	return nil
}
