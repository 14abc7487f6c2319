/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/focusflow/internal/prioritize"
	"github.com/josephgoksu/focusflow/internal/ui"
)

// currentCmd represents the current command
var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the one task to work on right now",
	Long: `Show the single task the selection policy picks as most pressing.

The choice is recomputed from scratch on every call: overdue tasks come
first, deferred tasks come last, and ties break deterministically so the
answer never flip-flops between runs.`,
	RunE: runCurrent,
}

var currentPolicy string

func init() {
	rootCmd.AddCommand(currentCmd)

	currentCmd.Flags().StringVar(&currentPolicy, "policy", "", "Selection policy: priority or duedate (default from config)")
}

func runCurrent(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	policyName := currentPolicy
	if policyName == "" {
		policyName = GetConfig().Selection.Policy
	}
	policy, err := prioritize.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	tasks, err := taskStore.ListTasks(nil, nil)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	now := time.Now()
	task, ok := prioritize.SelectCurrent(tasks, policy, now)
	if !ok {
		fmt.Println(ui.StyleSubtle.Render("Nothing to do. Add a task with 'focusflow add'."))
		return nil
	}

	printCurrentTask(task, now)
	return nil
}
