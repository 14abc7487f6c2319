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
	"github.com/josephgoksu/focusflow/models"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in selection order",
	RunE:  runList,
}

var (
	listFilter string
	listPolicy string
	listAll    bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listFilter, "filter", "active", "Filter: active, completed, deferred, all")
	listCmd.Flags().StringVar(&listPolicy, "policy", "", "Ordering policy: priority or duedate (default from config)")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Shorthand for --filter all")
}

func listFilterFn(filter string) (func(models.Task) bool, error) {
	switch filter {
	case "all":
		return func(models.Task) bool { return true }, nil
	case "active":
		return func(t models.Task) bool { return !t.IsTerminal() }, nil
	case "completed":
		return func(t models.Task) bool { return t.Completed }, nil
	case "deferred":
		return func(t models.Task) bool { return t.Deferred && !t.IsTerminal() }, nil
	default:
		return nil, fmt.Errorf("unknown filter '%s' (want active, completed, deferred, or all)", filter)
	}
}

func runList(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	filter := listFilter
	if listAll {
		filter = "all"
	}
	filterFn, err := listFilterFn(filter)
	if err != nil {
		return err
	}

	policyName := listPolicy
	if policyName == "" {
		policyName = GetConfig().Selection.Policy
	}
	policy, err := prioritize.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	tasks, err := taskStore.ListTasks(filterFn, nil)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println(ui.StyleSubtle.Render("No tasks."))
		return nil
	}

	now := time.Now()
	// Completed singles are not selectable, so order them by recency instead
	// of running them through the selection sort.
	if filter == "completed" {
		for _, t := range tasks {
			printTaskLine(t, now)
		}
		return nil
	}

	for _, t := range prioritize.Sort(tasks, policy, now) {
		printTaskLine(t, now)
	}
	return nil
}
