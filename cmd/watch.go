/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/focusflow/internal/prioritize"
	"github.com/josephgoksu/focusflow/internal/ui"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the current task on screen, updating as the store changes",
	Long: `Watch the task store and re-run selection whenever a task is added,
updated, or deleted. The current task is reprinted only when the answer
actually changes. Stop with Ctrl-C.`,
	RunE: runWatch,
}

var watchPolicy string

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchPolicy, "policy", "", "Selection policy: priority or duedate (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	policyName := watchPolicy
	if policyName == "" {
		policyName = GetConfig().Selection.Policy
	}
	policy, err := prioritize.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	feed, cancel := taskStore.Subscribe()
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	// Overdue-ness is a function of time, so re-evaluate periodically even
	// without store events.
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	lastID := ""
	show := func() error {
		tasks, err := taskStore.ListTasks(nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		now := time.Now()
		task, ok := prioritize.SelectCurrent(tasks, policy, now)
		if !ok {
			if lastID != "" {
				fmt.Println(ui.StyleSubtle.Render("Nothing to do."))
				lastID = ""
			}
			return nil
		}
		if task.ID != lastID {
			printCurrentTask(task, now)
			lastID = task.ID
		}
		return nil
	}

	if err := show(); err != nil {
		return err
	}

	for {
		select {
		case _, open := <-feed:
			if !open {
				return nil
			}
			if err := show(); err != nil {
				return err
			}
		case <-ticker.C:
			if err := show(); err != nil {
				return err
			}
		case <-sigs:
			return nil
		}
	}
}
