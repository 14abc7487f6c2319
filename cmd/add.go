/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/focusflow/internal/enrich"
	"github.com/josephgoksu/focusflow/internal/ui"
	"github.com/josephgoksu/focusflow/llm"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a task from free text",
	Long: `Add a task by describing it in plain language.

The task is saved immediately from a rule-based parse, then refined by the
configured language model. If the model is slow or unavailable, the saved
task stays usable as typed.

Examples:
  focusflow add "submit tax forms by friday urgent"
  focusflow add "water the plants every 3 days"
  focusflow add "review PR queue every monday at 9am"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addNoAI bool

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().BoolVar(&addNoAI, "no-ai", false, "Skip language-model parsing (rule-based only)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	rawText := strings.TrimSpace(strings.Join(args, " "))
	if rawText == "" {
		return fmt.Errorf("task text cannot be empty")
	}

	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	var parser llm.Parser
	if !addNoAI {
		if client := newLLMClient(); client != nil {
			parser = client
		}
	}

	enricher := enrich.New(taskStore, parser, llmTimeout())

	var spinner *ui.Spinner
	if parser != nil {
		spinner = ui.NewSpinner("Understanding your task...")
		spinner.Start()
	}

	result, err := enricher.Create(context.Background(), rawText)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("add task failed: %w", err)
	}

	task := result.Task
	if result.Err != nil && verbose {
		fmt.Fprintf(os.Stderr, "note: parse unavailable, kept rule-based task: %v\n", result.Err)
	}

	status := ui.StyleSuccess.Render("✓ Added")
	if task.Pending {
		status = ui.StyleWarning.Render("✓ Added (pending refinement)")
	}
	fmt.Printf("%s %s\n", status, ui.StyleTitle.Render(task.Title))
	fmt.Printf("  P%d  [%s]  %s  id: %s\n", task.Priority, describeKind(task), formatDue(task.DueInstant(), time.Now()), shortID(task.ID))
	return nil
}
