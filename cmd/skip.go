/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/focusflow/internal/flow"
	"github.com/josephgoksu/focusflow/internal/ui"
	"github.com/josephgoksu/focusflow/internal/utils"
	"github.com/josephgoksu/focusflow/prompts"
	"github.com/josephgoksu/focusflow/types"
)

// skipCmd represents the skip command
var skipCmd = &cobra.Command{
	Use:   "skip [task-id]",
	Short: "Decline the current task with a written reflection",
	Long: `Skip a task the guided way.

Skipping asks you to write a short reflection on why you are not doing
the task, then asks whether its priority has genuinely changed or you
are avoiding it. "changed" closes the task with a note; "avoiding"
defers it and offers a strategy to get started later.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSkip,
}

var skipReflection string

func init() {
	rootCmd.AddCommand(skipCmd)

	skipCmd.Flags().StringVar(&skipReflection, "reflection", "", "Reflection text (prompted interactively when omitted)")
}

func runSkip(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	task, err := pickTarget(taskStore, args)
	if err != nil {
		return err
	}

	minWords := GetConfig().Reflection.MinWords
	reader := bufio.NewReader(os.Stdin)

	reflection := strings.TrimSpace(skipReflection)
	now := time.Now()

	// A task already awaiting its recheck answer goes straight to the
	// question; the stored reflection stands.
	for !task.RecheckPending {
		if reflection == "" {
			fmt.Printf("Why are you skipping %s?\n", ui.StyleTitle.Render(task.Title))
			fmt.Printf("%s\n> ", ui.StyleSubtle.Render(fmt.Sprintf("(at least %d words; end with an empty line)", minWords)))
			reflection = readMultiline(reader)
		}

		next, err := flow.DeclineWithReflection(task, reflection, minWords, now)
		if err != nil {
			if errors.Is(err, types.ErrReflectionTooShort) {
				got := utils.WordCount(reflection)
				fmt.Println(ui.StyleError.Render(fmt.Sprintf("Reflection too short: %d of %d words. Try again.", got, minWords)))
				reflection = ""
				continue
			}
			return err
		}
		task = next
		break
	}

	if _, err := taskStore.UpdateTask(task.ID, map[string]interface{}{
		"reflection":     task.Reflection,
		"reflectionDate": task.ReflectionDate,
		"recheckPending": task.RecheckPending,
	}); err != nil {
		return fmt.Errorf("failed to save reflection: %w", err)
	}

	fmt.Printf("Has this task's priority %s, or are you %s it? [changed/avoiding]\n> ",
		ui.StyleTitle.Render("changed"), ui.StyleTitle.Render("avoiding"))

	for {
		answer, _ := reader.ReadString('\n')
		resolved, err := flow.ResolvePriorityRecheck(task, answer, time.Now())
		if err != nil {
			if errors.Is(err, types.ErrInvalidRecheckAnswer) {
				fmt.Print(ui.StyleError.Render("Please answer 'changed' or 'avoiding'.") + "\n> ")
				continue
			}
			return err
		}
		task = resolved
		break
	}

	updates := map[string]interface{}{
		"recheckPending": task.RecheckPending,
		"completed":      task.Completed,
		"completedAt":    task.CompletedAt,
		"completionNote": task.CompletionNote,
		"deferred":       task.Deferred,
		"deferredAt":     task.DeferredAt,
	}
	saved, err := taskStore.UpdateTask(task.ID, updates)
	if err != nil {
		return fmt.Errorf("failed to save recheck outcome: %w", err)
	}

	if saved.Completed {
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render("✓ Closed (priority changed)"), ui.StyleTitle.Render(saved.Title))
		return nil
	}

	fmt.Printf("%s %s\n", ui.StyleWarning.Render("Deferred"), ui.StyleTitle.Render(saved.Title))
	printStartSuggestion(saved.Title, saved.Description)
	return nil
}

// readMultiline collects lines until a blank one.
func readMultiline(reader *bufio.Reader) string {
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" || err != nil {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// printStartSuggestion asks the model for a getting-started strategy. Any
// failure falls back to a static one; the user never sees the error.
func printStartSuggestion(title, description string) {
	suggestion := ""
	if client := newLLMClient(); client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), llmTimeout())
		defer cancel()
		if s, err := client.Suggest(ctx, title, description); err == nil {
			suggestion = s
		}
	}
	if suggestion == "" {
		suggestion = prompts.FallbackSuggestion
	}
	fmt.Println(ui.StyleSuggestion.Render(suggestion))
}
