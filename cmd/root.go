/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/focusflow/llm"
	"github.com/josephgoksu/focusflow/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoTasksFound is returned when a command needs a task but none match.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focusflow",
	Short: "FocusFlow keeps you on exactly one task at a time.",
	Long: `FocusFlow is a task engine for people who find ordinary todo lists
overwhelming. You type tasks in plain language; it figures out deadlines,
recurrence, and priority, and always answers one question: what should
I be doing right now?`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.focusflow.yaml or ./.focusflow.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Bind persistent flags to Viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.Version = version
}

// GetTaskFilePath returns the full path to the tasks data file.
func GetTaskFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Project.DataDir, config.Data.File)
}

// GetStore initializes and returns the task store for the configured backend.
func GetStore() (store.TaskStore, error) {
	config := GetConfig()

	switch config.Data.Backend {
	case "sqlite":
		s := store.NewSQLiteTaskStore()
		dbPath := filepath.Join(config.Project.RootDir, config.Project.DataDir, "tasks.db")
		if err := s.Initialize(map[string]string{"dbPath": dbPath}); err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite store at %s: %w", dbPath, err)
		}
		return s, nil
	default:
		s := store.NewFileTaskStore()
		taskFilePath := GetTaskFilePath()
		err := s.Initialize(map[string]string{
			"dataFile":       taskFilePath,
			"dataFileFormat": config.Data.Format,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize store at %s: %w", taskFilePath, err)
		}
		return s, nil
	}
}

// newLLMClient builds a chat client from configuration. It returns nil when
// no provider is usable, which callers treat as parsing being disabled.
func newLLMClient() *llm.ChatClient {
	config := GetConfig()
	provider := config.LLM.Provider
	if provider == "" {
		return nil
	}

	model := config.LLM.ModelName
	if model == "" {
		model = llm.DefaultModelForProvider(provider)
	}

	client := llm.NewChatClient(llm.Config{
		Provider: provider,
		Model:    model,
		APIKey:   config.LLM.APIKey,
		BaseURL:  config.LLM.BaseURL,
	})
	client.TemplatesDir = filepath.Join(config.Project.RootDir, config.Project.TemplatesDir)
	return client
}

// llmTimeout returns the configured per-request deadline for model calls.
func llmTimeout() time.Duration {
	secs := GetConfig().LLM.RequestTimeoutSeconds
	if secs <= 0 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}
