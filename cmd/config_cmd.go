/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

// configShowCmd prints the resolved configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration after defaults, file, and env",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		// Redact the key; everything else is safe to print.
		redacted := *cfg
		if redacted.LLM.APIKey != "" {
			redacted.LLM.APIKey = "********"
		}

		out, err := yaml.Marshal(redacted)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
