/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose    bool             `mapstructure:"verbose"`
	Config     string           `mapstructure:"config"`
	Project    ProjectConfig    `mapstructure:"project" validate:"required"`
	Data       DataConfig       `mapstructure:"data" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"omitempty"`
	Reflection ReflectionConfig `mapstructure:"reflection" validate:"required"`
	Selection  SelectionConfig  `mapstructure:"selection" validate:"required"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir      string `mapstructure:"rootDir" validate:"required"`
	DataDir      string `mapstructure:"dataDir" validate:"required"`
	TemplatesDir string `mapstructure:"templatesDir" validate:"omitempty"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite"`
	File    string `mapstructure:"file" validate:"required"`
	Format  string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// LLMConfig holds configuration for LLM integration
type LLMConfig struct {
	Provider        string  `mapstructure:"provider" validate:"omitempty,oneof=openai anthropic gemini ollama"`
	ModelName       string  `mapstructure:"modelName" validate:"omitempty,min=1"`
	APIKey          string  `mapstructure:"apiKey" validate:"omitempty,min=1"`
	BaseURL         string  `mapstructure:"baseURL" validate:"omitempty,url"`
	MaxOutputTokens int     `mapstructure:"maxOutputTokens" validate:"omitempty,min=1"`
	Temperature     float64 `mapstructure:"temperature" validate:"omitempty,min=0,max=2"`
	// RequestTimeoutSeconds bounds every LLM call; on expiry the engine keeps
	// the pending record and does not retry.
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=1,max=600"`
}

// ReflectionConfig tunes the skip-with-reflection gate.
type ReflectionConfig struct {
	// MinWords is the minimum word count a reflection must reach before the
	// decline transition is accepted.
	MinWords int `mapstructure:"minWords" validate:"required,min=1"`
}

// SelectionConfig controls how the current task is chosen.
type SelectionConfig struct {
	// Policy is the default ordering policy: "priority" or "duedate".
	Policy string `mapstructure:"policy" validate:"required,oneof=priority duedate"`
}
