package prompts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetPromptDefaults(t *testing.T) {
	got, err := GetPrompt(KeyParseTask, "")
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if got != ParseTaskSystemPrompt {
		t.Errorf("expected the built-in parse prompt")
	}

	if _, err := GetPrompt(PromptKey("NoSuchPrompt"), ""); err == nil {
		t.Errorf("unknown key should fail")
	}
}

func TestGetPromptFileOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "You are a terse task parser."
	if err := os.WriteFile(filepath.Join(dir, "parse_task_prompt.txt"), []byte(custom), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := GetPrompt(KeyParseTask, dir)
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if got != custom {
		t.Errorf("override not used: %q", got)
	}

	// Missing override file falls back to the default.
	fallback, err := GetPrompt(KeySuggestStart, dir)
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if fallback != SuggestStartSystemPrompt {
		t.Errorf("expected the built-in suggest prompt")
	}
}
