package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/josephgoksu/focusflow/internal/utils"
	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/prompts"
	"github.com/josephgoksu/focusflow/types"
)

// Parser is the text-understanding collaborator: it turns free text into an
// untrusted draft record. Implementations must respect the context deadline
// and fail closed; on any error the engine falls back to rule-based parsing.
type Parser interface {
	ParseTask(ctx context.Context, text string) (*models.TaskDraft, error)
}

// Suggester produces a short motivational nudge for a task the user is
// avoiding. Failures are soft: callers substitute a static fallback and
// never surface the error to the user.
type Suggester interface {
	Suggest(ctx context.Context, title, description string) (string, error)
}

// ChatClient implements Parser and Suggester against an Eino chat model.
type ChatClient struct {
	cfg Config
	// TemplatesDir optionally points at per-project prompt overrides.
	TemplatesDir string
}

// NewChatClient returns a client for the configured provider. The model is
// constructed lazily per call so a misconfigured provider surfaces as a
// parse failure, not a startup crash.
func NewChatClient(cfg Config) *ChatClient {
	return &ChatClient{cfg: cfg}
}

// ParseTask sends the text to the model and decodes the draft from its
// response. Every failure mode wraps types.ErrParseUnavailable.
func (c *ChatClient) ParseTask(ctx context.Context, text string) (*models.TaskDraft, error) {
	systemPrompt, err := prompts.GetPrompt(prompts.KeyParseTask, c.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParseUnavailable, err)
	}

	response, err := c.generate(ctx, systemPrompt, fmt.Sprintf("Parse this task: %q", text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParseUnavailable, err)
	}

	draft, err := utils.ExtractAndParseJSON[models.TaskDraft](response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParseUnavailable, err)
	}
	return &draft, nil
}

// Suggest asks the model for a short strategy to get started on the task.
func (c *ChatClient) Suggest(ctx context.Context, title, description string) (string, error) {
	systemPrompt, err := prompts.GetPrompt(prompts.KeySuggestStart, c.TemplatesDir)
	if err != nil {
		return "", err
	}

	user := fmt.Sprintf("The user is avoiding this task: %q", title)
	if description != "" {
		user += fmt.Sprintf(" - %s", description)
	}

	response, err := c.generate(ctx, systemPrompt, user)
	if err != nil {
		return "", err
	}
	suggestion := strings.TrimSpace(response)
	if suggestion == "" {
		return "", fmt.Errorf("empty suggestion response")
	}
	return suggestion, nil
}

func (c *ChatClient) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	chatModel, err := NewChatModel(ctx, c.cfg)
	if err != nil {
		return "", fmt.Errorf("create chat model: %w", err)
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: userPrompt},
	}

	msg, err := chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return msg.Content, nil
}
