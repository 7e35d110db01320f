package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/comigor/coach-go/internal/config"
	"github.com/sashabaranov/go-openai"
)

// ErrNoChoices is returned when a completion carries no usable message.
var ErrNoChoices = errors.New("llm: completion returned no choices")

// NewClient creates a new OpenAI client
func NewClient(cfg config.LLMConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return openai.NewClientWithConfig(clientCfg)
}

// Ask runs a single-turn completion: an optional system prompt followed by
// the user text. It returns the trimmed content of the first choice.
func Ask(ctx context.Context, c Client, model, systemPrompt, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrNoChoices
	}
	return content, nil
}
