package responder

import (
	"context"

	"github.com/comigor/coach-go/internal/config"
	"github.com/comigor/coach-go/internal/llm"
)

const defaultSystemPrompt = "You are an upbeat AI workout assistant. Help with workout plans, exercise technique, nutrition and recovery. Answer in two or three sentences."

// OpenAI asks a chat completion model for each reply.
type OpenAI struct {
	client       llm.Client
	model        string
	systemPrompt string
}

// NewOpenAI creates a model-backed responder.
func NewOpenAI(client llm.Client, cfg config.LLMConfig) *OpenAI {
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	return &OpenAI{client: client, model: cfg.Model, systemPrompt: prompt}
}

// Respond sends lastUserText to the model.
func (o *OpenAI) Respond(ctx context.Context, lastUserText string) (string, error) {
	return llm.Ask(ctx, o.client, o.model, o.systemPrompt, lastUserText)
}
