// Package responder produces the assistant side of a chat exchange.
package responder

import (
	"context"
	"fmt"

	"github.com/comigor/coach-go/internal/config"
	"github.com/comigor/coach-go/internal/llm"
)

// Responder maps the latest user utterance to a reply.
type Responder interface {
	Respond(ctx context.Context, lastUserText string) (string, error)
}

// Func adapts a plain function to Responder.
type Func func(ctx context.Context, lastUserText string) (string, error)

// Respond calls f.
func (f Func) Respond(ctx context.Context, lastUserText string) (string, error) {
	return f(ctx, lastUserText)
}

// New builds the responder selected by cfg.Responder.Provider.
func New(cfg config.Config) (Responder, error) {
	switch cfg.Responder.Provider {
	case config.ProviderCanned, "":
		return NewCanned(cfg.Responder.Responses, nil), nil
	case config.ProviderOpenAI:
		return NewOpenAI(llm.NewClient(cfg.LLM), cfg.LLM), nil
	default:
		return nil, fmt.Errorf("unknown responder provider %q", cfg.Responder.Provider)
	}
}
