package tools

import (
	"context"

	"github.com/comigor/coach-go/internal/conversation"
	"github.com/comigor/coach-go/internal/session"
)

// Tool is the interface for all tools
type Tool interface {
	Name() string
	Description() string
	Params() []Param
	// Run executes the tool with JSON-encoded arguments.
	Run(ctx context.Context, args string) (string, error)
}

// Param describes one string argument of a tool.
type Param struct {
	Name        string
	Description string
	Required    bool
}

// Chat is the part of a session the tools drive.
type Chat interface {
	Submit(text string) *session.Reply
	Snapshot() conversation.Snapshot
	Err() error
}
