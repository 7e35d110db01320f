package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("the coach is still answering the previous message")

	// ErrSessionFailed wraps the reason a session stopped accepting messages.
	ErrSessionFailed = errors.New("the coach is unavailable")
)

// SendMessageTool posts a user message and waits for the coach's answer.
type SendMessageTool struct {
	chat Chat
}

func NewSendMessageTool(chat Chat) *SendMessageTool {
	return &SendMessageTool{chat: chat}
}

// Name returns the name of the tool
func (t *SendMessageTool) Name() string { return "send_message" }

// Description returns the description of the tool
func (t *SendMessageTool) Description() string {
	return "Sends a message to the AI workout assistant and returns its reply. Only one message can be in flight at a time."
}

func (t *SendMessageTool) Params() []Param {
	return []Param{{Name: "text", Description: "What to ask the coach", Required: true}}
}

// Run submits the text and blocks until the reply is appended or ctx ends.
func (t *SendMessageTool) Run(ctx context.Context, args string) (string, error) {
	var toolArgs struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(args), &toolArgs); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}

	if strings.TrimSpace(toolArgs.Text) == "" {
		return "", ErrEmptyMessage
	}
	reply := t.chat.Submit(toolArgs.Text)
	if reply == nil {
		if err := t.chat.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrSessionFailed, err)
		}
		return "", ErrBusy
	}

	msg, err := reply.Wait(ctx)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
