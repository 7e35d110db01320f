package tools

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"

	"github.com/comigor/coach-go/internal/conversation"
	"github.com/comigor/coach-go/internal/present"
)

// ConversationTool returns the transcript of the current session.
type ConversationTool struct {
	chat Chat
}

func NewConversationTool(chat Chat) *ConversationTool {
	return &ConversationTool{chat: chat}
}

func (t *ConversationTool) Name() string { return "get_conversation" }

func (t *ConversationTool) Description() string {
	return "Returns every message of the current conversation, oldest first, and whether a reply is pending."
}

func (t *ConversationTool) Params() []Param { return nil }

type transcriptLine struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

// Run ignores its arguments.
func (t *ConversationTool) Run(_ context.Context, _ string) (string, error) {
	snap := t.chat.Snapshot()
	out := struct {
		Messages     []transcriptLine `json:"messages"`
		PendingReply bool             `json:"pending_reply"`
	}{
		Messages: lo.Map(snap.Messages, func(m conversation.Message, _ int) transcriptLine {
			return transcriptLine{Sender: string(m.Sender), Content: m.Content, Time: present.Clock(m.Timestamp)}
		}),
		PendingReply: snap.PendingReply,
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
