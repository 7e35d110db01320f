// Package present holds display helpers shared by the chat front ends.
package present

import (
	"strings"
	"time"

	"github.com/comigor/coach-go/internal/conversation"
)

const (
	TypingText  = "AI is typing..."
	Placeholder = "Ask me about workouts, nutrition, or fitness..."
)

// Clock renders t as a 12-hour wall clock, e.g. "9:05 AM".
func Clock(t time.Time) string {
	return t.Local().Format("3:04 PM")
}

// SenderLabel is the name shown above a message.
func SenderLabel(s conversation.Sender) string {
	if s == conversation.SenderUser {
		return "You"
	}
	return "Coach"
}

// CanSend reports whether the send action should be enabled for the current
// input.
func CanSend(input string, snap conversation.Snapshot) bool {
	if snap.PendingReply {
		return false
	}
	return strings.TrimSpace(input) != ""
}
