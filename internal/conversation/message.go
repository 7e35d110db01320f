package conversation

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is a single entry of the conversation log. It is never mutated
// after it has been appended.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is a point-in-time copy of the conversation.
type Snapshot struct {
	Messages     []Message `json:"messages"`
	PendingReply bool      `json:"pending_reply"`
}

// Last returns the newest message.
func (s Snapshot) Last() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}
