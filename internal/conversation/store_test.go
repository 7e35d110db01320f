package conversation

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greeting() Message {
	return Message{ID: "0", Content: "hi there", Sender: SenderAssistant, Timestamp: time.Unix(0, 0)}
}

func TestNewStore_SeedsGreeting(t *testing.T) {
	s := NewStore(greeting())

	snap := s.Snapshot()
	require.Len(t, snap.Messages, 1)
	require.Equal(t, SenderAssistant, snap.Messages[0].Sender)
	require.False(t, snap.PendingReply)
	require.Equal(t, 1, s.Len())
}

func TestAppend_PreservesOrder(t *testing.T) {
	s := NewStore(greeting())
	s.Append(Message{ID: "1", Content: "a", Sender: SenderUser})
	s.Append(Message{ID: "2", Content: "b", Sender: SenderAssistant})

	snap := s.Snapshot()
	require.Equal(t, []string{"0", "1", "2"}, []string{snap.Messages[0].ID, snap.Messages[1].ID, snap.Messages[2].ID})

	last, ok := snap.Last()
	require.True(t, ok)
	require.Equal(t, "b", last.Content)
}

func TestAppend_DuplicateIDPanics(t *testing.T) {
	s := NewStore(greeting())
	require.Panics(t, func() {
		s.Append(Message{ID: "0", Content: "again", Sender: SenderUser})
	})
	require.Equal(t, 1, s.Len())
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore(greeting())
	snap := s.Snapshot()
	snap.Messages[0].Content = "tampered"

	require.Equal(t, "hi there", s.Snapshot().Messages[0].Content)
}

func TestSubscribe_NotifiesEveryMutation(t *testing.T) {
	s := NewStore(greeting())

	var events []Event
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev) })

	s.Append(Message{ID: "1", Content: "a", Sender: SenderUser})
	s.SetPending(true)
	s.SetPending(false)

	require.Len(t, events, 3)
	require.Equal(t, EventAppended, events[0].Kind)
	require.Equal(t, "1", events[0].Message.ID)
	require.Len(t, events[0].Snapshot.Messages, 2)
	require.Equal(t, EventPending, events[1].Kind)
	require.True(t, events[1].Snapshot.PendingReply)
	require.False(t, events[2].Snapshot.PendingReply)

	unsubscribe()
	unsubscribe()
	s.SetPending(true)
	require.Len(t, events, 3)
}

func TestSubscribe_OrderOfObservers(t *testing.T) {
	s := NewStore(greeting())

	var order []int
	s.Subscribe(func(Event) { order = append(order, 1) })
	s.Subscribe(func(Event) { order = append(order, 2) })
	s.SetPending(true)

	require.Equal(t, []int{1, 2}, order)
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := NewStore(greeting())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := s.Snapshot()
				assert.NotEmpty(t, snap.Messages)
			}
		}()
	}
	for i := 1; i <= 50; i++ {
		s.Append(Message{ID: fmt.Sprintf("m%d", i), Sender: SenderUser, Content: "x"})
	}
	wg.Wait()
	require.Equal(t, 51, s.Len())
}

func TestEventKind_String(t *testing.T) {
	require.Equal(t, "appended", EventAppended.String())
	require.Equal(t, "pending", EventPending.String())
}
