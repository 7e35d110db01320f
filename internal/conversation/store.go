// Package conversation holds the ordered message log of a chat session and
// its pending-reply flag.
package conversation

import (
	"fmt"
	"slices"
	"sync"
)

// EventKind tells observers what changed.
type EventKind int

const (
	EventAppended EventKind = iota
	EventPending
)

func (k EventKind) String() string {
	switch k {
	case EventAppended:
		return "appended"
	case EventPending:
		return "pending"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to observers after every mutation. Message is only set
// for EventAppended.
type Event struct {
	Kind     EventKind
	Message  Message
	Snapshot Snapshot
}

// Observer is notified synchronously, in subscription order. It must not
// block and must not mutate the store.
type Observer func(Event)

// Store is the append-only conversation log. Reads are safe from any
// goroutine; writes are expected from a single owner.
type Store struct {
	mu        sync.RWMutex
	messages  []Message
	ids       map[string]struct{}
	pending   bool
	observers []subscription
	nextSub   int
}

type subscription struct {
	id int
	fn Observer
}

// NewStore creates a conversation seeded with the greeting message.
func NewStore(greeting Message) *Store {
	return &Store{
		messages: []Message{greeting},
		ids:      map[string]struct{}{greeting.ID: {}},
	}
}

// Append inserts msg at the end of the log. Reusing an id is a programming
// error and panics.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	if _, dup := s.ids[msg.ID]; dup {
		s.mu.Unlock()
		panic(fmt.Sprintf("conversation: duplicate message id %q", msg.ID))
	}
	s.ids[msg.ID] = struct{}{}
	s.messages = append(s.messages, msg)
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, Event{Kind: EventAppended, Message: msg, Snapshot: snap})
}

// SetPending sets the pending-reply flag.
func (s *Store) SetPending(pending bool) {
	s.mu.Lock()
	s.pending = pending
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, Event{Kind: EventPending, Snapshot: snap})
}

// Snapshot returns a copy of the log and the pending flag.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of messages in the log.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
				return sub.id == id
			})
		})
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Messages:     slices.Clone(s.messages),
		PendingReply: s.pending,
	}
}

func (s *Store) observersLocked() []Observer {
	out := make([]Observer, len(s.observers))
	for i, sub := range s.observers {
		out[i] = sub.fn
	}
	return out
}

func notify(observers []Observer, ev Event) {
	for _, fn := range observers {
		fn(ev)
	}
}
