// Package session drives a conversation: it accepts user messages, schedules
// the delayed assistant reply and enforces that at most one reply is in
// flight.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless" // FSM library

	"github.com/comigor/coach-go/internal/config"
	"github.com/comigor/coach-go/internal/conversation"
	"github.com/comigor/coach-go/internal/logger"
	"github.com/comigor/coach-go/internal/responder"
)

// FSM States
type State string

const (
	StateIdle          State = "Idle"
	StateAwaitingReply State = "AwaitingReply"
	StateFaulted       State = "Faulted" // responder failed; no further replies
	StateClosed        State = "Closed"  // Terminal: session torn down
)

// FSM Triggers
type Trigger string

const (
	TriggerSubmit      Trigger = "Submit"
	TriggerReplyReady  Trigger = "ReplyReady"
	TriggerReplyFailed Trigger = "ReplyFailed"
	TriggerClose       Trigger = "Close"
)

// Reasons reported to Metrics.SubmitDropped.
const (
	DropBlank   = "blank"
	DropBusy    = "busy"
	DropFaulted = "faulted"
	DropClosed  = "closed"
)

// ErrClosed resolves a reply whose session was torn down before it arrived.
var ErrClosed = errors.New("session closed")

// Reply is the scheduled assistant answer to one accepted submission. Only
// the owning Controller can cancel it.
type Reply struct {
	prompt    string
	submitted time.Time

	ctx    context.Context
	cancel context.CancelFunc
	timer  Timer

	done chan struct{}
	msg  conversation.Message
	err  error
}

// Prompt returns the user text the reply answers.
func (r *Reply) Prompt() string { return r.prompt }

// Done is closed once the reply is appended, has failed, or was cancelled.
func (r *Reply) Done() <-chan struct{} { return r.done }

// Wait blocks until the reply resolves or ctx ends.
func (r *Reply) Wait(ctx context.Context) (conversation.Message, error) {
	select {
	case <-r.done:
		return r.msg, r.err
	case <-ctx.Done():
		return conversation.Message{}, ctx.Err()
	}
}

func (r *Reply) resolve(msg conversation.Message, err error) {
	r.msg = msg
	r.err = err
	r.cancel()
	close(r.done)
}

// Controller owns one conversation and its reply timer.
//
// All transitions happen under mu. Store observers therefore run with mu
// held and must not call Submit or Close synchronously.
type Controller struct {
	mu sync.Mutex

	id        string
	cfg       config.ChatConfig
	store     *conversation.Store
	responder responder.Responder
	fsm       *stateless.StateMachine

	sched   Scheduler
	now     func() time.Time
	newID   func() string
	log     *slog.Logger
	metrics Metrics

	ctx    context.Context
	cancel context.CancelFunc

	inflight *Reply
	err      error
}

// New starts a session: the conversation is created with the greeting from
// cfg and the controller is Idle.
func New(r responder.Responder, cfg config.ChatConfig, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		id:        uuid.NewString(),
		cfg:       cfg,
		responder: r,
		sched:     SystemScheduler(),
		now:       time.Now,
		newID:     NewMessageID,
		metrics:   noopMetrics{},
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.ForSession(c.id)
	}

	c.store = conversation.NewStore(conversation.Message{
		ID:        c.newID(),
		Content:   cfg.Greeting,
		Sender:    conversation.SenderAssistant,
		Timestamp: c.now(),
	})
	c.fsm = c.newStateMachine()

	c.log.Info("session started", "reply_delay", cfg.ReplyDelay)
	return c
}

func (c *Controller) newStateMachine() *stateless.StateMachine {
	fsm := stateless.NewStateMachine(StateIdle)

	// State: Idle
	// Entered from AwaitingReply once the assistant message is appended.
	fsm.Configure(StateIdle).
		OnEntryFrom(TriggerReplyReady, c.deliverReply).
		Permit(TriggerSubmit, StateAwaitingReply).
		Permit(TriggerClose, StateClosed)

	// State: AwaitingReply
	// The user message is in the log and exactly one reply timer is armed.
	fsm.Configure(StateAwaitingReply).
		OnEntryFrom(TriggerSubmit, c.acceptSubmission).
		Ignore(TriggerSubmit).
		Permit(TriggerReplyReady, StateIdle).
		Permit(TriggerReplyFailed, StateFaulted).
		Permit(TriggerClose, StateClosed)

	// State: Faulted
	fsm.Configure(StateFaulted).
		OnEntryFrom(TriggerReplyFailed, c.failReply).
		Ignore(TriggerSubmit).
		Permit(TriggerClose, StateClosed)

	// State: Closed
	fsm.Configure(StateClosed).
		OnEntry(c.teardown).
		Ignore(TriggerSubmit).
		Ignore(TriggerReplyReady).
		Ignore(TriggerReplyFailed).
		Ignore(TriggerClose)

	return fsm
}

// ID identifies the session in logs and transcripts.
func (c *Controller) ID() string { return c.id }

// Submit sends text as a user message. It returns nil, changing nothing,
// when the trimmed text is empty or a reply is already pending. A non-nil
// Reply means the message was accepted and the input can be cleared.
func (c *Controller) Submit(text string) *Reply {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if text == "" {
		c.drop(DropBlank)
		return nil
	}

	switch c.state() {
	case StateIdle:
	case StateAwaitingReply:
		c.drop(DropBusy)
		return nil
	case StateFaulted:
		c.drop(DropFaulted)
		return nil
	default:
		c.drop(DropClosed)
		return nil
	}

	if err := c.fsm.Fire(TriggerSubmit, text); err != nil {
		c.log.Warn("FSM fire error", "trigger", TriggerSubmit, "error", err)
		return nil
	}
	c.metrics.SubmitAccepted()
	return c.inflight
}

// Snapshot returns the current messages and pending flag.
func (c *Controller) Snapshot() conversation.Snapshot {
	return c.store.Snapshot()
}

// Subscribe registers an observer for every append and pending flip.
func (c *Controller) Subscribe(fn conversation.Observer) (unsubscribe func()) {
	return c.store.Subscribe(fn)
}

// State returns the current FSM state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

// Err returns why the session no longer accepts messages: the wrapped
// responder failure once Faulted, or ErrClosed after Close. It is nil while
// the session is usable.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close tears the session down. A pending reply is cancelled and the
// conversation is never mutated again, so a closed session's snapshot keeps
// its last pending flag. Close is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fsm.Fire(TriggerClose)
}

func (c *Controller) state() State {
	return c.fsm.MustState().(State)
}

func (c *Controller) drop(reason string) {
	c.metrics.SubmitDropped(reason)
	c.log.Debug("submission dropped", "reason", reason)
}

func (c *Controller) fire(trigger Trigger, args ...any) {
	if err := c.fsm.Fire(trigger, args...); err != nil {
		c.log.Warn("FSM fire error", "trigger", trigger, "error", err)
	}
}

func (c *Controller) acceptSubmission(_ context.Context, args ...any) error {
	text := args[0].(string)
	now := c.now()

	c.store.Append(conversation.Message{
		ID:        c.newID(),
		Content:   text,
		Sender:    conversation.SenderUser,
		Timestamp: now,
	})
	c.store.SetPending(true)
	c.metrics.Pending(true)

	ctx, cancel := context.WithCancel(c.ctx)
	r := &Reply{
		prompt:    text,
		submitted: now,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	c.inflight = r
	r.timer = c.sched.AfterFunc(c.cfg.ReplyDelay, func() { c.complete(r) })

	c.log.Debug("FSM: Entering AwaitingReply", "reply_delay", c.cfg.ReplyDelay)
	return nil
}

// complete runs when the reply timer fires. The responder is called without
// the lock; its result is dropped if the session moved on meanwhile.
func (c *Controller) complete(r *Reply) {
	c.mu.Lock()
	live := c.inflight == r
	c.mu.Unlock()
	if !live {
		return
	}

	text, err := c.responder.Respond(r.ctx, r.prompt)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight != r || r.ctx.Err() != nil {
		c.log.Debug("discarding reply after teardown")
		return
	}
	if err != nil {
		c.fire(TriggerReplyFailed, r, err)
		return
	}
	c.fire(TriggerReplyReady, r, text)
}

func (c *Controller) deliverReply(_ context.Context, args ...any) error {
	r := args[0].(*Reply)
	text := args[1].(string)

	msg := conversation.Message{
		ID:        c.newID(),
		Content:   text,
		Sender:    conversation.SenderAssistant,
		Timestamp: c.now(),
	}
	c.store.Append(msg)
	c.store.SetPending(false)
	c.inflight = nil

	c.metrics.Pending(false)
	c.metrics.ReplyDelivered(msg.Timestamp.Sub(r.submitted))
	c.log.Debug("FSM: Entering Idle", "message_id", msg.ID)

	r.resolve(msg, nil)
	return nil
}

func (c *Controller) failReply(_ context.Context, args ...any) error {
	r := args[0].(*Reply)
	cause := args[1].(error)

	c.err = fmt.Errorf("generate reply: %w", cause)
	c.store.SetPending(false)
	c.inflight = nil

	c.metrics.Pending(false)
	c.metrics.ReplyFailed()
	c.log.Error("responder failed, session faulted", "error", cause, "prompt", r.prompt)

	r.resolve(conversation.Message{}, c.err)
	return nil
}

func (c *Controller) teardown(_ context.Context, _ ...any) error {
	if r := c.inflight; r != nil {
		if r.timer != nil {
			r.timer.Stop()
		}
		c.inflight = nil
		r.resolve(conversation.Message{}, ErrClosed)
	}
	if c.err == nil {
		c.err = ErrClosed
	}
	c.cancel()
	c.log.Info("session closed")
	return nil
}
