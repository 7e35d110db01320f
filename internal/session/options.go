package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Metrics receives session activity. See internal/metrics for the
// Prometheus implementation.
type Metrics interface {
	SubmitAccepted()
	SubmitDropped(reason string)
	ReplyDelivered(latency time.Duration)
	ReplyFailed()
	Pending(pending bool)
}

type noopMetrics struct{}

func (noopMetrics) SubmitAccepted()              {}
func (noopMetrics) SubmitDropped(string)         {}
func (noopMetrics) ReplyDelivered(time.Duration) {}
func (noopMetrics) ReplyFailed()                 {}
func (noopMetrics) Pending(bool)                 {}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces time.AfterFunc, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithClock sets the source of message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator sets the message id source. Ids must be unique and should
// sort in creation order.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithMetrics(m Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// NewMessageID returns a UUIDv7 string. Successive ids from one process sort
// in creation order.
func NewMessageID() string {
	return uuid.Must(uuid.NewV7()).String()
}
