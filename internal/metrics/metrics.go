package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts chat session activity on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	// Submissions by outcome: accepted or a drop reason
	submissions *prometheus.CounterVec

	// Replies by outcome: delivered, failed
	replies *prometheus.CounterVec

	// Time from submit to delivered reply
	replyLatency prometheus.Histogram

	pending prometheus.Gauge
}

// New creates a Recorder with every collector registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coach",
				Subsystem: "chat",
				Name:      "submissions_total",
				Help:      "Total submit calls by outcome",
			},
			[]string{"outcome"},
		),
		replies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coach",
				Subsystem: "chat",
				Name:      "replies_total",
				Help:      "Total assistant replies by outcome",
			},
			[]string{"outcome"},
		),
		replyLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "coach",
				Subsystem: "chat",
				Name:      "reply_latency_seconds",
				Help:      "Time from user submit to assistant reply",
				Buckets:   []float64{0.1, 0.5, 1, 1.5, 2, 5, 10, 30},
			},
		),
		pending: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "coach",
				Subsystem: "chat",
				Name:      "pending_reply",
				Help:      "1 while an assistant reply is in flight",
			},
		),
	}

	r.registry.MustRegister(r.submissions, r.replies, r.replyLatency, r.pending)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) SubmitAccepted() {
	r.submissions.WithLabelValues("accepted").Inc()
}

func (r *Recorder) SubmitDropped(reason string) {
	r.submissions.WithLabelValues(reason).Inc()
}

func (r *Recorder) ReplyDelivered(latency time.Duration) {
	r.replies.WithLabelValues("delivered").Inc()
	r.replyLatency.Observe(latency.Seconds())
}

func (r *Recorder) ReplyFailed() {
	r.replies.WithLabelValues("failed").Inc()
}

func (r *Recorder) Pending(pending bool) {
	if pending {
		r.pending.Set(1)
		return
	}
	r.pending.Set(0)
}
