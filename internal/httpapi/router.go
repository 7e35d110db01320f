package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Options tune the router.
type Options struct {
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// WaitTimeout bounds how long POST / waits for a reply. Zero means the
	// request context alone decides.
	WaitTimeout time.Duration
	Logger      *slog.Logger
}

// NewRouter wires the chat endpoints.
func NewRouter(chat Chat, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	h := &handler{chat: chat, log: log, waitTimeout: opts.WaitTimeout}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	engine.GET("/healthz", h.healthz)
	engine.GET("/messages", h.messages)
	engine.POST("/messages", h.submit)
	engine.POST("/", h.ask)
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	return engine
}

// requestLogger logs every request once it has been handled.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
