package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/comigor/coach-go/internal/config"
	"github.com/comigor/coach-go/internal/logger"
	"github.com/comigor/coach-go/internal/metrics"
	"github.com/comigor/coach-go/internal/responder"
	"github.com/comigor/coach-go/internal/session"
	"github.com/comigor/coach-go/internal/transcript"
)

// app is everything one session needs, built from config.
type app struct {
	cfg     *config.Config
	chat    *session.Controller
	metrics *metrics.Recorder
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.L.Warn("shutdown error", "error", err)
		}
	}
}

// loadConfig reads .env, the config file and the flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	_ = godotenv.Load()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// setupLogging sends logs to log.file when set, otherwise to fallback.
func setupLogging(cfg *config.Config, fallback io.Writer) (func() error, error) {
	if cfg.Log.File == "" {
		logger.Setup(cfg.Log.Level, fallback)
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.Setup(cfg.Log.Level, f)
	return f.Close, nil
}

// newApp loads everything and starts the session. logs is where log lines
// go when no log file is configured.
func newApp(cmd *cobra.Command, logs io.Writer) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	closeLog, err := setupLogging(cfg, logs)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, metrics: metrics.New(), closers: []func() error{closeLog}}

	r, err := responder.New(*cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.chat = session.New(r, cfg.Chat, session.WithMetrics(a.metrics))

	if cfg.Transcript.Enabled {
		archive := transcript.Open(cfg.Transcript.Path)
		unsubscribe := a.chat.Subscribe(archive.Observer(a.chat.ID()))
		// seed message predates the subscription
		greeting := a.chat.Snapshot().Messages[0]
		archive.Save(transcript.Entry{
			SessionID: a.chat.ID(),
			MessageID: greeting.ID,
			Sender:    string(greeting.Sender),
			Content:   greeting.Content,
			CreatedAt: greeting.Timestamp,
		})
		a.closers = append(a.closers, func() error { unsubscribe(); return archive.Close() })
	}

	// closed first: no reply may land after teardown
	a.closers = append(a.closers, a.chat.Close)

	logger.L.Info("configuration loaded", "provider", cfg.Responder.Provider, "reply_delay", cfg.Chat.ReplyDelay)
	return a, nil
}
