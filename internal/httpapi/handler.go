// Package httpapi serves the chat session over HTTP.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/comigor/coach-go/internal/conversation"
	"github.com/comigor/coach-go/internal/present"
	"github.com/comigor/coach-go/internal/session"
)

// Chat is the session contract the handlers consume.
type Chat interface {
	Submit(text string) *session.Reply
	Snapshot() conversation.Snapshot
	Err() error
}

type messageDTO struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Sender      string    `json:"sender"`
	Timestamp   time.Time `json:"timestamp"`
	DisplayTime string    `json:"display_time"`
}

type snapshotDTO struct {
	Messages     []messageDTO `json:"messages"`
	PendingReply bool         `json:"pending_reply"`
}

type submitRequest struct {
	Text string `json:"text"`
}

type submitResponse struct {
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
	snapshotDTO
}

func toSnapshotDTO(snap conversation.Snapshot) snapshotDTO {
	return snapshotDTO{
		Messages: lo.Map(snap.Messages, func(m conversation.Message, _ int) messageDTO {
			return messageDTO{
				ID:          m.ID,
				Content:     m.Content,
				Sender:      string(m.Sender),
				Timestamp:   m.Timestamp,
				DisplayTime: present.Clock(m.Timestamp),
			}
		}),
		PendingReply: snap.PendingReply,
	}
}

type handler struct {
	chat        Chat
	log         *slog.Logger
	waitTimeout time.Duration
}

func (h *handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) messages(c *gin.Context) {
	c.JSON(http.StatusOK, toSnapshotDTO(h.chat.Snapshot()))
}

// submit is fire-and-forget: the reply shows up in later snapshots. A
// faulted or closed session answers 503.
func (h *handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := submitResponse{Accepted: h.chat.Submit(req.Text) != nil}
	status := http.StatusAccepted
	if !resp.Accepted {
		if err := h.chat.Err(); err != nil {
			status = http.StatusServiceUnavailable
			resp.Error = err.Error()
		}
	}
	resp.snapshotDTO = toSnapshotDTO(h.chat.Snapshot())
	c.JSON(status, resp)
}

// ask submits the raw body and answers with the reply text.
func (h *handler) ask(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("read body error", "err", err)
		c.String(http.StatusBadRequest, "failed to read request body")
		return
	}
	text := string(body)
	if strings.TrimSpace(text) == "" {
		c.String(http.StatusBadRequest, "message is empty")
		return
	}

	reply := h.chat.Submit(text)
	if reply == nil {
		if err := h.chat.Err(); err != nil {
			c.String(http.StatusServiceUnavailable, err.Error())
			return
		}
		c.String(http.StatusConflict, "a reply is already pending")
		return
	}

	ctx := c.Request.Context()
	if h.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.waitTimeout)
		defer cancel()
	}

	msg, err := reply.Wait(ctx)
	if err != nil {
		h.log.Error("reply error", "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrClosed) {
			status = http.StatusServiceUnavailable
		}
		c.String(status, "failed to get a reply")
		return
	}
	c.String(http.StatusOK, msg.Content)
}
