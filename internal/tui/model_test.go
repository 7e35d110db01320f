package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/comigor/coach-go/internal/config"
	"github.com/comigor/coach-go/internal/present"
	"github.com/comigor/coach-go/internal/responder"
	"github.com/comigor/coach-go/internal/session"
)

type stubScheduler struct {
	fns []func()
}

func (s *stubScheduler) AfterFunc(_ time.Duration, f func()) session.Timer {
	s.fns = append(s.fns, f)
	return stubTimer{}
}

type stubTimer struct{}

func (stubTimer) Stop() bool { return true }

func newScreen(t *testing.T) (*Model, *session.Controller, *stubScheduler) {
	t.Helper()
	return newScreenWith(t, responder.Func(func(_ context.Context, text string) (string, error) {
		return "Try lunges for " + text, nil
	}))
}

func newScreenWith(t *testing.T, r responder.Responder) (*Model, *session.Controller, *stubScheduler) {
	t.Helper()
	sched := &stubScheduler{}
	chat := session.New(
		r,
		config.ChatConfig{Greeting: "Hello! How can I help you today?", ReplyDelay: time.Second},
		session.WithScheduler(sched),
		session.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	m := New(chat)
	t.Cleanup(func() {
		m.Close()
		chat.Close()
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, chat, sched
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// drain delivers a pending change notification, as the program loop would.
func drain(t *testing.T, m *Model) {
	t.Helper()
	select {
	case <-m.changes:
	default:
		t.Fatal("expected a change notification")
	}
	m.Update(changedMsg{})
}

func TestModel_InitialView(t *testing.T) {
	m, _, _ := newScreen(t)

	view := m.View()
	require.Contains(t, view, "AI Workout Assistant")
	require.Contains(t, view, "Hello! How can I help you today?")
	require.NotContains(t, view, present.TypingText)
}

func TestModel_SubmitCycle(t *testing.T) {
	m, chat, sched := newScreen(t)

	typeText(m, "leg day")
	require.Equal(t, "leg day", m.input.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Empty(t, m.input.Value(), "input clears once the message is accepted")
	require.Len(t, chat.Snapshot().Messages, 2)

	drain(t, m)
	require.True(t, m.snap.PendingReply)
	require.Contains(t, m.View(), "leg day")
	require.Contains(t, m.View(), present.TypingText)

	// input is disabled while the reply is pending
	typeText(m, "more")
	require.Empty(t, m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, chat.Snapshot().Messages, 2)

	require.Len(t, sched.fns, 1)
	sched.fns[0]()

	drain(t, m)
	require.False(t, m.snap.PendingReply)
	view := m.View()
	require.Contains(t, view, "Try lunges for leg day")
	require.NotContains(t, view, present.TypingText)
	require.True(t, m.viewport.AtBottom())
}

func TestModel_BlankEnterIgnored(t *testing.T) {
	m, chat, _ := newScreen(t)

	typeText(m, "   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, chat.Snapshot().Messages, 1)
	require.Equal(t, "   ", m.input.Value())
}

func TestModel_PinnedToBottom(t *testing.T) {
	m, _, sched := newScreen(t)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})

	for i := 0; i < 6; i++ {
		typeText(m, strings.Repeat("x", 10))
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		drain(t, m)
		sched.fns[len(sched.fns)-1]()
		drain(t, m)
		require.True(t, m.viewport.AtBottom())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	require.False(t, m.viewport.AtBottom())
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newScreen(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ShowsFailure(t *testing.T) {
	m, chat, sched := newScreenWith(t, responder.Func(func(context.Context, string) (string, error) {
		return "", errors.New("backend down")
	}))

	typeText(m, "leg day")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m)
	sched.fns[0]()
	drain(t, m)

	require.Equal(t, session.StateFaulted, chat.State())
	view := m.View()
	require.Contains(t, view, "backend down")
	require.NotContains(t, view, "Online and ready to help")
	require.NotContains(t, view, present.TypingText)

	typeText(m, "hello?")
	require.Empty(t, m.input.Value(), "input stays disabled once the session failed")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, chat.Snapshot().Messages, 2)
}

func TestModel_ShowsClosedSession(t *testing.T) {
	m, chat, _ := newScreen(t)
	require.NoError(t, chat.Close())

	typeText(m, "anyone?")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Contains(t, m.View(), session.ErrClosed.Error())
	require.Len(t, chat.Snapshot().Messages, 1)
}

func TestModel_CloseReleasesWaiter(t *testing.T) {
	m, _, _ := newScreen(t)
	wait := m.waitForChange()

	got := make(chan tea.Msg, 1)
	go func() { got <- wait() }()

	m.Close()
	select {
	case msg := <-got:
		require.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("waitForChange did not return after Close")
	}
}
