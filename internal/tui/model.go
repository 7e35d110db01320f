// Package tui is a terminal front end for a chat session.
package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/comigor/coach-go/internal/conversation"
	"github.com/comigor/coach-go/internal/present"
	"github.com/comigor/coach-go/internal/session"
)

// Layout constants
const (
	headerHeight = 3
	inputHeight  = 3
	minWidth     = 20
)

// Chat is the session contract the screen consumes.
type Chat interface {
	Submit(text string) *session.Reply
	Snapshot() conversation.Snapshot
	Subscribe(fn conversation.Observer) (unsubscribe func())
	Err() error
}

// changedMsg tells Update that the conversation moved.
type changedMsg struct{}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A855F7"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8FAFC")).Background(lipgloss.Color("#9333EA")).Padding(0, 1)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F2937")).Background(lipgloss.Color("#F3F4F6")).Padding(0, 1)
)

// Model renders the conversation in a viewport that stays pinned to the
// newest message.
type Model struct {
	chat        Chat
	changes     chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe func()

	snap     conversation.Snapshot
	err      error // set once the session stops accepting messages
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool
}

// New creates the screen and subscribes it to chat. Call Close when the
// program exits.
func New(chat Chat) *Model {
	ti := textinput.New()
	ti.Placeholder = present.Placeholder
	ti.Prompt = "▍ "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		chat:    chat,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		snap:    chat.Snapshot(),
		input:   ti,
		spinner: sp,
		width:   80,
		height:  24,
	}

	// Runs under the session lock: signal and return.
	m.unsubscribe = chat.Subscribe(func(conversation.Event) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	return m
}

// Close stops listening to the session and releases a pending
// waitForChange.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		m.unsubscribe()
		close(m.done)
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForChange())
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return changedMsg{}
		case <-m.done:
			return nil
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, minWidth)
		m.height = msg.Height
		h := max(m.height-headerHeight-inputHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(m.width, h)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = h
		}
		m.input.Width = m.width - 4
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp:
			m.viewport.ViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.viewport.ViewDown()
			return m, nil
		case tea.KeyEnter:
			if m.err == nil && present.CanSend(m.input.Value(), m.snap) {
				if m.chat.Submit(m.input.Value()) != nil {
					m.input.Reset()
				} else {
					m.syncErr()
				}
			}
			return m, nil
		}
		if m.snap.PendingReply || m.err != nil {
			// input is disabled while the coach is typing or gone
			return m, nil
		}

	case changedMsg:
		m.snap = m.chat.Snapshot()
		m.syncErr()
		if m.snap.PendingReply || m.err != nil {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		m.refresh()
		return m, m.waitForChange()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.snap.PendingReply {
			m.refresh()
		}
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) syncErr() {
	if err := m.chat.Err(); err != nil {
		m.err = err
		m.input.Blur()
	}
}

// refresh re-renders the log and scrolls to the newest message.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessages() string {
	width := max(m.width*3/4, minWidth)

	var b strings.Builder
	for _, msg := range m.snap.Messages {
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n\n")
	}
	if m.snap.PendingReply {
		b.WriteString(metaStyle.Render(m.spinner.View() + " " + present.TypingText))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(msg conversation.Message, width int) string {
	meta := metaStyle.Render(present.SenderLabel(msg.Sender) + " · " + present.Clock(msg.Timestamp))

	if msg.Sender == conversation.SenderUser {
		body := userStyle.MaxWidth(width).Render(msg.Content)
		block := lipgloss.JoinVertical(lipgloss.Right, body, meta)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
	}
	body := assistantStyle.MaxWidth(width).Render(msg.Content)
	return lipgloss.JoinVertical(lipgloss.Left, body, meta)
}

func (m *Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	status := statusStyle.Render("● Online and ready to help")
	switch {
	case m.err != nil:
		status = errorStyle.Render("● Unavailable: " + m.err.Error())
	case m.snap.PendingReply:
		status = metaStyle.Render(present.TypingText)
	}
	header := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("AI Workout Assistant"), status)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.viewport.View(),
		"",
		m.input.View(),
	)
}

// Run starts the program on the terminal and tears it down on exit.
func Run(chat Chat, opts ...tea.ProgramOption) error {
	m := New(chat)
	defer m.Close()

	_, err := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...).Run()
	return err
}
