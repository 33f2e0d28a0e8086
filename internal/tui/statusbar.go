package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barysiuk/ananke/internal/engine"
)

// statusMsgKind defines the visual style of a transient status message.
type statusMsgKind int

const (
	statusSuccess statusMsgKind = iota
	statusError
	statusWarning
)

// statusAutoDismiss is how long transient messages stay visible.
const statusAutoDismiss = 3 * time.Second

// statusBarModel renders the bottom line of the TUI.
//
// Layout: [left: transient message or help] [right: busy operations]
//
// A transient message hides the help until it is dismissed. The right zone
// shows a spinner and the names of the operations in flight.
type statusBarModel struct {
	width int

	msg     string
	msgKind statusMsgKind
	msgID   int // Monotonic; used to ignore stale dismiss timers.
	nextID  int

	busy     engine.Busy
	spinning bool
	spinner  spinner.Model
}

// statusDismissMsg is sent by the auto-dismiss timer.
type statusDismissMsg struct {
	id int
}

func newStatusBarModel() statusBarModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)
	return statusBarModel{spinner: s}
}

func (m statusBarModel) setWidth(w int) statusBarModel {
	m.width = w
	return m
}

// showMsg displays a transient message and schedules its dismissal.
func (m statusBarModel) showMsg(text string, kind statusMsgKind) (statusBarModel, tea.Cmd) {
	m.msg = text
	m.msgKind = kind
	m.msgID = m.nextID
	m.nextID++

	id := m.msgID
	cmd := tea.Tick(statusAutoDismiss, func(_ time.Time) tea.Msg {
		return statusDismissMsg{id: id}
	})
	return m, cmd
}

func (m statusBarModel) dismissMsg() statusBarModel {
	m.msg = ""
	return m
}

// setBusy records the in-flight flags. The spinner is started when the
// first operation begins; ticks stop on their own once nothing is busy.
func (m statusBarModel) setBusy(b engine.Busy) (statusBarModel, tea.Cmd) {
	m.busy = b
	if b.Any() && !m.spinning {
		m.spinning = true
		return m, m.spinner.Tick
	}
	return m, nil
}

func (m statusBarModel) update(msg tea.Msg) (statusBarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statusDismissMsg:
		if msg.id == m.msgID {
			m = m.dismissMsg()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy.Any() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// view renders the bar; helpContent fills the left zone when no message
// is showing.
func (m statusBarModel) view(helpContent string) string {
	left := m.renderLeft()
	if left == "" {
		left = helpContent
	}
	right := m.renderRight()
	if right == "" {
		return left
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + fmt.Sprintf("%*s%s", gap, "", right)
}

func (m statusBarModel) renderLeft() string {
	if m.msg == "" {
		return ""
	}
	switch m.msgKind {
	case statusSuccess:
		return " " + statusSuccessStyle.Render("✓ "+m.msg)
	case statusError:
		return " " + statusErrorStyle.Render("✗ "+m.msg)
	case statusWarning:
		return " " + statusWarningStyle.Render("⚠ "+m.msg)
	}
	return ""
}

func (m statusBarModel) renderRight() string {
	labels := busyLabels(m.busy)
	if len(labels) == 0 {
		return ""
	}
	return statusTaskStyle.Render(m.spinner.View() + strings.Join(labels, ", "))
}

// busyLabels names the operations in flight.
func busyLabels(b engine.Busy) []string {
	var out []string
	if b.SyncLoading {
		out = append(out, "fetching skill")
	}
	if b.SyncSkillsLoading {
		out = append(out, "syncing skills")
	}
	if b.SyncMcpLoading {
		out = append(out, "syncing MCP")
	}
	if b.Saving {
		out = append(out, "saving")
	}
	return out
}
