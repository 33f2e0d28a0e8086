package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel is a confirmation dialog rendered as a centered modal over
// the content area. When active it intercepts all key input.
//
// left/right/tab/shift+tab move focus between the buttons, enter activates
// the focused one, and y/n/esc are accelerators.
//
//	app.confirm = app.confirm.show("Delete pdf?", path, deleteCmd)
type confirmModel struct {
	active    bool
	message   string
	detail    string  // Optional second line, e.g. the path being removed.
	onConfirm tea.Cmd // Run on confirmation.
	focusYes  bool

	width  int
	height int
}

// confirmResultMsg is sent after the user answers the dialog.
type confirmResultMsg struct {
	confirmed bool
}

func newConfirmModel() confirmModel {
	return confirmModel{}
}

// show activates the dialog. Focus starts on No.
func (m confirmModel) show(message, detail string, onConfirm tea.Cmd) confirmModel {
	m.active = true
	m.message = message
	m.detail = detail
	m.onConfirm = onConfirm
	m.focusYes = false
	return m
}

func (m confirmModel) setSize(width, height int) confirmModel {
	m.width = width
	m.height = height
	return m
}

func (m confirmModel) dismiss() confirmModel {
	return confirmModel{width: m.width, height: m.height}
}

func (m confirmModel) confirm() (confirmModel, tea.Cmd) {
	cmd := m.onConfirm
	m = m.dismiss()
	return m, tea.Batch(cmd, func() tea.Msg {
		return confirmResultMsg{confirmed: true}
	})
}

func (m confirmModel) cancel() (confirmModel, tea.Cmd) {
	m = m.dismiss()
	return m, func() tea.Msg {
		return confirmResultMsg{confirmed: false}
	}
}

// update handles key input while the dialog is active. The returned bool
// reports whether the message was consumed.
func (m confirmModel) update(msg tea.Msg) (confirmModel, tea.Cmd, bool) {
	if !m.active {
		return m, nil, false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	switch {
	case key.Matches(keyMsg, confirmYesKey):
		m, cmd := m.confirm()
		return m, cmd, true

	case key.Matches(keyMsg, confirmNoKey), key.Matches(keyMsg, keys.Back):
		m, cmd := m.cancel()
		return m, cmd, true

	case key.Matches(keyMsg, keys.Enter):
		if m.focusYes {
			m, cmd := m.confirm()
			return m, cmd, true
		}
		m, cmd := m.cancel()
		return m, cmd, true

	case key.Matches(keyMsg, confirmToggle):
		m.focusYes = !m.focusYes
		return m, nil, true
	}

	// Swallow everything else while the dialog is up.
	return m, nil, true
}

func (m confirmModel) view() string {
	if !m.active {
		return ""
	}

	lines := []string{
		lipgloss.NewStyle().Width(44).Align(lipgloss.Center).Render(m.message),
	}
	if m.detail != "" {
		lines = append(lines, mutedStyle.Width(44).Align(lipgloss.Center).Render(m.detail))
	}

	yesBtn, noBtn := dialogButtonStyle.Render("Yes"), dialogActiveButtonStyle.Render("No")
	if m.focusYes {
		yesBtn, noBtn = dialogActiveButtonStyle.Render("Yes"), dialogButtonStyle.Render("No")
	}
	lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Top, yesBtn, "  ", noBtn))
	dialog := dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))

	if m.width <= 0 || m.height <= 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

var (
	confirmYesKey = key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	)
	confirmNoKey = key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "cancel"),
	)
	confirmToggle = key.NewBinding(
		key.WithKeys("left", "h", "right", "l", "tab", "shift+tab"),
	)
)
