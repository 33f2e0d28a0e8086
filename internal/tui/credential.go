package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/engine"
)

// tokenSubmittedMsg asks the app to retry the pending install with token.
type tokenSubmittedMsg struct {
	token string
}

// credentialCancelledMsg asks the app to abort the pending install.
type credentialCancelledMsg struct{}

// credentialModel is the overlay shown when an install or sync-latest
// failed in a way a GitHub token could fix. It shows the failure and its
// hints and reads the token into a masked input.
//
// States:
//   - prompt: error details, hints and the token input
//   - retrying: spinner while the credentialed attempt runs
type credentialModel struct {
	width  int
	height int

	req   engine.InstallRequest
	cause error
	// inputErr is shown under the input, e.g. for an empty token.
	inputErr string

	input    textinput.Model
	retrying bool
	spinner  spinner.Model

	scrollOffset int
}

func newCredentialModel() credentialModel {
	ti := textinput.New()
	ti.Placeholder = "ghp_..."
	ti.CharLimit = 256
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)
	return credentialModel{input: ti, spinner: s}
}

func (m credentialModel) setSize(width, height int) credentialModel {
	m.width = width
	m.height = height
	m.input.Width = max(10, width-6)
	return m
}

// activate opens the prompt for req after cause.
func (m credentialModel) activate(req engine.InstallRequest, cause error) (credentialModel, tea.Cmd) {
	m.req = req
	m.cause = cause
	m.inputErr = ""
	m.retrying = false
	m.scrollOffset = 0
	m.input.SetValue("")
	return m, m.input.Focus()
}

// startRetry switches to the spinner while the credentialed attempt runs.
func (m credentialModel) startRetry() (credentialModel, tea.Cmd) {
	m.retrying = true
	m.inputErr = ""
	m.input.Blur()
	return m, m.spinner.Tick
}

// rejectToken keeps the prompt open with a message under the input.
func (m credentialModel) rejectToken(err error) credentialModel {
	m.inputErr = err.Error()
	return m
}

func (m credentialModel) isRetrying() bool { return m.retrying }

func (m credentialModel) update(msg tea.Msg) (credentialModel, tea.Cmd) {
	if m.retrying {
		if tick, ok := msg.(spinner.TickMsg); ok {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(tick)
			return m, cmd
		}
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(kmsg, keys.Back):
		return m, func() tea.Msg { return credentialCancelledMsg{} }
	case key.Matches(kmsg, keys.Enter):
		token := m.input.Value()
		return m, func() tea.Msg { return tokenSubmittedMsg{token: token} }
	case kmsg.Type == tea.KeyPgDown:
		m.scrollOffset++
		return m, nil
	case kmsg.Type == tea.KeyPgUp:
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// title is the header hint for the overlay.
func (m credentialModel) title() string {
	if m.retrying {
		return "Retrying..."
	}
	return "Authentication"
}

func (m credentialModel) view() string {
	var b strings.Builder

	if m.retrying {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(" Retrying ")
		b.WriteString(normalItemStyle.Render(m.req.URL))
		b.WriteString(" with token\n")
		return b.String()
	}

	kind := "Authentication Required"
	if fe, ok := core.IsFetchError(m.cause); ok {
		kind = fe.Kind.String()
	}
	b.WriteString("  ")
	b.WriteString(errorStyle.Render(kind))
	b.WriteString("\n\n")

	b.WriteString(mutedStyle.Render("  URL:"))
	b.WriteString("\n    ")
	b.WriteString(normalItemStyle.Render(m.req.URL))
	b.WriteString("\n\n")

	if m.cause != nil {
		b.WriteString(mutedStyle.Render("  Error:"))
		b.WriteString("\n")
		for _, line := range strings.Split(m.cause.Error(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				b.WriteString("    ")
				b.WriteString(errorStyle.Render(line))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render("  Suggestions:"))
	b.WriteString("\n")
	for _, hint := range engine.AuthHints(m.cause) {
		b.WriteString("    ")
		b.WriteString(hintBulletStyle.Render("*"))
		b.WriteString(" ")
		b.WriteString(normalItemStyle.Render(hint))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  GitHub token (used for this retry only):"))
	b.WriteString("\n  ")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.inputErr != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.inputErr))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(hintKeyStyle.Render("[enter]"))
	b.WriteString(" ")
	b.WriteString(normalItemStyle.Render("Retry"))
	b.WriteString("   ")
	b.WriteString(hintKeyStyle.Render("[esc]"))
	b.WriteString(" ")
	b.WriteString(normalItemStyle.Render("Cancel"))
	b.WriteString("\n")

	content := b.String()
	if m.scrollOffset > 0 {
		lines := strings.Split(content, "\n")
		if m.scrollOffset < len(lines) {
			content = strings.Join(lines[m.scrollOffset:], "\n")
		}
	}
	return content
}
