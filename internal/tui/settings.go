package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/barysiuk/ananke/internal/core"
)

// settingSubmittedMsg asks the app to persist one setting.
type settingSubmittedMsg struct {
	key   string
	value string
}

// settingsModel lists the configuration keys and edits one at a time.
type settingsModel struct {
	width  int
	height int

	settings core.Settings
	keys     []string
	cursor   int

	inputMode bool
	input     textinput.Model
	inputErr  string
}

func newSettingsModel() settingsModel {
	ti := textinput.New()
	ti.CharLimit = 512
	return settingsModel{input: ti, keys: core.SettingKeys()}
}

func (m settingsModel) setSize(width, height int) settingsModel {
	m.width = width
	m.height = height
	m.input.Width = max(10, width-6)
	return m
}

func (m settingsModel) setData(s core.Settings) settingsModel {
	m.settings = s
	return m
}

func (m settingsModel) inputFocused() bool { return m.inputMode }

// saved closes the input after a successful write.
func (m settingsModel) saved(s core.Settings) settingsModel {
	m.settings = s
	m.inputMode = false
	m.inputErr = ""
	m.input.Blur()
	return m
}

// rejected keeps the input open with err.
func (m settingsModel) rejected(err error) settingsModel {
	m.inputErr = err.Error()
	return m
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.inputMode {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.inputMode {
		switch {
		case key.Matches(kmsg, keys.Back):
			m.inputMode = false
			m.inputErr = ""
			m.input.Blur()
			return m, nil
		case key.Matches(kmsg, keys.Enter):
			sub := settingSubmittedMsg{key: m.keys[m.cursor], value: m.input.Value()}
			return m, func() tea.Msg { return sub }
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(kmsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(kmsg, keys.Down):
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case key.Matches(kmsg, keys.Enter):
		value, _ := m.settings.Get(m.keys[m.cursor])
		m.input.SetValue(value)
		m.input.CursorEnd()
		m.inputMode = true
		m.inputErr = ""
		return m, m.input.Focus()
	}
	return m, nil
}

func (m settingsModel) view() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("  SETTINGS"))
	b.WriteString("\n\n")

	for i, k := range m.keys {
		value, _ := m.settings.Get(k)
		if value == "" {
			value = mutedStyle.Render("(unset)")
		}
		if i == m.cursor {
			b.WriteString("  > " + selectedItemStyle.Render(fmt.Sprintf("%-22s", k)) + " " + normalItemStyle.Render(value))
		} else {
			b.WriteString("    " + normalItemStyle.Render(fmt.Sprintf("%-22s", k)) + " " + mutedStyle.Render(value))
		}
		b.WriteString("\n")
	}

	if m.inputMode {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("  New value for " + m.keys[m.cursor] + ":"))
		b.WriteString("\n  ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.inputErr != "" {
			b.WriteString("  " + errorStyle.Render(m.inputErr) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  githubApiUrl, requestTimeoutSeconds and disabledAgents apply on next start."))
	return b.String()
}
