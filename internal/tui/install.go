package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// installSubmittedMsg asks the app to install url into sourceID.
type installSubmittedMsg struct {
	sourceID string
	url      string
}

// installModel is the dialog that reads a GitHub URL to install a skill
// from into the scoped agent.
type installModel struct {
	width int

	sourceID    string
	sourceLabel string
	input       textinput.Model
	inputErr    string
}

func newInstallModel() installModel {
	ti := textinput.New()
	ti.Placeholder = "https://github.com/owner/repo/tree/main/skills/name"
	ti.CharLimit = 512
	return installModel{input: ti}
}

func (m installModel) setSize(width, _ int) installModel {
	m.width = width
	m.input.Width = max(10, width-6)
	return m
}

// activate opens the dialog for the given target agent.
func (m installModel) activate(sourceID, label string) (installModel, tea.Cmd) {
	m.sourceID = sourceID
	m.sourceLabel = label
	m.inputErr = ""
	m.input.SetValue("")
	return m, m.input.Focus()
}

// reject keeps the dialog open with err under the input.
func (m installModel) reject(err error) installModel {
	m.inputErr = err.Error()
	return m
}

func (m installModel) update(msg tea.Msg) (installModel, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && key.Matches(kmsg, keys.Enter) {
		sub := installSubmittedMsg{sourceID: m.sourceID, url: strings.TrimSpace(m.input.Value())}
		return m, func() tea.Msg { return sub }
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m installModel) view() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("  INSTALL SKILL"))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("  Into: "))
	b.WriteString(normalItemStyle.Render(m.sourceLabel))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("  GitHub URL of a skill directory:"))
	b.WriteString("\n  ")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.inputErr != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.inputErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  Public repositories are fetched anonymously; you will be asked for a token if needed."))
	return b.String()
}
