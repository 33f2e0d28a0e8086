package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// editorSaveMsg asks the app to validate and merge raw into sourceID.
type editorSaveMsg struct {
	sourceID string
	raw      string
}

// editorModel is the MCP server JSON editor. The document is an
// {"mcpServers": {...}} object; saving merges its entries into the agent's
// configuration and leaves other servers untouched.
type editorModel struct {
	width  int
	height int

	sourceID    string
	sourceLabel string
	editing     string // server id being edited, empty for a new entry

	area   textarea.Model
	errMsg string
	saving bool
}

func newEditorModel() editorModel {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	return editorModel{area: ta}
}

func (m editorModel) setSize(width, height int) editorModel {
	m.width = width
	m.height = height
	m.area.SetWidth(max(20, width-2))
	// Title, blank line, frame borders and the error line.
	m.area.SetHeight(max(3, height-6))
	return m
}

// activate opens the editor on doc for the given agent.
func (m editorModel) activate(sourceID, label, editing, doc string) (editorModel, tea.Cmd) {
	m.sourceID = sourceID
	m.sourceLabel = label
	m.editing = editing
	m.errMsg = ""
	m.saving = false
	m.area.SetValue(doc)
	return m, m.area.Focus()
}

func (m editorModel) reject(err error) editorModel {
	m.errMsg = err.Error()
	m.saving = false
	return m
}

func (m editorModel) startSaving() editorModel {
	m.saving = true
	m.errMsg = ""
	return m
}

func (m editorModel) title() string {
	if m.editing != "" {
		return "Edit " + m.editing
	}
	return "New MCP Server"
}

func (m editorModel) update(msg tea.Msg) (editorModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok && key.Matches(kmsg, keys.Save) {
		save := editorSaveMsg{sourceID: m.sourceID, raw: m.area.Value()}
		return m, func() tea.Msg { return save }
	}
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		m.errMsg = ""
	}
	return m, cmd
}

func (m editorModel) view() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("  " + strings.ToUpper(m.title())))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render("→ " + m.sourceLabel))
	b.WriteString("\n\n")
	b.WriteString(editorFocusedStyle.Render(m.area.View()))
	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(mutedStyle.Render("  Saving..."))
	case m.errMsg != "":
		b.WriteString("  " + errorStyle.Render(m.errMsg))
	default:
		b.WriteString(mutedStyle.Render("  ctrl+s validates and saves; esc discards"))
	}
	return lipgloss.NewStyle().MaxWidth(max(1, m.width)).Render(b.String())
}
