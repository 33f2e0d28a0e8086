package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barysiuk/ananke/internal/engine"
)

// scopeChosenMsg is emitted when the user picks an agent in the picker.
type scopeChosenMsg struct {
	kind engine.Kind
	id   string
}

// pickerModel is the agent picker overlay that switches the scope of the
// active tab.
type pickerModel struct {
	width  int
	height int

	kind engine.Kind
	list list.Model
}

func newPickerModel() pickerModel {
	return pickerModel{list: newPlainList(scopeDelegate{}, true)}
}

func (m pickerModel) setSize(width, height int) pickerModel {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(1, height))
	return m
}

// activate fills the picker with the sources of kind and puts the cursor on
// the active one.
func (m pickerModel) activate(snap engine.Snapshot, kind engine.Kind, activeID string) pickerModel {
	m.kind = kind
	m.list.SetDelegate(scopeDelegate{noun: kindNoun(kind)})
	m.list.SetItems(scopeItemsFor(snap, kind, activeID))
	m.list.ResetFilter()
	for i, id := range snap.SourceIDs(kind) {
		if id == activeID {
			m.list.Select(i)
			break
		}
	}
	return m
}

func (m pickerModel) filtering() bool { return m.list.SettingFilter() }

func (m pickerModel) update(msg tea.Msg) (pickerModel, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() && key.Matches(kmsg, keys.Enter) {
		si, ok := m.list.SelectedItem().(scopeItem)
		if !ok {
			return m, nil
		}
		chosen := scopeChosenMsg{kind: m.kind, id: si.id}
		return m, func() tea.Msg { return chosen }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) view() string {
	title := "  SELECT AGENT"
	if m.kind == engine.KindMcp {
		title = "  SELECT MCP AGENT"
	}
	header := sectionHeaderStyle.Render(title) + "\n"

	if len(m.list.Items()) == 0 {
		return header + mutedStyle.Render("  No agents found.")
	}

	m.list.SetSize(m.width, max(1, m.height-lipgloss.Height(header)))
	return header + m.list.View()
}
