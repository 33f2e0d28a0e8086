package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tab identifies one of the top-level collections.
type tab int

const (
	tabSkills tab = iota
	tabMcp
)

// tabActiveMsg is emitted after the active tab changes.
type tabActiveMsg tab

// tabsModel is the horizontal tab bar.
//
//	Skills (3)  │  MCP Servers (2)
//	──────────
type tabsModel struct {
	labels []string
	active tab
}

func newTabsModel() tabsModel {
	return tabsModel{labels: tabLabels(0, 0)}
}

// tabLabels builds the labels with the item counts of the scoped agents.
func tabLabels(skills, servers int) []string {
	return []string{
		fmt.Sprintf("Skills (%d)", skills),
		fmt.Sprintf("MCP Servers (%d)", servers),
	}
}

func (m tabsModel) setCounts(skills, servers int) tabsModel {
	m.labels = tabLabels(skills, servers)
	return m
}

// update cycles tabs on tab / shift+tab. blocked is true when the parent
// wants to keep the current tab, e.g. while a list is filtering.
func (m tabsModel) update(msg tea.Msg, blocked bool) (tabsModel, tea.Cmd, bool) {
	if blocked {
		return m, nil, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	n := len(m.labels)
	switch {
	case key.Matches(kmsg, keys.Tab):
		m.active = tab((int(m.active) + 1) % n)
	case key.Matches(kmsg, keys.ShiftTab):
		m.active = tab((int(m.active) - 1 + n) % n)
	default:
		return m, nil, false
	}
	active := m.active
	return m, func() tea.Msg { return tabActiveMsg(active) }, true
}

// view renders the tab line with an underline below the active tab.
func (m tabsModel) view() string {
	sep := tabSeparatorStyle.Render("│")

	parts := make([]string, len(m.labels))
	for i, label := range m.labels {
		if tab(i) == m.active {
			parts[i] = tabActiveStyle.Render(label)
		} else {
			parts[i] = tabInactiveStyle.Render(label)
		}
	}
	line := "  " + strings.Join(parts, sep)

	offset := 2
	for i := 0; i < int(m.active); i++ {
		offset += lipgloss.Width(parts[i]) + lipgloss.Width(sep)
	}
	activeW := lipgloss.Width(parts[m.active])
	underline := strings.Repeat(" ", offset) + tabUnderlineStyle.Render(strings.Repeat("─", activeW))

	return line + "\n" + underline
}
