package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barysiuk/ananke/internal/core"
)

// mcpModel is the MCP tab: the servers configured for the scoped agent.
type mcpModel struct {
	width  int
	height int

	list   list.Model
	source core.McpSource
	loaded bool
}

func newMcpModel() mcpModel {
	return mcpModel{list: newPlainList(newItemDelegate(), true)}
}

func (m mcpModel) setSize(width, height int) mcpModel {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(1, height))
	return m
}

func (m mcpModel) setData(src core.McpSource, selectedID string) mcpModel {
	m.source = src
	m.loaded = true
	m.list.SetItems(serversToItems(src))
	if selectedID != "" {
		for i, s := range src.Servers {
			if s.ID == selectedID {
				m.list.Select(i)
				break
			}
		}
	}
	return m
}

func (m mcpModel) selected() (serverItem, bool) {
	si, ok := m.list.SelectedItem().(serverItem)
	return si, ok
}

func (m mcpModel) filtering() bool { return m.list.SettingFilter() }

func (m mcpModel) update(msg tea.Msg) (mcpModel, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m mcpModel) view() string {
	if !m.loaded {
		return mutedStyle.Render("  Loading...")
	}
	if m.source.ID == "" {
		return mutedStyle.Render("  No agents found.")
	}

	header := renderSectionHeader(fmt.Sprintf("MCP SERVERS (%d)", len(m.source.Servers))) + "\n" +
		"  " + mutedStyle.Render(fmt.Sprintf("%s (%s)", shortenPath(m.source.Path), m.source.Format)) + "\n\n"

	if len(m.source.Servers) == 0 {
		return header + mutedStyle.Render("  No MCP servers configured.") + "\n" +
			mutedStyle.Render("  Press [n] to add one.")
	}

	m.list.SetSize(m.width, max(1, m.height-lipgloss.Height(header)))
	return header + m.list.View()
}
