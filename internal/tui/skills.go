package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barysiuk/ananke/internal/core"
)

// skillsModel is the skills tab: the skills of the scoped agent.
type skillsModel struct {
	width  int
	height int

	list   list.Model
	source core.AgentSource
	loaded bool
}

func newSkillsModel() skillsModel {
	return skillsModel{list: newPlainList(newItemDelegate(), true)}
}

func (m skillsModel) setSize(width, height int) skillsModel {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(1, height))
	return m
}

// setData replaces the listed skills, keeping the cursor on selectedID
// when it is still present.
func (m skillsModel) setData(src core.AgentSource, selectedID string) skillsModel {
	m.source = src
	m.loaded = true
	m.list.SetItems(skillsToItems(src.Skills))
	m = m.selectID(selectedID)
	return m
}

func (m skillsModel) selectID(id string) skillsModel {
	if id == "" {
		return m
	}
	for i, s := range m.source.Skills {
		if s.ID == id {
			m.list.Select(i)
			break
		}
	}
	return m
}

// selected returns the highlighted skill.
func (m skillsModel) selected() (core.Skill, bool) {
	si, ok := m.list.SelectedItem().(skillItem)
	if !ok {
		return core.Skill{}, false
	}
	return si.skill, true
}

func (m skillsModel) filtering() bool { return m.list.SettingFilter() }

func (m skillsModel) update(msg tea.Msg) (skillsModel, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m skillsModel) view() string {
	if !m.loaded {
		return mutedStyle.Render("  Loading...")
	}
	if m.source.ID == "" {
		return mutedStyle.Render("  No agents found.")
	}

	header := renderSectionHeader(fmt.Sprintf("SKILLS (%d)", len(m.source.Skills))) + "\n" +
		"  " + mutedStyle.Render(shortenPath(m.source.Root)) + "\n\n"

	if len(m.source.Skills) == 0 {
		hint := "  No skills installed."
		if !m.source.Exists {
			hint = "  " + m.source.Label + " is not installed here."
		}
		return header + mutedStyle.Render(hint) + "\n" +
			mutedStyle.Render("  Press [i] to install one from a GitHub URL.")
	}

	m.list.SetSize(m.width, max(1, m.height-lipgloss.Height(header)))
	return header + m.list.View()
}
