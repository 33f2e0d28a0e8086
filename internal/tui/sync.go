package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barysiuk/ananke/internal/engine"
)

// syncSubmittedMsg asks the app to run a bulk sync.
type syncSubmittedMsg struct {
	kind     engine.Kind
	sourceID string
	targetID string
}

// syncAgent is one choice in the sync dialog.
type syncAgent struct {
	id    string
	label string
	count int
}

// syncModel is the bulk sync dialog: pick a source and a target agent,
// preview what would be copied, run.
type syncModel struct {
	width  int
	height int

	kind   engine.Kind
	snap   engine.Snapshot
	agents []syncAgent

	source      int
	target      int
	focusTarget bool

	running bool
	err     error
	spinner spinner.Model
}

func newSyncModel() syncModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)
	return syncModel{spinner: s}
}

func (m syncModel) setSize(width, height int) syncModel {
	m.width = width
	m.height = height
	return m
}

// activate opens the dialog for kind. The source defaults to the scoped
// agent and the target to the next one.
func (m syncModel) activate(snap engine.Snapshot, kind engine.Kind, scope string) syncModel {
	m.kind = kind
	m.running = false
	m.err = nil
	m.focusTarget = false
	m = m.setSnapshot(snap)

	m.source = 0
	for i, a := range m.agents {
		if a.id == scope {
			m.source = i
			break
		}
	}
	m.target = 0
	if len(m.agents) > 1 {
		m.target = (m.source + 1) % len(m.agents)
	}
	return m
}

// setSnapshot refreshes counts and the preview after a reload.
func (m syncModel) setSnapshot(snap engine.Snapshot) syncModel {
	m.snap = snap
	m.agents = nil
	if m.kind == engine.KindMcp {
		for _, s := range snap.Mcp {
			m.agents = append(m.agents, syncAgent{id: s.ID, label: s.Label, count: len(s.Servers)})
		}
	} else {
		for _, s := range snap.Skills {
			m.agents = append(m.agents, syncAgent{id: s.ID, label: s.Label, count: len(s.Skills)})
		}
	}
	if m.source >= len(m.agents) {
		m.source = 0
	}
	if m.target >= len(m.agents) {
		m.target = 0
	}
	return m
}

func (m syncModel) startRunning() (syncModel, tea.Cmd) {
	m.running = true
	m.err = nil
	return m, m.spinner.Tick
}

// failed returns the dialog to choosing with err shown.
func (m syncModel) failed(err error) syncModel {
	m.running = false
	m.err = err
	return m
}

func (m syncModel) selection() (string, string) {
	if len(m.agents) == 0 {
		return "", ""
	}
	return m.agents[m.source].id, m.agents[m.target].id
}

func (m syncModel) update(msg tea.Msg) (syncModel, tea.Cmd) {
	if m.running {
		if tick, ok := msg.(spinner.TickMsg); ok {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(tick)
			return m, cmd
		}
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.agents) == 0 {
		return m, nil
	}

	n := len(m.agents)
	cursor := &m.source
	if m.focusTarget {
		cursor = &m.target
	}

	switch {
	case key.Matches(kmsg, keys.Up):
		*cursor = (*cursor - 1 + n) % n
		m.err = nil
	case key.Matches(kmsg, keys.Down):
		*cursor = (*cursor + 1) % n
		m.err = nil
	case key.Matches(kmsg, keys.Tab), key.Matches(kmsg, keys.ShiftTab):
		m.focusTarget = !m.focusTarget
	case key.Matches(kmsg, keys.Swap):
		m.source, m.target = m.target, m.source
		m.err = nil
	case key.Matches(kmsg, keys.Enter):
		src, tgt := m.selection()
		sub := syncSubmittedMsg{kind: m.kind, sourceID: src, targetID: tgt}
		return m, func() tea.Msg { return sub }
	}
	return m, nil
}

func (m syncModel) title() string {
	if m.kind == engine.KindMcp {
		return "Sync MCP Servers"
	}
	return "Sync Skills"
}

func (m syncModel) view() string {
	var b strings.Builder

	b.WriteString(sectionHeaderStyle.Render("  " + strings.ToUpper(m.title())))
	b.WriteString("\n\n")

	colW := max(20, (m.width-6)/2)
	left := m.renderColumn("FROM", m.source, !m.focusTarget, colW)
	right := m.renderColumn("TO", m.target, m.focusTarget, colW)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n\n")

	if m.running {
		src, tgt := m.selection()
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(fmt.Sprintf(" Copying %s from %s to %s", kindNoun(m.kind), src, tgt))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderPreview())

	if m.err != nil {
		b.WriteString("\n  ")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m syncModel) renderColumn(title string, cursor int, focused bool, width int) string {
	var b strings.Builder
	header := sectionHeaderStyle.Render("  " + title)
	if focused {
		header = selectedItemStyle.Render("  " + title)
	}
	b.WriteString(header)
	b.WriteString("\n")
	for i, a := range m.agents {
		line := fmt.Sprintf("%s %s", a.label, badgeStyle.Render(fmt.Sprintf("%d", a.count)))
		if i == cursor {
			style := normalItemStyle
			if focused {
				style = selectedItemStyle
			}
			b.WriteString("  > " + style.Render(a.label) + " " + badgeStyle.Render(fmt.Sprintf("%d", a.count)))
		} else {
			b.WriteString("    " + line)
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// renderPreview shows what the sync would do against the current snapshot.
func (m syncModel) renderPreview() string {
	src, tgt := m.selection()
	if src == tgt {
		return "  " + warningStyle.Render("Choose two different agents.") + "\n"
	}
	plan, err := m.snap.PlanSync(m.kind, src, tgt)
	if err != nil {
		return "  " + errorStyle.Render(err.Error()) + "\n"
	}

	var b strings.Builder
	if len(plan.ToAdd) == 0 {
		b.WriteString("  " + mutedStyle.Render("Nothing to copy: the target already has everything.") + "\n")
	} else {
		b.WriteString("  " + installedStyle.Render(fmt.Sprintf("Will add %d:", len(plan.ToAdd))) + " ")
		b.WriteString(normalItemStyle.Render(strings.Join(plan.ToAdd, ", ")))
		b.WriteString("\n")
	}
	if len(plan.Skipped) > 0 {
		b.WriteString("  " + mutedStyle.Render(fmt.Sprintf("Already present, skipped: %d", len(plan.Skipped))) + "\n")
	}
	return b.String()
}
