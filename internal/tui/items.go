package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/engine"
)

// ---------------------------------------------------------------------------
// Skill items (skills tab)
// ---------------------------------------------------------------------------

// skillItem wraps a Skill for the bubbles list.
// Implements list.DefaultItem (Title + Description + FilterValue).
type skillItem struct {
	skill core.Skill
}

func (i skillItem) Title() string {
	title := i.skill.Name
	if i.skill.Name != i.skill.ID {
		title += " " + mutedStyle.Render("("+i.skill.ID+")")
	}
	if i.skill.Syncable() {
		title += " " + badgeStyle.Render("↻")
	}
	return title
}

func (i skillItem) Description() string {
	desc := i.skill.Description
	if desc == "" {
		desc = "No description"
	}
	if ts := engine.FormatLastModified(i.skill.LastModified); ts != "" {
		desc = ts + " · " + desc
	}
	return desc
}

func (i skillItem) FilterValue() string { return i.skill.Name + " " + i.skill.ID }

func skillsToItems(skills []core.Skill) []list.Item {
	items := make([]list.Item, len(skills))
	for i, s := range skills {
		items[i] = skillItem{skill: s}
	}
	return items
}

// ---------------------------------------------------------------------------
// Server items (MCP tab)
// ---------------------------------------------------------------------------

// serverItem wraps an McpServer for the bubbles list.
type serverItem struct {
	sourceID string
	server   core.McpServer
}

func (i serverItem) Title() string { return i.server.ID }

func (i serverItem) Description() string {
	if u := i.server.URL(); u != "" {
		return "remote · " + u
	}
	if c := i.server.Command(); c != "" {
		return "stdio · " + strings.TrimSpace(c+" "+strings.Join(i.server.Args(), " "))
	}
	return "no command or url"
}

func (i serverItem) FilterValue() string { return i.server.ID }

func (i serverItem) key() core.Key { return core.Key{SourceID: i.sourceID, ID: i.server.ID} }

func serversToItems(src core.McpSource) []list.Item {
	items := make([]list.Item, len(src.Servers))
	for i, s := range src.Servers {
		items[i] = serverItem{sourceID: src.ID, server: s}
	}
	return items
}

// ---------------------------------------------------------------------------
// Scope items (agent picker, sync dialog)
// ---------------------------------------------------------------------------

// scopeItem is one agent source in the picker.
type scopeItem struct {
	id     string
	label  string
	path   string
	count  int
	exists bool
	active bool
}

func (i scopeItem) FilterValue() string { return i.label + " " + i.id }

// scopeDelegate renders: Label  3 skills  ~/path  (active)
type scopeDelegate struct {
	noun string
}

func (d scopeDelegate) Height() int                             { return 1 }
func (d scopeDelegate) Spacing() int                            { return 0 }
func (d scopeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d scopeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(scopeItem)
	if !ok {
		return
	}

	indicator := "    "
	label := normalItemStyle.Render(si.label)
	if index == m.Index() {
		indicator = "  > "
		label = selectedItemStyle.Render(si.label)
	}

	badge := badgeStyle.Render(fmt.Sprintf("  %d %s", si.count, d.noun))
	path := "  " + mutedStyle.Render(shortenPath(si.path))
	if !si.exists {
		path = "  " + warningStyle.Render("not installed")
	}
	active := ""
	if si.active {
		active = "  " + installedStyle.Render("(active)")
	}
	_, _ = fmt.Fprint(w, indicator+label+badge+path+active)
}

// skillScopeItems lists skill sources; activeID is marked.
func skillScopeItems(sources []core.AgentSource, activeID string) []list.Item {
	items := make([]list.Item, len(sources))
	for i, s := range sources {
		items[i] = scopeItem{
			id: s.ID, label: s.Label, path: s.Root,
			count: len(s.Skills), exists: s.Exists, active: s.ID == activeID,
		}
	}
	return items
}

// mcpScopeItems lists MCP sources; activeID is marked.
func mcpScopeItems(sources []core.McpSource, activeID string) []list.Item {
	items := make([]list.Item, len(sources))
	for i, s := range sources {
		items[i] = scopeItem{
			id: s.ID, label: s.Label, path: s.Path,
			count: len(s.Servers), exists: s.Exists, active: s.ID == activeID,
		}
	}
	return items
}

// scopeItemsFor returns the picker items of kind.
func scopeItemsFor(snap engine.Snapshot, kind engine.Kind, activeID string) []list.Item {
	if kind == engine.KindMcp {
		return mcpScopeItems(snap.Mcp, activeID)
	}
	return skillScopeItems(snap.Skills, activeID)
}

func kindNoun(kind engine.Kind) string {
	if kind == engine.KindMcp {
		return "servers"
	}
	return "skills"
}
