package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#A78BFA") // Light purple
	colorSuccess   = lipgloss.Color("#10B981") // Green
	colorDanger    = lipgloss.Color("#EF4444") // Red
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorBorder    = lipgloss.Color("#374151") // Dark gray
	colorWarning   = lipgloss.Color("#F59E0B") // Amber
	colorText      = lipgloss.Color("#D1D5DB")
	colorBright    = lipgloss.Color("#F3F4F6")
)

// Shared styles used across TUI views.
var (
	// Header bar: "ananke  Claude Code"
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	headerScopeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBright).
				Padding(0, 1)

	headerHintStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Main content area.
	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	// NOTE: No MarginBottom; views add explicit \n for predictable height.
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorMuted)

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	installedStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Viewport overlay title (preview, tree).
	viewportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorText).
				Background(colorBorder).
				Padding(0, 1)

	previewPctStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBorder)

	// Metadata block above a rendered skill body.
	metaKeyStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(14)

	metaValueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	sectionRuleStyle = lipgloss.NewStyle().
				Foreground(colorBorder)

	// Tabs.
	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 1)

	tabSeparatorStyle = lipgloss.NewStyle().
				Foreground(colorBorder)

	tabUnderlineStyle = lipgloss.NewStyle().
				Foreground(colorPrimary)

	// Status bar.
	statusSuccessStyle = lipgloss.NewStyle().
				Foreground(colorSuccess)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorDanger)

	statusWarningStyle = lipgloss.NewStyle().
				Foreground(colorWarning)

	statusTaskStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	// Confirmation dialog.
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	dialogButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorMuted).
				Padding(0, 2)

	dialogActiveButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorDanger).
				Padding(0, 2).
				Bold(true)

	// JSON editor frame.
	editorFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorPrimary)

	// Bullet and inline key hints in overlays.
	hintBulletStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)
)

// renderSectionHeader renders a section label with short rules on both sides:
// "  ── SKILLS ──"
func renderSectionHeader(label string) string {
	rule := sectionRuleStyle.Render("──")
	text := sectionHeaderStyle.Render(" " + label + " ")
	return "  " + rule + text + rule
}

// newItemDelegate creates a two-line DefaultDelegate: vertical bar for
// selection, title and description, filter match highlighting.
func newItemDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.NormalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorBright).
		Padding(0, 0, 0, 2)

	d.Styles.NormalDesc = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 0, 0, 2)

	d.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorPrimary).
		Foreground(colorSecondary).
		Bold(true).
		Padding(0, 0, 0, 1)

	d.Styles.SelectedDesc = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorPrimary).
		Foreground(colorMuted).
		Padding(0, 0, 0, 1)

	d.Styles.DimmedTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorMuted).
		Padding(0, 0, 0, 2)

	d.Styles.DimmedDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4D4D4D")).
		Padding(0, 0, 0, 2)

	d.SetSpacing(1)

	return d
}

// newPlainList returns a list.Model with the chrome the views draw
// themselves turned off.
func newPlainList(d list.ItemDelegate, filtering bool) list.Model {
	l := list.New(nil, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(filtering)
	l.DisableQuitKeybindings()
	l.SetShowPagination(false)
	return l
}
