package tui

import (
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/barysiuk/ananke/internal/core"
)

// renderTree draws a skill directory as an indented tree. Directories are
// highlighted and symlinks marked with @.
func renderTree(root core.TreeNode) string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render(root.Name + "/"))
	b.WriteString("\n")
	writeTreeLines(&b, root, "")
	return strings.TrimRight(b.String(), "\n")
}

func writeTreeLines(b *strings.Builder, node core.TreeNode, prefix string) {
	for i, child := range node.Children {
		connector, indent := "├── ", "│   "
		if i == len(node.Children)-1 {
			connector, indent = "└── ", "    "
		}
		b.WriteString(mutedStyle.Render(prefix + connector))
		switch child.Kind {
		case core.TreeDir:
			b.WriteString(selectedItemStyle.Render(child.Name + "/"))
		case core.TreeLink:
			b.WriteString(normalItemStyle.Render(child.Name) + mutedStyle.Render("@"))
		default:
			b.WriteString(normalItemStyle.Render(child.Name))
		}
		b.WriteString("\n")
		if child.Kind == core.TreeDir {
			writeTreeLines(b, child, prefix+indent)
		}
	}
}

// copyCmd writes text to the system clipboard and reports the outcome.
func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: "Copy failed: " + err.Error(), kind: statusError}
		}
		return statusMsg{text: "Copied " + what + " to clipboard", kind: statusSuccess}
	}
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
