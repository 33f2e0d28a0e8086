package engine

import "github.com/barysiuk/ananke/internal/core"

// SelectionKind says what, if anything, is selected.
type SelectionKind int

const (
	NoSelection SelectionKind = iota
	SelectedSkill
	SelectedMcp
)

// Selection is the artifact the user is looking at, addressed by
// composite key so it survives reloads.
type Selection struct {
	Kind SelectionKind
	Key  core.Key
}

// SelectSkill returns a selection of the skill with key.
func SelectSkill(key core.Key) Selection { return Selection{Kind: SelectedSkill, Key: key} }

// SelectMcp returns a selection of the MCP server with key.
func SelectMcp(key core.Key) Selection { return Selection{Kind: SelectedMcp, Key: key} }

// None is the empty selection.
func None() Selection { return Selection{} }

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool { return s.Kind == NoSelection }

// Is reports whether s selects key as kind.
func (s Selection) Is(kind SelectionKind, key core.Key) bool {
	return s.Kind == kind && s.Key == key
}

// Reconcile keeps the selection when its key still resolves in snap and
// collapses it to NoSelection otherwise.
func (s Selection) Reconcile(snap Snapshot) Selection {
	switch s.Kind {
	case SelectedSkill:
		if _, ok := snap.FindSkill(s.Key); ok {
			return s
		}
	case SelectedMcp:
		if _, ok := snap.FindServer(s.Key); ok {
			return s
		}
	default:
		return s
	}
	return None()
}

// Skill returns the selected skill as it appears in snap.
func (s Selection) Skill(snap Snapshot) (core.Skill, bool) {
	if s.Kind != SelectedSkill {
		return core.Skill{}, false
	}
	return snap.FindSkill(s.Key)
}

// Server returns the selected MCP server as it appears in snap.
func (s Selection) Server(snap Snapshot) (core.McpServer, bool) {
	if s.Kind != SelectedMcp {
		return core.McpServer{}, false
	}
	return snap.FindServer(s.Key)
}
