package engine

import (
	"github.com/barysiuk/ananke/internal/core"
)

// Busy reports which operations are in flight. Each flag only blocks its
// own operation: a skills sync and an MCP sync may overlap.
type Busy struct {
	SyncLoading       bool // install or sync-latest
	SyncSkillsLoading bool
	SyncMcpLoading    bool
	Saving            bool // MCP merge
}

// Any reports whether anything is in flight.
func (b Busy) Any() bool {
	return b.SyncLoading || b.SyncSkillsLoading || b.SyncMcpLoading || b.Saving
}

// Session is the state of one interactive session: the current snapshot,
// the selection, the agent scopes and the flows. It is not safe for
// concurrent use; the owner applies results on a single goroutine.
type Session struct {
	snap       Snapshot
	sel        Selection
	skillScope string
	mcpScope   string
	saving     bool

	install    InstallFlow
	skillsSync *BulkFlow
	mcpSync    *BulkFlow
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{
		skillsSync: NewBulkFlow(KindSkills),
		mcpSync:    NewBulkFlow(KindMcp),
	}
}

func (s *Session) Snapshot() Snapshot       { return s.snap }
func (s *Session) Selection() Selection     { return s.sel }
func (s *Session) SkillScope() string       { return s.skillScope }
func (s *Session) McpScope() string         { return s.mcpScope }
func (s *Session) Install() *InstallFlow    { return &s.install }
func (s *Session) Bulk(kind Kind) *BulkFlow { return s.bulk(kind) }

func (s *Session) bulk(kind Kind) *BulkFlow {
	if kind == KindMcp {
		return s.mcpSync
	}
	return s.skillsSync
}

// Busy returns the in-flight flags.
func (s *Session) Busy() Busy {
	return Busy{
		SyncLoading:       s.install.InFlight(),
		SyncSkillsLoading: s.skillsSync.Running(),
		SyncMcpLoading:    s.mcpSync.Running(),
		Saving:            s.saving,
	}
}

// Select sets the selection if its key resolves in the current snapshot.
func (s *Session) Select(sel Selection) {
	s.sel = sel.Reconcile(s.snap)
}

// SetSkillScope switches the skills tab to another agent.
func (s *Session) SetSkillScope(id string) {
	s.skillScope = id
}

// SetMcpScope switches the MCP tab to another agent. A selected MCP server
// belongs to the previous scope, so it is cleared.
func (s *Session) SetMcpScope(id string) {
	s.mcpScope = id
	if s.sel.Kind == SelectedMcp {
		s.sel = None()
	}
}

// Load replaces the whole snapshot, for the initial load.
func (s *Session) Load(snap Snapshot) {
	s.snap = snap
	s.reconcile()
}

// ApplyReload swaps a reloaded collection into the snapshot and reconciles.
func (s *Session) ApplyReload(rl Reload) {
	s.snap = rl.Apply(s.snap)
	s.reconcile()
}

func (s *Session) reconcile() {
	s.sel = s.sel.Reconcile(s.snap)
	s.skillScope = pickScope(s.skillScope, s.snap.SourceIDs(KindSkills))
	if scope := pickScope(s.mcpScope, s.snap.SourceIDs(KindMcp)); scope != s.mcpScope {
		s.SetMcpScope(scope)
	}
}

// pickScope keeps current when it is still listed, else falls back to the
// first listed id.
func pickScope(current string, ids []string) string {
	for _, id := range ids {
		if id == current {
			return current
		}
	}
	if len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// StartInstall begins an install or sync-latest flow.
func (s *Session) StartInstall(req InstallRequest, token string) (Attempt, error) {
	return s.install.Start(req, token)
}

// ApplyInstall records an install result. On success the reload is applied
// first and the new skill is then selected.
func (s *Session) ApplyInstall(res InstallResult) InstallState {
	state := s.install.Resolve(res.Attempt, res.Skill, res.Err)
	if state != InstallDone {
		return state
	}
	s.ApplyReload(res.Reload)
	s.skillScope = res.Skill.SourceID
	// A failed reload leaves the new skill out of the snapshot; the
	// previous selection stays in that case.
	if sel := SelectSkill(res.Skill.Key()).Reconcile(s.snap); !sel.IsNone() {
		s.sel = sel
	}
	return state
}

// OpenSync opens the bulk sync dialog for kind.
func (s *Session) OpenSync(kind Kind) error {
	return s.bulk(kind).Open(s.snap.SourceCount(kind))
}

// SyncAvailable reports whether a bulk sync of kind may be offered.
func (s *Session) SyncAvailable(kind Kind) bool {
	return s.snap.SourceCount(kind) >= 2
}

// BeginSync validates the pair and marks the sync of kind as running.
func (s *Session) BeginSync(kind Kind, sourceID, targetID string) (SyncRequest, error) {
	return s.bulk(kind).Begin(sourceID, targetID)
}

// ApplySync applies the reload of a finished bulk sync and resolves its flow.
func (s *Session) ApplySync(out SyncOutcome) BulkState {
	s.ApplyReload(out.Reload)
	return s.bulk(out.Request.Kind).Resolve(out.Result, out.Err)
}

// ApplyDelete applies a delete result. Deleting the selected artifact
// clears the selection.
func (s *Session) ApplyDelete(res DeleteResult) {
	if res.Err != nil {
		return
	}
	kind := SelectedSkill
	if res.Kind == KindMcp {
		kind = SelectedMcp
	}
	if s.sel.Is(kind, res.Key) {
		s.sel = None()
	}
	s.ApplyReload(res.Reload)
}

// BeginSave validates raw for sourceID and marks a save as in flight.
func (s *Session) BeginSave(sourceID, raw string) (ValidatedPayload, error) {
	if s.saving {
		return ValidatedPayload{}, ErrBusy
	}
	p, err := ValidateAndStage(sourceID, raw)
	if err != nil {
		return ValidatedPayload{}, err
	}
	s.saving = true
	return p, nil
}

// ApplySave records a save result.
func (s *Session) ApplySave(res SaveResult) {
	s.saving = false
	if res.Err != nil {
		return
	}
	s.ApplyReload(res.Reload)
}

// SelectedSkill returns the selected skill from the current snapshot.
func (s *Session) SelectedSkill() (core.Skill, bool) { return s.sel.Skill(s.snap) }

// SelectedServer returns the selected MCP server from the current snapshot.
func (s *Session) SelectedServer() (core.McpServer, bool) { return s.sel.Server(s.snap) }
