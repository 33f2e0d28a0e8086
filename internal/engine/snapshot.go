package engine

import (
	"fmt"

	"github.com/barysiuk/ananke/internal/core"
)

// Snapshot is the last fetched state of both collections. It is a value:
// reloads build a new Snapshot rather than editing the old one.
type Snapshot struct {
	Skills []core.AgentSource
	Mcp    []core.McpSource
}

// WithSkills returns a copy of s with the skills collection replaced.
func (s Snapshot) WithSkills(sources []core.AgentSource) Snapshot {
	s.Skills = sources
	return s
}

// WithMcp returns a copy of s with the MCP collection replaced.
func (s Snapshot) WithMcp(sources []core.McpSource) Snapshot {
	s.Mcp = sources
	return s
}

// SourceCount returns how many agent sources of kind are listed.
func (s Snapshot) SourceCount(kind Kind) int {
	if kind == KindMcp {
		return len(s.Mcp)
	}
	return len(s.Skills)
}

// SourceIDs returns the ids of the listed sources of kind.
func (s Snapshot) SourceIDs(kind Kind) []string {
	var ids []string
	if kind == KindMcp {
		for _, src := range s.Mcp {
			ids = append(ids, src.ID)
		}
		return ids
	}
	for _, src := range s.Skills {
		ids = append(ids, src.ID)
	}
	return ids
}

func (s Snapshot) SkillSource(id string) (core.AgentSource, bool) {
	for _, src := range s.Skills {
		if src.ID == id {
			return src, true
		}
	}
	return core.AgentSource{}, false
}

func (s Snapshot) McpSource(id string) (core.McpSource, bool) {
	for _, src := range s.Mcp {
		if src.ID == id {
			return src, true
		}
	}
	return core.McpSource{}, false
}

// FindSkill resolves a composite key against the snapshot.
func (s Snapshot) FindSkill(key core.Key) (core.Skill, bool) {
	src, ok := s.SkillSource(key.SourceID)
	if !ok {
		return core.Skill{}, false
	}
	for _, sk := range src.Skills {
		if sk.ID == key.ID {
			return sk, true
		}
	}
	return core.Skill{}, false
}

// FindServer resolves a composite key against the snapshot.
func (s Snapshot) FindServer(key core.Key) (core.McpServer, bool) {
	src, ok := s.McpSource(key.SourceID)
	if !ok {
		return core.McpServer{}, false
	}
	for _, srv := range src.Servers {
		if srv.ID == key.ID {
			return srv, true
		}
	}
	return core.McpServer{}, false
}

// PlanSync previews what a bulk sync from sourceID to targetID would do,
// based on the snapshot rather than the disk.
func (s Snapshot) PlanSync(kind Kind, sourceID, targetID string) (core.SyncPlan, error) {
	var from, to []string
	switch kind {
	case KindMcp:
		src, ok := s.McpSource(sourceID)
		if !ok {
			return core.SyncPlan{}, fmt.Errorf("unknown MCP source %q", sourceID)
		}
		tgt, ok := s.McpSource(targetID)
		if !ok {
			return core.SyncPlan{}, fmt.Errorf("unknown MCP source %q", targetID)
		}
		from, to = core.ServerIDs(src), core.ServerIDs(tgt)
	default:
		src, ok := s.SkillSource(sourceID)
		if !ok {
			return core.SyncPlan{}, fmt.Errorf("unknown skill source %q", sourceID)
		}
		tgt, ok := s.SkillSource(targetID)
		if !ok {
			return core.SyncPlan{}, fmt.Errorf("unknown skill source %q", targetID)
		}
		from, to = core.SkillIDs(src), core.SkillIDs(tgt)
	}
	return core.PlanSync(from, to), nil
}
