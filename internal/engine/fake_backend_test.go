package engine

import (
	"context"
	"errors"
	"sort"

	"github.com/barysiuk/ananke/internal/core"
)

// memBackend keeps collections in memory and copies with core.PlanSync,
// so bulk sync properties can be checked without touching disk.
type memBackend struct {
	skills map[string][]string
	mcp    map[string][]string
}

func newMemBackend() *memBackend {
	return &memBackend{skills: map[string][]string{}, mcp: map[string][]string{}}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *memBackend) ListSkills(context.Context) ([]core.AgentSource, error) {
	var out []core.AgentSource
	for _, id := range sortedKeys(b.skills) {
		src := core.AgentSource{ID: id, Label: id, Exists: true}
		for _, sk := range b.skills[id] {
			src.Skills = append(src.Skills, core.Skill{ID: sk, Name: sk, SourceID: id})
		}
		out = append(out, src)
	}
	return out, nil
}

func (b *memBackend) ListMcpSources(context.Context) ([]core.McpSource, error) {
	var out []core.McpSource
	for _, id := range sortedKeys(b.mcp) {
		src := core.McpSource{ID: id, Label: id, Format: "json", Exists: true}
		for _, srv := range b.mcp[id] {
			src.Servers = append(src.Servers, core.McpServer{ID: srv, Config: map[string]any{"command": srv}})
		}
		out = append(out, src)
	}
	return out, nil
}

func copyMissing(coll map[string][]string, from, to string) (core.SyncResult, error) {
	if from == to {
		return core.SyncResult{}, errors.New("source and target must be different")
	}
	src, ok := coll[from]
	if !ok {
		return core.SyncResult{}, errors.New("unknown source")
	}
	plan := core.PlanSync(src, coll[to])
	coll[to] = append(coll[to], plan.ToAdd...)
	return plan.Result(), nil
}

func (b *memBackend) SyncSkillsFromAgent(_ context.Context, from, to string) (core.SyncResult, error) {
	return copyMissing(b.skills, from, to)
}

func (b *memBackend) SyncMcpFromAgent(_ context.Context, from, to string) (core.SyncResult, error) {
	return copyMissing(b.mcp, from, to)
}

func (b *memBackend) ListSkillTree(context.Context, string, string) (core.TreeNode, error) {
	return core.TreeNode{}, errors.New("not supported")
}

func (b *memBackend) InstallSkillFromURL(context.Context, string, string, string) (core.Skill, error) {
	return core.Skill{}, errors.New("not supported")
}

func (b *memBackend) SyncSkillFromURL(context.Context, string, string, string, string) (core.Skill, error) {
	return core.Skill{}, errors.New("not supported")
}

func remove(ids []string, id string) ([]string, bool) {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...), true
		}
	}
	return ids, false
}

func (b *memBackend) DeleteSkill(_ context.Context, sourceID, skillID string) error {
	ids, ok := remove(b.skills[sourceID], skillID)
	if !ok {
		return core.ErrSkillNotFound
	}
	b.skills[sourceID] = ids
	return nil
}

func (b *memBackend) UpsertMcpServerJSON(_ context.Context, sourceID, raw string) error {
	p, err := ValidateAndStage(sourceID, raw)
	if err != nil {
		return err
	}
	for _, id := range p.ServerIDs {
		if !core.ExistsInTarget(b.mcp[sourceID], id) {
			b.mcp[sourceID] = append(b.mcp[sourceID], id)
		}
	}
	return nil
}

func (b *memBackend) DeleteMcpServer(_ context.Context, sourceID, id string) error {
	ids, ok := remove(b.mcp[sourceID], id)
	if !ok {
		return core.ErrMcpServerNotFound
	}
	b.mcp[sourceID] = ids
	return nil
}
