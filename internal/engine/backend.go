// Package engine holds the orchestration core of ananke: the install and
// bulk sync flows, the MCP payload validator, the selection state and the
// runner that sequences backend calls with collection reloads.
package engine

import (
	"context"

	"github.com/barysiuk/ananke/internal/core"
)

//go:generate mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks Backend

// Backend is the collaborator that owns skills and MCP configuration on disk.
// *core.Store implements it.
type Backend interface {
	ListSkills(ctx context.Context) ([]core.AgentSource, error)
	ListSkillTree(ctx context.Context, sourceID, skillID string) (core.TreeNode, error)
	InstallSkillFromURL(ctx context.Context, sourceID, url, token string) (core.Skill, error)
	SyncSkillFromURL(ctx context.Context, sourceID, skillID, url, token string) (core.Skill, error)
	SyncSkillsFromAgent(ctx context.Context, sourceID, targetID string) (core.SyncResult, error)
	DeleteSkill(ctx context.Context, sourceID, skillID string) error
	ListMcpSources(ctx context.Context) ([]core.McpSource, error)
	UpsertMcpServerJSON(ctx context.Context, sourceID, raw string) error
	DeleteMcpServer(ctx context.Context, sourceID, id string) error
	SyncMcpFromAgent(ctx context.Context, sourceID, targetID string) (core.SyncResult, error)
}

var _ Backend = (*core.Store)(nil)
