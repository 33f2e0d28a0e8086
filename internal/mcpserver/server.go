// Package mcpserver exposes ananke's skill and MCP operations as tools over
// the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/engine"
	"github.com/barysiuk/ananke/internal/logger"
)

const serverName = "ananke"

// Handlers implements the tools. Bulk sync flows are shared across calls
// so that two syncs of the same kind cannot overlap.
type Handlers struct {
	runner *engine.Runner

	mu   sync.Mutex
	bulk map[engine.Kind]*engine.BulkFlow
}

// NewHandlers returns tool handlers backed by runner.
func NewHandlers(runner *engine.Runner) *Handlers {
	return &Handlers{
		runner: runner,
		bulk: map[engine.Kind]*engine.BulkFlow{
			engine.KindSkills: engine.NewBulkFlow(engine.KindSkills),
			engine.KindMcp:    engine.NewBulkFlow(engine.KindMcp),
		},
	}
}

// New builds an MCP server with every ananke tool registered.
func New(runner *engine.Runner, version string) *server.MCPServer {
	s := server.NewMCPServer(serverName, version, server.WithToolCapabilities(true))
	Register(s, NewHandlers(runner))
	return s
}

// Register adds the tools to s.
func Register(s *server.MCPServer, h *Handlers) {
	s.AddTool(listSkillsTool(), h.ListSkills)
	s.AddTool(listMcpSourcesTool(), h.ListMcpSources)
	s.AddTool(installSkillTool(), h.InstallSkill)
	s.AddTool(syncLatestSkillTool(), h.SyncLatestSkill)
	s.AddTool(syncSkillsTool(), h.SyncSkills)
	s.AddTool(syncMcpTool(), h.SyncMcp)
	s.AddTool(upsertMcpServersTool(), h.UpsertMcpServers)
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func ServeStdio(runner *engine.Runner, version string) error {
	return server.ServeStdio(New(runner, version))
}

func listSkillsTool() mcp.Tool {
	return mcp.NewTool("list_skills",
		mcp.WithDescription("List installed agents and their skills."),
		mcp.WithString("source_id",
			mcp.Description("Only list this agent source (e.g. claude-user). Omit to list all."),
		),
	)
}

func listMcpSourcesTool() mcp.Tool {
	return mcp.NewTool("list_mcp_sources",
		mcp.WithDescription("List agents with MCP configuration and their configured servers."),
		mcp.WithString("source_id",
			mcp.Description("Only list this agent (e.g. claude). Omit to list all."),
		),
	)
}

func installSkillTool() mcp.Tool {
	return mcp.NewTool("install_skill",
		mcp.WithDescription("Install a skill from a GitHub directory URL into an agent. Private repositories need a token."),
		mcp.WithString("source_id", mcp.Description("Target skill source id"), mcp.Required()),
		mcp.WithString("url", mcp.Description("GitHub directory URL of the skill"), mcp.Required()),
		mcp.WithString("token", mcp.Description("GitHub token, only needed for private repositories")),
	)
}

func syncLatestSkillTool() mcp.Tool {
	return mcp.NewTool("sync_latest_skill",
		mcp.WithDescription("Re-fetch an installed skill from the URL it was installed from."),
		mcp.WithString("source_id", mcp.Description("Skill source id"), mcp.Required()),
		mcp.WithString("skill_id", mcp.Description("Skill id"), mcp.Required()),
		mcp.WithString("token", mcp.Description("GitHub token, only needed for private repositories")),
	)
}

func syncSkillsTool() mcp.Tool {
	return mcp.NewTool("sync_skills",
		mcp.WithDescription("Copy every skill missing from the target agent out of the source agent. Existing skill ids are skipped."),
		mcp.WithString("source_id", mcp.Description("Agent to copy from"), mcp.Required()),
		mcp.WithString("target_id", mcp.Description("Agent to copy into"), mcp.Required()),
	)
}

func syncMcpTool() mcp.Tool {
	return mcp.NewTool("sync_mcp",
		mcp.WithDescription("Copy every MCP server missing from the target agent out of the source agent. Existing server ids are skipped."),
		mcp.WithString("source_id", mcp.Description("Agent to copy from"), mcp.Required()),
		mcp.WithString("target_id", mcp.Description("Agent to copy into"), mcp.Required()),
	)
}

func upsertMcpServersTool() mcp.Tool {
	return mcp.NewTool("upsert_mcp_servers",
		mcp.WithDescription(`Add or replace MCP servers in an agent's configuration. The JSON must be an object with an "mcpServers" object; servers not named in it are left untouched.`),
		mcp.WithString("source_id", mcp.Description("Agent whose configuration to edit"), mcp.Required()),
		mcp.WithString("json", mcp.Description(`e.g. {"mcpServers":{"fs":{"command":"npx","args":["-y","@modelcontextprotocol/server-filesystem"]}}}`), mcp.Required()),
	)
}

// ListSkills handles list_skills.
func (h *Handlers) ListSkills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rl := h.runner.Reload(ctx, engine.KindSkills)
	if rl.Err != nil {
		return toolError(rl.Err)
	}
	filter := strings.TrimSpace(req.GetString("source_id", ""))
	out := make([]skillSourceView, 0, len(rl.Skills))
	for _, src := range rl.Skills {
		if filter != "" && src.ID != filter {
			continue
		}
		out = append(out, newSkillSourceView(src))
	}
	if filter != "" && len(out) == 0 {
		return toolError(fmt.Errorf("unknown skill source %q", filter))
	}
	return jsonResult(out)
}

// ListMcpSources handles list_mcp_sources.
func (h *Handlers) ListMcpSources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rl := h.runner.Reload(ctx, engine.KindMcp)
	if rl.Err != nil {
		return toolError(rl.Err)
	}
	filter := strings.TrimSpace(req.GetString("source_id", ""))
	out := make([]core.McpSource, 0, len(rl.Mcp))
	for _, src := range rl.Mcp {
		if filter == "" || src.ID == filter {
			out = append(out, src)
		}
	}
	if filter != "" && len(out) == 0 {
		return toolError(fmt.Errorf("unknown MCP source %q", filter))
	}
	return jsonResult(out)
}

// InstallSkill handles install_skill.
func (h *Handlers) InstallSkill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceID := req.GetString("source_id", "")
	ir, err := engine.NewInstallRequest(sourceID, req.GetString("url", ""))
	if err != nil {
		return toolError(err)
	}
	return h.runInstall(ctx, ir, req.GetString("token", ""))
}

// SyncLatestSkill handles sync_latest_skill.
func (h *Handlers) SyncLatestSkill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := core.Key{SourceID: req.GetString("source_id", ""), ID: req.GetString("skill_id", "")}
	rl := h.runner.Reload(ctx, engine.KindSkills)
	if rl.Err != nil {
		return toolError(rl.Err)
	}
	skill, ok := engine.Snapshot{Skills: rl.Skills}.FindSkill(key)
	if !ok {
		return toolError(fmt.Errorf("%s: %w", key, core.ErrSkillNotFound))
	}
	ir, err := engine.NewSyncLatestRequest(skill)
	if err != nil {
		return toolError(err)
	}
	return h.runInstall(ctx, ir, req.GetString("token", ""))
}

func (h *Handlers) runInstall(ctx context.Context, ir engine.InstallRequest, token string) (*mcp.CallToolResult, error) {
	var flow engine.InstallFlow
	res, err := h.runner.RunInstall(ctx, &flow, ir, token, nil)
	if flow.State() == engine.InstallAwaitingToken {
		var b strings.Builder
		fmt.Fprintf(&b, "authentication required for %s: retry with the token argument\n", ir.URL)
		for _, hint := range engine.AuthHints(err) {
			fmt.Fprintf(&b, "- %s\n", hint)
		}
		return mcp.NewToolResultError(b.String()), nil
	}
	if err != nil {
		return toolError(err)
	}
	logger.Infow("skill installed over MCP", "op", ir.Op.String(), "source", res.Skill.SourceID, "skill", res.Skill.ID)
	return jsonResult(newSkillView(res.Skill))
}

// SyncSkills handles sync_skills.
func (h *Handlers) SyncSkills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.syncCollection(ctx, engine.KindSkills, req)
}

// SyncMcp handles sync_mcp.
func (h *Handlers) SyncMcp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.syncCollection(ctx, engine.KindMcp, req)
}

func (h *Handlers) syncCollection(ctx context.Context, kind engine.Kind, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rl := h.runner.Reload(ctx, kind)
	if rl.Err != nil {
		return toolError(rl.Err)
	}
	snap := rl.Apply(engine.Snapshot{})

	h.mu.Lock()
	flow := h.bulk[kind]
	err := flow.Open(snap.SourceCount(kind))
	var sr engine.SyncRequest
	if err == nil {
		sr, err = flow.Begin(req.GetString("source_id", ""), req.GetString("target_id", ""))
		if err != nil {
			flow.Close()
		}
	}
	h.mu.Unlock()
	if err != nil {
		return toolError(err)
	}

	out := h.runner.SyncCollection(ctx, sr)

	h.mu.Lock()
	flow.Resolve(out.Result, out.Err)
	flow.Close()
	h.mu.Unlock()

	if out.Err != nil {
		return toolError(out.Err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Synced %s from %s to %s: added %d, skipped %d",
		kind, sr.SourceID, sr.TargetID, out.Result.Added, out.Result.Skipped)), nil
}

// UpsertMcpServers handles upsert_mcp_servers.
func (h *Handlers) UpsertMcpServers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceID := strings.TrimSpace(req.GetString("source_id", ""))
	if sourceID == "" {
		return toolError(errors.New("source_id is required"))
	}
	p, err := engine.ValidateAndStage(sourceID, req.GetString("json", ""))
	if err != nil {
		return toolError(err)
	}
	if res := h.runner.SaveMcp(ctx, p); res.Err != nil {
		return toolError(res.Err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %d MCP server(s) to %s: %s",
		len(p.ServerIDs), sourceID, strings.Join(p.ServerIDs, ", "))), nil
}

type skillView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Path         string            `json:"path"`
	SourceURL    string            `json:"sourceUrl,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified string            `json:"lastModified,omitempty"`
}

type skillSourceView struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Root   string      `json:"root"`
	Exists bool        `json:"exists"`
	Skills []skillView `json:"skills"`
}

func newSkillView(s core.Skill) skillView {
	return skillView{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Path:         s.Path,
		SourceURL:    s.SourceURL,
		Metadata:     s.Metadata,
		LastModified: engine.FormatLastModified(s.LastModified),
	}
}

func newSkillSourceView(src core.AgentSource) skillSourceView {
	v := skillSourceView{ID: src.ID, Label: src.Label, Root: src.Root, Exists: src.Exists, Skills: []skillView{}}
	for _, s := range src.Skills {
		v.Skills = append(v.Skills, newSkillView(s))
	}
	return v
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
