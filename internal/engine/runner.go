package engine

import (
	"context"
	"fmt"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/logger"
)

// Runner performs one backend operation followed by a reload of the
// affected collection. Results carry both so callers can reconcile only
// after the reload has observed the operation's effect.
type Runner struct {
	backend Backend
}

// NewRunner returns a Runner over backend.
func NewRunner(backend Backend) *Runner {
	return &Runner{backend: backend}
}

// Backend returns the underlying collaborator.
func (r *Runner) Backend() Backend { return r.backend }

// Load fetches both collections.
func (r *Runner) Load(ctx context.Context) (Snapshot, error) {
	skills, err := r.backend.ListSkills(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("listing skills: %w", err)
	}
	mcp, err := r.backend.ListMcpSources(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("listing MCP sources: %w", err)
	}
	return Snapshot{Skills: skills, Mcp: mcp}, nil
}

// Reload is a fresh copy of one collection.
type Reload struct {
	Kind   Kind
	Skills []core.AgentSource
	Mcp    []core.McpSource
	Err    error
}

// Apply returns snap with the reloaded collection swapped in. A failed
// reload leaves snap unchanged.
func (rl Reload) Apply(snap Snapshot) Snapshot {
	if rl.Err != nil {
		return snap
	}
	if rl.Kind == KindMcp {
		return snap.WithMcp(rl.Mcp)
	}
	return snap.WithSkills(rl.Skills)
}

// Reload fetches the collection of kind.
func (r *Runner) Reload(ctx context.Context, kind Kind) Reload {
	rl := Reload{Kind: kind}
	if kind == KindMcp {
		rl.Mcp, rl.Err = r.backend.ListMcpSources(ctx)
	} else {
		rl.Skills, rl.Err = r.backend.ListSkills(ctx)
	}
	if rl.Err != nil {
		logger.Warnw("reload failed", "kind", kind.String(), "error", rl.Err)
	}
	return rl
}

// InstallResult is the outcome of one install or sync-latest attempt.
type InstallResult struct {
	Attempt Attempt
	Skill   core.Skill
	Err     error
	Reload  Reload // only populated on success
}

// Install runs attempt a and, on success, reloads the skills collection.
func (r *Runner) Install(ctx context.Context, a Attempt) InstallResult {
	res := InstallResult{Attempt: a}
	req := a.Request
	if req.Op == OpSyncLatest {
		res.Skill, res.Err = r.backend.SyncSkillFromURL(ctx, req.SourceID, req.SkillID, req.URL, a.Token)
	} else {
		res.Skill, res.Err = r.backend.InstallSkillFromURL(ctx, req.SourceID, req.URL, a.Token)
	}
	if res.Err != nil {
		logger.Debugw("install attempt failed", "op", req.Op.String(), "url", req.URL, "authenticated", a.Authenticated(), "error", res.Err)
		return res
	}
	res.Reload = r.Reload(ctx, KindSkills)
	return res
}

// SyncOutcome is the outcome of a bulk sync. The collection is reloaded
// whether or not the sync succeeded.
type SyncOutcome struct {
	Request SyncRequest
	Result  core.SyncResult
	Err     error
	Reload  Reload
}

// SyncCollection copies every missing artifact from the request's source
// to its target in a single backend call.
func (r *Runner) SyncCollection(ctx context.Context, req SyncRequest) SyncOutcome {
	out := SyncOutcome{Request: req}
	if req.Kind == KindMcp {
		out.Result, out.Err = r.backend.SyncMcpFromAgent(ctx, req.SourceID, req.TargetID)
	} else {
		out.Result, out.Err = r.backend.SyncSkillsFromAgent(ctx, req.SourceID, req.TargetID)
	}
	if out.Err == nil {
		logger.Infow("bulk sync finished", "kind", req.Kind.String(), "from", req.SourceID, "to", req.TargetID,
			"added", out.Result.Added, "skipped", out.Result.Skipped)
	}
	out.Reload = r.Reload(ctx, req.Kind)
	return out
}

// DeleteResult is the outcome of deleting one artifact.
type DeleteResult struct {
	Kind   Kind
	Key    core.Key
	Err    error
	Reload Reload // only populated on success
}

// Delete removes the artifact of kind addressed by key.
func (r *Runner) Delete(ctx context.Context, kind Kind, key core.Key) DeleteResult {
	res := DeleteResult{Kind: kind, Key: key}
	if kind == KindMcp {
		res.Err = r.backend.DeleteMcpServer(ctx, key.SourceID, key.ID)
	} else {
		res.Err = r.backend.DeleteSkill(ctx, key.SourceID, key.ID)
	}
	if res.Err != nil {
		return res
	}
	res.Reload = r.Reload(ctx, kind)
	return res
}

// SaveResult is the outcome of merging a validated MCP payload.
type SaveResult struct {
	Payload ValidatedPayload
	Err     error
	Reload  Reload // only populated on success
}

// SaveMcp forwards the payload's raw text to the backend.
func (r *Runner) SaveMcp(ctx context.Context, p ValidatedPayload) SaveResult {
	res := SaveResult{Payload: p}
	if res.Err = r.backend.UpsertMcpServerJSON(ctx, p.SourceID, p.Raw); res.Err != nil {
		return res
	}
	res.Reload = r.Reload(ctx, KindMcp)
	return res
}

// Tree lists the directory tree of the skill addressed by key.
func (r *Runner) Tree(ctx context.Context, key core.Key) (core.TreeNode, error) {
	return r.backend.ListSkillTree(ctx, key.SourceID, key.ID)
}

// TokenPrompt asks for a credential after an auth-shaped failure. An empty
// token dismisses the prompt.
type TokenPrompt func(ctx context.Context, cause error) (string, error)

// RunInstall drives flow to completion synchronously: one attempt, and at
// most one credentialed retry when prompt is non-nil. Without a prompt an
// auth failure is returned as is, leaving flow in AwaitingToken.
func (r *Runner) RunInstall(ctx context.Context, flow *InstallFlow, req InstallRequest, token string, prompt TokenPrompt) (InstallResult, error) {
	a, err := flow.Start(req, token)
	if err != nil {
		return InstallResult{}, err
	}
	for {
		res := r.Install(ctx, a)
		switch flow.Resolve(a, res.Skill, res.Err) {
		case InstallDone:
			return res, nil
		case InstallAwaitingToken:
			if prompt == nil {
				return res, res.Err
			}
			tok, perr := prompt(ctx, res.Err)
			if perr != nil {
				flow.Cancel()
				return res, perr
			}
			if a, err = flow.SubmitToken(tok); err != nil {
				flow.Cancel()
				return res, ErrAborted
			}
		default:
			return res, res.Err
		}
	}
}
