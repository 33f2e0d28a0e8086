package core

// ExistsInTarget reports whether candidateID is already present among
// targetIDs. Matching is exact: no trimming, no case folding.
func ExistsInTarget(targetIDs []string, candidateID string) bool {
	for _, id := range targetIDs {
		if id == candidateID {
			return true
		}
	}
	return false
}

// SyncPlan is the outcome of matching a source collection against a target.
type SyncPlan struct {
	ToAdd   []string // source ids absent from the target, in source order
	Skipped []string // source ids already in the target
}

// Result converts the plan into the counts a bulk copy reports.
func (p SyncPlan) Result() SyncResult {
	return SyncResult{Added: len(p.ToAdd), Skipped: len(p.Skipped)}
}

// PlanSync computes which source ids a bulk copy adds and which it skips.
// Duplicate ids in source are counted once.
func PlanSync(sourceIDs, targetIDs []string) SyncPlan {
	existing := make(map[string]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		existing[id] = struct{}{}
	}

	var plan SyncPlan
	seen := make(map[string]struct{}, len(sourceIDs))
	for _, id := range sourceIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := existing[id]; ok {
			plan.Skipped = append(plan.Skipped, id)
			continue
		}
		plan.ToAdd = append(plan.ToAdd, id)
	}
	return plan
}

// MissingIDs returns the source ids that are not in the target.
func MissingIDs(sourceIDs, targetIDs []string) []string {
	return PlanSync(sourceIDs, targetIDs).ToAdd
}

// SkillIDs returns the ids of a source's skills.
func SkillIDs(src AgentSource) []string {
	ids := make([]string, len(src.Skills))
	for i, s := range src.Skills {
		ids[i] = s.ID
	}
	return ids
}

// ServerIDs returns the ids of a source's MCP servers.
func ServerIDs(src McpSource) []string {
	ids := make([]string, len(src.Servers))
	for i, s := range src.Servers {
		ids[i] = s.ID
	}
	return ids
}
