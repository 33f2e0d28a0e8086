package agent

import "path/filepath"

func init() { Register(NewAntigravity()) }

// NewAntigravity creates the Antigravity agent.
//
// Current releases live under ~/.gemini/antigravity. The legacy ~/.antigravity
// directory is used only when it exists and the current one does not.
func NewAntigravity() Agent {
	return &baseAgent{
		name:        "antigravity",
		displayName: "Antigravity",
		rank:        10,
		root:        antigravityRoot,
		coreFiles:   []string{"manifest.json", "SKILL.md"},
		mcpPrimary:  antigravityMCPPath,
		mcpAlternates: func(p Paths) []string {
			return []string{
				filepath.Join(p.Home, ".gemini", "antigravity", "mcp_config.json"),
				filepath.Join(p.Home, ".antigravity", "mcp.json"),
			}
		},
		mcpRoot: func(p Paths) string { return filepath.Dir(antigravityMCPPath(p)) },
		dialect: DialectAntigravity,
	}
}

func antigravityRoot(p Paths) string {
	current := filepath.Join(p.Home, ".gemini", "antigravity")
	legacy := filepath.Join(p.Home, ".antigravity")
	if pathExists(current) || !pathExists(legacy) {
		return current
	}
	return legacy
}

func antigravityMCPPath(p Paths) string {
	current := filepath.Join(p.Home, ".gemini", "antigravity", "mcp_config.json")
	legacy := filepath.Join(p.Home, ".antigravity", "mcp.json")
	if pathExists(current) || !pathExists(legacy) {
		return current
	}
	return legacy
}
