package agent

import "path/filepath"

func init() { Register(NewClaude()) }

// NewClaude creates the Claude Code agent.
//
// Claude Code keeps user-scoped MCP servers in ~/.claude.json. Older setups
// used ~/.claude/.mcp.json or ~/.claude/mcp.json, which are still read.
func NewClaude() Agent {
	return &baseAgent{
		name:        "claude",
		displayName: "Claude Code",
		rank:        0,
		root:        homeDir(".claude"),
		mcpPrimary: func(p Paths) string {
			return filepath.Join(p.Home, ".claude.json")
		},
		mcpAlternates: func(p Paths) []string {
			return []string{
				filepath.Join(p.Home, ".claude", ".mcp.json"),
				filepath.Join(p.Home, ".claude", "mcp.json"),
			}
		},
	}
}
