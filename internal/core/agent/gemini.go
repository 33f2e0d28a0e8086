package agent

import "path/filepath"

func init() { Register(NewGemini()) }

// NewGemini creates the Gemini CLI agent.
func NewGemini() Agent {
	return &baseAgent{
		name:        "gemini",
		displayName: "Gemini CLI",
		rank:        5,
		root:        homeDir(".gemini"),
		mcpFile:     "settings.json",
		mcpAlternates: func(p Paths) []string {
			return []string{filepath.Join(p.Home, ".gemini", "mcp.json")}
		},
	}
}
