package agent

func init() { Register(NewCodex()) }

// NewCodex creates the Codex agent. Its home honors $CODEX_HOME and its MCP
// servers live in the [mcp_servers] table of config.toml.
func NewCodex() Agent {
	return &baseAgent{
		name:        "codex",
		displayName: "Codex",
		rank:        6,
		root:        func(p Paths) string { return p.CodexHome },
		mcpFile:     "config.toml",
		format:      FormatTOML,
		dialect:     DialectCodex,
		key:         "mcp_servers",
	}
}
