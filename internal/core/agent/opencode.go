package agent

func init() { Register(NewOpenCode()) }

// NewOpenCode creates the OpenCode agent. Servers are stored under the "mcp"
// key of opencode.json using OpenCode's own entry shape.
func NewOpenCode() Agent {
	return &baseAgent{
		name:        "opencode",
		displayName: "OpenCode",
		rank:        4,
		root:        configDir("opencode"),
		mcpFile:     "opencode.json",
		dialect:     DialectOpenCode,
		key:         "mcp",
	}
}
