package agent

// Agents whose layout is a plain directory with skills/ and mcp.json.

func init() {
	Register(&baseAgent{name: "roo", displayName: "Roo Code (Cline)", rank: 1, root: homeDir(".roo"), mcpFile: "mcp.json"})
	Register(&baseAgent{name: "copilot", displayName: "GitHub Copilot", rank: 2, root: homeDir(".copilot"), mcpFile: "mcp.json"})
	Register(&baseAgent{name: "cursor", displayName: "Cursor", rank: 3, root: homeDir(".cursor"), mcpFile: "mcp.json"})
	Register(&baseAgent{name: "trae", displayName: "Trae", rank: 7, root: homeDir(".trae"), mcpFile: "mcp.json"})
	Register(&baseAgent{name: "goose", displayName: "Goose", rank: 8, root: configDir("goose"), mcpFile: "mcp.json"})
	Register(&baseAgent{
		name:         "standard",
		displayName:  "Common Standard",
		rank:         9,
		root:         homeDir(".skills"),
		skillsAtRoot: true,
	})
	Register(&baseAgent{
		name: "kiro", displayName: "Kiro", rank: 11, root: homeDir(".kiro"),
		coreFiles: []string{"instructions.md"}, mcpFile: "mcp.json",
	})
	Register(&baseAgent{
		name: "qoder", displayName: "Qoder", rank: 12, root: homeDir(".qoder"),
		coreFiles: []string{"config.yaml"}, mcpFile: "mcp.json",
	})
	Register(&baseAgent{
		name: "codebuddy", displayName: "CodeBuddy", rank: 13, root: homeDir(".codebuddy"),
		coreFiles: []string{".cb-rules", "SKILL.md"}, mcpFile: "mcp.json",
	})
}
