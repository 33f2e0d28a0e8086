package agent

import "path/filepath"

var skillMD = []string{"SKILL.md"}

// baseAgent implements Agent from a declarative description. Per-agent files
// construct one and register it.
type baseAgent struct {
	name        string
	displayName string
	rank        int

	// root resolves the agent's install directory.
	root func(Paths) string

	// Skills.
	coreFiles    []string
	skillsAtRoot bool // skills live directly in root (no "skills" sub-directory)
	noSkills     bool

	// MCP. An empty mcpFile disables MCP support.
	mcpFile       string               // relative to root unless mcpPrimary is set
	mcpPrimary    func(Paths) string   // overrides mcpFile
	mcpAlternates func(Paths) []string // extra read candidates after the primary
	mcpRoot       func(Paths) string   // overrides root for the MCP install check
	format        Format
	dialect       Dialect
	key           string
}

func (a *baseAgent) Name() string        { return a.name }
func (a *baseAgent) DisplayName() string { return a.displayName }
func (a *baseAgent) order() int          { return a.rank }

func (a *baseAgent) Skills(p Paths) (SkillSource, bool) {
	if a.noSkills {
		return SkillSource{}, false
	}
	root := a.root(p)
	skillsRoot := filepath.Join(root, "skills")
	if a.skillsAtRoot {
		skillsRoot = root
	}
	files := a.coreFiles
	if len(files) == 0 {
		files = skillMD
	}
	return SkillSource{
		ID:          a.name + "-user",
		Label:       a.displayName,
		InstallRoot: root,
		Root:        skillsRoot,
		CoreFiles:   append([]string(nil), files...),
	}, true
}

func (a *baseAgent) MCP(p Paths) (MCPSource, bool) {
	if a.mcpFile == "" && a.mcpPrimary == nil {
		return MCPSource{}, false
	}
	root := a.root(p)
	if a.mcpRoot != nil {
		root = a.mcpRoot(p)
	}
	primary := filepath.Join(root, a.mcpFile)
	if a.mcpPrimary != nil {
		primary = a.mcpPrimary(p)
	}
	reads := []string{primary}
	if a.mcpAlternates != nil {
		for _, alt := range a.mcpAlternates(p) {
			if alt != primary {
				reads = append(reads, alt)
			}
		}
	}
	format := a.format
	if format == "" {
		format = FormatJSON
	}
	key := a.key
	if key == "" {
		key = "mcpServers"
	}
	return MCPSource{
		ID:          a.name,
		Label:       a.displayName,
		Format:      format,
		Dialect:     a.dialect,
		Key:         key,
		InstallRoot: root,
		PrimaryPath: primary,
		ReadPaths:   reads,
	}, true
}

// homeDir returns a root resolver for a directory directly under $HOME.
func homeDir(name string) func(Paths) string {
	return func(p Paths) string { return filepath.Join(p.Home, name) }
}

// configDir returns a root resolver for a directory under $XDG_CONFIG_HOME.
func configDir(name string) func(Paths) string {
	return func(p Paths) string { return filepath.Join(p.ConfigHome, name) }
}
