// Package agent describes the coding agents Ananke knows about.
//
// An Agent is a user-level installation of a coding tool (Claude Code,
// Cursor, Codex, ...). Each agent may own a skills directory, an MCP server
// configuration file, or both. Agents are self-contained Go values that
// register themselves from init().
package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/barysiuk/ananke/internal/env"
)

// Format is the on-disk serialization of an MCP configuration file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Dialect describes how server entries are shaped inside an MCP file.
type Dialect int

const (
	// DialectStandard is the {"mcpServers": {id: {command, args, env, url}}} shape.
	DialectStandard Dialect = iota
	// DialectOpenCode stores entries under "mcp" with command arrays and "environment".
	DialectOpenCode
	// DialectAntigravity uses "serverUrl" instead of "url".
	DialectAntigravity
	// DialectCodex is a TOML file with a [mcp_servers] table.
	DialectCodex
)

func (d Dialect) String() string {
	switch d {
	case DialectStandard:
		return "standard"
	case DialectOpenCode:
		return "opencode"
	case DialectAntigravity:
		return "antigravity"
	case DialectCodex:
		return "codex"
	default:
		return "unknown"
	}
}

// Paths holds the user-level base directories agent locations derive from.
type Paths struct {
	Home       string
	ConfigHome string // $XDG_CONFIG_HOME, defaults to ~/.config
	CodexHome  string // $CODEX_HOME, defaults to ~/.codex
}

// NewPaths resolves base directories for home, honoring XDG_CONFIG_HOME and
// CODEX_HOME from r.
func NewPaths(home string, r env.Reader) Paths {
	p := Paths{
		Home:       home,
		ConfigHome: filepath.Join(home, ".config"),
		CodexHome:  filepath.Join(home, ".codex"),
	}
	if v := strings.TrimSpace(r.Getenv("XDG_CONFIG_HOME")); v != "" {
		p.ConfigHome = v
	}
	if v := strings.TrimSpace(r.Getenv("CODEX_HOME")); v != "" {
		p.CodexHome = v
	}
	return p
}

// SkillSource is the resolved skills location of one agent.
type SkillSource struct {
	ID          string
	Label       string
	InstallRoot string   // agent directory; its presence means the agent is installed
	Root        string   // directory holding one sub-directory per skill
	CoreFiles   []string // manifest names, in lookup order
}

// Installed reports whether the agent's install root is a directory.
func (s SkillSource) Installed() bool { return dirExists(s.InstallRoot) }

// MCPSource is the resolved MCP configuration location of one agent.
type MCPSource struct {
	ID          string
	Label       string
	Format      Format
	Dialect     Dialect
	Key         string // top-level key holding the servers object/table
	InstallRoot string
	PrimaryPath string   // file that writes go to
	ReadPaths   []string // candidates for reading, in priority order
}

// ReadPath returns the first existing read path, or the primary path.
func (m MCPSource) ReadPath() string {
	for _, p := range m.ReadPaths {
		if pathExists(p) {
			return p
		}
	}
	return m.PrimaryPath
}

// Listed reports whether the source should be shown: the agent is installed
// or one of its config files already exists.
func (m MCPSource) Listed() bool {
	if dirExists(m.InstallRoot) || pathExists(m.PrimaryPath) {
		return true
	}
	for _, p := range m.ReadPaths {
		if pathExists(p) {
			return true
		}
	}
	return false
}

// Agent defines one coding tool integration.
type Agent interface {
	Name() string        // machine name: "claude", "cursor"
	DisplayName() string // human name: "Claude Code"

	// Skills returns the agent's skills location, if it supports skills.
	Skills(p Paths) (SkillSource, bool)
	// MCP returns the agent's MCP configuration location, if any.
	MCP(p Paths) (MCPSource, bool)
}

// --- Registry ---

var agents []Agent

// Register adds an agent to the global registry.
func Register(a Agent) { agents = append(agents, a) }

// All returns registered agents in display order.
func All() []Agent {
	out := make([]Agent, len(agents))
	copy(out, agents)
	sort.SliceStable(out, func(i, j int) bool { return orderOf(out[i]) < orderOf(out[j]) })
	return out
}

// ByName returns the agent with the given machine name.
func ByName(name string) (Agent, bool) {
	for _, a := range agents {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// SkillSources returns every registered skills location, installed or not.
func SkillSources(p Paths) []SkillSource {
	var out []SkillSource
	for _, a := range All() {
		if s, ok := a.Skills(p); ok {
			out = append(out, s)
		}
	}
	return out
}

// MCPSources returns every registered MCP location, listed or not.
func MCPSources(p Paths) []MCPSource {
	var out []MCPSource
	for _, a := range All() {
		if m, ok := a.MCP(p); ok {
			out = append(out, m)
		}
	}
	return out
}

// SkillSourceByID resolves a skill source id such as "claude-user".
func SkillSourceByID(p Paths, id string) (SkillSource, error) {
	sources := SkillSources(p)
	for _, s := range sources {
		if s.ID == id {
			return s, nil
		}
	}
	valid := make([]string, len(sources))
	for i, s := range sources {
		valid[i] = s.ID
	}
	return SkillSource{}, fmt.Errorf("unknown skill source %q; available: %s", id, strings.Join(valid, ", "))
}

// MCPSourceByID resolves an MCP source id such as "claude".
func MCPSourceByID(p Paths, id string) (MCPSource, error) {
	sources := MCPSources(p)
	for _, m := range sources {
		if m.ID == id {
			return m, nil
		}
	}
	valid := make([]string, len(sources))
	for i, m := range sources {
		valid[i] = m.ID
	}
	return MCPSource{}, fmt.Errorf("unknown MCP source %q; available: %s", id, strings.Join(valid, ", "))
}

func orderOf(a Agent) int {
	if o, ok := a.(interface{ order() int }); ok {
		return o.order()
	}
	return 1 << 20
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
