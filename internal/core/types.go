package core

import "fmt"

// AgentSource is one agent's skills collection as read from disk.
// Values are snapshots: a reload produces new values, nothing is patched.
type AgentSource struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Root   string  `json:"root"`
	Exists bool    `json:"exists"` // Root is present on disk.
	Skills []Skill `json:"skills"`
}

// Skill is an instruction bundle: a directory with a core manifest file.
type Skill struct {
	ID           string            `json:"id"` // directory name, unique within the source
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Path         string            `json:"path"`
	CoreFile     string            `json:"coreFile"`
	CoreFilePath string            `json:"coreFilePath"`
	SourceURL    string            `json:"sourceUrl,omitempty"` // set when installed from a URL
	SourceID     string            `json:"sourceId"`
	Metadata     map[string]string `json:"metadata"`
	Body         string            `json:"body"`
	LastModified *int64            `json:"lastModified,omitempty"` // epoch seconds or milliseconds
}

// Key returns the skill's composite key.
func (s Skill) Key() Key { return Key{SourceID: s.SourceID, ID: s.ID} }

// Syncable reports whether the skill can be re-fetched from its origin.
func (s Skill) Syncable() bool { return s.SourceURL != "" }

// McpSource is one agent's MCP configuration as read from disk.
type McpSource struct {
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Path    string      `json:"path"`
	Format  string      `json:"format"` // "json" or "toml"
	Exists  bool        `json:"exists"`
	Servers []McpServer `json:"servers"`
}

// McpServer is a named MCP server entry. Config is kept in the standard
// {command, args, env, url} shape regardless of the agent's dialect.
type McpServer struct {
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

// Command returns the configured command, if any.
func (s McpServer) Command() string {
	v, _ := s.Config["command"].(string)
	return v
}

// URL returns the configured remote URL, if any.
func (s McpServer) URL() string {
	v, _ := s.Config["url"].(string)
	return v
}

// Args returns the configured arguments as strings.
func (s McpServer) Args() []string {
	raw, _ := s.Config["args"].([]any)
	out := make([]string, 0, len(raw))
	for _, a := range raw {
		if str, ok := a.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// SyncResult reports the outcome of a bulk copy between two agents.
type SyncResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// TreeKind classifies a node in a skill directory tree.
type TreeKind string

const (
	TreeFile TreeKind = "file"
	TreeDir  TreeKind = "dir"
	TreeLink TreeKind = "link"
)

// TreeNode is one entry of a skill's directory tree.
type TreeNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Kind     TreeKind   `json:"kind"`
	Children []TreeNode `json:"children,omitempty"`
}

// Key addresses an artifact across reloads: the owning source id plus the
// artifact id within that source.
type Key struct {
	SourceID string `json:"sourceId"`
	ID       string `json:"id"`
}

func (k Key) String() string { return fmt.Sprintf("%s/%s", k.SourceID, k.ID) }

// IsZero reports whether k is the empty key.
func (k Key) IsZero() bool { return k.SourceID == "" && k.ID == "" }
