package engine

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/barysiuk/ananke/internal/core"
)

// ValidatedPayload is MCP JSON that passed the shape checks. Raw is the
// user's text exactly as submitted.
type ValidatedPayload struct {
	SourceID  string
	Raw       string
	ServerIDs []string
}

// ValidateAndStage checks that raw is a JSON object holding an "mcpServers"
// object. It does not reformat the text.
func ValidateAndStage(sourceID, raw string) (ValidatedPayload, error) {
	if !gjson.Valid(raw) {
		return ValidatedPayload{}, newValidationError(Malformed, "")
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return ValidatedPayload{}, newValidationError(NotAnObject, "")
	}
	servers := doc.Get("mcpServers")
	if !servers.IsObject() {
		return ValidatedPayload{}, newValidationError(MissingMcpServers, "")
	}

	payload := ValidatedPayload{SourceID: sourceID, Raw: raw}
	seen := map[string]bool{}
	servers.ForEach(func(key, _ gjson.Result) bool {
		id := key.String()
		if !seen[id] {
			seen[id] = true
			payload.ServerIDs = append(payload.ServerIDs, id)
		}
		return true
	})
	return payload, nil
}

// ServerDocument renders servers as an indented {"mcpServers": {...}}
// document, the form the editor and ValidateAndStage work with.
func ServerDocument(servers ...core.McpServer) (string, error) {
	doc := `{"mcpServers":{}}`
	var err error
	for _, srv := range servers {
		cfg := srv.Config
		if cfg == nil {
			cfg = map[string]any{}
		}
		doc, err = sjson.Set(doc, "mcpServers."+escapePathComponent(srv.ID), cfg)
		if err != nil {
			return "", err
		}
	}
	return gjson.Get(doc, "@pretty").Raw, nil
}

// NewServerTemplate is the document the editor starts from for a new entry.
func NewServerTemplate() string {
	doc, _ := ServerDocument(core.McpServer{
		ID:     "my-server",
		Config: map[string]any{"command": "npx", "args": []any{"-y", "package-name"}},
	})
	return doc
}

// escapePathComponent escapes characters that gjson and sjson treat as
// path syntax.
func escapePathComponent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
