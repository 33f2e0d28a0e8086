package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func findMcpSource(t *testing.T, sources []McpSource, id string) McpSource {
	t.Helper()
	for _, s := range sources {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("MCP source %q not listed", id)
	return McpSource{}
}

func TestListMcpSources(t *testing.T) {
	store, home := newTestStore(t)
	writeFile(t, filepath.Join(home, ".claude.json"), `{
  // user settings
  "theme": "dark",
  "mcpServers": {
    "zeta": {"command": "npx", "args": ["-y", "zeta"]},
    "alpha": {"url": "https://alpha.example/mcp"},
  },
}`)
	if err := os.MkdirAll(filepath.Join(home, ".cursor"), 0o755); err != nil {
		t.Fatal(err)
	}

	sources, err := store.ListMcpSources(context.Background())
	if err != nil {
		t.Fatalf("ListMcpSources() error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected claude and cursor, got %+v", sources)
	}

	claude := findMcpSource(t, sources, "claude")
	if !claude.Exists || claude.Format != "json" || claude.Path != filepath.Join(home, ".claude.json") {
		t.Errorf("claude = %+v", claude)
	}
	if len(claude.Servers) != 2 || claude.Servers[0].ID != "alpha" || claude.Servers[1].ID != "zeta" {
		t.Fatalf("servers not sorted by id: %+v", claude.Servers)
	}
	if claude.Servers[1].Command() != "npx" || strings.Join(claude.Servers[1].Args(), " ") != "-y zeta" {
		t.Errorf("zeta = %+v", claude.Servers[1])
	}
	if claude.Servers[0].URL() != "https://alpha.example/mcp" {
		t.Errorf("alpha = %+v", claude.Servers[0])
	}

	cursor := findMcpSource(t, sources, "cursor")
	if cursor.Exists || len(cursor.Servers) != 0 {
		t.Errorf("cursor = %+v", cursor)
	}
}

func TestListMcpSources_ReadFallbackPath(t *testing.T) {
	store, home := newTestStore(t)
	writeFile(t, filepath.Join(home, ".claude", "mcp.json"), `{"mcpServers":{"legacy":{"command":"x"}}}`)

	sources, err := store.ListMcpSources(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	claude := findMcpSource(t, sources, "claude")
	if claude.Path != filepath.Join(home, ".claude", "mcp.json") || len(claude.Servers) != 1 {
		t.Errorf("claude = %+v", claude)
	}
}

func TestUpsertMcpServerJSON_PreservesOtherContent(t *testing.T) {
	store, home := newTestStore(t)
	path := filepath.Join(home, ".claude.json")
	writeFile(t, path, `{
  // keep me
  "theme": "dark",
  "mcpServers": {
    "keep": {"command": "keep"},
    "replace": {"command": "old"}
  }
}`)

	raw := `{"mcpServers":{"replace":{"command":"new","args":["--flag"]},"added":{"url":"https://added.example"}}}`
	if err := store.UpsertMcpServerJSON(context.Background(), "claude", raw); err != nil {
		t.Fatalf("UpsertMcpServerJSON() error: %v", err)
	}

	content := readFile(t, path)
	if !strings.Contains(content, "// keep me") {
		t.Error("comment lost")
	}
	std, err := standardize(content)
	if err != nil {
		t.Fatalf("result is not valid JSONC: %v\n%s", err, content)
	}
	checks := map[string]string{
		"theme":                      "dark",
		"mcpServers.keep.command":    "keep",
		"mcpServers.replace.command": "new",
		"mcpServers.replace.args.0":  "--flag",
		"mcpServers.added.url":       "https://added.example",
	}
	for path, want := range checks {
		if got := gjson.Get(std, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}

func TestUpsertMcpServerJSON_CreatesFile(t *testing.T) {
	store, home := newTestStore(t)
	if err := store.UpsertMcpServerJSON(context.Background(), "cursor", `{"mcpServers":{"a":{"command":"a"}}}`); err != nil {
		t.Fatal(err)
	}
	content := readFile(t, filepath.Join(home, ".cursor", "mcp.json"))
	if gjson.Get(content, "mcpServers.a.command").String() != "a" {
		t.Errorf("content = %s", content)
	}
}

func TestUpsertMcpServerJSON_Rejected(t *testing.T) {
	store, home := newTestStore(t)
	path := filepath.Join(home, ".claude.json")
	original := `{"mcpServers":{"keep":{"command":"keep"}}}`
	writeFile(t, path, original)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"malformed", `{"mcpServers":`, "invalid MCP JSON"},
		{"missing key", `{"servers":{}}`, "mcpServers object missing"},
		{"entry not an object", `{"mcpServers":{"a":"cmd"}}`, "must be an object"},
		{"schema: no command or url", `{"mcpServers":{"a":{"args":["x"]}}}`, `server "a" is invalid`},
		{"schema: bad args type", `{"mcpServers":{"ok":{"command":"x"},"a":{"command":"x","args":"--flag"}}}`, `server "a" is invalid`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.UpsertMcpServerJSON(context.Background(), "claude", tt.raw)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
			if got := readFile(t, path); got != original {
				t.Errorf("file changed after rejected payload:\n%s", got)
			}
		})
	}
}

func TestUpsertMcpServerJSON_OpenCodeDialect(t *testing.T) {
	store, home := newTestStore(t)
	raw := `{"mcpServers":{
		"local":{"command":"npx","args":["-y","srv"],"env":{"K":"V"}},
		"remote":{"url":"https://r.example"}
	}}`
	if err := store.UpsertMcpServerJSON(context.Background(), "opencode", raw); err != nil {
		t.Fatal(err)
	}

	content := readFile(t, filepath.Join(home, ".config", "opencode", "opencode.json"))
	var command []string
	for _, part := range gjson.Get(content, "mcp.local.command").Array() {
		command = append(command, part.String())
	}
	if strings.Join(command, " ") != "npx -y srv" {
		t.Errorf("command array = %v", command)
	}
	if gjson.Get(content, "mcp.local.args").Exists() || gjson.Get(content, "mcp.local.env").Exists() {
		t.Errorf("standard keys leaked: %s", content)
	}
	if gjson.Get(content, "mcp.local.environment.K").String() != "V" {
		t.Errorf("environment = %s", content)
	}
	if gjson.Get(content, "mcp.local.type").String() != "local" || gjson.Get(content, "mcp.remote.type").String() != "remote" {
		t.Errorf("types = %s", content)
	}

	sources, err := store.ListMcpSources(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	oc := findMcpSource(t, sources, "opencode")
	local := oc.Servers[0]
	if local.Command() != "npx" || strings.Join(local.Args(), " ") != "-y srv" {
		t.Errorf("read back = %+v", local)
	}
	if envs, ok := local.Config["env"].(map[string]any); !ok || envs["K"] != "V" {
		t.Errorf("env read back = %v", local.Config["env"])
	}
}

func TestAntigravityDialect(t *testing.T) {
	store, home := newTestStore(t)
	if err := store.UpsertMcpServerJSON(context.Background(), "antigravity", `{"mcpServers":{"r":{"url":"https://r.example"}}}`); err != nil {
		t.Fatal(err)
	}
	content := readFile(t, filepath.Join(home, ".gemini", "antigravity", "mcp_config.json"))
	if gjson.Get(content, "mcpServers.r.serverUrl").String() != "https://r.example" || gjson.Get(content, "mcpServers.r.url").Exists() {
		t.Errorf("content = %s", content)
	}

	sources, _ := store.ListMcpSources(context.Background())
	if got := findMcpSource(t, sources, "antigravity").Servers[0].URL(); got != "https://r.example" {
		t.Errorf("url read back = %q", got)
	}
}

func TestCodexTOML(t *testing.T) {
	store, home := newTestStore(t)
	path := filepath.Join(home, ".codex", "config.toml")
	writeFile(t, path, `model = "o3"

[mcp_servers.docs]
command = "docs-server"
args = ["--port", "8080"]
startup_timeout_ms = 5000
`)

	sources, err := store.ListMcpSources(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	codex := findMcpSource(t, sources, "codex")
	if codex.Format != "toml" || len(codex.Servers) != 1 || codex.Servers[0].Command() != "docs-server" {
		t.Fatalf("codex = %+v", codex)
	}

	raw := `{"mcpServers":{"fs":{"command":"fs","args":["/tmp"],"env":{"DEBUG":"1"},"timeout":30}}}`
	if err := store.UpsertMcpServerJSON(context.Background(), "codex", raw); err != nil {
		t.Fatalf("upsert TOML: %v", err)
	}

	var doc struct {
		Model      string `toml:"model"`
		McpServers map[string]struct {
			Command string            `toml:"command"`
			Args    []string          `toml:"args"`
			Env     map[string]string `toml:"env"`
			Timeout int64             `toml:"timeout"`
			Startup int64             `toml:"startup_timeout_ms"`
		} `toml:"mcp_servers"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		t.Fatalf("decode written TOML: %v\n%s", err, readFile(t, path))
	}
	if doc.Model != "o3" {
		t.Error("unrelated key lost")
	}
	if doc.McpServers["docs"].Startup != 5000 {
		t.Errorf("existing server changed: %+v", doc.McpServers["docs"])
	}
	fs := doc.McpServers["fs"]
	if fs.Command != "fs" || fs.Args[0] != "/tmp" || fs.Env["DEBUG"] != "1" || fs.Timeout != 30 {
		t.Errorf("fs = %+v", fs)
	}

	if err := store.DeleteMcpServer(context.Background(), "codex", "docs"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(readFile(t, path), "docs-server") {
		t.Error("deleted server still present")
	}
	if err := store.DeleteMcpServer(context.Background(), "codex", "docs"); !errors.Is(err, ErrMcpServerNotFound) {
		t.Errorf("second delete = %v", err)
	}
}

func TestCodexTOML_RejectsNull(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.UpsertMcpServerJSON(context.Background(), "codex", `{"mcpServers":{"a":{"command":"a","cwd":null}}}`)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDeleteMcpServer_JSON(t *testing.T) {
	store, home := newTestStore(t)
	ctx := context.Background()
	path := filepath.Join(home, ".cursor", "mcp.json")

	if err := store.DeleteMcpServer(ctx, "cursor", "a"); !errors.Is(err, ErrNoMcpServers) {
		t.Errorf("missing file = %v, want ErrNoMcpServers", err)
	}

	writeFile(t, path, `{"other": 1}`)
	if err := store.DeleteMcpServer(ctx, "cursor", "a"); !errors.Is(err, ErrNoMcpServers) {
		t.Errorf("no servers key = %v, want ErrNoMcpServers", err)
	}

	writeFile(t, path, `{"mcpServers":{"a":{"command":"a"},"b":{"command":"b"}}}`)
	if err := store.DeleteMcpServer(ctx, "cursor", "missing"); !errors.Is(err, ErrMcpServerNotFound) {
		t.Errorf("missing id = %v, want ErrMcpServerNotFound", err)
	}
	if err := store.DeleteMcpServer(ctx, "cursor", "a"); err != nil {
		t.Fatal(err)
	}
	content := readFile(t, path)
	if gjson.Get(content, "mcpServers.a").Exists() || !gjson.Get(content, "mcpServers.b").Exists() {
		t.Errorf("content = %s", content)
	}
}

func TestSyncMcpFromAgent(t *testing.T) {
	store, home := newTestStore(t)
	ctx := context.Background()
	writeFile(t, filepath.Join(home, ".claude.json"), `{"mcpServers":{
		"shared":{"command":"claude-version"},
		"only-claude":{"command":"npx","args":["-y","x"]}
	}}`)
	cursorPath := filepath.Join(home, ".cursor", "mcp.json")
	writeFile(t, cursorPath, `{"mcpServers":{"shared":{"command":"cursor-version"}}}`)

	res, err := store.SyncMcpFromAgent(ctx, "claude", "cursor")
	if err != nil {
		t.Fatalf("SyncMcpFromAgent() error: %v", err)
	}
	if res != (SyncResult{Added: 1, Skipped: 1}) {
		t.Errorf("result = %+v", res)
	}
	content := readFile(t, cursorPath)
	if gjson.Get(content, "mcpServers.shared.command").String() != "cursor-version" {
		t.Error("existing target entry overwritten")
	}
	if gjson.Get(content, "mcpServers.only-claude.command").String() != "npx" {
		t.Errorf("content = %s", content)
	}

	again, err := store.SyncMcpFromAgent(ctx, "claude", "cursor")
	if err != nil {
		t.Fatal(err)
	}
	if again != (SyncResult{Added: 0, Skipped: 2}) {
		t.Errorf("second sync = %+v", again)
	}

	if _, err := store.SyncMcpFromAgent(ctx, "claude", "claude"); err == nil {
		t.Error("same source and target should fail")
	}
}

func TestSyncMcpFromAgent_ConvertsDialects(t *testing.T) {
	store, home := newTestStore(t)
	writeFile(t, filepath.Join(home, ".config", "opencode", "opencode.json"), `{"mcp":{
		"srv":{"type":"local","command":["node","server.js"],"environment":{"A":"1"}}
	}}`)

	res, err := store.SyncMcpFromAgent(context.Background(), "opencode", "codex")
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 1 {
		t.Fatalf("result = %+v", res)
	}

	var doc map[string]any
	if _, err := toml.DecodeFile(filepath.Join(home, ".codex", "config.toml"), &doc); err != nil {
		t.Fatal(err)
	}
	srv := doc["mcp_servers"].(map[string]any)["srv"].(map[string]any)
	if srv["command"] != "node" {
		t.Errorf("command = %v", srv["command"])
	}
	if args, _ := srv["args"].([]any); len(args) != 1 || args[0] != "server.js" {
		t.Errorf("args = %v", srv["args"])
	}
	if envs, _ := srv["env"].(map[string]any); envs["A"] != "1" {
		t.Errorf("env = %v", srv["env"])
	}
}

func TestParseMcpServersJSON_OrderAndDuplicates(t *testing.T) {
	servers, err := ParseMcpServersJSON(`{"mcpServers":{"b":{"command":"1"},"a":{"command":"2"},"b":{"command":"3"}}}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 2 || servers[0].ID != "b" || servers[1].ID != "a" {
		t.Fatalf("servers = %+v", servers)
	}
	if servers[0].Command() != "3" {
		t.Errorf("duplicate id should keep last value, got %q", servers[0].Command())
	}
}

// standardize converts JSONC to plain JSON for assertions.
func standardize(content string) (string, error) {
	std, err := hujson.Standardize([]byte(content))
	if err != nil {
		return "", err
	}
	return string(std), nil
}
