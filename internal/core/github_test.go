package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr/funcr"

	"github.com/barysiuk/ananke/internal/env"
)

// fakeGitHub serves a single repository "o/r" through the subset of the
// REST API the client uses.
type fakeGitHub struct {
	branch string            // the only branch that exists
	files  map[string]string // repository path -> content
	token  string            // when set, other callers get 404 like a private repo

	mu    sync.Mutex
	auths []string
	paths []string
}

func (f *fakeGitHub) sha(path string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(path))
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.auths = append(f.auths, r.Header.Get("Authorization"))
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()

	if f.token != "" && r.Header.Get("Authorization") != "Bearer "+f.token {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}

	const repo = "/repos/o/r"
	switch {
	case r.URL.Path == repo:
		writeJSON(w, http.StatusOK, map[string]any{"default_branch": f.branch})
	case strings.HasPrefix(r.URL.Path, repo+"/git/blobs/"):
		raw, _ := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(r.URL.Path, repo+"/git/blobs/"))
		content, ok := f.files[string(raw)]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
			"encoding": "base64",
		})
	case strings.HasPrefix(r.URL.Path, repo+"/contents"):
		if r.URL.Query().Get("ref") != f.branch {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "No commit found for the ref"})
			return
		}
		p := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, repo+"/contents"), "/")
		if content, ok := f.files[p]; ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"type": "file", "name": filepath.Base(p), "path": p,
				"content": base64.StdEncoding.EncodeToString([]byte(content)), "encoding": "base64",
			})
			return
		}
		entries := f.list(p)
		if len(entries) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, entries)
	default:
		http.NotFound(w, r)
	}
}

// list returns the immediate children of dir.
func (f *fakeGitHub) list(dir string) []map[string]any {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	seen := map[string]bool{}
	var out []map[string]any
	var keys []string
	for k := range f.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, p := range keys {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		name, _, isDir := strings.Cut(rest, "/")
		if seen[name] {
			continue
		}
		seen[name] = true
		if isDir {
			out = append(out, map[string]any{"type": "dir", "name": name, "path": prefix + name})
		} else {
			out = append(out, map[string]any{"type": "file", "name": name, "path": p, "sha": f.sha(p)})
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newGitHubStore(t *testing.T, handler http.Handler, reader env.Reader) (*Store, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".claude"), 0o755); err != nil {
		t.Fatal(err)
	}
	if reader == nil {
		reader = env.MapReader{}
	}
	store, err := NewStore(StoreOptions{
		Home:   home,
		Env:    reader,
		GitHub: NewGitHubClient(GitHubOptions{APIURL: srv.URL}),
	})
	if err != nil {
		t.Fatal(err)
	}
	return store, home
}

func pdfRepo() *fakeGitHub {
	return &fakeGitHub{
		branch: "main",
		files: map[string]string{
			"skills/pdf/SKILL.md":        "---\nname: PDF Tools\ndescription: Work with PDFs\n---\n# PDF",
			"skills/pdf/scripts/fill.py": "print('fill')",
			"README.md":                  "repo readme",
		},
	}
}

func TestParseGitHubLocation(t *testing.T) {
	tests := []struct {
		url    string
		want   githubLocation
		ok     bool
		hasErr bool
	}{
		{"https://github.com/o/r", githubLocation{Owner: "o", Repo: "r"}, true, false},
		{"https://github.com/o/r.git", githubLocation{Owner: "o", Repo: "r"}, true, false},
		{"https://www.github.com/o/r/tree/dev/skills/pdf", githubLocation{Owner: "o", Repo: "r", Branch: "dev", Path: "skills/pdf"}, true, false},
		{"https://github.com/o/r/blob/main/skills/pdf/SKILL.md", githubLocation{Owner: "o", Repo: "r", Branch: "main", Path: "skills/pdf"}, true, false},
		{"https://github.com/o/r/blob/main/SKILL.md", githubLocation{Owner: "o", Repo: "r", Branch: "main"}, true, false},
		{"https://github.com/o/r/skills/pdf", githubLocation{Owner: "o", Repo: "r", Path: "skills/pdf"}, true, false},
		{"https://raw.githubusercontent.com/o/r/main/skills/pdf/SKILL.md", githubLocation{Owner: "o", Repo: "r", Branch: "main", Path: "skills/pdf/SKILL.md"}, true, false},
		{"https://raw.githubusercontent.com/o/r", githubLocation{}, true, true},
		{"https://github.com/o", githubLocation{}, true, true},
		{"https://example.com/skills/pdf", githubLocation{}, false, false},
	}
	for _, tt := range tests {
		got, ok, err := parseGitHubLocation(tt.url)
		if ok != tt.ok || (err != nil) != tt.hasErr {
			t.Errorf("parseGitHubLocation(%q) ok=%v err=%v", tt.url, ok, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseGitHubLocation(%q) = %+v, want %+v", tt.url, got, tt.want)
		}
	}
}

func TestGitHubLocation_FilePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "SKILL.md"},
		{"skills/pdf", "skills/pdf/SKILL.md"},
		{"skills/pdf/SKILL.md", "skills/pdf/SKILL.md"},
	}
	for _, tt := range tests {
		if got := (githubLocation{Path: tt.path}).filePath("SKILL.md"); got != tt.want {
			t.Errorf("filePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestValidateSkillURL(t *testing.T) {
	if _, err := validateSkillURL("   "); err == nil || err.Error() != "URL is required" {
		t.Errorf("blank URL error = %v", err)
	}
	if _, err := validateSkillURL("ftp://x"); err == nil || err.Error() != "URL must start with http:// or https://" {
		t.Errorf("scheme error = %v", err)
	}
	if got, err := validateSkillURL("  https://x/y \n"); err != nil || got != "https://x/y" {
		t.Errorf("trimmed = %q, %v", got, err)
	}
}

func TestResolveToken(t *testing.T) {
	reader := env.MapReader{"GITHUB_TOKEN": "from-github", "GH_TOKEN": "from-gh"}
	if got := resolveToken(" explicit ", reader); got != "explicit" {
		t.Errorf("explicit token = %q", got)
	}
	if got := resolveToken("", reader); got != "from-github" {
		t.Errorf("env token = %q", got)
	}
	reader["SKILL_GITHUB_TOKEN"] = "from-skill"
	if got := resolveToken("", reader); got != "from-skill" {
		t.Errorf("SKILL_GITHUB_TOKEN should win, got %q", got)
	}
	if got := resolveToken("", env.MapReader{}); got != "" {
		t.Errorf("no token = %q", got)
	}
}

func TestInstallSkillFromURL_GitHubDirectory(t *testing.T) {
	repo := pdfRepo()
	store, home := newGitHubStore(t, repo, nil)

	skill, err := store.InstallSkillFromURL(context.Background(), "claude-user", "https://github.com/o/r/tree/main/skills/pdf", "")
	if err != nil {
		t.Fatalf("InstallSkillFromURL() error: %v", err)
	}
	if skill.ID != "pdf-tools" || skill.Name != "PDF Tools" || skill.SourceID != "claude-user" {
		t.Errorf("skill = %+v", skill)
	}
	if skill.SourceURL != "https://github.com/o/r/tree/main/skills/pdf" {
		t.Errorf("source url = %q", skill.SourceURL)
	}

	dir := filepath.Join(home, ".claude", "skills", "pdf-tools")
	data, err := os.ReadFile(filepath.Join(dir, "scripts", "fill.py"))
	if err != nil || string(data) != "print('fill')" {
		t.Errorf("nested file = %q, %v", data, err)
	}
	if pathExists(filepath.Join(dir, "README.md")) {
		t.Error("file outside the skill directory was downloaded")
	}

	for _, a := range repo.auths {
		if a != "" {
			t.Errorf("anonymous install sent Authorization %q", a)
		}
	}
}

func TestInstallSkillFromURL_SlugCollision(t *testing.T) {
	store, home := newGitHubStore(t, pdfRepo(), nil)
	writeSkill(t, filepath.Join(home, ".claude", "skills"), "pdf-tools", "# existing")

	skill, err := store.InstallSkillFromURL(context.Background(), "claude-user", "https://github.com/o/r/tree/main/skills/pdf", "")
	if err != nil {
		t.Fatal(err)
	}
	if skill.ID != "pdf-tools-1" {
		t.Errorf("id = %q, want pdf-tools-1", skill.ID)
	}
	data, _ := os.ReadFile(filepath.Join(home, ".claude", "skills", "pdf-tools", "SKILL.md"))
	if string(data) != "# existing" {
		t.Error("existing skill was overwritten")
	}
}

func TestInstallSkillFromURL_DefaultBranchLookup(t *testing.T) {
	repo := pdfRepo()
	repo.branch = "trunk"
	store, _ := newGitHubStore(t, repo, nil)

	if _, err := store.InstallSkillFromURL(context.Background(), "claude-user", "https://github.com/o/r/skills/pdf", ""); err != nil {
		t.Fatalf("install without branch: %v", err)
	}
	if repo.paths[0] != "/repos/o/r" {
		t.Errorf("first request = %q, want repository lookup", repo.paths[0])
	}
}

func TestInstallSkillFromURL_PrivateRepo(t *testing.T) {
	ctx := context.Background()
	url := "https://github.com/o/r/tree/main/skills/pdf"

	t.Run("anonymous attempt is auth shaped", func(t *testing.T) {
		repo := pdfRepo()
		repo.token = "secret"
		store, home := newGitHubStore(t, repo, nil)

		_, err := store.InstallSkillFromURL(ctx, "claude-user", url, "")
		fe, ok := IsFetchError(err)
		if !ok {
			t.Fatalf("error = %v, want *FetchError", err)
		}
		if fe.Kind != FetchErrNotFound || !fe.AuthRelated() || fe.Status != http.StatusNotFound {
			t.Errorf("fetch error = %+v", fe)
		}
		if !strings.Contains(err.Error(), "404 Not Found") {
			t.Errorf("message = %q", err.Error())
		}
		entries, _ := os.ReadDir(filepath.Join(home, ".claude", "skills"))
		if len(entries) != 0 {
			t.Errorf("failed install left entries: %v", entries)
		}
	})

	t.Run("explicit token", func(t *testing.T) {
		repo := pdfRepo()
		repo.token = "secret"
		store, _ := newGitHubStore(t, repo, nil)

		if _, err := store.InstallSkillFromURL(ctx, "claude-user", url, "secret"); err != nil {
			t.Fatalf("install with token: %v", err)
		}
		for _, a := range repo.auths {
			if a != "Bearer secret" {
				t.Errorf("Authorization = %q", a)
			}
		}
	})

	t.Run("environment token", func(t *testing.T) {
		repo := pdfRepo()
		repo.token = "secret"
		store, _ := newGitHubStore(t, repo, env.MapReader{"GH_TOKEN": "secret"})

		if _, err := store.InstallSkillFromURL(ctx, "claude-user", url, ""); err != nil {
			t.Fatalf("install with env token: %v", err)
		}
	})

	t.Run("header injection rejected", func(t *testing.T) {
		store, _ := newGitHubStore(t, pdfRepo(), nil)
		_, err := store.InstallSkillFromURL(ctx, "claude-user", url, "abc\r\nX-Evil: 1")
		if err == nil || !strings.Contains(err.Error(), "not allowed") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestFetchErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		want   FetchErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, nil, FetchErrAuthRequired},
		{"forbidden", http.StatusForbidden, nil, FetchErrAuthRequired},
		{"rate limited", http.StatusForbidden, map[string]string{"X-RateLimit-Remaining": "0"}, FetchErrRateLimited},
		{"not found", http.StatusNotFound, nil, FetchErrNotFound},
		{"server error", http.StatusInternalServerError, nil, FetchErrOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				writeJSON(w, tt.status, map[string]any{"message": "nope"})
			})
			store, _ := newGitHubStore(t, handler, nil)

			_, err := store.InstallSkillFromURL(context.Background(), "claude-user", "https://github.com/o/r/tree/main/x", "")
			fe, ok := IsFetchError(err)
			if !ok {
				t.Fatalf("error = %v, want *FetchError", err)
			}
			if fe.Kind != tt.want {
				t.Errorf("kind = %v, want %v", fe.Kind, tt.want)
			}
			if len(fe.Hints) == 0 {
				t.Error("expected hints")
			}
		})
	}
}

func TestInstallSkillFromURL_DirectURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/skills/lint/SKILL.md", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte("# Lint\nKeeps code tidy."))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store, home := newTestStore(t)
	if err := os.MkdirAll(filepath.Join(home, ".claude"), 0o755); err != nil {
		t.Fatal(err)
	}

	skill, err := store.InstallSkillFromURL(context.Background(), "claude-user", srv.URL+"/skills/lint/", "")
	if err != nil {
		t.Fatalf("InstallSkillFromURL() error: %v", err)
	}
	if skill.ID != "lint" || skill.Description != "Keeps code tidy." {
		t.Errorf("skill = %+v", skill)
	}

	_, err = store.InstallSkillFromURL(context.Background(), "claude-user", srv.URL+"/missing", "")
	if fe, ok := IsFetchError(err); !ok || fe.Kind != FetchErrNotFound {
		t.Errorf("missing URL error = %v", err)
	}
}

func TestInstallSkillFromURL_Validation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.InstallSkillFromURL(ctx, "claude-user", " ", ""); err == nil || err.Error() != "URL is required" {
		t.Errorf("blank URL error = %v", err)
	}
	if _, err := store.InstallSkillFromURL(ctx, "claude-user", "github.com/o/r", ""); err == nil || err.Error() != "URL must start with http:// or https://" {
		t.Errorf("scheme error = %v", err)
	}
	if _, err := store.InstallSkillFromURL(ctx, "bogus", "https://github.com/o/r", ""); err == nil || !strings.Contains(err.Error(), "unknown skill source") {
		t.Errorf("unknown source error = %v", err)
	}
}

func TestSyncSkillFromURL_KeepsIdentity(t *testing.T) {
	repo := pdfRepo()
	store, home := newGitHubStore(t, repo, nil)
	root := filepath.Join(home, ".claude", "skills")
	dir := writeSkill(t, root, "my-pdf", "# old")
	if err := os.WriteFile(filepath.Join(dir, "local.txt"), []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	url := "https://github.com/o/r/tree/main/skills/pdf"
	skill, err := store.SyncSkillFromURL(context.Background(), "claude-user", "my-pdf", url, "")
	if err != nil {
		t.Fatalf("SyncSkillFromURL() error: %v", err)
	}
	if skill.ID != "my-pdf" || skill.Name != "PDF Tools" || skill.SourceURL != url {
		t.Errorf("skill = %+v", skill)
	}
	if !pathExists(filepath.Join(dir, "scripts", "fill.py")) {
		t.Error("remote file not downloaded")
	}
	if !pathExists(filepath.Join(dir, "local.txt")) {
		t.Error("local-only file removed")
	}

	_, err = store.SyncSkillFromURL(context.Background(), "claude-user", "ghost", url, "")
	if !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("missing skill error = %v", err)
	}
}

func TestSyncSkillFromURL_FailureLeavesSkillUntouched(t *testing.T) {
	repo := pdfRepo()
	repo.token = "secret"
	store, home := newGitHubStore(t, repo, nil)
	dir := writeSkill(t, filepath.Join(home, ".claude", "skills"), "pdf", "# old")

	_, err := store.SyncSkillFromURL(context.Background(), "claude-user", "pdf", "https://github.com/o/r/tree/main/skills/pdf", "")
	if _, ok := IsFetchError(err); !ok {
		t.Fatalf("error = %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if string(data) != "# old" {
		t.Errorf("skill changed after failed sync: %q", data)
	}
}

func TestGitHubClient_LogsRequests(t *testing.T) {
	srv := httptest.NewServer(pdfRepo())
	t.Cleanup(srv.Close)

	var (
		mu       sync.Mutex
		prefixes []string
		lines    []string
	)
	log := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		prefixes = append(prefixes, prefix)
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".claude"), 0o755); err != nil {
		t.Fatal(err)
	}
	store, err := NewStore(StoreOptions{
		Home:   home,
		Env:    env.MapReader{},
		GitHub: NewGitHubClient(GitHubOptions{APIURL: srv.URL, Logger: log}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.InstallSkillFromURL(context.Background(), "claude-user", "https://github.com/o/r/tree/main/skills/pdf", ""); err != nil {
		t.Fatalf("InstallSkillFromURL() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(lines) == 0 {
		t.Fatal("no requests logged")
	}
	for _, p := range prefixes {
		if p != "github" {
			t.Errorf("logger name = %q, want github", p)
		}
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{`"msg"="GET"`, `"status"=200`, `"authenticated"=false`} {
		if !strings.Contains(joined, want) {
			t.Errorf("log missing %s:\n%s", want, joined)
		}
	}
}
