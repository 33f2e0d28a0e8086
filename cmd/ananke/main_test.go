package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/tidwall/gjson"

	"github.com/barysiuk/ananke/cmd/ananke/cmd"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"ananke": func() {
			if err := cmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Agents and xdg directories all resolve inside WORK.
			e.Vars = append(e.Vars,
				"HOME="+e.WorkDir,
				"XDG_CONFIG_HOME="+filepath.Join(e.WorkDir, ".config"),
				"XDG_STATE_HOME="+filepath.Join(e.WorkDir, ".local", "state"),
			)

			srv := httptest.NewServer(newFakeGitHub())
			e.Defer(srv.Close)
			e.Vars = append(e.Vars, "GITHUB_API="+srv.URL)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// is-symlink asserts that a path is (or is not) a symlink.
			// Usage: [!] is-symlink <path>
			"is-symlink": cmdIsSymlink,

			// file-contains asserts that a file contains (or doesn't contain) a substring.
			// Usage: [!] file-contains <path> <substring>
			"file-contains": cmdFileContains,

			// dir-not-exists asserts that a directory does not exist.
			// Usage: [!] dir-not-exists <path>
			"dir-not-exists": cmdDirNotExists,

			// json-get asserts the value at a gjson path of a JSON file.
			// Usage: [!] json-get <path> <gjson-path> <value>
			"json-get": cmdJSONGet,

			// symlink creates a symbolic link.
			// Usage: symlink <target> <link>
			"symlink": cmdSymlink,
		},
	})
}

// fakeGitHub serves two repositories through the REST API:
// acme/public and acme/private. The private one answers 404 unless the
// request carries "Bearer sekret".
type fakeGitHub struct {
	repos map[string]map[string]string // "owner/repo" -> path -> content
}

const privateToken = "sekret"

func newFakeGitHub() *fakeGitHub {
	skill := map[string]string{
		"skills/pdf/SKILL.md":       "---\nname: pdf-tools\ndescription: Work with PDF files\n---\n# PDF tools\n",
		"skills/pdf/scripts/run.sh": "#!/bin/sh\necho pdf\n",
	}
	private := map[string]string{
		"review/SKILL.md": "---\nname: code-review\ndescription: Internal review checklist\n---\n# Review\n",
	}
	return &fakeGitHub{repos: map[string]map[string]string{
		"acme/public":  skill,
		"acme/private": private,
	}}
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/repos/"), "/", 3)
	if len(parts) < 2 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}
	repo := parts[0] + "/" + parts[1]
	files, ok := f.repos[repo]
	if !ok || (repo == "acme/private" && r.Header.Get("Authorization") != "Bearer "+privateToken) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}

	rest := ""
	if len(parts) == 3 {
		rest = parts[2]
	}
	switch {
	case rest == "":
		writeJSON(w, http.StatusOK, map[string]any{"default_branch": "main"})
	case strings.HasPrefix(rest, "git/blobs/"):
		p, _ := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(rest, "git/blobs/"))
		content, ok := files[string(p)]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"content": base64.StdEncoding.EncodeToString([]byte(content)), "encoding": "base64",
		})
	case rest == "contents" || strings.HasPrefix(rest, "contents/"):
		if r.URL.Query().Get("ref") != "main" {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "No commit found for the ref"})
			return
		}
		p := strings.TrimPrefix(strings.TrimPrefix(rest, "contents"), "/")
		if content, ok := files[p]; ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"type": "file", "name": path.Base(p), "path": p,
				"content": base64.StdEncoding.EncodeToString([]byte(content)), "encoding": "base64",
			})
			return
		}
		entries := listDir(files, p)
		if len(entries) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, entries)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	}
}

func listDir(files map[string]string, dir string) []map[string]any {
	prefix := dir + "/"
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := map[string]bool{}
	var out []map[string]any
	for _, p := range keys {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		name, _, isDir := strings.Cut(strings.TrimPrefix(p, prefix), "/")
		if seen[name] {
			continue
		}
		seen[name] = true
		if isDir {
			out = append(out, map[string]any{"type": "dir", "name": name, "path": prefix + name})
		} else {
			out = append(out, map[string]any{
				"type": "file", "name": name, "path": p,
				"sha": base64.RawURLEncoding.EncodeToString([]byte(p)),
			})
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cmdIsSymlink checks if a path is a symlink.
func cmdIsSymlink(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: is-symlink <path>")
	}
	p := ts.MkAbs(args[0])
	fi, err := os.Lstat(p)
	isSymlink := err == nil && fi.Mode()&os.ModeSymlink != 0

	if neg {
		if isSymlink {
			ts.Fatalf("%s is a symlink (expected not to be)", args[0])
		}
		return
	}
	if !isSymlink {
		if err != nil {
			ts.Fatalf("%s: %v", args[0], err)
		}
		ts.Fatalf("%s is not a symlink (mode: %s)", args[0], fi.Mode())
	}
}

// cmdFileContains checks if a file contains a substring.
func cmdFileContains(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) < 2 {
		ts.Fatalf("usage: file-contains <path> <substring>")
	}
	data, err := os.ReadFile(ts.MkAbs(args[0]))
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}

	contains := strings.Contains(string(data), args[1])
	if neg && contains {
		ts.Fatalf("file %s contains %q (expected not to)", args[0], args[1])
	}
	if !neg && !contains {
		ts.Fatalf("file %s does not contain %q\nContent:\n%s", args[0], args[1], string(data))
	}
}

// cmdDirNotExists checks that a directory does not exist.
func cmdDirNotExists(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: dir-not-exists <path>")
	}
	_, err := os.Stat(ts.MkAbs(args[0]))
	doesNotExist := os.IsNotExist(err)

	if neg && doesNotExist {
		ts.Fatalf("%s does not exist (expected it to exist)", args[0])
	}
	if !neg && !doesNotExist {
		ts.Fatalf("%s exists (expected it not to)", args[0])
	}
}

// cmdJSONGet compares the value at a gjson path with the expected string.
func cmdJSONGet(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 3 {
		ts.Fatalf("usage: json-get <path> <gjson-path> <value>")
	}
	data, err := os.ReadFile(ts.MkAbs(args[0]))
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}
	got := gjson.GetBytes(data, args[1]).String()
	if neg && got == args[2] {
		ts.Fatalf("%s: %s = %q (expected otherwise)", args[0], args[1], got)
	}
	if !neg && got != args[2] {
		ts.Fatalf("%s: %s = %q, want %q", args[0], args[1], got, args[2])
	}
}

// cmdSymlink creates a symbolic link.
func cmdSymlink(ts *testscript.TestScript, neg bool, args []string) {
	if neg || len(args) != 2 {
		ts.Fatalf("usage: symlink <target> <link>")
	}
	if err := os.Symlink(ts.MkAbs(args[0]), ts.MkAbs(args[1])); err != nil {
		ts.Fatalf("symlink: %v", err)
	}
}
