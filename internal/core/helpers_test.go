package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"PDF Tools":          "pdf-tools",
		"  spaced  out  ":    "spaced-out",
		"a__b--c":            "a-b-c",
		"Déjà vu":            "d-j-vu",
		"already-a-slug":     "already-a-slug",
		"trailing!!!":        "trailing",
		"MiXeD123Case":       "mixed123case",
		"react/native skill": "react-native-skill",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}

	if got := slugify("!!!"); !strings.HasPrefix(got, "skill-") {
		t.Errorf("slugify of symbols only = %q, want skill-<timestamp>", got)
	}
}

func TestUniqueDir(t *testing.T) {
	root := t.TempDir()

	if got := uniqueDir(root, "pdf"); got != filepath.Join(root, "pdf") {
		t.Errorf("uniqueDir() = %q, want free name", got)
	}

	for _, name := range []string{"pdf", "pdf-1"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if got := uniqueDir(root, "pdf"); got != filepath.Join(root, "pdf-2") {
		t.Errorf("uniqueDir() = %q, want pdf-2", got)
	}
}

func TestEnsureWithinRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "skills")
	inside := filepath.Join(root, "pdf")
	outside := filepath.Join(base, "elsewhere")
	for _, d := range []string{inside, outside} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	escape := filepath.Join(root, "escape")
	if err := os.Symlink(outside, escape); err != nil {
		t.Fatal(err)
	}

	if err := ensureWithinRoot(root, inside, "delete"); err != nil {
		t.Errorf("inside path rejected: %v", err)
	}
	err := ensureWithinRoot(root, escape, "delete")
	if err == nil || !strings.Contains(err.Error(), "refusing to delete outside agent root") {
		t.Errorf("symlink escape error = %v", err)
	}
}

func TestStageDirs_FailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	dests := []string{filepath.Join(root, "docx"), filepath.Join(root, "pdf")}
	write := func(_ int, dir string) error {
		return os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("x"), 0o644)
	}

	err := stageDirs(dests, func(i int, dir string) error {
		if err := write(i, dir); err != nil {
			return err
		}
		if i == 1 {
			return errors.New("boom")
		}
		return nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("root not empty after failed stage: %v", entries)
	}

	if err := stageDirs(dests, write); err != nil {
		t.Fatalf("stageDirs() error: %v", err)
	}
	for _, dest := range dests {
		if _, err := os.Stat(filepath.Join(dest, "SKILL.md")); err != nil {
			t.Errorf("staged file missing: %v", err)
		}
	}
}

func TestStageDirs_RenameFailureRollsBack(t *testing.T) {
	root := t.TempDir()
	blocked := filepath.Join(root, "pdf")
	if err := os.MkdirAll(filepath.Join(blocked, "scripts"), 0o755); err != nil {
		t.Fatal(err)
	}
	dests := []string{filepath.Join(root, "docx"), blocked}

	err := stageDirs(dests, func(_ int, dir string) error {
		return os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("x"), 0o644)
	})
	if err == nil || !strings.Contains(err.Error(), "moving pdf into place") {
		t.Fatalf("err = %v", err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 1 || entries[0].Name() != "pdf" {
		t.Errorf("root entries = %v, want only the pre-existing pdf", entries)
	}
}

func TestWriteFileAtomic_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.json")
	if err := writeFileAtomic(path, []byte("{}\n")); err != nil {
		t.Fatalf("writeFileAtomic() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{}\n" {
		t.Errorf("content = %q, err = %v", data, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}
