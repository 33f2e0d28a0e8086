package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// skippedCopyNames are never carried over when copying a skill directory.
var skippedCopyNames = map[string]bool{
	".git":      true,
	".DS_Store": true,
}

// copyDirectory copies the contents of src to dst. Symlinks inside src are
// recreated as links, not followed.
func copyDirectory(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel != "." && skippedCopyNames[d.Name()] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		dstPath := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(dstPath, 0o755)
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(target, dstPath)
		default:
			return copyFile(path, dstPath)
		}
	})
}

// copyFile copies a single file from src to dst, keeping its mode.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// readConfigFile returns the file content, or "" when the file does not exist.
func readConfigFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// writeFileAtomic writes content through a temp file and a rename, creating
// parent directories as needed.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, mode); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// slugify lowercases name and collapses every run of non-alphanumeric
// characters into a single dash.
func slugify(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "skill-" + strconv.FormatInt(time.Now().Unix(), 10)
	}
	return slug
}

// uniqueDir returns root/base, or root/base-N for the first N that is free.
func uniqueDir(root, base string) string {
	dir := filepath.Join(root, base)
	for n := 1; pathExists(dir); n++ {
		dir = filepath.Join(root, fmt.Sprintf("%s-%d", base, n))
	}
	return dir
}

// stagingPrefix names the hidden directories content is assembled in.
// Listings skip entries carrying it.
const stagingPrefix = ".ananke-stage-"

func isStagingName(name string) bool { return strings.HasPrefix(name, stagingPrefix) }

// newStagingDir creates an empty hidden directory under parent. Content is
// assembled there and renamed into place once complete.
func newStagingDir(parent string) (string, error) {
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", parent, err)
	}
	tmp, err := os.MkdirTemp(parent, stagingPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		_ = os.RemoveAll(tmp)
		return "", err
	}
	return tmp, nil
}

// stageDirs populates one staging directory per destination with fill and
// renames them into place only after every fill succeeded. When any step
// fails no destination is left behind.
func stageDirs(dests []string, fill func(i int, dir string) error) error {
	tmps := make([]string, 0, len(dests))
	defer func() {
		for _, tmp := range tmps {
			_ = os.RemoveAll(tmp)
		}
	}()

	for i, dest := range dests {
		tmp, err := newStagingDir(filepath.Dir(dest))
		if err != nil {
			return err
		}
		tmps = append(tmps, tmp)
		if err := fill(i, tmp); err != nil {
			return err
		}
	}

	for i, dest := range dests {
		if err := os.Rename(tmps[i], dest); err != nil {
			for _, placed := range dests[:i] {
				_ = os.RemoveAll(placed)
			}
			return fmt.Errorf("moving %s into place: %w", filepath.Base(dest), err)
		}
	}
	return nil
}

// ensureWithinRoot resolves symlinks on both paths and refuses a path that
// escapes root.
func ensureWithinRoot(root, path, action string) error {
	rootReal, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	pathReal, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("resolving skill: %w", err)
	}
	rel, err := filepath.Rel(rootReal, pathReal)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to %s outside agent root", action)
	}
	return nil
}

// jsonPointerEscape escapes a key for use in an RFC 6901 JSON Pointer.
func jsonPointerEscape(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
