package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/barysiuk/ananke/internal/core/agent"
	"github.com/barysiuk/ananke/internal/logger"
)

// skillSourceFile records the URL a skill was installed from.
const skillSourceFile = ".skill-source.json"

// ErrSkillNotFound is returned when a skill directory does not exist.
var ErrSkillNotFound = errors.New("skill not found")

// ListSkills returns one AgentSource per installed agent.
func (s *Store) ListSkills(_ context.Context) ([]AgentSource, error) {
	var out []AgentSource
	for _, src := range s.skillSources() {
		if !src.Installed() {
			continue
		}
		out = append(out, AgentSource{
			ID:     src.ID,
			Label:  src.Label,
			Root:   src.Root,
			Exists: dirExists(src.Root),
			Skills: readSkills(src),
		})
	}
	return out, nil
}

// readSkills loads every skill directory under the source root. Entries
// that fail to load are logged and skipped.
func readSkills(src agent.SkillSource) []Skill {
	entries, err := os.ReadDir(src.Root)
	if err != nil {
		return []Skill{}
	}

	skills := []Skill{}
	for _, entry := range entries {
		if isStagingName(entry.Name()) {
			continue
		}
		dir := filepath.Join(src.Root, entry.Name())
		// Symlinked skill directories are followed.
		if !dirExists(dir) {
			continue
		}
		corePath, coreFile, ok := findCoreFile(dir, src.CoreFiles)
		if !ok {
			continue
		}
		skill, err := loadSkill(dir, corePath, coreFile, src.ID)
		if err != nil {
			logger.Warnw("skipping unreadable skill", "path", dir, "error", err)
			continue
		}
		skills = append(skills, skill)
	}

	sort.SliceStable(skills, func(i, j int) bool {
		return strings.ToLower(skills[i].Name) < strings.ToLower(skills[j].Name)
	})
	return skills
}

// findCoreFile returns the first of coreFiles present as a regular file in dir.
func findCoreFile(dir string, coreFiles []string) (path, name string, ok bool) {
	for _, f := range coreFiles {
		p := filepath.Join(dir, f)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, f, true
		}
	}
	return "", "", false
}

// loadSkill reads a skill's core file and metadata.
func loadSkill(dir, corePath, coreFile, sourceID string) (Skill, error) {
	raw, err := os.ReadFile(corePath)
	if err != nil {
		return Skill{}, fmt.Errorf("reading %s: %w", corePath, err)
	}

	isMarkdown := strings.HasSuffix(coreFile, ".md")
	meta := map[string]string{}
	body := string(raw)
	if isMarkdown {
		meta, body = parseFrontmatter(body)
	}

	id := filepath.Base(dir)
	name := strings.TrimSpace(meta["name"])
	if name == "" {
		name = id
	}
	description := strings.TrimSpace(meta["description"])
	if description == "" && isMarkdown {
		description = extractDescription(body)
	}

	return Skill{
		ID:           id,
		Name:         name,
		Description:  description,
		Path:         dir,
		CoreFile:     coreFile,
		CoreFilePath: corePath,
		SourceURL:    readSkillSourceURL(dir),
		SourceID:     sourceID,
		Metadata:     meta,
		Body:         body,
		LastModified: lastModified(dir, corePath),
	}, nil
}

// lastModified returns the mtime, in seconds, of SKILL.md or else the core file.
func lastModified(dir, corePath string) *int64 {
	for _, p := range []string{filepath.Join(dir, "SKILL.md"), corePath} {
		if info, err := os.Stat(p); err == nil {
			secs := info.ModTime().Unix()
			return &secs
		}
	}
	return nil
}

func readSkillSourceURL(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, skillSourceFile))
	if err != nil {
		return ""
	}
	var rec struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return ""
	}
	return rec.URL
}

func writeSkillSourceURL(dir, rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil
	}
	data, err := json.MarshalIndent(map[string]string{"url": trimmed}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, skillSourceFile), append(data, '\n'), 0o644)
}

// skillDir resolves an existing skill directory inside the source root.
func skillDir(src agent.SkillSource, skillID, action string) (string, error) {
	if skillID == "" || skillID != filepath.Base(skillID) || skillID == "." || skillID == ".." {
		return "", fmt.Errorf("invalid skill id %q", skillID)
	}
	dir := filepath.Join(src.Root, skillID)
	if !pathExists(dir) {
		return "", fmt.Errorf("%w: %s", ErrSkillNotFound, skillID)
	}
	if err := ensureWithinRoot(src.Root, dir, action); err != nil {
		return "", err
	}
	return dir, nil
}

// ListSkillTree returns the directory tree of one skill.
func (s *Store) ListSkillTree(_ context.Context, sourceID, skillID string) (TreeNode, error) {
	src, err := s.skillSource(sourceID)
	if err != nil {
		return TreeNode{}, err
	}
	dir, err := skillDir(src, skillID, "read")
	if err != nil {
		return TreeNode{}, err
	}
	return buildTree(dir)
}

func buildTree(path string) (TreeNode, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return TreeNode{}, fmt.Errorf("reading metadata %s: %w", path, err)
	}

	node := TreeNode{Name: filepath.Base(path), Path: path, Kind: TreeFile}
	switch {
	case info.IsDir():
		node.Kind = TreeDir
	case info.Mode()&os.ModeSymlink != 0:
		node.Kind = TreeLink
	}
	if node.Kind != TreeDir {
		return node, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return TreeNode{}, fmt.Errorf("reading %s: %w", path, err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	node.Children = make([]TreeNode, 0, len(entries))
	for _, e := range entries {
		child, err := buildTree(filepath.Join(path, e.Name()))
		if err != nil {
			return TreeNode{}, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// DeleteSkill removes a skill directory.
func (s *Store) DeleteSkill(_ context.Context, sourceID, skillID string) error {
	src, err := s.skillSource(sourceID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := skillDir(src, skillID, "delete")
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("deleting skill: %w", err)
	}
	logger.Infow("deleted skill", "source", sourceID, "skill", skillID)
	return nil
}

// SyncSkillsFromAgent copies every skill the target lacks from the source.
// Skills whose id already exists in the target are left untouched.
func (s *Store) SyncSkillsFromAgent(_ context.Context, sourceID, targetID string) (SyncResult, error) {
	if sourceID == targetID {
		return SyncResult{}, errors.New("source and target must be different")
	}
	src, err := s.skillSource(sourceID)
	if err != nil {
		return SyncResult{}, err
	}
	tgt, err := s.skillSource(targetID)
	if err != nil {
		return SyncResult{}, err
	}
	if !dirExists(src.Root) {
		return SyncResult{}, errors.New("source skills directory missing")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(tgt.Root, 0o755); err != nil {
		return SyncResult{}, fmt.Errorf("creating %s: %w", tgt.Root, err)
	}

	sourceSkills := readSkills(src)
	sourceIDs := make([]string, len(sourceSkills))
	for i, sk := range sourceSkills {
		sourceIDs[i] = sk.ID
	}
	plan := PlanSync(sourceIDs, existingEntries(tgt.Root))

	dests := make([]string, len(plan.ToAdd))
	for i, id := range plan.ToAdd {
		dests[i] = filepath.Join(tgt.Root, id)
	}
	err = stageDirs(dests, func(i int, dir string) error {
		id := plan.ToAdd[i]
		// A symlinked skill is copied from the directory it points at.
		from, err := filepath.EvalSymlinks(filepath.Join(src.Root, id))
		if err != nil {
			return fmt.Errorf("resolving skill %s: %w", id, err)
		}
		if err := copyDirectory(from, dir); err != nil {
			return fmt.Errorf("copying skill %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return SyncResult{}, err
	}

	res := plan.Result()
	logger.Infow("synced skills", "from", sourceID, "to", targetID, "added", res.Added, "skipped", res.Skipped)
	return res, nil
}

// existingEntries lists every name under root. A target entry blocks a copy
// even when it is not a loadable skill, so nothing is ever overwritten.
func existingEntries(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if isStagingName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}
