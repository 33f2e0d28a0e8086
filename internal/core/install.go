package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/barysiuk/ananke/internal/core/agent"
	"github.com/barysiuk/ananke/internal/logger"
)

// remoteSkill is a skill located on a remote host, not yet written to disk.
type remoteSkill struct {
	url      string
	coreFile string
	content  []byte

	// GitHub only.
	session  *githubSession
	branches []string // the branch that served coreFile comes first
}

// locateRemoteSkill finds the first of coreFiles the URL serves. A plain URL
// gets the core file appended; a GitHub URL is resolved through the API.
func (s *Store) locateRemoteSkill(ctx context.Context, rawURL, token string, coreFiles []string) (*remoteSkill, error) {
	trimmed, err := validateSkillURL(rawURL)
	if err != nil {
		return nil, err
	}
	loc, isGitHub, err := parseGitHubLocation(trimmed)
	if err != nil {
		return nil, err
	}

	var lastErr error
	if !isGitHub {
		for _, coreFile := range coreFiles {
			content, err := s.github.fetchDirect(ctx, directSkillURL(trimmed, coreFile), coreFile)
			if err != nil {
				lastErr = err
				continue
			}
			return &remoteSkill{url: trimmed, coreFile: coreFile, content: content}, nil
		}
		return nil, orDefault(lastErr, "unable to download skill file")
	}

	sess, err := s.github.open(ctx, loc, resolveToken(token, s.env))
	if err != nil {
		return nil, err
	}
	branches := sess.branchCandidates(ctx)
	for _, coreFile := range coreFiles {
		for _, branch := range branches {
			content, err := sess.fileContent(ctx, loc.filePath(coreFile), branch)
			if err != nil {
				lastErr = err
				continue
			}
			if !utf8.Valid(content) {
				lastErr = fmt.Errorf("%s is not UTF-8", coreFile)
				continue
			}
			return &remoteSkill{
				url:      trimmed,
				coreFile: coreFile,
				content:  content,
				session:  sess,
				branches: preferBranch(branches, branch),
			}, nil
		}
	}
	return nil, orDefault(lastErr, "unable to download skill file")
}

// download writes the skill's files into dir. For GitHub the whole directory
// is mirrored from the first branch that serves it.
func (r *remoteSkill) download(ctx context.Context, dir string) error {
	if r.session != nil {
		var lastErr error
		downloaded := false
		for _, branch := range r.branches {
			if err := r.session.downloadDir(ctx, branch, dir); err != nil {
				lastErr = err
				if err := resetDir(dir); err != nil {
					return err
				}
				continue
			}
			downloaded = true
			break
		}
		if !downloaded {
			return orDefault(lastErr, "unable to download GitHub directory")
		}
	}
	if err := os.WriteFile(filepath.Join(dir, r.coreFile), r.content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", r.coreFile, err)
	}
	return writeSkillSourceURL(dir, r.url)
}

// name is the frontmatter name, or a name derived from the URL.
func (r *remoteSkill) name() string {
	if strings.HasSuffix(r.coreFile, ".md") {
		meta, _ := parseFrontmatter(string(r.content))
		if n := strings.TrimSpace(meta["name"]); n != "" {
			return n
		}
	}
	return fallbackNameFromURL(r.url, r.coreFile)
}

// InstallSkillFromURL downloads a skill into the source's skills root under
// a fresh directory named after the skill. token may be empty.
func (s *Store) InstallSkillFromURL(ctx context.Context, sourceID, rawURL, token string) (Skill, error) {
	src, err := s.skillSource(sourceID)
	if err != nil {
		return Skill{}, err
	}

	remote, err := s.locateRemoteSkill(ctx, rawURL, token, src.CoreFiles)
	if err != nil {
		return Skill{}, err
	}

	tmp, err := newStagingDir(src.Root)
	if err != nil {
		return Skill{}, err
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	if err := remote.download(ctx, tmp); err != nil {
		return Skill{}, err
	}

	s.mu.Lock()
	dest := uniqueDir(src.Root, slugify(remote.name()))
	err = os.Rename(tmp, dest)
	s.mu.Unlock()
	if err != nil {
		return Skill{}, fmt.Errorf("installing skill: %w", err)
	}

	logger.Infow("installed skill", "source", sourceID, "skill", filepath.Base(dest), "url", remote.url)
	return loadSkill(dest, filepath.Join(dest, remote.coreFile), remote.coreFile, src.ID)
}

// SyncSkillFromURL refreshes an installed skill in place from url. The
// skill keeps its id; files that exist only locally are kept.
func (s *Store) SyncSkillFromURL(ctx context.Context, sourceID, skillID, rawURL, token string) (Skill, error) {
	src, err := s.skillSource(sourceID)
	if err != nil {
		return Skill{}, err
	}
	if _, err := validateSkillURL(rawURL); err != nil {
		return Skill{}, err
	}
	dir, err := skillDir(src, skillID, "sync")
	if err != nil {
		return Skill{}, err
	}
	_, coreFile, ok := findCoreFile(dir, src.CoreFiles)
	if !ok {
		return Skill{}, errors.New("missing core file")
	}

	remote, err := s.locateRemoteSkill(ctx, rawURL, token, []string{coreFile})
	if err != nil {
		return Skill{}, err
	}

	tmp, err := newStagingDir(src.Root)
	if err != nil {
		return Skill{}, err
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	if err := remote.download(ctx, tmp); err != nil {
		return Skill{}, err
	}

	s.mu.Lock()
	err = copyDirectory(tmp, dir)
	s.mu.Unlock()
	if err != nil {
		return Skill{}, fmt.Errorf("updating skill: %w", err)
	}

	logger.Infow("synced skill", "source", sourceID, "skill", skillID, "url", remote.url)
	return loadSkill(dir, filepath.Join(dir, coreFile), coreFile, src.ID)
}

// SkillByID finds one installed skill.
func (s *Store) SkillByID(sourceID, skillID string) (Skill, error) {
	src, err := s.skillSource(sourceID)
	if err != nil {
		return Skill{}, err
	}
	return findSkill(src, skillID)
}

func findSkill(src agent.SkillSource, skillID string) (Skill, error) {
	dir, err := skillDir(src, skillID, "read")
	if err != nil {
		return Skill{}, err
	}
	corePath, coreFile, ok := findCoreFile(dir, src.CoreFiles)
	if !ok {
		return Skill{}, errors.New("missing core file")
	}
	return loadSkill(dir, corePath, coreFile, src.ID)
}

func preferBranch(branches []string, first string) []string {
	out := []string{first}
	for _, b := range branches {
		if b != first {
			out = append(out, b)
		}
	}
	return out
}

func resetDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func orDefault(err error, msg string) error {
	if err != nil {
		return err
	}
	return errors.New(msg)
}
