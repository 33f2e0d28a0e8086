package core

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/barysiuk/ananke/internal/core/agent"
	"github.com/barysiuk/ananke/internal/env"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	Home           string        // defaults to the user's home directory
	Env            env.Reader    // defaults to the process environment
	GitHub         *GitHubClient // defaults to a client for api.github.com
	DisabledAgents []string      // agent names hidden from every listing
}

// Store is the file-backed collaborator: it reads and writes the skill
// directories and MCP configuration files of every registered agent.
// Writes are serialized; reads may run concurrently with each other.
type Store struct {
	paths    agent.Paths
	env      env.Reader
	github   *GitHubClient
	disabled map[string]bool

	mu sync.Mutex
}

// NewStore creates a Store.
func NewStore(opts StoreOptions) (*Store, error) {
	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		home = h
	}
	reader := opts.Env
	if reader == nil {
		reader = &env.OSReader{}
	}
	gh := opts.GitHub
	if gh == nil {
		gh = NewGitHubClient(GitHubOptions{})
	}
	disabled := make(map[string]bool, len(opts.DisabledAgents))
	for _, name := range opts.DisabledAgents {
		disabled[strings.TrimSpace(name)] = true
	}
	return &Store{
		paths:    agent.NewPaths(home, reader),
		env:      reader,
		github:   gh,
		disabled: disabled,
	}, nil
}

// NewStoreFromSettings creates a Store configured by persisted settings.
func NewStoreFromSettings(home string, reader env.Reader, s Settings) (*Store, error) {
	gh := NewGitHubClient(GitHubOptions{
		APIURL:  s.GitHubAPIURL,
		Timeout: time.Duration(s.RequestTimeoutSeconds) * time.Second,
	})
	return NewStore(StoreOptions{Home: home, Env: reader, GitHub: gh, DisabledAgents: s.DisabledAgents})
}

// Paths returns the resolved base directories.
func (s *Store) Paths() agent.Paths { return s.paths }

func (s *Store) skillSources() []agent.SkillSource {
	var out []agent.SkillSource
	for _, a := range agent.All() {
		if s.disabled[a.Name()] {
			continue
		}
		if src, ok := a.Skills(s.paths); ok {
			out = append(out, src)
		}
	}
	return out
}

func (s *Store) mcpSources() []agent.MCPSource {
	var out []agent.MCPSource
	for _, a := range agent.All() {
		if s.disabled[a.Name()] {
			continue
		}
		if src, ok := a.MCP(s.paths); ok {
			out = append(out, src)
		}
	}
	return out
}

func (s *Store) skillSource(id string) (agent.SkillSource, error) {
	sources := s.skillSources()
	ids := make([]string, len(sources))
	for i, src := range sources {
		if src.ID == id {
			return src, nil
		}
		ids[i] = src.ID
	}
	return agent.SkillSource{}, fmt.Errorf("unknown skill source %q; available: %s", id, strings.Join(ids, ", "))
}

func (s *Store) mcpSource(id string) (agent.MCPSource, error) {
	sources := s.mcpSources()
	ids := make([]string, len(sources))
	for i, src := range sources {
		if src.ID == id {
			return src, nil
		}
		ids[i] = src.ID
	}
	return agent.MCPSource{}, fmt.Errorf("unknown MCP source %q; available: %s", id, strings.Join(ids, ", "))
}
