package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigManager_DefaultConfig(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Settings.GitHubAPIURL != DefaultGitHubAPIURL {
		t.Errorf("githubApiUrl = %q", cfg.Settings.GitHubAPIURL)
	}
	if cfg.Settings.RequestTimeoutSeconds != 30 {
		t.Errorf("requestTimeoutSeconds = %d", cfg.Settings.RequestTimeoutSeconds)
	}
	if len(cfg.Settings.DisabledAgents) != 0 {
		t.Errorf("disabledAgents = %v", cfg.Settings.DisabledAgents)
	}
}

func TestConfigManager_SaveAndLoad(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())

	cfg := &Config{Settings: Settings{
		GitHubAPIURL:          "https://ghe.example/api/v3",
		RequestTimeoutSeconds: 5,
		DisabledAgents:        []string{"kiro"},
		LastSkillSource:       "cursor-user",
		LastMcpSource:         "codex",
	}}
	if err := cm.Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(cm.ConfigPath()); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Settings.GitHubAPIURL != "https://ghe.example/api/v3" || loaded.Settings.RequestTimeoutSeconds != 5 {
		t.Errorf("settings = %+v", loaded.Settings)
	}
	if loaded.Settings.LastSkillSource != "cursor-user" || loaded.Settings.LastMcpSource != "codex" {
		t.Errorf("scopes = %+v", loaded.Settings)
	}
}

func TestConfigManager_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(`{"settings":{"lastMcpSource":"claude"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewConfigManagerWithDir(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.GitHubAPIURL != DefaultGitHubAPIURL || cfg.Settings.LastMcpSource != "claude" {
		t.Errorf("settings = %+v", cfg.Settings)
	}
}

func TestConfigManager_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConfigManagerWithDir(dir).Load(); err == nil {
		t.Error("expected parse error")
	}
}

func TestSettings_GetSet(t *testing.T) {
	var s Settings

	tests := []struct {
		key, value, want string
		wantErr          bool
	}{
		{key: "githubApiUrl", value: "https://ghe.example/api/v3/", want: "https://ghe.example/api/v3"},
		{key: "githubApiUrl", value: "ghe.example", wantErr: true},
		{key: "requestTimeoutSeconds", value: "12", want: "12"},
		{key: "requestTimeoutSeconds", value: "0", wantErr: true},
		{key: "requestTimeoutSeconds", value: "soon", wantErr: true},
		{key: "disabledAgents", value: " kiro, qoder ,,", want: "kiro,qoder"},
		{key: "lastSkillSource", value: "claude-user", want: "claude-user"},
		{key: "lastMcpSource", value: "cursor", want: "cursor"},
		{key: "colour", value: "blue", wantErr: true},
	}
	for _, tt := range tests {
		err := s.Set(tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Set(%q, %q) error = %v", tt.key, tt.value, err)
			continue
		}
		if tt.wantErr {
			continue
		}
		got, err := s.Get(tt.key)
		if err != nil || got != tt.want {
			t.Errorf("Get(%q) = %q, %v; want %q", tt.key, got, err, tt.want)
		}
	}

	if _, err := s.Get("colour"); err == nil || !strings.Contains(err.Error(), "available") {
		t.Errorf("unknown key error = %v", err)
	}
}

func TestConfigManager_Update(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())
	if err := cm.Update(func(s *Settings) error { return s.Set("lastSkillSource", "codex-user") }); err != nil {
		t.Fatal(err)
	}
	cfg, _ := cm.Load()
	if cfg.Settings.LastSkillSource != "codex-user" {
		t.Errorf("settings = %+v", cfg.Settings)
	}
}
