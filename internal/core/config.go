package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const (
	configDirName  = "ananke"
	configFileName = "config.json"
)

// Config is the persisted ananke configuration.
type Config struct {
	Settings Settings `json:"settings"`
}

// Settings holds user-tunable options.
type Settings struct {
	GitHubAPIURL          string   `json:"githubApiUrl,omitempty"`
	RequestTimeoutSeconds int      `json:"requestTimeoutSeconds,omitempty"`
	DisabledAgents        []string `json:"disabledAgents,omitempty"`
	LastSkillSource       string   `json:"lastSkillSource,omitempty"`
	LastMcpSource         string   `json:"lastMcpSource,omitempty"`
}

// SettingKeys lists the keys accepted by Get and Set.
func SettingKeys() []string {
	keys := []string{"githubApiUrl", "requestTimeoutSeconds", "disabledAgents", "lastSkillSource", "lastMcpSource"}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a setting.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "githubApiUrl":
		return s.GitHubAPIURL, nil
	case "requestTimeoutSeconds":
		return strconv.Itoa(s.RequestTimeoutSeconds), nil
	case "disabledAgents":
		return strings.Join(s.DisabledAgents, ","), nil
	case "lastSkillSource":
		return s.LastSkillSource, nil
	case "lastMcpSource":
		return s.LastMcpSource, nil
	default:
		return "", fmt.Errorf("unknown setting %q; available: %s", key, strings.Join(SettingKeys(), ", "))
	}
}

// Set parses value into the named setting.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "githubApiUrl":
		if value != "" {
			if _, err := validateSkillURL(value); err != nil {
				return fmt.Errorf("githubApiUrl: %w", err)
			}
		}
		s.GitHubAPIURL = strings.TrimRight(value, "/")
	case "requestTimeoutSeconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("requestTimeoutSeconds must be a positive integer, got %q", value)
		}
		s.RequestTimeoutSeconds = n
	case "disabledAgents":
		s.DisabledAgents = nil
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				s.DisabledAgents = append(s.DisabledAgents, name)
			}
		}
	case "lastSkillSource":
		s.LastSkillSource = value
	case "lastMcpSource":
		s.LastMcpSource = value
	default:
		return fmt.Errorf("unknown setting %q; available: %s", key, strings.Join(SettingKeys(), ", "))
	}
	return nil
}

// ConfigManager handles reading and writing the ananke configuration.
type ConfigManager struct {
	configDir string
	mu        sync.RWMutex
}

// NewConfigManager creates a ConfigManager under $XDG_CONFIG_HOME/ananke.
func NewConfigManager() *ConfigManager {
	return &ConfigManager{configDir: filepath.Join(xdg.ConfigHome, configDirName)}
}

// NewConfigManagerWithDir creates a ConfigManager using a custom config directory.
// Useful for testing.
func NewConfigManagerWithDir(dir string) *ConfigManager {
	return &ConfigManager{configDir: dir}
}

// ConfigDir returns the configuration directory path.
func (cm *ConfigManager) ConfigDir() string {
	return cm.configDir
}

// ConfigPath returns the full path to the config file.
func (cm *ConfigManager) ConfigPath() string {
	return filepath.Join(cm.configDir, configFileName)
}

// Load reads the config from disk. Returns default config if file doesn't exist.
func (cm *ConfigManager) Load() (*Config, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	data, err := os.ReadFile(cm.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (cm *ConfigManager) Save(cfg *Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := writeFileAtomic(cm.ConfigPath(), append(data, '\n')); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// Update loads the config, applies fn and saves the result.
func (cm *ConfigManager) Update(fn func(*Settings) error) error {
	cfg, err := cm.Load()
	if err != nil {
		return err
	}
	if err := fn(&cfg.Settings); err != nil {
		return err
	}
	return cm.Save(cfg)
}

func defaultConfig() *Config {
	return &Config{
		Settings: Settings{
			GitHubAPIURL:          DefaultGitHubAPIURL,
			RequestTimeoutSeconds: int(DefaultRequestTimeout.Seconds()),
		},
	}
}
