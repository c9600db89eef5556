package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/mission-control/internal/domain"
)

// Manager manages configuration files.
type Manager struct {
	dataDir       string // Path to the data directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/mission-control)
}

// NewManager creates a new Manager.
func NewManager(dataDir string) *Manager {
	return &Manager{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(dataDir, globalConfDir string) *Manager {
	return &Manager{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// GetLocalConfigInfo returns information about the data directory config file.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(domain.LocalConfigPath(m.dataDir))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitLocalConfig writes cfg to the data directory config file.
func (m *Manager) InitLocalConfig(cfg *domain.Config) (string, error) {
	if err := os.MkdirAll(m.dataDir, 0o750); err != nil {
		return "", err
	}
	path := domain.LocalConfigPath(m.dataDir)
	return path, m.initConfig(path, cfg)
}

// InitGlobalConfig writes cfg to the global config file.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)
	return path, m.initConfig(path, cfg)
}

// initConfig creates a config file, refusing to overwrite an existing one.
func (m *Manager) initConfig(path string, cfg *domain.Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, domain.ErrConfigExists)
	}

	content, err := RenderConfig(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o600)
}

// fileDocument mirrors the on-disk layout of config.toml.
type fileDocument struct {
	Store  fileStore                `toml:"store"`
	Log    fileLog                  `toml:"log"`
	Watch  fileWatch                `toml:"watch"`
	Brand  fileBrand                `toml:"brand"`
	Agents []domain.AgentDefinition `toml:"agents"`
}

type fileStore struct {
	Backend   string `toml:"backend"`
	Namespace string `toml:"namespace"`
	Repo      string `toml:"repo,omitempty"`
}

type fileLog struct {
	Level string `toml:"level"`
}

type fileWatch struct {
	Interval     string `toml:"interval"`
	SeedSchedule string `toml:"seed_schedule"`
}

type fileBrand struct {
	Name     string `toml:"name"`
	Subtitle string `toml:"subtitle"`
}

const configHeader = "# mission-control configuration\n# Local values override the global file; [[agents]] replaces the roster as a whole.\n\n"

// RenderConfig renders cfg as a config.toml document that Loader reads back.
func RenderConfig(cfg *domain.Config) ([]byte, error) {
	doc := fileDocument{
		Store: fileStore{
			Backend:   cfg.Store.Backend,
			Namespace: cfg.Store.Namespace,
			Repo:      cfg.Store.Repo,
		},
		Log: fileLog{Level: cfg.Log.Level},
		Watch: fileWatch{
			Interval:     cfg.Watch.Interval.String(),
			SeedSchedule: cfg.Watch.SeedSchedule,
		},
		Brand: fileBrand{
			Name:     cfg.Brand.Name,
			Subtitle: cfg.Brand.Subtitle,
		},
		Agents: cfg.Agents,
	}

	body, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return append([]byte(configHeader), body...), nil
}

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)
