// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/mission-control/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader and domain.RosterProvider.
var (
	_ domain.ConfigLoader   = (*Loader)(nil)
	_ domain.RosterProvider = (*Loader)(nil)
)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the data directory holding the local config
	globalConfDir string // Path to global config directory (e.g., ~/.config/mission-control)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalAppDir(configHome)
}

// Load returns the merged configuration (local + global).
// Local config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	local, err := l.LoadLocal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- local (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if local != nil {
		base = mergeConfigs(base, local)
	}

	if base.Store.Backend != domain.StoreBackendJSON && base.Store.Backend != domain.StoreBackendGit {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStoreBackend, base.Store.Backend)
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadLocal returns only the data directory configuration.
func (l *Loader) LoadLocal() (*domain.Config, error) {
	return l.loadFile(domain.LocalConfigPath(l.dataDir))
}

// Roster re-reads the configuration and returns its roster.
// A broken config file falls back to the default roster.
func (l *Loader) Roster() (*domain.Roster, error) {
	cfg, err := l.Load()
	if err != nil {
		return domain.NewRoster(nil), err
	}
	return cfg.Roster(), nil
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		switch section {
		case "store":
			if m, ok := value.(map[string]any); ok {
				for k, v := range m {
					switch k {
					case "backend":
						if s, ok := v.(string); ok {
							res.Store.Backend = s
						}
					case "namespace":
						if s, ok := v.(string); ok {
							res.Store.Namespace = s
						}
					case "repo":
						if s, ok := v.(string); ok {
							res.Store.Repo = s
						}
					default:
						warnings = append(warnings, fmt.Sprintf("unknown key in [store]: %s", k))
					}
				}
			}
		case "log":
			if m, ok := value.(map[string]any); ok {
				for k, v := range m {
					switch k {
					case "level":
						if s, ok := v.(string); ok {
							res.Log.Level = s
						}
					default:
						warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
					}
				}
			}
		case "watch":
			if m, ok := value.(map[string]any); ok {
				for k, v := range m {
					switch k {
					case "interval":
						s, _ := v.(string)
						d, err := time.ParseDuration(s)
						if err != nil || d <= 0 {
							warnings = append(warnings, fmt.Sprintf("invalid duration in [watch]: interval = %v", v))
							continue
						}
						res.Watch.Interval = d
					case "seed_schedule":
						if s, ok := v.(string); ok {
							res.Watch.SeedSchedule = s
						}
					default:
						warnings = append(warnings, fmt.Sprintf("unknown key in [watch]: %s", k))
					}
				}
			}
		case "brand":
			if m, ok := value.(map[string]any); ok {
				for k, v := range m {
					switch k {
					case "name":
						if s, ok := v.(string); ok {
							res.Brand.Name = s
						}
					case "subtitle":
						if s, ok := v.(string); ok {
							res.Brand.Subtitle = s
						}
					default:
						warnings = append(warnings, fmt.Sprintf("unknown key in [brand]: %s", k))
					}
				}
			}
		case "agents":
			defs, unknowns := parseAgentsSection(value)
			res.Agents = defs
			warnings = append(warnings, unknowns...)
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// parseAgentsSection parses the [[agents]] array of tables.
func parseAgentsSection(value any) ([]domain.AgentDefinition, []string) {
	items, ok := value.([]any)
	if !ok {
		return nil, []string{"invalid [[agents]]: expected an array of tables"}
	}

	var (
		defs     []domain.AgentDefinition
		warnings []string
	)
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("invalid entry in [[agents]] at index %d", i))
			continue
		}
		var def domain.AgentDefinition
		for k, v := range m {
			s, _ := v.(string)
			switch k {
			case "id":
				def.ID = s
			case "name":
				def.Name = s
			case "emoji":
				def.Emoji = s
			case "role":
				def.Role = s
			case "focus":
				def.Focus = s
			default:
				warnings = append(warnings, fmt.Sprintf("unknown key in [[agents]]: %s", k))
			}
		}
		defs = append(defs, def)
	}
	return defs, warnings
}

// mergeConfigs merges two configs, with override taking precedence.
// A non-empty [[agents]] list replaces the base roster as a whole.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		Store:  base.Store,
		Log:    base.Log,
		Watch:  base.Watch,
		Brand:  base.Brand,
		Agents: base.Agents,
	}
	result.Warnings = append(result.Warnings, base.Warnings...)
	result.Warnings = append(result.Warnings, override.Warnings...)

	if override.Store.Backend != "" {
		result.Store.Backend = override.Store.Backend
	}
	if override.Store.Namespace != "" {
		result.Store.Namespace = override.Store.Namespace
	}
	if override.Store.Repo != "" {
		result.Store.Repo = override.Store.Repo
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Watch.Interval > 0 {
		result.Watch.Interval = override.Watch.Interval
	}
	if override.Watch.SeedSchedule != "" {
		result.Watch.SeedSchedule = override.Watch.SeedSchedule
	}
	if override.Brand.Name != "" {
		result.Brand.Name = override.Brand.Name
	}
	if override.Brand.Subtitle != "" {
		result.Brand.Subtitle = override.Brand.Subtitle
	}
	if len(override.Agents) > 0 {
		result.Agents = append([]domain.AgentDefinition{}, override.Agents...)
	}

	return result
}
