package domain

import (
	"path/filepath"
	"time"
)

// Config file and directory names.
const (
	ConfigFileName = "config.toml"     // Config file name
	AppDirName     = "mission-control" // Global config directory name under XDG_CONFIG_HOME
	DefaultDataDir = "data"            // Default data directory (relative to cwd)
)

// Store backend names.
const (
	StoreBackendJSON = "json"
	StoreBackendGit  = "git"
)

// Defaults.
const (
	DefaultWatchInterval = 5 * time.Second
	DefaultSeedSchedule  = "@every 1m"
	DefaultNamespace     = "mission-control"
	DefaultLogLevel      = "info"
)

// Config represents the application configuration.
type Config struct {
	Store    StoreConfig       // [store] settings
	Log      LogConfig         // [log] settings
	Watch    WatchConfig       // [watch] settings
	Brand    BrandConfig       // [brand] settings
	Agents   []AgentDefinition // [[agents]] roster entries
	Warnings []string          // Unknown keys found while loading
}

// StoreConfig holds persistence settings from [store] section.
type StoreConfig struct {
	Backend   string // json (default) or git
	Namespace string // Ref namespace for the git backend
	Repo      string // Repository path for the git backend (default: data dir)
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
}

// WatchConfig holds change-notifier settings from [watch] section.
type WatchConfig struct {
	SeedSchedule string        // cron spec for re-seeding agents from the roster
	Interval     time.Duration // Poll interval
}

// BrandConfig holds display branding from [brand] section.
type BrandConfig struct {
	Name     string
	Subtitle string
}

// NewDefaultConfig returns a Config populated with defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:   StoreBackendJSON,
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{Level: DefaultLogLevel},
		Watch: WatchConfig{
			Interval:     DefaultWatchInterval,
			SeedSchedule: DefaultSeedSchedule,
		},
		Brand: BrandConfig{
			Name:     "Mission Control",
			Subtitle: "AI Agent Command Center",
		},
		Agents: DefaultAgents(),
	}
}

// Roster returns the normalized roster for this configuration.
func (c *Config) Roster() *Roster {
	return NewRoster(c.Agents)
}

// LocalConfigPath returns the config path inside a data directory.
func LocalConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// GlobalAppDir returns the global config directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalAppDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// TasksStorePath returns the path to the tasks.json file.
func TasksStorePath(dataDir string) string {
	return filepath.Join(dataDir, "tasks.json")
}

// AgentsStorePath returns the path to the agents.json file.
func AgentsStorePath(dataDir string) string {
	return filepath.Join(dataDir, "agents.json")
}

// MentionsStorePath returns the path to the mentions.json file.
func MentionsStorePath(dataDir string) string {
	return filepath.Join(dataDir, "mentions.json")
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "mc.log")
}

// TaskLogPath returns the path to a task-specific log file.
func TaskLogPath(dataDir, taskID string) string {
	return filepath.Join(dataDir, "logs", "task-"+taskID+".log")
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}
