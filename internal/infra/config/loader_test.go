package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/mission-control/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir())

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_LocalConfigOnly(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[store]
backend = "git"
namespace = "mc"

[log]
level = "debug"

[watch]
interval = "2s"
seed_schedule = "@every 10m"

[brand]
name = "Ops"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, domain.StoreBackendGit, cfg.Store.Backend)
	assert.Equal(t, "mc", cfg.Store.Namespace)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Second, cfg.Watch.Interval)
	assert.Equal(t, "@every 10m", cfg.Watch.SeedSchedule)
	assert.Equal(t, "Ops", cfg.Brand.Name)
	assert.Equal(t, "AI Agent Command Center", cfg.Brand.Subtitle)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_LocalOverridesGlobal(t *testing.T) {
	dataDir := t.TempDir()
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[log]
level = "warn"

[brand]
name = "Global"
subtitle = "from global"
`)
	writeConfig(t, dataDir, `
[brand]
name = "Local"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, globalDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "Local", cfg.Brand.Name)
	assert.Equal(t, "from global", cfg.Brand.Subtitle)
}

func TestLoader_Load_Agents(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[[agents]]
id = " Dev "
name = "Dev"
emoji = "💻"
role = "Engineer"
focus = "code"

[[agents]]
id = "ux"
name = "UX"
emoji = "🎨"
role = "Product"
focus = "design"
color = "pink"
`)

	loader := NewLoaderWithGlobalDir(dataDir, t.TempDir())
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, cfg.Agents, 2)
	assert.Equal(t, []string{"unknown key in [[agents]]: color"}, cfg.Warnings)

	roster, err := loader.Roster()
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "ux"}, roster.IDs())
}

func TestLoader_Roster_ReReadsFile(t *testing.T) {
	dataDir := t.TempDir()
	loader := NewLoaderWithGlobalDir(dataDir, t.TempDir())

	roster, err := loader.Roster()
	require.NoError(t, err)
	assert.Contains(t, roster.IDs(), "growth")

	writeConfig(t, dataDir, `
[[agents]]
id = "ops"
name = "Ops"
emoji = "🛠"
role = "Operations"
focus = "uptime"
`)

	roster, err = loader.Roster()
	require.NoError(t, err)
	assert.Equal(t, []string{"ops"}, roster.IDs())
}

func TestLoader_Load_Warnings(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[log]
level = "info"
format = "json"

[watch]
interval = "soon"

[extra]
foo = "bar"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultWatchInterval, cfg.Watch.Interval)
	assert.Equal(t, []string{
		"invalid duration in [watch]: interval = soon",
		"unknown key in [log]: format",
		"unknown section: extra",
	}, cfg.Warnings)
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Run("invalid toml", func(t *testing.T) {
		dataDir := t.TempDir()
		writeConfig(t, dataDir, "[store\nbackend = ")

		_, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Load()
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		dataDir := t.TempDir()
		writeConfig(t, dataDir, "[store]\nbackend = \"s3\"\n")

		_, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Load()
		assert.ErrorIs(t, err, domain.ErrInvalidStoreBackend)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("roster falls back on broken config", func(t *testing.T) {
		dataDir := t.TempDir()
		writeConfig(t, dataDir, "not = [valid")

		roster, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Roster()
		assert.Error(t, err)
		require.NotNil(t, roster)
		assert.Len(t, roster.IDs(), len(domain.DefaultAgents()))
	})
}

func TestLoader_LoadGlobal_NoDir(t *testing.T) {
	_, err := NewLoaderWithGlobalDir(t.TempDir(), "").LoadGlobal()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
