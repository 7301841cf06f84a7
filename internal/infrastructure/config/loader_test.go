package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, 20, mgr.viper.GetInt("cache.max_count"))
	assert.Equal(t, int64(10*1024*1024), mgr.viper.GetInt64("cache.max_total_cost"))
	assert.Equal(t, 15*time.Second, mgr.viper.GetDuration("fetch.timeout"))
	assert.False(t, mgr.viper.GetBool("fetch.coalesce"))
}

func TestNormalizeConfig_Logging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "  DEBUG "
	cfg.Logging.Format = ""

	normalizeConfig(cfg)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestManagerLoad_CreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()

	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	_, err = os.Stat(filepath.Join(dir, configFileName))
	require.NoError(t, err, "default config file should be written on first load")

	cfg := mgr.Get()
	assert.Equal(t, defaultMaxCount, cfg.Cache.MaxCount)
	assert.Equal(t, int64(defaultMaxTotalCost), cfg.Cache.MaxTotalCost)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, defaultVisibleRows, cfg.Browse.VisibleRows)
}

func TestManagerLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `[cache]
max_count = 5
max_total_cost = 4096

[fetch]
timeout = '2s'
coalesce = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), filePerm))

	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, 5, cfg.Cache.MaxCount)
	assert.Equal(t, int64(4096), cfg.Cache.MaxTotalCost)
	assert.Equal(t, 2*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.Coalesce)
	// Untouched sections keep their defaults.
	assert.Equal(t, defaultVisibleRows, cfg.Browse.VisibleRows)
}

func TestManagerLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARTCACHE_CACHE_MAX_COUNT", "7")
	t.Setenv("ARTCACHE_LOG_LEVEL", "warn")

	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, 7, cfg.Cache.MaxCount)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestManagerLoad_InvalidRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("[cache]\nmax_count = 0\n"), filePerm))

	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.max_count")
}

func TestManagerGet_ReturnsCopy(t *testing.T) {
	mgr, err := NewManager(WithConfigDir(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Cache.MaxCount = 999

	assert.Equal(t, defaultMaxCount, mgr.Get().Cache.MaxCount)
}

func TestManagerReload_NotifiesCallbacks(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	var got *Config
	mgr.OnConfigChange(func(c *Config) { got = c })

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("[browse]\nvisible_rows = 3\n"), filePerm))
	require.NoError(t, mgr.Reload())

	require.NotNil(t, got)
	assert.Equal(t, 3, got.Browse.VisibleRows)
	assert.Equal(t, 3, mgr.Get().Browse.VisibleRows)
}
