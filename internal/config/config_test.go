package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MOVIEBOX_CONFIG_DIR", dir)
	for _, k := range []string{
		"PORT", "MOVIEBOX_LISTEN", "MOVIEBOX_BASE_URL", "MOVIEBOX_FETCH_TIMEOUT",
		"MOVIEBOX_USER_AGENT", "MOVIEBOX_CLOUDFLARE_BYPASS", "MOVIEBOX_DEBUG",
		"MOVIEBOX_PUBLIC_DIR", "MOVIEBOX_CACHE_BACKEND", "MOVIEBOX_CACHE_PATH",
		"MOVIEBOX_CACHE_ORIGIN", "MOVIEBOX_CACHE_VERSION",
	} {
		t.Setenv(k, "")
	}
	// t.Setenv cannot unset; relay presence is checked with LookupEnv.
	if v, ok := os.LookupEnv("MOVIEBOX_RELAY_URL"); ok {
		require.NoError(t, os.Unsetenv("MOVIEBOX_RELAY_URL"))
		t.Cleanup(func() { _ = os.Setenv("MOVIEBOX_RELAY_URL", v) })
	}
	return dir
}

func TestLoadMergedWithoutProfileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, used, err := LoadMerged(Options{})
	require.NoError(t, err)
	assert.Contains(t, used, "default config in memory")
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultRelayURL, cfg.RelayURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "moviebox", cfg.Cache.Prefix)
	assert.Equal(t, "v1", cfg.Cache.Version)
	assert.NotEmpty(t, cfg.Cache.StaticAssets)
}

func TestProfileRoundTripAndPartialYAML(t *testing.T) {
	dir := isolate(t)

	path, err := InitDefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "configs", "Default.yaml"), path)

	label, err := CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, DefaultLabel, label)

	partial := filepath.Join(t.TempDir(), "fast.yaml")
	require.NoError(t, os.WriteFile(partial, []byte("fetch_timeout: 3s\nbase_url: https://example.org/\ncache:\n  version: v7\n"), 0644))
	require.NoError(t, AddConfig("fast", partial))
	require.NoError(t, SwitchConfig("fast"))

	cfg, used, err := LoadMerged(Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "configs", "fast.yaml"), used)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "https://example.org", cfg.BaseURL)
	assert.Equal(t, "v7", cfg.Cache.Version)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, "moviebox", cfg.Cache.Prefix)
}

func TestOptionsBeatEnvironmentBeatsProfile(t *testing.T) {
	isolate(t)
	t.Setenv("MOVIEBOX_BASE_URL", "https://env.example")
	t.Setenv("PORT", "8080")
	t.Setenv("MOVIEBOX_DEBUG", "true")

	cfg, _, err := LoadMerged(Options{IgnoreConfig: true})
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "https://env.example", cfg.BaseURL)
	assert.True(t, cfg.Debug)

	cfg, _, err = LoadMerged(Options{IgnoreConfig: true, BaseURL: "https://flag.example", Listen: ":9000"})
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example", cfg.BaseURL)
	assert.Equal(t, ":9000", cfg.Listen)
}

func TestRelayCanBeDisabledFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("MOVIEBOX_RELAY_URL", "")

	cfg, _, err := LoadMerged(Options{IgnoreConfig: true})
	require.NoError(t, err)
	assert.Empty(t, cfg.RelayURL)
}

func TestLabelValidationAndRemove(t *testing.T) {
	isolate(t)
	_, err := InitDefaultConfig()
	require.NoError(t, err)

	_, err = CreateEmptyConfig("../escape")
	require.Error(t, err)
	_, err = CreateEmptyConfig("  ")
	require.Error(t, err)

	_, err = CreateEmptyConfig("work")
	require.NoError(t, err)
	require.NoError(t, SwitchConfig("work"))

	_, err = RemoveConfig(DefaultLabel)
	require.Error(t, err)

	switched, err := RemoveConfig("work")
	require.NoError(t, err)
	assert.True(t, switched)

	label, err := CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, DefaultLabel, label)

	list, err := ListConfigs()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Active)
}

func TestLoadDotEnvKeepsExistingVariables(t *testing.T) {
	isolate(t)
	env := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(env, []byte("MOVIEBOX_LISTEN=:7000\nMOVIEBOX_USER_AGENT=from-file\n"), 0644))
	t.Setenv("MOVIEBOX_USER_AGENT", "from-process")
	// an empty variable still counts as set, so clear it for the file to apply
	require.NoError(t, os.Unsetenv("MOVIEBOX_LISTEN"))
	t.Cleanup(func() { _ = os.Unsetenv("MOVIEBOX_LISTEN") })

	require.NoError(t, LoadDotEnv(env))

	cfg, _, err := LoadMerged(Options{IgnoreConfig: true})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Listen)
	assert.Equal(t, "from-process", cfg.UserAgent)

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
