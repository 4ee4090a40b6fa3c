package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/pricing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, name := range []string{
		"PRICECRAFT_AI_PROVIDER", "PRICECRAFT_AI_MODEL", "PRICECRAFT_AI_BASE_URL",
		"PRICECRAFT_LOG_LEVEL", "PRICECRAFT_THEME", "OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		isolate(t)

		cfg, err := config.Load()
		require.NoError(t, err)
		require.Equal(t, config.DefaultConfig(), cfg)
		require.False(t, config.Exists())

		w, err := cfg.Weights()
		require.NoError(t, err)
		require.Equal(t, pricing.DefaultWeights(), w)

		in, err := cfg.DefaultInputs()
		require.NoError(t, err)
		require.Equal(t, pricing.DefaultInputs(), in)
	})

	t.Run("partial overrides merge", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "pricecraft", "config.toml")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(`
[pricing]
demand_weight = 0.1

[defaults]
labor_rate = 25.0

[ai]
provider = "gemini"
`), 0o600))

		cfg, err := config.Load()
		require.NoError(t, err)
		require.True(t, config.Exists())
		require.Equal(t, config.ProviderGemini, cfg.AI.Provider)
		require.Equal(t, 60, cfg.AI.TimeoutSec, "unset keys keep defaults")

		w, err := cfg.Weights()
		require.NoError(t, err)
		want := pricing.DefaultWeights()
		want.DemandWeight = 0.1
		require.Equal(t, want, w)

		in, err := cfg.DefaultInputs()
		require.NoError(t, err)
		require.Equal(t, 25.0, in.LaborRate)
		require.Equal(t, 10.0, in.MaterialCost)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "pricecraft", "config.toml")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(`
[pricing]
premium_modifier = -1.0

[defaults]
uniqueness = 12.0

[ai]
provider = "claude"
`), 0o600))

		_, err := config.Load()
		require.Error(t, err)
		require.ErrorContains(t, err, "premium_modifier")
		require.ErrorContains(t, err, "Uniqueness rating cannot exceed 10")
		require.ErrorContains(t, err, `unknown ai.provider "claude"`)
	})

	t.Run("bad toml", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "pricecraft", "config.toml")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("[pricing\n"), 0o600))

		_, err := config.Load()
		require.ErrorContains(t, err, "parsing config")
	})
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)

	cfg := config.DefaultConfig()
	w := pricing.DefaultWeights()
	w.SuggestedPriceMultiplier = 2.5
	cfg.Pricing.SetWeights(w)
	cfg.AI.Model = "gpt-4o"
	cfg.Appearance.Theme = "catppuccin-mocha"

	require.NoError(t, config.Save(cfg))
	require.True(t, config.Exists())

	info, err := os.Stat(config.ConfigPath())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	got, err := loaded.Weights()
	require.NoError(t, err)
	require.Equal(t, w, got)
}

func TestPaths(t *testing.T) {
	dir := isolate(t)
	require.Equal(t, filepath.Join(dir, "pricecraft"), config.ConfigDir())
	require.Equal(t, filepath.Join(dir, "pricecraft", "config.toml"), config.ConfigPath())
	require.Equal(t, filepath.Join(dir, "pricecraft", "presets.db"), config.PresetDBPath())
	require.Equal(t, filepath.Join(dir, "pricecraft", "pricecraft.log"), config.LogPath())
}

func TestEnvOverlay(t *testing.T) {
	t.Run("environment wins over file", func(t *testing.T) {
		isolate(t)
		t.Setenv("PRICECRAFT_AI_PROVIDER", "Gemini")
		t.Setenv("PRICECRAFT_AI_MODEL", "gemini-2.5-flash")
		t.Setenv("PRICECRAFT_LOG_LEVEL", "debug")

		cfg, err := config.ApplyEnv(config.DefaultConfig())
		require.NoError(t, err)
		require.Equal(t, config.ProviderGemini, cfg.AI.Provider)
		require.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
		require.Equal(t, "debug", cfg.General.LogLevel)
	})

	t.Run("api key from env first", func(t *testing.T) {
		isolate(t)
		cfg := config.DefaultConfig()
		cfg.AI.APIKey = "from-file"
		require.Equal(t, "from-file", config.GetAPIKey(cfg))

		t.Setenv("OPENAI_API_KEY", "from-env")
		require.Equal(t, "from-env", config.GetAPIKey(cfg))

		cfg.AI.Provider = config.ProviderGemini
		require.Equal(t, "from-file", config.GetAPIKey(cfg), "openai key is not used for gemini")

		t.Setenv("GEMINI_API_KEY", "gem-env")
		require.Equal(t, "gem-env", config.GetAPIKey(cfg))
	})

	t.Run("dotenv file", func(t *testing.T) {
		isolate(t)
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("PRICECRAFT_THEME=hacker\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("PRICECRAFT_THEME") })

		require.NoError(t, config.LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
		cfg, err := config.ApplyEnv(config.DefaultConfig())
		require.NoError(t, err)
		require.Equal(t, "hacker", cfg.Appearance.Theme)
	})
}
