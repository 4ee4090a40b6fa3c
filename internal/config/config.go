package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const appName = "pricecraft"

// Supported assistant providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config holds all pricecraft configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	AI         AIConfig         `toml:"ai"`
	Appearance AppearanceConfig `toml:"appearance"`
	Pricing    PricingOverrides `toml:"pricing"`
	Defaults   DefaultsConfig   `toml:"defaults"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	CurrencySymbol string `toml:"currency_symbol"`
	LogLevel       string `toml:"log_level"`
}

// AIConfig holds assistant service settings.
type AIConfig struct {
	Provider   string `toml:"provider"`
	Model      string `toml:"model,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	BaseURL    string `toml:"base_url,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
	MaxRetries int    `toml:"max_retries"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultsConfig overrides the stock starting inputs. Unset fields keep
// the stock value.
type DefaultsConfig struct {
	MaterialCost *float64 `toml:"material_cost,omitempty"`
	HoursWorked  *float64 `toml:"hours_worked,omitempty"`
	LaborRate    *float64 `toml:"labor_rate,omitempty"`
	Uniqueness   *float64 `toml:"uniqueness,omitempty"`
	Demand       *float64 `toml:"demand,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			CurrencySymbol: "$",
			LogLevel:       "info",
		},
		AI: AIConfig{
			Provider:   ProviderOpenAI,
			TimeoutSec: 60,
			MaxRetries: 2,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// PresetDBPath returns the path of the preset database.
func PresetDBPath() string {
	return filepath.Join(ConfigDir(), "presets.db")
}

// LogPath returns the path of the log file.
func LogPath() string {
	return filepath.Join(ConfigDir(), appName+".log")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", ConfigPath(), err)
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate checks provider, weights and default inputs.
func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.AI.Provider) {
	case ProviderOpenAI, ProviderGemini, ProviderNone, "":
	default:
		errs = append(errs, fmt.Errorf("unknown ai.provider %q (want openai, gemini or none)", c.AI.Provider))
	}
	if c.AI.TimeoutSec < 0 {
		errs = append(errs, errors.New("ai.timeout_sec must not be negative"))
	}
	if c.AI.MaxRetries < 0 {
		errs = append(errs, errors.New("ai.max_retries must not be negative"))
	}
	if _, err := c.Weights(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.DefaultInputs(); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	return errors.Join(errs...)
}
