package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envOverrides are environment variables that take precedence over the
// config file.
type envOverrides struct {
	Provider  string `env:"PRICECRAFT_AI_PROVIDER"`
	Model     string `env:"PRICECRAFT_AI_MODEL"`
	BaseURL   string `env:"PRICECRAFT_AI_BASE_URL"`
	LogLevel  string `env:"PRICECRAFT_LOG_LEVEL"`
	Theme     string `env:"PRICECRAFT_THEME"`
	OpenAIKey string `env:"OPENAI_API_KEY"`
	GeminiKey string `env:"GEMINI_API_KEY"`
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv returns cfg with environment overrides applied. API keys are not
// copied into cfg so they are never written back to the config file.
func ApplyEnv(cfg Config) (Config, error) {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	if o.Provider != "" {
		cfg.AI.Provider = strings.ToLower(o.Provider)
	}
	if o.Model != "" {
		cfg.AI.Model = o.Model
	}
	if o.BaseURL != "" {
		cfg.AI.BaseURL = o.BaseURL
	}
	if o.LogLevel != "" {
		cfg.General.LogLevel = o.LogLevel
	}
	if o.Theme != "" {
		cfg.Appearance.Theme = o.Theme
	}
	return cfg, cfg.Validate()
}

// APIKeyEnvVar names the environment variable holding the provider's key.
func APIKeyEnvVar(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI, "":
		return "OPENAI_API_KEY"
	}
	return ""
}

// GetAPIKey returns the API key from env var or config, in that order.
func GetAPIKey(cfg Config) string {
	var o envOverrides
	if err := env.Parse(&o); err == nil {
		switch strings.ToLower(cfg.AI.Provider) {
		case ProviderGemini:
			if o.GeminiKey != "" {
				return o.GeminiKey
			}
		case ProviderOpenAI, "":
			if o.OpenAIKey != "" {
				return o.OpenAIKey
			}
		}
	}
	return cfg.AI.APIKey
}
