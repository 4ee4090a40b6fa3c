// Package provider builds the configured assistant backend.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/recommend"
	"github.com/theirongolddev/pricecraft/internal/recommend/gemini"
	"github.com/theirongolddev/pricecraft/internal/recommend/openai"
)

// New returns the backend selected by cfg. A missing key or the "none"
// provider yields recommend.Unavailable rather than an error, so the app
// still works with default recommendations.
func New(ctx context.Context, cfg config.Config) (recommend.Backend, error) {
	provider := strings.ToLower(cfg.AI.Provider)
	if provider == "" {
		provider = config.ProviderOpenAI
	}
	if provider == config.ProviderNone {
		return recommend.Unavailable{Why: "assistant disabled in config"}, nil
	}

	key := config.GetAPIKey(cfg)
	if key == "" {
		logging.L().Info("no API key configured, assistant unavailable",
			logging.String("provider", provider))
		return recommend.Unavailable{
			Why: fmt.Sprintf("no API key (set %s or run pricecraft setup)", config.APIKeyEnvVar(provider)),
		}, nil
	}

	switch provider {
	case config.ProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:     key,
			BaseURL:    cfg.AI.BaseURL,
			Model:      cfg.AI.Model,
			Timeout:    cfg.AI.TimeoutSec,
			MaxRetries: cfg.AI.MaxRetries,
		})
	case config.ProviderGemini:
		return gemini.New(ctx, gemini.Config{
			APIKey:     key,
			BaseURL:    cfg.AI.BaseURL,
			Model:      cfg.AI.Model,
			Timeout:    cfg.AI.TimeoutSec,
			MaxRetries: cfg.AI.MaxRetries,
		})
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.AI.Provider)
}
