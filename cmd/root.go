package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/pricing"
	"github.com/theirongolddev/pricecraft/internal/recommend"
	"github.com/theirongolddev/pricecraft/internal/recommend/provider"

	"github.com/spf13/cobra"
)

var (
	flagLogLevel string
	flagNoDotEnv bool
	flagCurrency string

	// appCfg is the effective configuration: file, then environment, then flags.
	appCfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pricecraft",
	Short: "Pricing calculator for handmade goods",
	Long: "Work out a selling price for a handmade product from material cost, labor,\n" +
		"uniqueness and market demand, with an optional AI pricing assistant.",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagNoDotEnv, "no-dotenv", false, "Do not load .env from the working directory")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "Currency symbol for output")
}

// loadRuntime builds the effective configuration and starts logging.
func loadRuntime(_ *cobra.Command, _ []string) error {
	if !flagNoDotEnv {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg, err = config.ApplyEnv(cfg)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		cfg.General.LogLevel = flagLogLevel
	}
	if flagCurrency != "" {
		cfg.General.CurrencySymbol = flagCurrency
	}

	if _, err := logging.Init(config.LogPath(), cfg.General.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "  Logging disabled: %v\n", err)
	}
	logging.L().Debug("configuration loaded",
		logging.String("provider", cfg.AI.Provider),
		logging.Bool("config_file", config.Exists()),
	)

	appCfg = cfg
	return nil
}

// newEngine returns an engine with the configured weights. Load has already
// validated them.
func newEngine() *pricing.Engine {
	w, _ := appCfg.Weights()
	return pricing.NewEngine(w)
}

func defaultInputs() pricing.Inputs {
	in, _ := appCfg.DefaultInputs()
	return in
}

// newBackend returns the configured assistant, or an unavailable one.
func newBackend(ctx context.Context) recommend.Backend {
	b, err := provider.New(ctx, appCfg)
	if err != nil {
		logging.L().Warn("assistant backend unavailable", logging.Error(err))
		return recommend.Unavailable{Why: err.Error()}
	}
	return b
}

// aiTimeout bounds a single assistant call.
func aiTimeout() time.Duration {
	if appCfg.AI.TimeoutSec > 0 {
		return time.Duration(appCfg.AI.TimeoutSec) * time.Second
	}
	return 60 * time.Second
}

func currency() string {
	if appCfg.General.CurrencySymbol == "" {
		return "$"
	}
	return appCfg.General.CurrencySymbol
}
