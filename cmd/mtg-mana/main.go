// Command mtg-mana calculates basic land mana bases for Magic: The Gathering decks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ramonehamilton/mtg-manabase/internal/config"
	"github.com/ramonehamilton/mtg-manabase/internal/version"
)

var (
	verbose    bool
	configPath string

	logger    *zap.Logger
	appConfig *config.Config
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mtg-mana",
		Short: "Mana base calculator for Magic: The Gathering",
		Long: `mtg-mana works out how many of each basic land a deck should play.

It reads a decklist, counts the colored mana symbols of every spell and
splits the land budget across colors with one of three algorithms:

  simple    lands proportional to raw pip counts
  cmc       pips weighted by each card's mana value
  hypergeo  fewest sources reaching a confidence of casting on curve`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			appConfig = cfg

			zapConfig := zap.NewProductionConfig()
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if verbose || cfg.App.DebugMode {
				zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err = zapConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.mtg-manabase/config.toml)")

	rootCmd.AddCommand(
		newManaCmd(),
		newCostCmd(),
		newFormatsCmd(),
		newCardCmd(),
		newServeCmd(),
		newCacheCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
