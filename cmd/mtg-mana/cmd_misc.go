package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-manabase/internal/api"
	"github.com/ramonehamilton/mtg-manabase/internal/config"
	"github.com/ramonehamilton/mtg-manabase/internal/display"
	"github.com/ramonehamilton/mtg-manabase/internal/metrics"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cardlookup"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cards/scryfall"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
	"github.com/ramonehamilton/mtg-manabase/internal/storage"
)

func newCostCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "cost <mana cost>",
		Short:   "Parse a mana cost and show its pips",
		Example: "  mtg-mana cost \"{2}{W}{U}\"\n  mtg-mana cost \"{W/P}{G/U}\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, err := manacost.Parse(args[0])
			if err != nil {
				return err
			}
			return display.NewRenderer(cmd.OutOrStdout()).Cost(args[0], cost)
		},
	}
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List format presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return display.NewRenderer(cmd.OutOrStdout()).Formats()
		},
	}
}

func newCardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "card <name>",
		Short:   "Look up a card's mana cost",
		Example: `  mtg-mana card "Lightning Bolt"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, closeFn, err := openLookup(appConfig)
			if err != nil {
				return err
			}
			defer closeFn()

			name := strings.Join(args, " ")
			card, err := lookup.Lookup(cmd.Context(), name)
			if err != nil {
				if scryfall.IsNotFound(err) {
					return fmt.Errorf("card not found: %s", name)
				}
				return err
			}
			return display.NewRenderer(cmd.OutOrStdout()).Card(card)
		},
	}
}

func newServeCmd() *cobra.Command {
	var (
		port    int
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Starts the REST API.

POST /api/v1/manabase accepts inline cards with costs, or a plain decklist
whose costs are fetched from Scryfall. With --offline only inline costs work.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = appConfig.Server.Port
			}

			var lookup *cardlookup.Service
			if !offline {
				l, closeFn, err := openLookup(appConfig)
				if err != nil {
					return err
				}
				defer closeFn()
				lookup = l
			}

			server := api.NewServer(&api.Config{
				Port:           port,
				AllowedOrigins: appConfig.Server.AllowedOrigins,
			}, api.Deps{
				Lookup:  lookup,
				Metrics: metrics.New(),
				Logger:  logger,
			})
			if err := server.Start(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on :%d\n", server.Port())

			<-cmd.Context().Done()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				logger.Error("Server shutdown failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Disable Scryfall lookups")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local card cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show cached card count",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := appConfig.CachePath()
				if err != nil {
					return err
				}
				cache, closeFn, err := openCardCache(appConfig)
				if err != nil {
					return err
				}
				defer closeFn()

				n, err := cache.Count(cmd.Context())
				if err != nil {
					return err
				}
				schema, err := storage.CheckSchema(path)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Cache:  %s\nCards:  %d\nTTL:    %s\n", path, n, appConfig.Cache.TTL)
				fmt.Fprintf(out, "Schema: v%d of v%d", schema.Current, schema.Latest)
				switch {
				case schema.Dirty:
					fmt.Fprint(out, " (dirty, delete the cache file)")
				case schema.Pending > 0:
					fmt.Fprintf(out, " (%d pending)", schema.Pending)
				}
				fmt.Fprintln(out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached card",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cache, closeFn, err := openCardCache(appConfig)
				if err != nil {
					return err
				}
				defer closeFn()

				n, err := cache.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cards\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "purge",
			Short: "Remove expired cards",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cache, closeFn, err := openCardCache(appConfig)
				if err != nil {
					return err
				}
				defer closeFn()

				n, err := cache.PurgeExpired(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired cards\n", n)
				return nil
			},
		},
	)
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, "config.toml")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.DefaultConfig().SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := toml.Marshal(appConfig)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
