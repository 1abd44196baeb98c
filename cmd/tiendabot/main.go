// Command tiendabot runs the WhatsApp retail ordering assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tiendabot/internal/catalog"
	"tiendabot/internal/config"
	"tiendabot/internal/dialog"
	"tiendabot/internal/engine"
	"tiendabot/internal/logging"
	"tiendabot/internal/order"
	"tiendabot/internal/session"
	"tiendabot/internal/transport"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tiendabot",
	Short: "WhatsApp ordering assistant for the store",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Secrets may live in a .env next to the binary; ignore absence.
		_ = godotenv.Load()
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to WhatsApp and serve customer conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		defer log.Sync()

		snap, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		holder := catalog.NewHolder(catalog.NewIndex(snap, cfg.Matching.FuzzyThreshold))
		log.Info("catalog loaded", zap.String("path", cfg.Catalog.Path), zap.Int("items", len(snap.Items)))

		orders, err := order.Open(cfg.Orders.DatabasePath)
		if err != nil {
			return err
		}
		defer orders.Close()

		sessions := session.NewMemoryStore(cfg.SessionTTL(), cfg.HandoffTTL())
		resolver := dialog.NewResolver(cfg, log, sessions, holder, orders)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		wa, err := transport.NewWhatsApp(ctx, cfg.WhatsApp, log)
		if err != nil {
			return err
		}
		if err := wa.Connect(ctx); err != nil {
			return err
		}
		defer wa.Close()
		log.Info("whatsapp connected", zap.String("store", cfg.Store.Name))

		eng := engine.New(cfg, log, sessions, holder, resolver, wa)
		err = eng.Run(ctx, wa.Listen)
		if err != nil && ctx.Err() != nil {
			// Clean shutdown on signal.
			return nil
		}
		return err
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a fuzzy catalog search from the shell",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		snap, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		ix := catalog.NewIndex(snap, cfg.Matching.FuzzyThreshold)
		query := ""
		for i, a := range args {
			if i > 0 {
				query += " "
			}
			query += a
		}
		results := ix.Search(query)
		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, res := range results {
			stock := "sin stock"
			if res.Item.InStock {
				stock = "en stock"
			}
			fmt.Printf("%4d  %-40s %s\n", res.Score, res.Item.DisplayName, stock)
		}
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog utilities",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the catalog file and print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		snap, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		ix := catalog.NewIndex(snap, cfg.Matching.FuzzyThreshold)
		fmt.Printf("%s: %d items, %d categories\n", cfg.Catalog.Path, ix.Len(), len(ix.Categories()))
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tiendabot.yaml", "config file path")
	rootCmd.AddCommand(runCmd, searchCmd, catalogCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
