package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/config"
	"github.com/inkwell-app/inkwell/internal/db"
	"github.com/inkwell-app/inkwell/internal/library"
	"github.com/inkwell-app/inkwell/internal/proxy"
	"github.com/inkwell-app/inkwell/internal/quota"
	"github.com/inkwell-app/inkwell/internal/server"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inkwell HTTP server",
	Long: `Starts the inkwell server: story generation, per-user story library,
daily quota tracking, and the credential-injecting completion proxy for
browser clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}
		if serveAllowAll {
			cfg.AllowAllOrigins = true
		}

		generator, err := newGenerator(cfg)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, "inkwell.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		proxyHandler := proxy.New(config.APIKey(), cfg.APIBase+"/chat/completions", cfg.SiteURL, cfg.AppTitle)

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, database,
			generator,
			library.NewStore(database),
			quota.NewStore(database, cfg.DailyLimit),
			proxyHandler)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "inkwell server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Model: %s\n", cfg.Model)
		if cfg.DailyLimit > 0 {
			fmt.Fprintf(os.Stderr, "  Daily limit: %d stories per user\n", cfg.DailyLimit)
		}

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
