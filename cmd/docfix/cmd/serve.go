package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/docfix/internal/config"
	"github.com/hugo-lorenzo-mato/docfix/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the docfix web server: the search and fix pages plus the JSON API
under /api/v1.

Examples:
  # Listen on the configured address (default 0.0.0.0:8000)
  docfix serve

  # Bind to localhost only
  docfix serve --host 127.0.0.1 --port 9000

  # Disable CORS (behind a reverse proxy)
  docfix serve --no-cors`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveHost   string
	servePort   int
	serveNoCORS bool
)

// serveStarted is called with the bound address once the server listens.
var serveStarted = func(string) {}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0",
		"host address to bind to")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000,
		"port to listen on")
	serveCmd.Flags().BoolVar(&serveNoCORS, "no-cors", false,
		"disable CORS headers")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serveUntil(ctx, cmd)
}

// serveUntil runs the server until ctx is done.
func serveUntil(ctx context.Context, cmd *cobra.Command) error {
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	if a.cfg.Statements.Watch {
		if err := a.registry.Watch(ctx); err != nil {
			return err
		}
	}

	server, err := web.New(webConfig(a.cfg), a.docs, a.logger.Logger)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	a.logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.Bool("cors", !serveNoCORS && a.cfg.Server.CORS.Enabled),
	)
	serveStarted(server.Addr())

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func webConfig(cfg *config.Config) web.Config {
	wc := web.DefaultConfig()
	wc.Host = cfg.Server.Host
	wc.Port = cfg.Server.Port
	if cfg.Server.ReadTimeout > 0 {
		wc.ReadTimeout = cfg.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout > 0 {
		wc.WriteTimeout = cfg.Server.WriteTimeout
	}
	if cfg.Server.ShutdownTimeout > 0 {
		wc.ShutdownTimeout = cfg.Server.ShutdownTimeout
	}
	wc.EnableCORS = cfg.Server.CORS.Enabled && !serveNoCORS
	if len(cfg.Server.CORS.AllowedOrigins) > 0 {
		wc.CORSOrigins = cfg.Server.CORS.AllowedOrigins
	}
	return wc
}
