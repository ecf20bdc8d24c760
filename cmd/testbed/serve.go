package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/testbed"
	"github.com/sagarc03/testbed/config"
	"github.com/sagarc03/testbed/filesystem"
	testbedhttp "github.com/sagarc03/testbed/http"
	"github.com/sagarc03/testbed/keybackend"
	"github.com/sagarc03/testbed/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the testbed HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default: 0.0.0.0)")
	serveCmd.Flags().Int("port", 5050, "HTTP server port")
	serveCmd.Flags().Bool("debug", false, "debug logging and per-request access log")
	serveCmd.Flags().String("templates-path", "", "template directory (default: built-in templates)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	root, err := os.OpenRoot(cfg.Static.Path)
	if err != nil {
		return fmt.Errorf("open static root: %w", err)
	}
	defer func() { _ = root.Close() }()

	handler, err := buildHandler(cmd.Context(), cfg, root, os.Stdout)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", server.Addr, "static", cfg.Static.Path, "debug", cfg.Server.Debug)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// buildHandler wires the credential store, asset store, templates and limiters
// described by cfg into an HTTP handler. Hit lines go to hits.
func buildHandler(ctx context.Context, cfg *config.Config, root *os.Root, hits io.Writer) (*testbedhttp.Handler, error) {
	users, err := keybackend.NewCredentialStore(cfg.Auth.Users)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	slog.Info("loaded users", "count", users.Len())

	assets := filesystem.NewAssetStore(root)
	if list, err := assets.List(ctx); err != nil {
		slog.Warn("list static assets", "err", err)
	} else {
		slog.Info("static root ready", "path", cfg.Static.Path, "assets", len(list))
	}
	if _, f, err := assets.Open(ctx, cfg.Static.DefaultFile); err != nil {
		slog.Warn("default asset unavailable, /file will return 404", "file", cfg.Static.DefaultFile, "err", err)
	} else {
		_ = f.Close()
	}

	var templates fs.FS = testbedhttp.DefaultTemplates()
	if cfg.Templates.Path != "" {
		templates = os.DirFS(cfg.Templates.Path)
	}
	renderer, err := testbedhttp.NewRenderer(templates)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	handlerConfig := testbedhttp.HandlerConfig{
		Realm:        cfg.Auth.Realm,
		DefaultAsset: cfg.Static.DefaultFile,
		IndexPage:    cfg.Templates.Index,
		AccessLog:    cfg.Server.Debug,
		TrustProxy:   cfg.Server.TrustProxy,
		CORS:         cfg.CORS,
	}

	if cfg.RateLimit.Enabled {
		global, err := newLimiter(cfg.RateLimit.Default)
		if err != nil {
			return nil, fmt.Errorf("default rate limits: %w", err)
		}
		route, err := newLimiter([]string{cfg.RateLimit.Route})
		if err != nil {
			return nil, fmt.Errorf("route rate limit: %w", err)
		}
		handlerConfig.GlobalLimiter = global
		handlerConfig.RouteLimiter = route
		slog.Info("rate limiting enabled", "default", cfg.RateLimit.Default, "route", cfg.RateLimit.Route)
	}

	return testbedhttp.NewHandler(&handlerConfig, testbedhttp.Services{
		Users:     users,
		Assets:    assets,
		Templates: renderer,
		Hits:      testbed.NewHitLog(hits, time.Now),
	}), nil
}

func newLimiter(specs []string) (*ratelimit.Limiter, error) {
	policies, err := ratelimit.ParsePolicies(specs)
	if err != nil {
		return nil, err
	}
	if len(policies) == 0 {
		return nil, nil
	}
	return ratelimit.New(policies, ratelimit.WithLimitHandler(testbedhttp.HandleRateLimited)), nil
}
