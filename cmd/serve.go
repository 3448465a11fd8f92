package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/careertrack/internal/adapters/http/api"
	"github.com/okian/careertrack/internal/adapters/http/swagger"
	"github.com/okian/careertrack/internal/adapters/llm"
	app "github.com/okian/careertrack/internal/app"
	"github.com/okian/careertrack/internal/domain/xp"
	"github.com/okian/careertrack/pkg/logger"
	"github.com/okian/careertrack/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), env)
		},
	}
}

func runServe(ctx context.Context, env *runtimeEnv) error {
	cfg, log := env.cfg, env.log

	svc, err := buildService(ctx, env)
	if err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           buildHandler(ctx, env, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}

// buildService opens the store, wires the generator and starts the service.
func buildService(ctx context.Context, env *runtimeEnv) (*app.Service, error) {
	cfg, log := env.cfg, env.log

	store, err := openStore(ctx, env)
	if err != nil {
		return nil, err
	}

	opts := []app.Option{
		app.WithStore(store),
		app.WithLogger(log.Named("service")),
		app.WithLocation(cfg.Location()),
		app.WithCalculator(xp.NewCalculator(
			xp.WithBaseXP(cfg.BaseTaskXP),
			xp.WithDifficultyWeights(cfg.DifficultyWeights),
		)),
	}

	retry := llm.DefaultRetryConfig()
	if cfg.LLMMaxAttempts > 0 {
		retry.MaxAttempts = cfg.LLMMaxAttempts
	}
	provider, err := llm.NewProvider(llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
		Timeout:  cfg.LLMTimeout(),
		Retry:    retry,
	}, log.Named("llm"))
	switch {
	case errors.Is(err, llm.ErrDisabled):
		log.Info(ctx, "plan generator disabled")
	case err != nil:
		_ = store.Close()
		return nil, err
	default:
		gen := llm.NewGenerator(provider,
			llm.WithTimeout(cfg.LLMTimeout()),
			llm.WithGeneratorLogger(log.Named("generator")),
		)
		opts = append(opts, app.WithGenerator(gen))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}

// buildHandler registers docs and API routes and applies the middleware chain.
func buildHandler(ctx context.Context, env *runtimeEnv, svc *app.Service) http.Handler {
	cfg := env.cfg
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc,
		api.WithLogger(env.log.Named("api")),
		api.WithAuthenticator(api.NewAuthenticator(cfg.JWTSecret, cfg.AuthDisabled)),
		api.WithCORSOrigins(cfg.CORSAllowedOrigins),
		api.WithRequestTimeout(cfg.RequestTimeout()),
	)
	apiServer.Register(ctx, mux)
	return apiServer.Wrap(mux)
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
