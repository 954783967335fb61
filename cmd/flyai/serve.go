package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flyai/internal/handlers"
	"flyai/internal/httpserver"
	"flyai/internal/metrics"
	"flyai/internal/middleware"
	"flyai/internal/travel"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ----- Metrics -----
	metrics.Register()

	a, err := newApp(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	logger := a.logger

	logger.Info("loaded config",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("amadeus_base_url", cfg.Amadeus.BaseURL),
	)

	// ----- Services -----
	answers := a.answerService()
	classifier := a.classifier(answers)

	amadeus := travel.NewClient(travel.Config{
		BaseURL:   cfg.Amadeus.BaseURL,
		APIKey:    cfg.Amadeus.APIKey,
		APISecret: cfg.Amadeus.APISecret,
		Timeout:   cfg.Amadeus.Timeout,
	}, logger)
	if !amadeus.Configured() {
		logger.Warn("amadeus credentials missing, flight search disabled and airports use the fallback list")
	}

	// ----- Router + middleware -----
	r := chi.NewRouter()
	limiters := httpserver.SetupRouter(r, logger, httpserver.Handlers{
		Ask:     handlers.NewAskHandler(answers, classifier),
		Flights: handlers.NewFlightsHandler(amadeus, a.history),
	}, httpserver.Options{
		RequestTimeout:    cfg.Server.RequestTimeout,
		MaxBodyBytes:      cfg.Server.MaxBodyBytes,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
		RateLimits: httpserver.RateLimits{
			Ask:           cfg.RateLimit.Ask,
			SmartAsk:      cfg.RateLimit.SmartAsk,
			SearchFlights: cfg.RateLimit.SearchFlights,
			Airports:      cfg.RateLimit.Airports,
		},
		CORS: middleware.CORSOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
		},
	})
	go middleware.SweepEvery(ctx, time.Minute, limiters...)

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting flyai", zap.String("addr", srv.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// ----- Graceful shutdown -----
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
