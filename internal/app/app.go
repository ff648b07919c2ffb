package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kindra-app/kindra-backend/internal/adapter/postgres"
	"github.com/kindra-app/kindra-backend/internal/adapter/postgres/convmeta"
	"github.com/kindra-app/kindra-backend/internal/adapter/postgres/preferences"
	"github.com/kindra-app/kindra-backend/internal/auth"
	"github.com/kindra-app/kindra-backend/internal/config"
	"github.com/kindra-app/kindra-backend/internal/service/preference"
	"github.com/kindra-app/kindra-backend/internal/service/review"
	"github.com/kindra-app/kindra-backend/internal/transport/middleware"
	"github.com/kindra-app/kindra-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires repositories, services and REST handlers, and serves
// HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	prefsRepo := preferences.New(pool)
	metaRepo := convmeta.New(pool)

	prefSvc := preference.NewService(logger, prefsRepo, cfg.Engine)
	reviewSvc := review.NewService(logger, metaRepo, prefSvc, txm, cfg.Engine)

	jwtMgr := auth.NewJWTManager(cfg.Auth)

	router := rest.NewRouter(
		rest.NewHealthHandler(pool, BuildVersion()),
		rest.NewPreferencesHandler(prefSvc, logger),
		rest.NewEditingHandler(prefSvc, logger),
		rest.NewLearnedHandler(reviewSvc, logger),
	)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtMgr),
		limiter.Limit(cfg.Server.RateLimitPerMinute),
	)(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
