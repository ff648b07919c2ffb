// Command migrate-legacy rewrites preference documents that still use a
// legacy schema (flat string arrays, split avoid-lists) into the canonical
// shape. Decoding is tolerant, so reads already see migrated data; this tool
// persists the migration so the legacy decoder can eventually be retired.
// It is intended to be invoked once per deploy window, not as an in-process
// goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kindra-app/kindra-backend/internal/adapter/postgres"
	"github.com/kindra-app/kindra-backend/internal/adapter/postgres/preferences"
	"github.com/kindra-app/kindra-backend/internal/app"
	"github.com/kindra-app/kindra-backend/internal/config"
	"github.com/kindra-app/kindra-backend/internal/domain"
)

const batchSize = 500

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := preferences.New(pool)

	var scanned, migrated, failed int
	after := uuid.Nil
	for {
		batch, err := repo.ListRaw(ctx, after, batchSize)
		if err != nil {
			logger.Error("list documents", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(batch) == 0 {
			break
		}
		after = batch[len(batch)-1].UserID

		for _, raw := range batch {
			scanned++
			if !domain.IsLegacyPreferences(raw.Doc) {
				continue
			}

			doc, err := domain.DecodeUserPreferences(raw.Doc)
			if err != nil {
				failed++
				logger.Error("decode document",
					slog.String("user_id", raw.UserID.String()),
					slog.String("error", err.Error()),
				)
				continue
			}

			if err := repo.Save(ctx, raw.UserID, &doc); err != nil {
				failed++
				logger.Error("save migrated document",
					slog.String("user_id", raw.UserID.String()),
					slog.String("error", err.Error()),
				)
				continue
			}
			migrated++
		}
	}

	logger.Info("legacy migration completed",
		slog.Int("scanned", scanned),
		slog.Int("migrated", migrated),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		os.Exit(1)
	}
}
