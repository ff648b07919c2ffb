package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedPreferencesRaw inserts a raw preference document for a fresh user and
// returns the generated user id. The document is stored exactly as given, so
// tests can plant legacy shapes and exercise the tolerant decode path.
func SeedPreferencesRaw(t *testing.T, pool *pgxpool.Pool, raw []byte) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, doc, updated_at)
		 VALUES ($1, $2, $3)`,
		userID, raw, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPreferencesRaw insert: %v", err)
	}

	return userID
}

// SeedConversationMetadataRaw inserts a raw conversation metadata document
// for the given user, mimicking what the external extraction process writes.
func SeedConversationMetadataRaw(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, raw []byte) {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := pool.Exec(ctx,
		`INSERT INTO conversation_metadata (user_id, doc, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		userID, raw, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedConversationMetadataRaw insert: %v", err)
	}
}
