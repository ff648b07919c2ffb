// Package convmeta implements the conversation metadata repository using
// PostgreSQL. The document column is JSONB written by an external extraction
// process, so reads coerce whatever is stored into the validated domain shape.
package convmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/kindra-app/kindra-backend/internal/adapter/postgres"
	"github.com/kindra-app/kindra-backend/internal/domain"
)

// Repo provides conversation metadata persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new conversation metadata repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT doc FROM conversation_metadata WHERE user_id = $1`

const saveSQL = `
INSERT INTO conversation_metadata (user_id, doc, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`

// Get returns the metadata document for a user. Unknown fields written by
// the extraction process are dropped; a malformed document is an error.
// Returns domain.ErrNotFound when no row exists.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (*domain.ConversationMetadata, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var raw []byte
	if err := querier.QueryRow(ctx, getSQL, userID).Scan(&raw); err != nil {
		return nil, postgres.MapError(err, "conversation metadata", userID)
	}

	var meta domain.ConversationMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("conversation metadata %s: decode: %w", userID, err)
	}
	return &meta, nil
}

// Save upserts the metadata document for a user.
func (r *Repo) Save(ctx context.Context, userID uuid.UUID, meta *domain.ConversationMetadata) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("conversation metadata %s: marshal: %w", userID, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	if _, err := querier.Exec(ctx, saveSQL, userID, raw, now); err != nil {
		return postgres.MapError(err, "conversation metadata", userID)
	}
	return nil
}
