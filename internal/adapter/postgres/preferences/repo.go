// Package preferences implements the user preference document repository
// using PostgreSQL. All queries use raw SQL (no query generation) since the
// document column is JSONB and reads go through the tolerant decoder.
package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/kindra-app/kindra-backend/internal/adapter/postgres"
	"github.com/kindra-app/kindra-backend/internal/domain"
)

// Repo provides preference document persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new preferences repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT doc FROM user_preferences WHERE user_id = $1`

const saveSQL = `
INSERT INTO user_preferences (user_id, doc, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`

// Get returns the decoded preference document for a user. Raw documents in
// any historical shape decode through the tolerant path, so callers always
// see the canonical form. Returns domain.ErrNotFound when no row exists.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var raw []byte
	if err := querier.QueryRow(ctx, getSQL, userID).Scan(&raw); err != nil {
		return nil, postgres.MapError(err, "preferences", userID)
	}

	doc, err := domain.DecodeUserPreferences(raw)
	if err != nil {
		return nil, fmt.Errorf("preferences %s: decode: %w", userID, err)
	}
	return &doc, nil
}

// Save upserts the canonical document for a user.
func (r *Repo) Save(ctx context.Context, userID uuid.UUID, doc *domain.UserPreferences) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("preferences %s: marshal: %w", userID, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	if _, err := querier.Exec(ctx, saveSQL, userID, raw, now); err != nil {
		return postgres.MapError(err, "preferences", userID)
	}
	return nil
}

// RawDocument is one stored row in its raw form, for offline migration.
type RawDocument struct {
	UserID    uuid.UUID
	Doc       []byte
	UpdatedAt time.Time
}

// ListRaw pages through stored documents in user_id order, optionally
// starting after a given user. Used by the legacy migration command.
func (r *Repo) ListRaw(ctx context.Context, after uuid.UUID, limit int) ([]RawDocument, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("user_id", "doc", "updated_at").
		From("user_preferences").
		OrderBy("user_id").
		Limit(uint64(limit))
	if after != uuid.Nil {
		builder = builder.Where(squirrel.Gt{"user_id": after})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list preference documents: %w", err)
	}
	defer rows.Close()

	var out []RawDocument
	for rows.Next() {
		var d RawDocument
		if err := rows.Scan(&d.UserID, &d.Doc, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan preference document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list preference documents: %w", err)
	}
	return out, nil
}

