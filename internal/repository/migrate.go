package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the users table and the search index if they do not exist.
// The schema is small enough that versioned migration files would be noise.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION,
			location_updated_at TIMESTAMPTZ,
			fcm_token TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		// text_pattern_ops so the prefix LIKE in SearchByNamePrefix can use the index
		`CREATE INDEX IF NOT EXISTS idx_users_name_lower ON users (lower(name) text_pattern_ops)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
