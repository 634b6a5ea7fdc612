package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"locator-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user record
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, lat, lon, location_updated_at, fcm_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var lat, lon *float64
	var locAt *time.Time
	if user.Location != nil {
		lat = &user.Location.Lat
		lon = &user.Location.Lon
		locAt = &user.Location.UpdatedAt
	}
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, lat, lon, locAt, user.FCMToken, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("user %s: %w", user.ID, models.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, lat, lon, location_updated_at, fcm_token, created_at
		FROM users
		WHERE id = $1
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateLocation overwrites a user's stored coordinates. The stored
// timestamp never moves backwards even if the server clock does.
func (r *UserRepository) UpdateLocation(ctx context.Context, id string, lat, lon float64, at time.Time) (*models.User, error) {
	query := `
		UPDATE users
		SET lat = $1,
		    lon = $2,
		    location_updated_at = GREATEST(COALESCE(location_updated_at, 'epoch'::timestamptz), $3)
		WHERE id = $4
		RETURNING id, name, lat, lon, location_updated_at, fcm_token, created_at
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, lat, lon, at, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return user, nil
}

// UpdateToken overwrites the push token for a user. A nil token clears it.
func (r *UserRepository) UpdateToken(ctx context.Context, id string, token *string) (*models.User, error) {
	query := `
		UPDATE users
		SET fcm_token = $1
		WHERE id = $2
		RETURNING id, name, lat, lon, location_updated_at, fcm_token, created_at
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, token, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update push token: %w", err)
	}
	return user, nil
}

// SearchByNamePrefix returns users whose name starts with the given prefix,
// case-insensitively, ordered by folded name then id for determinism.
func (r *UserRepository) SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]models.UserDetails, error) {
	query := `
		SELECT name, id
		FROM users
		WHERE lower(name) LIKE $1 ESCAPE '\'
		ORDER BY lower(name), id
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, likePrefix(prefix), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	results := make([]models.UserDetails, 0, limit)
	for rows.Next() {
		var d models.UserDetails
		if err := rows.Scan(&d.Name, &d.ID); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}
	return results, nil
}

// likePrefix folds the prefix and escapes LIKE metacharacters so user input
// can never widen the match.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(strings.ToLower(prefix)) + "%"
}

// scanUser builds a User from the standard seven-column row shape.
func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user  models.User
		lat   *float64
		lon   *float64
		locAt *time.Time
	)
	err := row.Scan(&user.ID, &user.Name, &lat, &lon, &locAt, &user.FCMToken, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil && locAt != nil {
		user.Location = &models.Location{Lat: *lat, Lon: *lon, UpdatedAt: *locAt}
	}
	return &user, nil
}
