package services

import (
	"context"
	"time"

	"locator-backend/internal/models"
)

// UserStore is the persistence surface the directory services need.
// Implementations must make every mutation visible to subsequent reads of
// the same id and must never interleave fields of concurrent mutations to
// the same id. Satisfied by repository.UserRepository (Postgres) and
// repository.MemoryRepository.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateLocation(ctx context.Context, id string, lat, lon float64, at time.Time) (*models.User, error)
	UpdateToken(ctx context.Context, id string, token *string) (*models.User, error)
	SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]models.UserDetails, error)
}
