package services

import (
	"context"
	"fmt"
	"strings"

	"locator-backend/internal/models"
)

const (
	// maxSearchLimit bounds the response size regardless of what the
	// client asks for.
	maxSearchLimit     = 20
	defaultSearchLimit = 10
)

// SearchService answers prefix searches over user display names
type SearchService struct {
	store UserStore
}

// NewSearchService creates a new search service
func NewSearchService(store UserStore) *SearchService {
	return &SearchService{store: store}
}

// FindByPrefix returns users whose name starts with the given prefix,
// case-insensitively. Results are a pure function of current store state,
// ordered by folded name then id; no cursor is kept between calls.
func (s *SearchService) FindByPrefix(ctx context.Context, prefix string, limit int) ([]models.UserDetails, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("search prefix is required: %w", models.ErrInvalidArgument)
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := s.store.SearchByNamePrefix(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search by prefix: %w", err)
	}
	return results, nil
}
