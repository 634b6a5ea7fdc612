package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"locator-backend/internal/models"
)

// MemoryRepository is an in-memory user store with per-user locking.
// It backs tests and the "memory" database driver; concurrent updates to
// the same id are serialized by the entry mutex, different ids never
// contend with each other beyond the map read lock.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*userEntry
}

type userEntry struct {
	mu   sync.Mutex
	user models.User
}

// NewMemoryRepository creates an empty in-memory user store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[string]*userEntry),
	}
}

// Create inserts a new user record
func (r *MemoryRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[user.ID]; exists {
		return fmt.Errorf("user %s: %w", user.ID, models.ErrConflict)
	}
	r.entries[user.ID] = &userEntry{user: *cloneUser(user)}
	return nil
}

// GetByID retrieves a copy of a user by ID
func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneUser(&entry.user), nil
}

// UpdateLocation overwrites a user's stored coordinates. The stored
// timestamp never moves backwards even if the caller's clock does.
func (r *MemoryRepository) UpdateLocation(_ context.Context, id string, lat, lon float64, at time.Time) (*models.User, error) {
	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if prev := entry.user.Location; prev != nil && at.Before(prev.UpdatedAt) {
		at = prev.UpdatedAt
	}
	entry.user.Location = &models.Location{Lat: lat, Lon: lon, UpdatedAt: at}
	return cloneUser(&entry.user), nil
}

// UpdateToken overwrites the push token for a user. A nil token clears it.
func (r *MemoryRepository) UpdateToken(_ context.Context, id string, token *string) (*models.User, error) {
	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if token == nil {
		entry.user.FCMToken = nil
	} else {
		t := *token
		entry.user.FCMToken = &t
	}
	return cloneUser(&entry.user), nil
}

// SearchByNamePrefix returns users whose name starts with the given prefix,
// case-insensitively, ordered by folded name then id for determinism.
func (r *MemoryRepository) SearchByNamePrefix(_ context.Context, prefix string, limit int) ([]models.UserDetails, error) {
	folded := strings.ToLower(prefix)

	r.mu.RLock()
	matches := make([]models.UserDetails, 0, limit)
	for _, entry := range r.entries {
		entry.mu.Lock()
		name, id := entry.user.Name, entry.user.ID
		entry.mu.Unlock()

		if strings.HasPrefix(strings.ToLower(name), folded) {
			matches = append(matches, models.UserDetails{Name: name, ID: id})
		}
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		ni, nj := strings.ToLower(matches[i].Name), strings.ToLower(matches[j].Name)
		if ni != nj {
			return ni < nj
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// lookup finds the live entry for an id under the map read lock.
func (r *MemoryRepository) lookup(id string) (*userEntry, error) {
	r.mu.RLock()
	entry, exists := r.entries[id]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return entry, nil
}

// cloneUser copies a user so callers never share memory with the store.
func cloneUser(u *models.User) *models.User {
	clone := *u
	if u.Location != nil {
		loc := *u.Location
		clone.Location = &loc
	}
	if u.FCMToken != nil {
		token := *u.FCMToken
		clone.FCMToken = &token
	}
	return &clone
}
