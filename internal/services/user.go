package services

import (
	"context"
	"fmt"
	"time"

	"locator-backend/internal/models"
)

// UserService handles user-record business logic
type UserService struct {
	store UserStore
}

// NewUserService creates a new user service
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// CreateUser registers a new user. The id is an opaque identifier already
// verified by the identity provider; this service trusts it as given.
// Initial coordinates and a push token are optional: the mobile client
// posts them on sign-up when it already has both.
func (s *UserService) CreateUser(ctx context.Context, id, name string, lat, lon *float64, fcmToken string) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required: %w", models.ErrInvalidArgument)
	}
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", models.ErrInvalidArgument)
	}
	if (lat == nil) != (lon == nil) {
		return nil, fmt.Errorf("lat and lon must be sent together: %w", models.ErrInvalidArgument)
	}

	user := &models.User{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if lat != nil {
		if err := ValidateCoordinates(*lat, *lon); err != nil {
			return nil, err
		}
		user.Location = &models.Location{Lat: *lat, Lon: *lon, UpdatedAt: time.Now()}
	}
	if fcmToken != "" {
		user.FCMToken = &fcmToken
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by id
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetByID(ctx, id)
}

// GetLastSeen returns the last-seen projection for a user. A user that has
// never reported a location has no last-seen view.
func (s *UserService) GetLastSeen(ctx context.Context, id string) (*models.LastSeen, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Location == nil {
		return nil, fmt.Errorf("user %s has no reported location: %w", id, models.ErrNotFound)
	}
	return &models.LastSeen{
		Name:      user.Name,
		Lat:       user.Location.Lat,
		Lon:       user.Location.Lon,
		Timestamp: user.Location.UpdatedAt,
	}, nil
}

// UpdateToken overwrites the push token for a user. An empty token clears
// the registration, so a device can rotate or revoke its token.
func (s *UserService) UpdateToken(ctx context.Context, id, fcmToken string) (*models.User, error) {
	var token *string
	if fcmToken != "" {
		token = &fcmToken
	}
	user, err := s.store.UpdateToken(ctx, id, token)
	if err != nil {
		return nil, fmt.Errorf("failed to update token: %w", err)
	}
	return user, nil
}
