package services

import (
	"context"
	"fmt"
	"time"

	"locator-backend/internal/models"
)

// LocationService is the pipeline for incoming location reports: it
// validates coordinates, stamps the report with server-observed time and
// applies it to the store. The client sends no timestamp of its own, so
// last-writer-wins is defined by arrival order at the server.
type LocationService struct {
	store UserStore
}

// NewLocationService creates a new location service
func NewLocationService(store UserStore) *LocationService {
	return &LocationService{store: store}
}

// Report applies a location report for a user and returns the updated
// record. Reports for unknown users fail and are not retried here; the
// client re-registers and reports again.
func (s *LocationService) Report(ctx context.Context, id string, lat, lon float64) (*models.User, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	user, err := s.store.UpdateLocation(ctx, id, lat, lon, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to apply location report: %w", err)
	}
	return user, nil
}

// ValidateCoordinates rejects coordinates outside the WGS84 ranges
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]: %w", lat, models.ErrInvalidArgument)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]: %w", lon, models.ErrInvalidArgument)
	}
	return nil
}
