package services

import (
	"context"
	"fmt"
	"time"

	"locator-backend/internal/models"
	"locator-backend/internal/push"

	"github.com/rs/zerolog/log"
)

// NotifyService is the dispatch gateway that asks a user's device for a
// fresh location. Dispatch is fire-and-forget: the gateway never waits for
// the device to act, and the eventual report arrives later through the
// normal location pipeline.
type NotifyService struct {
	store      UserStore
	sender     push.Sender
	timeout    time.Duration
	staleAfter time.Duration
}

// NewNotifyService creates a new notify service. timeout bounds how long a
// single dispatch may block a caller; staleAfter is the freshness window
// past which a stored location triggers an opportunistic refresh.
func NewNotifyService(store UserStore, sender push.Sender, timeout, staleAfter time.Duration) *NotifyService {
	return &NotifyService{
		store:      store,
		sender:     sender,
		timeout:    timeout,
		staleAfter: staleAfter,
	}
}

// RequestLocationRefresh commands the user's device to report its location.
// A user without a registered token cannot be reached, so the caller may
// fall back to the last stored location rather than retrying.
func (s *NotifyService) RequestLocationRefresh(ctx context.Context, id string) error {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.HasToken() {
		return fmt.Errorf("user %s has no push token registered: %w", id, models.ErrNotFound)
	}

	cmd := push.NewLocationRefresh()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.sender.Send(ctx, *user.FCMToken, cmd); err != nil {
		return fmt.Errorf("%w: %v", models.ErrUnavailable, err)
	}

	log.Info().
		Str("user_id", id).
		Str("request_id", cmd.ID).
		Msg("Location refresh requested")
	return nil
}

// RefreshIfStale fires an asynchronous refresh for a user whose stored
// location is older than the freshness window. Failures are logged, never
// surfaced: the read that triggered this must not be delayed or failed.
func (s *NotifyService) RefreshIfStale(user *models.User) {
	if !user.HasToken() {
		return
	}
	if user.Location != nil && time.Since(user.Location.UpdatedAt) < s.staleAfter {
		return
	}

	id := user.ID
	go func() {
		if err := s.RequestLocationRefresh(context.Background(), id); err != nil {
			log.Warn().Err(err).Str("user_id", id).Msg("Background location refresh failed")
		}
	}()
}
