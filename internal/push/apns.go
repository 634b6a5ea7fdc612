package push

import (
	"context"
	"fmt"

	"locator-backend/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// APNSSender delivers commands through the Apple Push Notification service,
// for deployments where the client ships with APNs tokens instead of FCM.
type APNSSender struct {
	client *apns2.Client
	topic  string
}

// NewAPNSSender creates an APNs sender from a .p8 auth key
func NewAPNSSender(cfg config.APNSConfig) (*APNSSender, error) {
	authKey, err := token.AuthKeyFromFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	log.Info().Str("topic", cfg.Topic).Msg("APNs sender initialized")
	return &APNSSender{client: client, topic: cfg.Topic}, nil
}

// Send delivers the command as a silent background notification
func (s *APNSSender) Send(ctx context.Context, deviceToken string, cmd Command) error {
	p := payload.NewPayload().ContentAvailable()
	for key, value := range cmd.Data() {
		p = p.Custom(key, value)
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     p,
		Priority:    apns2.PriorityLow,
		PushType:    apns2.PushTypeBackground,
	}

	res, err := s.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to send APNs notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("APNs rejected notification: %s", res.Reason)
	}

	log.Debug().
		Str("apns_id", res.ApnsID).
		Str("request_id", cmd.ID).
		Msg("APNs notification sent")
	return nil
}
