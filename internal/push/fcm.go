package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FCMSender delivers commands through Firebase Cloud Messaging. This is the
// primary transport; the mobile client registers FCM device tokens.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender creates an FCM sender using the given service-account
// credentials file. An empty path falls back to application default
// credentials.
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Info().Msg("FCM sender initialized")
	return &FCMSender{client: client}, nil
}

// Send delivers a data-only message to the device addressed by token.
// High priority so the device wakes to run the command promptly.
func (s *FCMSender) Send(ctx context.Context, token string, cmd Command) error {
	message := &messaging.Message{
		Token: token,
		Data:  cmd.Data(),
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	id, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	log.Debug().
		Str("message_id", id).
		Str("request_id", cmd.ID).
		Msg("FCM message sent")
	return nil
}
