package push

import (
	"context"
	"fmt"

	"locator-backend/internal/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Command is an opaque instruction delivered to a device through the push
// transport. The client switches on the "title" key of the data payload.
type Command struct {
	ID    string
	Title string
}

// NewLocationRefresh builds the command that asks a device to report a
// fresh location through the normal update path.
func NewLocationRefresh() Command {
	return Command{
		ID:    uuid.New().String(),
		Title: "update_location",
	}
}

// Data returns the wire form of the command
func (c Command) Data() map[string]string {
	return map[string]string{
		"title":      c.Title,
		"request_id": c.ID,
	}
}

// Sender delivers a command to the device addressed by a push token.
// Delivery is best-effort; implementations must honor ctx cancellation.
type Sender interface {
	Send(ctx context.Context, token string, cmd Command) error
}

// NewSender builds the sender selected by configuration
func NewSender(cfg config.PushConfig) (Sender, error) {
	switch cfg.Provider {
	case "fcm":
		return NewFCMSender(context.Background(), cfg.FCM.CredentialsFile)
	case "apns":
		return NewAPNSSender(cfg.APNS)
	case "log", "":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown push provider %q", cfg.Provider)
	}
}

// LogSender logs commands instead of delivering them. Used in development
// when no push credentials are configured.
type LogSender struct{}

// Send logs the command and reports success
func (LogSender) Send(_ context.Context, token string, cmd Command) error {
	log.Info().
		Str("token", token).
		Str("command", cmd.Title).
		Str("request_id", cmd.ID).
		Msg("Push dispatch (log only)")
	return nil
}
