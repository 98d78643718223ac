package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type ResetNotification struct {
	UserID    uint
	Email     string
	Name      string
	Token     string
	ExpiresAt time.Time
	ResetURL  string
}

// PasswordResetNotifier delivers the raw reset token to the account owner.
// Delivery is fire-and-forget from the caller's perspective; the token is
// never persisted in raw form.
type PasswordResetNotifier interface {
	SendPasswordReset(ctx context.Context, notification ResetNotification) error
}

type DevPasswordResetNotifier struct {
	logger *slog.Logger
}

func NewDevPasswordResetNotifier(logger *slog.Logger) *DevPasswordResetNotifier {
	return &DevPasswordResetNotifier{logger: logger}
}

func (n *DevPasswordResetNotifier) SendPasswordReset(ctx context.Context, notification ResetNotification) error {
	link := notification.ResetURL
	if strings.TrimSpace(link) == "" {
		link = fmt.Sprintf("token=%s", notification.Token)
	}
	n.logger.InfoContext(ctx, "password reset token issued",
		"user_id", notification.UserID,
		"email", notification.Email,
		"expires_at", notification.ExpiresAt,
		"reset", link,
	)
	return nil
}
