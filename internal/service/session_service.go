package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Merctxt/contrl-financeiro/internal/repository"
)

var ErrCannotRevokeCurrent = errors.New("cannot revoke the current session")

type SessionView struct {
	ID           uint      `json:"id"`
	DeviceInfo   string    `json:"device_info"`
	IPAddress    string    `json:"ip_address"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	IsCurrent    bool      `json:"is_current"`
}

type SessionServiceInterface interface {
	ListSessions(userID, currentSessionID uint) ([]SessionView, error)
	RevokeSession(userID, targetSessionID, currentSessionID uint) error
	RevokeOtherSessions(userID, currentSessionID uint) (int64, error)
	SweepInactive(ctx context.Context) (int64, error)
}

type SessionService struct {
	sessions    repository.SessionRepository
	inactiveTTL time.Duration
	logger      *slog.Logger
}

func NewSessionService(sessions repository.SessionRepository, inactiveTTL time.Duration, logger *slog.Logger) *SessionService {
	return &SessionService{sessions: sessions, inactiveTTL: inactiveTTL, logger: logger}
}

func (s *SessionService) ListSessions(userID, currentSessionID uint) ([]SessionView, error) {
	sessions, err := s.sessions.ListActiveByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	views := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, SessionView{
			ID:           session.ID,
			DeviceInfo:   session.DeviceInfo,
			IPAddress:    session.IPAddress,
			CreatedAt:    session.CreatedAt,
			LastActivity: session.LastActivity,
			IsCurrent:    session.ID == currentSessionID,
		})
	}
	return views, nil
}

// RevokeSession refuses the caller's own session regardless of ownership
// checks further down; revoking yourself goes through logout, not here.
func (s *SessionService) RevokeSession(userID, targetSessionID, currentSessionID uint) error {
	if targetSessionID == currentSessionID {
		return ErrCannotRevokeCurrent
	}
	changed, err := s.sessions.RevokeByIDForUser(userID, targetSessionID)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if !changed {
		return repository.ErrSessionNotFound
	}
	return nil
}

func (s *SessionService) RevokeOtherSessions(userID, currentSessionID uint) (int64, error) {
	count, err := s.sessions.RevokeOthersByUser(userID, currentSessionID)
	if err != nil {
		return 0, fmt.Errorf("revoke other sessions: %w", err)
	}
	return count, nil
}

// SweepInactive deactivates sessions idle past the configured threshold.
// It runs from the background sweeper, never on the request path.
func (s *SessionService) SweepInactive(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.inactiveTTL)
	count, err := s.sessions.SweepInactive(cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep inactive sessions: %w", err)
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "inactive sessions swept", "count", count, "cutoff", cutoff)
	}
	return count, nil
}

var _ SessionServiceInterface = (*SessionService)(nil)
