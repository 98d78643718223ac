package handler

import (
	"context"

	"github.com/Merctxt/contrl-financeiro/internal/domain"
	"github.com/Merctxt/contrl-financeiro/internal/service"
)

type stubAuthService struct {
	registerFn             func(ctx context.Context, name, email, password, deviceInfo, ipAddress string) (*service.AuthResult, error)
	loginFn                func(ctx context.Context, email, password, deviceInfo, ipAddress string) (*service.AuthResult, error)
	getProfileFn           func(userID uint) (*domain.User, error)
	requestPasswordResetFn func(ctx context.Context, email string) error
	validateResetTokenFn   func(rawToken string) (bool, error)
	resetPasswordFn        func(ctx context.Context, rawToken, newPassword string) error
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password, deviceInfo, ipAddress string) (*service.AuthResult, error) {
	return s.registerFn(ctx, name, email, password, deviceInfo, ipAddress)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*service.AuthResult, error) {
	return s.loginFn(ctx, email, password, deviceInfo, ipAddress)
}

func (s *stubAuthService) GetProfile(userID uint) (*domain.User, error) {
	return s.getProfileFn(userID)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestPasswordResetFn(ctx, email)
}

func (s *stubAuthService) ValidateResetToken(rawToken string) (bool, error) {
	return s.validateResetTokenFn(rawToken)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	return s.resetPasswordFn(ctx, rawToken, newPassword)
}

type stubSessionService struct {
	listSessionsFn        func(userID, currentSessionID uint) ([]service.SessionView, error)
	revokeSessionFn       func(userID, targetSessionID, currentSessionID uint) error
	revokeOtherSessionsFn func(userID, currentSessionID uint) (int64, error)
	sweepInactiveFn       func(ctx context.Context) (int64, error)
}

func (s *stubSessionService) ListSessions(userID, currentSessionID uint) ([]service.SessionView, error) {
	return s.listSessionsFn(userID, currentSessionID)
}

func (s *stubSessionService) RevokeSession(userID, targetSessionID, currentSessionID uint) error {
	return s.revokeSessionFn(userID, targetSessionID, currentSessionID)
}

func (s *stubSessionService) RevokeOtherSessions(userID, currentSessionID uint) (int64, error) {
	return s.revokeOtherSessionsFn(userID, currentSessionID)
}

func (s *stubSessionService) SweepInactive(ctx context.Context) (int64, error) {
	return s.sweepInactiveFn(ctx)
}

var (
	_ service.AuthServiceInterface    = (*stubAuthService)(nil)
	_ service.SessionServiceInterface = (*stubSessionService)(nil)
)
