package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Merctxt/contrl-financeiro/internal/config"
	"github.com/Merctxt/contrl-financeiro/internal/domain"
	"github.com/Merctxt/contrl-financeiro/internal/repository"
	"github.com/Merctxt/contrl-financeiro/internal/security"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
)

type AuthResult struct {
	Token     string
	SessionID uint
	User      *domain.User
}

type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password, deviceInfo, ipAddress string) (*AuthResult, error)
	Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*AuthResult, error)
	GetProfile(userID uint) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ValidateResetToken(rawToken string) (bool, error)
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *security.TokenManager
	notifier PasswordResetNotifier
	cfg      *config.Config
	logger   *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens *security.TokenManager,
	notifier PasswordResetNotifier,
	cfg *config.Config,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, deviceInfo, ipAddress string) (*AuthResult, error) {
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Name: name, Email: email, PasswordHash: passwordHash}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.openSession(ctx, user, deviceInfo, ipAddress)
}

func (s *AuthService) Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, user, deviceInfo, ipAddress)
}

// openSession mints the bearer credential and records its hash in the
// session registry. Exactly one session per successful login/register.
func (s *AuthService) openSession(ctx context.Context, user *domain.User, deviceInfo, ipAddress string) (*AuthResult, error) {
	token, err := s.tokens.Sign(user.ID, user.Email, s.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign credential: %w", err)
	}
	session := &domain.Session{
		UserID:     user.ID,
		TokenHash:  security.HashToken(token, s.cfg.TokenHashPepper),
		DeviceInfo: deviceInfo,
		IPAddress:  ipAddress,
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	s.logger.InfoContext(ctx, "session opened", "user_id", user.ID, "session_id", session.ID)
	return &AuthResult{Token: token, SessionID: session.ID, User: user}, nil
}

func (s *AuthService) GetProfile(userID uint) (*domain.User, error) {
	return s.users.FindByID(userID)
}

// RequestPasswordReset always reports success to the caller; whether the
// account exists is only visible in server-side logs.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	rawToken, err := security.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expiry := time.Now().UTC().Add(s.cfg.ResetTokenTTL)
	tokenHash := security.HashToken(rawToken, s.cfg.TokenHashPepper)
	if err := s.users.SetResetToken(user.ID, tokenHash, expiry); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	notification := ResetNotification{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Token:     rawToken,
		ExpiresAt: expiry,
		ResetURL:  fmt.Sprintf("%s/reset-password/%s", s.cfg.ResetLinkBaseURL, rawToken),
	}
	if err := s.notifier.SendPasswordReset(ctx, notification); err != nil {
		// Delivery failures must not reveal anything to the caller.
		s.logger.ErrorContext(ctx, "password reset delivery failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// ValidateResetToken does not distinguish unknown from expired tokens.
func (s *AuthService) ValidateResetToken(rawToken string) (bool, error) {
	tokenHash := security.HashToken(rawToken, s.cfg.TokenHashPepper)
	_, err := s.users.FindByActiveResetToken(tokenHash, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find reset token: %w", err)
	}
	return true, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	tokenHash := security.HashToken(rawToken, s.cfg.TokenHashPepper)
	changed, err := s.users.ResetPasswordAndClearToken(tokenHash, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if !changed {
		return ErrResetTokenInvalid
	}
	// Sessions issued under the old password stay valid; revocation is left
	// to the user via the sessions screen.
	s.logger.InfoContext(ctx, "password reset completed")
	return nil
}

var _ AuthServiceInterface = (*AuthService)(nil)
