package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Merctxt/contrl-financeiro/internal/config"
	"github.com/Merctxt/contrl-financeiro/internal/domain"
	"github.com/Merctxt/contrl-financeiro/internal/repository"
	"github.com/Merctxt/contrl-financeiro/internal/security"
)

func authConfigForTest() *config.Config {
	return &config.Config{
		TokenTTL:         7 * 24 * time.Hour,
		ResetTokenTTL:    time.Hour,
		TokenHashPepper:  "0123456789abcdef",
		ResetLinkBaseURL: "http://localhost:3000",
	}
}

func tokenManagerForTest() *security.TokenManager {
	return security.NewTokenManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456")
}

type recordingNotifier struct {
	sent []ResetNotification
	err  error
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, notification ResetNotification) error {
	n.sent = append(n.sent, notification)
	return n.err
}

func TestAuthServiceRegisterOpensSession(t *testing.T) {
	cfg := authConfigForTest()
	var created *domain.User
	var session *domain.Session
	users := &stubUserRepository{
		findByEmailFn: func(_ string) (*domain.User, error) { return nil, repository.ErrUserNotFound },
		createFn: func(u *domain.User) error {
			u.ID = 7
			created = u
			return nil
		},
	}
	sessions := &stubSessionRepository{
		createFn: func(s *domain.Session) error {
			s.ID = 77
			session = s
			return nil
		},
	}
	svc := NewAuthService(users, sessions, tokenManagerForTest(), &recordingNotifier{}, cfg, discardLogger())

	res, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret", "Firefox on Linux", "10.0.0.1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created == nil || created.PasswordHash == "s3cret" {
		t.Fatal("expected user created with hashed password")
	}
	if res.Token == "" || res.SessionID != 77 || res.User.ID != 7 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if session == nil {
		t.Fatal("expected session recorded")
	}
	if session.TokenHash != security.HashToken(res.Token, cfg.TokenHashPepper) {
		t.Fatal("expected session to store the peppered hash of the issued credential")
	}
	if session.TokenHash == res.Token || strings.Contains(session.TokenHash, res.Token) {
		t.Fatal("raw credential must never be persisted")
	}
	if session.DeviceInfo != "Firefox on Linux" || session.IPAddress != "10.0.0.1" {
		t.Fatalf("unexpected session metadata: %+v", session)
	}
}

func TestAuthServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	users := &stubUserRepository{
		findByEmailFn: func(_ string) (*domain.User, error) {
			return &domain.User{ID: 1, Email: "taken@example.com"}, nil
		},
	}
	svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), &recordingNotifier{}, authConfigForTest(), discardLogger())

	_, err := svc.Register(context.Background(), "Bob", "taken@example.com", "s3cret", "", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthServiceRegisterRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(&stubUserRepository{}, &stubSessionRepository{}, tokenManagerForTest(), &recordingNotifier{}, authConfigForTest(), discardLogger())

	_, err := svc.Register(context.Background(), "Bob", "bob@example.com", "12345", "", "")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthServiceLogin(t *testing.T) {
	passwordHash, err := security.HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	user := &domain.User{ID: 7, Name: "Alice", Email: "alice@example.com", PasswordHash: passwordHash}

	t.Run("success records a fresh session per login", func(t *testing.T) {
		var hashes []string
		users := &stubUserRepository{
			findByEmailFn: func(_ string) (*domain.User, error) { return user, nil },
		}
		sessions := &stubSessionRepository{
			createFn: func(s *domain.Session) error {
				s.ID = uint(len(hashes) + 1)
				hashes = append(hashes, s.TokenHash)
				return nil
			},
		}
		svc := NewAuthService(users, sessions, tokenManagerForTest(), &recordingNotifier{}, authConfigForTest(), discardLogger())

		first, err := svc.Login(context.Background(), "alice@example.com", "s3cret", "device-1", "1.1.1.1")
		if err != nil {
			t.Fatalf("first login: %v", err)
		}
		second, err := svc.Login(context.Background(), "alice@example.com", "s3cret", "device-2", "2.2.2.2")
		if err != nil {
			t.Fatalf("second login: %v", err)
		}
		if first.SessionID == second.SessionID {
			t.Fatal("expected independent sessions per login")
		}
		if hashes[0] == hashes[1] {
			t.Fatal("expected distinct token hashes for concurrent device sessions")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		users := &stubUserRepository{
			findByEmailFn: func(_ string) (*domain.User, error) { return nil, repository.ErrUserNotFound },
		}
		svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), &recordingNotifier{}, authConfigForTest(), discardLogger())

		_, err := svc.Login(context.Background(), "ghost@example.com", "s3cret", "", "")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		users := &stubUserRepository{
			findByEmailFn: func(_ string) (*domain.User, error) { return user, nil },
		}
		svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), &recordingNotifier{}, authConfigForTest(), discardLogger())

		_, err := svc.Login(context.Background(), "alice@example.com", "wrong", "", "")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthServiceRequestPasswordReset(t *testing.T) {
	t.Run("unknown email succeeds silently", func(t *testing.T) {
		notifier := &recordingNotifier{}
		users := &stubUserRepository{
			findByEmailFn: func(_ string) (*domain.User, error) { return nil, repository.ErrUserNotFound },
		}
		svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), notifier, authConfigForTest(), discardLogger())

		if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
			t.Fatalf("RequestPasswordReset: %v", err)
		}
		if len(notifier.sent) != 0 {
			t.Fatal("expected no notification for unknown account")
		}
	})

	t.Run("known email stores hash and mails raw token", func(t *testing.T) {
		cfg := authConfigForTest()
		notifier := &recordingNotifier{}
		var storedHash string
		var storedExpiry time.Time
		users := &stubUserRepository{
			findByEmailFn: func(_ string) (*domain.User, error) {
				return &domain.User{ID: 7, Name: "Alice", Email: "alice@example.com"}, nil
			},
			setResetTokenFn: func(userID uint, tokenHash string, expiry time.Time) error {
				if userID != 7 {
					t.Fatalf("unexpected userID: %d", userID)
				}
				storedHash = tokenHash
				storedExpiry = expiry
				return nil
			},
		}
		svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), notifier, cfg, discardLogger())

		if err := svc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
			t.Fatalf("RequestPasswordReset: %v", err)
		}
		if len(notifier.sent) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
		}
		sent := notifier.sent[0]
		if sent.Token == "" || storedHash == "" {
			t.Fatal("expected raw token mailed and hash stored")
		}
		if storedHash == sent.Token {
			t.Fatal("stored value must be a digest, not the raw token")
		}
		if storedHash != security.HashToken(sent.Token, cfg.TokenHashPepper) {
			t.Fatal("stored hash must match the mailed token's digest")
		}
		if !strings.Contains(sent.ResetURL, sent.Token) {
			t.Fatalf("expected reset URL to embed the raw token: %q", sent.ResetURL)
		}
		wantExpiry := time.Now().UTC().Add(cfg.ResetTokenTTL)
		if storedExpiry.Before(wantExpiry.Add(-time.Minute)) || storedExpiry.After(wantExpiry.Add(time.Minute)) {
			t.Fatalf("unexpected expiry: %v", storedExpiry)
		}
	})

	t.Run("delivery failure is swallowed", func(t *testing.T) {
		notifier := &recordingNotifier{err: errors.New("smtp down")}
		users := &stubUserRepository{
			findByEmailFn: func(_ string) (*domain.User, error) {
				return &domain.User{ID: 7, Email: "alice@example.com"}, nil
			},
			setResetTokenFn: func(_ uint, _ string, _ time.Time) error { return nil },
		}
		svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), notifier, authConfigForTest(), discardLogger())

		if err := svc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
			t.Fatalf("expected delivery failure swallowed, got %v", err)
		}
	})
}

func TestAuthServiceValidateResetToken(t *testing.T) {
	cfg := authConfigForTest()

	t.Run("valid", func(t *testing.T) {
		users := &stubUserRepository{
			findByActiveResetTokenFn: func(tokenHash string, _ time.Time) (*domain.User, error) {
				if tokenHash != security.HashToken("raw-token", cfg.TokenHashPepper) {
					t.Fatalf("unexpected hash %q", tokenHash)
				}
				return &domain.User{ID: 7}, nil
			},
		}
		svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), &recordingNotifier{}, cfg, discardLogger())

		valid, err := svc.ValidateResetToken("raw-token")
		if err != nil || !valid {
			t.Fatalf("expected valid token, got valid=%v err=%v", valid, err)
		}
	})

	t.Run("unknown or expired collapse to invalid", func(t *testing.T) {
		users := &stubUserRepository{
			findByActiveResetTokenFn: func(_ string, _ time.Time) (*domain.User, error) {
				return nil, repository.ErrUserNotFound
			},
		}
		svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), &recordingNotifier{}, cfg, discardLogger())

		valid, err := svc.ValidateResetToken("whatever")
		if err != nil {
			t.Fatalf("ValidateResetToken: %v", err)
		}
		if valid {
			t.Fatal("expected invalid token")
		}
	})
}

func TestAuthServiceResetPassword(t *testing.T) {
	cfg := authConfigForTest()

	t.Run("success consumes the token", func(t *testing.T) {
		var gotHash, gotPasswordHash string
		users := &stubUserRepository{
			resetPasswordAndClearTokenFn: func(tokenHash, passwordHash string, _ time.Time) (bool, error) {
				gotHash = tokenHash
				gotPasswordHash = passwordHash
				return true, nil
			},
		}
		svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), &recordingNotifier{}, cfg, discardLogger())

		if err := svc.ResetPassword(context.Background(), "raw-token", "new-password"); err != nil {
			t.Fatalf("ResetPassword: %v", err)
		}
		if gotHash != security.HashToken("raw-token", cfg.TokenHashPepper) {
			t.Fatalf("unexpected token hash %q", gotHash)
		}
		if !security.CheckPassword(gotPasswordHash, "new-password") {
			t.Fatal("expected stored hash to verify the new password")
		}
	})

	t.Run("spent or expired token", func(t *testing.T) {
		users := &stubUserRepository{
			resetPasswordAndClearTokenFn: func(_, _ string, _ time.Time) (bool, error) { return false, nil },
		}
		svc := NewAuthService(users, &stubSessionRepository{}, tokenManagerForTest(), &recordingNotifier{}, cfg, discardLogger())

		if err := svc.ResetPassword(context.Background(), "raw-token", "new-password"); !errors.Is(err, ErrResetTokenInvalid) {
			t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
		}
	})

	t.Run("short password", func(t *testing.T) {
		svc := NewAuthService(&stubUserRepository{}, &stubSessionRepository{}, tokenManagerForTest(), &recordingNotifier{}, cfg, discardLogger())

		if err := svc.ResetPassword(context.Background(), "raw-token", "123"); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword, got %v", err)
		}
	})
}
