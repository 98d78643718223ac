package service

import (
	"errors"
	"time"

	"github.com/Merctxt/contrl-financeiro/internal/domain"
)

type stubUserRepository struct {
	createFn                     func(user *domain.User) error
	findByIDFn                   func(id uint) (*domain.User, error)
	findByEmailFn                func(email string) (*domain.User, error)
	setResetTokenFn              func(userID uint, tokenHash string, expiry time.Time) error
	findByActiveResetTokenFn     func(tokenHash string, now time.Time) (*domain.User, error)
	resetPasswordAndClearTokenFn func(tokenHash, passwordHash string, now time.Time) (bool, error)
}

func (s *stubUserRepository) Create(user *domain.User) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(user)
}

func (s *stubUserRepository) FindByID(id uint) (*domain.User, error) {
	if s.findByIDFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByIDFn(id)
}

func (s *stubUserRepository) FindByEmail(email string) (*domain.User, error) {
	if s.findByEmailFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByEmailFn(email)
}

func (s *stubUserRepository) SetResetToken(userID uint, tokenHash string, expiry time.Time) error {
	if s.setResetTokenFn == nil {
		return errors.New("not implemented")
	}
	return s.setResetTokenFn(userID, tokenHash, expiry)
}

func (s *stubUserRepository) FindByActiveResetToken(tokenHash string, now time.Time) (*domain.User, error) {
	if s.findByActiveResetTokenFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByActiveResetTokenFn(tokenHash, now)
}

func (s *stubUserRepository) ResetPasswordAndClearToken(tokenHash, passwordHash string, now time.Time) (bool, error) {
	if s.resetPasswordAndClearTokenFn == nil {
		return false, errors.New("not implemented")
	}
	return s.resetPasswordAndClearTokenFn(tokenHash, passwordHash, now)
}

type stubSessionRepository struct {
	createFn             func(session *domain.Session) error
	findActiveByHashFn   func(tokenHash string) (*domain.Session, error)
	touchFn              func(tokenHash string, now time.Time) error
	listActiveByUserIDFn func(userID uint) ([]domain.Session, error)
	revokeByIDForUserFn  func(userID, sessionID uint) (bool, error)
	revokeOthersByUserFn func(userID, keepSessionID uint) (int64, error)
	sweepInactiveFn      func(olderThan time.Time) (int64, error)
}

func (s *stubSessionRepository) Create(session *domain.Session) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(session)
}

func (s *stubSessionRepository) FindActiveByHash(tokenHash string) (*domain.Session, error) {
	if s.findActiveByHashFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findActiveByHashFn(tokenHash)
}

func (s *stubSessionRepository) Touch(tokenHash string, now time.Time) error {
	if s.touchFn == nil {
		return errors.New("not implemented")
	}
	return s.touchFn(tokenHash, now)
}

func (s *stubSessionRepository) ListActiveByUserID(userID uint) ([]domain.Session, error) {
	if s.listActiveByUserIDFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.listActiveByUserIDFn(userID)
}

func (s *stubSessionRepository) RevokeByIDForUser(userID, sessionID uint) (bool, error) {
	if s.revokeByIDForUserFn == nil {
		return false, errors.New("not implemented")
	}
	return s.revokeByIDForUserFn(userID, sessionID)
}

func (s *stubSessionRepository) RevokeOthersByUser(userID, keepSessionID uint) (int64, error) {
	if s.revokeOthersByUserFn == nil {
		return 0, errors.New("not implemented")
	}
	return s.revokeOthersByUserFn(userID, keepSessionID)
}

func (s *stubSessionRepository) SweepInactive(olderThan time.Time) (int64, error) {
	if s.sweepInactiveFn == nil {
		return 0, errors.New("not implemented")
	}
	return s.sweepInactiveFn(olderThan)
}
