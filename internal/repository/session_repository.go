package repository

import (
	"errors"
	"time"

	"github.com/Merctxt/contrl-financeiro/internal/domain"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *domain.Session) error
	FindActiveByHash(tokenHash string) (*domain.Session, error)
	Touch(tokenHash string, now time.Time) error
	ListActiveByUserID(userID uint) ([]domain.Session, error)
	RevokeByIDForUser(userID, sessionID uint) (bool, error)
	RevokeOthersByUser(userID, keepSessionID uint) (int64, error)
	SweepInactive(olderThan time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *domain.Session) error {
	now := time.Now().UTC()
	if session.LastActivity.IsZero() {
		session.LastActivity = now
	}
	session.IsActive = true
	return r.db.Create(session).Error
}

func (r *sessionRepository) FindActiveByHash(tokenHash string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.Where("token_hash = ? AND is_active = ?", tokenHash, true).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Touch refreshes last_activity. Losing a race against a concurrent revoke is
// fine: the revoke only flips is_active and the touch only moves a timestamp.
func (r *sessionRepository) Touch(tokenHash string, now time.Time) error {
	return r.db.Model(&domain.Session{}).
		Where("token_hash = ? AND is_active = ?", tokenHash, true).
		Update("last_activity", now).Error
}

func (r *sessionRepository) ListActiveByUserID(userID uint) ([]domain.Session, error) {
	var sessions []domain.Session
	err := r.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_activity DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) RevokeByIDForUser(userID, sessionID uint) (bool, error) {
	res := r.db.Model(&domain.Session{}).
		Where("id = ? AND user_id = ? AND is_active = ?", sessionID, userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepository) RevokeOthersByUser(userID, keepSessionID uint) (int64, error) {
	res := r.db.Model(&domain.Session{}).
		Where("user_id = ? AND id <> ? AND is_active = ?", userID, keepSessionID, true).
		Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// SweepInactive flips every active session whose last_activity predates the
// cutoff. Rows are kept for the audit trail; repeated sweeps are no-ops.
func (r *sessionRepository) SweepInactive(olderThan time.Time) (int64, error) {
	res := r.db.Model(&domain.Session{}).
		Where("is_active = ? AND last_activity < ?", true, olderThan).
		Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
