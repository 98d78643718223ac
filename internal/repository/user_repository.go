package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/Merctxt/contrl-financeiro/internal/domain"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id uint) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	SetResetToken(userID uint, tokenHash string, expiry time.Time) error
	FindByActiveResetToken(tokenHash string, now time.Time) (*domain.User, error)
	ResetPasswordAndClearToken(tokenHash, passwordHash string, now time.Time) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetResetToken(userID uint, tokenHash string, expiry time.Time) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token_hash":   tokenHash,
			"reset_token_expiry": expiry,
		}).Error
}

func (r *userRepository) FindByActiveResetToken(tokenHash string, now time.Time) (*domain.User, error) {
	var user domain.User
	err := r.db.
		Where("reset_token_hash = ? AND reset_token_expiry > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ResetPasswordAndClearToken swaps the password hash and clears both reset
// columns in one conditional UPDATE. The token-hash predicate makes the
// token single-use: a second call finds no matching row.
func (r *userRepository) ResetPasswordAndClearToken(tokenHash, passwordHash string, now time.Time) (bool, error) {
	res := r.db.Model(&domain.User{}).
		Where("reset_token_hash = ? AND reset_token_expiry > ?", tokenHash, now).
		Updates(map[string]interface{}{
			"password_hash":      passwordHash,
			"reset_token_hash":   nil,
			"reset_token_expiry": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
