package database

import (
	"github.com/Merctxt/contrl-financeiro/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
	)
}
