package domain

import "time"

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"size:255;not null" json:"name"`
	Email            string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"size:128;not null" json:"-"`
	ResetTokenHash   *string    `gorm:"size:128;index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
