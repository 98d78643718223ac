package domain

import "time"

type Session struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index:idx_sessions_user_active;not null" json:"user_id"`
	TokenHash    string    `gorm:"size:128;uniqueIndex;not null" json:"-"`
	DeviceInfo   string    `gorm:"size:512" json:"device_info"`
	IPAddress    string    `gorm:"size:64" json:"ip_address"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `gorm:"index;not null" json:"last_activity"`
	IsActive     bool      `gorm:"index:idx_sessions_user_active;not null;default:true" json:"is_active"`
}
