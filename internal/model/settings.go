package model

import "time"

// Settings holds per-user preferences. One row per user, created lazily
// with defaults on first read. CustomCategories is a JSON-encoded string list.
type Settings struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"uniqueIndex" json:"user_id"`
	Theme                string    `json:"theme"`
	Language             string    `json:"language"`
	CalendarSystem       string    `json:"calendar_system"`
	NotificationsEnabled bool      `gorm:"default:true" json:"notifications_enabled"`
	HapticsEnabled       bool      `gorm:"default:true" json:"haptics_enabled"`
	CustomCategories     string    `json:"custom_categories"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
