package model

import "time"

// User is an account with its gamified progress counters.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	LinkCode       string    `gorm:"uniqueIndex" json:"link_code"` // one-time code for binding a Telegram chat
	TelegramChatID int64     `gorm:"index" json:"-"`
	XP             int       `gorm:"default:0" json:"xp"`
	Level          int       `gorm:"default:1" json:"level"`
	TasksCompleted int       `gorm:"default:0" json:"tasks_completed"`
	FocusMinutes   int       `gorm:"default:0" json:"focus_minutes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
