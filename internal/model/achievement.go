package model

import "time"

// UserAchievement is an unlocked entry from the static achievement catalog.
// Once written it is never removed.
type UserAchievement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_user_achievement,unique" json:"user_id"`
	Code       string    `gorm:"index:idx_user_achievement,unique" json:"code"`
	UnlockedAt time.Time `json:"unlocked_at"`
}
