package model

import "time"

// FocusSession records one run of the focus timer. TaskID may reference a task
// that has since been deleted; sessions are kept regardless.
type FocusSession struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index" json:"user_id"`
	TaskID          *uint     `gorm:"index" json:"task_id,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `gorm:"default:false" json:"completed"`
	Interrupted     bool      `gorm:"default:false" json:"interrupted"`
	XPEarned        int       `json:"xp_earned"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
