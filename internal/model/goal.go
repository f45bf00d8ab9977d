package model

import "time"

// Statuses shared by goals and plans.
const (
	StatusPlanning  = "planning"
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// Goal is a long-lived objective backed by a checklist.
type Goal struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index" json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Status      string          `gorm:"default:planning" json:"status"`
	TargetDate  *time.Time      `json:"target_date,omitempty"`
	Items       []ChecklistItem `gorm:"foreignKey:GoalID" json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ChecklistItem belongs to either a goal or a plan, never both.
type ChecklistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GoalID    *uint     `gorm:"index" json:"goal_id,omitempty"`
	PlanID    *uint     `gorm:"index" json:"plan_id,omitempty"`
	Title     string    `json:"title"`
	Done      bool      `gorm:"default:false" json:"done"`
	SortIndex int       `json:"sort_index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
