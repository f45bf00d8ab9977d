package model

import "time"

// Habit difficulties. Each maps to a fixed XP reward per completion.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Habit frequencies.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// Habit is a recurring behaviour tracked day by day.
type Habit struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Frequency     string    `gorm:"default:daily" json:"frequency"`
	Difficulty    string    `gorm:"default:medium" json:"difficulty"`
	CurrentStreak int       `gorm:"default:0" json:"current_streak"`
	LongestStreak int       `gorm:"default:0" json:"longest_streak"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	SortIndex     int       `json:"sort_index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HabitCompletion marks one calendar day as done. Date uses the YYYY-MM-DD layout.
type HabitCompletion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	HabitID   uint      `gorm:"index:idx_habit_completion_day,unique" json:"habit_id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Date      string    `gorm:"index:idx_habit_completion_day,unique" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
