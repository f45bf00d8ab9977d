package model

import "time"

// Subscription states.
const (
	SubscriptionFree    = "free"
	SubscriptionTrial   = "trialing"
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// Subscription is the single per-user billing record the pro gate reads.
type Subscription struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"uniqueIndex" json:"user_id"`
	IsPro            bool       `gorm:"default:false" json:"is_pro"`
	Tier             string     `json:"tier"`
	Status           string     `gorm:"default:free" json:"status"`
	TrialStartDate   *time.Time `json:"trial_start_date,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
