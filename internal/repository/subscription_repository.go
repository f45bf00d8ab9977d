package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"habitflow/internal/model"
)

// SubscriptionRepository manages the per-user billing record.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetOrCreate returns the user's subscription row, creating a free-tier row
// on first read.
func (r *SubscriptionRepository) GetOrCreate(ctx context.Context, userID uint) (*model.Subscription, error) {
	var sub model.Subscription
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ?", userID).First(&sub).Error
	switch {
	case err == nil:
		return &sub, nil
	case err == gorm.ErrRecordNotFound:
		sub = model.Subscription{UserID: userID, Status: model.SubscriptionFree}
		if err := db.Create(&sub).Error; err != nil {
			return nil, fmt.Errorf("create subscription: %w", err)
		}
		return &sub, nil
	default:
		return nil, fmt.Errorf("find subscription: %w", err)
	}
}

func (r *SubscriptionRepository) Save(ctx context.Context, sub *model.Subscription) error {
	if err := r.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}
