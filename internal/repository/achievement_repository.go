package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"habitflow/internal/model"
)

// AchievementRepository stores unlocked achievements per user.
type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserAchievement, error) {
	var unlocked []model.UserAchievement
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&unlocked).Error; err != nil {
		return nil, err
	}
	return unlocked, nil
}

// Unlock records the achievement if it is not unlocked yet. Returns true when
// this call created the row.
func (r *AchievementRepository) Unlock(ctx context.Context, userID uint, code string, at time.Time) (bool, error) {
	var existing model.UserAchievement
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND code = ?", userID, code).First(&existing).Error
	switch {
	case err == nil:
		return false, nil
	case err == gorm.ErrRecordNotFound:
		row := model.UserAchievement{UserID: userID, Code: code, UnlockedAt: at}
		if err := db.Create(&row).Error; err != nil {
			return false, fmt.Errorf("unlock achievement: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("find achievement: %w", err)
	}
}
