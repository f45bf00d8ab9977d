package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"habitflow/internal/model"
)

// SettingsRepository manages the per-user preferences row.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetOrCreate returns the user's settings, creating a defaults row on first read.
func (r *SettingsRepository) GetOrCreate(ctx context.Context, userID uint) (*model.Settings, error) {
	var settings model.Settings
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ?", userID).First(&settings).Error
	switch {
	case err == nil:
		return &settings, nil
	case err == gorm.ErrRecordNotFound:
		settings = model.Settings{
			UserID:               userID,
			Theme:                "system",
			Language:             "en",
			CalendarSystem:       "gregorian",
			NotificationsEnabled: true,
			HapticsEnabled:       true,
			CustomCategories:     "[]",
		}
		if err := db.Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("create settings: %w", err)
		}
		return &settings, nil
	default:
		return nil, fmt.Errorf("find settings: %w", err)
	}
}

func (r *SettingsRepository) Save(ctx context.Context, settings *model.Settings) error {
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
