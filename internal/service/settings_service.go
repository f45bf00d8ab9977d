package service

import (
	"context"
	"encoding/json"
	"fmt"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// SettingsInput carries a full settings update. Zero-value strings keep the
// stored value so partial updates stay cheap for clients.
type SettingsInput struct {
	Theme                string
	Language             string
	CalendarSystem       string
	NotificationsEnabled *bool
	HapticsEnabled       *bool
	CustomCategories     []string
}

// SettingsService provides helpers around the per-user preferences row,
// including the custom category list tasks and habits reference by name.
type SettingsService struct {
	repo *repository.SettingsRepository
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get(ctx context.Context, user *model.User) (*model.Settings, error) {
	return s.repo.GetOrCreate(ctx, user.ID)
}

func (s *SettingsService) Update(ctx context.Context, user *model.User, input SettingsInput) (*model.Settings, error) {
	settings, err := s.repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if input.Theme != "" {
		settings.Theme = input.Theme
	}
	if input.Language != "" {
		settings.Language = input.Language
	}
	if input.CalendarSystem != "" {
		settings.CalendarSystem = input.CalendarSystem
	}
	if input.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *input.NotificationsEnabled
	}
	if input.HapticsEnabled != nil {
		settings.HapticsEnabled = *input.HapticsEnabled
	}
	if input.CustomCategories != nil {
		encoded, err := json.Marshal(input.CustomCategories)
		if err != nil {
			return nil, fmt.Errorf("encode categories: %w", err)
		}
		settings.CustomCategories = string(encoded)
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Categories decodes the stored custom category list.
func (s *SettingsService) Categories(ctx context.Context, user *model.User) ([]string, error) {
	settings, err := s.repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	var categories []string
	if settings.CustomCategories != "" {
		if err := json.Unmarshal([]byte(settings.CustomCategories), &categories); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}
	}
	return categories, nil
}
