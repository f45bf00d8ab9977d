package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"habitflow/internal/model"
)

// FocusRepository handles CRUD for focus sessions.
type FocusRepository struct {
	db *gorm.DB
}

func NewFocusRepository(db *gorm.DB) *FocusRepository {
	return &FocusRepository{db: db}
}

func (r *FocusRepository) Create(ctx context.Context, session *model.FocusSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create focus session: %w", err)
	}
	return nil
}

func (r *FocusRepository) FindByID(ctx context.Context, userID, sessionID uint) (*model.FocusSession, error) {
	var session model.FocusSession
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, sessionID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *FocusRepository) Save(ctx context.Context, session *model.FocusSession) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("save focus session: %w", err)
	}
	return nil
}

func (r *FocusRepository) ListByUser(ctx context.Context, userID uint) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListBetween returns sessions started inside the half-open range [from, to).
func (r *FocusRepository) ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, from, to).
		Order("started_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
