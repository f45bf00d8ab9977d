package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"habitflow/internal/model"
)

// GoalRepository handles CRUD for goals and their checklist items.
type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID uint) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).Preload("Items", itemOrder).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *GoalRepository) FindByID(ctx context.Context, userID, goalID uint) (*model.Goal, error) {
	var goal model.Goal
	if err := r.db.WithContext(ctx).Preload("Items", itemOrder).
		Where("user_id = ? AND id = ?", userID, goalID).First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *GoalRepository) Save(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Omit("Items").Save(goal).Error; err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, userID, goalID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("goal_id = ?", goalID).Delete(&model.ChecklistItem{}).Error; err != nil {
		return fmt.Errorf("delete goal items: %w", err)
	}
	if err := db.Where("user_id = ? AND id = ?", userID, goalID).Delete(&model.Goal{}).Error; err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) AddItem(ctx context.Context, item *model.ChecklistItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("add checklist item: %w", err)
	}
	return nil
}

func (r *GoalRepository) FindItem(ctx context.Context, goalID, itemID uint) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	if err := r.db.WithContext(ctx).Where("goal_id = ? AND id = ?", goalID, itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GoalRepository) SaveItem(ctx context.Context, item *model.ChecklistItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("save checklist item: %w", err)
	}
	return nil
}

func (r *GoalRepository) DeleteItem(ctx context.Context, goalID, itemID uint) error {
	if err := r.db.WithContext(ctx).Where("goal_id = ? AND id = ?", goalID, itemID).
		Delete(&model.ChecklistItem{}).Error; err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	return nil
}

// CountByStatusBetween counts the user's goals that entered the given status
// inside [from, to). Goals carry no dedicated status timestamp, so the row's
// update time stands in for when the status was set.
func (r *GoalRepository) CountByStatusBetween(ctx context.Context, userID uint, status string, from, to time.Time) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Goal{}).
		Where("user_id = ? AND status = ? AND updated_at >= ? AND updated_at < ?", userID, status, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_index ASC, id ASC")
}
