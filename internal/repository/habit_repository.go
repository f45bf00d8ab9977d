package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"habitflow/internal/model"
)

// HabitRepository handles CRUD for habits and their per-day completions.
type HabitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{db: db}
}

func (r *HabitRepository) Create(ctx context.Context, habit *model.Habit) error {
	if err := r.db.WithContext(ctx).Create(habit).Error; err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID uint) ([]model.Habit, error) {
	var habits []model.Habit
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("sort_index ASC, created_at ASC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

func (r *HabitRepository) ListActive(ctx context.Context, userID uint) ([]model.Habit, error) {
	var habits []model.Habit
	if err := r.db.WithContext(ctx).Where("user_id = ? AND is_active = ?", userID, true).
		Order("sort_index ASC, created_at ASC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

func (r *HabitRepository) FindByID(ctx context.Context, userID, habitID uint) (*model.Habit, error) {
	var habit model.Habit
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, habitID).First(&habit).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

func (r *HabitRepository) Save(ctx context.Context, habit *model.Habit) error {
	if err := r.db.WithContext(ctx).Save(habit).Error; err != nil {
		return fmt.Errorf("save habit: %w", err)
	}
	return nil
}

// SetSortIndex updates the manual order position of a single habit.
func (r *HabitRepository) SetSortIndex(ctx context.Context, userID, habitID uint, index int) error {
	if err := r.db.WithContext(ctx).Model(&model.Habit{}).
		Where("user_id = ? AND id = ?", userID, habitID).
		Update("sort_index", index).Error; err != nil {
		return fmt.Errorf("set habit order: %w", err)
	}
	return nil
}

// Delete removes the habit together with its completion rows.
func (r *HabitRepository) Delete(ctx context.Context, userID, habitID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("habit_id = ?", habitID).Delete(&model.HabitCompletion{}).Error; err != nil {
		return fmt.Errorf("delete habit completions: %w", err)
	}
	if err := db.Where("user_id = ? AND id = ?", userID, habitID).Delete(&model.Habit{}).Error; err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// AddCompletion marks the given day done. Adding the same day twice is a no-op.
func (r *HabitRepository) AddCompletion(ctx context.Context, habit *model.Habit, date string) error {
	var existing model.HabitCompletion
	db := r.db.WithContext(ctx)
	err := db.Where("habit_id = ? AND date = ?", habit.ID, date).First(&existing).Error
	switch {
	case err == nil:
		return nil
	case err == gorm.ErrRecordNotFound:
		completion := model.HabitCompletion{HabitID: habit.ID, UserID: habit.UserID, Date: date}
		if err := db.Create(&completion).Error; err != nil {
			return fmt.Errorf("add habit completion: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find habit completion: %w", err)
	}
}

func (r *HabitRepository) RemoveCompletion(ctx context.Context, habitID uint, date string) error {
	if err := r.db.WithContext(ctx).Where("habit_id = ? AND date = ?", habitID, date).
		Delete(&model.HabitCompletion{}).Error; err != nil {
		return fmt.Errorf("remove habit completion: %w", err)
	}
	return nil
}

func (r *HabitRepository) HasCompletion(ctx context.Context, habitID uint, date string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.HabitCompletion{}).
		Where("habit_id = ? AND date = ?", habitID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *HabitRepository) CompletionDates(ctx context.Context, habitID uint) ([]string, error) {
	var dates []string
	if err := r.db.WithContext(ctx).Model(&model.HabitCompletion{}).
		Where("habit_id = ?", habitID).
		Order("date ASC").
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// CountCompletionsBetween counts completion days for the whole user inside
// the inclusive date range [from, to], both in YYYY-MM-DD form.
func (r *HabitRepository) CountCompletionsBetween(ctx context.Context, userID uint, from, to string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.HabitCompletion{}).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
