package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"habitflow/internal/model"
)

// PlanRepository handles CRUD for plans and their checklist items.
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.Plan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) ListByUser(ctx context.Context, userID uint) ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.WithContext(ctx).Preload("Items", itemOrder).
		Where("user_id = ?", userID).
		Order("start_date NULLS LAST, created_at ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) FindByID(ctx context.Context, userID, planID uint) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).Preload("Items", itemOrder).
		Where("user_id = ? AND id = ?", userID, planID).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) Save(ctx context.Context, plan *model.Plan) error {
	if err := r.db.WithContext(ctx).Omit("Items").Save(plan).Error; err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, userID, planID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("plan_id = ?", planID).Delete(&model.ChecklistItem{}).Error; err != nil {
		return fmt.Errorf("delete plan items: %w", err)
	}
	if err := db.Where("user_id = ? AND id = ?", userID, planID).Delete(&model.Plan{}).Error; err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) AddItem(ctx context.Context, item *model.ChecklistItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("add checklist item: %w", err)
	}
	return nil
}

func (r *PlanRepository) FindItem(ctx context.Context, planID, itemID uint) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	if err := r.db.WithContext(ctx).Where("plan_id = ? AND id = ?", planID, itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PlanRepository) SaveItem(ctx context.Context, item *model.ChecklistItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("save checklist item: %w", err)
	}
	return nil
}

func (r *PlanRepository) DeleteItem(ctx context.Context, planID, itemID uint) error {
	if err := r.db.WithContext(ctx).Where("plan_id = ? AND id = ?", planID, itemID).
		Delete(&model.ChecklistItem{}).Error; err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	return nil
}
