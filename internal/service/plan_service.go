package service

import (
	"context"
	"fmt"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// PlanInput represents data required to create or update a plan.
type PlanInput struct {
	Title       string
	Description string
	Category    string
	StartDate   *time.Time
	EndDate     *time.Time
}

// PlanService wraps scheduled-plan logic. Plans share the checklist progress
// semantics of goals but carry explicit start and end dates.
type PlanService struct {
	planRepo *repository.PlanRepository
}

func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

func (s *PlanService) CreatePlan(ctx context.Context, user *model.User, input PlanInput) (*model.Plan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	plan := model.Plan{
		UserID:      user.ID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      model.StatusPlanning,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if err := s.planRepo.Create(ctx, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *PlanService) UpdatePlan(ctx context.Context, user *model.User, planID uint, input PlanInput) (*model.Plan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByID(ctx, user.ID, planID)
	if err != nil {
		return nil, err
	}

	plan.Title = input.Title
	plan.Description = input.Description
	plan.Category = input.Category
	plan.StartDate = input.StartDate
	plan.EndDate = input.EndDate

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) ListPlans(ctx context.Context, user *model.User) ([]model.Plan, error) {
	return s.planRepo.ListByUser(ctx, user.ID)
}

func (s *PlanService) GetPlan(ctx context.Context, user *model.User, planID uint) (*model.Plan, error) {
	return s.planRepo.FindByID(ctx, user.ID, planID)
}

func (s *PlanService) SetStatus(ctx context.Context, user *model.User, planID uint, status string) (*model.Plan, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	plan, err := s.planRepo.FindByID(ctx, user.ID, planID)
	if err != nil {
		return nil, err
	}

	plan.Status = status
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) AddItem(ctx context.Context, user *model.User, planID uint, title string) (*model.Plan, error) {
	if title == "" {
		return nil, fmt.Errorf("item title is required")
	}

	plan, err := s.planRepo.FindByID(ctx, user.ID, planID)
	if err != nil {
		return nil, err
	}

	item := model.ChecklistItem{
		PlanID:    &plan.ID,
		Title:     title,
		SortIndex: nextSortIndex(plan.Items),
	}
	if err := s.planRepo.AddItem(ctx, &item); err != nil {
		return nil, err
	}
	return s.planRepo.FindByID(ctx, user.ID, planID)
}

func (s *PlanService) ToggleItem(ctx context.Context, user *model.User, planID, itemID uint) (*model.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, user.ID, planID)
	if err != nil {
		return nil, err
	}

	item, err := s.planRepo.FindItem(ctx, plan.ID, itemID)
	if err != nil {
		return nil, err
	}

	item.Done = !item.Done
	if err := s.planRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return s.planRepo.FindByID(ctx, user.ID, planID)
}

func (s *PlanService) RemoveItem(ctx context.Context, user *model.User, planID, itemID uint) (*model.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, user.ID, planID)
	if err != nil {
		return nil, err
	}

	if err := s.planRepo.DeleteItem(ctx, plan.ID, itemID); err != nil {
		return nil, err
	}
	return s.planRepo.FindByID(ctx, user.ID, planID)
}

func (s *PlanService) DeletePlan(ctx context.Context, user *model.User, planID uint) error {
	return s.planRepo.Delete(ctx, user.ID, planID)
}

func validatePlanInput(input PlanInput) error {
	if input.Title == "" {
		return fmt.Errorf("title is required")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return fmt.Errorf("end date must not be before start date")
	}
	return nil
}
