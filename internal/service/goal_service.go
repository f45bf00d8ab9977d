package service

import (
	"context"
	"fmt"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// ChecklistProgress derives the 0–100 completion percentage of a checklist.
// An empty checklist counts as 0.
func ChecklistProgress(items []model.ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
	}
	return done * 100 / len(items)
}

// nextSortIndex places a new item after every existing one. Indices are never
// reused, so an item added after a deletion cannot collide with a survivor.
func nextSortIndex(items []model.ChecklistItem) int {
	next := 0
	for _, item := range items {
		if item.SortIndex >= next {
			next = item.SortIndex + 1
		}
	}
	return next
}

func validStatus(status string) bool {
	switch status {
	case model.StatusPlanning, model.StatusActive, model.StatusPaused, model.StatusCompleted:
		return true
	}
	return false
}

// GoalInput represents data required to create or update a goal.
type GoalInput struct {
	Title       string
	Description string
	Category    string
	TargetDate  *time.Time
}

// GoalService wraps goal and checklist logic.
type GoalService struct {
	goalRepo *repository.GoalRepository
}

func NewGoalService(goalRepo *repository.GoalRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo}
}

func (s *GoalService) CreateGoal(ctx context.Context, user *model.User, input GoalInput) (*model.Goal, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	goal := model.Goal{
		UserID:      user.ID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      model.StatusPlanning,
		TargetDate:  input.TargetDate,
	}

	if err := s.goalRepo.Create(ctx, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, user *model.User, goalID uint, input GoalInput) (*model.Goal, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	goal, err := s.goalRepo.FindByID(ctx, user.ID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Title = input.Title
	goal.Description = input.Description
	goal.Category = input.Category
	goal.TargetDate = input.TargetDate

	if err := s.goalRepo.Save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) ListGoals(ctx context.Context, user *model.User) ([]model.Goal, error) {
	return s.goalRepo.ListByUser(ctx, user.ID)
}

func (s *GoalService) GetGoal(ctx context.Context, user *model.User, goalID uint) (*model.Goal, error) {
	return s.goalRepo.FindByID(ctx, user.ID, goalID)
}

func (s *GoalService) SetStatus(ctx context.Context, user *model.User, goalID uint, status string) (*model.Goal, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	goal, err := s.goalRepo.FindByID(ctx, user.ID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Status = status
	if err := s.goalRepo.Save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) AddItem(ctx context.Context, user *model.User, goalID uint, title string) (*model.Goal, error) {
	if title == "" {
		return nil, fmt.Errorf("item title is required")
	}

	goal, err := s.goalRepo.FindByID(ctx, user.ID, goalID)
	if err != nil {
		return nil, err
	}

	item := model.ChecklistItem{
		GoalID:    &goal.ID,
		Title:     title,
		SortIndex: nextSortIndex(goal.Items),
	}
	if err := s.goalRepo.AddItem(ctx, &item); err != nil {
		return nil, err
	}
	return s.goalRepo.FindByID(ctx, user.ID, goalID)
}

func (s *GoalService) ToggleItem(ctx context.Context, user *model.User, goalID, itemID uint) (*model.Goal, error) {
	goal, err := s.goalRepo.FindByID(ctx, user.ID, goalID)
	if err != nil {
		return nil, err
	}

	item, err := s.goalRepo.FindItem(ctx, goal.ID, itemID)
	if err != nil {
		return nil, err
	}

	item.Done = !item.Done
	if err := s.goalRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return s.goalRepo.FindByID(ctx, user.ID, goalID)
}

func (s *GoalService) RemoveItem(ctx context.Context, user *model.User, goalID, itemID uint) (*model.Goal, error) {
	goal, err := s.goalRepo.FindByID(ctx, user.ID, goalID)
	if err != nil {
		return nil, err
	}

	if err := s.goalRepo.DeleteItem(ctx, goal.ID, itemID); err != nil {
		return nil, err
	}
	return s.goalRepo.FindByID(ctx, user.ID, goalID)
}

func (s *GoalService) DeleteGoal(ctx context.Context, user *model.User, goalID uint) error {
	return s.goalRepo.Delete(ctx, user.ID, goalID)
}
