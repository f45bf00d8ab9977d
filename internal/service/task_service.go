package service

import (
	"context"
	"fmt"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// Default XP rewards per priority, applied when the input leaves XPReward at 0.
var priorityXP = map[string]int{
	model.PriorityLow:    5,
	model.PriorityMedium: 10,
	model.PriorityHigh:   15,
}

// TaskInput represents data required to create or update a task.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	XPReward    int
	Deadline    *time.Time
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	progress *ProgressService
}

func NewTaskService(taskRepo *repository.TaskRepository, progress *ProgressService) *TaskService {
	return &TaskService{taskRepo: taskRepo, progress: progress}
}

func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	if err := validateTaskInput(&input); err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:      user.ID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		XPReward:    input.XPReward,
		Deadline:    input.Deadline,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, user *model.User, taskID uint, input TaskInput) (*model.Task, error) {
	if err := validateTaskInput(&input); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Category = input.Category
	task.Priority = input.Priority
	task.XPReward = input.XPReward
	task.Deadline = input.Deadline

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, user.ID)
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

// CompleteTask marks a task as done and awards its XP. Completing a task that
// is already completed is a no-op, so the reward is only paid once.
func (s *TaskService) CompleteTask(ctx context.Context, user *model.User, taskID uint, completedAt time.Time) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}

	if task.IsCompleted {
		return task, nil
	}

	task.IsCompleted = true
	task.CompletedAt = &completedAt
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	user.TasksCompleted++
	if err := s.progress.Award(ctx, user, task.XPReward); err != nil {
		return nil, err
	}
	return task, nil
}

// ReopenTask reverts a completion, taking back the awarded XP.
func (s *TaskService) ReopenTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsCompleted {
		return task, nil
	}

	task.IsCompleted = false
	task.CompletedAt = nil
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	if user.TasksCompleted > 0 {
		user.TasksCompleted--
	}
	if err := s.progress.Award(ctx, user, -task.XPReward); err != nil {
		return nil, err
	}
	return task, nil
}

// ReorderTasks stores the manual order given as a full list of task ids.
func (s *TaskService) ReorderTasks(ctx context.Context, user *model.User, ids []uint) error {
	for i, id := range ids {
		if err := s.taskRepo.SetSortIndex(ctx, user.ID, id, i); err != nil {
			return err
		}
	}
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}

func validateTaskInput(input *TaskInput) error {
	if input.Title == "" {
		return fmt.Errorf("title is required")
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	reward, ok := priorityXP[input.Priority]
	if !ok {
		return fmt.Errorf("invalid priority %q", input.Priority)
	}
	if input.XPReward < 0 {
		return fmt.Errorf("xp reward must not be negative")
	}
	if input.XPReward == 0 {
		input.XPReward = reward
	}
	return nil
}
