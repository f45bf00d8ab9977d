package service

import (
	"context"
	"fmt"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// Fixed XP table per difficulty.
var difficultyXP = map[string]int{
	model.DifficultyEasy:   5,
	model.DifficultyMedium: 10,
	model.DifficultyHard:   20,
}

// HabitInput represents data required to create or update a habit.
type HabitInput struct {
	Title      string
	Category   string
	Frequency  string
	Difficulty string
}

// HabitService wraps habit tracking and streak bookkeeping.
type HabitService struct {
	habitRepo *repository.HabitRepository
	progress  *ProgressService
}

func NewHabitService(habitRepo *repository.HabitRepository, progress *ProgressService) *HabitService {
	return &HabitService{habitRepo: habitRepo, progress: progress}
}

func (s *HabitService) CreateHabit(ctx context.Context, user *model.User, input HabitInput) (*model.Habit, error) {
	if err := validateHabitInput(&input); err != nil {
		return nil, err
	}

	habit := model.Habit{
		UserID:     user.ID,
		Title:      input.Title,
		Category:   input.Category,
		Frequency:  input.Frequency,
		Difficulty: input.Difficulty,
		IsActive:   true,
	}

	if err := s.habitRepo.Create(ctx, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

func (s *HabitService) UpdateHabit(ctx context.Context, user *model.User, habitID uint, input HabitInput) (*model.Habit, error) {
	if err := validateHabitInput(&input); err != nil {
		return nil, err
	}

	habit, err := s.habitRepo.FindByID(ctx, user.ID, habitID)
	if err != nil {
		return nil, err
	}

	habit.Title = input.Title
	habit.Category = input.Category
	habit.Frequency = input.Frequency
	habit.Difficulty = input.Difficulty

	if err := s.habitRepo.Save(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) ListHabits(ctx context.Context, user *model.User) ([]model.Habit, error) {
	return s.habitRepo.ListByUser(ctx, user.ID)
}

func (s *HabitService) GetHabit(ctx context.Context, user *model.User, habitID uint) (*model.Habit, error) {
	return s.habitRepo.FindByID(ctx, user.ID, habitID)
}

// CompletionDates returns every marked day of the habit in YYYY-MM-DD form.
func (s *HabitService) CompletionDates(ctx context.Context, user *model.User, habitID uint) ([]string, error) {
	habit, err := s.habitRepo.FindByID(ctx, user.ID, habitID)
	if err != nil {
		return nil, err
	}
	return s.habitRepo.CompletionDates(ctx, habit.ID)
}

// ToggleCompletion marks or unmarks the given calendar day and recomputes both
// streak counters from the full completion set. Marking awards the habit's XP,
// unmarking takes it back.
func (s *HabitService) ToggleCompletion(ctx context.Context, user *model.User, habitID uint, date string, today time.Time) (*model.Habit, error) {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if parsed.After(today) {
		return nil, fmt.Errorf("cannot mark a future date")
	}

	habit, err := s.habitRepo.FindByID(ctx, user.ID, habitID)
	if err != nil {
		return nil, err
	}

	marked, err := s.habitRepo.HasCompletion(ctx, habit.ID, date)
	if err != nil {
		return nil, err
	}

	if marked {
		if err := s.habitRepo.RemoveCompletion(ctx, habit.ID, date); err != nil {
			return nil, err
		}
	} else {
		if err := s.habitRepo.AddCompletion(ctx, habit, date); err != nil {
			return nil, err
		}
	}

	dates, err := s.habitRepo.CompletionDates(ctx, habit.ID)
	if err != nil {
		return nil, err
	}
	habit.CurrentStreak = CurrentStreak(dates, today)
	habit.LongestStreak = LongestStreak(dates)
	if err := s.habitRepo.Save(ctx, habit); err != nil {
		return nil, err
	}

	delta := difficultyXP[habit.Difficulty]
	if marked {
		delta = -delta
	}
	if err := s.progress.Award(ctx, user, delta); err != nil {
		return nil, err
	}
	return habit, nil
}

// ArchiveHabit deactivates the habit without touching its history.
func (s *HabitService) ArchiveHabit(ctx context.Context, user *model.User, habitID uint) (*model.Habit, error) {
	return s.setActive(ctx, user, habitID, false)
}

// RestoreHabit reactivates an archived habit.
func (s *HabitService) RestoreHabit(ctx context.Context, user *model.User, habitID uint) (*model.Habit, error) {
	return s.setActive(ctx, user, habitID, true)
}

func (s *HabitService) setActive(ctx context.Context, user *model.User, habitID uint, active bool) (*model.Habit, error) {
	habit, err := s.habitRepo.FindByID(ctx, user.ID, habitID)
	if err != nil {
		return nil, err
	}
	if habit.IsActive == active {
		return habit, nil
	}
	habit.IsActive = active
	if err := s.habitRepo.Save(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// ReorderHabits stores the manual order given as a full list of habit ids.
func (s *HabitService) ReorderHabits(ctx context.Context, user *model.User, ids []uint) error {
	for i, id := range ids {
		if err := s.habitRepo.SetSortIndex(ctx, user.ID, id, i); err != nil {
			return err
		}
	}
	return nil
}

func (s *HabitService) DeleteHabit(ctx context.Context, user *model.User, habitID uint) error {
	return s.habitRepo.Delete(ctx, user.ID, habitID)
}

func validateHabitInput(input *HabitInput) error {
	if input.Title == "" {
		return fmt.Errorf("title is required")
	}
	if input.Frequency == "" {
		input.Frequency = model.FrequencyDaily
	}
	if input.Frequency != model.FrequencyDaily && input.Frequency != model.FrequencyWeekly {
		return fmt.Errorf("invalid frequency %q", input.Frequency)
	}
	if input.Difficulty == "" {
		input.Difficulty = model.DifficultyMedium
	}
	if _, ok := difficultyXP[input.Difficulty]; !ok {
		return fmt.Errorf("invalid difficulty %q", input.Difficulty)
	}
	return nil
}
