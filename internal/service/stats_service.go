package service

import (
	"context"
	"fmt"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// StatsRange selects the window the dashboard aggregates over.
type StatsRange string

const (
	RangeDay    StatsRange = "day"
	RangeWeek   StatsRange = "week"
	RangeMonth  StatsRange = "month"
	RangeYear   StatsRange = "year"
	RangeCustom StatsRange = "custom"
)

// Overview is the aggregate view for one date range. Everything is recomputed
// in full per request; data volumes are bounded by what one user produces.
type Overview struct {
	From             time.Time      `json:"from"`
	To               time.Time      `json:"to"`
	TasksTotal       int            `json:"tasks_total"`
	TasksCompleted   int            `json:"tasks_completed"`
	CompletionRate   float64        `json:"completion_rate"`
	TasksByCategory  map[string]int `json:"tasks_by_category"`
	FocusSessions    int            `json:"focus_sessions"`
	FocusCompleted   int            `json:"focus_completed"`
	FocusMinutes     int            `json:"focus_minutes"`
	HabitCompletions int            `json:"habit_completions"`
	ActiveHabits     int            `json:"active_habits"`
	BestStreak       int            `json:"best_streak"`
	GoalsCompleted   int            `json:"goals_completed"`
}

// StatsService produces the dashboard aggregates.
type StatsService struct {
	taskRepo  *repository.TaskRepository
	habitRepo *repository.HabitRepository
	focusRepo *repository.FocusRepository
	goalRepo  *repository.GoalRepository
}

func NewStatsService(taskRepo *repository.TaskRepository, habitRepo *repository.HabitRepository, focusRepo *repository.FocusRepository, goalRepo *repository.GoalRepository) *StatsService {
	return &StatsService{taskRepo: taskRepo, habitRepo: habitRepo, focusRepo: focusRepo, goalRepo: goalRepo}
}

// RangeBounds resolves a named range to the half-open interval [from, to)
// around now. Weeks start on Monday.
func RangeBounds(r StatsRange, now time.Time) (time.Time, time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch r {
	case RangeDay:
		return midnight, midnight.AddDate(0, 0, 1), nil
	case RangeWeek:
		offset := (int(midnight.Weekday()) + 6) % 7
		start := midnight.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), nil
	case RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), nil
	case RangeYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range %q", r)
	}
}

// OverviewFor aggregates the user's activity inside [from, to).
func (s *StatsService) OverviewFor(ctx context.Context, user *model.User, from, to time.Time) (*Overview, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("empty range")
	}

	overview := Overview{From: from, To: to, TasksByCategory: make(map[string]int)}

	tasks, err := s.taskRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if !taskInRange(task, from, to) {
			continue
		}
		overview.TasksTotal++
		if task.IsCompleted {
			overview.TasksCompleted++
			category := task.Category
			if category == "" {
				category = "uncategorized"
			}
			overview.TasksByCategory[category]++
		}
	}
	if overview.TasksTotal > 0 {
		overview.CompletionRate = float64(overview.TasksCompleted) / float64(overview.TasksTotal)
	}

	sessions, err := s.focusRepo.ListBetween(ctx, user.ID, from, to)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		overview.FocusSessions++
		if session.Completed {
			overview.FocusCompleted++
			overview.FocusMinutes += session.DurationMinutes
		}
	}

	habits, err := s.habitRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, habit := range habits {
		if habit.IsActive {
			overview.ActiveHabits++
		}
		if habit.CurrentStreak > overview.BestStreak {
			overview.BestStreak = habit.CurrentStreak
		}
	}

	// Completion days are stored as date strings; the interval end is
	// exclusive, so step one day back for the string comparison.
	completions, err := s.habitRepo.CountCompletionsBetween(ctx, user.ID,
		from.Format(DateLayout), to.AddDate(0, 0, -1).Format(DateLayout))
	if err != nil {
		return nil, err
	}
	overview.HabitCompletions = completions

	goalsDone, err := s.goalRepo.CountByStatusBetween(ctx, user.ID, model.StatusCompleted, from, to)
	if err != nil {
		return nil, err
	}
	overview.GoalsCompleted = goalsDone

	return &overview, nil
}

// taskInRange places a task on the timeline by its completion time when
// completed, otherwise by its deadline, otherwise by its creation time.
func taskInRange(task model.Task, from, to time.Time) bool {
	at := task.CreatedAt
	switch {
	case task.IsCompleted && task.CompletedAt != nil:
		at = *task.CompletedAt
	case task.Deadline != nil:
		at = *task.Deadline
	}
	return !at.Before(from) && at.Before(to)
}
