package service

import (
	"context"
	"log"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// ProgressSnapshot is the counter set achievement predicates run against.
type ProgressSnapshot struct {
	XP             int
	Level          int
	TasksCompleted int
	FocusMinutes   int
	BestStreak     int
}

// AchievementDef is one entry of the static catalog.
type AchievementDef struct {
	Code        string                        `json:"code"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Icon        string                        `json:"icon"`
	Unlocks     func(s ProgressSnapshot) bool `json:"-"`
}

// Catalog is the fixed achievement list. Entries are never removed; unlocked
// rows reference them by code.
var Catalog = []AchievementDef{
	{Code: "first_task", Name: "Getting Started", Description: "Complete your first task", Icon: "✅",
		Unlocks: func(s ProgressSnapshot) bool { return s.TasksCompleted >= 1 }},
	{Code: "task_10", Name: "Checklist Regular", Description: "Complete 10 tasks", Icon: "📋",
		Unlocks: func(s ProgressSnapshot) bool { return s.TasksCompleted >= 10 }},
	{Code: "task_100", Name: "Centurion", Description: "Complete 100 tasks", Icon: "🏛",
		Unlocks: func(s ProgressSnapshot) bool { return s.TasksCompleted >= 100 }},
	{Code: "streak_3", Name: "On Fire!", Description: "Reach a 3-day habit streak", Icon: "🔥",
		Unlocks: func(s ProgressSnapshot) bool { return s.BestStreak >= 3 }},
	{Code: "streak_7", Name: "Week Warrior", Description: "Reach a 7-day habit streak", Icon: "⚡",
		Unlocks: func(s ProgressSnapshot) bool { return s.BestStreak >= 7 }},
	{Code: "streak_30", Name: "Monthly Master", Description: "Reach a 30-day habit streak", Icon: "💪",
		Unlocks: func(s ProgressSnapshot) bool { return s.BestStreak >= 30 }},
	{Code: "focus_60", Name: "Deep Hour", Description: "Log 60 focus minutes", Icon: "⏱",
		Unlocks: func(s ProgressSnapshot) bool { return s.FocusMinutes >= 60 }},
	{Code: "focus_600", Name: "Flow State", Description: "Log 600 focus minutes", Icon: "🧘",
		Unlocks: func(s ProgressSnapshot) bool { return s.FocusMinutes >= 600 }},
	{Code: "level_5", Name: "Climber", Description: "Reach level 5", Icon: "⛰",
		Unlocks: func(s ProgressSnapshot) bool { return s.Level >= 5 }},
	{Code: "level_10", Name: "Veteran", Description: "Reach level 10", Icon: "🏆",
		Unlocks: func(s ProgressSnapshot) bool { return s.Level >= 10 }},
}

// AchievementService evaluates the catalog against user counters and records
// unlocks. An unlocked achievement is never re-locked.
type AchievementService struct {
	repo      *repository.AchievementRepository
	habitRepo *repository.HabitRepository
	events    EventPublisher
}

func NewAchievementService(repo *repository.AchievementRepository, habitRepo *repository.HabitRepository, events EventPublisher) *AchievementService {
	return &AchievementService{repo: repo, habitRepo: habitRepo, events: events}
}

// Evaluate checks every catalog entry against the user's current counters and
// unlocks the ones whose predicate holds.
func (s *AchievementService) Evaluate(ctx context.Context, user *model.User) error {
	snapshot := ProgressSnapshot{
		XP:             user.XP,
		Level:          user.Level,
		TasksCompleted: user.TasksCompleted,
		FocusMinutes:   user.FocusMinutes,
	}

	habits, err := s.habitRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, habit := range habits {
		if habit.LongestStreak > snapshot.BestStreak {
			snapshot.BestStreak = habit.LongestStreak
		}
	}

	now := time.Now()
	for _, def := range Catalog {
		if !def.Unlocks(snapshot) {
			continue
		}
		created, err := s.repo.Unlock(ctx, user.ID, def.Code, now)
		if err != nil {
			return err
		}
		if created {
			log.Printf("[info] achievement unlocked user=%d code=%s", user.ID, def.Code)
			if s.events != nil {
				s.events.Publish(user.ID, "achievement.unlocked", def)
			}
		}
	}
	return nil
}

// ListWithState returns the full catalog annotated with the user's unlocks.
func (s *AchievementService) ListWithState(ctx context.Context, user *model.User) ([]AchievementState, error) {
	unlocked, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]time.Time, len(unlocked))
	for _, row := range unlocked {
		byCode[row.Code] = row.UnlockedAt
	}

	states := make([]AchievementState, 0, len(Catalog))
	for _, def := range Catalog {
		state := AchievementState{AchievementDef: def}
		if at, ok := byCode[def.Code]; ok {
			state.Unlocked = true
			state.UnlockedAt = &at
		}
		states = append(states, state)
	}
	return states, nil
}

// AchievementState is a catalog entry plus the user's unlock status.
type AchievementState struct {
	AchievementDef
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
