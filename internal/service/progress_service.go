package service

import (
	"context"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// XP needed per level. Level N covers the points range [(N-1)*100, N*100).
const xpPerLevel = 100

// LevelForXP derives the level from a cumulative point total.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/xpPerLevel + 1
}

// XPToNextLevel returns how many points are missing until the next level
// boundary. Invariant: xp + XPToNextLevel(xp) == LevelForXP(xp) * 100.
func XPToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return LevelForXP(xp)*xpPerLevel - xp
}

// ProgressSummary is the derived view of a user's gamified progress.
type ProgressSummary struct {
	Level          int `json:"level"`
	XP             int `json:"xp"`
	XPToNextLevel  int `json:"xp_to_next_level"`
	TasksCompleted int `json:"tasks_completed"`
	FocusMinutes   int `json:"focus_minutes"`
}

// ProgressService is the single entry point for XP movement. Every mutation
// that awards or revokes points goes through Award so the stored level never
// drifts from the point total.
type ProgressService struct {
	userRepo     *repository.UserRepository
	achievements *AchievementService
}

func NewProgressService(userRepo *repository.UserRepository, achievements *AchievementService) *ProgressService {
	return &ProgressService{userRepo: userRepo, achievements: achievements}
}

// Award moves the XP balance by delta (negative when a completion is undone),
// recomputes the level and persists the counters already bumped on user.
// Positive awards re-evaluate the achievement catalog.
func (s *ProgressService) Award(ctx context.Context, user *model.User, delta int) error {
	user.XP += delta
	if user.XP < 0 {
		user.XP = 0
	}
	user.Level = LevelForXP(user.XP)

	if err := s.userRepo.SaveProgress(ctx, user); err != nil {
		return err
	}

	if delta > 0 && s.achievements != nil {
		return s.achievements.Evaluate(ctx, user)
	}
	return nil
}

func (s *ProgressService) Summary(user *model.User) ProgressSummary {
	return ProgressSummary{
		Level:          LevelForXP(user.XP),
		XP:             user.XP,
		XPToNextLevel:  XPToNextLevel(user.XP),
		TasksCompleted: user.TasksCompleted,
		FocusMinutes:   user.FocusMinutes,
	}
}
