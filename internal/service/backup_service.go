package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// SnapshotVersion is a literal tag written into every export. Imports of any
// other value are rejected.
const SnapshotVersion = "1"

// SnapshotProfile carries the gamified counters alongside the entity lists.
type SnapshotProfile struct {
	Name           string `json:"name"`
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	TasksCompleted int    `json:"tasks_completed"`
	FocusMinutes   int    `json:"focus_minutes"`
}

// Snapshot is the full JSON backup of one user's store. The cloud sync
// service uploads and restores the exact same shape.
type Snapshot struct {
	Version          string                  `json:"version"`
	ExportID         string                  `json:"export_id"`
	ExportedAt       time.Time               `json:"exported_at"`
	Profile          SnapshotProfile         `json:"profile"`
	Tasks            []model.Task            `json:"tasks"`
	Habits           []model.Habit           `json:"habits"`
	HabitCompletions []model.HabitCompletion `json:"habit_completions"`
	Goals            []model.Goal            `json:"goals"`
	Plans            []model.Plan            `json:"plans"`
	FocusSessions    []model.FocusSession    `json:"focus_sessions"`
	Achievements     []model.UserAchievement `json:"achievements"`
	Settings         *model.Settings         `json:"settings,omitempty"`
}

// BackupService builds and restores full-store snapshots. Restore replaces
// the user's rows inside one transaction, so a malformed import leaves the
// store untouched.
type BackupService struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	taskRepo     *repository.TaskRepository
	habitRepo    *repository.HabitRepository
	goalRepo     *repository.GoalRepository
	planRepo     *repository.PlanRepository
	focusRepo    *repository.FocusRepository
	achieveRepo  *repository.AchievementRepository
	settingsRepo *repository.SettingsRepository
}

func NewBackupService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	taskRepo *repository.TaskRepository,
	habitRepo *repository.HabitRepository,
	goalRepo *repository.GoalRepository,
	planRepo *repository.PlanRepository,
	focusRepo *repository.FocusRepository,
	achieveRepo *repository.AchievementRepository,
	settingsRepo *repository.SettingsRepository,
) *BackupService {
	return &BackupService{
		db:           db,
		userRepo:     userRepo,
		taskRepo:     taskRepo,
		habitRepo:    habitRepo,
		goalRepo:     goalRepo,
		planRepo:     planRepo,
		focusRepo:    focusRepo,
		achieveRepo:  achieveRepo,
		settingsRepo: settingsRepo,
	}
}

// Export collects the user's whole store into one snapshot.
func (s *BackupService) Export(ctx context.Context, user *model.User) (*Snapshot, error) {
	snapshot := Snapshot{
		Version:    SnapshotVersion,
		ExportID:   uuid.NewString(),
		ExportedAt: time.Now(),
		Profile: SnapshotProfile{
			Name:           user.Name,
			XP:             user.XP,
			Level:          user.Level,
			TasksCompleted: user.TasksCompleted,
			FocusMinutes:   user.FocusMinutes,
		},
	}

	var err error
	if snapshot.Tasks, err = s.taskRepo.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export tasks: %w", err)
	}
	if snapshot.Habits, err = s.habitRepo.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export habits: %w", err)
	}
	for _, habit := range snapshot.Habits {
		dates, err := s.habitRepo.CompletionDates(ctx, habit.ID)
		if err != nil {
			return nil, fmt.Errorf("export habit completions: %w", err)
		}
		for _, date := range dates {
			snapshot.HabitCompletions = append(snapshot.HabitCompletions, model.HabitCompletion{
				HabitID: habit.ID,
				UserID:  user.ID,
				Date:    date,
			})
		}
	}
	if snapshot.Goals, err = s.goalRepo.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export goals: %w", err)
	}
	if snapshot.Plans, err = s.planRepo.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export plans: %w", err)
	}
	if snapshot.FocusSessions, err = s.focusRepo.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export focus sessions: %w", err)
	}
	if snapshot.Achievements, err = s.achieveRepo.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export achievements: %w", err)
	}
	if snapshot.Settings, err = s.settingsRepo.GetOrCreate(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("export settings: %w", err)
	}

	return &snapshot, nil
}

// ImportRaw parses and shape-checks a JSON snapshot before restoring it.
func (s *BackupService) ImportRaw(ctx context.Context, user *model.User, raw []byte) error {
	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	return s.Import(ctx, user, &snapshot)
}

// Import replaces the user's store with the snapshot contents. Primary keys
// are reassigned; foreign references inside the snapshot are remapped, and a
// focus session pointing at an unknown task keeps no link.
func (s *BackupService) Import(ctx context.Context, user *model.User, snapshot *Snapshot) error {
	if snapshot.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %q", snapshot.Version)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Checklist items carry no user id; clear them through their parents
		// before the parents go.
		if err := tx.Where("goal_id IN (?)", tx.Model(&model.Goal{}).Select("id").Where("user_id = ?", user.ID)).
			Delete(&model.ChecklistItem{}).Error; err != nil {
			return fmt.Errorf("clear goal items: %w", err)
		}
		if err := tx.Where("plan_id IN (?)", tx.Model(&model.Plan{}).Select("id").Where("user_id = ?", user.ID)).
			Delete(&model.ChecklistItem{}).Error; err != nil {
			return fmt.Errorf("clear plan items: %w", err)
		}
		for _, entity := range []any{
			&model.HabitCompletion{}, &model.Habit{}, &model.Task{},
			&model.Goal{}, &model.Plan{},
			&model.FocusSession{}, &model.UserAchievement{}, &model.Settings{},
		} {
			if err := tx.Where("user_id = ?", user.ID).Delete(entity).Error; err != nil {
				return fmt.Errorf("clear store: %w", err)
			}
		}

		taskIDs := make(map[uint]uint, len(snapshot.Tasks))
		for _, task := range snapshot.Tasks {
			oldID := task.ID
			task.ID = 0
			task.UserID = user.ID
			if err := tx.Create(&task).Error; err != nil {
				return fmt.Errorf("restore task: %w", err)
			}
			taskIDs[oldID] = task.ID
		}

		habitIDs := make(map[uint]uint, len(snapshot.Habits))
		for _, habit := range snapshot.Habits {
			oldID := habit.ID
			habit.ID = 0
			habit.UserID = user.ID
			if err := tx.Create(&habit).Error; err != nil {
				return fmt.Errorf("restore habit: %w", err)
			}
			habitIDs[oldID] = habit.ID
		}
		for _, completion := range snapshot.HabitCompletions {
			newHabitID, ok := habitIDs[completion.HabitID]
			if !ok {
				continue
			}
			completion.ID = 0
			completion.HabitID = newHabitID
			completion.UserID = user.ID
			if err := tx.Create(&completion).Error; err != nil {
				return fmt.Errorf("restore habit completion: %w", err)
			}
		}

		for _, goal := range snapshot.Goals {
			items := goal.Items
			goal.ID = 0
			goal.UserID = user.ID
			goal.Items = nil
			if err := tx.Create(&goal).Error; err != nil {
				return fmt.Errorf("restore goal: %w", err)
			}
			for _, item := range items {
				item.ID = 0
				item.GoalID = &goal.ID
				item.PlanID = nil
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("restore goal item: %w", err)
				}
			}
		}

		for _, plan := range snapshot.Plans {
			items := plan.Items
			plan.ID = 0
			plan.UserID = user.ID
			plan.Items = nil
			if err := tx.Create(&plan).Error; err != nil {
				return fmt.Errorf("restore plan: %w", err)
			}
			for _, item := range items {
				item.ID = 0
				item.PlanID = &plan.ID
				item.GoalID = nil
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("restore plan item: %w", err)
				}
			}
		}

		for _, session := range snapshot.FocusSessions {
			session.ID = 0
			session.UserID = user.ID
			if session.TaskID != nil {
				if newID, ok := taskIDs[*session.TaskID]; ok {
					session.TaskID = &newID
				} else {
					session.TaskID = nil
				}
			}
			if err := tx.Create(&session).Error; err != nil {
				return fmt.Errorf("restore focus session: %w", err)
			}
		}

		for _, achievement := range snapshot.Achievements {
			achievement.ID = 0
			achievement.UserID = user.ID
			if err := tx.Create(&achievement).Error; err != nil {
				return fmt.Errorf("restore achievement: %w", err)
			}
		}

		if snapshot.Settings != nil {
			settings := *snapshot.Settings
			settings.ID = 0
			settings.UserID = user.ID
			if err := tx.Create(&settings).Error; err != nil {
				return fmt.Errorf("restore settings: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	user.Name = snapshot.Profile.Name
	user.XP = snapshot.Profile.XP
	user.Level = LevelForXP(snapshot.Profile.XP)
	user.TasksCompleted = snapshot.Profile.TasksCompleted
	user.FocusMinutes = snapshot.Profile.FocusMinutes
	return s.userRepo.SaveProgress(ctx, user)
}
