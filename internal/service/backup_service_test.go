package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

type backupFixture struct {
	backup *BackupService
	tasks  *TaskService
	habits *HabitService
	goals  *GoalService
	focus  *FocusService
	users  *repository.UserRepository
}

func newBackupFixture(t *testing.T) (*backupFixture, *model.User) {
	t.Helper()
	db := newTestDB(t)
	user := newTestUser(t, db)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	planRepo := repository.NewPlanRepository(db)
	focusRepo := repository.NewFocusRepository(db)
	achieveRepo := repository.NewAchievementRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	achievements := NewAchievementService(achieveRepo, habitRepo, nil)
	progress := NewProgressService(userRepo, achievements)

	return &backupFixture{
		backup: NewBackupService(db, userRepo, taskRepo, habitRepo, goalRepo, planRepo, focusRepo, achieveRepo, settingsRepo),
		tasks:  NewTaskService(taskRepo, progress),
		habits: NewHabitService(habitRepo, progress),
		goals:  NewGoalService(goalRepo),
		focus:  NewFocusService(focusRepo, progress),
		users:  userRepo,
	}, user
}

func (f *backupFixture) seed(t *testing.T, user *model.User) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	task, err := f.tasks.CreateTask(ctx, user, TaskInput{Title: "write report", Category: "work"})
	require.NoError(t, err)
	_, err = f.tasks.CompleteTask(ctx, user, task.ID, now)
	require.NoError(t, err)

	habit, err := f.habits.CreateHabit(ctx, user, HabitInput{Title: "meditate"})
	require.NoError(t, err)
	_, err = f.habits.ToggleCompletion(ctx, user, habit.ID, now.Format(DateLayout), now)
	require.NoError(t, err)

	goal, err := f.goals.CreateGoal(ctx, user, GoalInput{Title: "learn go"})
	require.NoError(t, err)
	_, err = f.goals.AddItem(ctx, user, goal.ID, "read the tour")
	require.NoError(t, err)

	session, err := f.focus.StartSession(ctx, user, FocusInput{TaskID: &task.ID, DurationMinutes: 25})
	require.NoError(t, err)
	_, err = f.focus.CompleteSession(ctx, user, session.ID)
	require.NoError(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	f, user := newBackupFixture(t)
	f.seed(t, user)

	snapshot, err := f.backup.Export(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snapshot.Version)
	assert.NotEmpty(t, snapshot.ExportID)
	require.Len(t, snapshot.Tasks, 1)
	require.Len(t, snapshot.Habits, 1)
	require.Len(t, snapshot.HabitCompletions, 1)
	require.Len(t, snapshot.Goals, 1)
	require.Len(t, snapshot.FocusSessions, 1)
	assert.Greater(t, snapshot.Profile.XP, 0)

	// The wire form must survive a JSON round trip, sync uploads it as-is.
	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.NoError(t, f.backup.ImportRaw(ctx, user, raw))

	restored, err := f.backup.Export(ctx, user)
	require.NoError(t, err)
	require.Len(t, restored.Tasks, 1)
	assert.Equal(t, "write report", restored.Tasks[0].Title)
	assert.True(t, restored.Tasks[0].IsCompleted)
	require.Len(t, restored.Habits, 1)
	require.Len(t, restored.HabitCompletions, 1)
	require.Len(t, restored.Goals, 1)
	require.Len(t, restored.Goals[0].Items, 1)
	require.Len(t, restored.FocusSessions, 1)
	assert.Equal(t, snapshot.Profile, restored.Profile)

	// The focus session still points at the re-created task.
	require.NotNil(t, restored.FocusSessions[0].TaskID)
	assert.Equal(t, restored.Tasks[0].ID, *restored.FocusSessions[0].TaskID)
}

func TestImportReplacesExistingRows(t *testing.T) {
	ctx := context.Background()
	f, user := newBackupFixture(t)
	f.seed(t, user)

	snapshot, err := f.backup.Export(ctx, user)
	require.NoError(t, err)

	// Extra rows created after the export disappear on import.
	_, err = f.tasks.CreateTask(ctx, user, TaskInput{Title: "later addition"})
	require.NoError(t, err)

	require.NoError(t, f.backup.Import(ctx, user, snapshot))

	tasks, err := f.tasks.ListTasks(ctx, user)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "write report", tasks[0].Title)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	ctx := context.Background()
	f, user := newBackupFixture(t)
	f.seed(t, user)

	err := f.backup.Import(ctx, user, &Snapshot{Version: "99"})
	assert.Error(t, err)

	// The store is untouched after the rejected import.
	tasks, err := f.tasks.ListTasks(ctx, user)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestImportDropsDanglingFocusTaskLink(t *testing.T) {
	ctx := context.Background()
	f, user := newBackupFixture(t)

	unknown := uint(9999)
	err := f.backup.Import(ctx, user, &Snapshot{
		Version: SnapshotVersion,
		FocusSessions: []model.FocusSession{
			{TaskID: &unknown, DurationMinutes: 25, StartedAt: time.Now(), Completed: true},
		},
	})
	require.NoError(t, err)

	sessions, err := f.focus.ListSessions(ctx, user)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Nil(t, sessions[0].TaskID)
}
