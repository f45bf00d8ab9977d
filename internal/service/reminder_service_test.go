package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

type reminderFixture struct {
	reminders *ReminderService
	tasks     *TaskService
	habits    *HabitService
	rec       *recorder
}

func newReminderFixture(t *testing.T) (*reminderFixture, *model.User) {
	t.Helper()
	db := newTestDB(t)
	user := newTestUser(t, db)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	achievements := NewAchievementService(repository.NewAchievementRepository(db), habitRepo, nil)
	progress := NewProgressService(userRepo, achievements)
	rec := &recorder{}

	return &reminderFixture{
		reminders: NewReminderService(userRepo, taskRepo, habitRepo, settingsRepo, nil, rec, 24*time.Hour),
		tasks:     NewTaskService(taskRepo, progress),
		habits:    NewHabitService(habitRepo, progress),
		rec:       rec,
	}, user
}

func TestUpcomingReminders(t *testing.T) {
	ctx := context.Background()
	f, user := newReminderFixture(t)
	now := time.Now()

	overdue := now.Add(-2 * time.Hour)
	soon := now.Add(3 * time.Hour)
	farOff := now.Add(72 * time.Hour)

	_, err := f.tasks.CreateTask(ctx, user, TaskInput{Title: "overdue report", Deadline: &overdue})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, user, TaskInput{Title: "due soon", Deadline: &soon})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, user, TaskInput{Title: "far off", Deadline: &farOff})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, user, TaskInput{Title: "no deadline"})
	require.NoError(t, err)

	doneTask, err := f.tasks.CreateTask(ctx, user, TaskInput{Title: "already done", Deadline: &soon})
	require.NoError(t, err)
	_, err = f.tasks.CompleteTask(ctx, user, doneTask.ID, now)
	require.NoError(t, err)

	pending, err := f.habits.CreateHabit(ctx, user, HabitInput{Title: "meditate"})
	require.NoError(t, err)
	doneHabit, err := f.habits.CreateHabit(ctx, user, HabitInput{Title: "stretch"})
	require.NoError(t, err)
	_, err = f.habits.ToggleCompletion(ctx, user, doneHabit.ID, now.Format(DateLayout), now)
	require.NoError(t, err)

	reminders, err := f.reminders.Upcoming(ctx, user, now)
	require.NoError(t, err)
	require.Len(t, reminders, 3)

	// Sorted by due time, the overdue task comes first.
	assert.Equal(t, "overdue report", reminders[0].Title)
	assert.True(t, reminders[0].Overdue)
	assert.Equal(t, "due soon", reminders[1].Title)
	assert.False(t, reminders[1].Overdue)
	assert.Equal(t, ReminderHabit, reminders[2].Kind)
	assert.Equal(t, pending.ID, reminders[2].ID)
}

func TestScanPublishesRemindersEvent(t *testing.T) {
	ctx := context.Background()
	f, user := newReminderFixture(t)
	now := time.Now()

	deadline := now.Add(time.Hour)
	_, err := f.tasks.CreateTask(ctx, user, TaskInput{Title: "due soon", Deadline: &deadline})
	require.NoError(t, err)

	require.NoError(t, f.reminders.Scan(ctx, now))
	require.True(t, f.rec.has("reminders"))
	assert.Equal(t, user.ID, f.rec.events[0].UserID)
}

func TestScanContinuesPastFailingUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	broken := newTestUser(t, db)
	healthy := newTestUser(t, db)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	achievements := NewAchievementService(repository.NewAchievementRepository(db), habitRepo, nil)
	progress := NewProgressService(userRepo, achievements)
	tasks := NewTaskService(taskRepo, progress)
	rec := &recorder{}
	reminders := NewReminderService(userRepo, taskRepo, habitRepo, settingsRepo, nil, rec, 24*time.Hour)

	// An unreadable settings row makes loading this user's preferences fail.
	_, err := settingsRepo.GetOrCreate(ctx, broken.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Settings{}).Where("user_id = ?", broken.ID).
		UpdateColumn("notifications_enabled", "not-a-flag").Error)

	deadline := time.Now().Add(time.Hour)
	_, err = tasks.CreateTask(ctx, healthy, TaskInput{Title: "due soon", Deadline: &deadline})
	require.NoError(t, err)

	require.NoError(t, reminders.Scan(ctx, time.Now()))
	require.Len(t, rec.events, 1)
	assert.Equal(t, healthy.ID, rec.events[0].UserID)
	assert.Equal(t, "reminders", rec.events[0].Type)
}

func TestScanSkipsUsersWithNotificationsOff(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := newTestUser(t, db)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	settingsSvc := NewSettingsService(settingsRepo)

	achievements := NewAchievementService(repository.NewAchievementRepository(db), habitRepo, nil)
	progress := NewProgressService(userRepo, achievements)
	tasks := NewTaskService(taskRepo, progress)

	off := false
	_, err := settingsSvc.Update(ctx, user, SettingsInput{NotificationsEnabled: &off})
	require.NoError(t, err)

	deadline := time.Now().Add(time.Hour)
	_, err = tasks.CreateTask(ctx, user, TaskInput{Title: "due soon", Deadline: &deadline})
	require.NoError(t, err)

	rec := &recorder{}
	reminders := NewReminderService(userRepo, taskRepo, habitRepo, settingsRepo, nil, rec, 24*time.Hour)
	require.NoError(t, reminders.Scan(ctx, time.Now()))
	assert.Empty(t, rec.events)
}

func TestDailyDigestMentionsDueWork(t *testing.T) {
	ctx := context.Background()
	f, user := newReminderFixture(t)
	now := time.Now()

	deadline := now.Add(time.Hour)
	_, err := f.tasks.CreateTask(ctx, user, TaskInput{Title: "write <summary>", Deadline: &deadline})
	require.NoError(t, err)
	_, err = f.habits.CreateHabit(ctx, user, HabitInput{Title: "meditate"})
	require.NoError(t, err)

	text, err := f.reminders.DailyDigest(ctx, user, now)
	require.NoError(t, err)
	assert.Contains(t, text, "Daily digest")
	assert.Contains(t, text, "write &lt;summary&gt;")
	assert.Contains(t, text, "meditate")
	assert.Contains(t, text, "Level 1")
}
