package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"sort"
	"strings"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// Reminder kinds.
const (
	ReminderTask  = "task"
	ReminderHabit = "habit"
)

// Reminder is one upcoming item the user should be nudged about.
type Reminder struct {
	Kind    string    `json:"kind"`
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	Due     time.Time `json:"due"`
	Overdue bool      `json:"overdue"`
}

// ReminderService scans for due work and builds notification texts.
type ReminderService struct {
	userRepo     *repository.UserRepository
	taskRepo     *repository.TaskRepository
	habitRepo    *repository.HabitRepository
	settingsRepo *repository.SettingsRepository
	notifier     Notifier
	events       EventPublisher
	lookahead    time.Duration
}

func NewReminderService(
	userRepo *repository.UserRepository,
	taskRepo *repository.TaskRepository,
	habitRepo *repository.HabitRepository,
	settingsRepo *repository.SettingsRepository,
	notifier Notifier,
	events EventPublisher,
	lookahead time.Duration,
) *ReminderService {
	if lookahead <= 0 {
		lookahead = 24 * time.Hour
	}
	return &ReminderService{
		userRepo:     userRepo,
		taskRepo:     taskRepo,
		habitRepo:    habitRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		events:       events,
		lookahead:    lookahead,
	}
}

// Upcoming lists open tasks due within the lookahead window (overdue ones
// included) and active daily habits not yet done today.
func (s *ReminderService) Upcoming(ctx context.Context, user *model.User, now time.Time) ([]Reminder, error) {
	var reminders []Reminder

	// Zero lower bound keeps arbitrarily old overdue tasks in the list.
	horizon := now.Add(s.lookahead)
	tasks, err := s.taskRepo.ListDueBetween(ctx, user.ID, time.Time{}, horizon)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if task.Deadline == nil {
			continue
		}
		reminders = append(reminders, Reminder{
			Kind:    ReminderTask,
			ID:      task.ID,
			Title:   task.Title,
			Due:     *task.Deadline,
			Overdue: task.Deadline.Before(now),
		})
	}

	today := now.Format(DateLayout)
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	habits, err := s.habitRepo.ListActive(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, habit := range habits {
		if habit.Frequency != model.FrequencyDaily {
			continue
		}
		done, err := s.habitRepo.HasCompletion(ctx, habit.ID, today)
		if err != nil {
			return nil, err
		}
		if done {
			continue
		}
		reminders = append(reminders, Reminder{
			Kind:  ReminderHabit,
			ID:    habit.ID,
			Title: habit.Title,
			Due:   endOfDay,
		})
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].Due.Before(reminders[j].Due)
	})
	return reminders, nil
}

// Scan publishes the current reminder list of every user with notifications
// enabled to the realtime event stream. Runs once per minute.
func (s *ReminderService) Scan(ctx context.Context, now time.Time) error {
	if s.events == nil {
		return nil
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		user := &users[i]
		settings, err := s.settingsRepo.GetOrCreate(ctx, user.ID)
		if err != nil {
			log.Printf("reminder scan for user %d: %v", user.ID, err)
			continue
		}
		if !settings.NotificationsEnabled {
			continue
		}
		reminders, err := s.Upcoming(ctx, user, now)
		if err != nil {
			log.Printf("reminder scan for user %d: %v", user.ID, err)
			continue
		}
		if len(reminders) == 0 {
			continue
		}
		s.events.Publish(user.ID, "reminders", reminders)
	}
	return nil
}

// SendDailyDigests delivers the morning summary to every user with a bound
// Telegram chat and notifications enabled.
func (s *ReminderService) SendDailyDigests(ctx context.Context, now time.Time) error {
	if s.notifier == nil {
		return nil
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		user := &users[i]
		if user.TelegramChatID == 0 {
			continue
		}
		settings, err := s.settingsRepo.GetOrCreate(ctx, user.ID)
		if err != nil {
			log.Printf("digest for user %d: %v", user.ID, err)
			continue
		}
		if !settings.NotificationsEnabled {
			continue
		}

		text, err := s.DailyDigest(ctx, user, now)
		if err != nil {
			log.Printf("digest for user %d: %v", user.ID, err)
			continue
		}
		if err := s.notifier.Notify(ctx, user.TelegramChatID, text); err != nil {
			log.Printf("notify user %d: %v", user.ID, err)
		}
	}
	return nil
}

// DailyDigest renders the summary text for one user.
func (s *ReminderService) DailyDigest(ctx context.Context, user *model.User, now time.Time) (string, error) {
	reminders, err := s.Upcoming(ctx, user, now)
	if err != nil {
		return "", err
	}

	var tasks, habits []Reminder
	for _, reminder := range reminders {
		switch reminder.Kind {
		case ReminderTask:
			tasks = append(tasks, reminder)
		case ReminderHabit:
			habits = append(habits, reminder)
		}
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))

	builder.WriteString("🔥 <b>Tasks due</b>\n")
	if len(tasks) == 0 {
		builder.WriteString("— nothing due today\n")
	} else {
		for _, reminder := range tasks {
			icon := "⏳"
			if reminder.Overdue {
				icon = "⚠️"
			}
			builder.WriteString(fmt.Sprintf("%s %s · until %s\n",
				icon, html.EscapeString(reminder.Title), reminder.Due.Format("2006-01-02")))
		}
	}

	builder.WriteString("\n♻️ <b>Habits waiting</b>\n")
	if len(habits) == 0 {
		builder.WriteString("— all habits done, nice\n")
	} else {
		for _, reminder := range habits {
			builder.WriteString(fmt.Sprintf("▫️ %s\n", html.EscapeString(reminder.Title)))
		}
	}

	builder.WriteString(fmt.Sprintf("\n⭐ Level %d · %d XP · %d to next level",
		LevelForXP(user.XP), user.XP, XPToNextLevel(user.XP)))

	return strings.TrimSpace(builder.String()), nil
}
