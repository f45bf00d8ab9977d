package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habitflow/internal/api"
	"habitflow/internal/config"
	"habitflow/internal/notify"
	"habitflow/internal/repository"
	"habitflow/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	planRepo := repository.NewPlanRepository(db)
	focusRepo := repository.NewFocusRepository(db)
	achieveRepo := repository.NewAchievementRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	hub := api.NewHub()

	achievementSvc := service.NewAchievementService(achieveRepo, habitRepo, hub)
	progressSvc := service.NewProgressService(userRepo, achievementSvc)
	taskSvc := service.NewTaskService(taskRepo, progressSvc)
	habitSvc := service.NewHabitService(habitRepo, progressSvc)
	goalSvc := service.NewGoalService(goalRepo)
	planSvc := service.NewPlanService(planRepo)
	focusSvc := service.NewFocusService(focusRepo, progressSvc)
	statsSvc := service.NewStatsService(taskRepo, habitRepo, focusRepo, goalRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	backupSvc := service.NewBackupService(db, userRepo, taskRepo, habitRepo, goalRepo, planRepo, focusRepo, achieveRepo, settingsRepo)
	coachClient := service.NewCoachClient(cfg.CoachURL, cfg.CoachAPIKey)

	var gateway service.Purchaser
	if cfg.PaymentURL != "" {
		gateway = service.NewPaymentGateway(cfg.PaymentURL)
	}
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, gateway, hub)

	var syncClient service.SyncClient
	if cfg.SyncURL != "" {
		syncClient = service.NewHTTPSyncClient(cfg.SyncURL, cfg.SyncToken)
	}
	syncSvc := service.NewSyncService(backupSvc, syncClient)

	var notifier service.Notifier
	var telegram *notify.TelegramNotifier
	if cfg.TelegramToken != "" {
		telegram, err = notify.NewTelegramNotifier(cfg.TelegramToken, userRepo)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		notifier = telegram
	}

	reminderSvc := service.NewReminderService(userRepo, taskRepo, habitRepo, settingsRepo, notifier, hub, cfg.ReminderLookahead)

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.New(api.Deps{
			Auth:          authSvc,
			Users:         userRepo,
			Tasks:         taskSvc,
			Habits:        habitSvc,
			Goals:         goalSvc,
			Plans:         planSvc,
			Focus:         focusSvc,
			Progress:      progressSvc,
			Achievements:  achievementSvc,
			Stats:         statsSvc,
			Settings:      settingsSvc,
			Backup:        backupSvc,
			Sync:          syncSvc,
			Subscriptions: subscriptionSvc,
			Coach:         coachClient,
			Reminders:     reminderSvc,
			Hub:           hub,
		}).Router(cfg.AllowedOrigins),
	}

	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.Every(time.Minute, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := reminderSvc.Scan(jobCtx, time.Now()); err != nil {
			log.Printf("reminder scan: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule reminder scan: %v", err)
	}
	if _, err := scheduler.DailyAt(cfg.DigestTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := reminderSvc.SendDailyDigests(jobCtx, time.Now()); err != nil {
			log.Printf("daily digest: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule daily digest: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if telegram != nil {
		go func() {
			if err := telegram.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("telegram stopped with error: %v", err)
			}
		}()
	}

	go func() {
		log.Printf("[info] listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}
