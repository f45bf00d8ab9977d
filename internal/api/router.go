package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Router assembles the HTTP surface.
func (a *API) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	r.Use(corsMiddleware.Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", a.handleSignUp)
		r.Post("/auth/signin", a.handleSignIn)

		r.Group(func(r chi.Router) {
			r.Use(a.requireAuth)

			r.Get("/me", a.handleMe)
			r.Get("/me/progress", a.handleProgress)
			r.Get("/me/achievements", a.handleAchievements)
			r.Get("/me/categories", a.handleCategories)
			r.Get("/me/settings", a.handleGetSettings)
			r.Put("/me/settings", a.handleUpdateSettings)

			r.Get("/stats/overview", a.handleStatsOverview)
			r.Get("/reminders/upcoming", a.handleUpcomingReminders)

			r.Get("/tasks", a.handleListTasks)
			r.Post("/tasks", a.handleCreateTask)
			r.Post("/tasks/reorder", a.handleReorderTasks)
			r.Get("/tasks/{taskId}", a.handleGetTask)
			r.Put("/tasks/{taskId}", a.handleUpdateTask)
			r.Delete("/tasks/{taskId}", a.handleDeleteTask)
			r.Post("/tasks/{taskId}/complete", a.handleCompleteTask)
			r.Post("/tasks/{taskId}/reopen", a.handleReopenTask)

			r.Get("/habits", a.handleListHabits)
			r.Post("/habits", a.handleCreateHabit)
			r.Post("/habits/reorder", a.handleReorderHabits)
			r.Get("/habits/{habitId}", a.handleGetHabit)
			r.Put("/habits/{habitId}", a.handleUpdateHabit)
			r.Delete("/habits/{habitId}", a.handleDeleteHabit)
			r.Get("/habits/{habitId}/completions", a.handleHabitCompletions)
			r.Post("/habits/{habitId}/toggle", a.handleToggleHabit)
			r.Post("/habits/{habitId}/archive", a.handleArchiveHabit)
			r.Post("/habits/{habitId}/restore", a.handleRestoreHabit)

			r.Get("/goals", a.handleListGoals)
			r.Post("/goals", a.handleCreateGoal)
			r.Get("/goals/{goalId}", a.handleGetGoal)
			r.Put("/goals/{goalId}", a.handleUpdateGoal)
			r.Delete("/goals/{goalId}", a.handleDeleteGoal)
			r.Post("/goals/{goalId}/status", a.handleGoalStatus)
			r.Post("/goals/{goalId}/items", a.handleAddGoalItem)
			r.Post("/goals/{goalId}/items/{itemId}/toggle", a.handleToggleGoalItem)
			r.Delete("/goals/{goalId}/items/{itemId}", a.handleRemoveGoalItem)

			r.Get("/plans", a.handleListPlans)
			r.Post("/plans", a.handleCreatePlan)
			r.Get("/plans/{planId}", a.handleGetPlan)
			r.Put("/plans/{planId}", a.handleUpdatePlan)
			r.Delete("/plans/{planId}", a.handleDeletePlan)
			r.Post("/plans/{planId}/status", a.handlePlanStatus)
			r.Post("/plans/{planId}/items", a.handleAddPlanItem)
			r.Post("/plans/{planId}/items/{itemId}/toggle", a.handleTogglePlanItem)
			r.Delete("/plans/{planId}/items/{itemId}", a.handleRemovePlanItem)

			r.Get("/focus", a.handleListFocusSessions)
			r.Post("/focus", a.handleStartFocusSession)
			r.Post("/focus/{sessionId}/complete", a.handleCompleteFocusSession)
			r.Post("/focus/{sessionId}/abandon", a.handleAbandonFocusSession)

			r.Get("/subscription", a.handleSubscriptionStatus)
			r.Post("/subscription/purchase", a.handlePurchase)
			r.Post("/subscription/trial", a.handleStartTrial)

			r.Get("/backup/export", a.handleExport)
			r.Post("/backup/import", a.handleImport)
			r.Post("/sync/connect", a.handleSyncConnect)
			r.Post("/sync/push", a.handleSyncPush)
			r.Post("/sync/restore", a.handleSyncRestore)
			r.Post("/sync/disconnect", a.handleSyncDisconnect)

			r.Post("/coach/chat", a.handleCoachChat)
		})
	})

	r.Get("/ws", a.handleWebSocket)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
