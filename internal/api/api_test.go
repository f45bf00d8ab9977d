package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitflow/internal/repository"
	"habitflow/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	planRepo := repository.NewPlanRepository(db)
	focusRepo := repository.NewFocusRepository(db)
	achieveRepo := repository.NewAchievementRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	hub := NewHub()
	achievements := service.NewAchievementService(achieveRepo, habitRepo, hub)
	progress := service.NewProgressService(userRepo, achievements)
	backup := service.NewBackupService(db, userRepo, taskRepo, habitRepo, goalRepo, planRepo, focusRepo, achieveRepo, settingsRepo)

	a := New(Deps{
		Auth:          service.NewAuthService(userRepo, "test-secret", time.Hour),
		Users:         userRepo,
		Tasks:         service.NewTaskService(taskRepo, progress),
		Habits:        service.NewHabitService(habitRepo, progress),
		Goals:         service.NewGoalService(goalRepo),
		Plans:         service.NewPlanService(planRepo),
		Focus:         service.NewFocusService(focusRepo, progress),
		Progress:      progress,
		Achievements:  achievements,
		Stats:         service.NewStatsService(taskRepo, habitRepo, focusRepo, goalRepo),
		Settings:      service.NewSettingsService(settingsRepo),
		Backup:        backup,
		Sync:          service.NewSyncService(backup, nil),
		Subscriptions: service.NewSubscriptionService(subscriptionRepo, nil, hub),
		Coach:         service.NewCoachClient("", ""),
		Reminders:     service.NewReminderService(userRepo, taskRepo, habitRepo, settingsRepo, nil, hub, 24*time.Hour),
		Hub:           hub,
	})

	server := httptest.NewServer(a.Router([]string{"*"}))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func signUp(t *testing.T, server *httptest.Server) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/signup", "", map[string]string{
		"email":    "alex@example.com",
		"password": "long enough pw",
		"name":     "Alex",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &auth)
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/tasks")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/tasks", "not-a-token", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)
	token := signUp(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/tasks", token, map[string]any{
		"title":    "write report",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var task struct {
		ID       uint `json:"id"`
		XPReward int  `json:"xp_reward"`
	}
	decodeBody(t, resp, &task)
	assert.Equal(t, 15, task.XPReward)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/tasks/%d/complete", server.URL, task.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var completed struct {
		IsCompleted bool `json:"is_completed"`
	}
	decodeBody(t, resp, &completed)
	assert.True(t, completed.IsCompleted)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/me/progress", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var progress struct {
		XP             int `json:"xp"`
		Level          int `json:"level"`
		TasksCompleted int `json:"tasks_completed"`
	}
	decodeBody(t, resp, &progress)
	assert.Equal(t, 15, progress.XP)
	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, 1, progress.TasksCompleted)

	// Unknown id maps to 404.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/tasks/9999/complete", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGoalProgressOverHTTP(t *testing.T) {
	server := newTestServer(t)
	token := signUp(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/goals", token, map[string]string{"title": "learn go"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var goal struct {
		ID       uint `json:"id"`
		Progress int  `json:"progress"`
	}
	decodeBody(t, resp, &goal)
	assert.Equal(t, 0, goal.Progress)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/goals/%d/items", server.URL, goal.ID), token, map[string]string{"title": "read the tour"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var withItem struct {
		Items []struct {
			ID uint `json:"id"`
		} `json:"items"`
		Progress int `json:"progress"`
	}
	decodeBody(t, resp, &withItem)
	require.Len(t, withItem.Items, 1)
	assert.Equal(t, 0, withItem.Progress)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/goals/%d/items/%d/toggle", server.URL, goal.ID, withItem.Items[0].ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggled struct {
		Progress int `json:"progress"`
	}
	decodeBody(t, resp, &toggled)
	assert.Equal(t, 100, toggled.Progress)
}

func TestSubscriptionTrialOverHTTP(t *testing.T) {
	server := newTestServer(t)
	token := signUp(t, server)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/subscription", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sub struct {
		IsPro  bool   `json:"is_pro"`
		Status string `json:"status"`
	}
	decodeBody(t, resp, &sub)
	assert.False(t, sub.IsPro)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/subscription/trial", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &sub)
	assert.True(t, sub.IsPro)
	assert.Equal(t, "trialing", sub.Status)

	// Second trial is refused.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/subscription/trial", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatsCustomRangeValidation(t *testing.T) {
	server := newTestServer(t)
	token := signUp(t, server)

	resp := doJSON(t, http.MethodGet,
		server.URL+"/api/v1/stats/overview?range=custom&from=2026-03-10&to=2026-03-01", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A single-day range is the smallest valid one.
	resp = doJSON(t, http.MethodGet,
		server.URL+"/api/v1/stats/overview?range=custom&from=2026-03-10&to=2026-03-10", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnconfiguredBackendsReturnBadGateway(t *testing.T) {
	server := newTestServer(t)
	token := signUp(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/coach/chat", token, map[string]string{"message": "help"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/sync/push", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
