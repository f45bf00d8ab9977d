package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"habitflow/internal/repository"
	"habitflow/internal/service"
)

// API holds the services the HTTP handlers dispatch into.
type API struct {
	auth          *service.AuthService
	users         *repository.UserRepository
	tasks         *service.TaskService
	habits        *service.HabitService
	goals         *service.GoalService
	plans         *service.PlanService
	focus         *service.FocusService
	progress      *service.ProgressService
	achievements  *service.AchievementService
	stats         *service.StatsService
	settings      *service.SettingsService
	backup        *service.BackupService
	sync          *service.SyncService
	subscriptions *service.SubscriptionService
	coach         *service.CoachClient
	reminders     *service.ReminderService
	hub           *Hub
}

// Deps lists everything the API needs; all fields are required except Sync
// and Coach, which degrade into 502s when their backends are not configured.
type Deps struct {
	Auth          *service.AuthService
	Users         *repository.UserRepository
	Tasks         *service.TaskService
	Habits        *service.HabitService
	Goals         *service.GoalService
	Plans         *service.PlanService
	Focus         *service.FocusService
	Progress      *service.ProgressService
	Achievements  *service.AchievementService
	Stats         *service.StatsService
	Settings      *service.SettingsService
	Backup        *service.BackupService
	Sync          *service.SyncService
	Subscriptions *service.SubscriptionService
	Coach         *service.CoachClient
	Reminders     *service.ReminderService
	Hub           *Hub
}

// New creates the API instance.
func New(deps Deps) *API {
	return &API{
		auth:          deps.Auth,
		users:         deps.Users,
		tasks:         deps.Tasks,
		habits:        deps.Habits,
		goals:         deps.Goals,
		plans:         deps.Plans,
		focus:         deps.Focus,
		progress:      deps.Progress,
		achievements:  deps.Achievements,
		stats:         deps.Stats,
		settings:      deps.Settings,
		backup:        deps.Backup,
		sync:          deps.Sync,
		subscriptions: deps.Subscriptions,
		coach:         deps.Coach,
		reminders:     deps.Reminders,
		hub:           deps.Hub,
	}
}

func (a *API) respondWithError(w http.ResponseWriter, code int, message string) {
	a.respondWithJSON(w, code, map[string]string{"error": message})
}

func (a *API) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError maps the error categories to status codes: missing
// rows become 404, validation failures 400.
func (a *API) respondWithServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		a.respondWithError(w, http.StatusNotFound, "not found")
		return
	}
	a.respondWithError(w, http.StatusBadRequest, err.Error())
}

func (a *API) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// idParam parses a numeric chi route parameter.
func idParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
