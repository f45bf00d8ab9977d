package api

import (
	"net/http"
	"time"

	"habitflow/internal/service"
)

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	a.respondWithJSON(w, http.StatusOK, currentUser(r))
}

func (a *API) handleProgress(w http.ResponseWriter, r *http.Request) {
	a.respondWithJSON(w, http.StatusOK, a.progress.Summary(currentUser(r)))
}

func (a *API) handleAchievements(w http.ResponseWriter, r *http.Request) {
	states, err := a.achievements.ListWithState(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to list achievements")
		return
	}
	a.respondWithJSON(w, http.StatusOK, states)
}

type settingsRequest struct {
	Theme                string   `json:"theme"`
	Language             string   `json:"language"`
	CalendarSystem       string   `json:"calendar_system"`
	NotificationsEnabled *bool    `json:"notifications_enabled"`
	HapticsEnabled       *bool    `json:"haptics_enabled"`
	CustomCategories     []string `json:"custom_categories"`
}

func (a *API) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.settings.Categories(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.settings.Get(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	a.respondWithJSON(w, http.StatusOK, settings)
}

func (a *API) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	settings, err := a.settings.Update(r.Context(), currentUser(r), service.SettingsInput{
		Theme:                req.Theme,
		Language:             req.Language,
		CalendarSystem:       req.CalendarSystem,
		NotificationsEnabled: req.NotificationsEnabled,
		HapticsEnabled:       req.HapticsEnabled,
		CustomCategories:     req.CustomCategories,
	})
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, settings)
}

// handleStatsOverview aggregates activity for ?range=day|week|month|year, or
// for an explicit ?from=YYYY-MM-DD&to=YYYY-MM-DD window with range=custom.
func (a *API) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	statsRange := service.StatsRange(r.URL.Query().Get("range"))
	if statsRange == "" {
		statsRange = service.RangeWeek
	}

	var from, to time.Time
	var err error
	if statsRange == service.RangeCustom {
		from, err = time.Parse(service.DateLayout, r.URL.Query().Get("from"))
		if err != nil {
			a.respondWithError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		to, err = time.Parse(service.DateLayout, r.URL.Query().Get("to"))
		if err != nil {
			a.respondWithError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		// The end day is inclusive on the wire, exclusive internally.
		to = to.AddDate(0, 0, 1)
		if !to.After(from) {
			a.respondWithError(w, http.StatusBadRequest, "from must not be after to")
			return
		}
	} else {
		from, to, err = service.RangeBounds(statsRange, time.Now())
		if err != nil {
			a.respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	overview, err := a.stats.OverviewFor(r.Context(), currentUser(r), from, to)
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to build overview")
		return
	}
	a.respondWithJSON(w, http.StatusOK, overview)
}

func (a *API) handleUpcomingReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := a.reminders.Upcoming(r.Context(), currentUser(r), time.Now())
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to collect reminders")
		return
	}
	a.respondWithJSON(w, http.StatusOK, reminders)
}
