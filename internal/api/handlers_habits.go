package api

import (
	"net/http"
	"time"

	"habitflow/internal/service"
)

type habitRequest struct {
	Title      string `json:"title"`
	Category   string `json:"category"`
	Frequency  string `json:"frequency"`
	Difficulty string `json:"difficulty"`
}

func (req habitRequest) toInput() service.HabitInput {
	return service.HabitInput{
		Title:      req.Title,
		Category:   req.Category,
		Frequency:  req.Frequency,
		Difficulty: req.Difficulty,
	}
}

type toggleHabitRequest struct {
	Date string `json:"date"`
}

func (a *API) handleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := a.habits.ListHabits(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to list habits")
		return
	}
	a.respondWithJSON(w, http.StatusOK, habits)
}

func (a *API) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	habit, err := a.habits.CreateHabit(r.Context(), currentUser(r), req.toInput())
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusCreated, habit)
}

func (a *API) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	habitID, err := idParam(r, "habitId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid habit id")
		return
	}

	habit, err := a.habits.GetHabit(r.Context(), currentUser(r), habitID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, habit)
}

func (a *API) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	habitID, err := idParam(r, "habitId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	var req habitRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	habit, err := a.habits.UpdateHabit(r.Context(), currentUser(r), habitID, req.toInput())
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, habit)
}

func (a *API) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID, err := idParam(r, "habitId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid habit id")
		return
	}

	if err := a.habits.DeleteHabit(r.Context(), currentUser(r), habitID); err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handleHabitCompletions(w http.ResponseWriter, r *http.Request) {
	habitID, err := idParam(r, "habitId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid habit id")
		return
	}

	dates, err := a.habits.CompletionDates(r.Context(), currentUser(r), habitID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string][]string{"dates": dates})
}

// handleToggleHabit marks or unmarks the habit for the given day. An empty
// date means today.
func (a *API) handleToggleHabit(w http.ResponseWriter, r *http.Request) {
	habitID, err := idParam(r, "habitId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	var req toggleHabitRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	now := time.Now()
	if req.Date == "" {
		req.Date = now.Format(service.DateLayout)
	}

	habit, err := a.habits.ToggleCompletion(r.Context(), currentUser(r), habitID, req.Date, now)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, habit)
}

func (a *API) handleArchiveHabit(w http.ResponseWriter, r *http.Request) {
	a.setHabitActive(w, r, false)
}

func (a *API) handleRestoreHabit(w http.ResponseWriter, r *http.Request) {
	a.setHabitActive(w, r, true)
}

func (a *API) setHabitActive(w http.ResponseWriter, r *http.Request, active bool) {
	habitID, err := idParam(r, "habitId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid habit id")
		return
	}

	var habit any
	if active {
		habit, err = a.habits.RestoreHabit(r.Context(), currentUser(r), habitID)
	} else {
		habit, err = a.habits.ArchiveHabit(r.Context(), currentUser(r), habitID)
	}
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, habit)
}

func (a *API) handleReorderHabits(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	if err := a.habits.ReorderHabits(r.Context(), currentUser(r), req.IDs); err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}
