package api

import (
	"net/http"
	"time"

	"habitflow/internal/service"
)

type focusRequest struct {
	TaskID          *uint      `json:"task_id"`
	DurationMinutes int        `json:"duration_minutes"`
	StartedAt       *time.Time `json:"started_at"`
}

func (a *API) handleListFocusSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := a.focus.ListSessions(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to list focus sessions")
		return
	}
	a.respondWithJSON(w, http.StatusOK, sessions)
}

func (a *API) handleStartFocusSession(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	session, err := a.focus.StartSession(r.Context(), currentUser(r), service.FocusInput{
		TaskID:          req.TaskID,
		DurationMinutes: req.DurationMinutes,
		StartedAt:       req.StartedAt,
	})
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusCreated, session)
}

func (a *API) handleCompleteFocusSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := idParam(r, "sessionId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := a.focus.CompleteSession(r.Context(), currentUser(r), sessionID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, session)
}

func (a *API) handleAbandonFocusSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := idParam(r, "sessionId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := a.focus.AbandonSession(r.Context(), currentUser(r), sessionID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, session)
}
