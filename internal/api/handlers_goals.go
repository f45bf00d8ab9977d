package api

import (
	"net/http"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/service"
)

type goalRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	TargetDate  *time.Time `json:"target_date"`
}

// goalResponse decorates the stored goal with its derived checklist progress.
type goalResponse struct {
	model.Goal
	Progress int `json:"progress"`
}

func newGoalResponse(goal *model.Goal) goalResponse {
	return goalResponse{Goal: *goal, Progress: service.ChecklistProgress(goal.Items)}
}

type statusRequest struct {
	Status string `json:"status"`
}

type itemRequest struct {
	Title string `json:"title"`
}

func (a *API) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := a.goals.ListGoals(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}

	resp := make([]goalResponse, 0, len(goals))
	for i := range goals {
		resp = append(resp, newGoalResponse(&goals[i]))
	}
	a.respondWithJSON(w, http.StatusOK, resp)
}

func (a *API) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	goal, err := a.goals.CreateGoal(r.Context(), currentUser(r), service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusCreated, newGoalResponse(goal))
}

func (a *API) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "goalId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	goal, err := a.goals.GetGoal(r.Context(), currentUser(r), goalID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newGoalResponse(goal))
}

func (a *API) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "goalId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req goalRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	goal, err := a.goals.UpdateGoal(r.Context(), currentUser(r), goalID, service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newGoalResponse(goal))
}

func (a *API) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "goalId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	if err := a.goals.DeleteGoal(r.Context(), currentUser(r), goalID); err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handleGoalStatus(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "goalId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req statusRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	goal, err := a.goals.SetStatus(r.Context(), currentUser(r), goalID, req.Status)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newGoalResponse(goal))
}

func (a *API) handleAddGoalItem(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "goalId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req itemRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	goal, err := a.goals.AddItem(r.Context(), currentUser(r), goalID, req.Title)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusCreated, newGoalResponse(goal))
}

func (a *API) handleToggleGoalItem(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "goalId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	itemID, err := idParam(r, "itemId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	goal, err := a.goals.ToggleItem(r.Context(), currentUser(r), goalID, itemID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newGoalResponse(goal))
}

func (a *API) handleRemoveGoalItem(w http.ResponseWriter, r *http.Request) {
	goalID, err := idParam(r, "goalId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	itemID, err := idParam(r, "itemId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	goal, err := a.goals.RemoveItem(r.Context(), currentUser(r), goalID, itemID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newGoalResponse(goal))
}
