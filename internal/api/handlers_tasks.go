package api

import (
	"net/http"
	"time"

	"habitflow/internal/service"
)

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	XPReward    int        `json:"xp_reward"`
	Deadline    *time.Time `json:"deadline"`
}

func (req taskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		XPReward:    req.XPReward,
		Deadline:    req.Deadline,
	}
}

type reorderRequest struct {
	IDs []uint `json:"ids"`
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.tasks.ListTasks(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	a.respondWithJSON(w, http.StatusOK, tasks)
}

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	task, err := a.tasks.CreateTask(r.Context(), currentUser(r), req.toInput())
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusCreated, task)
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "taskId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := a.tasks.GetTask(r.Context(), currentUser(r), taskID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, task)
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "taskId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	var req taskRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	task, err := a.tasks.UpdateTask(r.Context(), currentUser(r), taskID, req.toInput())
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, task)
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "taskId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := a.tasks.DeleteTask(r.Context(), currentUser(r), taskID); err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "taskId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := a.tasks.CompleteTask(r.Context(), currentUser(r), taskID, time.Now())
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, task)
}

func (a *API) handleReopenTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "taskId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := a.tasks.ReopenTask(r.Context(), currentUser(r), taskID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, task)
}

func (a *API) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	if err := a.tasks.ReorderTasks(r.Context(), currentUser(r), req.IDs); err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}
