package api

import (
	"net/http"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/service"
)

type planRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (req planRequest) toInput() service.PlanInput {
	return service.PlanInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
}

type planResponse struct {
	model.Plan
	Progress int `json:"progress"`
}

func newPlanResponse(plan *model.Plan) planResponse {
	return planResponse{Plan: *plan, Progress: service.ChecklistProgress(plan.Items)}
}

func (a *API) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := a.plans.ListPlans(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}

	resp := make([]planResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, newPlanResponse(&plans[i]))
	}
	a.respondWithJSON(w, http.StatusOK, resp)
}

func (a *API) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	plan, err := a.plans.CreatePlan(r.Context(), currentUser(r), req.toInput())
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusCreated, newPlanResponse(plan))
}

func (a *API) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := idParam(r, "planId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	plan, err := a.plans.GetPlan(r.Context(), currentUser(r), planID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newPlanResponse(plan))
}

func (a *API) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := idParam(r, "planId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid plan id")
		return
	}
	var req planRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	plan, err := a.plans.UpdatePlan(r.Context(), currentUser(r), planID, req.toInput())
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newPlanResponse(plan))
}

func (a *API) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := idParam(r, "planId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	if err := a.plans.DeletePlan(r.Context(), currentUser(r), planID); err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handlePlanStatus(w http.ResponseWriter, r *http.Request) {
	planID, err := idParam(r, "planId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid plan id")
		return
	}
	var req statusRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	plan, err := a.plans.SetStatus(r.Context(), currentUser(r), planID, req.Status)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newPlanResponse(plan))
}

func (a *API) handleAddPlanItem(w http.ResponseWriter, r *http.Request) {
	planID, err := idParam(r, "planId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid plan id")
		return
	}
	var req itemRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	plan, err := a.plans.AddItem(r.Context(), currentUser(r), planID, req.Title)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusCreated, newPlanResponse(plan))
}

func (a *API) handleTogglePlanItem(w http.ResponseWriter, r *http.Request) {
	planID, err := idParam(r, "planId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid plan id")
		return
	}
	itemID, err := idParam(r, "itemId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	plan, err := a.plans.ToggleItem(r.Context(), currentUser(r), planID, itemID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newPlanResponse(plan))
}

func (a *API) handleRemovePlanItem(w http.ResponseWriter, r *http.Request) {
	planID, err := idParam(r, "planId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid plan id")
		return
	}
	itemID, err := idParam(r, "itemId")
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	plan, err := a.plans.RemoveItem(r.Context(), currentUser(r), planID, itemID)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, newPlanResponse(plan))
}
