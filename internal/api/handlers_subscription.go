package api

import (
	"errors"
	"net/http"

	"habitflow/internal/service"
)

type purchaseRequest struct {
	PlanID string `json:"plan_id"`
}

func (a *API) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	sub, err := a.subscriptions.Status(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "failed to load subscription")
		return
	}
	a.respondWithJSON(w, http.StatusOK, sub)
}

func (a *API) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	sub, err := a.subscriptions.Purchase(r.Context(), currentUser(r), req.PlanID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentDeclined) {
			a.respondWithError(w, http.StatusPaymentRequired, err.Error())
			return
		}
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, sub)
}

func (a *API) handleStartTrial(w http.ResponseWriter, r *http.Request) {
	sub, err := a.subscriptions.StartTrial(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, sub)
}
