package api

import (
	"log"
	"net/http"
	"strconv"

	"habitflow/internal/service"
)

type coachChatRequest struct {
	Message string             `json:"message"`
	Mood    string             `json:"mood,omitempty"`
	History []service.ChatTurn `json:"history,omitempty"`
}

func (a *API) handleCoachChat(w http.ResponseWriter, r *http.Request) {
	if !a.coach.Configured() {
		a.respondWithError(w, http.StatusBadGateway, "coach backend not configured")
		return
	}

	var req coachChatRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		a.respondWithError(w, http.StatusBadRequest, "message is required")
		return
	}

	user := currentUser(r)
	resp, err := a.coach.Send(r.Context(), service.ChatRequest{
		Message: req.Message,
		Mood:    req.Mood,
		History: req.History,
		UserID:  strconv.FormatUint(uint64(user.ID), 10),
	})
	if err != nil {
		log.Printf("coach chat user=%d: %v", user.ID, err)
		a.respondWithError(w, http.StatusBadGateway, "coach unavailable")
		return
	}
	a.respondWithJSON(w, http.StatusOK, resp)
}
