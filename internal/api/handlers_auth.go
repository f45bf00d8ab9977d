package api

import (
	"errors"
	"net/http"

	"habitflow/internal/model"
	"habitflow/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (a *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	user, token, err := a.auth.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.respondWithJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (a *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	user, token, err := a.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			a.respondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		a.respondWithError(w, http.StatusInternalServerError, "sign in failed")
		return
	}
	a.respondWithJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
