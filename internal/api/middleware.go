package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"habitflow/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// requireAuth resolves the bearer token into a user and stores it on the
// request context.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			a.respondWithError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := a.auth.ParseToken(token)
		if err != nil {
			a.respondWithError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := a.users.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				a.respondWithError(w, http.StatusUnauthorized, "unknown account")
				return
			}
			a.respondWithError(w, http.StatusInternalServerError, "account lookup failed")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Websocket clients cannot set headers, they pass the token as a query param.
	return r.URL.Query().Get("token")
}

// currentUser pulls the authenticated user off the request context.
func currentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userContextKey).(*model.User)
	return user
}
