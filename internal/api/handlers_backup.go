package api

import (
	"io"
	"net/http"
)

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.backup.Export(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusInternalServerError, "export failed")
		return
	}
	a.respondWithJSON(w, http.StatusOK, snapshot)
}

// handleImport replaces the user's data with the posted snapshot.
func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		a.respondWithError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if err := a.backup.ImportRaw(r.Context(), currentUser(r), raw); err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (a *API) handleSyncConnect(w http.ResponseWriter, r *http.Request) {
	if !a.sync.Configured() {
		a.respondWithError(w, http.StatusBadGateway, "sync backend not configured")
		return
	}
	if err := a.sync.Connect(r.Context()); err != nil {
		a.respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

func (a *API) handleSyncPush(w http.ResponseWriter, r *http.Request) {
	if !a.sync.Configured() {
		a.respondWithError(w, http.StatusBadGateway, "sync backend not configured")
		return
	}
	snapshot, err := a.sync.Push(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]any{
		"status":    "pushed",
		"export_id": snapshot.ExportID,
	})
}

func (a *API) handleSyncRestore(w http.ResponseWriter, r *http.Request) {
	if !a.sync.Configured() {
		a.respondWithError(w, http.StatusBadGateway, "sync backend not configured")
		return
	}
	restored, err := a.sync.RestoreRemote(r.Context(), currentUser(r))
	if err != nil {
		a.respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	if !restored {
		a.respondWithError(w, http.StatusNotFound, "no remote snapshot")
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

func (a *API) handleSyncDisconnect(w http.ResponseWriter, r *http.Request) {
	if !a.sync.Configured() {
		a.respondWithError(w, http.StatusBadGateway, "sync backend not configured")
		return
	}
	if err := a.sync.Disconnect(r.Context()); err != nil {
		a.respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	a.respondWithJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}
