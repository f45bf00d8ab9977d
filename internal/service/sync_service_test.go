package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSyncClientRoundTrip(t *testing.T) {
	var stored *Snapshot

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sync-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/auth":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodDelete && r.URL.Path == "/auth":
			stored = nil
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/users/7/snapshot":
			var snapshot Snapshot
			if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			stored = &snapshot
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && r.URL.Path == "/users/7/snapshot":
			if stored == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(stored)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewHTTPSyncClient(server.URL, "sync-token")

	require.NoError(t, client.Authenticate(ctx))

	// Nothing uploaded yet: restore reports no snapshot without an error.
	snapshot, err := client.Restore(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	require.NoError(t, client.ManualSync(ctx, 7, &Snapshot{Version: SnapshotVersion, ExportID: "abc"}))

	snapshot, err = client.Restore(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "abc", snapshot.ExportID)

	require.NoError(t, client.Disconnect(ctx))
}

func TestHTTPSyncClientRejectsBadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewHTTPSyncClient(server.URL, "wrong")
	assert.Error(t, client.Authenticate(context.Background()))
}

func TestSyncServiceUnconfigured(t *testing.T) {
	svc := NewSyncService(nil, nil)
	assert.False(t, svc.Configured())
	assert.Error(t, svc.Connect(context.Background()))
}
