package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"habitflow/internal/model"
)

// SyncClient is the narrow surface of the cloud drive snapshots are pushed to.
// Restore returns nil when no remote snapshot exists yet.
type SyncClient interface {
	Authenticate(ctx context.Context) error
	ManualSync(ctx context.Context, userID uint, snapshot *Snapshot) error
	Restore(ctx context.Context, userID uint) (*Snapshot, error)
	Disconnect(ctx context.Context) error
}

// HTTPSyncClient implements SyncClient against a drive-style HTTP endpoint.
type HTTPSyncClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPSyncClient(baseURL, token string) *HTTPSyncClient {
	return &HTTPSyncClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *HTTPSyncClient) Authenticate(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth", nil, nil)
}

func (c *HTTPSyncClient) ManualSync(ctx context.Context, userID uint, snapshot *Snapshot) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d/snapshot", userID), snapshot, nil)
}

func (c *HTTPSyncClient) Restore(ctx context.Context, userID uint) (*Snapshot, error) {
	var snapshot Snapshot
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/snapshot", userID), nil, &snapshot)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *HTTPSyncClient) Disconnect(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/auth", nil, nil)
}

var errNotFound = fmt.Errorf("not found")

func (c *HTTPSyncClient) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode sync request: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sync service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sync service: unexpected status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode sync response: %w", err)
		}
	}
	return nil
}

// SyncService pairs the backup snapshots with the cloud drive client. There
// is no conflict resolution: push overwrites remote, restore overwrites local.
type SyncService struct {
	backup *BackupService
	client SyncClient
}

func NewSyncService(backup *BackupService, client SyncClient) *SyncService {
	return &SyncService{backup: backup, client: client}
}

// Configured reports whether a sync endpoint was provided.
func (s *SyncService) Configured() bool {
	return s.client != nil
}

func (s *SyncService) Connect(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("sync not configured")
	}
	return s.client.Authenticate(ctx)
}

// Push exports the user's store and uploads it.
func (s *SyncService) Push(ctx context.Context, user *model.User) (*Snapshot, error) {
	if s.client == nil {
		return nil, fmt.Errorf("sync not configured")
	}
	snapshot, err := s.backup.Export(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.client.ManualSync(ctx, user.ID, snapshot); err != nil {
		return nil, err
	}
	log.Printf("[info] snapshot pushed user=%d export=%s", user.ID, snapshot.ExportID)
	return snapshot, nil
}

// RestoreRemote downloads the remote snapshot and replaces the local store.
// It reports false when there is nothing to restore.
func (s *SyncService) RestoreRemote(ctx context.Context, user *model.User) (bool, error) {
	if s.client == nil {
		return false, fmt.Errorf("sync not configured")
	}
	snapshot, err := s.client.Restore(ctx, user.ID)
	if err != nil {
		return false, err
	}
	if snapshot == nil {
		return false, nil
	}
	if err := s.backup.Import(ctx, user, snapshot); err != nil {
		return false, err
	}
	log.Printf("[info] snapshot restored user=%d export=%s", user.ID, snapshot.ExportID)
	return true, nil
}

func (s *SyncService) Disconnect(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("sync not configured")
	}
	return s.client.Disconnect(ctx)
}
