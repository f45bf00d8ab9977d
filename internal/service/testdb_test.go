package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func newTestUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{
		Email:    uuid.NewString() + "@example.com",
		Name:     "Test User",
		LinkCode: uuid.NewString(),
		Level:    1,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

// recorder captures published events so tests can assert on them.
type recorder struct {
	events []recordedEvent
}

type recordedEvent struct {
	UserID  uint
	Type    string
	Payload any
}

func (r *recorder) Publish(userID uint, eventType string, payload any) {
	r.events = append(r.events, recordedEvent{UserID: userID, Type: eventType, Payload: payload})
}

func (r *recorder) has(eventType string) bool {
	for _, e := range r.events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}
