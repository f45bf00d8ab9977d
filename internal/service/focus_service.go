package service

import (
	"context"
	"fmt"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

const maxFocusMinutes = 480

// FocusInput represents data required to start a focus session.
type FocusInput struct {
	TaskID          *uint
	DurationMinutes int
	StartedAt       *time.Time
}

// FocusService wraps the focus timer sessions.
type FocusService struct {
	focusRepo *repository.FocusRepository
	progress  *ProgressService
}

func NewFocusService(focusRepo *repository.FocusRepository, progress *ProgressService) *FocusService {
	return &FocusService{focusRepo: focusRepo, progress: progress}
}

// StartSession records a new session. The linked task is not checked for
// existence: sessions keep their task id even after the task is deleted.
func (s *FocusService) StartSession(ctx context.Context, user *model.User, input FocusInput) (*model.FocusSession, error) {
	if input.DurationMinutes <= 0 || input.DurationMinutes > maxFocusMinutes {
		return nil, fmt.Errorf("duration must be between 1 and %d minutes", maxFocusMinutes)
	}

	startedAt := time.Now()
	if input.StartedAt != nil {
		startedAt = *input.StartedAt
	}

	session := model.FocusSession{
		UserID:          user.ID,
		TaskID:          input.TaskID,
		StartedAt:       startedAt,
		DurationMinutes: input.DurationMinutes,
	}

	if err := s.focusRepo.Create(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CompleteSession finishes the session and awards focus XP. Completing an
// already completed session is a no-op.
func (s *FocusService) CompleteSession(ctx context.Context, user *model.User, sessionID uint) (*model.FocusSession, error) {
	session, err := s.focusRepo.FindByID(ctx, user.ID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Completed {
		return session, nil
	}

	session.Completed = true
	session.Interrupted = false
	session.XPEarned = focusXP(session.DurationMinutes)
	if err := s.focusRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	user.FocusMinutes += session.DurationMinutes
	if err := s.progress.Award(ctx, user, session.XPEarned); err != nil {
		return nil, err
	}
	return session, nil
}

// AbandonSession marks the session interrupted. No XP is awarded and the
// record is kept for the statistics.
func (s *FocusService) AbandonSession(ctx context.Context, user *model.User, sessionID uint) (*model.FocusSession, error) {
	session, err := s.focusRepo.FindByID(ctx, user.ID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Completed {
		return nil, fmt.Errorf("session already completed")
	}

	session.Interrupted = true
	if err := s.focusRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *FocusService) ListSessions(ctx context.Context, user *model.User) ([]model.FocusSession, error) {
	return s.focusRepo.ListByUser(ctx, user.ID)
}

// focusXP pays one point per two focused minutes, at least one.
func focusXP(minutes int) int {
	xp := minutes / 2
	if xp < 1 {
		xp = 1
	}
	return xp
}
