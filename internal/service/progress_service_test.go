package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitflow/internal/repository"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{xp: 0, want: 1},
		{xp: 99, want: 1},
		{xp: 100, want: 2},
		{xp: 199, want: 2},
		{xp: 200, want: 3},
		{xp: 1000, want: 11},
		{xp: -5, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestXPToNextLevelInvariant(t *testing.T) {
	for xp := 0; xp <= 1050; xp++ {
		assert.Equal(t, LevelForXP(xp)*100, xp+XPToNextLevel(xp), "xp=%d", xp)
	}
	// Never zero: crossing a boundary starts a fresh bucket.
	for xp := 0; xp <= 1050; xp++ {
		assert.Greater(t, XPToNextLevel(xp), 0, "xp=%d", xp)
	}
}

func TestAwardMovesLevelAndFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := newTestUser(t, db)

	userRepo := repository.NewUserRepository(db)
	achievements := NewAchievementService(repository.NewAchievementRepository(db), repository.NewHabitRepository(db), nil)
	progress := NewProgressService(userRepo, achievements)

	require.NoError(t, progress.Award(ctx, user, 250))
	assert.Equal(t, 250, user.XP)
	assert.Equal(t, 3, user.Level)

	stored, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, stored.XP)
	assert.Equal(t, 3, stored.Level)

	require.NoError(t, progress.Award(ctx, user, -300))
	assert.Equal(t, 0, user.XP)
	assert.Equal(t, 1, user.Level)
}

func TestAwardUnlocksLevelAchievement(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := newTestUser(t, db)

	rec := &recorder{}
	achieveRepo := repository.NewAchievementRepository(db)
	achievements := NewAchievementService(achieveRepo, repository.NewHabitRepository(db), rec)
	progress := NewProgressService(repository.NewUserRepository(db), achievements)

	require.NoError(t, progress.Award(ctx, user, 450))
	assert.Equal(t, 5, user.Level)
	assert.True(t, rec.has("achievement.unlocked"))

	unlocked, err := achieveRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	codes := make([]string, 0, len(unlocked))
	for _, row := range unlocked {
		codes = append(codes, row.Code)
	}
	assert.Contains(t, codes, "level_5")

	// Re-evaluating does not duplicate rows.
	require.NoError(t, achievements.Evaluate(ctx, user))
	again, err := achieveRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, again, len(unlocked))
}
