package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

func TestChecklistProgress(t *testing.T) {
	done := func(d bool) model.ChecklistItem { return model.ChecklistItem{Done: d} }

	tests := []struct {
		name  string
		items []model.ChecklistItem
		want  int
	}{
		{name: "empty", items: nil, want: 0},
		{name: "none done", items: []model.ChecklistItem{done(false), done(false)}, want: 0},
		{name: "half done", items: []model.ChecklistItem{done(true), done(false)}, want: 50},
		{name: "all done", items: []model.ChecklistItem{done(true), done(true)}, want: 100},
		{name: "one of three", items: []model.ChecklistItem{done(true), done(false), done(false)}, want: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChecklistProgress(tt.items))
		})
	}
}

func newGoalFixture(t *testing.T) (*GoalService, *model.User) {
	t.Helper()
	db := newTestDB(t)
	return NewGoalService(repository.NewGoalRepository(db)), newTestUser(t, db)
}

func TestGoalChecklistFlow(t *testing.T) {
	ctx := context.Background()
	svc, user := newGoalFixture(t)

	goal, err := svc.CreateGoal(ctx, user, GoalInput{Title: "Learn Spanish", Category: "education"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPlanning, goal.Status)

	goal, err = svc.AddItem(ctx, user, goal.ID, "Finish course A1")
	require.NoError(t, err)
	goal, err = svc.AddItem(ctx, user, goal.ID, "Read first book")
	require.NoError(t, err)
	require.Len(t, goal.Items, 2)
	assert.Equal(t, 0, ChecklistProgress(goal.Items))

	goal, err = svc.ToggleItem(ctx, user, goal.ID, goal.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, ChecklistProgress(goal.Items))

	goal, err = svc.RemoveItem(ctx, user, goal.ID, goal.Items[1].ID)
	require.NoError(t, err)
	require.Len(t, goal.Items, 1)
	assert.Equal(t, 100, ChecklistProgress(goal.Items))
}

func TestItemSortIndexNotReusedAfterRemoval(t *testing.T) {
	ctx := context.Background()
	svc, user := newGoalFixture(t)

	goal, err := svc.CreateGoal(ctx, user, GoalInput{Title: "Declutter the flat"})
	require.NoError(t, err)
	for _, title := range []string{"closet", "desk", "garage"} {
		goal, err = svc.AddItem(ctx, user, goal.ID, title)
		require.NoError(t, err)
	}

	goal, err = svc.RemoveItem(ctx, user, goal.ID, goal.Items[1].ID)
	require.NoError(t, err)
	goal, err = svc.AddItem(ctx, user, goal.ID, "attic")
	require.NoError(t, err)
	require.Len(t, goal.Items, 3)

	seen := map[int]bool{}
	for _, item := range goal.Items {
		assert.False(t, seen[item.SortIndex], "sort index %d assigned twice", item.SortIndex)
		seen[item.SortIndex] = true
	}
	assert.Equal(t, "attic", goal.Items[2].Title)
	assert.Equal(t, 3, goal.Items[2].SortIndex)
}

func TestGoalStatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc, user := newGoalFixture(t)

	goal, err := svc.CreateGoal(ctx, user, GoalInput{Title: "Run a marathon"})
	require.NoError(t, err)

	for _, status := range []string{model.StatusActive, model.StatusPaused, model.StatusCompleted} {
		goal, err = svc.SetStatus(ctx, user, goal.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, goal.Status)
	}

	_, err = svc.SetStatus(ctx, user, goal.ID, "abandoned")
	assert.Error(t, err)
}

func TestGoalItemOwnership(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewGoalService(repository.NewGoalRepository(db))
	owner := newTestUser(t, db)
	intruder := newTestUser(t, db)

	goal, err := svc.CreateGoal(ctx, owner, GoalInput{Title: "secret"})
	require.NoError(t, err)
	goal, err = svc.AddItem(ctx, owner, goal.ID, "step one")
	require.NoError(t, err)

	_, err = svc.GetGoal(ctx, intruder, goal.ID)
	assert.Error(t, err)
	_, err = svc.ToggleItem(ctx, intruder, goal.ID, goal.Items[0].ID)
	assert.Error(t, err)
}
