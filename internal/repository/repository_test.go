package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalvoice/internal/db/dbtest"
	"github.com/templui/goalvoice/internal/model"
	"github.com/templui/goalvoice/internal/repository"
)

func strPtr(s string) *string { return &s }

func newUser(t *testing.T, users repository.UserRepository, email string) *model.User {
	t.Helper()

	now := time.Now().UTC()
	user := &model.User{Email: email, PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func newGoal(t *testing.T, goals repository.GoalRepository, userID int64, title, category, status string, createdAt time.Time) *model.Goal {
	t.Helper()

	goal := &model.Goal{
		UserID:    userID,
		Title:     title,
		Category:  category,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, goals.Create(context.Background(), goal))
	return goal
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepository(dbtest.New(t))

	user := newUser(t, users, "ada@example.com")
	assert.Positive(t, user.ID)

	byID, err := users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)

	byEmail, err := users.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = users.ByID(ctx, user.ID+100)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = users.ByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	users := repository.NewUserRepository(dbtest.New(t))
	newUser(t, users, "ada@example.com")

	now := time.Now().UTC()
	err := users.Create(context.Background(), &model.User{Email: "ada@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	users := repository.NewUserRepository(database)
	profiles := repository.NewProfileRepository(database)

	user := newUser(t, users, "ada@example.com")

	_, err := profiles.ByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)

	profile := &model.Profile{UserID: user.ID, FullName: "Ada Lovelace", PhoneNumber: strPtr("+15550100")}
	require.NoError(t, profiles.Create(ctx, profile))
	assert.Positive(t, profile.ID)

	got, err := profiles.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName)
	assert.Equal(t, "+15550100", got.Phone())
}

func TestGoalRepository_CreateAndByID(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	user := newUser(t, repository.NewUserRepository(database), "ada@example.com")
	goals := repository.NewGoalRepository(database)

	goal := &model.Goal{
		UserID:           user.ID,
		Title:            "run a marathon",
		Category:         model.GoalCategoryHealth,
		Status:           model.GoalStatusActive,
		CreatedFromVoice: true,
		CallID:           strPtr("call-1"),
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	require.NoError(t, goals.Create(ctx, goal))

	got, err := goals.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "run a marathon", got.Title)
	assert.Equal(t, model.GoalCategoryHealth, got.Category)
	assert.True(t, got.CreatedFromVoice)
	require.NotNil(t, got.CallID)
	assert.Equal(t, "call-1", *got.CallID)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.TargetDate)

	_, err = goals.ByID(ctx, goal.ID+1)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestGoalRepository_GoalsFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	users := repository.NewUserRepository(database)
	goals := repository.NewGoalRepository(database)

	ada := newUser(t, users, "ada@example.com")
	bob := newUser(t, users, "bob@example.com")

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	newGoal(t, goals, ada.ID, "first", model.GoalCategoryHealth, model.GoalStatusActive, base)
	newGoal(t, goals, ada.ID, "second", model.GoalCategoryCareer, model.GoalStatusCompleted, base.Add(time.Minute))
	newGoal(t, goals, ada.ID, "third", model.GoalCategoryHealth, model.GoalStatusActive, base.Add(2*time.Minute))
	newGoal(t, goals, bob.ID, "bob's", model.GoalCategoryHealth, model.GoalStatusActive, base)

	all, total, err := goals.Goals(ctx, ada.ID, repository.GoalFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)
	assert.Equal(t, "first", all[2].Title)

	health, total, err := goals.Goals(ctx, ada.ID, repository.GoalFilter{Category: model.GoalCategoryHealth, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, health, 2)

	done, total, err := goals.Goals(ctx, ada.ID, repository.GoalFilter{Status: model.GoalStatusCompleted, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, done, 1)
	assert.Equal(t, "second", done[0].Title)

	page, total, err := goals.Goals(ctx, ada.ID, repository.GoalFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Title)

	none, total, err := goals.Goals(ctx, ada.ID+bob.ID+100, repository.GoalFilter{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestGoalRepository_Update(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	user := newUser(t, repository.NewUserRepository(database), "ada@example.com")
	goals := repository.NewGoalRepository(database)

	goal := newGoal(t, goals, user.ID, "learn go", model.GoalCategoryEducation, model.GoalStatusActive, time.Now().UTC())

	status := model.GoalStatusCompleted
	target := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	updated, err := goals.Update(ctx, goal.ID, repository.GoalUpdate{
		Status:      &status,
		Description: strPtr("finish the tour"),
		TargetDate:  &target,
	})
	require.NoError(t, err)
	assert.Equal(t, "learn go", updated.Title)
	assert.Equal(t, model.GoalStatusCompleted, updated.Status)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "finish the tour", *updated.Description)
	require.NotNil(t, updated.TargetDate)
	assert.True(t, target.Equal(*updated.TargetDate))

	unchanged, err := goals.Update(ctx, goal.ID, repository.GoalUpdate{})
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusCompleted, unchanged.Status)

	_, err = goals.Update(ctx, goal.ID+1, repository.GoalUpdate{Status: &status})
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestGoalRepository_Delete(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	user := newUser(t, repository.NewUserRepository(database), "ada@example.com")
	goals := repository.NewGoalRepository(database)

	goal := newGoal(t, goals, user.ID, "learn go", model.GoalCategoryEducation, model.GoalStatusActive, time.Now().UTC())

	require.NoError(t, goals.Delete(ctx, goal.ID))
	assert.ErrorIs(t, goals.Delete(ctx, goal.ID), repository.ErrGoalNotFound)

	_, err := goals.ByID(ctx, goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestConversationRepository(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	user := newUser(t, repository.NewUserRepository(database), "ada@example.com")
	conversations := repository.NewConversationRepository(database)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, callID := range []string{"call-1", "call-2", "call-3"} {
		c := &model.Conversation{
			UserID:       user.ID,
			CallID:       callID,
			Summary:      strPtr("summary"),
			GoalsCreated: i,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, conversations.Create(ctx, c))
		assert.Positive(t, c.ID)
	}

	got, err := conversations.ByUser(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "call-3", got[0].CallID)
	assert.Equal(t, 2, got[0].GoalsCreated)
	assert.Nil(t, got[0].TranscriptKey)
	assert.Equal(t, "call-2", got[1].CallID)
}
