package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/user-registry/internal/model"
	"github.com/dtroode/user-registry/internal/repository/memory"
	"github.com/dtroode/user-registry/internal/testutil"
)

func TestUserAggregate_CreateUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()
	users := NewUserAggregate(store, testutil.MakeNoopLogger())
	users.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, err := users.GetState(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	cmd := model.CreateUserCommand{Name: "Ann", Country: "DE", Email: "ann@example.com"}
	require.NoError(t, users.CreateUser(ctx, "u1", cmd))

	user, err := users.GetState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: "u1", Name: "Ann", Country: "DE", Email: "ann@example.com"}, user)

	t.Run("second create keeps the original", func(t *testing.T) {
		require.NoError(t, users.CreateUser(ctx, "u1", model.CreateUserCommand{Name: "Bob"}))

		user, err := users.GetState(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Ann", user.Name)

		events, err := store.Events(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, model.UserCreated, events[0].Type)
		assert.Equal(t, 1, events[0].Version)
		assert.Equal(t, users.now(), events[0].OccurredAt)
	})

	t.Run("empty id", func(t *testing.T) {
		assert.ErrorIs(t, users.CreateUser(ctx, "", cmd), model.ErrInvalidArgument)
	})
}
