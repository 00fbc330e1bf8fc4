package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/user-registry/internal/model"
)

func newInstance(id string, at time.Time) model.SagaInstance {
	return model.SagaInstance{
		UserID:    id,
		Command:   model.CreateUserCommand{Name: "Ann", Country: "DE", Email: id + "@example.com"},
		Status:    model.SagaReservingEmail,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestSagaRepository_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewSagaRepository()
	now := time.Now().UTC()

	_, created, err := r.Create(ctx, newInstance("u1", now), model.StepReserveEmail)
	require.NoError(t, err)
	assert.True(t, created)

	changed := newInstance("u1", now.Add(time.Hour))
	changed.Command.Name = "Bob"
	got, created, err := r.Create(ctx, changed, model.StepReserveEmail)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ann", got.Command.Name)

	history, err := r.History(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSagaRepository_ClaimLeasesDueTasksOnce(t *testing.T) {
	ctx := context.Background()
	r := NewSagaRepository()
	now := time.Now().UTC()

	_, _, err := r.Create(ctx, newInstance("early", now), model.StepReserveEmail)
	require.NoError(t, err)
	_, _, err = r.Create(ctx, newInstance("late", now.Add(time.Minute)), model.StepReserveEmail)
	require.NoError(t, err)

	tasks, err := r.Claim(ctx, now, 10*time.Second, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "early", tasks[0].InstanceID)
	assert.NotEmpty(t, tasks[0].LeaseID)
	assert.Equal(t, 1, tasks[0].Attempt)

	again, err := r.Claim(ctx, now.Add(time.Second), 10*time.Second, 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	expired, err := r.Claim(ctx, now.Add(11*time.Second), 10*time.Second, 1)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "early", expired[0].InstanceID)
	assert.NotEqual(t, tasks[0].LeaseID, expired[0].LeaseID)
	assert.Equal(t, 2, expired[0].Attempt, "taking over an expired lease is a new attempt")
}

func TestSagaRepository_ClaimCountsExpiredLeases(t *testing.T) {
	ctx := context.Background()
	r := NewSagaRepository()
	now := time.Now().UTC()

	_, _, err := r.Create(ctx, newInstance("u1", now), model.StepCreateUser)
	require.NoError(t, err)

	for want := 1; want <= 5; want++ {
		tasks, err := r.Claim(ctx, now, time.Minute, 10)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, want, tasks[0].Attempt)
		now = now.Add(2 * time.Minute)
	}

	t.Run("released task is not counted twice", func(t *testing.T) {
		tasks, err := r.Claim(ctx, now, time.Minute, 10)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		require.NoError(t, r.Retry(ctx, tasks[0], tasks[0].Attempt+1, now))

		again, err := r.Claim(ctx, now, time.Minute, 10)
		require.NoError(t, err)
		require.Len(t, again, 1)
		assert.Equal(t, tasks[0].Attempt+1, again[0].Attempt)
	})
}

func TestSagaRepository_CommitRequiresLeaseAndStatus(t *testing.T) {
	ctx := context.Background()
	r := NewSagaRepository()
	now := time.Now().UTC()

	inst := newInstance("u1", now)
	_, _, err := r.Create(ctx, inst, model.StepReserveEmail)
	require.NoError(t, err)

	tasks, err := r.Claim(ctx, now, time.Second, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	task := tasks[0]

	next := inst
	next.Status = model.SagaCreatingUser
	next.UpdatedAt = now.Add(time.Millisecond)
	decision := model.SagaDecision{Instance: next, Next: model.StepCreateUser}

	foreign := task
	foreign.LeaseID = "someone-else"
	assert.ErrorIs(t, r.Commit(ctx, foreign, model.SagaReservingEmail, decision), model.ErrStaleTask)
	assert.ErrorIs(t, r.Commit(ctx, task, model.SagaPaused, decision), model.ErrStaleTask)

	require.NoError(t, r.Commit(ctx, task, model.SagaReservingEmail, decision))
	assert.ErrorIs(t, r.Commit(ctx, task, model.SagaReservingEmail, decision), model.ErrStaleTask)

	got, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.SagaCreatingUser, got.Status)
	assert.Equal(t, now, got.CreatedAt)

	pending, ok := r.Task("u1")
	require.True(t, ok)
	assert.Equal(t, model.StepCreateUser, pending.Step)
	assert.Equal(t, 1, pending.Attempt)
	assert.Empty(t, pending.LeaseID)

	history, err := r.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[1].Seq)
	assert.Equal(t, model.SagaReservingEmail, history[1].From)
	assert.Equal(t, model.SagaCreatingUser, history[1].To)
	assert.Equal(t, model.StepCreateUser, history[1].Next)
}

func TestSagaRepository_RetryAndPark(t *testing.T) {
	ctx := context.Background()
	r := NewSagaRepository()
	now := time.Now().UTC()

	_, _, err := r.Create(ctx, newInstance("u1", now), model.StepReserveEmail)
	require.NoError(t, err)

	tasks, err := r.Claim(ctx, now, time.Minute, 1)
	require.NoError(t, err)
	require.NoError(t, r.Retry(ctx, tasks[0], 2, now.Add(time.Second)))
	assert.ErrorIs(t, r.Retry(ctx, tasks[0], 3, now), model.ErrStaleTask)

	pending, _ := r.Task("u1")
	assert.Equal(t, 2, pending.Attempt)
	assert.Empty(t, pending.LeaseID)

	tasks, err = r.Claim(ctx, now.Add(time.Second), time.Minute, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NoError(t, r.Park(ctx, tasks[0], "invalid state"))

	parked, err := r.Claim(ctx, now.Add(time.Hour), time.Minute, 1)
	require.NoError(t, err)
	assert.Empty(t, parked)

	pending, _ = r.Task("u1")
	assert.True(t, pending.Parked)
	assert.Equal(t, "invalid state", pending.LastError)
}

func TestSagaRepository_Reschedule(t *testing.T) {
	ctx := context.Background()
	r := NewSagaRepository()
	now := time.Now().UTC()

	_, err := r.Reschedule(ctx, "missing", model.SagaPaused, model.SagaReservingEmail, model.StepReserveEmail)
	assert.ErrorIs(t, err, model.ErrNotFound)

	inst := newInstance("u2", now)
	_, _, err = r.Create(ctx, inst, model.StepReserveEmail)
	require.NoError(t, err)

	_, err = r.Reschedule(ctx, "u2", model.SagaPaused, model.SagaReservingEmail, model.StepReserveEmail)
	assert.ErrorIs(t, err, model.ErrInvalidState)

	tasks, err := r.Claim(ctx, now, time.Minute, 1)
	require.NoError(t, err)
	paused := inst
	paused.Status = model.SagaPaused
	paused.ErrorMessage = "failed to reserve email: 'u2@example.com'"
	require.NoError(t, r.Commit(ctx, tasks[0], model.SagaReservingEmail, model.SagaDecision{Instance: paused}))

	_, ok := r.Task("u2")
	assert.False(t, ok)

	resumed, err := r.Reschedule(ctx, "u2", model.SagaPaused, model.SagaReservingEmail, model.StepReserveEmail)
	require.NoError(t, err)
	assert.Equal(t, model.SagaReservingEmail, resumed.Status)
	assert.Empty(t, resumed.ErrorMessage)

	pending, ok := r.Task("u2")
	require.True(t, ok)
	assert.Equal(t, model.StepReserveEmail, pending.Step)

	history, err := r.History(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "resumed", history[2].Message)
}

func TestSagaRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewSagaRepository()
	_, _, err := r.Create(ctx, newInstance("u1", time.Now()), model.StepReserveEmail)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = r.Claim(ctx, time.Now(), time.Second, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
