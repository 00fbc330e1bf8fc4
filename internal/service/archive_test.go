package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/user-registry/internal/mocks"
	"github.com/dtroode/user-registry/internal/model"
	"github.com/dtroode/user-registry/internal/testutil"
)

func finishedSaga() (model.SagaInstance, []model.SagaTransition) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	inst := model.SagaInstance{
		UserID:    "u1",
		Command:   model.CreateUserCommand{Name: "Ann", Country: "DE", Email: "ann@example.com"},
		Status:    model.SagaFinished,
		CreatedAt: at,
		UpdatedAt: at.Add(time.Second),
	}
	history := []model.SagaTransition{
		{InstanceID: "u1", Seq: 1, To: model.SagaReservingEmail, Next: model.StepReserveEmail, Message: "started", At: at},
		{InstanceID: "u1", Seq: 2, Step: model.StepConfirmEmail, From: model.SagaConfirmingEmail, To: model.SagaFinished, At: at.Add(time.Second)},
	}
	return inst, history
}

func TestJournalArchive_Key(t *testing.T) {
	a := NewJournalArchive(mocks.NewStorage(t), "sagas/", testutil.MakeNoopLogger())
	assert.Equal(t, "sagas/u1.json", a.Key("u1"))
}

func TestJournalArchive_Archive(t *testing.T) {
	ctx := context.Background()
	inst, history := finishedSaga()

	t.Run("uploads journal", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		var uploaded []byte

		storage.On("Exists", mock.Anything, "sagas/u1.json").Return(false, nil)
		storage.On("Upload", mock.Anything, "sagas/u1.json", mock.Anything, mock.AnythingOfType("int64"), "application/json").
			Run(func(args mock.Arguments) {
				body, err := io.ReadAll(args.Get(2).(io.Reader))
				require.NoError(t, err)
				assert.Equal(t, int64(len(body)), args.Get(3).(int64))
				uploaded = body
			}).
			Return(nil)

		a := NewJournalArchive(storage, "sagas/", testutil.MakeNoopLogger())
		require.NoError(t, a.Archive(ctx, inst, history))

		var doc map[string]any
		require.NoError(t, json.Unmarshal(uploaded, &doc))
		assert.Equal(t, "u1", doc["user_id"])
		assert.Equal(t, "ann@example.com", doc["email"])
		assert.Equal(t, "FINISHED", doc["status"])
		assert.NotContains(t, doc, "error_message")

		transitions, ok := doc["transitions"].([]any)
		require.True(t, ok)
		require.Len(t, transitions, 2)
		last := transitions[1].(map[string]any)
		assert.Equal(t, "confirm-email", last["step"])
		assert.Equal(t, "CONFIRMING_EMAIL", last["from"])
		assert.Equal(t, "FINISHED", last["to"])
	})

	t.Run("skips archived journal", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		storage.On("Exists", mock.Anything, "sagas/u1.json").Return(true, nil)

		a := NewJournalArchive(storage, "sagas/", testutil.MakeNoopLogger())
		require.NoError(t, a.Archive(ctx, inst, history))
		storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stat error", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		storage.On("Exists", mock.Anything, "sagas/u1.json").Return(false, errors.New("connection refused"))

		a := NewJournalArchive(storage, "sagas/", testutil.MakeNoopLogger())
		err := a.Archive(ctx, inst, history)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check archive")
	})

	t.Run("upload error", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		storage.On("Exists", mock.Anything, "sagas/u1.json").Return(false, nil)
		storage.On("Upload", mock.Anything, "sagas/u1.json", mock.Anything, mock.Anything, "application/json").
			Return(errors.New("bucket is gone"))

		a := NewJournalArchive(storage, "sagas/", testutil.MakeNoopLogger())
		err := a.Archive(ctx, inst, history)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload journal")
	})
}
