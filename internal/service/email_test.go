package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/user-registry/internal/model"
	"github.com/dtroode/user-registry/internal/repository/memory"
	"github.com/dtroode/user-registry/internal/testutil"
)

func newLedger() *EmailLedger {
	return NewEmailLedger(memory.NewEmailRepository(), testutil.MakeNoopLogger())
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "already normal", in: "ann@example.com", want: "ann@example.com"},
		{name: "trims and folds case", in: "  Ann.Smith@Example.COM ", want: "ann.smith@example.com"},
		{name: "unicode folding", in: "STRASSE@example.com", want: "strasse@example.com"},
		{name: "empty", in: "   ", wantErr: true},
		{name: "no domain", in: "ann", wantErr: true},
		{name: "display name", in: "Ann <ann@example.com>", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAddress(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmailLedger_Reserve(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	rec, err := l.Reserve(ctx, "Ann@Example.com", "u1")
	require.NoError(t, err)
	assert.Equal(t, model.EmailRecord{Address: "ann@example.com", Status: model.EmailReserved, OwnerID: "u1"}, rec)

	t.Run("same owner is idempotent", func(t *testing.T) {
		again, err := l.Reserve(ctx, "ann@example.com", "u1")
		require.NoError(t, err)
		assert.Equal(t, rec, again)
	})

	t.Run("other owner is rejected case-insensitively", func(t *testing.T) {
		_, err := l.Reserve(ctx, "ANN@example.com", "u2")
		assert.ErrorIs(t, err, model.ErrAlreadyReserved)
	})

	t.Run("empty owner", func(t *testing.T) {
		_, err := l.Reserve(ctx, "bob@example.com", "")
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})

	t.Run("malformed address", func(t *testing.T) {
		_, err := l.Reserve(ctx, "not an address", "u1")
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})
}

func TestEmailLedger_Confirm(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	_, err := l.Confirm(ctx, "ann@example.com", "u1")
	assert.ErrorIs(t, err, model.ErrInvalidState, "unreserved address cannot be confirmed")

	_, err = l.Reserve(ctx, "ann@example.com", "u1")
	require.NoError(t, err)

	_, err = l.Confirm(ctx, "ann@example.com", "u2")
	assert.ErrorIs(t, err, model.ErrInvalidState, "only the owner confirms")

	rec, err := l.Confirm(ctx, "ann@example.com", "u1")
	require.NoError(t, err)
	assert.Equal(t, model.EmailConfirmed, rec.Status)

	rec, err = l.Confirm(ctx, "ann@example.com", "u1")
	require.NoError(t, err, "confirm is idempotent")
	assert.Equal(t, model.EmailConfirmed, rec.Status)

	_, err = l.Reserve(ctx, "ann@example.com", "u2")
	assert.ErrorIs(t, err, model.ErrAlreadyReserved)
}

func TestEmailLedger_UnReserve(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	t.Run("never reserved", func(t *testing.T) {
		rec, err := l.UnReserve(ctx, "free@example.com", "u1")
		require.NoError(t, err)
		assert.Equal(t, model.EmailAvailable, rec.Status)
	})

	t.Run("owner releases", func(t *testing.T) {
		_, err := l.Reserve(ctx, "ann@example.com", "u1")
		require.NoError(t, err)

		rec, err := l.UnReserve(ctx, "ann@example.com", "u1")
		require.NoError(t, err)
		assert.Equal(t, model.EmailAvailable, rec.Status)
		assert.Empty(t, rec.OwnerID)

		again, err := l.UnReserve(ctx, "ann@example.com", "u1")
		require.NoError(t, err)
		assert.Equal(t, model.EmailAvailable, again.Status)

		_, err = l.Reserve(ctx, "ann@example.com", "u2")
		require.NoError(t, err, "released address is reservable again")
	})

	t.Run("foreign reservation is left alone", func(t *testing.T) {
		_, err := l.Reserve(ctx, "bob@example.com", "u1")
		require.NoError(t, err)

		rec, err := l.UnReserve(ctx, "bob@example.com", "u2")
		require.NoError(t, err)
		assert.Equal(t, model.EmailReserved, rec.Status)
		assert.Equal(t, "u1", rec.OwnerID)
	})

	t.Run("confirmed address cannot be released", func(t *testing.T) {
		_, err := l.Reserve(ctx, "eve@example.com", "u3")
		require.NoError(t, err)
		_, err = l.Confirm(ctx, "eve@example.com", "u3")
		require.NoError(t, err)

		_, err = l.UnReserve(ctx, "eve@example.com", "u3")
		assert.ErrorIs(t, err, model.ErrInvalidState)
	})
}

func TestEmailLedger_GetState(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	rec, err := l.GetState(ctx, "Nobody@Example.com")
	require.NoError(t, err)
	assert.Equal(t, model.EmailRecord{Address: "nobody@example.com", Status: model.EmailAvailable}, rec)

	_, err = l.Reserve(ctx, "ann@example.com", "u1")
	require.NoError(t, err)

	rec, err = l.GetState(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.EmailReserved, rec.Status)
	assert.Equal(t, "u1", rec.OwnerID)

	_, err = l.GetState(ctx, "")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}
