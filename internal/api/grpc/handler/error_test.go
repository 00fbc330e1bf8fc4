package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/user-registry/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "model not found -> NotFound",
			in:       fmt.Errorf("failed to get saga: %w", model.ErrNotFound),
			wantCode: codes.NotFound,
			wantMsg:  "not found",
		},
		{
			name:     "invalid argument keeps message",
			in:       fmt.Errorf("%w: email address is empty", model.ErrInvalidArgument),
			wantCode: codes.InvalidArgument,
			wantMsg:  "invalid argument: email address is empty",
		},
		{
			name:     "already reserved -> AlreadyExists",
			in:       model.ErrAlreadyReserved,
			wantCode: codes.AlreadyExists,
			wantMsg:  "email already reserved",
		},
		{
			name:     "invalid state -> FailedPrecondition",
			in:       fmt.Errorf("failed to resume saga: %w", model.ErrInvalidState),
			wantCode: codes.FailedPrecondition,
			wantMsg:  "failed to resume saga: invalid state",
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
