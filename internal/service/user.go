package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
)

// UserAggregate records users as an append-only history of events.
type UserAggregate struct {
	store  model.UserStore
	logger *logger.Logger
	now    func() time.Time
}

func NewUserAggregate(store model.UserStore, logger *logger.Logger) *UserAggregate {
	return &UserAggregate{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CreateUser records the user unless it already exists. Creating an existing
// user succeeds and leaves its history untouched.
func (s *UserAggregate) CreateUser(ctx context.Context, userID string, cmd model.CreateUserCommand) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is empty", model.ErrInvalidArgument)
	}

	event := model.UserEvent{
		ID:         uuid.New(),
		UserID:     userID,
		Version:    1,
		Type:       model.UserCreated,
		Name:       cmd.Name,
		Country:    cmd.Country,
		Email:      cmd.Email,
		OccurredAt: s.now().UTC(),
	}

	stored, err := s.store.Append(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to append user event: %w", err)
	}

	if stored {
		s.logger.Info("User aggregate: user created", "user_id", userID)
	} else {
		s.logger.Debug("User aggregate: user already exists", "user_id", userID)
	}

	return nil
}

// GetState folds the user's history into its current record.
func (s *UserAggregate) GetState(ctx context.Context, userID string) (model.User, error) {
	events, err := s.store.Events(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to load user events: %w", err)
	}
	if len(events) == 0 {
		return model.User{}, model.ErrNotFound
	}

	var user model.User
	for _, e := range events {
		switch e.Type {
		case model.UserCreated:
			user = model.User{
				ID:      e.UserID,
				Name:    e.Name,
				Country: e.Country,
				Email:   e.Email,
			}
		default:
			s.logger.Warn("User aggregate: unknown event type", "user_id", userID, "type", e.Type)
		}
	}

	return user, nil
}
