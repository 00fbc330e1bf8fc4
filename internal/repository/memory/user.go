package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/dtroode/user-registry/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	mu     sync.RWMutex
	events map[string][]model.UserEvent
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		events: make(map[string][]model.UserEvent),
	}
}

func (r *UserRepository) Append(ctx context.Context, event model.UserEvent) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.events[event.UserID]
	for _, e := range history {
		if e.Version == event.Version {
			return false, nil
		}
	}
	history = append(history, event)
	slices.SortFunc(history, func(a, b model.UserEvent) int { return a.Version - b.Version })
	r.events[event.UserID] = history

	return true, nil
}

func (r *UserRepository) Events(ctx context.Context, userID string) ([]model.UserEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.events[userID]
	out := make([]model.UserEvent, len(history))
	copy(out, history)

	return out, nil
}
