package memory

import (
	"context"
	"sync"

	"github.com/dtroode/user-registry/internal/model"
)

var _ model.EmailStore = (*EmailRepository)(nil)

type EmailRepository struct {
	locks   lockTable
	mu      sync.RWMutex
	records map[string]model.EmailRecord
}

func NewEmailRepository() *EmailRepository {
	return &EmailRepository{
		records: make(map[string]model.EmailRecord),
	}
}

func (r *EmailRepository) Get(_ context.Context, address string) (model.EmailRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[address]
	if !ok {
		return model.EmailRecord{}, model.ErrNotFound
	}
	return rec, nil
}

func (r *EmailRepository) Update(ctx context.Context, address string, fn func(model.EmailRecord) (model.EmailRecord, error)) (model.EmailRecord, error) {
	unlock := r.locks.lock(address)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return model.EmailRecord{}, err
	}

	r.mu.RLock()
	current, ok := r.records[address]
	r.mu.RUnlock()
	if !ok {
		current = model.EmailRecord{Address: address, Status: model.EmailAvailable}
	}

	updated, err := fn(current)
	if err != nil {
		return model.EmailRecord{}, err
	}
	updated.Address = address

	r.mu.Lock()
	r.records[address] = updated
	r.mu.Unlock()

	return updated, nil
}
