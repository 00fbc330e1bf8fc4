package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/user-registry/internal/model"
)

var _ model.SagaStore = (*SagaRepository)(nil)

// SagaRepository keeps saga instances, their pending task and their journal
// in memory. All three change under one mutex, which makes Commit atomic.
type SagaRepository struct {
	mu        sync.Mutex
	instances map[string]model.SagaInstance
	tasks     map[string]model.SagaTask
	journal   map[string][]model.SagaTransition
	now       func() time.Time
}

func NewSagaRepository() *SagaRepository {
	return &SagaRepository{
		instances: make(map[string]model.SagaInstance),
		tasks:     make(map[string]model.SagaTask),
		journal:   make(map[string][]model.SagaTransition),
		now:       time.Now,
	}
}

func (r *SagaRepository) Create(ctx context.Context, inst model.SagaInstance, first model.SagaStep) (model.SagaInstance, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.SagaInstance{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.instances[inst.UserID]; ok {
		return existing, false, nil
	}

	r.instances[inst.UserID] = inst
	r.tasks[inst.UserID] = model.SagaTask{
		InstanceID: inst.UserID,
		Step:       first,
		Attempt:    1,
		RunAt:      inst.CreatedAt,
	}
	r.appendLocked(model.SagaTransition{
		InstanceID: inst.UserID,
		To:         inst.Status,
		Next:       first,
		Message:    "started",
		At:         inst.CreatedAt,
	})

	return inst, true, nil
}

func (r *SagaRepository) Get(ctx context.Context, id string) (model.SagaInstance, error) {
	if err := ctx.Err(); err != nil {
		return model.SagaInstance{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[id]
	if !ok {
		return model.SagaInstance{}, model.ErrNotFound
	}
	return inst, nil
}

// Claim leases due tasks. Taking over an expired lease counts as a new attempt.
func (r *SagaRepository) Claim(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]model.SagaTask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var due []model.SagaTask
	for _, t := range r.tasks {
		if !t.Parked && !t.RunAt.After(now) {
			due = append(due, t)
		}
	}
	slices.SortFunc(due, func(a, b model.SagaTask) int { return a.RunAt.Compare(b.RunAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	for i := range due {
		if due[i].LeaseID != "" {
			due[i].Attempt++
		}
		due[i].LeaseID = uuid.NewString()
		due[i].RunAt = now.Add(lease)
		r.tasks[due[i].InstanceID] = due[i]
	}

	return due, nil
}

func (r *SagaRepository) Commit(ctx context.Context, task model.SagaTask, from model.SagaStatus, decision model.SagaDecision) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.leasedLocked(task) {
		return model.ErrStaleTask
	}
	inst, ok := r.instances[task.InstanceID]
	if !ok || inst.Status != from {
		return model.ErrStaleTask
	}

	next := decision.Instance
	next.UserID = task.InstanceID
	next.CreatedAt = inst.CreatedAt
	r.instances[task.InstanceID] = next

	delete(r.tasks, task.InstanceID)
	if decision.Next != "" {
		r.tasks[task.InstanceID] = model.SagaTask{
			InstanceID: task.InstanceID,
			Step:       decision.Next,
			Attempt:    1,
			RunAt:      next.UpdatedAt,
		}
	}

	r.appendLocked(model.SagaTransition{
		InstanceID: task.InstanceID,
		Step:       task.Step,
		From:       from,
		To:         next.Status,
		Next:       decision.Next,
		Message:    decision.Message,
		At:         next.UpdatedAt,
	})

	return nil
}

func (r *SagaRepository) Retry(ctx context.Context, task model.SagaTask, attempt int, runAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.leasedLocked(task) {
		return model.ErrStaleTask
	}

	t := r.tasks[task.InstanceID]
	t.Attempt = attempt
	t.RunAt = runAt
	t.LeaseID = ""
	r.tasks[task.InstanceID] = t

	return nil
}

func (r *SagaRepository) Park(ctx context.Context, task model.SagaTask, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.leasedLocked(task) {
		return model.ErrStaleTask
	}

	t := r.tasks[task.InstanceID]
	t.Parked = true
	t.LastError = reason
	t.LeaseID = ""
	r.tasks[task.InstanceID] = t

	return nil
}

func (r *SagaRepository) Reschedule(ctx context.Context, id string, from, to model.SagaStatus, step model.SagaStep) (model.SagaInstance, error) {
	if err := ctx.Err(); err != nil {
		return model.SagaInstance{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[id]
	if !ok {
		return model.SagaInstance{}, model.ErrNotFound
	}
	if inst.Status != from {
		return model.SagaInstance{}, model.ErrInvalidState
	}

	now := r.now().UTC()
	inst.Status = to
	inst.ErrorMessage = ""
	inst.UpdatedAt = now
	r.instances[id] = inst
	r.tasks[id] = model.SagaTask{
		InstanceID: id,
		Step:       step,
		Attempt:    1,
		RunAt:      now,
	}
	r.appendLocked(model.SagaTransition{
		InstanceID: id,
		From:       from,
		To:         to,
		Next:       step,
		Message:    "resumed",
		At:         now,
	})

	return inst, nil
}

func (r *SagaRepository) History(ctx context.Context, id string) ([]model.SagaTransition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.SagaTransition, len(r.journal[id]))
	copy(out, r.journal[id])

	return out, nil
}

// Task returns the pending task of an instance.
func (r *SagaRepository) Task(id string) (model.SagaTask, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	return t, ok
}

func (r *SagaRepository) leasedLocked(task model.SagaTask) bool {
	current, ok := r.tasks[task.InstanceID]
	return ok && current.Step == task.Step && current.LeaseID != "" && current.LeaseID == task.LeaseID
}

func (r *SagaRepository) appendLocked(t model.SagaTransition) {
	t.Seq = len(r.journal[t.InstanceID]) + 1
	r.journal[t.InstanceID] = append(r.journal[t.InstanceID], t)
}
