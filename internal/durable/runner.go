// Package durable executes saga steps with at-least-once delivery. Step tasks
// live in the saga store; the runner claims due tasks, invokes the step,
// applies the retry policy and commits the resulting transition atomically.
package durable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
)

// Controller is the saga definition the runner drives.
type Controller interface {
	Validate(inst model.SagaInstance, step model.SagaStep) error
	Policy(step model.SagaStep) model.RetryPolicy
	Invoke(ctx context.Context, inst model.SagaInstance, step model.SagaStep) model.Result
	Decide(inst model.SagaInstance, step model.SagaStep, result model.Result) (model.SagaDecision, error)
	Failover(inst model.SagaInstance, step model.SagaStep, policy model.RetryPolicy, lastErr string) model.SagaDecision
}

// Archiver keeps the journal of instances that reached a terminal status.
type Archiver interface {
	Archive(ctx context.Context, inst model.SagaInstance, history []model.SagaTransition) error
}

// Config tunes the runner.
type Config struct {
	Workers      int
	BatchSize    int
	PollInterval time.Duration
	Lease        time.Duration
	BackoffBase  time.Duration
	BackoffMax   time.Duration
}

// DefaultConfig returns the settings used when a field is left zero.
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		BatchSize:    16,
		PollInterval: time.Second,
		Lease:        30 * time.Second,
		BackoffBase:  250 * time.Millisecond,
		BackoffMax:   time.Minute,
	}
}

// Runner claims and executes saga step tasks.
type Runner struct {
	store    model.SagaStore
	ctl      Controller
	archiver Archiver
	cfg      Config
	logger   *logger.Logger
	wake     chan struct{}
	now      func() time.Time
}

// NewRunner creates a runner. archiver may be nil.
func NewRunner(store model.SagaStore, ctl Controller, archiver Archiver, cfg Config, logger *logger.Logger) *Runner {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.Lease <= 0 {
		cfg.Lease = def.Lease
	}
	if cfg.BackoffBase < 0 {
		cfg.BackoffBase = 0
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = cfg.BackoffBase
	}

	return &Runner{
		store:    store,
		ctl:      ctl,
		archiver: archiver,
		cfg:      cfg,
		logger:   logger,
		wake:     make(chan struct{}, 1),
		now:      time.Now,
	}
}

// Notify wakes the poll loop without waiting for the next tick.
func (r *Runner) Notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run polls for due tasks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Saga runner: started",
		"workers", r.cfg.Workers,
		"poll_interval", r.cfg.PollInterval.String(),
		"lease", r.cfg.Lease.String())

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := r.Poll(ctx); err != nil && ctx.Err() == nil {
			r.logger.Warn("Saga runner: poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			r.logger.Info("Saga runner: stopped")
			return nil
		case <-ticker.C:
		case <-r.wake:
		}
	}
}

// Poll claims one batch of due tasks and executes them. Tasks belong to
// different instances and run in parallel. It returns the number of tasks
// claimed.
func (r *Runner) Poll(ctx context.Context) (int, error) {
	tasks, err := r.store.Claim(ctx, r.now().UTC(), r.cfg.Lease, r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to claim tasks: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for _, task := range tasks {
		g.Go(func() error {
			if err := r.execute(gctx, task); err != nil {
				r.logger.Error("Saga runner: task failed",
					"instance_id", task.InstanceID,
					"step", task.Step,
					"attempt", task.Attempt,
					"error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return len(tasks), nil
}

// Drain polls until no due task is left or ctx is done.
func (r *Runner) Drain(ctx context.Context) error {
	for {
		n, err := r.Poll(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (r *Runner) execute(ctx context.Context, task model.SagaTask) (err error) {
	defer func() {
		if v := recover(); v != nil {
			r.logger.Error("Saga runner: step panic", "instance_id", task.InstanceID, "step", task.Step, "panic", v)
			err = r.retry(ctx, task, fmt.Sprintf("panic: %v", v))
		}
	}()

	inst, err := r.store.Get(ctx, task.InstanceID)
	if err != nil {
		return fmt.Errorf("failed to load instance: %w", err)
	}

	if err := r.ctl.Validate(inst, task.Step); err != nil {
		return r.park(ctx, task, err.Error())
	}

	// Expired leases count as attempts, so a redelivered task may already be
	// over budget.
	policy := r.ctl.Policy(task.Step)
	if policy.Bounded() && task.Attempt > policy.MaxAttempts {
		reason := fmt.Sprintf("attempt %d exceeds the limit of %d", task.Attempt, policy.MaxAttempts)
		return r.commit(ctx, task, inst.Status, r.ctl.Failover(inst, task.Step, policy, reason))
	}

	result := r.ctl.Invoke(ctx, inst, task.Step)
	decision, err := r.ctl.Decide(inst, task.Step, result)
	switch {
	case err == nil:
		return r.commit(ctx, task, inst.Status, decision)
	case !errors.Is(err, model.ErrStepFailed):
		return r.park(ctx, task, err.Error())
	}

	if policy.Bounded() && (task.Attempt >= policy.MaxAttempts || !result.Retryable()) {
		return r.commit(ctx, task, inst.Status, r.ctl.Failover(inst, task.Step, policy, result.Message))
	}
	if !result.Retryable() {
		return r.park(ctx, task, result.Message)
	}

	return r.retry(ctx, task, result.Message)
}

func (r *Runner) commit(ctx context.Context, task model.SagaTask, from model.SagaStatus, decision model.SagaDecision) error {
	err := r.store.Commit(ctx, task, from, decision)
	if errors.Is(err, model.ErrStaleTask) {
		r.logger.Warn("Saga runner: discarding stale commit", "instance_id", task.InstanceID, "step", task.Step)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to commit transition: %w", err)
	}

	r.logger.Info("Saga runner: transition committed",
		"instance_id", task.InstanceID,
		"step", task.Step,
		"from", from,
		"to", decision.Instance.Status,
		"next", decision.Next)

	if decision.Next != "" {
		r.Notify()
	}
	if decision.Instance.Status.Terminal() {
		r.archive(ctx, decision.Instance)
	}

	return nil
}

func (r *Runner) retry(ctx context.Context, task model.SagaTask, reason string) error {
	delay := r.backoff(task.Attempt)
	if err := r.store.Retry(ctx, task, task.Attempt+1, r.now().UTC().Add(delay)); err != nil {
		if errors.Is(err, model.ErrStaleTask) {
			return nil
		}
		return fmt.Errorf("failed to reschedule task: %w", err)
	}

	r.logger.Warn("Saga runner: step will be retried",
		"instance_id", task.InstanceID,
		"step", task.Step,
		"attempt", task.Attempt,
		"delay", delay.String(),
		"reason", reason)

	return nil
}

func (r *Runner) park(ctx context.Context, task model.SagaTask, reason string) error {
	if err := r.store.Park(ctx, task, reason); err != nil {
		if errors.Is(err, model.ErrStaleTask) {
			return nil
		}
		return fmt.Errorf("failed to park task: %w", err)
	}

	r.logger.Error("Saga runner: task parked",
		"instance_id", task.InstanceID,
		"step", task.Step,
		"reason", reason)

	return nil
}

func (r *Runner) archive(ctx context.Context, inst model.SagaInstance) {
	if r.archiver == nil {
		return
	}

	history, err := r.store.History(ctx, inst.UserID)
	if err != nil {
		r.logger.Warn("Saga runner: failed to load history for archive", "instance_id", inst.UserID, "error", err)
		return
	}
	if err := r.archiver.Archive(ctx, inst, history); err != nil {
		r.logger.Warn("Saga runner: failed to archive journal", "instance_id", inst.UserID, "error", err)
	}
}

// backoff doubles the base delay per attempt, capped at BackoffMax.
func (r *Runner) backoff(attempt int) time.Duration {
	delay := r.cfg.BackoffBase
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= r.cfg.BackoffMax {
			return r.cfg.BackoffMax
		}
	}
	return delay
}
