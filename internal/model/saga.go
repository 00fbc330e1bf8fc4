package model

import (
	"context"
	"time"
)

// SagaStatus is the state of a user creation saga.
type SagaStatus string

const (
	// SagaReservingEmail is the initial state, the email reservation is in flight.
	SagaReservingEmail SagaStatus = "RESERVING_EMAIL"
	// SagaCreatingUser means the email is reserved and the user is being created.
	SagaCreatingUser SagaStatus = "CREATING_USER"
	// SagaConfirmingEmail means the user exists and the reservation is being confirmed.
	SagaConfirmingEmail SagaStatus = "CONFIRMING_EMAIL"
	// SagaFinished is terminal success.
	SagaFinished SagaStatus = "FINISHED"
	// SagaPaused stops automatic progress until an operator resumes the saga.
	SagaPaused SagaStatus = "PAUSED"
	// SagaFailed is terminal failure, the reservation was released.
	SagaFailed SagaStatus = "FAILED"
)

// Terminal reports whether no further transition is defined from s.
func (s SagaStatus) Terminal() bool {
	return s == SagaFinished || s == SagaFailed
}

// SagaStep names a step of the user creation saga.
type SagaStep string

const (
	StepReserveEmail      SagaStep = "reserve-email"
	StepCreateUser        SagaStep = "create-user"
	StepConfirmEmail      SagaStep = "confirm-email"
	StepDeleteReservation SagaStep = "delete-reservation-email"
)

// CreateUserCommand is the original request that started a saga.
type CreateUserCommand struct {
	Name    string
	Country string
	Email   string
}

// SagaInstance is the persisted state of one saga, keyed by user ID.
type SagaInstance struct {
	UserID       string
	Command      CreateUserCommand
	Status       SagaStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RetryPolicy bounds how often the runtime re-invokes a failing step.
// MaxAttempts of zero means unbounded.
type RetryPolicy struct {
	MaxAttempts int
	FailoverTo  SagaStep
}

// Bounded reports whether the policy gives up after MaxAttempts.
func (p RetryPolicy) Bounded() bool {
	return p.MaxAttempts > 0
}

// SagaDecision is the outcome of a transition: the new instance state and the
// step to schedule next. An empty Next means the saga stops here.
type SagaDecision struct {
	Instance SagaInstance
	Next     SagaStep
	Message  string
}

// SagaTask is a scheduled step execution. There is at most one per instance.
type SagaTask struct {
	InstanceID string
	Step       SagaStep
	Attempt    int
	RunAt      time.Time
	LeaseID    string
	Parked     bool
	LastError  string
}

// SagaTransition is one entry of an instance's append-only journal.
type SagaTransition struct {
	InstanceID string
	Seq        int
	Step       SagaStep
	From       SagaStatus
	To         SagaStatus
	Next       SagaStep
	Message    string
	At         time.Time
}

// SagaStore persists saga instances together with their pending task.
type SagaStore interface {
	// Create stores inst and schedules first, unless an instance with the same
	// ID exists. It returns the stored instance and whether it was created.
	Create(ctx context.Context, inst SagaInstance, first SagaStep) (SagaInstance, bool, error)
	Get(ctx context.Context, id string) (SagaInstance, error)
	// Claim leases up to limit due tasks until now+lease.
	Claim(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]SagaTask, error)
	// Commit atomically stores the decision, journals the transition, removes
	// task and schedules decision.Next. It fails with ErrStaleTask when the
	// lease no longer matches.
	Commit(ctx context.Context, task SagaTask, from SagaStatus, decision SagaDecision) error
	// Retry reschedules task with the given attempt number.
	Retry(ctx context.Context, task SagaTask, attempt int, runAt time.Time) error
	// Park stops automatic delivery of task.
	Park(ctx context.Context, task SagaTask, reason string) error
	// Reschedule replaces the status of a paused instance and schedules step.
	Reschedule(ctx context.Context, id string, from SagaStatus, to SagaStatus, step SagaStep) (SagaInstance, error)
	History(ctx context.Context, id string) ([]SagaTransition, error)
}
