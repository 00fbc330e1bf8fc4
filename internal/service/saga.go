package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
)

// msgUserCreationFailed is the message recorded on a saga that was compensated.
const msgUserCreationFailed = "failed to create user"

// createUserMaxAttempts bounds create-user before the reservation is released.
const createUserMaxAttempts = 3

// EmailCommands is the part of the email ledger the saga drives.
type EmailCommands interface {
	Reserve(ctx context.Context, address, ownerID string) (model.EmailRecord, error)
	Confirm(ctx context.Context, address, ownerID string) (model.EmailRecord, error)
	UnReserve(ctx context.Context, address, ownerID string) (model.EmailRecord, error)
}

// UserCommands is the part of the user aggregate the saga drives.
type UserCommands interface {
	CreateUser(ctx context.Context, userID string, cmd model.CreateUserCommand) error
}

// Notifier is woken up whenever new work has been scheduled.
type Notifier interface {
	Notify()
}

type noopNotifier struct{}

func (noopNotifier) Notify() {}

// Saga drives user creation: reserve the email, create the user, confirm the
// email. A user that cannot be created releases the reservation.
type Saga struct {
	store    model.SagaStore
	emails   EmailCommands
	users    UserCommands
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time
}

func NewSaga(
	store model.SagaStore,
	emails EmailCommands,
	users UserCommands,
	logger *logger.Logger,
) *Saga {
	return &Saga{
		store:    store,
		emails:   emails,
		users:    users,
		notifier: noopNotifier{},
		logger:   logger,
		now:      time.Now,
	}
}

// SetNotifier registers the runtime to wake up after Start and Resume.
func (s *Saga) SetNotifier(n Notifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notifier = n
}

// Start creates the saga for userID, or returns the existing one unchanged.
func (s *Saga) Start(ctx context.Context, userID string, cmd model.CreateUserCommand) (model.SagaInstance, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.SagaInstance{}, fmt.Errorf("%w: user id is empty", model.ErrInvalidArgument)
	}
	email, err := NormalizeAddress(cmd.Email)
	if err != nil {
		return model.SagaInstance{}, err
	}
	cmd.Email = email

	now := s.now().UTC()
	inst := model.SagaInstance{
		UserID:    userID,
		Command:   cmd,
		Status:    model.SagaReservingEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, created, err := s.store.Create(ctx, inst, model.StepReserveEmail)
	if err != nil {
		return model.SagaInstance{}, fmt.Errorf("failed to create saga: %w", err)
	}

	if !created {
		s.logger.Debug("Saga: already started", "user_id", userID, "status", stored.Status)
		return stored, nil
	}

	s.logger.Info("Saga: started", "user_id", userID, "email", cmd.Email)
	s.notifier.Notify()

	return stored, nil
}

// GetState returns the current saga instance for userID.
func (s *Saga) GetState(ctx context.Context, userID string) (model.SagaInstance, error) {
	inst, err := s.store.Get(ctx, userID)
	if err != nil {
		return model.SagaInstance{}, fmt.Errorf("failed to get saga: %w", err)
	}
	return inst, nil
}

// GetHistory returns the committed transitions of the saga for userID.
func (s *Saga) GetHistory(ctx context.Context, userID string) ([]model.SagaTransition, error) {
	if _, err := s.store.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to get saga: %w", err)
	}

	history, err := s.store.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get saga history: %w", err)
	}
	return history, nil
}

// Resume retries the email reservation of a paused saga.
func (s *Saga) Resume(ctx context.Context, userID string) (model.SagaInstance, error) {
	inst, err := s.store.Reschedule(ctx, userID, model.SagaPaused, model.SagaReservingEmail, model.StepReserveEmail)
	if err != nil {
		return model.SagaInstance{}, fmt.Errorf("failed to resume saga: %w", err)
	}

	s.logger.Info("Saga: resumed", "user_id", userID)
	s.notifier.Notify()

	return inst, nil
}

// Policy returns the retry policy of step.
func (s *Saga) Policy(step model.SagaStep) model.RetryPolicy {
	if step == model.StepCreateUser {
		return model.RetryPolicy{
			MaxAttempts: createUserMaxAttempts,
			FailoverTo:  model.StepDeleteReservation,
		}
	}
	return model.RetryPolicy{}
}

// Invoke runs the remote call of step for inst. Errors and panics never
// escape: they are turned into a failed result.
func (s *Saga) Invoke(ctx context.Context, inst model.SagaInstance, step model.SagaStep) (result model.Result) {
	email := inst.Command.Email

	defer func() {
		if v := recover(); v != nil {
			s.logger.Error(fmt.Sprintf("step[%s]: panic", step), "user_id", inst.UserID, "panic", v)
			msg := fmt.Sprintf("panic: %v", v)
			if step == model.StepReserveEmail {
				msg = reserveFailedMessage(email)
			}
			result = model.Failure(model.ReasonTransport, msg)
		}
	}()

	switch step {
	case model.StepReserveEmail:
		s.logger.Info(fmt.Sprintf("step[%s]: reserving address", step), "user_id", inst.UserID, "email", email)
		if _, err := s.emails.Reserve(ctx, email, inst.UserID); err != nil {
			s.logger.Error(fmt.Sprintf("step[%s]: failed to reserve email", step), "user_id", inst.UserID, "email", email, "error", err)
			return model.Failure(reasonOf(err), reserveFailedMessage(email))
		}

	case model.StepCreateUser:
		s.logger.Info(fmt.Sprintf("step[%s]: creating user", step), "user_id", inst.UserID)
		if err := s.users.CreateUser(ctx, inst.UserID, inst.Command); err != nil {
			s.logger.Error(fmt.Sprintf("step[%s]: failed to create user", step), "user_id", inst.UserID, "error", err)
			return model.Failure(reasonOf(err), err.Error())
		}

	case model.StepConfirmEmail:
		s.logger.Info(fmt.Sprintf("step[%s]: confirming address", step), "user_id", inst.UserID, "email", email)
		if _, err := s.emails.Confirm(ctx, email, inst.UserID); err != nil {
			s.logger.Error(fmt.Sprintf("step[%s]: failed to confirm email", step), "user_id", inst.UserID, "email", email, "error", err)
			return model.Failure(reasonOf(err), err.Error())
		}

	case model.StepDeleteReservation:
		s.logger.Info(fmt.Sprintf("step[%s]: deleting email reservation", step), "user_id", inst.UserID, "email", email)
		if _, err := s.emails.UnReserve(ctx, email, inst.UserID); err != nil {
			s.logger.Error(fmt.Sprintf("step[%s]: failed to delete reservation", step), "user_id", inst.UserID, "email", email, "error", err)
			return model.Failure(reasonOf(err), err.Error())
		}

	default:
		return model.Failure(model.ReasonInvalidState, fmt.Sprintf("unknown step %q", step))
	}

	return model.Success()
}

// Decide computes the transition that follows result of step. It returns
// ErrStepFailed when the failure is left to the step's retry policy and
// ErrInvalidState when step does not apply to the instance status.
func (s *Saga) Decide(inst model.SagaInstance, step model.SagaStep, result model.Result) (model.SagaDecision, error) {
	if err := s.Validate(inst, step); err != nil {
		return model.SagaDecision{}, err
	}

	next := inst
	next.UpdatedAt = s.now().UTC()

	switch step {
	case model.StepReserveEmail:
		if result.IsFailure() {
			next.Status = model.SagaPaused
			next.ErrorMessage = result.Message
			return model.SagaDecision{Instance: next, Message: result.Message}, nil
		}
		next.Status = model.SagaCreatingUser
		return model.SagaDecision{Instance: next, Next: model.StepCreateUser}, nil

	case model.StepCreateUser:
		if result.IsFailure() {
			return model.SagaDecision{}, fmt.Errorf("%w: %s", model.ErrStepFailed, result.Message)
		}
		next.Status = model.SagaConfirmingEmail
		return model.SagaDecision{Instance: next, Next: model.StepConfirmEmail}, nil

	case model.StepConfirmEmail:
		if result.IsFailure() {
			return model.SagaDecision{}, fmt.Errorf("%w: %s", model.ErrStepFailed, result.Message)
		}
		next.Status = model.SagaFinished
		return model.SagaDecision{Instance: next}, nil

	default:
		if result.IsFailure() {
			return model.SagaDecision{}, fmt.Errorf("%w: %s", model.ErrStepFailed, result.Message)
		}
		next.Status = model.SagaFailed
		next.ErrorMessage = msgUserCreationFailed
		return model.SagaDecision{Instance: next, Message: msgUserCreationFailed}, nil
	}
}

// Validate checks that step may run for the current status of inst.
func (s *Saga) Validate(inst model.SagaInstance, step model.SagaStep) error {
	if expected, ok := stepStatus[step]; !ok || inst.Status != expected {
		return fmt.Errorf("%w: step %s does not apply to status %s", model.ErrInvalidState, step, inst.Status)
	}
	return nil
}

// Failover redirects inst to the compensating step of policy once the
// forward step ran out of attempts.
func (s *Saga) Failover(inst model.SagaInstance, step model.SagaStep, policy model.RetryPolicy, lastErr string) model.SagaDecision {
	inst.UpdatedAt = s.now().UTC()
	s.logger.Warn(fmt.Sprintf("step[%s]: retries exhausted, failing over", step),
		"user_id", inst.UserID,
		"failover", policy.FailoverTo,
		"error", lastErr)

	return model.SagaDecision{
		Instance: inst,
		Next:     policy.FailoverTo,
		Message:  lastErr,
	}
}

// stepStatus is the status an instance must be in for a step to run.
var stepStatus = map[model.SagaStep]model.SagaStatus{
	model.StepReserveEmail:      model.SagaReservingEmail,
	model.StepCreateUser:        model.SagaCreatingUser,
	model.StepConfirmEmail:      model.SagaConfirmingEmail,
	model.StepDeleteReservation: model.SagaCreatingUser,
}

func reserveFailedMessage(email string) string {
	return fmt.Sprintf("failed to reserve email: '%s'", email)
}

func reasonOf(err error) model.FailureReason {
	switch {
	case errors.Is(err, model.ErrAlreadyReserved):
		return model.ReasonAlreadyReserved
	case errors.Is(err, model.ErrInvalidState), errors.Is(err, model.ErrInvalidArgument):
		return model.ReasonInvalidState
	default:
		return model.ReasonTransport
	}
}
