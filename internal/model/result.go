package model

// FailureReason classifies a failed step call.
type FailureReason string

const (
	ReasonAlreadyReserved FailureReason = "already_reserved"
	ReasonInvalidState    FailureReason = "invalid_state"
	ReasonTransport       FailureReason = "transport"
)

// Result is the normalized outcome of a step call. A zero Reason means success.
type Result struct {
	Reason  FailureReason
	Message string
}

// Success returns a successful result.
func Success() Result {
	return Result{Message: "done"}
}

// Failure returns a failed result with the given reason and message.
func Failure(reason FailureReason, message string) Result {
	return Result{Reason: reason, Message: message}
}

func (r Result) IsSuccess() bool {
	return r.Reason == ""
}

func (r Result) IsFailure() bool {
	return !r.IsSuccess()
}

// Retryable reports whether re-running the call may change the outcome.
func (r Result) Retryable() bool {
	return r.Reason == ReasonTransport
}
