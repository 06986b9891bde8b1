package dispatch

import (
	"errors"
	"fmt"

	"github.com/five82/encore/internal/state"
)

var (
	// ErrPrecondition matches every *PreconditionError.
	ErrPrecondition = errors.New("precondition violated")
	// ErrTimeout is reported when an action outlives the watchdog.
	ErrTimeout = errors.New("action timed out")
)

// PreconditionError reports an action dispatched against a state it cannot
// handle. It is a programming error, not a runtime condition.
type PreconditionError struct {
	Reason string
}

// Preconditionf builds a *PreconditionError.
func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

func (e *PreconditionError) Error() string {
	return "precondition violated: " + e.Reason
}

// Is makes errors.Is(err, ErrPrecondition) match.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// FaultKind classifies a fault.
type FaultKind int

const (
	FaultFailure FaultKind = iota
	FaultPrecondition
	FaultTimeout
)

func (k FaultKind) String() string {
	switch k {
	case FaultPrecondition:
		return "precondition"
	case FaultTimeout:
		return "timeout"
	default:
		return "failure"
	}
}

// Fault describes an action that failed, violated a precondition or stalled.
type Fault struct {
	Kind      FaultKind
	Action    string
	Signature state.Signature
	Err       error
}

func (f Fault) Error() string {
	return fmt.Sprintf("action %s: %s: %v", f.Action, f.Kind, f.Err)
}

// Unwrap returns the underlying error.
func (f Fault) Unwrap() error { return f.Err }

func classify(err error) FaultKind {
	switch {
	case errors.Is(err, ErrPrecondition):
		return FaultPrecondition
	case errors.Is(err, ErrTimeout):
		return FaultTimeout
	default:
		return FaultFailure
	}
}
