package memspeed

import (
	"errors"
	"fmt"

	"github.com/hupe1980/memspeed/internal/workload"
)

var (
	// ErrInvalidScale is returned when a scale factor is not positive or
	// would overflow a workload parameter.
	ErrInvalidScale = errors.New("invalid scale factor")

	// ErrInvalidThreads is returned when the gc-stress worker count is not
	// positive.
	ErrInvalidThreads = errors.New("thread count must be positive")

	// ErrVerification is returned (wrapped) when a workload self-check fails.
	ErrVerification = workload.ErrVerification
)

// WorkloadError reports a failed workload.
//
// The underlying error can be accessed via errors.Unwrap.
type WorkloadError struct {
	Workload string
	cause    error
}

func (e *WorkloadError) Error() string {
	return fmt.Sprintf("workload %s: %v", e.Workload, e.cause)
}

func (e *WorkloadError) Unwrap() error { return e.cause }

// ScaleError describes a rejected scale argument.
//
// ParseScale returns it together with DefaultScale; it is a warning, not a
// failure.
type ScaleError struct {
	Input string
	cause error
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("invalid scale factor %q: %v", e.Input, e.cause)
}

func (e *ScaleError) Unwrap() error { return e.cause }
