package sequent

import (
	"errors"
	"fmt"

	"github.com/sequent-ai/sequent/knowledge"
)

// Sentinel errors for common engine error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrEmptySequence indicates learn was called on an empty working
	// memory. Rejected rather than ignored so caller bugs surface.
	ErrEmptySequence = knowledge.ErrEmptySequence

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = knowledge.ErrNotFound

	// ErrInvalidConfiguration indicates an out-of-range processor
	// configuration: non-positive max predictions or a recall threshold
	// outside [0, 1].
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidProcessorID indicates an empty processor identity.
	ErrInvalidProcessorID = errors.New("invalid processor id")

	// ErrEngineClosed indicates an operation on a closed engine.
	ErrEngineClosed = errors.New("engine closed")
)

// Error kinds categorize errors by their type.
const (
	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindNotFound represents errors where a resource was not found.
	KindNotFound = "not_found"

	// KindStorage represents errors from the persistence backend.
	KindStorage = "storage"
)

// Error is a structured error type that wraps underlying errors with the
// operation that failed and the category of error.
//
// Error implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
type Error struct {
	// Op is the operation that failed (e.g., "Engine.Learn").
	Op string

	// Kind categorizes the error (e.g., KindValidation).
	Kind string

	// Processor is the processor identity the operation targeted.
	Processor string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Processor != "" {
		return fmt.Sprintf("sequent: %s (%s) [processor %s]: %v", e.Op, e.Kind, e.Processor, e.Err)
	}
	return fmt.Sprintf("sequent: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and
// errors.As() to work through the wrapper.
func (e *Error) Unwrap() error {
	return e.Err
}

// opError wraps err with operation context, passing nil through.
func opError(op, kind, processor string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Processor: processor, Err: err}
}
