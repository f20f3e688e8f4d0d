package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is returned for a status outside MediaListStatuses.
	ErrInvalidStatus = errors.New("invalid media list status")

	// ErrInvalidArgument is returned for caller input rejected before any call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedShape is returned by normalizers when an item is not a JSON object.
	ErrMalformedShape = errors.New("malformed provider payload")
)

// ServiceError is the single application-level error kind raised by
// authenticated operations. It carries the operation name and the cause.
type ServiceError struct {
	Op  string
	Err error
}

// NewServiceError wraps err for operation op.
func NewServiceError(op string, err error) *ServiceError {
	return &ServiceError{Op: op, Err: err}
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ErrorPolicy decides what an authenticated operation does with a provider failure.
type ErrorPolicy int

const (
	// PolicyPropagate wraps the failure in a ServiceError and returns it.
	PolicyPropagate ErrorPolicy = iota
	// PolicyLogAndSwallow logs the failure and reports success to the caller.
	PolicyLogAndSwallow
)

func (p ErrorPolicy) String() string {
	switch p {
	case PolicyPropagate:
		return "propagate"
	case PolicyLogAndSwallow:
		return "log_and_swallow"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}
