package pkg

import (
	"errors"
	"fmt"
)

// Failure classes. An [*OpError] always matches exactly one of these.
var (
	// ErrInit indicates a handle (snapshot, link database, instance map)
	// could not be acquired.
	ErrInit = errors.New("initialization failed")

	// ErrStep indicates a single advance of a walker failed.
	ErrStep = errors.New("walk step failed")

	// ErrResolve indicates a device-filesystem path could not be computed.
	ErrResolve = errors.New("path resolution failed")

	// ErrWalk indicates a device-link enumeration reported failure.
	ErrWalk = errors.New("link walk failed")
)

// Conditions.
var (
	// ErrReleased indicates a handle, or a view derived from it, was used
	// after its owner was closed.
	ErrReleased = errors.New("handle already released")

	// ErrNotSupported indicates the device tree is not available on this
	// platform.
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// OpError records a failed operation, its failure class, and the
// underlying cause reported by the provider.
type OpError struct {
	Op   string // Provider operation, e.g. "di_init"
	Kind error  // One of ErrInit, ErrStep, ErrResolve, ErrWalk
	Err  error  // Underlying cause, usually a syscall.Errno
}

// NewOpError returns an OpError for op of the given kind.
func NewOpError(op string, kind, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// Error implements error.
func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns both the failure class and the cause so that
// [errors.Is] matches either.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IntegrityError is the panic value used when the external source reports a
// raw value outside the set it is documented to produce.
type IntegrityError struct {
	What string // Field being decoded, e.g. "spec type"
	Raw  int64  // Offending raw value
}

// Error implements error.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("unknown %s 0x%x", e.What, e.Raw)
}
