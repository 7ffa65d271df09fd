package cart

import (
	"errors"
	"fmt"
)

// Sentinel errors for the cart boundary. Wrapped errors are classified with
// the Is* helpers below; nothing at the view layer inspects status codes.
var (
	// ErrTransport means the storefront could not be reached at all.
	ErrTransport = errors.New("storefront unreachable")
	// ErrUnauthorized means the session token was missing or rejected.
	// The only error with a global side effect: callers tear down the
	// session and discard local cart and chat state.
	ErrUnauthorized = errors.New("session unauthorized")
	// ErrInvalidVariant means a size/color selection failed validation
	// before any request was sent.
	ErrInvalidVariant = errors.New("invalid variant selection")
	// ErrConflictingMutation means a mutation is already in flight for the
	// same line key. The caller must wait for it to settle and retry.
	ErrConflictingMutation = errors.New("mutation already pending for this line")
)

// Op identifies one remote cart operation.
type Op string

const (
	OpFetch  Op = "fetch"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// OpError is a failed remote cart operation tagged with the operation that
// produced it, so every failure path is handled as a closed variant rather
// than a loosely-typed response shape.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("cart %s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError wraps err as a failure of op.
func NewOpError(op Op, err error) error {
	return &OpError{Op: op, Err: err}
}

// OpOf returns the operation a cart error belongs to.
func OpOf(err error) (Op, bool) {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Op, true
	}
	return "", false
}

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsUnauthorized reports whether err invalidates the session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsInvalidVariant reports whether err is a local variant validation failure.
func IsInvalidVariant(err error) bool {
	return errors.Is(err, ErrInvalidVariant)
}

// IsConflict reports whether err is a rejected concurrent mutation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflictingMutation)
}
