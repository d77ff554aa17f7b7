package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateIdentifier is returned when a signal or section UID is already in use.
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

// ErrUnknownSignal is returned when an operation or mapping references a signal
// that is not registered in the experiment.
var ErrUnknownSignal = errors.New("unknown experiment signal")

// ErrNoActiveScope is returned when a leaf operation is issued with no open section.
var ErrNoActiveScope = errors.New("no active section scope")

// ErrEmptyScopeStack signals an unbalanced push/pop of the scope stack.
// It is an internal consistency failure; the experiment must not be reused.
var ErrEmptyScopeStack = errors.New("internal error: section stack is empty, unbalanced push/pop")

// ErrUnbalancedScope is returned when a scope other than the innermost one is
// closed. The stack is left as it was.
var ErrUnbalancedScope = errors.New("scope closed out of order")

// ErrScopeClosed is returned when a scope handle is closed a second time.
var ErrScopeClosed = errors.New("scope already closed")

// ErrNoRealtimeScope is returned when an acquisition is issued outside any real-time section.
var ErrNoRealtimeScope = errors.New("no surrounding real-time section")

// ErrInvalidNesting is returned for illegal section nesting.
var ErrInvalidNesting = errors.New("invalid section nesting")

// ErrArityMismatch is returned when sweep parameters have different lengths.
var ErrArityMismatch = errors.New("sweep parameter arity mismatch")

// ErrUnknownCallback is returned when a call names a near-time callback that
// is not registered.
var ErrUnknownCallback = errors.New("unknown near-time callback")

// ErrInvalidArgument is returned when mutually exclusive or jointly required
// fields are violated.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidEnum(kind, value string) error {
	return fmt.Errorf("unknown %s %q: %w", kind, value, ErrInvalidArgument)
}
