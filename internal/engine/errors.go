package engine

import (
	"errors"
	"fmt"
)

// Domain errors for loop operations.
var (
	// ErrInvalidState indicates a lifecycle operation was called in a state that does not allow it.
	ErrInvalidState = errors.New("engine: invalid state")

	// ErrUnsupportedShape indicates a drawer was asked to render a shape kind it does not know.
	ErrUnsupportedShape = errors.New("engine: unsupported shape")

	// ErrInvalidConfig indicates a loop parameter outside its valid range.
	ErrInvalidConfig = errors.New("engine: invalid config")

	// ErrNilMessage indicates a nil message was posted.
	ErrNilMessage = errors.New("engine: nil message")

	// ErrNilActor indicates a nil actor was added to the registry.
	ErrNilActor = errors.New("engine: nil actor")
)

// StateError reports the lifecycle operation that failed and the state the world was in.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("engine: cannot %s while %s", e.Op, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}

// UnsupportedShapeError is returned by shape drawers for kinds they cannot render.
type UnsupportedShapeError struct {
	Kind string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("engine: can not draw shape: %s", e.Kind)
}

func (e *UnsupportedShapeError) Unwrap() error {
	return ErrUnsupportedShape
}

// MessageError wraps a failure returned by a message's Apply. It stops the loop.
type MessageError struct {
	Frame    uint64
	Priority int
	Wrapped  error
}

func (e *MessageError) Error() string {
	return fmt.Sprintf("engine: message (priority %d) failed in frame %d: %v", e.Priority, e.Frame, e.Wrapped)
}

func (e *MessageError) Unwrap() error {
	return e.Wrapped
}
