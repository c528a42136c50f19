package appstate

import "errors"

var (
	// ErrInvalidStateTransition means the lifecycle was asked to move backwards or skip a step.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrAlreadyTerminated is returned by any state change after Terminated.
	ErrAlreadyTerminated = errors.New("application already terminated")

	// ErrNilComponent is returned when a nil shutdowner is registered.
	ErrNilComponent = errors.New("nil component")
)
