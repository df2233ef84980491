// errors.go - sentinel errors for the control API and task executor

package softcut

import "errors"

var (
	// ErrInvalidArgument is returned when a voice or buffer index is
	// out of range, or a parameter is outside its documented domain
	// (a negative duration where one is forbidden, etc). The call is
	// rejected before any command is enqueued.
	ErrInvalidArgument = errors.New("softcut: invalid argument")

	// ErrCapacity is returned when an operation that must not be
	// silently dropped (a buffer read) cannot be serviced because no
	// pool slot or event-queue slot is available.
	ErrCapacity = errors.New("softcut: at capacity")

	// ErrNotReady is returned by a Control not yet attached to a
	// constructed Engine — the zero value, or one built via
	// NewControl(nil) — rather than letting a call panic on a nil
	// engine.
	ErrNotReady = errors.New("softcut: not ready")

	// ErrCancelled is the cancellation sentinel a task's sleep or sync
	// returns after Clock.Cancel. The task executor recognises it and
	// treats it as clean termination rather than logging it as a
	// failure.
	ErrCancelled = errors.New("softcut: task cancelled")
)
