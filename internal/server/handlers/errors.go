package handlers

import "errors"

var (
	// ErrAppNotRunning is returned when a close targets an
	// app the backend has no instance for.
	ErrAppNotRunning = errors.New("app is not running")

	// ErrPauseNotSupported is returned by backends that cannot deliver
	// a pause event to the app.
	ErrPauseNotSupported = errors.New("app cannot handle pause")

	// ErrRuntimeUnavailable is returned when the backing runtime
	// service is disconnected.
	ErrRuntimeUnavailable = errors.New("runtime service unavailable")

	// ErrAlreadyRegistered is returned when a native app registers a
	// second channel.
	ErrAlreadyRegistered = errors.New("app already registered")

	// ErrNotRegistered is returned when an operation needs a
	// registration channel that does not exist.
	ErrNotRegistered = errors.New("app not registered")
)
