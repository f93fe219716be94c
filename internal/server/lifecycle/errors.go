package lifecycle

import "errors"

// Errors surfaced on service replies. The texts are part of the wire
// contract with callers.
var (
	// ErrNotExistingApp covers requests naming an unknown app id.
	ErrNotExistingApp = errors.New("not exist")

	// ErrNotRunning covers pause requests for apps without a live
	// instance.
	ErrNotRunning = errors.New("app is not running")

	// ErrNoLifeHandler covers packages whose handler type has no
	// registered backend.
	ErrNoLifeHandler = errors.New("no valid life handler")

	// ErrInvalidStatus covers registration against a runtime status
	// other than Running or Registered.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrUnmatchedRegistration covers registration through the wrong
	// native interface version's method.
	ErrUnmatchedRegistration = errors.New("trying to register via unmatched method with nativeLifeCycleInterfaceVersion")

	// ErrLaunchingByUser rejects preload-only closes while a user
	// launch is in flight.
	ErrLaunchingByUser = errors.New("app is being launched by user")
)
