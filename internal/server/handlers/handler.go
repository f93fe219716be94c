// Package handlers defines the uniform contract every runtime backend
// satisfies and the concrete native, web and qml backends. Backends
// are asynchronous: calls return immediately and completion arrives
// through the Events callbacks, posted onto the lifecycle manager's
// dispatch loop.
package handlers

import (
	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
)

// Post schedules a function onto the lifecycle dispatch loop.
type Post func(func())

// Events are the signals a backend emits. The lifecycle manager wires
// every field before the backend is used; backends must tolerate nil
// fields in tests.
type Events struct {
	// RunningAppAdded fires when the backend has a live instance.
	// pid or webProcessID may be empty depending on the backend.
	RunningAppAdded func(appID, pid, webProcessID string)

	// RunningAppRemoved fires when the instance is gone.
	RunningAppRemoved func(appID string)

	// RuntimeStatusChanged reports backend execution phases; uid is
	// the launch correlation id when known, empty otherwise.
	RuntimeStatusChanged func(appID, uid string, status router.RuntimeStatus)

	// LifeStatusChanged reports life-status candidates that have no
	// runtime-status equivalent (Pausing, Paused). The manager still
	// routes them through the transition policy.
	LifeStatusChanged func(appID, uid string, candidate router.LifeStatus)

	// LaunchingDone fires exactly once per launch item handed to
	// Launch, error or not.
	LaunchingDone func(uid string)
}

func (e *Events) runningAppAdded(appID, pid, webProcessID string) {
	if e.RunningAppAdded != nil {
		e.RunningAppAdded(appID, pid, webProcessID)
	}
}

func (e *Events) runningAppRemoved(appID string) {
	if e.RunningAppRemoved != nil {
		e.RunningAppRemoved(appID)
	}
}

func (e *Events) runtimeStatusChanged(appID, uid string, status router.RuntimeStatus) {
	if e.RuntimeStatusChanged != nil {
		e.RuntimeStatusChanged(appID, uid, status)
	}
}

func (e *Events) lifeStatusChanged(appID, uid string, candidate router.LifeStatus) {
	if e.LifeStatusChanged != nil {
		e.LifeStatusChanged(appID, uid, candidate)
	}
}

func (e *Events) launchingDone(uid string) {
	if e.LaunchingDone != nil {
		e.LaunchingDone(uid)
	}
}

// Handler is the capability set required of any runtime backend.
type Handler interface {
	// Launch starts the app asynchronously; completion arrives via
	// RunningAppAdded, RuntimeStatusChanged and LaunchingDone.
	Launch(item *appitem.LaunchItem)

	// Close stops the app asynchronously; the returned error covers
	// only synchronous rejection.
	Close(item *appitem.CloseItem) error

	// Pause suspends the app; Pausing/Paused transitions are emitted
	// only when reportEvent is set.
	Pause(appID string, params map[string]any, reportEvent bool) error
}

// Channel is the caller-side conduit attached to a registered native
// app.
type Channel interface {
	Send(payload map[string]any) error
	Close() error
}

// NativeRegistrar is implemented by backends that support the native
// app registration handshake.
type NativeRegistrar interface {
	RegisterApp(appID string, ch Channel) error
}
