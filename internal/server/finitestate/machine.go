// Package finitestate tracks the run states of the service's
// long-lived runnable (the lifecycle runner).
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew       = fsm.StatusNew
	StatusBooting   = fsm.StatusBooting
	StatusRunning   = fsm.StatusRunning
	StatusReloading = fsm.StatusReloading
	StatusStopping  = fsm.StatusStopping
	StatusStopped   = fsm.StatusStopped
	StatusError     = fsm.StatusError
	StatusUnknown   = fsm.StatusUnknown
)

// TypicalTransitions is the standard runnable lifecycle.
var TypicalTransitions = fsm.TypicalTransitions

// Machine is the interface runnables use to track their own state.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// TransitionBool attempts the transition and reports success.
	TransitionBool(state string) bool

	// TransitionIfCurrentState transitions only from the given current state.
	TransitionIfCurrentState(currentState, newState string) error

	// SetState forces the state machine to the specified state.
	SetState(state string) error

	// GetState returns the current state.
	GetState() string

	// GetStateChan returns a channel emitting the state on every
	// change. The channel is closed when the context is canceled.
	GetStateChan(ctx context.Context) <-chan string
}

// RunnerFSM embeds fsm.Machine and overrides GetStateChan for sync
// broadcast so state updates are delivered during shutdown.
type RunnerFSM struct {
	*fsm.Machine
}

// GetStateChan returns a sync broadcast channel with a 5-second timeout.
func (m *RunnerFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, fsm.WithSyncTimeout(5*time.Second))
}

// New creates a runnable state machine using the standard transitions.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StatusNew, TypicalTransitions)
	if err != nil {
		return nil, err
	}
	return &RunnerFSM{Machine: machine}, nil
}
