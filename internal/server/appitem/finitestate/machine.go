// Package finitestate provides the state machine tracking a launch
// item's trip through the pipeline.
//
// Launch pipeline:
//  1. Created - item built from the request, not yet scheduled
//  2. Prelaunch - resolving package metadata and splash decisions
//  3. MemoryCheck - waiting for the memory manager's verdict
//  4. Launch - handed to the runtime backend
//  5. Done - finished; the reply has been posted (terminal)
//
// Stages only move forward; an error at any stage jumps straight to
// Done.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

// Stage constants for the launch pipeline.
const (
	StageCreated     = "created"
	StagePrelaunch   = "prelaunch"
	StageMemoryCheck = "memory-check"
	StageLaunch      = "launch"
	StageDone        = "done"
)

// ErrInvalidStateTransition is returned when a stage move would go
// backwards or skip a step illegally.
var ErrInvalidStateTransition = fsm.ErrInvalidStateTransition

// StageTransitions defines the legal pipeline moves. Every stage may
// jump to Done on error.
var StageTransitions = map[string][]string{
	StageCreated:     {StagePrelaunch, StageDone},
	StagePrelaunch:   {StageMemoryCheck, StageDone},
	StageMemoryCheck: {StageLaunch, StageDone},
	StageLaunch:      {StageDone},
	StageDone:        {},
}

// Machine defines the interface the launch item uses to track its
// pipeline stage.
type Machine interface {
	// Transition attempts to move the pipeline to the given stage.
	Transition(state string) error

	// TransitionBool attempts the move and reports success.
	TransitionBool(state string) bool

	// GetState returns the current stage.
	GetState() string

	// GetStateChan returns a channel that emits the stage whenever it
	// changes. The channel is closed when the context is canceled.
	GetStateChan(ctx context.Context) <-chan string
}

// StageFSM embeds fsm.Machine and overrides GetStateChan for sync
// broadcast so stage observers are not dropped during teardown.
type StageFSM struct {
	*fsm.Machine
}

// GetStateChan returns a sync broadcast channel with a 5-second timeout.
func (m *StageFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, fsm.WithSyncTimeout(5*time.Second))
}

// New creates a pipeline stage machine starting at Created.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StageCreated, StageTransitions)
	if err != nil {
		return nil, err
	}
	return &StageFSM{Machine: machine}, nil
}
