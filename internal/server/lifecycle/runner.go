package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/atlanticdynamic/appmand/internal/server/finitestate"
	"github.com/atlanticdynamic/appmand/internal/server/handlers"
	"github.com/robbyt/go-supervisor/supervisor"
)

// Interface guards: ensure Runner implements these interfaces
var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// Runner owns the dispatch loop and exposes the manager's entry
// points to the service bus. Public methods post onto the loop so all
// lifecycle state stays loop-confined.
type Runner struct {
	manager *Manager
	loop    *Loop
	logger  *slog.Logger

	wg        sync.WaitGroup
	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context

	fsm finitestate.Machine
}

// NewRunner wraps a manager and its loop.
func NewRunner(manager *Manager, loop *Loop, opts ...Option) (*Runner, error) {
	if manager == nil {
		return nil, fmt.Errorf("manager cannot be nil")
	}
	if loop == nil {
		return nil, fmt.Errorf("loop cannot be nil")
	}

	r := &Runner{
		manager:   manager,
		loop:      loop,
		logger:    slog.Default().WithGroup("lifecycle.Runner"),
		parentCtx: context.Background(),
	}

	for _, opt := range opts {
		opt(r)
	}

	fsm, err := finitestate.New(r.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	r.fsm = fsm

	return r, nil
}

// Run implements supervisor.Runnable: it drains the dispatch loop
// until the context is cancelled or Stop is called.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	r.runCtx, r.runCancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.loop.Run(r.runCtx)
	}()

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	select {
	case <-r.parentCtx.Done():
		r.logger.Debug("parent context canceled")
		r.runCancel()
	case <-r.runCtx.Done():
		r.logger.Debug("run context canceled")
	}

	r.logger.Info("lifecycle runner shutting down")

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("failed to transition to stopping state", "error", err)
		}
	}

	r.wg.Wait()

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// String returns the name of this runnable component.
func (r *Runner) String() string {
	return "lifecycle.Runner"
}

// Stop gracefully stops the dispatch loop.
func (r *Runner) Stop() {
	r.logger.Debug("stopping lifecycle runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Error("failed to transition to stopping state", "error", err)
	}
	if r.runCancel != nil {
		r.runCancel()
	}
}

// GetState implements supervisor.Stateable.
func (r *Runner) GetState() string {
	return r.fsm.GetState()
}

// GetStateChan implements supervisor.Stateable.
func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.fsm.GetStateChan(ctx)
}

// IsRunning reports whether the runner reached its running state.
func (r *Runner) IsRunning() bool {
	return r.fsm.GetState() == finitestate.StatusRunning
}

// --- bus-facing entry points, serialized via the loop ---

// Launch posts a launch request onto the loop.
func (r *Runner) Launch(task *Task) {
	r.loop.Post(func() { r.manager.Launch(task) })
}

// Pause posts a pause request onto the loop.
func (r *Runner) Pause(task *Task) {
	r.loop.Post(func() { r.manager.Pause(task) })
}

// Close posts a close request onto the loop.
func (r *Runner) Close(task *Task) {
	r.loop.Post(func() { r.manager.Close(task) })
}

// CloseAll posts a close-all request onto the loop.
func (r *Runner) CloseAll(task *Task) {
	r.loop.Post(func() { r.manager.CloseAll(task) })
}

// RegisterApp runs a v2 native registration on the loop and waits for
// the verdict.
func (r *Runner) RegisterApp(appID string, ch handlers.Channel) error {
	var err error
	r.loop.PostWait(func() { err = r.manager.RegisterApp(appID, ch) })
	return err
}

// ConnectNativeApp runs a v1 native registration on the loop and
// waits for the verdict.
func (r *Runner) ConnectNativeApp(appID string, ch handlers.Channel) error {
	var err error
	r.loop.PostWait(func() { err = r.manager.ConnectNativeApp(appID, ch) })
	return err
}

// ForegroundInfoChanged posts a window manager snapshot onto the loop.
func (r *Runner) ForegroundInfoChanged(payload map[string]any) {
	r.loop.Post(func() { r.manager.OnForegroundInfoChanged(payload) })
}

// WebRuntimeStatusChanged posts a web runtime connect/disconnect onto
// the loop.
func (r *Runner) WebRuntimeStatusChanged(connected bool) {
	r.loop.Post(func() { r.manager.OnWebRuntimeStatusChanged(connected) })
}

// BridgedLaunchReturn posts a bridged launch decision onto the loop.
func (r *Runner) BridgedLaunchReturn(params map[string]any) {
	r.loop.Post(func() { r.manager.HandleBridgedLaunchRequest(params) })
}

// CloseByAppID runs a direct close on the loop and waits for the
// verdict.
func (r *Runner) CloseByAppID(appID, callerID, reason string, preloadOnly, clearAllItems bool) error {
	var err error
	r.loop.PostWait(func() {
		err = r.manager.CloseByAppID(appID, callerID, reason, preloadOnly, clearAllItems)
	})
	return err
}

// CloseAllLoadingApps cancels every in-flight launch on the loop.
func (r *Runner) CloseAllLoadingApps() {
	r.loop.Post(r.manager.CloseAllLoadingApps)
}

// ForegroundAppInfo returns the current foreground snapshot, answering
// forwarded getForegroundAppInfo requests.
func (r *Runner) ForegroundAppInfo() []map[string]any {
	var info []map[string]any
	r.loop.PostWait(func() { info = r.manager.Registry().ForegroundInfo() })
	return info
}
