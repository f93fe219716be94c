package busclient

import (
	"context"
	"fmt"
	"log/slog"
)

const lsmService = "com.webos.surfacemanager"

// LSM subscribes to the window manager's foreground snapshots and the
// app launch environment.
type LSM struct {
	Base

	// EventForegroundAppInfoChanged receives every foreground snapshot
	// payload.
	EventForegroundAppInfoChanged func(payload map[string]any)

	envPulseServer    string
	envWaylandDisplay string
	envXdgRuntimeDir  string
}

// NewLSM creates the window manager client.
func NewLSM(caller Caller, handler slog.Handler) *LSM {
	return &LSM{
		Base: NewBase(lsmService, caller, handler),
	}
}

// Start subscribes to foreground info and fetches the launch
// environment.
func (l *LSM) Start(ctx context.Context) error {
	ch, err := l.caller.Subscribe(ctx, lsmService, "getForegroundAppInfo", map[string]any{
		"subscribe": true,
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to foreground info: %w", err)
	}

	go func() {
		for payload := range ch {
			if l.EventForegroundAppInfoChanged != nil {
				l.EventForegroundAppInfoChanged(payload)
			}
		}
	}()

	reply, err := l.caller.Call(ctx, lsmService, "getAppLaunchEnvironment", map[string]any{})
	if err != nil {
		l.logger.Warn("failed to fetch app launch environment", "error", err)
		return nil
	}
	l.envPulseServer, _ = reply["PULSE_SERVER"].(string)
	l.envWaylandDisplay, _ = reply["WAYLAND_DISPLAY"].(string)
	l.envXdgRuntimeDir, _ = reply["XDG_RUNTIME_DIR"].(string)
	return nil
}

// EnvPulseServer returns the PULSE_SERVER value of the launch
// environment snapshot.
func (l *LSM) EnvPulseServer() string { return l.envPulseServer }

// EnvWaylandDisplay returns the WAYLAND_DISPLAY value.
func (l *LSM) EnvWaylandDisplay() string { return l.envWaylandDisplay }

// EnvXdgRuntimeDir returns the XDG_RUNTIME_DIR value.
func (l *LSM) EnvXdgRuntimeDir() string { return l.envXdgRuntimeDir }
