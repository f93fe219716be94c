package handlers

import (
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
)

// Interface guards
var (
	_ Handler         = (*NativeHandler)(nil)
	_ NativeRegistrar = (*NativeHandler)(nil)
)

// NativeClient is the process-level transport the native backend
// drives. Start blocks until the process is spawned and returns its
// pid; Terminate blocks until the process is gone.
type NativeClient interface {
	Start(appID string, params map[string]any) (pid string, err error)
	Terminate(pid string) error
}

// NativeHandler runs native apps through the process transport and
// keeps the registration channels of interface v1/v2 apps.
type NativeHandler struct {
	events Events
	post   Post
	client NativeClient
	logger *slog.Logger

	channels   map[string]Channel
	pids       map[string]string
	closeItems map[string]*appitem.CloseItem
}

// NewNativeHandler creates the native backend.
func NewNativeHandler(client NativeClient, events Events, post Post, handler slog.Handler) *NativeHandler {
	return &NativeHandler{
		events:     events,
		post:       post,
		client:     client,
		logger:     slog.New(handler).WithGroup("handlers.Native"),
		channels:   make(map[string]Channel),
		pids:       make(map[string]string),
		closeItems: make(map[string]*appitem.CloseItem),
	}
}

// Launch implements Handler. A registered app is relaunched over its
// channel; otherwise a new process is spawned.
func (h *NativeHandler) Launch(item *appitem.LaunchItem) {
	appID := item.AppID()
	uid := item.UID()

	if ch, ok := h.channels[appID]; ok {
		item.Logger().Info("relaunching registered native app")
		if err := ch.Send(map[string]any{
			"event":      "relaunch",
			"parameters": item.Params(),
			"reason":     item.Reason(),
		}); err != nil {
			item.SetError(appitem.ErrCodeLaunchGeneral, fmt.Sprintf("relaunch failed: %v", err))
		} else {
			item.SetPid(h.pids[appID])
			h.events.runtimeStatusChanged(appID, uid, router.RuntimeStatusRunning)
		}
		h.events.launchingDone(uid)
		return
	}

	go func() {
		pid, err := h.client.Start(appID, item.Params())
		h.post(func() {
			if err != nil {
				item.SetError(appitem.ErrCodeLaunchGeneral, fmt.Sprintf("failed to start: %v", err))
				h.events.launchingDone(uid)
				return
			}
			h.pids[appID] = pid
			item.SetPid(pid)
			h.events.runningAppAdded(appID, pid, "")
			h.events.runtimeStatusChanged(appID, uid, router.RuntimeStatusStarting)
			h.events.launchingDone(uid)
		})
	}()
}

// Close implements Handler.
func (h *NativeHandler) Close(item *appitem.CloseItem) error {
	appID := item.AppID()
	pid := item.Pid()
	if pid == "" {
		pid = h.pids[appID]
	}
	if pid == "" {
		return ErrAppNotRunning
	}

	h.closeItems[appID] = item
	h.events.runtimeStatusChanged(appID, "", router.RuntimeStatusClosing)

	go func() {
		err := h.client.Terminate(pid)
		h.post(func() {
			delete(h.closeItems, appID)
			if err != nil {
				h.logger.Error("terminate failed", "appId", appID, "pid", pid, "error", err)
			}
			h.dropInstance(appID)
		})
	}()
	return nil
}

// dropInstance clears local state and reports the terminal events.
// Safe to call for an app that already disappeared.
func (h *NativeHandler) dropInstance(appID string) {
	if ch, ok := h.channels[appID]; ok {
		_ = ch.Close()
		delete(h.channels, appID)
	}
	delete(h.pids, appID)
	h.events.runtimeStatusChanged(appID, "", router.RuntimeStatusStopped)
	h.events.runningAppRemoved(appID)
}

// Pause implements Handler. Only registered apps can receive the pause
// event over their channel.
func (h *NativeHandler) Pause(appID string, params map[string]any, reportEvent bool) error {
	ch, ok := h.channels[appID]
	if !ok {
		return ErrPauseNotSupported
	}

	if err := ch.Send(map[string]any{"event": "pause", "parameters": params}); err != nil {
		return fmt.Errorf("pause event send failed: %w", err)
	}

	if reportEvent {
		h.events.lifeStatusChanged(appID, "", router.LifeStatusPausing)
		h.post(func() {
			h.events.lifeStatusChanged(appID, "", router.LifeStatusPaused)
		})
	}
	return nil
}

// RegisterApp implements NativeRegistrar. Registration flips the app's
// runtime status to Registered; the version and status guards live in
// the lifecycle manager.
func (h *NativeHandler) RegisterApp(appID string, ch Channel) error {
	if _, ok := h.channels[appID]; ok {
		return ErrAlreadyRegistered
	}
	h.channels[appID] = ch
	h.events.runtimeStatusChanged(appID, "", router.RuntimeStatusRegistered)
	h.logger.Info("native app registered", "appId", appID)
	return nil
}
