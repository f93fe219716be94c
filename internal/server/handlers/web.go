package handlers

import (
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
)

var _ Handler = (*WebHandler)(nil)

// WebClient is the web application manager transport.
type WebClient interface {
	LaunchApp(appID string, params map[string]any) (webProcessID string, err error)
	KillApp(appID string) error
	PauseApp(appID string, params map[string]any) error
}

// WebHandler runs web apps through the web application manager. Web
// instances have no pid of their own; the web process id stands in.
type WebHandler struct {
	events Events
	post   Post
	client WebClient
	logger *slog.Logger

	connected  bool
	closeItems map[string]*appitem.CloseItem
}

// NewWebHandler creates the web backend.
func NewWebHandler(client WebClient, events Events, post Post, handler slog.Handler) *WebHandler {
	return &WebHandler{
		events:     events,
		post:       post,
		client:     client,
		logger:     slog.New(handler).WithGroup("handlers.Web"),
		closeItems: make(map[string]*appitem.CloseItem),
	}
}

// SetConnected records whether the web runtime service is reachable.
func (h *WebHandler) SetConnected(connected bool) {
	h.connected = connected
	h.logger.Info("web runtime status changed", "connected", connected)
}

// Connected reports whether the web runtime service is reachable.
func (h *WebHandler) Connected() bool { return h.connected }

// Launch implements Handler.
func (h *WebHandler) Launch(item *appitem.LaunchItem) {
	appID := item.AppID()
	uid := item.UID()

	if !h.connected {
		item.SetError(appitem.ErrCodeLaunchGeneral, ErrRuntimeUnavailable.Error())
		h.events.launchingDone(uid)
		return
	}

	go func() {
		webProcessID, err := h.client.LaunchApp(appID, item.Params())
		h.post(func() {
			if err != nil {
				item.SetError(appitem.ErrCodeLaunchGeneral, fmt.Sprintf("web launch failed: %v", err))
				h.events.launchingDone(uid)
				return
			}
			h.events.runningAppAdded(appID, "", webProcessID)
			h.events.runtimeStatusChanged(appID, uid, router.RuntimeStatusRunning)
			h.events.launchingDone(uid)
		})
	}()
}

// Close implements Handler.
func (h *WebHandler) Close(item *appitem.CloseItem) error {
	if !h.connected {
		return ErrRuntimeUnavailable
	}

	appID := item.AppID()
	h.closeItems[appID] = item
	h.events.runtimeStatusChanged(appID, "", router.RuntimeStatusClosing)

	go func() {
		err := h.client.KillApp(appID)
		h.post(func() {
			delete(h.closeItems, appID)
			if err != nil {
				h.logger.Error("kill failed", "appId", appID, "error", err)
			}
			h.events.runtimeStatusChanged(appID, "", router.RuntimeStatusStopped)
			h.events.runningAppRemoved(appID)
		})
	}()
	return nil
}

// Pause implements Handler.
func (h *WebHandler) Pause(appID string, params map[string]any, reportEvent bool) error {
	if !h.connected {
		return ErrRuntimeUnavailable
	}

	if err := h.client.PauseApp(appID, params); err != nil {
		return fmt.Errorf("web pause failed: %w", err)
	}

	if reportEvent {
		h.events.lifeStatusChanged(appID, "", router.LifeStatusPausing)
		h.post(func() {
			h.events.lifeStatusChanged(appID, "", router.LifeStatusPaused)
		})
	}
	return nil
}
