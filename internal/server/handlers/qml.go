package handlers

import (
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
)

var _ Handler = (*QmlHandler)(nil)

// QmlClient is the booster transport for embedded-UI apps.
type QmlClient interface {
	LaunchApp(appID string, params map[string]any) (pid string, err error)
	KillApp(appID string) error
}

// QmlHandler runs embedded-UI apps inside the booster process.
type QmlHandler struct {
	events Events
	post   Post
	client QmlClient
	logger *slog.Logger

	pids map[string]string
}

// NewQmlHandler creates the embedded-UI backend.
func NewQmlHandler(client QmlClient, events Events, post Post, handler slog.Handler) *QmlHandler {
	return &QmlHandler{
		events: events,
		post:   post,
		client: client,
		logger: slog.New(handler).WithGroup("handlers.Qml"),
		pids:   make(map[string]string),
	}
}

// Launch implements Handler.
func (h *QmlHandler) Launch(item *appitem.LaunchItem) {
	appID := item.AppID()
	uid := item.UID()

	go func() {
		pid, err := h.client.LaunchApp(appID, item.Params())
		h.post(func() {
			if err != nil {
				item.SetError(appitem.ErrCodeLaunchGeneral, fmt.Sprintf("qml launch failed: %v", err))
				h.events.launchingDone(uid)
				return
			}
			h.pids[appID] = pid
			item.SetPid(pid)
			h.events.runningAppAdded(appID, pid, "")
			h.events.runtimeStatusChanged(appID, uid, router.RuntimeStatusRunning)
			h.events.launchingDone(uid)
		})
	}()
}

// Close implements Handler.
func (h *QmlHandler) Close(item *appitem.CloseItem) error {
	appID := item.AppID()
	if _, ok := h.pids[appID]; !ok {
		return ErrAppNotRunning
	}

	h.events.runtimeStatusChanged(appID, "", router.RuntimeStatusClosing)
	go func() {
		err := h.client.KillApp(appID)
		h.post(func() {
			if err != nil {
				h.logger.Error("kill failed", "appId", appID, "error", err)
			}
			delete(h.pids, appID)
			h.events.runtimeStatusChanged(appID, "", router.RuntimeStatusStopped)
			h.events.runningAppRemoved(appID)
		})
	}()
	return nil
}

// Pause implements Handler. The booster has no pause protocol.
func (h *QmlHandler) Pause(string, map[string]any, bool) error {
	return ErrPauseNotSupported
}
