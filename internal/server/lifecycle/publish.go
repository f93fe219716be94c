package lifecycle

import (
	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
	"github.com/atlanticdynamic/appmand/internal/server/publisher"
)

// Keys of the foreground snapshot forwarded on foreground payloads.
var foregroundWindowKeys = []string{
	"windowType", "windowGroup", "windowGroupOwner", "windowGroupOwnerId",
}

// publishLifeStatus emits one getAppLifeStatus payload. Reason fields
// come from the launch item for Launching/Relaunching and from the
// close-reason map for Stop/Closing; the Stop publish consumes the map
// entry.
func (m *Manager) publishLifeStatus(appID, uid string, status router.LifeStatus) {
	if appID == "" {
		m.logger.Warn("life status publish without app id")
		return
	}

	payload := map[string]any{
		"status": status.String(),
		"appId":  appID,
	}

	info := m.registry.Get(appID)
	if info != nil && info.Pid != "" {
		payload["processId"] = info.Pid
	}

	if pkg := m.lookup.GetAppByID(appID); pkg != nil {
		payload["type"] = string(pkg.Type)
	}

	item := m.launchingItemByUID(uid)

	switch status {
	case router.LifeStatusLaunching, router.LifeStatusRelaunching:
		if item != nil {
			payload["reason"] = item.Reason()
		}

	case router.LifeStatusForeground:
		if fg := m.registry.ForegroundInfoByID(appID); fg != nil {
			for _, key := range foregroundWindowKeys {
				if v, ok := fg[key]; ok {
					payload[key] = v
				}
			}
		}

	case router.LifeStatusBackground:
		if info != nil && info.PreloadMode {
			payload["backgroundStatus"] = "preload"
		} else {
			payload["backgroundStatus"] = "normal"
		}

	case router.LifeStatusStop, router.LifeStatusClosing:
		payload["reason"] = m.closeReasonFor(appID)
		if status == router.LifeStatusStop {
			delete(m.closeReasons, appID)
		}
	}

	m.publisher.Post(publisher.KindAppLifeStatus, payload)
}

// publishRunning emits the running table on the matching subscription.
func (m *Manager) publishRunning(devmode bool) {
	kind := publisher.KindRunning
	if devmode {
		kind = publisher.KindDevRunning
	}

	m.publisher.Post(kind, map[string]any{
		"returnValue": true,
		"running":     m.registry.RunningList(m.lookup, devmode),
	})
}

// generateLifeCycleEvent emits one payload on the lifecycle event
// stream. Splash is suppressed unless the item asked for launch
// feedback and the app is in a fresh-launch state.
func (m *Manager) generateLifeCycleEvent(appID, uid string, event router.LifeEvent) {
	pkg := m.lookup.GetAppByID(appID)
	item := m.launchingItemByUID(uid)
	info := m.registry.Get(appID)

	lifeStatus := router.LifeStatusStop
	preloadMode := false
	if info != nil {
		lifeStatus = info.LifeStatus
		preloadMode = info.PreloadMode
	}

	payload := map[string]any{"appId": appID}

	switch event {
	case router.LifeEventSplash:
		// splash only renders for a fresh launch
		if item != nil && !item.ShowSplash() && !item.ShowSpinner() {
			return
		}
		if lifeStatus == router.LifeStatusBackground && !preloadMode {
			return
		}
		if lifeStatus != router.LifeStatusStop &&
			lifeStatus != router.LifeStatusPreloading &&
			lifeStatus != router.LifeStatusBackground {
			return
		}

		payload["event"] = "splash"
		payload["title"] = ""
		if pkg != nil {
			payload["title"] = pkg.Title
		}
		payload["showSplash"] = item != nil && item.ShowSplash()
		payload["showSpinner"] = item != nil && item.ShowSpinner()
		if item != nil && item.ShowSplash() && pkg != nil {
			payload["splashBackground"] = pkg.SplashBackground
		}

	case router.LifeEventPreload:
		payload["event"] = "preload"
		if item != nil {
			payload["preload"] = item.Preload()
		}

	case router.LifeEventLaunch:
		payload["event"] = "launch"
		if item != nil {
			payload["reason"] = item.Reason()
		}

	case router.LifeEventForeground:
		payload["event"] = "foreground"
		if fg := m.registry.ForegroundInfoByID(appID); fg != nil {
			for _, key := range foregroundWindowKeys {
				if v, ok := fg[key]; ok {
					payload[key] = v
				}
			}
		}

	case router.LifeEventBackground:
		payload["event"] = "background"
		if preloadMode {
			payload["status"] = "preload"
		} else {
			payload["status"] = "normal"
		}

	case router.LifeEventPause:
		payload["event"] = "pause"

	case router.LifeEventClose:
		payload["event"] = "close"
		payload["reason"] = m.closeReasonFor(appID)

	case router.LifeEventStop:
		payload["event"] = "stop"
		payload["reason"] = m.closeReasonFor(appID)

	default:
		return
	}

	m.publisher.Post(publisher.KindLifecycleEvent, payload)
}

func (m *Manager) closeReasonFor(appID string) string {
	if reason, ok := m.closeReasons[appID]; ok {
		return reason
	}
	return "undefined"
}
