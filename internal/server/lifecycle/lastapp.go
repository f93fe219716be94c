package lifecycle

import (
	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/atlanticdynamic/appmand/internal/server/packages"
)

// Last-app machinery: while a fullscreen launch is in flight the app
// is a "would-be last app" candidate. If the candidate never makes it
// to the screen, a timer hands control to the external last-app
// policy.

// runLastAppHandler invokes the external last-app policy unless a
// fullscreen app is still on its way to the screen.
func (m *Manager) runLastAppHandler() {
	if m.isFullscreenAppLoading("", "") {
		m.logger.Info("skip launching last app, fullscreen app in flight")
		return
	}
	if m.lastAppLauncher != nil {
		m.lastAppLauncher()
	}
}

// triggerToLaunchLastApp runs the last-app policy unless a foreground
// app is already running.
func (m *Manager) triggerToLaunchLastApp() {
	fg := m.registry.ForegroundAppID()
	if fg != "" && m.registry.IsRunning(fg) {
		return
	}
	m.logger.Info("triggering last app launch")
	m.runLastAppHandler()
}

// isFullscreenAppLoading scans the launching queue and the loading
// list for surviving fullscreen candidates, excluding the app
// identified by newAppID/newUID itself. Surviving queue candidates are
// recorded as last-launching apps; a surviving loading candidate arms
// the last-loading timer.
func (m *Manager) isFullscreenAppLoading(newAppID, newUID string) bool {
	result := false

	for _, item := range m.launchQueue {
		if newAppID == item.AppID() && newUID == item.UID() {
			continue
		}

		pkg := m.lookup.GetAppByID(item.AppID())
		if pkg == nil {
			continue
		}
		if m.settings.IsHostApp(item.AppID()) {
			continue
		}
		if pkg.ChildWindow {
			continue
		}
		if item.Preload() != "" {
			continue
		}
		if !isFullscreenWindowDefault(pkg.DefaultWindowType) {
			continue
		}
		if m.isLaunchingItemExpired(item) {
			continue
		}

		m.logger.Info("fullscreen app is already launching", "appId", item.AppID())
		m.addLastLaunchingApp(item.AppID())
		result = true
	}

	for _, entry := range m.loadingApps {
		pkg := m.lookup.GetAppByID(entry.AppID)
		if pkg == nil {
			continue
		}
		if pkg.ChildWindow {
			continue
		}
		info := m.registry.Get(entry.AppID)
		if info != nil && info.PreloadMode {
			continue
		}
		if !isFullscreenWindowDefault(pkg.DefaultWindowType) {
			continue
		}
		if m.isLoadingAppExpired(entry) {
			continue
		}

		m.logger.Info("fullscreen app is already loading", "appId", entry.AppID)
		m.setLastLoadingApp(entry.AppID)
		result = true
		break
	}

	return result
}

// isFullscreenWindowDefault reports whether the package's default
// window takes the whole display.
func isFullscreenWindowDefault(windowType string) bool {
	return windowType == "card" || windowType == "minimal"
}

func (m *Manager) isLaunchingItemExpired(item *appitem.LaunchItem) bool {
	return m.now().Sub(item.LaunchStartTime()) > m.settings.LaunchExpiredTimeout()
}

func (m *Manager) isLoadingAppExpired(entry LoadingEntry) bool {
	if entry.StartedAt.IsZero() {
		m.logger.Warn("loading entry without start time", "appId", entry.AppID)
		return true
	}
	return m.now().Sub(entry.StartedAt) > m.settings.LoadingExpiredTimeout()
}

// addLoadingApp records a Launching/Relaunching app. The UI shells are
// never tracked.
func (m *Manager) addLoadingApp(appID string, appType packages.AppType) {
	for _, entry := range m.loadingApps {
		if entry.AppID == appID {
			return
		}
	}
	if m.settings.IsHostApp(appID) {
		m.logger.Info("skipping host app in loading list", "appId", appID)
		return
	}

	m.loadingApps = append(m.loadingApps, LoadingEntry{
		AppID:     appID,
		AppType:   appType,
		StartedAt: m.now(),
	})
	m.logger.Info("added loading app", "appId", appID)

	if m.isLastLaunchingApp(appID) {
		m.setLastLoadingApp(appID)
	}
}

func (m *Manager) removeLoadingApp(appID string) {
	for i, entry := range m.loadingApps {
		if entry.AppID == appID {
			m.loadingApps = append(m.loadingApps[:i], m.loadingApps[i+1:]...)
			m.logger.Info("removed loading app", "appId", appID)

			if m.lastLoadingApp != nil && m.lastLoadingApp.appID == appID {
				m.removeTimerForLastLoadingApp(true)
			}
			return
		}
	}
}

// setLastLoadingApp promotes a loading entry to the guarded candidate.
func (m *Manager) setLastLoadingApp(appID string) {
	if !m.isLoadingApp(appID) {
		return
	}
	m.addTimerForLastLoadingApp(appID)
	m.removeLastLaunchingApp(appID)
}

func (m *Manager) isLoadingApp(appID string) bool {
	for _, entry := range m.loadingApps {
		if entry.AppID == appID {
			return true
		}
	}
	return false
}

// addTimerForLastLoadingApp arms the last-loading timer for the app.
// At most one timer is active; replacement cancels and rearms.
func (m *Manager) addTimerForLastLoadingApp(appID string) {
	if m.lastLoadingApp != nil && m.lastLoadingApp.appID == appID {
		return
	}
	if !m.isLoadingApp(appID) {
		return
	}
	if m.lookup.GetAppByID(appID) == nil {
		m.logger.Error("cannot arm last-loading timer without package", "appId", appID)
		return
	}

	m.removeTimerForLastLoadingApp(false)

	cancel := m.dispatch.Schedule(m.settings.LastLoadingAppTimeout(), func() {
		m.onLastLoadingAppTimeout()
	})
	m.lastLoadingApp = &lastLoadingTimer{cancel: cancel, appID: appID}
}

// removeTimerForLastLoadingApp releases the timer; with trigger set,
// the last-app policy runs afterwards.
func (m *Manager) removeTimerForLastLoadingApp(trigger bool) {
	if m.lastLoadingApp == nil {
		return
	}
	m.lastLoadingApp.cancel()
	m.lastLoadingApp = nil

	if trigger {
		m.triggerToLaunchLastApp()
	}
}

func (m *Manager) onLastLoadingAppTimeout() {
	m.removeTimerForLastLoadingApp(true)
}

func (m *Manager) addLastLaunchingApp(appID string) {
	for _, id := range m.lastLaunchingApps {
		if id == appID {
			return
		}
	}
	m.lastLaunchingApps = append(m.lastLaunchingApps, appID)
}

func (m *Manager) removeLastLaunchingApp(appID string) {
	for i, id := range m.lastLaunchingApps {
		if id == appID {
			m.lastLaunchingApps = append(m.lastLaunchingApps[:i], m.lastLaunchingApps[i+1:]...)
			return
		}
	}
}

func (m *Manager) isLastLaunchingApp(appID string) bool {
	for _, id := range m.lastLaunchingApps {
		if id == appID {
			return true
		}
	}
	return false
}

// resetLastAppCandidates clears the candidate set and disarms the
// timer without triggering.
func (m *Manager) resetLastAppCandidates() {
	m.lastLaunchingApps = nil
	m.removeTimerForLastLoadingApp(false)
}
