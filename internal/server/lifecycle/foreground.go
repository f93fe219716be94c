package lifecycle

import (
	"reflect"

	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
)

// forceMinimizeReason marks snapshots where the window manager
// deliberately cleared the screen; the last-app fallback stays quiet.
const forceMinimizeReason = "forceMinimize"

// OnForegroundInfoChanged reconciles a foreground snapshot from the
// window manager into life status transitions. Within one snapshot,
// background transitions publish before foreground ones.
func (m *Manager) OnForegroundInfoChanged(payload map[string]any) {
	rawInfo, ok := payload["foregroundAppInfo"].([]any)
	if !ok {
		m.logger.Error("invalid foreground info payload")
		return
	}

	oldForegroundAppID := m.registry.ForegroundAppID()
	oldForegroundApps := m.registry.ForegroundAppIDs()
	oldForegroundInfo := m.registry.ForegroundInfo()

	var newForegroundAppID string
	var newForegroundApps []string
	newForegroundInfo := make([]map[string]any, 0, len(rawInfo))
	foundFullscreenWindow := false

	for _, raw := range rawInfo {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		appID, _ := entry["appId"].(string)
		if appID == "" {
			continue
		}

		m.registry.GetOrCreate(appID)
		newForegroundInfo = append(newForegroundInfo, entry)
		newForegroundApps = append(newForegroundApps, appID)

		if m.isFullscreenWindowType(entry) {
			foundFullscreenWindow = true
			newForegroundAppID = appID
		}
	}

	if foundFullscreenWindow {
		m.resetLastAppCandidates()
	}
	m.registry.SetForegroundApp(newForegroundAppID)
	m.registry.SetForegroundAppIDs(newForegroundApps)
	m.registry.SetForegroundInfo(newForegroundInfo)

	m.logger.Info("foreground info changed",
		"newForegroundAppId", newForegroundAppID,
		"oldForegroundAppId", oldForegroundAppID)

	// background first
	for _, oldAppID := range oldForegroundApps {
		if containsString(newForegroundApps, oldAppID) {
			continue
		}
		info := m.registry.Get(oldAppID)
		if info == nil {
			continue
		}
		switch info.LifeStatus {
		case router.LifeStatusForeground, router.LifeStatusPausing:
			m.setAppLifeStatus(oldAppID, "", router.LifeStatusBackground)
		}
	}

	// then foreground
	for _, newAppID := range newForegroundApps {
		m.setAppLifeStatus(newAppID, "", router.LifeStatusForeground)

		if !m.registry.IsRunning(newAppID) {
			m.logger.Info("foreground info for app without running info", "appId", newAppID)
		}
	}

	reason, _ := payload["reason"].(string)
	if reason == forceMinimizeReason {
		m.logger.Info("force minimize, last-app fallback suppressed")
		m.resetLastAppCandidates()
	} else if !foundFullscreenWindow {
		m.runLastAppHandler()
	}

	if oldForegroundAppID != newForegroundAppID && m.OnForegroundAppChanged != nil {
		m.OnForegroundAppChanged(newForegroundAppID)
	}
	if !reflect.DeepEqual(oldForegroundInfo, newForegroundInfo) && m.OnForegroundExtraInfoChanged != nil {
		m.OnForegroundExtraInfoChanged(newForegroundInfo)
	}
}

// isFullscreenWindowType reports whether one snapshot entry owns the
// whole display: its window type is configured fullscreen and it is
// either ungrouped or the owner of its group.
func (m *Manager) isFullscreenWindowType(entry map[string]any) bool {
	windowGroup, _ := entry["windowGroup"].(bool)
	windowGroupOwner := true
	if windowGroup {
		windowGroupOwner, _ = entry["windowGroupOwner"].(bool)
	}
	windowType, _ := entry["windowType"].(string)

	return m.settings.IsFullscreenWindowType(windowType) && windowGroupOwner
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
