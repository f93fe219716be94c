// Package runninginfo keeps the authoritative table of per-app runtime
// facts: pid, lifecycle status, preload flag, and the current
// foreground snapshot. The registry is confined to the lifecycle
// manager's dispatch loop; callers never touch it from other
// goroutines.
package runninginfo

import (
	"slices"

	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
	"github.com/atlanticdynamic/appmand/internal/server/packages"
)

// RunningInfo is the runtime record for one known app. Absent records
// mean Stopped.
type RunningInfo struct {
	AppID         string
	Pid           string
	WebProcessID  string
	RuntimeStatus router.RuntimeStatus
	LifeStatus    router.LifeStatus
	PreloadMode   bool
}

// IsRunning reports whether the app has a live backend instance.
func (r *RunningInfo) IsRunning() bool {
	switch r.RuntimeStatus {
	case router.RuntimeStatusRunning, router.RuntimeStatusRegistered:
		return true
	}
	return r.Pid != "" || r.WebProcessID != ""
}

// Registry owns the RunningInfo table and the foreground snapshot.
type Registry struct {
	infos map[string]*RunningInfo

	foregroundAppID  string
	foregroundAppIDs []string
	foregroundInfo   []map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		infos: make(map[string]*RunningInfo),
	}
}

// Get returns the record for the app, or nil when unknown.
func (reg *Registry) Get(appID string) *RunningInfo {
	return reg.infos[appID]
}

// GetOrCreate returns the record for the app, creating a Stopped one
// on first observation.
func (reg *Registry) GetOrCreate(appID string) *RunningInfo {
	if info, ok := reg.infos[appID]; ok {
		return info
	}
	info := &RunningInfo{
		AppID:         appID,
		RuntimeStatus: router.RuntimeStatusStopped,
		LifeStatus:    router.LifeStatusStop,
	}
	reg.infos[appID] = info
	return info
}

// Remove drops the record for the app.
func (reg *Registry) Remove(appID string) {
	delete(reg.infos, appID)
}

// ListAll returns every known record.
func (reg *Registry) ListAll() []*RunningInfo {
	out := make([]*RunningInfo, 0, len(reg.infos))
	for _, info := range reg.infos {
		out = append(out, info)
	}
	return out
}

// ListDevApps returns every record whose package was installed from
// the developer directory.
func (reg *Registry) ListDevApps(lookup packages.Lookup) []*RunningInfo {
	var out []*RunningInfo
	for id, info := range reg.infos {
		if pkg := lookup.GetAppByID(id); pkg != nil && pkg.IsDevApp() {
			out = append(out, info)
		}
	}
	return out
}

// RunningAppIDs returns the ids of apps with a live backend instance.
func (reg *Registry) RunningAppIDs() []string {
	var out []string
	for id, info := range reg.infos {
		if info.IsRunning() {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// IsRunning reports whether the app has a live backend instance.
func (reg *Registry) IsRunning(appID string) bool {
	info, ok := reg.infos[appID]
	return ok && info.IsRunning()
}

// RunningList renders the running table for the running subscription.
// devOnly filters to apps installed from the developer directory; the
// developer view additionally carries the default window type.
func (reg *Registry) RunningList(lookup packages.Lookup, devOnly bool) []map[string]any {
	out := make([]map[string]any, 0, len(reg.infos))
	for _, id := range reg.RunningAppIDs() {
		info := reg.infos[id]
		pkg := lookup.GetAppByID(id)
		if devOnly && (pkg == nil || !pkg.IsDevApp()) {
			continue
		}

		entry := map[string]any{
			"id":           id,
			"processid":    info.Pid,
			"webprocessid": info.WebProcessID,
		}
		if pkg != nil {
			entry["appType"] = string(pkg.Type)
			if devOnly {
				entry["defaultWindowType"] = pkg.DefaultWindowType
			}
		}
		out = append(out, entry)
	}
	return out
}

// SetForegroundApp records the fullscreen owner, empty when none.
func (reg *Registry) SetForegroundApp(appID string) {
	reg.foregroundAppID = appID
}

// ForegroundAppID returns the current fullscreen owner, empty when none.
func (reg *Registry) ForegroundAppID() string {
	return reg.foregroundAppID
}

// SetForegroundAppIDs replaces the set of foreground apps.
func (reg *Registry) SetForegroundAppIDs(appIDs []string) {
	reg.foregroundAppIDs = slices.Clone(appIDs)
}

// ForegroundAppIDs returns every app in the current foreground snapshot.
func (reg *Registry) ForegroundAppIDs() []string {
	return slices.Clone(reg.foregroundAppIDs)
}

// SetForegroundInfo replaces the raw foreground snapshot.
func (reg *Registry) SetForegroundInfo(info []map[string]any) {
	reg.foregroundInfo = info
}

// ForegroundInfo returns the raw foreground snapshot.
func (reg *Registry) ForegroundInfo() []map[string]any {
	return reg.foregroundInfo
}

// ForegroundInfoByID returns the snapshot entry for the app, or nil
// when the app is not foreground.
func (reg *Registry) ForegroundInfoByID(appID string) map[string]any {
	for _, entry := range reg.foregroundInfo {
		if id, _ := entry["appId"].(string); id == appID {
			return entry
		}
	}
	return nil
}

// IsAppOnFullscreen reports whether the app owns the fullscreen window
// in the current snapshot.
func (reg *Registry) IsAppOnFullscreen(appID string) bool {
	return appID != "" && reg.foregroundAppID == appID
}

// IsForegroundApp reports whether the app appears anywhere in the
// current foreground snapshot.
func (reg *Registry) IsForegroundApp(appID string) bool {
	return slices.Contains(reg.foregroundAppIDs, appID)
}
