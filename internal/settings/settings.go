// Package settings carries the device policy knobs consumed by the
// lifecycle core: keep-alive apps, fullscreen window types, close
// reason table, and the loading/launch timeouts. Settings load from a
// TOML file and can be overlaid with key/value deltas delivered by the
// configuration service at runtime.
package settings

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Well-known identities the close policy special-cases.
const (
	// InternalServiceID is the application manager's own caller id,
	// exempt from keep-alive conversion.
	InternalServiceID = "com.webos.applicationManager"

	// MemoryManagerID and AppInstallServiceID may close keep-alive
	// apps outright.
	MemoryManagerID     = "com.webos.memorymanager"
	AppInstallServiceID = "com.webos.appInstallService"

	// SurfaceManagerWindowExtID may close keep-alive apps when the
	// close reason is "recent".
	SurfaceManagerWindowExtID = "com.webos.surfacemanager.windowext"
)

// App ids excluded from loading-list and last-app tracking.
var HostAppIDs = []string{
	"com.webos.app.container",
	"com.webos.app.inputcommon",
}

// CloseReasonEntry maps one caller to the reason recorded when it
// closes an app without supplying one.
type CloseReasonEntry struct {
	CallerID string `toml:"caller_id"`
	Reason   string `toml:"reason"`
}

// Settings is the full policy surface of the service.
type Settings struct {
	KeepAliveApps         []string           `toml:"keep_alive_apps"`
	FullscreenWindowTypes []string           `toml:"fullscreen_window_types"`
	CloseReasons          []CloseReasonEntry `toml:"close_reasons"`

	// FallbackAppID is the app the last-app policy launches when no
	// foreground owner exists. Empty disables the fallback.
	FallbackAppID string `toml:"fallback_app_id"`

	// Timeouts are in milliseconds in the settings file.
	LastLoadingAppTimeoutMs int64 `toml:"last_loading_app_timeout_ms"`
	LaunchExpiredTimeoutMs  int64 `toml:"launch_expired_timeout_ms"`
	LoadingExpiredTimeoutMs int64 `toml:"loading_expired_timeout_ms"`
}

// DefaultSettings returns the built-in policy used when no settings
// file is present.
func DefaultSettings() *Settings {
	return &Settings{
		FullscreenWindowTypes:   []string{"_WEBOS_WINDOW_TYPE_CARD"},
		LastLoadingAppTimeoutMs: 30000,
		LaunchExpiredTimeoutMs:  120000,
		LoadingExpiredTimeoutMs: 30000,
	}
}

// Load reads a settings file and overlays it on the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := DefaultSettings()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the loaded values for internal consistency.
func (s *Settings) Validate() error {
	if s.LastLoadingAppTimeoutMs <= 0 {
		return fmt.Errorf("last_loading_app_timeout_ms must be positive, got %d", s.LastLoadingAppTimeoutMs)
	}
	if s.LaunchExpiredTimeoutMs <= 0 {
		return fmt.Errorf("launch_expired_timeout_ms must be positive, got %d", s.LaunchExpiredTimeoutMs)
	}
	if s.LoadingExpiredTimeoutMs <= 0 {
		return fmt.Errorf("loading_expired_timeout_ms must be positive, got %d", s.LoadingExpiredTimeoutMs)
	}
	for _, entry := range s.CloseReasons {
		if entry.CallerID == "" {
			return fmt.Errorf("close_reasons entry without caller_id")
		}
	}
	return nil
}

// IsKeepAliveApp reports whether close requests for the app are
// converted to pause by policy.
func (s *Settings) IsKeepAliveApp(appID string) bool {
	return slices.Contains(s.KeepAliveApps, appID)
}

// IsFullscreenWindowType reports whether the window type takes the
// whole display and therefore determines foreground ownership.
func (s *Settings) IsFullscreenWindowType(windowType string) bool {
	return slices.Contains(s.FullscreenWindowTypes, windowType)
}

// IsHostApp reports whether the app id is one of the UI shells that
// are excluded from loading-list and last-app tracking.
func (s *Settings) IsHostApp(appID string) bool {
	return slices.Contains(HostAppIDs, appID)
}

// CloseReason resolves the reason recorded for a close request. The
// request's own reason wins; otherwise the caller table is consulted,
// and "undefined" is the fallback.
func (s *Settings) CloseReason(callerID, reason string) string {
	if reason != "" {
		return reason
	}
	for _, entry := range s.CloseReasons {
		if entry.CallerID == callerID {
			return entry.Reason
		}
	}
	return "undefined"
}

// LastLoadingAppTimeout guards the last-loading-app candidate timer.
func (s *Settings) LastLoadingAppTimeout() time.Duration {
	return time.Duration(s.LastLoadingAppTimeoutMs) * time.Millisecond
}

// LaunchExpiredTimeout bounds how long a queued launch item stays a
// fullscreen-loading candidate.
func (s *Settings) LaunchExpiredTimeout() time.Duration {
	return time.Duration(s.LaunchExpiredTimeoutMs) * time.Millisecond
}

// LoadingExpiredTimeout bounds how long a loading entry stays a
// fullscreen-loading candidate.
func (s *Settings) LoadingExpiredTimeout() time.Duration {
	return time.Duration(s.LoadingExpiredTimeoutMs) * time.Millisecond
}

// Merge overlays a configuration delta delivered by the configuration
// service. Unknown keys are ignored.
func (s *Settings) Merge(delta map[string]any) {
	if v, ok := delta["keepAliveApps"].([]any); ok {
		s.KeepAliveApps = toStringSlice(v)
	}
	if v, ok := delta["fullscreenWindowTypes"].([]any); ok {
		s.FullscreenWindowTypes = toStringSlice(v)
	}
	if v, ok := delta["lastLoadingAppTimeoutMs"].(float64); ok && v > 0 {
		s.LastLoadingAppTimeoutMs = int64(v)
	}
	if v, ok := delta["launchExpiredTimeoutMs"].(float64); ok && v > 0 {
		s.LaunchExpiredTimeoutMs = int64(v)
	}
	if v, ok := delta["loadingExpiredTimeoutMs"].(float64); ok && v > 0 {
		s.LoadingExpiredTimeoutMs = int64(v)
	}
}

func toStringSlice(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
