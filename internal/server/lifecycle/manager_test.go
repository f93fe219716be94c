package lifecycle

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/atlanticdynamic/appmand/internal/server/handlers"
	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
	"github.com/atlanticdynamic/appmand/internal/server/packages"
	"github.com/atlanticdynamic/appmand/internal/server/publisher"
	"github.com/atlanticdynamic/appmand/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
}

// immediateDispatcher runs posted work inline and records timers
// without arming them, so tests control time explicitly.
type immediateDispatcher struct {
	scheduled []*scheduledTask
}

type scheduledTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

func (d *immediateDispatcher) Post(f func()) { f() }

func (d *immediateDispatcher) Schedule(delay time.Duration, f func()) func() {
	task := &scheduledTask{delay: delay, fn: f}
	d.scheduled = append(d.scheduled, task)
	return func() { task.cancelled = true }
}

// fire runs every pending timer once.
func (d *immediateDispatcher) fire() {
	pending := d.scheduled
	d.scheduled = nil
	for _, task := range pending {
		if !task.cancelled {
			task.fn()
		}
	}
}

// fakeMM lets tests choose between instant and held verdicts.
type fakeMM struct {
	allow  bool
	reason string
	held   bool
	verdicts []func(bool, string)
}

func (m *fakeMM) RequireMemory(appID string, onResult func(bool, string)) {
	if m.held {
		m.verdicts = append(m.verdicts, onResult)
		return
	}
	onResult(m.allow, m.reason)
}

func (m *fakeMM) release(allow bool, reason string) {
	verdicts := m.verdicts
	m.verdicts = nil
	for _, v := range verdicts {
		v(allow, reason)
	}
}

// fakeBackend emits events synchronously so tests stay deterministic.
type fakeBackend struct {
	events handlers.Events

	pid          string
	completeLaunch bool

	launched []*appitem.LaunchItem
	closed   []*appitem.CloseItem
	paused   []string
	closeErr error
	pauseErr error
}

func (b *fakeBackend) Launch(item *appitem.LaunchItem) {
	b.launched = append(b.launched, item)
	if !b.completeLaunch {
		return
	}
	item.SetPid(b.pid)
	b.events.RunningAppAdded(item.AppID(), b.pid, "")
	b.events.RuntimeStatusChanged(item.AppID(), item.UID(), router.RuntimeStatusStarting)
	b.events.LaunchingDone(item.UID())
}

func (b *fakeBackend) Close(item *appitem.CloseItem) error {
	if b.closeErr != nil {
		return b.closeErr
	}
	b.closed = append(b.closed, item)
	b.events.RuntimeStatusChanged(item.AppID(), "", router.RuntimeStatusClosing)
	return nil
}

// finishClose simulates the backend's terminal events.
func (b *fakeBackend) finishClose(appID string) {
	b.events.RuntimeStatusChanged(appID, "", router.RuntimeStatusStopped)
	b.events.RunningAppRemoved(appID)
}

func (b *fakeBackend) Pause(appID string, params map[string]any, reportEvent bool) error {
	if b.pauseErr != nil {
		return b.pauseErr
	}
	b.paused = append(b.paused, appID)
	if reportEvent {
		b.events.LifeStatusChanged(appID, "", router.LifeStatusPausing)
		b.events.LifeStatusChanged(appID, "", router.LifeStatusPaused)
	}
	return nil
}

type fixture struct {
	t       *testing.T
	mgr     *Manager
	disp    *immediateDispatcher
	mm      *fakeMM
	backend *fakeBackend
	catalog *packages.Catalog
	cfg     *settings.Settings
	pub     *publisher.Publisher

	lastAppCalls int

	statusCh  <-chan map[string]any
	eventCh   <-chan map[string]any
	runningCh <-chan map[string]any
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := packages.NewCatalog(
		&packages.AppPackage{
			ID: "com.test.alpha", Type: packages.AppTypeNative,
			HandlerType: packages.HandlerTypeNative, NativeInterfaceVersion: 2,
			DefaultWindowType: "card", Title: "Alpha", SplashBackground: "alpha.png",
		},
		&packages.AppPackage{
			ID: "com.test.beta", Type: packages.AppTypeNative,
			HandlerType: packages.HandlerTypeNative, NativeInterfaceVersion: 2,
			DefaultWindowType: "card", Title: "Beta", SplashBackground: "beta.png",
		},
		&packages.AppPackage{
			ID: "com.test.gamma", Type: packages.AppTypeNative,
			HandlerType: packages.HandlerTypeNative, NativeInterfaceVersion: 1,
			DefaultWindowType: "card", Title: "Gamma",
		},
		&packages.AppPackage{
			ID: "com.test.delta", Type: packages.AppTypeNative,
			HandlerType: packages.HandlerTypeNative, NativeInterfaceVersion: 2,
			DefaultWindowType: "card", Title: "Delta",
		},
		&packages.AppPackage{
			ID: "com.test.omega", Type: packages.AppTypeWeb,
			HandlerType: packages.HandlerTypeNative, // the fake backend serves every type
			DefaultWindowType: "card", Title: "Omega",
		},
	)
	require.NoError(t, err)

	cfg := settings.DefaultSettings()
	f := &fixture{
		t:       t,
		disp:    &immediateDispatcher{},
		mm:      &fakeMM{allow: true},
		catalog: catalog,
		cfg:     cfg,
	}

	pub := publisher.New(testHandler())
	f.pub = pub
	mgr, err := NewManager(Config{
		Settings:        cfg,
		Lookup:          catalog,
		MemoryManager:   f.mm,
		Publisher:       pub,
		Dispatcher:      f.disp,
		LastAppLauncher: func() { f.lastAppCalls++ },
		LogHandler:      testHandler(),
	})
	require.NoError(t, err)
	f.mgr = mgr

	f.backend = &fakeBackend{events: mgr.BackendEvents(), pid: "1001", completeLaunch: true}
	mgr.SetHandler(packages.HandlerTypeNative, f.backend)

	f.statusCh, _ = pub.Subscribe(publisher.KindAppLifeStatus)
	f.eventCh, _ = pub.Subscribe(publisher.KindLifecycleEvent)
	f.runningCh, _ = pub.Subscribe(publisher.KindRunning)

	return f
}

func drain(ch <-chan map[string]any) []map[string]any {
	var out []map[string]any
	for {
		select {
		case p := <-ch:
			out = append(out, p)
		default:
			return out
		}
	}
}

func pick(payloads []map[string]any, key string) []string {
	var out []string
	for _, p := range payloads {
		if v, ok := p[key].(string); ok {
			out = append(out, v)
		}
	}
	return out
}

func (f *fixture) launch(appID string, extra map[string]any) []map[string]any {
	payload := map[string]any{"id": appID}
	for k, v := range extra {
		payload[k] = v
	}
	var replies []map[string]any
	f.mgr.Launch(NewTask("com.test.caller", payload, func(p map[string]any) {
		replies = append(replies, p)
	}))
	return replies
}

// foregroundSnapshot delivers one window manager snapshot.
func (f *fixture) foregroundSnapshot(reason string, entries ...map[string]any) {
	raw := make([]any, 0, len(entries))
	for _, e := range entries {
		raw = append(raw, e)
	}
	payload := map[string]any{"foregroundAppInfo": raw}
	if reason != "" {
		payload["reason"] = reason
	}
	f.mgr.OnForegroundInfoChanged(payload)
}

func cardEntry(appID string) map[string]any {
	return map[string]any{
		"appId":       appID,
		"windowType":  "_WEBOS_WINDOW_TYPE_CARD",
		"windowGroup": false,
	}
}

func TestFreshLaunch(t *testing.T) {
	f := newFixture(t)

	replies := f.launch("com.test.alpha", nil)

	require.Len(t, replies, 1)
	assert.Equal(t, true, replies[0]["returnValue"])

	f.foregroundSnapshot("", cardEntry("com.test.alpha"))

	statuses := pick(drain(f.statusCh), "status")
	assert.Equal(t, []string{"launching", "foreground"}, statuses)

	events := pick(drain(f.eventCh), "event")
	assert.Equal(t, []string{"splash", "launch", "foreground"}, events)

	info := f.mgr.Registry().Get("com.test.alpha")
	require.NotNil(t, info)
	assert.Equal(t, router.LifeStatusForeground, info.LifeStatus)
	assert.Equal(t, "1001", info.Pid)
}

func TestLaunchUnknownAppRepliesNotExist(t *testing.T) {
	f := newFixture(t)

	replies := f.launch("com.test.unknown", nil)

	require.Len(t, replies, 1)
	assert.Equal(t, false, replies[0]["returnValue"])
	assert.Equal(t, appitem.ErrCodeNotExist, replies[0]["errorCode"])
	assert.Equal(t, "not exist", replies[0]["errorText"])

	assert.Nil(t, f.mgr.Registry().Get("com.test.unknown"))
	assert.Empty(t, drain(f.statusCh))
}

func TestKeepAliveCloseConvertsToPause(t *testing.T) {
	f := newFixture(t)
	f.cfg.KeepAliveApps = []string{"com.test.beta"}

	f.launch("com.test.beta", nil)
	f.foregroundSnapshot("", cardEntry("com.test.beta"))
	drain(f.statusCh)
	drain(f.eventCh)

	var replies []map[string]any
	f.mgr.Close(NewTask("user", map[string]any{"id": "com.test.beta"}, func(p map[string]any) {
		replies = append(replies, p)
	}))

	require.Len(t, replies, 1)
	assert.Equal(t, true, replies[0]["returnValue"])
	assert.Equal(t, "com.test.beta", replies[0]["appId"])

	assert.Equal(t, []string{"com.test.beta"}, f.backend.paused)
	assert.Empty(t, f.backend.closed)

	statuses := pick(drain(f.statusCh), "status")
	assert.Equal(t, []string{"pausing", "paused"}, statuses)

	events := pick(drain(f.eventCh), "event")
	assert.NotContains(t, events, "close")
}

func TestKeepAliveExemptCallerCloses(t *testing.T) {
	f := newFixture(t)
	f.cfg.KeepAliveApps = []string{"com.test.beta"}

	f.launch("com.test.beta", nil)
	drain(f.statusCh)

	require.NoError(t, f.mgr.CloseByAppID("com.test.beta", settings.MemoryManagerID, "", false, false))
	assert.Empty(t, f.backend.paused)
	require.Len(t, f.backend.closed, 1)
	assert.Equal(t, "com.test.beta", f.backend.closed[0].AppID())
}

func TestKeepAliveRecentExemption(t *testing.T) {
	f := newFixture(t)
	f.cfg.KeepAliveApps = []string{"com.test.beta"}

	f.launch("com.test.beta", nil)
	drain(f.statusCh)

	require.NoError(t, f.mgr.CloseByAppID(
		"com.test.beta", settings.SurfaceManagerWindowExtID, "recent", false, false))
	require.Len(t, f.backend.closed, 1)
	assert.Equal(t, "recent", f.backend.closed[0].Reason())
}

func TestCancelledLaunch(t *testing.T) {
	f := newFixture(t)
	f.mm.held = true

	var replies []map[string]any
	f.mgr.Launch(NewTask("com.test.caller", map[string]any{"id": "com.test.gamma"}, func(p map[string]any) {
		replies = append(replies, p)
	}))
	require.Empty(t, replies)

	require.NoError(t, f.mgr.CloseByAppID(
		"com.test.gamma", settings.InternalServiceID, "", false, true))

	require.Len(t, replies, 1)
	assert.Equal(t, false, replies[0]["returnValue"])
	assert.Equal(t, appitem.ErrCodeLaunchGeneral, replies[0]["errorCode"])
	assert.Equal(t, "stopped launching", replies[0]["errorText"])

	info := f.mgr.Registry().Get("com.test.gamma")
	require.NotNil(t, info)
	assert.Equal(t, router.LifeStatusStop, info.LifeStatus)

	// the late verdict is accepted idempotently
	f.mm.release(true, "")
	require.Len(t, replies, 1)
}

func TestMemoryDeniedLaunch(t *testing.T) {
	f := newFixture(t)
	f.mm.allow = false
	f.mm.reason = "not enough memory"

	replies := f.launch("com.test.alpha", nil)

	require.Len(t, replies, 1)
	assert.Equal(t, false, replies[0]["returnValue"])
	assert.Equal(t, "not enough memory", replies[0]["errorText"])
	assert.Empty(t, f.backend.launched)
}

func TestForegroundSwap(t *testing.T) {
	f := newFixture(t)

	f.launch("com.test.alpha", nil)
	f.foregroundSnapshot("", cardEntry("com.test.alpha"))
	drain(f.statusCh)

	var owners []string
	f.mgr.OnForegroundAppChanged = func(appID string) { owners = append(owners, appID) }

	f.foregroundSnapshot("", cardEntry("com.test.delta"))

	statuses := pick(drain(f.statusCh), "status")
	assert.Equal(t, []string{"background", "foreground"}, statuses)

	alpha := f.mgr.Registry().Get("com.test.alpha")
	delta := f.mgr.Registry().Get("com.test.delta")
	assert.Equal(t, router.LifeStatusBackground, alpha.LifeStatus)
	assert.Equal(t, router.LifeStatusForeground, delta.LifeStatus)

	assert.Equal(t, []string{"com.test.delta"}, owners)
	assert.Zero(t, f.lastAppCalls)
}

func TestLastAppFallbackOnEmptySnapshot(t *testing.T) {
	f := newFixture(t)

	f.foregroundSnapshot("")
	assert.Equal(t, 1, f.lastAppCalls)
}

func TestForceMinimizeSuppressesLastApp(t *testing.T) {
	f := newFixture(t)

	f.foregroundSnapshot(forceMinimizeReason)
	assert.Zero(t, f.lastAppCalls)
}

func TestLastAppSuppressedWhileFullscreenLoading(t *testing.T) {
	f := newFixture(t)
	f.mm.held = true

	// a fullscreen launch is in flight
	f.launch("com.test.alpha", nil)

	f.foregroundSnapshot("")
	assert.Zero(t, f.lastAppCalls)
}

func TestLastLoadingAppTimer(t *testing.T) {
	f := newFixture(t)
	f.mm.held = true
	f.launch("com.test.alpha", nil)

	// empty snapshot marks alpha as last-launching candidate
	f.foregroundSnapshot("")
	require.Zero(t, f.lastAppCalls)

	// launch proceeds; alpha enters loading and the timer arms
	f.mm.release(true, "")
	require.Len(t, f.disp.scheduled, 1)
	assert.Equal(t, f.cfg.LastLoadingAppTimeout(), f.disp.scheduled[0].delay)

	// stopping alpha drops it from loading, which disarms the timer
	// and runs the fallback; the disarmed timer then does not fire.
	f.backend.finishClose("com.test.alpha")
	f.disp.fire()
	assert.Equal(t, 1, f.lastAppCalls)
}

func TestFullscreenOwnerResetsLastAppCandidates(t *testing.T) {
	f := newFixture(t)
	f.mm.held = true
	f.launch("com.test.alpha", nil)
	f.foregroundSnapshot("")

	// a fullscreen owner appears; candidates reset
	f.foregroundSnapshot("", cardEntry("com.test.delta"))

	f.mm.release(true, "")
	// no timer was armed for alpha, candidates were reset
	assert.Empty(t, f.disp.scheduled)
}

func TestWebRuntimeDisconnect(t *testing.T) {
	f := newFixture(t)

	f.launch("com.test.omega", nil)
	drain(f.statusCh)
	drain(f.runningCh)

	f.mgr.OnWebRuntimeStatusChanged(false)

	info := f.mgr.Registry().Get("com.test.omega")
	assert.Nil(t, info)

	statuses := pick(drain(f.statusCh), "status")
	assert.Contains(t, statuses, "stop")

	running := drain(f.runningCh)
	require.NotEmpty(t, running)
	last := running[len(running)-1]
	assert.Empty(t, last["running"])
}

func TestDuplicateCloseYieldsSingleTransition(t *testing.T) {
	f := newFixture(t)

	f.launch("com.test.alpha", nil)
	drain(f.statusCh)

	require.NoError(t, f.mgr.CloseByAppID("com.test.alpha", "user", "", false, false))
	require.NoError(t, f.mgr.CloseByAppID("com.test.alpha", "user", "", false, false))
	f.backend.finishClose("com.test.alpha")

	statuses := pick(drain(f.statusCh), "status")
	closing := 0
	stops := 0
	for _, s := range statuses {
		switch s {
		case "closing":
			closing++
		case "stop":
			stops++
		}
	}
	assert.Equal(t, 1, closing)
	assert.Equal(t, 1, stops)
}

func TestPauseNonRunningApp(t *testing.T) {
	f := newFixture(t)

	var replies []map[string]any
	f.mgr.Pause(NewTask("user", map[string]any{"id": "com.test.alpha"}, func(p map[string]any) {
		replies = append(replies, p)
	}))

	require.Len(t, replies, 1)
	assert.Equal(t, false, replies[0]["returnValue"])
	assert.Equal(t, "app is not running", replies[0]["errorText"])
}

func TestCloseWithLetAppHandlePausesSilently(t *testing.T) {
	f := newFixture(t)

	f.launch("com.test.alpha", nil)
	drain(f.statusCh)

	var replies []map[string]any
	f.mgr.Close(NewTask("user", map[string]any{
		"id":           "com.test.alpha",
		"letAppHandle": true,
	}, func(p map[string]any) {
		replies = append(replies, p)
	}))

	require.Len(t, replies, 1)
	assert.Equal(t, true, replies[0]["returnValue"])
	assert.Equal(t, []string{"com.test.alpha"}, f.backend.paused)
	// silent pause: no pausing/paused published
	assert.Empty(t, pick(drain(f.statusCh), "status"))
}

func TestRegisterAppGuards(t *testing.T) {
	f := newFixture(t)

	// unknown app
	err := f.mgr.RegisterApp("com.test.unknown", nil)
	assert.EqualError(t, err, "not existing app")

	// v1 package through the v2 method
	assert.ErrorIs(t, f.mgr.RegisterApp("com.test.gamma", nil), ErrUnmatchedRegistration)

	// valid version but not running
	assert.ErrorIs(t, f.mgr.RegisterApp("com.test.alpha", nil), ErrInvalidStatus)
}

func TestRegisterAppAfterRunning(t *testing.T) {
	f := newFixture(t)

	f.launch("com.test.alpha", nil)
	info := f.mgr.Registry().Get("com.test.alpha")
	require.NotNil(t, info)
	info.RuntimeStatus = router.RuntimeStatusRunning

	reg := &handlers.MockHandler{}
	reg.On("RegisterApp", "com.test.alpha", nil).Return(nil)
	f.mgr.SetHandler(packages.HandlerTypeNative, reg)

	assert.NoError(t, f.mgr.RegisterApp("com.test.alpha", nil))
	reg.AssertExpectations(t)

	// the v1 connect path rejects a v2 package
	assert.ErrorIs(t, f.mgr.ConnectNativeApp("com.test.alpha", nil), ErrUnmatchedRegistration)
}

func TestPreloadOnlyCloseGuard(t *testing.T) {
	f := newFixture(t)
	f.mm.held = true

	// user launch in flight
	f.launch("com.test.alpha", nil)

	err := f.mgr.CloseByAppID("com.test.alpha", "user", "", true, false)
	assert.ErrorIs(t, err, ErrLaunchingByUser)
}

func TestPreloadLaunchTransitions(t *testing.T) {
	f := newFixture(t)

	f.backend.completeLaunch = false
	f.launch("com.test.alpha", map[string]any{"preload": "full"})

	// preload startup: the backend reports preloading, then running
	// without a foreground window
	item := f.backend.launched[0]
	f.backend.events.LifeStatusChanged(item.AppID(), item.UID(), router.LifeStatusPreloading)
	f.backend.events.RunningAppAdded(item.AppID(), "1001", "")
	f.backend.events.RuntimeStatusChanged(item.AppID(), item.UID(), router.RuntimeStatusRunning)
	f.backend.events.LaunchingDone(item.UID())

	info := f.mgr.Registry().Get("com.test.alpha")
	require.NotNil(t, info)
	assert.Equal(t, router.LifeStatusBackground, info.LifeStatus)
	assert.True(t, info.PreloadMode)

	payloads := drain(f.statusCh)
	var bg map[string]any
	for _, p := range payloads {
		if p["status"] == "background" {
			bg = p
		}
	}
	require.NotNil(t, bg)
	assert.Equal(t, "preload", bg["backgroundStatus"])

	events := pick(drain(f.eventCh), "event")
	assert.Contains(t, events, "preload")

	// preload-only close is allowed once nothing user-visible is left
	require.NoError(t, f.mgr.CloseByAppID("com.test.alpha", "user", "", true, false))
}

func TestBridgedLaunchRendezvous(t *testing.T) {
	f := newFixture(t)

	var replies []map[string]any
	f.mgr.Launch(NewTask("parent", map[string]any{
		"id":              "com.test.alpha",
		"automaticLaunch": true,
	}, func(p map[string]any) {
		replies = append(replies, p)
	}))

	// parked: no reply, no backend launch
	require.Empty(t, replies)
	require.Empty(t, f.backend.launched)

	item := f.mgr.launchingItemByAppID("com.test.alpha")
	require.NotNil(t, item)

	f.mgr.HandleBridgedLaunchRequest(map[string]any{
		"launchingItemUid": item.UID(),
		"contentTarget":    "deep-link",
	})

	require.Len(t, replies, 1)
	assert.Equal(t, true, replies[0]["returnValue"])
	require.Len(t, f.backend.launched, 1)
	assert.Equal(t, "deep-link", f.backend.launched[0].Params()["contentTarget"])
}

func TestCloseAllLoadingAppsCancelsAutomaticPending(t *testing.T) {
	f := newFixture(t)

	var replies []map[string]any
	f.mgr.Launch(NewTask("parent", map[string]any{
		"id":              "com.test.alpha",
		"automaticLaunch": true,
	}, func(p map[string]any) {
		replies = append(replies, p)
	}))
	require.Empty(t, replies)

	f.mgr.CloseAllLoadingApps()

	require.Len(t, replies, 1)
	assert.Equal(t, false, replies[0]["returnValue"])
	assert.Equal(t, "stopped launching", replies[0]["errorText"])
}

func TestCloseAllClosesFullscreenOwnerDeferred(t *testing.T) {
	f := newFixture(t)

	f.launch("com.test.alpha", nil)
	f.launch("com.test.delta", nil)
	f.foregroundSnapshot("", cardEntry("com.test.alpha"))
	drain(f.statusCh)

	var replies []map[string]any
	f.mgr.CloseAll(NewTask("user", map[string]any{}, func(p map[string]any) {
		replies = append(replies, p)
	}))

	// the background app closed immediately, the owner is deferred
	closedNow := make([]string, 0, len(f.backend.closed))
	for _, item := range f.backend.closed {
		closedNow = append(closedNow, item.AppID())
	}
	assert.Equal(t, []string{"com.test.delta"}, closedNow)
	require.Len(t, f.disp.scheduled, 1)
	assert.Equal(t, closeFullscreenDelay, f.disp.scheduled[0].delay)

	f.disp.fire()
	assert.Len(t, f.backend.closed, 2)
	assert.Equal(t, "com.test.alpha", f.backend.closed[1].AppID())

	require.Len(t, replies, 1)
	assert.Equal(t, true, replies[0]["returnValue"])
}

func TestStopPublishCarriesCloseReason(t *testing.T) {
	f := newFixture(t)

	f.launch("com.test.alpha", nil)
	drain(f.statusCh)
	drain(f.eventCh)

	require.NoError(t, f.mgr.CloseByAppID("com.test.alpha", "user", "powerOff", false, false))
	f.backend.finishClose("com.test.alpha")

	statusPayloads := drain(f.statusCh)
	var stopPayload map[string]any
	for _, p := range statusPayloads {
		if p["status"] == "stop" {
			stopPayload = p
		}
	}
	require.NotNil(t, stopPayload)
	assert.Equal(t, "powerOff", stopPayload["reason"])

	// the close reason is consumed by the stop publish
	require.NoError(t, f.mgr.CloseByAppID("com.test.alpha", "user", "", false, false))
	f.backend.finishClose("com.test.alpha")
	assert.NotContains(t, f.mgr.closeReasons, "com.test.alpha")
}

func TestDevRunningSubscription(t *testing.T) {
	f := newFixture(t)
	f.catalog.Register(&packages.AppPackage{
		ID: "com.test.devapp", Type: packages.AppTypeWeb,
		HandlerType: packages.HandlerTypeNative, DefaultWindowType: "card",
		TypeByDir: packages.TypeByDirDev,
	})

	devCh, cancel := f.pub.Subscribe(publisher.KindDevRunning)
	defer cancel()

	f.launch("com.test.devapp", nil)

	payloads := drain(devCh)
	require.NotEmpty(t, payloads)
	running, ok := payloads[len(payloads)-1]["running"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, running, 1)
	assert.Equal(t, "com.test.devapp", running[0]["id"])
	assert.Equal(t, "card", running[0]["defaultWindowType"])

	// nothing went to the normal running kind
	assert.Empty(t, drain(f.runningCh))
}

func TestRunningSubscriptionFollowsAddRemove(t *testing.T) {
	f := newFixture(t)

	f.launch("com.test.alpha", nil)

	payloads := drain(f.runningCh)
	require.NotEmpty(t, payloads)
	last := payloads[len(payloads)-1]
	running, ok := last["running"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, running, 1)
	assert.Equal(t, "com.test.alpha", running[0]["id"])

	f.backend.finishClose("com.test.alpha")
	payloads = drain(f.runningCh)
	require.NotEmpty(t, payloads)
	last = payloads[len(payloads)-1]
	assert.Empty(t, last["running"])
}
