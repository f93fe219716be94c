// Package lifecycle implements the application lifecycle core: the
// staged launch pipeline, the event-driven state machine reconciling
// runtime backends, the foreground reconciler, and the last-app
// fallback policy. All manager state is confined to a single dispatch
// loop (see Loop); public entry points are expected to run on it.
package lifecycle

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	itemstate "github.com/atlanticdynamic/appmand/internal/server/appitem/finitestate"
	"github.com/atlanticdynamic/appmand/internal/server/handlers"
	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
	"github.com/atlanticdynamic/appmand/internal/server/memcheck"
	"github.com/atlanticdynamic/appmand/internal/server/packages"
	"github.com/atlanticdynamic/appmand/internal/server/prelauncher"
	"github.com/atlanticdynamic/appmand/internal/server/publisher"
	"github.com/atlanticdynamic/appmand/internal/server/runninginfo"
	"github.com/atlanticdynamic/appmand/internal/settings"
)

// closeFullscreenDelay is the best-effort gap between closing
// background apps and the fullscreen owner during close-all. Ordering
// is a hint only; backends give no guarantee.
const closeFullscreenDelay = 500 * time.Millisecond

// LoadingEntry is one app between a Launching transition and the next
// terminal or background transition.
type LoadingEntry struct {
	AppID     string
	AppType   packages.AppType
	StartedAt time.Time
}

type lastLoadingTimer struct {
	cancel func()
	appID  string
}

// Manager orchestrates the launch pipeline and owns all lifecycle
// state. Methods must run on the dispatch loop.
type Manager struct {
	logger     *slog.Logger
	logHandler slog.Handler
	dispatch   Dispatcher

	settings *settings.Settings
	lookup   packages.Lookup
	registry *runninginfo.Registry

	prelauncher *prelauncher.Prelauncher
	memChecker  *memcheck.Checker
	handlers    map[packages.HandlerType]handlers.Handler
	registrar   handlers.NativeRegistrar
	publisher   *publisher.Publisher

	// lastAppLauncher is the external policy launching a default app
	// when no foreground owner exists.
	lastAppLauncher func()

	launchQueue      []*appitem.LaunchItem
	automaticPending []*appitem.LaunchItem
	loadingApps      []LoadingEntry
	closeReasons     map[string]string

	lastLaunchingApps []string
	lastLoadingApp    *lastLoadingTimer

	now func() time.Time

	// OnLaunchingFinished fires for every finalized launch item.
	OnLaunchingFinished func(item *appitem.LaunchItem)

	// OnLifeStatusChanged fires after every applied transition.
	OnLifeStatusChanged func(appID string, status router.LifeStatus)

	// OnForegroundAppChanged fires when the fullscreen owner changes.
	OnForegroundAppChanged func(appID string)

	// OnForegroundExtraInfoChanged fires when the raw foreground
	// snapshot changes.
	OnForegroundExtraInfoChanged func(info []map[string]any)
}

// Config carries the manager's dependencies.
type Config struct {
	Settings        *settings.Settings
	Lookup          packages.Lookup
	MemoryManager   memcheck.MemoryManager
	Publisher       *publisher.Publisher
	Dispatcher      Dispatcher
	LastAppLauncher func()
	LogHandler      slog.Handler
}

// NewManager wires the pipeline stages together. Runtime backends are
// attached afterwards with SetHandler.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if cfg.Lookup == nil {
		return nil, fmt.Errorf("package lookup cannot be nil")
	}
	if cfg.MemoryManager == nil {
		return nil, fmt.Errorf("memory manager cannot be nil")
	}
	if cfg.Publisher == nil {
		return nil, fmt.Errorf("publisher cannot be nil")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher cannot be nil")
	}
	if cfg.LogHandler == nil {
		cfg.LogHandler = slog.Default().Handler()
	}

	m := &Manager{
		logger:          slog.New(cfg.LogHandler).WithGroup("lifecycle.Manager"),
		logHandler:      cfg.LogHandler,
		dispatch:        cfg.Dispatcher,
		settings:        cfg.Settings,
		lookup:          cfg.Lookup,
		registry:        runninginfo.NewRegistry(),
		publisher:       cfg.Publisher,
		lastAppLauncher: cfg.LastAppLauncher,
		handlers:        make(map[packages.HandlerType]handlers.Handler),
		closeReasons:    make(map[string]string),
		now:             time.Now,
	}

	m.prelauncher = prelauncher.New(cfg.Lookup, cfg.LogHandler)
	m.prelauncher.Done = m.onPrelaunchingDone
	m.prelauncher.Parked = m.onItemParked

	m.memChecker = memcheck.New(cfg.MemoryManager, cfg.Dispatcher.Post, cfg.LogHandler)
	m.memChecker.Start = m.onMemoryCheckingStart
	m.memChecker.Done = m.onMemoryCheckingDone

	return m, nil
}

// BackendEvents returns the callback set runtime backends emit into.
func (m *Manager) BackendEvents() handlers.Events {
	return handlers.Events{
		RunningAppAdded:      m.onRunningAppAdded,
		RunningAppRemoved:    m.onRunningAppRemoved,
		RuntimeStatusChanged: m.onRuntimeStatusChanged,
		LifeStatusChanged:    m.setAppLifeStatus,
		LaunchingDone:        m.onLaunchingDone,
	}
}

// SetHandler attaches a runtime backend for one handler type.
func (m *Manager) SetHandler(t packages.HandlerType, h handlers.Handler) {
	m.handlers[t] = h
	if reg, ok := h.(handlers.NativeRegistrar); ok && t == packages.HandlerTypeNative {
		m.registrar = reg
	}
}

// Registry exposes the running-info table for read paths (running
// subscription bootstrap, status rendering).
func (m *Manager) Registry() *runninginfo.Registry { return m.registry }

// Post schedules a function onto the dispatch loop; handed to backends
// so their completions serialize with everything else.
func (m *Manager) Post(f func()) { m.dispatch.Post(f) }

// Launch handles a launch request: creates the item, queues it, and
// starts the pipeline.
func (m *Manager) Launch(task *Task) {
	appID := task.AppID()
	if appID == "" || m.lookup.GetAppByID(appID) == nil {
		m.logger.Error("creating launch item failed", "appId", appID)
		task.ReplyError(appitem.ErrCodeNotExist, ErrNotExistingApp.Error())
		return
	}

	item, err := appitem.NewLaunchItem(task.Payload(), task.CallerID(), task.takeReply(), m.logHandler)
	if err != nil {
		m.logger.Error("creating launch item failed", "appId", appID, "error", err)
		task.ReplyError(appitem.ErrCodeNotExist, ErrNotExistingApp.Error())
		return
	}

	item.SetLaunchStartTime(m.now())
	m.launchQueue = append(m.launchQueue, item)
	m.runWithPrelauncher(item)
}

// Pause handles a pause request.
func (m *Manager) Pause(task *Task) {
	params, _ := task.Payload()["params"].(map[string]any)
	if params == nil {
		params = map[string]any{}
	}

	if err := m.pauseApp(task.AppID(), params, true); err != nil {
		task.ReplyError(appitem.ErrCodeLaunchGeneral, err.Error())
		return
	}
	task.Reply(map[string]any{"appId": task.AppID()})
}

// Close handles a close request. letAppHandle routes to a silent
// pause so the app decides what to do.
func (m *Manager) Close(task *Task) {
	payload := task.Payload()
	appID := task.AppID()

	preloadOnly, _ := payload["preloadOnly"].(bool)
	reason, _ := payload["reason"].(string)
	letAppHandle, _ := payload["letAppHandle"].(bool)

	var err error
	if letAppHandle {
		err = m.pauseApp(appID, map[string]any{}, false)
	} else {
		err = m.CloseByAppID(appID, task.CallerID(), reason, preloadOnly, false)
	}

	if err != nil {
		m.logger.Error("close failed", "appId", appID, "error", err)
		task.ReplyError(appitem.ErrCodeLaunchGeneral, err.Error())
		return
	}
	task.Reply(map[string]any{"appId": appID})
}

// CloseAll handles a close-all request.
func (m *Manager) CloseAll(task *Task) {
	m.closeAllApps(false)
	task.Reply(nil)
}

// RegisterApp attaches a v2 native interface channel.
func (m *Manager) RegisterApp(appID string, ch handlers.Channel) error {
	return m.registerNative(appID, ch, 2)
}

// ConnectNativeApp attaches a v1 native interface channel.
func (m *Manager) ConnectNativeApp(appID string, ch handlers.Channel) error {
	return m.registerNative(appID, ch, 1)
}

func (m *Manager) registerNative(appID string, ch handlers.Channel, version int) error {
	pkg := m.lookup.GetAppByID(appID)
	if pkg == nil {
		return fmt.Errorf("not existing app")
	}
	if pkg.NativeInterfaceVersion != version {
		m.logger.Error("registration version mismatch", "appId", appID,
			"expected", version, "actual", pkg.NativeInterfaceVersion)
		return ErrUnmatchedRegistration
	}

	info := m.registry.Get(appID)
	if info == nil ||
		(info.RuntimeStatus != router.RuntimeStatusRunning &&
			info.RuntimeStatus != router.RuntimeStatusRegistered) {
		m.logger.Error("registration in invalid status", "appId", appID)
		return ErrInvalidStatus
	}

	if m.registrar == nil {
		return ErrNoLifeHandler
	}
	return m.registrar.RegisterApp(appID, ch)
}

// HandleBridgedLaunchRequest resumes a launch parked on a parent
// decision. The params must carry the launching uid.
func (m *Manager) HandleBridgedLaunchRequest(params map[string]any) {
	uid, _ := params["launchingItemUid"].(string)
	if uid == "" {
		m.logger.Error("bridged launch request without uid")
		return
	}

	item := m.launchingItemByUID(uid)
	if item == nil {
		m.logger.Error("bridged launch item not found", "uid", uid)
		return
	}
	m.prelauncher.InputBridgedReturn(item, params)
}

// --- pipeline progression ---

func (m *Manager) runWithPrelauncher(item *appitem.LaunchItem) {
	item.Logger().Info("start prelaunching")
	if item.Stage() == itemstate.StageCreated {
		if err := item.SetStage(itemstate.StagePrelaunch); err != nil {
			m.logger.Error("stage move failed", "uid", item.UID(), "error", err)
		}
	}
	m.prelauncher.Add(item)
}

func (m *Manager) onItemParked(item *appitem.LaunchItem) {
	m.automaticPending = append(m.automaticPending, item)
	item.Logger().Info("pending automatic app")
}

func (m *Manager) onPrelaunchingDone(uid string) {
	item := m.launchingItemByUID(uid)
	if item == nil {
		m.logger.Error("prelaunching done for unknown item", "uid", uid)
		return
	}

	item.Logger().Info("prelaunching done")
	if item.Stage() != itemstate.StagePrelaunch {
		m.logger.Error("item not in prelaunching stage", "uid", uid, "stage", item.Stage())
		return
	}

	if item.HasError() {
		m.finishLaunching(item)
		return
	}
	m.runWithMemoryChecker(item)
}

func (m *Manager) runWithMemoryChecker(item *appitem.LaunchItem) {
	item.Logger().Info("start memory checking")
	if err := item.SetStage(itemstate.StageMemoryCheck); err != nil {
		m.logger.Error("stage move failed", "uid", item.UID(), "error", err)
	}
	m.memChecker.Add(item)
	m.memChecker.Run()
}

func (m *Manager) onMemoryCheckingStart(uid string) {
	item := m.launchingItemByUID(uid)
	if item == nil {
		m.logger.Error("memory checking start for unknown item", "uid", uid)
		return
	}
	m.generateLifeCycleEvent(item.AppID(), uid, router.LifeEventSplash)
}

func (m *Manager) onMemoryCheckingDone(uid string) {
	item := m.launchingItemByUID(uid)
	if item == nil {
		m.logger.Error("memory checking done for unknown item", "uid", uid)
		return
	}

	item.Logger().Info("memory checking done")
	if item.Stage() != itemstate.StageMemoryCheck {
		m.logger.Error("item not in memory checking stage", "uid", uid, "stage", item.Stage())
		return
	}

	if item.HasError() {
		m.finishLaunching(item)
		return
	}
	m.runWithLauncher(item)
}

func (m *Manager) runWithLauncher(item *appitem.LaunchItem) {
	item.Logger().Info("start launching")
	if err := item.SetStage(itemstate.StageLaunch); err != nil {
		m.logger.Error("stage move failed", "uid", item.UID(), "error", err)
	}

	handler := m.lifeHandlerForApp(item.AppID())
	if handler == nil {
		item.SetError(appitem.ErrCodeLaunchGeneral, ErrNoLifeHandler.Error())
		m.finishLaunching(item)
		return
	}
	handler.Launch(item)
}

func (m *Manager) onLaunchingDone(uid string) {
	item := m.launchingItemByUID(uid)
	if item == nil {
		m.logger.Error("launching done for unknown item", "uid", uid)
		return
	}
	item.Logger().Info("launching done")
	m.finishLaunching(item)
}

// finishLaunching finalizes an item: posts the reply, retires the item
// and, when the failed item was the last last-app candidate, runs the
// last-app fallback.
func (m *Manager) finishLaunching(item *appitem.LaunchItem) {
	appID := item.AppID()
	uid := item.UID()

	wasLastCandidate := m.isLastLaunchingApp(appID) && len(m.lastLaunchingApps) == 1
	redirectToLastApp := wasLastCandidate && item.HasError()

	item.Logger().Info("finish launching")
	if m.OnLaunchingFinished != nil {
		m.OnLaunchingFinished(item)
	}

	if item.HasError() {
		if err := item.Reply(map[string]any{
			"returnValue": false,
			"errorCode":   item.ErrorCode(),
			"errorText":   item.ErrorText(),
		}); err == nil {
			item.Logger().Info("replied launch request")
		}
	} else {
		if err := item.Reply(map[string]any{"returnValue": true}); err == nil {
			item.Logger().Info("replied launch request")
		}
	}

	m.removeLastLaunchingApp(appID)
	m.removeLaunchItem(uid)
	m.removeFromAutomaticPending(appID)
	if item.Stage() != itemstate.StageDone {
		if err := item.SetStage(itemstate.StageDone); err != nil {
			m.logger.Error("stage move failed", "uid", uid, "error", err)
		}
	}

	if redirectToLastApp {
		item.Logger().Info("trigger launch of last app")
		m.runLastAppHandler()
	}
}

// --- runtime event handling ---

func (m *Manager) onRuntimeStatusChanged(appID, uid string, status router.RuntimeStatus) {
	if appID == "" {
		m.logger.Error("runtime status change without app id")
		return
	}

	info := m.registry.GetOrCreate(appID)
	info.RuntimeStatus = status

	candidate := router.LifeStatusFromRuntimeStatus(status, m.registry.IsAppOnFullscreen(appID))
	m.setAppLifeStatus(appID, uid, candidate)
}

// setAppLifeStatus routes one candidate transition through the policy
// table and applies the outcome. Every observable life status passes
// through here.
func (m *Manager) setAppLifeStatus(appID, uid string, candidate router.LifeStatus) {
	pkg := m.lookup.GetAppByID(appID)
	info := m.registry.GetOrCreate(appID)

	policy := router.RoutePolicy(info.LifeStatus, candidate)

	// The lifecycle event stream sees every candidate, ignored or not.
	m.generateLifeCycleEvent(appID, uid, router.LifeEventFromLifeStatus(policy.Next))

	switch policy.Log {
	case router.LogCheck:
		m.logger.Info("life status transition", "appId", appID,
			"prev", info.LifeStatus, "next", policy.Next)
	case router.LogWarn:
		m.logger.Warn("handling exceptional transition", "appId", appID,
			"prev", info.LifeStatus, "next", policy.Next)
	case router.LogError:
		m.logger.Error("unexpected transition", "appId", appID,
			"prev", info.LifeStatus, "next", policy.Next)
	}

	if policy.Action == router.ActionIgnore {
		return
	}

	switch policy.Next {
	case router.LifeStatusLaunching, router.LifeStatusRelaunching:
		if pkg != nil {
			m.addLoadingApp(appID, pkg.Type)
		}
		info.PreloadMode = false
	case router.LifeStatusPreloading:
		info.PreloadMode = true
	case router.LifeStatusForeground:
		info.PreloadMode = false
	case router.LifeStatusStop:
		info.PreloadMode = false
		m.removeLoadingApp(appID)
	case router.LifeStatusBackground, router.LifeStatusPausing:
		m.removeLoadingApp(appID)
	}

	m.logger.Info("life status changed", "appId", appID,
		"prev", info.LifeStatus, "next", policy.Next)
	info.LifeStatus = policy.Next

	if m.OnLifeStatusChanged != nil {
		m.OnLifeStatusChanged(appID, policy.Next)
	}
	m.publishLifeStatus(appID, uid, policy.Next)
}

func (m *Manager) onRunningAppAdded(appID, pid, webProcessID string) {
	info := m.registry.GetOrCreate(appID)
	info.Pid = pid
	info.WebProcessID = webProcessID
	m.onRunningListChanged(appID)
}

func (m *Manager) onRunningAppRemoved(appID string) {
	m.registry.Remove(appID)
	m.onRunningListChanged(appID)

	if m.isInAutomaticPending(appID) {
		m.handleAutomaticApp(appID, true)
	}
}

func (m *Manager) onRunningListChanged(appID string) {
	pkg := m.lookup.GetAppByID(appID)
	isDevApp := pkg != nil && pkg.IsDevApp()
	m.publishRunning(isDevApp)
}

// OnWebRuntimeStatusChanged reacts to the web runtime service
// appearing or disappearing. A disconnect tears down every loading web
// app.
func (m *Manager) OnWebRuntimeStatusChanged(connected bool) {
	if connected {
		return
	}

	m.logger.Info("web runtime disconnected, removing loading web apps")
	loading := make([]LoadingEntry, len(m.loadingApps))
	copy(loading, m.loadingApps)
	for _, entry := range loading {
		if entry.AppType != packages.AppTypeWeb {
			continue
		}
		m.onRuntimeStatusChanged(entry.AppID, "", router.RuntimeStatusStopped)
		if m.registry.Get(entry.AppID) != nil {
			m.onRunningAppRemoved(entry.AppID)
		}
	}
}

// --- close paths ---

// CloseByAppID closes one app, converting to pause when keep-alive
// policy applies.
func (m *Manager) CloseByAppID(appID, callerID, reason string, preloadOnly, clearAllItems bool) error {
	if preloadOnly && !m.hasOnlyPreloadedItems(appID) {
		return ErrLaunchingByUser
	}

	// Keep-alive policy converts close into pause except for the
	// exempted callers.
	if m.settings.IsKeepAliveApp(appID) &&
		callerID != settings.MemoryManagerID &&
		callerID != settings.AppInstallServiceID &&
		!(callerID == settings.SurfaceManagerWindowExtID && reason == "recent") &&
		callerID != settings.InternalServiceID {
		return m.pauseApp(appID, map[string]any{}, true)
	}

	return m.closeApp(appID, callerID, reason, clearAllItems)
}

func (m *Manager) closeApp(appID, callerID, reason string, clearAllItems bool) error {
	if clearAllItems {
		m.clearLaunchingAndLoadingItemsByAppID(appID)
	}

	handler := m.lifeHandlerForApp(appID)
	if handler == nil {
		m.logger.Error("close without life handler", "appId", appID)
		return ErrNoLifeHandler
	}

	closeReason := m.settings.CloseReason(callerID, reason)
	if m.registry.IsRunning(appID) {
		if _, exists := m.closeReasons[appID]; !exists {
			m.closeReasons[appID] = closeReason
		}
	}

	info := m.registry.GetOrCreate(appID)
	item := appitem.NewCloseItem(appID, info.Pid, callerID, closeReason)

	m.logger.Info("closing app", "appId", appID, "pid", info.Pid)
	return handler.Close(item)
}

func (m *Manager) pauseApp(appID string, params map[string]any, reportEvent bool) error {
	if !m.registry.IsRunning(appID) {
		return ErrNotRunning
	}

	handler := m.lifeHandlerForApp(appID)
	if handler == nil {
		m.logger.Error("pause without life handler", "appId", appID)
		return ErrNoLifeHandler
	}

	return handler.Pause(appID, params, reportEvent)
}

// closeAllApps closes every running app, the fullscreen owner last.
func (m *Manager) closeAllApps(clearAllItems bool) {
	m.logger.Info("closing all apps")
	m.closeApps(m.registry.RunningAppIDs(), clearAllItems)
	m.resetLastAppCandidates()
}

func (m *Manager) closeApps(appIDs []string, clearAllItems bool) {
	if len(appIDs) == 0 {
		m.logger.Info("no apps to close")
		return
	}

	var fullscreenAppID string
	performedClose := false
	for _, appID := range appIDs {
		if m.registry.IsAppOnFullscreen(appID) {
			fullscreenAppID = appID
			continue
		}
		if err := m.CloseByAppID(appID, settings.InternalServiceID, "", false, clearAllItems); err != nil {
			m.logger.Warn("close failed", "appId", appID, "error", err)
		}
		performedClose = true
	}

	if fullscreenAppID == "" {
		return
	}

	closeFullscreen := func() {
		if err := m.CloseByAppID(fullscreenAppID, settings.InternalServiceID, "", false, clearAllItems); err != nil {
			m.logger.Warn("close failed", "appId", fullscreenAppID, "error", err)
		}
	}

	// Background apps first; the delay before the fullscreen owner is
	// a best-effort ordering hint, not a guarantee.
	if performedClose {
		m.dispatch.Schedule(closeFullscreenDelay, closeFullscreen)
	} else {
		closeFullscreen()
	}
}

// CloseAllLoadingApps cancels the whole in-flight launch population.
func (m *Manager) CloseAllLoadingApps() {
	m.resetLastAppCandidates()

	m.prelauncher.CancelAll()
	m.memChecker.CancelAll()

	pending := make([]*appitem.LaunchItem, len(m.automaticPending))
	copy(pending, m.automaticPending)
	for _, item := range pending {
		m.handleAutomaticApp(item.AppID(), false)
	}

	loading := make([]LoadingEntry, len(m.loadingApps))
	copy(loading, m.loadingApps)
	for _, entry := range loading {
		if err := m.CloseByAppID(entry.AppID, settings.InternalServiceID, "", false, true); err != nil {
			m.logger.Warn("closing loading app failed", "appId", entry.AppID, "error", err)
		} else {
			m.logger.Info("closed loading app", "appId", entry.AppID)
		}
	}
}

// clearLaunchingAndLoadingItemsByAppID finalizes every queued item for
// the app with a cancellation error and drives the app to Stop.
func (m *Manager) clearLaunchingAndLoadingItemsByAppID(appID string) {
	found := false

	for {
		item := m.launchingItemByAppID(appID)
		if item == nil {
			break
		}
		item.SetError(appitem.ErrCodeLaunchGeneral, "stopped launching")
		m.prelauncher.Remove(item.UID())
		m.memChecker.Remove(item.UID())
		m.finishLaunching(item)
		found = true
	}

	for _, entry := range m.loadingApps {
		if entry.AppID == appID {
			found = true
			break
		}
	}

	if found {
		m.setAppLifeStatus(appID, "", router.LifeStatusStop)
	}
}

// handleAutomaticApp resumes or cancels an automatic pending item.
func (m *Manager) handleAutomaticApp(appID string, continueToLaunch bool) {
	item := m.launchingItemByAppID(appID)
	if item == nil {
		m.logger.Error("automatic pending item not found", "appId", appID)
		m.removeFromAutomaticPending(appID)
		return
	}

	m.removeFromAutomaticPending(appID)

	if continueToLaunch {
		item.ResolveBridge(map[string]any{})
		m.runWithPrelauncher(item)
		return
	}

	m.logger.Info("cancelling automatic launch", "appId", appID)
	item.SetError(appitem.ErrCodeLaunchGeneral, "stopped launching")
	m.prelauncher.Remove(item.UID())
	m.finishLaunching(item)
}

// --- item bookkeeping ---

func (m *Manager) launchingItemByUID(uid string) *appitem.LaunchItem {
	for _, item := range m.launchQueue {
		if item.UID() == uid {
			return item
		}
	}
	return nil
}

func (m *Manager) launchingItemByAppID(appID string) *appitem.LaunchItem {
	for _, item := range m.launchQueue {
		if item.AppID() == appID {
			return item
		}
	}
	return nil
}

func (m *Manager) removeLaunchItem(uid string) {
	for i, item := range m.launchQueue {
		if item.UID() == uid {
			m.launchQueue = append(m.launchQueue[:i], m.launchQueue[i+1:]...)
			return
		}
	}
}

func (m *Manager) isInAutomaticPending(appID string) bool {
	for _, item := range m.automaticPending {
		if item.AppID() == appID {
			return true
		}
	}
	return false
}

func (m *Manager) removeFromAutomaticPending(appID string) {
	for i, item := range m.automaticPending {
		if item.AppID() == appID {
			m.automaticPending = append(m.automaticPending[:i], m.automaticPending[i+1:]...)
			return
		}
	}
}

// hasOnlyPreloadedItems reports whether nothing user-visible is in
// flight or running for the app.
func (m *Manager) hasOnlyPreloadedItems(appID string) bool {
	for _, item := range m.launchQueue {
		if item.AppID() == appID && item.Preload() == "" {
			return false
		}
	}
	for _, entry := range m.loadingApps {
		if entry.AppID == appID {
			return false
		}
	}
	info := m.registry.Get(appID)
	if info != nil && info.IsRunning() && !info.PreloadMode {
		return false
	}
	return true
}

func (m *Manager) lifeHandlerForApp(appID string) handlers.Handler {
	pkg := m.lookup.GetAppByID(appID)
	if pkg == nil {
		m.logger.Error("no package for app", "appId", appID)
		return nil
	}
	return m.handlers[pkg.HandlerType]
}
