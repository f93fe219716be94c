package handlers

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/atlanticdynamic/appmand/internal/server/lifecycle/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mockAnyPayload() any {
	return mock.AnythingOfType("map[string]interface {}")
}

func testHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
}

// testLoop collects posted thunks and lets the test drain them on its
// own goroutine, standing in for the lifecycle dispatch loop.
type testLoop struct {
	tasks chan func()
}

func newTestLoop() *testLoop {
	return &testLoop{tasks: make(chan func(), 32)}
}

func (l *testLoop) post(f func()) {
	l.tasks <- f
}

// drain runs posted thunks until none arrive for a while.
func (l *testLoop) drain(t *testing.T) {
	t.Helper()
	for {
		select {
		case f := <-l.tasks:
			f()
		case <-time.After(200 * time.Millisecond):
			return
		}
	}
}

type fakeNativeClient struct {
	startPid string
	startErr error

	terminated []string
}

func (c *fakeNativeClient) Start(appID string, params map[string]any) (string, error) {
	return c.startPid, c.startErr
}

func (c *fakeNativeClient) Terminate(pid string) error {
	c.terminated = append(c.terminated, pid)
	return nil
}

// eventRecorder captures backend events in order.
type eventRecorder struct {
	added    []string
	removed  []string
	statuses []router.RuntimeStatus
	life     []router.LifeStatus
	done     []string
}

func (r *eventRecorder) events() Events {
	return Events{
		RunningAppAdded: func(appID, pid, webProcessID string) {
			r.added = append(r.added, appID)
		},
		RunningAppRemoved: func(appID string) {
			r.removed = append(r.removed, appID)
		},
		RuntimeStatusChanged: func(appID, uid string, status router.RuntimeStatus) {
			r.statuses = append(r.statuses, status)
		},
		LifeStatusChanged: func(appID, uid string, candidate router.LifeStatus) {
			r.life = append(r.life, candidate)
		},
		LaunchingDone: func(uid string) {
			r.done = append(r.done, uid)
		},
	}
}

func newLaunchItem(t *testing.T, appID string) *appitem.LaunchItem {
	t.Helper()
	item, err := appitem.NewLaunchItem(map[string]any{"id": appID}, "tester", nil, testHandler())
	require.NoError(t, err)
	return item
}

func TestNativeLaunchFreshProcess(t *testing.T) {
	loop := newTestLoop()
	rec := &eventRecorder{}
	client := &fakeNativeClient{startPid: "4242"}
	h := NewNativeHandler(client, rec.events(), loop.post, testHandler())

	item := newLaunchItem(t, "com.test.alpha")
	h.Launch(item)
	loop.drain(t)

	assert.Equal(t, []string{"com.test.alpha"}, rec.added)
	assert.Equal(t, []router.RuntimeStatus{router.RuntimeStatusStarting}, rec.statuses)
	assert.Equal(t, []string{item.UID()}, rec.done)
	assert.Equal(t, "4242", item.Pid())
	assert.False(t, item.HasError())
}

func TestNativeLaunchStartFailure(t *testing.T) {
	loop := newTestLoop()
	rec := &eventRecorder{}
	client := &fakeNativeClient{startErr: assert.AnError}
	h := NewNativeHandler(client, rec.events(), loop.post, testHandler())

	item := newLaunchItem(t, "com.test.alpha")
	h.Launch(item)
	loop.drain(t)

	assert.True(t, item.HasError())
	assert.Equal(t, []string{item.UID()}, rec.done)
	assert.Empty(t, rec.added)
}

func TestNativeRelaunchOverChannel(t *testing.T) {
	loop := newTestLoop()
	rec := &eventRecorder{}
	client := &fakeNativeClient{startPid: "4242"}
	h := NewNativeHandler(client, rec.events(), loop.post, testHandler())

	// first launch spawns the process
	first := newLaunchItem(t, "com.test.alpha")
	h.Launch(first)
	loop.drain(t)

	ch := &MockChannel{}
	ch.On("Send", mockAnyPayload()).Return(nil)
	require.NoError(t, h.RegisterApp("com.test.alpha", ch))

	second := newLaunchItem(t, "com.test.alpha")
	h.Launch(second)

	assert.Equal(t, "4242", second.Pid())
	assert.False(t, second.HasError())
	assert.Contains(t, rec.statuses, router.RuntimeStatusRegistered)
	assert.Contains(t, rec.statuses, router.RuntimeStatusRunning)
	ch.AssertCalled(t, "Send", mockAnyPayload())
}

func TestNativeRegisterTwiceFails(t *testing.T) {
	loop := newTestLoop()
	rec := &eventRecorder{}
	h := NewNativeHandler(&fakeNativeClient{}, rec.events(), loop.post, testHandler())

	ch := &MockChannel{}
	require.NoError(t, h.RegisterApp("com.test.alpha", ch))
	assert.ErrorIs(t, h.RegisterApp("com.test.alpha", ch), ErrAlreadyRegistered)
}

func TestNativeCloseLifecycle(t *testing.T) {
	loop := newTestLoop()
	rec := &eventRecorder{}
	client := &fakeNativeClient{startPid: "4242"}
	h := NewNativeHandler(client, rec.events(), loop.post, testHandler())

	item := newLaunchItem(t, "com.test.alpha")
	h.Launch(item)
	loop.drain(t)

	closeItem := appitem.NewCloseItem("com.test.alpha", "4242", "tester", "userRequest")
	require.NoError(t, h.Close(closeItem))
	loop.drain(t)

	assert.Equal(t, []string{"4242"}, client.terminated)
	assert.Equal(t, []string{"com.test.alpha"}, rec.removed)
	assert.Contains(t, rec.statuses, router.RuntimeStatusClosing)
	assert.Contains(t, rec.statuses, router.RuntimeStatusStopped)
}

func TestNativeCloseUnknownApp(t *testing.T) {
	loop := newTestLoop()
	rec := &eventRecorder{}
	h := NewNativeHandler(&fakeNativeClient{}, rec.events(), loop.post, testHandler())

	closeItem := appitem.NewCloseItem("com.test.gone", "", "tester", "")
	assert.ErrorIs(t, h.Close(closeItem), ErrAppNotRunning)
}

func TestNativePauseRequiresChannel(t *testing.T) {
	loop := newTestLoop()
	rec := &eventRecorder{}
	h := NewNativeHandler(&fakeNativeClient{}, rec.events(), loop.post, testHandler())

	assert.ErrorIs(t, h.Pause("com.test.alpha", nil, true), ErrPauseNotSupported)
}

func TestNativePauseEmitsPausingThenPaused(t *testing.T) {
	loop := newTestLoop()
	rec := &eventRecorder{}
	h := NewNativeHandler(&fakeNativeClient{}, rec.events(), loop.post, testHandler())

	ch := &MockChannel{}
	ch.On("Send", mockAnyPayload()).Return(nil)
	require.NoError(t, h.RegisterApp("com.test.alpha", ch))

	require.NoError(t, h.Pause("com.test.alpha", map[string]any{}, true))
	loop.drain(t)

	assert.Equal(t, []router.LifeStatus{router.LifeStatusPausing, router.LifeStatusPaused}, rec.life)
}

func TestNativePauseSilentWhenNotReporting(t *testing.T) {
	loop := newTestLoop()
	rec := &eventRecorder{}
	h := NewNativeHandler(&fakeNativeClient{}, rec.events(), loop.post, testHandler())

	ch := &MockChannel{}
	ch.On("Send", mockAnyPayload()).Return(nil)
	require.NoError(t, h.RegisterApp("com.test.alpha", ch))

	require.NoError(t, h.Pause("com.test.alpha", map[string]any{}, false))
	loop.drain(t)

	assert.Empty(t, rec.life)
}
