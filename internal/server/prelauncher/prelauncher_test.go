package prelauncher

import (
	"log/slog"
	"os"
	"testing"

	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/atlanticdynamic/appmand/internal/server/packages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
}

func testCatalog(t *testing.T) *packages.Catalog {
	t.Helper()
	catalog, err := packages.NewCatalog(
		&packages.AppPackage{ID: "com.test.alpha", SplashBackground: "splash.png"},
		&packages.AppPackage{ID: "com.test.plain"},
	)
	require.NoError(t, err)
	return catalog
}

func newItem(t *testing.T, payload map[string]any) *appitem.LaunchItem {
	t.Helper()
	item, err := appitem.NewLaunchItem(payload, "tester", nil, testHandler())
	require.NoError(t, err)
	return item
}

func TestAddCompletesKnownApp(t *testing.T) {
	p := New(testCatalog(t), testHandler())
	var done []string
	p.Done = func(uid string) { done = append(done, uid) }

	item := newItem(t, map[string]any{"id": "com.test.alpha"})
	p.Add(item)

	assert.Equal(t, []string{item.UID()}, done)
	assert.False(t, item.HasError())
	assert.True(t, item.ShowSplash())
}

func TestAddUnknownAppErrors(t *testing.T) {
	p := New(testCatalog(t), testHandler())
	var done []string
	p.Done = func(uid string) { done = append(done, uid) }

	item := newItem(t, map[string]any{"id": "com.test.unknown"})
	p.Add(item)

	assert.Equal(t, []string{item.UID()}, done)
	assert.True(t, item.HasError())
	assert.Equal(t, appitem.ErrCodeNotExist, item.ErrorCode())
	assert.Equal(t, "not exist", item.ErrorText())
}

func TestSplashSuppressedWithoutAsset(t *testing.T) {
	p := New(testCatalog(t), testHandler())
	p.Done = func(string) {}

	item := newItem(t, map[string]any{"id": "com.test.plain"})
	p.Add(item)

	assert.False(t, item.ShowSplash())
}

func TestPreloadSuppressesFeedback(t *testing.T) {
	p := New(testCatalog(t), testHandler())
	p.Done = func(string) {}

	item := newItem(t, map[string]any{"id": "com.test.alpha", "preload": "full", "spinner": true})
	p.Add(item)

	assert.False(t, item.ShowSplash())
	assert.False(t, item.ShowSpinner())
}

func TestBridgedRendezvous(t *testing.T) {
	p := New(testCatalog(t), testHandler())
	var done []string
	var parked []string
	p.Done = func(uid string) { done = append(done, uid) }
	p.Parked = func(item *appitem.LaunchItem) { parked = append(parked, item.UID()) }

	item := newItem(t, map[string]any{"id": "com.test.alpha", "automaticLaunch": true})
	p.Add(item)

	assert.Empty(t, done)
	assert.Equal(t, []string{item.UID()}, parked)
	assert.True(t, p.IsPending(item.UID()))

	p.InputBridgedReturn(item, map[string]any{"contentTarget": "x"})

	assert.Equal(t, []string{item.UID()}, done)
	assert.False(t, p.IsPending(item.UID()))
	assert.Equal(t, "x", item.Params()["contentTarget"])
}

func TestBridgedReturnForUnknownItemIgnored(t *testing.T) {
	p := New(testCatalog(t), testHandler())
	var done []string
	p.Done = func(uid string) { done = append(done, uid) }

	item := newItem(t, map[string]any{"id": "com.test.alpha"})
	p.InputBridgedReturn(item, nil)

	assert.Empty(t, done)
}

func TestCancelAllFlushesWithErrors(t *testing.T) {
	p := New(testCatalog(t), testHandler())
	var done []string
	p.Done = func(uid string) { done = append(done, uid) }

	parked := newItem(t, map[string]any{"id": "com.test.alpha", "automaticLaunch": true})
	p.Add(parked)
	require.Empty(t, done)

	p.CancelAll()

	assert.Equal(t, []string{parked.UID()}, done)
	assert.True(t, parked.HasError())
	assert.Equal(t, "stopped launching", parked.ErrorText())

	// a second cancel produces no more Done events
	p.CancelAll()
	assert.Len(t, done, 1)
}
