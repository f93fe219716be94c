package publisher

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
}

func TestPostReachesSubscribers(t *testing.T) {
	p := New(testHandler())

	ch, cancel := p.Subscribe(KindAppLifeStatus)
	defer cancel()

	p.Post(KindAppLifeStatus, map[string]any{"status": "launching"})

	payload := <-ch
	assert.Equal(t, "launching", payload["status"])
}

func TestPostOnlyMatchingKind(t *testing.T) {
	p := New(testHandler())

	running, cancelRunning := p.Subscribe(KindRunning)
	defer cancelRunning()
	dev, cancelDev := p.Subscribe(KindDevRunning)
	defer cancelDev()

	p.Post(KindRunning, map[string]any{"returnValue": true})

	select {
	case payload := <-running:
		assert.Equal(t, true, payload["returnValue"])
	default:
		t.Fatal("running subscriber did not receive payload")
	}
	assert.Len(t, dev, 0)
}

func TestCancelClosesChannel(t *testing.T) {
	p := New(testHandler())

	ch, cancel := p.Subscribe(KindLifecycleEvent)
	require.Equal(t, 1, p.SubscriberCount(KindLifecycleEvent))

	cancel()
	assert.Equal(t, 0, p.SubscriberCount(KindLifecycleEvent))

	_, open := <-ch
	assert.False(t, open)

	// double cancel is safe
	cancel()
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	p := New(testHandler())

	ch, cancel := p.Subscribe(KindRunning)
	defer cancel()

	for range subscriberBuffer + 5 {
		p.Post(KindRunning, map[string]any{"returnValue": true})
	}

	// the buffer holds the first payloads; the rest were dropped
	assert.Len(t, ch, subscriberBuffer)
}
