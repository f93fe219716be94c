// Package publisher fans lifecycle payloads out to service-bus
// subscribers. The lifecycle manager posts from its dispatch loop;
// subscribers receive on buffered channels and slow ones lose
// messages rather than stall the loop.
package publisher

import (
	"log/slog"
	"sync"
)

// Subscription kinds published by the lifecycle core.
const (
	KindAppLifeStatus  = "getAppLifeStatus"
	KindRunning        = "running"
	KindDevRunning     = "dev/running"
	KindLifecycleEvent = "lifecycleEvent"
)

const subscriberBuffer = 16

// Publisher is a per-kind broadcast hub.
type Publisher struct {
	mu     sync.Mutex
	logger *slog.Logger
	subs   map[string]map[int]chan map[string]any
	nextID int
}

// New creates a publisher.
func New(handler slog.Handler) *Publisher {
	return &Publisher{
		logger: slog.New(handler).WithGroup("publisher"),
		subs:   make(map[string]map[int]chan map[string]any),
	}
}

// Subscribe registers a subscriber for one kind. The cancel function
// closes the channel and removes the registration.
func (p *Publisher) Subscribe(kind string) (<-chan map[string]any, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan map[string]any, subscriberBuffer)
	if p.subs[kind] == nil {
		p.subs[kind] = make(map[int]chan map[string]any)
	}
	id := p.nextID
	p.nextID++
	p.subs[kind][id] = ch

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if sub, ok := p.subs[kind][id]; ok {
			delete(p.subs[kind], id)
			close(sub)
		}
	}
	return ch, cancel
}

// Post broadcasts a payload to every subscriber of the kind. Emission
// failures are logged, never propagated.
func (p *Publisher) Post(kind string, payload map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, ch := range p.subs[kind] {
		select {
		case ch <- payload:
		default:
			p.logger.Warn("subscriber lagging, dropping payload", "kind", kind, "subscriber", id)
		}
	}
}

// SubscriberCount reports how many subscribers a kind has.
func (p *Publisher) SubscriberCount(kind string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs[kind])
}
