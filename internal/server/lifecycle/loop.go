package lifecycle

import (
	"context"
	"log/slog"
	"time"
)

// Dispatcher serializes work onto the lifecycle manager's single
// dispatch goroutine. All manager state is confined to that goroutine;
// backends and timers re-enter through Post.
type Dispatcher interface {
	// Post schedules a function onto the loop.
	Post(f func())

	// Schedule runs a function on the loop after the delay. The
	// returned cancel function stops an unfired timer.
	Schedule(d time.Duration, f func()) (cancel func())
}

const loopBuffer = 1024

// Loop is the channel-backed Dispatcher drained by the Runner.
type Loop struct {
	tasks  chan func()
	logger *slog.Logger
}

// NewLoop creates a dispatch loop.
func NewLoop(handler slog.Handler) *Loop {
	return &Loop{
		tasks:  make(chan func(), loopBuffer),
		logger: slog.New(handler).WithGroup("lifecycle.Loop"),
	}
}

// Post implements Dispatcher. Blocks if the loop is saturated, so it
// must not be called with the loop stopped.
func (l *Loop) Post(f func()) {
	l.tasks <- f
}

// Schedule implements Dispatcher.
func (l *Loop) Schedule(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, func() {
		l.Post(f)
	})
	return func() { t.Stop() }
}

// PostWait posts a function and blocks until it ran. Must not be
// called from the loop goroutine itself.
func (l *Loop) PostWait(f func()) {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		f()
	})
	<-done
}

// Run drains the loop until the context is canceled.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("dispatch loop stopping")
			return
		case f := <-l.tasks:
			f()
		}
	}
}
