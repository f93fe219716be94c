// Package memcheck implements the second launch pipeline stage: a FIFO
// queue asking the memory manager whether each launch may proceed.
package memcheck

import (
	"log/slog"

	"github.com/atlanticdynamic/appmand/internal/server/appitem"
)

// MemoryManager is the minimum contract of the memory manager service.
// The verdict callback may fire on any goroutine.
type MemoryManager interface {
	RequireMemory(appID string, onResult func(allowed bool, reason string))
}

// Checker serializes memory checks in arrival order. Every item whose
// check runs produces one Start and one Done callback; CancelAll emits
// Done without Start for queued items, and Remove emits neither.
type Checker struct {
	mm     MemoryManager
	post   func(func())
	logger *slog.Logger

	// Start fires when an item's check begins.
	Start func(uid string)

	// Done fires when the verdict is in; denial leaves an error on the
	// item.
	Done func(uid string)

	queue []*appitem.LaunchItem
	busy  bool
}

// New creates a checker. post schedules callbacks onto the lifecycle
// dispatch loop.
func New(mm MemoryManager, post func(func()), handler slog.Handler) *Checker {
	return &Checker{
		mm:     mm,
		post:   post,
		logger: slog.New(handler).WithGroup("memcheck"),
	}
}

// Add enqueues an item.
func (c *Checker) Add(item *appitem.LaunchItem) {
	c.queue = append(c.queue, item)
}

// Run starts the next check unless one is already in flight.
func (c *Checker) Run() {
	if c.busy || len(c.queue) == 0 {
		return
	}

	item := c.queue[0]
	c.queue = c.queue[1:]
	c.busy = true
	uid := item.UID()

	if c.Start != nil {
		c.Start(uid)
	}

	c.mm.RequireMemory(item.AppID(), func(allowed bool, reason string) {
		c.post(func() {
			c.busy = false
			if !allowed {
				if reason == "" {
					reason = "memory manager denied launch"
				}
				item.SetError(appitem.ErrCodeLaunchGeneral, reason)
			}
			if c.Done != nil {
				c.Done(uid)
			}
			c.Run()
		})
	})
}

// CancelAll flushes the queue with errors. A check already in flight
// finishes on its own; its late verdict is accepted idempotently by
// the manager.
func (c *Checker) CancelAll() {
	queued := c.queue
	c.queue = nil
	for _, item := range queued {
		item.SetError(appitem.ErrCodeLaunchGeneral, "stopped launching")
		if c.Done != nil {
			c.Done(item.UID())
		}
	}
}

// Remove drops a queued item without emitting Done. Used when the
// manager finalizes the item directly. An in-flight check is not
// interrupted.
func (c *Checker) Remove(uid string) {
	for i, item := range c.queue {
		if item.UID() == uid {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			return
		}
	}
}

// QueueLen reports how many items wait for their check.
func (c *Checker) QueueLen() int { return len(c.queue) }
