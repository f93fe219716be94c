// Package busclient holds the thin clients for the services the
// lifecycle core collaborates with: configuration, database, window
// manager, notification and memory manager. Each client composes a
// Base carrying the shared transport and server-status signal; only
// the minimum contract of each collaborator is wrapped.
package busclient

import (
	"context"
	"log/slog"
)

// Caller is the service-bus transport. Call performs one
// request/reply; Subscribe delivers payloads until the context ends.
type Caller interface {
	Call(ctx context.Context, service, method string, payload map[string]any) (map[string]any, error)
	Subscribe(ctx context.Context, service, method string, payload map[string]any) (<-chan map[string]any, error)
}

// Base is the shared behavior of every bus client.
type Base struct {
	name   string
	caller Caller
	logger *slog.Logger

	// OnServerStatusChanged fires when the remote service comes or
	// goes.
	OnServerStatusChanged func(connected bool)
}

// NewBase creates the shared client core for one remote service.
func NewBase(name string, caller Caller, handler slog.Handler) Base {
	return Base{
		name:   name,
		caller: caller,
		logger: slog.New(handler).WithGroup("busclient." + name),
	}
}

// Name returns the remote service name.
func (b *Base) Name() string { return b.name }

// ServerStatusChanged records a connectivity change and forwards it.
func (b *Base) ServerStatusChanged(connected bool) {
	b.logger.Info("server status changed", "connected", connected)
	if b.OnServerStatusChanged != nil {
		b.OnServerStatusChanged(connected)
	}
}
