package main

import (
	"context"
	"log/slog"

	"github.com/atlanticdynamic/appmand/internal/server/busclient"
)

// Interface guard
var _ busclient.Caller = (*standaloneCaller)(nil)

// standaloneCaller is the development transport: every call succeeds
// locally and subscriptions stay open but silent. It lets the daemon
// run off-device; the platform bus transport replaces it in
// production wiring.
type standaloneCaller struct {
	logger *slog.Logger
}

func newStandaloneCaller(handler slog.Handler) *standaloneCaller {
	return &standaloneCaller{
		logger: slog.New(handler).WithGroup("standalone"),
	}
}

func (c *standaloneCaller) Call(ctx context.Context, service, method string, payload map[string]any) (map[string]any, error) {
	c.logger.Debug("bus call", "service", service, "method", method)
	return map[string]any{"returnValue": true}, nil
}

func (c *standaloneCaller) Subscribe(ctx context.Context, service, method string, payload map[string]any) (<-chan map[string]any, error) {
	c.logger.Debug("bus subscribe", "service", service, "method", method)
	ch := make(chan map[string]any)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}
