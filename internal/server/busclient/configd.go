package busclient

import (
	"context"
	"fmt"
	"log/slog"
)

const configdService = "com.webos.service.config"

// Configd fetches the declared configuration keys and forwards every
// delivered snapshot.
type Configd struct {
	Base

	configNames []string

	// EventConfigInfo receives each config object delivered by the
	// service.
	EventConfigInfo func(configs map[string]any)
}

// NewConfigd creates the configuration client.
func NewConfigd(caller Caller, handler slog.Handler) *Configd {
	return &Configd{
		Base: NewBase(configdService, caller, handler),
	}
}

// AddRequiredKey declares one key to fetch. Must be called before
// Start.
func (c *Configd) AddRequiredKey(key string) {
	c.configNames = append(c.configNames, key)
}

// Start subscribes for the declared keys and forwards snapshots until
// the context ends.
func (c *Configd) Start(ctx context.Context) error {
	names := make([]any, 0, len(c.configNames))
	for _, key := range c.configNames {
		names = append(names, key)
	}

	ch, err := c.caller.Subscribe(ctx, configdService, "getConfigs", map[string]any{
		"configNames": names,
		"subscribe":   true,
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to configs: %w", err)
	}

	go func() {
		for payload := range ch {
			configs, ok := payload["configs"].(map[string]any)
			if !ok {
				c.logger.Warn("config payload without configs object")
				continue
			}
			if c.EventConfigInfo != nil {
				c.EventConfigInfo(configs)
			}
		}
	}()
	return nil
}
