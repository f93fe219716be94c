package busclient

import (
	"context"
	"log/slog"
)

const notificationService = "com.webos.notification"

// Notification posts fire-and-forget prompts.
type Notification struct {
	Base
}

// NewNotification creates the notification client.
func NewNotification(caller Caller, handler slog.Handler) *Notification {
	return &Notification{
		Base: NewBase(notificationService, caller, handler),
	}
}

// CreatePincodePrompt requests a pincode prompt. Failures are logged,
// never propagated.
func (n *Notification) CreatePincodePrompt(ctx context.Context, params map[string]any) {
	if _, err := n.caller.Call(ctx, notificationService, "createPincodePrompt", params); err != nil {
		n.logger.Warn("pincode prompt failed", "error", err)
	}
}
