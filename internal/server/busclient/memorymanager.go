package busclient

import (
	"context"
	"log/slog"

	"github.com/atlanticdynamic/appmand/internal/server/memcheck"
)

const memoryManagerService = "com.webos.memorymanager"

// Interface guard
var _ memcheck.MemoryManager = (*MemoryManager)(nil)

// MemoryManager asks the memory manager service whether a launch may
// proceed.
type MemoryManager struct {
	Base
	ctx context.Context
}

// NewMemoryManager creates the memory manager client. The context
// bounds every outgoing check.
func NewMemoryManager(ctx context.Context, caller Caller, handler slog.Handler) *MemoryManager {
	return &MemoryManager{
		Base: NewBase(memoryManagerService, caller, handler),
		ctx:  ctx,
	}
}

// RequireMemory implements memcheck.MemoryManager. A transport error
// counts as denial with the error text as reason.
func (m *MemoryManager) RequireMemory(appID string, onResult func(allowed bool, reason string)) {
	go func() {
		reply, err := m.caller.Call(m.ctx, memoryManagerService, "requireMemory", map[string]any{
			"appId": appID,
		})
		if err != nil {
			m.logger.Warn("memory check call failed", "appId", appID, "error", err)
			onResult(false, err.Error())
			return
		}

		allowed, _ := reply["returnValue"].(bool)
		reason, _ := reply["errorText"].(string)
		onResult(allowed, reason)
	}()
}
