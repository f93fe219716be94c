package busclient

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Verify that MockCaller implements the Caller interface
var _ Caller = (*MockCaller)(nil)

// MockCaller is a mock bus transport for testing.
type MockCaller struct {
	mock.Mock
}

func (m *MockCaller) Call(ctx context.Context, service, method string, payload map[string]any) (map[string]any, error) {
	args := m.Called(ctx, service, method, payload)
	reply, _ := args.Get(0).(map[string]any)
	return reply, args.Error(1)
}

func (m *MockCaller) Subscribe(ctx context.Context, service, method string, payload map[string]any) (<-chan map[string]any, error) {
	args := m.Called(ctx, service, method, payload)
	ch, _ := args.Get(0).(chan map[string]any)
	return ch, args.Error(1)
}
