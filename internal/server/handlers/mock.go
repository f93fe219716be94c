package handlers

import (
	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/stretchr/testify/mock"
)

// Verify that the mocks satisfy their interfaces
var (
	_ Handler         = (*MockHandler)(nil)
	_ NativeRegistrar = (*MockHandler)(nil)
	_ Channel         = (*MockChannel)(nil)
)

// MockHandler is a mock runtime backend for testing.
type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Launch(item *appitem.LaunchItem) {
	m.Called(item)
}

func (m *MockHandler) Close(item *appitem.CloseItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockHandler) Pause(appID string, params map[string]any, reportEvent bool) error {
	args := m.Called(appID, params, reportEvent)
	return args.Error(0)
}

func (m *MockHandler) RegisterApp(appID string, ch Channel) error {
	args := m.Called(appID, ch)
	return args.Error(0)
}

// MockChannel is a mock registration channel for testing.
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Send(payload map[string]any) error {
	args := m.Called(payload)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}
