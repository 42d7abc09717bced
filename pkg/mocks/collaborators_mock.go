package mocks

import (
	"context"

	"github.com/dukex/flowgraph/pkg/protocol"
	"github.com/stretchr/testify/mock"
)

// MockToolInvoker is a mock implementation of protocol.ToolInvoker interface.
type MockToolInvoker struct {
	mock.Mock
}

func (m *MockToolInvoker) ExecuteTool(ctx context.Context, toolName string, input any) (string, error) {
	args := m.Called(ctx, toolName, input)

	return args.String(0), args.Error(1)
}

// MockConnectorInvoker is a mock implementation of protocol.ConnectorInvoker interface.
type MockConnectorInvoker struct {
	mock.Mock
}

func (m *MockConnectorInvoker) InvokeConnector(ctx context.Context, connectorID, actionID string, input any) (map[string]any, error) {
	args := m.Called(ctx, connectorID, actionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[string]any), args.Error(1)
}

// MockModelClient is a mock implementation of protocol.ModelClient interface.
type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)

	return args.String(0), args.Error(1)
}

var (
	_ protocol.ToolInvoker      = (*MockToolInvoker)(nil)
	_ protocol.ConnectorInvoker = (*MockConnectorInvoker)(nil)
	_ protocol.ModelClient      = (*MockModelClient)(nil)
)
