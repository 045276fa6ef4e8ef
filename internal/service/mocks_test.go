package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/klse-analytics/portal/internal/apiclient"
	"github.com/klse-analytics/portal/internal/session"
)

// --- Mocks ---

type MockDirectory struct {
	RegisterFunc     func(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.RegisterResponse, error)
	CheckStatusFunc  func(ctx context.Context, req apiclient.CheckStatusRequest) (*apiclient.StatusResponse, error)
	GetUsersFunc     func(ctx context.Context, req apiclient.GetUsersRequest) (*apiclient.UsersResponse, error)
	UpdateStatusFunc func(ctx context.Context, req apiclient.UpdateStatusRequest) (*apiclient.UpdateStatusResponse, error)
}

func (m *MockDirectory) Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.RegisterResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &apiclient.RegisterResponse{}, nil
}

func (m *MockDirectory) CheckStatus(ctx context.Context, req apiclient.CheckStatusRequest) (*apiclient.StatusResponse, error) {
	if m.CheckStatusFunc != nil {
		return m.CheckStatusFunc(ctx, req)
	}
	return &apiclient.StatusResponse{Status: "Registered"}, nil
}

func (m *MockDirectory) GetUsers(ctx context.Context, req apiclient.GetUsersRequest) (*apiclient.UsersResponse, error) {
	if m.GetUsersFunc != nil {
		return m.GetUsersFunc(ctx, req)
	}
	return &apiclient.UsersResponse{}, nil
}

func (m *MockDirectory) UpdateStatus(ctx context.Context, req apiclient.UpdateStatusRequest) (*apiclient.UpdateStatusResponse, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, req)
	}
	return &apiclient.UpdateStatusResponse{}, nil
}

func rejected(action apiclient.Action, msg string) error {
	return &apiclient.Failure{Action: action, Message: msg, Rejected: true}
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	store, err := session.NewStore(0)
	require.NoError(t, err)
	return store.Create()
}
