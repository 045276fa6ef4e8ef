package apiclient

import (
	"context"
	"strings"
	"time"

	"github.com/klse-analytics/portal/shared/logger"
)

// Mock answers like a freshly deployed directory so the portal can be
// demoed before the real endpoint URL is configured. It keeps no state.
type Mock struct {
	Latency time.Duration
	Now     func() time.Time
}

func NewMock(latency time.Duration) *Mock {
	logger.Log.Warn("using mock directory; configure directory_url for the real endpoint")
	return &Mock{Latency: latency, Now: time.Now}
}

func (m *Mock) wait(ctx context.Context) error {
	if m.Latency <= 0 {
		return nil
	}
	t := time.NewTimer(m.Latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mock) failure(a Action) error {
	return &Failure{Action: a, Message: transportMessage(a)}
}

func (m *Mock) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, m.failure(ActionRegister)
	}
	return &RegisterResponse{Message: "User registered successfully (Mock)"}, nil
}

// CheckStatus treats emails containing "active" as paid up for twenty more
// days and emails containing "reg" as awaiting payment.
func (m *Mock) CheckStatus(ctx context.Context, req CheckStatusRequest) (*StatusResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, m.failure(ActionCheckStatus)
	}
	switch {
	case strings.Contains(req.Email, "active"):
		expiry := m.Now().Add(20 * 24 * time.Hour).UTC().Format(time.RFC3339Nano)
		return &StatusResponse{Status: "Active", ExpiryDate: expiry}, nil
	case strings.Contains(req.Email, "reg"):
		return &StatusResponse{Status: "Registered"}, nil
	}
	return nil, &Failure{Action: ActionCheckStatus, Message: "User not found (Mock)", Rejected: true}
}

func (m *Mock) GetUsers(ctx context.Context, req GetUsersRequest) (*UsersResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, m.failure(ActionGetUsers)
	}
	return &UsersResponse{Users: []User{
		{Timestamp: "2023-10-01", Name: "Mock User 1", Email: "active@test.com", Status: "Active", ExpiryDate: "2023-12-31T00:00:00.000Z"},
		{Timestamp: "2023-10-05", Name: "Mock User 2", Email: "reg@test.com", Status: "Registered"},
	}}, nil
}

func (m *Mock) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*UpdateStatusResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, m.failure(ActionUpdateStatus)
	}
	return &UpdateStatusResponse{Message: "Status updated (Mock)"}, nil
}
