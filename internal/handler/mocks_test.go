package handler

import (
	"context"

	"github.com/klse-analytics/portal/internal/apiclient"
	"github.com/klse-analytics/portal/internal/session"
)

// --- Mocks ---

type MockAccessService struct {
	RegisterFunc      func(ctx context.Context, sess *session.Session, name, email string) error
	CheckStatusFunc   func(ctx context.Context, sess *session.Session, email string) error
	AdminLoginFunc    func(ctx context.Context, sess *session.Session, creds apiclient.Credentials) error
	OpenDashboardFunc func(sess *session.Session) error
	LogoutFunc        func(sess *session.Session) error
	SwitchTabFunc     func(sess *session.Session, tab session.Tab) error
}

func (m *MockAccessService) Register(ctx context.Context, sess *session.Session, name, email string) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, sess, name, email)
	}
	return nil
}

func (m *MockAccessService) CheckStatus(ctx context.Context, sess *session.Session, email string) error {
	if m.CheckStatusFunc != nil {
		return m.CheckStatusFunc(ctx, sess, email)
	}
	return nil
}

func (m *MockAccessService) AdminLogin(ctx context.Context, sess *session.Session, creds apiclient.Credentials) error {
	if m.AdminLoginFunc != nil {
		return m.AdminLoginFunc(ctx, sess, creds)
	}
	return nil
}

func (m *MockAccessService) OpenDashboard(sess *session.Session) error {
	if m.OpenDashboardFunc != nil {
		return m.OpenDashboardFunc(sess)
	}
	return nil
}

func (m *MockAccessService) Logout(sess *session.Session) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(sess)
	}
	return nil
}

func (m *MockAccessService) SwitchTab(sess *session.Session, tab session.Tab) error {
	if m.SwitchTabFunc != nil {
		return m.SwitchTabFunc(sess, tab)
	}
	return nil
}

type MockRosterService struct {
	LoginFunc   func(ctx context.Context, sess *session.Session, creds apiclient.Credentials) error
	ToggleFunc  func(ctx context.Context, sess *session.Session, email string) error
	RefreshFunc func(ctx context.Context, sess *session.Session) error
	CloseFunc   func(sess *session.Session) error
}

func (m *MockRosterService) Login(ctx context.Context, sess *session.Session, creds apiclient.Credentials) error {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, sess, creds)
	}
	return nil
}

func (m *MockRosterService) Toggle(ctx context.Context, sess *session.Session, email string) error {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, sess, email)
	}
	return nil
}

func (m *MockRosterService) Refresh(ctx context.Context, sess *session.Session) error {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, sess)
	}
	return nil
}

func (m *MockRosterService) Close(sess *session.Session) error {
	if m.CloseFunc != nil {
		return m.CloseFunc(sess)
	}
	return nil
}
