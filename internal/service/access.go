package service

import (
	"context"
	"fmt"
	"time"

	"github.com/klse-analytics/portal/internal/access"
	"github.com/klse-analytics/portal/internal/apiclient"
	"github.com/klse-analytics/portal/internal/session"
	"github.com/klse-analytics/portal/shared/logger"
)

type AccessService interface {
	Register(ctx context.Context, sess *session.Session, name, email string) error
	CheckStatus(ctx context.Context, sess *session.Session, email string) error
	AdminLogin(ctx context.Context, sess *session.Session, creds apiclient.Credentials) error
	OpenDashboard(sess *session.Session) error
	Logout(sess *session.Session) error
	SwitchTab(sess *session.Session, tab session.Tab) error
}

type Access struct {
	directory Directory
	now       func() time.Time
}

func NewAccess(directory Directory) *Access {
	return &Access{directory: directory, now: time.Now}
}

func (a *Access) reduce(sess *session.Session, ev access.Event) error {
	return sess.Update(func(st *session.State) error {
		return a.reduceLocked(st, ev)
	})
}

func (a *Access) reduceLocked(st *session.State, ev access.Event) error {
	next, err := access.Reduce(st.Gate, ev, a.now())
	if err != nil {
		return fmt.Errorf("%T in state %s: %w", ev, st.Gate.State, err)
	}
	st.Gate = next
	return nil
}

// Register creates a Registered subscriber. Success leads to payment
// instructions, never to access.
func (a *Access) Register(ctx context.Context, sess *session.Session, name, email string) error {
	if err := a.reduce(sess, access.SubmitRegistration{}); err != nil {
		return err
	}

	_, err := a.directory.Register(detach(ctx), apiclient.RegisterRequest{Name: name, Email: email})
	if err != nil {
		return a.reduce(sess, access.RegistrationFailed{Message: failureMessage(err, "")})
	}
	return a.reduce(sess, access.RegistrationSucceeded{})
}

// CheckStatus is the subscriber login. Only an Active status grants access;
// every kind of failure reads as an unknown email.
func (a *Access) CheckStatus(ctx context.Context, sess *session.Session, email string) error {
	if err := a.reduce(sess, access.SubmitStatusCheck{}); err != nil {
		return err
	}

	resp, err := a.directory.CheckStatus(detach(ctx), apiclient.CheckStatusRequest{Email: email})
	if err != nil {
		return a.reduce(sess, access.StatusCheckFailed{})
	}
	return a.reduce(sess, access.StatusChecked{Status: resp.Status, ExpiryDate: resp.ExpiryDate})
}

// AdminLogin grants access through admin credentials. A successful roster
// fetch is the verification; the roster itself is discarded.
func (a *Access) AdminLogin(ctx context.Context, sess *session.Session, creds apiclient.Credentials) error {
	if err := a.reduce(sess, access.SubmitAdminLogin{}); err != nil {
		return err
	}

	_, err := a.directory.GetUsers(detach(ctx), apiclient.GetUsersRequest{Credentials: creds})
	if err != nil {
		logger.Log.Info("admin direct login rejected", "session", sess.ID, "error", err)
		return a.reduce(sess, access.AdminRejected{})
	}
	return a.reduce(sess, access.AdminVerified{})
}

// OpenDashboard lets an authenticated admin panel unlock the dashboard. The
// panel is closed on the way out, so its credentials go with it.
func (a *Access) OpenDashboard(sess *session.Session) error {
	return sess.Update(func(st *session.State) error {
		if !st.Panel.Authenticated {
			return session.ErrNotAuthenticated
		}
		if err := a.reduceLocked(st, access.AdminOverride{}); err != nil {
			return err
		}
		st.ClosePanel()
		return nil
	})
}

// Logout drops access. The admin panel, if open, is left alone.
func (a *Access) Logout(sess *session.Session) error {
	return a.reduce(sess, access.Logout{})
}

// SwitchTab changes the gate pane and clears any form message.
func (a *Access) SwitchTab(sess *session.Session, tab session.Tab) error {
	return sess.Update(func(st *session.State) error {
		if err := a.reduceLocked(st, access.Reset{}); err != nil {
			return err
		}
		st.Tab = tab
		return nil
	})
}
