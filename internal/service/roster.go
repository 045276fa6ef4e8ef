package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/klse-analytics/portal/internal/apiclient"
	"github.com/klse-analytics/portal/internal/roster"
	"github.com/klse-analytics/portal/internal/session"
	"github.com/klse-analytics/portal/shared/logger"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgUpdateFailed       = "Failed to update status"
)

var ErrPanelBusy = errors.New("admin panel request already in progress")

// ToggleError is returned when the directory refused a status change. The
// roster has already been rolled back when it is returned.
type ToggleError struct {
	Email string
	Err   error
}

func (e *ToggleError) Error() string {
	return fmt.Sprintf("status update for %s failed: %v", e.Email, e.Err)
}

func (e *ToggleError) Unwrap() error {
	return e.Err
}

// LoginError carries the message for a failed admin panel login.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("admin login failed: %v", e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

type RosterService interface {
	Login(ctx context.Context, sess *session.Session, creds apiclient.Credentials) error
	Toggle(ctx context.Context, sess *session.Session, email string) error
	Refresh(ctx context.Context, sess *session.Session) error
	Close(sess *session.Session) error
}

type Roster struct {
	directory Directory
}

func NewRoster(directory Directory) *Roster {
	return &Roster{directory: directory}
}

// Login verifies the credentials and loads the roster in one call.
func (r *Roster) Login(ctx context.Context, sess *session.Session, creds apiclient.Credentials) error {
	if err := markBusy(sess); err != nil {
		return err
	}

	resp, err := r.directory.GetUsers(detach(ctx), apiclient.GetUsersRequest{Credentials: creds})

	return sess.Update(func(st *session.State) error {
		st.Panel.Busy = false
		if err != nil {
			return &LoginError{Message: failureMessage(err, MsgInvalidCredentials), Err: err}
		}
		return st.Authenticate(creds, subscribers(resp.Users))
	})
}

// Toggle flips one subscriber between Registered and Active. The row shows
// as updating until the directory answers; a refusal restores the exact
// prior status.
func (r *Roster) Toggle(ctx context.Context, sess *session.Session, email string) error {
	var (
		next   roster.Status
		stored string
		creds  apiclient.Credentials
	)
	err := sess.Update(func(st *session.State) error {
		var err error
		if creds, err = st.Credentials(); err != nil {
			return err
		}
		if next, err = st.Panel.Roster.BeginToggle(email); err != nil {
			return err
		}
		// The directory matches on the address as it was loaded.
		row, _ := st.Panel.Roster.Lookup(email)
		stored = row.Email
		return nil
	})
	if err != nil {
		return err
	}

	_, err = r.directory.UpdateStatus(detach(ctx), apiclient.UpdateStatusRequest{
		Email:       stored,
		NewStatus:   string(next),
		Credentials: creds,
	})

	return sess.Update(func(st *session.State) error {
		if st.Panel.Roster == nil {
			// Panel closed while the call was in flight.
			return nil
		}
		if err != nil {
			st.Panel.Roster.Rollback(email)
			return &ToggleError{Email: email, Err: err}
		}
		st.Panel.Roster.Commit(email)
		return nil
	})
}

// Refresh refetches the roster with the held credentials. On failure the
// current roster stays as it is.
func (r *Roster) Refresh(ctx context.Context, sess *session.Session) error {
	var creds apiclient.Credentials
	err := sess.Update(func(st *session.State) error {
		var err error
		if creds, err = st.Credentials(); err != nil {
			return err
		}
		if st.Panel.Busy {
			return ErrPanelBusy
		}
		st.Panel.Busy = true
		return nil
	})
	if err != nil {
		return err
	}

	resp, err := r.directory.GetUsers(detach(ctx), apiclient.GetUsersRequest{Credentials: creds})

	return sess.Update(func(st *session.State) error {
		st.Panel.Busy = false
		if err != nil {
			return err
		}
		if st.Panel.Roster != nil {
			st.Panel.Roster.Replace(subscribers(resp.Users))
		}
		return nil
	})
}

// Close drops the panel together with its credentials.
func (r *Roster) Close(sess *session.Session) error {
	return sess.Update(func(st *session.State) error {
		st.ClosePanel()
		return nil
	})
}

func markBusy(sess *session.Session) error {
	return sess.Update(func(st *session.State) error {
		if st.Panel.Busy {
			return ErrPanelBusy
		}
		st.Panel.Busy = true
		return nil
	})
}

func subscribers(users []apiclient.User) []roster.Subscriber {
	subs := make([]roster.Subscriber, 0, len(users))
	for _, u := range users {
		if u.Email == "" {
			logger.Log.Warn("skipping roster row without email", "name", u.Name.String())
			continue
		}
		subs = append(subs, roster.Subscriber{
			Timestamp:  u.Timestamp.String(),
			Name:       u.Name.String(),
			Email:      u.Email.String(),
			Status:     roster.Status(u.Status.String()),
			Notes:      u.Notes.String(),
			ExpiryDate: u.ExpiryDate.String(),
		})
	}
	return subs
}
