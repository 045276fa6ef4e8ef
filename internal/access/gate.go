// Package access holds the state machine deciding whether a visitor sees the
// marketing gate or the report dashboard, and the countdown shown once access
// is granted.
package access

import (
	"errors"
	"time"
)

// State is the visible state of the access gate.
type State string

const (
	StateIdle       State = "IDLE"
	StateLoading    State = "LOADING"
	StateRegistered State = "Registered"
	StateActive     State = "Active"
	StateNotFound   State = "NOT_FOUND"
	StateError      State = "ERROR"
)

// Flow names the form whose request is in flight while the gate is Loading.
type Flow string

const (
	FlowNone     Flow = ""
	FlowRegister Flow = "register"
	FlowStatus   Flow = "status"
	FlowAdmin    Flow = "admin"
)

// Origin records which path granted access.
type Origin string

const (
	OriginNone          Origin = ""
	OriginSubscriber    Origin = "subscriber"
	OriginAdminLogin    Origin = "admin_login"
	OriginAdminOverride Origin = "admin_override"
)

// AdminValidity is the window every admin-originated grant gets. Admin
// sessions mirror a standard subscription; they are never longer.
const AdminValidity = 30 * 24 * time.Hour

// ActiveStatus is the directory status that unlocks the dashboard.
const ActiveStatus = "Active"

const (
	MsgRegistered        = "Registration successful! Please proceed to payment."
	MsgRegisterFailed    = "Registration failed. Try again."
	MsgPendingActivation = "Your account is Registered but not yet Active. Please verify payment with Admin."
	MsgNotFound          = "Email not found. Please register first."
	MsgInvalidAdmin      = "Invalid Admin Credentials."
)

var (
	ErrBusy              = errors.New("a request is already in progress")
	ErrInvalidTransition = errors.New("invalid access transition")
)

// Session is the visitor's belief about whether access is granted and until
// when. ExpiryDate holds the instant text exactly as received or generated;
// an empty string means no expiry is known.
type Session struct {
	HasAccess  bool
	ExpiryDate string
	Origin     Origin
}

// Gate is the full machine value. Gates are never mutated; Reduce returns
// the successor.
type Gate struct {
	State   State
	Message string
	Pending Flow
	Session Session
}

// NewGate returns the state of a fresh visit.
func NewGate() Gate {
	return Gate{State: StateIdle}
}

// Busy reports whether a form request is outstanding.
func (g Gate) Busy() bool {
	return g.State == StateLoading
}

// interactive states accept a new form submission.
func (g Gate) interactive() bool {
	switch g.State {
	case StateIdle, StateRegistered, StateNotFound, StateError:
		return true
	}
	return false
}

// Reduce applies ev to g. now is only consulted for admin-originated grants.
func Reduce(g Gate, ev Event, now time.Time) (Gate, error) {
	switch e := ev.(type) {
	case SubmitRegistration:
		return submit(g, FlowRegister)
	case SubmitStatusCheck:
		return submit(g, FlowStatus)
	case SubmitAdminLogin:
		return submit(g, FlowAdmin)

	case RegistrationSucceeded:
		if err := expectPending(g, FlowRegister); err != nil {
			return g, err
		}
		return Gate{State: StateRegistered, Message: MsgRegistered, Session: g.Session}, nil

	case RegistrationFailed:
		if err := expectPending(g, FlowRegister); err != nil {
			return g, err
		}
		msg := e.Message
		if msg == "" {
			msg = MsgRegisterFailed
		}
		return Gate{State: StateError, Message: msg, Session: g.Session}, nil

	case StatusChecked:
		if err := expectPending(g, FlowStatus); err != nil {
			return g, err
		}
		if e.Status == ActiveStatus {
			return Gate{
				State:   StateActive,
				Session: Session{HasAccess: true, ExpiryDate: e.ExpiryDate, Origin: OriginSubscriber},
			}, nil
		}
		return Gate{State: StateRegistered, Message: MsgPendingActivation, Session: g.Session}, nil

	case StatusCheckFailed:
		if err := expectPending(g, FlowStatus); err != nil {
			return g, err
		}
		return Gate{State: StateNotFound, Message: MsgNotFound, Session: g.Session}, nil

	case AdminVerified:
		if err := expectPending(g, FlowAdmin); err != nil {
			return g, err
		}
		return Gate{State: StateActive, Session: adminSession(now, OriginAdminLogin)}, nil

	case AdminRejected:
		if err := expectPending(g, FlowAdmin); err != nil {
			return g, err
		}
		return Gate{State: StateError, Message: MsgInvalidAdmin, Session: g.Session}, nil

	case AdminOverride:
		if g.Busy() {
			return g, ErrBusy
		}
		return Gate{State: StateActive, Session: adminSession(now, OriginAdminOverride)}, nil

	case Logout:
		if g.State != StateActive {
			return g, ErrInvalidTransition
		}
		return NewGate(), nil

	case Reset:
		if g.Busy() {
			return g, ErrBusy
		}
		if !g.interactive() {
			return g, ErrInvalidTransition
		}
		return Gate{State: StateIdle, Session: g.Session}, nil
	}
	return g, ErrInvalidTransition
}

func submit(g Gate, flow Flow) (Gate, error) {
	if g.Busy() {
		return g, ErrBusy
	}
	if !g.interactive() {
		return g, ErrInvalidTransition
	}
	return Gate{State: StateLoading, Pending: flow, Session: g.Session}, nil
}

func expectPending(g Gate, flow Flow) error {
	if g.State != StateLoading || g.Pending != flow {
		return ErrInvalidTransition
	}
	return nil
}

// adminSession ignores any stored record expiry: admin grants always count
// down from the standard subscription window.
func adminSession(now time.Time, origin Origin) Session {
	return Session{
		HasAccess:  true,
		ExpiryDate: now.Add(AdminValidity).UTC().Format(time.RFC3339Nano),
		Origin:     origin,
	}
}
