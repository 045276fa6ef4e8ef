package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klse-analytics/portal/internal/access"
	"github.com/klse-analytics/portal/internal/apiclient"
	"github.com/klse-analytics/portal/internal/roster"
	"github.com/klse-analytics/portal/shared/crypto"
)

// Tab is the access gate pane the visitor is looking at.
type Tab string

const (
	TabRegister Tab = "register"
	TabStatus   Tab = "status"
	TabAdmin    Tab = "admin" // admin direct login inside the status pane
)

// ParseTab accepts only the known tabs.
func ParseTab(s string) (Tab, bool) {
	switch t := Tab(s); t {
	case TabRegister, TabStatus, TabAdmin:
		return t, true
	}
	return "", false
}

var ErrNotAuthenticated = errors.New("admin panel is not authenticated")

// State is everything a visitor's browser tab would otherwise keep in memory.
// It is only reachable through Session.Update.
type State struct {
	Gate  access.Gate
	Tab   Tab
	Panel Panel

	sealer *crypto.Sealer
}

// Panel is the admin panel. Credentials are held sealed and opened only to
// build outgoing directory calls.
type Panel struct {
	Authenticated bool
	Busy          bool // login or refresh in flight
	Roster        *roster.Roster

	creds []byte
}

func newState(sealer *crypto.Sealer) State {
	return State{Gate: access.NewGate(), Tab: TabRegister, sealer: sealer}
}

// Authenticate opens the panel with a verified credential pair and the
// roster that proved it.
func (st *State) Authenticate(creds apiclient.Credentials, subs []roster.Subscriber) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("cannot encode credentials: %w", err)
	}
	sealed, err := st.sealer.Seal(raw)
	if err != nil {
		return fmt.Errorf("cannot seal credentials: %w", err)
	}
	st.Panel = Panel{Authenticated: true, Roster: roster.New(subs), creds: sealed}
	return nil
}

// Credentials opens the held credential pair.
func (st *State) Credentials() (apiclient.Credentials, error) {
	var creds apiclient.Credentials
	if !st.Panel.Authenticated {
		return creds, ErrNotAuthenticated
	}
	raw, err := st.sealer.Open(st.Panel.creds)
	if err != nil {
		return creds, fmt.Errorf("cannot open credentials: %w", err)
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		return creds, fmt.Errorf("cannot decode credentials: %w", err)
	}
	return creds, nil
}

// ClosePanel forgets the credentials and the roster.
func (st *State) ClosePanel() {
	st.Panel = Panel{}
}

// View is a copy of State safe to read after the session lock is released.
type View struct {
	Gate  access.Gate
	Tab   Tab
	Admin AdminView
}

type AdminView struct {
	Authenticated bool
	Busy          bool
	Rows          []roster.Row
}

func (st *State) view() View {
	v := View{Gate: st.Gate, Tab: st.Tab}
	v.Admin.Authenticated = st.Panel.Authenticated
	v.Admin.Busy = st.Panel.Busy
	if st.Panel.Roster != nil {
		v.Admin.Rows = st.Panel.Roster.Rows()
	}
	return v
}
