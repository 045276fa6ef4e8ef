// Package roster keeps the admin's working copy of the subscriber list and
// the optimistic status toggles applied to it.
package roster

import (
	"errors"
	"strings"
)

// Status is a subscription state as stored by the directory.
type Status string

const (
	StatusRegistered Status = "Registered"
	StatusActive     Status = "Active"
)

// UpdatingLabel is shown in place of a status while its toggle is in flight.
const UpdatingLabel = "Updating..."

// Toggled returns the status an admin toggle moves to. Anything that is not
// Active becomes Active.
func (s Status) Toggled() Status {
	if s == StatusActive {
		return StatusRegistered
	}
	return StatusActive
}

var (
	ErrUnknownSubscriber = errors.New("subscriber not in roster")
	ErrToggleInFlight    = errors.New("status update already in progress for subscriber")
)

// Subscriber is one roster row as reported by the directory.
type Subscriber struct {
	Timestamp  string
	Name       string
	Email      string
	Status     Status
	Notes      string
	ExpiryDate string
}

// entry is a subscriber plus its toggle state: settled on Subscriber.Status,
// or pending with the status to restore on failure.
type entry struct {
	sub      Subscriber
	pending  bool
	previous Status
	next     Status
}

// Row is a rendering snapshot of one entry.
type Row struct {
	Subscriber
	Pending bool
}

// DisplayStatus is the status text for the row.
func (r Row) DisplayStatus() string {
	if r.Pending {
		return UpdatingLabel
	}
	return string(r.Status)
}

// Roster is an ordered, email-keyed collection. It is not safe for
// concurrent use; callers serialize access per admin session.
type Roster struct {
	entries []*entry
	byEmail map[string]*entry
}

func New(subs []Subscriber) *Roster {
	r := &Roster{}
	r.Replace(subs)
	return r
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Replace adopts a freshly fetched list. Rows whose toggle is still in
// flight stay pending so the eventual commit or rollback still lands.
func (r *Roster) Replace(subs []Subscriber) {
	old := r.byEmail
	r.entries = make([]*entry, 0, len(subs))
	r.byEmail = make(map[string]*entry, len(subs))

	for _, s := range subs {
		k := key(s.Email)
		if _, dup := r.byEmail[k]; dup {
			continue
		}
		e := &entry{sub: s}
		if prev, ok := old[k]; ok && prev.pending {
			e.pending = true
			e.previous = prev.previous
			e.next = prev.next
		}
		r.entries = append(r.entries, e)
		r.byEmail[k] = e
	}
}

// BeginToggle marks the subscriber as updating and returns the status to
// send to the directory.
func (r *Roster) BeginToggle(email string) (Status, error) {
	e, ok := r.byEmail[key(email)]
	if !ok {
		return "", ErrUnknownSubscriber
	}
	if e.pending {
		return "", ErrToggleInFlight
	}
	e.pending = true
	e.previous = e.sub.Status
	e.next = e.sub.Status.Toggled()
	return e.next, nil
}

// Commit settles a pending toggle on its new status.
func (r *Roster) Commit(email string) bool {
	e, ok := r.byEmail[key(email)]
	if !ok || !e.pending {
		return false
	}
	e.sub.Status = e.next
	e.pending = false
	return true
}

// Rollback settles a pending toggle back on the exact status it had before.
func (r *Roster) Rollback(email string) bool {
	e, ok := r.byEmail[key(email)]
	if !ok || !e.pending {
		return false
	}
	e.sub.Status = e.previous
	e.pending = false
	return true
}

// Lookup returns the current row for email.
func (r *Roster) Lookup(email string) (Row, bool) {
	e, ok := r.byEmail[key(email)]
	if !ok {
		return Row{}, false
	}
	return Row{Subscriber: e.sub, Pending: e.pending}, true
}

// Rows returns a snapshot in directory order.
func (r *Roster) Rows() []Row {
	rows := make([]Row, len(r.entries))
	for i, e := range r.entries {
		rows[i] = Row{Subscriber: e.sub, Pending: e.pending}
	}
	return rows
}

func (r *Roster) Len() int {
	return len(r.entries)
}
