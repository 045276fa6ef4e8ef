package domain

import (
	"html/template"

	"github.com/klse-analytics/portal/internal/access"
	"github.com/klse-analytics/portal/internal/content"
)

type IndexPageData struct {
	Copy      *content.Copy
	Dashboard *Dashboard // nil while access is locked
	Gate      *Gate      // nil once access is granted
}

// Dashboard is the unlocked report view.
type Dashboard struct {
	ShowCountdown bool // only when an expiry is known
	Countdown     access.Countdown
	EmbedURL      string
	Title         string
}

// Gate is the locked view: subscription and login forms.
type Gate struct {
	Tab     string // register, status or admin
	State   access.State
	Message string
	Busy    bool
	Flow    access.Flow
	QRImage string
}

// Tone picks the banner colour for the current message.
func (g *Gate) Tone() string {
	switch g.State {
	case access.StateRegistered:
		if g.Tab == "register" {
			return "success"
		}
		return "warning"
	case access.StateActive:
		return "success"
	case access.StateNotFound, access.StateError:
		return "error"
	}
	return ""
}

type AdminPageData struct {
	Authenticated bool
	Busy          bool
	Rows          []RosterRow
}

type RosterRow struct {
	Name        string
	Email       string
	Status      string // display status, "Updating..." while pending
	Active      bool
	Pending     bool
	Date        string
	Notes       template.HTML
	ActionLabel string
	ExpiryDate  string
}
