package handler

import (
	"html/template"
	"sync"
	"time"

	"github.com/klse-analytics/portal/internal/content"
	"github.com/klse-analytics/portal/internal/service"
	"github.com/klse-analytics/portal/shared/config"
)

// NoteRenderer turns a roster note into safe HTML.
type NoteRenderer interface {
	Note(text string) template.HTML
}

// SessionCounter reports how many visitor sessions are live.
type SessionCounter interface {
	Len() int
}

type Handler struct {
	Templates map[string]*template.Template
	Public    config.Public
	Access    service.AccessService
	Roster    service.RosterService
	Copy      *content.Copy
	Notes     NoteRenderer
	Sessions  SessionCounter
	Now       func() time.Time

	templatesMu sync.RWMutex
}

func New(templates map[string]*template.Template, publicCfg config.Public, accessSvc service.AccessService, rosterSvc service.RosterService, siteCopy *content.Copy, notes NoteRenderer, sessions SessionCounter) *Handler {
	return &Handler{
		Templates: templates,
		Public:    publicCfg,
		Access:    accessSvc,
		Roster:    rosterSvc,
		Copy:      siteCopy,
		Notes:     notes,
		Sessions:  sessions,
		Now:       time.Now,
	}
}

// SetTemplates replaces the page templates while requests are served.
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.templatesMu.Lock()
	h.Templates = templates
	h.templatesMu.Unlock()
}
