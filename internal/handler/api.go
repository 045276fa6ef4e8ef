package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/klse-analytics/portal/internal/access"
	"github.com/klse-analytics/portal/internal/domain"
)

// SessionGetHandler reports the visitor's access state as JSON.
func (h *Handler) SessionGetHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	gate := sess.View().Gate

	resp := domain.SessionResponse{
		State:     string(gate.State),
		Message:   gate.Message,
		HasAccess: gate.Session.HasAccess,
	}
	if gate.Session.ExpiryDate != "" {
		expiry := gate.Session.ExpiryDate
		resp.ExpiryDate = &expiry
	}
	if gate.Session.HasAccess {
		c := access.Remaining(h.Now(), gate.Session.ExpiryDate)
		resp.Countdown = &domain.CountdownResponse{
			Valid:   c.Valid,
			Days:    c.Days,
			Tier:    string(c.Tier),
			Label:   c.Label(),
			Caption: c.Caption(),
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	render.JSON(w, r, resp)
}

// HealthzHandler answers while the process is up.
func (h *Handler) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, domain.HealthResponse{Status: "ok"})
}

// ReadyzHandler answers once pages can be rendered.
func (h *Handler) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getTemplate("index.html"); !ok || h.Copy == nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, domain.HealthResponse{Status: "unavailable"})
		return
	}

	resp := domain.HealthResponse{Status: "ok"}
	if h.Sessions != nil {
		resp.Sessions = h.Sessions.Len()
	}
	render.JSON(w, r, resp)
}
