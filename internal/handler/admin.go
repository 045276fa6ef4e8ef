package handler

import (
	"errors"
	"net/http"

	"github.com/klse-analytics/portal/internal/access"
	"github.com/klse-analytics/portal/internal/apiclient"
	"github.com/klse-analytics/portal/internal/domain"
	"github.com/klse-analytics/portal/internal/roster"
	"github.com/klse-analytics/portal/internal/service"
	"github.com/klse-analytics/portal/internal/session"
	"github.com/klse-analytics/portal/shared/logger"
	"github.com/klse-analytics/portal/shared/validation"
)

const (
	adminURL = "/admin"

	msgLoginRequired  = "Please enter admin credentials."
	msgRefreshFailed  = "Failed to fetch users."
	msgAlreadyPending = "That subscriber is already being updated."
	msgUnknownUser    = "That subscriber is no longer in the list. Refresh and try again."
)

type toggleForm struct {
	Email string `form:"email" label:"Email" validate:"required,max=254"`
}

// AdminGetHandler renders the admin panel: the login form, or the roster
// once the panel holds verified credentials.
func (h *Handler) AdminGetHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	view := sess.View()

	data := domain.AdminPageData{
		Authenticated: view.Admin.Authenticated,
		Busy:          view.Admin.Busy,
		Rows:          make([]domain.RosterRow, 0, len(view.Admin.Rows)),
	}
	for _, row := range view.Admin.Rows {
		data.Rows = append(data.Rows, h.rosterRow(row))
	}

	h.renderTemplate(w, r, "admin.html", view, data)
}

func (h *Handler) rosterRow(row roster.Row) domain.RosterRow {
	action := "Activate"
	if row.Status == roster.StatusActive {
		action = "Deactivate"
	}
	date := row.Timestamp
	if t, ok := access.ParseExpiry(row.Timestamp); ok {
		date = t.Format("2 Jan 2006")
	}
	return domain.RosterRow{
		Name:        row.Name,
		Email:       row.Email,
		Status:      row.DisplayStatus(),
		Active:      row.Status == roster.StatusActive,
		Pending:     row.Pending,
		Date:        date,
		Notes:       h.Notes.Note(row.Notes),
		ActionLabel: action,
		ExpiryDate:  row.ExpiryDate,
	}
}

// adminError maps a roster service error to a flash message.
func adminError(r *http.Request, err error) string {
	var (
		loginErr  *service.LoginError
		toggleErr *service.ToggleError
	)
	switch {
	case errors.As(err, &loginErr):
		return loginErr.Message
	case errors.As(err, &toggleErr):
		logger.Log.Info("status update rolled back", "error", err)
		return service.MsgUpdateFailed
	case errors.Is(err, session.ErrNotAuthenticated):
		return msgLoginRequired
	case errors.Is(err, service.ErrPanelBusy), errors.Is(err, access.ErrBusy):
		return msgBusy
	case errors.Is(err, roster.ErrToggleInFlight):
		return msgAlreadyPending
	case errors.Is(err, roster.ErrUnknownSubscriber):
		return msgUnknownUser
	}
	var failure *apiclient.Failure
	if errors.As(err, &failure) {
		logger.Log.Warn("roster refresh failed", "error", err)
		return failure.Message
	}
	logger.Log.Error("admin action failed", "path", r.URL.Path, "error", err)
	return msgInternalError
}

// AdminLoginPostHandler verifies admin credentials and loads the roster.
func (h *Handler) AdminLoginPostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var form credentialsForm
	if err := validation.DecodeForm(w, r, &form); err != nil {
		h.redirectWithFlash(w, r, adminURL, flashCookieError, err.Error())
		return
	}

	if err := h.Roster.Login(r.Context(), sess, form.credentials()); err != nil {
		h.redirectWithFlash(w, r, adminURL, flashCookieError, adminError(r, err))
		return
	}
	http.Redirect(w, r, adminURL, http.StatusSeeOther)
}

// AdminTogglePostHandler flips one subscriber between Registered and Active.
func (h *Handler) AdminTogglePostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var form toggleForm
	if err := validation.DecodeForm(w, r, &form); err != nil {
		h.redirectWithFlash(w, r, adminURL, flashCookieError, err.Error())
		return
	}

	if err := h.Roster.Toggle(r.Context(), sess, form.Email); err != nil {
		h.redirectWithFlash(w, r, adminURL, flashCookieError, adminError(r, err))
		return
	}
	http.Redirect(w, r, adminURL, http.StatusSeeOther)
}

// AdminRefreshPostHandler refetches the roster with the held credentials.
func (h *Handler) AdminRefreshPostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.Roster.Refresh(r.Context(), sess); err != nil {
		msg := adminError(r, err)
		var failure *apiclient.Failure
		if errors.As(err, &failure) {
			msg = msgRefreshFailed
		}
		h.redirectWithFlash(w, r, adminURL, flashCookieError, msg)
		return
	}
	http.Redirect(w, r, adminURL, http.StatusSeeOther)
}

// AdminDashboardPostHandler opens the dashboard on the admin's behalf with a
// standard 30-day window.
func (h *Handler) AdminDashboardPostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.Access.OpenDashboard(sess); err != nil {
		h.redirectWithFlash(w, r, adminURL, flashCookieError, adminError(r, err))
		return
	}
	http.Redirect(w, r, dashboardURL, http.StatusSeeOther)
}

// AdminClosePostHandler closes the panel and forgets its credentials.
func (h *Handler) AdminClosePostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.Roster.Close(sess); err != nil {
		logger.Log.Error("closing admin panel", "session", sess.ID, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
