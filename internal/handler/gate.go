package handler

import (
	"errors"
	"net/http"

	"github.com/klse-analytics/portal/internal/access"
	"github.com/klse-analytics/portal/internal/apiclient"
	"github.com/klse-analytics/portal/internal/session"
	"github.com/klse-analytics/portal/shared/logger"
	"github.com/klse-analytics/portal/shared/validation"
)

const (
	gateURL      = "/#subscribe"
	dashboardURL = "/#dashboard"

	msgBusy          = "A request is already in progress. Please wait."
	msgUnavailable   = "That action is not available right now."
	msgInternalError = "Something went wrong. Please try again."
)

type registerForm struct {
	Name  string `form:"name" label:"Full Name" validate:"required,max=100"`
	Email string `form:"email" label:"Email Address" validate:"required,email,max=254"`
}

type statusForm struct {
	Email string `form:"email" label:"Email" validate:"required,email,max=254"`
}

type credentialsForm struct {
	Username string `form:"username" label:"Username" validate:"required,max=128"`
	Password string `form:"password" label:"Password" validate:"required,max=128" trim:"false"`
}

func (f credentialsForm) credentials() apiclient.Credentials {
	return apiclient.Credentials{Username: f.Username, Password: f.Password}
}

type tabForm struct {
	Tab string `form:"tab" label:"Tab" validate:"required,oneof=register status admin"`
}

// gateError maps a refused gate transition to a flash message. Directory
// outcomes are not errors here: they are already reduced into the gate.
func gateError(r *http.Request, err error) string {
	switch {
	case errors.Is(err, access.ErrBusy):
		return msgBusy
	case errors.Is(err, access.ErrInvalidTransition):
		logger.Log.Info("gate transition refused", "path", r.URL.Path, "error", err)
		return msgUnavailable
	}
	logger.Log.Error("gate action failed", "path", r.URL.Path, "error", err)
	return msgInternalError
}

// afterGate sends the visitor to the dashboard once access is granted and
// back to the form otherwise.
func afterGate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	target := gateURL
	if sess.View().Gate.Session.HasAccess {
		target = dashboardURL
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RegisterPostHandler creates a Registered subscriber.
func (h *Handler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var form registerForm
	if err := validation.DecodeForm(w, r, &form); err != nil {
		h.redirectWithFlash(w, r, gateURL, flashCookieError, err.Error())
		return
	}

	if err := h.Access.Register(r.Context(), sess, form.Name, form.Email); err != nil {
		h.redirectWithFlash(w, r, gateURL, flashCookieError, gateError(r, err))
		return
	}
	afterGate(w, r, sess)
}

// StatusPostHandler is the subscriber login by email.
func (h *Handler) StatusPostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var form statusForm
	if err := validation.DecodeForm(w, r, &form); err != nil {
		h.redirectWithFlash(w, r, gateURL, flashCookieError, err.Error())
		return
	}

	if err := h.Access.CheckStatus(r.Context(), sess, form.Email); err != nil {
		h.redirectWithFlash(w, r, gateURL, flashCookieError, gateError(r, err))
		return
	}
	afterGate(w, r, sess)
}

// AdminGatePostHandler is the admin direct login on the gate.
func (h *Handler) AdminGatePostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var form credentialsForm
	if err := validation.DecodeForm(w, r, &form); err != nil {
		h.redirectWithFlash(w, r, gateURL, flashCookieError, err.Error())
		return
	}

	if err := h.Access.AdminLogin(r.Context(), sess, form.credentials()); err != nil {
		h.redirectWithFlash(w, r, gateURL, flashCookieError, gateError(r, err))
		return
	}
	afterGate(w, r, sess)
}

// TabPostHandler switches the gate pane and clears the form message.
func (h *Handler) TabPostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var form tabForm
	if err := validation.DecodeForm(w, r, &form); err != nil {
		h.redirectWithFlash(w, r, gateURL, flashCookieError, err.Error())
		return
	}

	tab, _ := session.ParseTab(form.Tab)
	if err := h.Access.SwitchTab(sess, tab); err != nil {
		h.redirectWithFlash(w, r, gateURL, flashCookieError, gateError(r, err))
		return
	}
	http.Redirect(w, r, gateURL, http.StatusSeeOther)
}

// LogoutPostHandler drops access. Logging out twice is harmless.
func (h *Handler) LogoutPostHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.Access.Logout(sess); err != nil && !errors.Is(err, access.ErrInvalidTransition) {
		logger.Log.Error("logout failed", "session", sess.ID, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
