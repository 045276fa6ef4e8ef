package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/klse-analytics/portal/internal/domain"
	mw "github.com/klse-analytics/portal/internal/middleware"
	"github.com/klse-analytics/portal/internal/session"
	"github.com/klse-analytics/portal/shared/logger"
)

const (
	nameMaxLen       = 100
	emailMaxLen      = 254
	credentialMaxLen = 128
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common domain.CommonTemplateData
}

func (h *Handler) getTemplate(name string) (*template.Template, bool) {
	h.templatesMu.RLock()
	defer h.templatesMu.RUnlock()
	tmpl, ok := h.Templates[name]
	return tmpl, ok
}

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request, view session.View) domain.CommonTemplateData {
	return domain.CommonTemplateData{
		Error:     h.popFlash(w, r, flashCookieError),
		Success:   h.popFlash(w, r, flashCookieSuccess),
		CSRFToken: mw.GetCSRFTokenFromContext(r),
		HasAccess: view.Gate.Session.HasAccess,
		Pricing:   domain.Pricing{Amount: h.Public.Pricing.Amount, Period: h.Public.Pricing.Period},
		Validation: domain.ValidationData{
			NameMaxLen:       nameMaxLen,
			EmailMaxLen:      emailMaxLen,
			CredentialMaxLen: credentialMaxLen,
		},
		Year: h.Now().Year(),
	}
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, view session.View, data any) {
	tmpl, ok := h.getTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	wrapped := TemplateData{
		Data:   data,
		Common: h.initCommonTemplateData(w, r, view),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Pages reflect per-visitor session state.
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// requireSession returns the request's session or answers 500. The session
// middleware guarantees one on every page route.
func requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := mw.GetSessionFromContext(r)
	if sess == nil {
		logger.Log.Error("no session on request", "path", r.URL.Path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}
