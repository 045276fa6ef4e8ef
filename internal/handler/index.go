package handler

import (
	"net/http"

	"github.com/klse-analytics/portal/internal/access"
	"github.com/klse-analytics/portal/internal/domain"
	"github.com/klse-analytics/portal/internal/session"
)

// IndexGetHandler renders the landing page followed by the dashboard or the
// access gate.
func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	view := sess.View()

	data := domain.IndexPageData{Copy: h.Copy}
	if view.Gate.Session.HasAccess {
		data.Dashboard = h.dashboard(view.Gate.Session)
	} else {
		data.Gate = h.gate(view)
	}

	h.renderTemplate(w, r, "index.html", view, data)
}

func (h *Handler) dashboard(s access.Session) *domain.Dashboard {
	return &domain.Dashboard{
		ShowCountdown: s.ExpiryDate != "",
		Countdown:     access.Remaining(h.Now(), s.ExpiryDate),
		EmbedURL:      h.Public.Report.EmbedURL,
		Title:         h.Public.Report.Title,
	}
}

func (h *Handler) gate(view session.View) *domain.Gate {
	return &domain.Gate{
		Tab:     string(view.Tab),
		State:   view.Gate.State,
		Message: view.Gate.Message,
		Busy:    view.Gate.Busy(),
		Flow:    view.Gate.Pending,
		QRImage: h.Public.Payment.QRImage,
	}
}
