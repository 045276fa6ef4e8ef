package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/klse-analytics/portal/internal/middleware"
	"github.com/klse-analytics/portal/internal/setup"
	mw "github.com/klse-analytics/portal/shared/middleware"
	"github.com/klse-analytics/portal/shared/middleware/metrics"
)

// New wires every route. Form routes run CSRF validation before the rate
// limiters so that limiters reading the body see an already parsed form.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	h := deps.Handler
	pub := deps.Public

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(pub.SecureCookies, mw.PortalCSP(pub.Report.EmbedURL)))

	// Operational endpoints
	r.Get("/healthz", h.HealthzHandler)
	r.Get("/readyz", h.ReadyzHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(deps.Static))))

	loadSession := middleware.LoadSession(deps.Sessions, pub.SecureCookies)

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   pub.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Use(loadSession)
		r.Get("/session", h.SessionGetHandler)
	})

	// Pages and forms
	r.Group(func(r chi.Router) {
		r.Use(middleware.GenerateCSRFToken(middleware.CSRFConfig{
			SecureCookies: pub.SecureCookies,
			MaxAge:        pub.Session.IdleTTL,
		}))
		r.Use(middleware.ValidateCSRFToken())
		r.Use(loadSession)

		r.Get("/", h.IndexGetHandler)
		r.Get("/admin", h.AdminGetHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(deps.FormLimiter, mw.GetIP))

			// Local session changes only
			r.Post("/gate/tab", h.TabPostHandler)
			r.Post("/logout", h.LogoutPostHandler)
			r.Post("/admin/dashboard", h.AdminDashboardPostHandler)
			r.Post("/admin/close", h.AdminClosePostHandler)

			// Directory-bound forms
			r.Group(func(r chi.Router) {
				r.Use(mw.GlobalRateLimit(deps.GlobalLimit))

				r.With(mw.RateLimit(deps.EmailLimiter, mw.GetEmailFromForm)).Post("/register", h.RegisterPostHandler)
				r.With(mw.RateLimit(deps.EmailLimiter, mw.GetEmailFromForm)).Post("/status", h.StatusPostHandler)

				r.With(mw.RateLimit(deps.LoginLimiter, mw.GetIP)).Post("/gate/admin", h.AdminGatePostHandler)
				r.With(mw.RateLimit(deps.LoginLimiter, mw.GetIP)).Post("/admin/login", h.AdminLoginPostHandler)

				r.Post("/admin/users/toggle", h.AdminTogglePostHandler)
				r.Post("/admin/users/refresh", h.AdminRefreshPostHandler)
			})
		})
	})

	return r
}
