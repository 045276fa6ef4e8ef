package setup

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/klse-analytics/portal/internal/apiclient"
	"github.com/klse-analytics/portal/internal/content"
	"github.com/klse-analytics/portal/internal/handler"
	"github.com/klse-analytics/portal/internal/service"
	"github.com/klse-analytics/portal/internal/session"
	"github.com/klse-analytics/portal/shared/config"
	"github.com/klse-analytics/portal/shared/logger"
	"github.com/klse-analytics/portal/shared/middleware/ratelimiter"
	"github.com/klse-analytics/portal/web"
)

const (
	templateReloadInterval = 5 * time.Second
	devWebDir              = "web"
)

type Dependencies struct {
	Handler  *handler.Handler
	Sessions *session.Store
	Public   config.Public
	Static   fs.FS

	FormLimiter  *ratelimiter.UserRateLimiter // per client IP, all gate and admin forms
	EmailLimiter *ratelimiter.UserRateLimiter // per submitted email, directory lookups
	LoginLimiter *ratelimiter.UserRateLimiter // per client IP, credential checks
	GlobalLimit  *ratelimiter.UserRateLimiter // all directory-bound forms combined

	CancelFunc context.CancelFunc
}

// Cleanup stops background work started by SetupDependencies.
func (d *Dependencies) Cleanup() {
	d.CancelFunc()
	for _, rl := range []*ratelimiter.UserRateLimiter{d.FormLimiter, d.EmailLimiter, d.LoginLimiter, d.GlobalLimit} {
		rl.Stop()
	}
}

func newDirectory(cfg *config.Config) service.Directory {
	if cfg.UseMockDirectory() {
		return apiclient.NewMock(cfg.Public.Directory.MockLatency)
	}
	return apiclient.New(cfg.DirectoryURL(), cfg.Public.Directory.Timeout)
}

// webFS serves templates from disk in development so edits show up without
// a rebuild.
func webFS(env string) fs.FS {
	if env == "development" {
		if _, err := os.Stat(devWebDir); err == nil {
			return os.DirFS(devWebDir)
		}
	}
	return web.Templates()
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	ctx, cancel := context.WithCancel(context.Background())

	sessions, err := session.NewStore(cfg.Public.Session.IdleTTL)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	sessions.StartBackgroundSweep(ctx, cfg.Public.Session.SweepInterval)

	renderer := content.NewRenderer()
	siteCopy, err := renderer.LoadCopy(web.Content(), web.CopyFile)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load site copy: %w", err)
	}

	templatesFS := webFS(cfg.Public.Env)
	templates, err := web.LoadTemplates(templatesFS)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	directory := newDirectory(cfg)
	h := handler.New(
		templates,
		cfg.Public,
		service.NewAccess(directory),
		service.NewRoster(directory),
		siteCopy,
		renderer,
		sessions,
	)
	if cfg.Public.Env == "development" {
		startTemplateReloader(ctx, h, templatesFS)
	}

	rl := cfg.Public.RateLimit
	return &Dependencies{
		Handler:      h,
		Sessions:     sessions,
		Public:       cfg.Public,
		Static:       web.Static(),
		FormLimiter:  ratelimiter.New(rl.FormsPerSecond, rl.FormBurst, rl.Expiration),
		EmailLimiter: ratelimiter.New(1.0/10, 3, rl.Expiration),
		LoginLimiter: ratelimiter.New(1.0/5, 3, rl.Expiration),
		GlobalLimit:  ratelimiter.New(100, 100, rl.Expiration),
		CancelFunc:   cancel,
	}, nil
}

// startTemplateReloader swaps in freshly parsed templates. A parse error
// keeps the previous set.
func startTemplateReloader(ctx context.Context, h *handler.Handler, fsys fs.FS) {
	ticker := time.NewTicker(templateReloadInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				templates, err := web.LoadTemplates(fsys)
				if err != nil {
					logger.Log.Warn("template reload failed", "error", err)
					continue
				}
				h.SetTemplates(templates)
			case <-ctx.Done():
				return
			}
		}
	}()
}
