package router

import (
	"context"

	"github.com/oksasatya/lead-funnel/internal/application"
	"github.com/oksasatya/lead-funnel/internal/container"
	"github.com/oksasatya/lead-funnel/internal/infrastructure/export"
	"github.com/oksasatya/lead-funnel/internal/infrastructure/search"
	handlers "github.com/oksasatya/lead-funnel/internal/interface/http"
	"github.com/oksasatya/lead-funnel/internal/interface/middleware"
	"github.com/oksasatya/lead-funnel/internal/router/modules"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
)

// Services are the application services shared by the modules.
type Services struct {
	Auth       *application.AuthService
	Newsletter *application.NewsletterService
	Leads      *application.LeadService
}

// BuildServices wires the services from the container singletons. The store,
// sessions, config and logger must be set; ES and GCS are optional.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()

	auth := application.NewAuthService(
		store,
		container.GetSessions(),
		helpers.NewSessionSigner(cfg.SessionSecret),
		cfg.SessionTTL,
		logger,
	)

	newsletter := application.NewNewsletterService(store, nil, logger)
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		newsletter.Exporter = export.NewGCSExporter(gcs, cfg.GCSBucket)
	}

	leads := application.NewLeadService(store, store, nil, logger)
	if es := container.GetES(); es != nil {
		leads.Index = search.NewLeadIndex(es, cfg.ESLeadsIndex)
	}

	return Services{Auth: auth, Newsletter: newsletter, Leads: leads}
}

func healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// InitModules registers every module with the registry. Call once during
// startup, before RegisterAll.
func InitModules(r *Registry, s Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	r.Use(middleware.Session(s.Auth, logger))

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(healthChecks())))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(s.Auth, logger, cfg.CookieDomain, cfg.CookieSecure())))
	r.Add(modules.NewNewsletterModule(handlers.NewNewsletterHandler(s.Newsletter, logger)))
	r.Add(modules.NewLeadModule(handlers.NewLeadHandler(s.Leads, logger)))
}
