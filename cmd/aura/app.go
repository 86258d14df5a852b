// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/aura/internal/cache"
	"github.com/olegiv/aura/internal/config"
	"github.com/olegiv/aura/internal/geoip"
	"github.com/olegiv/aura/internal/middleware"
	"github.com/olegiv/aura/internal/notify"
	"github.com/olegiv/aura/internal/render"
	"github.com/olegiv/aura/internal/scheduler"
	"github.com/olegiv/aura/internal/service"
	"github.com/olegiv/aura/internal/session"
	"github.com/olegiv/aura/web"
)

// app holds the long-lived dependencies shared by the HTTP handlers.
type app struct {
	cfg    *config.Config
	db     *sql.DB
	logger *slog.Logger

	sessions        *scs.SessionManager
	renderer        *render.Renderer
	cache           cache.Cache
	geo             *geoip.Lookup
	loginProtection *middleware.LoginProtection
	scheduler       *scheduler.Scheduler

	users     *service.UserService
	events    *service.EventService
	dashboard *service.DashboardService
	messages  *service.MessageService
	recorder  *service.ConversationRecorder
	contact   *service.ContactService
	analytics *service.AnalyticsService
	responder *service.Responder
}

// newApp wires the services on top of an open, migrated database.
func newApp(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, db: db, logger: logger}

	notifier, err := a.contactNotifier()
	if err != nil {
		return nil, fmt.Errorf("configuring contact notifications: %w", err)
	}

	a.sessions = session.New(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("getting templates fs: %w", err)
	}
	a.renderer, err = render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: a.sessions,
		SiteName:       cfg.SiteName,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing renderer: %w", err)
	}

	var info cache.Info
	a.cache, info = cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTL,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	logger.Info("cache initialized", "backend", info.Backend, "fallback", info.IsFallback)

	a.geo, err = geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("geoip database unavailable, country lookup disabled", "path", cfg.GeoIPDBPath, "error", err)
		a.geo, _ = geoip.Open("")
	}

	a.users = service.NewUserService(db, logger)
	a.events = service.NewEventService(db, logger)
	a.dashboard = service.NewDashboardService(db, a.cache, cfg.CacheTTL, logger)
	a.messages = service.NewMessageService(db, logger, a.dashboard)
	a.recorder = service.NewConversationRecorder(db, logger, a.dashboard)
	a.contact = service.NewContactService(db, notifier, logger, a.dashboard)
	a.analytics = service.NewAnalyticsService(db, a.geo, logger)
	a.responder = service.NewResponder()

	a.loginProtection = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig(), logger)

	a.scheduler = scheduler.New(logger)
	jobs := []scheduler.Job{
		scheduler.FinalizeSessionsJob(a.analytics, cfg.SessionIdleTimeout),
		scheduler.PruneEventsJob(a.events, cfg.EventRetention),
	}
	if a.geo.Enabled() {
		jobs = append(jobs, scheduler.ReloadGeoIPJob(a.geo))
	}
	for _, job := range jobs {
		if err := a.scheduler.Add(job); err != nil {
			a.close()
			return nil, fmt.Errorf("scheduling %s: %w", job.Name, err)
		}
	}

	return a, nil
}

// contactNotifier returns the owner notifier for contact submissions, or nil
// when no recipient is configured.
func (a *app) contactNotifier() (service.ContactNotifier, error) {
	if a.cfg.NotifyTo == "" {
		return nil, nil
	}

	var mailer notify.Mailer
	if a.cfg.MailEnabled() {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     a.cfg.SMTPHost,
			Port:     a.cfg.SMTPPort,
			Username: a.cfg.SMTPUsername,
			Password: a.cfg.SMTPPassword,
			From:     a.cfg.MailFrom,
			TLS:      a.cfg.SMTPTLS,
			Timeout:  a.cfg.SMTPTimeout,
		})
		a.logger.Info("contact notifications enabled", "smtp_host", a.cfg.SMTPHost, "to", a.cfg.NotifyTo)
	} else {
		mailer = notify.NewNopMailer(a.logger)
		a.logger.Info("smtp not configured, contact notifications are logged only")
	}
	n, err := notify.NewContactNotifier(mailer, a.cfg.NotifyTo, a.cfg.SiteName)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// close releases resources owned by the app. The database is closed by the
// caller.
func (a *app) close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.loginProtection != nil {
		a.loginProtection.Stop()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("error closing cache", "error", err)
		}
	}
	if a.geo != nil {
		if err := a.geo.Close(); err != nil {
			a.logger.Error("error closing geoip database", "error", err)
		}
	}
}
