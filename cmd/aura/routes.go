// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/aura/internal/handler"
	"github.com/olegiv/aura/internal/middleware"
	"github.com/olegiv/aura/web"
)

const requestTimeout = 30 * time.Second

// routes builds the HTTP router.
func (a *app) routes() (http.Handler, error) {
	publicHandler := handler.NewPublicHandler(a.renderer, a.contact, a.logger)
	apiHandler := handler.NewAPIHandler(a.recorder, a.responder, a.analytics, a.logger)
	authHandler := handler.NewAuthHandler(a.users, a.events, a.renderer, a.sessions, a.loginProtection, a.logger)
	adminHandler := handler.NewAdminHandler(a.dashboard, a.analytics, a.events, a.users, a.renderer, a.logger)
	messagesHandler := handler.NewMessagesHandler(a.messages, a.renderer, a.logger)
	conversationsHandler := handler.NewConversationsHandler(a.recorder, a.renderer, a.logger)
	healthHandler := handler.NewHealthHandler(a.db)
	seoHandler := handler.NewSEOHandler(a.cfg.SiteURL, a.cfg.RobotsDisallowAll, a.logger)

	// 10 requests per second with burst of 20 per IP for public forms,
	// 30 with burst of 60 for the tracking and chatbot endpoints.
	formLimiter := middleware.NewRateLimiter(10, 20, a.logger)
	apiLimiter := middleware.NewRateLimiter(30, 60, a.logger)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(a.cfg.SessionSecret), a.cfg.IsDevelopment())
	csrfConfig.Logger = a.logger

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(a.cfg.IsDevelopment())))
	r.Use(middleware.SiteName(a.cfg.SiteName))
	r.Use(a.sessions.LoadAndSave)
	// JSON endpoints are called by the site scripts without a form token.
	r.Use(middleware.SkipCSRF("/api/", "/ai-chat"))
	r.Use(middleware.CSRF(csrfConfig))

	r.Get("/health", healthHandler.Health)
	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap.xml", seoHandler.Sitemap)

	// Public site
	r.Get(handler.RouteRoot, publicHandler.Home)
	r.Get("/about", publicHandler.About)
	r.Get("/services", publicHandler.Services)
	r.Get("/events", publicHandler.Events)
	for _, page := range handler.ServicePages {
		r.Get(page.Path, publicHandler.Service(page))
	}
	r.Group(func(r chi.Router) {
		r.Use(formLimiter.HTMLMiddleware())
		r.Get("/contact", publicHandler.ContactForm)
		r.Post("/contact", publicHandler.SubmitContact)
	})

	// Site script endpoints
	r.With(apiLimiter.Middleware()).Post("/ai-chat", apiHandler.AIChat)
	r.Route("/api", func(r chi.Router) {
		r.Use(apiLimiter.Middleware())
		r.Post("/chatbot/save", apiHandler.SaveChatbot)
		r.Post("/track/pageview", apiHandler.TrackPageView)
		r.Post("/track/event", apiHandler.TrackEvent)
		r.Get("/health", healthHandler.Health)
		r.With(middleware.Auth(a.sessions), middleware.LoadUser(a.sessions, a.users), middleware.RequireAdmin(a.events, a.logger)).
			Get("/analytics/realtime", apiHandler.Realtime)
	})

	// Authentication
	r.Route("/auth", func(r chi.Router) {
		r.Use(formLimiter.HTMLMiddleware())
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(a.loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get("/logout", authHandler.Logout)
	})
	r.Get(handler.RouteLogin, authHandler.LegacyLogin)
	r.Group(func(r chi.Router) {
		r.Use(formLimiter.HTMLMiddleware())
		r.Get("/setup-admin", authHandler.SetupForm)
		r.Post("/setup-admin", authHandler.Setup)
	})

	// Admin panel
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(a.sessions))
		r.Use(middleware.LoadUser(a.sessions, a.users))
		r.Use(middleware.RequireAdmin(a.events, a.logger))

		r.Get(handler.RouteRoot, func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/admin/dashboard", http.StatusSeeOther)
		})
		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/analytics", adminHandler.Analytics)
		r.Get("/events", adminHandler.Events)
		r.Get("/profile", adminHandler.Profile)
		r.Post("/profile/update", adminHandler.UpdateProfile)

		r.Get("/messages", messagesHandler.List)
		r.Get("/messages/export", messagesHandler.Export)
		r.Post("/messages/mark-all-read", messagesHandler.MarkAllRead)
		r.Post("/messages"+handler.RouteParamID+"/toggle-status", messagesHandler.ToggleStatus)
		r.Route("/message"+handler.RouteParamID, func(r chi.Router) {
			r.Get(handler.RouteRoot, messagesHandler.View)
			r.Post("/priority", messagesHandler.SetPriority)
			r.Post("/archive", messagesHandler.Archive)
			r.Post("/delete", messagesHandler.Delete)
		})

		r.Get("/chatbot", conversationsHandler.List)
		r.Get("/chats/export", conversationsHandler.Export)
		r.Route("/chat"+handler.RouteParamID, func(r chi.Router) {
			r.Get(handler.RouteRoot, conversationsHandler.View)
			r.Post("/status", conversationsHandler.SetStatus)
			r.Post("/archive", conversationsHandler.Archive)
			r.Post("/delete", conversationsHandler.Delete)
		})
	})

	// Static assets: cache for 1 day
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("getting static fs: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		static.ServeHTTP(w, req)
	}))

	r.NotFound(publicHandler.NotFound)

	return r, nil
}
