// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/olegiv/aura/internal/middleware"
	"github.com/olegiv/aura/internal/render"
	"github.com/olegiv/aura/internal/service"
)

// contactSuccessMessage is flashed after a stored contact submission.
const contactSuccessMessage = "Your message has been sent successfully! We will get back to you soon."

// ServiceFeature is one highlighted capability on a service page.
type ServiceFeature struct {
	Title string
	Text  string
}

// ServicePage describes one of the static service pages.
type ServicePage struct {
	Path        string
	Title       string
	Icon        string
	Heading     string
	Lead        string
	Features    []ServiceFeature
	InquiryType string
}

// ServicePages lists the service pages in navigation order.
var ServicePages = []ServicePage{
	{
		Path: "/webdev", Title: "Web Development", Icon: "fa-code",
		Heading:     "Web Development",
		Lead:        "Fast, accessible websites and web applications built to grow with your business.",
		InquiryType: "web",
		Features: []ServiceFeature{
			{"Custom websites", "Hand-built sites tuned for speed and search engines."},
			{"Web applications", "Portals, dashboards and booking systems that fit your workflow."},
			{"E-commerce", "Online stores with secure checkout and inventory sync."},
		},
	},
	{
		Path: "/software", Title: "Software Development", Icon: "fa-laptop-code",
		Heading:     "Software Development",
		Lead:        "Tailored software that automates the work your team repeats every day.",
		InquiryType: "software",
		Features: []ServiceFeature{
			{"Business automation", "Integrations between the tools you already use."},
			{"APIs and back ends", "Reliable services with clear contracts and monitoring."},
			{"Maintenance", "Upgrades, security patches and on-call support."},
		},
	},
	{
		Path: "/marketing", Title: "Marketing Services", Icon: "fa-bullhorn",
		Heading:     "Digital Marketing",
		Lead:        "Campaigns that turn visitors into customers, measured end to end.",
		InquiryType: "marketing",
		Features: []ServiceFeature{
			{"Strategy", "A plan built around your audience and budget."},
			{"Campaigns", "Search, social and email campaigns run by specialists."},
			{"Reporting", "Monthly reports that tie spend to results."},
		},
	},
	{
		Path: "/seo", Title: "SEO Services", Icon: "fa-magnifying-glass-chart",
		Heading:     "Search Engine Optimization",
		Lead:        "Rank for the searches your customers actually make.",
		InquiryType: "marketing",
		Features: []ServiceFeature{
			{"Technical audit", "Crawlability, speed and structured data fixes."},
			{"Content optimization", "Pages written for readers and search engines alike."},
			{"Local SEO", "Maps listings and reviews for local visibility."},
		},
	},
	{
		Path: "/social-media", Title: "Social Media Marketing", Icon: "fa-share-nodes",
		Heading:     "Social Media Marketing",
		Lead:        "Consistent, on-brand social presence across the channels that matter.",
		InquiryType: "marketing",
		Features: []ServiceFeature{
			{"Content calendar", "Planned posts with visuals and copy."},
			{"Community management", "Timely replies that build trust."},
			{"Paid social", "Targeted ads with clear cost per lead."},
		},
	},
	{
		Path: "/ppc", Title: "PPC & Google Ads", Icon: "fa-rectangle-ad",
		Heading:     "PPC & Google Ads",
		Lead:        "Paid search campaigns managed for return on ad spend.",
		InquiryType: "marketing",
		Features: []ServiceFeature{
			{"Account setup", "Structured campaigns, keywords and conversion tracking."},
			{"Bid management", "Daily optimization against your targets."},
			{"Landing pages", "Pages designed to convert paid traffic."},
		},
	},
	{
		Path: "/content-marketing", Title: "Content Marketing", Icon: "fa-pen-nib",
		Heading:     "Content Marketing",
		Lead:        "Articles, guides and videos that answer your customers' questions.",
		InquiryType: "marketing",
		Features: []ServiceFeature{
			{"Editorial planning", "Topics chosen from real search demand."},
			{"Production", "Writers and designers who know your industry."},
			{"Distribution", "Newsletters and social to put content in front of readers."},
		},
	},
	{
		Path: "/marketing-analytics", Title: "Marketing Analytics", Icon: "fa-chart-line",
		Heading:     "Marketing Analytics",
		Lead:        "Know which channels bring customers and which only bring clicks.",
		InquiryType: "marketing",
		Features: []ServiceFeature{
			{"Tracking setup", "Analytics and conversion events configured correctly."},
			{"Dashboards", "One view of traffic, leads and revenue."},
			{"Attribution", "Credit assigned across the whole customer journey."},
		},
	},
}

// InquiryOption is a selectable contact form inquiry type.
type InquiryOption struct {
	Value string
	Label string
}

// InquiryOptions lists the contact form inquiry types.
var InquiryOptions = []InquiryOption{
	{"general", "General Inquiry"},
	{"web", "Web Development"},
	{"software", "Software Development"},
	{"marketing", "Digital Marketing"},
	{"support", "Technical Support"},
	{"partnership", "Partnership"},
}

// ContactPageData is the contact page template data.
type ContactPageData struct {
	Form         service.ContactSubmission
	Errors       map[string]string
	InquiryTypes []InquiryOption
}

// PublicHandler serves the public site pages and the contact form.
type PublicHandler struct {
	renderer *render.Renderer
	contact  *service.ContactService
	logger   *slog.Logger
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(renderer *render.Renderer, contact *service.ContactService, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{
		renderer: renderer,
		contact:  contact,
		logger:   logger,
	}
}

// Home renders the landing page.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "pages/home", "Aura — One Company. Three Superpowers.", nil)
}

// About renders the about page.
func (h *PublicHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "pages/about", "About Us", nil)
}

// Services renders the services overview.
func (h *PublicHandler) Services(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "pages/services", "Our Services", ServicePages)
}

// Events renders the events page.
func (h *PublicHandler) Events(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "pages/events", "Events", nil)
}

// Service returns a handler rendering the given service page.
func (h *PublicHandler) Service(page ServicePage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, h.renderer, h.logger, http.StatusOK, "pages/service", page.Title, page)
	}
}

// NotFound renders the 404 page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, h.logger, http.StatusNotFound, "pages/error", "Page Not Found",
		"The page you are looking for does not exist.")
}

// ContactForm renders the contact page. The inquiry_type query parameter
// preselects an inquiry type.
func (h *PublicHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	inquiry := r.URL.Query().Get("inquiry_type")
	if !isInquiryType(inquiry) {
		inquiry = "general"
	}
	h.renderContact(w, r, http.StatusOK, service.ContactSubmission{InquiryType: inquiry}, nil)
}

// SubmitContact stores a contact form submission.
func (h *PublicHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContact) {
		return
	}

	sub := service.ContactSubmission{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Phone:       strings.TrimSpace(r.FormValue("phone")),
		InquiryType: r.FormValue("inquiry_type"),
		Message:     strings.TrimSpace(r.FormValue("message")),
	}
	if sub.InquiryType == "" {
		sub.InquiryType = "general"
	}

	msg, err := h.contact.Submit(r.Context(), sub)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.renderContact(w, r, http.StatusBadRequest, sub, verr.Fields)
			return
		}
		h.logger.Error("failed to store contact message", "error", err, "ip", middleware.ClientIP(r))
		h.renderContact(w, r, http.StatusInternalServerError, sub, map[string]string{
			"form": "Sorry, your message could not be sent. Please try again later.",
		})
		return
	}

	h.logger.Debug("contact form submitted", "message_id", msg.ID)
	flashSuccess(w, r, h.renderer, redirectContact, contactSuccessMessage)
}

func (h *PublicHandler) renderContact(w http.ResponseWriter, r *http.Request, status int, form service.ContactSubmission, errs map[string]string) {
	renderPage(w, r, h.renderer, h.logger, status, "pages/contact", "Contact Us", ContactPageData{
		Form:         form,
		Errors:       errs,
		InquiryTypes: InquiryOptions,
	})
}

func isInquiryType(v string) bool {
	return slices.ContainsFunc(InquiryOptions, func(opt InquiryOption) bool { return opt.Value == v })
}
