// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Marquee CMS: the public page and catalog surface, and the /admin JSON
// management API.
package router

import (
	"github.com/go-chi/chi/v5"

	"marquee/internal/handlers"
	"marquee/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable rate limiting.
func New(public *handlers.Public, admin *handlers.Admin, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Get("/health", public.Health)

	// Public surface. The .json routes serve projections for API
	// clients; the bare routes serve the rendered HTML views.
	r.Get("/", public.Home)
	r.Get("/pages/{page}.json", public.PageJSON)
	r.Get("/pages/{page}", public.PageHTML)
	r.Get("/events/{id}.json", public.EventJSON)
	r.Get("/events/{id}", public.EventHTML)
	r.Get("/people/{id}.json", public.PersonJSON)
	r.Get("/people/{id}", public.PersonHTML)
	r.Get("/house_teams/{id}.json", public.HouseTeamJSON)
	r.Get("/house_teams/{id}", public.HouseTeamHTML)
	r.Get("/classes/{id}.json", public.ClassJSON)
	r.Get("/classes/{id}", public.ClassHTML)

	// Management API. Runs behind the reverse proxy's access control.
	r.Route("/admin", func(r chi.Router) {
		r.Route("/pages", func(r chi.Router) {
			r.Get("/", admin.PagesList)
			r.Post("/", admin.PageCreate)
			r.Get("/{id}", admin.PageGet)
			r.Put("/{id}", admin.PageUpdate)
			r.Delete("/{id}", admin.PageDelete)
			r.Post("/{id}/widgets", admin.PageAttachWidget)
			r.Put("/{id}/widgets/order", admin.PageReorder)
			r.Delete("/{id}/widgets/{widgetID}", admin.PageDetachWidget)
		})

		r.Route("/widgets", func(r chi.Router) {
			r.Get("/", admin.WidgetsList)
			r.Post("/", admin.WidgetCreate)
			r.Post("/orphans/prune", admin.WidgetPrune)
			r.Get("/{id}", admin.WidgetGet)
			r.Put("/{id}", admin.WidgetUpdate)
			r.Delete("/{id}", admin.WidgetDelete)
			r.Put("/{id}/members", admin.WidgetSetMembers)
			r.Post("/{id}/items", admin.CarouselItemCreate)
		})
		r.Delete("/carousel_items/{id}", admin.CarouselItemDelete)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", admin.EventsList)
			r.Post("/", admin.EventCreate)
			r.Put("/{id}", admin.EventUpdate)
			r.Delete("/{id}", admin.EventDelete)
			r.Put("/{id}/videos", admin.EventSetVideos)
		})

		r.Route("/people", func(r chi.Router) {
			r.Get("/", admin.PeopleList)
			r.Post("/", admin.PersonCreate)
			r.Put("/{id}", admin.PersonUpdate)
			r.Delete("/{id}", admin.PersonDelete)
			r.Put("/{id}/teams", admin.PersonSetTeams)
			r.Put("/{id}/videos", admin.PersonSetVideos)
		})

		r.Route("/house_teams", func(r chi.Router) {
			r.Get("/", admin.HouseTeamsList)
			r.Post("/", admin.HouseTeamCreate)
			r.Put("/{id}", admin.HouseTeamUpdate)
			r.Delete("/{id}", admin.HouseTeamDelete)
			r.Put("/{id}/videos", admin.HouseTeamSetVideos)
		})

		r.Route("/classes", func(r chi.Router) {
			r.Get("/", admin.ClassesList)
			r.Post("/", admin.ClassCreate)
			r.Put("/{id}", admin.ClassUpdate)
			r.Delete("/{id}", admin.ClassDelete)
		})

		r.Post("/media", admin.MediaUpload)
		r.Delete("/media/{key}", admin.MediaDelete)
	})

	return r
}
