// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Marquee CMS.
// Handlers are grouped by concern (public, admin) and receive their
// dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"marquee/internal/cache"
	"marquee/internal/compose"
	"marquee/internal/models"
	"marquee/internal/render"
)

// Public groups the read-only site-facing handlers: page and catalog
// projections as JSON, and their server-rendered HTML counterparts.
type Public struct {
	composer  *compose.Composer
	renderer  *render.Renderer
	projCache *cache.ProjectionCache
}

// NewPublic creates a new Public handler group. projCache may be nil when
// Valkey is not configured; caching is then skipped entirely.
func NewPublic(composer *compose.Composer, renderer *render.Renderer, projCache *cache.ProjectionCache) *Public {
	return &Public{
		composer:  composer,
		renderer:  renderer,
		projCache: projCache,
	}
}

// PageJSON serves a page projection, looked up by id or slug.
//
//	GET /pages/{page}.json
func (p *Public) PageJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idOrSlug := chi.URLParam(r, "page")
	cacheKey := "page:" + idOrSlug

	if body, ok := p.projCache.Get(ctx, cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	data, err := p.composer.GetPage(ctx, idOrSlug, time.Now())
	if err != nil {
		if errors.Is(err, compose.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("compose page failed", "error", err, "page", idOrSlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal page failed", "error", err, "page", idOrSlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.projCache.Set(ctx, body, cacheKey)
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// PageHTML serves the server-rendered view of a page.
//
//	GET /pages/{page}
func (p *Public) PageHTML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idOrSlug := chi.URLParam(r, "page")
	cacheKey := "html:page:" + idOrSlug

	if body, ok := p.projCache.Get(ctx, cacheKey); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
		return
	}

	data, err := p.composer.GetPage(ctx, idOrSlug, time.Now())
	if err != nil {
		if errors.Is(err, compose.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("compose page failed", "error", err, "page", idOrSlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf writeBuffer
	if err := p.renderer.Page(&buf, data); err != nil {
		slog.Error("render page failed", "error", err, "page", idOrSlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.projCache.Set(ctx, buf.b, cacheKey)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.b)
}

// Home serves the page with the "home" slug at the site root.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	rctx := chi.RouteContext(r.Context())
	rctx.URLParams.Add("page", "home")
	p.PageHTML(w, r)
}

// EventJSON serves an event projection.
//
//	GET /events/{id}.json
func (p *Public) EventJSON(w http.ResponseWriter, r *http.Request) {
	p.entityJSON(w, r, "event", p.composer.GetEvent)
}

// PersonJSON serves a performer projection.
//
//	GET /people/{id}.json
func (p *Public) PersonJSON(w http.ResponseWriter, r *http.Request) {
	p.entityJSON(w, r, "person", p.composer.GetPerson)
}

// HouseTeamJSON serves a house team projection.
//
//	GET /house_teams/{id}.json
func (p *Public) HouseTeamJSON(w http.ResponseWriter, r *http.Request) {
	p.entityJSON(w, r, "house_team", p.composer.GetHouseTeam)
}

// ClassJSON serves a class projection.
//
//	GET /classes/{id}.json
func (p *Public) ClassJSON(w http.ResponseWriter, r *http.Request) {
	p.entityJSON(w, r, "ape_class", p.composer.GetApeClass)
}

// EventHTML serves the server-rendered event detail view.
func (p *Public) EventHTML(w http.ResponseWriter, r *http.Request) {
	p.entityHTML(w, r, "event", p.composer.GetEvent)
}

// PersonHTML serves the server-rendered performer detail view.
func (p *Public) PersonHTML(w http.ResponseWriter, r *http.Request) {
	p.entityHTML(w, r, "person", p.composer.GetPerson)
}

// HouseTeamHTML serves the server-rendered house team detail view.
func (p *Public) HouseTeamHTML(w http.ResponseWriter, r *http.Request) {
	p.entityHTML(w, r, "house_team", p.composer.GetHouseTeam)
}

// ClassHTML serves the server-rendered class detail view.
func (p *Public) ClassHTML(w http.ResponseWriter, r *http.Request) {
	p.entityHTML(w, r, "ape_class", p.composer.GetApeClass)
}

// Health reports process liveness.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// entityGetter is the shape every catalog projection lookup shares.
type entityGetter func(ctx context.Context, id uuid.UUID, now time.Time) (map[string]any, error)

func (p *Public) entityJSON(w http.ResponseWriter, r *http.Request, kind string, get entityGetter) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	cacheKey := kind + ":" + id.String()

	if body, ok := p.projCache.Get(ctx, cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	data, err := get(ctx, id, time.Now())
	if err != nil {
		if errors.Is(err, compose.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("compose entity failed", "error", err, "kind", kind, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal entity failed", "error", err, "kind", kind, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.projCache.Set(ctx, body, cacheKey)
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (p *Public) entityHTML(w http.ResponseWriter, r *http.Request, kind string, get entityGetter) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, err := get(ctx, id, time.Now())
	if err != nil {
		if errors.Is(err, compose.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("compose entity failed", "error", err, "kind", kind, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	title, _ := data["name"].(string)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.renderer.Entity(w, title, data); err != nil {
		slog.Error("render entity failed", "error", err, "kind", kind, "id", id)
	}
}

// writeBuffer is a minimal in-memory io.Writer so a render error cannot
// leave a half-written response body behind.
type writeBuffer struct {
	b []byte
}

func (wb *writeBuffer) Write(p []byte) (int, error) {
	wb.b = append(wb.b, p...)
	return len(p), nil
}

// pageCacheKeys returns every projection-cache key a page can be served
// under, in both JSON and HTML form.
func pageCacheKeys(page *models.Page) []string {
	keys := []string{
		"page:" + page.ID.String(),
		"html:page:" + page.ID.String(),
	}
	if page.Slug != nil && *page.Slug != "" {
		keys = append(keys, "page:"+*page.Slug, "html:page:"+*page.Slug)
	}
	return keys
}
