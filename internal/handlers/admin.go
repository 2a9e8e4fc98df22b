// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"marquee/internal/cache"
	"marquee/internal/models"
	"marquee/internal/storage"
	"marquee/internal/store"
)

// Admin groups the JSON management API handlers. Every write invalidates
// the projection cache: page writes drop that page's keys, widget and
// catalog writes drop everything because widgets are shared across pages.
type Admin struct {
	pages         *store.PageStore
	widgets       *store.WidgetStore
	catalog       *store.CatalogStore
	projCache     *cache.ProjectionCache
	storageClient *storage.Client
}

// NewAdmin creates a new Admin handler group. storageClient may be nil
// when S3 is not configured; media uploads then return 503.
func NewAdmin(pages *store.PageStore, widgets *store.WidgetStore, catalog *store.CatalogStore, projCache *cache.ProjectionCache, storageClient *storage.Client) *Admin {
	return &Admin{
		pages:         pages,
		widgets:       widgets,
		catalog:       catalog,
		projCache:     projCache,
		storageClient: storageClient,
	}
}

// --- Pages ---

// PagesList returns all pages, drafts included.
func (a *Admin) PagesList(w http.ResponseWriter, r *http.Request) {
	pages, err := a.pages.List(r.Context())
	if err != nil {
		a.internalError(w, "list pages failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": pages})
}

// PageGet returns one page with its ordered widget bindings.
func (a *Admin) PageGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	page, err := a.pages.FindByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "find page failed", err)
		return
	}
	if page == nil {
		http.NotFound(w, r)
		return
	}
	joins, err := a.pages.JoinRows(r.Context(), id)
	if err != nil {
		a.internalError(w, "list page widgets failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": page, "widgets": joins})
}

// PageCreate creates a page. Assigning a slug held by another live page
// takes the slug over; the previous holder keeps serving by id.
func (a *Admin) PageCreate(w http.ResponseWriter, r *http.Request) {
	var payload pagePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	page := &models.Page{}
	payload.apply(page)

	created, err := a.pages.Create(r.Context(), page)
	if err != nil {
		a.internalError(w, "create page failed", err)
		return
	}
	a.invalidatePage(r.Context(), created)
	writeJSON(w, http.StatusCreated, map[string]any{"page": created})
}

// PageUpdate replaces a page's attributes.
func (a *Admin) PageUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var payload pagePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	page, err := a.pages.FindByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "find page failed", err)
		return
	}
	if page == nil {
		http.NotFound(w, r)
		return
	}

	// Invalidate under the old slug too in case it changes.
	oldKeys := pageCacheKeys(page)
	payload.apply(page)

	if err := a.pages.Update(r.Context(), page); err != nil {
		a.internalError(w, "update page failed", err)
		return
	}
	a.projCache.Invalidate(r.Context(), oldKeys...)
	a.invalidatePage(r.Context(), page)
	writeJSON(w, http.StatusOK, map[string]any{"page": page})
}

// PageDelete removes a page and its widget bindings. The widgets
// themselves survive; they may sit on other pages.
func (a *Admin) PageDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	page, err := a.pages.FindByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "find page failed", err)
		return
	}
	if page == nil {
		http.NotFound(w, r)
		return
	}
	if err := a.pages.Delete(r.Context(), id); err != nil {
		a.internalError(w, "delete page failed", err)
		return
	}
	a.invalidatePage(r.Context(), page)
	w.WriteHeader(http.StatusNoContent)
}

// PageAttachWidget places a widget on a page. Without an explicit
// sort_order the widget lands at the end.
func (a *Admin) PageAttachWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var payload attachPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	join, err := a.pages.AddWidget(r.Context(), id, payload.WidgetID, payload.SortOrder)
	if err != nil {
		if errors.Is(err, store.ErrWidgetAlreadyOnPage) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"errors": map[string]string{"widget_id": "is already on this page"},
			})
			return
		}
		a.internalError(w, "attach widget failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"binding": join})
}

// PageDetachWidget removes a widget from a page.
func (a *Admin) PageDetachWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	widgetID, err := uuid.Parse(chi.URLParam(r, "widgetID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := a.pages.RemoveWidget(r.Context(), id, widgetID); err != nil {
		a.internalError(w, "detach widget failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// PageReorder rewrites a page's widget order to the given id sequence.
func (a *Admin) PageReorder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var payload idListPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	if err := a.pages.Reorder(r.Context(), id, payload.IDs); err != nil {
		a.internalError(w, "reorder widgets failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// --- Widgets ---

// WidgetsList returns widgets, optionally filtered by kind.
func (a *Admin) WidgetsList(w http.ResponseWriter, r *http.Request) {
	kind := models.WidgetKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string]string{"kind": "is not a known widget kind"},
		})
		return
	}

	var widgets []models.Widget
	var err error
	if kind != "" {
		widgets, err = a.widgets.ListByKind(r.Context(), kind)
	} else {
		for _, k := range models.AllWidgetKinds {
			var batch []models.Widget
			batch, err = a.widgets.ListByKind(r.Context(), k)
			if err != nil {
				break
			}
			widgets = append(widgets, batch...)
		}
	}
	if err != nil {
		a.internalError(w, "list widgets failed", err)
		return
	}

	out := make([]map[string]any, 0, len(widgets))
	for i := range widgets {
		out = append(out, adminWidgetJSON(&widgets[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"widgets": out})
}

// WidgetGet returns one widget with its full variant payload. Carousels
// include their items.
func (a *Admin) WidgetGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	widget, err := a.widgets.ResolveByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "resolve widget failed", err)
		return
	}
	if widget == nil {
		http.NotFound(w, r)
		return
	}

	body := adminWidgetJSON(widget)
	if widget.Kind == models.WidgetImageCarousel {
		items, err := a.widgets.CarouselItems(r.Context(), id)
		if err != nil {
			a.internalError(w, "list carousel items failed", err)
			return
		}
		body["items"] = items
	}
	writeJSON(w, http.StatusOK, map[string]any{"widget": body})
}

// WidgetCreate creates a widget of the given kind.
func (a *Admin) WidgetCreate(w http.ResponseWriter, r *http.Request) {
	var payload widgetPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	widget := &models.Widget{
		Kind:      models.WidgetKind(payload.Kind),
		Name:      payload.Name,
		Width:     payload.Width,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		Variant:   payload.variant(),
	}
	created, err := a.widgets.Create(r.Context(), widget)
	if err != nil {
		a.internalError(w, "create widget failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"widget": adminWidgetJSON(created)})
}

// WidgetUpdate replaces a widget's attributes. The kind is fixed at
// creation; a payload naming a different kind is rejected.
func (a *Admin) WidgetUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var payload widgetPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	existing, err := a.widgets.ResolveByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "resolve widget failed", err)
		return
	}
	if existing == nil {
		http.NotFound(w, r)
		return
	}
	if models.WidgetKind(payload.Kind) != existing.Kind {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string]string{"kind": "cannot change after creation"},
		})
		return
	}

	existing.Name = payload.Name
	existing.Width = payload.Width
	existing.StartDate = payload.StartDate
	existing.EndDate = payload.EndDate
	existing.Variant = payload.variant()

	if err := a.widgets.Update(r.Context(), existing); err != nil {
		a.internalError(w, "update widget failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"widget": adminWidgetJSON(existing)})
}

// WidgetDelete removes a widget everywhere, including from any page that
// still shows it.
func (a *Admin) WidgetDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := a.widgets.Delete(r.Context(), id); err != nil {
		a.internalError(w, "delete widget failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// WidgetPrune deletes widgets no page or catalog entity references.
func (a *Admin) WidgetPrune(w http.ResponseWriter, r *http.Request) {
	deleted, err := a.widgets.DeleteOrphans(r.Context())
	if err != nil {
		a.internalError(w, "prune widgets failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// WidgetSetMembers replaces a group widget's hand-picked member list with
// the given ordered ids.
func (a *Admin) WidgetSetMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var payload idListPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	widget, err := a.widgets.ResolveByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "resolve widget failed", err)
		return
	}
	if widget == nil {
		http.NotFound(w, r)
		return
	}
	if err := a.widgets.SetMembers(r.Context(), id, widget.Kind, payload.IDs); err != nil {
		a.internalError(w, "set widget members failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// CarouselItemCreate adds an image to a carousel widget.
func (a *Admin) CarouselItemCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var payload carouselItemPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	widget, err := a.widgets.ResolveByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "resolve widget failed", err)
		return
	}
	if widget == nil || widget.Kind != models.WidgetImageCarousel {
		http.NotFound(w, r)
		return
	}

	sortOrder := 0
	if payload.SortOrder != nil {
		sortOrder = *payload.SortOrder
	}
	item := &models.CarouselItem{
		WidgetID:  id,
		SortOrder: sortOrder,
		ImageKey:  payload.ImageKey,
		Link:      payload.Link.ref(),
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
	}
	created, err := a.widgets.AddCarouselItem(r.Context(), item)
	if err != nil {
		a.internalError(w, "add carousel item failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"item": created})
}

// CarouselItemDelete removes one image from its carousel.
func (a *Admin) CarouselItemDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := a.widgets.DeleteCarouselItem(r.Context(), id); err != nil {
		a.internalError(w, "delete carousel item failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// --- Events ---

// EventsList returns every event, newest first.
func (a *Admin) EventsList(w http.ResponseWriter, r *http.Request) {
	events, err := a.catalog.AllEvents(r.Context())
	if err != nil {
		a.internalError(w, "list events failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// EventCreate creates an event.
func (a *Admin) EventCreate(w http.ResponseWriter, r *http.Request) {
	var payload eventPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	event := &models.Event{}
	payload.apply(event)
	created, err := a.catalog.CreateEvent(r.Context(), event)
	if err != nil {
		a.internalError(w, "create event failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"event": created})
}

// EventUpdate replaces an event's attributes.
func (a *Admin) EventUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	event, err := a.catalog.EventByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "find event failed", err)
		return
	}
	if event == nil {
		http.NotFound(w, r)
		return
	}
	var payload eventPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	payload.apply(event)
	if err := a.catalog.UpdateEvent(r.Context(), event); err != nil {
		a.internalError(w, "update event failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

// EventDelete removes an event.
func (a *Admin) EventDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteEntity(w, r, "delete event failed", a.catalog.DeleteEvent)
}

// EventSetVideos replaces the video widgets attached to an event.
func (a *Admin) EventSetVideos(w http.ResponseWriter, r *http.Request) {
	a.setJoin(w, r, "set event videos failed", a.catalog.SetEventVideos)
}

// --- People ---

// PeopleList returns performers; ?include_inactive=true includes the
// soft-deleted ones.
func (a *Admin) PeopleList(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))
	people, err := a.catalog.People(r.Context(), includeInactive)
	if err != nil {
		a.internalError(w, "list people failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"people": people})
}

// PersonCreate creates a performer, active by default.
func (a *Admin) PersonCreate(w http.ResponseWriter, r *http.Request) {
	var payload personPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	person := &models.Person{Active: true}
	payload.apply(person)
	created, err := a.catalog.CreatePerson(r.Context(), person)
	if err != nil {
		a.internalError(w, "create person failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"person": created})
}

// PersonUpdate replaces a performer's attributes.
func (a *Admin) PersonUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	person, err := a.catalog.PersonByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "find person failed", err)
		return
	}
	if person == nil {
		http.NotFound(w, r)
		return
	}
	var payload personPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	payload.apply(person)
	if err := a.catalog.UpdatePerson(r.Context(), person); err != nil {
		a.internalError(w, "update person failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"person": person})
}

// PersonDelete soft-deletes a performer. The row stays so old credits and
// team histories keep resolving; the person just disappears from default
// listings.
func (a *Admin) PersonDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteEntity(w, r, "deactivate person failed", a.catalog.DeactivatePerson)
}

// PersonSetTeams replaces a performer's house team memberships.
func (a *Admin) PersonSetTeams(w http.ResponseWriter, r *http.Request) {
	a.setJoin(w, r, "set person teams failed", a.catalog.SetPersonTeams)
}

// PersonSetVideos replaces the video widgets attached to a performer.
func (a *Admin) PersonSetVideos(w http.ResponseWriter, r *http.Request) {
	a.setJoin(w, r, "set person videos failed", a.catalog.SetPersonVideos)
}

// --- House teams ---

// HouseTeamsList returns every house team.
func (a *Admin) HouseTeamsList(w http.ResponseWriter, r *http.Request) {
	teams, err := a.catalog.HouseTeams(r.Context())
	if err != nil {
		a.internalError(w, "list house teams failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"house_teams": teams})
}

// HouseTeamCreate creates a house team.
func (a *Admin) HouseTeamCreate(w http.ResponseWriter, r *http.Request) {
	var payload houseTeamPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	team := &models.HouseTeam{}
	payload.apply(team)
	created, err := a.catalog.CreateHouseTeam(r.Context(), team)
	if err != nil {
		a.internalError(w, "create house team failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"house_team": created})
}

// HouseTeamUpdate replaces a house team's attributes.
func (a *Admin) HouseTeamUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	team, err := a.catalog.HouseTeamByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "find house team failed", err)
		return
	}
	if team == nil {
		http.NotFound(w, r)
		return
	}
	var payload houseTeamPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	payload.apply(team)
	if err := a.catalog.UpdateHouseTeam(r.Context(), team); err != nil {
		a.internalError(w, "update house team failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"house_team": team})
}

// HouseTeamDelete removes a house team.
func (a *Admin) HouseTeamDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteEntity(w, r, "delete house team failed", a.catalog.DeleteHouseTeam)
}

// HouseTeamSetVideos replaces the video widgets attached to a house team.
func (a *Admin) HouseTeamSetVideos(w http.ResponseWriter, r *http.Request) {
	a.setJoin(w, r, "set house team videos failed", a.catalog.SetHouseTeamVideos)
}

// --- Classes ---

// ClassesList returns classes, optionally filtered by type and open
// registration.
func (a *Admin) ClassesList(w http.ResponseWriter, r *http.Request) {
	classType := r.URL.Query().Get("class_type")
	onlyOpen, _ := strconv.ParseBool(r.URL.Query().Get("open"))
	classes, err := a.catalog.Classes(r.Context(), classType, onlyOpen, time.Now())
	if err != nil {
		a.internalError(w, "list classes failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"classes": classes})
}

// ClassCreate creates a class.
func (a *Admin) ClassCreate(w http.ResponseWriter, r *http.Request) {
	var payload classPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	class := &models.ApeClass{}
	payload.apply(class)
	created, err := a.catalog.CreateClass(r.Context(), class)
	if err != nil {
		a.internalError(w, "create class failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"class": created})
}

// ClassUpdate replaces a class's attributes.
func (a *Admin) ClassUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	class, err := a.catalog.ApeClassByID(r.Context(), id)
	if err != nil {
		a.internalError(w, "find class failed", err)
		return
	}
	if class == nil {
		http.NotFound(w, r)
		return
	}
	var payload classPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	payload.apply(class)
	if err := a.catalog.UpdateClass(r.Context(), class); err != nil {
		a.internalError(w, "update class failed", err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"class": class})
}

// ClassDelete removes a class.
func (a *Admin) ClassDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteEntity(w, r, "delete class failed", a.catalog.DeleteClass)
}

// --- shared plumbing ---

// deleteEntity runs an id-keyed delete and invalidates the cache.
func (a *Admin) deleteEntity(w http.ResponseWriter, r *http.Request, what string, del func(context.Context, uuid.UUID) error) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		a.internalError(w, what, err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// setJoin replaces an id-keyed join list and invalidates the cache.
func (a *Admin) setJoin(w http.ResponseWriter, r *http.Request, what string, set func(context.Context, uuid.UUID, []uuid.UUID) error) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var payload idListPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	if err := set(r.Context(), id, payload.IDs); err != nil {
		a.internalError(w, what, err)
		return
	}
	a.projCache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *Admin) invalidatePage(ctx context.Context, page *models.Page) {
	a.projCache.Invalidate(ctx, pageCacheKeys(page)...)
}

func (a *Admin) internalError(w http.ResponseWriter, what string, err error) {
	slog.Error(what, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// adminWidgetJSON flattens a widget and its variant payload for the
// management API. Unlike the public projection this includes raw keys and
// ids rather than resolved URLs.
func adminWidgetJSON(w *models.Widget) map[string]any {
	out := map[string]any{
		"id":            w.ID,
		"kind":          w.Kind,
		"name":          w.Name,
		"width":         w.Width,
		"start_date":    w.StartDate,
		"end_date":      w.EndDate,
		"created":       w.Created,
		"last_modified": w.LastModified,
	}

	switch v := w.Variant.(type) {
	case *models.TextVariant:
		out["text"] = v.Content
		out["text_color"] = v.TextColor
	case *models.BannerVariant:
		out["image_key"] = v.ImageKey
		out["link"] = v.Link
	case *models.CarouselVariant:
		// Items are fetched separately; nothing else to flatten.
	case *models.EventsVariant:
		out["display_type"] = v.DisplayType
		out["upcoming_only"] = v.UpcomingOnly
		out["upcoming_window_days"] = v.UpcomingWindowDays
		out["event_ids"] = v.EventIDs
	case *models.PeopleVariant:
		out["display_type"] = v.DisplayType
		out["source_house_team_id"] = v.SourceHouseTeamID
		out["person_ids"] = v.PersonIDs
	case *models.ApeClassesVariant:
		out["display_type"] = v.DisplayType
		out["class_type"] = v.ClassType
		out["only_open_registration"] = v.OnlyOpenRegistration
		out["class_ids"] = v.ClassIDs
	case *models.VideosVariant:
		out["display_type"] = v.DisplayType
		out["video_widget_ids"] = v.VideoWidgetIDs
	case *models.EventFocusVariant:
		out["target_id"] = v.EventID
	case *models.PersonFocusVariant:
		out["target_id"] = v.PersonID
	case *models.ApeClassFocusVariant:
		out["target_id"] = v.ApeClassID
	case *models.HouseTeamFocusVariant:
		out["target_id"] = v.HouseTeamID
	case *models.AudioVariant:
		out["audio_key"] = v.AudioKey
		out["description"] = v.Description
	case *models.VideoVariant:
		out["video_key"] = v.VideoKey
		out["description"] = v.Description
	}
	return out
}

// parseID pulls the {id} route parameter as a UUID, writing a 404 when it
// does not parse.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return uuid.Nil, false
	}
	return id, true
}

// writeJSON marshals v and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}
