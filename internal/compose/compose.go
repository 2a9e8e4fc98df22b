// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Package compose turns pages, widgets and catalog entities into the
// nested map structures the public API serves. All projections take an
// explicit reference time so activation windows and "upcoming" queries
// are deterministic for a given request.
package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"marquee/internal/models"
)

// ErrNotFound is returned when the requested page or catalog entity does
// not exist.
var ErrNotFound = errors.New("not found")

// PageSource supplies pages.
type PageSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	FindBySlug(ctx context.Context, slug string) (*models.Page, error)
}

// WidgetSource supplies widgets and their attachments.
type WidgetSource interface {
	ResolveByID(ctx context.Context, id uuid.UUID) (*models.Widget, error)
	ListForPage(ctx context.Context, pageID uuid.UUID) ([]models.Widget, error)
	ListByKind(ctx context.Context, kind models.WidgetKind) ([]models.Widget, error)
	VideosForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Widget, error)
	VideosForPerson(ctx context.Context, personID uuid.UUID) ([]models.Widget, error)
	VideosForHouseTeam(ctx context.Context, teamID uuid.UUID) ([]models.Widget, error)
}

// CatalogSource supplies events, people, house teams and classes.
type CatalogSource interface {
	EventByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	EventsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Event, error)
	UpcomingEvents(ctx context.Context, now time.Time, windowDays *int) ([]models.Event, error)
	AllEvents(ctx context.Context) ([]models.Event, error)

	PersonByID(ctx context.Context, id uuid.UUID) (*models.Person, error)
	PeopleByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Person, error)
	People(ctx context.Context, includeInactive bool) ([]models.Person, error)
	PeopleByHouseTeam(ctx context.Context, houseTeamID uuid.UUID) ([]models.Person, error)

	HouseTeamByID(ctx context.Context, id uuid.UUID) (*models.HouseTeam, error)

	ApeClassByID(ctx context.Context, id uuid.UUID) (*models.ApeClass, error)
	ClassesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ApeClass, error)
	Classes(ctx context.Context, classType string, onlyOpenRegistration bool, now time.Time) ([]models.ApeClass, error)
}

// MediaResolver maps a stored media key to a client-usable URL.
type MediaResolver interface {
	URL(key string) string
}

// Composer builds page and catalog projections.
type Composer struct {
	pages   PageSource
	widgets WidgetSource
	catalog CatalogSource
	media   MediaResolver
	logger  *slog.Logger
}

// NewComposer creates a Composer over the given sources.
func NewComposer(pages PageSource, widgets WidgetSource, catalog CatalogSource, media MediaResolver, logger *slog.Logger) *Composer {
	return &Composer{pages: pages, widgets: widgets, catalog: catalog, media: media, logger: logger}
}

// GetPage resolves idOrSlug to a page and projects it. A UUID resolves by
// id (drafts included, for previews); anything else is treated as a slug
// and only matches live pages. Returns ErrNotFound when nothing matches.
func (c *Composer) GetPage(ctx context.Context, idOrSlug string, now time.Time) (map[string]any, error) {
	var page *models.Page
	var err error
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		page, err = c.pages.FindByID(ctx, id)
	} else {
		page, err = c.pages.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve page %q: %w", idOrSlug, err)
	}
	if page == nil {
		return nil, ErrNotFound
	}
	return c.PageData(ctx, page, now)
}

// PageData projects a page: its display attributes plus the data of every
// currently-active widget, in join sort order.
func (c *Composer) PageData(ctx context.Context, page *models.Page, now time.Time) (map[string]any, error) {
	widgets, err := c.widgets.ListForPage(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("widgets for page %s: %w", page.ID, err)
	}

	widgetData := make([]map[string]any, 0, len(widgets))
	for i := range widgets {
		w := &widgets[i]
		if !w.IsActive(now) {
			continue
		}
		data, err := c.WidgetData(ctx, w, now)
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", w.ID, err)
		}
		widgetData = append(widgetData, data)
	}

	return map[string]any{
		"name":               page.Name,
		"background":         page.BackgroundData(),
		"text_color":         strVal(page.TextColor),
		"button_color":       strVal(page.ButtonColor),
		"button_text_color":  strVal(page.ButtonTextColor),
		"nav_bar_color":      strVal(page.NavBarColor),
		"nav_bar_text_color": strVal(page.NavBarTextColor),
		"widgets":            widgetData,
	}, nil
}

// WidgetData projects one widget. Every projection carries the id, name,
// width and type keys; the rest depends on the variant.
func (c *Composer) WidgetData(ctx context.Context, w *models.Widget, now time.Time) (map[string]any, error) {
	data := map[string]any{
		"id":    w.ID,
		"name":  w.Name,
		"width": intVal(w.Width),
	}

	switch v := w.Variant.(type) {
	case *models.TextVariant:
		data["type"] = "text"
		data["text"] = v.JSONContent()
		data["text_color"] = v.TextColor

	case *models.BannerVariant:
		data["type"] = "banner"
		data["image"] = map[string]any{"url": c.media.URL(v.ImageKey)}
		if path, ok := v.Link.APIPath(); ok {
			data["page_path"] = path
		}

	case *models.CarouselVariant:
		data["type"] = "image_carousel"
		images := make([]map[string]any, 0, len(v.Items))
		for i := range v.Items {
			item := &v.Items[i]
			if !item.IsActive(now) {
				continue
			}
			img := map[string]any{
				"image":      map[string]any{"url": c.media.URL(item.ImageKey)},
				"start_date": item.StartDate,
				"end_date":   item.EndDate,
			}
			if path, ok := item.Link.APIPath(); ok {
				img["path"] = path
			}
			images = append(images, img)
		}
		data["images"] = images

	case *models.EventsVariant:
		items, err := c.eventItems(ctx, v, now)
		if err != nil {
			return nil, err
		}
		data["type"] = v.DisplayType
		data["item_type"] = "event"
		data["items"] = items

	case *models.PeopleVariant:
		items, err := c.peopleItems(ctx, v)
		if err != nil {
			return nil, err
		}
		data["type"] = v.DisplayType
		data["item_type"] = "person"
		data["items"] = items

	case *models.ApeClassesVariant:
		items, err := c.classItems(ctx, v, now)
		if err != nil {
			return nil, err
		}
		data["type"] = v.DisplayType
		data["item_type"] = "ape_class"
		data["items"] = items

	case *models.VideosVariant:
		items, err := c.videoItems(ctx, v, now)
		if err != nil {
			return nil, err
		}
		data["type"] = v.DisplayType
		data["item_type"] = "video"
		data["items"] = items

	case *models.EventFocusVariant:
		data["type"] = "event_focus"
		if v.EventID != nil {
			event, err := c.catalog.EventByID(ctx, *v.EventID)
			if err != nil {
				return nil, fmt.Errorf("focus event: %w", err)
			}
			if event != nil {
				eventData, err := c.EventData(ctx, event, now)
				if err != nil {
					return nil, err
				}
				data["event"] = eventData
			}
		}

	case *models.PersonFocusVariant:
		data["type"] = "person_focus"
		if v.PersonID != nil {
			person, err := c.catalog.PersonByID(ctx, *v.PersonID)
			if err != nil {
				return nil, fmt.Errorf("focus person: %w", err)
			}
			if person != nil {
				personData, err := c.PersonData(ctx, person, now, true)
				if err != nil {
					return nil, err
				}
				data["person"] = personData
			}
		}

	case *models.ApeClassFocusVariant:
		data["type"] = "ape_class_focus"
		if v.ApeClassID != nil {
			class, err := c.catalog.ApeClassByID(ctx, *v.ApeClassID)
			if err != nil {
				return nil, fmt.Errorf("focus class: %w", err)
			}
			if class != nil {
				classData, err := c.ApeClassData(ctx, class, now)
				if err != nil {
					return nil, err
				}
				data["ape_class"] = classData
			}
		}

	case *models.HouseTeamFocusVariant:
		data["type"] = "house_team_focus"
		if v.HouseTeamID != nil {
			team, err := c.catalog.HouseTeamByID(ctx, *v.HouseTeamID)
			if err != nil {
				return nil, fmt.Errorf("focus house team: %w", err)
			}
			if team != nil {
				teamData, err := c.HouseTeamData(ctx, team, now, true)
				if err != nil {
					return nil, err
				}
				data["house_team"] = teamData
			}
		}

	case *models.AudioVariant:
		data["type"] = "audio"
		data["description"] = v.Description
		data["audio_source"] = c.media.URL(v.AudioKey)

	case *models.VideoVariant:
		data["type"] = "video"
		data["description"] = v.Description
		data["video_source"] = c.media.URL(v.VideoKey)

	default:
		return nil, fmt.Errorf("widget %s kind %q: %w", w.ID, w.Kind, models.ErrDataIntegrity)
	}

	return data, nil
}

// eventItems selects the events for a group widget. Hand-picked members
// are exclusive with the computed query: when ids are attached only they
// show, in the hand-picked order; otherwise the upcoming query, or every
// event, applies.
func (c *Composer) eventItems(ctx context.Context, v *models.EventsVariant, now time.Time) ([]map[string]any, error) {
	var events []models.Event
	var err error
	switch {
	case len(v.EventIDs) > 0:
		events, err = c.catalog.EventsByIDs(ctx, v.EventIDs)
	case v.UpcomingOnly:
		events, err = c.catalog.UpcomingEvents(ctx, now, v.UpcomingWindowDays)
	default:
		events, err = c.catalog.AllEvents(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("events widget items: %w", err)
	}

	items := make([]map[string]any, 0, len(events))
	seen := make(map[uuid.UUID]bool, len(events))
	for i := range events {
		e := &events[i]
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		item := map[string]any{
			"id":   e.ID,
			"name": e.Name,
			"path": e.APIPath(),
		}
		if url, ok := c.bannerURL(ctx, e.BannerWidgetID); ok {
			item["image"] = url
		}
		items = append(items, item)
	}
	return items, nil
}

// peopleItems selects the people for a group widget: a house team's
// roster when one is set, else hand-picked people, else all active people.
func (c *Composer) peopleItems(ctx context.Context, v *models.PeopleVariant) ([]map[string]any, error) {
	var people []models.Person
	var err error
	switch {
	case v.SourceHouseTeamID != nil:
		people, err = c.catalog.PeopleByHouseTeam(ctx, *v.SourceHouseTeamID)
	case len(v.PersonIDs) > 0:
		people, err = c.catalog.PeopleByIDs(ctx, v.PersonIDs)
	default:
		people, err = c.catalog.People(ctx, false)
	}
	if err != nil {
		return nil, fmt.Errorf("people widget items: %w", err)
	}

	items := make([]map[string]any, 0, len(people))
	seen := make(map[uuid.UUID]bool, len(people))
	for i := range people {
		p := &people[i]
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		item := map[string]any{
			"id":   p.ID,
			"name": p.Name(),
			"path": p.APIPath(),
		}
		if p.HeadshotKey != "" {
			item["image"] = c.media.URL(p.HeadshotKey)
		}
		items = append(items, item)
	}
	return items, nil
}

// classItems selects the classes for a group widget.
func (c *Composer) classItems(ctx context.Context, v *models.ApeClassesVariant, now time.Time) ([]map[string]any, error) {
	var classes []models.ApeClass
	var err error
	if len(v.ClassIDs) > 0 {
		classes, err = c.catalog.ClassesByIDs(ctx, v.ClassIDs)
	} else {
		classes, err = c.catalog.Classes(ctx, v.ClassType, v.OnlyOpenRegistration, now)
	}
	if err != nil {
		return nil, fmt.Errorf("classes widget items: %w", err)
	}

	items := make([]map[string]any, 0, len(classes))
	seen := make(map[uuid.UUID]bool, len(classes))
	for i := range classes {
		cl := &classes[i]
		if seen[cl.ID] {
			continue
		}
		seen[cl.ID] = true
		item := map[string]any{
			"id":   cl.ID,
			"name": cl.Name,
			"path": cl.APIPath(),
			"type": cl.ClassType,
		}
		if url, ok := c.bannerURL(ctx, cl.BannerWidgetID); ok {
			item["image"] = url
		}
		items = append(items, item)
	}
	return items, nil
}

// videoItems resolves the video widgets a videos group points at.
// Hand-picked members are exclusive with the default set: with none
// attached, every video widget live at the reference time is listed.
// Ids that no longer resolve to a video widget are skipped.
func (c *Composer) videoItems(ctx context.Context, v *models.VideosVariant, now time.Time) ([]map[string]any, error) {
	if len(v.VideoWidgetIDs) == 0 {
		all, err := c.widgets.ListByKind(ctx, models.WidgetVideo)
		if err != nil {
			return nil, fmt.Errorf("videos widget default set: %w", err)
		}
		items := make([]map[string]any, 0, len(all))
		for i := range all {
			w := &all[i]
			video, ok := w.Variant.(*models.VideoVariant)
			if !ok || !w.IsActive(now) {
				continue
			}
			items = append(items, c.videoItem(w, video))
		}
		return items, nil
	}

	items := make([]map[string]any, 0, len(v.VideoWidgetIDs))
	seen := make(map[uuid.UUID]bool, len(v.VideoWidgetIDs))
	for _, id := range v.VideoWidgetIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		w, err := c.widgets.ResolveByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("videos widget member %s: %w", id, err)
		}
		if w == nil {
			continue
		}
		video, ok := w.Variant.(*models.VideoVariant)
		if !ok {
			c.logger.Warn("videos widget member is not a video", "widget_id", id, "kind", w.Kind)
			continue
		}
		items = append(items, c.videoItem(w, video))
	}
	return items, nil
}

func (c *Composer) videoItem(w *models.Widget, v *models.VideoVariant) map[string]any {
	return map[string]any{
		"id":           w.ID,
		"name":         w.Name,
		"description":  v.Description,
		"video_source": c.media.URL(v.VideoKey),
	}
}

// bannerURL resolves a banner widget reference to its image URL.
func (c *Composer) bannerURL(ctx context.Context, bannerWidgetID *uuid.UUID) (string, bool) {
	if bannerWidgetID == nil {
		return "", false
	}
	w, err := c.widgets.ResolveByID(ctx, *bannerWidgetID)
	if err != nil || w == nil {
		return "", false
	}
	banner, ok := w.Variant.(*models.BannerVariant)
	if !ok || banner.ImageKey == "" {
		return "", false
	}
	return c.media.URL(banner.ImageKey), true
}

func strVal(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intVal(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
