// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package compose

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"marquee/internal/models"
)

// In-memory sources so projections can be tested without a database.

type fakePages struct {
	byID   map[uuid.UUID]*models.Page
	bySlug map[string]*models.Page
}

func (f *fakePages) FindByID(_ context.Context, id uuid.UUID) (*models.Page, error) {
	return f.byID[id], nil
}

func (f *fakePages) FindBySlug(_ context.Context, slug string) (*models.Page, error) {
	return f.bySlug[slug], nil
}

type fakeWidgets struct {
	byID    map[uuid.UUID]*models.Widget
	forPage map[uuid.UUID][]models.Widget
}

func (f *fakeWidgets) ResolveByID(_ context.Context, id uuid.UUID) (*models.Widget, error) {
	return f.byID[id], nil
}

func (f *fakeWidgets) ListForPage(_ context.Context, pageID uuid.UUID) ([]models.Widget, error) {
	return f.forPage[pageID], nil
}

func (f *fakeWidgets) ListByKind(_ context.Context, kind models.WidgetKind) ([]models.Widget, error) {
	var out []models.Widget
	for _, w := range f.byID {
		if w.Kind == kind {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeWidgets) VideosForEvent(context.Context, uuid.UUID) ([]models.Widget, error) {
	return nil, nil
}

func (f *fakeWidgets) VideosForPerson(context.Context, uuid.UUID) ([]models.Widget, error) {
	return nil, nil
}

func (f *fakeWidgets) VideosForHouseTeam(context.Context, uuid.UUID) ([]models.Widget, error) {
	return nil, nil
}

type fakeCatalog struct {
	events map[uuid.UUID]*models.Event
	people map[uuid.UUID]*models.Person
	teams  map[uuid.UUID]*models.HouseTeam
	class  map[uuid.UUID]*models.ApeClass
}

func (f *fakeCatalog) EventByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	return f.events[id], nil
}

func (f *fakeCatalog) EventsByIDs(_ context.Context, ids []uuid.UUID) ([]models.Event, error) {
	var out []models.Event
	for _, id := range ids {
		if e, ok := f.events[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeCatalog) UpcomingEvents(_ context.Context, now time.Time, windowDays *int) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if e.StartTime == nil || e.StartTime.Before(now) {
			continue
		}
		if windowDays != nil && !e.StartTime.Before(now.AddDate(0, 0, *windowDays)) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeCatalog) AllEvents(_ context.Context) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeCatalog) PersonByID(_ context.Context, id uuid.UUID) (*models.Person, error) {
	return f.people[id], nil
}

func (f *fakeCatalog) PeopleByIDs(_ context.Context, ids []uuid.UUID) ([]models.Person, error) {
	var out []models.Person
	for _, id := range ids {
		if p, ok := f.people[id]; ok && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) People(_ context.Context, includeInactive bool) ([]models.Person, error) {
	var out []models.Person
	for _, p := range f.people {
		if p.Active || includeInactive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) PeopleByHouseTeam(_ context.Context, teamID uuid.UUID) ([]models.Person, error) {
	var out []models.Person
	for _, p := range f.people {
		for _, id := range p.HouseTeamIDs {
			if id == teamID && p.Active {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) HouseTeamByID(_ context.Context, id uuid.UUID) (*models.HouseTeam, error) {
	return f.teams[id], nil
}

func (f *fakeCatalog) ApeClassByID(_ context.Context, id uuid.UUID) (*models.ApeClass, error) {
	return f.class[id], nil
}

func (f *fakeCatalog) ClassesByIDs(_ context.Context, ids []uuid.UUID) ([]models.ApeClass, error) {
	var out []models.ApeClass
	for _, id := range ids {
		if c, ok := f.class[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Classes(_ context.Context, classType string, onlyOpen bool, now time.Time) ([]models.ApeClass, error) {
	var out []models.ApeClass
	for _, c := range f.class {
		if classType != "" && c.ClassType != classType {
			continue
		}
		if onlyOpen && !c.RegistrationOpen(now) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

type fakeMedia struct{}

func (fakeMedia) URL(key string) string { return "/media/" + key }

func newTestComposer(pages *fakePages, widgets *fakeWidgets, catalog *fakeCatalog) *Composer {
	if pages == nil {
		pages = &fakePages{byID: map[uuid.UUID]*models.Page{}, bySlug: map[string]*models.Page{}}
	}
	if widgets == nil {
		widgets = &fakeWidgets{byID: map[uuid.UUID]*models.Widget{}, forPage: map[uuid.UUID][]models.Widget{}}
	}
	if catalog == nil {
		catalog = &fakeCatalog{
			events: map[uuid.UUID]*models.Event{},
			people: map[uuid.UUID]*models.Person{},
			teams:  map[uuid.UUID]*models.HouseTeam{},
			class:  map[uuid.UUID]*models.ApeClass{},
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewComposer(pages, widgets, catalog, fakeMedia{}, logger)
}

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(n int) *int              { return &n }

var refTime = time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

func textWidget(name, content string) models.Widget {
	return models.Widget{
		ID:      uuid.New(),
		Kind:    models.WidgetText,
		Name:    name,
		Variant: &models.TextVariant{Content: content},
	}
}

func TestGetPageFiltersInactiveWidgets(t *testing.T) {
	page := &models.Page{ID: uuid.New(), Name: "Home"}

	current := textWidget("current", "shown")
	current.StartDate = timePtr(refTime.Add(-time.Hour))
	current.EndDate = timePtr(refTime.Add(time.Hour))
	unlimited := textWidget("no time limit", "also shown")
	expired := textWidget("expired", "hidden")
	expired.EndDate = timePtr(refTime.Add(-time.Minute))
	future := textWidget("future", "hidden")
	future.StartDate = timePtr(refTime.Add(time.Minute))

	pages := &fakePages{
		byID:   map[uuid.UUID]*models.Page{page.ID: page},
		bySlug: map[string]*models.Page{},
	}
	widgets := &fakeWidgets{
		byID: map[uuid.UUID]*models.Widget{},
		forPage: map[uuid.UUID][]models.Widget{
			page.ID: {unlimited, expired, current, future},
		},
	}

	c := newTestComposer(pages, widgets, nil)
	data, err := c.GetPage(context.Background(), page.ID.String(), refTime)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}

	got := data["widgets"].([]map[string]any)
	if len(got) != 2 {
		t.Fatalf("active widget count = %d, want 2", len(got))
	}
	// List order preserved among survivors.
	if got[0]["name"] != "no time limit" || got[1]["name"] != "current" {
		t.Errorf("widget order = %v, %v", got[0]["name"], got[1]["name"])
	}
}

func TestGetPageBySlugAndNotFound(t *testing.T) {
	page := &models.Page{ID: uuid.New(), Name: "Shows"}
	pages := &fakePages{
		byID:   map[uuid.UUID]*models.Page{page.ID: page},
		bySlug: map[string]*models.Page{"shows": page},
	}
	c := newTestComposer(pages, nil, nil)

	if _, err := c.GetPage(context.Background(), "shows", refTime); err != nil {
		t.Fatalf("GetPage by slug: %v", err)
	}
	if _, err := c.GetPage(context.Background(), "nope", refTime); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing slug err = %v, want ErrNotFound", err)
	}
	if _, err := c.GetPage(context.Background(), uuid.NewString(), refTime); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id err = %v, want ErrNotFound", err)
	}
}

func TestPageDataColorKeys(t *testing.T) {
	color := "#112233"
	page := &models.Page{ID: uuid.New(), Name: "Styled", TextColor: &color}
	c := newTestComposer(nil, nil, nil)

	data, err := c.PageData(context.Background(), page, refTime)
	if err != nil {
		t.Fatalf("PageData: %v", err)
	}
	if data["text_color"] != color {
		t.Errorf("text_color = %v", data["text_color"])
	}
	// Unset colors are present as explicit nulls.
	if v, ok := data["button_color"]; !ok || v != nil {
		t.Errorf("button_color = %v (present %v), want nil present", v, ok)
	}
	bg := data["background"].(map[string]any)
	if bg["type"] != "solid_color" {
		t.Errorf("background type = %v", bg["type"])
	}
}

func TestBannerLinkResolution(t *testing.T) {
	pageID := uuid.New()
	c := newTestComposer(nil, nil, nil)

	linked := &models.Widget{
		ID:   uuid.New(),
		Kind: models.WidgetBanner,
		Name: "linked",
		Variant: &models.BannerVariant{
			ImageKey: "banners/a.png",
			Link:     &models.LinkRef{Kind: models.LinkPage, ID: pageID},
		},
	}
	data, err := c.WidgetData(context.Background(), linked, refTime)
	if err != nil {
		t.Fatalf("WidgetData: %v", err)
	}
	if data["type"] != "banner" {
		t.Errorf("type = %v", data["type"])
	}
	if data["page_path"] != "/pages/"+pageID.String()+".json" {
		t.Errorf("page_path = %v", data["page_path"])
	}
	img := data["image"].(map[string]any)
	if img["url"] != "/media/banners/a.png" {
		t.Errorf("image url = %v", img["url"])
	}

	// No link: the key is absent entirely, not null.
	bare := &models.Widget{
		ID:      uuid.New(),
		Kind:    models.WidgetBanner,
		Name:    "bare",
		Variant: &models.BannerVariant{ImageKey: "banners/b.png"},
	}
	data, err = c.WidgetData(context.Background(), bare, refTime)
	if err != nil {
		t.Fatalf("WidgetData: %v", err)
	}
	if _, ok := data["page_path"]; ok {
		t.Error("unlinked banner should have no page_path key")
	}
}

func TestCarouselItemWindows(t *testing.T) {
	eventID := uuid.New()
	w := &models.Widget{
		ID:   uuid.New(),
		Kind: models.WidgetImageCarousel,
		Name: "carousel",
		Variant: &models.CarouselVariant{Items: []models.CarouselItem{
			{
				ImageKey: "c/live.png",
				Link:     &models.LinkRef{Kind: models.LinkEvent, ID: eventID},
			},
			{
				ImageKey:  "c/expired.png",
				Link:      &models.LinkRef{Kind: models.LinkEvent, ID: eventID},
				EndDate:   timePtr(refTime.Add(-time.Hour)),
				StartDate: timePtr(refTime.Add(-2 * time.Hour)),
			},
		}},
	}

	c := newTestComposer(nil, nil, nil)
	data, err := c.WidgetData(context.Background(), w, refTime)
	if err != nil {
		t.Fatalf("WidgetData: %v", err)
	}
	images := data["images"].([]map[string]any)
	if len(images) != 1 {
		t.Fatalf("active image count = %d, want 1", len(images))
	}
	if images[0]["path"] != "/events/"+eventID.String()+".json" {
		t.Errorf("item path = %v", images[0]["path"])
	}
}

func TestEventsWidgetSelection(t *testing.T) {
	catalog := &fakeCatalog{
		events: map[uuid.UUID]*models.Event{},
		people: map[uuid.UUID]*models.Person{},
		teams:  map[uuid.UUID]*models.HouseTeam{},
		class:  map[uuid.UUID]*models.ApeClass{},
	}
	mk := func(name string, start time.Time) *models.Event {
		e := &models.Event{ID: uuid.New(), Name: name, StartTime: timePtr(start)}
		catalog.events[e.ID] = e
		return e
	}
	inTwoDays := mk("in two days", refTime.AddDate(0, 0, 2))
	inSixDays := mk("in six days", refTime.AddDate(0, 0, 6))
	past := mk("past", refTime.AddDate(0, 0, -2))

	c := newTestComposer(nil, nil, catalog)
	ctx := context.Background()

	itemNames := func(v *models.EventsVariant) []string {
		w := &models.Widget{ID: uuid.New(), Kind: models.WidgetEvents, Name: "e", Variant: v}
		data, err := c.WidgetData(ctx, w, refTime)
		if err != nil {
			t.Fatalf("WidgetData: %v", err)
		}
		items := data["items"].([]map[string]any)
		names := make([]string, len(items))
		for i, item := range items {
			names[i] = item["name"].(string)
		}
		return names
	}

	// Upcoming with a 7-day window sees both future events.
	names := itemNames(&models.EventsVariant{DisplayType: models.DisplayGallery, UpcomingOnly: true, UpcomingWindowDays: intPtr(7)})
	if len(names) != 2 {
		t.Errorf("7-day window items = %v, want 2", names)
	}

	// A 3-day window drops the later one.
	names = itemNames(&models.EventsVariant{DisplayType: models.DisplayGallery, UpcomingOnly: true, UpcomingWindowDays: intPtr(3)})
	if len(names) != 1 || names[0] != "in two days" {
		t.Errorf("3-day window items = %v", names)
	}

	// Hand-picked members are exclusive with the computed query: the past
	// event shows because it was picked, and nothing else joins it.
	names = itemNames(&models.EventsVariant{
		DisplayType:  models.DisplayGallery,
		UpcomingOnly: true,
		EventIDs:     []uuid.UUID{past.ID, inTwoDays.ID},
	})
	if len(names) != 2 || names[0] != "past" || names[1] != "in two days" {
		t.Errorf("hand-picked items = %v", names)
	}

	// Duplicated picks are listed once.
	names = itemNames(&models.EventsVariant{
		DisplayType: models.DisplayGallery,
		EventIDs:    []uuid.UUID{inSixDays.ID, inSixDays.ID},
	})
	if len(names) != 1 {
		t.Errorf("deduplicated items = %v", names)
	}
}

func TestPeopleWidgetSources(t *testing.T) {
	teamID := uuid.New()
	catalog := &fakeCatalog{
		events: map[uuid.UUID]*models.Event{},
		people: map[uuid.UUID]*models.Person{},
		teams:  map[uuid.UUID]*models.HouseTeam{teamID: {ID: teamID, Name: "The Regulars"}},
		class:  map[uuid.UUID]*models.ApeClass{},
	}
	onTeam := &models.Person{ID: uuid.New(), FirstName: "Team", LastName: "Member", Active: true, HouseTeamIDs: []uuid.UUID{teamID}}
	solo := &models.Person{ID: uuid.New(), FirstName: "Solo", LastName: "Act", Active: true}
	gone := &models.Person{ID: uuid.New(), FirstName: "Gone", LastName: "Inactive", Active: false}
	for _, p := range []*models.Person{onTeam, solo, gone} {
		catalog.people[p.ID] = p
	}

	c := newTestComposer(nil, nil, catalog)
	ctx := context.Background()

	run := func(v *models.PeopleVariant) []map[string]any {
		w := &models.Widget{ID: uuid.New(), Kind: models.WidgetPeople, Name: "p", Variant: v}
		data, err := c.WidgetData(ctx, w, refTime)
		if err != nil {
			t.Fatalf("WidgetData: %v", err)
		}
		return data["items"].([]map[string]any)
	}

	// Source team wins over everything else.
	items := run(&models.PeopleVariant{DisplayType: models.DisplayRowFocus, SourceHouseTeamID: &teamID, PersonIDs: []uuid.UUID{solo.ID}})
	if len(items) != 1 || items[0]["name"] != "Team Member" {
		t.Errorf("team-sourced items = %v", items)
	}

	// No team, no picks: all active people, inactive excluded.
	items = run(&models.PeopleVariant{DisplayType: models.DisplayGallery})
	if len(items) != 2 {
		t.Errorf("default items = %v, want 2 active people", items)
	}
	for _, item := range items {
		if item["name"] == "Gone Inactive" {
			t.Error("inactive person listed")
		}
	}
}

func TestFocusWidgetNesting(t *testing.T) {
	event := &models.Event{
		ID:          uuid.New(),
		Name:        "Big Show",
		StartTime:   timePtr(refTime.Add(2 * time.Hour)),
		MaxTickets:  intPtr(50),
		TicketsSold: 20,
	}
	catalog := &fakeCatalog{
		events: map[uuid.UUID]*models.Event{event.ID: event},
		people: map[uuid.UUID]*models.Person{},
		teams:  map[uuid.UUID]*models.HouseTeam{},
		class:  map[uuid.UUID]*models.ApeClass{},
	}
	c := newTestComposer(nil, nil, catalog)

	w := &models.Widget{
		ID:      uuid.New(),
		Kind:    models.WidgetEventFocus,
		Name:    "focus",
		Variant: &models.EventFocusVariant{EventID: &event.ID},
	}
	data, err := c.WidgetData(context.Background(), w, refTime)
	if err != nil {
		t.Fatalf("WidgetData: %v", err)
	}
	nested := data["event"].(map[string]any)
	if nested["name"] != "Big Show" {
		t.Errorf("nested name = %v", nested["name"])
	}
	if nested["tickets_left"] != 30 {
		t.Errorf("tickets_left = %v", nested["tickets_left"])
	}
	if nested["event_day"] != "Tonight" {
		t.Errorf("event_day = %v", nested["event_day"])
	}

	// Unset focus target: only the base keys, no event nesting.
	empty := &models.Widget{
		ID:      uuid.New(),
		Kind:    models.WidgetEventFocus,
		Name:    "empty focus",
		Variant: &models.EventFocusVariant{},
	}
	data, err = c.WidgetData(context.Background(), empty, refTime)
	if err != nil {
		t.Fatalf("WidgetData: %v", err)
	}
	if _, ok := data["event"]; ok {
		t.Error("unset focus should have no event key")
	}
}

func TestHouseTeamDataRosterDoesNotRecurse(t *testing.T) {
	teamID := uuid.New()
	team := &models.HouseTeam{ID: teamID, Name: "The Regulars"}
	member := &models.Person{ID: uuid.New(), FirstName: "On", LastName: "Team", Active: true, HouseTeamIDs: []uuid.UUID{teamID}}
	catalog := &fakeCatalog{
		events: map[uuid.UUID]*models.Event{},
		people: map[uuid.UUID]*models.Person{member.ID: member},
		teams:  map[uuid.UUID]*models.HouseTeam{teamID: team},
		class:  map[uuid.UUID]*models.ApeClass{},
	}
	c := newTestComposer(nil, nil, catalog)

	data, err := c.GetHouseTeam(context.Background(), teamID, refTime)
	if err != nil {
		t.Fatalf("GetHouseTeam: %v", err)
	}
	performers := data["performers"].([]map[string]any)
	if len(performers) != 1 {
		t.Fatalf("performers = %v", performers)
	}
	if _, ok := performers[0]["house_teams"]; ok {
		t.Error("roster member projection should not nest house teams again")
	}
}

func TestUnknownVariantIsDataIntegrityFailure(t *testing.T) {
	c := newTestComposer(nil, nil, nil)
	w := &models.Widget{ID: uuid.New(), Kind: "mystery", Name: "bad"}
	if _, err := c.WidgetData(context.Background(), w, refTime); !errors.Is(err, models.ErrDataIntegrity) {
		t.Errorf("err = %v, want ErrDataIntegrity", err)
	}
}

func TestVideosWidgetSelection(t *testing.T) {
	widgets := &fakeWidgets{byID: map[uuid.UUID]*models.Widget{}, forPage: map[uuid.UUID][]models.Widget{}}
	mk := func(name, key string, start, end *time.Time) *models.Widget {
		w := &models.Widget{
			ID:        uuid.New(),
			Kind:      models.WidgetVideo,
			Name:      name,
			StartDate: start,
			EndDate:   end,
			Variant:   &models.VideoVariant{VideoKey: key, Description: name},
		}
		widgets.byID[w.ID] = w
		return w
	}
	alpha := mk("alpha reel", "alpha.mp4", nil, nil)
	mk("bravo reel", "bravo.mp4", nil, nil)
	expired := mk("expired reel", "old.mp4", nil, timePtr(refTime.AddDate(0, 0, -1)))

	c := newTestComposer(nil, widgets, nil)
	ctx := context.Background()

	itemNames := func(v *models.VideosVariant) []string {
		w := &models.Widget{ID: uuid.New(), Kind: models.WidgetVideos, Name: "v", Variant: v}
		data, err := c.WidgetData(ctx, w, refTime)
		if err != nil {
			t.Fatalf("WidgetData: %v", err)
		}
		items := data["items"].([]map[string]any)
		names := make([]string, len(items))
		for i, item := range items {
			names[i] = item["name"].(string)
		}
		return names
	}

	// No hand-picked members: every live video widget is listed; the one
	// whose window has closed is not.
	names := itemNames(&models.VideosVariant{DisplayType: models.DisplayGallery})
	if len(names) != 2 || names[0] != "alpha reel" || names[1] != "bravo reel" {
		t.Errorf("default set = %v, want [alpha reel bravo reel]", names)
	}

	// Hand-picked members are exclusive with the default set, in pick
	// order, and the activation window does not apply to explicit picks.
	names = itemNames(&models.VideosVariant{
		DisplayType:    models.DisplayGallery,
		VideoWidgetIDs: []uuid.UUID{expired.ID, alpha.ID},
	})
	if len(names) != 2 || names[0] != "expired reel" || names[1] != "alpha reel" {
		t.Errorf("hand-picked items = %v", names)
	}
}

func TestEventDataUncappedTickets(t *testing.T) {
	event := &models.Event{
		ID:        uuid.New(),
		Name:      "Open House",
		StartTime: timePtr(refTime.Add(time.Hour)),
	}
	catalog := &fakeCatalog{
		events: map[uuid.UUID]*models.Event{event.ID: event},
		people: map[uuid.UUID]*models.Person{},
		teams:  map[uuid.UUID]*models.HouseTeam{},
		class:  map[uuid.UUID]*models.ApeClass{},
	}
	c := newTestComposer(nil, nil, catalog)

	data, err := c.GetEvent(context.Background(), event.ID, refTime)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	// No ticket cap: the event is not sold out, so the remaining-tickets
	// key stays out of the projection entirely.
	if _, ok := data["tickets_left"]; ok {
		t.Errorf("uncapped event projected tickets_left = %v", data["tickets_left"])
	}
}
