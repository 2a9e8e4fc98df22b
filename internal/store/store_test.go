// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Integration tests against a real PostgreSQL. Tests skip when the
// database is unavailable.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"marquee/internal/database"
	"marquee/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "marquee") + ":" +
		envOr("POSTGRES_PASSWORD", "changeme") + "@" +
		envOr("POSTGRES_HOST", "localhost") + ":" +
		envOr("POSTGRES_PORT", "5432") + "/" +
		envOr("POSTGRES_DB", "marquee") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

func makePage(t *testing.T, ps *PageStore, name string, slug *string, draft bool) *models.Page {
	t.Helper()
	p, err := ps.Create(context.Background(), &models.Page{Name: name, Slug: slug, Draft: draft})
	if err != nil {
		t.Fatalf("create page %q: %v", name, err)
	}
	t.Cleanup(func() { ps.Delete(context.Background(), p.ID) })
	return p
}

func makeTextWidget(t *testing.T, ws *WidgetStore, name string) *models.Widget {
	t.Helper()
	w, err := ws.Create(context.Background(), &models.Widget{
		Kind:    models.WidgetText,
		Name:    name,
		Variant: &models.TextVariant{Content: "hello"},
	})
	if err != nil {
		t.Fatalf("create widget %q: %v", name, err)
	}
	t.Cleanup(func() { ws.Delete(context.Background(), w.ID) })
	return w
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestPageSlugTakeover(t *testing.T) {
	db := testDB(t)
	ps := NewPageStore(db)
	ctx := context.Background()

	slug := strp("talent")
	first := makePage(t, ps, "Talent v1", slug, false)
	second := makePage(t, ps, "Talent v2", slug, false)

	got, err := ps.FindBySlug(ctx, "talent")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if got == nil || got.ID != second.ID {
		t.Fatalf("slug should belong to the newest live page")
	}

	old, err := ps.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if old.Slug != nil {
		t.Errorf("previous holder should have lost the slug, still has %q", *old.Slug)
	}
}

func TestPageDraftDoesNotTakeSlug(t *testing.T) {
	db := testDB(t)
	ps := NewPageStore(db)
	ctx := context.Background()

	slug := strp("watch")
	live := makePage(t, ps, "Watch", slug, false)
	makePage(t, ps, "Watch draft", slug, true)

	got, err := ps.FindBySlug(ctx, "watch")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if got == nil || got.ID != live.ID {
		t.Fatal("draft page should not displace the live slug holder")
	}
}

func TestAddWidgetOrdering(t *testing.T) {
	db := testDB(t)
	ps := NewPageStore(db)
	ws := NewWidgetStore(db)
	ctx := context.Background()

	page := makePage(t, ps, "Ordering", nil, true)
	w1 := makeTextWidget(t, ws, "first")
	w2 := makeTextWidget(t, ws, "second")
	w3 := makeTextWidget(t, ws, "third")

	// No explicit order: appended after the current max.
	j1, err := ps.AddWidget(ctx, page.ID, w1.ID, nil)
	if err != nil {
		t.Fatalf("AddWidget w1: %v", err)
	}
	if j1.SortOrder != 0 {
		t.Errorf("first widget sort order = %d, want 0", j1.SortOrder)
	}
	j2, err := ps.AddWidget(ctx, page.ID, w2.ID, nil)
	if err != nil {
		t.Fatalf("AddWidget w2: %v", err)
	}
	if j2.SortOrder != 1 {
		t.Errorf("second widget sort order = %d, want 1", j2.SortOrder)
	}

	// Explicit collision: bumped past the max, not displacing w1.
	j3, err := ps.AddWidget(ctx, page.ID, w3.ID, intp(0))
	if err != nil {
		t.Fatalf("AddWidget w3: %v", err)
	}
	if j3.SortOrder != 2 {
		t.Errorf("colliding widget sort order = %d, want 2", j3.SortOrder)
	}

	// Same widget twice on one page is rejected.
	if _, err := ps.AddWidget(ctx, page.ID, w1.ID, nil); !errors.Is(err, ErrWidgetAlreadyOnPage) {
		t.Errorf("duplicate add error = %v, want ErrWidgetAlreadyOnPage", err)
	}
}

func TestReorder(t *testing.T) {
	db := testDB(t)
	ps := NewPageStore(db)
	ws := NewWidgetStore(db)
	ctx := context.Background()

	page := makePage(t, ps, "Reorder", nil, true)
	w1 := makeTextWidget(t, ws, "a")
	w2 := makeTextWidget(t, ws, "b")
	for _, w := range []*models.Widget{w1, w2} {
		if _, err := ps.AddWidget(ctx, page.ID, w.ID, nil); err != nil {
			t.Fatalf("AddWidget: %v", err)
		}
	}

	if err := ps.Reorder(ctx, page.ID, []uuid.UUID{w2.ID, w1.ID}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	rows, err := ps.JoinRows(ctx, page.ID)
	if err != nil {
		t.Fatalf("JoinRows: %v", err)
	}
	if len(rows) != 2 || rows[0].WidgetID != w2.ID || rows[1].WidgetID != w1.ID {
		t.Errorf("reorder did not swap widgets: %+v", rows)
	}
}

func TestWidgetRoundTrip(t *testing.T) {
	db := testDB(t)
	ws := NewWidgetStore(db)
	ctx := context.Background()

	end := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	created, err := ws.Create(ctx, &models.Widget{
		Kind:    models.WidgetBanner,
		Name:    "promo banner",
		Width:   intp(12),
		EndDate: &end,
		Variant: &models.BannerVariant{ImageKey: "banners/promo.png"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { ws.Delete(ctx, created.ID) })

	got, err := ws.ResolveByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("ResolveByID: %v", err)
	}
	if got == nil {
		t.Fatal("widget not found after create")
	}
	if got.Kind != models.WidgetBanner || got.Width == nil || *got.Width != 12 {
		t.Errorf("round trip lost base fields: %+v", got)
	}
	banner, ok := got.Variant.(*models.BannerVariant)
	if !ok {
		t.Fatalf("variant type = %T, want *BannerVariant", got.Variant)
	}
	if banner.ImageKey != "banners/promo.png" {
		t.Errorf("ImageKey = %q", banner.ImageKey)
	}
	if banner.Link != nil {
		t.Errorf("unset link should round-trip as nil, got %+v", banner.Link)
	}
}

func TestResolveByIDMissing(t *testing.T) {
	db := testDB(t)
	ws := NewWidgetStore(db)

	got, err := ws.ResolveByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ResolveByID: %v", err)
	}
	if got != nil {
		t.Errorf("unknown id should yield nil, got %+v", got)
	}
}

func TestWidgetMembers(t *testing.T) {
	db := testDB(t)
	ws := NewWidgetStore(db)
	cs := NewCatalogStore(db)
	ctx := context.Background()

	e1, err := cs.CreateEvent(ctx, &models.Event{Name: "Show A"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	t.Cleanup(func() { cs.DeleteEvent(ctx, e1.ID) })
	e2, err := cs.CreateEvent(ctx, &models.Event{Name: "Show B"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	t.Cleanup(func() { cs.DeleteEvent(ctx, e2.ID) })

	w, err := ws.Create(ctx, &models.Widget{
		Kind:    models.WidgetEvents,
		Name:    "picked shows",
		Variant: &models.EventsVariant{DisplayType: models.DisplayGallery},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { ws.Delete(ctx, w.ID) })

	// Membership order is the hand-picked order, not insertion id order.
	if err := ws.SetMembers(ctx, w.ID, models.WidgetEvents, []uuid.UUID{e2.ID, e1.ID}); err != nil {
		t.Fatalf("SetMembers: %v", err)
	}

	got, err := ws.ResolveByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("ResolveByID: %v", err)
	}
	ev, ok := got.Variant.(*models.EventsVariant)
	if !ok {
		t.Fatalf("variant type = %T", got.Variant)
	}
	if len(ev.EventIDs) != 2 || ev.EventIDs[0] != e2.ID || ev.EventIDs[1] != e1.ID {
		t.Errorf("member ids = %v, want [%s %s]", ev.EventIDs, e2.ID, e1.ID)
	}
}

func TestWidgetMemberIntegrity(t *testing.T) {
	db := testDB(t)
	ws := NewWidgetStore(db)
	cs := NewCatalogStore(db)
	ctx := context.Background()

	e, err := cs.CreateEvent(ctx, &models.Event{Name: "Integrity show"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	t.Cleanup(func() { cs.DeleteEvent(ctx, e.ID) })
	p, err := cs.CreatePerson(ctx, &models.Person{FirstName: "Ada", LastName: "L", Active: true})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	t.Cleanup(func() { db.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, p.ID) })

	w, err := ws.Create(ctx, &models.Widget{
		Kind:    models.WidgetEvents,
		Name:    "corrupt members",
		Variant: &models.EventsVariant{DisplayType: models.DisplayGallery},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { ws.Delete(ctx, w.ID) })

	// Bypass the store to produce a row referencing two entities at once.
	_, err = db.ExecContext(ctx, `
		INSERT INTO widget_members (widget_id, event_id, person_id, sort_order)
		VALUES ($1, $2, $3, 0)
	`, w.ID, e.ID, p.ID)
	if err != nil {
		t.Fatalf("insert corrupt member: %v", err)
	}

	if _, err := ws.ResolveByID(ctx, w.ID); !errors.Is(err, models.ErrDataIntegrity) {
		t.Errorf("resolving a corrupt member row: err = %v, want ErrDataIntegrity", err)
	}
}

func TestUpcomingEventsWindow(t *testing.T) {
	db := testDB(t)
	cs := NewCatalogStore(db)
	ctx := context.Background()
	now := time.Now()

	mk := func(name string, start time.Time) *models.Event {
		t.Helper()
		e, err := cs.CreateEvent(ctx, &models.Event{Name: name, StartTime: &start})
		if err != nil {
			t.Fatalf("CreateEvent %q: %v", name, err)
		}
		t.Cleanup(func() { cs.DeleteEvent(ctx, e.ID) })
		return e
	}
	past := mk("yesterday", now.AddDate(0, 0, -1))
	soon := mk("in two days", now.AddDate(0, 0, 2))
	later := mk("next week", now.AddDate(0, 0, 6))

	inWindow := func(events []models.Event, id uuid.UUID) bool {
		for _, e := range events {
			if e.ID == id {
				return true
			}
		}
		return false
	}

	all, err := cs.UpcomingEvents(ctx, now, nil)
	if err != nil {
		t.Fatalf("UpcomingEvents: %v", err)
	}
	if inWindow(all, past.ID) {
		t.Error("past event listed as upcoming")
	}
	if !inWindow(all, soon.ID) || !inWindow(all, later.ID) {
		t.Error("future events missing from unbounded listing")
	}

	narrow, err := cs.UpcomingEvents(ctx, now, intp(3))
	if err != nil {
		t.Fatalf("UpcomingEvents windowed: %v", err)
	}
	if !inWindow(narrow, soon.ID) {
		t.Error("event inside window missing")
	}
	if inWindow(narrow, later.ID) {
		t.Error("event beyond window listed")
	}
}

func TestEventsByIDsPreservesOrder(t *testing.T) {
	db := testDB(t)
	cs := NewCatalogStore(db)
	ctx := context.Background()

	a, _ := cs.CreateEvent(ctx, &models.Event{Name: "A"})
	b, _ := cs.CreateEvent(ctx, &models.Event{Name: "B"})
	if a == nil || b == nil {
		t.Fatal("event creation failed")
	}
	t.Cleanup(func() {
		cs.DeleteEvent(ctx, a.ID)
		cs.DeleteEvent(ctx, b.ID)
	})

	got, err := cs.EventsByIDs(ctx, []uuid.UUID{b.ID, uuid.New(), a.ID})
	if err != nil {
		t.Fatalf("EventsByIDs: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Errorf("order not preserved / missing id not dropped: %+v", got)
	}
}

func TestPeopleSoftDelete(t *testing.T) {
	db := testDB(t)
	cs := NewCatalogStore(db)
	ctx := context.Background()

	p, err := cs.CreatePerson(ctx, &models.Person{FirstName: "Grace", LastName: "H", Active: true})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	t.Cleanup(func() { db.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, p.ID) })

	if err := cs.DeactivatePerson(ctx, p.ID); err != nil {
		t.Fatalf("DeactivatePerson: %v", err)
	}

	active, err := cs.People(ctx, false)
	if err != nil {
		t.Fatalf("People: %v", err)
	}
	for _, got := range active {
		if got.ID == p.ID {
			t.Error("deactivated person still in active listing")
		}
	}

	// Direct lookup still works so existing references keep resolving.
	got, err := cs.PersonByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("PersonByID: %v", err)
	}
	if got == nil || got.Active {
		t.Errorf("PersonByID after deactivate = %+v", got)
	}
}
