// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable;
// the projection cache runs against Valkey when reachable and as a nil
// no-op otherwise.
package handlers

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"marquee/internal/cache"
	"marquee/internal/compose"
	"marquee/internal/database"
	"marquee/internal/models"
	"marquee/internal/render"
	"marquee/internal/storage"
	"marquee/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "marquee")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "marquee")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds the dependencies for handler integration tests.
type testEnv struct {
	DB       *sql.DB
	Pages    *store.PageStore
	Widgets  *store.WidgetStore
	Catalog  *store.CatalogStore
	Composer *compose.Composer
	Admin    *Admin
	Public   *Public
}

// newTestEnv wires real stores against the test database. The projection
// cache and S3 client stay nil so tests exercise the fail-open paths.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	pages := store.NewPageStore(db)
	widgets := store.NewWidgetStore(db)
	catalog := store.NewCatalogStore(db)
	media := storage.NewResolver(nil, "http://media.test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	composer := compose.NewComposer(pages, widgets, catalog, media, logger)

	var projCache *cache.ProjectionCache

	return &testEnv{
		DB:       db,
		Pages:    pages,
		Widgets:  widgets,
		Catalog:  catalog,
		Composer: composer,
		Admin:    NewAdmin(pages, widgets, catalog, projCache, nil),
		Public:   NewPublic(composer, renderer, projCache),
	}
}

// withChiURLParam adds a chi URL parameter to a request. Calls chain:
// an existing route context is extended rather than replaced.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// makeTestPage creates a live page and registers cleanup.
func makeTestPage(t *testing.T, env *testEnv, name string) *models.Page {
	t.Helper()
	ctx := context.Background()
	page, err := env.Pages.Create(ctx, &models.Page{Name: name})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	t.Cleanup(func() { env.Pages.Delete(ctx, page.ID) })
	return page
}

// makeTestTextWidget creates a text widget and registers cleanup.
func makeTestTextWidget(t *testing.T, env *testEnv, name, content string) *models.Widget {
	t.Helper()
	ctx := context.Background()
	widget, err := env.Widgets.Create(ctx, &models.Widget{
		Kind:    models.WidgetText,
		Name:    name,
		Variant: &models.TextVariant{Content: content},
	})
	if err != nil {
		t.Fatalf("create widget: %v", err)
	}
	t.Cleanup(func() { env.Widgets.Delete(ctx, widget.ID) })
	return widget
}

// makeTestEvent creates an event starting at the given time and registers
// cleanup.
func makeTestEvent(t *testing.T, env *testEnv, name string, start time.Time) *models.Event {
	t.Helper()
	ctx := context.Background()
	event, err := env.Catalog.CreateEvent(ctx, &models.Event{
		Name:             name,
		Bio:              "a show",
		StartTime:        &start,
		TicketPriceCents: 1000,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	t.Cleanup(func() { env.Catalog.DeleteEvent(ctx, event.ID) })
	return event
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", s, err)
	}
	return id
}
