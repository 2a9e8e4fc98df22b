// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"marquee/internal/models"
)

// ErrWidgetAlreadyOnPage is returned when a widget is added to a page
// that already carries it. A widget appears at most once per page.
var ErrWidgetAlreadyOnPage = errors.New("widget already on page")

const pageColumns = `
	id, name, slug, draft, created, last_modified,
	background_gradient, background_start_color, background_end_color,
	text_color, button_color, button_text_color, nav_bar_color, nav_bar_text_color`

// PageStore handles page persistence, including the page-widget join
// table and its ordering invariants.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

func scanPage(s interface{ Scan(...any) error }) (*models.Page, error) {
	p := &models.Page{}
	var slug, bgStart, bgEnd, text, button, buttonText, nav, navText sql.NullString
	err := s.Scan(
		&p.ID, &p.Name, &slug, &p.Draft, &p.Created, &p.LastModified,
		&p.BackgroundGradient, &bgStart, &bgEnd,
		&text, &button, &buttonText, &nav, &navText,
	)
	if err != nil {
		return nil, err
	}
	p.Slug = strPtrOf(slug)
	p.BackgroundStartColor = strPtrOf(bgStart)
	p.BackgroundEndColor = strPtrOf(bgEnd)
	p.TextColor = strPtrOf(text)
	p.ButtonColor = strPtrOf(button)
	p.ButtonTextColor = strPtrOf(buttonText)
	p.NavBarColor = strPtrOf(nav)
	p.NavBarTextColor = strPtrOf(navText)
	return p, nil
}

// FindByID retrieves a page by its UUID, drafts included. Returns nil if
// not found.
func (s *PageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves the non-draft page holding a slug. Returns nil if
// no live page holds it.
func (s *PageStore) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = $1 AND draft = false`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// List returns all pages ordered by name, drafts included.
func (s *PageStore) List(ctx context.Context) ([]models.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// Create inserts a page. When the page is live and carries a slug, any
// previous live holder of that slug loses it in the same transaction.
func (s *PageStore) Create(ctx context.Context, p *models.Page) (*models.Page, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create page begin: %w", err)
	}
	defer tx.Rollback()

	if err := releaseSlug(ctx, tx, p.Slug, p.Draft, uuid.Nil); err != nil {
		return nil, err
	}

	created, err := scanPage(tx.QueryRowContext(ctx, `
		INSERT INTO pages (name, slug, draft,
			background_gradient, background_start_color, background_end_color,
			text_color, button_color, button_text_color, nav_bar_color, nav_bar_text_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+pageColumns,
		p.Name, p.Slug, p.Draft,
		p.BackgroundGradient, p.BackgroundStartColor, p.BackgroundEndColor,
		p.TextColor, p.ButtonColor, p.ButtonTextColor, p.NavBarColor, p.NavBarTextColor,
	))
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create page commit: %w", err)
	}
	return created, nil
}

// Update rewrites a page's attributes, applying the slug-uniqueness rule
// before the write.
func (s *PageStore) Update(ctx context.Context, p *models.Page) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update page begin: %w", err)
	}
	defer tx.Rollback()

	if err := releaseSlug(ctx, tx, p.Slug, p.Draft, p.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE pages SET
			name = $1, slug = $2, draft = $3,
			background_gradient = $4, background_start_color = $5, background_end_color = $6,
			text_color = $7, button_color = $8, button_text_color = $9,
			nav_bar_color = $10, nav_bar_text_color = $11,
			last_modified = now()
		WHERE id = $12
	`, p.Name, p.Slug, p.Draft,
		p.BackgroundGradient, p.BackgroundStartColor, p.BackgroundEndColor,
		p.TextColor, p.ButtonColor, p.ButtonTextColor,
		p.NavBarColor, p.NavBarTextColor,
		p.ID)
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update page commit: %w", err)
	}
	return nil
}

// releaseSlug clears the slug from any other live page before a live page
// takes it. Called inside the caller's transaction.
func releaseSlug(ctx context.Context, tx *sql.Tx, slug *string, draft bool, selfID uuid.UUID) error {
	if slug == nil || *slug == "" || draft {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE pages SET slug = NULL, last_modified = now()
		WHERE slug = $1 AND draft = false AND id <> $2
	`, *slug, selfID)
	if err != nil {
		return fmt.Errorf("release slug %q: %w", *slug, err)
	}
	return nil
}

// Delete removes a page. The normal flow never calls this; pages are
// retired by setting the draft flag instead.
func (s *PageStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}

// AddWidget creates the page-widget join row. When no sort order is
// requested, the widget lands after the page's current maximum. A
// requested order that collides with an existing row is bumped past the
// maximum instead of displacing it. The check-then-bump runs inside one
// transaction; page editing is single-admin in practice, so no stronger
// guard is taken against concurrent writers.
func (s *PageStore) AddWidget(ctx context.Context, pageID, widgetID uuid.UUID, sortOrder *int) (*models.PageToWidget, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("add widget begin: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM page_to_widgets WHERE page_id = $1 AND widget_id = $2)
	`, pageID, widgetID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("add widget check: %w", err)
	}
	if exists {
		return nil, ErrWidgetAlreadyOnPage
	}

	var maxOrder sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT MAX(sort_order) FROM page_to_widgets WHERE page_id = $1
	`, pageID).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("add widget max order: %w", err)
	}

	order := 0
	switch {
	case sortOrder == nil:
		if maxOrder.Valid {
			order = int(maxOrder.Int64) + 1
		}
	default:
		order = *sortOrder
		var taken bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM page_to_widgets WHERE page_id = $1 AND sort_order = $2)
		`, pageID, order).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("add widget order check: %w", err)
		}
		if taken {
			order = int(maxOrder.Int64) + 1
		}
	}

	ptw := &models.PageToWidget{PageID: pageID, WidgetID: widgetID, SortOrder: order}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO page_to_widgets (page_id, widget_id, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id
	`, pageID, widgetID, order).Scan(&ptw.ID)
	if err != nil {
		return nil, fmt.Errorf("add widget insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("add widget commit: %w", err)
	}
	return ptw, nil
}

// RemoveWidget deletes the join row binding a widget to a page. The
// widget itself survives; it may still sit on other pages.
func (s *PageStore) RemoveWidget(ctx context.Context, pageID, widgetID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM page_to_widgets WHERE page_id = $1 AND widget_id = $2`,
		pageID, widgetID)
	if err != nil {
		return fmt.Errorf("remove widget: %w", err)
	}
	return nil
}

// Reorder rewrites the sort orders of a page's widgets to match the given
// id sequence. Ids not on the page are ignored.
func (s *PageStore) Reorder(ctx context.Context, pageID uuid.UUID, widgetIDs []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reorder begin: %w", err)
	}
	defer tx.Rollback()

	// Two passes: park every row out of range first so the rewrite never
	// trips over an existing order value.
	if _, err := tx.ExecContext(ctx, `
		UPDATE page_to_widgets SET sort_order = sort_order + 1000000 WHERE page_id = $1
	`, pageID); err != nil {
		return fmt.Errorf("reorder park: %w", err)
	}
	for i, widgetID := range widgetIDs {
		if _, err := tx.ExecContext(ctx, `
			UPDATE page_to_widgets SET sort_order = $1 WHERE page_id = $2 AND widget_id = $3
		`, i, pageID, widgetID); err != nil {
			return fmt.Errorf("reorder widget %s: %w", widgetID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reorder commit: %w", err)
	}
	return nil
}

// JoinRows returns a page's join rows in ascending sort order. Admin
// listings use this to show ordering alongside widget data.
func (s *PageStore) JoinRows(ctx context.Context, pageID uuid.UUID) ([]models.PageToWidget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, page_id, widget_id, sort_order
		FROM page_to_widgets
		WHERE page_id = $1
		ORDER BY sort_order
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("list join rows: %w", err)
	}
	defer rows.Close()

	var result []models.PageToWidget
	for rows.Next() {
		var ptw models.PageToWidget
		if err := rows.Scan(&ptw.ID, &ptw.PageID, &ptw.WidgetID, &ptw.SortOrder); err != nil {
			return nil, fmt.Errorf("scan join row: %w", err)
		}
		result = append(result, ptw)
	}
	return result, rows.Err()
}

func strPtrOf(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
