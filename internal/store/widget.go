// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Package store implements the persistence layer over PostgreSQL. Each
// entity gets its own store struct with hand-written SQL; lookups return
// (nil, nil) when no row exists.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"marquee/internal/models"
)

// widgetColumns is the full column list of the polymorphic widgets table,
// in scan order.
const widgetColumns = `
	id, kind, name, width, start_date, end_date, created, last_modified,
	content, text_color,
	image_key, audio_key, video_key, description,
	link_kind, link_id,
	display_type, upcoming_only, upcoming_window_days,
	class_type, only_open_registration, source_house_team_id,
	focus_event_id, focus_person_id, focus_ape_class_id, focus_house_team_id`

// WidgetStore handles widget persistence: the polymorphic widgets table,
// carousel items, and hand-picked group members.
type WidgetStore struct {
	db *sql.DB
}

// NewWidgetStore creates a new WidgetStore with the given database connection.
func NewWidgetStore(db *sql.DB) *WidgetStore {
	return &WidgetStore{db: db}
}

// widgetRow mirrors one widgets table row with every nullable variant
// column, before it is folded into the closed Variant type.
type widgetRow struct {
	id           uuid.UUID
	kind         string
	name         string
	width        sql.NullInt64
	startDate    sql.NullTime
	endDate      sql.NullTime
	created      time.Time
	lastModified time.Time

	content   sql.NullString
	textColor sql.NullString

	imageKey    sql.NullString
	audioKey    sql.NullString
	videoKey    sql.NullString
	description sql.NullString

	linkKind sql.NullString
	linkID   uuid.NullUUID

	displayType        sql.NullString
	upcomingOnly       bool
	upcomingWindowDays sql.NullInt64

	classType            sql.NullString
	onlyOpenRegistration bool
	sourceHouseTeamID    uuid.NullUUID

	focusEventID     uuid.NullUUID
	focusPersonID    uuid.NullUUID
	focusApeClassID  uuid.NullUUID
	focusHouseTeamID uuid.NullUUID
}

func (r *widgetRow) scan(s interface{ Scan(...any) error }) error {
	return s.Scan(
		&r.id, &r.kind, &r.name, &r.width, &r.startDate, &r.endDate, &r.created, &r.lastModified,
		&r.content, &r.textColor,
		&r.imageKey, &r.audioKey, &r.videoKey, &r.description,
		&r.linkKind, &r.linkID,
		&r.displayType, &r.upcomingOnly, &r.upcomingWindowDays,
		&r.classType, &r.onlyOpenRegistration, &r.sourceHouseTeamID,
		&r.focusEventID, &r.focusPersonID, &r.focusApeClassID, &r.focusHouseTeamID,
	)
}

// ResolveByID loads a widget known only by its generic identifier and
// resolves it to its concrete variant, including carousel items and
// hand-picked member ids where the kind carries them. Returns nil if no
// row exists.
func (s *WidgetStore) ResolveByID(ctx context.Context, id uuid.UUID) (*models.Widget, error) {
	var row widgetRow
	err := row.scan(s.db.QueryRowContext(ctx,
		`SELECT `+widgetColumns+` FROM widgets WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve widget by id: %w", err)
	}
	return s.buildWidget(ctx, &row)
}

// ListForPage loads all widgets associated with a page through the join
// table, in ascending sort order, each resolved to its concrete variant.
// Join rows whose widget was deleted concurrently are tolerated: the join
// query only ever yields surviving widgets.
func (s *WidgetStore) ListForPage(ctx context.Context, pageID uuid.UUID) ([]models.Widget, error) {
	prefixed := prefixColumns("w", widgetColumns)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixed+`
		FROM widgets w
		JOIN page_to_widgets ptw ON ptw.widget_id = w.id
		WHERE ptw.page_id = $1
		ORDER BY ptw.sort_order
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("list widgets for page: %w", err)
	}
	defer rows.Close()

	var result []models.Widget
	for rows.Next() {
		var row widgetRow
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("scan widget: %w", err)
		}
		w, err := s.buildWidget(ctx, &row)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

// ListByKind returns all widgets of one kind, ordered by name. Used by
// the videos group widget's computed default set and by admin listings.
func (s *WidgetStore) ListByKind(ctx context.Context, kind models.WidgetKind) ([]models.Widget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+widgetColumns+` FROM widgets WHERE kind = $1 ORDER BY name`, kind)
	if err != nil {
		return nil, fmt.Errorf("list widgets by kind: %w", err)
	}
	defer rows.Close()

	var result []models.Widget
	for rows.Next() {
		var row widgetRow
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("scan widget: %w", err)
		}
		w, err := s.buildWidget(ctx, &row)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

// buildWidget folds a scanned row into the closed sum type, fetching the
// kind's child records where needed.
func (s *WidgetStore) buildWidget(ctx context.Context, row *widgetRow) (*models.Widget, error) {
	w := &models.Widget{
		ID:           row.id,
		Kind:         models.WidgetKind(row.kind),
		Name:         row.name,
		Created:      row.created,
		LastModified: row.lastModified,
	}
	if row.width.Valid {
		width := int(row.width.Int64)
		w.Width = &width
	}
	if row.startDate.Valid {
		t := row.startDate.Time
		w.StartDate = &t
	}
	if row.endDate.Valid {
		t := row.endDate.Time
		w.EndDate = &t
	}

	switch w.Kind {
	case models.WidgetText:
		w.Variant = &models.TextVariant{
			Content:   row.content.String,
			TextColor: row.textColor.String,
		}
	case models.WidgetBanner:
		w.Variant = &models.BannerVariant{
			ImageKey: row.imageKey.String,
			Link:     linkRef(row.linkKind, row.linkID),
		}
	case models.WidgetImageCarousel:
		items, err := s.CarouselItems(ctx, row.id)
		if err != nil {
			return nil, err
		}
		w.Variant = &models.CarouselVariant{Items: items}
	case models.WidgetEvents:
		ids, err := s.memberIDs(ctx, row.id, "event_id")
		if err != nil {
			return nil, err
		}
		v := &models.EventsVariant{
			DisplayType:  row.displayType.String,
			UpcomingOnly: row.upcomingOnly,
			EventIDs:     ids,
		}
		if row.upcomingWindowDays.Valid {
			days := int(row.upcomingWindowDays.Int64)
			v.UpcomingWindowDays = &days
		}
		w.Variant = v
	case models.WidgetPeople:
		ids, err := s.memberIDs(ctx, row.id, "person_id")
		if err != nil {
			return nil, err
		}
		w.Variant = &models.PeopleVariant{
			DisplayType:       row.displayType.String,
			SourceHouseTeamID: nullableUUID(row.sourceHouseTeamID),
			PersonIDs:         ids,
		}
	case models.WidgetApeClasses:
		ids, err := s.memberIDs(ctx, row.id, "ape_class_id")
		if err != nil {
			return nil, err
		}
		w.Variant = &models.ApeClassesVariant{
			DisplayType:          row.displayType.String,
			ClassType:            row.classType.String,
			OnlyOpenRegistration: row.onlyOpenRegistration,
			ClassIDs:             ids,
		}
	case models.WidgetVideos:
		ids, err := s.memberIDs(ctx, row.id, "video_widget_id")
		if err != nil {
			return nil, err
		}
		w.Variant = &models.VideosVariant{
			DisplayType:    row.displayType.String,
			VideoWidgetIDs: ids,
		}
	case models.WidgetEventFocus:
		w.Variant = &models.EventFocusVariant{EventID: nullableUUID(row.focusEventID)}
	case models.WidgetPersonFocus:
		w.Variant = &models.PersonFocusVariant{PersonID: nullableUUID(row.focusPersonID)}
	case models.WidgetApeClassFocus:
		w.Variant = &models.ApeClassFocusVariant{ApeClassID: nullableUUID(row.focusApeClassID)}
	case models.WidgetHouseTeamFocus:
		w.Variant = &models.HouseTeamFocusVariant{HouseTeamID: nullableUUID(row.focusHouseTeamID)}
	case models.WidgetAudio:
		w.Variant = &models.AudioVariant{
			AudioKey:    row.audioKey.String,
			Description: row.description.String,
		}
	case models.WidgetVideo:
		w.Variant = &models.VideoVariant{
			VideoKey:    row.videoKey.String,
			Description: row.description.String,
		}
	default:
		return nil, fmt.Errorf("widget %s: unknown kind %q: %w", row.id, row.kind, models.ErrDataIntegrity)
	}

	return w, nil
}

// memberIDs returns the hand-picked member ids for a group widget in sort
// order, deduplicated. A member row must reference exactly the expected
// column and nothing else; anything different is a data-integrity failure.
func (s *WidgetStore) memberIDs(ctx context.Context, widgetID uuid.UUID, column string) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, person_id, ape_class_id, video_widget_id
		FROM widget_members
		WHERE widget_id = $1
		ORDER BY sort_order
	`, widgetID)
	if err != nil {
		return nil, fmt.Errorf("list widget members: %w", err)
	}
	defer rows.Close()

	var result []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for rows.Next() {
		var rowID uuid.UUID
		refs := map[string]*uuid.NullUUID{
			"event_id":        new(uuid.NullUUID),
			"person_id":       new(uuid.NullUUID),
			"ape_class_id":    new(uuid.NullUUID),
			"video_widget_id": new(uuid.NullUUID),
		}
		if err := rows.Scan(&rowID, refs["event_id"], refs["person_id"], refs["ape_class_id"], refs["video_widget_id"]); err != nil {
			return nil, fmt.Errorf("scan widget member: %w", err)
		}

		// Exactly one reference must be set, and it must match the
		// widget's kind.
		var set int
		for _, ref := range refs {
			if ref.Valid {
				set++
			}
		}
		if set != 1 || !refs[column].Valid {
			return nil, fmt.Errorf("widget member %s references %d targets, want exactly one %s: %w",
				rowID, set, column, models.ErrDataIntegrity)
		}

		id := refs[column].UUID
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result, rows.Err()
}

// Create inserts a widget with its variant payload and returns the stored
// record. Carousel items and members are managed separately.
func (s *WidgetStore) Create(ctx context.Context, w *models.Widget) (*models.Widget, error) {
	cols := variantColumns(w)
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO widgets (kind, name, width, start_date, end_date,
			content, text_color, image_key, audio_key, video_key, description,
			link_kind, link_id,
			display_type, upcoming_only, upcoming_window_days,
			class_type, only_open_registration, source_house_team_id,
			focus_event_id, focus_person_id, focus_ape_class_id, focus_house_team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING id
	`, w.Kind, w.Name, w.Width, w.StartDate, w.EndDate,
		cols.content, cols.textColor, cols.imageKey, cols.audioKey, cols.videoKey, cols.description,
		cols.linkKind, cols.linkID,
		cols.displayType, cols.upcomingOnly, cols.upcomingWindowDays,
		cols.classType, cols.onlyOpenRegistration, cols.sourceHouseTeamID,
		cols.focusEventID, cols.focusPersonID, cols.focusApeClassID, cols.focusHouseTeamID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create widget: %w", err)
	}
	return s.ResolveByID(ctx, id)
}

// Update rewrites a widget's shared and variant columns. The kind is
// immutable: the update refuses to change it.
func (s *WidgetStore) Update(ctx context.Context, w *models.Widget) error {
	cols := variantColumns(w)
	res, err := s.db.ExecContext(ctx, `
		UPDATE widgets SET
			name = $1, width = $2, start_date = $3, end_date = $4,
			content = $5, text_color = $6, image_key = $7, audio_key = $8,
			video_key = $9, description = $10, link_kind = $11, link_id = $12,
			display_type = $13, upcoming_only = $14, upcoming_window_days = $15,
			class_type = $16, only_open_registration = $17, source_house_team_id = $18,
			focus_event_id = $19, focus_person_id = $20, focus_ape_class_id = $21,
			focus_house_team_id = $22,
			last_modified = now()
		WHERE id = $23 AND kind = $24
	`, w.Name, w.Width, w.StartDate, w.EndDate,
		cols.content, cols.textColor, cols.imageKey, cols.audioKey,
		cols.videoKey, cols.description, cols.linkKind, cols.linkID,
		cols.displayType, cols.upcomingOnly, cols.upcomingWindowDays,
		cols.classType, cols.onlyOpenRegistration, cols.sourceHouseTeamID,
		cols.focusEventID, cols.focusPersonID, cols.focusApeClassID,
		cols.focusHouseTeamID,
		w.ID, w.Kind)
	if err != nil {
		return fmt.Errorf("update widget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update widget rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update widget %s: no row with kind %q", w.ID, w.Kind)
	}
	return nil
}

// Delete removes a widget. Join rows, carousel items, and member rows go
// with it via cascades.
func (s *WidgetStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM widgets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete widget: %w", err)
	}
	return nil
}

// DeleteOrphans removes widgets no page references and no catalog entity
// or carousel uses. Returns the number deleted.
func (s *WidgetStore) DeleteOrphans(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM widgets w
		WHERE NOT EXISTS (SELECT 1 FROM page_to_widgets ptw WHERE ptw.widget_id = w.id)
		  AND NOT EXISTS (SELECT 1 FROM widget_members wm WHERE wm.video_widget_id = w.id)
		  AND NOT EXISTS (SELECT 1 FROM events e WHERE e.banner_widget_id = w.id)
		  AND NOT EXISTS (SELECT 1 FROM ape_classes c WHERE c.banner_widget_id = w.id)
		  AND NOT EXISTS (SELECT 1 FROM house_teams h WHERE h.logo_widget_id = w.id OR h.carousel_widget_id = w.id)
		  AND NOT EXISTS (SELECT 1 FROM event_videos ev WHERE ev.video_widget_id = w.id)
		  AND NOT EXISTS (SELECT 1 FROM person_videos pv WHERE pv.video_widget_id = w.id)
		  AND NOT EXISTS (SELECT 1 FROM house_team_videos hv WHERE hv.video_widget_id = w.id)
	`)
	if err != nil {
		return 0, fmt.Errorf("delete orphan widgets: %w", err)
	}
	return res.RowsAffected()
}

// variantCols carries the nullable column values for one widget row.
type variantCols struct {
	content, textColor                 sql.NullString
	imageKey, audioKey, videoKey       sql.NullString
	description                        sql.NullString
	linkKind                           sql.NullString
	linkID                             uuid.NullUUID
	displayType, classType             sql.NullString
	upcomingOnly, onlyOpenRegistration bool
	upcomingWindowDays                 sql.NullInt64
	sourceHouseTeamID                  uuid.NullUUID
	focusEventID, focusPersonID        uuid.NullUUID
	focusApeClassID, focusHouseTeamID  uuid.NullUUID
}

// variantColumns flattens a Variant into its table columns.
func variantColumns(w *models.Widget) variantCols {
	var c variantCols
	switch v := w.Variant.(type) {
	case *models.TextVariant:
		c.content = nullStr(v.Content)
		c.textColor = nullStr(v.TextColor)
	case *models.BannerVariant:
		c.imageKey = nullStr(v.ImageKey)
		c.linkKind, c.linkID = linkCols(v.Link)
	case *models.CarouselVariant:
		// Items live in their own table.
	case *models.EventsVariant:
		c.displayType = nullStr(v.DisplayType)
		c.upcomingOnly = v.UpcomingOnly
		if v.UpcomingWindowDays != nil {
			c.upcomingWindowDays = sql.NullInt64{Int64: int64(*v.UpcomingWindowDays), Valid: true}
		}
	case *models.PeopleVariant:
		c.displayType = nullStr(v.DisplayType)
		if v.SourceHouseTeamID != nil {
			c.sourceHouseTeamID = uuid.NullUUID{UUID: *v.SourceHouseTeamID, Valid: true}
		}
	case *models.ApeClassesVariant:
		c.displayType = nullStr(v.DisplayType)
		c.classType = nullStr(v.ClassType)
		c.onlyOpenRegistration = v.OnlyOpenRegistration
	case *models.VideosVariant:
		c.displayType = nullStr(v.DisplayType)
	case *models.EventFocusVariant:
		if v.EventID != nil {
			c.focusEventID = uuid.NullUUID{UUID: *v.EventID, Valid: true}
		}
	case *models.PersonFocusVariant:
		if v.PersonID != nil {
			c.focusPersonID = uuid.NullUUID{UUID: *v.PersonID, Valid: true}
		}
	case *models.ApeClassFocusVariant:
		if v.ApeClassID != nil {
			c.focusApeClassID = uuid.NullUUID{UUID: *v.ApeClassID, Valid: true}
		}
	case *models.HouseTeamFocusVariant:
		if v.HouseTeamID != nil {
			c.focusHouseTeamID = uuid.NullUUID{UUID: *v.HouseTeamID, Valid: true}
		}
	case *models.AudioVariant:
		c.audioKey = nullStr(v.AudioKey)
		c.description = nullStr(v.Description)
	case *models.VideoVariant:
		c.videoKey = nullStr(v.VideoKey)
		c.description = nullStr(v.Description)
	}
	return c
}

// CarouselItems returns the items of a carousel widget in ascending sort
// order.
func (s *WidgetStore) CarouselItems(ctx context.Context, widgetID uuid.UUID) ([]models.CarouselItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, widget_id, sort_order, image_key, link_kind, link_id, start_date, end_date
		FROM carousel_items
		WHERE widget_id = $1
		ORDER BY sort_order
	`, widgetID)
	if err != nil {
		return nil, fmt.Errorf("list carousel items: %w", err)
	}
	defer rows.Close()

	var items []models.CarouselItem
	for rows.Next() {
		var (
			item               models.CarouselItem
			linkKind           sql.NullString
			linkID             uuid.NullUUID
			startDate, endDate sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.WidgetID, &item.SortOrder, &item.ImageKey,
			&linkKind, &linkID, &startDate, &endDate); err != nil {
			return nil, fmt.Errorf("scan carousel item: %w", err)
		}
		item.Link = linkRef(linkKind, linkID)
		if startDate.Valid {
			t := startDate.Time
			item.StartDate = &t
		}
		if endDate.Valid {
			t := endDate.Time
			item.EndDate = &t
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddCarouselItem inserts one item and returns it with the generated id.
func (s *WidgetStore) AddCarouselItem(ctx context.Context, item *models.CarouselItem) (*models.CarouselItem, error) {
	linkKind, linkID := linkCols(item.Link)
	stored := *item
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO carousel_items (widget_id, sort_order, image_key, link_kind, link_id, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, item.WidgetID, item.SortOrder, item.ImageKey, linkKind, linkID, item.StartDate, item.EndDate).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("add carousel item: %w", err)
	}
	return &stored, nil
}

// DeleteCarouselItem removes one carousel item.
func (s *WidgetStore) DeleteCarouselItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM carousel_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete carousel item: %w", err)
	}
	return nil
}

// SetMembers replaces a group widget's hand-picked members with the given
// ids in order. The column the ids land in follows the widget's kind.
func (s *WidgetStore) SetMembers(ctx context.Context, widgetID uuid.UUID, kind models.WidgetKind, ids []uuid.UUID) error {
	column, ok := map[models.WidgetKind]string{
		models.WidgetEvents:     "event_id",
		models.WidgetPeople:     "person_id",
		models.WidgetApeClasses: "ape_class_id",
		models.WidgetVideos:     "video_widget_id",
	}[kind]
	if !ok {
		return fmt.Errorf("set members: kind %q has no members", kind)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set members begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM widget_members WHERE widget_id = $1`, widgetID); err != nil {
		return fmt.Errorf("set members clear: %w", err)
	}
	for i, id := range ids {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO widget_members (widget_id, `+column+`, sort_order) VALUES ($1, $2, $3)`,
			widgetID, id, i)
		if err != nil {
			return fmt.Errorf("set members insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set members commit: %w", err)
	}
	return nil
}

// VideosForEvent returns the video widgets attached to an event.
func (s *WidgetStore) VideosForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Widget, error) {
	return s.attachedVideos(ctx, `
		SELECT `+prefixColumns("w", widgetColumns)+`
		FROM widgets w
		JOIN event_videos ev ON ev.video_widget_id = w.id
		WHERE ev.event_id = $1
		ORDER BY w.name
	`, eventID)
}

// VideosForPerson returns the video widgets attached to a person.
func (s *WidgetStore) VideosForPerson(ctx context.Context, personID uuid.UUID) ([]models.Widget, error) {
	return s.attachedVideos(ctx, `
		SELECT `+prefixColumns("w", widgetColumns)+`
		FROM widgets w
		JOIN person_videos pv ON pv.video_widget_id = w.id
		WHERE pv.person_id = $1
		ORDER BY w.name
	`, personID)
}

// VideosForHouseTeam returns the video widgets attached to a house team.
func (s *WidgetStore) VideosForHouseTeam(ctx context.Context, teamID uuid.UUID) ([]models.Widget, error) {
	return s.attachedVideos(ctx, `
		SELECT `+prefixColumns("w", widgetColumns)+`
		FROM widgets w
		JOIN house_team_videos hv ON hv.video_widget_id = w.id
		WHERE hv.house_team_id = $1
		ORDER BY w.name
	`, teamID)
}

func (s *WidgetStore) attachedVideos(ctx context.Context, query string, id uuid.UUID) ([]models.Widget, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list attached videos: %w", err)
	}
	defer rows.Close()

	var result []models.Widget
	for rows.Next() {
		var row widgetRow
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("scan video widget: %w", err)
		}
		w, err := s.buildWidget(ctx, &row)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

// linkRef folds nullable link columns into a LinkRef, nil when unset.
func linkRef(kind sql.NullString, id uuid.NullUUID) *models.LinkRef {
	if !kind.Valid || kind.String == "" || !id.Valid {
		return nil
	}
	return &models.LinkRef{Kind: models.LinkKind(kind.String), ID: id.UUID}
}

// linkCols flattens a LinkRef into its nullable columns.
func linkCols(l *models.LinkRef) (sql.NullString, uuid.NullUUID) {
	if l == nil {
		return sql.NullString{}, uuid.NullUUID{}
	}
	return sql.NullString{String: string(l.Kind), Valid: true},
		uuid.NullUUID{UUID: l.ID, Valid: true}
}

// nullStr maps "" to NULL so empty variant columns stay unset in the table.
func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableUUID(u uuid.NullUUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := u.UUID
	return &id
}

// prefixColumns qualifies every column in list with the given table alias.
func prefixColumns(alias, list string) string {
	parts := strings.Split(list, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
