// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

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

const eventColumns = `
	id, name, bio, start_time, max_tickets, tickets_sold, ticket_price_cents, banner_widget_id`

const personColumns = `
	id, first_name, last_name, bio, headshot_key, teaches, performs, active`

const houseTeamColumns = `
	id, name, show_time, logo_widget_id, carousel_widget_id`

const apeClassColumns = `
	id, name, bio, class_type, banner_widget_id, teacher_id, start_date,
	num_sessions, max_enrollment, enrollment_opens, enrollment_closes, price_cents`

// CatalogStore handles events, people, house teams and classes, plus the
// join tables attaching videos and team memberships to them.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore creates a new CatalogStore with the given database connection.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// ---- events ----

func scanEvent(s interface{ Scan(...any) error }) (*models.Event, error) {
	e := &models.Event{}
	var start sql.NullTime
	var maxTickets sql.NullInt64
	var banner uuid.NullUUID
	err := s.Scan(&e.ID, &e.Name, &e.Bio, &start, &maxTickets,
		&e.TicketsSold, &e.TicketPriceCents, &banner)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		t := start.Time
		e.StartTime = &t
	}
	if maxTickets.Valid {
		n := int(maxTickets.Int64)
		e.MaxTickets = &n
	}
	e.BannerWidgetID = nullableUUID(banner)
	return e, nil
}

// EventByID retrieves an event with its attached video ids. Returns nil
// if not found.
func (s *CatalogStore) EventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	e.VideoWidgetIDs, err = s.joinedIDs(ctx, "event_videos", "event_id", "video_widget_id", e.ID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EventsByIDs returns the named events in the order the ids were given.
// Missing ids are silently dropped.
func (s *CatalogStore) EventsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id IN (`+placeholders(len(ids))+`)`,
		uuidArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("events by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.Event, len(ids))
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		byID[e.ID] = *e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			result = append(result, e)
		}
	}
	return result, nil
}

// UpcomingEvents returns events starting at or after now, most recent
// first. A non-nil windowDays caps how far ahead the listing looks.
func (s *CatalogStore) UpcomingEvents(ctx context.Context, now time.Time, windowDays *int) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE start_time >= $1`
	args := []any{now}
	if windowDays != nil {
		query += ` AND start_time < $2`
		args = append(args, now.AddDate(0, 0, *windowDays))
	}
	query += ` ORDER BY start_time DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// AllEvents returns every event, newest first. Events without a start
// time sort last.
func (s *CatalogStore) AllEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY start_time DESC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// CreateEvent inserts an event and returns it with its generated id.
func (s *CatalogStore) CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error) {
	created, err := scanEvent(s.db.QueryRowContext(ctx, `
		INSERT INTO events (name, bio, start_time, max_tickets, tickets_sold, ticket_price_cents, banner_widget_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+eventColumns,
		e.Name, e.Bio, e.StartTime, e.MaxTickets, e.TicketsSold, e.TicketPriceCents, e.BannerWidgetID))
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// UpdateEvent rewrites an event's attributes.
func (s *CatalogStore) UpdateEvent(ctx context.Context, e *models.Event) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE events SET name = $1, bio = $2, start_time = $3, max_tickets = $4,
			tickets_sold = $5, ticket_price_cents = $6, banner_widget_id = $7
		WHERE id = $8
	`, e.Name, e.Bio, e.StartTime, e.MaxTickets, e.TicketsSold, e.TicketPriceCents, e.BannerWidgetID, e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event. Join rows cascade.
func (s *CatalogStore) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// SetEventVideos replaces the event's attached video widgets.
func (s *CatalogStore) SetEventVideos(ctx context.Context, eventID uuid.UUID, videoWidgetIDs []uuid.UUID) error {
	return s.replaceJoin(ctx, "event_videos", "event_id", "video_widget_id", eventID, videoWidgetIDs)
}

// ---- people ----

func scanPerson(s interface{ Scan(...any) error }) (*models.Person, error) {
	p := &models.Person{}
	err := s.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Bio, &p.HeadshotKey,
		&p.Teaches, &p.Performs, &p.Active)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PersonByID retrieves a person with team memberships and video ids,
// inactive people included. Returns nil if not found.
func (s *CatalogStore) PersonByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	p, err := scanPerson(s.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find person: %w", err)
	}
	p.HouseTeamIDs, err = s.joinedIDs(ctx, "house_team_memberships", "person_id", "house_team_id", p.ID)
	if err != nil {
		return nil, err
	}
	p.VideoWidgetIDs, err = s.joinedIDs(ctx, "person_videos", "person_id", "video_widget_id", p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PeopleByIDs returns the named people in the order the ids were given.
// Inactive people are dropped along with missing ids.
func (s *CatalogStore) PeopleByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE active AND id IN (`+placeholders(len(ids))+`)`,
		uuidArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("people by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.Person, len(ids))
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		byID[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

// People returns people ordered by first name. Inactive people are
// excluded unless includeInactive is set.
func (s *CatalogStore) People(ctx context.Context, includeInactive bool) ([]models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people`
	if !includeInactive {
		query += ` WHERE active`
	}
	query += ` ORDER BY first_name, last_name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()
	return collectPeople(rows)
}

// PeopleByHouseTeam returns a team's active members ordered by first name.
func (s *CatalogStore) PeopleByHouseTeam(ctx context.Context, houseTeamID uuid.UUID) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("p", personColumns)+`
		FROM people p
		JOIN house_team_memberships m ON m.person_id = p.id
		WHERE m.house_team_id = $1 AND p.active
		ORDER BY p.first_name, p.last_name
	`, houseTeamID)
	if err != nil {
		return nil, fmt.Errorf("people by house team: %w", err)
	}
	defer rows.Close()
	return collectPeople(rows)
}

func collectPeople(rows *sql.Rows) ([]models.Person, error) {
	var people []models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, *p)
	}
	return people, rows.Err()
}

// CreatePerson inserts a person and returns them with their generated id.
func (s *CatalogStore) CreatePerson(ctx context.Context, p *models.Person) (*models.Person, error) {
	created, err := scanPerson(s.db.QueryRowContext(ctx, `
		INSERT INTO people (first_name, last_name, bio, headshot_key, teaches, performs, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+personColumns,
		p.FirstName, p.LastName, p.Bio, p.HeadshotKey, p.Teaches, p.Performs, p.Active))
	if err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}
	return created, nil
}

// UpdatePerson rewrites a person's attributes, the active flag included.
func (s *CatalogStore) UpdatePerson(ctx context.Context, p *models.Person) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE people SET first_name = $1, last_name = $2, bio = $3,
			headshot_key = $4, teaches = $5, performs = $6, active = $7
		WHERE id = $8
	`, p.FirstName, p.LastName, p.Bio, p.HeadshotKey, p.Teaches, p.Performs, p.Active, p.ID)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

// DeactivatePerson soft-deletes a person. The row stays so old pages and
// group widgets keep their history, but default listings skip it.
func (s *CatalogStore) DeactivatePerson(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE people SET active = false WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deactivate person: %w", err)
	}
	return nil
}

// SetPersonTeams replaces the person's house team memberships.
func (s *CatalogStore) SetPersonTeams(ctx context.Context, personID uuid.UUID, houseTeamIDs []uuid.UUID) error {
	return s.replaceJoin(ctx, "house_team_memberships", "person_id", "house_team_id", personID, houseTeamIDs)
}

// SetPersonVideos replaces the person's attached video widgets.
func (s *CatalogStore) SetPersonVideos(ctx context.Context, personID uuid.UUID, videoWidgetIDs []uuid.UUID) error {
	return s.replaceJoin(ctx, "person_videos", "person_id", "video_widget_id", personID, videoWidgetIDs)
}

// ---- house teams ----

func scanHouseTeam(s interface{ Scan(...any) error }) (*models.HouseTeam, error) {
	h := &models.HouseTeam{}
	var showTime sql.NullString
	var logo, carousel uuid.NullUUID
	if err := s.Scan(&h.ID, &h.Name, &showTime, &logo, &carousel); err != nil {
		return nil, err
	}
	h.ShowTime = strPtrOf(showTime)
	h.LogoWidgetID = nullableUUID(logo)
	h.CarouselWidgetID = nullableUUID(carousel)
	return h, nil
}

// HouseTeamByID retrieves a house team with its video ids. Returns nil
// if not found.
func (s *CatalogStore) HouseTeamByID(ctx context.Context, id uuid.UUID) (*models.HouseTeam, error) {
	h, err := scanHouseTeam(s.db.QueryRowContext(ctx,
		`SELECT `+houseTeamColumns+` FROM house_teams WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find house team: %w", err)
	}
	h.VideoWidgetIDs, err = s.joinedIDs(ctx, "house_team_videos", "house_team_id", "video_widget_id", h.ID)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// HouseTeams returns all house teams ordered by name.
func (s *CatalogStore) HouseTeams(ctx context.Context) ([]models.HouseTeam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+houseTeamColumns+` FROM house_teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list house teams: %w", err)
	}
	defer rows.Close()
	return collectHouseTeams(rows)
}

// HouseTeamsForPerson returns the teams a person belongs to, by name.
func (s *CatalogStore) HouseTeamsForPerson(ctx context.Context, personID uuid.UUID) ([]models.HouseTeam, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("h", houseTeamColumns)+`
		FROM house_teams h
		JOIN house_team_memberships m ON m.house_team_id = h.id
		WHERE m.person_id = $1
		ORDER BY h.name
	`, personID)
	if err != nil {
		return nil, fmt.Errorf("house teams for person: %w", err)
	}
	defer rows.Close()
	return collectHouseTeams(rows)
}

func collectHouseTeams(rows *sql.Rows) ([]models.HouseTeam, error) {
	var teams []models.HouseTeam
	for rows.Next() {
		h, err := scanHouseTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan house team: %w", err)
		}
		teams = append(teams, *h)
	}
	return teams, rows.Err()
}

// CreateHouseTeam inserts a house team and returns it with its generated id.
func (s *CatalogStore) CreateHouseTeam(ctx context.Context, h *models.HouseTeam) (*models.HouseTeam, error) {
	created, err := scanHouseTeam(s.db.QueryRowContext(ctx, `
		INSERT INTO house_teams (name, show_time, logo_widget_id, carousel_widget_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+houseTeamColumns,
		h.Name, h.ShowTime, h.LogoWidgetID, h.CarouselWidgetID))
	if err != nil {
		return nil, fmt.Errorf("create house team: %w", err)
	}
	return created, nil
}

// UpdateHouseTeam rewrites a house team's attributes.
func (s *CatalogStore) UpdateHouseTeam(ctx context.Context, h *models.HouseTeam) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE house_teams SET name = $1, show_time = $2, logo_widget_id = $3, carousel_widget_id = $4
		WHERE id = $5
	`, h.Name, h.ShowTime, h.LogoWidgetID, h.CarouselWidgetID, h.ID)
	if err != nil {
		return fmt.Errorf("update house team: %w", err)
	}
	return nil
}

// DeleteHouseTeam removes a house team. Memberships cascade.
func (s *CatalogStore) DeleteHouseTeam(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM house_teams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete house team: %w", err)
	}
	return nil
}

// SetHouseTeamVideos replaces the team's attached video widgets.
func (s *CatalogStore) SetHouseTeamVideos(ctx context.Context, houseTeamID uuid.UUID, videoWidgetIDs []uuid.UUID) error {
	return s.replaceJoin(ctx, "house_team_videos", "house_team_id", "video_widget_id", houseTeamID, videoWidgetIDs)
}

// ---- classes ----

func scanApeClass(s interface{ Scan(...any) error }) (*models.ApeClass, error) {
	c := &models.ApeClass{}
	var banner, teacher uuid.NullUUID
	var start, opens, closes sql.NullTime
	err := s.Scan(&c.ID, &c.Name, &c.Bio, &c.ClassType, &banner, &teacher,
		&start, &c.NumSessions, &c.MaxEnrollment, &opens, &closes, &c.PriceCents)
	if err != nil {
		return nil, err
	}
	c.BannerWidgetID = nullableUUID(banner)
	c.TeacherID = nullableUUID(teacher)
	c.StartDate = timePtrOf(start)
	c.EnrollmentOpens = timePtrOf(opens)
	c.EnrollmentCloses = timePtrOf(closes)
	return c, nil
}

// ApeClassByID retrieves a class. Returns nil if not found.
func (s *CatalogStore) ApeClassByID(ctx context.Context, id uuid.UUID) (*models.ApeClass, error) {
	c, err := scanApeClass(s.db.QueryRowContext(ctx,
		`SELECT `+apeClassColumns+` FROM ape_classes WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find class: %w", err)
	}
	return c, nil
}

// ClassesByIDs returns the named classes in the order the ids were given.
// Missing ids are silently dropped.
func (s *CatalogStore) ClassesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ApeClass, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+apeClassColumns+` FROM ape_classes WHERE id IN (`+placeholders(len(ids))+`)`,
		uuidArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("classes by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.ApeClass, len(ids))
	for rows.Next() {
		c, err := scanApeClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		byID[c.ID] = *c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.ApeClass, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

// Classes returns classes by earliest start date. An empty classType
// matches all types; onlyOpenRegistration keeps classes whose enrollment
// window contains now.
func (s *CatalogStore) Classes(ctx context.Context, classType string, onlyOpenRegistration bool, now time.Time) ([]models.ApeClass, error) {
	var conds []string
	var args []any
	if classType != "" {
		args = append(args, classType)
		conds = append(conds, fmt.Sprintf("class_type = $%d", len(args)))
	}
	if onlyOpenRegistration {
		args = append(args, now)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(enrollment_opens IS NULL OR enrollment_opens <= $%d)", n))
		conds = append(conds, fmt.Sprintf("(enrollment_closes IS NULL OR enrollment_closes >= $%d)", n))
	}

	query := `SELECT ` + apeClassColumns + ` FROM ape_classes`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY start_date NULLS LAST, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []models.ApeClass
	for rows.Next() {
		c, err := scanApeClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// CreateClass inserts a class and returns it with its generated id.
func (s *CatalogStore) CreateClass(ctx context.Context, c *models.ApeClass) (*models.ApeClass, error) {
	created, err := scanApeClass(s.db.QueryRowContext(ctx, `
		INSERT INTO ape_classes (name, bio, class_type, banner_widget_id, teacher_id,
			start_date, num_sessions, max_enrollment, enrollment_opens, enrollment_closes, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+apeClassColumns,
		c.Name, c.Bio, c.ClassType, c.BannerWidgetID, c.TeacherID,
		c.StartDate, c.NumSessions, c.MaxEnrollment, c.EnrollmentOpens, c.EnrollmentCloses, c.PriceCents))
	if err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	return created, nil
}

// UpdateClass rewrites a class's attributes.
func (s *CatalogStore) UpdateClass(ctx context.Context, c *models.ApeClass) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE ape_classes SET name = $1, bio = $2, class_type = $3, banner_widget_id = $4,
			teacher_id = $5, start_date = $6, num_sessions = $7, max_enrollment = $8,
			enrollment_opens = $9, enrollment_closes = $10, price_cents = $11
		WHERE id = $12
	`, c.Name, c.Bio, c.ClassType, c.BannerWidgetID, c.TeacherID,
		c.StartDate, c.NumSessions, c.MaxEnrollment, c.EnrollmentOpens, c.EnrollmentCloses,
		c.PriceCents, c.ID)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// DeleteClass removes a class.
func (s *CatalogStore) DeleteClass(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ape_classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// ---- join table plumbing ----

// joinedIDs reads the "many" side of a two-column join table for one owner.
func (s *CatalogStore) joinedIDs(ctx context.Context, table, ownerCol, targetCol string, ownerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, targetCol, table, ownerCol), ownerID)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// replaceJoin swaps the full set of join rows for one owner in a
// transaction.
func (s *CatalogStore) replaceJoin(ctx context.Context, table, ownerCol, targetCol string, ownerID uuid.UUID, targetIDs []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace %s begin: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, ownerCol), ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, targetID := range targetIDs {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table, ownerCol, targetCol),
			ownerID, targetID); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace %s commit: %w", table, err)
	}
	return nil
}

// placeholders renders "$1, $2, ..." for n parameters.
func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

func uuidArgs(ids []uuid.UUID) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func timePtrOf(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
