// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a published
// home page composed of a few widgets, plus a small catalog of events,
// people, and classes for the group widgets to pick up. No-op once any
// page exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count); err != nil {
		return fmt.Errorf("seed check pages: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var pageID string
	err = tx.QueryRow(`
		INSERT INTO pages (name, slug, background_gradient, background_start_color, background_end_color, text_color)
		VALUES ('Home', 'home', true, '#1a1a2e', '#16213e', '#f5f5f5')
		RETURNING id
	`).Scan(&pageID)
	if err != nil {
		return fmt.Errorf("seed insert home page: %w", err)
	}

	var welcomeID string
	err = tx.QueryRow(`
		INSERT INTO widgets (kind, name, content, text_color)
		VALUES ('text', 'Welcome blurb', 'Welcome to the theater. Shows every night, classes every day.', '#f5f5f5')
		RETURNING id
	`).Scan(&welcomeID)
	if err != nil {
		return fmt.Errorf("seed insert text widget: %w", err)
	}

	var upcomingID string
	err = tx.QueryRow(`
		INSERT INTO widgets (kind, name, display_type, upcoming_only, upcoming_window_days)
		VALUES ('events', 'Upcoming Shows', 'gallery', true, 14)
		RETURNING id
	`).Scan(&upcomingID)
	if err != nil {
		return fmt.Errorf("seed insert events widget: %w", err)
	}

	for i, widgetID := range []string{welcomeID, upcomingID} {
		_, err = tx.Exec(`
			INSERT INTO page_to_widgets (page_id, widget_id, sort_order)
			VALUES ($1, $2, $3)
		`, pageID, widgetID, i)
		if err != nil {
			return fmt.Errorf("seed attach widget: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO events (name, bio, start_time, max_tickets, ticket_price_cents)
		VALUES
			('Friday Night Laffs', 'Every Friday!', now() + interval '2 days', 80, 1000),
			('Saturday Night Shakes', 'Every Saturday!', now() + interval '3 days', 80, 200)
	`)
	if err != nil {
		return fmt.Errorf("seed insert events: %w", err)
	}

	var teamID string
	err = tx.QueryRow(`
		INSERT INTO house_teams (name, show_time) VALUES ('The Goof Troop', 'Thursdays 8pm')
		RETURNING id
	`).Scan(&teamID)
	if err != nil {
		return fmt.Errorf("seed insert house team: %w", err)
	}

	rows, err := tx.Query(`
		INSERT INTO people (first_name, last_name, performs)
		VALUES ('Funnyboy', 'Jones', true), ('Lisa', 'Crackemups', true)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("seed insert people: %w", err)
	}
	var personIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("seed scan person: %w", err)
		}
		personIDs = append(personIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("seed people rows: %w", err)
	}

	for _, personID := range personIDs {
		_, err = tx.Exec(`
			INSERT INTO house_team_memberships (person_id, house_team_id) VALUES ($1, $2)
		`, personID, teamID)
		if err != nil {
			return fmt.Errorf("seed insert membership: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO ape_classes (name, bio, class_type, num_sessions, max_enrollment, price_cents, enrollment_opens, enrollment_closes)
		VALUES ('Improv 101', 'The fundamentals.', 'IMPROV', 8, 14, 27500, now() - interval '7 days', now() + interval '30 days')
	`)
	if err != nil {
		return fmt.Errorf("seed insert class: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development content", "home_page", pageID)
	return nil
}
