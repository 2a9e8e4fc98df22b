// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a ticketed show on the calendar.
type Event struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Bio              string     `json:"bio"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	MaxTickets       *int       `json:"max_tickets,omitempty"`
	TicketsSold      int        `json:"tickets_sold"`
	TicketPriceCents int64      `json:"ticket_price_cents"`
	BannerWidgetID   *uuid.UUID `json:"banner_widget_id,omitempty"`
	VideoWidgetIDs   []uuid.UUID `json:"video_widget_ids,omitempty"`
}

// TicketsLeft returns the remaining capacity. The second result is false
// when no cap is set: an uncapped event is not sold out.
func (e *Event) TicketsLeft() (int, bool) {
	if e.MaxTickets == nil {
		return 0, false
	}
	return *e.MaxTickets - e.TicketsSold, true
}

// TicketPrice formats the price in dollars, e.g. "10.00".
func (e *Event) TicketPrice() string {
	return centsToDollars(e.TicketPriceCents)
}

// EventDay returns a user-friendly start-day label relative to now:
// "Tonight", "Tomorrow", or "Friday, March 3".
func (e *Event) EventDay(now time.Time) string {
	if e.StartTime == nil {
		return ""
	}
	return friendlyDay(*e.StartTime, now)
}

// EventTime returns the start hour as "7 pm" style text.
func (e *Event) EventTime() string {
	if e.StartTime == nil {
		return ""
	}
	return friendlyHour(*e.StartTime)
}

// NameWithDate combines the event name with its friendly day label.
func (e *Event) NameWithDate(now time.Time) string {
	return fmt.Sprintf("%s: %s", e.Name, e.EventDay(now))
}

// APIPath returns the canonical API path for the event.
func (e *Event) APIPath() string {
	return eventAPIPath(e.ID)
}

// Person is a performer and/or teacher. Inactive people are soft-deleted:
// they stay in the table but are excluded from default queries.
type Person struct {
	ID             uuid.UUID   `json:"id"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Bio            string      `json:"bio"`
	HeadshotKey    string      `json:"headshot_key,omitempty"`
	Teaches        bool        `json:"teaches"`
	Performs       bool        `json:"performs"`
	Active         bool        `json:"active"`
	HouseTeamIDs   []uuid.UUID `json:"house_team_ids,omitempty"`
	VideoWidgetIDs []uuid.UUID `json:"video_widget_ids,omitempty"`
}

// Name returns the person's display name.
func (p *Person) Name() string {
	return p.FirstName + " " + p.LastName
}

// APIPath returns the canonical API path for the person.
func (p *Person) APIPath() string {
	return fmt.Sprintf("/people/%s.json", p.ID)
}

// HouseTeam is a resident performance team.
type HouseTeam struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	ShowTime         *string     `json:"show_time,omitempty"`
	LogoWidgetID     *uuid.UUID  `json:"logo_widget_id,omitempty"`
	CarouselWidgetID *uuid.UUID  `json:"carousel_widget_id,omitempty"`
	VideoWidgetIDs   []uuid.UUID `json:"video_widget_ids,omitempty"`
}

// APIPath returns the canonical API path for the house team.
func (h *HouseTeam) APIPath() string {
	return fmt.Sprintf("/house_teams/%s.json", h.ID)
}

// Class types offered by the theater school.
const (
	ClassImprov   = "IMPROV"
	ClassSketch   = "SKETCH"
	ClassActing   = "ACTING"
	ClassWorkshop = "WORKSHOP"
)

// ClassTypes lists the valid class type values.
var ClassTypes = []string{ClassImprov, ClassSketch, ClassActing, ClassWorkshop}

// ApeClass is a multi-session class students can register for.
type ApeClass struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Bio              string     `json:"bio"`
	ClassType        string     `json:"class_type"`
	BannerWidgetID   *uuid.UUID `json:"banner_widget_id,omitempty"`
	TeacherID        *uuid.UUID `json:"teacher_id,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	NumSessions      int        `json:"num_sessions"`
	MaxEnrollment    int        `json:"max_enrollment"`
	EnrollmentOpens  *time.Time `json:"enrollment_opens,omitempty"`
	EnrollmentCloses *time.Time `json:"enrollment_closes,omitempty"`
	PriceCents       int64      `json:"price_cents"`
}

// Price formats the class price in dollars.
func (c *ApeClass) Price() string {
	return centsToDollars(c.PriceCents)
}

// StartDay returns the friendly start-day label, or "" when no start date
// is scheduled yet.
func (c *ApeClass) StartDay(now time.Time) string {
	if c.StartDate == nil {
		return ""
	}
	return friendlyDay(*c.StartDate, now)
}

// RegistrationOpen reports whether the enrollment window contains now.
// Unset bounds are treated as open on that side.
func (c *ApeClass) RegistrationOpen(now time.Time) bool {
	if c.EnrollmentOpens != nil && c.EnrollmentOpens.After(now) {
		return false
	}
	if c.EnrollmentCloses != nil && c.EnrollmentCloses.Before(now) {
		return false
	}
	return true
}

// APIPath returns the canonical API path for the class.
func (c *ApeClass) APIPath() string {
	return fmt.Sprintf("/classes/%s.json", c.ID)
}

// friendlyDay renders a start time relative to now as "Tonight",
// "Tomorrow", or "Friday, March 3".
func friendlyDay(t, now time.Time) string {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return "Tonight"
	}
	tomorrow := now.AddDate(0, 0, 1)
	ny, nm, nd = tomorrow.Date()
	if ty == ny && tm == nm && td == nd {
		return "Tomorrow"
	}
	return fmt.Sprintf("%s, %s %d", t.Weekday(), t.Month(), t.Day())
}

// friendlyHour renders an hour as "7 pm" / "10 am" style text.
func friendlyHour(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour == 0:
		return "12 am"
	case hour == 12:
		return "12 pm"
	case hour > 12:
		return fmt.Sprintf("%d pm", hour-12)
	default:
		return fmt.Sprintf("%d am", hour)
	}
}

// centsToDollars formats a cent amount as "12.50".
func centsToDollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
