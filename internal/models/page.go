// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlugChoices is the closed set of addressable page slugs. A page's slug
// is nullable; pages without one are reachable by id only.
var SlugChoices = []string{"home", "classes", "shows", "faculty", "talent", "watch", "hype"}

// ValidSlug reports whether s is one of the allowed page slugs.
func ValidSlug(s string) bool {
	for _, c := range SlugChoices {
		if s == c {
			return true
		}
	}
	return false
}

// Page is an ordered aggregate of widgets plus page-level presentation
// attributes. Pages are never hard-deleted in the normal flow; the Draft
// flag takes them out of circulation instead.
type Page struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         *string   `json:"slug,omitempty"`
	Draft        bool      `json:"draft"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"last_modified"`

	// Background: gradient between start and end color, or solid start color.
	BackgroundGradient   bool    `json:"background_gradient"`
	BackgroundStartColor *string `json:"background_start_color,omitempty"`
	BackgroundEndColor   *string `json:"background_end_color,omitempty"`

	TextColor       *string `json:"text_color,omitempty"`
	ButtonColor     *string `json:"button_color,omitempty"`
	ButtonTextColor *string `json:"button_text_color,omitempty"`
	NavBarColor     *string `json:"nav_bar_color,omitempty"`
	NavBarTextColor *string `json:"nav_bar_text_color,omitempty"`
}

// BackgroundData returns the two-variant background descriptor: a gradient
// between the start and end colors, or a solid fill of the start color.
func (p *Page) BackgroundData() map[string]any {
	if p.BackgroundGradient {
		return map[string]any{
			"type":        "gradient",
			"start_color": strOrNil(p.BackgroundStartColor),
			"end_color":   strOrNil(p.BackgroundEndColor),
		}
	}
	return map[string]any{
		"type":  "solid_color",
		"color": strOrNil(p.BackgroundStartColor),
	}
}

// APIPath returns the canonical API path for the page.
func (p *Page) APIPath() string {
	return fmt.Sprintf("/pages/%s.json", p.ID)
}

// WebPath returns the server-rendered HTML path, preferring the slug.
func (p *Page) WebPath() string {
	if p.Slug != nil && *p.Slug != "" {
		return fmt.Sprintf("/pages/%s", *p.Slug)
	}
	return fmt.Sprintf("/pages/%s", p.ID)
}

// PageToWidget binds a widget to a page with an explicit sort order.
// A widget appears at most once per page.
type PageToWidget struct {
	ID        uuid.UUID `json:"id"`
	PageID    uuid.UUID `json:"page_id"`
	WidgetID  uuid.UUID `json:"widget_id"`
	SortOrder int       `json:"sort_order"`
}

// strOrNil maps a nullable column value to its JSON projection value.
func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
