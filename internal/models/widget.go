// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types for the Marquee CMS: pages,
// the widget content blocks placed on them, and the catalog entities
// (events, people, classes, house teams) that widgets reference.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WidgetKind discriminates the concrete variant of a widget. The kind is
// fixed when the widget is created and never changes afterwards.
type WidgetKind string

const (
	WidgetText           WidgetKind = "text"
	WidgetBanner         WidgetKind = "banner"
	WidgetImageCarousel  WidgetKind = "image_carousel"
	WidgetEvents         WidgetKind = "events"
	WidgetPeople         WidgetKind = "people"
	WidgetApeClasses     WidgetKind = "ape_classes"
	WidgetVideos         WidgetKind = "videos"
	WidgetEventFocus     WidgetKind = "event_focus"
	WidgetPersonFocus    WidgetKind = "person_focus"
	WidgetApeClassFocus  WidgetKind = "ape_class_focus"
	WidgetHouseTeamFocus WidgetKind = "house_team_focus"
	WidgetAudio          WidgetKind = "audio"
	WidgetVideo          WidgetKind = "video"
)

// AllWidgetKinds lists every concrete widget kind, used for input
// validation on the admin API.
var AllWidgetKinds = []WidgetKind{
	WidgetText, WidgetBanner, WidgetImageCarousel,
	WidgetEvents, WidgetPeople, WidgetApeClasses, WidgetVideos,
	WidgetEventFocus, WidgetPersonFocus, WidgetApeClassFocus, WidgetHouseTeamFocus,
	WidgetAudio, WidgetVideo,
}

// Valid reports whether k is a known widget kind.
func (k WidgetKind) Valid() bool {
	for _, known := range AllWidgetKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Widget is one content block placed on a page. The shared attributes live
// here; kind-specific attributes live in the Variant payload. A widget may
// be shared by any number of pages through PageToWidget join rows.
type Widget struct {
	ID           uuid.UUID  `json:"id"`
	Kind         WidgetKind `json:"kind"`
	Name         string     `json:"name"`
	Width        *int       `json:"width,omitempty"` // display-width hint, columns
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Created      time.Time  `json:"created"`
	LastModified time.Time  `json:"last_modified"`

	Variant Variant `json:"-"`
}

// IsActive reports whether the widget's activation window contains the
// reference time. The predicate is evaluated at projection time so a page
// render reflects "now" at the moment of the request.
func (w *Widget) IsActive(now time.Time) bool {
	if w.StartDate != nil && w.StartDate.After(now) {
		return false
	}
	if w.EndDate != nil && w.EndDate.Before(now) {
		return false
	}
	return true
}

// Variant is the closed set of widget payloads. Exactly one concrete type
// exists per WidgetKind; the unexported method keeps the set closed to
// this package.
type Variant interface {
	widgetKind() WidgetKind
}

// TextVariant is a block of text with an optional color override.
type TextVariant struct {
	Content   string
	TextColor string
}

// JSONContent returns the text body with line-break characters stripped,
// matching what API clients expect in a single-line JSON string.
func (v *TextVariant) JSONContent() string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(v.Content)
}

// BannerVariant is a single image, optionally linking to another entity.
type BannerVariant struct {
	ImageKey string
	Link     *LinkRef
}

// CarouselVariant is an ordered set of images, each with its own link and
// activation window.
type CarouselVariant struct {
	Items []CarouselItem
}

// CarouselItem is one image inside a carousel widget. Items are owned by
// exactly one carousel and are removed with it.
type CarouselItem struct {
	ID        uuid.UUID  `json:"id"`
	WidgetID  uuid.UUID  `json:"widget_id"`
	SortOrder int        `json:"sort_order"`
	ImageKey  string     `json:"image_key"`
	Link      *LinkRef   `json:"link,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// IsActive applies the same activation-window predicate widgets use.
func (i *CarouselItem) IsActive(now time.Time) bool {
	if i.StartDate != nil && i.StartDate.After(now) {
		return false
	}
	if i.EndDate != nil && i.EndDate.Before(now) {
		return false
	}
	return true
}

// Group widget display types.
const (
	DisplayGallery  = "gallery"
	DisplayRowFocus = "row_focus"
)

// EventsVariant lists events: either the hand-picked EventIDs, or when
// none are attached, a computed "upcoming" query.
type EventsVariant struct {
	DisplayType        string
	UpcomingOnly       bool
	UpcomingWindowDays *int // limit upcoming events to this many days out
	EventIDs           []uuid.UUID
}

// PeopleVariant lists performers: a house team's roster when
// SourceHouseTeamID is set, otherwise hand-picked people, otherwise all
// active people.
type PeopleVariant struct {
	DisplayType       string
	SourceHouseTeamID *uuid.UUID
	PersonIDs         []uuid.UUID
}

// ApeClassesVariant lists classes, optionally restricted to a class type
// and to classes whose enrollment window is currently open.
type ApeClassesVariant struct {
	DisplayType          string
	ClassType            string
	OnlyOpenRegistration bool
	ClassIDs             []uuid.UUID
}

// VideosVariant lists video widgets, hand-picked or all.
type VideosVariant struct {
	DisplayType    string
	VideoWidgetIDs []uuid.UUID
}

// EventFocusVariant displays a single event in detail.
type EventFocusVariant struct {
	EventID *uuid.UUID
}

// PersonFocusVariant displays a single performer in detail.
type PersonFocusVariant struct {
	PersonID *uuid.UUID
}

// ApeClassFocusVariant displays a single class in detail.
type ApeClassFocusVariant struct {
	ApeClassID *uuid.UUID
}

// HouseTeamFocusVariant displays a single house team in detail.
type HouseTeamFocusVariant struct {
	HouseTeamID *uuid.UUID
}

// AudioVariant is an audio clip with a description.
type AudioVariant struct {
	AudioKey    string
	Description string
}

// VideoVariant is a video clip with a description.
type VideoVariant struct {
	VideoKey    string
	Description string
}

func (*TextVariant) widgetKind() WidgetKind           { return WidgetText }
func (*BannerVariant) widgetKind() WidgetKind         { return WidgetBanner }
func (*CarouselVariant) widgetKind() WidgetKind       { return WidgetImageCarousel }
func (*EventsVariant) widgetKind() WidgetKind         { return WidgetEvents }
func (*PeopleVariant) widgetKind() WidgetKind         { return WidgetPeople }
func (*ApeClassesVariant) widgetKind() WidgetKind     { return WidgetApeClasses }
func (*VideosVariant) widgetKind() WidgetKind         { return WidgetVideos }
func (*EventFocusVariant) widgetKind() WidgetKind     { return WidgetEventFocus }
func (*PersonFocusVariant) widgetKind() WidgetKind    { return WidgetPersonFocus }
func (*ApeClassFocusVariant) widgetKind() WidgetKind  { return WidgetApeClassFocus }
func (*HouseTeamFocusVariant) widgetKind() WidgetKind { return WidgetHouseTeamFocus }
func (*AudioVariant) widgetKind() WidgetKind          { return WidgetAudio }
func (*VideoVariant) widgetKind() WidgetKind          { return WidgetVideo }
