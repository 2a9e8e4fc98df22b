// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"marquee/internal/models"
)

// validate is the shared validator instance. Field names in error output
// come from the json tags so clients can key messages to their form fields.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("widget_kind", func(fl validator.FieldLevel) bool {
		return models.WidgetKind(fl.Field().String()).Valid()
	})
	v.RegisterValidation("link_kind", func(fl validator.FieldLevel) bool {
		return models.LinkKind(fl.Field().String()).Valid()
	})
	v.RegisterValidation("page_slug", func(fl validator.FieldLevel) bool {
		return models.ValidSlug(fl.Field().String())
	})

	return v
}

// linkPayload is the wire form of a generic link reference.
type linkPayload struct {
	Kind string    `json:"kind" validate:"required,link_kind"`
	ID   uuid.UUID `json:"id" validate:"required"`
}

func (l *linkPayload) ref() *models.LinkRef {
	if l == nil {
		return nil
	}
	return &models.LinkRef{Kind: models.LinkKind(l.Kind), ID: l.ID}
}

// pagePayload is the create/update body for a page.
type pagePayload struct {
	Name  string  `json:"name" validate:"required,max=120"`
	Slug  *string `json:"slug" validate:"omitempty,page_slug"`
	Draft bool    `json:"draft"`

	BackgroundGradient   bool    `json:"background_gradient"`
	BackgroundStartColor *string `json:"background_start_color" validate:"omitempty,hexcolor"`
	BackgroundEndColor   *string `json:"background_end_color" validate:"omitempty,hexcolor"`
	TextColor            *string `json:"text_color" validate:"omitempty,hexcolor"`
	ButtonColor          *string `json:"button_color" validate:"omitempty,hexcolor"`
	ButtonTextColor      *string `json:"button_text_color" validate:"omitempty,hexcolor"`
	NavBarColor          *string `json:"nav_bar_color" validate:"omitempty,hexcolor"`
	NavBarTextColor      *string `json:"nav_bar_text_color" validate:"omitempty,hexcolor"`
}

func (p *pagePayload) apply(page *models.Page) {
	page.Name = p.Name
	page.Slug = p.Slug
	page.Draft = p.Draft
	page.BackgroundGradient = p.BackgroundGradient
	page.BackgroundStartColor = p.BackgroundStartColor
	page.BackgroundEndColor = p.BackgroundEndColor
	page.TextColor = p.TextColor
	page.ButtonColor = p.ButtonColor
	page.ButtonTextColor = p.ButtonTextColor
	page.NavBarColor = p.NavBarColor
	page.NavBarTextColor = p.NavBarTextColor
}

// widgetPayload is the create/update body for a widget. The shared fields
// are always read; the kind decides which of the rest matter.
type widgetPayload struct {
	Kind      string     `json:"kind" validate:"required,widget_kind"`
	Name      string     `json:"name" validate:"required,max=120"`
	Width     *int       `json:"width" validate:"omitempty,min=1,max=12"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Text      string `json:"text" validate:"max=40000"`
	TextColor string `json:"text_color" validate:"omitempty,hexcolor"`

	ImageKey string       `json:"image_key"`
	Link     *linkPayload `json:"link"`

	DisplayType          string     `json:"display_type" validate:"omitempty,oneof=gallery row_focus"`
	UpcomingOnly         bool       `json:"upcoming_only"`
	UpcomingWindowDays   *int       `json:"upcoming_window_days" validate:"omitempty,min=1"`
	SourceHouseTeamID    *uuid.UUID `json:"source_house_team_id"`
	ClassType            string     `json:"class_type" validate:"omitempty,oneof=IMPROV SKETCH ACTING WORKSHOP"`
	OnlyOpenRegistration bool       `json:"only_open_registration"`

	TargetID *uuid.UUID `json:"target_id"`

	Description string `json:"description" validate:"max=2000"`
	AudioKey    string `json:"audio_key"`
	VideoKey    string `json:"video_key"`
}

// variant builds the kind-specific payload. Membership lists are managed
// through the members endpoint, so the hand-picked id slices start empty.
func (p *widgetPayload) variant() models.Variant {
	displayType := p.DisplayType
	if displayType == "" {
		displayType = models.DisplayGallery
	}

	switch models.WidgetKind(p.Kind) {
	case models.WidgetText:
		return &models.TextVariant{Content: p.Text, TextColor: p.TextColor}
	case models.WidgetBanner:
		return &models.BannerVariant{ImageKey: p.ImageKey, Link: p.Link.ref()}
	case models.WidgetImageCarousel:
		return &models.CarouselVariant{}
	case models.WidgetEvents:
		return &models.EventsVariant{
			DisplayType:        displayType,
			UpcomingOnly:       p.UpcomingOnly,
			UpcomingWindowDays: p.UpcomingWindowDays,
		}
	case models.WidgetPeople:
		return &models.PeopleVariant{
			DisplayType:       displayType,
			SourceHouseTeamID: p.SourceHouseTeamID,
		}
	case models.WidgetApeClasses:
		return &models.ApeClassesVariant{
			DisplayType:          displayType,
			ClassType:            p.ClassType,
			OnlyOpenRegistration: p.OnlyOpenRegistration,
		}
	case models.WidgetVideos:
		return &models.VideosVariant{DisplayType: displayType}
	case models.WidgetEventFocus:
		return &models.EventFocusVariant{EventID: p.TargetID}
	case models.WidgetPersonFocus:
		return &models.PersonFocusVariant{PersonID: p.TargetID}
	case models.WidgetApeClassFocus:
		return &models.ApeClassFocusVariant{ApeClassID: p.TargetID}
	case models.WidgetHouseTeamFocus:
		return &models.HouseTeamFocusVariant{HouseTeamID: p.TargetID}
	case models.WidgetAudio:
		return &models.AudioVariant{AudioKey: p.AudioKey, Description: p.Description}
	case models.WidgetVideo:
		return &models.VideoVariant{VideoKey: p.VideoKey, Description: p.Description}
	}
	return nil
}

// carouselItemPayload is the create body for a carousel image. Every item
// must link somewhere; an image nobody can tap is a content mistake.
type carouselItemPayload struct {
	ImageKey  string       `json:"image_key" validate:"required"`
	Link      *linkPayload `json:"link" validate:"required"`
	SortOrder *int         `json:"sort_order"`
	StartDate *time.Time   `json:"start_date"`
	EndDate   *time.Time   `json:"end_date"`
}

// eventPayload is the create/update body for an event.
type eventPayload struct {
	Name             string     `json:"name" validate:"required,max=200"`
	Bio              string     `json:"bio"`
	StartTime        *time.Time `json:"start_time"`
	MaxTickets       *int       `json:"max_tickets" validate:"omitempty,min=0"`
	TicketsSold      int        `json:"tickets_sold" validate:"min=0"`
	TicketPriceCents int64      `json:"ticket_price_cents" validate:"min=0"`
	BannerWidgetID   *uuid.UUID `json:"banner_widget_id"`
}

func (p *eventPayload) apply(e *models.Event) {
	e.Name = p.Name
	e.Bio = p.Bio
	e.StartTime = p.StartTime
	e.MaxTickets = p.MaxTickets
	e.TicketsSold = p.TicketsSold
	e.TicketPriceCents = p.TicketPriceCents
	e.BannerWidgetID = p.BannerWidgetID
}

// personPayload is the create/update body for a performer.
type personPayload struct {
	FirstName   string `json:"first_name" validate:"required,max=80"`
	LastName    string `json:"last_name" validate:"required,max=80"`
	Bio         string `json:"bio"`
	HeadshotKey string `json:"headshot_key"`
	Teaches     bool   `json:"teaches"`
	Performs    bool   `json:"performs"`
}

func (p *personPayload) apply(person *models.Person) {
	person.FirstName = p.FirstName
	person.LastName = p.LastName
	person.Bio = p.Bio
	person.HeadshotKey = p.HeadshotKey
	person.Teaches = p.Teaches
	person.Performs = p.Performs
}

// houseTeamPayload is the create/update body for a house team.
type houseTeamPayload struct {
	Name             string     `json:"name" validate:"required,max=120"`
	ShowTime         *string    `json:"show_time" validate:"omitempty,max=120"`
	LogoWidgetID     *uuid.UUID `json:"logo_widget_id"`
	CarouselWidgetID *uuid.UUID `json:"carousel_widget_id"`
}

func (p *houseTeamPayload) apply(h *models.HouseTeam) {
	h.Name = p.Name
	h.ShowTime = p.ShowTime
	h.LogoWidgetID = p.LogoWidgetID
	h.CarouselWidgetID = p.CarouselWidgetID
}

// classPayload is the create/update body for a class.
type classPayload struct {
	Name             string     `json:"name" validate:"required,max=200"`
	Bio              string     `json:"bio"`
	ClassType        string     `json:"class_type" validate:"required,oneof=IMPROV SKETCH ACTING WORKSHOP"`
	BannerWidgetID   *uuid.UUID `json:"banner_widget_id"`
	TeacherID        *uuid.UUID `json:"teacher_id"`
	StartDate        *time.Time `json:"start_date"`
	NumSessions      int        `json:"num_sessions" validate:"min=0"`
	MaxEnrollment    int        `json:"max_enrollment" validate:"min=0"`
	EnrollmentOpens  *time.Time `json:"enrollment_opens"`
	EnrollmentCloses *time.Time `json:"enrollment_closes"`
	PriceCents       int64      `json:"price_cents" validate:"min=0"`
}

func (p *classPayload) apply(c *models.ApeClass) {
	c.Name = p.Name
	c.Bio = p.Bio
	c.ClassType = p.ClassType
	c.BannerWidgetID = p.BannerWidgetID
	c.TeacherID = p.TeacherID
	c.StartDate = p.StartDate
	c.NumSessions = p.NumSessions
	c.MaxEnrollment = p.MaxEnrollment
	c.EnrollmentOpens = p.EnrollmentOpens
	c.EnrollmentCloses = p.EnrollmentCloses
	c.PriceCents = p.PriceCents
}

// idListPayload carries an ordered list of ids for membership and
// reorder endpoints.
type idListPayload struct {
	IDs []uuid.UUID `json:"ids"`
}

// attachPayload adds a widget to a page, optionally at a fixed position.
type attachPayload struct {
	WidgetID  uuid.UUID `json:"widget_id" validate:"required"`
	SortOrder *int      `json:"sort_order"`
}

// decodeAndValidate reads a JSON body into dst and validates it. On
// failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"body": "invalid JSON: " + err.Error()},
		})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": fieldErrors(err),
		})
		return false
	}
	return true
}

// fieldErrors flattens validator output into a field-keyed message map.
// Nested fields are dotted paths, e.g. "link.kind".
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fieldPath(fe)] = fieldMessage(fe)
	}
	return out
}

// fieldPath strips the payload struct name from the namespace, leaving
// the json path of the offending field.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "hexcolor":
		return "must be a hex color like #1a2b3c"
	case "widget_kind":
		return "is not a known widget kind"
	case "link_kind":
		return "is not a linkable kind"
	case "page_slug":
		return "is not an allowed page slug"
	default:
		return "is invalid"
	}
}
