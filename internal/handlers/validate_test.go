// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"testing"

	"github.com/google/uuid"

	"marquee/internal/models"
)

func TestFieldErrorsUseJSONNames(t *testing.T) {
	payload := widgetPayload{Kind: "text"} // name missing
	err := validate.Struct(&payload)
	if err == nil {
		t.Fatal("expected validation error")
	}
	errs := fieldErrors(err)
	if errs["name"] != "is required" {
		t.Errorf("errs = %v", errs)
	}
}

func TestFieldErrorsNestedPath(t *testing.T) {
	payload := carouselItemPayload{
		ImageKey: "x.jpg",
		Link:     &linkPayload{Kind: "spaceship", ID: uuid.New()},
	}
	err := validate.Struct(&payload)
	if err == nil {
		t.Fatal("expected validation error")
	}
	errs := fieldErrors(err)
	if errs["link.kind"] == "" {
		t.Errorf("expected nested link.kind error, got %v", errs)
	}
}

func TestCarouselItemLinkRequired(t *testing.T) {
	payload := carouselItemPayload{ImageKey: "x.jpg"}
	err := validate.Struct(&payload)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if errs := fieldErrors(err); errs["link"] != "is required" {
		t.Errorf("errs = %v", errs)
	}
}

func TestWidgetPayloadVariants(t *testing.T) {
	window := 7
	target := uuid.New()

	tests := []struct {
		name    string
		payload widgetPayload
		check   func(t *testing.T, v models.Variant)
	}{
		{
			name:    "text",
			payload: widgetPayload{Kind: "text", Name: "t", Text: "hello", TextColor: "#fff"},
			check: func(t *testing.T, v models.Variant) {
				tv := v.(*models.TextVariant)
				if tv.Content != "hello" || tv.TextColor != "#fff" {
					t.Errorf("variant = %+v", tv)
				}
			},
		},
		{
			name:    "events default display type",
			payload: widgetPayload{Kind: "events", Name: "e", UpcomingOnly: true, UpcomingWindowDays: &window},
			check: func(t *testing.T, v models.Variant) {
				ev := v.(*models.EventsVariant)
				if ev.DisplayType != models.DisplayGallery {
					t.Errorf("display type = %q", ev.DisplayType)
				}
				if !ev.UpcomingOnly || ev.UpcomingWindowDays == nil || *ev.UpcomingWindowDays != 7 {
					t.Errorf("variant = %+v", ev)
				}
			},
		},
		{
			name:    "event focus",
			payload: widgetPayload{Kind: "event_focus", Name: "f", TargetID: &target},
			check: func(t *testing.T, v models.Variant) {
				fv := v.(*models.EventFocusVariant)
				if fv.EventID == nil || *fv.EventID != target {
					t.Errorf("variant = %+v", fv)
				}
			},
		},
		{
			name:    "video",
			payload: widgetPayload{Kind: "video", Name: "v", VideoKey: "clip.mp4", Description: "d"},
			check: func(t *testing.T, v models.Variant) {
				vv := v.(*models.VideoVariant)
				if vv.VideoKey != "clip.mp4" || vv.Description != "d" {
					t.Errorf("variant = %+v", vv)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validate.Struct(&tt.payload); err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
			v := tt.payload.variant()
			if v == nil {
				t.Fatal("variant() returned nil")
			}
			tt.check(t, v)
		})
	}
}

func TestPageCacheKeys(t *testing.T) {
	slug := "home"
	page := &models.Page{ID: uuid.New(), Slug: &slug}

	keys := pageCacheKeys(page)
	if len(keys) != 4 {
		t.Fatalf("keys = %v", keys)
	}

	page.Slug = nil
	if keys := pageCacheKeys(page); len(keys) != 2 {
		t.Errorf("keys without slug = %v", keys)
	}
}
