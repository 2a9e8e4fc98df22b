// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestPageRendersWidgetsByType(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data := map[string]any{
		"name":       "Home",
		"background": map[string]any{"type": "solid_color", "color": "#000000"},
		"text_color": "#ffffff",
		"widgets": []map[string]any{
			{
				"type": "text",
				"name": "welcome",
				"text": "Welcome to the *theater*",
			},
			{
				"type":  "banner",
				"name":  "poster",
				"image": map[string]any{"url": "/media/banners/poster.png"},
			},
			{
				"type": "from_the_future",
				"name": "unknown widget kinds are skipped",
			},
		},
	}

	var buf bytes.Buffer
	if err := r.Page(&buf, data); err != nil {
		t.Fatalf("Page: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, "<title>Home</title>") {
		t.Error("missing page title")
	}
	if !strings.Contains(html, "<em>theater</em>") {
		t.Error("text widget markdown not rendered")
	}
	if !strings.Contains(html, "/media/banners/poster.png") {
		t.Error("banner widget not rendered")
	}
	if strings.Contains(html, "from_the_future") {
		t.Error("widget without a template should leave no trace")
	}
	if !strings.Contains(html, "background: #000000") {
		t.Error("solid background color not applied")
	}
}

func TestPageGradientBackground(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	err = r.Page(&buf, map[string]any{
		"name": "Hype",
		"background": map[string]any{
			"type":        "gradient",
			"start_color": "#111111",
			"end_color":   "#222222",
		},
		"widgets": []map[string]any{},
	})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !strings.Contains(buf.String(), "linear-gradient(#111111, #222222)") {
		t.Error("gradient background not applied")
	}
}

func TestEntityWrapper(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	err = r.Entity(&buf, "Big Show", map[string]any{
		"name":       "Big Show",
		"bio":        "One night only",
		"event_day":  "Tonight",
		"event_time": "7 pm",
	})
	if err != nil {
		t.Fatalf("Entity: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "Tonight") || !strings.Contains(html, "7 pm") {
		t.Errorf("event schedule missing from %q", html)
	}
}

func TestGroupWidgetTemplates(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	items := []map[string]any{
		{"name": "Show A", "path": "/events/1.json", "image": "/media/a.png"},
		{"name": "Show B", "path": "/events/2.json"},
	}
	for _, displayType := range []string{"gallery", "row_focus"} {
		var buf bytes.Buffer
		err := r.Page(&buf, map[string]any{
			"name":       "Shows",
			"background": map[string]any{"type": "solid_color"},
			"widgets": []map[string]any{
				{"type": displayType, "name": "g", "item_type": "event", "items": items},
			},
		})
		if err != nil {
			t.Fatalf("Page with %s: %v", displayType, err)
		}
		html := buf.String()
		if !strings.Contains(html, "Show A") || !strings.Contains(html, "Show B") {
			t.Errorf("%s items missing", displayType)
		}
	}
}
