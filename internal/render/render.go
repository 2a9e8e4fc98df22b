// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Package render provides the server-side HTML wrapper over page and
// catalog projections. Each widget type has its own template; a widget
// whose type has no template is skipped in HTML output, while the JSON
// API still carries it.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"marquee/internal/markdown"
)

//go:embed templates/*.html templates/widgets/*.html
var templateFS embed.FS

// Renderer executes the page wrapper and per-widget templates.
type Renderer struct {
	page    *template.Template
	entity  *template.Template
	widgets map[string]*template.Template
}

// New parses all embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{widgets: make(map[string]*template.Template)}

	funcs := template.FuncMap{
		// markdown renders widget text as HTML.
		"markdown": func(source any) template.HTML {
			s, _ := source.(string)
			out, err := markdown.ToHTML(s)
			if err != nil {
				slog.Warn("markdown render failed", "error", err)
				return template.HTML(template.HTMLEscapeString(s))
			}
			return template.HTML(out)
		},
		"widget": r.widgetHTML,
	}

	page, err := template.New("page.html").Funcs(funcs).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	r.page = page

	entity, err := template.New("entity.html").Funcs(funcs).ParseFS(templateFS, "templates/entity.html")
	if err != nil {
		return nil, fmt.Errorf("parse entity template: %w", err)
	}
	r.entity = entity

	entries, err := fs.ReadDir(templateFS, "templates/widgets")
	if err != nil {
		return nil, fmt.Errorf("read widget templates: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".html")
		t, err := template.New(e.Name()).Funcs(funcs).ParseFS(templateFS, "templates/widgets/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("parse widget template %s: %w", e.Name(), err)
		}
		r.widgets[name] = t
	}
	return r, nil
}

// Page writes the HTML wrapper for a composed page projection.
func (r *Renderer) Page(w io.Writer, data map[string]any) error {
	if err := r.page.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Entity writes the HTML wrapper for a catalog entity projection
// (event, person, house team, class).
func (r *Renderer) Entity(w io.Writer, title string, data map[string]any) error {
	payload := map[string]any{"title": title, "entity": data}
	if err := r.entity.Execute(w, payload); err != nil {
		return fmt.Errorf("render entity: %w", err)
	}
	return nil
}

// widgetHTML renders one widget projection with the template matching its
// projected type. Unknown types produce no output.
func (r *Renderer) widgetHTML(data map[string]any) template.HTML {
	kind, _ := data["type"].(string)
	t, ok := r.widgets[kind]
	if !ok {
		return ""
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		slog.Warn("widget template failed", "type", kind, "error", err)
		return ""
	}
	return template.HTML(buf.String())
}
