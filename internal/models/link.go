// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"

	"github.com/google/uuid"
)

// LinkKind tags a generic link's target type. Banners and carousel items
// can point at any of these.
type LinkKind string

const (
	LinkPage      LinkKind = "page"
	LinkEvent     LinkKind = "event"
	LinkPerson    LinkKind = "person"
	LinkHouseTeam LinkKind = "house_team"
	LinkApeClass  LinkKind = "ape_class"
)

// LinkRef is an explicit tagged reference replacing the old
// (content type, object id) generic foreign key. A nil *LinkRef means
// "no link".
type LinkRef struct {
	Kind LinkKind  `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// apiPathFuncs maps each linkable kind to its canonical API path rule.
// Events carry their own template; everything else follows the catalog
// pattern.
var apiPathFuncs = map[LinkKind]func(uuid.UUID) string{
	LinkPage:      func(id uuid.UUID) string { return fmt.Sprintf("/pages/%s.json", id) },
	LinkEvent:     func(id uuid.UUID) string { return eventAPIPath(id) },
	LinkPerson:    func(id uuid.UUID) string { return fmt.Sprintf("/people/%s.json", id) },
	LinkHouseTeam: func(id uuid.UUID) string { return fmt.Sprintf("/house_teams/%s.json", id) },
	LinkApeClass:  func(id uuid.UUID) string { return fmt.Sprintf("/classes/%s.json", id) },
}

func eventAPIPath(id uuid.UUID) string {
	return fmt.Sprintf("/events/%s.json", id)
}

// APIPath resolves the canonical API path for the link target, or
// ("", false) when the kind is unset or unknown. Callers treat the false
// case as "no link" rather than an error.
func (l *LinkRef) APIPath() (string, bool) {
	if l == nil || l.Kind == "" {
		return "", false
	}
	fn, ok := apiPathFuncs[l.Kind]
	if !ok {
		return "", false
	}
	return fn(l.ID), true
}

// Valid reports whether k names a linkable kind.
func (k LinkKind) Valid() bool {
	_, ok := apiPathFuncs[k]
	return ok
}
