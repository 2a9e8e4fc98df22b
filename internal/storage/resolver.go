// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package storage

import "strings"

// Resolver maps stored media keys to client-usable URLs. With an S3
// client it delegates to the bucket's public URL; without one it falls
// back to a path under baseURL, which a reverse proxy or local disk
// serves in development.
type Resolver struct {
	client  *Client
	baseURL string
}

// NewResolver creates a Resolver. client may be nil.
func NewResolver(client *Client, baseURL string) *Resolver {
	return &Resolver{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the public URL for a media key. Empty keys resolve to "".
func (r *Resolver) URL(key string) string {
	if key == "" {
		return ""
	}
	if r.client != nil {
		return r.client.URL(key)
	}
	return r.baseURL + "/" + strings.TrimLeft(key, "/")
}
