// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"slug":"home","widgets":[]}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/pages/home", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	for _, kv := range securityHeaders {
		t.Run(kv[0], func(t *testing.T) {
			if got := rr.Header().Get(kv[0]); got != kv[1] {
				t.Errorf("%s: got %q, want %q", kv[0], got, kv[1])
			}
		})
	}

	// Spot-check the two that matter most for an embedded page API.
	if got := rr.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options: got %q, want SAMEORIGIN", got)
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q, want nosniff", got)
	}
}
