// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"marquee/internal/imaging"
	"marquee/internal/slug"
)

// maxUploadBytes caps an incoming media file at 32 MB.
const maxUploadBytes = 32 << 20

// MediaUpload accepts a multipart image upload, normalizes it, and stores
// it under a slug-derived key. Responds with the key and public URL.
//
//	POST /admin/media  (multipart field "file")
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		http.Error(w, "media storage not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"file": "upload too large or malformed"},
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"file": "is required"},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.internalError(w, "read upload failed", err)
		return
	}

	processed, err := imaging.Normalize(data, header.Header.Get("Content-Type"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string]string{"file": "is not a supported image"},
		})
		return
	}

	key := mediaKey(header.Filename, processed.ContentType)
	if err := a.storageClient.Upload(r.Context(), key, processed.ContentType, bytes.NewReader(processed.Data), int64(len(processed.Data))); err != nil {
		a.internalError(w, "upload media failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"key":    key,
		"url":    a.storageClient.URL(key),
		"width":  processed.Width,
		"height": processed.Height,
	})
}

// MediaDelete removes an object from storage. Widgets still holding the
// key will render a dead image URL; callers are expected to update them.
//
//	DELETE /admin/media/{key}
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		http.Error(w, "media storage not configured", http.StatusServiceUnavailable)
		return
	}
	key := chi.URLParam(r, "key")
	if key == "" {
		http.NotFound(w, r)
		return
	}
	if err := a.storageClient.Delete(r.Context(), key); err != nil {
		a.internalError(w, "delete media failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mediaKey derives a collision-proof object key from the original
// filename: slugified stem, short random suffix, extension matching the
// stored content type.
func mediaKey(filename, contentType string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	s := slug.Generate(stem)
	if s == "" {
		s = "upload"
	}
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%s%s", s, suffix, ext)
}
