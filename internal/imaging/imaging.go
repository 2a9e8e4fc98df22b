// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Package imaging normalizes uploaded images before they reach storage.
// Oversized uploads are downscaled to a display ceiling and re-encoded;
// anything already within bounds passes through untouched.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxWidth is the display ceiling for uploaded images. Banner and
// carousel slots never render wider than this.
const MaxWidth = 1920

// JPEGQuality is the re-encode quality for downscaled JPEGs.
const JPEGQuality = 85

// Processed is a normalized upload ready for storage.
type Processed struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Normalize decodes an uploaded image, downscales it to MaxWidth when it
// is wider, and re-encodes it. The output format follows the input:
// PNGs stay PNG (logos need their transparency), everything else becomes
// JPEG.
func Normalize(data []byte, contentType string) (*Processed, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > MaxWidth {
		src = imaging.Resize(src, MaxWidth, 0, imaging.Lanczos)
		bounds = src.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	} else if !needsReencode(contentType, format) {
		return &Processed{Data: data, ContentType: contentType, Width: width, Height: height}, nil
	}

	var buf bytes.Buffer
	outType := "image/jpeg"
	if format == "png" {
		outType = "image/png"
		err = imaging.Encode(&buf, src, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	}
	if err != nil {
		return nil, fmt.Errorf("imaging: encode %s: %w", outType, err)
	}

	return &Processed{Data: buf.Bytes(), ContentType: outType, Width: width, Height: height}, nil
}

// needsReencode reports whether the upload should be rewritten even when
// no resize happened: the declared content type lying about the actual
// format is the common case (a PNG named .jpg).
func needsReencode(contentType, format string) bool {
	declared := strings.TrimPrefix(contentType, "image/")
	if declared == "jpg" {
		declared = "jpeg"
	}
	return declared != format
}
