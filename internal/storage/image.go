package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
)

const (
	MaxUploadSize = 5 << 20
	MaxDimension  = 1000
	webpQuality   = 80
)

// Normalize validates an image upload, bounds it to MaxDimension on both
// sides and re-encodes it as WebP.
func Normalize(up Upload) (Upload, error) {
	if up.ContentType != "" && !strings.HasPrefix(up.ContentType, "image/") {
		return Upload{}, httperr.Validation("invalid_file_type", "Only image files are accepted.")
	}
	if up.Size > MaxUploadSize {
		return Upload{}, httperr.Validation("file_too_large", "Files must not exceed 5 MB.")
	}

	raw, err := io.ReadAll(io.LimitReader(up.Body, MaxUploadSize+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > MaxUploadSize {
		return Upload{}, httperr.Validation("file_too_large", "Files must not exceed 5 MB.")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Upload{}, httperr.Validation("invalid_image", "The uploaded file is not a readable image.")
	}

	img = fit(img, MaxDimension)

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: webpQuality}); err != nil {
		return Upload{}, fmt.Errorf("encode webp: %w", err)
	}

	return Upload{
		Name:        up.Name,
		ContentType: "image/webp",
		Size:        int64(out.Len()),
		Body:        bytes.NewReader(out.Bytes()),
	}, nil
}

func fit(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}

	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
