package storage

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxDimension   = 1600
	MaxUploadBytes = 10 << 20
	// MaxPixels caps the decoded size; a few KB of PNG can declare
	// gigapixel dimensions.
	MaxPixels   = 40_000_000
	webpQuality = 80
)

var (
	ErrUnsupportedImage = errors.New("storage: unsupported image")
	ErrImageTooLarge    = errors.New("storage: image too large")
)

type Image struct {
	Data   []byte
	Width  int
	Height int
}

// Transcode decodes a JPEG, PNG or WebP upload, fits it inside
// MaxDimension on its longest side and re-encodes it as lossy WebP.
// Images above MaxPixels fail with ErrImageTooLarge before any pixel
// is decoded.
func Transcode(r io.Reader) (*Image, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrUnsupportedImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, ErrImageTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	img := fit(src, MaxDimension)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &Image{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
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
