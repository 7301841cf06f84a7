package entity

import (
	"image"
	"image/color"
)

// Artwork is a decoded remote image ready for presentation.
// The image is never mutated once an Artwork has been built.
type Artwork struct {
	Key   string      // Cache key the artwork was fetched for
	Image image.Image // Decoded bitmap
	Cost  int64       // Decoded size in bytes, charged against the cache budget
}

// Placeholder is returned when a request succeeded but its body could not be
// decoded into an image. It is never stored in a cache.
var Placeholder = &Artwork{Image: image.NewRGBA(image.Rectangle{})}

// NewArtwork wraps a decoded image and computes its cost.
func NewArtwork(key string, img image.Image) *Artwork {
	return &Artwork{
		Key:   key,
		Image: img,
		Cost:  DecodedSize(img),
	}
}

// IsPlaceholder reports whether a is the undecodable-body sentinel.
func (a *Artwork) IsPlaceholder() bool {
	return a == Placeholder
}

// Width returns the pixel width, or 0 for a nil artwork.
func (a *Artwork) Width() int {
	if a == nil || a.Image == nil {
		return 0
	}
	return a.Image.Bounds().Dx()
}

// Height returns the pixel height, or 0 for a nil artwork.
func (a *Artwork) Height() int {
	if a == nil || a.Image == nil {
		return 0
	}
	return a.Image.Bounds().Dy()
}

// CenterColor returns the colour of the centre pixel, used by hosts that
// can only show a swatch.
func (a *Artwork) CenterColor() (color.Color, bool) {
	if a == nil || a.Image == nil || a.Image.Bounds().Empty() {
		return nil, false
	}
	b := a.Image.Bounds()
	return a.Image.At(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2), true
}

// DecodedSize estimates the in-memory size of a decoded image in bytes.
// Known pixel buffers are measured directly; anything else is assumed to be
// 4 bytes per pixel.
func DecodedSize(img image.Image) int64 {
	if img == nil {
		return 0
	}

	switch m := img.(type) {
	case *image.RGBA:
		return int64(len(m.Pix))
	case *image.NRGBA:
		return int64(len(m.Pix))
	case *image.RGBA64:
		return int64(len(m.Pix))
	case *image.NRGBA64:
		return int64(len(m.Pix))
	case *image.Gray:
		return int64(len(m.Pix))
	case *image.Gray16:
		return int64(len(m.Pix))
	case *image.Paletted:
		return int64(len(m.Pix) + len(m.Palette)*4)
	case *image.YCbCr:
		return int64(len(m.Y) + len(m.Cb) + len(m.Cr))
	case *image.NYCbCrA:
		return int64(len(m.Y) + len(m.Cb) + len(m.Cr) + len(m.A))
	case *image.CMYK:
		return int64(len(m.Pix))
	}

	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}
