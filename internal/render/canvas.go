// Package render draws the visible frame: the raster image under the
// feature overlays, on a pluggable 2D canvas.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
)

// ErrUnknownCanvas is returned by NewCanvas for an unsupported kind.
var ErrUnknownCanvas = errors.New("unknown canvas kind")

// Kind names a Canvas implementation.
type Kind string

const (
	// KindGG draws with the gogpu/gg rasterizer.
	KindGG Kind = "gg"
	// KindRaster draws with golang.org/x/image/draw onto an *image.RGBA.
	KindRaster Kind = "raster"
)

// Kinds lists the supported canvas kinds.
func Kinds() []Kind { return []Kind{KindGG, KindRaster} }

// ParseKind resolves a kind name case-insensitively. The empty string
// selects KindGG.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindGG:
		return KindGG, nil
	case KindRaster:
		return KindRaster, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCanvas, s)
}

// Quad is a rectangle in window pixels: origin top-left, y down.
type Quad struct {
	X, Y, W, H float64
}

// Rect rounds q to whole pixels.
func (q Quad) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(q.X)), int(math.Round(q.Y)),
		int(math.Round(q.X+q.W)), int(math.Round(q.Y+q.H)),
	)
}

// Intersects reports whether q overlaps a w x h canvas.
func (q Quad) Intersects(w, h int) bool {
	return q.X+q.W >= 0 && q.X <= float64(w) && q.Y+q.H >= 0 && q.Y <= float64(h)
}

// Canvas is the drawing surface of the visible pass. Colors passed to it
// carry straight, non-premultiplied alpha.
type Canvas interface {
	Size() (int, int)
	Resize(w, h int) error
	Clear(c color.RGBA)
	// DrawImage scales the src part of img onto dst.
	DrawImage(img image.Image, src image.Rectangle, dst Quad) error
	FillRect(dst Quad, c color.RGBA) error
	StrokeRect(dst Quad, c color.RGBA, width float64) error
	// Image returns the current frame.
	Image() image.Image
	Close() error
}

// NewCanvas creates a w x h canvas of the given kind.
func NewCanvas(kind Kind, w, h int) (Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d: dimensions must be positive", w, h)
	}
	switch kind {
	case KindGG:
		return NewGG(w, h), nil
	case KindRaster:
		return NewRaster(w, h), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCanvas, kind)
}

func nrgba(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
