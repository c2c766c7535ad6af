package model

import (
	"image/color"

	"github.com/example/pixelpane/internal/event"
	"github.com/example/pixelpane/internal/generation"
)

// Rect is an axis-aligned rectangle in image space: centred on the image,
// y pointing up.
type Rect struct {
	Left, Bottom, Width, Height float64
}

// Contains reports whether (x, y) lies inside r. The right and top edges are
// exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Bottom && y < r.Bottom+r.Height
}

// Feature is a filled rectangle drawn over the image.
type Feature struct {
	gen   generation.Counter
	rect  Rect
	fill  color.RGBA
	label string

	// Changed fires after every setter.
	Changed event.Signal
}

// NewFeature creates a feature covering r.
func NewFeature(r Rect, fill color.RGBA, label string) *Feature {
	f := &Feature{rect: r, fill: fill, label: label}
	f.gen.Attach()
	return f
}

func (f *Feature) Generation() uint64 { return f.gen.Generation() }

func (f *Feature) Rect() Rect       { return f.rect }
func (f *Feature) Left() float64    { return f.rect.Left }
func (f *Feature) Bottom() float64  { return f.rect.Bottom }
func (f *Feature) Width() float64   { return f.rect.Width }
func (f *Feature) Height() float64  { return f.rect.Height }
func (f *Feature) Fill() color.RGBA { return f.fill }
func (f *Feature) Label() string    { return f.label }

func (f *Feature) SetLeft(v float64) {
	f.rect.Left = v
	f.changed()
}

func (f *Feature) SetBottom(v float64) {
	f.rect.Bottom = v
	f.changed()
}

func (f *Feature) SetWidth(v float64) {
	f.rect.Width = v
	f.changed()
}

func (f *Feature) SetHeight(v float64) {
	f.rect.Height = v
	f.changed()
}

// SetRect replaces all four edges with a single mutation.
func (f *Feature) SetRect(r Rect) {
	f.rect = r
	f.changed()
}

func (f *Feature) SetFill(c color.RGBA) {
	f.fill = c
	f.changed()
}

func (f *Feature) SetLabel(s string) {
	f.label = s
	f.changed()
}

func (f *Feature) changed() {
	f.gen.Bump()
	event.Notify(&f.Changed)
}
