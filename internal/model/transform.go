// Package model holds the observable state the viewer renders: the view
// transform, rectangle features and the ordered sets they live in.
package model

import (
	"github.com/example/pixelpane/internal/event"
	"github.com/example/pixelpane/internal/generation"
)

// Transform is the view transform. A point p in image space lands at
// Scale*(p+Translate) in viewport space.
type Transform struct {
	gen        generation.Counter
	scale      float64
	translateX float64
	translateY float64

	// Changed fires after every setter.
	Changed event.Signal
}

// NewTransform returns the identity transform.
func NewTransform() *Transform {
	t := &Transform{scale: 1}
	t.gen.Attach()
	return t
}

func (t *Transform) Generation() uint64 { return t.gen.Generation() }

func (t *Transform) Scale() float64      { return t.scale }
func (t *Transform) TranslateX() float64 { return t.translateX }
func (t *Transform) TranslateY() float64 { return t.translateY }

// SetScale panics on a non-positive scale.
func (t *Transform) SetScale(s float64) {
	if s <= 0 {
		panic("model: non-positive scale")
	}
	t.scale = s
	t.changed()
}

func (t *Transform) SetTranslateX(x float64) {
	t.translateX = x
	t.changed()
}

func (t *Transform) SetTranslateY(y float64) {
	t.translateY = y
	t.changed()
}

func (t *Transform) changed() {
	t.gen.Bump()
	event.Notify(&t.Changed)
}

// ToViewport maps an image-space point to viewport space.
func (t *Transform) ToViewport(x, y float64) (float64, float64) {
	return t.scale * (x + t.translateX), t.scale * (y + t.translateY)
}

// ToImage maps a viewport-space point back to image space.
func (t *Transform) ToImage(x, y float64) (float64, float64) {
	return x/t.scale - t.translateX, y/t.scale - t.translateY
}
