// Package viewport converts between the three coordinate spaces of the
// viewer:
//
//   - image space: centred on the image, y up
//   - viewport space: centred on the viewport, y up, in pixels
//   - window space: origin at the top-left pixel, y down
//
// Matrices are golang.org/x/image/math/f64 affine transforms mapping
// (x, y) to (m[0]*x+m[1]*y+m[2], m[3]*x+m[4]*y+m[5]).
package viewport

import (
	"golang.org/x/image/math/f64"

	"github.com/example/pixelpane/internal/event"
	"github.com/example/pixelpane/internal/generation"
	"github.com/example/pixelpane/internal/model"
)

// Identity is the identity transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Mul returns the transform applying b first, then a.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply maps (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Invert returns the inverse of m. It panics when m is singular.
func Invert(m f64.Aff3) f64.Aff3 {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 {
		panic("viewport: singular matrix")
	}
	a, b, d, e := m[4]/det, -m[1]/det, -m[3]/det, m[0]/det
	return f64.Aff3{
		a, b, -(a*m[2] + b*m[5]),
		d, e, -(d*m[2] + e*m[5]),
	}
}

// Projection maps viewport space onto window pixels for a viewport of a
// given size.
type Projection struct {
	gen    generation.Counter
	width  int
	height int
	matrix f64.Aff3
	dirty  bool
}

// NewProjection creates a projection for a width x height viewport.
func NewProjection(width, height int) *Projection {
	p := &Projection{width: width, height: height, dirty: true}
	p.gen.Attach()
	return p
}

func (p *Projection) Generation() uint64 { return p.gen.Generation() }

func (p *Projection) Width() int  { return p.width }
func (p *Projection) Height() int { return p.height }

// SetWidth changes the width. Setting the current width is not a mutation.
func (p *Projection) SetWidth(w int) {
	if w == p.width {
		return
	}
	p.width = w
	p.dirty = true
	p.gen.Bump()
}

// SetHeight changes the height. Setting the current height is not a
// mutation.
func (p *Projection) SetHeight(h int) {
	if h == p.height {
		return
	}
	p.height = h
	p.dirty = true
	p.gen.Bump()
}

// Matrix returns the viewport-to-window transform.
func (p *Projection) Matrix() f64.Aff3 {
	if p.dirty {
		p.matrix = f64.Aff3{
			1, 0, float64(p.width) / 2,
			0, -1, float64(p.height) / 2,
		}
		p.dirty = false
	}
	return p.matrix
}

// Contains reports whether a viewport-space point lies inside the viewport.
func (p *Projection) Contains(x, y float64) bool {
	return abs(x) <= float64(p.width)/2 && abs(y) <= float64(p.height)/2
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Transformation is the image-to-viewport matrix of a model.Transform. It
// bumps its own generation whenever the transform changes and recomputes the
// matrix lazily.
type Transformation struct {
	gen       generation.Counter
	transform *model.Transform
	tracker   generation.Tracker
	matrix    f64.Aff3
	sub       event.Subscription
}

// NewTransformation follows t until Release.
func NewTransformation(t *model.Transform) *Transformation {
	m := &Transformation{transform: t}
	m.gen.Attach()
	m.sub = t.Changed.Subscribe(func(struct{}) { m.gen.Bump() })
	return m
}

func (m *Transformation) Generation() uint64 { return m.gen.Generation() }

// Transform returns the followed transform.
func (m *Transformation) Transform() *model.Transform { return m.transform }

// Matrix returns the image-to-viewport transform.
func (m *Transformation) Matrix() f64.Aff3 {
	m.tracker.Update(m.transform, func() {
		s := m.transform.Scale()
		m.matrix = f64.Aff3{
			s, 0, s * m.transform.TranslateX(),
			0, s, s * m.transform.TranslateY(),
		}
	})
	return m.matrix
}

// Release stops following the transform.
func (m *Transformation) Release() {
	if m.sub != nil {
		m.sub.Release()
		m.sub = nil
	}
}
