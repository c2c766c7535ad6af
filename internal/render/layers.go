package render

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/example/pixelpane/internal/generation"
	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/model"
	"github.com/example/pixelpane/internal/picking"
	"github.com/example/pixelpane/internal/viewport"
)

// ImageLayer draws the visible part of the raster image.
type ImageLayer struct {
	img image.Image
}

// NewImageLayer wraps img.
func NewImageLayer(img image.Image) *ImageLayer {
	return &ImageLayer{img: img}
}

// Size returns the image dimensions in pixels.
func (l *ImageLayer) Size() (int, int) {
	b := l.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the wrapped image.
func (l *ImageLayer) Image() image.Image { return l.img }

// Visible returns the part of the image shown by a canvas of the
// projection's size under t, and where that part lands on the canvas.
func (l *ImageLayer) Visible(p *viewport.Projection, t *model.Transform) (image.Rectangle, Quad, bool) {
	iw, ih := l.Size()
	cw2, ch2 := float64(p.Width())/2, float64(p.Height())/2
	iw2, ih2 := float64(iw)/2, float64(ih)/2
	s, dx, dy := t.Scale(), t.TranslateX(), t.TranslateY()

	left := clampInt(math.Floor(-cw2/s-dx+iw2), 0, iw)
	right := clampInt(math.Ceil(cw2/s-dx+iw2), 0, iw)
	top := clampInt(math.Floor(-ch2/s+dy+ih2), 0, ih)
	bottom := clampInt(math.Ceil(ch2/s+dy+ih2), 0, ih)
	src := image.Rect(left, top, right, bottom)
	if src.Empty() {
		return image.Rectangle{}, Quad{}, false
	}
	dst := Quad{
		X: s*(float64(left)-iw2+dx) + cw2,
		Y: s*(float64(top)-ih2-dy) + ch2,
		W: s * float64(src.Dx()),
		H: s * float64(src.Dy()),
	}
	src = src.Add(l.img.Bounds().Min)
	return src, dst, true
}

// Render draws the visible part of the image onto c.
func (l *ImageLayer) Render(c Canvas, p *viewport.Projection, t *model.Transform) error {
	src, dst, ok := l.Visible(p, t)
	if !ok {
		return nil
	}
	if err := c.DrawImage(l.img, src, dst); err != nil {
		return fmt.Errorf("draw image: %w", err)
	}
	return nil
}

func clampInt(v float64, lo, hi int) int {
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

// FeatureLayer draws one feature set. Window geometry is cached and only
// rebuilt when the set, the projection or the transformation moved.
type FeatureLayer struct {
	set            *model.FeatureSet
	projection     *viewport.Projection
	transformation *viewport.Transformation

	quads   []Quad
	tracker generation.Tracker
}

// NewFeatureLayer creates the layer for set.
func NewFeatureLayer(set *model.FeatureSet, p *viewport.Projection, m *viewport.Transformation) *FeatureLayer {
	return &FeatureLayer{set: set, projection: p, transformation: m}
}

// Set returns the drawn feature set.
func (l *FeatureLayer) Set() *model.FeatureSet { return l.set }

// Quads returns the cached window geometry, rebuilding it when stale.
func (l *FeatureLayer) Quads() []Quad {
	l.tracker.UpdateAll([]generation.Producer{l.set, l.projection, l.transformation}, l.rebuild)
	return l.quads
}

func (l *FeatureLayer) rebuild() {
	full := viewport.Mul(l.projection.Matrix(), l.transformation.Matrix())
	l.quads = l.quads[:0]
	l.set.Each(func(_ int, f *model.Feature) {
		l.quads = append(l.quads, quadOf(full, f.Rect()))
	})
}

func quadOf(full f64.Aff3, r model.Rect) Quad {
	x, y := viewport.Apply(full, r.Left, r.Bottom+r.Height)
	return Quad{X: x, Y: y, W: full[0] * r.Width, H: -full[4] * r.Height}
}

// QuadOf returns the window geometry of f under the current matrices.
func (l *FeatureLayer) QuadOf(f *model.Feature) Quad {
	return quadOf(viewport.Mul(l.projection.Matrix(), l.transformation.Matrix()), f.Rect())
}

// Render fills every feature that intersects the canvas.
func (l *FeatureLayer) Render(c Canvas) error {
	w, h := c.Size()
	quads := l.Quads()
	for i, q := range quads {
		if !q.Intersects(w, h) {
			continue
		}
		if err := c.FillRect(q, l.set.At(i).Fill()); err != nil {
			return fmt.Errorf("feature set %q: %w", l.set.Name, err)
		}
	}
	return nil
}

// RenderPicking draws every feature in its identity color.
func (l *FeatureLayer) RenderPicking(t picking.Target, colors *picking.Colors) {
	w, h := l.projection.Width(), l.projection.Height()
	skipped := 0
	for i, q := range l.Quads() {
		if !colors.Encodable(i) {
			skipped++
			continue
		}
		if !q.Intersects(w, h) {
			continue
		}
		t.FillRect(q.Rect(), colors.Color(i))
	}
	if skipped > 0 {
		logging.For("render").Warn("features beyond identity color range are not pickable", "set", l.set.Name, "skipped", skipped)
	}
}
