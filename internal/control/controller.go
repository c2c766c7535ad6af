// Package control turns user intent (pans, zooms, flings) into changes of
// the view transform.
package control

import (
	"github.com/example/pixelpane/internal/model"
)

// Default limits of the view transform.
const (
	DefaultMinScale    = 0.1
	DefaultMaxScale    = 10
	DefaultClampBorder = 0.2
)

// View is the part of the renderer the controller drives.
type View interface {
	Render()
	StartBatch()
	CommitBatch()
	ViewportSize() (int, int)
	ImageSize() (int, int)
}

// Controller applies clamped pans and zooms to a transform and requests a
// render after each change.
type Controller struct {
	view      View
	transform *model.Transform

	minScale, maxScale float64
	border             float64
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithScaleLimits bounds the zoom factor. Invalid ranges are ignored.
func WithScaleLimits(lo, hi float64) ControllerOption {
	return func(c *Controller) {
		if lo > 0 && hi >= lo {
			c.minScale, c.maxScale = lo, hi
		}
	}
}

// WithClampBorder sets the fraction of half the viewport that must keep
// showing the image.
func WithClampBorder(f float64) ControllerOption {
	return func(c *Controller) {
		if f >= 0 && f <= 1 {
			c.border = f
		}
	}
}

// NewController drives transform through view.
func NewController(view View, transform *model.Transform, opts ...ControllerOption) *Controller {
	c := &Controller{
		view:      view,
		transform: transform,
		minScale:  DefaultMinScale,
		maxScale:  DefaultMaxScale,
		border:    DefaultClampBorder,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) Scale() float64      { return c.transform.Scale() }
func (c *Controller) TranslateX() float64 { return c.transform.TranslateX() }
func (c *Controller) TranslateY() float64 { return c.transform.TranslateY() }

// ScaleLimits returns the allowed zoom range.
func (c *Controller) ScaleLimits() (float64, float64) { return c.minScale, c.maxScale }

// TranslateAbsolute moves the image to (dx, dy), clamped to the screen.
func (c *Controller) TranslateAbsolute(dx, dy float64) {
	c.transform.SetTranslateX(c.clampX(dx))
	c.transform.SetTranslateY(c.clampY(dy))
	c.view.Render()
}

// TranslateRelative moves the image by (dx, dy), clamped to the screen.
func (c *Controller) TranslateRelative(dx, dy float64) {
	c.TranslateAbsolute(c.transform.TranslateX()+dx, c.transform.TranslateY()+dy)
}

// ClampToScreen pulls the image back if it drifted out of view, for
// example after the viewport shrank.
func (c *Controller) ClampToScreen() {
	dx, dy := c.transform.TranslateX(), c.transform.TranslateY()
	cx, cy := c.clampX(dx), c.clampY(dy)
	if cx == dx && cy == dy {
		return
	}
	c.TranslateAbsolute(cx, cy)
}

// Rescale sets the zoom factor, clamped to the scale limits.
func (c *Controller) Rescale(scale float64) {
	c.transform.SetScale(clamp(scale, c.minScale, c.maxScale))
	c.view.Render()
}

// RescaleAround zooms to scale keeping the viewport point (x, y) fixed on
// screen. The whole change renders as one frame.
func (c *Controller) RescaleAround(scale, x, y float64) {
	scale = clamp(scale, c.minScale, c.maxScale)
	fac := 1 - scale/c.transform.Scale()

	c.StartBatch()
	defer c.CommitBatch()
	c.Rescale(scale)
	c.TranslateRelative(x/scale*fac, y/scale*fac)
}

func (c *Controller) StartBatch()  { c.view.StartBatch() }
func (c *Controller) CommitBatch() { c.view.CommitBatch() }

func (c *Controller) clampX(dx float64) float64 {
	vw, _ := c.view.ViewportSize()
	iw, _ := c.view.ImageSize()
	return clampAxis(dx, float64(vw)/2, float64(iw)/2, c.transform.Scale(), c.border)
}

func (c *Controller) clampY(dy float64) float64 {
	_, vh := c.view.ViewportSize()
	_, ih := c.view.ImageSize()
	return clampAxis(dy, float64(vh)/2, float64(ih)/2, c.transform.Scale(), c.border)
}

// clampAxis keeps at least border*half of the viewport covered by the image
// along one axis. half and img are half extents.
func clampAxis(d, half, img, scale, border float64) float64 {
	b := half * border
	if half-(d-img)*scale < b {
		return (half-b)/scale + img
	}
	if (d+img)*scale+half < b {
		return (b-half)/scale - img
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
