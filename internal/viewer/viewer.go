// Package viewer assembles the pan/zoom image viewer: transform, feature
// sets, renderer, controller, gestures and hover dispatch.
package viewer

import (
	"fmt"
	"image"
	"time"

	"github.com/example/pixelpane/internal/control"
	"github.com/example/pixelpane/internal/event"
	"github.com/example/pixelpane/internal/frameclock"
	"github.com/example/pixelpane/internal/interact"
	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/model"
	"github.com/example/pixelpane/internal/render"
)

type settings struct {
	render       []render.Option
	controller   []control.ControllerOption
	gestures     []control.GesturesOption
	hover        []interact.Option
	tau          time.Duration
	highlightHov bool
}

// Option configures a Viewer.
type Option func(*settings)

// WithRenderOptions passes options to the renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(s *settings) { s.render = append(s.render, opts...) }
}

// WithControllerOptions passes options to the controller.
func WithControllerOptions(opts ...control.ControllerOption) Option {
	return func(s *settings) { s.controller = append(s.controller, opts...) }
}

// WithGesturesOptions passes options to the gesture mapper.
func WithGesturesOptions(opts ...control.GesturesOption) Option {
	return func(s *settings) { s.gestures = append(s.gestures, opts...) }
}

// WithHoverOptions passes options to the hover dispatcher.
func WithHoverOptions(opts ...interact.Option) Option {
	return func(s *settings) { s.hover = append(s.hover, opts...) }
}

// WithKineticTimeConstant sets the fling decay time constant.
func WithKineticTimeConstant(d time.Duration) Option { return func(s *settings) { s.tau = d } }

// WithHoverHighlight outlines the feature under the pointer.
func WithHoverHighlight() Option { return func(s *settings) { s.highlightHov = true } }

// Viewer shows one image with feature overlays on a canvas.
type Viewer struct {
	transform *model.Transform
	sets      *model.FeatureSets
	renderer  *render.Renderer
	ctrl      *control.Controller
	kinetic   *control.Kinetic
	gestures  *control.Gestures
	hover     *interact.Hover
	listeners event.Group
	destroyed bool
}

// New creates a viewer drawing img onto canvas and requests the first
// frame. The canvas stays owned by the caller.
func New(clock frameclock.Clock, canvas render.Canvas, img image.Image, opts ...Option) (*Viewer, error) {
	if img == nil {
		return nil, fmt.Errorf("viewer: no image")
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("viewer: empty image %v", b)
	}
	var s settings
	for _, o := range opts {
		o(&s)
	}

	v := &Viewer{
		transform: model.NewTransform(),
		sets:      model.NewFeatureSets(),
	}
	v.renderer = render.New(clock, canvas, img, v.transform, v.sets, s.render...)
	v.ctrl = control.NewController(v.renderer, v.transform, s.controller...)
	v.kinetic = control.NewKinetic(v.renderer, v.ctrl, s.tau)
	v.hover = interact.NewHover(v.sets, v.renderer, interact.NewFrameClock(clock), s.hover...)
	v.gestures = control.NewGestures(v.ctrl, v.kinetic, v.hover, s.gestures...)

	v.listeners.Add(v.renderer, v.renderer.Rendered.Subscribe(func(struct{}) { v.hover.Refresh() }))
	if s.highlightHov {
		v.listeners.Add(v.hover, v.hover.Changed.Subscribe(v.renderer.SetHighlight))
	}

	iw, ih := v.renderer.ImageSize()
	cw, ch := v.renderer.ViewportSize()
	logging.For("viewer").Debug("viewer ready", "image", fmt.Sprintf("%dx%d", iw, ih), "viewport", fmt.Sprintf("%dx%d", cw, ch))
	v.renderer.Render()
	return v, nil
}

// AddFeatureSet shows set on top of the sets already added. Adding a set
// twice is ignored.
func (v *Viewer) AddFeatureSet(set *model.FeatureSet) {
	if v.destroyed || !v.sets.Add(set) {
		return
	}
	changed := func(*model.Feature) { v.renderer.Render() }
	v.listeners.Add(set, set.Added.Subscribe(changed))
	v.listeners.Add(set, set.Removed.Subscribe(changed))
	v.listeners.Add(set, set.Changed.Subscribe(changed))
	v.renderer.Render()
}

// RemoveFeatureSet hides set. It reports whether the set was shown.
func (v *Viewer) RemoveFeatureSet(set *model.FeatureSet) bool {
	if v.destroyed || !v.sets.Remove(set) {
		return false
	}
	v.listeners.ReleaseTarget(set)
	v.renderer.Render()
	return true
}

// ApplyViewportResize adapts the viewer to a canvas of w x h pixels and
// keeps the image on screen.
func (v *Viewer) ApplyViewportResize(w, h int) error {
	if v.destroyed {
		return nil
	}
	if err := v.renderer.ApplyViewportResize(w, h); err != nil {
		return err
	}
	v.ctrl.ClampToScreen()
	v.renderer.Render()
	return nil
}

// Render requests a frame.
func (v *Viewer) Render() { v.renderer.Render() }

// FeatureAt returns the feature under the viewport point (x, y).
func (v *Viewer) FeatureAt(x, y float64) *model.Feature { return v.renderer.FeatureAt(x, y) }

// ImageBounds returns the canvas pixels covered by the image, clipped to
// the canvas.
func (v *Viewer) ImageBounds() image.Rectangle {
	q, ok := v.renderer.ImageQuad()
	if !ok {
		return image.Rectangle{}
	}
	w, h := v.renderer.ViewportSize()
	return q.Rect().Intersect(image.Rect(0, 0, w, h))
}

func (v *Viewer) Transform() *model.Transform     { return v.transform }
func (v *Viewer) FeatureSets() *model.FeatureSets { return v.sets }
func (v *Viewer) Renderer() *render.Renderer      { return v.renderer }
func (v *Viewer) Controller() *control.Controller { return v.ctrl }
func (v *Viewer) Kinetic() *control.Kinetic       { return v.kinetic }
func (v *Viewer) Gestures() *control.Gestures     { return v.gestures }
func (v *Viewer) Hover() *interact.Hover          { return v.hover }
func (v *Viewer) Frame() image.Image              { return v.renderer.Frame() }
func (v *Viewer) ViewportSize() (int, int)        { return v.renderer.ViewportSize() }
func (v *Viewer) ImageSize() (int, int)           { return v.renderer.ImageSize() }
func (v *Viewer) Highlight() *model.Feature       { return v.renderer.Highlight() }
func (v *Viewer) SetHighlight(f *model.Feature)   { v.renderer.SetHighlight(f) }

// Destroy stops all pending work and detaches from the feature sets. The
// sets themselves and the canvas are left to their owners.
func (v *Viewer) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	v.kinetic.Stop()
	v.hover.Stop()
	v.listeners.ReleaseAll()
	v.renderer.Destroy()
}
