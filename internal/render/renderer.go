package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/example/pixelpane/internal/animation"
	"github.com/example/pixelpane/internal/event"
	"github.com/example/pixelpane/internal/frameclock"
	"github.com/example/pixelpane/internal/generation"
	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/model"
	"github.com/example/pixelpane/internal/picking"
	"github.com/example/pixelpane/internal/schedule"
	"github.com/example/pixelpane/internal/viewport"
)

// Renderer owns the visible pass and everything that decides when it runs:
// the render scheduler, the animation queue and the picking engine.
type Renderer struct {
	canvas         Canvas
	image          *ImageLayer
	transform      *model.Transform
	sets           *model.FeatureSets
	projection     *viewport.Projection
	transformation *viewport.Transformation

	layers    map[*model.FeatureSet]*FeatureLayer
	tracker   generation.Tracker
	force     bool
	listeners event.Group

	animations *animation.Queue
	scheduler  *schedule.Scheduler
	picking    *picking.Engine

	background     color.RGBA
	highlight      *model.Feature
	highlightColor color.RGBA
	highlightWidth float64

	pickTarget  picking.Target
	pickOptions []picking.Option
	onError     func(error)
	draws       int
	destroyed   bool

	// Rendered fires after every draw that actually produced a frame.
	Rendered event.Signal
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBackground sets the color behind the image.
func WithBackground(c color.RGBA) Option { return func(r *Renderer) { r.background = c } }

// WithHighlight sets the outline drawn around the highlighted feature.
func WithHighlight(c color.RGBA, width float64) Option {
	return func(r *Renderer) {
		r.highlightColor = c
		r.highlightWidth = width
	}
}

// WithErrorHandler receives canvas failures. The default logs them.
func WithErrorHandler(fn func(error)) Option { return func(r *Renderer) { r.onError = fn } }

// WithPickingTarget replaces the identity surface.
func WithPickingTarget(t picking.Target) Option { return func(r *Renderer) { r.pickTarget = t } }

// WithPickingOptions tunes the picking engine.
func WithPickingOptions(opts ...picking.Option) Option {
	return func(r *Renderer) { r.pickOptions = append(r.pickOptions, opts...) }
}

// New creates a renderer drawing img and sets onto canvas, driven by clock.
func New(clock frameclock.Clock, canvas Canvas, img image.Image, transform *model.Transform,
	sets *model.FeatureSets, opts ...Option) *Renderer {
	w, h := canvas.Size()
	r := &Renderer{
		canvas:         canvas,
		image:          NewImageLayer(img),
		transform:      transform,
		sets:           sets,
		projection:     viewport.NewProjection(w, h),
		transformation: viewport.NewTransformation(transform),
		layers:         make(map[*model.FeatureSet]*FeatureLayer),
		force:          true,
		background:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		highlightColor: color.RGBA{R: 255, G: 255, B: 0, A: 255},
		highlightWidth: 2,
	}
	for _, o := range opts {
		o(r)
	}
	if r.onError == nil {
		r.onError = func(err error) { logging.For("render").Error("draw failed", "err", err) }
	}
	if r.pickTarget == nil {
		r.pickTarget = picking.NewSurface(w, h)
	}

	r.animations = animation.NewQueue(clock, r.immediateRender)
	r.scheduler = schedule.New(clock, r.immediateRender, schedule.WithHold(r.holdRequests))
	r.picking = picking.NewEngine(sets, r.pickingLayer, r.projection, r.transformation, r.pickTarget, r.pickOptions...)

	r.listeners.Add(sets, sets.Added.Subscribe(r.onSetAdded))
	r.listeners.Add(sets, sets.Removed.Subscribe(r.onSetRemoved))
	sets.Each(func(_ int, s *model.FeatureSet) { r.onSetAdded(s) })
	return r
}

func (r *Renderer) holdRequests() bool {
	return r.destroyed || r.image == nil || r.animations.Active()
}

func (r *Renderer) onSetAdded(s *model.FeatureSet) {
	r.layers[s] = NewFeatureLayer(s, r.projection, r.transformation)
}

func (r *Renderer) onSetRemoved(s *model.FeatureSet) {
	delete(r.layers, s)
	r.tracker.Forget(s)
	if r.highlight != nil && s.Contains(r.highlight) {
		r.highlight = nil
	}
	r.force = true
}

func (r *Renderer) pickingLayer(s *model.FeatureSet) picking.Layer {
	if l, ok := r.layers[s]; ok {
		return l
	}
	return nil
}

// Render requests a draw on the next frame.
func (r *Renderer) Render() { r.scheduler.RequestRender() }

// Scheduler exposes batching and suspension of render requests.
func (r *Renderer) Scheduler() *schedule.Scheduler { return r.scheduler }

func (r *Renderer) StartBatch()    { r.scheduler.StartBatch() }
func (r *Renderer) CommitBatch()   { r.scheduler.CommitBatch() }
func (r *Renderer) SuspendRender() { r.scheduler.SuspendRender() }
func (r *Renderer) ResumeRender()  { r.scheduler.ResumeRender() }

// AddAnimation hands a to the animation driver, which then owns the frame
// loop until every animation finished.
func (r *Renderer) AddAnimation(a animation.Animation) { r.animations.Add(a) }

// RemoveAnimation drops a from the driver.
func (r *Renderer) RemoveAnimation(a animation.Animation) { r.animations.Remove(a) }

// Animating reports whether animations are running.
func (r *Renderer) Animating() bool { return r.animations.Active() }

func (r *Renderer) immediateRender() {
	if r.destroyed {
		return
	}
	if r.Draw() {
		event.Notify(&r.Rendered)
	}
}

// Draw renders the frame now if anything it depends on changed since the
// last draw, and reports whether it drew.
func (r *Renderer) Draw() bool {
	if r.destroyed {
		return false
	}
	if r.force {
		r.tracker.Reset()
	}
	producers := make([]generation.Producer, 0, r.sets.Len()+2)
	producers = append(producers, r.projection, r.transformation)
	r.sets.Each(func(_ int, s *model.FeatureSet) { producers = append(producers, s) })

	return r.tracker.UpdateAll(producers, func() {
		r.force = false
		r.draws++
		if err := r.paint(); err != nil {
			r.onError(err)
		}
	})
}

func (r *Renderer) paint() error {
	var errs []error
	r.canvas.Clear(r.background)
	if err := r.image.Render(r.canvas, r.projection, r.transform); err != nil {
		errs = append(errs, err)
	}
	r.sets.Each(func(_ int, s *model.FeatureSet) {
		if err := r.layers[s].Render(r.canvas); err != nil {
			errs = append(errs, err)
		}
	})
	if f := r.highlight; f != nil {
		if owner, ok := r.sets.Owner(f); ok {
			q := r.layers[owner].QuadOf(f)
			if err := r.canvas.StrokeRect(q, r.highlightColor, r.highlightWidth); err != nil {
				errs = append(errs, fmt.Errorf("highlight: %w", err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("render frame: %w", errors.Join(errs...))
	}
	return nil
}

// Draws returns the number of frames painted.
func (r *Renderer) Draws() int { return r.draws }

// SetHighlight outlines f on the next frame. nil clears the outline.
func (r *Renderer) SetHighlight(f *model.Feature) {
	if f == r.highlight {
		return
	}
	r.highlight = f
	r.force = true
	r.Render()
}

// Highlight returns the outlined feature.
func (r *Renderer) Highlight() *model.Feature { return r.highlight }

// ApplyViewportResize adapts the canvas, the projection and the identity
// surface to a new viewport size.
func (r *Renderer) ApplyViewportResize(w, h int) error {
	if err := r.canvas.Resize(w, h); err != nil {
		return fmt.Errorf("apply viewport resize: %w", err)
	}
	r.projection.SetWidth(w)
	r.projection.SetHeight(h)
	r.picking.ApplyViewportResize()
	r.force = true
	return nil
}

// FeatureAt returns the feature under the viewport point (x, y). It
// panics once the renderer is destroyed.
func (r *Renderer) FeatureAt(x, y float64) *model.Feature {
	if r.destroyed {
		panic("render: FeatureAt on destroyed renderer")
	}
	return r.picking.FeatureAt(x, y)
}

// IsExpensive reports whether FeatureAt(x, y) would read the identity
// surface instead of the cache.
func (r *Renderer) IsExpensive(x, y float64) bool {
	if r.destroyed {
		panic("render: IsExpensive on destroyed renderer")
	}
	return r.picking.IsExpensive(x, y)
}

// Canvas returns the drawing surface.
func (r *Renderer) Canvas() Canvas { return r.canvas }

// Projection returns the viewport projection.
func (r *Renderer) Projection() *viewport.Projection { return r.projection }

// ViewportSize returns the canvas size in pixels.
func (r *Renderer) ViewportSize() (int, int) { return r.projection.Width(), r.projection.Height() }

// ImageSize returns the raster image size in pixels.
func (r *Renderer) ImageSize() (int, int) { return r.image.Size() }

// ImageQuad returns where the visible part of the image lands on the
// canvas, and false when none of it is visible.
func (r *Renderer) ImageQuad() (Quad, bool) {
	_, q, ok := r.image.Visible(r.projection, r.transform)
	return q, ok
}

// Frame returns the last painted frame.
func (r *Renderer) Frame() image.Image { return r.canvas.Image() }

// Destroy stops scheduling, cancels animations and detaches from the
// model. The canvas stays with its owner. Destroy is idempotent.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.scheduler.Destroy()
	r.animations.Destroy()
	r.picking.Destroy()
	r.listeners.ReleaseAll()
	r.transformation.Release()
	r.layers = nil
	r.highlight = nil
}
