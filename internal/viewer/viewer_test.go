package viewer

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/example/pixelpane/internal/frameclock"
	"github.com/example/pixelpane/internal/interact"
	"github.com/example/pixelpane/internal/model"
	"github.com/example/pixelpane/internal/render"
)

const frame = 16 * time.Millisecond

type stillClock struct {
	now     time.Time
	pending int
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func (c *stillClock) Now() time.Time { return c.now }

func (c *stillClock) AfterFunc(time.Duration, func()) interact.Timer {
	c.pending++
	return noopTimer{}
}

func newViewer(t *testing.T, size int, opts ...Option) (*Viewer, *frameclock.Queue) {
	t.Helper()
	clock := frameclock.NewQueue(nil)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	opts = append(opts, WithHoverOptions(interact.WithClock(&stillClock{now: time.Unix(0, 0)})))
	v, err := New(clock, render.NewRaster(size, size), img, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(v.Destroy)
	return v, clock
}

func square(l, b, size float64) *model.Feature {
	return model.NewFeature(model.Rect{Left: l, Bottom: b, Width: size, Height: size}, color.RGBA{B: 255, A: 255}, "")
}

func TestNewRejectsMissingImage(t *testing.T) {
	if _, err := New(frameclock.NewQueue(nil), render.NewRaster(4, 4), nil); err == nil {
		t.Fatalf("expected error for nil image")
	}
	if _, err := New(frameclock.NewQueue(nil), render.NewRaster(4, 4), image.NewRGBA(image.Rectangle{})); err == nil {
		t.Fatalf("expected error for empty image")
	}
}

func TestFirstFrameIsRequested(t *testing.T) {
	v, clock := newViewer(t, 20)
	if clock.Pending() != 1 {
		t.Fatalf("pending = %d", clock.Pending())
	}
	clock.Advance(frame)
	if v.Renderer().Draws() != 1 {
		t.Fatalf("draws = %d", v.Renderer().Draws())
	}
}

func TestFeatureSetChangesRender(t *testing.T) {
	v, clock := newViewer(t, 20)
	clock.Advance(frame)

	f := square(0, 0, 2)
	set := model.NewFeatureSet("s", f)
	v.AddFeatureSet(set)
	v.AddFeatureSet(set)
	if v.FeatureSets().Len() != 1 {
		t.Fatalf("duplicate set added")
	}
	clock.Advance(frame)
	if v.Renderer().Draws() != 2 {
		t.Fatalf("add did not render: draws=%d", v.Renderer().Draws())
	}

	f.SetWidth(4)
	if clock.Pending() != 1 {
		t.Fatalf("feature change did not request a frame")
	}
	clock.Advance(frame)
	if v.Renderer().Draws() != 3 {
		t.Fatalf("feature change did not redraw")
	}

	if !v.RemoveFeatureSet(set) || v.RemoveFeatureSet(set) {
		t.Fatalf("remove reported wrong membership")
	}
	clock.Advance(frame)
	f.SetWidth(1)
	if clock.Pending() != 0 {
		t.Fatalf("removed set still requests frames")
	}
}

func TestFeatureAt(t *testing.T) {
	v, clock := newViewer(t, 40)
	f := square(-5, -5, 10)
	v.AddFeatureSet(model.NewFeatureSet("s", f))
	clock.Advance(frame)
	if got := v.FeatureAt(0, 0); got != f {
		t.Fatalf("FeatureAt(0,0) = %v", got)
	}
	if got := v.FeatureAt(15, 15); got != nil {
		t.Fatalf("FeatureAt(15,15) = %v", got)
	}

	v.Controller().TranslateAbsolute(10, 0)
	if got := v.FeatureAt(10, 0); got != f {
		t.Fatalf("FeatureAt after pan = %v", got)
	}
}

func TestResizeClampsToScreen(t *testing.T) {
	v, clock := newViewer(t, 100)
	v.Controller().TranslateAbsolute(80, 0)
	clock.Advance(frame)
	if err := v.ApplyViewportResize(10, 10); err != nil {
		t.Fatalf("resize: %v", err)
	}
	// Half viewport 5, border 1: one column of image stays visible.
	if got := v.Transform().TranslateX(); got != 54 {
		t.Fatalf("tx = %v, want 54", got)
	}
	clock.Advance(frame)
	if w, h := v.Frame().Bounds().Dx(), v.Frame().Bounds().Dy(); w != 10 || h != 10 {
		t.Fatalf("frame = %dx%d", w, h)
	}
	if err := v.ApplyViewportResize(-1, 10); err == nil {
		t.Fatalf("expected error for negative size")
	}
}

func TestWheelZoomRendersOneFrame(t *testing.T) {
	v, clock := newViewer(t, 100)
	clock.Advance(frame)
	v.Gestures().Wheel(-250, 50, 50)
	if clock.Pending() != 1 {
		t.Fatalf("pending = %d", clock.Pending())
	}
	clock.Advance(frame)
	if v.Transform().Scale() != 1.5 || v.Renderer().Draws() != 2 {
		t.Fatalf("scale=%v draws=%d", v.Transform().Scale(), v.Renderer().Draws())
	}
}

func TestFlingDecaysToRest(t *testing.T) {
	v, clock := newViewer(t, 100)
	clock.Advance(frame)
	g := v.Gestures()
	g.PanStart(0, 0)
	g.PanEnd(0, 0, 0.1, 0)
	if !v.Renderer().Animating() {
		t.Fatalf("fling not started")
	}
	for i := 0; i < 1000 && v.Renderer().Animating(); i++ {
		clock.Advance(frame)
	}
	if v.Renderer().Animating() {
		t.Fatalf("fling never stopped")
	}
	tx := v.Transform().TranslateX()
	// The fling stops once its speed decayed to a tenth: 0.9 of tau*v.
	if tx < 29 || tx > 29.25 {
		t.Fatalf("fling travelled %v, want about 29.2", tx)
	}
	if v.Renderer().Draws() < 10 {
		t.Fatalf("draws = %d", v.Renderer().Draws())
	}
}

func TestHoverHighlight(t *testing.T) {
	v, clock := newViewer(t, 40, WithHoverHighlight())
	f := square(-5, -5, 10)
	v.AddFeatureSet(model.NewFeatureSet("s", f))
	clock.Advance(frame)

	v.Gestures().PointerMove(20, 20)
	if v.Highlight() != f || v.Hover().Current() != f {
		t.Fatalf("highlight = %v", v.Highlight())
	}
	clock.Advance(frame)
	if v.Renderer().Draws() != 2 {
		t.Fatalf("highlight did not redraw: draws=%d", v.Renderer().Draws())
	}
}

func TestDestroy(t *testing.T) {
	v, clock := newViewer(t, 20)
	v.Destroy()
	v.Destroy()
	clock.Advance(frame)
	v.AddFeatureSet(model.NewFeatureSet("late"))
	if v.FeatureSets().Len() != 0 || clock.Pending() != 0 || v.Renderer().Draws() != 0 {
		t.Fatalf("destroyed viewer kept working")
	}
	if err := v.ApplyViewportResize(30, 30); err != nil {
		t.Fatalf("resize after destroy: %v", err)
	}
}

func TestImageBounds(t *testing.T) {
	v, _ := newViewer(t, 40)
	if got := v.ImageBounds(); got != image.Rect(0, 0, 40, 40) {
		t.Fatalf("bounds = %v", got)
	}
	v.Controller().Rescale(0.5)
	if got := v.ImageBounds(); got != image.Rect(10, 10, 30, 30) {
		t.Fatalf("bounds at half scale = %v", got)
	}
}
