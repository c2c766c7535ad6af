package appstate

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixelpane/internal/interact"
	"github.com/example/pixelpane/internal/model"
	"github.com/example/pixelpane/internal/theme"
)

type fakeClock struct {
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) interact.Timer {
	t := &fakeTimer{at: c.now.Add(d), fn: fn}
	c.pending = append(c.pending, t)
	return t
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
	due := c.pending
	c.pending = nil
	for _, t := range due {
		if t.stopped {
			continue
		}
		if t.at.After(c.now) {
			c.pending = append(c.pending, t)
			continue
		}
		t.stopped = true
		t.fn()
	}
}

func newWindow(t *testing.T) (*windowState, *fakeClock, *model.Feature) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	ws := newWindowState(clock)
	s, err := NewSession(rasterConfig(), theme.Default(), image.NewRGBA(image.Rect(0, 0, 100, 100)), 100, 100,
		WithWake(ws.wake), WithHoverClock(clock))
	if err != nil {
		t.Fatal(err)
	}
	f := model.NewFeature(model.Rect{Left: -10, Bottom: -10, Width: 20, Height: 20}, color.RGBA{B: 255, A: 255}, "a")
	s.AddFeatureSets(model.NewFeatureSet("cells", f))
	ws.attach(s)
	t.Cleanup(func() {
		ws.detach()
		_ = s.Close()
	})
	clock.advance(FrameInterval)
	return ws, clock, f
}

func TestFramesArriveThroughClock(t *testing.T) {
	ws, clock, _ := newWindow(t)
	r := ws.sess.Viewer().Renderer()
	if r.Draws() != 1 {
		t.Fatalf("draws = %d", r.Draws())
	}
	ws.sess.Viewer().Gestures().PanBy(10, 0)
	if r.Draws() != 1 {
		t.Fatalf("drew before the frame")
	}
	clock.advance(FrameInterval)
	if r.Draws() != 2 || !ws.dirty {
		t.Fatalf("draws=%d dirty=%v", r.Draws(), ws.dirty)
	}
}

func TestWheelZooms(t *testing.T) {
	ws, _, _ := newWindow(t)
	ws.mouse(mouse.Event{X: 50, Y: 50, Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
	if got := ws.sess.Viewer().Transform().Scale(); got != 1.2 {
		t.Fatalf("scale = %v", got)
	}
	ws.mouse(mouse.Event{X: 50, Y: 50, Button: mouse.ButtonWheelDown, Direction: mouse.DirStep})
	if got := ws.sess.Viewer().Transform().Scale(); got >= 1.2 {
		t.Fatalf("wheel down did not zoom out: %v", got)
	}
}

func TestDragPansAndFlings(t *testing.T) {
	ws, clock, _ := newWindow(t)
	tr := ws.sess.Viewer().Transform()

	ws.mouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	clock.now = clock.now.Add(10 * time.Millisecond)
	ws.mouse(mouse.Event{X: 30, Y: 10})
	if tr.TranslateX() != 20 {
		t.Fatalf("drag tx = %v", tr.TranslateX())
	}
	clock.now = clock.now.Add(10 * time.Millisecond)
	ws.mouse(mouse.Event{X: 30, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if !ws.sess.Viewer().Renderer().Animating() {
		t.Fatalf("release did not fling")
	}
	for i := 0; i < 200 && ws.sess.Viewer().Renderer().Animating(); i++ {
		clock.advance(FrameInterval)
	}
	if tr.TranslateX() <= 20 {
		t.Fatalf("fling did not carry on: tx = %v", tr.TranslateX())
	}
}

func TestTapClicksAndDoubleTapZooms(t *testing.T) {
	ws, clock, _ := newWindow(t)
	ws.mouse(mouse.Event{X: 50, Y: 50, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	ws.mouse(mouse.Event{X: 51, Y: 50, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if ws.message != "Clicked a" {
		t.Fatalf("message = %q", ws.message)
	}
	clock.now = clock.now.Add(100 * time.Millisecond)
	ws.mouse(mouse.Event{X: 50, Y: 50, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	ws.mouse(mouse.Event{X: 50, Y: 50, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if got := ws.sess.Viewer().Transform().Scale(); got != 1.3 {
		t.Fatalf("double tap scale = %v", got)
	}
}

func TestKeys(t *testing.T) {
	ws, _, _ := newWindow(t)
	tr := ws.sess.Viewer().Transform()
	ws.key(key.Event{Code: key.CodeEqualSign, Direction: key.DirPress})
	if tr.Scale() != zoomStep {
		t.Fatalf("zoom in = %v", tr.Scale())
	}
	ws.key(key.Event{Code: key.CodeLeftArrow, Direction: key.DirPress})
	if tr.TranslateX() != panStep/zoomStep {
		t.Fatalf("pan = %v", tr.TranslateX())
	}
	ws.key(key.Event{Code: key.Code0, Rune: '0', Direction: key.DirPress})
	if tr.Scale() != 1 || tr.TranslateX() != 0 {
		t.Fatalf("reset = s %v tx %v", tr.Scale(), tr.TranslateX())
	}
	ws.key(key.Event{Code: key.CodeEqualSign, Direction: key.DirRelease})
	if tr.Scale() != 1 {
		t.Fatalf("release acted")
	}
	ws.key(key.Event{Code: key.CodeY, Rune: 'y', Direction: key.DirPress})
	if ws.message != "Nothing to copy" {
		t.Fatalf("message = %q", ws.message)
	}
	if !ws.key(key.Event{Code: key.CodeQ, Rune: 'q', Direction: key.DirPress}) {
		t.Fatalf("q did not quit")
	}
	if !ws.key(key.Event{Code: key.CodeEscape, Direction: key.DirPress}) {
		t.Fatalf("escape did not quit")
	}
}

func TestStatusAndPaint(t *testing.T) {
	ws, clock, f := newWindow(t)
	ws.mouse(mouse.Event{X: 50, Y: 50})
	if ws.sess.Viewer().Hover().Current() != f {
		t.Fatalf("hover = %v", ws.sess.Viewer().Hover().Current())
	}
	if got := ws.status(); got != "100%  100x100  50,50  a" {
		t.Fatalf("status = %q", got)
	}
	ws.flash("hello")
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	ws.paint(dst)
	if ws.dirty {
		t.Fatalf("paint left the window dirty")
	}
	clock.advance(messageDuration)
	if !ws.dirty {
		t.Fatalf("message expiry did not repaint")
	}
	if !strings.HasPrefix(ws.status(), "100%") {
		t.Fatalf("status = %q", ws.status())
	}
}
