package control

import (
	"math"
	"testing"
	"time"

	"github.com/example/pixelpane/internal/animation"
	"github.com/example/pixelpane/internal/model"
)

type fakeView struct {
	vw, vh, iw, ih int
	renders        int
	depth, batches int
}

func (v *fakeView) Render()                  { v.renders++ }
func (v *fakeView) StartBatch()              { v.depth++ }
func (v *fakeView) ViewportSize() (int, int) { return v.vw, v.vh }
func (v *fakeView) ImageSize() (int, int)    { return v.iw, v.ih }

func (v *fakeView) CommitBatch() {
	v.depth--
	v.batches++
}

type fakeDriver struct {
	running []animation.Animation
}

func (d *fakeDriver) AddAnimation(a animation.Animation) { d.running = append(d.running, a) }
func (d *fakeDriver) RemoveAnimation(a animation.Animation) {
	for i, cur := range d.running {
		if cur == a {
			d.running = append(d.running[:i], d.running[i+1:]...)
			return
		}
	}
}

type fakePointer struct {
	moves, clicks [][2]float64
}

func (p *fakePointer) Update(x, y float64) { p.moves = append(p.moves, [2]float64{x, y}) }
func (p *fakePointer) Click(x, y float64)  { p.clicks = append(p.clicks, [2]float64{x, y}) }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newController(size int) (*Controller, *fakeView, *model.Transform) {
	v := &fakeView{vw: size, vh: size, iw: size, ih: size}
	tr := model.NewTransform()
	return NewController(v, tr), v, tr
}

func TestTranslateClampsToScreen(t *testing.T) {
	c, v, tr := newController(100)
	cases := []struct {
		in, want float64
	}{
		{10, 10},
		{100, 90},
		{-100, -90},
		{90, 90},
	}
	for _, tc := range cases {
		c.TranslateAbsolute(tc.in, tc.in)
		if !near(tr.TranslateX(), tc.want) || !near(tr.TranslateY(), tc.want) {
			t.Fatalf("TranslateAbsolute(%v) = (%v, %v), want %v", tc.in, tr.TranslateX(), tr.TranslateY(), tc.want)
		}
	}
	if v.renders != len(cases) {
		t.Fatalf("renders = %d, want %d", v.renders, len(cases))
	}

	c.TranslateAbsolute(0, 0)
	c.TranslateRelative(5, -5)
	if tr.TranslateX() != 5 || tr.TranslateY() != -5 {
		t.Fatalf("relative = (%v, %v)", tr.TranslateX(), tr.TranslateY())
	}
}

func TestClampToScreenOnlyRendersWhenMoved(t *testing.T) {
	c, v, tr := newController(100)
	c.ClampToScreen()
	if v.renders != 0 {
		t.Fatalf("in-bounds clamp rendered")
	}
	tr.SetTranslateX(500)
	c.ClampToScreen()
	if v.renders != 1 || !near(tr.TranslateX(), 90) {
		t.Fatalf("renders=%d tx=%v", v.renders, tr.TranslateX())
	}
}

func TestRescaleClamps(t *testing.T) {
	c, _, tr := newController(100)
	c.Rescale(50)
	if tr.Scale() != DefaultMaxScale {
		t.Fatalf("scale = %v", tr.Scale())
	}
	c.Rescale(0.001)
	if tr.Scale() != DefaultMinScale {
		t.Fatalf("scale = %v", tr.Scale())
	}

	custom := NewController(&fakeView{vw: 1, vh: 1, iw: 1, ih: 1}, model.NewTransform(), WithScaleLimits(0.5, 4))
	if lo, hi := custom.ScaleLimits(); lo != 0.5 || hi != 4 {
		t.Fatalf("limits = %v..%v", lo, hi)
	}
	ignored := NewController(&fakeView{}, model.NewTransform(), WithScaleLimits(3, 1))
	if lo, hi := ignored.ScaleLimits(); lo != DefaultMinScale || hi != DefaultMaxScale {
		t.Fatalf("invalid limits applied: %v..%v", lo, hi)
	}
}

func TestRescaleAroundKeepsPointFixed(t *testing.T) {
	c, v, tr := newController(200)
	tr.SetTranslateX(3)
	px, py := tr.ToImage(20, 10)

	c.RescaleAround(2, 20, 10)
	if tr.Scale() != 2 {
		t.Fatalf("scale = %v", tr.Scale())
	}
	x, y := tr.ToViewport(px, py)
	if !near(x, 20) || !near(y, 10) {
		t.Fatalf("anchor moved to (%v, %v)", x, y)
	}
	if v.depth != 0 || v.batches != 1 {
		t.Fatalf("batch depth=%d batches=%d", v.depth, v.batches)
	}
}

func TestRescaleAroundAtLimitUsesClampedScale(t *testing.T) {
	c, _, tr := newController(200)
	tr.SetScale(DefaultMaxScale)
	before := [2]float64{tr.TranslateX(), tr.TranslateY()}
	c.RescaleAround(DefaultMaxScale*2, 40, 40)
	if tr.Scale() != DefaultMaxScale || tr.TranslateX() != before[0] || tr.TranslateY() != before[1] {
		t.Fatalf("zoom past the limit moved the view: s=%v t=(%v, %v)", tr.Scale(), tr.TranslateX(), tr.TranslateY())
	}
}

func TestKineticReplacesRunningFling(t *testing.T) {
	c, _, _ := newController(100)
	d := &fakeDriver{}
	k := NewKinetic(d, c, 0)
	if k.TimeConstant() != animation.DefaultTimeConstant {
		t.Fatalf("tau = %v", k.TimeConstant())
	}

	k.Start(1, 0)
	first := d.running[0]
	k.Start(0, 1)
	if !first.Finished() || len(d.running) != 1 || d.running[0] == first {
		t.Fatalf("previous fling not replaced: %d running", len(d.running))
	}
	if !k.Running() {
		t.Fatalf("fling not running")
	}
	k.Stop()
	k.Stop()
	if k.Running() || len(d.running) != 0 {
		t.Fatalf("stop left %d animations", len(d.running))
	}
}

func newGestures(size int) (*Gestures, *model.Transform, *fakeDriver, *fakePointer) {
	c, _, tr := newController(size)
	d := &fakeDriver{}
	p := &fakePointer{}
	return NewGestures(c, NewKinetic(d, c, 0), p), tr, d, p
}

func TestClientToViewport(t *testing.T) {
	g, _, _, _ := newGestures(100)
	if x, y := g.ClientToViewport(0, 0); x != -50 || y != 50 {
		t.Fatalf("top-left = (%v, %v)", x, y)
	}
	if x, y := g.ClientToViewport(75, 100); x != 25 || y != -50 {
		t.Fatalf("(75,100) = (%v, %v)", x, y)
	}
}

func TestPanFollowsPointerAndFlings(t *testing.T) {
	g, tr, d, _ := newGestures(400)
	tr.SetScale(2)

	g.PanStart(0, 0)
	g.PanMove(10, 20)
	if tr.TranslateX() != 5 || tr.TranslateY() != -10 {
		t.Fatalf("pan = (%v, %v)", tr.TranslateX(), tr.TranslateY())
	}
	g.PanEnd(20, 20, 1, 1)
	if g.Panning() || len(d.running) != 1 {
		t.Fatalf("panning=%v flings=%d", g.Panning(), len(d.running))
	}

	fling := d.running[0]
	fling.Progress(0)
	fling.Progress(16 * time.Millisecond)
	if tr.TranslateX() <= 10 || tr.TranslateY() >= -10 {
		t.Fatalf("fling moved the wrong way: (%v, %v)", tr.TranslateX(), tr.TranslateY())
	}

	g.PanStart(0, 0)
	if !fling.Finished() {
		t.Fatalf("new pan did not stop the fling")
	}
}

func TestPanCancelRestores(t *testing.T) {
	g, tr, _, _ := newGestures(400)
	g.PanStart(0, 0)
	g.PanMove(30, 30)
	g.PanCancel()
	if tr.TranslateX() != 0 || tr.TranslateY() != 0 || g.Panning() {
		t.Fatalf("cancel left (%v, %v)", tr.TranslateX(), tr.TranslateY())
	}
	g.PanMove(30, 30)
	if tr.TranslateX() != 0 {
		t.Fatalf("move after cancel panned")
	}
}

func TestPinch(t *testing.T) {
	g, tr, _, _ := newGestures(400)
	g.PinchStart(Pinch{Scale: 1, CenterX: 200, CenterY: 200})
	g.PinchMove(Pinch{Scale: 2, CenterX: 200, CenterY: 200})
	if tr.Scale() != 2 || tr.TranslateX() != 0 || tr.TranslateY() != 0 {
		t.Fatalf("pinch = s %v t (%v, %v)", tr.Scale(), tr.TranslateX(), tr.TranslateY())
	}
	g.PinchCancel()
	if tr.Scale() != 1 || g.Pinching() {
		t.Fatalf("cancel left scale %v", tr.Scale())
	}
}

func TestWheelAndTapZoom(t *testing.T) {
	g, tr, _, p := newGestures(400)
	g.Wheel(-500, 200, 200)
	if tr.Scale() != 2 {
		t.Fatalf("wheel scale = %v", tr.Scale())
	}
	g.Tap(2, 200, 200)
	if !near(tr.Scale(), 2.6) {
		t.Fatalf("double tap scale = %v", tr.Scale())
	}
	g.Tap(1, 210, 190)
	if len(p.clicks) != 1 || p.clicks[0] != [2]float64{10, 10} {
		t.Fatalf("clicks = %v", p.clicks)
	}
	g.PointerMove(0, 0)
	if len(p.moves) != 1 || p.moves[0] != [2]float64{-200, 200} {
		t.Fatalf("moves = %v", p.moves)
	}
}

func TestZoomAndPanBy(t *testing.T) {
	g, tr, _, _ := newGestures(400)
	g.ZoomBy(2)
	g.PanBy(20, 10)
	if tr.Scale() != 2 || tr.TranslateX() != 10 || tr.TranslateY() != -5 {
		t.Fatalf("s %v t (%v, %v)", tr.Scale(), tr.TranslateX(), tr.TranslateY())
	}
}
