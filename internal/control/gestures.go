package control

// Default gesture tuning.
const (
	DefaultWheelDivisor = 500
	DefaultTapZoom      = 1.3
)

// Pointer receives pointer positions and clicks in viewport coordinates.
type Pointer interface {
	Update(x, y float64)
	Click(x, y float64)
}

// Pinch describes a two-finger gesture relative to where it started.
// Deltas and the centre are in client pixels.
type Pinch struct {
	DeltaX, DeltaY   float64
	Scale            float64
	CenterX, CenterY float64
}

// Gestures maps client-space input onto the controller. Client coordinates
// have their origin at the top-left of the viewport with y growing down.
type Gestures struct {
	ctrl    *Controller
	kinetic *Kinetic
	pointer Pointer

	wheelDivisor float64
	tapZoom      float64

	panning, pinching bool
	oldX, oldY        float64
	oldScale          float64
}

// GesturesOption configures Gestures.
type GesturesOption func(*Gestures)

// WithWheelDivisor sets how many wheel units zoom by 100 %.
func WithWheelDivisor(d float64) GesturesOption {
	return func(g *Gestures) {
		if d > 0 {
			g.wheelDivisor = d
		}
	}
}

// WithTapZoom sets the double-tap zoom factor.
func WithTapZoom(f float64) GesturesOption {
	return func(g *Gestures) {
		if f > 0 {
			g.tapZoom = f
		}
	}
}

// NewGestures routes gestures to ctrl and flings to kinetic. pointer may
// be nil.
func NewGestures(ctrl *Controller, kinetic *Kinetic, pointer Pointer, opts ...GesturesOption) *Gestures {
	g := &Gestures{
		ctrl:         ctrl,
		kinetic:      kinetic,
		pointer:      pointer,
		wheelDivisor: DefaultWheelDivisor,
		tapZoom:      DefaultTapZoom,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// ClientToViewport converts a client position to viewport coordinates:
// origin at the centre, y up.
func (g *Gestures) ClientToViewport(cx, cy float64) (float64, float64) {
	w, h := g.ctrl.view.ViewportSize()
	return cx - float64(w)/2, -(cy - float64(h)/2)
}

func (g *Gestures) Panning() bool  { return g.panning }
func (g *Gestures) Pinching() bool { return g.pinching }

// PanStart begins a drag. Any running fling stops.
func (g *Gestures) PanStart(dx, dy float64) {
	g.panning = true
	g.oldX, g.oldY = g.ctrl.TranslateX(), g.ctrl.TranslateY()
	g.kinetic.Stop()
	g.applyPan(dx, dy)
}

// PanMove follows the drag. (dx, dy) is the total client offset since the
// drag began.
func (g *Gestures) PanMove(dx, dy float64) {
	if !g.panning {
		return
	}
	g.applyPan(dx, dy)
}

// PanEnd finishes the drag and flings with the release velocity (vx, vy)
// in client pixels per millisecond.
func (g *Gestures) PanEnd(dx, dy, vx, vy float64) {
	if !g.panning {
		return
	}
	g.applyPan(dx, dy)
	g.fling(vx, vy)
	g.panning = false
}

// PanCancel restores the translation from before the drag.
func (g *Gestures) PanCancel() {
	if !g.panning {
		return
	}
	g.ctrl.TranslateAbsolute(g.oldX, g.oldY)
	g.panning = false
}

func (g *Gestures) applyPan(dx, dy float64) {
	s := g.ctrl.Scale()
	g.ctrl.TranslateAbsolute(g.oldX+dx/s, g.oldY-dy/s)
}

func (g *Gestures) fling(vx, vy float64) {
	s := g.ctrl.Scale()
	g.kinetic.Start(vx/s, -vy/s)
}

// PinchStart begins a pinch. Any running fling stops.
func (g *Gestures) PinchStart(p Pinch) {
	g.pinching = true
	g.oldX, g.oldY = g.ctrl.TranslateX(), g.ctrl.TranslateY()
	g.oldScale = g.ctrl.Scale()
	g.kinetic.Stop()
	g.applyPinch(p)
}

// PinchMove follows the pinch.
func (g *Gestures) PinchMove(p Pinch) {
	if !g.pinching {
		return
	}
	g.applyPinch(p)
}

// PinchEnd finishes the pinch and flings with the release velocity.
func (g *Gestures) PinchEnd(p Pinch, vx, vy float64) {
	if !g.pinching {
		return
	}
	g.applyPinch(p)
	g.fling(vx, vy)
	g.pinching = false
}

// PinchCancel restores the transform from before the pinch.
func (g *Gestures) PinchCancel() {
	if !g.pinching {
		return
	}
	g.ctrl.StartBatch()
	g.ctrl.TranslateAbsolute(g.oldX, g.oldY)
	g.ctrl.Rescale(g.oldScale)
	g.ctrl.CommitBatch()
	g.pinching = false
}

func (g *Gestures) applyPinch(p Pinch) {
	g.ctrl.StartBatch()
	defer g.ctrl.CommitBatch()
	g.ctrl.Rescale(g.oldScale)
	g.ctrl.TranslateAbsolute(g.oldX+p.DeltaX/g.oldScale, g.oldY-p.DeltaY/g.oldScale)
	g.zoomAt(g.oldScale*p.Scale, p.CenterX, p.CenterY)
}

// Wheel zooms around the client point (cx, cy). Positive dy zooms out.
func (g *Gestures) Wheel(dy, cx, cy float64) {
	s := g.ctrl.Scale()
	g.zoomAt(s-s*dy/g.wheelDivisor, cx, cy)
}

// Tap handles a tap at a client point: one tap clicks, two zoom in.
func (g *Gestures) Tap(count int, cx, cy float64) {
	switch count {
	case 1:
		if g.pointer != nil {
			g.pointer.Click(g.ClientToViewport(cx, cy))
		}
	case 2:
		g.zoomAt(g.ctrl.Scale()*g.tapZoom, cx, cy)
	}
}

// PointerMove reports the hovering pointer.
func (g *Gestures) PointerMove(cx, cy float64) {
	if g.pointer != nil {
		g.pointer.Update(g.ClientToViewport(cx, cy))
	}
}

// ZoomBy zooms by factor around the viewport centre.
func (g *Gestures) ZoomBy(factor float64) {
	g.ctrl.RescaleAround(g.ctrl.Scale()*factor, 0, 0)
}

// PanBy moves the image by (dx, dy) client pixels.
func (g *Gestures) PanBy(dx, dy float64) {
	g.kinetic.Stop()
	s := g.ctrl.Scale()
	g.ctrl.TranslateRelative(dx/s, -dy/s)
}

func (g *Gestures) zoomAt(scale, cx, cy float64) {
	x, y := g.ClientToViewport(cx, cy)
	g.ctrl.RescaleAround(scale, x, y)
}
