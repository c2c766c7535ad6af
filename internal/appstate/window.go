package appstate

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixelpane/internal/event"
	"github.com/example/pixelpane/internal/interact"
	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/model"
)

const (
	wheelStep       = 100
	zoomStep        = 1.25
	panStep         = 40
	tapSlop         = 4
	doubleTap       = 300 * time.Millisecond
	messageDuration = 2 * time.Second
	actionTimeout   = 5 * time.Second
)

// windowState turns window input into viewer gestures and keeps what the
// status line shows. It runs on the event loop goroutine.
type windowState struct {
	sess      *Session
	clock     interact.Clock
	start     time.Time
	listeners event.Group
	dirty     bool

	cursorX, cursorY float64
	hasCursor        bool

	dragging       bool
	moved          bool
	pressX, pressY float64
	lastX, lastY   float64
	lastMove       time.Time
	vx, vy         float64

	lastTap    time.Time
	tapX, tapY float64

	message      string
	messageUntil time.Time
}

func newWindowState(clock interact.Clock) *windowState {
	return &windowState{clock: clock, start: clock.Now(), dirty: true}
}

// attach starts following sess. Frames requested before attach are
// delivered once it is set.
func (ws *windowState) attach(sess *Session) {
	ws.sess = sess
	v := sess.Viewer()
	ws.listeners.Add(v.Renderer(), v.Renderer().Rendered.Subscribe(func(struct{}) { ws.dirty = true }))
	ws.listeners.Add(v.Hover(), v.Hover().Changed.Subscribe(func(*model.Feature) { ws.dirty = true }))
	v.FeatureSets().Each(func(_ int, set *model.FeatureSet) {
		ws.listeners.Add(set, set.Click.Subscribe(func(f *model.Feature) {
			logging.For("appstate").Info("feature clicked", "set", set.Name, "feature", f.Label())
			ws.flash("Clicked " + FeatureName(f))
		}))
	})
}

func (ws *windowState) detach() { ws.listeners.ReleaseAll() }

// wake arranges the next frame one frame period from now.
func (ws *windowState) wake() { ws.clock.AfterFunc(FrameInterval, ws.frame) }

func (ws *windowState) frame() {
	if ws.sess == nil {
		ws.wake()
		return
	}
	ws.sess.Fire(ws.clock.Now().Sub(ws.start))
}

func (ws *windowState) flash(msg string) {
	ws.message = msg
	ws.messageUntil = ws.clock.Now().Add(messageDuration)
	ws.dirty = true
	ws.clock.AfterFunc(messageDuration, func() { ws.dirty = true })
}

func (ws *windowState) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if err := ws.sess.Resize(w, h); err != nil {
		logging.For("appstate").Error("resize", "err", err)
		ws.flash("Resize failed")
	}
}

func (ws *windowState) mouse(e mouse.Event) {
	g := ws.sess.Viewer().Gestures()
	x, y := float64(e.X), float64(e.Y)
	now := ws.clock.Now()
	ws.cursorX, ws.cursorY, ws.hasCursor = x, y, true
	ws.dirty = true

	if e.Button.IsWheel() {
		switch e.Button {
		case mouse.ButtonWheelUp:
			g.Wheel(-wheelStep, x, y)
		case mouse.ButtonWheelDown:
			g.Wheel(wheelStep, x, y)
		}
		return
	}

	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return
		}
		ws.dragging, ws.moved = true, false
		ws.pressX, ws.pressY = x, y
		ws.lastX, ws.lastY, ws.lastMove = x, y, now
		ws.vx, ws.vy = 0, 0
		g.PanStart(0, 0)
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || !ws.dragging {
			return
		}
		ws.dragging = false
		ws.track(x, y, now)
		if !ws.moved {
			g.PanCancel()
			ws.tap(x, y, now)
			return
		}
		g.PanEnd(x-ws.pressX, y-ws.pressY, ws.vx, ws.vy)
	default:
		if !ws.dragging {
			g.PointerMove(x, y)
			return
		}
		ws.track(x, y, now)
		if ws.moved {
			g.PanMove(x-ws.pressX, y-ws.pressY)
		}
	}
}

// track follows the drag and smooths its velocity in pixels per millisecond.
func (ws *windowState) track(x, y float64, now time.Time) {
	if dt := float64(now.Sub(ws.lastMove)) / float64(time.Millisecond); dt > 0 {
		ws.vx = 0.8*(x-ws.lastX)/dt + 0.2*ws.vx
		ws.vy = 0.8*(y-ws.lastY)/dt + 0.2*ws.vy
	}
	ws.lastX, ws.lastY, ws.lastMove = x, y, now
	if math.Abs(x-ws.pressX) > tapSlop || math.Abs(y-ws.pressY) > tapSlop {
		ws.moved = true
	}
}

func (ws *windowState) tap(x, y float64, now time.Time) {
	count := 1
	if now.Sub(ws.lastTap) < doubleTap && math.Abs(x-ws.tapX) <= 2*tapSlop && math.Abs(y-ws.tapY) <= 2*tapSlop {
		count = 2
		ws.lastTap = time.Time{}
	} else {
		ws.lastTap, ws.tapX, ws.tapY = now, x, y
	}
	ws.sess.Viewer().Gestures().Tap(count, x, y)
}

// key handles a key press and reports whether the window should close.
func (ws *windowState) key(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	g := ws.sess.Viewer().Gestures()
	switch e.Code {
	case key.CodeEscape:
		return true
	case key.CodeLeftArrow:
		g.PanBy(panStep, 0)
	case key.CodeRightArrow:
		g.PanBy(-panStep, 0)
	case key.CodeUpArrow:
		g.PanBy(0, panStep)
	case key.CodeDownArrow:
		g.PanBy(0, -panStep)
	case key.CodeEqualSign, key.CodeKeypadPlusSign:
		g.ZoomBy(zoomStep)
	case key.CodeHyphenMinus, key.CodeKeypadHyphenMinus:
		g.ZoomBy(1 / zoomStep)
	case key.Code0, key.CodeKeypad0:
		ws.sess.ResetView()
	}
	switch e.Rune {
	case 'q':
		return true
	case 'f':
		ws.sess.Fit()
	case 's':
		ws.save()
	case 'c':
		ws.copyView()
	case 'y':
		ws.copyFeature()
	}
	return false
}

func (ws *windowState) save() {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	path, err := ws.sess.SaveSnapshot(ctx)
	if err != nil {
		logging.For("appstate").Error("save view", "err", err)
		ws.flash("Save failed")
		return
	}
	ws.flash("Saved " + path)
}

func (ws *windowState) copyView() {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	if err := ws.sess.CopySnapshot(ctx); err != nil {
		logging.For("appstate").Error("copy view", "err", err)
		ws.flash("Copy failed")
		return
	}
	ws.flash("Copied view")
}

func (ws *windowState) copyFeature() {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	f := ws.sess.Viewer().Hover().Current()
	if err := ws.sess.CopyFeature(ctx, f); err != nil {
		logging.For("appstate").Warn("copy feature", "err", err)
		ws.flash("Nothing to copy")
		return
	}
	ws.flash("Copied " + FeatureName(f))
}

// status returns the status line text.
func (ws *windowState) status() string {
	v := ws.sess.Viewer()
	iw, ih := v.ImageSize()
	text := fmt.Sprintf("%.0f%%  %dx%d", v.Transform().Scale()*100, iw, ih)
	if ws.hasCursor {
		vx, vy := v.Gestures().ClientToViewport(ws.cursorX, ws.cursorY)
		ix, iy := v.Transform().ToImage(vx, vy)
		px := int(math.Floor(ix + float64(iw)/2))
		py := int(math.Floor(float64(ih)/2 - iy))
		if image.Pt(px, py).In(image.Rect(0, 0, iw, ih)) {
			text += fmt.Sprintf("  %d,%d", px, py)
		}
	}
	if f := v.Hover().Current(); f != nil {
		text += "  " + FeatureName(f)
	}
	return text
}

// paint composes the window contents into dst.
func (ws *windowState) paint(dst *image.RGBA) {
	th := ws.sess.Theme()
	v := ws.sess.Viewer()
	compose(dst, v.Frame(), v.ImageBounds(), th)
	drawHUD(dst, th, ws.status())
	if ws.message != "" && ws.clock.Now().Before(ws.messageUntil) {
		drawMessage(dst, th, ws.message)
	}
	ws.dirty = false
}
