// Package appstate runs the interactive viewer window and the headless
// sessions behind the command line.
package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/example/pixelpane/internal/clipboard"
	"github.com/example/pixelpane/internal/config"
	"github.com/example/pixelpane/internal/control"
	"github.com/example/pixelpane/internal/frameclock"
	"github.com/example/pixelpane/internal/interact"
	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/model"
	"github.com/example/pixelpane/internal/notify"
	"github.com/example/pixelpane/internal/picking"
	"github.com/example/pixelpane/internal/render"
	"github.com/example/pixelpane/internal/theme"
	"github.com/example/pixelpane/internal/viewer"
)

// FrameInterval is the frame period of the window and of headless sessions.
const FrameInterval = time.Second / 60

// maxSettleFrames bounds Settle. A fling with the default time constant
// comes to rest well before this.
const maxSettleFrames = 600

// Session is one image on screen: the viewer, the frame queue driving it
// and the actions offered on top of it.
type Session struct {
	cfg      *config.Config
	theme    *theme.Theme
	clock    *frameclock.Queue
	canvas   render.Canvas
	viewer   *viewer.Viewer
	notifier *notify.Notifier

	copyImage func(image.Image) error
	copyText  func(string) error
	now       func() time.Time
}

type sessionSettings struct {
	wake       func()
	hoverClock interact.Clock
	notifier   *notify.Notifier
	copyImage  func(image.Image) error
	copyText   func(string) error
	now        func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*sessionSettings)

// WithWake is called whenever the session needs a frame.
func WithWake(fn func()) SessionOption { return func(s *sessionSettings) { s.wake = fn } }

// WithHoverClock runs hover throttling on c.
func WithHoverClock(c interact.Clock) SessionOption {
	return func(s *sessionSettings) { s.hoverClock = c }
}

// WithNotifier announces saves and copies through n.
func WithNotifier(n *notify.Notifier) SessionOption {
	return func(s *sessionSettings) { s.notifier = n }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(img func(image.Image) error, text func(string) error) SessionOption {
	return func(s *sessionSettings) {
		s.copyImage = img
		s.copyText = text
	}
}

// WithNow replaces the wall clock used to name saved files.
func WithNow(fn func() time.Time) SessionOption { return func(s *sessionSettings) { s.now = fn } }

// NewNotifier returns a notifier with the events enabled in cfg.
func NewNotifier(cfg *config.Config) *notify.Notifier {
	n := notify.New(notify.LoadPreferences())
	n.Enable(notify.EventSave, cfg.Notify.Save)
	n.Enable(notify.EventCopy, cfg.Notify.Copy)
	return n
}

// NewSession shows img on a w x h canvas of the kind named in cfg.
func NewSession(cfg *config.Config, th *theme.Theme, img image.Image, w, h int, opts ...SessionOption) (*Session, error) {
	if th == nil {
		th = theme.Default()
	}
	st := sessionSettings{
		copyImage: clipboard.WriteImage,
		copyText:  clipboard.WriteText,
		now:       time.Now,
	}
	for _, o := range opts {
		o(&st)
	}
	if st.notifier == nil {
		st.notifier = NewNotifier(cfg)
	}

	kind, err := render.ParseKind(cfg.Renderer)
	if err != nil {
		return nil, err
	}
	canvas, err := render.NewCanvas(kind, w, h)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		theme:     th,
		clock:     frameclock.NewQueue(st.wake),
		canvas:    canvas,
		notifier:  st.notifier,
		copyImage: st.copyImage,
		copyText:  st.copyText,
		now:       st.now,
	}
	vopts := []viewer.Option{
		viewer.WithRenderOptions(
			render.WithBackground(color.RGBA{}),
			render.WithHighlight(th.Highlight, 2),
			render.WithPickingOptions(
				picking.WithBlockSize(cfg.Picking.BlockSize),
				picking.WithMissThreshold(cfg.Picking.MissThreshold),
			),
		),
		viewer.WithControllerOptions(
			control.WithScaleLimits(cfg.Zoom.Min, cfg.Zoom.Max),
			control.WithClampBorder(cfg.Zoom.ClampBorder),
		),
		viewer.WithGesturesOptions(
			control.WithWheelDivisor(cfg.Zoom.WheelDivisor),
			control.WithTapZoom(cfg.Zoom.TapFactor),
		),
		viewer.WithHoverOptions(interact.WithIntervals(cfg.Hover.Interval, cfg.Hover.ExpensiveInterval)),
		viewer.WithKineticTimeConstant(cfg.Kinetic.TimeConstant),
		viewer.WithHoverHighlight(),
	}
	if st.hoverClock != nil {
		vopts = append(vopts, viewer.WithHoverOptions(interact.WithClock(st.hoverClock)))
	}
	s.viewer, err = viewer.New(s.clock, canvas, img, vopts...)
	if err != nil {
		_ = canvas.Close()
		return nil, err
	}
	logging.For("session").Info("session started", "canvas", string(kind), "width", w, "height", h)
	return s, nil
}

func (s *Session) Viewer() *viewer.Viewer   { return s.viewer }
func (s *Session) Clock() *frameclock.Queue { return s.clock }
func (s *Session) Theme() *theme.Theme      { return s.theme }

// AddFeatureSets shows sets above the image in order.
func (s *Session) AddFeatureSets(sets ...*model.FeatureSet) {
	for _, set := range sets {
		s.viewer.AddFeatureSet(set)
	}
}

// Fire delivers the pending frame callbacks with timestamp now.
func (s *Session) Fire(now time.Duration) int { return s.clock.Fire(now) }

// Settle runs frames until nothing is pending and returns how many ran.
func (s *Session) Settle() int {
	n := 0
	for ; n < maxSettleFrames && s.clock.Pending() > 0; n++ {
		s.clock.Advance(FrameInterval)
	}
	return n
}

// Resize adapts the session to a w x h window.
func (s *Session) Resize(w, h int) error { return s.viewer.ApplyViewportResize(w, h) }

// Fit scales the image to fill the viewport and centres it.
func (s *Session) Fit() {
	vw, vh := s.viewer.ViewportSize()
	iw, ih := s.viewer.ImageSize()
	scale := math.Min(float64(vw)/float64(iw), float64(vh)/float64(ih))
	s.setView(scale, 0, 0)
}

// ResetView shows the image at its pixel size, centred.
func (s *Session) ResetView() { s.setView(1, 0, 0) }

// SetView applies a scale and translation in one frame.
func (s *Session) SetView(scale, tx, ty float64) { s.setView(scale, tx, ty) }

func (s *Session) setView(scale, tx, ty float64) {
	ctrl := s.viewer.Controller()
	s.viewer.Kinetic().Stop()
	ctrl.StartBatch()
	ctrl.Rescale(scale)
	ctrl.TranslateAbsolute(tx, ty)
	ctrl.CommitBatch()
}

// Snapshot composes the current view: backdrop, checkerboard under the
// image and the rendered frame.
func (s *Session) Snapshot() *image.RGBA {
	w, h := s.viewer.ViewportSize()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	compose(dst, s.viewer.Frame(), s.viewer.ImageBounds(), s.theme)
	return dst
}

// WritePNG stores the current view at path.
func (s *Session) WritePNG(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, s.Snapshot()); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// SaveSnapshot writes the current view into the configured save directory
// and returns the file written.
func (s *Session) SaveSnapshot(ctx context.Context) (string, error) {
	dir := s.cfg.SaveDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("save dir: %w", err)
	}
	path := filepath.Join(dir, "pixelpane-"+s.now().Format("20060102-150405")+".png")
	if err := s.WritePNG(path); err != nil {
		return "", err
	}
	logging.For("session").Info("view saved", "path", path)
	s.notifier.Save(ctx, path)
	return path, nil
}

// CopySnapshot places the current view on the clipboard.
func (s *Session) CopySnapshot(ctx context.Context) error {
	img := s.Snapshot()
	if err := s.copyImage(img); err != nil {
		return fmt.Errorf("copy view: %w", err)
	}
	s.notifier.Copy(ctx, "view", img)
	return nil
}

// CopyFeature places a description of f on the clipboard.
func (s *Session) CopyFeature(ctx context.Context, f *model.Feature) error {
	if f == nil {
		return fmt.Errorf("copy feature: no feature under the pointer")
	}
	if err := s.copyText(FeatureText(f)); err != nil {
		return fmt.Errorf("copy feature: %w", err)
	}
	s.notifier.Copy(ctx, FeatureName(f), nil)
	return nil
}

// FeatureName returns the label of f, or "feature" when it has none.
func FeatureName(f *model.Feature) string {
	if f.Label() == "" {
		return "feature"
	}
	return f.Label()
}

// FeatureText describes f as a single line.
func FeatureText(f *model.Feature) string {
	r := f.Rect()
	return fmt.Sprintf("%s left=%g bottom=%g width=%g height=%g", FeatureName(f), r.Left, r.Bottom, r.Width, r.Height)
}

// Close stops the viewer and releases the canvas.
func (s *Session) Close() error {
	s.viewer.Destroy()
	return s.canvas.Close()
}
