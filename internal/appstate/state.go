package appstate

import (
	"image"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/pixelpane/internal/config"
	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/model"
	"github.com/example/pixelpane/internal/notify"
	"github.com/example/pixelpane/internal/theme"
)

const (
	minWindow    = 320
	maxWindowW   = 1280
	maxWindowH   = 800
	defaultTitle = "pixelpane"
)

// AppState holds what the viewer window shows.
type AppState struct {
	cfg      *config.Config
	theme    *theme.Theme
	image    image.Image
	sets     []*model.FeatureSet
	title    string
	notifier *notify.Notifier

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithFeatureSets shows sets above the image.
func WithFeatureSets(sets ...*model.FeatureSet) Option {
	return func(a *AppState) { a.sets = append(a.sets, sets...) }
}

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.title = title } }

// WithAppNotifier announces saves and copies through n.
func WithAppNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOnClose is called once the window closed.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates the window state for img.
func New(cfg *config.Config, th *theme.Theme, img image.Image, opts ...Option) *AppState {
	a := &AppState{cfg: cfg, theme: th, image: img, title: defaultTitle}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// windowSize fits the image into the allowed window range.
func windowSize(img image.Image) (int, int) {
	b := img.Bounds()
	return clampSize(b.Dx(), minWindow, maxWindowW), clampSize(b.Dy(), minWindow, maxWindowH)
}

func clampSize(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window on s until it closes.
func (a *AppState) Main(s screen.Screen) {
	log := logging.For("appstate")
	defer a.notifyClose()

	width, height := windowSize(a.image)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.title})
	if err != nil {
		log.Error("new window", "err", err)
		return
	}
	defer w.Release()

	ws := newWindowState(loopClock{send: w.Send})
	opts := []SessionOption{WithWake(ws.wake), WithHoverClock(ws.clock)}
	if a.notifier != nil {
		opts = append(opts, WithNotifier(a.notifier))
	}
	sess, err := NewSession(a.cfg, a.theme, a.image, width, height, opts...)
	if err != nil {
		log.Error("start session", "err", err)
		return
	}
	defer sess.Close()
	sess.AddFeatureSets(a.sets...)
	sess.Fit()
	ws.attach(sess)
	defer ws.detach()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			ws.resize(e.WidthPx, e.HeightPx)
		case paint.Event:
			ws.dirty = true
		case callEvent:
			e.run()
		case mouse.Event:
			ws.mouse(e)
		case key.Event:
			if ws.key(e) {
				return
			}
		case error:
			log.Error("window event", "err", e)
		}
		if ws.dirty {
			a.present(s, w, ws)
		}
	}
}

func (a *AppState) present(s screen.Screen, w screen.Window, ws *windowState) {
	width, height := ws.sess.Viewer().ViewportSize()
	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		logging.For("appstate").Error("new buffer", "err", err)
		return
	}
	defer b.Release()
	ws.paint(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
