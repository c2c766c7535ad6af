// Package notify announces finished save and copy actions as desktop
// notifications.
package notify

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave emits a notification when a view is written to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when data is copied to the clipboard.
	EventCopy Event = "copy"
)

// Preferences describes notification behaviour.
type Preferences struct {
	Title     string
	Templates map[Event]string
	Timeout   time.Duration
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "pixelpane",
		Templates: map[Event]string{
			EventSave: "Saved %s",
			EventCopy: "Copied %s to clipboard",
		},
		Timeout: platform.DefaultTimeout,
	}
}

// LoadPreferences applies PIXELPANE_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("PIXELPANE_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[event] = v
		}
	}
	apply("PIXELPANE_NOTIFY_SAVE_TEXT", EventSave)
	apply("PIXELPANE_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// Sender delivers a notification to the desktop.
type Sender func(ctx context.Context, n platform.Notification) error

// Notifier sends desktop notifications for the enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the platform notification service.
func WithSender(s Sender) Option { return func(n *Notifier) { n.send = s } }

// New creates a Notifier using prefs. All events start disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	cloned := prefs
	cloned.Templates = make(map[Event]string, len(prefs.Templates))
	for k, v := range prefs.Templates {
		cloned.Templates[k] = v
	}
	n := &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save announces that path was written. The saved file doubles as the
// notification icon.
func (n *Notifier) Save(ctx context.Context, path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	var icon string
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			icon = abs
		}
	}
	n.dispatch(ctx, EventSave, detail, icon)
}

// Copy announces a clipboard copy. When img is set a temporary preview is
// attached.
func (n *Notifier) Copy(ctx context.Context, detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "view"
	}
	var icon string
	if img != nil {
		path, cleanup, err := createPreview(img)
		if err != nil {
			logging.For("notify").Warn("notification preview", "err", err)
		} else {
			defer cleanup()
			icon = path
		}
	}
	n.dispatch(ctx, EventCopy, detail, icon)
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(ctx context.Context, event Event, detail, icon string) {
	template := strings.TrimSpace(n.prefs.Templates[event])
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	msg := platform.Notification{
		App:      "pixelpane",
		Title:    n.prefs.Title,
		Body:     body,
		IconPath: icon,
		Timeout:  n.prefs.Timeout,
	}
	if err := n.send(ctx, msg); err != nil {
		logging.For("notify").Warn("notification failed", "event", string(event), "err", err)
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "pixelpane-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logging.For("notify").Warn("remove preview", "err", err)
		}
	}
	return path, cleanup, nil
}
