// Package platform delivers desktop notifications through the notification
// service of the host.
package platform

import "time"

// DefaultTimeout is how long a notification stays visible when the
// notification does not say otherwise.
const DefaultTimeout = 5 * time.Second

// Notification is one desktop notification.
type Notification struct {
	App   string
	Title string
	Body  string
	// IconPath, when non-empty, points to an image file shown next to the
	// text where the platform supports it.
	IconPath string
	Timeout  time.Duration
}

func (n Notification) appName() string {
	if n.App == "" {
		return "pixelpane"
	}
	return n.App
}

func (n Notification) timeoutMillis() int32 {
	d := n.Timeout
	if d <= 0 {
		d = DefaultTimeout
	}
	return int32(d / time.Millisecond)
}
