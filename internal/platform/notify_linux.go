//go:build linux

package platform

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Notify sends n using the Freedesktop.org notification interface on the
// session bus.
func Notify(ctx context.Context, n Notification) error {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.CallWithContext(ctx, "org.freedesktop.Notifications.Notify", 0,
		n.appName(), uint32(0), n.IconPath, n.Title, n.Body, []string{}, map[string]dbus.Variant{}, n.timeoutMillis())
	return call.Err
}
