//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
)

// Notify displays n using macOS Notification Center.
func Notify(ctx context.Context, n Notification) error {
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", n.Body, n.appName(), n.Title)
	return exec.CommandContext(ctx, "osascript", "-e", script).Run()
}
