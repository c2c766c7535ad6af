//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"os"
)

func unavailable() error {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return fmt.Errorf("%w: initialization requires DISPLAY or WAYLAND_DISPLAY", ErrUnavailable)
	}
	return fmt.Errorf("%w: clipboard operations require cgo support", ErrUnavailable)
}

func write(format, []byte) error { return unavailable() }

func read(format) ([]byte, error) { return nil, unavailable() }
