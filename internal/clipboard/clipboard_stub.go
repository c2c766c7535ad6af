//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "fmt"

func write(format, []byte) error {
	return fmt.Errorf("%w: not supported on this platform", ErrUnavailable)
}

func read(format) ([]byte, error) {
	return nil, fmt.Errorf("%w: not supported on this platform", ErrUnavailable)
}
