package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/pixelpane/internal/clipboard"
	"github.com/example/pixelpane/internal/features"
	"github.com/example/pixelpane/internal/model"
)

// readClipboardImage is replaced in tests.
var readClipboardImage = clipboard.ReadImage

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// openImage loads the image named by args, or the clipboard image, and
// returns it with a display name.
func openImage(args []string, fromClipboard bool) (image.Image, string, error) {
	switch {
	case fromClipboard && len(args) > 0:
		return nil, "", fmt.Errorf("an image path cannot be combined with --from-clipboard")
	case fromClipboard:
		img, err := readClipboardImage()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return img, "clipboard", nil
	case len(args) == 0:
		return nil, "", fmt.Errorf("an image path or --from-clipboard is required")
	}
	img, err := decodeImage(args[0])
	if err != nil {
		return nil, "", err
	}
	return img, filepath.Base(args[0]), nil
}

func (r *root) loadFeatures(patterns []string) ([]*model.FeatureSet, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	return features.Load(r.theme.FeatureFill, patterns...)
}
