package main

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/pixelpane/internal/appstate"
)

// viewFlags selects the part of the image a headless command looks at.
type viewFlags struct {
	features []string
	size     string
	zoom     float64
	pan      []float64
	fit      bool
}

func (f *viewFlags) register(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&f.features, "features", "f", nil, "feature file or glob, repeatable (.json, .json.gz, .json.zst)")
	fs.StringVar(&f.size, "size", "", "viewport size WxH (default: image size)")
	fs.Float64Var(&f.zoom, "zoom", 1, "scale factor")
	fs.Float64SliceVar(&f.pan, "pan", []float64{0, 0}, "translation x,y in image pixels")
	fs.BoolVar(&f.fit, "fit", false, "scale the image to fill the viewport")
}

func parseSize(s string, img image.Image) (int, int, error) {
	if s == "" {
		b := img.Bounds()
		return b.Dx(), b.Dy(), nil
	}
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH with positive dimensions", s)
	}
	return w, h, nil
}

// session opens a headless session on img showing the requested view,
// with every frame already drawn.
func (f *viewFlags) session(r *root, img image.Image) (*appstate.Session, error) {
	if len(f.pan) != 2 {
		return nil, fmt.Errorf("invalid --pan: want x,y")
	}
	w, h, err := parseSize(f.size, img)
	if err != nil {
		return nil, err
	}
	sets, err := r.loadFeatures(f.features)
	if err != nil {
		return nil, err
	}
	sess, err := appstate.NewSession(r.config, r.theme, img, w, h, appstate.WithNotifier(r.notifier))
	if err != nil {
		return nil, err
	}
	sess.AddFeatureSets(sets...)
	if f.fit {
		sess.Fit()
	} else {
		sess.SetView(f.zoom, f.pan[0], f.pan[1])
	}
	sess.Settle()
	return sess, nil
}

// runApp is replaced in tests.
var runApp = func(a *appstate.AppState) { a.Run() }

func (r *root) viewCmd() *cobra.Command {
	var (
		patterns      []string
		fromClipboard bool
	)
	cmd := &cobra.Command{
		Use:   "view [IMAGE]",
		Short: "Open an image in the viewer window",
		Long: `Open an image in the viewer window.

Drag to pan, release while moving to fling. The wheel and double click zoom.
Keys: +/- zoom, arrows pan, 0 actual size, f fit, s save view, c copy view,
y copy the hovered feature, q or Escape quit.`,
		Example: `  pixelpane view scan.png --features 'annotations/**/*.json'
  pixelpane view --from-clipboard`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, name, err := openImage(args, fromClipboard)
			if err != nil {
				return err
			}
			sets, err := r.loadFeatures(patterns)
			if err != nil {
				return err
			}
			state := appstate.New(r.config, r.theme, img,
				appstate.WithFeatureSets(sets...),
				appstate.WithTitle(r.program+" - "+name),
				appstate.WithAppNotifier(r.notifier),
			)
			runApp(state)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&patterns, "features", "f", nil, "feature file or glob, repeatable (.json, .json.gz, .json.zst)")
	cmd.Flags().BoolVar(&fromClipboard, "from-clipboard", false, "read the image from the clipboard")
	return cmd
}
