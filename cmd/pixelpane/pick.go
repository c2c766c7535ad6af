package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/pixelpane/internal/model"
)

// pickResult is the json form of a picked feature.
type pickResult struct {
	Set    string  `json:"set"`
	Label  string  `json:"label,omitempty"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r *root) pickCmd() *cobra.Command {
	var (
		view   viewFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "pick IMAGE X Y",
		Short: "Print the feature under a viewport pixel",
		Long: `Print the feature drawn at pixel (X, Y) of the view, counted from the
top-left corner. Nothing is printed when no feature is there.`,
		Example: `  pixelpane pick scan.png 120 80 -f cells.json --zoom 2
  pixelpane pick scan.png 120 80 -f cells.json --format json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
			}
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid X: %w", err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid Y: %w", err)
			}
			img, err := decodeImage(args[0])
			if err != nil {
				return err
			}
			sess, err := view.session(r, img)
			if err != nil {
				return err
			}
			defer sess.Close()

			v := sess.Viewer()
			f := v.FeatureAt(v.Gestures().ClientToViewport(x, y))
			if f == nil {
				return nil
			}
			set, _ := v.FeatureSets().Owner(f)
			return writePick(cmd, format, set, f)
		},
	}
	view.register(cmd.Flags())
	cmd.Flags().StringVar(&format, "format", "text", "output format (text, json)")
	return cmd
}

func writePick(cmd *cobra.Command, format string, set *model.FeatureSet, f *model.Feature) error {
	r := f.Rect()
	res := pickResult{Label: f.Label(), Left: r.Left, Bottom: r.Bottom, Width: r.Width, Height: r.Height}
	if set != nil {
		res.Set = set.Name
	}
	if format == "json" {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling pick result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%g\t%g\t%g\t%g\n", res.Set, res.Label, res.Left, res.Bottom, res.Width, res.Height)
	return nil
}
