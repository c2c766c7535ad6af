package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (r *root) renderCmd() *cobra.Command {
	var (
		view   viewFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "render IMAGE",
		Short: "Render a view of an image to a PNG file",
		Example: `  pixelpane render scan.png -f cells.json.zst --size 800x600 --zoom 2 --pan 40,-10 -o view.png
  pixelpane render scan.png -f cells.json --fit --size 1024x768 -o overview.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("output file is required")
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
			if err := sess.WritePNG(output); err != nil {
				return err
			}
			r.notifier.Save(context.Background(), output)
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	view.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write")
	return cmd
}
