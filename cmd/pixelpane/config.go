package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (r *root) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or store the effective configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "print",
			Short: "Print the effective configuration in RC format",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(cmd.OutOrStdout(), r.config.String())
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List the settings with their effective values",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				vals := r.config.Values()
				for _, k := range r.config.Keys() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", k, vals[k])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "save",
			Short: "Write the effective configuration to the configuration file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := r.loader.Save(r.config)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration saved to %s\n", path)
				return nil
			},
		},
	)
	return cmd
}
