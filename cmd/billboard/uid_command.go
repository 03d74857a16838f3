package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"billboard/internal/identity"
)

func newUIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uid <url>",
		Short: "Print the cache key derived from a document URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := identity.Parse(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), identity.UID(args[0]))
			return nil
		},
	}
}
