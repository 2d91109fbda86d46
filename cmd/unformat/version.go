package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/unformat/pkg/unformat"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "unformat version "+unformat.Version)
		},
	}
}
