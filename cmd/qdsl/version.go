package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/qdsl"
	"github.com/aretw0/qdsl/internal/presentation/tui"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of qdsl",
		Run: func(cmd *cobra.Command, args []string) {
			if isTerminal(cmd.OutOrStdout()) {
				tui.PrintBanner(cmd.OutOrStdout(), qdsl.Version)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "qdsl version %s\n", qdsl.Version)
		},
	}
}
