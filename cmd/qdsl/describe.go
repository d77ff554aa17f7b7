package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/qdsl/internal/presentation/tui"
)

func newDescribeCmd(g *globalOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "describe FILE",
		Short: "Summarize an experiment as markdown",
		Long: `Prints the signals, their mapping and the section tree. On a terminal the
markdown is rendered; otherwise, or with --raw, it is printed as is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := g.load(args[0])
			if err != nil {
				return err
			}
			md := tui.Describe(exp)

			if raw || !isTerminal(cmd.OutOrStdout()) {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}

			render, err := tui.NewRenderer()
			if err != nil {
				return err
			}
			out, err := render(md)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without rendering")
	return cmd
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
