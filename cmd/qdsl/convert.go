package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/qdsl/pkg/adapters/file"
)

func newConvertCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Rewrite an experiment document in another format",
		Long: `Loads SRC, applies --signal-map and --calibration, and saves the result to DST.
The format of each file follows its extension (.yaml, .yml or .json).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := g.load(args[0])
			if err != nil {
				return err
			}
			if err := file.SaveExperiment(args[1], exp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
			return nil
		},
	}
}
