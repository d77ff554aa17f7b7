package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/qdsl/internal/presentation/graph"
)

func newGraphCmd(g *globalOptions) *cobra.Command {
	var opts graph.Options
	var highlight []string

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Export the section tree visualization",
		Long:  `Loads the document and outputs a Mermaid diagram (graph TD) of its section tree.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := g.load(args[0])
			if err != nil {
				return err
			}
			for _, uid := range highlight {
				if exp.FindSection(uid) == nil {
					return fmt.Errorf("cannot highlight unknown section %q", uid)
				}
			}
			if len(highlight) > 0 {
				opts.Overlay = &graph.GraphOverlay{Highlight: highlight}
			}

			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(exp.Sections(), opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Operations, "operations", false, "Render operations as leaf nodes")
	cmd.Flags().StringSliceVar(&highlight, "highlight", nil, "Section uids to highlight")
	return cmd
}
