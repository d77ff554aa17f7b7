package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSignalsCmd(g *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "signals FILE",
		Short: "List experiment signals and their mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := g.load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(exp.MappingStatus())
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SIGNAL\tMAPPED TO\tCALIBRATED")
			for _, s := range exp.Signals() {
				mapTo := "-"
				if s.IsMapped() {
					mapTo = s.MapTo
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\n", s.UID, mapTo, s.IsCalibrated())
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the mapping status as JSON")
	return cmd
}
