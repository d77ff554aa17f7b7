package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/aretw0/qdsl/pkg/experiment"
	"github.com/aretw0/qdsl/pkg/observability"
)

func newValidateCmd(g *globalOptions) *cobra.Command {
	var strict, metrics bool

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check an experiment document for consistency",
		Long: `Replays the document through the section-tree builder, which rejects unknown
signals, invalid nesting, duplicate ids and mismatched sweep parameters.
With --strict, unmapped signals are reported as an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []experiment.Option
			reg := prometheus.NewRegistry()
			if metrics {
				m, err := observability.NewMetrics(reg)
				if err != nil {
					return err
				}
				opts = append(opts, experiment.WithHooks(m.Hooks()))
			}

			exp, err := g.load(args[0], opts...)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			status := exp.MappingStatus()
			fmt.Fprintf(out, "Experiment %q: %d signals, %d sections, %d operations\n",
				exp.UID, len(exp.Signals()), len(exp.AllSections()), len(exp.Operations()))
			if !status.FullyMapped {
				fmt.Fprintf(out, "Unmapped signals: %v\n", status.Unmapped)
				if strict {
					return fmt.Errorf("validation failed: %d unmapped signals", len(status.Unmapped))
				}
			}

			if metrics {
				families, err := reg.Gather()
				if err != nil {
					return err
				}
				for _, mf := range families {
					if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
						return err
					}
				}
			}

			fmt.Fprintln(out, "Experiment is valid! ✅")
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any signal is unmapped")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Print builder metrics in Prometheus text format")
	return cmd
}
