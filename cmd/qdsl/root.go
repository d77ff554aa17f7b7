package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/qdsl/internal/logging"
	"github.com/aretw0/qdsl/pkg/adapters/file"
	"github.com/aretw0/qdsl/pkg/experiment"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	logLevel    string
	logFormat   string
	signalMap   string
	calibration string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{logger: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "qdsl",
		Short: "qdsl builds and inspects pulse-level experiment section trees",
		Long: `qdsl loads experiment documents (YAML or JSON), replays them through the
section-tree builder and reports, renders or converts the result.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			g.logger = logging.NewWithWriter(cmd.ErrOrStderr(), logging.ParseLevel(g.logLevel), g.logFormat)
		},
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")
	flags.StringVar(&g.signalMap, "signal-map", "", "Signal map document applied after loading")
	flags.StringVar(&g.calibration, "calibration", "", "Calibration document applied after loading")

	rootCmd.AddCommand(
		newValidateCmd(g),
		newGraphCmd(g),
		newDescribeCmd(g),
		newSignalsCmd(g),
		newConvertCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

// load reads an experiment document and applies the optional signal map and
// calibration documents given on the command line.
func (g *globalOptions) load(path string, opts ...experiment.Option) (*experiment.Experiment, error) {
	opts = append([]experiment.Option{experiment.WithLogger(g.logger)}, opts...)
	exp, err := file.LoadExperiment(path, opts...)
	if err != nil {
		return nil, err
	}

	if g.signalMap != "" {
		m, err := file.LoadSignalMap(g.signalMap)
		if err != nil {
			return nil, err
		}
		if err := exp.SetSignalMap(m); err != nil {
			return nil, fmt.Errorf("applying signal map %q: %w", g.signalMap, err)
		}
	}

	if g.calibration != "" {
		cal, err := file.LoadCalibration(g.calibration)
		if err != nil {
			return nil, err
		}
		if err := exp.SetCalibration(cal); err != nil {
			return nil, fmt.Errorf("applying calibration %q: %w", g.calibration, err)
		}
	}

	g.logger.Info("experiment loaded",
		"experiment", exp.UID,
		"path", path,
		"signals", len(exp.Signals()),
		"sections", len(exp.AllSections()),
	)
	return exp, nil
}
