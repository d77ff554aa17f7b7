/*
Package qdsl describes pulse-level quantum experiments as trees of sections.

An experiment is a tree: sections group leaf operations (play, delay, acquire,
reserve, call, set) and other sections; sweeps and acquire loops repeat their
body; match and case branch on a measurement result. The tree is built on a
scope stack that decides where every operation attaches and whether it runs in
near time or real time. Nothing here talks to hardware or compiles the tree;
downstream tools consume the finished structure.

# Usage

	exp, err := qdsl.Build(func(exp *qdsl.Experiment) error {
		return exp.AcquireLoopRt(1024, func(*domain.AcquireLoopRt) error {
			return exp.Sweep([]domain.Parameter{amplitude}, func(*domain.Sweep) error {
				if err := exp.Play("drive", xPulse, experiment.WithAmplitude(amplitude)); err != nil {
					return err
				}
				return exp.Measure(experiment.Measurement{
					AcquireSignals: []string{"acquire"},
					Handle:         "q0",
					MeasureSignal:  "measure",
					MeasurePulse:   readout,
				})
			})
		})
	}, cal, experiment.WithSignals("drive", "measure", "acquire"))

Inside fn, helpers that do not receive the experiment can reach it through
Current.

# Concurrency

The ambient context used by Define, Build and Current is a single process-wide
stack. Nested definitions are fine; concurrent definitions on several
goroutines are not. Each Experiment is likewise owned by one goroutine while it
is built.

# Packages

  - pkg/domain: section and operation variants, parameters, pulses,
    calibration records, sentinel errors.
  - pkg/experiment: the builder, signal registry and tree queries.
  - pkg/quantum: qubit elements producing signals and calibration.
  - pkg/adapters/file: YAML and JSON documents.
  - pkg/observability: Prometheus metrics fed by builder hooks.
  - pkg/registry: near-time callbacks referenced by call operations.

The qdsl command (cmd/qdsl) validates, renders and converts experiment documents.
*/
package qdsl
