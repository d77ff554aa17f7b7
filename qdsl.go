package qdsl

import (
	"errors"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
)

// Version is the release of the qdsl module and command.
var Version = "0.1.0"

// Experiment is the section-tree builder. See package experiment.
type Experiment = experiment.Experiment

// New creates an empty experiment.
func New(opts ...experiment.Option) (*Experiment, error) {
	return experiment.New(opts...)
}

// Build creates an experiment and runs fn with it as the current experiment.
// cal, if non-nil, is applied to the signals once fn returns successfully.
func Build(fn func(*Experiment) error, cal *domain.Calibration, opts ...experiment.Option) (*Experiment, error) {
	exp, err := experiment.New(opts...)
	if err != nil {
		return nil, err
	}
	var copts []ContextOption
	if cal != nil {
		copts = append(copts, WithCalibration(cal))
	}
	if err := Define(exp, fn, copts...); err != nil {
		return nil, err
	}
	return exp, nil
}

// Define runs fn with exp as the current experiment. The context is left on
// every exit path, panics included; the calibration of the context is only
// applied when fn returns nil.
func Define(exp *Experiment, fn func(*Experiment) error, opts ...ContextOption) (err error) {
	ctx := Enter(exp, opts...)
	completed := false
	defer func() {
		if !completed || err != nil {
			ctx.Calibration = nil
		}
		if lerr := Leave(); lerr != nil {
			err = errors.Join(err, lerr)
		}
	}()
	if fn != nil {
		err = fn(exp)
	}
	completed = true
	return err
}
