package qdsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/qdsl/pkg/domain"
)

// ErrNoExperimentContext is returned when no experiment is being defined.
var ErrNoExperimentContext = errors.New("no experiment context")

// Context is an active experiment definition.
type Context struct {
	Experiment *Experiment
	// Calibration is applied to Experiment when the context is left.
	Calibration *domain.Calibration
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithCalibration applies cal to the experiment signals when the context is left.
func WithCalibration(cal *domain.Calibration) ContextOption {
	return func(c *Context) {
		c.Calibration = cal
	}
}

// contexts is the process-wide stack of active definitions. It allows nested
// definitions but is not synchronized: define experiments from one goroutine
// at a time, or pass the *Experiment around explicitly instead.
var contexts []*Context

// Enter makes exp the current experiment until the matching Leave.
func Enter(exp *Experiment, opts ...ContextOption) *Context {
	c := &Context{Experiment: exp}
	for _, opt := range opts {
		opt(c)
	}
	contexts = append(contexts, c)
	return c
}

// Leave ends the innermost definition and applies its calibration, if any.
// The context is removed even when applying the calibration fails.
func Leave() error {
	if len(contexts) == 0 {
		return ErrNoExperimentContext
	}
	c := contexts[len(contexts)-1]
	contexts[len(contexts)-1] = nil
	contexts = contexts[:len(contexts)-1]

	if c.Calibration != nil {
		if err := c.Experiment.SetCalibration(c.Calibration); err != nil {
			return fmt.Errorf("leaving experiment %q: %w", c.Experiment.UID, err)
		}
	}
	return nil
}

// Current returns the experiment of the innermost active definition.
func Current() (*Experiment, error) {
	c, err := CurrentContext()
	if err != nil {
		return nil, err
	}
	return c.Experiment, nil
}

// CurrentContext returns the innermost active definition.
func CurrentContext() (*Context, error) {
	if len(contexts) == 0 {
		return nil, fmt.Errorf("define an experiment first: %w", ErrNoExperimentContext)
	}
	return contexts[len(contexts)-1], nil
}

// Depth is the number of nested active definitions.
func Depth() int {
	return len(contexts)
}
