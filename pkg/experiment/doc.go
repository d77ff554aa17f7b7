/*
Package experiment builds the section tree of a pulse-level experiment.

An Experiment owns its signals and an ordered list of root sections. Sections
are opened and closed on a LIFO scope stack; leaf operations attach to the
innermost open section, except Acquire which attaches to the innermost
real-time one. Closing a scope attaches the section to its parent, or to the
root list when the stack becomes empty.

# Usage

	exp := experiment.MustNew(experiment.WithSignals("drive", "measure", "acquire"))

	err := exp.AcquireLoopRt(1024, func(*domain.AcquireLoopRt) error {
		return exp.Sweep([]domain.Parameter{amp}, func(*domain.Sweep) error {
			if err := exp.Play("drive", xPulse, experiment.WithAmplitude(amp)); err != nil {
				return err
			}
			return exp.Acquire("acquire", "h", experiment.WithAcquireLength(2e-6))
		})
	})

The closure forms close their scope on every exit path. The Open* forms return
a Scope handle that must be closed exactly once, usually with defer.

# Rules

  - A section explicitly marked near-time cannot be opened inside a real-time
    section; unset execution types are inherited from the parent.
  - Case sections live directly under a Match, and a Match holds nothing else.
  - Every signal an operation or trigger names must be registered.
  - Section UIDs are unique within the experiment.

A failed call leaves the stack and the tree unchanged.

An Experiment is not safe for concurrent use.
*/
package experiment
