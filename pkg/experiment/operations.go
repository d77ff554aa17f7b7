package experiment

import (
	"fmt"

	"github.com/aretw0/qdsl/pkg/domain"
)

// AddOperation attaches op to the innermost open section. An Acquire goes to
// the innermost real-time section instead.
func (e *Experiment) AddOperation(op domain.Operation) error {
	if op == nil {
		return fmt.Errorf("cannot add nil operation: %w", domain.ErrInvalidArgument)
	}
	parent, err := e.operationParent(op)
	if err != nil {
		return err
	}
	if err := e.checkOperation(parent, op); err != nil {
		return err
	}
	e.attachOperation(parent, op)
	return nil
}

func (e *Experiment) operationParent(op domain.Operation) (domain.SectionNode, error) {
	if _, ok := op.(domain.Acquire); ok {
		return e.stack.CurrentRealtime()
	}
	return e.stack.Current()
}

func (e *Experiment) attachOperation(parent domain.SectionNode, op domain.Operation) {
	parent.Base().Add(op)
	e.logger.Debug("operation added",
		"experiment", e.UID,
		"section", parent.Base().UID,
		"kind", op.OperationKind(),
	)
	if e.hooks.OnOperation != nil {
		e.hooks.OnOperation(&domain.OperationEvent{
			ExperimentUID: e.UID,
			SectionUID:    parent.Base().UID,
			Kind:          op.OperationKind(),
		})
	}
}

// checkOperation validates op for attachment under parent.
func (e *Experiment) checkOperation(parent domain.SectionNode, op domain.Operation) error {
	if err := checkLeafPlacement(parent, op); err != nil {
		return err
	}
	if err := e.requireSignals(op.Signals()...); err != nil {
		return fmt.Errorf("%s in section %q: %w", op.OperationKind(), parent.Base().UID, err)
	}
	switch o := op.(type) {
	case domain.Play:
		if o.Pulse == nil && len(o.Markers) == 0 && o.Length == nil {
			return fmt.Errorf("play on %q needs a pulse, markers or a length: %w", o.Signal, domain.ErrInvalidArgument)
		}
	case domain.Delay:
		if o.Time == nil {
			return fmt.Errorf("delay on %q needs a time: %w", o.Signal, domain.ErrInvalidArgument)
		}
	case domain.Acquire:
		if o.Handle == "" {
			return fmt.Errorf("acquire needs a handle: %w", domain.ErrInvalidArgument)
		}
		if len(o.SignalUIDs) == 0 {
			return fmt.Errorf("acquire %q needs a signal: %w", o.Handle, domain.ErrInvalidArgument)
		}
		if len(o.Kernels) > 1 && len(o.Kernels) != len(o.SignalUIDs) {
			return fmt.Errorf("acquire %q: %d kernels for %d signals: %w",
				o.Handle, len(o.Kernels), len(o.SignalUIDs), domain.ErrArityMismatch)
		}
		if len(o.PulseParameters) > 1 && len(o.PulseParameters) != len(o.SignalUIDs) {
			return fmt.Errorf("acquire %q: %d kernel parameter sets for %d signals: %w",
				o.Handle, len(o.PulseParameters), len(o.SignalUIDs), domain.ErrArityMismatch)
		}
	case domain.Call:
		if o.FuncName == "" {
			return fmt.Errorf("call needs a function name: %w", domain.ErrInvalidArgument)
		}
		if e.callbacks != nil && !e.callbacks.Has(o.FuncName) {
			return fmt.Errorf("call %q in section %q: %w", o.FuncName, parent.Base().UID, domain.ErrUnknownCallback)
		}
	case domain.Set:
		if o.Path == "" {
			return fmt.Errorf("set needs a node path: %w", domain.ErrInvalidArgument)
		}
	}
	return nil
}

// PlayOption configures a Play operation.
type PlayOption func(*domain.Play)

// WithAmplitude scales the pulse amplitude.
func WithAmplitude(a domain.Quantity) PlayOption {
	return func(p *domain.Play) { p.Amplitude = a }
}

// WithPhase sets the phase of the pulse in radians.
func WithPhase(phase float64) PlayOption {
	return func(p *domain.Play) { p.Phase = &phase }
}

// WithIncrementOscillatorPhase advances the oscillator phase before playing.
func WithIncrementOscillatorPhase(phase domain.Quantity) PlayOption {
	return func(p *domain.Play) { p.IncrementOscillatorPhase = phase }
}

// WithSetOscillatorPhase sets the oscillator phase before playing.
func WithSetOscillatorPhase(phase float64) PlayOption {
	return func(p *domain.Play) { p.SetOscillatorPhase = &phase }
}

// WithPlayLength overrides the pulse length.
func WithPlayLength(length domain.Quantity) PlayOption {
	return func(p *domain.Play) { p.Length = length }
}

// WithPulseParameters passes parameters to a functional pulse.
func WithPulseParameters(args domain.Args) PlayOption {
	return func(p *domain.Play) { p.PulseParameters = args }
}

// WithPrecompensationClear clears the precompensation filter at the pulse start.
func WithPrecompensationClear() PlayOption {
	return func(p *domain.Play) {
		on := true
		p.PrecompensationClear = &on
	}
}

// WithMarker plays a marker together with the pulse.
func WithMarker(name string, m domain.Marker) PlayOption {
	return func(p *domain.Play) {
		if p.Markers == nil {
			p.Markers = make(map[string]domain.Marker)
		}
		p.Markers[name] = m
	}
}

// Play plays pulse on signal in the innermost open section.
func (e *Experiment) Play(signal string, pulse domain.Pulse, opts ...PlayOption) error {
	p := domain.Play{Signal: signal, Pulse: pulse}
	for _, opt := range opts {
		opt(&p)
	}
	return e.AddOperation(p)
}

// Delay waits for time seconds on signal.
func (e *Experiment) Delay(signal string, time domain.Quantity) error {
	return e.AddOperation(domain.Delay{Signal: signal, Time: time})
}

// DelayClear is Delay that also clears the precompensation filter.
func (e *Experiment) DelayClear(signal string, time domain.Quantity) error {
	on := true
	return e.AddOperation(domain.Delay{Signal: signal, Time: time, PrecompensationClear: &on})
}

// AcquireOption configures an Acquire operation.
type AcquireOption func(*domain.Acquire)

// WithKernel sets the integration kernels, one per acquired signal or a single
// kernel shared by all of them.
func WithKernel(kernels ...domain.Pulse) AcquireOption {
	return func(a *domain.Acquire) { a.Kernels = append(a.Kernels, kernels...) }
}

// WithAcquireLength sets the integration length in seconds.
func WithAcquireLength(length float64) AcquireOption {
	return func(a *domain.Acquire) { a.Length = &length }
}

// WithKernelParameters sets pulse parameters for the kernels, parallel to them.
func WithKernelParameters(args ...domain.Args) AcquireOption {
	return func(a *domain.Acquire) { a.PulseParameters = append(a.PulseParameters, args...) }
}

// Acquire records signal under handle. It attaches to the innermost real-time
// section, which need not be the innermost open section.
func (e *Experiment) Acquire(signal, handle string, opts ...AcquireOption) error {
	return e.AcquireSignals([]string{signal}, handle, opts...)
}

// AcquireSignals acquires several signals under one handle, as used for
// multistate discrimination.
func (e *Experiment) AcquireSignals(signals []string, handle string, opts ...AcquireOption) error {
	a := domain.Acquire{SignalUIDs: append([]string(nil), signals...), Handle: handle}
	for _, opt := range opts {
		opt(&a)
	}
	return e.AddOperation(a)
}

// Reserve blocks signal for the duration of the innermost open section.
func (e *Experiment) Reserve(signal string) error {
	return e.AddOperation(domain.Reserve{Signal: signal})
}

// Call schedules the near-time callback funcName with args.
func (e *Experiment) Call(funcName string, args map[string]any) error {
	a, err := domain.ArgsOf(args)
	if err != nil {
		return fmt.Errorf("call %q: %w", funcName, err)
	}
	return e.AddOperation(domain.Call{FuncName: funcName, Args: a})
}

// SetNode writes value to the instrument node at path.
func (e *Experiment) SetNode(path string, value any) error {
	v, err := domain.ValueOf(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	return e.AddOperation(domain.Set{Path: path, Value: v})
}

// Measurement groups the arguments of Measure.
type Measurement struct {
	AcquireSignals    []string
	Handle            string
	Kernels           []domain.Pulse
	KernelParameters  []domain.Args
	IntegrationLength *float64

	// MeasureSignal and MeasurePulse select the readout pulse. A length
	// without a pulse plays a length-only readout for pulsed spectroscopy.
	// With neither nothing is played, which is how CW spectroscopy is expressed.
	MeasureSignal          string
	MeasurePulse           domain.Pulse
	MeasurePulseLength     domain.Quantity
	MeasurePulseParameters domain.Args
	MeasurePulseAmplitude  domain.Quantity

	AcquireDelay *float64
	ResetDelay   *float64
}

// Measure plays the readout pulse, waits AcquireDelay, acquires and then
// waits ResetDelay. All operations land in the innermost open section, which
// must be inside a real-time region. Either every operation is attached or none.
func (e *Experiment) Measure(m Measurement) error {
	parent, err := e.stack.Current()
	if err != nil {
		return err
	}
	if !e.stack.InRealtime() {
		return fmt.Errorf("measure %q: %w", m.Handle, domain.ErrNoRealtimeScope)
	}

	if m.MeasureSignal == "" && (m.MeasurePulse != nil || m.MeasurePulseLength != nil) {
		return fmt.Errorf("measure %q: readout pulse without a measure signal: %w", m.Handle, domain.ErrInvalidArgument)
	}

	var ops []domain.Operation
	if m.MeasureSignal != "" && (m.MeasurePulse != nil || m.MeasurePulseLength != nil) {
		ops = append(ops, domain.Play{
			Signal:          m.MeasureSignal,
			Pulse:           m.MeasurePulse,
			Amplitude:       m.MeasurePulseAmplitude,
			Length:          m.MeasurePulseLength,
			PulseParameters: m.MeasurePulseParameters,
		})
	}
	if m.AcquireDelay != nil {
		for _, s := range m.AcquireSignals {
			ops = append(ops, domain.Delay{Signal: s, Time: domain.Real(*m.AcquireDelay)})
		}
	}
	ops = append(ops, domain.Acquire{
		SignalUIDs:      append([]string(nil), m.AcquireSignals...),
		Handle:          m.Handle,
		Kernels:         m.Kernels,
		Length:          m.IntegrationLength,
		PulseParameters: m.KernelParameters,
	})
	if m.ResetDelay != nil {
		for _, s := range m.AcquireSignals {
			ops = append(ops, domain.Delay{Signal: s, Time: domain.Real(*m.ResetDelay)})
		}
	}

	for _, op := range ops {
		if err := e.checkOperation(parent, op); err != nil {
			return fmt.Errorf("measure %q: %w", m.Handle, err)
		}
	}
	for _, op := range ops {
		e.attachOperation(parent, op)
	}
	return nil
}
