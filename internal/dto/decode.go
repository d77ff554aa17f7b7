package dto

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
)

// Decode maps a generic document, as produced by a YAML or JSON parser, onto
// out. Unknown keys are rejected.
func Decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Calibration converts the document items.
func (d *CalibrationDoc) Calibration() *domain.Calibration {
	return domain.NewCalibration(d.Items)
}

// Build replays the document through the experiment builder so every nesting
// and signal rule is checked again. opts are applied after the document's own
// UID and epsilon.
func (d *ExperimentDoc) Build(opts ...experiment.Option) (*experiment.Experiment, error) {
	var base []experiment.Option
	if d.UID != "" {
		base = append(base, experiment.WithUID(d.UID))
	}
	base = append(base, experiment.WithEpsilon(d.Epsilon))
	exp, err := experiment.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	for _, s := range d.Signals {
		if _, err := exp.AddSignal(s.UID, s.MapTo); err != nil {
			return nil, err
		}
	}

	r, err := newResolver(d)
	if err != nil {
		return nil, err
	}
	for i := range d.Sections {
		if err := r.build(exp, &d.Sections[i]); err != nil {
			return nil, err
		}
	}
	if len(d.Calibration) > 0 {
		if err := exp.SetCalibration(domain.NewCalibration(d.Calibration)); err != nil {
			return nil, err
		}
	}
	return exp, nil
}

type resolver struct {
	params map[string]domain.Parameter
	pulses map[string]domain.Pulse
}

func newResolver(d *ExperimentDoc) (*resolver, error) {
	r := &resolver{
		params: make(map[string]domain.Parameter, len(d.Parameters)),
		pulses: make(map[string]domain.Pulse, len(d.Pulses)),
	}
	for _, p := range d.Parameters {
		if _, dup := r.params[p.UID]; dup {
			return nil, fmt.Errorf("sweep parameter %q declared twice: %w", p.UID, domain.ErrDuplicateIdentifier)
		}
		param, err := p.parameter()
		if err != nil {
			return nil, err
		}
		r.params[p.UID] = param
	}
	for _, p := range d.Pulses {
		if _, dup := r.pulses[p.UID]; dup {
			return nil, fmt.Errorf("pulse %q declared twice: %w", p.UID, domain.ErrDuplicateIdentifier)
		}
		pulse, err := p.pulse()
		if err != nil {
			return nil, err
		}
		r.pulses[p.UID] = pulse
	}
	return r, nil
}

func (p ParameterDoc) parameter() (domain.Parameter, error) {
	if p.UID == "" {
		return nil, fmt.Errorf("sweep parameter without uid: %w", domain.ErrInvalidArgument)
	}
	linear := p.Start != nil || p.Stop != nil
	switch {
	case linear && p.Values != nil:
		return nil, fmt.Errorf("sweep parameter %q: values and start/stop are mutually exclusive: %w", p.UID, domain.ErrInvalidArgument)
	case linear:
		if p.Start == nil || p.Stop == nil {
			return nil, fmt.Errorf("sweep parameter %q: start and stop are both required: %w", p.UID, domain.ErrInvalidArgument)
		}
		return &domain.LinearSweepParameter{UID: p.UID, Start: *p.Start, Stop: *p.Stop, Count: p.Count, AxisName: p.Axis}, nil
	default:
		return &domain.SweepParameter{UID: p.UID, Points: p.Values, AxisName: p.Axis}, nil
	}
}

func (p PulseDoc) pulse() (domain.Pulse, error) {
	if p.UID == "" {
		return nil, fmt.Errorf("pulse without uid: %w", domain.ErrInvalidArgument)
	}
	switch {
	case p.Function != "":
		args, err := domain.ArgsOf(p.Parameters)
		if err != nil {
			return nil, fmt.Errorf("pulse %q: %w", p.UID, err)
		}
		return &domain.PulseFunctional{UID: p.UID, Function: p.Function, Amplitude: p.Amplitude, Length: p.Length, Parameters: args}, nil
	case p.SamplesComplex != nil:
		samples := make([]complex128, len(p.SamplesComplex))
		for i, pair := range p.SamplesComplex {
			if len(pair) != 2 {
				return nil, fmt.Errorf("pulse %q: sample %d is not a [re, im] pair: %w", p.UID, i, domain.ErrInvalidArgument)
			}
			samples[i] = complex(pair[0], pair[1])
		}
		return &domain.PulseSampledComplex{UID: p.UID, Samples: samples}, nil
	default:
		return &domain.PulseSampledReal{UID: p.UID, Samples: p.Samples}, nil
	}
}

func (r *resolver) build(exp *experiment.Experiment, n *NodeDoc) error {
	if isOperation(n.Kind) {
		op, err := r.operation(n)
		if err != nil {
			return err
		}
		return exp.AddOperation(op)
	}

	node, err := r.section(n)
	if err != nil {
		return err
	}
	if err := exp.OpenScope(node); err != nil {
		return err
	}
	for i := range n.Children {
		if err := r.build(exp, &n.Children[i]); err != nil {
			return err
		}
	}
	return exp.CloseScope()
}

func isOperation(kind string) bool {
	switch domain.OperationKind(kind) {
	case domain.OpPlay, domain.OpDelay, domain.OpAcquire, domain.OpReserve, domain.OpCall, domain.OpSet:
		return true
	}
	return false
}

func (r *resolver) section(n *NodeDoc) (domain.SectionNode, error) {
	execType, err := domain.ParseExecutionType(n.ExecutionType)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", n.UID, err)
	}

	var node domain.SectionNode
	switch domain.SectionKind(n.Kind) {
	case domain.KindSection:
		node = domain.NewSection(n.UID)
	case domain.KindSweep:
		params := make([]domain.Parameter, 0, len(n.Parameters))
		for _, uid := range n.Parameters {
			p, ok := r.params[uid]
			if !ok {
				return nil, fmt.Errorf("sweep %q: unknown sweep parameter %q: %w", n.UID, uid, domain.ErrInvalidArgument)
			}
			params = append(params, p)
		}
		chunks := n.ChunkCount
		if chunks == 0 {
			chunks = 1
		}
		s, err := domain.NewSweep(n.UID, params, chunks)
		if err != nil {
			return nil, err
		}
		s.ResetOscillatorPhase = n.ResetOscillatorPhase
		node = s
	case domain.KindAcquireLoopNt:
		if execType != domain.ExecutionTypeUnset && execType != domain.NearTime {
			return nil, fmt.Errorf("acquire loop %q always runs in near time: %w", n.UID, domain.ErrInvalidArgument)
		}
		mode, err := domain.ParseAveragingMode(n.AveragingMode)
		if err != nil {
			return nil, err
		}
		l, err := domain.NewAcquireLoopNt(n.UID, n.Count, mode)
		if err != nil {
			return nil, err
		}
		node = l
	case domain.KindAcquireLoopRt:
		if execType != domain.ExecutionTypeUnset && execType != domain.RealTime {
			return nil, fmt.Errorf("acquire loop %q always runs in real time: %w", n.UID, domain.ErrInvalidArgument)
		}
		l, err := r.acquireLoopRt(n)
		if err != nil {
			return nil, err
		}
		node = l
	case domain.KindMatch:
		routing, err := domain.ParseFeedbackRouting(n.Routing)
		if err != nil {
			return nil, err
		}
		m, err := domain.NewMatch(n.UID, n.Handle, n.UserRegister, routing)
		if err != nil {
			return nil, err
		}
		node = m
	case domain.KindCase:
		if n.State == nil {
			return nil, fmt.Errorf("case %q needs a state: %w", n.UID, domain.ErrInvalidArgument)
		}
		node = domain.NewCase(n.UID, *n.State)
	default:
		return nil, fmt.Errorf("unknown node kind %q: %w", n.Kind, domain.ErrInvalidArgument)
	}

	b := node.Base()
	if execType != domain.ExecutionTypeUnset {
		b.ExecutionType = execType
	}
	if b.Alignment, err = domain.ParseAlignment(n.Alignment); err != nil {
		return nil, err
	}
	if b.Length, err = r.quantity(n.Length); err != nil {
		return nil, fmt.Errorf("section %q length: %w", n.UID, err)
	}
	b.PlayAfter = n.PlayAfter
	if len(n.Trigger) > 0 {
		b.Trigger = make(map[string]domain.Trigger, len(n.Trigger))
		for sig, state := range n.Trigger {
			b.Trigger[sig] = domain.Trigger{State: state}
		}
	}
	b.OnSystemGrid = n.OnSystemGrid
	return node, nil
}

func (r *resolver) acquireLoopRt(n *NodeDoc) (*domain.AcquireLoopRt, error) {
	cfg := domain.AcquireLoopRtConfig{
		UID:                  n.UID,
		Count:                n.Count,
		ResetOscillatorPhase: n.ResetOscillatorPhase,
	}
	var err error
	if cfg.AveragingMode, err = domain.ParseAveragingMode(n.AveragingMode); err != nil {
		return nil, err
	}
	if cfg.AcquisitionType, err = domain.ParseAcquisitionType(n.AcquisitionType); err != nil {
		return nil, err
	}
	if cfg.RepetitionMode, err = domain.ParseRepetitionMode(n.RepetitionMode); err != nil {
		return nil, err
	}
	if cfg.RepetitionTime, err = r.quantity(n.RepetitionTime); err != nil {
		return nil, fmt.Errorf("acquire loop %q repetition time: %w", n.UID, err)
	}
	return domain.NewAcquireLoopRt(cfg)
}

func (r *resolver) operation(n *NodeDoc) (domain.Operation, error) {
	var err error
	switch domain.OperationKind(n.Kind) {
	case domain.OpPlay:
		p := domain.Play{
			Signal:               n.Signal,
			Phase:                n.Phase,
			SetOscillatorPhase:   n.SetOscillatorPhase,
			PrecompensationClear: n.PrecompensationClear,
		}
		if n.Pulse != "" {
			if p.Pulse, err = r.pulse(n.Pulse); err != nil {
				return nil, err
			}
		}
		if p.Amplitude, err = r.quantity(n.Amplitude); err != nil {
			return nil, fmt.Errorf("play on %q amplitude: %w", n.Signal, err)
		}
		if p.IncrementOscillatorPhase, err = r.quantity(n.IncrementOscillatorPhase); err != nil {
			return nil, fmt.Errorf("play on %q oscillator phase: %w", n.Signal, err)
		}
		if p.Length, err = r.quantity(n.Length); err != nil {
			return nil, fmt.Errorf("play on %q length: %w", n.Signal, err)
		}
		if p.PulseParameters, err = domain.ArgsOf(n.PulseParameters); err != nil {
			return nil, fmt.Errorf("play on %q: %w", n.Signal, err)
		}
		if len(n.Markers) > 0 {
			p.Markers = make(map[string]domain.Marker, len(n.Markers))
			for name, m := range n.Markers {
				marker := domain.Marker{Enable: m.Enable, Start: m.Start, Length: m.Length}
				if m.Waveform != "" {
					if marker.Waveform, err = r.pulse(m.Waveform); err != nil {
						return nil, err
					}
				}
				p.Markers[name] = marker
			}
		}
		return p, nil

	case domain.OpDelay:
		d := domain.Delay{Signal: n.Signal, PrecompensationClear: n.PrecompensationClear}
		if d.Time, err = r.quantity(n.Time); err != nil {
			return nil, fmt.Errorf("delay on %q: %w", n.Signal, err)
		}
		return d, nil

	case domain.OpAcquire:
		a := domain.Acquire{Handle: n.Handle, SignalUIDs: n.Signals}
		if n.Signal != "" {
			a.SignalUIDs = append([]string{n.Signal}, a.SignalUIDs...)
		}
		for _, uid := range n.Kernels {
			k, err := r.pulse(uid)
			if err != nil {
				return nil, err
			}
			a.Kernels = append(a.Kernels, k)
		}
		length, err := r.quantity(n.Length)
		if err != nil {
			return nil, fmt.Errorf("acquire %q length: %w", n.Handle, err)
		}
		switch l := length.(type) {
		case nil:
		case domain.Real:
			a.Length = domain.Float(float64(l))
		default:
			return nil, fmt.Errorf("acquire %q: length cannot be swept: %w", n.Handle, domain.ErrInvalidArgument)
		}
		for _, kp := range n.KernelParameters {
			args, err := domain.ArgsOf(kp)
			if err != nil {
				return nil, fmt.Errorf("acquire %q: %w", n.Handle, err)
			}
			a.PulseParameters = append(a.PulseParameters, args)
		}
		return a, nil

	case domain.OpReserve:
		return domain.Reserve{Signal: n.Signal}, nil

	case domain.OpCall:
		args, err := domain.ArgsOf(n.Args)
		if err != nil {
			return nil, fmt.Errorf("call %q: %w", n.Func, err)
		}
		return domain.Call{FuncName: n.Func, Args: args}, nil

	case domain.OpSet:
		v, err := domain.ValueOf(n.Value)
		if err != nil {
			return nil, fmt.Errorf("set %q: %w", n.Path, err)
		}
		return domain.Set{Path: n.Path, Value: v}, nil
	}
	return nil, fmt.Errorf("unknown node kind %q: %w", n.Kind, domain.ErrInvalidArgument)
}

func (r *resolver) pulse(uid string) (domain.Pulse, error) {
	p, ok := r.pulses[uid]
	if !ok {
		return nil, fmt.Errorf("unknown pulse %q: %w", uid, domain.ErrInvalidArgument)
	}
	return p, nil
}

// quantity resolves a number or a sweep parameter reference.
func (r *resolver) quantity(v any) (domain.Quantity, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		p, ok := r.params[x]
		if !ok {
			return nil, fmt.Errorf("unknown sweep parameter %q: %w", x, domain.ErrInvalidArgument)
		}
		return p, nil
	}
	val, err := domain.ValueOf(v)
	if err != nil {
		return nil, err
	}
	num, ok := val.(domain.Number)
	if !ok {
		return nil, fmt.Errorf("expected a number or sweep parameter, got %T: %w", v, domain.ErrInvalidArgument)
	}
	return domain.Real(num), nil
}
