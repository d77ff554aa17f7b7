package dto

import (
	"fmt"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
)

// FromExperiment converts a finished experiment into its document form.
// Sweep parameters and pulses are collected into the top-level lists in the
// order they are first referenced; ones without a UID get a generated one.
func FromExperiment(exp *experiment.Experiment) (*ExperimentDoc, error) {
	if exp.Depth() > 0 {
		return nil, fmt.Errorf("experiment %q has %d open sections: %w", exp.UID, exp.Depth(), domain.ErrUnbalancedScope)
	}
	doc := &ExperimentDoc{
		UID:      exp.UID,
		Epsilon:  exp.Epsilon,
		Signals:  make([]SignalDoc, 0),
		Sections: make([]NodeDoc, 0),
	}
	for _, s := range exp.Signals() {
		doc.Signals = append(doc.Signals, SignalDoc{UID: s.UID, MapTo: s.MapTo})
	}
	if cal := exp.Calibration(); len(cal.Items) > 0 {
		doc.Calibration = cal.Items
	}

	e := &encoder{
		doc:       doc,
		params:    make(map[string]domain.Parameter),
		pulses:    make(map[domain.Pulse]string),
		pulseUIDs: make(map[string]struct{}),
	}
	for _, n := range exp.Sections() {
		nd, err := e.section(n)
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, nd)
	}
	return doc, nil
}

type encoder struct {
	doc       *ExperimentDoc
	params    map[string]domain.Parameter
	pulses    map[domain.Pulse]string
	pulseUIDs map[string]struct{}
}

func (e *encoder) section(n domain.SectionNode) (NodeDoc, error) {
	b := n.Base()
	nd := NodeDoc{
		Kind:         n.Kind().String(),
		UID:          b.UID,
		PlayAfter:    b.PlayAfter,
		OnSystemGrid: b.OnSystemGrid,
	}
	if b.Alignment != domain.AlignLeft {
		nd.Alignment = b.Alignment.String()
	}
	if b.ExecutionType != domain.ExecutionTypeUnset {
		nd.ExecutionType = string(b.ExecutionType)
	}
	var err error
	if nd.Length, err = e.quantity(b.Length); err != nil {
		return NodeDoc{}, err
	}
	if len(b.Trigger) > 0 {
		nd.Trigger = make(map[string]int, len(b.Trigger))
		for sig, tr := range b.Trigger {
			nd.Trigger[sig] = tr.State
		}
	}

	switch v := n.(type) {
	case *domain.Sweep:
		for _, p := range v.Parameters {
			uid, err := e.parameter(p)
			if err != nil {
				return NodeDoc{}, err
			}
			nd.Parameters = append(nd.Parameters, uid)
		}
		nd.ResetOscillatorPhase = v.ResetOscillatorPhase
		if v.ChunkCount > 1 {
			nd.ChunkCount = v.ChunkCount
		}
	case *domain.AcquireLoopNt:
		nd.Count = v.Count
		nd.AveragingMode = v.AveragingMode.String()
	case *domain.AcquireLoopRt:
		nd.Count = v.Count
		nd.AveragingMode = v.AveragingMode.String()
		nd.AcquisitionType = v.AcquisitionType.String()
		nd.RepetitionMode = v.RepetitionMode.String()
		if nd.RepetitionTime, err = e.quantity(v.RepetitionTime); err != nil {
			return NodeDoc{}, err
		}
		nd.ResetOscillatorPhase = v.ResetOscillatorPhase
	case *domain.Match:
		nd.Handle = v.Handle
		nd.UserRegister = v.UserRegister
		if v.Routing != domain.RoutingAuto {
			nd.Routing = v.Routing.String()
		}
	case *domain.Case:
		state := v.State
		nd.State = &state
	}

	for _, c := range b.Children {
		var child NodeDoc
		switch c := c.(type) {
		case domain.SectionNode:
			child, err = e.section(c)
		case domain.Operation:
			child, err = e.operation(c)
		default:
			err = fmt.Errorf("section %q: unsupported child %T: %w", b.UID, c, domain.ErrInvalidArgument)
		}
		if err != nil {
			return NodeDoc{}, err
		}
		nd.Children = append(nd.Children, child)
	}
	return nd, nil
}

func (e *encoder) operation(op domain.Operation) (NodeDoc, error) {
	nd := NodeDoc{Kind: op.OperationKind().String()}
	var err error
	switch o := op.(type) {
	case domain.Play:
		nd.Signal = o.Signal
		if o.Pulse != nil {
			nd.Pulse = e.pulse(o.Pulse)
		}
		if nd.Amplitude, err = e.quantity(o.Amplitude); err != nil {
			return NodeDoc{}, err
		}
		nd.Phase = o.Phase
		if nd.IncrementOscillatorPhase, err = e.quantity(o.IncrementOscillatorPhase); err != nil {
			return NodeDoc{}, err
		}
		nd.SetOscillatorPhase = o.SetOscillatorPhase
		if nd.Length, err = e.quantity(o.Length); err != nil {
			return NodeDoc{}, err
		}
		nd.PulseParameters = o.PulseParameters.Interface()
		nd.PrecompensationClear = o.PrecompensationClear
		if len(o.Markers) > 0 {
			nd.Markers = make(map[string]MarkerDoc, len(o.Markers))
			for name, m := range o.Markers {
				md := MarkerDoc{Enable: m.Enable, Start: m.Start, Length: m.Length}
				if m.Waveform != nil {
					md.Waveform = e.pulse(m.Waveform)
				}
				nd.Markers[name] = md
			}
		}
	case domain.Delay:
		nd.Signal = o.Signal
		if nd.Time, err = e.quantity(o.Time); err != nil {
			return NodeDoc{}, err
		}
		nd.PrecompensationClear = o.PrecompensationClear
	case domain.Acquire:
		nd.Handle = o.Handle
		if len(o.SignalUIDs) == 1 {
			nd.Signal = o.SignalUIDs[0]
		} else {
			nd.Signals = o.SignalUIDs
		}
		for _, k := range o.Kernels {
			nd.Kernels = append(nd.Kernels, e.pulse(k))
		}
		if o.Length != nil {
			nd.Length = *o.Length
		}
		for _, args := range o.PulseParameters {
			nd.KernelParameters = append(nd.KernelParameters, args.Interface())
		}
	case domain.Reserve:
		nd.Signal = o.Signal
	case domain.Call:
		nd.Func = o.FuncName
		nd.Args = o.Args.Interface()
	case domain.Set:
		nd.Path = o.Path
		if o.Value != nil {
			nd.Value = o.Value.Interface()
		}
	}
	return nd, nil
}

func (e *encoder) quantity(q domain.Quantity) (any, error) {
	switch v := q.(type) {
	case nil:
		return nil, nil
	case domain.Real:
		return float64(v), nil
	case domain.Parameter:
		return e.parameter(v)
	}
	return nil, fmt.Errorf("unsupported quantity %T: %w", q, domain.ErrInvalidArgument)
}

func (e *encoder) parameter(p domain.Parameter) (string, error) {
	uid := p.ParameterUID()
	if uid == "" {
		return "", fmt.Errorf("sweep parameter without uid cannot be referenced: %w", domain.ErrInvalidArgument)
	}
	if seen, ok := e.params[uid]; ok {
		if seen != p {
			return "", fmt.Errorf("two sweep parameters share uid %q: %w", uid, domain.ErrDuplicateIdentifier)
		}
		return uid, nil
	}
	e.params[uid] = p

	pd := ParameterDoc{UID: uid, Axis: p.Axis()}
	if lin, ok := p.(*domain.LinearSweepParameter); ok {
		pd.Start, pd.Stop, pd.Count = domain.Float(lin.Start), domain.Float(lin.Stop), lin.Count
	} else {
		pd.Values = p.Values()
	}
	e.doc.Parameters = append(e.doc.Parameters, pd)
	return uid, nil
}

func (e *encoder) pulse(p domain.Pulse) string {
	if uid, ok := e.pulses[p]; ok {
		return uid
	}
	uid := p.PulseUID()
	if _, taken := e.pulseUIDs[uid]; uid == "" || taken {
		base := uid
		if base == "" {
			base = "pulse"
		}
		for i := 0; ; i++ {
			cand := fmt.Sprintf("%s_%d", base, i)
			if _, taken := e.pulseUIDs[cand]; !taken {
				uid = cand
				break
			}
		}
	}
	e.pulses[p] = uid
	e.pulseUIDs[uid] = struct{}{}

	pd := PulseDoc{UID: uid}
	switch v := p.(type) {
	case *domain.PulseFunctional:
		pd.Function = v.Function
		pd.Amplitude = v.Amplitude
		pd.Length = v.Length
		pd.Parameters = v.Parameters.Interface()
	case *domain.PulseSampledReal:
		pd.Samples = v.Samples
	case *domain.PulseSampledComplex:
		for _, s := range v.Samples {
			pd.SamplesComplex = append(pd.SamplesComplex, []float64{real(s), imag(s)})
		}
	}
	e.doc.Pulses = append(e.doc.Pulses, pd)
	return uid
}
