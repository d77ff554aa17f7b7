package domain

import (
	"fmt"
	"sort"
)

// Value is the closed set of loosely-typed values carried by call arguments,
// instrument node settings and pulse parameter bindings.
// Implementations: Number, Text, Bool, Map.
type Value interface {
	isValue()
	// Interface returns the plain Go representation (float64, string, bool or
	// map[string]any).
	Interface() any
}

// Args maps argument names to values.
type Args map[string]Value

// Number is a numeric value.
type Number float64

// Text is a string value.
type Text string

// Bool is a boolean value.
type Bool bool

// Map is a nested mapping of values.
type Map map[string]Value

func (Number) isValue() {}
func (Text) isValue()   {}
func (Bool) isValue()   {}
func (Map) isValue()    {}

func (v Number) Interface() any { return float64(v) }
func (v Text) Interface() any   { return string(v) }
func (v Bool) Interface() any   { return bool(v) }

func (v Map) Interface() any {
	out := make(map[string]any, len(v))
	for k, e := range v {
		if e == nil {
			out[k] = nil
			continue
		}
		out[k] = e.Interface()
	}
	return out
}

// Interface converts the arguments to a plain map.
func (a Args) Interface() map[string]any {
	if a == nil {
		return nil
	}
	return Map(a).Interface().(map[string]any)
}

// Keys returns the argument names in sorted order.
func (a Args) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValueOf converts a plain Go value to a Value.
// Supported inputs are numbers, strings, booleans and string-keyed maps of those.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(x), nil
	case int:
		return Number(x), nil
	case int8:
		return Number(x), nil
	case int16:
		return Number(x), nil
	case int32:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case uint:
		return Number(x), nil
	case uint8:
		return Number(x), nil
	case uint16:
		return Number(x), nil
	case uint32:
		return Number(x), nil
	case uint64:
		return Number(x), nil
	case string:
		return Text(x), nil
	case bool:
		return Bool(x), nil
	case map[string]any:
		m := make(Map, len(x))
		for k, e := range x {
			ev, err := ValueOf(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = ev
		}
		return m, nil
	case map[string]Value:
		return Map(x), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T: %w", v, ErrInvalidArgument)
	}
}

// ArgsOf converts a plain map to Args.
func ArgsOf(m map[string]any) (Args, error) {
	if m == nil {
		return nil, nil
	}
	args := make(Args, len(m))
	for k, v := range m {
		val, err := ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", k, err)
		}
		args[k] = val
	}
	return args, nil
}

// Quantity is a numeric operation field that is either a literal Real or a
// sweep Parameter resolved per sweep step by the compiler.
type Quantity interface {
	isQuantity()
}

// Real is a literal real-valued quantity.
type Real float64

func (Real) isQuantity() {}

// Float returns a pointer to v, for optional float fields.
func Float(v float64) *float64 { return &v }

// Parameter is a sweep parameter: a named sequence of values a sweep iterates over.
type Parameter interface {
	Quantity
	ParameterUID() string
	// Len is the number of sweep steps.
	Len() int
	// Values returns the value of every sweep step.
	Values() []float64
	Axis() string
}

// SweepParameter is an explicit list of values.
type SweepParameter struct {
	UID      string    `json:"uid" yaml:"uid"`
	Points   []float64 `json:"values" yaml:"values"`
	AxisName string    `json:"axis_name,omitempty" yaml:"axis_name,omitempty"`
}

func (*SweepParameter) isQuantity()            {}
func (p *SweepParameter) ParameterUID() string { return p.UID }
func (p *SweepParameter) Len() int             { return len(p.Points) }
func (p *SweepParameter) Axis() string         { return p.AxisName }

func (p *SweepParameter) Values() []float64 {
	out := make([]float64, len(p.Points))
	copy(out, p.Points)
	return out
}

// LinearSweepParameter spans Count evenly spaced values from Start to Stop inclusive.
type LinearSweepParameter struct {
	UID      string  `json:"uid" yaml:"uid"`
	Start    float64 `json:"start" yaml:"start"`
	Stop     float64 `json:"stop" yaml:"stop"`
	Count    int     `json:"count" yaml:"count"`
	AxisName string  `json:"axis_name,omitempty" yaml:"axis_name,omitempty"`
}

func (*LinearSweepParameter) isQuantity()            {}
func (p *LinearSweepParameter) ParameterUID() string { return p.UID }
func (p *LinearSweepParameter) Axis() string         { return p.AxisName }

func (p *LinearSweepParameter) Len() int {
	if p.Count < 0 {
		return 0
	}
	return p.Count
}

func (p *LinearSweepParameter) Values() []float64 {
	n := p.Len()
	out := make([]float64, n)
	switch n {
	case 0:
	case 1:
		out[0] = p.Start
	default:
		step := (p.Stop - p.Start) / float64(n-1)
		for i := range out {
			out[i] = p.Start + float64(i)*step
		}
		out[n-1] = p.Stop
	}
	return out
}
