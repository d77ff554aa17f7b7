package domain

// Pulse is a waveform reference played on or used to integrate a signal.
type Pulse interface {
	PulseUID() string
	isPulse()
}

// PulseFunctional is a pulse sampled from a named function of time.
type PulseFunctional struct {
	UID        string   `json:"uid" yaml:"uid"`
	Function   string   `json:"function" yaml:"function"`
	Amplitude  *float64 `json:"amplitude,omitempty" yaml:"amplitude,omitempty"`
	Length     *float64 `json:"length,omitempty" yaml:"length,omitempty"`
	Parameters Args     `json:"-" yaml:"-"`
}

// PulseSampledReal is given by explicit real samples.
type PulseSampledReal struct {
	UID     string    `json:"uid" yaml:"uid"`
	Samples []float64 `json:"samples" yaml:"samples"`
}

// PulseSampledComplex is given by explicit complex samples.
type PulseSampledComplex struct {
	UID     string       `json:"uid" yaml:"uid"`
	Samples []complex128 `json:"-" yaml:"-"`
}

func (p *PulseFunctional) PulseUID() string     { return p.UID }
func (p *PulseSampledReal) PulseUID() string    { return p.UID }
func (p *PulseSampledComplex) PulseUID() string { return p.UID }

func (*PulseFunctional) isPulse()     {}
func (*PulseSampledReal) isPulse()    {}
func (*PulseSampledComplex) isPulse() {}
