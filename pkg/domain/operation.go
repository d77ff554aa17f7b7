package domain

// OperationKind identifies the variant of a leaf operation.
type OperationKind string

const (
	OpPlay    OperationKind = "play"
	OpDelay   OperationKind = "delay"
	OpAcquire OperationKind = "acquire"
	OpReserve OperationKind = "reserve"
	OpCall    OperationKind = "call"
	OpSet     OperationKind = "set"
)

func (k OperationKind) String() string { return string(k) }

// Operation is a leaf of the section tree. Operations are values; once attached
// to a section they are not modified.
type Operation interface {
	Child
	OperationKind() OperationKind
	// Signals lists the experiment signals the operation refers to.
	Signals() []string
}

// Marker configures a marker output played together with a pulse.
type Marker struct {
	Enable   bool     `json:"enable" yaml:"enable"`
	Start    *float64 `json:"start,omitempty" yaml:"start,omitempty"`
	Length   *float64 `json:"length,omitempty" yaml:"length,omitempty"`
	Waveform Pulse    `json:"-" yaml:"-"`
}

// Play plays a pulse on a signal line. A nil Pulse with Markers set plays
// markers only.
type Play struct {
	Signal                   string
	Pulse                    Pulse
	Amplitude                Quantity
	Phase                    *float64
	IncrementOscillatorPhase Quantity
	SetOscillatorPhase       *float64
	Length                   Quantity
	PulseParameters          Args
	PrecompensationClear     *bool
	Markers                  map[string]Marker
}

// Delay postpones the next operation on a signal.
type Delay struct {
	Signal               string
	Time                 Quantity
	PrecompensationClear *bool
}

// Acquire records data on one or more signals under Handle. With several
// signals (multistate discrimination) Kernels and PulseParameters run parallel
// to Signals.
type Acquire struct {
	SignalUIDs      []string
	Handle          string
	Kernels         []Pulse
	Length          *float64
	PulseParameters []Args
}

// Reserve keeps a signal unavailable to other sections while the enclosing
// section is active.
type Reserve struct {
	Signal string
}

// Call invokes a near-time callback by name.
type Call struct {
	FuncName string
	Args     Args
}

// Set writes a value to an instrument node.
type Set struct {
	Path  string
	Value Value
}

func (Play) isChild()    {}
func (Delay) isChild()   {}
func (Acquire) isChild() {}
func (Reserve) isChild() {}
func (Call) isChild()    {}
func (Set) isChild()     {}

func (Play) OperationKind() OperationKind    { return OpPlay }
func (Delay) OperationKind() OperationKind   { return OpDelay }
func (Acquire) OperationKind() OperationKind { return OpAcquire }
func (Reserve) OperationKind() OperationKind { return OpReserve }
func (Call) OperationKind() OperationKind    { return OpCall }
func (Set) OperationKind() OperationKind     { return OpSet }

func (p Play) Signals() []string    { return []string{p.Signal} }
func (d Delay) Signals() []string   { return []string{d.Signal} }
func (a Acquire) Signals() []string { return append([]string(nil), a.SignalUIDs...) }
func (r Reserve) Signals() []string { return []string{r.Signal} }
func (Call) Signals() []string      { return nil }
func (Set) Signals() []string       { return nil }
