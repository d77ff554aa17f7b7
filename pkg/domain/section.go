package domain

import "fmt"

// SectionKind identifies the variant of a section node.
type SectionKind string

const (
	KindSection       SectionKind = "section"
	KindSweep         SectionKind = "sweep"
	KindAcquireLoopNt SectionKind = "acquire_loop_nt"
	KindAcquireLoopRt SectionKind = "acquire_loop_rt"
	KindMatch         SectionKind = "match"
	KindCase          SectionKind = "case"
)

func (k SectionKind) String() string { return string(k) }

// Child is an element of a section's child list: either a SectionNode or an Operation.
type Child interface {
	isChild()
}

// SectionNode is implemented by *Section, *Sweep, *AcquireLoopNt,
// *AcquireLoopRt, *Match and *Case.
type SectionNode interface {
	Child
	Kind() SectionKind
	// Base returns the attributes shared by every section variant.
	Base() *Section
}

// Trigger enables trigger outputs of a signal for the duration of a section.
// State is a bit field; bit n raises trigger n+1.
type Trigger struct {
	State int `json:"state" yaml:"state"`
}

// Section is a scoped group of operations and sub-sections. It is also the
// embedded base of every other section variant.
type Section struct {
	UID           string
	Alignment     Alignment
	ExecutionType ExecutionType
	// Length is the minimal section duration in seconds, nil for automatic.
	Length       Quantity
	PlayAfter    []string
	Trigger      map[string]Trigger
	OnSystemGrid *bool
	Children     []Child
}

// NewSection creates an empty, left-aligned section.
func NewSection(uid string) *Section {
	return &Section{UID: uid, Alignment: AlignLeft}
}

func (*Section) isChild() {}

func (*Section) Kind() SectionKind { return KindSection }

func (s *Section) Base() *Section { return s }

// Add appends a child in declaration order.
func (s *Section) Add(child Child) {
	s.Children = append(s.Children, child)
}

// Sections returns the section children in declaration order.
func (s *Section) Sections() []SectionNode {
	var out []SectionNode
	for _, c := range s.Children {
		if n, ok := c.(SectionNode); ok {
			out = append(out, n)
		}
	}
	return out
}

// Operations returns the leaf children in declaration order.
func (s *Section) Operations() []Operation {
	var out []Operation
	for _, c := range s.Children {
		if op, ok := c.(Operation); ok {
			out = append(out, op)
		}
	}
	return out
}

// Sweep repeats its body once per value of its parameters. All parameters are
// stepped in parallel and have the same length.
type Sweep struct {
	Section
	Parameters           []Parameter
	ResetOscillatorPhase bool
	ChunkCount           int
}

// NewSweep creates a sweep over params.
func NewSweep(uid string, params []Parameter, chunkCount int) (*Sweep, error) {
	s := &Sweep{
		Section:    Section{UID: uid, Alignment: AlignLeft},
		Parameters: params,
		ChunkCount: chunkCount,
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func (*Sweep) Kind() SectionKind { return KindSweep }

// Count is the number of sweep steps.
func (s *Sweep) Count() int {
	if len(s.Parameters) == 0 {
		return 0
	}
	return s.Parameters[0].Len()
}

func (s *Sweep) check() error {
	if len(s.Parameters) == 0 {
		return fmt.Errorf("sweep %q has no parameters: %w", s.UID, ErrArityMismatch)
	}
	for i, p := range s.Parameters {
		if p == nil {
			return fmt.Errorf("sweep %q: parameter %d is nil: %w", s.UID, i, ErrInvalidArgument)
		}
	}
	n := s.Parameters[0].Len()
	for _, p := range s.Parameters[1:] {
		if p.Len() != n {
			return fmt.Errorf("sweep %q: parameter %q has %d values, %q has %d: %w",
				s.UID, s.Parameters[0].ParameterUID(), n, p.ParameterUID(), p.Len(), ErrArityMismatch)
		}
	}
	if n < 1 {
		return fmt.Errorf("sweep %q: parameter %q has no values: %w", s.UID, s.Parameters[0].ParameterUID(), ErrInvalidArgument)
	}
	if s.ChunkCount < 1 {
		return fmt.Errorf("sweep %q: chunk count %d must be at least 1: %w", s.UID, s.ChunkCount, ErrInvalidArgument)
	}
	return nil
}

// AcquireLoopNt averages its body in near time.
type AcquireLoopNt struct {
	Section
	Count         int
	AveragingMode AveragingMode
}

// NewAcquireLoopNt creates a near-time acquire loop.
func NewAcquireLoopNt(uid string, count int, mode AveragingMode) (*AcquireLoopNt, error) {
	l := &AcquireLoopNt{
		Section:       Section{UID: uid, Alignment: AlignLeft, ExecutionType: NearTime},
		Count:         count,
		AveragingMode: mode,
	}
	if err := l.check(); err != nil {
		return nil, err
	}
	return l, nil
}

func (*AcquireLoopNt) Kind() SectionKind { return KindAcquireLoopNt }

func (l *AcquireLoopNt) check() error {
	return checkCount("acquire loop", l.UID, l.Count)
}

func checkCount(what, uid string, count int) error {
	if count < 1 {
		return fmt.Errorf("%s %q: count %d must be at least 1: %w", what, uid, count, ErrInvalidArgument)
	}
	return nil
}

// AcquireLoopRt is the real-time shot loop.
type AcquireLoopRt struct {
	Section
	Count           int
	AveragingMode   AveragingMode
	AcquisitionType AcquisitionType
	RepetitionMode  RepetitionMode
	// RepetitionTime is set if and only if RepetitionMode is Constant.
	RepetitionTime       Quantity
	ResetOscillatorPhase bool
}

// AcquireLoopRtConfig holds the settings of a real-time acquire loop.
type AcquireLoopRtConfig struct {
	UID                  string
	Count                int
	AveragingMode        AveragingMode
	AcquisitionType      AcquisitionType
	RepetitionMode       RepetitionMode
	RepetitionTime       Quantity
	ResetOscillatorPhase bool
}

// NewAcquireLoopRt creates a real-time acquire loop. Empty enum fields take
// their defaults (cyclic, integration, fastest).
func NewAcquireLoopRt(cfg AcquireLoopRtConfig) (*AcquireLoopRt, error) {
	l := &AcquireLoopRt{
		Section:              Section{UID: cfg.UID, Alignment: AlignLeft, ExecutionType: RealTime},
		Count:                cfg.Count,
		AveragingMode:        cfg.AveragingMode,
		AcquisitionType:      cfg.AcquisitionType,
		RepetitionMode:       cfg.RepetitionMode,
		RepetitionTime:       cfg.RepetitionTime,
		ResetOscillatorPhase: cfg.ResetOscillatorPhase,
	}
	if l.AveragingMode == "" {
		l.AveragingMode = Cyclic
	}
	if l.AcquisitionType == "" {
		l.AcquisitionType = Integration
	}
	if l.RepetitionMode == "" {
		l.RepetitionMode = Fastest
	}
	if err := l.check(); err != nil {
		return nil, err
	}
	return l, nil
}

func (*AcquireLoopRt) Kind() SectionKind { return KindAcquireLoopRt }

func (l *AcquireLoopRt) check() error {
	if err := checkCount("acquire loop", l.UID, l.Count); err != nil {
		return err
	}
	switch {
	case l.RepetitionMode == Constant && l.RepetitionTime == nil:
		return fmt.Errorf("acquire loop %q: repetition time is required for repetition mode %s: %w",
			l.UID, Constant, ErrInvalidArgument)
	case l.RepetitionMode != Constant && l.RepetitionTime != nil:
		return fmt.Errorf("acquire loop %q: repetition time is only valid for repetition mode %s, got %s: %w",
			l.UID, Constant, l.RepetitionMode, ErrInvalidArgument)
	}
	return nil
}

// Match selects one of its Case children from a measurement result (Handle)
// or a user register (UserRegister). Exactly one selector is set.
type Match struct {
	Section
	Handle       string
	UserRegister *int
	// Routing is only meaningful with Handle. RoutingAuto defers the choice
	// of feedback path to the compiler.
	Routing FeedbackRouting
}

// NewMatch creates a match section.
func NewMatch(uid, handle string, userRegister *int, routing FeedbackRouting) (*Match, error) {
	if routing == "" {
		routing = RoutingAuto
	}
	m := &Match{
		Section:      Section{UID: uid, Alignment: AlignLeft},
		Handle:       handle,
		UserRegister: userRegister,
		Routing:      routing,
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	return m, nil
}

func (*Match) Kind() SectionKind { return KindMatch }

// Cases returns the Case children in declaration order.
func (m *Match) Cases() []*Case {
	var out []*Case
	for _, c := range m.Children {
		if cs, ok := c.(*Case); ok {
			out = append(out, cs)
		}
	}
	return out
}

func (m *Match) check() error {
	switch {
	case m.Handle != "" && m.UserRegister != nil:
		return fmt.Errorf("match %q: handle and user register are mutually exclusive: %w", m.UID, ErrInvalidArgument)
	case m.Handle == "" && m.UserRegister == nil:
		return fmt.Errorf("match %q: one of handle or user register is required: %w", m.UID, ErrInvalidArgument)
	case m.UserRegister != nil && m.Routing != RoutingAuto:
		return fmt.Errorf("match %q: feedback routing %s requires a handle: %w", m.UID, m.Routing, ErrInvalidArgument)
	}
	return nil
}

// Case is a branch of a Match, played when the match result equals State.
type Case struct {
	Section
	State int
}

// NewCase creates a case section.
func NewCase(uid string, state int) *Case {
	return &Case{Section: Section{UID: uid, Alignment: AlignLeft}, State: state}
}

func (*Case) Kind() SectionKind { return KindCase }

// Check validates the locally checkable constraints of a single node.
func Check(n SectionNode) error {
	switch v := n.(type) {
	case *Sweep:
		return v.check()
	case *AcquireLoopNt:
		return v.check()
	case *AcquireLoopRt:
		return v.check()
	case *Match:
		return v.check()
	}
	return nil
}
