package experiment

import (
	"fmt"

	"github.com/aretw0/qdsl/pkg/domain"
)

type sectionConfig struct {
	uid           string
	alignment     domain.Alignment
	executionType domain.ExecutionType
	length        domain.Quantity
	playAfter     []string
	trigger       map[string]domain.Trigger
	onSystemGrid  *bool

	resetOscillatorPhase bool
	chunkCount           int
	averagingMode        domain.AveragingMode
	acquisitionType      domain.AcquisitionType
	repetitionMode       domain.RepetitionMode
	repetitionTime       domain.Quantity
}

// SectionOption configures a section opened by one of the scope builders.
// Options that do not apply to the kind being opened are ignored.
type SectionOption func(*sectionConfig)

// WithSectionUID sets the section UID. Without it a UID is generated.
func WithSectionUID(uid string) SectionOption {
	return func(c *sectionConfig) { c.uid = uid }
}

// WithAlignment sets the alignment of the section's children.
func WithAlignment(a domain.Alignment) SectionOption {
	return func(c *sectionConfig) { c.alignment = a }
}

// WithExecutionType requests near-time or real-time execution. Without it the
// section inherits the type of its parent.
func WithExecutionType(t domain.ExecutionType) SectionOption {
	return func(c *sectionConfig) { c.executionType = t }
}

// WithLength sets the minimal duration of the section in seconds.
func WithLength(length domain.Quantity) SectionOption {
	return func(c *sectionConfig) { c.length = length }
}

// WithPlayAfter orders the section after the sections with the given UIDs.
func WithPlayAfter(uids ...string) SectionOption {
	return func(c *sectionConfig) { c.playAfter = append(c.playAfter, uids...) }
}

// WithTrigger raises the trigger bits in state on signal for the section's duration.
func WithTrigger(signal string, state int) SectionOption {
	return func(c *sectionConfig) {
		if c.trigger == nil {
			c.trigger = make(map[string]domain.Trigger)
		}
		c.trigger[signal] = domain.Trigger{State: state}
	}
}

// WithOnSystemGrid forces the section boundaries onto the system grid.
func WithOnSystemGrid(on bool) SectionOption {
	return func(c *sectionConfig) { c.onSystemGrid = &on }
}

// WithResetOscillatorPhase resets all oscillators at the start of every step
// of a sweep or real-time acquire loop.
func WithResetOscillatorPhase() SectionOption {
	return func(c *sectionConfig) { c.resetOscillatorPhase = true }
}

// WithChunkCount splits a sweep into n chunks.
func WithChunkCount(n int) SectionOption {
	return func(c *sectionConfig) { c.chunkCount = n }
}

// WithAveragingMode sets the averaging mode of an acquire loop.
func WithAveragingMode(m domain.AveragingMode) SectionOption {
	return func(c *sectionConfig) { c.averagingMode = m }
}

// WithAcquisitionType sets the acquisition type of a real-time acquire loop.
func WithAcquisitionType(t domain.AcquisitionType) SectionOption {
	return func(c *sectionConfig) { c.acquisitionType = t }
}

// WithRepetition sets the shot repetition of a real-time acquire loop.
// time must be set for domain.Constant and nil otherwise.
func WithRepetition(mode domain.RepetitionMode, time domain.Quantity) SectionOption {
	return func(c *sectionConfig) {
		c.repetitionMode = mode
		c.repetitionTime = time
	}
}

func newSectionConfig(opts []SectionOption) *sectionConfig {
	c := &sectionConfig{chunkCount: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *sectionConfig) applyBase(b *domain.Section) {
	if c.alignment != "" {
		b.Alignment = c.alignment
	}
	b.Length = c.length
	if len(c.playAfter) > 0 {
		b.PlayAfter = append([]string(nil), c.playAfter...)
	}
	b.Trigger = c.trigger
	b.OnSystemGrid = c.onSystemGrid
}

// fixedExecutionType rejects an explicit execution type that contradicts the
// one implied by the section kind.
func (c *sectionConfig) fixedExecutionType(kind domain.SectionKind, want domain.ExecutionType) error {
	if c.executionType != domain.ExecutionTypeUnset && c.executionType != want {
		return fmt.Errorf("%s always runs in %s, got %s: %w", kind, want, c.executionType, domain.ErrInvalidArgument)
	}
	return nil
}

// OpenSection opens a plain section scope.
func (e *Experiment) OpenSection(opts ...SectionOption) (*Scope[*domain.Section], error) {
	c := newSectionConfig(opts)
	s := domain.NewSection(c.uid)
	c.applyBase(s)
	s.ExecutionType = c.executionType
	return openTyped(e, s)
}

// Section runs body inside a plain section scope.
func (e *Experiment) Section(body func(*domain.Section) error, opts ...SectionOption) error {
	scope, err := e.OpenSection(opts...)
	if err != nil {
		return err
	}
	return scope.Run(body)
}

// OpenSweep opens a sweep over params, stepped in parallel.
// A near-time sweep cannot be opened inside a real-time section.
func (e *Experiment) OpenSweep(params []domain.Parameter, opts ...SectionOption) (*Scope[*domain.Sweep], error) {
	c := newSectionConfig(opts)
	s, err := domain.NewSweep(c.uid, params, c.chunkCount)
	if err != nil {
		return nil, err
	}
	c.applyBase(&s.Section)
	s.ExecutionType = c.executionType
	s.ResetOscillatorPhase = c.resetOscillatorPhase
	return openTyped(e, s)
}

// Sweep runs body inside a sweep scope.
func (e *Experiment) Sweep(params []domain.Parameter, body func(*domain.Sweep) error, opts ...SectionOption) error {
	scope, err := e.OpenSweep(params, opts...)
	if err != nil {
		return err
	}
	return scope.Run(body)
}

// OpenAcquireLoopNt opens a near-time acquire loop of count iterations.
func (e *Experiment) OpenAcquireLoopNt(count int, opts ...SectionOption) (*Scope[*domain.AcquireLoopNt], error) {
	c := newSectionConfig(opts)
	if err := c.fixedExecutionType(domain.KindAcquireLoopNt, domain.NearTime); err != nil {
		return nil, err
	}
	mode := c.averagingMode
	if mode == "" {
		mode = domain.Cyclic
	}
	l, err := domain.NewAcquireLoopNt(c.uid, count, mode)
	if err != nil {
		return nil, err
	}
	c.applyBase(&l.Section)
	return openTyped(e, l)
}

// AcquireLoopNt runs body inside a near-time acquire loop.
func (e *Experiment) AcquireLoopNt(count int, body func(*domain.AcquireLoopNt) error, opts ...SectionOption) error {
	scope, err := e.OpenAcquireLoopNt(count, opts...)
	if err != nil {
		return err
	}
	return scope.Run(body)
}

// OpenAcquireLoopRt opens the real-time shot loop.
func (e *Experiment) OpenAcquireLoopRt(count int, opts ...SectionOption) (*Scope[*domain.AcquireLoopRt], error) {
	c := newSectionConfig(opts)
	if err := c.fixedExecutionType(domain.KindAcquireLoopRt, domain.RealTime); err != nil {
		return nil, err
	}
	l, err := domain.NewAcquireLoopRt(domain.AcquireLoopRtConfig{
		UID:                  c.uid,
		Count:                count,
		AveragingMode:        c.averagingMode,
		AcquisitionType:      c.acquisitionType,
		RepetitionMode:       c.repetitionMode,
		RepetitionTime:       c.repetitionTime,
		ResetOscillatorPhase: c.resetOscillatorPhase,
	})
	if err != nil {
		return nil, err
	}
	c.applyBase(&l.Section)
	return openTyped(e, l)
}

// AcquireLoopRt runs body inside the real-time shot loop.
func (e *Experiment) AcquireLoopRt(count int, body func(*domain.AcquireLoopRt) error, opts ...SectionOption) error {
	scope, err := e.OpenAcquireLoopRt(count, opts...)
	if err != nil {
		return err
	}
	return scope.Run(body)
}

// OpenMatch opens a match on either a measurement handle or a user register;
// exactly one of them must be given. With a handle the feedback path is
// chosen downstream.
func (e *Experiment) OpenMatch(handle string, userRegister *int, opts ...SectionOption) (*Scope[*domain.Match], error) {
	return e.openMatch(handle, userRegister, domain.RoutingAuto, opts)
}

// OpenMatchLocal opens a match on handle using QA-local feedback.
func (e *Experiment) OpenMatchLocal(handle string, opts ...SectionOption) (*Scope[*domain.Match], error) {
	return e.openMatch(handle, nil, domain.RoutingLocal, opts)
}

// OpenMatchGlobal opens a match on handle using global feedback via the sync controller.
func (e *Experiment) OpenMatchGlobal(handle string, opts ...SectionOption) (*Scope[*domain.Match], error) {
	return e.openMatch(handle, nil, domain.RoutingGlobal, opts)
}

func (e *Experiment) openMatch(handle string, userRegister *int, routing domain.FeedbackRouting, opts []SectionOption) (*Scope[*domain.Match], error) {
	c := newSectionConfig(opts)
	m, err := domain.NewMatch(c.uid, handle, userRegister, routing)
	if err != nil {
		return nil, err
	}
	c.applyBase(&m.Section)
	m.ExecutionType = c.executionType
	return openTyped(e, m)
}

// Match runs body inside a match scope. Only Case scopes may be opened in body.
func (e *Experiment) Match(handle string, userRegister *int, body func(*domain.Match) error, opts ...SectionOption) error {
	scope, err := e.OpenMatch(handle, userRegister, opts...)
	if err != nil {
		return err
	}
	return scope.Run(body)
}

// MatchLocal is Match on handle with QA-local feedback.
func (e *Experiment) MatchLocal(handle string, body func(*domain.Match) error, opts ...SectionOption) error {
	scope, err := e.OpenMatchLocal(handle, opts...)
	if err != nil {
		return err
	}
	return scope.Run(body)
}

// MatchGlobal is Match on handle with global feedback.
func (e *Experiment) MatchGlobal(handle string, body func(*domain.Match) error, opts ...SectionOption) error {
	scope, err := e.OpenMatchGlobal(handle, opts...)
	if err != nil {
		return err
	}
	return scope.Run(body)
}

// OpenCase opens the branch for state. The innermost open section must be a Match.
func (e *Experiment) OpenCase(state int, opts ...SectionOption) (*Scope[*domain.Case], error) {
	c := newSectionConfig(opts)
	cs := domain.NewCase(c.uid, state)
	c.applyBase(&cs.Section)
	cs.ExecutionType = c.executionType
	return openTyped(e, cs)
}

// Case runs body inside a case scope. body may only issue leaf operations.
func (e *Experiment) Case(state int, body func(*domain.Case) error, opts ...SectionOption) error {
	scope, err := e.OpenCase(state, opts...)
	if err != nil {
		return err
	}
	return scope.Run(body)
}
