package experiment

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/aretw0/qdsl/internal/logging"
	"github.com/aretw0/qdsl/pkg/domain"
)

var experimentSeq atomic.Int64

func nextExperimentUID() string {
	return fmt.Sprintf("exp_%d", experimentSeq.Add(1)-1)
}

// Experiment is the root of a section tree under construction. It owns the
// registered signals, the root section list and the stack of open scopes.
//
// An Experiment is built by a single goroutine; it is not safe for concurrent use.
type Experiment struct {
	UID     string
	Epsilon float64

	signals     map[string]*Signal
	signalOrder []string
	sections    []domain.SectionNode
	sectionUIDs map[string]struct{}

	stack     ScopeStack
	ids       IDGenerator
	hooks     domain.ScopeHooks
	callbacks Callbacks
	logger    *slog.Logger

	initErr error
}

// Callbacks reports which near-time callback names are known.
type Callbacks interface {
	Has(name string) bool
}

// Option configures an Experiment.
type Option func(*Experiment)

// WithUID sets the experiment UID. Without it a process-wide "exp_<n>" is used.
func WithUID(uid string) Option {
	return func(e *Experiment) {
		e.UID = uid
	}
}

// WithEpsilon sets the timing tolerance handed to downstream stages.
func WithEpsilon(eps float64) Option {
	return func(e *Experiment) {
		e.Epsilon = eps
	}
}

// WithLogger sets a custom structured logger for the builder.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Experiment) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.ScopeHooks) Option {
	return func(e *Experiment) {
		e.hooks = hooks
	}
}

// WithCallbacks makes Call reject function names unknown to cb.
// Without it any non-empty name is accepted.
func WithCallbacks(cb Callbacks) Option {
	return func(e *Experiment) {
		e.callbacks = cb
	}
}

// WithIDGenerator replaces the generator used for omitted signal and section UIDs.
func WithIDGenerator(ids IDGenerator) Option {
	return func(e *Experiment) {
		e.ids = ids
	}
}

// WithSignals registers unmapped signals with the given UIDs.
func WithSignals(uids ...string) Option {
	return func(e *Experiment) {
		for _, uid := range uids {
			if _, err := e.AddSignal(uid, ""); err != nil && e.initErr == nil {
				e.initErr = err
			}
		}
	}
}

// New creates an empty experiment.
func New(opts ...Option) (*Experiment, error) {
	e := &Experiment{
		signals:     make(map[string]*Signal),
		sectionUIDs: make(map[string]struct{}),
		ids:         NewSequentialIDs(),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.initErr != nil {
		return nil, e.initErr
	}
	if e.UID == "" {
		e.UID = nextExperimentUID()
	}
	if e.ids == nil {
		e.ids = NewSequentialIDs()
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e, nil
}

// MustNew is New that panics on error. Intended for tests and examples.
func MustNew(opts ...Option) *Experiment {
	e, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Sections returns the top-level sections in declaration order.
func (e *Experiment) Sections() []domain.SectionNode {
	return append([]domain.SectionNode(nil), e.sections...)
}

// Depth is the number of currently open scopes.
func (e *Experiment) Depth() int {
	return e.stack.Len()
}

// Stack exposes the scope stack for read-only queries.
func (e *Experiment) Stack() *ScopeStack {
	return &e.stack
}

// Add attaches a prebuilt section to the innermost open section, or to the
// root list when no scope is open. The whole subtree is validated first.
func (e *Experiment) Add(node domain.SectionNode) error {
	if node == nil {
		return fmt.Errorf("cannot add nil section: %w", domain.ErrInvalidArgument)
	}
	parent, _ := e.stack.Current()
	if err := e.checkSubtree(parent, node); err != nil {
		return err
	}
	e.claimSubtree(parent, node)
	e.attach(parent, node)
	e.logger.Debug("section added", "experiment", e.UID, "section", node.Base().UID, "kind", node.Kind())
	return nil
}

// attach wires node into parent, or into the root list when parent is nil.
func (e *Experiment) attach(parent, node domain.SectionNode) {
	if parent == nil {
		e.sections = append(e.sections, node)
		return
	}
	parent.Base().Add(node)
}
