package experiment

import (
	"errors"
	"fmt"

	"github.com/aretw0/qdsl/pkg/domain"
)

// ScopeStack is the LIFO stack of currently open sections.
// The tree itself holds no parent links; the stack is the only record of
// where new children attach and which execution context is active.
type ScopeStack struct {
	nodes []domain.SectionNode
}

// Len is the number of open sections.
func (s *ScopeStack) Len() int { return len(s.nodes) }

// Nodes returns the open sections from outermost to innermost.
func (s *ScopeStack) Nodes() []domain.SectionNode {
	return append([]domain.SectionNode(nil), s.nodes...)
}

// Current returns the innermost open section.
func (s *ScopeStack) Current() (domain.SectionNode, error) {
	if len(s.nodes) == 0 {
		return nil, fmt.Errorf("no section in experiment, open a section scope first: %w", domain.ErrNoActiveScope)
	}
	return s.nodes[len(s.nodes)-1], nil
}

// CurrentRealtime returns the innermost open real-time section.
func (s *ScopeStack) CurrentRealtime() (domain.SectionNode, error) {
	if len(s.nodes) == 0 {
		return nil, fmt.Errorf("no section in experiment, open a section scope first: %w", domain.ErrNoActiveScope)
	}
	for i := len(s.nodes) - 1; i >= 0; i-- {
		if s.nodes[i].Base().ExecutionType == domain.RealTime {
			return s.nodes[i], nil
		}
	}
	return nil, fmt.Errorf("open a real-time acquire loop first: %w", domain.ErrNoRealtimeScope)
}

// InRealtime reports whether any open section is real-time.
func (s *ScopeStack) InRealtime() bool {
	_, err := s.CurrentRealtime()
	return err == nil
}

// push resolves an unset execution type from the enclosing section, or
// near-time at the root, and pushes node.
func (s *ScopeStack) push(node domain.SectionNode) {
	b := node.Base()
	if b.ExecutionType == domain.ExecutionTypeUnset {
		b.ExecutionType = s.inherited()
	}
	s.nodes = append(s.nodes, node)
}

func (s *ScopeStack) inherited() domain.ExecutionType {
	if len(s.nodes) == 0 {
		return domain.NearTime
	}
	return s.nodes[len(s.nodes)-1].Base().ExecutionType
}

func (s *ScopeStack) pop() (domain.SectionNode, error) {
	if len(s.nodes) == 0 {
		return nil, domain.ErrEmptyScopeStack
	}
	top := s.nodes[len(s.nodes)-1]
	s.nodes[len(s.nodes)-1] = nil
	s.nodes = s.nodes[:len(s.nodes)-1]
	return top, nil
}

// Scope is the handle of an open section. Close it exactly once, typically
// with defer, or use Run which closes on every exit path.
type Scope[T domain.SectionNode] struct {
	exp    *Experiment
	node   T
	closed bool
}

// Node returns the section opened by this scope.
func (s *Scope[T]) Node() T { return s.node }

// Close pops the section and attaches it to its parent. It fails with
// ErrUnbalancedScope if an inner scope is still open.
func (s *Scope[T]) Close() error {
	if s.closed {
		return fmt.Errorf("section %q: %w", s.node.Base().UID, domain.ErrScopeClosed)
	}
	if err := s.exp.closeNode(s.node); err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Run executes body inside the scope and closes it afterwards, also when body
// fails or panics.
func (s *Scope[T]) Run(body func(T) error) (err error) {
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	if body == nil {
		return nil
	}
	return body(s.node)
}

// OpenScope validates node against the open scopes and pushes it.
// On failure the stack and the tree are left unchanged.
func (e *Experiment) OpenScope(node domain.SectionNode) error {
	if node == nil || node.Base() == nil {
		return fmt.Errorf("cannot open nil section: %w", domain.ErrInvalidArgument)
	}
	if err := domain.Check(node); err != nil {
		return err
	}
	b := node.Base()
	if b.UID != "" && e.sectionTaken(b.UID) {
		return fmt.Errorf("section with id %q already exists: %w", b.UID, domain.ErrDuplicateIdentifier)
	}
	parent, _ := e.stack.Current()
	if err := checkPlacement(parent, node); err != nil {
		return err
	}
	if b.ExecutionType == domain.NearTime && e.stack.InRealtime() {
		return nearTimeInRealtime(node)
	}
	if err := e.requireTriggerSignals(node); err != nil {
		return err
	}
	if len(b.Children) > 0 {
		return fmt.Errorf("section %q already has children, use Add for prebuilt trees: %w",
			b.UID, domain.ErrInvalidArgument)
	}

	if b.UID == "" {
		b.UID = e.newUID(string(node.Kind()), e.sectionTaken)
	}
	e.sectionUIDs[b.UID] = struct{}{}
	e.stack.push(node)

	e.logger.Debug("section opened",
		"experiment", e.UID,
		"section", b.UID,
		"kind", node.Kind(),
		"execution_type", b.ExecutionType,
		"depth", e.stack.Len(),
	)
	if e.hooks.OnOpen != nil {
		e.hooks.OnOpen(e.scopeEvent(node, e.stack.Len()))
	}
	return nil
}

// CloseScope pops the innermost section and attaches it as the last child of
// the new innermost section, or appends it to the root list.
// ErrEmptyScopeStack means open and close calls were unbalanced.
func (e *Experiment) CloseScope() error {
	depth := e.stack.Len()
	node, err := e.stack.pop()
	if err != nil {
		return err
	}
	parent, _ := e.stack.Current()
	e.attach(parent, node)

	e.logger.Debug("section closed",
		"experiment", e.UID,
		"section", node.Base().UID,
		"kind", node.Kind(),
		"depth", depth,
	)
	if e.hooks.OnClose != nil {
		e.hooks.OnClose(e.scopeEvent(node, depth))
	}
	return nil
}

func (e *Experiment) closeNode(node domain.SectionNode) error {
	top, err := e.stack.Current()
	if err != nil {
		return fmt.Errorf("closing section %q: %w", node.Base().UID, domain.ErrEmptyScopeStack)
	}
	if top != node {
		return fmt.Errorf("closing section %q while %q is still open: %w",
			node.Base().UID, top.Base().UID, domain.ErrUnbalancedScope)
	}
	return e.CloseScope()
}

func (e *Experiment) scopeEvent(node domain.SectionNode, depth int) *domain.ScopeEvent {
	return &domain.ScopeEvent{
		ExperimentUID: e.UID,
		SectionUID:    node.Base().UID,
		Kind:          node.Kind(),
		ExecutionType: node.Base().ExecutionType,
		Depth:         depth,
	}
}

func openTyped[T domain.SectionNode](e *Experiment, node T) (*Scope[T], error) {
	if err := e.OpenScope(node); err != nil {
		return nil, err
	}
	return &Scope[T]{exp: e, node: node}, nil
}

// checkPlacement enforces the Match/Case rules for node directly under parent.
// parent is nil at the root.
func checkPlacement(parent, node domain.SectionNode) error {
	uid := node.Base().UID
	if c, ok := node.(*domain.Case); ok {
		m, ok := parent.(*domain.Match)
		if !ok {
			return fmt.Errorf("case section %q must be inside a match section: %w", uid, domain.ErrInvalidNesting)
		}
		for _, other := range m.Cases() {
			if other != c && other.State == c.State {
				return fmt.Errorf("match %q already has a case for state %d: %w", m.UID, c.State, domain.ErrInvalidArgument)
			}
		}
		return nil
	}
	switch p := parent.(type) {
	case *domain.Match:
		return fmt.Errorf("only case sections are allowed inside match %q, got %s %q: %w",
			p.UID, node.Kind(), uid, domain.ErrInvalidNesting)
	case *domain.Case:
		return fmt.Errorf("case %q may only contain operations, got %s %q: %w",
			p.UID, node.Kind(), uid, domain.ErrInvalidNesting)
	}
	return nil
}

// checkLeafPlacement rejects operations attached directly to a Match.
func checkLeafPlacement(parent domain.SectionNode, op domain.Operation) error {
	if m, ok := parent.(*domain.Match); ok {
		return fmt.Errorf("only case sections are allowed inside match %q, got %s operation: %w",
			m.UID, op.OperationKind(), domain.ErrInvalidNesting)
	}
	return nil
}

func nearTimeInRealtime(node domain.SectionNode) error {
	if node.Kind() == domain.KindSweep {
		return fmt.Errorf("near-time sweep %q not allowed within real-time context: %w",
			node.Base().UID, domain.ErrInvalidNesting)
	}
	return fmt.Errorf("near-time %s %q not allowed within real-time context: %w",
		node.Kind(), node.Base().UID, domain.ErrInvalidNesting)
}

func (e *Experiment) requireTriggerSignals(node domain.SectionNode) error {
	for uid := range node.Base().Trigger {
		if !e.signalTaken(uid) {
			return fmt.Errorf("trigger of section %q: %w", node.Base().UID, unknownSignal(uid, ""))
		}
	}
	return nil
}
