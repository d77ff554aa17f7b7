package experiment

import (
	"errors"

	"github.com/aretw0/qdsl/pkg/domain"
)

var errStopVisit = errors.New("stop visit")

// Visit calls fn for every section of the tree in depth-first pre-order,
// starting with the root sections in declaration order. Leaf operations are
// not visited. The first error returned by fn stops the walk and is returned.
//
// The walk uses an explicit worklist, so it holds no state between calls and
// is bounded only by the size of the tree.
func (e *Experiment) Visit(fn func(domain.SectionNode) error) error {
	work := make([]domain.SectionNode, 0, len(e.sections))
	for i := len(e.sections) - 1; i >= 0; i-- {
		work = append(work, e.sections[i])
	}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if err := fn(n); err != nil {
			return err
		}
		children := n.Base().Children
		for i := len(children) - 1; i >= 0; i-- {
			if s, ok := children[i].(domain.SectionNode); ok {
				work = append(work, s)
			}
		}
	}
	return nil
}

// AllSections flattens the tree in pre-order.
func (e *Experiment) AllSections() []domain.SectionNode {
	var out []domain.SectionNode
	_ = e.Visit(func(n domain.SectionNode) error {
		out = append(out, n)
		return nil
	})
	return out
}

// FindSection returns the attached section with the given UID, or nil.
// Sections still open on the scope stack are not part of the tree yet.
func (e *Experiment) FindSection(uid string) domain.SectionNode {
	var found domain.SectionNode
	_ = e.Visit(func(n domain.SectionNode) error {
		if n.Base().UID == uid {
			found = n
			return errStopVisit
		}
		return nil
	})
	return found
}

// Operations returns every leaf operation of the tree, ordered by the
// pre-order position of its section and then by declaration order.
func (e *Experiment) Operations() []domain.Operation {
	var out []domain.Operation
	_ = e.Visit(func(n domain.SectionNode) error {
		out = append(out, n.Base().Operations()...)
		return nil
	})
	return out
}
