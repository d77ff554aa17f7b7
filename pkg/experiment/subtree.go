package experiment

import (
	"fmt"

	"github.com/aretw0/qdsl/pkg/domain"
)

type checkFrame struct {
	parent   domain.SectionNode
	node     domain.SectionNode
	realtime bool
}

// checkSubtree validates a prebuilt section tree about to be attached under
// parent (nil at the root) without modifying it. A node reachable twice, by
// sharing or by a cycle, is rejected before its children are queued.
func (e *Experiment) checkSubtree(parent, root domain.SectionNode) error {
	seen := make(map[string]struct{})
	visited := make(map[*domain.Section]struct{})
	work := []checkFrame{{parent: parent, node: root, realtime: e.stack.InRealtime()}}
	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		if f.node == nil {
			return fmt.Errorf("nil section in tree: %w", domain.ErrInvalidArgument)
		}
		b := f.node.Base()
		if _, again := visited[b]; again {
			return fmt.Errorf("%s section %q appears more than once in tree: %w",
				f.node.Kind(), b.UID, domain.ErrInvalidArgument)
		}
		visited[b] = struct{}{}
		if err := domain.Check(f.node); err != nil {
			return err
		}
		if err := checkPlacement(f.parent, f.node); err != nil {
			return err
		}
		if b.UID != "" {
			if _, dup := seen[b.UID]; dup || e.sectionTaken(b.UID) {
				return fmt.Errorf("section with id %q already exists: %w", b.UID, domain.ErrDuplicateIdentifier)
			}
			seen[b.UID] = struct{}{}
		}
		if b.ExecutionType == domain.NearTime && f.realtime {
			return nearTimeInRealtime(f.node)
		}
		if err := e.requireTriggerSignals(f.node); err != nil {
			return err
		}
		realtime := f.realtime || b.ExecutionType == domain.RealTime
		for i := len(b.Children) - 1; i >= 0; i-- {
			switch c := b.Children[i].(type) {
			case domain.SectionNode:
				work = append(work, checkFrame{parent: f.node, node: c, realtime: realtime})
			case domain.Operation:
				if err := e.checkOperation(f.node, c); err != nil {
					return err
				}
				if _, ok := c.(domain.Acquire); ok && !realtime {
					return fmt.Errorf("acquire in section %q: %w", b.UID, domain.ErrNoRealtimeScope)
				}
			default:
				return fmt.Errorf("section %q: unsupported child %T: %w", b.UID, c, domain.ErrInvalidArgument)
			}
		}
	}
	return nil
}

// claimSubtree assigns missing UIDs, resolves unset execution types by
// inheritance and reserves every UID of a tree checkSubtree accepted.
func (e *Experiment) claimSubtree(parent, root domain.SectionNode) {
	inherited := domain.NearTime
	if parent != nil {
		inherited = parent.Base().ExecutionType
	} else if e.stack.Len() > 0 {
		inherited = e.stack.inherited()
	}
	type frame struct {
		node      domain.SectionNode
		inherited domain.ExecutionType
	}
	work := []frame{{root, inherited}}
	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		b := f.node.Base()
		if b.UID == "" {
			b.UID = e.newUID(string(f.node.Kind()), e.sectionTaken)
		}
		e.sectionUIDs[b.UID] = struct{}{}
		if b.ExecutionType == domain.ExecutionTypeUnset {
			b.ExecutionType = f.inherited
		}
		for i := len(b.Children) - 1; i >= 0; i-- {
			if n, ok := b.Children[i].(domain.SectionNode); ok {
				work = append(work, frame{n, b.ExecutionType})
			}
		}
	}
}
