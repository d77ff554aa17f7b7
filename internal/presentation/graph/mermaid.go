package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/qdsl/pkg/domain"
)

// GraphOverlay marks sections to emphasize on the rendered graph.
type GraphOverlay struct {
	Highlight []string
}

// Options controls what GenerateMermaid renders.
type Options struct {
	// Operations adds one leaf node per operation below its section.
	Operations bool
	Overlay    *GraphOverlay
}

// GenerateMermaid produces a Mermaid flowchart of a section tree. Shapes follow
// the section kind:
// - Sweep: [[Subroutine]]
// - Acquire loops: ([Stadium])
// - Match: {Rhombus}
// - Case: [/Parallelogram/]
// - Default: [Rectangle]
// Parent edges are solid, play-after dependencies dotted. Real-time sections
// get the "realtime" class.
func GenerateMermaid(roots []domain.SectionNode, opts Options) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var realtime []string
	var walk func(parent string, n domain.SectionNode)
	walk = func(parent string, n domain.SectionNode) {
		b := n.Base()
		safeID := sanitizeMermaidID(b.UID)

		opener, closer := "[", "]"
		switch n.Kind() {
		case domain.KindSweep:
			opener, closer = "[[", "]]"
		case domain.KindAcquireLoopNt, domain.KindAcquireLoopRt:
			opener, closer = "([", "])"
		case domain.KindMatch:
			opener, closer = "{", "}"
		case domain.KindCase:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label(n), closer))

		if parent != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", parent, safeID))
		}
		for _, after := range b.PlayAfter {
			sb.WriteString(fmt.Sprintf("    %s -. after .-> %s\n", sanitizeMermaidID(after), safeID))
		}
		if b.ExecutionType == domain.RealTime {
			realtime = append(realtime, safeID)
		}

		opIndex := 0
		for _, c := range b.Children {
			switch c := c.(type) {
			case domain.SectionNode:
				walk(safeID, c)
			case domain.Operation:
				if !opts.Operations {
					continue
				}
				opID := fmt.Sprintf("%s__op%d", safeID, opIndex)
				opIndex++
				sb.WriteString(fmt.Sprintf("    %s>\"%s\"]\n", opID, operationLabel(c)))
				sb.WriteString(fmt.Sprintf("    %s --- %s\n", safeID, opID))
			}
		}
	}
	for _, r := range roots {
		walk("", r)
	}

	if len(realtime) > 0 {
		sb.WriteString("\n    classDef realtime stroke:#d32f2f,stroke-width:2px;\n")
		sb.WriteString(fmt.Sprintf("    class %s realtime;\n", strings.Join(realtime, ",")))
	}

	if opts.Overlay != nil && len(opts.Overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef highlight fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[string]bool)
		for _, uid := range opts.Overlay.Highlight {
			safeID := sanitizeMermaidID(uid)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s highlight;\n", safeID))
			}
		}
	}

	return sb.String()
}

func label(n domain.SectionNode) string {
	uid := n.Base().UID
	switch v := n.(type) {
	case *domain.Sweep:
		names := make([]string, 0, len(v.Parameters))
		for _, p := range v.Parameters {
			names = append(names, p.ParameterUID())
		}
		return fmt.Sprintf("%s <br/> sweep %s x%d", uid, strings.Join(names, ","), v.Count())
	case *domain.AcquireLoopNt:
		return fmt.Sprintf("%s <br/> %d avg", uid, v.Count)
	case *domain.AcquireLoopRt:
		return fmt.Sprintf("%s <br/> %d shots", uid, v.Count)
	case *domain.Match:
		if v.UserRegister != nil {
			return fmt.Sprintf("%s <br/> register %d", uid, *v.UserRegister)
		}
		return fmt.Sprintf("%s <br/> handle %s", uid, v.Handle)
	case *domain.Case:
		return fmt.Sprintf("%s <br/> state %d", uid, v.State)
	}
	return uid
}

func operationLabel(op domain.Operation) string {
	switch o := op.(type) {
	case domain.Call:
		return "call " + o.FuncName
	case domain.Set:
		return "set " + o.Path
	case domain.Acquire:
		return fmt.Sprintf("acquire %s -> %s", strings.Join(o.SignalUIDs, ","), o.Handle)
	}
	return fmt.Sprintf("%s %s", op.OperationKind(), strings.Join(op.Signals(), ","))
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
