package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
)

// Describe renders a markdown summary of an experiment: its signals with
// their mapping and calibration state, followed by the indented section tree.
func Describe(exp *experiment.Experiment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Experiment `%s`\n\n", exp.UID)

	sb.WriteString("## Signals\n\n")
	signals := exp.Signals()
	if len(signals) == 0 {
		sb.WriteString("_No signals registered._\n\n")
	} else {
		sb.WriteString("| Signal | Mapped to | Calibrated |\n")
		sb.WriteString("|---|---|---|\n")
		for _, s := range signals {
			mapTo := "-"
			if s.IsMapped() {
				mapTo = "`" + s.MapTo + "`"
			}
			cal := "no"
			if s.IsCalibrated() {
				cal = "yes"
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", s.UID, mapTo, cal)
		}
		sb.WriteString("\n")
	}

	status := exp.MappingStatus()
	if status.FullyMapped {
		sb.WriteString("All signals are mapped.\n\n")
	} else {
		fmt.Fprintf(&sb, "> **Unmapped:** %s\n\n", strings.Join(status.Unmapped, ", "))
	}

	sb.WriteString("## Sections\n\n")
	roots := exp.Sections()
	if len(roots) == 0 {
		sb.WriteString("_Empty experiment._\n")
		return sb.String()
	}
	for _, r := range roots {
		writeSection(&sb, r, 0)
	}
	return sb.String()
}

func writeSection(sb *strings.Builder, n domain.SectionNode, depth int) {
	b := n.Base()
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s- **%s** `%s`", indent, n.Kind(), b.UID)
	if details := sectionDetails(n); details != "" {
		fmt.Fprintf(sb, " (%s)", details)
	}
	sb.WriteString("\n")

	for _, c := range b.Children {
		switch c := c.(type) {
		case domain.SectionNode:
			writeSection(sb, c, depth+1)
		case domain.Operation:
			fmt.Fprintf(sb, "%s  - %s", indent, c.OperationKind())
			if sigs := c.Signals(); len(sigs) > 0 {
				fmt.Fprintf(sb, " on `%s`", strings.Join(sigs, "`, `"))
			}
			sb.WriteString("\n")
		}
	}
}

func sectionDetails(n domain.SectionNode) string {
	var parts []string
	if et := n.Base().ExecutionType; et != domain.ExecutionTypeUnset {
		parts = append(parts, strings.ToLower(et.String()))
	}
	switch v := n.(type) {
	case *domain.Sweep:
		parts = append(parts, fmt.Sprintf("%d steps", v.Count()))
	case *domain.AcquireLoopNt:
		parts = append(parts, fmt.Sprintf("%d averages", v.Count))
	case *domain.AcquireLoopRt:
		parts = append(parts, fmt.Sprintf("%d shots", v.Count), strings.ToLower(v.AcquisitionType.String()))
	case *domain.Match:
		if v.UserRegister != nil {
			parts = append(parts, fmt.Sprintf("register %d", *v.UserRegister))
		} else {
			parts = append(parts, "handle "+v.Handle)
		}
	case *domain.Case:
		parts = append(parts, fmt.Sprintf("state %d", v.State))
	}
	return strings.Join(parts, ", ")
}
