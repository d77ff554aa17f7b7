package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/qdsl/internal/presentation/graph"
	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
)

func buildTree(t *testing.T) []domain.SectionNode {
	t.Helper()
	exp := experiment.MustNew(experiment.WithSignals("drive", "acq"))
	param := &domain.SweepParameter{UID: "freq", Points: []float64{1, 2, 3}}
	pulse := &domain.PulseFunctional{UID: "p", Function: "const"}

	err := exp.AcquireLoopRt(64, func(*domain.AcquireLoopRt) error {
		if err := exp.Sweep([]domain.Parameter{param}, func(*domain.Sweep) error {
			return exp.Play("drive", pulse)
		}, experiment.WithSectionUID("freq-sweep")); err != nil {
			return err
		}
		if err := exp.Section(func(*domain.Section) error {
			return exp.Acquire("acq", "res")
		}, experiment.WithSectionUID("readout"), experiment.WithPlayAfter("freq-sweep")); err != nil {
			return err
		}
		return exp.Match("res", nil, func(*domain.Match) error {
			return exp.Case(1, nil, experiment.WithSectionUID("excited"))
		}, experiment.WithSectionUID("branch"))
	}, experiment.WithSectionUID("shots"))
	if err != nil {
		t.Fatalf("building tree failed: %v", err)
	}
	return exp.Sections()
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		opts     graph.Options
		contains []string
		excludes []string
	}{
		{
			name: "Shapes",
			contains: []string{
				"graph TD\n",
				"shots([\"shots <br/> 64 shots\"])",
				"freq_sweep[[\"freq-sweep <br/> sweep freq x3\"]]",
				"readout[\"readout\"]",
				"branch{\"branch <br/> handle res\"}",
				"excited[/\"excited <br/> state 1\"/]",
			},
		},
		{
			name: "Edges",
			contains: []string{
				"shots --> freq_sweep",
				"shots --> readout",
				"branch --> excited",
				"freq_sweep -. after .-> readout",
			},
		},
		{
			name: "Realtime Class",
			contains: []string{
				"classDef realtime",
				"class shots,freq_sweep,readout,branch,excited realtime;",
			},
		},
		{
			name:     "Operations Hidden By Default",
			excludes: []string{"__op0"},
		},
		{
			name: "Operations",
			opts: graph.Options{Operations: true},
			contains: []string{
				"freq_sweep__op0>\"play drive\"]",
				"readout__op0>\"acquire acq -> res\"]",
				"readout --- readout__op0",
			},
		},
		{
			name: "Overlay",
			opts: graph.Options{Overlay: &graph.GraphOverlay{Highlight: []string{"readout", "readout"}}},
			contains: []string{
				"classDef highlight",
				"class readout highlight;",
			},
		},
	}

	roots := buildTree(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(roots, tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output not to contain %q", unwanted)
				}
			}
			if strings.Count(got, "class readout highlight;") > 1 {
				t.Error("highlight should be deduplicated")
			}
		})
	}
}
