package experiment_test

import (
	"testing"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_PrebuiltTree(t *testing.T) {
	exp := experiment.MustNew(experiment.WithSignals("drive"))

	loop, err := domain.NewAcquireLoopRt(domain.AcquireLoopRtConfig{UID: "shots", Count: 8})
	require.NoError(t, err)
	sweep, err := domain.NewSweep("", []domain.Parameter{linear("p", 2)}, 1)
	require.NoError(t, err)
	sweep.Add(domain.Play{Signal: "drive", Pulse: pulseA})
	loop.Add(sweep)

	require.NoError(t, exp.Add(loop))

	assert.Equal(t, []string{"shots", "sweep_0"}, uids(exp.AllSections()))
	assert.Equal(t, domain.RealTime, sweep.ExecutionType)
}

func TestAdd_UnderOpenScope(t *testing.T) {
	exp := experiment.MustNew()
	err := exp.Section(func(*domain.Section) error {
		return exp.Add(domain.NewSection("child"))
	}, experiment.WithSectionUID("parent"))
	require.NoError(t, err)

	parent := exp.FindSection("parent")
	require.NotNil(t, parent)
	require.Len(t, parent.Base().Sections(), 1)
	assert.Equal(t, domain.NearTime, parent.Base().Sections()[0].Base().ExecutionType)
}

func TestAdd_RejectsInvalidTrees(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) domain.SectionNode
		want  error
	}{
		{
			name: "unknown signal",
			build: func(t *testing.T) domain.SectionNode {
				s := domain.NewSection("s")
				s.Add(domain.Play{Signal: "nope", Pulse: pulseA})
				return s
			},
			want: domain.ErrUnknownSignal,
		},
		{
			name: "acquire outside real time",
			build: func(t *testing.T) domain.SectionNode {
				s := domain.NewSection("s")
				s.Add(domain.Acquire{SignalUIDs: []string{"drive"}, Handle: "h"})
				return s
			},
			want: domain.ErrNoRealtimeScope,
		},
		{
			name: "case outside match",
			build: func(t *testing.T) domain.SectionNode {
				s := domain.NewSection("s")
				s.Add(domain.NewCase("c", 0))
				return s
			},
			want: domain.ErrInvalidNesting,
		},
		{
			name: "near time inside real time",
			build: func(t *testing.T) domain.SectionNode {
				l, err := domain.NewAcquireLoopRt(domain.AcquireLoopRtConfig{UID: "rt", Count: 1})
				require.NoError(t, err)
				nt, err := domain.NewAcquireLoopNt("nt", 2, domain.Cyclic)
				require.NoError(t, err)
				l.Add(nt)
				return l
			},
			want: domain.ErrInvalidNesting,
		},
		{
			name: "duplicate uid inside tree",
			build: func(t *testing.T) domain.SectionNode {
				s := domain.NewSection("dup")
				s.Add(domain.NewSection("dup"))
				return s
			},
			want: domain.ErrDuplicateIdentifier,
		},
		{
			name: "shared child",
			build: func(t *testing.T) domain.SectionNode {
				root := domain.NewSection("")
				shared := domain.NewSection("")
				root.Add(shared)
				root.Add(shared)
				return root
			},
			want: domain.ErrInvalidArgument,
		},
		{
			name: "section containing itself",
			build: func(t *testing.T) domain.SectionNode {
				a := domain.NewSection("")
				a.Add(a)
				return a
			},
			want: domain.ErrInvalidArgument,
		},
		{
			name: "cycle through a child",
			build: func(t *testing.T) domain.SectionNode {
				a := domain.NewSection("")
				b := domain.NewSection("")
				a.Add(b)
				b.Add(a)
				return a
			},
			want: domain.ErrInvalidArgument,
		},
		{
			name: "nil section",
			build: func(t *testing.T) domain.SectionNode {
				return nil
			},
			want: domain.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := experiment.MustNew(experiment.WithSignals("drive"))
			err := exp.Add(tt.build(t))
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, exp.Sections())
		})
	}
}
