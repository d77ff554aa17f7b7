package experiment_test

import (
	"errors"
	"testing"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pulseA = &domain.PulseFunctional{UID: "pulseA", Function: "const", Length: domain.Float(100e-9)}

func linear(uid string, n int) *domain.LinearSweepParameter {
	return &domain.LinearSweepParameter{UID: uid, Start: 0, Stop: 1, Count: n}
}

func uids(nodes []domain.SectionNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Base().UID)
	}
	return out
}

func TestScope_BalancedPreOrder(t *testing.T) {
	exp := experiment.MustNew()

	open := func(uid string) *experiment.Scope[*domain.Section] {
		s, err := exp.OpenSection(experiment.WithSectionUID(uid))
		require.NoError(t, err)
		return s
	}

	a := open("a")
	b := open("b")
	require.NoError(t, b.Close())
	c := open("c")
	e := open("e")
	require.NoError(t, e.Close())
	require.NoError(t, c.Close())
	require.NoError(t, a.Close())
	d := open("d")
	require.NoError(t, d.Close())

	assert.Equal(t, 0, exp.Depth())
	assert.Equal(t, []string{"a", "b", "c", "e", "d"}, uids(exp.AllSections()))
	assert.Equal(t, []string{"a", "d"}, uids(exp.Sections()))
}

func TestScope_CloseEmptyStack(t *testing.T) {
	exp := experiment.MustNew()
	err := exp.CloseScope()
	require.ErrorIs(t, err, domain.ErrEmptyScopeStack)
}

func TestScope_CloseOutOfOrder(t *testing.T) {
	exp := experiment.MustNew()
	outer, err := exp.OpenSection(experiment.WithSectionUID("outer"))
	require.NoError(t, err)
	inner, err := exp.OpenSection(experiment.WithSectionUID("inner"))
	require.NoError(t, err)

	err = outer.Close()
	require.ErrorIs(t, err, domain.ErrUnbalancedScope)
	assert.Equal(t, 2, exp.Depth())

	require.NoError(t, inner.Close())
	require.NoError(t, outer.Close())
	require.ErrorIs(t, outer.Close(), domain.ErrScopeClosed)
}

func TestScope_RunClosesOnError(t *testing.T) {
	exp := experiment.MustNew()
	boom := errors.New("boom")

	err := exp.Section(func(*domain.Section) error {
		return boom
	}, experiment.WithSectionUID("s"))

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, exp.Depth())
	// the partial tree is kept
	assert.Equal(t, []string{"s"}, uids(exp.Sections()))
}

func TestScope_RunClosesOnPanic(t *testing.T) {
	exp := experiment.MustNew()
	assert.Panics(t, func() {
		_ = exp.Section(func(*domain.Section) error {
			panic("boom")
		})
	})
	assert.Equal(t, 0, exp.Depth())
}

func TestScope_ExecutionTypeInheritance(t *testing.T) {
	exp := experiment.MustNew()

	var sweep *domain.Sweep
	err := exp.Section(func(s *domain.Section) error {
		assert.Equal(t, domain.NearTime, s.ExecutionType)
		return exp.AcquireLoopRt(16, func(*domain.AcquireLoopRt) error {
			return exp.Sweep([]domain.Parameter{linear("p", 3)}, func(s *domain.Sweep) error {
				sweep = s
				return nil
			})
		})
	})
	require.NoError(t, err)
	require.NotNil(t, sweep)
	assert.Equal(t, domain.RealTime, sweep.ExecutionType)
}

func TestScope_NearTimeSweepInRealtime(t *testing.T) {
	exp := experiment.MustNew()
	rt, err := exp.OpenSection(
		experiment.WithSectionUID("rt"),
		experiment.WithExecutionType(domain.RealTime),
	)
	require.NoError(t, err)

	_, err = exp.OpenSweep([]domain.Parameter{linear("p", 3)},
		experiment.WithExecutionType(domain.NearTime))
	require.ErrorIs(t, err, domain.ErrInvalidNesting)
	assert.Contains(t, err.Error(), "near-time sweep")

	assert.Equal(t, 1, exp.Depth())
	cur, err := exp.Stack().Current()
	require.NoError(t, err)
	assert.Same(t, rt.Node(), cur)
	assert.Empty(t, rt.Node().Children)
}

func TestScope_NearTimeLoopInRealtime(t *testing.T) {
	exp := experiment.MustNew()
	err := exp.AcquireLoopRt(8, func(*domain.AcquireLoopRt) error {
		_, err := exp.OpenAcquireLoopNt(4)
		return err
	})
	require.ErrorIs(t, err, domain.ErrInvalidNesting)
	assert.Equal(t, 0, exp.Depth())
}

func TestScope_AcquireLoopFixedExecutionType(t *testing.T) {
	exp := experiment.MustNew()
	_, err := exp.OpenAcquireLoopNt(4, experiment.WithExecutionType(domain.RealTime))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = exp.OpenAcquireLoopRt(4, experiment.WithExecutionType(domain.NearTime))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, 0, exp.Depth())
}

func TestScope_CaseOutsideMatch(t *testing.T) {
	exp := experiment.MustNew()
	_, err := exp.OpenSection()
	require.NoError(t, err)

	_, err = exp.OpenCase(1)
	require.ErrorIs(t, err, domain.ErrInvalidNesting)
	assert.Equal(t, 1, exp.Depth())

	// at the root as well
	exp2 := experiment.MustNew()
	_, err = exp2.OpenCase(1)
	require.ErrorIs(t, err, domain.ErrInvalidNesting)
	assert.Equal(t, 0, exp2.Depth())
}

func TestScope_SweepArityMismatch(t *testing.T) {
	exp := experiment.MustNew()
	_, err := exp.OpenSweep([]domain.Parameter{linear("a", 5), linear("b", 3)})
	require.ErrorIs(t, err, domain.ErrArityMismatch)
	_, err = exp.OpenSweep(nil)
	require.ErrorIs(t, err, domain.ErrArityMismatch)
	_, err = exp.OpenSweep([]domain.Parameter{linear("a", 5)}, experiment.WithChunkCount(0))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, 0, exp.Depth())
}

func TestScope_EmptyLoops(t *testing.T) {
	exp := experiment.MustNew()
	_, err := exp.OpenSweep([]domain.Parameter{linear("a", 0)})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = exp.OpenAcquireLoopNt(0)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = exp.OpenAcquireLoopRt(-1)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, 0, exp.Depth())
	assert.Empty(t, exp.Sections())
}

func TestScope_RepetitionTime(t *testing.T) {
	exp := experiment.MustNew()
	_, err := exp.OpenAcquireLoopRt(4, experiment.WithRepetition(domain.Constant, nil))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = exp.OpenAcquireLoopRt(4, experiment.WithRepetition(domain.Fastest, domain.Real(1e-6)))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	s, err := exp.OpenAcquireLoopRt(4,
		experiment.WithRepetition(domain.Constant, domain.Real(1e-6)),
		experiment.WithAveragingMode(domain.SingleShot),
		experiment.WithAcquisitionType(domain.Discrimination),
		experiment.WithResetOscillatorPhase(),
	)
	require.NoError(t, err)
	l := s.Node()
	assert.Equal(t, domain.SingleShot, l.AveragingMode)
	assert.Equal(t, domain.Discrimination, l.AcquisitionType)
	assert.Equal(t, domain.Real(1e-6), l.RepetitionTime)
	assert.True(t, l.ResetOscillatorPhase)
	require.NoError(t, s.Close())
}

func TestScope_DuplicateSectionUID(t *testing.T) {
	exp := experiment.MustNew()
	require.NoError(t, exp.Section(nil, experiment.WithSectionUID("a")))
	_, err := exp.OpenSection(experiment.WithSectionUID("a"))
	require.ErrorIs(t, err, domain.ErrDuplicateIdentifier)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestScope_GeneratedUIDs(t *testing.T) {
	exp := experiment.MustNew()
	require.NoError(t, exp.Section(nil))
	require.NoError(t, exp.Sweep([]domain.Parameter{linear("p", 2)}, nil))
	assert.Equal(t, []string{"section_0", "sweep_1"}, uids(exp.Sections()))

	// explicit UIDs that collide with generated ones are skipped over
	exp2 := experiment.MustNew()
	require.NoError(t, exp2.Section(nil, experiment.WithSectionUID("section_0")))
	require.NoError(t, exp2.Section(nil))
	assert.Equal(t, []string{"section_0", "section_1"}, uids(exp2.Sections()))
}

func TestScope_UUIDGenerator(t *testing.T) {
	exp := experiment.MustNew(experiment.WithIDGenerator(experiment.UUIDGenerator{}))
	require.NoError(t, exp.Section(nil))
	uid := exp.Sections()[0].Base().UID
	assert.Regexp(t, `^section_[0-9a-f-]{36}$`, uid)
}

func TestScope_TriggerSignals(t *testing.T) {
	exp := experiment.MustNew(experiment.WithSignals("drive"))
	_, err := exp.OpenSection(experiment.WithTrigger("unknown", 1))
	require.ErrorIs(t, err, domain.ErrUnknownSignal)

	s, err := exp.OpenSection(experiment.WithTrigger("drive", 2))
	require.NoError(t, err)
	assert.Equal(t, domain.Trigger{State: 2}, s.Node().Trigger["drive"])
	require.NoError(t, s.Close())
}

func TestScope_SectionOptions(t *testing.T) {
	exp := experiment.MustNew()
	require.NoError(t, exp.Section(nil, experiment.WithSectionUID("first")))

	s, err := exp.OpenSection(
		experiment.WithSectionUID("second"),
		experiment.WithAlignment(domain.AlignRight),
		experiment.WithLength(domain.Real(1e-6)),
		experiment.WithPlayAfter("first"),
		experiment.WithOnSystemGrid(true),
	)
	require.NoError(t, err)
	n := s.Node()
	assert.Equal(t, domain.AlignRight, n.Alignment)
	assert.Equal(t, domain.Real(1e-6), n.Length)
	assert.Equal(t, []string{"first"}, n.PlayAfter)
	require.NotNil(t, n.OnSystemGrid)
	assert.True(t, *n.OnSystemGrid)
	require.NoError(t, s.Close())
}

func TestScope_Hooks(t *testing.T) {
	var opened, closed []string
	var ops []domain.OperationKind
	exp := experiment.MustNew(
		experiment.WithUID("e"),
		experiment.WithSignals("sig"),
		experiment.WithHooks(domain.ScopeHooks{
			OnOpen: func(ev *domain.ScopeEvent) {
				assert.Equal(t, "e", ev.ExperimentUID)
				opened = append(opened, ev.SectionUID)
			},
			OnClose: func(ev *domain.ScopeEvent) { closed = append(closed, ev.SectionUID) },
			OnOperation: func(ev *domain.OperationEvent) {
				ops = append(ops, ev.Kind)
			},
		}),
	)

	err := exp.Section(func(*domain.Section) error {
		return exp.Section(func(*domain.Section) error {
			return exp.Play("sig", pulseA)
		}, experiment.WithSectionUID("inner"))
	}, experiment.WithSectionUID("outer"))
	require.NoError(t, err)

	assert.Equal(t, []string{"outer", "inner"}, opened)
	assert.Equal(t, []string{"inner", "outer"}, closed)
	assert.Equal(t, []domain.OperationKind{domain.OpPlay}, ops)
}

func TestScope_OpenScopeRejectsPrebuiltChildren(t *testing.T) {
	exp := experiment.MustNew()
	s := domain.NewSection("s")
	s.Add(domain.NewSection("child"))
	err := exp.OpenScope(s)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, 0, exp.Depth())
}

func TestScope_CurrentRealtime(t *testing.T) {
	exp := experiment.MustNew()
	_, err := exp.Stack().CurrentRealtime()
	require.ErrorIs(t, err, domain.ErrNoActiveScope)

	_, err = exp.OpenSection()
	require.NoError(t, err)
	_, err = exp.Stack().CurrentRealtime()
	require.ErrorIs(t, err, domain.ErrNoRealtimeScope)
	assert.False(t, exp.Stack().InRealtime())

	rt, err := exp.OpenAcquireLoopRt(2)
	require.NoError(t, err)
	inner, err := exp.OpenSection()
	require.NoError(t, err)

	got, err := exp.Stack().CurrentRealtime()
	require.NoError(t, err)
	assert.Same(t, inner.Node(), got)
	assert.True(t, exp.Stack().InRealtime())
	assert.Len(t, exp.Stack().Nodes(), 3)

	require.NoError(t, inner.Close())
	got, err = exp.Stack().CurrentRealtime()
	require.NoError(t, err)
	assert.Same(t, rt.Node(), got)
}
