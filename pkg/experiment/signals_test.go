package experiment_test

import (
	"testing"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignals_MapRoundTrip(t *testing.T) {
	exp := experiment.MustNew()
	_, err := exp.AddSignal("q0", "")
	require.NoError(t, err)
	require.NoError(t, exp.MapSignal("q0", "target/path"))

	status := exp.MappingStatus()
	assert.True(t, status.FullyMapped)
	assert.Equal(t, []string{"q0"}, status.Mapped)
	assert.Equal(t, []string{}, status.Unmapped)

	require.NoError(t, exp.ResetSignalMap(nil))
	status = exp.MappingStatus()
	assert.False(t, status.FullyMapped)
	assert.Equal(t, []string{}, status.Mapped)
	assert.Equal(t, []string{"q0"}, status.Unmapped)
}

func TestSignals_AddSignal(t *testing.T) {
	exp := experiment.MustNew()

	s, err := exp.AddSignal("drive", "q0/drive")
	require.NoError(t, err)
	assert.True(t, s.IsMapped())
	assert.False(t, s.IsCalibrated())

	_, err = exp.AddSignal("drive", "")
	require.ErrorIs(t, err, domain.ErrDuplicateIdentifier)

	gen, err := exp.AddSignal("", "")
	require.NoError(t, err)
	assert.Equal(t, "sig_0", gen.UID)

	assert.True(t, exp.IsSignal("drive"))
	assert.False(t, exp.IsSignal("nope"))
	assert.Equal(t, []string{"drive", "sig_0"}, exp.SignalUIDs())
	require.Len(t, exp.Signals(), 2)

	_, err = exp.Signal("nope")
	require.ErrorIs(t, err, domain.ErrUnknownSignal)
}

func TestSignals_WithSignalsDuplicate(t *testing.T) {
	_, err := experiment.New(experiment.WithSignals("a", "a"))
	require.ErrorIs(t, err, domain.ErrDuplicateIdentifier)
}

func TestSignals_MapUnknown(t *testing.T) {
	exp := experiment.MustNew()
	err := exp.MapSignal("q0", "x")
	require.ErrorIs(t, err, domain.ErrUnknownSignal)
	assert.Contains(t, err.Error(), `"q0"`)
	require.ErrorIs(t, exp.UnmapSignal("q0"), domain.ErrUnknownSignal)
}

func TestSignals_SetSignalMap(t *testing.T) {
	exp := experiment.MustNew(experiment.WithSignals("a", "b", "c"))
	require.NoError(t, exp.MapSignal("c", "old/c"))

	err := exp.SetSignalMap(map[string]string{"a": "l/a", "zz": "l/zz"})
	require.ErrorIs(t, err, domain.ErrUnknownSignal)
	assert.Equal(t, map[string]string{"c": "old/c"}, exp.SignalMap(), "failed call must not modify anything")

	require.NoError(t, exp.SetSignalMap(map[string]string{"a": "l/a", "b": "l/b"}))
	assert.Equal(t, map[string]string{"a": "l/a", "b": "l/b", "c": "old/c"}, exp.SignalMap())

	require.NoError(t, exp.ResetSignalMap(map[string]string{"b": "new/b"}))
	assert.Equal(t, map[string]string{"b": "new/b"}, exp.SignalMap())

	require.NoError(t, exp.UnmapSignal("b"))
	assert.Empty(t, exp.SignalMap())

	err = exp.ResetSignalMap(map[string]string{"zz": "x"})
	require.ErrorIs(t, err, domain.ErrUnknownSignal)
}

func TestCalibration_SetAndSnapshot(t *testing.T) {
	exp := experiment.MustNew(experiment.WithSignals("drive", "measure", "acquire"))
	shared := &domain.SignalCalibration{PortDelay: domain.Float(10e-9)}

	err := exp.SetCalibration(domain.NewCalibration(map[string]*domain.SignalCalibration{
		"drive":   {Oscillator: &domain.Oscillator{UID: "osc", Frequency: domain.Float(5e9)}},
		"measure": shared,
		"acquire": shared,
		"unknown": nil,
	}))
	require.NoError(t, err)

	cal := exp.Calibration()
	assert.Len(t, cal.Items, 3)
	assert.Same(t, cal.Get("measure"), cal.Get("acquire"))
	s, err := exp.Signal("measure")
	require.NoError(t, err)
	assert.Same(t, shared, s.Calibration)
}

func TestCalibration_UnknownSignal(t *testing.T) {
	exp := experiment.MustNew(experiment.WithSignals("drive"))
	err := exp.SetCalibration(domain.NewCalibration(map[string]*domain.SignalCalibration{
		"drive": {},
		"other": {},
	}))
	require.ErrorIs(t, err, domain.ErrUnknownSignal)
	assert.Empty(t, exp.Calibration().Items)
}

func TestCalibration_Reset(t *testing.T) {
	exp := experiment.MustNew(experiment.WithSignals("a", "b"))
	require.NoError(t, exp.SetCalibration(domain.NewCalibration(map[string]*domain.SignalCalibration{
		"a": {}, "b": {},
	})))

	require.NoError(t, exp.ResetCalibration(domain.NewCalibration(map[string]*domain.SignalCalibration{
		"b": {Range: domain.Float(10)},
	})))
	cal := exp.Calibration()
	require.Len(t, cal.Items, 1)
	assert.Equal(t, 10.0, *cal.Get("b").Range)

	require.NoError(t, exp.ResetCalibration(nil))
	assert.Empty(t, exp.Calibration().Items)
	require.NoError(t, exp.SetCalibration(nil))
}
