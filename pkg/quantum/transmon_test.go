package quantum

import (
	"testing"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() *TransmonParameters {
	p := DefaultTransmonParameters()
	p.ResonanceFrequencyGE = 6.5e9
	p.ResonanceFrequencyEF = 6.3e9
	p.DriveLOFrequency = 6.4e9
	p.ReadoutResonatorFrequency = 7.1e9
	p.ReadoutLOFrequency = 7e9
	p.FluxOffsetVoltage = 0.2
	return &p
}

func testSignals() map[string]string {
	return map[string]string{
		RoleDrive:   "q0/drive_line",
		RoleMeasure: "q0/measure_line",
		RoleAcquire: "q0/acquire_line",
		RoleFlux:    "q0/flux_line",
	}
}

func TestTransmonParameters_Derived(t *testing.T) {
	p := testParams()
	assert.InDelta(t, 100e6, p.DriveFrequencyGE(), 1)
	assert.InDelta(t, -100e6, p.DriveFrequencyEF(), 1)
	assert.InDelta(t, 100e6, p.ReadoutFrequency(), 1)
}

func TestParametersFromMap(t *testing.T) {
	p, err := ParametersFromMap(map[string]any{
		"resonance_frequency_ge":      6.5e9,
		"resonance_frequency_ef":      "6.3e9",
		"drive_lo_frequency":          6.4e9,
		"readout_resonator_frequency": 7.1e9,
		"readout_lo_frequency":        7e9,
		"user_defined":                map[string]any{"pi_amp": 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 6.3e9, p.ResonanceFrequencyEF)
	assert.Equal(t, 20e-9, p.ReadoutIntegrationDelay)
	assert.Equal(t, 10.0, p.DriveRange)
	assert.Equal(t, 0.5, p.UserDefined["pi_amp"])

	_, err = ParametersFromMap(map[string]any{"bogus": 1})
	require.Error(t, err)
}

func TestNewTransmon_UnknownRole(t *testing.T) {
	_, err := NewTransmon("q0", map[string]string{"coupler": "x"}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = NewTransmon("", nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestTransmon_Calibration(t *testing.T) {
	q, err := NewTransmon("q0", testSignals(), testParams())
	require.NoError(t, err)

	cal, err := q.Calibration(true)
	require.NoError(t, err)
	require.Len(t, cal.Items, 4)

	drive := cal.Get("q0/drive_line")
	require.NotNil(t, drive)
	assert.Equal(t, "q0_drive_ge_osc", drive.Oscillator.UID)
	assert.Equal(t, domain.ModulationHardware, drive.Oscillator.ModulationType)
	assert.InDelta(t, 100e6, *drive.Oscillator.Frequency, 1)
	require.NotNil(t, drive.LocalOscillator)
	assert.Equal(t, 6.4e9, *drive.LocalOscillator.Frequency)

	acq := cal.Get("q0/acquire_line")
	assert.Equal(t, domain.ModulationSoftware, acq.Oscillator.ModulationType)
	assert.Equal(t, 20e-9, *acq.PortDelay)
	assert.Equal(t, 10.0, *acq.Range)

	flux := cal.Get("q0/flux_line")
	assert.Nil(t, flux.Oscillator)
	assert.Equal(t, 0.2, *flux.VoltageOffset)

	noLO, err := q.Calibration(false)
	require.NoError(t, err)
	assert.Nil(t, noLO.Get("q0/measure_line").LocalOscillator)
}

func TestTransmon_CalibrationWithoutParameters(t *testing.T) {
	q, err := NewTransmon("q0", testSignals(), nil)
	require.NoError(t, err)
	_, err = q.Calibration(true)
	require.ErrorIs(t, err, ErrMissingParameters)
}

func TestTransmon_AddSignals(t *testing.T) {
	q, err := NewTransmon("q0", testSignals(), testParams())
	require.NoError(t, err)
	exp := experiment.MustNew()

	require.NoError(t, q.AddSignals(exp))
	assert.Equal(t, []string{"q0_drive", "q0_measure", "q0_acquire", "q0_flux"}, exp.SignalUIDs())
	assert.True(t, exp.MappingStatus().FullyMapped)
	assert.Equal(t, "q0/measure_line", exp.SignalMap()["q0_measure"])
	assert.Len(t, exp.Calibration().Items, 4)

	require.ErrorIs(t, q.AddSignals(exp), domain.ErrDuplicateIdentifier)
}
