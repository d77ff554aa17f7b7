package quantum

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
)

// Signal roles understood by a Transmon.
const (
	RoleDrive   = "drive"
	RoleDriveEF = "drive_ef"
	RoleMeasure = "measure"
	RoleAcquire = "acquire"
	RoleFlux    = "flux"
)

// Roles lists the roles in the order signals are registered.
var Roles = []string{RoleDrive, RoleDriveEF, RoleMeasure, RoleAcquire, RoleFlux}

// ErrMissingParameters is returned when a Transmon without parameters is asked
// for calibration.
var ErrMissingParameters = errors.New("transmon has no parameters")

// TransmonParameters are the calibrated properties of a flux-tunable transmon.
// Frequencies are in Hz, ranges in dBm.
type TransmonParameters struct {
	ResonanceFrequencyGE      float64        `mapstructure:"resonance_frequency_ge" yaml:"resonance_frequency_ge" json:"resonance_frequency_ge"`
	ResonanceFrequencyEF      float64        `mapstructure:"resonance_frequency_ef" yaml:"resonance_frequency_ef" json:"resonance_frequency_ef"`
	DriveLOFrequency          float64        `mapstructure:"drive_lo_frequency" yaml:"drive_lo_frequency" json:"drive_lo_frequency"`
	ReadoutResonatorFrequency float64        `mapstructure:"readout_resonator_frequency" yaml:"readout_resonator_frequency" json:"readout_resonator_frequency"`
	ReadoutLOFrequency        float64        `mapstructure:"readout_lo_frequency" yaml:"readout_lo_frequency" json:"readout_lo_frequency"`
	ReadoutIntegrationDelay   float64        `mapstructure:"readout_integration_delay" yaml:"readout_integration_delay" json:"readout_integration_delay"`
	DriveRange                float64        `mapstructure:"drive_range" yaml:"drive_range" json:"drive_range"`
	ReadoutRangeOut           float64        `mapstructure:"readout_range_out" yaml:"readout_range_out" json:"readout_range_out"`
	ReadoutRangeIn            float64        `mapstructure:"readout_range_in" yaml:"readout_range_in" json:"readout_range_in"`
	FluxOffsetVoltage         float64        `mapstructure:"flux_offset_voltage" yaml:"flux_offset_voltage" json:"flux_offset_voltage"`
	UserDefined               map[string]any `mapstructure:"user_defined" yaml:"user_defined,omitempty" json:"user_defined,omitempty"`
}

// DefaultTransmonParameters returns parameters with the usual defaults for
// the optional fields and zero frequencies.
func DefaultTransmonParameters() TransmonParameters {
	return TransmonParameters{
		ReadoutIntegrationDelay: 20e-9,
		DriveRange:              10,
		ReadoutRangeOut:         5,
		ReadoutRangeIn:          10,
		UserDefined:             map[string]any{},
	}
}

// DriveFrequencyGE is the g-e drive frequency relative to the drive LO.
func (p TransmonParameters) DriveFrequencyGE() float64 {
	return p.ResonanceFrequencyGE - p.DriveLOFrequency
}

// DriveFrequencyEF is the e-f drive frequency relative to the drive LO.
func (p TransmonParameters) DriveFrequencyEF() float64 {
	return p.ResonanceFrequencyEF - p.DriveLOFrequency
}

// ReadoutFrequency is the readout baseband frequency.
func (p TransmonParameters) ReadoutFrequency() float64 {
	return p.ReadoutResonatorFrequency - p.ReadoutLOFrequency
}

// ParametersFromMap decodes a loosely typed map, e.g. from a YAML file, on top
// of the defaults. Unknown keys are rejected.
func ParametersFromMap(m map[string]any) (TransmonParameters, error) {
	p := DefaultTransmonParameters()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return TransmonParameters{}, err
	}
	if err := dec.Decode(m); err != nil {
		return TransmonParameters{}, fmt.Errorf("failed to decode transmon parameters: %w", err)
	}
	return p, nil
}

// Transmon is a superconducting qubit attached to logical signal lines.
// Signals maps a role (RoleDrive, ...) to a logical signal path.
type Transmon struct {
	UID        string
	Signals    map[string]string
	Parameters *TransmonParameters
}

// NewTransmon creates a transmon. Roles outside Roles are rejected.
func NewTransmon(uid string, signals map[string]string, params *TransmonParameters) (*Transmon, error) {
	if uid == "" {
		return nil, fmt.Errorf("transmon needs a uid: %w", domain.ErrInvalidArgument)
	}
	for role := range signals {
		if !knownRole(role) {
			return nil, fmt.Errorf("transmon %q: unknown signal role %q: %w", uid, role, domain.ErrInvalidArgument)
		}
	}
	return &Transmon{UID: uid, Signals: signals, Parameters: params}, nil
}

func knownRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Calibration derives the signal calibration of every attached line, keyed by
// logical signal path. With setLO the drive and readout local oscillators are
// included.
func (q *Transmon) Calibration(setLO bool) (*domain.Calibration, error) {
	if q.Parameters == nil {
		return nil, fmt.Errorf("transmon %q: %w", q.UID, ErrMissingParameters)
	}
	byRole := q.roleCalibration(setLO)
	items := make(map[string]*domain.SignalCalibration, len(byRole))
	for role, sc := range byRole {
		items[q.Signals[role]] = sc
	}
	return domain.NewCalibration(items), nil
}

func (q *Transmon) roleCalibration(setLO bool) map[string]*domain.SignalCalibration {
	p := q.Parameters
	var driveLO, readoutLO *domain.Oscillator
	if setLO {
		driveLO = &domain.Oscillator{UID: q.UID + "_drive_local_osc", Frequency: domain.Float(p.DriveLOFrequency)}
		readoutLO = &domain.Oscillator{UID: q.UID + "_readout_local_osc", Frequency: domain.Float(p.ReadoutLOFrequency)}
	}

	out := make(map[string]*domain.SignalCalibration)
	if _, ok := q.Signals[RoleDrive]; ok {
		out[RoleDrive] = &domain.SignalCalibration{
			Oscillator:      osc(q.UID+"_drive_ge_osc", p.DriveFrequencyGE(), domain.ModulationHardware),
			LocalOscillator: driveLO,
			Range:           domain.Float(p.DriveRange),
		}
	}
	if _, ok := q.Signals[RoleDriveEF]; ok {
		out[RoleDriveEF] = &domain.SignalCalibration{
			Oscillator:      osc(q.UID+"_drive_ef_osc", p.DriveFrequencyEF(), domain.ModulationHardware),
			LocalOscillator: driveLO,
			Range:           domain.Float(p.DriveRange),
		}
	}
	if _, ok := q.Signals[RoleMeasure]; ok {
		out[RoleMeasure] = &domain.SignalCalibration{
			Oscillator:      osc(q.UID+"_measure_osc", p.ReadoutFrequency(), domain.ModulationSoftware),
			LocalOscillator: readoutLO,
			Range:           domain.Float(p.ReadoutRangeOut),
		}
	}
	if _, ok := q.Signals[RoleAcquire]; ok {
		out[RoleAcquire] = &domain.SignalCalibration{
			Oscillator:      osc(q.UID+"_acquire_osc", p.ReadoutFrequency(), domain.ModulationSoftware),
			LocalOscillator: readoutLO,
			Range:           domain.Float(p.ReadoutRangeIn),
			PortDelay:       domain.Float(p.ReadoutIntegrationDelay),
		}
	}
	if _, ok := q.Signals[RoleFlux]; ok {
		out[RoleFlux] = &domain.SignalCalibration{
			VoltageOffset: domain.Float(p.FluxOffsetVoltage),
		}
	}
	return out
}

func osc(uid string, freq float64, mod domain.ModulationType) *domain.Oscillator {
	return &domain.Oscillator{UID: uid, Frequency: domain.Float(freq), ModulationType: mod}
}

// SignalUID is the experiment signal registered for role.
func (q *Transmon) SignalUID(role string) string {
	return q.UID + "_" + role
}

// AddSignals registers one experiment signal per attached role, mapped to its
// logical signal. If the transmon has parameters the signals are calibrated
// too, with local oscillators.
func (q *Transmon) AddSignals(exp *experiment.Experiment) error {
	for _, role := range Roles {
		path, ok := q.Signals[role]
		if !ok {
			continue
		}
		if _, err := exp.AddSignal(q.SignalUID(role), path); err != nil {
			return fmt.Errorf("transmon %q: %w", q.UID, err)
		}
	}
	if q.Parameters == nil {
		return nil
	}
	items := make(map[string]*domain.SignalCalibration)
	for role, sc := range q.roleCalibration(true) {
		items[q.SignalUID(role)] = sc
	}
	return exp.SetCalibration(domain.NewCalibration(items))
}
