package domain

// Oscillator describes the frequency source attached to a signal line.
type Oscillator struct {
	UID            string         `json:"uid" yaml:"uid" mapstructure:"uid"`
	Frequency      *float64       `json:"frequency,omitempty" yaml:"frequency,omitempty" mapstructure:"frequency"`
	ModulationType ModulationType `json:"modulation_type,omitempty" yaml:"modulation_type,omitempty" mapstructure:"modulation_type"`
}

// MixerCalibration holds IQ mixer corrections.
type MixerCalibration struct {
	UID              string      `json:"uid,omitempty" yaml:"uid,omitempty" mapstructure:"uid"`
	VoltageOffsets   []float64   `json:"voltage_offsets,omitempty" yaml:"voltage_offsets,omitempty" mapstructure:"voltage_offsets"`
	CorrectionMatrix [][]float64 `json:"correction_matrix,omitempty" yaml:"correction_matrix,omitempty" mapstructure:"correction_matrix"`
}

// SignalCalibration is the calibration of one experiment signal.
// A record may be shared by several signals; the experiment never copies it.
type SignalCalibration struct {
	UID              string            `json:"uid,omitempty" yaml:"uid,omitempty" mapstructure:"uid"`
	Oscillator       *Oscillator       `json:"oscillator,omitempty" yaml:"oscillator,omitempty" mapstructure:"oscillator"`
	LocalOscillator  *Oscillator       `json:"local_oscillator,omitempty" yaml:"local_oscillator,omitempty" mapstructure:"local_oscillator"`
	MixerCalibration *MixerCalibration `json:"mixer_calibration,omitempty" yaml:"mixer_calibration,omitempty" mapstructure:"mixer_calibration"`
	PortDelay        *float64          `json:"port_delay,omitempty" yaml:"port_delay,omitempty" mapstructure:"port_delay"`
	PortMode         string            `json:"port_mode,omitempty" yaml:"port_mode,omitempty" mapstructure:"port_mode"`
	DelaySignal      *float64          `json:"delay_signal,omitempty" yaml:"delay_signal,omitempty" mapstructure:"delay_signal"`
	VoltageOffset    *float64          `json:"voltage_offset,omitempty" yaml:"voltage_offset,omitempty" mapstructure:"voltage_offset"`
	Range            *float64          `json:"range,omitempty" yaml:"range,omitempty" mapstructure:"range"`
	Threshold        *float64          `json:"threshold,omitempty" yaml:"threshold,omitempty" mapstructure:"threshold"`
	Amplitude        *float64          `json:"amplitude,omitempty" yaml:"amplitude,omitempty" mapstructure:"amplitude"`
}

// Calibration maps signal UIDs to calibration records. A nil record means
// "no calibration" for that signal.
type Calibration struct {
	Items map[string]*SignalCalibration `json:"calibration_items" yaml:"calibration_items"`
}

// NewCalibration creates a calibration from the given items.
func NewCalibration(items map[string]*SignalCalibration) *Calibration {
	if items == nil {
		items = make(map[string]*SignalCalibration)
	}
	return &Calibration{Items: items}
}

// Get returns the record for uid, or nil.
func (c *Calibration) Get(uid string) *SignalCalibration {
	if c == nil {
		return nil
	}
	return c.Items[uid]
}
