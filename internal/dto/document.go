package dto

import "github.com/aretw0/qdsl/pkg/domain"

// ExperimentDoc is the file representation of an experiment.
// Keys use the "mapstructure" tags so a document read into a generic map can
// be decoded regardless of its source format.
type ExperimentDoc struct {
	UID         string                               `json:"uid,omitempty" yaml:"uid,omitempty" mapstructure:"uid"`
	Epsilon     float64                              `json:"epsilon,omitempty" yaml:"epsilon,omitempty" mapstructure:"epsilon"`
	Signals     []SignalDoc                          `json:"signals" yaml:"signals" mapstructure:"signals"`
	Parameters  []ParameterDoc                       `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
	Pulses      []PulseDoc                           `json:"pulses,omitempty" yaml:"pulses,omitempty" mapstructure:"pulses"`
	Sections    []NodeDoc                            `json:"sections" yaml:"sections" mapstructure:"sections"`
	Calibration map[string]*domain.SignalCalibration `json:"calibration,omitempty" yaml:"calibration,omitempty" mapstructure:"calibration"`
}

// SignalDoc is an experiment signal and its logical signal.
type SignalDoc struct {
	UID   string `json:"uid" yaml:"uid" mapstructure:"uid"`
	MapTo string `json:"map_to,omitempty" yaml:"map_to,omitempty" mapstructure:"map_to"`
}

// ParameterDoc declares a sweep parameter, either by explicit values or as a
// linear range (start, stop, count).
type ParameterDoc struct {
	UID    string    `json:"uid" yaml:"uid" mapstructure:"uid"`
	Values []float64 `json:"values,omitempty" yaml:"values,omitempty" mapstructure:"values"`
	Start  *float64  `json:"start,omitempty" yaml:"start,omitempty" mapstructure:"start"`
	Stop   *float64  `json:"stop,omitempty" yaml:"stop,omitempty" mapstructure:"stop"`
	Count  int       `json:"count,omitempty" yaml:"count,omitempty" mapstructure:"count"`
	Axis   string    `json:"axis_name,omitempty" yaml:"axis_name,omitempty" mapstructure:"axis_name"`
}

// PulseDoc declares a pulse. Function selects a functional pulse, otherwise
// Samples or SamplesComplex ([re, im] pairs) hold the waveform.
type PulseDoc struct {
	UID            string         `json:"uid" yaml:"uid" mapstructure:"uid"`
	Function       string         `json:"function,omitempty" yaml:"function,omitempty" mapstructure:"function"`
	Amplitude      *float64       `json:"amplitude,omitempty" yaml:"amplitude,omitempty" mapstructure:"amplitude"`
	Length         *float64       `json:"length,omitempty" yaml:"length,omitempty" mapstructure:"length"`
	Parameters     map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
	Samples        []float64      `json:"samples,omitempty" yaml:"samples,omitempty" mapstructure:"samples"`
	SamplesComplex [][]float64    `json:"samples_complex,omitempty" yaml:"samples_complex,omitempty" mapstructure:"samples_complex"`
}

// NodeDoc is one child of the tree: a section when Kind is a section kind,
// a leaf operation otherwise. Fields not used by Kind are left empty.
//
// Quantity fields (length, amplitude, time, ...) hold either a number or the
// UID of a declared sweep parameter. Pulses and kernels are referenced by UID.
type NodeDoc struct {
	Kind string `json:"kind" yaml:"kind" mapstructure:"kind"`
	UID  string `json:"uid,omitempty" yaml:"uid,omitempty" mapstructure:"uid"`

	Alignment     string         `json:"alignment,omitempty" yaml:"alignment,omitempty" mapstructure:"alignment"`
	ExecutionType string         `json:"execution_type,omitempty" yaml:"execution_type,omitempty" mapstructure:"execution_type"`
	Length        any            `json:"length,omitempty" yaml:"length,omitempty" mapstructure:"length"`
	PlayAfter     []string       `json:"play_after,omitempty" yaml:"play_after,omitempty" mapstructure:"play_after"`
	Trigger       map[string]int `json:"trigger,omitempty" yaml:"trigger,omitempty" mapstructure:"trigger"`
	OnSystemGrid  *bool          `json:"on_system_grid,omitempty" yaml:"on_system_grid,omitempty" mapstructure:"on_system_grid"`

	Parameters           []string `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
	ResetOscillatorPhase bool     `json:"reset_oscillator_phase,omitempty" yaml:"reset_oscillator_phase,omitempty" mapstructure:"reset_oscillator_phase"`
	ChunkCount           int      `json:"chunk_count,omitempty" yaml:"chunk_count,omitempty" mapstructure:"chunk_count"`

	Count           int    `json:"count,omitempty" yaml:"count,omitempty" mapstructure:"count"`
	AveragingMode   string `json:"averaging_mode,omitempty" yaml:"averaging_mode,omitempty" mapstructure:"averaging_mode"`
	AcquisitionType string `json:"acquisition_type,omitempty" yaml:"acquisition_type,omitempty" mapstructure:"acquisition_type"`
	RepetitionMode  string `json:"repetition_mode,omitempty" yaml:"repetition_mode,omitempty" mapstructure:"repetition_mode"`
	RepetitionTime  any    `json:"repetition_time,omitempty" yaml:"repetition_time,omitempty" mapstructure:"repetition_time"`

	Handle       string `json:"handle,omitempty" yaml:"handle,omitempty" mapstructure:"handle"`
	UserRegister *int   `json:"user_register,omitempty" yaml:"user_register,omitempty" mapstructure:"user_register"`
	Routing      string `json:"routing,omitempty" yaml:"routing,omitempty" mapstructure:"routing"`
	State        *int   `json:"state,omitempty" yaml:"state,omitempty" mapstructure:"state"`

	Children []NodeDoc `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`

	Signal                   string               `json:"signal,omitempty" yaml:"signal,omitempty" mapstructure:"signal"`
	Signals                  []string             `json:"signals,omitempty" yaml:"signals,omitempty" mapstructure:"signals"`
	Pulse                    string               `json:"pulse,omitempty" yaml:"pulse,omitempty" mapstructure:"pulse"`
	Amplitude                any                  `json:"amplitude,omitempty" yaml:"amplitude,omitempty" mapstructure:"amplitude"`
	Phase                    *float64             `json:"phase,omitempty" yaml:"phase,omitempty" mapstructure:"phase"`
	IncrementOscillatorPhase any                  `json:"increment_oscillator_phase,omitempty" yaml:"increment_oscillator_phase,omitempty" mapstructure:"increment_oscillator_phase"`
	SetOscillatorPhase       *float64             `json:"set_oscillator_phase,omitempty" yaml:"set_oscillator_phase,omitempty" mapstructure:"set_oscillator_phase"`
	PulseParameters          map[string]any       `json:"pulse_parameters,omitempty" yaml:"pulse_parameters,omitempty" mapstructure:"pulse_parameters"`
	PrecompensationClear     *bool                `json:"precompensation_clear,omitempty" yaml:"precompensation_clear,omitempty" mapstructure:"precompensation_clear"`
	Markers                  map[string]MarkerDoc `json:"markers,omitempty" yaml:"markers,omitempty" mapstructure:"markers"`
	Time                     any                  `json:"time,omitempty" yaml:"time,omitempty" mapstructure:"time"`
	Kernels                  []string             `json:"kernels,omitempty" yaml:"kernels,omitempty" mapstructure:"kernels"`
	KernelParameters         []map[string]any     `json:"kernel_parameters,omitempty" yaml:"kernel_parameters,omitempty" mapstructure:"kernel_parameters"`
	Func                     string               `json:"func,omitempty" yaml:"func,omitempty" mapstructure:"func"`
	Args                     map[string]any       `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
	Path                     string               `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
	Value                    any                  `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
}

// MarkerDoc is a marker played with a pulse. Waveform references a pulse UID.
type MarkerDoc struct {
	Enable   bool     `json:"enable" yaml:"enable" mapstructure:"enable"`
	Start    *float64 `json:"start,omitempty" yaml:"start,omitempty" mapstructure:"start"`
	Length   *float64 `json:"length,omitempty" yaml:"length,omitempty" mapstructure:"length"`
	Waveform string   `json:"waveform,omitempty" yaml:"waveform,omitempty" mapstructure:"waveform"`
}

// SignalMapDoc is a standalone signal map file.
type SignalMapDoc struct {
	SignalMap map[string]string `json:"signal_map" yaml:"signal_map" mapstructure:"signal_map"`
}

// CalibrationDoc is a standalone calibration file. A null entry means no
// calibration for that signal.
type CalibrationDoc struct {
	Items map[string]*domain.SignalCalibration `json:"calibration" yaml:"calibration" mapstructure:"calibration"`
}
