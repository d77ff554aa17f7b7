package experiment

import (
	"fmt"

	"github.com/aretw0/qdsl/pkg/domain"
)

// Signal is an experiment-level signal line. MapTo is the path of the logical
// signal it is connected to, empty when unmapped.
type Signal struct {
	UID         string
	MapTo       string
	Calibration *domain.SignalCalibration
}

// IsMapped reports whether the signal is connected to a logical signal.
func (s *Signal) IsMapped() bool { return s.MapTo != "" }

// IsCalibrated reports whether a calibration record is attached.
func (s *Signal) IsCalibrated() bool { return s.Calibration != nil }

// MappingStatus summarizes which signals are connected to logical signals.
// UIDs are listed in registration order.
type MappingStatus struct {
	FullyMapped bool     `json:"is_all_mapped"`
	Mapped      []string `json:"mapped_signals"`
	Unmapped    []string `json:"not_mapped_signals"`
}

// AddSignal registers a new signal. An empty uid is replaced by a generated
// one; mapTo may be empty to leave the signal unmapped.
func (e *Experiment) AddSignal(uid, mapTo string) (*Signal, error) {
	if uid == "" {
		uid = e.newUID("sig", e.signalTaken)
	} else if e.signalTaken(uid) {
		return nil, fmt.Errorf("signal with id %q already exists: %w", uid, domain.ErrDuplicateIdentifier)
	}
	s := &Signal{UID: uid, MapTo: mapTo}
	e.signals[uid] = s
	e.signalOrder = append(e.signalOrder, uid)
	e.logger.Debug("signal added", "experiment", e.UID, "signal", uid, "map_to", mapTo)
	return s, nil
}

// IsSignal reports whether uid is a registered signal.
func (e *Experiment) IsSignal(uid string) bool {
	return e.signalTaken(uid)
}

// Signal returns the registered signal with the given uid.
func (e *Experiment) Signal(uid string) (*Signal, error) {
	s, ok := e.signals[uid]
	if !ok {
		return nil, unknownSignal(uid, "")
	}
	return s, nil
}

// Signals returns all signals in registration order.
func (e *Experiment) Signals() []*Signal {
	out := make([]*Signal, 0, len(e.signalOrder))
	for _, uid := range e.signalOrder {
		out = append(out, e.signals[uid])
	}
	return out
}

// SignalUIDs returns the UIDs of all signals in registration order.
func (e *Experiment) SignalUIDs() []string {
	return append([]string(nil), e.signalOrder...)
}

// MapSignal connects a signal to a logical signal path, replacing any previous mapping.
func (e *Experiment) MapSignal(uid, path string) error {
	s, ok := e.signals[uid]
	if !ok {
		return unknownSignal(uid, "call AddSignal before mapping it")
	}
	s.MapTo = path
	e.logger.Debug("signal mapped", "experiment", e.UID, "signal", uid, "map_to", path)
	return nil
}

// UnmapSignal disconnects a single signal.
func (e *Experiment) UnmapSignal(uid string) error {
	s, ok := e.signals[uid]
	if !ok {
		return unknownSignal(uid, "")
	}
	s.MapTo = ""
	return nil
}

// SetSignalMap applies several mappings at once. Every key is checked before
// any signal is modified.
func (e *Experiment) SetSignalMap(m map[string]string) error {
	for uid := range m {
		if !e.signalTaken(uid) {
			return unknownSignal(uid, "cannot apply signal map")
		}
	}
	for uid, path := range m {
		e.signals[uid].MapTo = path
	}
	return nil
}

// ResetSignalMap disconnects every signal and, if m is non-empty, applies it.
// Keys of m are validated before anything is disconnected.
func (e *Experiment) ResetSignalMap(m map[string]string) error {
	for uid := range m {
		if !e.signalTaken(uid) {
			return unknownSignal(uid, "cannot apply signal map")
		}
	}
	for _, s := range e.signals {
		s.MapTo = ""
	}
	if len(m) == 0 {
		return nil
	}
	return e.SetSignalMap(m)
}

// SignalMap returns the mapping of every mapped signal.
func (e *Experiment) SignalMap() map[string]string {
	out := make(map[string]string)
	for uid, s := range e.signals {
		if s.IsMapped() {
			out[uid] = s.MapTo
		}
	}
	return out
}

// MappingStatus reports which signals are mapped.
func (e *Experiment) MappingStatus() MappingStatus {
	status := MappingStatus{FullyMapped: true, Mapped: []string{}, Unmapped: []string{}}
	for _, uid := range e.signalOrder {
		if e.signals[uid].IsMapped() {
			status.Mapped = append(status.Mapped, uid)
		} else {
			status.FullyMapped = false
			status.Unmapped = append(status.Unmapped, uid)
		}
	}
	return status
}

// requireSignals fails with ErrUnknownSignal on the first unregistered uid.
func (e *Experiment) requireSignals(uids ...string) error {
	for _, uid := range uids {
		if !e.signalTaken(uid) {
			return unknownSignal(uid, "")
		}
	}
	return nil
}

func unknownSignal(uid, hint string) error {
	if hint == "" {
		return fmt.Errorf("signal with id %q not found in experiment: %w", uid, domain.ErrUnknownSignal)
	}
	return fmt.Errorf("signal with id %q not found in experiment, %s: %w", uid, hint, domain.ErrUnknownSignal)
}
