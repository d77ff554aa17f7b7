package experiment

import (
	"fmt"

	"github.com/aretw0/qdsl/pkg/domain"
)

// SetCalibration attaches the non-nil records of cal to the matching signals.
// A non-nil record for an unregistered signal fails the whole call before any
// signal is touched.
func (e *Experiment) SetCalibration(cal *domain.Calibration) error {
	if cal == nil {
		return nil
	}
	for uid, item := range cal.Items {
		if item != nil && !e.signalTaken(uid) {
			return fmt.Errorf("cannot apply experiment signal calibration: %w", unknownSignal(uid, ""))
		}
	}
	for uid, item := range cal.Items {
		if item != nil {
			e.signals[uid].Calibration = item
		}
	}
	return nil
}

// Calibration returns a snapshot covering every calibrated signal. The records
// are shared with the experiment, not copied.
func (e *Experiment) Calibration() *domain.Calibration {
	items := make(map[string]*domain.SignalCalibration)
	for uid, s := range e.signals {
		if s.IsCalibrated() {
			items[uid] = s.Calibration
		}
	}
	return domain.NewCalibration(items)
}

// ResetCalibration removes every signal calibration and then applies cal, if given.
func (e *Experiment) ResetCalibration(cal *domain.Calibration) error {
	if cal != nil {
		for uid, item := range cal.Items {
			if item != nil && !e.signalTaken(uid) {
				return fmt.Errorf("cannot apply experiment signal calibration: %w", unknownSignal(uid, ""))
			}
		}
	}
	for _, s := range e.signals {
		s.Calibration = nil
	}
	return e.SetCalibration(cal)
}
