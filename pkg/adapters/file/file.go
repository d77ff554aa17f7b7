// Package file reads and writes experiment, signal map and calibration
// documents. The format follows the file extension: .yaml/.yml or .json.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/qdsl/internal/dto"
	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
)

// ErrUnsupportedFormat is returned for file extensions other than .yaml, .yml and .json.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%q: %w", path, ErrUnsupportedFormat)
}

// SaveExperiment writes exp as a document. All scopes must be closed.
func SaveExperiment(path string, exp *experiment.Experiment) error {
	doc, err := dto.FromExperiment(exp)
	if err != nil {
		return err
	}
	return write(path, doc)
}

// LoadExperiment reads a document and rebuilds the experiment through the
// builder, so an invalid tree fails to load. opts are applied after the
// document's UID and epsilon.
func LoadExperiment(path string, opts ...experiment.Option) (*experiment.Experiment, error) {
	var doc dto.ExperimentDoc
	if err := read(path, &doc); err != nil {
		return nil, err
	}
	exp, err := doc.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid experiment in %q: %w", path, err)
	}
	return exp, nil
}

// SaveSignalMap writes the mapping of every mapped signal of exp.
func SaveSignalMap(path string, exp *experiment.Experiment) error {
	return write(path, dto.SignalMapDoc{SignalMap: exp.SignalMap()})
}

// LoadSignalMap reads a signal map document.
func LoadSignalMap(path string) (map[string]string, error) {
	var doc dto.SignalMapDoc
	if err := read(path, &doc); err != nil {
		return nil, err
	}
	if doc.SignalMap == nil {
		doc.SignalMap = map[string]string{}
	}
	return doc.SignalMap, nil
}

// SaveCalibration writes cal as a calibration document.
func SaveCalibration(path string, cal *domain.Calibration) error {
	return write(path, dto.CalibrationDoc{Items: cal.Items})
}

// LoadCalibration reads a calibration document keyed by signal UID.
func LoadCalibration(path string) (*domain.Calibration, error) {
	var doc dto.CalibrationDoc
	if err := read(path, &doc); err != nil {
		return nil, err
	}
	return doc.Calibration(), nil
}

func read(path string, out any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var raw map[string]any
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := dto.Decode(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func write(path string, doc any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
	default:
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to ensure document directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
