// Package dto defines the YAML/JSON document forms of experiments, signal
// maps and calibrations, and converts them to and from the domain tree.
package dto
