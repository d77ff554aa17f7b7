// Package quantum provides qubit elements that know which signal lines they
// use and how to calibrate them.
package quantum
