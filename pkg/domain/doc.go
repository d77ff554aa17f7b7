/*
Package domain contains the data model of a pulse-level experiment description.

It defines the section node variants (Section, Sweep, AcquireLoopNt,
AcquireLoopRt, Match, Case), the leaf operations (Play, Delay, Acquire, Reserve,
Call, Set), sweep parameters, pulses and calibration records. The package is
pure: it holds attributes and checks constraints local to a single node, while
nesting rules and signal references are enforced by package experiment.

# Key Entities

  - SectionNode: a scoped group of children; every variant embeds Section.
  - Operation: an immutable leaf value attached to a section.
  - Value / Quantity: closed variants for loosely-typed and sweepable fields.
  - Calibration: signal UID to SignalCalibration, shared by reference.

Errors are reported through the sentinel values in errors.go, wrapped with the
offending identifier; use errors.Is to classify them.
*/
package domain
