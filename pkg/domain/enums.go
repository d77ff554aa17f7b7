package domain

// ExecutionType tells whether a section runs in near time (software control
// flow between hardware steps) or in real time (hardware-clocked).
type ExecutionType string

const (
	// ExecutionTypeUnset means the section inherits the type of its enclosing
	// section when it is opened.
	ExecutionTypeUnset ExecutionType = ""
	// NearTime sections may interleave software logic with hardware operations.
	NearTime ExecutionType = "NEAR_TIME"
	// RealTime sections are deterministic and run without software intervention.
	RealTime ExecutionType = "REAL_TIME"
)

func (t ExecutionType) String() string {
	if t == ExecutionTypeUnset {
		return "UNSET"
	}
	return string(t)
}

// Alignment controls how the children of a section are aligned in time.
type Alignment string

const (
	AlignLeft  Alignment = "LEFT"
	AlignRight Alignment = "RIGHT"
)

func (a Alignment) String() string { return string(a) }

// AveragingMode describes how results of an acquire loop are averaged.
type AveragingMode string

const (
	Cyclic     AveragingMode = "CYCLIC"
	Sequential AveragingMode = "SEQUENTIAL"
	SingleShot AveragingMode = "SINGLE_SHOT"
)

func (m AveragingMode) String() string { return string(m) }

// AcquisitionType selects the data-acquisition mode of a real-time acquire loop.
type AcquisitionType string

const (
	Integration    AcquisitionType = "INTEGRATION"
	Spectroscopy   AcquisitionType = "SPECTROSCOPY"
	Discrimination AcquisitionType = "DISCRIMINATION"
	Raw            AcquisitionType = "RAW"
)

func (t AcquisitionType) String() string { return string(t) }

// RepetitionMode defines the shot repetition behaviour of a real-time loop.
type RepetitionMode string

const (
	Fastest  RepetitionMode = "FASTEST"
	Constant RepetitionMode = "CONSTANT"
	Auto     RepetitionMode = "AUTO"
)

func (m RepetitionMode) String() string { return string(m) }

// FeedbackRouting selects the feedback path of a Match on a measurement handle.
// RoutingAuto leaves the choice to the compiler.
type FeedbackRouting string

const (
	RoutingAuto   FeedbackRouting = "AUTO"
	RoutingLocal  FeedbackRouting = "LOCAL"
	RoutingGlobal FeedbackRouting = "GLOBAL"
)

func (r FeedbackRouting) String() string { return string(r) }

// ModulationType of an oscillator.
type ModulationType string

const (
	ModulationAuto     ModulationType = "AUTO"
	ModulationSoftware ModulationType = "SOFTWARE"
	ModulationHardware ModulationType = "HARDWARE"
)

func (m ModulationType) String() string { return string(m) }

// ParseExecutionType converts a document string to an ExecutionType.
func ParseExecutionType(s string) (ExecutionType, error) {
	switch ExecutionType(s) {
	case ExecutionTypeUnset, NearTime, RealTime:
		return ExecutionType(s), nil
	}
	return ExecutionTypeUnset, invalidEnum("execution type", s)
}

// ParseAlignment converts a document string to an Alignment. Empty means left.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(s) {
	case "":
		return AlignLeft, nil
	case AlignLeft, AlignRight:
		return Alignment(s), nil
	}
	return AlignLeft, invalidEnum("alignment", s)
}

// ParseAveragingMode converts a document string to an AveragingMode. Empty means cyclic.
func ParseAveragingMode(s string) (AveragingMode, error) {
	switch AveragingMode(s) {
	case "":
		return Cyclic, nil
	case Cyclic, Sequential, SingleShot:
		return AveragingMode(s), nil
	}
	return Cyclic, invalidEnum("averaging mode", s)
}

// ParseAcquisitionType converts a document string to an AcquisitionType. Empty means integration.
func ParseAcquisitionType(s string) (AcquisitionType, error) {
	switch AcquisitionType(s) {
	case "":
		return Integration, nil
	case Integration, Spectroscopy, Discrimination, Raw:
		return AcquisitionType(s), nil
	}
	return Integration, invalidEnum("acquisition type", s)
}

// ParseRepetitionMode converts a document string to a RepetitionMode. Empty means fastest.
func ParseRepetitionMode(s string) (RepetitionMode, error) {
	switch RepetitionMode(s) {
	case "":
		return Fastest, nil
	case Fastest, Constant, Auto:
		return RepetitionMode(s), nil
	}
	return Fastest, invalidEnum("repetition mode", s)
}

// ParseFeedbackRouting converts a document string to a FeedbackRouting. Empty means auto.
func ParseFeedbackRouting(s string) (FeedbackRouting, error) {
	switch FeedbackRouting(s) {
	case "":
		return RoutingAuto, nil
	case RoutingAuto, RoutingLocal, RoutingGlobal:
		return FeedbackRouting(s), nil
	}
	return RoutingAuto, invalidEnum("feedback routing", s)
}

// ParseModulationType converts a document string to a ModulationType. Empty means auto.
func ParseModulationType(s string) (ModulationType, error) {
	switch ModulationType(s) {
	case "":
		return ModulationAuto, nil
	case ModulationAuto, ModulationSoftware, ModulationHardware:
		return ModulationType(s), nil
	}
	return ModulationAuto, invalidEnum("modulation type", s)
}
