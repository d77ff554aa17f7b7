package domain

// ScopeEvent describes a section scope being opened or closed.
type ScopeEvent struct {
	ExperimentUID string
	SectionUID    string
	Kind          SectionKind
	ExecutionType ExecutionType
	// Depth is the number of sections open after the push, or before the pop.
	Depth int
}

// OperationEvent describes a leaf operation attached to a section.
type OperationEvent struct {
	ExperimentUID string
	SectionUID    string
	Kind          OperationKind
}

// ScopeHooks are optional observability callbacks invoked synchronously by the
// experiment builder.
type ScopeHooks struct {
	OnOpen      func(*ScopeEvent)
	OnClose     func(*ScopeEvent)
	OnOperation func(*OperationEvent)
}
