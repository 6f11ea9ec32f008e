package ir

// Version constants for the trace format and engine.
const (
	// TraceVersion is the trace schema version. Bumped whenever the canonical
	// form of a snapshot changes.
	TraceVersion = "1"

	// EngineVersion is the algotrace engine version.
	EngineVersion = "0.1.0"
)
