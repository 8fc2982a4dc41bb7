package events

import "time"

// CompileStart is emitted when a compilation run begins.
// Context carries the build ID.
type CompileStart struct {
	SchemaFiles    int
	OperationFiles int
}

// OperationCompiled is emitted for each operation once its identity
// resolves.
type OperationCompiled struct {
	Name             string
	Type             string
	AlgorithmVersion string
	Digest           string
}

// ManifestResolved is emitted after the manifest format and entries are
// settled.
type ManifestResolved struct {
	Format  string
	Entries int
}

// CompileFinish is emitted when a compilation run completes.
type CompileFinish struct {
	Operations int
	Err        error
	Duration   time.Duration
}
