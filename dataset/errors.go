package dataset

import (
	"fmt"
	"strings"
)

// ============================================================================
// ERRORS — Load-time failure taxonomy
// ============================================================================
// SchemaError means the source is structurally unusable: required columns
// are missing and no view can bind to a partial schema. Callers treat it as
// fatal at startup. LoadError means the source could not be fetched, read
// or parsed this time: callers degrade to an empty dataset, surface the
// message and keep serving.
// ============================================================================

// Load stages named by LoadError.
const (
	StageFetch = "fetch"
	StageRead  = "read"
	StageParse = "parse"
)

// SchemaError reports required columns missing from a source.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset %s: missing required columns: %s",
		e.Source, strings.Join(e.Missing, ", "))
}

// LoadError reports a recoverable failure while loading a source.
type LoadError struct {
	Source string
	Stage  string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("dataset %s: %s failed: %v", e.Source, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
