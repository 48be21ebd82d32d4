package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidManifest fails a run whose root package.json is missing or does
// not parse.
var ErrInvalidManifest = errors.New("invalid project manifest")

const (
	OpRead  = "read"
	OpParse = "parse"
)

// ExtractionError records a file that one parser could not process. It is
// kept in CheckReport.InvalidFiles and never fails the run.
type ExtractionError struct {
	Path   string
	Parser string
	Op     string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s %s with %s: %v", e.Op, e.Path, e.Parser, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// TraversalError records a directory that could not be listed.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("list %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}
