package redact

import "fmt"

// ParseError reports that the input could not be interpreted as a PDF
// document. Nothing was written.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidInputError reports a request the engine refuses to run, such as an
// empty target set. Nothing was written.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// SerializationError reports that the redacted output could not be
// produced. No partial output file is left behind.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to produce %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
