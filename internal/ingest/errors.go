package ingest

import "fmt"

// DataFormatError reports an input file that cannot be turned into a Table.
// Nothing is loaded when it is returned.
type DataFormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := fmt.Sprintf("invalid sales data in %s: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause, if any.
func (e *DataFormatError) Unwrap() error {
	return e.Err
}

func formatError(source, reason string, err error) *DataFormatError {
	return &DataFormatError{Source: source, Reason: reason, Err: err}
}
