package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/crashspot/schema"
)

// ConnectionError means the record store is unreachable.
type ConnectionError struct {
	Backend schema.DatabaseBackend
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s store: %v", e.Backend, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// LoadError means raw input could not be read or a row could not be parsed.
// Line is 0 when the failure is not tied to a row.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to load %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// QueryError means a store query failed. Step names the cleaning step or aggregate.
type QueryError struct {
	Step string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed in %s: %v", e.Step, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// WrapQueryError attributes err to step unless it already carries a QueryError.
func WrapQueryError(step string, err error) error {
	if err == nil {
		return nil
	}
	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return err
	}
	return &QueryError{Step: step, Err: err}
}

// InsufficientDataError means a window is longer than the series it runs over.
type InsufficientDataError struct {
	Window  int
	Entries int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: window of %d needs at least %d entries, series has %d", e.Window, e.Window, e.Entries)
}

// MalformedValueError means stored coordinates are not decimal numbers.
type MalformedValueError struct {
	Column string
	IDs    []int64
	Values []string
}

// maxReportedValues caps how many offending values are spelled out in the message.
const maxReportedValues = 5

func (e *MalformedValueError) Error() string {
	shown := e.Values
	if len(shown) > maxReportedValues {
		shown = shown[:maxReportedValues]
	}
	quoted := make([]string, len(shown))
	for i, v := range shown {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("malformed %s in %d records: %s", e.Column, len(e.IDs), strings.Join(quoted, ", "))
}
