package contract

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/huangsam/crashspot/schema"
	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchWithAs(t *testing.T) {
	cause := errors.New("connection refused")

	var connErr *ConnectionError
	err := fmt.Errorf("setup: %w", &ConnectionError{Backend: schema.PostgreSQLBackend, Err: cause})
	assert.ErrorAs(t, err, &connErr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "postgresql")

	var queryErr *QueryError
	err = fmt.Errorf("clean: %w", &QueryError{Step: "geo", Err: cause})
	assert.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "geo", queryErr.Step)

	var dataErr *InsufficientDataError
	err = &InsufficientDataError{Window: 5, Entries: 3}
	assert.ErrorAs(t, err, &dataErr)
	assert.Contains(t, err.Error(), "series has 3")
}

func TestWrapQueryError(t *testing.T) {
	assert.NoError(t, WrapQueryError("select records", nil))

	cause := errors.New("no such table")
	wrapped := WrapQueryError("select records", cause)
	assert.Equal(t, "query failed in select records: no such table", wrapped.Error())

	// An error that already names its query is passed through unchanged
	inner := &QueryError{Step: "count by date", Err: cause}
	again := WrapQueryError("count by date", fmt.Errorf("series: %w", inner))
	assert.Equal(t, "series: query failed in count by date: no such table", again.Error())
	assert.Equal(t, 1, strings.Count(again.Error(), "query failed"))
}

func TestLoadErrorMessage(t *testing.T) {
	withLine := &LoadError{Path: "crashes.csv", Line: 12, Err: errors.New("bad date")}
	assert.Equal(t, "failed to load crashes.csv at line 12: bad date", withLine.Error())

	noLine := &LoadError{Path: "missing.csv", Err: errors.New("no such file")}
	assert.Equal(t, "failed to load missing.csv: no such file", noLine.Error())
}

func TestMalformedValueErrorMessage(t *testing.T) {
	err := &MalformedValueError{
		Column: "latitude",
		IDs:    []int64{1, 2, 3, 4, 5, 6},
		Values: []string{"a", "b", "c", "d", "e", "f"},
	}
	msg := err.Error()
	assert.Contains(t, msg, "malformed latitude in 6 records")
	assert.Contains(t, msg, `"e"`)
	assert.NotContains(t, msg, `"f"`)
}
