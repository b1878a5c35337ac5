package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an operation targets a nonexistent record.
// Deleting an already-deleted item reports it too: double-delete is an error,
// not a silent success.
var ErrNotFound = errors.New("record not found")

// MissingIndexError is a persistence failure caused by a query that names a
// composite index the backend has not provisioned. It is surfaced distinctly
// from generic unavailability because the corrective action differs: the index
// has to be created, retrying will not help.
type MissingIndexError struct {
	Index string
	Err   error
}

func (e *MissingIndexError) Error() string {
	return fmt.Sprintf("query requires missing index %s: %v", e.Index, e.Err)
}

func (e *MissingIndexError) Unwrap() error { return e.Err }

// Remediation describes how to provision the missing index.
func (e *MissingIndexError) Remediation() string {
	return fmt.Sprintf("run database migrations to create index %s", e.Index)
}

// classifyQueryError inspects a query failure and promotes it to a
// MissingIndexError when the backend's error text carries an
// index-provisioning hint.
func classifyQueryError(index string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "no such index") || strings.Contains(msg, "no query solution") {
		return &MissingIndexError{Index: index, Err: err}
	}
	return err
}

// IsMissingIndex reports whether err is (or wraps) a MissingIndexError.
func IsMissingIndex(err error) bool {
	var mi *MissingIndexError
	return errors.As(err, &mi)
}
