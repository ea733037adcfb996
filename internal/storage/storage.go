// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// Handlers depend only on this interface, never on a concrete driver,
// so the same handlers serve SQLite in development and MySQL in
// production.
package storage

import (
	"context"
	"errors"

	"github.com/harsha/subjects-api/internal/storage/query"
	"github.com/harsha/subjects-api/internal/types"
)

// ErrNotFound is returned when a query matches zero rows.
// Its text is surfaced to API clients verbatim.
var ErrNotFound = errors.New("No record(s) found")

// QueryError is returned when the database rejects a statement.
// Op names the failing step for logs; Err is the driver's own error,
// whose message is what API clients get to see.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *QueryError) Unwrap() error { return e.Err }

// Storage is the database contract.
type Storage interface {
	// GetSubjects runs the subject query described by sel.
	// It returns ErrNotFound instead of an empty slice.
	GetSubjects(ctx context.Context, sel query.Selector) ([]types.Subject, error)

	// CreateSubject inserts a subject and returns it as stored,
	// including the generated SubjectID and the lecturer's name.
	CreateSubject(ctx context.Context, in types.SubjectInput) (types.Subject, error)

	// UpdateSubject replaces the writable fields of subject id and
	// returns the row as stored. ErrNotFound if id does not exist.
	UpdateSubject(ctx context.Context, id int64, in types.SubjectInput) (types.Subject, error)
}
