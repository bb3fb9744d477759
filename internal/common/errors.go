// Package common defines sentinel errors shared across the worklog engine.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors, recovered at the input boundary.
	ErrMissingTimestamp    = errors.New("missing timestamp")
	ErrEndNotAfterStart    = errors.New("end time is not after start time")
	ErrUnparsableTimestamp = errors.New("unparsable timestamp")

	// Record-list errors.
	ErrIndexOutOfBounds = errors.New("record index out of bounds")
	ErrEditInProgress   = errors.New("edit already in progress")
	ErrNoActiveEdit     = errors.New("no edit in progress")

	// Session errors.
	ErrNotAdmin       = errors.New("admin role required")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrIncompleteForm = errors.New("all identity fields are required")

	// Backing store unreachable or not configured. Mutations still succeed
	// in memory; callers surface this as a non-blocking warning.
	ErrSyncUnavailable = errors.New("backing store unavailable")
)
