// Package store holds the roster, attendance ledger, liveness and
// staff-user stores, plus the cascade coordinator that deletes a
// student across all of them.  Each store is an in-memory map guarded
// by its own RWMutex and snapshotted through a pluggable Persister.
//
// The sentinel errors below are shared across stores so that callers
// (services and HTTP handlers) can distinguish failure scenarios with
// errors.Is.  Every error surfaced to a caller is wrapped with a
// human-readable reason naming what went wrong.
package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a student or attendance record does not
// exist. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is returned when creating or renaming a student
// would collide case-insensitively with another student's name.
var ErrDuplicateName = errors.New("student with this name already exists")

// ErrCapacityExceeded is returned by the roll allocator when the
// three-digit suffix space (1..999) is exhausted.
var ErrCapacityExceeded = errors.New("maximum number of students (999) reached")

// ErrInvalidInput is returned for malformed payloads: a missing
// required field, a bad date of birth, or an attempt to change an
// immutable field.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnauthorized is returned when the acting user's role or identity
// does not satisfy an operation's precondition.
var ErrUnauthorized = errors.New("unauthorized")

// ErrStorageUnavailable wraps durable-backend I/O failures.  It aborts
// the current operation; the in-memory state is only mutated after the
// persister accepts the snapshot, so no partial write is left behind
// for single-store operations.
var ErrStorageUnavailable = errors.New("storage unavailable")

// CascadeStep names one of the three sub-deletions performed by the
// coordinator, in their fixed execution order.
type CascadeStep string

const (
	StepRoster   CascadeStep = "roster"
	StepLedger   CascadeStep = "ledger"
	StepLiveness CascadeStep = "liveness"
)

// PartialCascadeError reports a cascade delete that completed some but
// not all of its sub-steps.  The coordinator does not roll back;
// instead it surfaces which steps succeeded so reconciliation tooling
// can finish the job.
type PartialCascadeError struct {
	StudentID int
	Completed []CascadeStep
	Failed    CascadeStep
	Err       error
}

func (e *PartialCascadeError) Error() string {
	done := make([]string, 0, len(e.Completed))
	for _, s := range e.Completed {
		done = append(done, string(s))
	}
	completed := "none"
	if len(done) > 0 {
		completed = strings.Join(done, ", ")
	}
	return fmt.Sprintf("partial cascade failure deleting student %d: step %q failed (%v); completed: %s",
		e.StudentID, e.Failed, e.Err, completed)
}

func (e *PartialCascadeError) Unwrap() error { return e.Err }
