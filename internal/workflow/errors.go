package workflow

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by an EntityStore when no record has the given id.
var ErrNotFound = errors.New("record not found")

// ValidationError reports caller-supplied fields that fail basic constraints.
// Nothing has been written when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PreconditionError reports that an operation's required current state does
// not hold, e.g. resolving a gate pass that already left Pending.
type PreconditionError struct {
	Entity string
	ID     uint
	Want   string
	Got    string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s %d: want %s, got %s", e.Entity, e.ID, e.Want, e.Got)
}

// ConflictError reports a lost optimistic-update race: a concurrent writer
// changed the record between this operation's read and its guarded write.
type ConflictError struct {
	Entity string
	ID     uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d was modified concurrently", e.Entity, e.ID)
}

// DependencyError wraps a failure of an external collaborator (entity store,
// token source). Partial effects of the failed operation are not rolled back.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
