package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the requested state transition is not allowed
// from the resource's current state.
var ErrConflict = errors.New("conflicting state")

// ErrForbidden indicates that the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Booking engine lifecycle errors. They all wrap ErrConflict so handlers can
// map the whole family to one HTTP status while callers still match the
// precise condition.

// ErrAlreadyLocked indicates a lock was attempted on an entry whose locked_at
// is already set, or a draft-only operation was attempted on a locked entry.
var ErrAlreadyLocked = fmt.Errorf("%w: journal entry is already locked", ErrConflict)

// ErrNotLocked indicates a reversal was attempted on an entry that was never
// locked. Drafts are deleted, not reversed.
var ErrNotLocked = fmt.Errorf("%w: journal entry is not locked", ErrConflict)

// ErrAlreadyCancelled indicates a reversal was attempted on an entry that has
// already been cancelled by a prior reversal.
var ErrAlreadyCancelled = fmt.Errorf("%w: journal entry is already cancelled", ErrConflict)
