package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the maintenance core. Handlers map these onto HTTP
// status codes; repositories and controllers wrap them with %w so callers
// can test with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrDuplicateCode      = errors.New("duplicate code")
	ErrInvalidHierarchy   = errors.New("invalid hierarchy")
	ErrCircularReference  = errors.New("circular reference")
	ErrCorruptHierarchy   = errors.New("corrupt hierarchy")
	ErrUnknownQuestion    = errors.New("unknown question")
	ErrUnknownPart        = errors.New("unknown part")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InvalidTransitionError carries the state the activity was actually in and
// the transition that was requested, for diagnostics.
type InvalidTransitionError struct {
	Current   ActivityStatus
	Requested string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s activity in status %q", e.Requested, e.Current)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func NewInvalidTransition(current ActivityStatus, requested string) error {
	return &InvalidTransitionError{Current: current, Requested: requested}
}
