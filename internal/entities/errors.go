// Package entities contains core business entities and errors.
package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPRExists signals duplicate PR id.
	ErrPRExists = errors.New("pr exists")
	// ErrPRNotFound signals missing PR.
	ErrPRNotFound = errors.New("pr not found")
	// ErrPRClosed signals modification attempt after merge or discard.
	ErrPRClosed = errors.New("pr closed")
	// ErrRevisionNotFound signals a revision outside of the PR history.
	ErrRevisionNotFound = errors.New("revision not found")
	// ErrVoteExists signals a second vote by the same reviewer on one revision.
	ErrVoteExists = errors.New("vote exists")
	// ErrJobNotFound signals a build job missing from the build spec.
	ErrJobNotFound = errors.New("job not found")
	// ErrPolicyViolation signals a protected reference rule forbidding a mutation.
	ErrPolicyViolation = errors.New("policy violation")
	// ErrConflict signals a reference changed concurrently with a mutation.
	ErrConflict = errors.New("conflict")
	// ErrInterpolation signals a malformed variable reference.
	ErrInterpolation = errors.New("interpolation error")
)

// RefOperation names the mutation a protection rule guards.
type RefOperation string

const (
	// OperationCreate creates a missing reference.
	OperationCreate RefOperation = "Creating"
	// OperationUpdate moves an existing reference.
	OperationUpdate RefOperation = "Updating"
)

// PolicyViolation is returned when tag protection forbids the requested mutation.
type PolicyViolation struct {
	Ref       string
	Operation RefOperation
}

func (e *PolicyViolation) Error() string {
	return fmt.Sprintf("%s tag '%s' is not allowed in this build", e.Operation, e.Ref)
}

// Is matches ErrPolicyViolation.
func (e *PolicyViolation) Is(target error) bool {
	return target == ErrPolicyViolation
}

// ConflictError is returned when the reference changed between evaluation and mutation.
type ConflictError struct {
	Ref string
	Err error
}

func (e *ConflictError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("tag '%s' was modified concurrently", e.Ref)
	}
	return fmt.Sprintf("tag '%s' was modified concurrently: %v", e.Ref, e.Err)
}

// Is matches ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
