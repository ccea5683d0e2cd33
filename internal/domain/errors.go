package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when a referenced record does not exist
	// for the given owner.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange is returned when a candidate time range has
	// start >= end. It is a caller error, rejected before any conflict
	// computation.
	ErrInvalidRange = errors.New("invalid time range: start must be before end")

	// ErrInvalidRecurrence is returned when a recurrence spec names an
	// unsupported unit or multiplier.
	ErrInvalidRecurrence = errors.New("invalid recurrence spec")

	// ErrSchedulingConflict is returned by event creation/update when the
	// requested range overlaps existing events and the caller did not
	// explicitly override. The accompanying ConflictCheck carries the
	// conflicting events and alternative slots.
	ErrSchedulingConflict = errors.New("event conflicts with existing events")

	// ErrForbidden is returned when the caller is not the owner of the
	// referenced record.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned for malformed input that is not a range
	// violation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateEmail is returned when signing up with an email or
	// username that is already registered.
	ErrDuplicateEmail = errors.New("email or username already in use")

	// ErrInvalidCredentials is returned on login with a wrong username or
	// password. Deliberately does not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
