// Package common defines shared constants and sentinel errors used across
// the Handluz client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth boundary errors. ErrInvalidCredentials covers unknown email,
	// missing password row, and password mismatch alike, so the user-facing
	// message cannot leak which check failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Remote-store failure kinds.
	ErrUnavailable = errors.New("server unavailable")
	ErrTimeout     = errors.New("request timed out")

	// ErrBusy is returned when a state-changing auth operation is invoked
	// while another one is still in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrNotSignedIn is returned by operations that require a live identity.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrForbidden is returned when the current role lacks the capability
	// an operation requires.
	ErrForbidden = errors.New("permission denied")
)
