// Package common defines shared constants and sentinel errors used across
// the authkeeper client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when a registration hits the unique index
	// on the email column. The message is shown to the user verbatim.
	ErrEmailTaken = errors.New("this email is already registered")

	// Service-level errors.
	//
	// ErrInvalidCredentials deliberately does not distinguish an unknown
	// email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRegistrationFailed = errors.New("registration failed, please try again")
	ErrNotLoggedIn        = errors.New("no user is logged in")

	// ErrCorruptState marks persisted session data that can no longer be
	// decoded.
	ErrCorruptState = errors.New("corrupt persisted state")
)
