package model

import "errors"

var (
	// Authentication errors. ErrInvalidCredentials covers unknown email,
	// wrong password, and disabled account alike so a caller cannot tell
	// which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")

	// Session gate errors, in check order.
	ErrInvalidToken    = errors.New("invalid token")
	ErrWrongTokenKind  = errors.New("wrong token kind")
	ErrUnknownSubject  = errors.New("unknown token subject")
	ErrAccountDisabled = errors.New("account disabled")

	// Resource errors
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
