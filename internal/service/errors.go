package service

import "errors"

// Domain errors. Anything not matching one of these is treated as internal.
var (
	ErrUnauthenticated     = errors.New("missing or malformed bearer credential")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrAccessDenied        = errors.New("access denied")
	ErrSelfActionForbidden = errors.New("action not allowed on own account")
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateAttendance = errors.New("attendance already recorded for this subject today")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
