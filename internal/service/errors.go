package service

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAdmin           = errors.New("user does not have admin privileges")
	ErrUnavailable        = errors.New("feature unavailable")
)
