package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthenticated   = errors.New("user not logged in")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)
