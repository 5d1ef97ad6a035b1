package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoSession    = errors.New("no active session")
)
