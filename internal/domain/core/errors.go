package core

import "errors"

var (
	// ErrEmailTaken means the unique email constraint was hit.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotFound means no matching identity or record exists.
	ErrNotFound = errors.New("record not found")
)
