package repository

import "errors"

var (
	// ErrNotFound is returned when a requested slot holds nothing
	ErrNotFound = errors.New("not found")
)
