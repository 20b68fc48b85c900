package models

import "errors"

var (
	// ErrNotFound is returned when a point or link does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an ID is already taken.
	ErrDuplicate = errors.New("duplicate id")
	// ErrSelfLink is returned for a link whose source and target coincide.
	ErrSelfLink = errors.New("link joins a point to itself")
)
