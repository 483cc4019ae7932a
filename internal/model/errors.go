package model

import "errors"

var (
	// ErrNotFound marks a lookup that matched no entity. Reads model absence
	// as a nil return instead; writes against a missing id may wrap this.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks locally rejected input (e.g. empty client name).
	ErrValidation = errors.New("validation error")

	// ErrEmptyCreateResult is returned when an insert that requested
	// representation came back with zero rows. The caller never gets a
	// locally synthesized fallback entity.
	ErrEmptyCreateResult = errors.New("create returned empty result")
)
