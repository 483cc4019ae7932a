package workroom

import (
	"github.com/workroom-hq/workroom-go/internal/errs"
	"github.com/workroom-hq/workroom-go/internal/model"
)

// Sentinel errors surfaced by repositories. Match with errors.Is.
var (
	ErrNotFound          = model.ErrNotFound
	ErrValidation        = model.ErrValidation
	ErrEmptyCreateResult = model.ErrEmptyCreateResult
)

// IsIrrecoverable reports whether err carries a backend classification that
// retrying cannot fix (4xx other than 408/429, malformed payloads).
func IsIrrecoverable(err error) bool { return errs.IsIrrecoverable(err) }

// StatusCode extracts the HTTP status carried by a classified backend error,
// or 0 when err holds none.
func StatusCode(err error) int { return errs.StatusCode(err) }
