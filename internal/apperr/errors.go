package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")

	// ErrOutsideVault marks a path that escapes the vault root.
	ErrOutsideVault = errors.New("path outside vault")

	// ErrAmbiguousPath marks a path whose place in the vault cannot be
	// resolved, e.g. the vault root itself handed in as a note path.
	ErrAmbiguousPath = errors.New("ambiguous vault path")
)
