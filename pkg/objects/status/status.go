// Package status exports errors produced by the objects package.
package status

import "github.com/oneconcern/cmon/pkg/errors"

var (
	// ErrNotFound indicates an object was not found in the scope
	ErrNotFound = errors.New("not found")

	// ErrCorrupted indicates a stored object could not be decoded, or does not match its reference
	ErrCorrupted = errors.New("corrupted object")

	// ErrImport indicates a failure while importing objects from a remote scope
	ErrImport = errors.New("import failed")
)
