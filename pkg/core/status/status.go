// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/cmon/pkg/errors"
)

var (
	// ErrNotFound indicates a component or one of its versions was not found
	ErrNotFound = errors.New("not found")

	// ErrIntegrity indicates that a history refers to a version which cannot be resolved
	ErrIntegrity = errors.New("integrity error")

	// ErrOutOfSync indicates that the workspace index lacks the version of a component
	ErrOutOfSync = errors.New("workspace is out of sync, import or update the component first")

	// ErrPendingImport indicates that components must be imported before being versioned
	ErrPendingImport = errors.New("components must be imported first")

	// ErrMissingDependencies indicates that components have unresolved dependencies
	ErrMissingDependencies = errors.New("components have unresolved dependencies")

	// ErrValidation indicates invalid input, detected before any mutation
	ErrValidation = errors.New("validation error")

	// ErrInvalidLaneName indicates a lane name with forbidden characters
	ErrInvalidLaneName = errors.New("invalid lane name")

	// ErrLaneExists indicates that a lane with the same name already exists
	ErrLaneExists = errors.New("lane already exists")

	// ErrInvalidVersion indicates a version which cannot be used to tag a component
	ErrInvalidVersion = errors.New("invalid version")

	// ErrNothingToVersion indicates that no component needs a new version
	ErrNothingToVersion = errors.New("nothing to version")

	// ErrPartiallyVersioned indicates that versioning failed after some versions were created
	ErrPartiallyVersioned = errors.New("versioning interrupted")

	// ErrNoImporter indicates that the workspace has no remote scope to import components from
	ErrNoImporter = errors.New("no remote scope configured")
)
