// Package status exports errors produced by component loaders.
package status

import "github.com/oneconcern/cmon/pkg/errors"

var (
	// ErrMissingFiles indicates that none of the files of a component are on disk
	ErrMissingFiles = errors.New("component files are missing")

	// ErrNotFoundInPath indicates that the directory of a component does not exist
	ErrNotFoundInPath = errors.New("component not found in path")

	// ErrMissingFromIndex indicates that a component is not tracked by the workspace
	ErrMissingFromIndex = errors.New("component is missing from the workspace index")

	// ErrPendingImport indicates that the objects of a component must be imported before it can be loaded
	ErrPendingImport = errors.New("component objects must be imported")

	// ErrInvalidManifest indicates that the manifest of a component cannot be read
	ErrInvalidManifest = errors.New("invalid component manifest")
)
