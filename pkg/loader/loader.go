// Package loader materializes components from the workspace.
package loader

import (
	"context"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/loader/status"
	"github.com/oneconcern/cmon/pkg/model"
)

// Loader resolves a component ID into its description in the workspace.
//
// IDs without version, or with the "latest" alias, resolve to the version in the workspace.
type Loader interface {
	Load(context.Context, model.ID) (*Component, error)
}

// Failure classifies load errors
type Failure uint8

// Load failures
const (
	// FailureNone means the component loaded
	FailureNone Failure = iota
	// FailureMissing means the component is not tracked, or its files or directory are missing
	FailureMissing
	// FailurePendingImport means the objects of the component must be imported first
	FailurePendingImport
	// FailureOther is not recoverable
	FailureOther
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureMissing:
		return "missing"
	case FailurePendingImport:
		return "pending import"
	default:
		return "other"
	}
}

// Classify a load error
func Classify(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, status.ErrMissingFiles), errors.Is(err, status.ErrNotFoundInPath),
		errors.Is(err, status.ErrMissingFromIndex):
		return FailureMissing
	case errors.Is(err, status.ErrPendingImport):
		return FailurePendingImport
	default:
		return FailureOther
	}
}
