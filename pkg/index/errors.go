package index

import "github.com/oneconcern/cmon/pkg/errors"

var (
	// ErrInvalidDocument indicates that the persisted index cannot be read
	ErrInvalidDocument = errors.New("invalid workspace index")

	// ErrReservedName indicates that a component name clashes with a key of the persisted index
	ErrReservedName = errors.New("reserved component name")

	// ErrNotInIndex indicates that a component is not tracked by the workspace
	ErrNotInIndex = errors.New("component not in workspace index")
)
