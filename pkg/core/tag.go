package core

import (
	"context"

	"github.com/oneconcern/cmon/pkg/model"
)

// TagParams describe a tag operation
type TagParams struct {
	IDs     model.IDs
	Message string
	Author  model.Contributor

	// ExactVersion is given to all tagged components. When empty, the latest version
	// of each component is incremented according to ReleaseType.
	ExactVersion string
	ReleaseType  ReleaseType

	// Force tags components which are not modified
	Force bool

	IgnoreUnresolvedDependencies bool
	IgnoreNewestVersion          bool
	SkipTests                    bool
	SkipAutoTag                  bool
}

// TagResults lists the new versions
type TagResults struct {
	Tagged     model.IDs
	AutoTagged []AutoTagResult
}

// Tag creates immutable, semantically versioned versions of components.
//
// Components depending on the tagged ones get a patch version pointing to the new
// versions, unless SkipAutoTag is set.
func (w *Workspace) Tag(ctx context.Context, params TagParams) (TagResults, error) {
	res, err := w.version(ctx, versionParams{
		ids:              params.IDs,
		message:          params.Message,
		author:           params.Author,
		exactVersion:     params.ExactVersion,
		releaseType:      params.ReleaseType,
		force:            params.Force,
		ignoreUnresolved: params.IgnoreUnresolvedDependencies,
		ignoreNewest:     params.IgnoreNewestVersion,
		skipTests:        params.SkipTests,
		skipAuto:         params.SkipAutoTag,
	})
	return TagResults{Tagged: res.versioned, AutoTagged: res.auto}, err
}
