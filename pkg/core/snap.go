package core

import (
	"context"

	"github.com/oneconcern/cmon/pkg/model"
	"go.uber.org/zap"
)

// SnapParams describe a snap operation
type SnapParams struct {
	IDs     model.IDs
	Message string
	Author  model.Contributor

	Force                        bool
	IgnoreUnresolvedDependencies bool
	SkipTests                    bool
	SkipAutoSnap                 bool

	// ResolveUnmerged snaps components left unmerged by a merge. Merge states are not
	// tracked by the workspace, so it does not change the outcome.
	ResolveUnmerged bool
}

// SnapResults lists the new versions
type SnapResults struct {
	Snapped     model.IDs
	AutoSnapped []AutoTagResult
}

// Snap creates versions identified by their hash.
//
// On the default lane, snaps advance the head of the history. On other lanes, they only
// move the lane pointer.
func (w *Workspace) Snap(ctx context.Context, params SnapParams) (SnapResults, error) {
	if params.ResolveUnmerged {
		w.l.Debug("resolving unmerged components", zap.Strings("ids", params.IDs.Strings()))
	}
	res, err := w.version(ctx, versionParams{
		ids:              params.IDs,
		message:          params.Message,
		author:           params.Author,
		snap:             true,
		force:            params.Force,
		ignoreUnresolved: params.IgnoreUnresolvedDependencies,
		skipTests:        params.SkipTests,
		skipAuto:         params.SkipAutoSnap,
	})
	return SnapResults{Snapped: res.versioned, AutoSnapped: res.auto}, err
}
