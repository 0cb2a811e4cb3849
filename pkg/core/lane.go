package core

import (
	"context"

	"github.com/oneconcern/cmon/pkg/core/status"
	"github.com/oneconcern/cmon/pkg/index"
	"github.com/oneconcern/cmon/pkg/model"
	"go.uber.org/zap"
)

// CurrentLaneID identifies the checked out lane, or the default lane when none is
func (w *Workspace) CurrentLaneID(ctx context.Context) (model.LaneID, error) {
	name, err := w.objects.CurrentLaneName(ctx)
	if err != nil {
		return model.LaneID{}, err
	}
	return model.LaneID{Name: name}, nil
}

// LoadCurrentLane loads the checked out lane. It is nil on the default lane.
func (w *Workspace) LoadCurrentLane(ctx context.Context) (*model.Lane, error) {
	laneID, err := w.CurrentLaneID(ctx)
	if err != nil {
		return nil, err
	}
	if laneID.IsDefault() {
		return nil, nil
	}
	lane, err := w.objects.LoadLane(ctx, laneID.Name)
	if err != nil {
		return nil, err
	}
	if lane == nil {
		return nil, status.ErrNotFound.Errorf("current lane %s", laneID)
	}
	return lane, nil
}

// ListLanes stored in the local scope
func (w *Workspace) ListLanes(ctx context.Context) ([]model.Lane, error) {
	return w.objects.ListLanes(ctx)
}

// CreateLane branches a new lane.
//
// When components are provided, typically from a remote lane, the lane points to them and
// the workspace has no local modification on it. Otherwise, a lane branched from another
// lane copies its components and the local modifications of the workspace, while a lane
// branched from the default lane starts empty.
//
// The new lane is not checked out.
func (w *Workspace) CreateLane(ctx context.Context, name string, components []model.LaneComponent, author model.Contributor) (*model.Lane, error) {
	if err := model.ValidateLaneName(name); err != nil {
		return nil, &ValidationError{Subject: name, Err: status.ErrInvalidLaneName.Wrap(err)}
	}
	if (model.LaneID{Name: name}).IsDefault() {
		return nil, &ValidationError{Subject: name, Err: status.ErrLaneExists.Errorf("%s is the default lane", name)}
	}
	lanes, err := w.objects.ListLanes(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range lanes {
		if existing.Name == name {
			return nil, &ValidationError{Subject: name, Err: status.ErrLaneExists.Errorf("switch to lane %s instead", name)}
		}
	}

	var overlayIDs model.IDs
	if components == nil {
		current, err := w.LoadCurrentLane(ctx)
		if err != nil {
			return nil, err
		}
		if current != nil {
			components = current.Components
			if overlay := w.index.Lane(); overlay != nil {
				overlayIDs = overlay.IDs
			}
		}
	}

	opts := []model.LaneOption{model.LaneComponents(components)}
	if author.Name != "" {
		opts = append(opts, model.LaneContributor(author))
	}
	lane := model.NewLane(name, opts...)
	if err = w.objects.SaveLane(ctx, lane); err != nil {
		return nil, err
	}
	if err = index.NewWorkspaceLane(w.fs, w.root, name, overlayIDs).Write(); err != nil {
		return nil, err
	}

	w.l.Info("lane created",
		zap.String("lane", name),
		zap.Int("components", len(lane.Components)),
	)
	return lane, nil
}

// SwitchLane checks out a lane, or the default lane
func (w *Workspace) SwitchLane(ctx context.Context, name string) error {
	laneID := model.LaneID{Name: name}
	var overlay *index.WorkspaceLane
	if !laneID.IsDefault() {
		lane, err := w.objects.LoadLane(ctx, name)
		if err != nil {
			return err
		}
		if lane == nil {
			return status.ErrNotFound.Errorf("lane %s", name)
		}
		if overlay, err = index.LoadWorkspaceLane(w.fs, w.root, name); err != nil {
			return err
		}
	}
	if err := w.index.Write(); err != nil {
		return err
	}
	if err := w.objects.SetCurrentLane(ctx, laneID.String()); err != nil {
		return err
	}
	w.index.SetLane(overlay)

	w.l.Info("switched lane", zap.String("lane", laneID.String()))
	return nil
}
