package core

import (
	"context"

	"github.com/oneconcern/cmon/pkg/core/status"
	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/migrate"
	"github.com/oneconcern/cmon/pkg/model"
	objectsstatus "github.com/oneconcern/cmon/pkg/objects/status"
	"go.uber.org/zap"
)

// ParsedID resolves a string into the ID of a tracked component.
//
// The version of the string is kept, or is "latest" when the string has none.
func (w *Workspace) ParsedID(str string) (model.ID, error) {
	id, ok := w.index.ExistingID(str)
	if !ok {
		return model.ID{}, status.ErrNotFound.Errorf("component %s is not tracked by the workspace", str)
	}
	parsed, err := model.ParseID(str, false)
	if err != nil || !parsed.HasVersion() {
		return id.ChangeVersion(model.LatestVersion), nil
	}
	return id, nil
}

// LoadComponentFromModel loads a stored version of a component. The ID must carry a version.
func (w *Workspace) LoadComponentFromModel(ctx context.Context, id model.ID) (*model.VersionSnapshot, error) {
	if !id.HasVersion() {
		return nil, &ValidationError{Subject: id.String(), Err: status.ErrInvalidVersion.Errorf("a version is required")}
	}
	history, err := w.objects.GetHistory(ctx, id)
	if err != nil {
		if errors.Is(err, objectsstatus.ErrNotFound) {
			return nil, status.ErrNotFound.Wrapf(err, "component %s", id)
		}
		return nil, err
	}
	return w.storedVersion(ctx, history, id)
}

// LoadComponentFromModelIfExist loads a stored version of a component, from the local scope only.
//
// It yields nil when the ID has no version or when the component is not stored locally.
func (w *Workspace) LoadComponentFromModelIfExist(ctx context.Context, id model.ID) (*model.VersionSnapshot, error) {
	if !id.HasVersion() {
		return nil, nil
	}
	v, err := w.LoadComponentFromModel(ctx, id)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// ListVersions of a component, by ascending semantic version
func (w *Workspace) ListVersions(ctx context.Context, id model.ID) ([]string, error) {
	history, err := w.objects.GetHistory(ctx, id)
	if err != nil {
		if errors.Is(err, objectsstatus.ErrNotFound) {
			return nil, status.ErrNotFound.Wrapf(err, "component %s", id.StringWithoutVersion())
		}
		return nil, err
	}
	return history.ListVersions(), nil
}

// History of a component
func (w *Workspace) History(ctx context.Context, id model.ID) (*model.History, error) {
	history, err := w.objects.GetHistory(ctx, id)
	if err != nil && errors.Is(err, objectsstatus.ErrNotFound) {
		return nil, status.ErrNotFound.Wrapf(err, "component %s", id.StringWithoutVersion())
	}
	return history, err
}

// CleanFromIndex stops tracking removed components and the dependencies removed with them
func (w *Workspace) CleanFromIndex(removed, removedDependencies model.IDs) (model.IDs, error) {
	w.l.Debug("cleaning components from the workspace index", zap.Strings("ids", removed.Strings()))
	cleaned := w.index.Remove(removed...)
	cleaned = append(cleaned, w.index.Remove(removedDependencies...)...)
	if err := w.index.Write(); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// ImportPending fetches components from the remote scope
func (w *Workspace) ImportPending(ctx context.Context, ids model.IDs) ([]*model.VersionSnapshot, error) {
	if w.importer == nil {
		return nil, status.ErrNoImporter
	}
	return w.importer.ImportMany(ctx, ids)
}

// Migrate runs the migrations needed by the in-memory index, and persists it when some ran
func (w *Workspace) Migrate(ctx context.Context) (migrate.Result, error) {
	doc, err := w.index.Document()
	if err != nil {
		return migrate.Result{}, err
	}
	res, err := w.migrator.Run(doc)
	if err != nil {
		return res, err
	}
	if !res.Run {
		return res, nil
	}
	if err = w.index.FromDocument(res.Document); err != nil {
		return res, err
	}
	return res, w.index.Write()
}
