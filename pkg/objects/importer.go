package objects

import (
	"context"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/oneconcern/cmon/pkg/objects/status"
	"github.com/oneconcern/cmon/pkg/storage"
	storagestatus "github.com/oneconcern/cmon/pkg/storage/status"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultImportConcurrency = 4

// Importer fetches the versions of components from another scope
type Importer interface {
	ImportMany(context.Context, model.IDs) ([]*model.VersionSnapshot, error)
}

// RemoteImporter copies histories and objects from a remote scope into the local one
type RemoteImporter struct {
	local       *Store
	remote      *Store
	concurrency int
	l           *zap.Logger
}

// ImporterOption configures a remote importer
type ImporterOption func(*RemoteImporter)

// ImportConcurrency sets the maximum number of components imported in parallel
func ImportConcurrency(concurrency int) ImporterOption {
	return func(r *RemoteImporter) {
		if concurrency > 0 {
			r.concurrency = concurrency
		}
	}
}

// ImportLogger sets a logger for the importer
func ImportLogger(l *zap.Logger) ImporterOption {
	return func(r *RemoteImporter) {
		if l != nil {
			r.l = l
		}
	}
}

// NewRemoteImporter builds an importer from a remote scope
func NewRemoteImporter(local, remote *Store, opts ...ImporterOption) *RemoteImporter {
	r := &RemoteImporter{
		local:       local,
		remote:      remote,
		concurrency: defaultImportConcurrency,
		l:           zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

// ImportMany fetches the requested versions of components, with all the objects they refer to.
//
// IDs without a concrete version resolve to the latest version of the remote history.
// Remote histories are merged into the local ones, which keep their unexported tags.
func (r *RemoteImporter) ImportMany(ctx context.Context, ids model.IDs) ([]*model.VersionSnapshot, error) {
	r.l.Debug("importing components", zap.Strings("ids", ids.Strings()))

	versions := make([]*model.VersionSnapshot, len(ids))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)
	for i := range ids {
		idx := i
		id := ids[i]
		group.Go(func() error {
			version, err := r.importOne(gctx, id)
			if err != nil {
				return status.ErrImport.Wrapf(err, "component %s", id)
			}
			versions[idx] = version
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	r.l.Info("imported components", zap.Int("count", len(ids)))
	return versions, nil
}

func (r *RemoteImporter) importOne(ctx context.Context, id model.ID) (*model.VersionSnapshot, error) {
	history, err := r.remote.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	version := id.Version
	if !id.HasVersion() {
		version = history.LatestID().Version
	}
	wanted, ok := history.Ref(version)
	if !ok {
		return nil, model.ErrUnknownVersion.Errorf("%s has no version %q", id.StringWithoutVersion(), version)
	}

	refs := make(map[model.Ref]struct{}, len(history.Versions)+1)
	for _, ref := range history.Versions {
		refs[ref] = struct{}{}
	}
	if history.HasSnapHead() {
		refs[history.SnapHead] = struct{}{}
	}
	refs[wanted] = struct{}{}

	var snapshot *model.VersionSnapshot
	for ref := range refs {
		v, err := r.copyVersion(ctx, ref)
		if err != nil {
			return nil, err
		}
		if ref == wanted {
			snapshot = v
		}
	}

	local, err := r.local.GetHistoryIfExist(ctx, id)
	if err != nil {
		return nil, err
	}
	if local == nil {
		local = model.NewHistory(id)
	}
	local.Merge(history)
	if err = r.local.SaveHistory(ctx, local); err != nil {
		return nil, err
	}

	r.l.Debug("imported component", zap.String("id", id.ChangeVersion(version).String()))
	return snapshot, nil
}

// copyVersion copies a version snapshot and the file objects it refers to
func (r *RemoteImporter) copyVersion(ctx context.Context, ref model.Ref) (*model.VersionSnapshot, error) {
	if err := r.copyObject(ctx, ref); err != nil {
		return nil, err
	}
	v, err := r.local.GetVersion(ctx, ref)
	if err != nil {
		return nil, err
	}
	for _, f := range v.Files {
		if err = r.copyObject(ctx, f.Hash); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (r *RemoteImporter) copyObject(ctx context.Context, ref model.Ref) error {
	key := model.GetArchivePathToObject(ref)
	_, err := storage.ReadTee(ctx, r.remote.Storage(), key, r.local.Storage(), key, storage.NoOverWrite)
	if err != nil {
		if errors.Is(err, storagestatus.ErrExists) {
			return nil
		}
		if errors.Is(err, storagestatus.ErrNotExists) {
			return status.ErrNotFound.Wrapf(err, "object %s in remote scope", ref)
		}
		return err
	}
	return nil
}
