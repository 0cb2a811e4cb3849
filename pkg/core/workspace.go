// Copyright © 2018 One Concern

package core

import (
	"context"
	"path/filepath"

	"github.com/oneconcern/cmon/pkg/config"
	"github.com/oneconcern/cmon/pkg/index"
	"github.com/oneconcern/cmon/pkg/loader"
	"github.com/oneconcern/cmon/pkg/loader/fsloader"
	"github.com/oneconcern/cmon/pkg/migrate"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/oneconcern/cmon/pkg/objects"
	"github.com/oneconcern/cmon/pkg/storage/localfs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const defaultLoadConcurrency = 8

// Workspace is a directory tracking components, with its local scope of objects.
//
// A workspace has a single writer: operations mutating the index must not run concurrently.
type Workspace struct {
	fs     afero.Fs
	root   string
	config config.Workspace

	index     *index.Index
	objects   *objects.Store
	loader    loader.Loader
	importer  objects.Importer
	migrator  *migrate.Migrator
	migration migrate.Result

	wrapLoader      func(loader.Loader) loader.Loader
	loadConcurrency int
	l               *zap.Logger
}

// Option configures a workspace
type Option func(*Workspace)

// WithLogger sets a logger for the workspace and all its components
func WithLogger(l *zap.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.l = l
		}
	}
}

// WithImporter sets the importer used to fetch components pending import
func WithImporter(importer objects.Importer) Option {
	return func(w *Workspace) {
		w.importer = importer
	}
}

// WithLoader decorates the component loader of the workspace
func WithLoader(wrap func(loader.Loader) loader.Loader) Option {
	return func(w *Workspace) {
		w.wrapLoader = wrap
	}
}

// WithLoadConcurrency sets how many components are loaded in parallel
func WithLoadConcurrency(concurrency int) Option {
	return func(w *Workspace) {
		if concurrency > 0 {
			w.loadConcurrency = concurrency
		}
	}
}

// Init creates a workspace at root, with some configuration
func Init(ctx context.Context, fs afero.Fs, root string, cfg config.Workspace, opts ...Option) (*Workspace, error) {
	if err := cfg.Write(fs, root); err != nil {
		return nil, err
	}
	if err := fs.MkdirAll(filepath.Join(root, cfg.ObjectsDir), 0700); err != nil {
		return nil, err
	}
	w, err := Open(ctx, fs, root, opts...)
	if err != nil {
		return nil, err
	}
	w.index.MarkAsChanged()
	if err = w.index.Write(); err != nil {
		return nil, err
	}
	return w, nil
}

// Open the workspace at root.
//
// The index is migrated to the current schema when needed, before anything else reads it.
func Open(ctx context.Context, fs afero.Fs, root string, opts ...Option) (*Workspace, error) {
	w := &Workspace{
		fs:              fs,
		root:            root,
		loadConcurrency: defaultLoadConcurrency,
		l:               zap.NewNop(),
	}
	for _, apply := range opts {
		apply(w)
	}

	cfg, err := config.Load(fs, root)
	if err != nil {
		return nil, err
	}
	w.config = cfg

	store, err := localfs.NewAtomic(afero.NewBasePathFs(fs, w.path(cfg.ObjectsDir)))
	if err != nil {
		return nil, err
	}
	w.objects = objects.New(store, objects.WithLogger(w.l))

	laneName, err := w.objects.CurrentLaneName(ctx)
	if err != nil {
		return nil, err
	}
	var overlay *index.WorkspaceLane
	if !(model.LaneID{Name: laneName}).IsDefault() {
		if overlay, err = index.LoadWorkspaceLane(fs, root, laneName); err != nil {
			return nil, err
		}
	}

	w.migrator = migrate.New(migrate.WithLogger(w.l))
	w.index, w.migration, err = w.migrator.LoadIndex(fs, root, index.WithLogger(w.l), index.WithLane(overlay))
	if err != nil {
		return nil, err
	}

	var ld loader.Loader = fsloader.New(fs, root, w.index, w.objects,
		fsloader.WithLogger(w.l),
		fsloader.WithBindingPrefix(cfg.BindingPrefix),
	)
	if w.wrapLoader != nil {
		ld = w.wrapLoader(ld)
	}
	w.loader = ld

	if w.importer == nil && cfg.Remote != "" {
		remoteStore := localfs.New(afero.NewBasePathFs(fs, w.path(cfg.Remote)))
		w.importer = objects.NewRemoteImporter(w.objects, objects.New(remoteStore, objects.WithLogger(w.l)),
			objects.ImportLogger(w.l),
		)
	}

	w.l.Debug("workspace opened",
		zap.String("root", root),
		zap.String("lane", laneName),
		zap.String("schema", w.index.Version()),
	)
	return w, nil
}

func (w *Workspace) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(w.root, p)
}

// Root directory of the workspace
func (w *Workspace) Root() string {
	return w.root
}

// Config of the workspace
func (w *Workspace) Config() config.Workspace {
	return w.config
}

// Index of the workspace
func (w *Workspace) Index() *index.Index {
	return w.index
}

// Objects of the local scope
func (w *Workspace) Objects() *objects.Store {
	return w.objects
}

// Loader of components
func (w *Workspace) Loader() loader.Loader {
	return w.loader
}

// MigrationResult tells which migrations ran when the workspace was opened
func (w *Workspace) MigrationResult() migrate.Result {
	return w.migration
}

// Write persists the workspace index, when it changed
func (w *Workspace) Write() error {
	return w.index.Write()
}
