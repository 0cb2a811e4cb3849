// Package migrate upgrades the workspace index across schema versions.
//
// A manifest lists migrations in order. Each migration is triggered by a schema version
// and transforms the raw index document without any I/O.
package migrate

import (
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/index"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrMigration indicates that the workspace index could not be migrated
var ErrMigration = errors.New("migration failed")

// Transform is a pure function over an index document
type Transform func(index.Document) (index.Document, error)

// Migration of the index document
type Migration struct {
	Trigger   string
	Name      string
	Transform Transform
}

// Manifest is an ordered list of migrations
type Manifest []Migration

// Result of a migration run
type Result struct {
	Run      bool
	Applied  []string
	Document index.Document
}

// Migrator runs a manifest against index documents
type Migrator struct {
	manifest Manifest
	current  string
	l        *zap.Logger
}

// Option for the migrator
type Option func(*Migrator)

// WithManifest replaces the default manifest
func WithManifest(manifest Manifest) Option {
	return func(m *Migrator) {
		m.manifest = manifest
	}
}

// WithCurrentVersion sets the schema version the migrator upgrades to
func WithCurrentVersion(version string) Option {
	return func(m *Migrator) {
		m.current = version
	}
}

// WithLogger sets a logger for the migrator
func WithLogger(l *zap.Logger) Option {
	return func(m *Migrator) {
		if l != nil {
			m.l = l
		}
	}
}

// New migrator, running the default manifest up to the current schema version
func New(opts ...Option) *Migrator {
	m := &Migrator{
		manifest: DefaultManifest(),
		current:  model.CurrentSchemaVersion,
		l:        zap.NewNop(),
	}
	for _, apply := range opts {
		apply(m)
	}
	return m
}

type scheduled struct {
	version   *semver.Version
	position  int
	migration Migration
}

// Run the migrations needed by a document.
//
// When the document is at least at the current version, nothing runs and the document is returned as is.
// Otherwise, every migration triggered at or after the version of the document runs in ascending
// version order, then the document is stamped with the current version.
func (m *Migrator) Run(doc index.Document) (Result, error) {
	current, err := semver.NewVersion(m.current)
	if err != nil {
		return Result{}, ErrMigration.Wrapf(err, "current version %q", m.current)
	}
	persisted, err := semver.NewVersion(doc.Version)
	if err != nil {
		return Result{}, ErrMigration.Wrapf(err, "index version %q", doc.Version)
	}

	if !persisted.LessThan(current) {
		m.l.Debug("workspace index is up to date", zap.String("version", doc.Version))
		return Result{Document: doc}, nil
	}

	plan := make([]scheduled, 0, len(m.manifest))
	for i, migration := range m.manifest {
		trigger, err := semver.NewVersion(migration.Trigger)
		if err != nil {
			return Result{}, ErrMigration.Wrapf(err, "migration %q has an invalid trigger", migration.Name)
		}
		if trigger.LessThan(persisted) {
			continue
		}
		plan = append(plan, scheduled{version: trigger, position: i, migration: migration})
	}
	sort.SliceStable(plan, func(i, j int) bool {
		if plan[i].version.Equal(plan[j].version) {
			return plan[i].position < plan[j].position
		}
		return plan[i].version.LessThan(plan[j].version)
	})

	result := Result{Run: true}
	working, err := doc.Clone()
	if err != nil {
		return Result{}, ErrMigration.Wrap(err)
	}
	for _, step := range plan {
		m.l.Debug("running migration",
			zap.String("name", step.migration.Name),
			zap.String("trigger", step.migration.Trigger),
		)
		working, err = step.migration.Transform(working)
		if err != nil {
			return Result{}, ErrMigration.Wrapf(err, "migration %q", step.migration.Name)
		}
		result.Applied = append(result.Applied, step.migration.Name)
	}
	working.Version = m.current
	result.Document = working

	m.l.Info("workspace index migrated",
		zap.String("from", doc.Version),
		zap.String("to", m.current),
		zap.Strings("migrations", result.Applied),
	)
	return result, nil
}

// LoadIndex loads the index of a workspace, migrating it first when needed.
//
// A migrated index is written back at once. An index which needs no migration is not written.
func (m *Migrator) LoadIndex(fs afero.Fs, root string, opts ...index.Option) (*index.Index, Result, error) {
	doc, err := index.LoadDocument(fs, root)
	if err != nil {
		if os.IsNotExist(err) {
			return index.New(fs, root, opts...), Result{}, nil
		}
		return nil, Result{}, err
	}

	result, err := m.Run(doc)
	if err != nil {
		return nil, Result{}, err
	}

	x, err := index.NewFromDocument(fs, root, result.Document, opts...)
	if err != nil {
		return nil, Result{}, err
	}
	if result.Run {
		x.MarkAsChanged()
		if err = x.Write(); err != nil {
			return nil, Result{}, err
		}
	}
	return x, result, nil
}
