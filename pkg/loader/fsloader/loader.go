// Package fsloader loads components from the workspace filesystem.
//
// A component lives in its root directory, with an optional component.yaml manifest
// declaring its main file, its dependencies and its package dependencies.
package fsloader

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/index"
	"github.com/oneconcern/cmon/pkg/loader"
	"github.com/oneconcern/cmon/pkg/loader/status"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/oneconcern/cmon/pkg/objects"
	objectsstatus "github.com/oneconcern/cmon/pkg/objects/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const (
	// ManifestFile declares the metadata of a component, in its root directory
	ManifestFile = "component.yaml"

	// PackageFile is the package descriptor of installed components
	PackageFile = "package.json"

	nodeModules = "node_modules"
)

type manifest struct {
	Main          string `yaml:"main,omitempty"`
	BindingPrefix string `yaml:"bindingPrefix,omitempty"`

	Dependencies         []string `yaml:"dependencies,omitempty"`
	DevDependencies      []string `yaml:"devDependencies,omitempty"`
	CompilerDependencies []string `yaml:"compilerDependencies,omitempty"`
	TesterDependencies   []string `yaml:"testerDependencies,omitempty"`

	Packages         map[string]string            `yaml:"packages,omitempty"`
	DevPackages      map[string]string            `yaml:"devPackages,omitempty"`
	CompilerPackages map[string]string            `yaml:"compilerPackages,omitempty"`
	TesterPackages   map[string]string            `yaml:"testerPackages,omitempty"`
	PeerPackages     map[string]string            `yaml:"peerPackages,omitempty"`
	Overrides        map[string]map[string]string `yaml:"overrides,omitempty"`
}

func (m manifest) deps(kind model.DependencyKind) []string {
	switch kind {
	case model.RuntimeDependency:
		return m.Dependencies
	case model.DevDependency:
		return m.DevDependencies
	case model.CompilerDependency:
		return m.CompilerDependencies
	case model.TesterDependency:
		return m.TesterDependencies
	default:
		return nil
	}
}

// Loader of components from an afero filesystem, guided by the workspace index
type Loader struct {
	fs            afero.Fs
	root          string
	index         *index.Index
	objects       *objects.Store
	bindingPrefix string
	l             *zap.Logger
}

// Option for the loader
type Option func(*Loader)

// WithLogger sets a logger
func WithLogger(l *zap.Logger) Option {
	return func(f *Loader) {
		if l != nil {
			f.l = l
		}
	}
}

// WithBindingPrefix sets the binding prefix for components which do not declare one
func WithBindingPrefix(prefix string) Option {
	return func(f *Loader) {
		f.bindingPrefix = prefix
	}
}

// New loader for the workspace at root
func New(fs afero.Fs, root string, idx *index.Index, store *objects.Store, opts ...Option) *Loader {
	f := &Loader{
		fs:      fs,
		root:    root,
		index:   idx,
		objects: store,
		l:       zap.NewNop(),
	}
	for _, apply := range opts {
		apply(f)
	}
	return f
}

var _ loader.Loader = &Loader{}

// Load a component
func (f *Loader) Load(ctx context.Context, id model.ID) (*loader.Component, error) {
	entry, ok := f.index.GetWithoutVersion(id)
	if !ok {
		return nil, status.ErrMissingFromIndex.Errorf("%s", id.StringWithoutVersion())
	}

	version := entry.Version
	if id.HasVersion() {
		version = id.Version
	}
	c := &loader.Component{
		ID:                  model.ID{Scope: entry.Scope, Name: entry.Name, Version: version},
		Origin:              entry.Origin,
		RootDir:             entry.RootDir,
		OriginallySharedDir: entry.OriginallySharedDir,
		BindingPrefix:       f.bindingPrefix,
		MainFile:            entry.MainFile,
	}

	dir := filepath.Join(f.root, filepath.FromSlash(entry.RootDir))
	if entry.RootDir != "" {
		isDir, err := afero.DirExists(f.fs, dir)
		if err != nil {
			return nil, err
		}
		if !isDir {
			return nil, status.ErrNotFoundInPath.Errorf("%s in %s", c.ID, entry.RootDir)
		}
	}

	if err := f.loadFiles(c, entry, dir); err != nil {
		return nil, err
	}
	if err := f.loadManifest(c, dir); err != nil {
		return nil, err
	}
	if err := f.loadFromModel(ctx, c); err != nil {
		return nil, err
	}

	f.l.Debug("loaded component",
		zap.String("id", c.ID.String()),
		zap.Int("files", len(c.Files)),
		zap.Int("issues", len(c.Issues)),
	)
	return c, nil
}

func (f *Loader) loadFiles(c *loader.Component, entry index.Entry, dir string) error {
	tracked := make([]string, 0, len(entry.Files))
	for _, file := range entry.Files {
		tracked = append(tracked, file.RelativePath)
	}
	if len(tracked) == 0 && entry.RootDir != "" {
		var err error
		if tracked, err = f.walk(dir); err != nil {
			return err
		}
	}

	c.Contents = make(map[string][]byte, len(tracked))
	var missing []string
	for _, rel := range tracked {
		data, err := afero.ReadFile(f.fs, filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, rel)
				continue
			}
			return err
		}
		c.Contents[rel] = data
		c.Files = append(c.Files, model.File{
			RelativePath: rel,
			Hash:         model.NewRef(data),
			Size:         int64(len(data)),
		})
	}

	if len(c.Files) == 0 {
		return status.ErrMissingFiles.Errorf("%s", c.ID)
	}
	if len(missing) > 0 {
		c.AddIssue(loader.IssueMissingFiles, strings.Join(missing, ", "))
	}
	sort.Sort(c.Files)
	return nil
}

// walk lists the files of a component directory, skipping metadata, hidden directories and installed packages
func (f *Loader) walk(dir string) ([]string, error) {
	var files []string
	err := afero.Walk(f.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if info.IsDir() {
			if p != dir && (strings.HasPrefix(name, ".") || name == nodeModules) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == ManifestFile || rel == PackageFile {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return files, nil
}

func (f *Loader) loadManifest(c *loader.Component, dir string) error {
	data, err := afero.ReadFile(f.fs, filepath.Join(dir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var m manifest
	if err = yaml.UnmarshalStrict(data, &m); err != nil {
		return status.ErrInvalidManifest.Wrapf(err, "%s", c.ID)
	}

	if m.Main != "" {
		c.MainFile = path.Clean(m.Main)
	}
	if m.BindingPrefix != "" {
		c.BindingPrefix = m.BindingPrefix
	}

	for _, kind := range model.DependencyKinds {
		var deps model.Dependencies
		for _, str := range m.deps(kind) {
			depID, err := f.resolveDependency(c, str)
			if err != nil {
				return status.ErrInvalidManifest.Wrapf(err, "%s: %s dependency %s", c.ID, kind, str)
			}
			deps = append(deps, model.Dependency{ID: depID})
		}
		switch kind {
		case model.RuntimeDependency:
			c.Dependencies = deps
		case model.DevDependency:
			c.DevDependencies = deps
		case model.CompilerDependency:
			c.CompilerDependencies = deps
		case model.TesterDependency:
			c.TesterDependencies = deps
		}
	}

	c.PackageDependencies = m.Packages
	c.DevPackageDependencies = m.DevPackages
	c.CompilerPackageDependencies = m.CompilerPackages
	c.TesterPackageDependencies = m.TesterPackages
	c.PeerPackageDependencies = m.PeerPackages
	if m.Overrides != nil {
		c.Overrides = model.Overrides(m.Overrides)
	}
	return nil
}

// resolveDependency parses a declared dependency. Dependencies declared without version
// get the version in the workspace.
//
// Dependencies unknown to the workspace and without version are reported as issues.
func (f *Loader) resolveDependency(c *loader.Component, str string) (model.ID, error) {
	if id, ok := f.index.ExistingID(str); ok {
		return id, nil
	}
	dep, err := model.ParseID(str, strings.Contains(str, "/"))
	if err != nil {
		return model.ID{}, err
	}
	if !dep.HasVersion() {
		dep.Version = ""
		c.AddIssue(loader.IssueUntrackedDependency, dep.String())
	}
	return dep, nil
}

// loadFromModel resolves the stored version the workspace points to.
//
// A scoped component with a version must have its objects in the local scope.
func (f *Loader) loadFromModel(ctx context.Context, c *loader.Component) error {
	if !c.ID.HasVersion() {
		return nil
	}
	history, err := f.objects.GetHistoryIfExist(ctx, c.ID)
	if err != nil {
		return err
	}
	if history == nil {
		if c.ID.HasScope() {
			return status.ErrPendingImport.Errorf("%s has no history in the local scope", c.ID)
		}
		return nil
	}
	ref, ok := history.Ref(c.ID.Version)
	if !ok {
		// the workspace points to a version unknown to the history: reported by status checks
		return nil
	}
	v, err := f.objects.GetVersion(ctx, ref)
	if err != nil {
		if errors.Is(err, objectsstatus.ErrNotFound) {
			return status.ErrPendingImport.Wrapf(err, "%s", c.ID)
		}
		return err
	}
	c.FromModel = v
	return nil
}
