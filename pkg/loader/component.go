package loader

import (
	"path"
	"sort"

	"github.com/oneconcern/cmon/pkg/model"
)

// IssueKind qualifies a problem found while loading a component
type IssueKind uint8

// Issues which prevent a component from being versioned
const (
	IssueUntrackedDependency IssueKind = iota
	IssueMissingFiles
	IssueUnversionedDependency
)

func (k IssueKind) String() string {
	switch k {
	case IssueUntrackedDependency:
		return "untracked dependency"
	case IssueMissingFiles:
		return "missing files"
	case IssueUnversionedDependency:
		return "unversioned dependency"
	default:
		return "unknown issue"
	}
}

// Issue found while loading a component
type Issue struct {
	Kind    IssueKind
	Details string
}

// Component materialized from the workspace
type Component struct {
	ID       model.ID
	MainFile string
	Files    model.Files

	// Contents of the files, by relative path
	Contents map[string][]byte

	Dependencies         model.Dependencies
	DevDependencies      model.Dependencies
	CompilerDependencies model.Dependencies
	TesterDependencies   model.Dependencies

	PackageDependencies         model.PackageDependencies
	DevPackageDependencies      model.PackageDependencies
	CompilerPackageDependencies model.PackageDependencies
	TesterPackageDependencies   model.PackageDependencies
	PeerPackageDependencies     model.PackageDependencies
	Overrides                   model.Overrides

	Issues []Issue

	Origin              model.Origin
	RootDir             string
	OriginallySharedDir string
	BindingPrefix       string

	// FromModel is the stored version the workspace points to, if any
	FromModel *model.VersionSnapshot

	modified *bool
}

// Deps yields the dependencies of some kind
func (c *Component) Deps(kind model.DependencyKind) model.Dependencies {
	switch kind {
	case model.RuntimeDependency:
		return c.Dependencies
	case model.DevDependency:
		return c.DevDependencies
	case model.CompilerDependency:
		return c.CompilerDependencies
	case model.TesterDependency:
		return c.TesterDependencies
	default:
		return nil
	}
}

// AllDependencies yields the IDs of the dependencies of all kinds
func (c *Component) AllDependencies() model.IDs {
	var ids model.IDs
	for _, kind := range model.DependencyKinds {
		ids = append(ids, c.Deps(kind).IDs()...)
	}
	return ids
}

// HasIssues tells if the component cannot be versioned as is
func (c *Component) HasIssues() bool {
	return len(c.Issues) > 0
}

// AddIssue records a problem
func (c *Component) AddIssue(kind IssueKind, details string) {
	c.Issues = append(c.Issues, Issue{Kind: kind, Details: details})
}

// Modified yields the cached result of a modification check
func (c *Component) Modified() (modified, known bool) {
	if c.modified == nil {
		return false, false
	}
	return *c.modified, true
}

// SetModified caches the result of a modification check
func (c *Component) SetModified(modified bool) {
	c.modified = &modified
}

// ToVersion builds the version snapshot this component would be stored as.
//
// Files are stored relative to the originally shared directory, when the component had one.
func (c *Component) ToVersion(log model.Log) *model.VersionSnapshot {
	v := &model.VersionSnapshot{
		MainFile:      c.withSharedDir(c.MainFile),
		BindingPrefix: c.BindingPrefix,
		Log:           log,
	}
	if len(c.Files) > 0 {
		v.Files = make(model.Files, 0, len(c.Files))
		for _, f := range c.Files {
			f.RelativePath = c.withSharedDir(f.RelativePath)
			v.Files = append(v.Files, f)
		}
	}
	for _, kind := range model.DependencyKinds {
		v.SetDeps(kind, c.Deps(kind).Clone())
	}
	v.PackageDependencies = c.PackageDependencies.Clone()
	v.DevPackageDependencies = c.DevPackageDependencies.Clone()
	v.CompilerPackageDependencies = c.CompilerPackageDependencies.Clone()
	v.TesterPackageDependencies = c.TesterPackageDependencies.Clone()
	v.PeerPackageDependencies = c.PeerPackageDependencies.Clone()
	v.Overrides = c.Overrides.Clone()

	v.Canonicalize()
	return v
}

func (c *Component) withSharedDir(p string) string {
	if c.OriginallySharedDir == "" || p == "" {
		return p
	}
	return path.Join(c.OriginallySharedDir, p)
}

// SortedContents lists the relative paths of the loaded file contents
func (c *Component) SortedContents() []string {
	paths := make([]string, 0, len(c.Contents))
	for p := range c.Contents {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
