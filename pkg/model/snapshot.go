package model

import (
	"sort"
	"time"
)

// File tracked by a version
type File struct {
	RelativePath string `json:"relativePath" yaml:"relativePath"`
	Hash         Ref    `json:"hash" yaml:"hash"`
	Size         int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// Files is a list of tracked files
type Files []File

func (f Files) Len() int           { return len(f) }
func (f Files) Less(i, j int) bool { return f[i].RelativePath < f[j].RelativePath }
func (f Files) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

// Log entry of a version.
//
// The log is not part of the content of a version.
type Log struct {
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
	Date    time.Time   `json:"date" yaml:"date"`
	Author  Contributor `json:"author" yaml:"author"`
}

// NewLog builds a log entry dated now
func NewLog(message string, author Contributor) Log {
	return Log{
		Message: message,
		Date:    time.Now().UTC(),
		Author:  author,
	}
}

// PackageDependencies maps package names to version ranges
type PackageDependencies map[string]string

// Overrides map a dependency field (see DependencyFields) to package version overrides
type Overrides map[string]map[string]string

// VersionSnapshot is the immutable description of one version of a component
type VersionSnapshot struct {
	MainFile      string `json:"mainFile,omitempty" yaml:"mainFile,omitempty"`
	Files         Files  `json:"files,omitempty" yaml:"files,omitempty"`
	BindingPrefix string `json:"bindingPrefix,omitempty" yaml:"bindingPrefix,omitempty"`

	Dependencies         Dependencies `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies      Dependencies `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
	CompilerDependencies Dependencies `json:"compilerDependencies,omitempty" yaml:"compilerDependencies,omitempty"`
	TesterDependencies   Dependencies `json:"testerDependencies,omitempty" yaml:"testerDependencies,omitempty"`

	PackageDependencies         PackageDependencies `json:"packageDependencies,omitempty" yaml:"packageDependencies,omitempty"`
	DevPackageDependencies      PackageDependencies `json:"devPackageDependencies,omitempty" yaml:"devPackageDependencies,omitempty"`
	CompilerPackageDependencies PackageDependencies `json:"compilerPackageDependencies,omitempty" yaml:"compilerPackageDependencies,omitempty"`
	TesterPackageDependencies   PackageDependencies `json:"testerPackageDependencies,omitempty" yaml:"testerPackageDependencies,omitempty"`
	PeerPackageDependencies     PackageDependencies `json:"peerPackageDependencies,omitempty" yaml:"peerPackageDependencies,omitempty"`

	Overrides Overrides `json:"overrides,omitempty" yaml:"overrides,omitempty"`

	Parents []Ref `json:"parents,omitempty" yaml:"parents,omitempty"`
	Log     Log   `json:"log" yaml:"log"`
}

// Deps returns the dependencies of some kind.
//
// The returned slice shares its backing array with the snapshot.
func (v *VersionSnapshot) Deps(kind DependencyKind) Dependencies {
	switch kind {
	case RuntimeDependency:
		return v.Dependencies
	case DevDependency:
		return v.DevDependencies
	case CompilerDependency:
		return v.CompilerDependencies
	case TesterDependency:
		return v.TesterDependencies
	default:
		return nil
	}
}

// SetDeps replaces the dependencies of some kind
func (v *VersionSnapshot) SetDeps(kind DependencyKind, deps Dependencies) {
	switch kind {
	case RuntimeDependency:
		v.Dependencies = deps
	case DevDependency:
		v.DevDependencies = deps
	case CompilerDependency:
		v.CompilerDependencies = deps
	case TesterDependency:
		v.TesterDependencies = deps
	}
}

// AllDependencies yields the IDs of all dependencies, all kinds included
func (v *VersionSnapshot) AllDependencies() IDs {
	var ids IDs
	for _, kind := range DependencyKinds {
		ids = append(ids, v.Deps(kind).IDs()...)
	}
	return ids
}

// Canonicalize sorts files and dependencies in place.
//
// Empty collections are normalized to nil, so that an empty list and an absent one hash the same.
func (v *VersionSnapshot) Canonicalize() {
	if len(v.Files) == 0 {
		v.Files = nil
	}
	sort.Sort(v.Files)

	for _, kind := range DependencyKinds {
		deps := v.Deps(kind)
		if len(deps) == 0 {
			v.SetDeps(kind, nil)
			continue
		}
		deps.Sort()
	}

	// package dependency maps and overrides are serialized with sorted keys
	v.PackageDependencies = nilIfEmpty(v.PackageDependencies)
	v.DevPackageDependencies = nilIfEmpty(v.DevPackageDependencies)
	v.CompilerPackageDependencies = nilIfEmpty(v.CompilerPackageDependencies)
	v.TesterPackageDependencies = nilIfEmpty(v.TesterPackageDependencies)
	v.PeerPackageDependencies = nilIfEmpty(v.PeerPackageDependencies)

	for field, pkgs := range v.Overrides {
		if len(pkgs) == 0 {
			delete(v.Overrides, field)
		}
	}
	if len(v.Overrides) == 0 {
		v.Overrides = nil
	}

	if len(v.Parents) == 0 {
		v.Parents = nil
	}
}

func nilIfEmpty(m PackageDependencies) PackageDependencies {
	if len(m) == 0 {
		return nil
	}
	return m
}

// Marshal the canonical form of the snapshot
func (v *VersionSnapshot) Marshal() ([]byte, error) {
	c := v.Clone()
	c.Canonicalize()
	return MarshalCanonical(c)
}

// UnmarshalVersion reads a snapshot
func UnmarshalVersion(data []byte) (*VersionSnapshot, error) {
	var v VersionSnapshot
	if err := Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Hash is the identity of the snapshot as a stored object, log and parents included
func (v *VersionSnapshot) Hash() (Ref, error) {
	data, err := v.Marshal()
	if err != nil {
		return "", err
	}
	return NewRef(data), nil
}

// ContentHash only covers the semantic content of the snapshot.
//
// Two snapshots with the same files and dependencies have the same content hash,
// regardless of their log entry, history or the order in which lists were built.
func (v *VersionSnapshot) ContentHash() (Ref, error) {
	c := v.Clone()
	c.Log = Log{}
	c.Parents = nil
	return c.Hash()
}

// Clone deep-copies the snapshot
func (v *VersionSnapshot) Clone() *VersionSnapshot {
	c := *v
	if v.Files != nil {
		c.Files = append(Files{}, v.Files...)
	}
	for _, kind := range DependencyKinds {
		c.SetDeps(kind, v.Deps(kind).Clone())
	}
	c.PackageDependencies = v.PackageDependencies.Clone()
	c.DevPackageDependencies = v.DevPackageDependencies.Clone()
	c.CompilerPackageDependencies = v.CompilerPackageDependencies.Clone()
	c.TesterPackageDependencies = v.TesterPackageDependencies.Clone()
	c.PeerPackageDependencies = v.PeerPackageDependencies.Clone()
	c.Overrides = v.Overrides.Clone()
	if v.Parents != nil {
		c.Parents = append([]Ref{}, v.Parents...)
	}
	return &c
}

// Clone the mapping
func (p PackageDependencies) Clone() PackageDependencies {
	if p == nil {
		return nil
	}
	res := make(PackageDependencies, len(p))
	for k, val := range p {
		res[k] = val
	}
	return res
}

// Clone the overrides
func (o Overrides) Clone() Overrides {
	if o == nil {
		return nil
	}
	res := make(Overrides, len(o))
	for field, pkgs := range o {
		res[field] = PackageDependencies(pkgs).Clone()
	}
	return res
}
