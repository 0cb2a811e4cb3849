package model

import (
	"sort"
	"strings"
)

// DependencyKind tells which role a dependency plays for a component
type DependencyKind uint8

const (
	// RuntimeDependency is required to run the component
	RuntimeDependency DependencyKind = iota
	// DevDependency is only required to develop the component
	DevDependency
	// CompilerDependency is the build tool of the component
	CompilerDependency
	// TesterDependency is the test tool of the component
	TesterDependency
)

// DependencyKinds lists all tracked kinds, in canonical order
var DependencyKinds = []DependencyKind{
	RuntimeDependency,
	DevDependency,
	CompilerDependency,
	TesterDependency,
}

func (k DependencyKind) String() string {
	switch k {
	case RuntimeDependency:
		return "dependencies"
	case DevDependency:
		return "devDependencies"
	case CompilerDependency:
		return "compilerDependencies"
	case TesterDependency:
		return "testerDependencies"
	default:
		return "unknown"
	}
}

// DependencyFields are the keys of package-level dependency mappings which may be overridden
var DependencyFields = []string{"dependencies", "devDependencies", "peerDependencies"}

// Dependency of a component on another component
type Dependency struct {
	ID            ID       `json:"id" yaml:"id"`
	RelativePaths []string `json:"relativePaths,omitempty" yaml:"relativePaths,omitempty"`
}

// Dependencies is a list of component dependencies of one kind
type Dependencies []Dependency

func (d Dependencies) Len() int           { return len(d) }
func (d Dependencies) Swap(i, j int)      { d[i], d[j] = d[j], d[i] }

// Less orders by ID, then by relative paths
func (d Dependencies) Less(i, j int) bool {
	if a, b := d[i].ID.String(), d[j].ID.String(); a != b {
		return a < b
	}
	return strings.Join(d[i].RelativePaths, "\x00") < strings.Join(d[j].RelativePaths, "\x00")
}

// Sort dependencies by ID, and the relative paths of each dependency
func (d Dependencies) Sort() {
	for i := range d {
		sort.Strings(d[i].RelativePaths)
	}
	sort.Sort(d)
}

// IDs of the dependencies
func (d Dependencies) IDs() IDs {
	ids := make(IDs, 0, len(d))
	for _, dep := range d {
		ids = append(ids, dep.ID)
	}
	return ids
}

// Get finds a dependency, ignoring versions
func (d Dependencies) Get(id ID) (Dependency, bool) {
	for _, dep := range d {
		if dep.ID.IsEqualWithoutVersion(id) {
			return dep, true
		}
	}
	return Dependency{}, false
}

// InheritVersions sets the version of every dependency with no concrete version
// to the version of the matching dependency in another list
func (d Dependencies) InheritVersions(from Dependencies) {
	for i := range d {
		if d[i].ID.HasVersion() {
			continue
		}
		if stored, ok := from.Get(d[i].ID); ok {
			d[i].ID.Version = stored.ID.Version
		}
	}
}

// UpdateVersions points dependencies to new versions, keyed by versionless ID string.
//
// It returns true whenever at least one dependency changed.
func (d Dependencies) UpdateVersions(versions map[string]string) bool {
	var updated bool
	for i := range d {
		v, ok := versions[d[i].ID.StringWithoutVersion()]
		if !ok || v == d[i].ID.Version {
			continue
		}
		d[i].ID.Version = v
		updated = true
	}
	return updated
}

// Clone the list
func (d Dependencies) Clone() Dependencies {
	if d == nil {
		return nil
	}
	res := make(Dependencies, len(d))
	for i, dep := range d {
		res[i] = Dependency{ID: dep.ID}
		if dep.RelativePaths != nil {
			res[i].RelativePaths = append([]string{}, dep.RelativePaths...)
		}
	}
	return res
}
