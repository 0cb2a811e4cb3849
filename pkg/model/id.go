package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// LatestVersion is an alias resolved at load time to the version recorded in the workspace
	LatestVersion = "latest"

	// VersionDelimiter separates the name from the version in the string form of an ID
	VersionDelimiter = "@"

	scopeDelimiter = "/"
)

// ID identifies a component: scope/name@version.
//
// The scope and the version are optional. Equality ignores the version unless
// compared with IsEqual.
type ID struct {
	Scope   string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ParseID parses the string form of an ID.
//
// When hasScope is true, the first path segment is the scope.
func ParseID(str string, hasScope bool) (ID, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return ID{}, fmt.Errorf("invalid component id: empty string")
	}

	var id ID
	if idx := strings.LastIndex(str, VersionDelimiter); idx > 0 {
		id.Version = str[idx+1:]
		str = str[:idx]
		if !IsValidVersion(id.Version) {
			return ID{}, fmt.Errorf("invalid component id: version %q is neither a semantic version nor a hash", id.Version)
		}
	}

	if hasScope {
		parts := strings.SplitN(str, scopeDelimiter, 2)
		if len(parts) != 2 || parts[0] == "" {
			return ID{}, fmt.Errorf("invalid component id: %q has no scope", str)
		}
		id.Scope, str = parts[0], parts[1]
	}

	if str == "" || strings.HasPrefix(str, scopeDelimiter) || strings.HasSuffix(str, scopeDelimiter) {
		return ID{}, fmt.Errorf("invalid component id: bad name %q", str)
	}
	id.Name = str

	return id, nil
}

// MustParseID parses an ID or panics
func MustParseID(str string, hasScope bool) ID {
	id, err := ParseID(str, hasScope)
	if err != nil {
		panic(err)
	}
	return id
}

// IsValidVersion tells if a version is a semantic version, a snap hash or the "latest" alias
func IsValidVersion(version string) bool {
	if version == LatestVersion || IsHash(version) {
		return true
	}
	_, err := semver.StrictNewVersion(version)
	return err == nil
}

func (id ID) String() string {
	if id.Version == "" {
		return id.StringWithoutVersion()
	}
	return id.StringWithoutVersion() + VersionDelimiter + id.Version
}

// StringWithoutVersion yields scope/name
func (id ID) StringWithoutVersion() string {
	if id.Scope == "" {
		return id.Name
	}
	return id.Scope + scopeDelimiter + id.Name
}

// HasScope tells if the ID is scoped
func (id ID) HasScope() bool {
	return id.Scope != ""
}

// HasVersion tells if the ID carries a concrete version.
//
// The "latest" alias is not a concrete version.
func (id ID) HasVersion() bool {
	return id.Version != "" && id.Version != LatestVersion
}

// IsSnap tells if the version of this ID is a snap hash
func (id ID) IsSnap() bool {
	return IsHash(id.Version)
}

// ChangeVersion returns a copy of the ID with another version
func (id ID) ChangeVersion(version string) ID {
	id.Version = version
	return id
}

// ChangeScope returns a copy of the ID with another scope
func (id ID) ChangeScope(scope string) ID {
	id.Scope = scope
	return id
}

// WithoutVersion returns a copy of the ID with no version
func (id ID) WithoutVersion() ID {
	return id.ChangeVersion("")
}

// IsEqual compares IDs, version included
func (id ID) IsEqual(other ID) bool {
	return id == other
}

// IsEqualWithoutVersion compares IDs, ignoring the version
func (id ID) IsEqualWithoutVersion(other ID) bool {
	return id.Scope == other.Scope && id.Name == other.Name
}

// IsEqualWithoutScopeAndVersion compares names only
func (id ID) IsEqualWithoutScopeAndVersion(other ID) bool {
	return id.Name == other.Name
}

// IDs is a collection of component IDs
type IDs []ID

func (ids IDs) Len() int           { return len(ids) }
func (ids IDs) Less(i, j int) bool { return ids[i].String() < ids[j].String() }
func (ids IDs) Swap(i, j int)      { ids[i], ids[j] = ids[j], ids[i] }

// Search finds an ID, version included
func (ids IDs) Search(id ID) (ID, bool) {
	for _, candidate := range ids {
		if candidate.IsEqual(id) {
			return candidate, true
		}
	}
	return ID{}, false
}

// SearchWithoutVersion finds an ID, ignoring the version
func (ids IDs) SearchWithoutVersion(id ID) (ID, bool) {
	for _, candidate := range ids {
		if candidate.IsEqualWithoutVersion(id) {
			return candidate, true
		}
	}
	return ID{}, false
}

// HasWithoutVersion tells if an ID is part of the collection, ignoring the version
func (ids IDs) HasWithoutVersion(id ID) bool {
	_, ok := ids.SearchWithoutVersion(id)
	return ok
}

// Without removes the IDs which are present in another collection, ignoring versions
func (ids IDs) Without(toRemove IDs) IDs {
	result := make(IDs, 0, len(ids))
	for _, id := range ids {
		if toRemove.HasWithoutVersion(id) {
			continue
		}
		result = append(result, id)
	}
	return result
}

// Strings renders the collection as strings
func (ids IDs) Strings() []string {
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		res = append(res, id.String())
	}
	return res
}

// Sorted returns a sorted copy of the collection
func (ids IDs) Sorted() IDs {
	res := make(IDs, len(ids))
	copy(res, ids)
	sort.Sort(res)
	return res
}

func (ids IDs) String() string {
	return strings.Join(ids.Strings(), ", ")
}
