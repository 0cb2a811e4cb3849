package model

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// History is the record of all versions ever created for a component.
//
// Versions are only ever appended: a tag adds a semantic version pointing at a snapshot,
// a snap advances the snap head without adding a tag.
type History struct {
	Scope         string         `json:"scope,omitempty" yaml:"scope,omitempty"`
	Name          string         `json:"name" yaml:"name"`
	Versions      map[string]Ref `json:"versions,omitempty" yaml:"versions,omitempty"`
	SnapHead      Ref            `json:"head,omitempty" yaml:"head,omitempty"`
	RemoteHead    Ref            `json:"remoteHead,omitempty" yaml:"remoteHead,omitempty"`
	BindingPrefix string         `json:"bindingPrefix,omitempty" yaml:"bindingPrefix,omitempty"`
}

// NewHistory creates an empty history for a component
func NewHistory(id ID) *History {
	return &History{
		Scope:    id.Scope,
		Name:     id.Name,
		Versions: make(map[string]Ref),
	}
}

// ID of the component, without version
func (h *History) ID() ID {
	return ID{Scope: h.Scope, Name: h.Name}
}

// Ref resolves a version into the reference of its snapshot.
//
// A snap version is its own reference.
func (h *History) Ref(version string) (Ref, bool) {
	if ref, ok := h.Versions[version]; ok {
		return ref, true
	}
	if IsHash(version) {
		return Ref(version), true
	}
	return "", false
}

// HasVersion tells if a tag exists
func (h *History) HasVersion(version string) bool {
	_, ok := h.Versions[version]
	return ok
}

// ListVersions lists all tags, by ascending semantic version
func (h *History) ListVersions() []string {
	versions := make([]*semver.Version, 0, len(h.Versions))
	for tag := range h.Versions {
		v, err := semver.NewVersion(tag)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Sort(semver.Collection(versions))

	res := make([]string, 0, len(versions))
	for _, v := range versions {
		res = append(res, v.Original())
	}
	return res
}

// LatestVersion is the highest tag, or an empty string when the component was never tagged
func (h *History) LatestVersion() string {
	versions := h.ListVersions()
	if len(versions) == 0 {
		return ""
	}
	return versions[len(versions)-1]
}

// LatestID yields the ID of the latest version.
//
// When the component was never tagged but was snapped, this is the snap head.
func (h *History) LatestID() ID {
	id := h.ID()
	if latest := h.LatestVersion(); latest != "" {
		return id.ChangeVersion(latest)
	}
	if h.HasSnapHead() {
		return id.ChangeVersion(h.SnapHead.String())
	}
	return id
}

// HasSnapHead tells if the history has a head on the default lane
func (h *History) HasSnapHead() bool {
	return !h.SnapHead.IsEmpty()
}

// AddTag records a new tag, which also becomes the head
func (h *History) AddTag(version string, ref Ref) {
	if h.Versions == nil {
		h.Versions = make(map[string]Ref)
	}
	h.Versions[version] = ref
	h.SetSnapHead(ref)
}

// SetSnapHead advances the head of the default lane
func (h *History) SetSnapHead(ref Ref) {
	h.SnapHead = ref
}

// IsLocallyChanged tells if the head moved since the last time it was shared with a remote scope
func (h *History) IsLocallyChanged() bool {
	return h.HasSnapHead() && h.SnapHead != h.RemoteHead
}

// Merge the history of a remote scope into this one.
//
// Tags from the remote are added, and win over local tags of the same version. The head
// follows the remote unless it moved locally since the last merge.
func (h *History) Merge(remote *History) {
	locallyChanged := h.IsLocallyChanged()
	if h.Versions == nil {
		h.Versions = make(map[string]Ref, len(remote.Versions))
	}
	for version, ref := range remote.Versions {
		h.Versions[version] = ref
	}
	if remote.HasSnapHead() && !locallyChanged {
		h.SnapHead = remote.SnapHead
	}
	h.RemoteHead = remote.SnapHead
	if h.BindingPrefix == "" {
		h.BindingPrefix = remote.BindingPrefix
	}
}

// Clone the history
func (h *History) Clone() *History {
	c := *h
	c.Versions = make(map[string]Ref, len(h.Versions))
	for k, v := range h.Versions {
		c.Versions[k] = v
	}
	return &c
}
