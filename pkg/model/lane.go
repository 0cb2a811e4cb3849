package model

import (
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
)

// DefaultLane is the trunk. It has no stored lane object.
const DefaultLane = "main"

// LaneID identifies a lane
type LaneID struct {
	Name string `json:"name" yaml:"name"`
}

// DefaultLaneID identifies the trunk
func DefaultLaneID() LaneID {
	return LaneID{Name: DefaultLane}
}

// IsDefault tells if the lane is the trunk
func (l LaneID) IsDefault() bool {
	return l.Name == "" || l.Name == DefaultLane
}

func (l LaneID) String() string {
	if l.Name == "" {
		return DefaultLane
	}
	return l.Name
}

// LaneComponent is a pointer from a component to a version on a lane
type LaneComponent struct {
	ID         ID  `json:"id" yaml:"id"`
	Head       Ref `json:"head" yaml:"head"`
	RemoteHead Ref `json:"remoteHead,omitempty" yaml:"remoteHead,omitempty"`
}

// Lane is a named set of component pointers diverging from the trunk
type Lane struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name"`
	Components   []LaneComponent `json:"components,omitempty" yaml:"components,omitempty"`
	Timestamp    time.Time       `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Contributors []Contributor   `json:"contributors,omitempty" yaml:"contributors,omitempty"`
}

// LaneOption is a functor to build lanes
type LaneOption func(*Lane)

// LaneComponents sets the component pointers of a new lane.
//
// The pointers are copied: the lane never shares them with its source.
func LaneComponents(components []LaneComponent) LaneOption {
	return func(l *Lane) {
		l.SetComponents(components)
	}
}

// LaneContributor sets the contributor who created the lane
func LaneContributor(c Contributor) LaneOption {
	return func(l *Lane) {
		l.Contributors = []Contributor{c}
	}
}

// LaneTimestamp sets the creation time of the lane
func LaneTimestamp(t time.Time) LaneOption {
	return func(l *Lane) {
		l.Timestamp = t
	}
}

// NewLane builds a lane descriptor. The name is not validated.
func NewLane(name string, opts ...LaneOption) *Lane {
	l := &Lane{
		ID:        ksuid.New().String(),
		Name:      name,
		Timestamp: time.Now().UTC(),
	}
	for _, apply := range opts {
		apply(l)
	}
	return l
}

// LaneID of this lane
func (l *Lane) LaneID() LaneID {
	return LaneID{Name: l.Name}
}

// SetComponents replaces the component pointers with a copy of the given ones
func (l *Lane) SetComponents(components []LaneComponent) {
	if len(components) == 0 {
		l.Components = nil
		return
	}
	l.Components = make([]LaneComponent, len(components))
	copy(l.Components, components)
}

// GetComponent finds the pointer for a component, ignoring the version of the ID
func (l *Lane) GetComponent(id ID) (LaneComponent, bool) {
	for _, c := range l.Components {
		if c.ID.IsEqualWithoutVersion(id) {
			return c, true
		}
	}
	return LaneComponent{}, false
}

// AddComponent adds or moves the pointer for a component
func (l *Lane) AddComponent(id ID, head Ref) {
	for i, c := range l.Components {
		if c.ID.IsEqualWithoutVersion(id) {
			l.Components[i].ID = id
			l.Components[i].Head = head
			return
		}
	}
	l.Components = append(l.Components, LaneComponent{ID: id, Head: head})
}

// IDs of all the components on the lane
func (l *Lane) IDs() IDs {
	ids := make(IDs, 0, len(l.Components))
	for _, c := range l.Components {
		ids = append(ids, c.ID)
	}
	return ids
}

// ValidateLaneName checks that a lane name only uses lower case alphanumeric characters and "-_$!"
func ValidateLaneName(name string) error {
	if name == "" {
		return ErrInvalidLaneName.Errorf("lane name is empty")
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-', c == '_', c == '$', c == '!':
		default:
			return ErrInvalidLaneName.Errorf("lane name %q contains unsupported character %q", name, string(c))
		}
	}
	return nil
}

func (l *Lane) String() string {
	return fmt.Sprintf("%s (%d components)", l.Name, len(l.Components))
}
