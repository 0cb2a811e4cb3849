package model

import (
	"fmt"
	"strings"
)

const (
	objectsPrefix    = "objects"
	componentsPrefix = "components"
	lanesPrefix      = "lanes"
	scopePrefix      = "scope"

	currentLaneFile = "current-lane"
	descriptorExt   = ".json"

	// noScope stands for the scope of unscoped components in archive paths
	noScope = "_"
)

// ArchiveKind tells which type of object is stored under an archive path
type ArchiveKind uint8

// Kinds of stored objects
const (
	ArchiveUnknown ArchiveKind = iota
	ArchiveObject
	ArchiveHistory
	ArchiveLane
	ArchiveCurrentLane
)

// ArchivePathComponents defines the unique path parts to retrieve an object in a scope
type ArchivePathComponents struct {
	Kind     ArchiveKind
	Ref      Ref
	Scope    string
	Name     string
	LaneName string
}

// GetArchivePathToObject yields the key of a content-addressed object
func GetArchivePathToObject(ref Ref) string {
	s := ref.String()
	if len(s) < 3 {
		return fmt.Sprint(objectsPrefix, "/", s)
	}
	return fmt.Sprint(objectsPrefix, "/", s[:2], "/", s[2:])
}

// GetArchivePathToHistory yields the key of the history of a component
func GetArchivePathToHistory(id ID) string {
	scope := id.Scope
	if scope == "" {
		scope = noScope
	}
	return fmt.Sprint(componentsPrefix, "/", scope, "/", id.Name, descriptorExt)
}

// GetArchivePathPrefixToHistories yields the prefix of all history keys
func GetArchivePathPrefixToHistories() string {
	return componentsPrefix + "/"
}

// GetArchivePathToLane yields the key of a lane descriptor
func GetArchivePathToLane(name string) string {
	return fmt.Sprint(GetArchivePathPrefixToLanes(), name, descriptorExt)
}

// GetArchivePathPrefixToLanes yields the prefix of all lane keys
func GetArchivePathPrefixToLanes() string {
	return lanesPrefix + "/"
}

// GetArchivePathToCurrentLane yields the key holding the name of the checked out lane
func GetArchivePathToCurrentLane() string {
	return fmt.Sprint(scopePrefix, "/", currentLaneFile)
}

// GetArchivePathComponents yields all metadata components from a parsed archive path.
func GetArchivePathComponents(archivePath string) (ArchivePathComponents, error) {
	const (
		maxPos     = 4
		objectPos  = 2 // as in: objects/{ab}/{cdef...}
		historyPos = 2 // as in: components/{scope}/{name}.json
		lanePos    = 1 // as in: lanes/{name}.json
		scopePos   = 1 // as in: scope/current-lane
	)
	cs := strings.SplitN(archivePath, "/", maxPos)
	switch cs[0] { // we always have at least 1 element

	case objectsPrefix:
		if len(cs) != objectPos+1 {
			return ArchivePathComponents{},
				ErrInvalidArchivePath.Errorf("expect path to object to have %d parts: %s", objectPos+1, archivePath)
		}
		ref := Ref(cs[objectPos-1] + cs[objectPos])
		if !IsHash(ref.String()) {
			return ArchivePathComponents{},
				ErrInvalidArchivePath.Errorf("object path does not address a hash: %s", archivePath)
		}
		return ArchivePathComponents{Kind: ArchiveObject, Ref: ref}, nil

	case componentsPrefix:
		// names may be namespaced with slashes
		cs = strings.SplitN(archivePath, "/", historyPos+1)
		if len(cs) != historyPos+1 {
			return ArchivePathComponents{},
				ErrInvalidArchivePath.Errorf("expect path to history to have %d parts: %s", historyPos+1, archivePath)
		}
		if !strings.HasSuffix(cs[historyPos], descriptorExt) {
			return ArchivePathComponents{},
				ErrInvalidArchivePath.Errorf("last element in the path should be a %q file. components: %v, path: %s",
					descriptorExt, cs, archivePath)
		}
		scope := cs[historyPos-1]
		if scope == noScope {
			scope = ""
		}
		return ArchivePathComponents{
			Kind:  ArchiveHistory,
			Scope: scope,
			Name:  strings.TrimSuffix(cs[historyPos], descriptorExt),
		}, nil

	case lanesPrefix:
		if len(cs) != lanePos+1 || !strings.HasSuffix(cs[lanePos], descriptorExt) {
			return ArchivePathComponents{},
				ErrInvalidArchivePath.Errorf("expect path to lane to be lanes/{name}%s: %s", descriptorExt, archivePath)
		}
		return ArchivePathComponents{
			Kind:     ArchiveLane,
			LaneName: strings.TrimSuffix(cs[lanePos], descriptorExt),
		}, nil

	case scopePrefix:
		if len(cs) != scopePos+1 || cs[scopePos] != currentLaneFile {
			return ArchivePathComponents{},
				ErrInvalidArchivePath.Errorf("unknown scope file: %s", archivePath)
		}
		return ArchivePathComponents{Kind: ArchiveCurrentLane}, nil

	default:
		return ArchivePathComponents{},
			ErrInvalidArchivePath.Errorf("unknown archive path: %s", archivePath)
	}
}
