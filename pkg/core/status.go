package core

import (
	"context"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/loader"
	"github.com/oneconcern/cmon/pkg/model"
	objectsstatus "github.com/oneconcern/cmon/pkg/objects/status"
	"go.uber.org/zap"
)

// Flag is a tri-state boolean: a flag which was not evaluated is unknown, neither true nor false
type Flag uint8

// Flag values
const (
	FlagUnknown Flag = iota
	FlagFalse
	FlagTrue
)

func flagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// IsTrue tells if the flag was evaluated to true
func (f Flag) IsTrue() bool { return f == FlagTrue }

// IsFalse tells if the flag was evaluated to false
func (f Flag) IsFalse() bool { return f == FlagFalse }

// IsKnown tells if the flag was evaluated
func (f Flag) IsKnown() bool { return f != FlagUnknown }

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unknown"
	}
}

// Status of a component in the workspace, compared to its stored versions.
//
// Flags which were not needed to classify the component are left unknown.
type Status struct {
	Modified         Flag
	NewlyCreated     Flag
	Deleted          Flag
	Staged           Flag
	NotExist         Flag
	MissingFromScope Flag
	Nested           Flag
}

// State summarizes a status into mutually exclusive states
type State uint8

// States of a component
const (
	StateUnknown State = iota
	StateNew
	StateModified
	StateUnmodified
	StateStaged
	StateStagedModified
	StateDeleted
	StateNested
	StateMissingFromScope
	StateNotExist
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateModified:
		return "modified"
	case StateUnmodified:
		return "unmodified"
	case StateStaged:
		return "staged"
	case StateStagedModified:
		return "staged and modified"
	case StateDeleted:
		return "deleted"
	case StateNested:
		return "nested"
	case StateMissingFromScope:
		return "missing from scope"
	case StateNotExist:
		return "does not exist"
	default:
		return "unknown"
	}
}

// State of the component
func (s *Status) State() State {
	switch {
	case s.Nested.IsTrue():
		return StateNested
	case s.NotExist.IsTrue():
		return StateNotExist
	case s.MissingFromScope.IsTrue():
		return StateMissingFromScope
	case s.Deleted.IsTrue():
		return StateDeleted
	case s.NewlyCreated.IsTrue():
		return StateNew
	case s.Modified.IsTrue() && s.Staged.IsTrue():
		return StateStagedModified
	case s.Modified.IsTrue():
		return StateModified
	case s.Staged.IsTrue():
		return StateStaged
	case s.Modified.IsFalse():
		return StateUnmodified
	default:
		return StateUnknown
	}
}

// StatusOf a component, memoized for the duration of the session.
//
// Recoverable load failures are reported as flags. A component which has a history but
// no version in the workspace yields an OutOfSyncError, and a version which cannot be
// resolved from the history yields an IntegrityError.
func (s *Session) StatusOf(ctx context.Context, id model.ID) (*Status, error) {
	key := id.String()
	if st, ok := s.statuses[key]; ok {
		return st, nil
	}
	st, err := s.statusOf(ctx, id)
	if err != nil {
		return nil, err
	}
	s.statuses[key] = st
	return st, nil
}

func (s *Session) statusOf(ctx context.Context, id model.ID) (*Status, error) {
	w := s.ws
	st := &Status{}

	history, err := w.objects.GetHistoryIfExist(ctx, id)
	if err != nil {
		return nil, err
	}

	c, err := w.loader.Load(ctx, id.ChangeVersion(model.LatestVersion))
	switch loader.Classify(err) {
	case loader.FailureNone:
	case loader.FailureMissing:
		if history != nil {
			st.Deleted = FlagTrue
		} else {
			st.NotExist = FlagTrue
		}
		return st, nil
	case loader.FailurePendingImport:
		st.MissingFromScope = FlagTrue
		return st, nil
	case loader.FailureOther:
		return nil, err
	}

	if c.Origin == model.Nested {
		st.Nested = FlagTrue
		return st, nil
	}
	if history == nil {
		st.NewlyCreated = FlagTrue
		return st, nil
	}

	lane, err := s.currentLane(ctx)
	if err != nil {
		return nil, err
	}
	st.Staged = flagOf(w.objects.IsLocallyChangedOnLane(history, lane))

	if !c.ID.HasVersion() {
		return nil, &OutOfSyncError{ID: c.ID}
	}
	stored, err := w.storedVersion(ctx, history, c.ID)
	if err != nil {
		return nil, err
	}

	modified, err := w.IsModified(stored, c)
	if err != nil {
		return nil, err
	}
	st.Modified = flagOf(modified)

	w.l.Debug("component status",
		zap.String("id", c.ID.String()),
		zap.Stringer("state", st.State()),
	)
	return st, nil
}

// storedVersion resolves the snapshot of a version, which the history must know about
func (w *Workspace) storedVersion(ctx context.Context, history *model.History, id model.ID) (*model.VersionSnapshot, error) {
	ref, ok := history.Ref(id.Version)
	if !ok {
		return nil, &IntegrityError{ID: id, Version: id.Version, Reason: "the version is not in the history"}
	}
	v, err := w.objects.GetVersion(ctx, ref)
	if err != nil {
		if errors.Is(err, objectsstatus.ErrNotFound) || errors.Is(err, objectsstatus.ErrCorrupted) {
			return nil, &IntegrityError{ID: id, Version: id.Version, Reason: err.Error()}
		}
		return nil, err
	}
	return v, nil
}

// IsModified compares the stored version of a component with its state in the workspace.
//
// Dependencies without version in the workspace inherit the stored version of the same
// dependency. The result is cached on the component.
func (w *Workspace) IsModified(stored *model.VersionSnapshot, c *loader.Component) (bool, error) {
	if modified, known := c.Modified(); known {
		return modified, nil
	}

	candidate := c.ToVersion(stored.Log)
	for _, kind := range model.DependencyKinds {
		candidate.Deps(kind).InheritVersions(stored.Deps(kind))
	}

	fromModel, err := stored.ContentHash()
	if err != nil {
		return false, err
	}
	fromFS, err := candidate.ContentHash()
	if err != nil {
		return false, err
	}

	modified := fromModel != fromFS
	c.SetModified(modified)
	return modified, nil
}
