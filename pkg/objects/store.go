package objects

import (
	"bytes"
	"context"
	"strings"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/oneconcern/cmon/pkg/objects/status"
	"github.com/oneconcern/cmon/pkg/storage"
	storagestatus "github.com/oneconcern/cmon/pkg/storage/status"
	"go.uber.org/zap"
)

const maxLanesToList = 1000000

// Store persists histories, version snapshots and lanes
type Store struct {
	store storage.Store
	l     *zap.Logger
}

// Option for the object store
type Option func(*Store)

// WithLogger sets a logger for the object store. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.l = l
		}
	}
}

// New object store, on top of some key/value storage
func New(store storage.Store, opts ...Option) *Store {
	s := &Store{
		store: store,
		l:     zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// Storage exposes the underlying key/value store
func (s *Store) Storage() storage.Store {
	return s.store
}

func (s *Store) String() string {
	return s.store.String()
}

// PutObject stores a blob and returns its reference.
//
// Putting the same content twice is a no-op.
func (s *Store) PutObject(ctx context.Context, data []byte) (model.Ref, error) {
	ref := model.NewRef(data)
	err := s.store.Put(ctx, model.GetArchivePathToObject(ref), bytes.NewReader(data), storage.NoOverWrite)
	if err != nil && !errors.Is(err, storagestatus.ErrExists) {
		return "", err
	}
	return ref, nil
}

// HasObject tells if a blob exists
func (s *Store) HasObject(ctx context.Context, ref model.Ref) (bool, error) {
	return s.store.Has(ctx, model.GetArchivePathToObject(ref))
}

// GetObject retrieves a blob
func (s *Store) GetObject(ctx context.Context, ref model.Ref) ([]byte, error) {
	data, err := storage.ReadAll(ctx, s.store, model.GetArchivePathToObject(ref))
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return nil, status.ErrNotFound.Wrapf(err, "object %s", ref)
		}
		return nil, err
	}
	return data, nil
}

// PutVersion stores a version snapshot in its canonical form
func (s *Store) PutVersion(ctx context.Context, version *model.VersionSnapshot) (model.Ref, error) {
	data, err := version.Marshal()
	if err != nil {
		return "", err
	}
	return s.PutObject(ctx, data)
}

// GetVersion retrieves a version snapshot
func (s *Store) GetVersion(ctx context.Context, ref model.Ref) (*model.VersionSnapshot, error) {
	data, err := s.GetObject(ctx, ref)
	if err != nil {
		return nil, err
	}
	if model.NewRef(data) != ref {
		return nil, status.ErrCorrupted.Errorf("object %s does not match its content", ref)
	}
	version, err := model.UnmarshalVersion(data)
	if err != nil {
		return nil, status.ErrCorrupted.Wrapf(err, "object %s", ref)
	}
	return version, nil
}

// GetHistory retrieves the history of a component. The version of the ID is ignored.
func (s *Store) GetHistory(ctx context.Context, id model.ID) (*model.History, error) {
	data, err := storage.ReadAll(ctx, s.store, model.GetArchivePathToHistory(id))
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return nil, status.ErrNotFound.Errorf("history for %s", id.StringWithoutVersion())
		}
		return nil, err
	}
	var history model.History
	if err = model.Unmarshal(data, &history); err != nil {
		return nil, status.ErrCorrupted.Wrapf(err, "history for %s", id.StringWithoutVersion())
	}
	if history.Versions == nil {
		history.Versions = make(map[string]model.Ref)
	}
	return &history, nil
}

// GetHistoryIfExist retrieves the history of a component, or nil when there is none
func (s *Store) GetHistoryIfExist(ctx context.Context, id model.ID) (*model.History, error) {
	history, err := s.GetHistory(ctx, id)
	if errors.Is(err, status.ErrNotFound) {
		return nil, nil
	}
	return history, err
}

// SaveHistory persists the history of a component
func (s *Store) SaveHistory(ctx context.Context, history *model.History) error {
	data, err := model.MarshalCanonical(history)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, model.GetArchivePathToHistory(history.ID()), bytes.NewReader(data), storage.OverWrite)
}

// AppendVersion stores a new version snapshot and advances the history.
//
// A non-empty tag records a semantic version. An empty tag makes a snap: the version
// is then the reference of the snapshot. Snaps on a lane other than the default one
// move the lane pointer, not the head of the history.
//
// The parents of the snapshot are set to the current head. It returns the ID of the new version.
func (s *Store) AppendVersion(ctx context.Context, history *model.History, tag string, version *model.VersionSnapshot, lane *model.Lane) (model.ID, error) {
	id := history.ID()
	onLane := lane != nil && !lane.LaneID().IsDefault()

	parent := history.SnapHead
	if onLane {
		if lc, ok := lane.GetComponent(id); ok {
			parent = lc.Head
		}
	}
	version.Parents = nil
	if !parent.IsEmpty() {
		version.Parents = []model.Ref{parent}
	}

	ref, err := s.PutVersion(ctx, version)
	if err != nil {
		return model.ID{}, err
	}

	newID := id.ChangeVersion(tag)
	switch {
	case tag != "":
		history.AddTag(tag, ref)
	case onLane:
		newID = id.ChangeVersion(ref.String())
	default:
		newID = id.ChangeVersion(ref.String())
		history.SetSnapHead(ref)
	}

	if err = s.SaveHistory(ctx, history); err != nil {
		return model.ID{}, err
	}

	if onLane {
		lane.AddComponent(newID, ref)
		if err = s.SaveLane(ctx, lane); err != nil {
			return model.ID{}, err
		}
	}

	s.l.Debug("appended version",
		zap.String("id", newID.String()),
		zap.String("ref", ref.String()),
		zap.Bool("snap", tag == ""),
	)
	return newID, nil
}

// SaveLane persists a lane descriptor
func (s *Store) SaveLane(ctx context.Context, lane *model.Lane) error {
	data, err := model.MarshalCanonical(lane)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, model.GetArchivePathToLane(lane.Name), bytes.NewReader(data), storage.OverWrite)
}

// LoadLane retrieves a lane descriptor, or nil when the lane does not exist
func (s *Store) LoadLane(ctx context.Context, name string) (*model.Lane, error) {
	if (model.LaneID{Name: name}).IsDefault() {
		return nil, nil
	}
	data, err := storage.ReadAll(ctx, s.store, model.GetArchivePathToLane(name))
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return nil, nil
		}
		return nil, err
	}
	var lane model.Lane
	if err = model.Unmarshal(data, &lane); err != nil {
		return nil, status.ErrCorrupted.Wrapf(err, "lane %s", name)
	}
	return &lane, nil
}

// ListLanes retrieves all lanes stored in the scope
func (s *Store) ListLanes(ctx context.Context) ([]model.Lane, error) {
	ks, _, err := s.store.KeysPrefix(ctx, "", model.GetArchivePathPrefixToLanes(), "", maxLanesToList)
	if err != nil {
		return nil, err
	}
	lanes := make([]model.Lane, 0, len(ks))
	for _, k := range ks {
		apc, err := model.GetArchivePathComponents(k)
		if err != nil {
			return nil, err
		}
		lane, err := s.LoadLane(ctx, apc.LaneName)
		if err != nil {
			return nil, err
		}
		if lane == nil {
			continue
		}
		if lane.Name != apc.LaneName {
			return nil, status.ErrCorrupted.Errorf("lane names in descriptor '%v' and archive path '%v' don't match",
				lane.Name, apc.LaneName)
		}
		lanes = append(lanes, *lane)
	}
	return lanes, nil
}

// CurrentLaneName yields the name of the checked out lane
func (s *Store) CurrentLaneName(ctx context.Context) (string, error) {
	data, err := storage.ReadAll(ctx, s.store, model.GetArchivePathToCurrentLane())
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return model.DefaultLane, nil
		}
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return model.DefaultLane, nil
	}
	return name, nil
}

// SetCurrentLane checks out a lane
func (s *Store) SetCurrentLane(ctx context.Context, name string) error {
	return s.store.Put(ctx, model.GetArchivePathToCurrentLane(), strings.NewReader(name), storage.OverWrite)
}

// IsLocallyChangedOnLane tells if a component has versions which were not shared yet.
//
// On the default lane, this compares the head of the history with its remote head.
// On other lanes, the lane pointer is compared with its remote counterpart.
func (s *Store) IsLocallyChangedOnLane(history *model.History, lane *model.Lane) bool {
	if lane == nil || lane.LaneID().IsDefault() {
		return history.IsLocallyChanged()
	}
	lc, ok := lane.GetComponent(history.ID())
	if !ok {
		return false
	}
	return lc.Head != lc.RemoteHead
}
