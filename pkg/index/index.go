package index

import (
	"os"
	"path/filepath"
	"strings"

	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileName of the persisted index, at the root of the workspace
const FileName = ".cmon.map.json"

// Index of the components tracked by a workspace
type Index struct {
	fs      afero.Fs
	root    string
	version string
	entries *iradix.Tree
	changed bool
	lane    *WorkspaceLane
	l       *zap.Logger
}

// Option for the index
type Option func(*Index)

// WithLogger sets a logger for the index
func WithLogger(l *zap.Logger) Option {
	return func(x *Index) {
		if l != nil {
			x.l = l
		}
	}
}

// WithLane sets the overlay of the checked out lane
func WithLane(lane *WorkspaceLane) Option {
	return func(x *Index) {
		x.lane = lane
	}
}

// New empty index, with the current schema version
func New(fs afero.Fs, root string, opts ...Option) *Index {
	x := &Index{
		fs:      fs,
		root:    root,
		version: model.CurrentSchemaVersion,
		entries: iradix.New(),
		l:       zap.NewNop(),
	}
	for _, apply := range opts {
		apply(x)
	}
	return x
}

// Load the index persisted in the workspace. A workspace without index gets an empty one.
func Load(fs afero.Fs, root string, opts ...Option) (*Index, error) {
	doc, err := LoadDocument(fs, root)
	if err != nil {
		if os.IsNotExist(err) {
			return New(fs, root, opts...), nil
		}
		return nil, err
	}
	return NewFromDocument(fs, root, doc, opts...)
}

// LoadDocument reads the raw persisted index.
//
// When the workspace has no index, the returned error satisfies os.IsNotExist.
func LoadDocument(fs afero.Fs, root string) (Document, error) {
	data, err := afero.ReadFile(fs, filepath.Join(root, FileName))
	if err != nil {
		return Document{}, err
	}
	return ParseDocument(data)
}

// NewFromDocument builds an index from a raw document. The index is not marked as changed.
func NewFromDocument(fs afero.Fs, root string, doc Document, opts ...Option) (*Index, error) {
	x := New(fs, root, opts...)
	if err := x.FromDocument(doc); err != nil {
		return nil, err
	}
	x.changed = false
	return x, nil
}

// Path of the persisted index
func (x *Index) Path() string {
	return filepath.Join(x.root, FileName)
}

// Version of the schema of the index
func (x *Index) Version() string {
	return x.version
}

// Lane overlay of the checked out lane. It is nil on the default lane.
func (x *Index) Lane() *WorkspaceLane {
	return x.lane
}

// SetLane switches the overlay of the checked out lane
func (x *Index) SetLane(lane *WorkspaceLane) {
	x.lane = lane
}

// Get an entry, version included.
//
// An ID without version matches an entry without version.
func (x *Index) Get(id model.ID) (Entry, bool) {
	e, ok := x.GetWithoutVersion(id)
	if !ok || e.Version != id.Version {
		return Entry{}, false
	}
	return e, true
}

// GetWithoutVersion gets an entry, ignoring the version
func (x *Index) GetWithoutVersion(id model.ID) (Entry, bool) {
	v, ok := x.entries.Get([]byte(id.StringWithoutVersion()))
	if !ok {
		return Entry{}, false
	}
	return *v.(*Entry), true
}

// GetByPrefix lists the entries whose ID starts with a prefix
func (x *Index) GetByPrefix(prefix string) []Entry {
	var res []Entry
	x.entries.Root().WalkPrefix([]byte(prefix), func(_ []byte, v interface{}) bool {
		res = append(res, *v.(*Entry))
		return false
	})
	return res
}

// ExistingID resolves a string typed by a user into the ID of a tracked component.
//
// The string may omit the scope. The returned ID carries the version of the string
// when there is one, or the version in the workspace otherwise.
func (x *Index) ExistingID(str string) (model.ID, bool) {
	name, version := str, ""
	if idx := strings.LastIndex(str, model.VersionDelimiter); idx > 0 {
		name, version = str[:idx], str[idx+1:]
	}

	var found *Entry
	if v, ok := x.entries.Get([]byte(name)); ok {
		found = v.(*Entry)
	} else {
		x.entries.Root().Walk(func(_ []byte, v interface{}) bool {
			e := v.(*Entry)
			if e.Name == name {
				found = e
				return true
			}
			return false
		})
	}
	if found == nil {
		return model.ID{}, false
	}

	id := found.ID()
	if version != "" && version != model.LatestVersion {
		id.Version = version
	}
	return id, true
}

// Add or replace an entry
//
// An unscoped component cannot be named like the schema version key.
func (x *Index) Add(entry Entry) error {
	if entry.key() == versionKey {
		return ErrReservedName.Errorf("%q cannot be tracked without scope", entry.Name)
	}
	x.put(entry.clone())
	x.l.Debug("added component to index", zap.String("id", entry.ID().String()))
	return nil
}

func (x *Index) put(e *Entry) {
	txn := x.entries.Txn()
	txn.Insert([]byte(e.key()), e)
	x.entries = txn.Commit()
	x.changed = true
}

// UpdateComponentID moves the version pointer of a tracked component.
//
// On a lane, the component is also recorded in the lane overlay.
func (x *Index) UpdateComponentID(id model.ID) error {
	e, ok := x.GetWithoutVersion(id)
	if !ok {
		return ErrNotInIndex.Errorf("%s", id.StringWithoutVersion())
	}
	if e.Version != id.Version {
		e.Version = id.Version
		x.put(e.clone())
	}
	if x.lane != nil {
		x.lane.AddEntry(id)
	}
	return nil
}

// SetOnLanesOnly flags a component as only available on lanes
func (x *Index) SetOnLanesOnly(id model.ID, onLanesOnly bool) error {
	e, ok := x.GetWithoutVersion(id)
	if !ok {
		return ErrNotInIndex.Errorf("%s", id.StringWithoutVersion())
	}
	if e.OnLanesOnly == onLanesOnly {
		return nil
	}
	e.OnLanesOnly = onLanesOnly
	x.put(e.clone())
	return nil
}

// Remove entries, ignoring versions. It returns the IDs of the removed entries.
func (x *Index) Remove(ids ...model.ID) model.IDs {
	var removed model.IDs
	txn := x.entries.Txn()
	for _, id := range ids {
		if v, ok := txn.Delete([]byte(id.StringWithoutVersion())); ok {
			removed = append(removed, v.(*Entry).ID())
		}
		if x.lane != nil {
			x.lane.RemoveEntry(id)
		}
	}
	x.entries = txn.Commit()
	if len(removed) > 0 {
		x.changed = true
		x.l.Debug("removed components from index", zap.Strings("ids", removed.Strings()))
	}
	return removed
}

// Entries lists all entries, sorted by ID
func (x *Index) Entries() []Entry {
	res := make([]Entry, 0, x.entries.Len())
	x.entries.Root().Walk(func(_ []byte, v interface{}) bool {
		res = append(res, *v.(*Entry))
		return false
	})
	return res
}

// AllIDs lists the IDs of tracked components, sorted.
//
// When origins are specified, only components with these origins are listed.
func (x *Index) AllIDs(origins ...model.Origin) model.IDs {
	return x.filterIDs(func(e Entry) bool { return hasOrigin(e, origins) })
}

// AllIDsAvailableOnLane lists the IDs of components available on the checked out lane.
//
// Components flagged as only available on lanes are listed when the workspace
// recorded them on the checked out lane.
func (x *Index) AllIDsAvailableOnLane(origins ...model.Origin) model.IDs {
	return x.filterIDs(func(e Entry) bool {
		if !hasOrigin(e, origins) {
			return false
		}
		if !e.OnLanesOnly {
			return true
		}
		return x.lane != nil && x.lane.Has(e.ID())
	})
}

func (x *Index) filterIDs(keep func(Entry) bool) model.IDs {
	var ids model.IDs
	x.entries.Root().Walk(func(_ []byte, v interface{}) bool {
		e := *v.(*Entry)
		if keep(e) {
			ids = append(ids, e.ID())
		}
		return false
	})
	return ids
}

func hasOrigin(e Entry, origins []model.Origin) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if e.Origin == o {
			return true
		}
	}
	return false
}

// MarkAsChanged forces the next Write to persist the index
func (x *Index) MarkAsChanged() {
	x.changed = true
}

// IsChanged tells if the index has changes which are not persisted
func (x *Index) IsChanged() bool {
	return x.changed
}

// Write persists the index when it changed, and the lane overlay when it changed
func (x *Index) Write() error {
	if x.lane != nil {
		if err := x.lane.Write(); err != nil {
			return err
		}
	}
	if !x.changed {
		return nil
	}

	doc, err := x.Document()
	if err != nil {
		return err
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	if err = x.fs.MkdirAll(x.root, 0700); err != nil {
		return err
	}
	if err = afero.WriteFile(x.fs, x.Path(), data, 0600); err != nil {
		return err
	}
	x.changed = false
	x.l.Debug("workspace index written", zap.String("path", x.Path()), zap.Int("entries", x.entries.Len()))
	return nil
}

// Document exports the index in raw form
func (x *Index) Document() (Document, error) {
	doc := Document{
		Version: x.version,
		Entries: make(map[string]map[string]interface{}, x.entries.Len()),
	}
	var err error
	x.entries.Root().Walk(func(k []byte, v interface{}) bool {
		var raw map[string]interface{}
		raw, err = encodeEntry(v.(*Entry))
		if err != nil {
			return true
		}
		doc.Entries[string(k)] = raw
		return false
	})
	return doc, err
}

// FromDocument replaces the content of the index with a raw document
func (x *Index) FromDocument(doc Document) error {
	txn := iradix.New().Txn()
	for key, raw := range doc.Entries {
		e, err := decodeEntry(raw)
		if err != nil {
			return ErrInvalidDocument.Wrapf(err, "entry %s", key)
		}
		if e.Name == "" {
			return ErrInvalidDocument.Errorf("entry %s has no name", key)
		}
		if !e.Origin.IsValid() {
			return ErrInvalidDocument.Errorf("entry %s has an invalid origin %q", key, e.Origin)
		}
		if e.key() == versionKey {
			return ErrReservedName.Errorf("entry %s", key)
		}
		txn.Insert([]byte(e.key()), e)
	}
	x.entries = txn.Commit()
	x.version = doc.Version
	x.changed = true
	return nil
}
