package index

import (
	"path/filepath"
	"testing"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "/ws"

func testEntries() []Entry {
	return []Entry{
		{Scope: "acme", Name: "ui/button", Version: "0.0.1", RootDir: "components/ui/button", Origin: model.Authored,
			MainFile: "index.js", Files: []FileEntry{{RelativePath: "index.js"}}},
		{Scope: "acme", Name: "ui/card", Version: "1.0.0", RootDir: "components/ui/card", Origin: model.Imported},
		{Scope: "acme", Name: "utils", Version: "2.0.0", RootDir: "node_modules/@cmon/acme.utils", Origin: model.Nested},
		{Name: "draft", RootDir: "components/draft", Origin: model.Authored},
	}
}

func newTestIndex(t testing.TB, fs afero.Fs, opts ...Option) *Index {
	t.Helper()
	x := New(fs, testRoot, opts...)
	for _, e := range testEntries() {
		require.NoError(t, x.Add(e))
	}
	return x
}

func TestLookups(t *testing.T) {
	x := newTestIndex(t, afero.NewMemMapFs())

	e, ok := x.Get(model.ID{Scope: "acme", Name: "ui/button", Version: "0.0.1"})
	require.True(t, ok)
	assert.Equal(t, "components/ui/button", e.RootDir)

	_, ok = x.Get(model.ID{Scope: "acme", Name: "ui/button", Version: "0.0.2"})
	assert.False(t, ok, "exact lookups compare versions")

	e, ok = x.GetWithoutVersion(model.ID{Scope: "acme", Name: "ui/button", Version: "0.0.2"})
	require.True(t, ok)
	assert.Equal(t, "0.0.1", e.Version)

	_, ok = x.Get(model.ID{Name: "draft"})
	assert.True(t, ok)

	prefixed := x.GetByPrefix("acme/ui/")
	require.Len(t, prefixed, 2)
	assert.Equal(t, "ui/button", prefixed[0].Name)
	assert.Equal(t, "ui/card", prefixed[1].Name)

	id, ok := x.ExistingID("acme/ui/card")
	require.True(t, ok)
	assert.Equal(t, "acme/ui/card@1.0.0", id.String())

	id, ok = x.ExistingID("utils@1.0.0")
	require.True(t, ok, "the scope may be omitted")
	assert.Equal(t, "acme/utils@1.0.0", id.String())

	_, ok = x.ExistingID("nope")
	assert.False(t, ok)
}

func TestAllIDs(t *testing.T) {
	x := newTestIndex(t, afero.NewMemMapFs())

	assert.Equal(t, []string{"acme/ui/button@0.0.1", "acme/ui/card@1.0.0", "acme/utils@2.0.0", "draft"}, x.AllIDs().Strings())
	assert.Equal(t, []string{"acme/ui/button@0.0.1", "acme/ui/card@1.0.0", "draft"},
		x.AllIDs(model.Authored, model.Imported).Strings())
	assert.Equal(t, []string{"acme/utils@2.0.0"}, x.AllIDs(model.Nested).Strings())
}

func TestAvailableOnLane(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := newTestIndex(t, fs)
	card := model.ID{Scope: "acme", Name: "ui/card"}
	require.NoError(t, x.SetOnLanesOnly(card, true))

	assert.NotContains(t, x.AllIDsAvailableOnLane().Strings(), "acme/ui/card@1.0.0")

	lane := NewWorkspaceLane(fs, testRoot, "dev", nil)
	x.SetLane(lane)
	assert.NotContains(t, x.AllIDsAvailableOnLane().Strings(), "acme/ui/card@1.0.0")

	require.NoError(t, x.UpdateComponentID(card.ChangeVersion("1.0.1")))
	assert.Contains(t, x.AllIDsAvailableOnLane().Strings(), "acme/ui/card@1.0.1")
	assert.True(t, lane.Has(card))
}

func TestMutations(t *testing.T) {
	x := newTestIndex(t, afero.NewMemMapFs())
	button := model.ID{Scope: "acme", Name: "ui/button"}

	err := x.UpdateComponentID(model.ID{Name: "ghost", Version: "1.0.0"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInIndex))

	require.NoError(t, x.UpdateComponentID(button.ChangeVersion("0.0.2")))
	e, ok := x.GetWithoutVersion(button)
	require.True(t, ok)
	assert.Equal(t, "0.0.2", e.Version)
	assert.Equal(t, "components/ui/button", e.RootDir, "other fields are preserved")

	removed := x.Remove(button, model.ID{Name: "ghost"})
	assert.Equal(t, model.IDs{button.ChangeVersion("0.0.2")}, removed)
	_, ok = x.GetWithoutVersion(button)
	assert.False(t, ok)

	require.Error(t, x.SetOnLanesOnly(button, true))
}

func TestWriteOnlyWhenChanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := newTestIndex(t, fs)
	require.True(t, x.IsChanged())
	require.NoError(t, x.Write())
	require.False(t, x.IsChanged())

	loaded, err := Load(fs, testRoot)
	require.NoError(t, err)
	assert.False(t, loaded.IsChanged())
	assert.Equal(t, model.CurrentSchemaVersion, loaded.Version())
	assert.Equal(t, x.Entries(), loaded.Entries())

	// a write with no change does not touch the file
	require.NoError(t, fs.Remove(filepath.Join(testRoot, FileName)))
	require.NoError(t, loaded.Write())
	exists, err := afero.Exists(fs, filepath.Join(testRoot, FileName))
	require.NoError(t, err)
	assert.False(t, exists)

	loaded.MarkAsChanged()
	require.NoError(t, loaded.Write())
	exists, err = afero.Exists(fs, filepath.Join(testRoot, FileName))
	require.NoError(t, err)
	assert.True(t, exists)

	// unchanged values do not mark the index as changed
	require.NoError(t, loaded.UpdateComponentID(model.ID{Scope: "acme", Name: "ui/card", Version: "1.0.0"}))
	require.NoError(t, loaded.SetOnLanesOnly(model.ID{Scope: "acme", Name: "ui/card"}, false))
	assert.False(t, loaded.IsChanged())
}

func TestLoadMissingAndInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	x, err := Load(fs, testRoot)
	require.NoError(t, err)
	assert.Empty(t, x.AllIDs())
	assert.Equal(t, model.CurrentSchemaVersion, x.Version())

	require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, FileName), []byte(`{"a": 1}`), 0600))
	_, err = Load(fs, testRoot)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDocument))

	require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, FileName),
		[]byte(`{"version": "1.4.0", "a": {"name": "a", "origin": "ALIEN"}}`), 0600))
	_, err = Load(fs, testRoot)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDocument))
}

func TestDocument(t *testing.T) {
	x := newTestIndex(t, afero.NewMemMapFs())
	doc, err := x.Document()
	require.NoError(t, err)
	assert.Equal(t, model.CurrentSchemaVersion, doc.Version)
	require.Contains(t, doc.Entries, "acme/ui/button")
	assert.Equal(t, "components/ui/button", doc.Entries["acme/ui/button"]["rootDir"])
	assert.Equal(t, "AUTHORED", doc.Entries["acme/ui/button"]["origin"])

	clone, err := doc.Clone()
	require.NoError(t, err)
	clone.Entries["acme/ui/button"]["rootDir"] = "elsewhere"
	assert.Equal(t, "components/ui/button", doc.Entries["acme/ui/button"]["rootDir"])

	other := New(afero.NewMemMapFs(), testRoot)
	require.NoError(t, other.FromDocument(doc))
	assert.Equal(t, x.Entries(), other.Entries())
	assert.True(t, other.IsChanged())
}

func TestParseLegacyDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"draft": {"name": "draft", "origin": "AUTHORED"}}`))
	require.NoError(t, err)
	assert.Equal(t, model.LegacySchemaVersion, doc.Version)
	assert.Len(t, doc.Entries, 1)

	_, err = ParseDocument([]byte(`{"version": 1}`))
	require.Error(t, err)
	_, err = ParseDocument([]byte(`[]`))
	require.Error(t, err)
}

func TestReservedName(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := newTestIndex(t, fs)

	err := x.Add(Entry{Name: versionKey, RootDir: "components/version", Origin: model.Authored})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReservedName))
	_, ok := x.GetWithoutVersion(model.ID{Name: versionKey})
	assert.False(t, ok)

	// a scoped component may use the name
	scoped := model.ID{Scope: "acme", Name: versionKey}
	require.NoError(t, x.Add(Entry{Scope: scoped.Scope, Name: scoped.Name, RootDir: "components/version", Origin: model.Authored}))
	require.NoError(t, x.Write())

	loaded, err := Load(fs, testRoot)
	require.NoError(t, err)
	_, ok = loaded.GetWithoutVersion(scoped)
	assert.True(t, ok)
	assert.Equal(t, x.Entries(), loaded.Entries())

	doc, err := loaded.Document()
	require.NoError(t, err)
	doc.Entries[versionKey] = map[string]interface{}{"name": versionKey, "origin": "AUTHORED"}
	_, err = doc.Marshal()
	assert.True(t, errors.Is(err, ErrReservedName))
	assert.True(t, errors.Is(New(fs, testRoot).FromDocument(doc), ErrReservedName))
}
