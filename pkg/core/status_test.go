package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/oneconcern/cmon/pkg/core/status"
	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/index"
	"github.com/oneconcern/cmon/pkg/loader"
	loaderstatus "github.com/oneconcern/cmon/pkg/loader/status"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusState(t *testing.T) {
	t.Parallel()

	tts := []struct {
		name   string
		status Status
		state  State
	}{
		{name: "nothing known", status: Status{}, state: StateUnknown},
		{name: "new", status: Status{NewlyCreated: FlagTrue}, state: StateNew},
		{name: "nested", status: Status{Nested: FlagTrue}, state: StateNested},
		{name: "deleted", status: Status{Deleted: FlagTrue}, state: StateDeleted},
		{name: "not exist", status: Status{NotExist: FlagTrue}, state: StateNotExist},
		{name: "missing from scope", status: Status{MissingFromScope: FlagTrue}, state: StateMissingFromScope},
		{name: "unmodified", status: Status{Modified: FlagFalse, Staged: FlagFalse}, state: StateUnmodified},
		{name: "modified", status: Status{Modified: FlagTrue, Staged: FlagFalse}, state: StateModified},
		{name: "staged", status: Status{Modified: FlagFalse, Staged: FlagTrue}, state: StateStaged},
		{name: "staged and modified", status: Status{Modified: FlagTrue, Staged: FlagTrue}, state: StateStagedModified},
	}

	for _, toPin := range tts {
		tt := toPin
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.state, tt.status.State())
		})
	}
}

func TestFlag(t *testing.T) {
	var unknown Flag
	assert.False(t, unknown.IsTrue())
	assert.False(t, unknown.IsFalse(), "an unknown flag is not false")
	assert.False(t, unknown.IsKnown())
	assert.True(t, flagOf(false).IsFalse())
	assert.True(t, flagOf(true).IsTrue())
	assert.Equal(t, "unknown", unknown.String())
}

func TestStatusOf(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.addComponent(t, "a", "a1")
	id := f.addComponent(t, "fresh", "new")
	require.NoError(t, f.ws.Index().Add(index.Entry{Name: "nested", RootDir: "node_modules/@cmon/nested", Origin: model.Nested}))
	f.writeFile(t, "node_modules/@cmon/nested/index.js", "nested")
	require.NoError(t, f.ws.Index().Add(index.Entry{Name: "gone", RootDir: "components/gone", Origin: model.Authored}))
	require.NoError(t, f.ws.Index().Add(index.Entry{Scope: "remote", Name: "lib", Version: "1.0.0", RootDir: "components/lib", Origin: model.Imported}))
	f.writeFile(t, "components/lib/index.js", "lib")

	_, err := f.ws.Tag(ctx, TagParams{IDs: model.IDs{a}, Message: "first", Author: testAuthor})
	require.NoError(t, err)

	s := f.ws.NewSession()

	st, err := s.StatusOf(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, StateStaged, st.State(), "a tagged component which was never exported is staged")
	assert.True(t, st.Modified.IsFalse())
	assert.False(t, st.NewlyCreated.IsKnown())

	st, err = s.StatusOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StateNew, st.State())
	assert.False(t, st.Modified.IsKnown())

	st, err = s.StatusOf(ctx, model.ID{Name: "nested"})
	require.NoError(t, err)
	assert.Equal(t, StateNested, st.State())

	st, err = s.StatusOf(ctx, model.ID{Name: "gone"})
	require.NoError(t, err)
	assert.Equal(t, StateNotExist, st.State())

	st, err = s.StatusOf(ctx, model.ID{Scope: "remote", Name: "lib"})
	require.NoError(t, err)
	assert.Equal(t, StateMissingFromScope, st.State())

	// edits are only seen by a new session
	f.writeFile(t, "components/a/index.js", "a2")
	st, err = s.StatusOf(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, StateStaged, st.State())

	st, err = f.ws.NewSession().StatusOf(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, StateStagedModified, st.State())

	require.NoError(t, f.fs.RemoveAll(filepath.Join(testRoot, "components", "a")))
	st, err = f.ws.NewSession().StatusOf(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, StateDeleted, st.State())
}

func TestStatusOfFatalErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addComponent(t, "a", "a1")
	_, err := f.ws.Tag(ctx, TagParams{IDs: model.IDs{a}, Author: testAuthor})
	require.NoError(t, err)

	// the workspace lost the version of a component with a history
	e := f.entry(t, "a")
	e.Version = ""
	require.NoError(t, f.ws.Index().Add(e))

	_, err = f.ws.NewSession().StatusOf(ctx, a)
	require.Error(t, err)
	var outOfSync *OutOfSyncError
	require.True(t, errors.As(err, &outOfSync))
	assert.Equal(t, "a", outOfSync.ID.Name)
	assert.True(t, errors.Is(err, status.ErrOutOfSync))

	// the workspace points to a version unknown to the history
	e.Version = "9.9.9"
	require.NoError(t, f.ws.Index().Add(e))

	_, err = f.ws.NewSession().StatusOf(ctx, a)
	require.Error(t, err)
	var integrity *IntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, "9.9.9", integrity.Version)
	assert.True(t, errors.Is(err, status.ErrIntegrity))
}

func TestStatusCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addComponent(t, "a", "a")
	b := f.addComponent(t, "b", "b")

	s := f.ws.NewSession()
	before := f.loads

	first, err := s.StatusOf(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.loads)

	second, err := s.StatusOf(ctx, a)
	require.NoError(t, err)
	assert.Same(t, first, second, "statuses are cached for the session")
	assert.Equal(t, before+1, f.loads, "a cached status is not loaded again")

	_, err = s.StatusOf(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, before+2, f.loads)

	_, err = f.ws.NewSession().StatusOf(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, before+3, f.loads, "sessions do not share their cache")
}

func testStoredVersion() *model.VersionSnapshot {
	return &model.VersionSnapshot{
		MainFile: "index.js",
		Files: model.Files{
			{RelativePath: "index.js", Hash: model.NewRef([]byte("index"))},
			{RelativePath: "lib/util.js", Hash: model.NewRef([]byte("util"))},
		},
		Dependencies: model.Dependencies{
			{ID: model.ID{Scope: "acme", Name: "theme", Version: "1.0.0"}},
			{ID: model.ID{Scope: "acme", Name: "button", Version: "2.1.0"}},
		},
		DevDependencies:     model.Dependencies{{ID: model.ID{Scope: "acme", Name: "fixtures", Version: "0.1.0"}}},
		PackageDependencies: model.PackageDependencies{"lodash": "^4.17.0", "react": "^17.0.0"},
		Log:                 model.NewLog("stored", testAuthor),
	}
}

func testComponent() *loader.Component {
	return &loader.Component{
		ID:       model.ID{Scope: "acme", Name: "card", Version: "1.0.0"},
		MainFile: "index.js",
		Files: model.Files{
			{RelativePath: "lib/util.js", Hash: model.NewRef([]byte("util"))},
			{RelativePath: "index.js", Hash: model.NewRef([]byte("index"))},
		},
		Dependencies: model.Dependencies{
			{ID: model.ID{Scope: "acme", Name: "button", Version: "2.1.0"}},
			{ID: model.ID{Scope: "acme", Name: "theme", Version: "1.0.0"}},
		},
		DevDependencies:     model.Dependencies{{ID: model.ID{Scope: "acme", Name: "fixtures", Version: "0.1.0"}}},
		PackageDependencies: model.PackageDependencies{"react": "^17.0.0", "lodash": "^4.17.0"},
	}
}

func TestIsModified(t *testing.T) {
	t.Parallel()
	w := &Workspace{}

	tts := []struct {
		name     string
		mutate   func(*loader.Component, *model.VersionSnapshot)
		modified bool
	}{
		{
			name:     "same content in another order",
			mutate:   func(*loader.Component, *model.VersionSnapshot) {},
			modified: false,
		},
		{
			name: "another log",
			mutate: func(_ *loader.Component, v *model.VersionSnapshot) {
				v.Log = model.NewLog("another message", model.Contributor{Name: "someone else"})
			},
			modified: false,
		},
		{
			name: "dependency without version",
			mutate: func(c *loader.Component, _ *model.VersionSnapshot) {
				c.Dependencies[1].ID.Version = ""
			},
			modified: false,
		},
		{
			name: "dependency with another version",
			mutate: func(c *loader.Component, _ *model.VersionSnapshot) {
				c.Dependencies[1].ID.Version = "1.0.1"
			},
			modified: true,
		},
		{
			name: "file content changed",
			mutate: func(c *loader.Component, _ *model.VersionSnapshot) {
				c.Files[0].Hash = model.NewRef([]byte("changed"))
			},
			modified: true,
		},
		{
			name: "new dev dependency",
			mutate: func(c *loader.Component, _ *model.VersionSnapshot) {
				c.DevDependencies = append(c.DevDependencies, model.Dependency{ID: model.ID{Name: "other", Version: "0.0.1"}})
			},
			modified: true,
		},
		{
			name: "package dependency changed",
			mutate: func(c *loader.Component, _ *model.VersionSnapshot) {
				c.PackageDependencies["react"] = "^18.0.0"
			},
			modified: true,
		},
	}

	for _, toPin := range tts {
		tt := toPin
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, stored := testComponent(), testStoredVersion()
			tt.mutate(c, stored)

			modified, err := w.IsModified(stored, c)
			require.NoError(t, err)
			assert.Equal(t, tt.modified, modified)

			cached, known := c.Modified()
			assert.True(t, known)
			assert.Equal(t, tt.modified, cached)
		})
	}
}

func TestIsModifiedIsCached(t *testing.T) {
	w := &Workspace{}
	c, stored := testComponent(), testStoredVersion()

	modified, err := w.IsModified(stored, c)
	require.NoError(t, err)
	require.False(t, modified)

	c.Files[0].Hash = model.NewRef([]byte("changed"))
	modified, err = w.IsModified(stored, c)
	require.NoError(t, err)
	assert.False(t, modified, "the first result is kept on the component")
}

func TestStatusOfUntracked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addComponent(t, "a", "a")
	_, err := f.ws.Tag(ctx, TagParams{IDs: model.IDs{a}, Author: testAuthor})
	require.NoError(t, err)

	_, err = f.ws.CleanFromIndex(model.IDs{a}, nil)
	require.NoError(t, err)

	tts := []struct {
		name     string
		id       model.ID
		expected State
	}{
		{name: "removed from the workspace with a history", id: a, expected: StateDeleted},
		{name: "never tracked", id: model.ID{Name: "never"}, expected: StateNotExist},
	}

	for _, toPin := range tts {
		tt := toPin
		t.Run(tt.name, func(t *testing.T) {
			st, err := f.ws.NewSession().StatusOf(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, st.State())
		})
	}

	// untracked components still cannot be versioned
	_, err = f.ws.Tag(ctx, TagParams{IDs: model.IDs{{Name: "never"}}, Author: testAuthor})
	require.Error(t, err)
	assert.True(t, errors.Is(err, loaderstatus.ErrMissingFromIndex))
}
