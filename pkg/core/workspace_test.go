package core

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/oneconcern/cmon/pkg/config"
	"github.com/oneconcern/cmon/pkg/index"
	"github.com/oneconcern/cmon/pkg/loader"
	"github.com/oneconcern/cmon/pkg/loader/fsloader"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testRoot = "/ws"

var testAuthor = model.Contributor{Name: "dev", Email: "dev@example.com"}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	fs    afero.Fs
	ws    *Workspace
	loads int64
}

func newFixture(t testing.TB, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{fs: afero.NewMemMapFs()}
	opts = append(opts, WithLoader(func(ld loader.Loader) loader.Loader {
		return &countingLoader{Loader: ld, count: &f.loads}
	}))
	ws, err := Init(context.Background(), f.fs, testRoot, config.Default(), opts...)
	require.NoError(t, err)
	f.ws = ws
	return f
}

// reopen the workspace, as a new command would
func (f *fixture) reopen(t testing.TB) {
	t.Helper()
	ws, err := Open(context.Background(), f.fs, testRoot, WithLoader(func(ld loader.Loader) loader.Loader {
		return &countingLoader{Loader: ld, count: &f.loads}
	}))
	require.NoError(t, err)
	f.ws = ws
}

type countingLoader struct {
	loader.Loader
	count *int64
}

func (c *countingLoader) Load(ctx context.Context, id model.ID) (*loader.Component, error) {
	atomic.AddInt64(c.count, 1)
	return c.Loader.Load(ctx, id)
}

func (f *fixture) writeFile(t testing.TB, rel, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, filepath.Join(testRoot, filepath.FromSlash(rel)), []byte(content), 0600))
}

// addComponent tracks an authored component, with some runtime dependencies
func (f *fixture) addComponent(t testing.TB, name string, content string, deps ...string) model.ID {
	t.Helper()
	dir := path.Join("components", name)
	f.writeFile(t, path.Join(dir, "index.js"), content)
	if len(deps) > 0 {
		f.writeFile(t, path.Join(dir, fsloader.ManifestFile), "dependencies:\n  - "+strings.Join(deps, "\n  - ")+"\n")
	}
	require.NoError(t, f.ws.Index().Add(index.Entry{Name: name, RootDir: dir, Origin: model.Authored, MainFile: "index.js"}))
	require.NoError(t, f.ws.Write())
	return model.ID{Name: name}
}

func (f *fixture) entry(t testing.TB, name string) index.Entry {
	t.Helper()
	e, ok := f.ws.Index().GetWithoutVersion(model.ID{Name: name})
	require.True(t, ok)
	return e
}

func TestInitAndOpen(t *testing.T) {
	f := newFixture(t)

	exists, err := afero.Exists(f.fs, filepath.Join(testRoot, config.FileName))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.Exists(f.fs, filepath.Join(testRoot, index.FileName))
	require.NoError(t, err)
	assert.True(t, exists)

	f.reopen(t)
	assert.Equal(t, model.CurrentSchemaVersion, f.ws.Index().Version())
	assert.False(t, f.ws.MigrationResult().Run)
	assert.Equal(t, "node_modules/@cmon", f.ws.Config().PackagesDir)

	laneID, err := f.ws.CurrentLaneID(context.Background())
	require.NoError(t, err)
	assert.True(t, laneID.IsDefault())
}

func TestOpenMigratesLegacyIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, index.FileName), []byte(`{
  "acme/utils@1.0.0": {"rootDir": "components/utils/", "origin": "imported"},
  "draft": {"rootDir": "components/draft", "exported": false}
}`), 0600))

	ws, err := Open(context.Background(), fs, testRoot)
	require.NoError(t, err)

	res := ws.MigrationResult()
	assert.True(t, res.Run)
	assert.NotEmpty(t, res.Applied)
	assert.Equal(t, model.CurrentSchemaVersion, ws.Index().Version())

	e, ok := ws.Index().GetWithoutVersion(model.ID{Scope: "acme", Name: "utils"})
	require.True(t, ok)
	assert.Equal(t, "1.0.0", e.Version)
	assert.Equal(t, "components/utils", e.RootDir)
	assert.Equal(t, model.Imported, e.Origin)

	again, err := ws.Migrate(context.Background())
	require.NoError(t, err)
	assert.False(t, again.Run, "an index at the current version needs no migration")
}
