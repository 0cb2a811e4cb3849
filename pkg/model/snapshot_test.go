package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *VersionSnapshot {
	return &VersionSnapshot{
		MainFile: "index.js",
		Files: Files{
			{RelativePath: "index.js", Hash: NewRef([]byte("index")), Size: 5},
			{RelativePath: "button.js", Hash: NewRef([]byte("button")), Size: 6},
			{RelativePath: "style.css", Hash: NewRef([]byte("style")), Size: 5},
		},
		Dependencies: Dependencies{
			{ID: ID{Scope: "acme", Name: "theme", Version: "1.0.0"}},
			{ID: ID{Scope: "acme", Name: "icons", Version: "0.2.0"}, RelativePaths: []string{"b.js", "a.js"}},
		},
		DevDependencies: Dependencies{
			{ID: ID{Scope: "acme", Name: "fixtures", Version: "0.0.1"}},
		},
		CompilerDependencies: Dependencies{{ID: ID{Scope: "envs", Name: "babel", Version: "2.0.0"}}},
		TesterDependencies:   Dependencies{{ID: ID{Scope: "envs", Name: "jest", Version: "3.1.0"}}},
		PackageDependencies:  PackageDependencies{"react": "^16.0.0", "classnames": "2.2.6", "lodash": "4.17.15"},
		PeerPackageDependencies: PackageDependencies{
			"react-dom": "^16.0.0",
		},
		Overrides: Overrides{
			"dependencies":    {"lodash": "-", "left-pad": "1.0.0"},
			"devDependencies": {"jest": "24.0.0"},
		},
		Log: Log{
			Message: "first",
			Date:    time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
			Author:  Contributor{Name: "dev", Email: "dev@example.com"},
		},
	}
}

func shuffledSnapshot() *VersionSnapshot {
	v := sampleSnapshot()
	v.Files[0], v.Files[2] = v.Files[2], v.Files[0]
	v.Dependencies[0], v.Dependencies[1] = v.Dependencies[1], v.Dependencies[0]
	v.Dependencies[0].RelativePaths = []string{"a.js", "b.js"}

	// rebuild maps with another insertion order
	v.PackageDependencies = PackageDependencies{}
	v.PackageDependencies["lodash"] = "4.17.15"
	v.PackageDependencies["react"] = "^16.0.0"
	v.PackageDependencies["classnames"] = "2.2.6"
	v.Overrides = Overrides{
		"devDependencies": {"jest": "24.0.0"},
		"dependencies":    {"left-pad": "1.0.0", "lodash": "-"},
	}
	return v
}

func TestHashDeterminism(t *testing.T) {
	a, b := sampleSnapshot(), shuffledSnapshot()

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	require.Equal(t, ha, hb)

	ca, err := a.ContentHash()
	require.NoError(t, err)
	cb, err := b.ContentHash()
	require.NoError(t, err)
	require.Equal(t, ca, cb)

	assert.Len(t, ha.String(), RefSizeHex)
	assert.True(t, IsHash(ha.String()))

	// hashing leaves the receiver untouched
	assert.Equal(t, "style.css", b.Files[0].RelativePath)
}

func TestHashEmptyCollections(t *testing.T) {
	a := &VersionSnapshot{MainFile: "index.js"}
	b := &VersionSnapshot{
		MainFile:            "index.js",
		Files:               Files{},
		Dependencies:        Dependencies{},
		PackageDependencies: PackageDependencies{},
		Overrides:           Overrides{"dependencies": {}},
	}
	ha, err := a.ContentHash()
	require.NoError(t, err)
	hb, err := b.ContentHash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestContentHash(t *testing.T) {
	base, err := sampleSnapshot().ContentHash()
	require.NoError(t, err)

	t.Run("log is not content", func(t *testing.T) {
		v := sampleSnapshot()
		v.Log.Message = "another message"
		v.Log.Date = time.Now()
		h, err := v.ContentHash()
		require.NoError(t, err)
		assert.Equal(t, base, h)

		full, err := v.Hash()
		require.NoError(t, err)
		orig, err := sampleSnapshot().Hash()
		require.NoError(t, err)
		assert.NotEqual(t, orig, full, "the object identity includes the log")
	})

	t.Run("parents are not content", func(t *testing.T) {
		v := sampleSnapshot()
		v.Parents = []Ref{NewRef([]byte("parent"))}
		h, err := v.ContentHash()
		require.NoError(t, err)
		assert.Equal(t, base, h)
	})

	t.Run("file content is content", func(t *testing.T) {
		v := sampleSnapshot()
		v.Files[1].Hash = NewRef([]byte("changed"))
		h, err := v.ContentHash()
		require.NoError(t, err)
		assert.NotEqual(t, base, h)
	})

	t.Run("dependency version is content", func(t *testing.T) {
		v := sampleSnapshot()
		v.TesterDependencies[0].ID.Version = "3.2.0"
		h, err := v.ContentHash()
		require.NoError(t, err)
		assert.NotEqual(t, base, h)
	})

	t.Run("overrides are content", func(t *testing.T) {
		v := sampleSnapshot()
		v.Overrides["peerDependencies"] = map[string]string{"react": "17.0.0"}
		h, err := v.ContentHash()
		require.NoError(t, err)
		assert.NotEqual(t, base, h)
	})
}

func TestCloneIsDeep(t *testing.T) {
	v := sampleSnapshot()
	c := v.Clone()
	require.Empty(t, cmp.Diff(v, c))

	c.Files[0].RelativePath = "changed.js"
	c.Dependencies[0].ID.Version = "9.9.9"
	c.Dependencies[1].RelativePaths[0] = "z.js"
	c.PackageDependencies["react"] = "17.0.0"
	c.Overrides["dependencies"]["lodash"] = "1.0.0"

	assert.Empty(t, cmp.Diff(sampleSnapshot(), v), "the original is unchanged")
}

func TestRoundTrip(t *testing.T) {
	v := sampleSnapshot()
	data, err := v.Marshal()
	require.NoError(t, err)

	back, err := UnmarshalVersion(data)
	require.NoError(t, err)

	h1, err := v.Hash()
	require.NoError(t, err)
	h2, err := back.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestInheritVersions(t *testing.T) {
	stored := Dependencies{
		{ID: ID{Scope: "acme", Name: "theme", Version: "1.0.0"}},
		{ID: ID{Scope: "acme", Name: "icons", Version: "0.2.0"}},
	}
	fs := Dependencies{
		{ID: ID{Scope: "acme", Name: "icons"}},
		{ID: ID{Scope: "acme", Name: "theme", Version: "1.1.0"}},
		{ID: ID{Scope: "acme", Name: "unknown"}},
	}
	fs.InheritVersions(stored)

	assert.Equal(t, "0.2.0", fs[0].ID.Version)
	assert.Equal(t, "1.1.0", fs[1].ID.Version, "concrete versions are kept")
	assert.Empty(t, fs[2].ID.Version)
}

func TestUpdateVersions(t *testing.T) {
	deps := Dependencies{
		{ID: ID{Scope: "acme", Name: "theme", Version: "1.0.0"}},
		{ID: ID{Scope: "acme", Name: "icons", Version: "0.2.0"}},
	}
	assert.False(t, deps.UpdateVersions(map[string]string{"acme/theme": "1.0.0"}))
	assert.True(t, deps.UpdateVersions(map[string]string{"acme/icons": "0.2.1", "acme/other": "1.0.0"}))
	assert.Equal(t, "0.2.1", deps[1].ID.Version)
}

func TestSortDependenciesWithSameID(t *testing.T) {
	icons := ID{Scope: "acme", Name: "icons", Version: "0.2.0"}
	a := &VersionSnapshot{Dependencies: Dependencies{
		{ID: icons, RelativePaths: []string{"b.js"}},
		{ID: icons, RelativePaths: []string{"a.js"}},
	}}
	b := &VersionSnapshot{Dependencies: Dependencies{
		{ID: icons, RelativePaths: []string{"a.js"}},
		{ID: icons, RelativePaths: []string{"b.js"}},
	}}

	ha, err := a.ContentHash()
	require.NoError(t, err)
	hb, err := b.ContentHash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	a.Dependencies.Sort()
	assert.Equal(t, []string{"a.js"}, a.Dependencies[0].RelativePaths)
}
