package model

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	hash := strings.Repeat("0f", refSize)

	tests := []struct {
		name     string
		input    string
		hasScope bool
		want     ID
		wantErr  bool
	}{
		{name: "name only", input: "button", want: ID{Name: "button"}},
		{name: "name with version", input: "button@1.2.3", want: ID{Name: "button", Version: "1.2.3"}},
		{name: "nested name", input: "ui/button@0.0.1", want: ID{Name: "ui/button", Version: "0.0.1"}},
		{name: "scoped", input: "acme/ui/button@0.0.1", hasScope: true, want: ID{Scope: "acme", Name: "ui/button", Version: "0.0.1"}},
		{name: "latest", input: "acme/button@latest", hasScope: true, want: ID{Scope: "acme", Name: "button", Version: LatestVersion}},
		{name: "snap", input: "acme/button@" + hash, hasScope: true, want: ID{Scope: "acme", Name: "button", Version: hash}},
		{name: "empty", input: "  ", wantErr: true},
		{name: "missing scope", input: "button", hasScope: true, wantErr: true},
		{name: "bad version", input: "button@v1", wantErr: true},
		{name: "trailing slash", input: "ui/", wantErr: true},
	}
	for _, tts := range tests {
		tt := tts
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseID(tt.input, tt.hasScope)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIDString(t *testing.T) {
	id := ID{Scope: "acme", Name: "button", Version: "1.0.0"}
	assert.Equal(t, "acme/button@1.0.0", id.String())
	assert.Equal(t, "acme/button", id.StringWithoutVersion())
	assert.Equal(t, "button", ID{Name: "button"}.String())

	parsed, err := ParseID(id.String(), true)
	require.NoError(t, err)
	assert.True(t, parsed.IsEqual(id))
}

func TestIDVersions(t *testing.T) {
	id := ID{Name: "button"}
	assert.False(t, id.HasVersion())
	assert.False(t, id.ChangeVersion(LatestVersion).HasVersion())
	assert.True(t, id.ChangeVersion("0.0.1").HasVersion())
	assert.True(t, id.ChangeVersion("0.0.1").IsEqualWithoutVersion(id))
	assert.False(t, id.ChangeVersion("0.0.1").IsEqual(id))
	assert.False(t, id.IsEqualWithoutVersion(id.ChangeScope("acme")))
	assert.True(t, id.IsEqualWithoutScopeAndVersion(id.ChangeScope("acme")))
	assert.True(t, id.ChangeVersion(NewRef([]byte("x")).String()).IsSnap())
}

func TestIDs(t *testing.T) {
	a := ID{Name: "a", Version: "0.0.1"}
	b := ID{Name: "b", Version: "0.0.2"}
	c := ID{Scope: "acme", Name: "c"}
	ids := IDs{c, b, a}

	found, ok := ids.SearchWithoutVersion(ID{Name: "b"})
	require.True(t, ok)
	assert.Equal(t, b, found)

	_, ok = ids.Search(ID{Name: "b"})
	assert.False(t, ok)

	assert.Equal(t, IDs{c, a}, ids.Without(IDs{{Name: "b", Version: "9.9.9"}}))

	sorted := ids.Sorted()
	assert.Equal(t, IDs{a, c, b}, sorted)
	assert.Equal(t, IDs{c, b, a}, ids, "Sorted does not mutate the receiver")

	sort.Sort(ids)
	assert.Equal(t, []string{"a@0.0.1", "acme/c", "b@0.0.2"}, ids.Strings())
}
