package index

import (
	"testing"

	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceLane(t *testing.T) {
	fs := afero.NewMemMapFs()

	empty, err := LoadWorkspaceLane(fs, testRoot, "dev")
	require.NoError(t, err)
	assert.Empty(t, empty.IDs)

	source := model.IDs{{Scope: "acme", Name: "p", Version: "1.0.0"}}
	lane := NewWorkspaceLane(fs, testRoot, "dev", source)
	source[0].Version = "9.9.9"
	assert.Equal(t, "1.0.0", lane.IDs[0].Version, "IDs are copied")

	lane.AddEntry(model.ID{Scope: "acme", Name: "p", Version: "1.0.1"})
	lane.AddEntry(model.ID{Scope: "acme", Name: "q", Version: "2.0.0"})
	require.NoError(t, lane.Write())

	loaded, err := LoadWorkspaceLane(fs, testRoot, "dev")
	require.NoError(t, err)
	assert.Equal(t, model.IDs{
		{Scope: "acme", Name: "p", Version: "1.0.1"},
		{Scope: "acme", Name: "q", Version: "2.0.0"},
	}, loaded.IDs)
	assert.True(t, loaded.Has(model.ID{Scope: "acme", Name: "q"}))

	loaded.RemoveEntry(model.ID{Scope: "acme", Name: "q"})
	assert.False(t, loaded.Has(model.ID{Scope: "acme", Name: "q"}))

	exists, err := afero.Exists(fs, "/ws/.cmon/workspace-lanes/dev.yaml")
	require.NoError(t, err)
	assert.True(t, exists)
}
