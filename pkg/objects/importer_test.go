package objects

import (
	"context"
	"testing"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/oneconcern/cmon/pkg/objects/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestImportMany(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	local, remote := newTestStore(t), newTestStore(t)

	ids := make(model.IDs, 0, 3)
	for _, name := range []string{"a", "b", "c"} {
		id := model.ID{Scope: "acme", Name: name}
		h := model.NewHistory(id)

		content := []byte("content of " + name)
		fileRef, err := remote.PutObject(ctx, content)
		require.NoError(t, err)

		v := testVersion(name)
		v.Files[0].Hash = fileRef
		_, err = remote.AppendVersion(ctx, h, "0.0.1", v, nil)
		require.NoError(t, err)
		_, err = remote.PutObject(ctx, []byte(name+"2"))
		require.NoError(t, err)
		_, err = remote.AppendVersion(ctx, h, "0.0.2", testVersion(name+"2"), nil)
		require.NoError(t, err)

		ids = append(ids, id)
	}
	ids[0].Version = "0.0.1"

	importer := NewRemoteImporter(local, remote, ImportConcurrency(2))
	versions, err := importer.ImportMany(ctx, ids)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, model.NewRef([]byte("content of a")), versions[0].Files[0].Hash)
	assert.Equal(t, model.NewRef([]byte("b2")), versions[1].Files[0].Hash, "versionless IDs resolve to the latest version")

	for _, id := range ids {
		h, err := local.GetHistory(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"0.0.1", "0.0.2"}, h.ListVersions())
		assert.False(t, h.IsLocallyChanged(), "imported histories are in sync with the remote")

		for _, ref := range h.Versions {
			_, err := local.GetVersion(ctx, ref)
			require.NoError(t, err)
		}
	}

	data, err := local.GetObject(ctx, model.NewRef([]byte("content of c")))
	require.NoError(t, err)
	assert.Equal(t, "content of c", string(data))

	// importing twice is fine
	_, err = importer.ImportMany(ctx, ids)
	require.NoError(t, err)
}

func TestImportKeepsLocalTags(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	local, remote := newTestStore(t), newTestStore(t)
	id := model.ID{Scope: "acme", Name: "a"}

	_, err := remote.PutObject(ctx, []byte("a"))
	require.NoError(t, err)
	_, err = remote.AppendVersion(ctx, model.NewHistory(id), "0.0.1", testVersion("a"), nil)
	require.NoError(t, err)

	_, err = local.PutObject(ctx, []byte("local"))
	require.NoError(t, err)
	_, err = local.AppendVersion(ctx, model.NewHistory(id), "0.1.0", testVersion("local"), nil)
	require.NoError(t, err)

	_, err = NewRemoteImporter(local, remote).ImportMany(ctx, model.IDs{id.ChangeVersion("0.0.1")})
	require.NoError(t, err)

	h, err := local.GetHistory(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.0.1", "0.1.0"}, h.ListVersions())
	assert.True(t, h.IsLocallyChanged(), "the local tag is still to be exported")
	ref, ok := h.Ref("0.1.0")
	require.True(t, ok)
	v, err := local.GetVersion(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, model.NewRef([]byte("local")), v.Files[0].Hash)
}

func TestImportMissing(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	importer := NewRemoteImporter(newTestStore(t), newTestStore(t))
	_, err := importer.ImportMany(ctx, model.IDs{{Scope: "acme", Name: "ghost"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrImport))
	assert.True(t, errors.Is(err, status.ErrNotFound))
}
