package model

import (
	"testing"
	"time"

	"github.com/oneconcern/cmon/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLaneName(t *testing.T) {
	tests := []struct {
		name    string
		lane    string
		wantErr bool
	}{
		{name: "success", lane: "feature1", wantErr: false},
		{name: "success with specials", lane: "feat-x_y$z!", wantErr: false},
		{name: "empty", lane: "", wantErr: true},
		{name: "uppercase", lane: "Feature", wantErr: true},
		{name: "dot", lane: "feature.x", wantErr: true},
		{name: "slash", lane: "feature/x", wantErr: true},
		{name: "space", lane: "feature x", wantErr: true},
		{name: "non ascii", lane: "fé", wantErr: true},
	}
	for _, tts := range tests {
		tt := tts
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateLaneName(tt.lane)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidLaneName))
		})
	}
}

func TestNewLane(t *testing.T) {
	ts := time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC)
	source := []LaneComponent{
		{ID: ID{Name: "p", Version: "1.0.0"}, Head: NewRef([]byte("p"))},
		{ID: ID{Name: "q", Version: "2.0.0"}, Head: NewRef([]byte("q"))},
	}
	l := NewLane("feature-x",
		LaneComponents(source),
		LaneTimestamp(ts),
		LaneContributor(Contributor{Name: "dev"}),
	)
	require.NotEmpty(t, l.ID)
	assert.Equal(t, ts, l.Timestamp)
	assert.Equal(t, source, l.Components)
	assert.Equal(t, LaneID{Name: "feature-x"}, l.LaneID())

	source[0].Head = NewRef([]byte("moved"))
	assert.Equal(t, NewRef([]byte("p")), l.Components[0].Head, "components are copied")

	other := NewLane("feature-y")
	assert.NotEqual(t, l.ID, other.ID)
	assert.Empty(t, other.Components)
}

func TestLaneComponents(t *testing.T) {
	l := NewLane("dev")
	l.AddComponent(ID{Name: "p", Version: "1.0.0"}, NewRef([]byte("1")))
	l.AddComponent(ID{Name: "p", Version: "1.0.1"}, NewRef([]byte("2")))
	require.Len(t, l.Components, 1)

	c, ok := l.GetComponent(ID{Name: "p"})
	require.True(t, ok)
	assert.Equal(t, "1.0.1", c.ID.Version)
	assert.Equal(t, NewRef([]byte("2")), c.Head)

	_, ok = l.GetComponent(ID{Name: "q"})
	assert.False(t, ok)
	assert.Equal(t, IDs{{Name: "p", Version: "1.0.1"}}, l.IDs())
}

func TestLaneID(t *testing.T) {
	assert.True(t, DefaultLaneID().IsDefault())
	assert.True(t, LaneID{}.IsDefault())
	assert.Equal(t, DefaultLane, LaneID{}.String())
	assert.False(t, LaneID{Name: "dev"}.IsDefault())
}
