package shadow

import (
	"testing"

	"github.com/gekko3d/deferred/rt/core"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAtlas(t *testing.T) {
	a, err := NewAtlas(2048, 2048, 512)
	require.NoError(t, err)
	assert.Equal(t, 16, a.Capacity())
	assert.Equal(t, 16, a.Free())

	_, err = NewAtlas(256, 256, 512)
	assert.Error(t, err)
	_, err = NewAtlas(256, 256, 0)
	assert.Error(t, err)
}

func TestAtlas_StableAllocation(t *testing.T) {
	a, err := NewAtlas(2048, 2048, 512)
	require.NoError(t, err)

	spot, point := uuid.New(), uuid.New()
	first, err := a.RequestTiles(spot, 1)
	require.NoError(t, err)
	assert.Equal(t, []core.Rect{{X: 0, Y: 0, W: 512, H: 512}}, first)

	faces, err := a.RequestTiles(point, core.CubeFaces)
	require.NoError(t, err)
	require.Len(t, faces, core.CubeFaces)

	again, err := a.RequestTiles(spot, 1)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	held, ok := a.Tiles(point)
	require.True(t, ok)
	assert.Equal(t, faces, held)
	assert.Equal(t, 16-7, a.Free())

	all := append(append([]core.Rect{}, first...), faces...)
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			assert.False(t, all[i].Overlaps(all[j]), "%v overlaps %v", all[i], all[j])
		}
	}
}

func TestAtlas_CountChangeReallocates(t *testing.T) {
	a, err := NewAtlas(1024, 1024, 512)
	require.NoError(t, err)

	id := uuid.New()
	_, err = a.RequestTiles(id, 1)
	require.NoError(t, err)
	tiles, err := a.RequestTiles(id, 3)
	require.NoError(t, err)
	assert.Len(t, tiles, 3)
	assert.Equal(t, 1, a.Free())
	assert.Equal(t, 1, a.Owners())
}

func TestAtlas_Exhaustion(t *testing.T) {
	a, err := NewAtlas(1024, 1024, 512)
	require.NoError(t, err)

	_, err = a.RequestTiles(uuid.New(), core.CubeFaces)
	assert.ErrorIs(t, err, ErrAtlasFull)
	assert.Equal(t, 4, a.Free())

	first := uuid.New()
	_, err = a.RequestTiles(first, 3)
	require.NoError(t, err)

	second := uuid.New()
	_, err = a.RequestTiles(second, 2)
	assert.ErrorIs(t, err, ErrAtlasFull)
	_, ok := a.Tiles(second)
	assert.False(t, ok)

	assert.True(t, a.Release(first))
	assert.False(t, a.Release(first))
	assert.Equal(t, 4, a.Free())

	_, err = a.RequestTiles(second, 2)
	assert.NoError(t, err)
}

func TestAtlas_Sweep(t *testing.T) {
	a, err := NewAtlas(2048, 2048, 512)
	require.NoError(t, err)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		_, err := a.RequestTiles(id, 2)
		require.NoError(t, err)
	}
	dropped := a.Sweep(map[uuid.UUID]bool{ids[1]: true})
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 1, a.Owners())
	assert.Equal(t, 14, a.Free())

	a.Reset()
	assert.Equal(t, 16, a.Free())
	assert.Zero(t, a.Owners())
}

func TestAtlas_InvalidRequest(t *testing.T) {
	a, err := NewAtlas(1024, 1024, 512)
	require.NoError(t, err)

	_, err = a.RequestTiles(uuid.Nil, 1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = a.RequestTiles(uuid.New(), 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAtlas_DebugImage(t *testing.T) {
	a, err := NewAtlas(1024, 1024, 512)
	require.NoError(t, err)
	id := uuid.New()
	_, err = a.RequestTiles(id, 1)
	require.NoError(t, err)

	img := a.DebugImage(4)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
	assert.Equal(t, ownerColor(id), img.RGBAAt(64, 80))
	assert.Equal(t, debugFree, img.RGBAAt(192, 192))
	assert.Equal(t, debugOutline, img.RGBAAt(128, 10))
}
