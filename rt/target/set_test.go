package target

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingAllocator struct {
	*MemoryAllocator
	failAfter int
	calls     int
}

func (a *failingAllocator) Allocate(d Desc) (Handle, error) {
	a.calls++
	if a.calls > a.failAfter {
		return nil, errors.New("device lost")
	}
	return a.MemoryAllocator.Allocate(d)
}

func TestNewDeferredSet(t *testing.T) {
	alloc := NewMemoryAllocator()
	s, err := NewDeferredSet(alloc, 640, 480, 2048, 1024)
	require.NoError(t, err)

	names := []string{SelectMap, DepthMap, NormalsMap, DiffuseMap, ParamsMap, EmissiveMap, ShadowMap, ShadowAtlas}
	require.Len(t, s.Targets(), len(names))
	for i, tgt := range s.Targets() {
		assert.Equal(t, names[i], tgt.Name())
	}
	assert.Equal(t, 8, alloc.Live())

	sm := s.Get(ShadowMap)
	require.NotNil(t, sm)
	assert.True(t, sm.Fixed())
	assert.Equal(t, FormatDepth24, sm.Format())
	w, h := sm.Size()
	assert.Equal(t, 2048, w)
	assert.Equal(t, 2048, h)

	atlas := s.Get(ShadowAtlas)
	require.NotNil(t, atlas)
	assert.Equal(t, 1024, atlas.Width())

	em := s.Get(EmissiveMap)
	assert.False(t, em.Fixed())
	assert.Equal(t, FormatR11G11B10F, em.Format())
	assert.Equal(t, 640, em.Width())
	assert.Equal(t, 480, em.Height())
}

func TestSet_ResizeRoundTrip(t *testing.T) {
	alloc := NewMemoryAllocator()
	s, err := NewDeferredSet(alloc, 800, 600, 2048, 2048)
	require.NoError(t, err)

	depth := s.Get(DepthMap)
	oldHandle := depth.Handle()

	require.NoError(t, s.Resize(1920, 1080))
	assert.Equal(t, 1920, depth.Width())
	assert.Equal(t, 1080, depth.Height())
	assert.NotEqual(t, oldHandle, depth.Handle())
	assert.Equal(t, 2048, s.Get(ShadowMap).Width())
	assert.Equal(t, 2048, s.Get(ShadowAtlas).Height())

	require.NoError(t, s.Resize(800, 600))
	for _, tgt := range s.Targets() {
		w, h := tgt.Size()
		if tgt.Fixed() {
			assert.Equal(t, 2048, w, tgt.Name())
			assert.Equal(t, 2048, h, tgt.Name())
			continue
		}
		assert.Equal(t, 800, w, tgt.Name())
		assert.Equal(t, 600, h, tgt.Name())
	}
	// Old handles are released on every reallocation.
	assert.Equal(t, 8, alloc.Live())
}

func TestSet_ResizeRejectsInvalid(t *testing.T) {
	s, err := NewDeferredSet(NewMemoryAllocator(), 320, 200, 512, 512)
	require.NoError(t, err)

	for _, sz := range [][2]int{{0, 200}, {320, 0}, {-1, -1}} {
		err := s.Resize(sz[0], sz[1])
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
	w, h := s.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
	assert.Equal(t, 320, s.Get(NormalsMap).Width())
}

func TestSet_ResizeFailureKeepsTargets(t *testing.T) {
	alloc := &failingAllocator{MemoryAllocator: NewMemoryAllocator(), failAfter: 8}
	s, err := NewDeferredSet(alloc, 320, 200, 512, 512)
	require.NoError(t, err)

	// The second reallocation fails; nothing may be half resized.
	alloc.failAfter = alloc.calls + 1
	err = s.Resize(640, 400)
	require.Error(t, err)
	for _, tgt := range s.Targets() {
		if !tgt.Fixed() {
			assert.Equal(t, 320, tgt.Width(), tgt.Name())
		}
	}
	assert.Equal(t, 8, alloc.Live())
}

func TestNewDeferredSet_AllocationFailureReleases(t *testing.T) {
	alloc := &failingAllocator{MemoryAllocator: NewMemoryAllocator(), failAfter: 3}
	s, err := NewDeferredSet(alloc, 320, 200, 512, 512)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Equal(t, 0, alloc.Live())
}

func TestSet_AddAndLookup(t *testing.T) {
	s, err := NewSet(NewMemoryAllocator(), 100, 100)
	require.NoError(t, err)

	_, err = s.Add("bloom", FormatRGBA8)
	require.NoError(t, err)
	_, err = s.Add("bloom", FormatRGBA8)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.Lookup("missing")
	assert.ErrorIs(t, err, ErrUnknownTarget)

	s.Close()
	_, err = s.Add("late", FormatRGBA8)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Resize(10, 10), ErrClosed)
}

func TestNewSet_InvalidArgs(t *testing.T) {
	_, err := NewSet(nil, 10, 10)
	assert.Error(t, err)
	_, err = NewSet(NewMemoryAllocator(), 0, 10)
	assert.ErrorIs(t, err, ErrInvalidSize)
}
