package shadow

import (
	"errors"
	"fmt"

	"github.com/gekko3d/deferred/rt/core"

	"github.com/google/uuid"
)

var (
	ErrAtlasFull      = errors.New("shadow: atlas full")
	ErrInvalidRequest = errors.New("shadow: invalid tile request")
)

// Atlas hands out equal square tiles of a shared shadow target to spot
// and point lights. Slots are scanned first-fit in row-major order and a
// light keeps its tiles for as long as it asks for the same count.
type Atlas struct {
	width  int
	height int
	tile   int
	cols   int
	rows   int

	slots  []uuid.UUID // uuid.Nil marks a free slot
	owners map[uuid.UUID][]int
}

func NewAtlas(width, height, tile int) (*Atlas, error) {
	if tile <= 0 || width < tile || height < tile {
		return nil, fmt.Errorf("shadow: atlas %dx%d cannot hold %d tiles", width, height, tile)
	}
	cols, rows := width/tile, height/tile
	return &Atlas{
		width:  width,
		height: height,
		tile:   tile,
		cols:   cols,
		rows:   rows,
		slots:  make([]uuid.UUID, cols*rows),
		owners: make(map[uuid.UUID][]int),
	}, nil
}

func (a *Atlas) Size() (int, int) { return a.width, a.height }
func (a *Atlas) TileSize() int    { return a.tile }
func (a *Atlas) Capacity() int    { return len(a.slots) }
func (a *Atlas) Owners() int      { return len(a.owners) }

// Free returns the number of unassigned slots.
func (a *Atlas) Free() int {
	n := 0
	for _, id := range a.slots {
		if id == uuid.Nil {
			n++
		}
	}
	return n
}

// RequestTiles returns count tiles for id. A repeated request with the
// same count returns the same tiles; a different count reallocates. When
// not enough slots are free nothing is assigned and ErrAtlasFull is
// returned, with any previous tiles of id already released.
func (a *Atlas) RequestTiles(id uuid.UUID, count int) ([]core.Rect, error) {
	if id == uuid.Nil || count <= 0 {
		return nil, fmt.Errorf("%w: id=%s count=%d", ErrInvalidRequest, id, count)
	}
	if slots, ok := a.owners[id]; ok {
		if len(slots) == count {
			return a.rects(slots), nil
		}
		a.Release(id)
	}

	slots := make([]int, 0, count)
	for i, owner := range a.slots {
		if owner != uuid.Nil {
			continue
		}
		slots = append(slots, i)
		if len(slots) == count {
			break
		}
	}
	if len(slots) < count {
		return nil, fmt.Errorf("%w: %d tiles requested, %d free", ErrAtlasFull, count, len(slots))
	}
	for _, i := range slots {
		a.slots[i] = id
	}
	a.owners[id] = slots
	return a.rects(slots), nil
}

// Tiles returns the tiles currently held by id.
func (a *Atlas) Tiles(id uuid.UUID) ([]core.Rect, bool) {
	slots, ok := a.owners[id]
	if !ok {
		return nil, false
	}
	return a.rects(slots), true
}

// Release frees every tile held by id.
func (a *Atlas) Release(id uuid.UUID) bool {
	slots, ok := a.owners[id]
	if !ok {
		return false
	}
	for _, i := range slots {
		a.slots[i] = uuid.Nil
	}
	delete(a.owners, id)
	return true
}

// Sweep releases the tiles of every owner not in seen and returns how
// many owners were dropped.
func (a *Atlas) Sweep(seen map[uuid.UUID]bool) int {
	n := 0
	for id := range a.owners {
		if !seen[id] {
			a.Release(id)
			n++
		}
	}
	return n
}

// Reset frees the whole atlas.
func (a *Atlas) Reset() {
	for i := range a.slots {
		a.slots[i] = uuid.Nil
	}
	clear(a.owners)
}

func (a *Atlas) slotRect(i int) core.Rect {
	return core.Rect{X: (i % a.cols) * a.tile, Y: (i / a.cols) * a.tile, W: a.tile, H: a.tile}
}

func (a *Atlas) rects(slots []int) []core.Rect {
	out := make([]core.Rect, len(slots))
	for k, i := range slots {
		out[k] = a.slotRect(i)
	}
	return out
}
