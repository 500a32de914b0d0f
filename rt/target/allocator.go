package target

import "sync"

// Allocator creates and releases the backend images behind targets.
type Allocator interface {
	Allocate(desc Desc) (Handle, error)
	Release(h Handle)
}

// MemoryHandle is the handle type produced by MemoryAllocator.
type MemoryHandle struct {
	ID   uint64
	Desc Desc
}

// MemoryAllocator is a backend-less allocator. It hands out numbered
// handles and keeps track of the live ones, which makes it suitable for
// headless runs and tests.
type MemoryAllocator struct {
	mu     sync.Mutex
	nextID uint64
	live   map[uint64]*MemoryHandle
}

func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{live: make(map[uint64]*MemoryHandle)}
}

func (a *MemoryAllocator) Allocate(desc Desc) (Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	h := &MemoryHandle{ID: a.nextID, Desc: desc}
	a.live[h.ID] = h
	return h, nil
}

func (a *MemoryAllocator) Release(h Handle) {
	mh, ok := h.(*MemoryHandle)
	if !ok || mh == nil {
		return
	}
	a.mu.Lock()
	delete(a.live, mh.ID)
	a.mu.Unlock()
}

// Live returns the number of allocations not yet released.
func (a *MemoryAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Allocations returns the total number of Allocate calls so far.
func (a *MemoryAllocator) Allocations() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nextID
}
