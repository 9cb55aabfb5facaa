package memsim

import "github.com/nevetsosu/memhier/internal/lrulist"

// frame is the inverse-map payload carried by each node of the allocator's
// LRU set: which virtual page currently owns this physical frame, and
// whether it holds unwritten data. Mirrors the PAlloc/inverse-map entry
// described in spec.md §3, grounded on original_source/memhier/solution/src/palloc.c.
type frame struct {
	vpage uint
	valid bool
	dirty bool
}

// FrameAllocator hands out physical frames: never-issued frames first
// (cursor scan), then LRU eviction once every frame has been used at least
// once. Grounded on palloc.c's palloc_new_page cursor walk plus the
// inverse-map eviction path sketched in ptable.c's _ptable_evict.
//
// Physical frames are numbered 0..numPPages-1, matching spec.md's ppage
// addressing (ppage*page_size+offset). lrulist.Set's nodes are 1-based
// (node 0 is its sentinel), so every frame number is translated to a node
// index (node = ppage+1) at the boundary with the Set; callers of this type
// only ever see 0-based frame numbers.
type FrameAllocator struct {
	set       *lrulist.Set[frame]
	issued    []bool // whether physical frame i has ever been handed out
	cursor    uint   // next never-issued frame to try, 0-based frame number
	numIssued int
}

// NewFrameAllocator builds an allocator over numPPages physical frames.
func NewFrameAllocator(numPPages uint) *FrameAllocator {
	return &FrameAllocator{
		set:    lrulist.New[frame](int(numPPages)),
		issued: make([]bool, numPPages),
	}
}

// Acquire returns the physical frame to map vpage into, evicting the LRU
// frame if every frame has already been issued once. evicted reports the
// frame number and its inverse-map entry when an eviction occurred, so the
// caller (PageTable) can invalidate stale TLB entries and cache lines.
func (a *FrameAllocator) Acquire(vpage uint) (ppage uint, evicted bool, evictedFrame uint, evictedEntry frame) {
	if a.numIssued < a.set.Cap() {
		for a.issued[a.cursor] {
			a.cursor = (a.cursor + 1) % uint(a.set.Cap())
		}
		ppage = a.cursor
		a.issued[a.cursor] = true
		a.numIssued++
		a.cursor = (a.cursor + 1) % uint(a.set.Cap())

		node := int(ppage) + 1
		a.set.Touch(node)
		*a.set.At(node) = frame{vpage: vpage, valid: true}
		return ppage, false, 0, frame{}
	}

	lruNode := a.set.LRU()
	evictedEntry = *a.set.At(lruNode)
	evictedFrame = uint(lruNode - 1)
	evicted = true

	a.set.Touch(lruNode)
	*a.set.At(lruNode) = frame{vpage: vpage, valid: true}
	return evictedFrame, evicted, evictedFrame, evictedEntry
}

// Touch marks ppage as most-recently-used without changing its mapping,
// used on a page-table hit.
func (a *FrameAllocator) Touch(ppage uint) {
	a.set.Touch(int(ppage) + 1)
}

// SetDirty marks ppage's resident page dirty, used on a write access.
func (a *FrameAllocator) SetDirty(ppage uint) {
	a.set.At(int(ppage) + 1).dirty = true
}

// Entry returns the inverse-map entry currently resident in ppage.
func (a *FrameAllocator) Entry(ppage uint) frame {
	return *a.set.At(int(ppage) + 1)
}
