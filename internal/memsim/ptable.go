package memsim

import "github.com/nevetsosu/memhier/internal/bits"

// PTableStats mirrors the original PTableStats: the last decoded fields
// plus the running hit/access counters used by the report.
type PTableStats struct {
	VPage, PPage, Offset uint
	Hit                  bool
	Hits, Total          uint
	DiskAccesses         uint
}

// PageTable translates virtual pages to physical frames, backed by a
// FrameAllocator. On a miss that forces an eviction, it fans invalidation
// out to the TLB and every cache level via the callbacks registered with
// ConnectInvalidation — spec.md §9's redesign flag calls for this instead
// of raw back-pointers between PageTable, TLB, and Cache.
type PageTable struct {
	pageSize uint

	frames *FrameAllocator
	vtop   map[uint]uint // resident vpage -> ppage, forward direction

	Stats PTableStats

	onEvictPPage func(ppage uint)
	onEvictRange func(ppageBase, pageSize uint)
}

// NewPageTable builds a page table over numVPages virtual pages mapping
// onto numPPages physical frames of pageSize bytes each.
func NewPageTable(numVPages, numPPages, pageSize uint) *PageTable {
	return &PageTable{
		pageSize: pageSize,
		frames:   NewFrameAllocator(numPPages),
		vtop:     make(map[uint]uint, numVPages),
	}
}

// ConnectInvalidation registers the callbacks invoked when a physical frame
// is reused for a different virtual page: onEvictPPage is told which ppage
// lost its mapping (for TLB entry invalidation), onEvictRange is told the
// byte range that frame covered (for cache line invalidation).
func (pt *PageTable) ConnectInvalidation(onEvictPPage func(ppage uint), onEvictRange func(ppageBase, pageSize uint)) {
	pt.onEvictPPage = onEvictPPage
	pt.onEvictRange = onEvictRange
}

// TouchFrame updates frame LRU/dirty state for a translation that was
// resolved entirely within the TLB (ppage already known, no page-table walk
// needed). Per spec.md §4.4, a TLB hit has "the same observable effect as
// §4.3 for the caller" — the resident frame must still be touched and
// dirtied on write, it just does not move the page table's own hit/miss
// counters since the page table was never consulted.
func (pt *PageTable) TouchFrame(ppage uint, isWrite bool) {
	pt.frames.Touch(ppage)
	if isWrite {
		pt.frames.SetDirty(ppage)
	}
}

// Translate resolves vaddr to a physical address, growing the resident set
// and evicting via LRU when necessary. Grounded on
// original_source/memhier/solution/src/ptable.c's ptable_virt_phys.
func (pt *PageTable) Translate(vaddr uint, isWrite bool) uint {
	offsetBits := bits.Log2(uint32(pt.pageSize))
	vpage := uint(uint32(vaddr) >> offsetBits)
	offset := vaddr - vpage*pt.pageSize

	pt.Stats.Total++
	pt.Stats.VPage = vpage
	pt.Stats.Offset = offset

	if ppage, ok := pt.vtop[vpage]; ok {
		pt.Stats.Hit = true
		pt.Stats.Hits++
		pt.Stats.PPage = ppage
		pt.frames.Touch(ppage)
		if isWrite {
			pt.frames.SetDirty(ppage)
		}
		return ppage*pt.pageSize + offset
	}

	pt.Stats.Hit = false

	ppage, evicted, evictedFrame, evictedEntry := pt.frames.Acquire(vpage)
	if evicted {
		pt.Stats.DiskAccesses++ // reading the faulting page in from disk
		if evictedEntry.dirty {
			pt.Stats.DiskAccesses++ // plus a write-back of the evicted frame, since it was dirty
		}
		delete(pt.vtop, evictedEntry.vpage)
		if pt.onEvictPPage != nil {
			pt.onEvictPPage(evictedFrame)
		}
		if pt.onEvictRange != nil {
			pt.onEvictRange(evictedFrame*pt.pageSize, pt.pageSize)
		}
	}

	pt.vtop[vpage] = ppage
	pt.Stats.PPage = ppage
	if isWrite {
		pt.frames.SetDirty(ppage)
	}
	return ppage*pt.pageSize + offset
}
