package memsim

import (
	"github.com/nevetsosu/memhier/internal/bits"
	"github.com/nevetsosu/memhier/internal/lrulist"
)

// cacheLine is one resident cache line: tag, valid/dirty bits. Address
// computation (which bytes the line covers) is derived on demand from the
// line's set index and tag, never stored separately.
type cacheLine struct {
	tag   uint
	valid bool
	dirty bool
}

// CacheStats mirrors the per-access decode/stat fields used by the report.
// MemAccesses counts this level's own traffic to main memory: writebacks of
// a dirty line issued with no `next` level to receive them (spec.md §4.5:
// "writeback... to next (or memory)"/"mem_accesses += 1 if no next").
type CacheStats struct {
	Hit         bool
	Hits, Total uint
	MemAccesses uint
}

// Cache is one level of a set-associative data cache, optionally chained to
// a next (farther-from-CPU) level. writeThrough/noWriteAllocate are coupled
// per spec.md §6/§9: true selects write-through+no-write-allocate, false
// selects write-back+write-allocate — the single legacy "write" toggle from
// the original Config.
type Cache struct {
	numSets, setSize, lineSize uint
	writeThrough               bool

	sets []*lrulist.Set[cacheLine]

	next *Cache // farther from CPU (e.g. L1's next is L2); nil at the last level
	prev *Cache // closer to CPU; nil at L1

	Stats CacheStats
}

// NewCache builds one cache level. Connect L1/L2 afterward with Chain.
func NewCache(numSets, setSize, lineSize uint, writeThrough bool) *Cache {
	sets := make([]*lrulist.Set[cacheLine], numSets)
	for i := range sets {
		sets[i] = lrulist.New[cacheLine](int(setSize))
	}
	return &Cache{
		numSets:      numSets,
		setSize:      setSize,
		lineSize:     lineSize,
		writeThrough: writeThrough,
		sets:         sets,
	}
}

// Chain connects c as the closer-to-CPU level and next as the level behind
// it, establishing the inclusion relationship used for invalidate-range
// fan-out and writeback.
func Chain(c, next *Cache) {
	c.next = next
	next.prev = c
}

// decode splits paddr into (tag, index) per spec.md §4.5: offset_bits =
// log2(line_size), index_bits = log2(num_sets), tag is whatever remains
// above them. Direct-mapped (set_size==1) and fully-associative
// (num_sets==1) are just the limiting cases where index_bits or tag_bits
// collapses to the line's whole remaining width.
func (c *Cache) decode(paddr uint) (tag, index uint) {
	offsetBits := bits.Log2(uint32(c.lineSize))
	line := uint32(paddr) >> offsetBits
	if c.numSets == 1 {
		return uint(line), 0
	}
	indexBits := bits.Log2(uint32(c.numSets))
	index = uint(bits.Field(line, 0, indexBits))
	tag = uint(line >> indexBits)
	return tag, index
}

func (c *Cache) lineBase(tag, index uint) uint {
	return (tag*c.numSets + index) * c.lineSize
}

func (c *Cache) find(tag, index uint) (node int, hit bool) {
	set := c.sets[index]
	found := -1
	set.EachFromMRU(func(i int) bool {
		line := set.At(i)
		if line.valid && line.tag == tag {
			found = i
			return false
		}
		return true
	})
	if found != -1 {
		return found, true
	}
	return -1, false
}

// Read services a load at paddr, recursing to the next level (and
// ultimately main memory) on a miss. Grounded on
// spec.md §4.5's unified read/write algorithm.
func (c *Cache) Read(paddr uint) {
	tag, index := c.decode(paddr)
	c.Stats.Total++

	if node, hit := c.find(tag, index); hit {
		c.Stats.Hit = true
		c.Stats.Hits++
		c.sets[index].Touch(node)
		return
	}

	c.Stats.Hit = false
	if c.next != nil {
		c.next.Read(paddr)
	}
	c.install(tag, index, false)
}

// Write services a store at paddr. On a write-through cache, the write
// passes through to the next level immediately and no dirty bit is set
// (no-write-allocate: a miss does not install a line). On a write-back
// cache, a miss allocates the line and the dirty bit defers the writeback
// until eviction.
func (c *Cache) Write(paddr uint) {
	tag, index := c.decode(paddr)
	c.Stats.Total++

	if node, hit := c.find(tag, index); hit {
		c.Stats.Hit = true
		c.Stats.Hits++
		set := c.sets[index]
		set.Touch(node)
		if c.writeThrough {
			if c.next != nil {
				c.next.Write(paddr)
			}
		} else {
			set.At(node).dirty = true
		}
		return
	}

	c.Stats.Hit = false
	if c.writeThrough {
		if c.next != nil {
			c.next.Write(paddr)
		}
		return
	}

	if c.next != nil {
		c.next.Read(paddr)
	}
	c.install(tag, index, true)
}

// install places a new line at (tag,index), evicting the set's LRU line
// first. The evicted line's range is invalidated inward (toward the CPU)
// via InvalidateRange on this level's own prev chain, since inclusion
// guarantees any line this level holds may also be cached closer in; a
// dirty inner line dropped there is written back into the victim. The
// victim, if dirty, is then written back to the next level once.
func (c *Cache) install(tag, index uint, dirty bool) {
	set := c.sets[index]
	victim := set.LRU()
	old := set.At(victim)
	if old.valid {
		if c.prev != nil {
			c.prev.InvalidateRange(c.lineBase(old.tag, index), c.lineSize)
		}
		if old.dirty {
			c.writeback(old.tag, index)
		}
	}

	*old = cacheLine{tag: tag, valid: true, dirty: dirty}
	set.Touch(victim)
}

// writeback marks the corresponding line dirty in the next level (if
// resident) rather than routing through Write, so a writeback never
// double-counts as a user-facing reference. Inclusion guarantees the next
// level holds the line, since it was read through before this level ever
// installed it. At the outermost level there is no next to mark dirty, so
// the writeback goes straight to main memory instead.
func (c *Cache) writeback(tag, index uint) {
	if c.next == nil {
		c.Stats.MemAccesses++
		return
	}
	base := c.lineBase(tag, index)
	ntag, nindex := c.next.decode(base)
	if node, hit := c.next.find(ntag, nindex); hit {
		nset := c.next.sets[nindex]
		nset.At(node).dirty = true
		nset.Touch(node)
	}
}

// InvalidateRange drops any resident line whose address falls within
// [base, base+size), recursing toward the CPU (prev) first so the
// innermost level is invalidated before this one — the inclusion
// invariant's "invalidate inward first" discipline from spec.md §4.5/§8.
// Steps by the finest line size anywhere in the prev chain, since a
// coarser step here could skip over a smaller inner line's boundary.
func (c *Cache) InvalidateRange(base, size uint) {
	step := c.innermostLineSize()
	for addr := base; addr < base+size; addr += step {
		c.invalidateInward(addr)
	}
}

func (c *Cache) innermostLineSize() uint {
	step := c.lineSize
	for p := c.prev; p != nil; p = p.prev {
		if p.lineSize < step {
			step = p.lineSize
		}
	}
	return step
}

// invalidateInward recurses into prev (closer to CPU) before invalidating
// any matching line at this level. A dirty line being dropped is written
// back to this level's own next first (spec.md §4.5: "if dirty, writeback
// to next"), the same rule eviction uses — invalidation never silently
// drops dirty state.
func (c *Cache) invalidateInward(paddr uint) {
	if c.prev != nil {
		c.prev.invalidateInward(paddr)
	}
	tag, index := c.decode(paddr)
	if node, hit := c.find(tag, index); hit {
		line := c.sets[index].At(node)
		if line.dirty {
			c.writeback(tag, index)
		}
		*line = cacheLine{}
	}
}
