package memsim

import (
	"github.com/nevetsosu/memhier/internal/bits"
	"github.com/nevetsosu/memhier/internal/lrulist"
)

// tlbLine is one TLB entry: the vpage tag it maps and whether the slot is
// currently in use. Grounded on original_source/memhier/sdao_memhier/src/tlb.c's TLBEntry.
type tlbLine struct {
	vpage uint
	ppage uint
	valid bool
}

// TLBStats mirrors the original per-access TLB decode/stat fields.
type TLBStats struct {
	Hit         bool
	Hits, Total uint
}

// TLB is a set-associative cache of (vpage -> ppage) translations, each set
// an LRU-managed lrulist.Set. A miss always falls through to the page
// table, as described in spec.md §4.4.
type TLB struct {
	sets    []*lrulist.Set[tlbLine]
	setSize uint
	numSets uint

	pt *PageTable

	Stats TLBStats
}

// NewTLB builds a TLB with numSets sets of setSize entries each, delegating
// misses to pt.
func NewTLB(numSets, setSize uint, pt *PageTable) *TLB {
	sets := make([]*lrulist.Set[tlbLine], numSets)
	for i := range sets {
		sets[i] = lrulist.New[tlbLine](int(setSize))
	}
	return &TLB{sets: sets, setSize: setSize, numSets: numSets, pt: pt}
}

// Translate resolves vaddr through the TLB, consulting the page table on a
// miss and installing the resulting translation. Grounded on tlb.c's
// _TLB_get: scan for a valid tag match first, else take the first invalid
// slot, else evict the set's LRU entry.
func (t *TLB) Translate(vaddr, pageSize uint, isWrite bool) uint {
	offsetBits := bits.Log2(uint32(pageSize))
	vpage := uint(uint32(vaddr) >> offsetBits)
	offset := vaddr - vpage*pageSize
	setIdx := vpage % t.numSets

	t.Stats.Total++
	set := t.sets[setIdx]

	hit := -1
	set.EachFromMRU(func(i int) bool {
		line := set.At(i)
		if line.valid && line.vpage == vpage {
			hit = i
			return false
		}
		return true
	})

	if hit != -1 {
		t.Stats.Hit = true
		t.Stats.Hits++
		line := set.At(hit)
		set.Touch(hit)
		t.pt.TouchFrame(line.ppage, isWrite)
		return line.ppage*pageSize + offset
	}

	t.Stats.Hit = false

	paddr := t.pt.Translate(vaddr, isWrite)
	ppage := paddr / pageSize

	slot := -1
	set.EachFromLRU(func(i int) bool {
		if !set.At(i).valid {
			slot = i
			return false
		}
		return true
	})
	if slot == -1 {
		slot = set.LRU()
	}

	*set.At(slot) = tlbLine{vpage: vpage, ppage: ppage, valid: true}
	set.Touch(slot)

	return paddr
}

// InvalidatePPage clears every TLB entry mapping ppage, scanning every set
// without disturbing LRU order — mirrors TLB_invalidate_ppage in tlb.c.
func (t *TLB) InvalidatePPage(ppage uint) {
	for _, set := range t.sets {
		set.EachFromMRU(func(i int) bool {
			line := set.At(i)
			if line.valid && line.ppage == ppage {
				line.valid = false
			}
			return true
		})
	}
}
