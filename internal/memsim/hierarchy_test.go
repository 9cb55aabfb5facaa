package memsim

import "testing"

// TestPageFaultFanOut is S3: PT with 4 vpages, 2 ppages, page_size=16.
// R:000 (vp0), R:010 (vp1), R:020 (vp2) — the third access page-faults,
// evicting the LRU frame (vp0's), invalidating any TLB entry for vp0 and
// any cache line covering vp0's reassigned physical frame.
func TestPageFaultFanOut(t *testing.T) {
	cfg := &Config{
		TLBNumSets: 1, TLBSetSize: 4,
		PTNumVPages: 4, PTNumPPages: 2, PTPageSize: 16,
		DCNumSets: 1, DCSetSize: 4, DCLineSize: 4, DCWrite: false,
		VirtualAddresses: true, UseTLB: true, UseL2: false,
	}
	h := New(cfg)

	h.Access(0x000, false) // vp0 -> ppage 0
	h.Access(0x010, false) // vp1 -> ppage 1
	h.Access(0x020, false) // vp2 -> page fault, evicts vp0's frame (ppage 0)

	pt := h.PageTableStats()
	if pt.DiskAccesses != 1 {
		// The evicting fault itself is one disk read (reading vp2's page in);
		// vp0's evicted frame was never written, so no writeback is owed on
		// top of that.
		t.Fatalf("disk_accesses = %d, want 1 for a clean eviction", pt.DiskAccesses)
	}

	found := false
	h.tlb.sets[0].EachFromMRU(func(i int) bool {
		line := h.tlb.sets[0].At(i)
		if line.valid && line.vpage == 0 {
			found = true
			return false
		}
		return true
	})
	if found {
		t.Fatalf("TLB entry for vp0 should have been invalidated on page fault")
	}
}

// TestWriteFaultCountsDisk verifies that evicting a dirty frame bumps
// disk_accesses, per spec.md's page-table eviction algorithm.
func TestWriteFaultCountsDisk(t *testing.T) {
	cfg := &Config{
		TLBNumSets: 0, TLBSetSize: 0,
		PTNumVPages: 4, PTNumPPages: 2, PTPageSize: 16,
		DCNumSets: 1, DCSetSize: 4, DCLineSize: 4, DCWrite: false,
		VirtualAddresses: true, UseTLB: false, UseL2: false,
	}
	h := New(cfg)

	h.Access(0x000, true) // vp0, dirtied by the write
	h.Access(0x010, false)
	h.Access(0x020, false) // evicts vp0's (dirty) frame

	if h.PageTableStats().DiskAccesses != 2 {
		// One disk read for the evicting fault (vp2's page in), plus one
		// write-back for the dirty frame it evicted (vp0's).
		t.Fatalf("disk_accesses = %d, want 2 after evicting a dirty frame", h.PageTableStats().DiskAccesses)
	}
}
