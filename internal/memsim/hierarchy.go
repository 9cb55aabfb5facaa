package memsim

// Hierarchy owns one complete memory-hierarchy instance for a simulation
// run: the optional TLB, the page table, and the L1/L2 cache chain. It is
// the only thing that holds direct references to all three subsystems.
// The TLB holds its PageTable to delegate misses; PageTable never points at
// the TLB or at Cache directly, only through the closures wired up in New.
type Hierarchy struct {
	cfg *Config

	pt  *PageTable
	tlb *TLB
	l1  *Cache
	l2  *Cache
}

// New builds a Hierarchy from a parsed Config, wiring the page table's
// eviction fan-out to the TLB and cache chain per spec.md §9's
// callback-based redesign.
func New(cfg *Config) *Hierarchy {
	h := &Hierarchy{cfg: cfg}

	h.pt = NewPageTable(cfg.PTNumVPages, cfg.PTNumPPages, cfg.PTPageSize)

	if cfg.UseTLB {
		h.tlb = NewTLB(cfg.TLBNumSets, cfg.TLBSetSize, h.pt)
	}

	h.l1 = NewCache(cfg.DCNumSets, cfg.DCSetSize, cfg.DCLineSize, cfg.DCWrite)
	if cfg.UseL2 {
		h.l2 = NewCache(cfg.L2NumSets, cfg.L2SetSize, cfg.L2LineSize, cfg.L2Write)
		Chain(h.l1, h.l2)
	}

	h.pt.ConnectInvalidation(
		func(ppage uint) {
			if h.tlb != nil {
				h.tlb.InvalidatePPage(ppage)
			}
		},
		func(ppageBase, pageSize uint) {
			// Invalidation enters at the outermost level and propagates
			// inward to L1 via invalidateInward's prev-first recursion.
			outermost := h.l1
			if h.l2 != nil {
				outermost = h.l2
			}
			outermost.InvalidateRange(ppageBase, pageSize)
		},
	)

	return h
}

// Access resolves a virtual (or physical, when VirtualAddresses is false)
// address through translation and then the cache chain, for one trace
// line's worth of work.
func (h *Hierarchy) Access(addr uint, isWrite bool) {
	paddr := addr
	if h.cfg.VirtualAddresses {
		if h.tlb != nil {
			paddr = h.tlb.Translate(addr, h.cfg.PTPageSize, isWrite)
		} else {
			paddr = h.pt.Translate(addr, isWrite)
		}
	}

	if isWrite {
		h.l1.Write(paddr)
	} else {
		h.l1.Read(paddr)
	}
}

// PageTableStats, TLBStats, L1Stats, L2Stats expose the last-access and
// cumulative counters for the report writer. L2Stats's second return value
// is false when L2 is disabled.
func (h *Hierarchy) PageTableStats() PTableStats { return h.pt.Stats }

func (h *Hierarchy) TLBStats() (TLBStats, bool) {
	if h.tlb == nil {
		return TLBStats{}, false
	}
	return h.tlb.Stats, true
}

func (h *Hierarchy) L1Stats() CacheStats { return h.l1.Stats }

func (h *Hierarchy) L2Stats() (CacheStats, bool) {
	if h.l2 == nil {
		return CacheStats{}, false
	}
	return h.l2.Stats, true
}
