package memsim

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// reportWidth picks a table width: the terminal's width when stdout is a
// tty, otherwise a fixed fallback — this simulator is normally run with its
// trace piped in and its report piped to a file, so GetSize failing is the
// common case, not an error worth surfacing.
func reportWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// PerAccessLine writes one fixed-column row of the per-trace-entry table:
// the access kind, address, and each level's hit/miss, following the
// column layout named in spec.md §6.
func PerAccessLine(w io.Writer, lineNo uint, a Access, h *Hierarchy) {
	kind := "R"
	if a.IsWrite {
		kind = "W"
	}
	fmt.Fprintf(w, "%6d  %s  %08x", lineNo, kind, a.Addr)

	if tlbStats, ok := h.TLBStats(); ok {
		fmt.Fprintf(w, "  tlb:%s", hitMiss(tlbStats.Hit))
	}
	fmt.Fprintf(w, "  pt:%s", hitMiss(h.PageTableStats().Hit))
	fmt.Fprintf(w, "  l1:%s", hitMiss(h.L1Stats().Hit))
	if l2Stats, ok := h.L2Stats(); ok {
		fmt.Fprintf(w, "  l2:%s", hitMiss(l2Stats.Hit))
	}
	fmt.Fprintln(w)
}

func hitMiss(hit bool) string {
	if hit {
		return "hit "
	}
	return "miss"
}

// Summary writes the final block: hits/misses/ratios per level, plus
// reads/writes, main-memory refs, page-table refs, and disk refs.
func Summary(w io.Writer, cfg *Config, h *Hierarchy, reads, writes uint) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-20s %10s %10s %10s %8s\n", "Level", "Hits", "Misses", "Accesses", "Ratio")
	fmt.Fprintln(w, dashes(reportWidth()))

	if tlbStats, ok := h.TLBStats(); ok {
		printLevel(w, "TLB", tlbStats.Hits, tlbStats.Total)
	}
	pt := h.PageTableStats()
	printLevel(w, "Page Table", pt.Hits, pt.Total)

	l1 := h.L1Stats()
	printLevel(w, "L1 Cache", l1.Hits, l1.Total)

	var memAccesses uint
	if l2Stats, ok := h.L2Stats(); ok {
		printLevel(w, "L2 Cache", l2Stats.Hits, l2Stats.Total)
		memAccesses = l2Stats.Total - l2Stats.Hits + l2Stats.MemAccesses
	} else {
		memAccesses = l1.Total - l1.Hits + l1.MemAccesses
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Reads: %d\n", reads)
	fmt.Fprintf(w, "Writes: %d\n", writes)
	fmt.Fprintf(w, "Main memory references: %d\n", memAccesses)
	fmt.Fprintf(w, "Page table references: %d\n", pt.Total)
	fmt.Fprintf(w, "Disk references: %d\n", pt.DiskAccesses)
}

func dashes(n int) string {
	if n > 120 {
		n = 120
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

func printLevel(w io.Writer, name string, hits, total uint) {
	misses := total - hits
	ratio := 0.0
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	fmt.Fprintf(w, "%-20s %10d %10d %10d %7.2f%%\n", name, hits, misses, total, ratio*100)
}
