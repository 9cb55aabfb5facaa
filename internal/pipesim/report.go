package pipesim

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// reportWidth picks a table width: the terminal's width when stdout is a
// tty, otherwise a fixed fallback — mirrors memsim/report.go's reportWidth,
// since this simulator is normally run the same way (trace piped in, report
// piped to a file or less).
func reportWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
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

// Report writes the fixed-column instruction timing table followed by the
// four delay totals, per spec.md §6.
func Report(w io.Writer, instrs []*Instruction, delays DelayTotals) {
	fmt.Fprintf(w, "%-24s %6s %6s %6s %6s %6s %6s\n",
		"instruction", "issue", "exec_s", "exec_e", "mem_rd", "cdb_wr", "commit")
	fmt.Fprintln(w, dashes(reportWidth()))

	for _, instr := range instrs {
		t := instr.Timings
		fmt.Fprintf(w, "%-24s %6d %6d %6d %6d %6d %6d\n",
			instr.Text, t.Issue, t.ExecStart, t.ExecEnd, t.MemRead, t.CDBWrite, t.Commit)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Reorder buffer delays: %d\n", delays.ReorderBufferDelays)
	fmt.Fprintf(w, "Reservation station delays: %d\n", delays.RSDelays)
	fmt.Fprintf(w, "True dependence delays: %d\n", delays.TrueDependenceDelays)
	fmt.Fprintf(w, "Memory conflict delays: %d\n", delays.MemoryConflictDelays)
}
