package pipesim

import "testing"

// TestSingleInstructionTimings exercises the base case: one instruction
// against an otherwise-empty machine, checking the ordering invariants
// from spec.md §8 rather than hand-derived absolute cycle numbers.
func TestSingleInstructionTimings(t *testing.T) {
	sched := NewScheduler(2, 2, 2, 2, 4, Latencies{FPAdd: 2, FPSub: 2, FPMul: 2, FPDiv: 2})
	prog := NewProgram()

	instr := prog.Append(&Instruction{Op: FADD, IsFP: true, Op1: "1", Op2: "2", Op3: "3"})
	sched.Schedule(instr)

	assertOrdering(t, instr)
	if instr.Timings.Issue != 1 {
		t.Fatalf("first instruction issue = %d, want 1", instr.Timings.Issue)
	}
	if instr.Timings.ExecStart != instr.Timings.Issue+1 {
		t.Fatalf("exec_start = %d, want issue+1 = %d", instr.Timings.ExecStart, instr.Timings.Issue+1)
	}
	if instr.Timings.ExecEnd != instr.Timings.ExecStart-1+2 {
		t.Fatalf("exec_end = %d, want exec_start-1+latency", instr.Timings.ExecEnd)
	}
}

// TestRAWDependenceDelaysExecStart checks the true-dependence rule from
// spec.md §4.6 step 2: a second instruction reading the first's
// destination register must not begin execution before the producer's
// cdb_write commits its result to the bus.
func TestRAWDependenceDelaysExecStart(t *testing.T) {
	sched := NewScheduler(4, 4, 4, 4, 8, Latencies{FPAdd: 2, FPSub: 2, FPMul: 2, FPDiv: 2})
	prog := NewProgram()

	i1 := prog.Append(&Instruction{Op: FADD, IsFP: true, Op1: "1", Op2: "2", Op3: "3"})
	sched.Schedule(i1)
	i2 := prog.Append(&Instruction{Op: FADD, IsFP: true, Op1: "4", Op2: "1", Op3: "5"})
	sched.Schedule(i2)

	assertOrdering(t, i1)
	assertOrdering(t, i2)

	if i2.Timings.ExecStart < i1.Timings.CDBWrite+1 {
		t.Fatalf("instr2 exec_start = %d, must be >= instr1 cdb_write+1 = %d",
			i2.Timings.ExecStart, i1.Timings.CDBWrite+1)
	}
	if i2.Timings.Commit < i1.Timings.Commit+1 {
		t.Fatalf("instr2 commit = %d must be >= instr1 commit+1 = %d (in-order retirement)",
			i2.Timings.Commit, i1.Timings.Commit+1)
	}
	if sched.Delays.TrueDependenceDelays == 0 {
		t.Fatalf("expected a nonzero true-dependence delay for the RAW hazard")
	}
}

// TestROBSaturationDelaysIssue is S6: with reorder_buf=2 and four
// single-cycle instructions, the ROB fills after two in-flight
// instructions and must delay a later instruction's issue until the
// oldest entry commits.
func TestROBSaturationDelaysIssue(t *testing.T) {
	sched := NewScheduler(4, 4, 4, 4, 2, Latencies{FPAdd: 1, FPSub: 1, FPMul: 1, FPDiv: 1})
	prog := NewProgram()

	var instrs []*Instruction
	for i := 0; i < 4; i++ {
		instr := prog.Append(&Instruction{Op: ADD, Op1: "0", Op2: "0", Op3: "0"})
		sched.Schedule(instr)
		instrs = append(instrs, instr)
	}
	for _, instr := range instrs {
		assertOrdering(t, instr)
	}

	for i := 1; i < len(instrs); i++ {
		if instrs[i].Timings.Commit < instrs[i-1].Timings.Commit+1 {
			t.Fatalf("instr %d commit = %d must be >= previous commit+1 = %d",
				i, instrs[i].Timings.Commit, instrs[i-1].Timings.Commit+1)
		}
	}
	if sched.Delays.ReorderBufferDelays == 0 {
		t.Fatalf("expected a nonzero reorder buffer delay once the 2-deep ROB saturates")
	}
}

func assertOrdering(t *testing.T, instr *Instruction) {
	t.Helper()
	ti := instr.Timings
	if ti.Issue >= ti.ExecStart {
		t.Fatalf("issue (%d) must be < exec_start (%d)", ti.Issue, ti.ExecStart)
	}
	if ti.ExecStart > ti.ExecEnd {
		t.Fatalf("exec_start (%d) must be <= exec_end (%d)", ti.ExecStart, ti.ExecEnd)
	}
	if ti.CDBWrite != 0 && ti.CDBWrite < ti.ExecEnd+1 {
		t.Fatalf("cdb_write (%d) must be >= exec_end+1 (%d) when nonzero", ti.CDBWrite, ti.ExecEnd+1)
	}
	if ti.CDBWrite > 0 && ti.Commit < ti.CDBWrite+1 {
		t.Fatalf("commit (%d) must be >= cdb_write+1 (%d) when cdb_write > 0", ti.Commit, ti.CDBWrite+1)
	}
}
