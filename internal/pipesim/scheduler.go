package pipesim

// Latencies holds the per-op-type execute latency, fp_* from config;
// stores/loads/integer/branch are implicitly 1 cycle per spec.md §9.
type Latencies struct {
	FPAdd, FPSub, FPMul, FPDiv uint
}

func (l Latencies) of(op OpType) uint {
	switch op {
	case FADD:
		return l.FPAdd
	case FSUB:
		return l.FPSub
	case FMUL:
		return l.FPMul
	case FDIV:
		return l.FPDiv
	default:
		return 1
	}
}

// DelayTotals accumulates the four named delay categories from spec.md §8,
// reported alongside the per-instruction timing table.
type DelayTotals struct {
	ReorderBufferDelays uint
	RSDelays            uint
	TrueDependenceDelays uint
	MemoryConflictDelays uint
}

// Scheduler computes the six timing fields for each instruction in program
// order, per spec.md §4.6.
type Scheduler struct {
	stations  *StationPool
	rob       *ROB
	cdb       CycleBitset
	memPort   CycleBitset
	latencies Latencies

	reorderBufSize int

	Delays DelayTotals
}

// NewScheduler builds a scheduler from the pipeline config's pool
// capacities and latencies.
func NewScheduler(effAddr, ints, fpMuls, fpAdds, reorderBuf int, lat Latencies) *Scheduler {
	return &Scheduler{
		stations:        NewStationPool(effAddr, ints, fpMuls, fpAdds),
		rob:             NewROB(reorderBuf),
		latencies:       lat,
		reorderBufSize:  reorderBuf,
	}
}

// Schedule computes instr's six timing fields given its program-order
// predecessor's already-computed timings, per spec.md §4.6's eight steps.
func (s *Scheduler) Schedule(instr *Instruction) {
	prev := instr.prev
	rs := s.stations.For(instr.Op)

	// 1. issue
	candidate := prev.Timings.Issue + 1

	var robDelay, rsDelay uint
	if s.rob.Full() {
		h := s.rob.Peek()
		if h > candidate {
			robDelay = h - candidate
		}
	}
	if a := rs.PeekMin(); a >= candidate {
		rsDelay = (a + 1) - candidate
	}
	if robDelay > rsDelay {
		s.Delays.ReorderBufferDelays += robDelay
		candidate += robDelay
	} else if rsDelay > 0 {
		s.Delays.RSDelays += rsDelay
		candidate += rsDelay
	}
	instr.Timings.Issue = candidate

	// 2. execute_start
	candidate = instr.Timings.Issue + 1
	if d := s.trueDependenceDeadline(instr); d > candidate {
		s.Delays.TrueDependenceDelays += d - candidate
		candidate = d
	}
	instr.Timings.ExecStart = candidate

	// 3. execute_end
	instr.Timings.ExecEnd = instr.Timings.ExecStart - 1 + s.latencies.of(instr.Op)

	// 4. mem_read
	if instr.Op == LOAD {
		candidate = instr.Timings.ExecEnd + 1
		if store := findRecentStore(prev, instr.Op1, instr.IsFP, s.reorderBufSize); store != nil {
			if store.Timings.Commit > candidate {
				candidate = store.Timings.Commit
			}
		}
		installed := s.memPort.Insert(candidate)
		if installed > candidate {
			s.Delays.MemoryConflictDelays += installed - candidate
		}
		instr.Timings.MemRead = installed
	} else {
		instr.Timings.MemRead = 0
	}

	// 5. release functional unit
	if instr.Op == LOAD {
		rs.Push(instr.Timings.MemRead)
	} else {
		rs.Push(instr.Timings.ExecEnd)
	}

	// 6. cdb_write
	if instr.Op == STORE || instr.Op == BRANCH {
		instr.Timings.CDBWrite = 0
	} else {
		from := instr.Timings.ExecEnd + 1
		if instr.Timings.MemRead != 0 {
			from = instr.Timings.MemRead + 1
		}
		instr.Timings.CDBWrite = s.cdb.Insert(from)
	}

	// 7. commit
	commit := prev.Timings.Commit + 1
	if instr.Timings.CDBWrite+1 > commit {
		commit = instr.Timings.CDBWrite + 1
	}
	instr.Timings.Commit = commit
	if instr.Op == STORE {
		s.memPort.Insert(commit)
	}

	// 8. push onto the reorder buffer
	if s.rob.Full() {
		s.rob.Pop()
	}
	s.rob.Push(commit)
}

// trueDependenceDeadline computes d = max(cdb_write of the most recent
// producer of op2, and for non-load/store op3) + 1, per spec.md §4.6 step
// 2. x0 (register "0") is a constant with no producer.
func (s *Scheduler) trueDependenceDeadline(instr *Instruction) uint {
	var deadline uint

	op2FP := instr.operandIsFP(instr.Op == LOAD || instr.Op == STORE)
	if instr.Op2 != "0" && instr.Op2 != "" {
		if p := findProducer(instr.prev, instr.Op2, op2FP, s.reorderBufSize); p != nil {
			if p.Timings.CDBWrite+1 > deadline {
				deadline = p.Timings.CDBWrite + 1
			}
		}
	}

	if instr.Op != LOAD && instr.Op != STORE && instr.Op3 != "0" && instr.Op3 != "" && instr.Op3 != none {
		if p := findProducer(instr.prev, instr.Op3, instr.IsFP, s.reorderBufSize); p != nil {
			if p.Timings.CDBWrite+1 > deadline {
				deadline = p.Timings.CDBWrite + 1
			}
		}
	}

	return deadline
}
