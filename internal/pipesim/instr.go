package pipesim

// Timings holds the six per-instruction cycle fields the scheduler
// computes, mutated exactly once.
type Timings struct {
	Issue, ExecStart, ExecEnd, MemRead, CDBWrite, Commit uint
}

// none is the sentinel register name for an unused operand slot: Op1 of a
// BRANCH (no destination) and Op3 of a LOAD/STORE.
const none = "none"

// Instruction is one parsed trace entry, linked into program order. Op1 is
// the destination register for everything but STORE/BRANCH: a STORE keeps
// its stored-value register there, a BRANCH the sentinel "none"; Op2/Op3
// are source operands. Grounded on
// original_source/tomasulo/mine/instr.c's instr_parse.
type Instruction struct {
	Text string
	Op   OpType
	IsFP bool

	Op1, Op2, Op3 string

	Timings Timings

	prev, next *Instruction
}

// Program is a doubly-linked, program-order list of instructions with a
// static sentinel so the first real instruction always has a
// well-defined, all-zero predecessor.
type Program struct {
	sentinel *Instruction
	tail     *Instruction
}

// NewProgram builds an empty program.
func NewProgram() *Program {
	s := &Instruction{Op1: none, Op2: none, Op3: none}
	return &Program{sentinel: s, tail: s}
}

// Append adds instr to the end of program order and returns it.
func (p *Program) Append(instr *Instruction) *Instruction {
	instr.prev = p.tail
	p.tail.next = instr
	p.tail = instr
	return instr
}

// Prev returns instr's program-order predecessor (the sentinel for the
// first instruction).
func (instr *Instruction) Prev() *Instruction {
	return instr.prev
}

// destRegister returns the register instr writes, or "" if it writes none
// (STORE, BRANCH never produce a value, per spec.md §4.6's dependence
// search).
func (instr *Instruction) destRegister() string {
	if instr.Op == STORE || instr.Op == BRANCH {
		return ""
	}
	return instr.Op1
}

// operandIsFP reports the floating-ness to use when matching a producer
// for an operand: LOAD/STORE base/address operands use the integer
// register file regardless of the instruction's own floating-ness.
func (instr *Instruction) operandIsFP(isAddrOperand bool) bool {
	if (instr.Op == LOAD || instr.Op == STORE) && isAddrOperand {
		return false
	}
	return instr.IsFP
}

// findProducer walks backward from instr's predecessor, up to limit
// instructions, looking for the most recent instruction whose destination
// register equals reg and whose floating-ness equals fp. Returns nil if
// none is found within the window.
func findProducer(from *Instruction, reg string, fp bool, limit int) *Instruction {
	cur := from
	for i := 0; i < limit && cur != nil; i++ {
		if d := cur.destRegister(); d != "" && d == reg && cur.IsFP == fp {
			return cur
		}
		cur = cur.prev
	}
	return nil
}

// findRecentStore walks backward from instr's predecessor, up to limit
// instructions, looking for a STORE whose stored-value register (Op1 in
// the store trace grammar) matches reg/fp — used by mem_read's
// store-to-load ordering check in spec.md §4.6 step 4.
func findRecentStore(from *Instruction, reg string, fp bool, limit int) *Instruction {
	cur := from
	for i := 0; i < limit && cur != nil; i++ {
		if cur.Op == STORE && cur.Op1 == reg && cur.IsFP == fp {
			return cur
		}
		cur = cur.prev
	}
	return nil
}
