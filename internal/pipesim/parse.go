package pipesim

import (
	"fmt"
	"strings"
)

// arithmeticOps maps a trace opcode mnemonic to its OpType, for the
// arithmetic and load/store-disambiguation shapes described in spec.md §6.
var arithmeticOps = map[string]OpType{
	"add": ADD, "sub": SUB,
	"fadd": FADD, "fsub": FSUB,
	"fmul": FMUL, "fdiv": FDIV,
}

// ParseLine parses one pipeline-trace line into an Instruction, trying the
// three line shapes in spec.md §6 / original_source/tomasulo/mine/instr.c:
// load/store, arithmetic, then branch.
func ParseLine(line string) (*Instruction, error) {
	text := strings.TrimSpace(line)
	if text == "" {
		return nil, fmt.Errorf("empty trace line")
	}

	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil, fmt.Errorf("malformed trace line %q", text)
	}
	mnemonic := fields[0]
	rest := strings.Join(fields[1:], "")

	isFP := strings.HasPrefix(mnemonic, "f")

	if instr, err := parseLoadStore(mnemonic, rest, isFP); err == nil {
		instr.Text = text
		return instr, nil
	}

	if instr, err := parseArithmetic(mnemonic, rest, isFP); err == nil {
		instr.Text = text
		return instr, nil
	}

	if instr, err := parseBranch(mnemonic, rest); err == nil {
		instr.Text = text
		return instr, nil
	}

	return nil, fmt.Errorf("instruction not recognized: %q", text)
}

// parseLoadStore matches "<rd>,<imm>(<rs1>):<addr>", opcode suffix 's'
// (store) or 'l' (load) sitting right before the final 'w'.
func parseLoadStore(mnemonic, rest string, isFP bool) (*Instruction, error) {
	if len(mnemonic) < 2 {
		return nil, fmt.Errorf("opcode too short for load/store")
	}
	kindPos := len(mnemonic) - 2
	var op OpType
	switch mnemonic[kindPos] {
	case 's':
		op = STORE
	case 'l':
		op = LOAD
	default:
		return nil, fmt.Errorf("not a load/store opcode")
	}

	open := strings.IndexByte(rest, '(')
	closeP := strings.IndexByte(rest, ')')
	colon := strings.IndexByte(rest, ':')
	if open < 0 || closeP < 0 || colon < 0 || open > closeP || closeP > colon {
		return nil, fmt.Errorf("malformed load/store operands")
	}

	rdField := rest[:open] // "<rd>,<imm>"
	comma := strings.IndexByte(rdField, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed load/store operands")
	}
	rd := stripRegPrefix(rdField[:comma])
	rs1 := stripRegPrefix(rest[open+1 : closeP])

	instr := &Instruction{Op: op, IsFP: isFP, Op1: rd, Op2: rs1, Op3: none}
	return instr, nil
}

// parseArithmetic matches "<rd>,<rs1>,<rs2>" against a known mnemonic.
func parseArithmetic(mnemonic, rest string, isFP bool) (*Instruction, error) {
	op, ok := arithmeticOps[mnemonic]
	if !ok {
		return nil, fmt.Errorf("not an arithmetic opcode")
	}
	parts := strings.Split(rest, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed arithmetic operands")
	}
	return &Instruction{
		Op: op, IsFP: isFP,
		Op1: stripRegPrefix(parts[0]),
		Op2: stripRegPrefix(parts[1]),
		Op3: stripRegPrefix(parts[2]),
	}, nil
}

// parseBranch matches "x<rs1>,x<rs2>,<label>"; branches never produce a
// register value, so Op1 is the sentinel "none" and the sources live in
// Op2/Op3.
func parseBranch(mnemonic, rest string) (*Instruction, error) {
	_ = mnemonic
	parts := strings.Split(rest, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed branch operands")
	}
	return &Instruction{
		Op: BRANCH, IsFP: false,
		Op1: none,
		Op2: stripRegPrefix(parts[0]),
		Op3: stripRegPrefix(parts[1]),
	}, nil
}

// stripRegPrefix drops the leading register-file prefix character
// ('x' or 'f'), leaving the bare register number as the producer/operand
// identity used by the dependence search.
func stripRegPrefix(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if s[0] == 'x' || s[0] == 'f' {
		return s[1:]
	}
	return s
}
