package pipesim

import "testing"

func TestParseLoad(t *testing.T) {
	instr, err := ParseLine("lw x1,8(x2):1008")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if instr.Op != LOAD || instr.IsFP {
		t.Fatalf("op = %v isFP = %v, want LOAD/false", instr.Op, instr.IsFP)
	}
	if instr.Op1 != "1" || instr.Op2 != "2" {
		t.Fatalf("op1=%s op2=%s, want 1/2", instr.Op1, instr.Op2)
	}
}

func TestParseFPStore(t *testing.T) {
	instr, err := ParseLine("fsw f3,16(x4):2016")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if instr.Op != STORE || !instr.IsFP {
		t.Fatalf("op = %v isFP = %v, want STORE/true", instr.Op, instr.IsFP)
	}
	if instr.Op1 != "3" || instr.Op2 != "4" {
		t.Fatalf("op1=%s op2=%s, want 3/4", instr.Op1, instr.Op2)
	}
}

func TestParseArithmetic(t *testing.T) {
	instr, err := ParseLine("add x1,x2,x3")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if instr.Op != ADD {
		t.Fatalf("op = %v, want ADD", instr.Op)
	}
	if instr.Op1 != "1" || instr.Op2 != "2" || instr.Op3 != "3" {
		t.Fatalf("operands = %s,%s,%s want 1,2,3", instr.Op1, instr.Op2, instr.Op3)
	}
}

func TestParseFPArithmetic(t *testing.T) {
	instr, err := ParseLine("fadd f1,f2,f3")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if instr.Op != FADD || !instr.IsFP {
		t.Fatalf("op = %v isFP = %v, want FADD/true", instr.Op, instr.IsFP)
	}
}

func TestParseBranch(t *testing.T) {
	instr, err := ParseLine("beq x1,x2,loop")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if instr.Op != BRANCH {
		t.Fatalf("op = %v, want BRANCH", instr.Op)
	}
	if instr.Op1 != none {
		t.Fatalf("op1 = %q, want sentinel %q (branch has no destination)", instr.Op1, none)
	}
	if instr.Op2 != "1" || instr.Op3 != "2" {
		t.Fatalf("operands = %s,%s want 1,2", instr.Op2, instr.Op3)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseLine("not an instruction"); err == nil {
		t.Fatal("expected an error for an unrecognized trace line")
	}
}
