package pipesim

import "testing"

func TestRStationPeekAndPush(t *testing.T) {
	rs := NewRStation(3)

	if got := rs.PeekMin(); got != 0 {
		t.Fatalf("initial peek_min = %d, want 0 (all slots free)", got)
	}
	rs.Push(5)

	rs.busyUntil[1] = 2
	rs.busyUntil[2] = 4
	if got := rs.PeekMin(); got != 2 {
		t.Fatalf("peek_min = %d, want 2 (slot 1's stamp)", got)
	}
	rs.Push(9)
	if rs.busyUntil[1] != 9 {
		t.Fatalf("push should overwrite the latched slot, busyUntil = %v", rs.busyUntil)
	}
}

func TestStationPoolAliasing(t *testing.T) {
	pool := NewStationPool(1, 2, 1, 1)

	if pool.For(LOAD) != pool.For(STORE) {
		t.Fatal("LOAD and STORE must share the eff_addr station pool")
	}
	if pool.For(ADD) != pool.For(SUB) || pool.For(ADD) != pool.For(BRANCH) {
		t.Fatal("ADD, SUB, and BRANCH must share the ints station pool")
	}
	if pool.For(FMUL) != pool.For(FDIV) {
		t.Fatal("FMUL and FDIV must share the fp_muls station pool")
	}
	if pool.For(FADD) != pool.For(FSUB) {
		t.Fatal("FADD and FSUB must share the fp_adds station pool")
	}
	if pool.For(ADD) == pool.For(FADD) {
		t.Fatal("ints and fp_adds pools must be distinct")
	}
}
