package pipesim

import "testing"

func TestCycleBitsetInsert(t *testing.T) {
	var b CycleBitset

	if got := b.Insert(3); got != 3 {
		t.Fatalf("first insert from 3 = %d, want 3", got)
	}
	if got := b.Insert(3); got != 4 {
		t.Fatalf("second insert from 3 = %d, want 4 (3 already taken)", got)
	}
	if got := b.Insert(0); got != 0 {
		t.Fatalf("insert from 0 = %d, want 0", got)
	}
	if got := b.Insert(0); got != 1 {
		t.Fatalf("insert from 0 again = %d, want 1 (0 taken)", got)
	}
}
