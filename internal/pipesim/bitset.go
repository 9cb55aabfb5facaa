// Package pipesim implements the Tomasulo/ROB pipeline timing simulator:
// given a trace of instructions, compute each instruction's
// issue/execute_start/execute_end/mem_read/cdb_write/commit cycle numbers
// under reservation-station, reorder-buffer, CDB, and memory-port
// constraints. Grounded on original_source/tomasulo/mine, generalized to
// match the richer scheduling algorithm in spec.md §4.6.
package pipesim

// CycleBitset is a growable bitmap of "cycle occupied" bits, used for the
// CDB and memory-read/store ports. Grounded on
// original_source/tomasulo/mine/bitvec.c's BitVector.
type CycleBitset struct {
	bits []bool
}

// Insert returns the least cycle >= from whose bit is clear, and sets it.
func (b *CycleBitset) Insert(from uint) uint {
	for int(from) >= len(b.bits) {
		b.bits = append(b.bits, false)
	}
	for b.bits[from] {
		from++
		for int(from) >= len(b.bits) {
			b.bits = append(b.bits, false)
		}
	}
	b.bits[from] = true
	return from
}
