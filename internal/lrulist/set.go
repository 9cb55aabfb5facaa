// Package lrulist implements the LRU Set described in spec.md §3/§4.1: a
// fixed-capacity, sentinel-headed doubly-linked list where position is
// recency (right of sentinel = MRU, left of sentinel = LRU). All operations
// are O(1). The node payload is a type parameter, stored inline — there is
// no void* smuggling and no separate calloc'd payload block, unlike
// original_source/memhier/solution/src/set.c.
package lrulist

// Node is one element of a Set. Node 0 of the backing slice is always the
// sentinel and is never returned to callers as a payload.
type Node[T any] struct {
	Payload    T
	prev, next int // indices into the owning Set's nodes slice
}

// Set owns Capacity nodes as one contiguous block plus a sentinel (index 0).
// Payload nodes are addressed by the 1-based indices 1..Cap().
type Set[T any] struct {
	nodes []Node[T]
}

// New builds a Set with room for capacity payload nodes, initially chained
// in index order (1 MRU .. capacity LRU); callers overwrite Payload before
// relying on ordering semantics.
func New[T any](capacity int) *Set[T] {
	s := &Set[T]{nodes: make([]Node[T], capacity+1)}
	for i := range s.nodes {
		s.nodes[i].next = (i + 1) % len(s.nodes)
		s.nodes[i].prev = (i - 1 + len(s.nodes)) % len(s.nodes)
	}
	return s
}

// Cap returns the number of payload-carrying nodes (excludes the sentinel).
func (s *Set[T]) Cap() int {
	return len(s.nodes) - 1
}

// At returns a pointer to the payload node at the given 1-based index, for
// direct field access/mutation by the owning cache/TLB/allocator.
func (s *Set[T]) At(i int) *T {
	return &s.nodes[i].Payload
}

func (s *Set[T]) disconnect(i int) {
	n := &s.nodes[i]
	s.nodes[n.prev].next = n.next
	s.nodes[n.next].prev = n.prev
}

func (s *Set[T]) insertRight(i, target int) {
	n := &s.nodes[i]
	t := &s.nodes[target]
	next := t.next
	n.next = next
	n.prev = target
	s.nodes[next].prev = i
	t.next = i
}

// Touch moves node i to the MRU position (right of the sentinel). O(1).
func (s *Set[T]) Touch(i int) {
	s.disconnect(i)
	s.insertRight(i, 0)
}

// MRU returns the index of the most-recently-used node.
func (s *Set[T]) MRU() int {
	return s.nodes[0].next
}

// LRU returns the index of the least-recently-used node.
func (s *Set[T]) LRU() int {
	return s.nodes[0].prev
}

// EachFromMRU calls fn(index) for each payload node, MRU to LRU, stopping
// early if fn returns false.
func (s *Set[T]) EachFromMRU(fn func(i int) bool) {
	for i := s.nodes[0].next; i != 0; i = s.nodes[i].next {
		if !fn(i) {
			return
		}
	}
}

// EachFromLRU calls fn(index) for each payload node, LRU to MRU, stopping
// early if fn returns false.
func (s *Set[T]) EachFromLRU(fn func(i int) bool) {
	for i := s.nodes[0].prev; i != 0; i = s.nodes[i].prev {
		if !fn(i) {
			return
		}
	}
}
