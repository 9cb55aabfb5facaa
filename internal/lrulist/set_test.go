package lrulist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTouchOrdering(t *testing.T) {
	s := New[int](3)
	*s.At(1) = 10
	*s.At(2) = 20
	*s.At(3) = 30

	// initial chain: 1 (MRU) .. 3 (LRU)
	assert.Equal(t, 1, s.MRU(), "initial MRU index")
	assert.Equal(t, 3, s.LRU(), "initial LRU index")

	s.Touch(3)
	assert.Equal(t, 3, s.MRU(), "MRU index after touch(3)")
	assert.Equal(t, 2, s.LRU(), "LRU index after touch(3)")

	var order []int
	s.EachFromMRU(func(i int) bool {
		order = append(order, *s.At(i))
		return true
	})
	assert.Equal(t, []int{30, 10, 20}, order)
}

func TestEachFromLRU(t *testing.T) {
	s := New[int](3)
	*s.At(1) = 1
	*s.At(2) = 2
	*s.At(3) = 3

	var order []int
	s.EachFromLRU(func(i int) bool {
		order = append(order, *s.At(i))
		return true
	})
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestEarlyStop(t *testing.T) {
	s := New[int](4)
	count := 0
	s.EachFromMRU(func(i int) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestCapExcludesSentinel(t *testing.T) {
	s := New[int](5)
	assert.Equal(t, 5, s.Cap())
}
