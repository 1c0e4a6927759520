package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateExactDivisionNoRemainder(t *testing.T) {
	// Three resting orders of 50/100/150 sharing an incoming quantity of
	// 150: each gets floor(150 * w / 300).
	items := []Item[string]{
		{Weight: 50, Handle: "A"},
		{Weight: 100, Handle: "B"},
		{Weight: 150, Handle: "C"},
	}
	got := Allocate(150, items)
	assert.Equal(t, []int64{25, 50, 75}, got)
}

func TestAllocateRemainderSweptToFirst(t *testing.T) {
	// 100 split across B=100, C=200: B=33, C=66, remainder 1 swept to B.
	items := []Item[string]{
		{Weight: 100, Handle: "B"},
		{Weight: 200, Handle: "C"},
	}
	got := Allocate(100, items)
	assert.Equal(t, []int64{34, 66}, got)
}

func TestAllocateSkipsZeroWeightItems(t *testing.T) {
	items := []Item[string]{
		{Weight: 0, Handle: "exhausted"},
		{Weight: 10, Handle: "live"},
	}
	got := Allocate(10, items)
	assert.Equal(t, []int64{0, 10}, got)
}

func TestAllocateZeroTotalWeightReturnsZeros(t *testing.T) {
	items := []Item[string]{{Weight: 0, Handle: "a"}, {Weight: 0, Handle: "b"}}
	got := Allocate(10, items)
	assert.Equal(t, []int64{0, 0}, got)
}

func TestAllocateZeroQuantity(t *testing.T) {
	items := []Item[string]{{Weight: 10, Handle: "a"}, {Weight: 20, Handle: "b"}}
	got := Allocate(0, items)
	assert.Equal(t, []int64{0, 0}, got)
}

func TestAllocateConservesTotalQuantity(t *testing.T) {
	items := []Item[string]{
		{Weight: 7, Handle: "a"},
		{Weight: 13, Handle: "b"},
		{Weight: 29, Handle: "c"},
		{Weight: 1, Handle: "d"},
	}
	const qty = 97
	got := Allocate(qty, items)
	var sum int64
	for _, v := range got {
		sum += v
	}
	assert.Equal(t, int64(qty), sum)
}
