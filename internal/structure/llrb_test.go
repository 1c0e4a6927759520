package structure

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderIndexInsertGetDelete(t *testing.T) {
	idx := NewOrderIndex[int]()

	inserted := idx.Insert("order-1", 100)
	assert.True(t, inserted)
	assert.Equal(t, 1, idx.Count())

	v, ok := idx.Get("order-1")
	require.True(t, ok)
	assert.Equal(t, 100, v)

	replaced := idx.Insert("order-1", 200)
	assert.False(t, replaced)
	v, ok = idx.Get("order-1")
	require.True(t, ok)
	assert.Equal(t, 200, v)
	assert.Equal(t, 1, idx.Count())

	assert.True(t, idx.Delete("order-1"))
	assert.False(t, idx.Contains("order-1"))
	assert.Equal(t, 0, idx.Count())
}

func TestOrderIndexDeleteMissingKey(t *testing.T) {
	idx := NewOrderIndex[int]()
	idx.Insert("a", 1)
	assert.False(t, idx.Delete("b"))
	assert.Equal(t, 1, idx.Count())
}

func TestOrderIndexKeysSorted(t *testing.T) {
	idx := NewOrderIndex[int]()
	keys := []string{"order-5", "order-1", "order-9", "order-3", "order-7"}
	for i, k := range keys {
		idx.Insert(k, i)
	}

	got := idx.Keys()
	want := append([]string{}, keys...)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestOrderIndexRandomizedAgainstMap(t *testing.T) {
	idx := NewOrderIndex[int]()
	model := make(map[string]int)
	rng := rand.New(rand.NewSource(7))

	ids := make([]string, 500)
	for i := range ids {
		ids[i] = "ord-" + string(rune('a'+i%26)) + string(rune('A'+(i/26)%26)) + string(rune('0'+i%10))
	}

	for i := 0; i < 5000; i++ {
		id := ids[rng.Intn(len(ids))]
		if rng.Intn(2) == 0 {
			idx.Insert(id, i)
			model[id] = i
		} else {
			delete(model, id)
			idx.Delete(id)
		}
	}

	require.Equal(t, len(model), idx.Count())
	for k, v := range model {
		got, ok := idx.Get(k)
		require.True(t, ok)
		assert.Equal(t, v, got)
	}

	gotKeys := idx.Keys()
	wantKeys := make([]string, 0, len(model))
	for k := range model {
		wantKeys = append(wantKeys, k)
	}
	sort.Strings(wantKeys)
	assert.Equal(t, wantKeys, gotKeys)
}
