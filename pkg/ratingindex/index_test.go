package ratingindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndAllOrdering(t *testing.T) {
	idx := New()
	idx.Insert(3, 30)
	idx.Insert(1, 10)
	idx.Insert(2, 20)
	idx.Insert(0, 10) // ties with id 1 on rating; lower id sorts first

	all := idx.All()
	require.Len(t, all, 4)
	assert.Equal(t, 0, all[0].ID)
	assert.Equal(t, 1, all[1].ID)
	assert.Equal(t, 2, all[2].ID)
	assert.Equal(t, 3, all[3].ID)
}

func TestInsertDuplicatePanics(t *testing.T) {
	idx := New()
	idx.Insert(1, 100)
	assert.Panics(t, func() { idx.Insert(1, 200) })
}

func TestRemove(t *testing.T) {
	idx := New()
	idx.Insert(1, 100)
	idx.Insert(2, 200)
	idx.Remove(1)

	assert.Equal(t, 1, idx.Len())
	all := idx.All()
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].ID)
}

func TestRemoveMissingPanics(t *testing.T) {
	idx := New()
	assert.Panics(t, func() { idx.Remove(99) })
}

func TestUpdateRepositions(t *testing.T) {
	idx := New()
	idx.Insert(1, 100)
	idx.Insert(2, 200)
	idx.Insert(3, 300)

	idx.Update(1, 250) // now between 2 and 3

	all := idx.All()
	require.Len(t, all, 3)
	assert.Equal(t, []int{2, 1, 3}, []int{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, 250.0, idx.Rating(1))
}

func TestNeighbors(t *testing.T) {
	idx := New()
	for id, rating := range map[int]float64{1: 100, 2: 200, 3: 300, 4: 400, 5: 500} {
		idx.Insert(id, rating)
	}

	below, above := idx.Neighbors(300, 3, 2)
	assert.Equal(t, []int{2, 1}, below)
	assert.Equal(t, []int{4, 5}, above)
}

func TestNeighborsExcludesSelfOnTie(t *testing.T) {
	idx := New()
	idx.Insert(1, 100)
	idx.Insert(2, 100)
	idx.Insert(3, 200)

	below, above := idx.Neighbors(100, 1, 5)
	assert.Empty(t, below)
	assert.Equal(t, []int{2, 3}, above)
}

func TestNeighborsEmptyIndex(t *testing.T) {
	idx := New()
	below, above := idx.Neighbors(0, -1, 5)
	assert.Empty(t, below)
	assert.Empty(t, above)
}

func TestNeighborsZeroWindow(t *testing.T) {
	idx := New()
	idx.Insert(1, 100)
	below, above := idx.Neighbors(100, -1, 0)
	assert.Nil(t, below)
	assert.Nil(t, above)
}

func TestLargeIndexIntegrity(t *testing.T) {
	idx := New()
	const n = 2000
	for i := 0; i < n; i++ {
		idx.Insert(i, float64(i)*1.7)
	}
	require.Equal(t, n, idx.Len())

	all := idx.All()
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Rating, all[i].Rating)
	}

	for i := 0; i < n; i += 3 {
		idx.Update(i, float64(i)*1.7+1000)
	}
	assert.Equal(t, n, idx.Len())
	all = idx.All()
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Rating, all[i].Rating)
	}
}
