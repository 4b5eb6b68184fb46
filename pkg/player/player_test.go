package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p := New(3, 0.5, 1000.0, 0.0, 10)
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, 0.5, p.Skill)
	assert.Equal(t, 1000.0, p.Rating)
	assert.Equal(t, 0, p.Games)
	assert.Empty(t, p.RatingHistory)
	assert.Equal(t, 10, cap(p.RatingHistory))
}

func TestNewNegativeCapacityHint(t *testing.T) {
	p := New(0, 0, 0, 0, -5)
	assert.Equal(t, 0, cap(p.RatingHistory))
}

func TestRecordMatch(t *testing.T) {
	p := New(0, 1.0, 1000.0, 0.0, 4)

	p.RecordMatch(1016.0, 0.3, 0.6, 0.0)
	assert.Equal(t, 1016.0, p.Rating)
	assert.Equal(t, 1, p.Games)
	assert.Equal(t, []float64{1016.0}, p.RatingHistory)
	assert.Equal(t, []float64{0.3}, p.OpponentHistory)
	assert.Equal(t, []float64{0.6}, p.PredictedChanceHistory)

	p.RecordMatch(1030.0, 0.2, 0.65, 0.0)
	assert.Equal(t, 2, p.Games)
	assert.True(t, p.HistoriesConsistent())
}

func TestRecordOutcomeOnlyLeavesHistoriesEmpty(t *testing.T) {
	p := New(0, 1.0, 1000.0, 0.0, 0)

	p.RecordOutcomeOnly(1016.0, 5.0)
	assert.Equal(t, 1016.0, p.Rating)
	assert.Equal(t, 5.0, p.Variance)
	assert.Equal(t, 1, p.Games)
	assert.Empty(t, p.RatingHistory)
	assert.Empty(t, p.OpponentHistory)
	assert.Empty(t, p.PredictedChanceHistory)
	assert.Empty(t, p.VarianceHistory)
	assert.False(t, p.HistoriesConsistent())
}

func TestHistoriesConsistent(t *testing.T) {
	t.Run("consistent after matching appends", func(t *testing.T) {
		p := New(0, 0, 1000, 0, 2)
		p.RecordMatch(1010, 0, 0.5, 0)
		assert.True(t, p.HistoriesConsistent())
	})

	t.Run("inconsistent if a history slice is tampered with", func(t *testing.T) {
		p := New(0, 0, 1000, 0, 2)
		p.RecordMatch(1010, 0, 0.5, 0)
		p.RatingHistory = append(p.RatingHistory, 1020)
		assert.False(t, p.HistoriesConsistent())
	})
}

func TestStore(t *testing.T) {
	players := []*Player{New(0, 0, 1000, 0, 0), New(1, 1, 1000, 0, 0)}
	store := NewStore(players)

	require.Equal(t, 2, store.Len())
	assert.Equal(t, 0, store.Get(0).ID)
	assert.Equal(t, 1, store.Get(1).ID)
	assert.Len(t, store.All(), 2)
}
