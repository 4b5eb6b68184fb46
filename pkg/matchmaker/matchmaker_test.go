package matchmaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/strategy"
)

func newStore(n int, ratingFor func(id int) float64) *player.Store {
	players := make([]*player.Player, n)
	for i := 0; i < n; i++ {
		players[i] = player.New(i, 0, ratingFor(i), 0, 0)
	}
	return player.NewStore(players)
}

func TestNewIndexesOnlyWhenStrategyUsesIt(t *testing.T) {
	store := newStore(5, func(id int) float64 { return float64(id) * 100 })

	eloStrat, err := strategy.New(strategy.Elo, strategy.Params{})
	require.NoError(t, err)
	mmElo := New(store, eloStrat, simerr.NoopSink{})
	assert.Equal(t, 5, mmElo.index.Len())

	naiveStrat, err := strategy.New(strategy.Naive, strategy.Params{})
	require.NoError(t, err)
	mmNaive := New(store, naiveStrat, simerr.NoopSink{})
	assert.Equal(t, 0, mmNaive.index.Len())
}

func TestNextOpponentNeverReturnsSelf(t *testing.T) {
	store := newStore(6, func(id int) float64 { return 1000 + float64(id)*5 })
	strat, err := strategy.New(strategy.Elo, strategy.Params{WindowPerSide: 2})
	require.NoError(t, err)
	mm := New(store, strat, simerr.NoopSink{})
	stream := rng.New(1)

	for i := 0; i < 6; i++ {
		opp := mm.NextOpponent(0, i, stream)
		require.NotNil(t, opp)
		assert.NotEqual(t, i, opp.ID)
	}
}

func TestNextOpponentFallbackReportsSink(t *testing.T) {
	// A 2-player population with a huge window gives the strategy's Pair
	// every remaining candidate, so fallback should never fire here; this
	// instead exercises the explicit fallback path by constructing a
	// candidate-less scenario: remove all candidates via a 1-player store.
	store := newStore(1, func(id int) float64 { return 1000 })
	strat, err := strategy.New(strategy.Elo, strategy.Params{})
	require.NoError(t, err)
	sink := simerr.NewRecordingSink()
	mm := New(store, strat, sink)
	stream := rng.New(1)

	opp := mm.NextOpponent(0, 0, stream)
	assert.Nil(t, opp)
	require.Len(t, sink.PairingFallbacks, 1)
	assert.Equal(t, 0, sink.PairingFallbacks[0].PlayerID)
}

func TestReindexNoOpForNaive(t *testing.T) {
	store := newStore(3, func(id int) float64 { return float64(id) })
	strat, err := strategy.New(strategy.Naive, strategy.Params{})
	require.NoError(t, err)
	mm := New(store, strat, simerr.NoopSink{})

	assert.NotPanics(t, func() { mm.Reindex(0, 500) })
	assert.Equal(t, 0, mm.index.Len())
}

func TestReindexRepositionsForIndexedStrategy(t *testing.T) {
	store := newStore(4, func(id int) float64 { return float64(id) * 100 })
	strat, err := strategy.New(strategy.Elo, strategy.Params{})
	require.NoError(t, err)
	mm := New(store, strat, simerr.NoopSink{})

	mm.Reindex(0, 1000)
	assert.Equal(t, 1000.0, mm.index.Rating(0))
}

func TestAllExcept(t *testing.T) {
	store := newStore(3, func(id int) float64 { return float64(id) })
	strat, err := strategy.New(strategy.Naive, strategy.Params{})
	require.NoError(t, err)
	mm := New(store, strat, simerr.NoopSink{})

	out := mm.allExcept(1)
	require.Len(t, out, 2)
	for _, p := range out {
		assert.NotEqual(t, 1, p.ID)
	}
}
