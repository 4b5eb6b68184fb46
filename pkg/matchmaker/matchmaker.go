// Package matchmaker wires a strategy to the rating index and player
// store to answer "who does this player face next". It owns the pairing
// fallback policy: if a strategy-driven pick fails (an empty window, or a
// strategy reporting no candidate), the matchmaker falls back to uniform
// random selection over the whole population and tells the diagnostic
// sink so the run can be audited afterward.
package matchmaker

import (
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/ratingindex"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/strategy"
)

// Matchmaker owns the rating index and answers next-opponent queries on
// behalf of a single strategy for the life of one run.
type Matchmaker struct {
	index    *ratingindex.Index
	store    *player.Store
	strategy strategy.Strategy
	sink     simerr.DiagnosticSink
}

// New builds a Matchmaker. If the strategy uses the rating index, every
// player in store is inserted at its current rating; the naive strategy
// never touches the index, so it is left empty.
func New(store *player.Store, strat strategy.Strategy, sink simerr.DiagnosticSink) *Matchmaker {
	idx := ratingindex.New()
	if strat.UsesRatingIndex() {
		for _, p := range store.All() {
			idx.Insert(p.ID, p.Rating)
		}
	}
	return &Matchmaker{index: idx, store: store, strategy: strat, sink: sink}
}

// NextOpponent returns the opponent chosen for player id `me` at match
// index matchIndex (used only for diagnostic reporting on fallback), or
// nil if the population has no other player.
func (m *Matchmaker) NextOpponent(matchIndex int, me int, stream *rng.Stream) *player.Player {
	self := m.store.Get(me)

	var candidates []*player.Player
	if m.strategy.UsesRatingIndex() {
		below, above := m.index.Neighbors(self.Rating, self.ID, m.strategy.WindowHalfWidth())
		candidates = make([]*player.Player, 0, len(below)+len(above))
		for _, id := range below {
			candidates = append(candidates, m.store.Get(id))
		}
		for _, id := range above {
			candidates = append(candidates, m.store.Get(id))
		}
	} else {
		candidates = m.allExcept(me)
	}

	if oppID, ok := m.strategy.Pair(self, candidates, stream); ok {
		return m.store.Get(oppID)
	}

	m.sink.PairingFallback(matchIndex, me)
	fallback := m.allExcept(me)
	if len(fallback) == 0 {
		return nil
	}
	return fallback[stream.IntN(len(fallback))]
}

// Reindex repositions a player under its new rating. It is a no-op for
// strategies that do not use the rating index.
func (m *Matchmaker) Reindex(id int, newRating float64) {
	if m.strategy.UsesRatingIndex() {
		m.index.Update(id, newRating)
	}
}

func (m *Matchmaker) allExcept(id int) []*player.Player {
	all := m.store.All()
	out := make([]*player.Player, 0, len(all)-1)
	for _, p := range all {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
