package strategy

import (
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
)

// tweakedEloStrategy decays K with each player's own games-played count.
// Pairing is identical to fixed-K Elo: nearest neighbor by rating.
type tweakedEloStrategy struct {
	kBase, kMin, gamesDivisor float64
	windowPerSide             int
}

func newTweakedElo(kBase, kMin, gamesDivisor float64, windowPerSide int) *tweakedEloStrategy {
	return &tweakedEloStrategy{kBase: kBase, kMin: kMin, gamesDivisor: gamesDivisor, windowPerSide: windowPerSide}
}

func (tweakedEloStrategy) Name() Name              { return TweakedElo }
func (tweakedEloStrategy) UsesRatingIndex() bool    { return true }
func (t *tweakedEloStrategy) WindowHalfWidth() int  { return t.windowPerSide }
func (tweakedEloStrategy) InitialVariance() float64 { return 0 }
func (tweakedEloStrategy) InitialRatingFor(float64) float64 { return eloInitialRating }

func (tweakedEloStrategy) Pair(me *player.Player, candidates []*player.Player, stream *rng.Stream) (int, bool) {
	opp, ok := nearestByRating(me.Rating, candidates)
	if !ok {
		return 0, false
	}
	return opp.ID, true
}

func (tweakedEloStrategy) PredictedWinChance(a, b *player.Player) float64 {
	return eloExpectation(a.Rating, b.Rating)
}

// Update applies r' = r + K(g)*(S - E), with each side's own K computed
// from its games-played count before this match.
func (t *tweakedEloStrategy) Update(winner, loser *player.Player) (Update, error) {
	ew := eloExpectation(winner.Rating, loser.Rating)
	el := eloExpectation(loser.Rating, winner.Rating)
	kw := dynamicK(winner.Games, t.kBase, t.kMin, t.gamesDivisor)
	kl := dynamicK(loser.Games, t.kBase, t.kMin, t.gamesDivisor)
	return Update{
		WinnerRating:   winner.Rating + kw*(1-ew),
		LoserRating:    loser.Rating + kl*(0-el),
		WinnerVariance: winner.Variance,
		LoserVariance:  loser.Variance,
	}, nil
}
