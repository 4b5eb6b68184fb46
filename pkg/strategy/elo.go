package strategy

import (
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
)

// eloInitialRating is the Elo-family nominal starting rating.
const eloInitialRating = 1000.0

// eloStrategy is fixed-K Elo: pairing always picks the nearest neighbor
// in the rating index, and both players use the same constant K.
type eloStrategy struct {
	k             float64
	windowPerSide int
}

func newEloStrategy(k float64, windowPerSide int) *eloStrategy {
	return &eloStrategy{k: k, windowPerSide: windowPerSide}
}

func (eloStrategy) Name() Name              { return Elo }
func (eloStrategy) UsesRatingIndex() bool   { return true }
func (e *eloStrategy) WindowHalfWidth() int { return e.windowPerSide }
func (eloStrategy) InitialVariance() float64 { return 0 }
func (eloStrategy) InitialRatingFor(float64) float64 { return eloInitialRating }

func (eloStrategy) Pair(me *player.Player, candidates []*player.Player, stream *rng.Stream) (int, bool) {
	opp, ok := nearestByRating(me.Rating, candidates)
	if !ok {
		return 0, false
	}
	return opp.ID, true
}

func (eloStrategy) PredictedWinChance(a, b *player.Player) float64 {
	return eloExpectation(a.Rating, b.Rating)
}

// Update implements r' = r + K*(S - E) for both sides, where S is 1 for
// the winner and 0 for the loser.
func (e *eloStrategy) Update(winner, loser *player.Player) (Update, error) {
	ew := eloExpectation(winner.Rating, loser.Rating)
	el := eloExpectation(loser.Rating, winner.Rating)
	return Update{
		WinnerRating:   winner.Rating + e.k*(1-ew),
		LoserRating:    loser.Rating + e.k*(0-el),
		WinnerVariance: winner.Variance,
		LoserVariance:  loser.Variance,
	}, nil
}
