package strategy

import (
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
)

// tweaked2EloStrategy adds an asymmetric coefficient to dynamic-K Elo.
// Resolution of the "tweaked2 coefficient" open question (see DESIGN.md):
// only the loser's delta is scaled by coef; the winner's delta is
// unscaled.
type tweaked2EloStrategy struct {
	kBase, kMin, gamesDivisor, coef float64
	windowPerSide                   int
}

func newTweaked2Elo(kBase, kMin, gamesDivisor, coef float64, windowPerSide int) *tweaked2EloStrategy {
	return &tweaked2EloStrategy{kBase: kBase, kMin: kMin, gamesDivisor: gamesDivisor, coef: coef, windowPerSide: windowPerSide}
}

func (tweaked2EloStrategy) Name() Name              { return Tweaked2Elo }
func (tweaked2EloStrategy) UsesRatingIndex() bool    { return true }
func (t *tweaked2EloStrategy) WindowHalfWidth() int  { return t.windowPerSide }
func (tweaked2EloStrategy) InitialVariance() float64 { return 0 }
func (tweaked2EloStrategy) InitialRatingFor(float64) float64 { return eloInitialRating }

func (tweaked2EloStrategy) Pair(me *player.Player, candidates []*player.Player, stream *rng.Stream) (int, bool) {
	opp, ok := nearestByRating(me.Rating, candidates)
	if !ok {
		return 0, false
	}
	return opp.ID, true
}

func (tweaked2EloStrategy) PredictedWinChance(a, b *player.Player) float64 {
	return eloExpectation(a.Rating, b.Rating)
}

// Update gives the winner the unscaled delta Kw*(1-Ew), and scales only
// the loser's delta by coef: loser loses coef*Kl*El.
func (t *tweaked2EloStrategy) Update(winner, loser *player.Player) (Update, error) {
	ew := eloExpectation(winner.Rating, loser.Rating)
	el := eloExpectation(loser.Rating, winner.Rating)
	kw := dynamicK(winner.Games, t.kBase, t.kMin, t.gamesDivisor)
	kl := dynamicK(loser.Games, t.kBase, t.kMin, t.gamesDivisor)
	return Update{
		WinnerRating:   winner.Rating + kw*(1-ew),
		LoserRating:    loser.Rating - t.coef*kl*el,
		WinnerVariance: winner.Variance,
		LoserVariance:  loser.Variance,
	}, nil
}
