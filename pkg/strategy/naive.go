package strategy

import (
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
)

// naiveStrategy is the control baseline: opponents are chosen uniformly
// at random and ratings are never updated. Because the rating used for
// reporting is the player's own latent skill (see InitialRatingFor), the
// visible-rating-vs-skill relationship degenerates to the identity line —
// exactly the point of a baseline.
type naiveStrategy struct{}

func newNaive() *naiveStrategy { return &naiveStrategy{} }

func (naiveStrategy) Name() Name             { return Naive }
func (naiveStrategy) UsesRatingIndex() bool  { return false }
func (naiveStrategy) WindowHalfWidth() int   { return 0 }
func (naiveStrategy) InitialVariance() float64 { return 0 }

// InitialRatingFor returns skill itself: the naive baseline's "rating" is
// defined to be the latent skill value, so that its update no-op leaves
// the rating permanently equal to skill.
func (naiveStrategy) InitialRatingFor(skill float64) float64 { return skill }

// Pair picks uniformly among candidates, which the matchmaker has already
// populated with the whole player pool minus me.
func (naiveStrategy) Pair(me *player.Player, candidates []*player.Player, stream *rng.Stream) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[stream.IntN(len(candidates))].ID, true
}

func (naiveStrategy) PredictedWinChance(a, b *player.Player) float64 {
	return eloExpectation(a.Rating, b.Rating)
}

// Update is a no-op: the naive baseline never changes ratings.
func (naiveStrategy) Update(winner, loser *player.Player) (Update, error) {
	return Update{
		WinnerRating:   winner.Rating,
		LoserRating:    loser.Rating,
		WinnerVariance: winner.Variance,
		LoserVariance:  loser.Variance,
	}, nil
}
