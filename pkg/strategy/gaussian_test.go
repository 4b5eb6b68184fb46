package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
)

func freshGaussianPlayer(id int, skill float64) *player.Player {
	g := gaussianStrategy{}
	return &player.Player{ID: id, Skill: skill, Rating: g.InitialRatingFor(skill), Variance: g.InitialVariance()}
}

// TestGaussianUpdateMatchesClosedFormReference is the golden-vector check:
// for two freshly initialized players (mu=mu0, sigma=sigma0), the no-draw
// closed-form TrueSkill update has an exact analytic solution because
// both sides enter the match with identical mu and sigma. The expected
// values below were derived by hand from the same factor-graph equations
// gaussianStrategy.Update implements (see DESIGN.md).
func TestGaussianUpdateMatchesClosedFormReference(t *testing.T) {
	g := newGaussian(0)
	winner := freshGaussianPlayer(0, 0)
	loser := freshGaussianPlayer(1, 0)

	update, err := g.Update(winner, loser)
	require.NoError(t, err)

	assert.InDelta(t, 29.2055, update.WinnerRating, 1e-3)
	assert.InDelta(t, 20.7945, update.LoserRating, 1e-3)
	assert.InDelta(t, 7.1948, update.WinnerVariance, 1e-3)
	assert.InDelta(t, 7.1948, update.LoserVariance, 1e-3)

	// Exact algebraic invariants that hold regardless of rounding: two
	// players with identical (mu, sigma) facing off produce equal and
	// opposite rating shifts, and identical posterior variances.
	assert.InDelta(t, gaussianMu0, (update.WinnerRating+update.LoserRating)/2, 1e-9)
	assert.InDelta(t, update.WinnerVariance, update.LoserVariance, 1e-9)
	assert.Less(t, update.WinnerVariance, gaussianSigma0)
}

func TestGaussianUpdateRewardsUpset(t *testing.T) {
	g := newGaussian(0)
	underdog := freshGaussianPlayer(0, 0)
	favorite := freshGaussianPlayer(1, 0)
	favorite.Rating = gaussianMu0 + 10

	// underdog wins despite the lower rating: its gain must exceed the
	// symmetric-case gain, since an upset carries more information.
	update, err := g.Update(underdog, favorite)
	require.NoError(t, err)
	assert.Greater(t, update.WinnerRating-underdog.Rating, 4.2)
}

func TestGaussianUpdateRejectsNonFiniteResult(t *testing.T) {
	g := newGaussian(0)
	winner := freshGaussianPlayer(0, 0)
	loser := freshGaussianPlayer(1, 0)
	winner.Variance = math.NaN()

	_, err := g.Update(winner, loser)
	assert.Error(t, err)
}

func TestMatchQualitySymmetric(t *testing.T) {
	qAB := matchQuality(25, 8, 30, 6)
	qBA := matchQuality(30, 6, 25, 8)
	assert.InDelta(t, qAB, qBA, 1e-9)
}

func TestMatchQualityHighestForIdenticalRatings(t *testing.T) {
	same := matchQuality(25, 8, 25, 8)
	apart := matchQuality(25, 8, 60, 8)
	assert.Greater(t, same, apart)
}

func TestGaussianPairPicksHighestQuality(t *testing.T) {
	g := newGaussian(0)
	me := &player.Player{ID: 0, Rating: 25, Variance: gaussianSigma0}
	candidates := []*player.Player{
		{ID: 1, Rating: 100, Variance: gaussianSigma0}, // poor match
		{ID: 2, Rating: 26, Variance: gaussianSigma0},  // best match
		{ID: 3, Rating: 90, Variance: gaussianSigma0},
	}

	id, ok := g.Pair(me, candidates, rng.New(1))
	require.True(t, ok)
	assert.Equal(t, 2, id)
}

func TestGaussianPairEmptyCandidates(t *testing.T) {
	g := newGaussian(0)
	me := &player.Player{ID: 0, Rating: 25, Variance: gaussianSigma0}
	_, ok := g.Pair(me, nil, rng.New(1))
	assert.False(t, ok)
}

func TestGaussianPredictedWinChance(t *testing.T) {
	g := gaussianStrategy{}
	a := freshGaussianPlayer(0, 0)
	b := freshGaussianPlayer(1, 0)

	assert.InDelta(t, 0.5, g.PredictedWinChance(a, b), 1e-9)

	a.Rating += 20
	assert.Greater(t, g.PredictedWinChance(a, b), 0.5)
}
