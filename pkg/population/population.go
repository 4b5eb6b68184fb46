// Package population builds the synthetic player pool a simulation run
// starts from: N players with latent skills drawn from a configurable
// distribution, each initialized to a strategy's nominal starting rating.
package population

import (
	"math"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
)

// Distribution draws one latent-skill sample from the configured seeded
// stream. Implementations must be pure functions of the stream's
// sequence — no hidden state beyond what the stream itself carries.
type Distribution interface {
	Sample(stream *rng.Stream) float64
}

// Gaussian is the default skill distribution: mean 0, unit standard
// deviation, unless overridden.
type Gaussian struct {
	Mean   float64
	StdDev float64
}

// DefaultSkillDistribution returns the spec's default: Gaussian(0, 1).
func DefaultSkillDistribution() Gaussian {
	return Gaussian{Mean: 0, StdDev: 1}
}

func (g Gaussian) Sample(stream *rng.Stream) float64 {
	return g.Mean + g.StdDev*stream.NormFloat64()
}

// Uniform is an alternative skill distribution; present as a configuration
// dial (per the spec, it is not required for correctness), useful mostly
// for exercising the matchmaker and strategies against a bounded skill
// range in tests.
type Uniform struct {
	Min, Max float64
}

func (u Uniform) Sample(stream *rng.Stream) float64 {
	return u.Min + (u.Max-u.Min)*stream.Float64()
}

// HistoryCapacity computes the per-player history pre-reservation the
// design notes recommend: roughly 2*GAMES/N matches per player, with 25%
// headroom to avoid growth-copies for players slightly above average.
func HistoryCapacity(games, n int) int {
	if n <= 0 {
		return 0
	}
	perPlayer := 2 * games / n
	return int(math.Ceil(float64(perPlayer) * 1.25))
}

// New builds a dense [0, N) slice of players with latent skills drawn
// from dist. ratingFor computes each player's starting visible rating
// from its own latent skill — the naive strategy sets this to the
// identity function, while every other strategy ignores the skill
// argument and returns a nominal constant (see strategy.Strategy's
// InitialRatingFor). initialVariance seeds the Gaussian sigma companion
// and is 0 for Elo-family strategies. History buffers are pre-reserved
// for games matches.
func New(n int, games int, dist Distribution, ratingFor func(skill float64) float64, initialVariance float64, stream *rng.Stream) []*player.Player {
	capacityHint := HistoryCapacity(games, n)
	players := make([]*player.Player, n)
	for id := 0; id < n; id++ {
		skill := dist.Sample(stream)
		players[id] = player.New(id, skill, ratingFor(skill), initialVariance, capacityHint)
	}
	return players
}
