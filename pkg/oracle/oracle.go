// Package oracle decides match outcomes from latent skill. It is the only
// component besides the metrics collector allowed to read Player.Skill —
// strategies and the matchmaker must never see it.
package oracle

import (
	"math"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
)

// winScale is the logistic steepness constant: it gives a 75% win edge at
// roughly 0.11 skill units, matching the convergence tests the simulator
// is validated against.
const winScale = 10.0

// WinProbability returns the probability that the player with skill sA
// beats the player with skill sB under the logistic outcome model
// P(diff) = 1 / (1 + exp(-winScale * diff)).
func WinProbability(sA, sB float64) float64 {
	diff := sA - sB
	return 1.0 / (1.0 + math.Exp(-winScale*diff))
}

// Decide draws a single win/loss outcome for the match between the player
// with skill sA and the player with skill sB, using stream for the
// uniform draw. It returns true if A wins.
func Decide(sA, sB float64, stream *rng.Stream) bool {
	u := stream.Float64()
	return u < WinProbability(sA, sB)
}
