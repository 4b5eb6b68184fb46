package strategy

import (
	"math"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
)

// Gaussian defaults, matching the original project's use of the
// `trueskill` reference library: mu0=25, sigma0=25/3, beta=sigma0/2.
const (
	gaussianMu0    = 25.0
	gaussianSigma0 = gaussianMu0 / 3.0
	gaussianBeta   = gaussianSigma0 / 2.0
	// gaussianTau is the additive dynamics factor applied to each
	// player's variance before every match they play, matching the
	// reference library's default (sigma0 * 0.01). It keeps sigma from
	// collapsing to exactly zero over millions of matches.
	gaussianTau = gaussianSigma0 * 0.01
)

// gaussianStrategy implements the closed-form, no-draw, two-player
// TrueSkill factor update (Herbrich et al.), with draw_probability fixed
// at 0 because this simulator never produces draws (see SPEC_FULL.md
// section 4 for this resolution).
type gaussianStrategy struct {
	windowPerSide int
}

func newGaussian(windowPerSide int) *gaussianStrategy {
	return &gaussianStrategy{windowPerSide: windowPerSide}
}

func (gaussianStrategy) Name() Name              { return Gaussian }
func (gaussianStrategy) UsesRatingIndex() bool    { return true }
func (g *gaussianStrategy) WindowHalfWidth() int  { return g.windowPerSide }
func (gaussianStrategy) InitialVariance() float64 { return gaussianSigma0 }
func (gaussianStrategy) InitialRatingFor(float64) float64 { return gaussianMu0 }

// matchQuality is q(p,q) = sqrt(2*beta^2/D) * exp(-(mu_p-mu_q)^2/(2D)),
// where D = 2*beta^2 + sigma_p^2 + sigma_q^2.
func matchQuality(muP, sigmaP, muQ, sigmaQ float64) float64 {
	d := 2*gaussianBeta*gaussianBeta + sigmaP*sigmaP + sigmaQ*sigmaQ
	scale := math.Sqrt((2 * gaussianBeta * gaussianBeta) / d)
	muDiff := muP - muQ
	return scale * math.Exp(-(muDiff*muDiff)/(2*d))
}

// Pair picks the candidate maximizing match quality against me, breaking
// ties toward the lower id.
func (gaussianStrategy) Pair(me *player.Player, candidates []*player.Player, stream *rng.Stream) (int, bool) {
	var best *player.Player
	bestQ := math.Inf(-1)
	for _, c := range candidates {
		q := matchQuality(me.Rating, me.Variance, c.Rating, c.Variance)
		if q > bestQ || (q == bestQ && best != nil && c.ID < best.ID) {
			best = c
			bestQ = q
		}
	}
	if best == nil {
		return 0, false
	}
	return best.ID, true
}

// PredictedWinChance is Phi((mu_a - mu_b) / sqrt(sigma_a^2+sigma_b^2+2*beta^2)).
func (gaussianStrategy) PredictedWinChance(a, b *player.Player) float64 {
	denom := math.Sqrt(a.Variance*a.Variance + b.Variance*b.Variance + 2*gaussianBeta*gaussianBeta)
	return normCDF((a.Rating - b.Rating) / denom)
}

// Update applies the standard Gaussian factor-graph update for a 1v1
// no-draw game, with an additive dynamics factor applied to each side's
// variance beforehand. It returns an error wrapping
// simerr.ErrNumericFailure if any output is non-finite.
func (gaussianStrategy) Update(winner, loser *player.Player) (Update, error) {
	sigmaW := math.Sqrt(winner.Variance*winner.Variance + gaussianTau*gaussianTau)
	sigmaL := math.Sqrt(loser.Variance*loser.Variance + gaussianTau*gaussianTau)

	c := math.Sqrt(sigmaW*sigmaW + sigmaL*sigmaL + 2*gaussianBeta*gaussianBeta)
	t := (winner.Rating - loser.Rating) / c

	v := normPDF(t) / normCDF(t)
	w := v * (v + t)

	newMuW := winner.Rating + (sigmaW*sigmaW/c)*v
	newMuL := loser.Rating - (sigmaL*sigmaL/c)*v

	newVarW2 := sigmaW * sigmaW * (1 - (sigmaW*sigmaW/(c*c))*w)
	newVarL2 := sigmaL * sigmaL * (1 - (sigmaL*sigmaL/(c*c))*w)

	if !finite(newMuW) || !finite(newMuL) || !finite(newVarW2) || !finite(newVarL2) || newVarW2 < 0 || newVarL2 < 0 {
		return Update{}, simerr.NumericFailure("gaussian update produced a non-finite or negative variance (t=%v)", t)
	}

	return Update{
		WinnerRating:   newMuW,
		LoserRating:    newMuL,
		WinnerVariance: math.Sqrt(newVarW2),
		LoserVariance:  math.Sqrt(newVarL2),
	}, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
