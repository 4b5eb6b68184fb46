// Package strategy implements the pluggable rating/pairing rule family:
// naive (baseline), fixed-K Elo, two dynamic-K Elo variants, and a
// Gaussian/Bayesian (TrueSkill-style) scheme. Every strategy shares the
// same Elo win-expectation helper and the same Strategy interface, so the
// simulation driver and the matchmaker never need to know which concrete
// rule is in play.
package strategy

import (
	"math"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
)

// Name identifies one of the five supported strategies.
type Name string

const (
	Naive       Name = "naive"
	Elo         Name = "elo"
	TweakedElo  Name = "tweaked_elo"
	Tweaked2Elo Name = "tweaked2_elo"
	Gaussian    Name = "gaussian"
)

// Update is the result of applying a strategy's rating rule to a finished
// match. Variance fields are only meaningful for the Gaussian strategy;
// Elo-family strategies leave them at the players' current values.
type Update struct {
	WinnerRating   float64
	LoserRating    float64
	WinnerVariance float64
	LoserVariance  float64
}

// Strategy is the interface every rating/pairing rule implements.
type Strategy interface {
	// Name returns the strategy's external identifier.
	Name() Name

	// UsesRatingIndex reports whether the matchmaker should query the
	// rating index for candidates (true for every strategy except
	// Naive, which samples the whole population uniformly at random).
	UsesRatingIndex() bool

	// WindowHalfWidth is the number of candidates the matchmaker should
	// fetch from the rating index on each side of the querying player's
	// rating. Ignored when UsesRatingIndex is false.
	WindowHalfWidth() int

	// Pair selects an opponent for me from candidates, which the
	// matchmaker has already restricted to a rating-index window (or,
	// for Naive, to the whole population minus me). It returns false if
	// no suitable candidate exists, which the matchmaker treats as a
	// pairing failure and falls back to uniform random selection.
	Pair(me *player.Player, candidates []*player.Player, stream *rng.Stream) (opponentID int, found bool)

	// PredictedWinChance returns the strategy's pre-match estimate that
	// a beats b, using only visible state (never latent skill).
	PredictedWinChance(a, b *player.Player) float64

	// InitialRatingFor returns the rating a newly created player with
	// the given latent skill should start at. Every strategy except
	// Naive ignores the skill argument and returns a nominal constant.
	InitialRatingFor(skill float64) float64

	// InitialVariance returns the starting variance companion. Zero for
	// Elo-family strategies.
	InitialVariance() float64

	// Update applies the rating rule to a finished match and returns the
	// new ratings (and variances, for Gaussian). It returns an error
	// wrapping simerr.ErrNumericFailure if the computation produced a
	// non-finite result; the caller must then leave ratings unchanged.
	Update(winner, loser *player.Player) (Update, error)
}

// eloExpectation is the shared Elo win-expectation formula:
// E(r_a, r_b) = 1 / (1 + 10^((r_b - r_a)/400)).
func eloExpectation(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, (ratingB-ratingA)/400.0))
}

// normPDF is the standard-normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt2 / math.SqrtPi
}

// normCDF is the standard-normal cumulative distribution function,
// computed from the error function for numerical accuracy in the tails.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// nearestByRating returns the candidate in candidates whose rating is
// closest to target, breaking ties toward the lower id. It reports false
// if candidates is empty.
func nearestByRating(target float64, candidates []*player.Player) (*player.Player, bool) {
	var best *player.Player
	bestDiff := math.Inf(1)
	for _, c := range candidates {
		diff := math.Abs(c.Rating - target)
		if diff < bestDiff || (diff == bestDiff && best != nil && c.ID < best.ID) {
			best = c
			bestDiff = diff
		}
	}
	return best, best != nil
}

// Params holds the overridable numeric parameters for every strategy.
// Zero-value fields are replaced with the strategy's spec-mandated
// default by New.
type Params struct {
	KFactor       float64 // Elo
	KBase         float64 // TweakedElo / Tweaked2Elo
	KMin          float64 // TweakedElo / Tweaked2Elo
	GamesDivisor  float64 // TweakedElo / Tweaked2Elo
	Coefficient   float64 // Tweaked2Elo only
	WindowPerSide int     // Elo-family and Gaussian pairing window half-width
}

// New constructs the named strategy, applying defaults to any zero-valued
// Params field and validating the result. It returns an error wrapping
// simerr.ErrInvalidArgument for negative K values, a non-positive
// games-divisor, or a non-positive coefficient.
func New(name Name, p Params) (Strategy, error) {
	if p.WindowPerSide <= 0 {
		p.WindowPerSide = 32
	}

	switch name {
	case Naive:
		return newNaive(), nil
	case Elo:
		if p.KFactor == 0 {
			p.KFactor = 32
		}
		if p.KFactor < 0 {
			return nil, simerr.InvalidArgument("elo: K factor must be non-negative, got %v", p.KFactor)
		}
		return newEloStrategy(p.KFactor, p.WindowPerSide), nil
	case TweakedElo:
		if err := validateDynamicK(&p); err != nil {
			return nil, err
		}
		return newTweakedElo(p.KBase, p.KMin, p.GamesDivisor, p.WindowPerSide), nil
	case Tweaked2Elo:
		if err := validateDynamicK(&p); err != nil {
			return nil, err
		}
		if p.Coefficient == 0 {
			p.Coefficient = 0.5
		}
		if p.Coefficient <= 0 {
			return nil, simerr.InvalidArgument("tweaked2_elo: coefficient must be positive, got %v", p.Coefficient)
		}
		return newTweaked2Elo(p.KBase, p.KMin, p.GamesDivisor, p.Coefficient, p.WindowPerSide), nil
	case Gaussian:
		return newGaussian(p.WindowPerSide), nil
	default:
		return nil, simerr.InvalidArgument("unknown strategy %q", name)
	}
}

func validateDynamicK(p *Params) error {
	if p.KBase == 0 {
		p.KBase = 100
	}
	if p.KMin == 0 {
		p.KMin = 6
	}
	if p.GamesDivisor == 0 {
		p.GamesDivisor = 15
	}
	if p.KBase < 0 || p.KMin < 0 {
		return simerr.InvalidArgument("K_base and K_min must be non-negative")
	}
	if p.GamesDivisor <= 0 {
		return simerr.InvalidArgument("games divisor must be positive, got %v", p.GamesDivisor)
	}
	return nil
}

// dynamicK implements K(g) = max(K_min, K_base / (1 + g/games_divisor)).
func dynamicK(games int, kBase, kMin, gamesDivisor float64) float64 {
	k := kBase / (1 + float64(games)/gamesDivisor)
	if k < kMin {
		return kMin
	}
	return k
}
