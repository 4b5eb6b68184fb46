// Package simulation drives the discrete-event match loop: round-robin
// first-player selection, matchmaker-driven pairing, oracle-decided
// outcomes, strategy-driven rating updates, and per-match metrics
// recording. It is the component every other package in this module
// exists to support.
package simulation

import (
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/matchmaker"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/metrics"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/oracle"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/population"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/rng"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/strategy"
)

// GoodMatchTolerance is tau in the "good match" metric: a match counts as
// good when the oracle's true win probability for the first player lies
// in [0.5-tau, 0.5+tau].
const GoodMatchTolerance = 0.2

// Config is everything a Run needs beyond the strategy itself.
type Config struct {
	N     int
	Games int
	Seed  uint64
	Dist  population.Distribution
	Sink  simerr.DiagnosticSink // defaults to simerr.NoopSink{} if nil

	// StoreReady, if non-nil, receives the player store once it is built
	// but before the match loop starts — a live dashboard uses this to
	// read rating/skill pairs mid-run. The send is non-blocking against a
	// buffered channel of capacity >= 1; Run never waits on a reader.
	StoreReady chan<- *player.Store
}

// Progress is delivered on an optional channel after every match, for a
// CLI dashboard or other observer. The simulation driver never blocks
// waiting for a reader: sends are best-effort via a buffered channel
// owned by the caller.
type Progress struct {
	MatchIndex      int
	Games           int
	PredictionError float64
	GoodMatch       float64
}

// Result is everything a completed run produced.
type Result struct {
	Store   *player.Store
	Metrics *metrics.Collector
	Config  Config
}

// matchOutcome is the bookkeeping one resolved match produces, shared by
// Run and RunProbe so the two loops can never drift in how a match is
// scored. It never mutates player state itself; callers apply the new
// rating/variance through whichever recording method fits their memory
// budget (RecordMatch for a full run, RecordOutcomeOnly for a probe).
type matchOutcome struct {
	winner, loser                    *player.Player
	winnerRating, winnerVariance     float64
	loserRating, loserVariance       float64
	winnerPredicted, loserPredicted  float64
	predictionError, skillGap        float64
	goodMatch                        float64
}

// playMatch resolves one match between store.Get(firstID) and whoever the
// matchmaker pairs it with, without recording the outcome onto either
// player.
func playMatch(mm *matchmaker.Matchmaker, store *player.Store, strat strategy.Strategy, sink simerr.DiagnosticSink, stream *rng.Stream, matchIndex, firstID int) (matchOutcome, error) {
	first := store.Get(firstID)
	opponent := mm.NextOpponent(matchIndex, firstID, stream)
	if opponent == nil {
		// Population of exactly 1 live candidate pool; unreachable given
		// the N>=2 guard in Run/RunProbe, but fail loudly rather than
		// silently skip a match if it ever happens.
		return matchOutcome{}, simerr.Internal("simulation: no opponent available for player %d at match %d", firstID, matchIndex)
	}

	predictedChance := strat.PredictedWinChance(first, opponent)
	firstWins := oracle.Decide(first.Skill, opponent.Skill, stream)

	var winner, loser *player.Player
	if firstWins {
		winner, loser = first, opponent
	} else {
		winner, loser = opponent, first
	}

	update, err := strat.Update(winner, loser)
	if err != nil {
		sink.NumericFailure(matchIndex, string(strat.Name()), err)
		update = strategy.Update{
			WinnerRating:   winner.Rating,
			LoserRating:    loser.Rating,
			WinnerVariance: winner.Variance,
			LoserVariance:  loser.Variance,
		}
	}

	winnerPredicted := predictedChance
	loserPredicted := 1 - predictedChance
	if !firstWins {
		winnerPredicted, loserPredicted = loserPredicted, winnerPredicted
	}

	actualOutcome := 0.0
	if firstWins {
		actualOutcome = 1.0
	}
	trueWinProb := oracle.WinProbability(first.Skill, opponent.Skill)
	goodMatch := 0.0
	if trueWinProb >= 0.5-GoodMatchTolerance && trueWinProb <= 0.5+GoodMatchTolerance {
		goodMatch = 1.0
	}

	return matchOutcome{
		winner: winner, loser: loser,
		winnerRating: update.WinnerRating, winnerVariance: update.WinnerVariance,
		loserRating: update.LoserRating, loserVariance: update.LoserVariance,
		winnerPredicted: winnerPredicted, loserPredicted: loserPredicted,
		predictionError: absFloat(predictedChance - actualOutcome),
		skillGap:        absFloat(winner.Skill - loser.Skill),
		goodMatch:       goodMatch,
	}, nil
}

// Run executes Games matches over a freshly built population of N players
// under strat, and returns the final player store and metrics collector.
// It never runs the Go toolchain, performs no I/O, and is fully
// deterministic given (Config, strat) — two calls with the same seed
// produce bitwise-identical Results.
//
// Every player's full per-match history is recorded; callers that only
// need the two running sums a parameter sweep checks (and cannot afford
// GAMES-sized history buffers per swept value) should use RunProbe
// instead.
func Run(cfg Config, strat strategy.Strategy, progress chan<- Progress) (*Result, error) {
	if cfg.N <= 1 {
		return nil, simerr.InvalidArgument("simulation: N must be at least 2, got %d", cfg.N)
	}
	if cfg.Games <= 0 {
		return nil, simerr.InvalidArgument("simulation: Games must be positive, got %d", cfg.Games)
	}
	sink := cfg.Sink
	if sink == nil {
		sink = simerr.NoopSink{}
	}
	dist := cfg.Dist
	if dist == nil {
		dist = population.DefaultSkillDistribution()
	}

	stream := rng.New(cfg.Seed)
	players := population.New(cfg.N, cfg.Games, dist, strat.InitialRatingFor, strat.InitialVariance(), stream)
	store := player.NewStore(players)
	if cfg.StoreReady != nil {
		select {
		case cfg.StoreReady <- store:
		default:
		}
	}
	mm := matchmaker.New(store, strat, sink)
	collector := metrics.New(cfg.Games)

	for matchIndex := 0; matchIndex < cfg.Games; matchIndex++ {
		firstID := matchIndex % cfg.N
		outcome, err := playMatch(mm, store, strat, sink, stream, matchIndex, firstID)
		if err != nil {
			return nil, err
		}

		outcome.winner.RecordMatch(outcome.winnerRating, outcome.loser.Skill, outcome.winnerPredicted, outcome.winnerVariance)
		outcome.loser.RecordMatch(outcome.loserRating, outcome.winner.Skill, outcome.loserPredicted, outcome.loserVariance)
		mm.Reindex(outcome.winner.ID, outcome.winnerRating)
		mm.Reindex(outcome.loser.ID, outcome.loserRating)

		collector.Record(outcome.predictionError, outcome.skillGap, outcome.goodMatch)

		if progress != nil {
			select {
			case progress <- Progress{MatchIndex: matchIndex, Games: cfg.Games, PredictionError: outcome.predictionError, GoodMatch: outcome.goodMatch}:
			default:
			}
		}
	}

	return &Result{Store: store, Metrics: collector, Config: cfg}, nil
}

// ProbeConfig is everything RunProbe needs: the same run shape as Config,
// minus the observability hooks a probe has no use for (no progress
// channel, no store handoff — a probe's store is discarded the moment the
// two sums are read off).
type ProbeConfig struct {
	N     int
	Games int
	Seed  uint64
	Dist  population.Distribution
	Sink  simerr.DiagnosticSink
}

// ProbeResult is the two running sums a parameter-sweep caller needs:
// the total prediction error and total skill gap across every match of
// the run. Summing Result.Metrics' PredictionError and SkillGap series
// under the same (Config, strat, seed) yields the same two numbers; the
// point of RunProbe is reaching them without paying for the series or the
// per-player histories along the way.
type ProbeResult struct {
	SumPredictionError float64
	SumSkillGap        float64
}

// RunProbe runs the identical match sequence Run would (same pairing,
// same oracle draws, same rating updates, given the same seed) but
// records outcomes with player.RecordOutcomeOnly instead of RecordMatch
// and accumulates the two running sums directly instead of allocating a
// metrics.Collector's three GAMES-sized series. This is the
// memory-bounded probe mode a parameter sweep uses: evaluating many
// candidate parameter values no longer costs one full set of per-player
// histories and a metrics collector per value.
func RunProbe(cfg ProbeConfig, strat strategy.Strategy) (ProbeResult, error) {
	if cfg.N <= 1 {
		return ProbeResult{}, simerr.InvalidArgument("simulation: N must be at least 2, got %d", cfg.N)
	}
	if cfg.Games <= 0 {
		return ProbeResult{}, simerr.InvalidArgument("simulation: Games must be positive, got %d", cfg.Games)
	}
	sink := cfg.Sink
	if sink == nil {
		sink = simerr.NoopSink{}
	}
	dist := cfg.Dist
	if dist == nil {
		dist = population.DefaultSkillDistribution()
	}

	stream := rng.New(cfg.Seed)
	// games 0 gives a history capacity hint of 0: a probe never grows a
	// history buffer, so there is nothing to pre-size.
	players := population.New(cfg.N, 0, dist, strat.InitialRatingFor, strat.InitialVariance(), stream)
	store := player.NewStore(players)
	mm := matchmaker.New(store, strat, sink)

	var result ProbeResult
	for matchIndex := 0; matchIndex < cfg.Games; matchIndex++ {
		firstID := matchIndex % cfg.N
		outcome, err := playMatch(mm, store, strat, sink, stream, matchIndex, firstID)
		if err != nil {
			return ProbeResult{}, err
		}

		outcome.winner.RecordOutcomeOnly(outcome.winnerRating, outcome.winnerVariance)
		outcome.loser.RecordOutcomeOnly(outcome.loserRating, outcome.loserVariance)
		mm.Reindex(outcome.winner.ID, outcome.winnerRating)
		mm.Reindex(outcome.loser.ID, outcome.loserRating)

		result.SumPredictionError += outcome.predictionError
		result.SumSkillGap += outcome.skillGap
	}

	return result, nil
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
