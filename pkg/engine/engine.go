// Package engine is the external API boundary: the one entry point a CLI,
// a future scripting binding, or a test harness uses to run a simulation
// and get a report back, without needing to know how the strategy,
// matchmaker, or metrics collector packages fit together internally.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/journal"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/population"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/runconfig"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simulation"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/strategy"
)

// nowFunc and uuidFunc are indirected so tests can make engine output
// deterministic; production code leaves them at their real
// implementations.
var (
	nowFunc  = time.Now
	uuidFunc = uuid.NewString
)

// RunResult is everything Run produces: the raw simulation result (for
// callers that want to inspect individual players or the raw metric
// series) plus the summarized report.
type RunResult struct {
	Store   *player.Store
	Metrics *simulation.Result
	Report  journal.RunReport
}

// RunOptions carries Run's optional collaborators. The zero value runs
// headless: a journal.EventLog sink, no progress updates, no early store
// handle.
type RunOptions struct {
	// Sink receives diagnostic events as they occur. If nil, Run uses its
	// internal journal.EventLog only.
	Sink simerr.DiagnosticSink
	// Progress, if non-nil, receives a best-effort update after every
	// match (see simulation.Progress) — intended for a CLI dashboard.
	Progress chan<- simulation.Progress
	// StoreReady, if non-nil, receives the player store once it exists,
	// before the match loop starts — see simulation.Config.StoreReady.
	StoreReady chan<- *player.Store
}

// Run builds the strategy and population described by cfg, executes the
// full GAMES-length match loop, and returns the result together with a
// RunReport.
func Run(cfg runconfig.RunConfig, opts RunOptions) (RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return RunResult{}, err
	}

	strat, err := strategy.New(strategy.Name(cfg.Strategy), cfg.StrategyParams())
	if err != nil {
		return RunResult{}, err
	}

	runID := uuidFunc()

	events, err := journal.NewEventLog(runID, "")
	if err != nil {
		return RunResult{}, err
	}
	sink := simerr.DiagnosticSink(events)
	if opts.Sink != nil {
		sink = teeSink{events, opts.Sink}
	}

	dist, err := skillDistribution(cfg)
	if err != nil {
		return RunResult{}, err
	}

	simCfg := simulation.Config{N: cfg.N, Games: cfg.Games, Seed: cfg.Seed, Dist: dist, Sink: sink, StoreReady: opts.StoreReady}

	start := nowFunc()
	result, err := simulation.Run(simCfg, strat, opts.Progress)
	if err != nil {
		return RunResult{}, err
	}
	duration := nowFunc().Sub(start)

	report, err := journal.NewReport(runID, cfg, result.Store, result.Metrics, events, duration)
	if err != nil {
		return RunResult{}, err
	}

	return RunResult{Store: result.Store, Metrics: result, Report: report}, nil
}

// RunParameterProbe executes a single, memory-bounded simulation run
// under cfg and returns only the two running sums a parameter sweep
// needs: the total prediction error and the total skill gap across every
// match. Unlike Run, it never allocates per-player history buffers, a
// journal.EventLog, or a RunReport — sweeping many candidate parameter
// values through this entry point costs O(N) memory per call instead of
// Run's O(N+GAMES), regardless of how many values are swept.
func RunParameterProbe(cfg runconfig.RunConfig) (sumPredictionError, sumSkillGap float64, err error) {
	if err := cfg.Validate(); err != nil {
		return 0, 0, err
	}

	strat, err := strategy.New(strategy.Name(cfg.Strategy), cfg.StrategyParams())
	if err != nil {
		return 0, 0, err
	}

	dist, err := skillDistribution(cfg)
	if err != nil {
		return 0, 0, err
	}

	probeCfg := simulation.ProbeConfig{N: cfg.N, Games: cfg.Games, Seed: cfg.Seed, Dist: dist}
	result, err := simulation.RunProbe(probeCfg, strat)
	if err != nil {
		return 0, 0, err
	}
	return result.SumPredictionError, result.SumSkillGap, nil
}

// teeSink fans every diagnostic event out to both the internal event log
// (so NewReport always has accurate counts, regardless of what sink the
// caller supplied) and the caller's own sink.
type teeSink struct {
	events *journal.EventLog
	caller simerr.DiagnosticSink
}

func (t teeSink) NumericFailure(matchIndex int, strategy string, err error) {
	t.events.NumericFailure(matchIndex, strategy, err)
	t.caller.NumericFailure(matchIndex, strategy, err)
}

func (t teeSink) PairingFallback(matchIndex int, playerID int) {
	t.events.PairingFallback(matchIndex, playerID)
	t.caller.PairingFallback(matchIndex, playerID)
}

func skillDistribution(cfg runconfig.RunConfig) (population.Distribution, error) {
	switch cfg.SkillDistribution {
	case "", "gaussian":
		mean, stddev := cfg.SkillMean, cfg.SkillStdDev
		if stddev == 0 {
			stddev = 1
		}
		return population.Gaussian{Mean: mean, StdDev: stddev}, nil
	case "uniform":
		min, max := cfg.SkillMin, cfg.SkillMax
		if min == 0 && max == 0 {
			min, max = -1, 1
		}
		return population.Uniform{Min: min, Max: max}, nil
	default:
		return nil, simerr.InvalidArgument("engine: unknown skill distribution %q", cfg.SkillDistribution)
	}
}
