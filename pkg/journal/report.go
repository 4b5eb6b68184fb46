package journal

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/metrics"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/runconfig"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
)

// SeriesSummary is the sum/mean/stddev reduction of one metric series,
// computed once at report time so the CLI and any exporter can read them
// without re-touching the raw arrays.
type SeriesSummary struct {
	Sum    float64 `json:"sum" csv:"sum"`
	Mean   float64 `json:"mean" csv:"mean"`
	StdDev float64 `json:"stddev" csv:"stddev"`
}

// RunReport is the journal-style summary record produced after a run
// completes: the configuration used, how long it took, the final
// skill/rating Spearman correlation, a count of recovered numeric
// failures, and summary statistics of each collected metric series.
type RunReport struct {
	RunID    string            `json:"run_id" csv:"run_id"`
	Config   runconfig.RunConfig `json:"config" csv:"-"`
	Duration time.Duration     `json:"duration" csv:"duration"`

	SpearmanCorrelation float64 `json:"spearman_correlation" csv:"spearman_correlation"`
	NumericFailureCount int     `json:"numeric_failure_count" csv:"numeric_failure_count"`
	PairingFallbackCount int    `json:"pairing_fallback_count" csv:"pairing_fallback_count"`

	PredictionError  SeriesSummary `json:"prediction_error" csv:"-"`
	SkillGap         SeriesSummary `json:"skill_gap" csv:"-"`
	GoodMatch        SeriesSummary `json:"good_match" csv:"-"`
}

// NewReport builds a RunReport from a completed run's player store and
// metrics collector. runID should be a fresh identifier (engine.Run
// mints one with github.com/google/uuid per run); duration is the
// caller-measured wall-clock time the run took.
func NewReport(runID string, cfg runconfig.RunConfig, store *player.Store, collector *metrics.Collector, events *EventLog, duration time.Duration) (RunReport, error) {
	rho, err := SpearmanSkillVsRating(store)
	if err != nil {
		return RunReport{}, err
	}

	predErr, err := summarize(collector, metrics.PredictionError)
	if err != nil {
		return RunReport{}, err
	}
	skillGap, err := summarize(collector, metrics.SkillGap)
	if err != nil {
		return RunReport{}, err
	}
	goodMatch, err := summarize(collector, metrics.GoodMatch)
	if err != nil {
		return RunReport{}, err
	}

	numericFailures, fallbacks := 0, 0
	if events != nil {
		numericFailures, fallbacks = events.Counts()
	}

	return RunReport{
		RunID:                runID,
		Config:               cfg,
		Duration:             duration,
		SpearmanCorrelation:  rho,
		NumericFailureCount:  numericFailures,
		PairingFallbackCount: fallbacks,
		PredictionError:      predErr,
		SkillGap:             skillGap,
		GoodMatch:            goodMatch,
	}, nil
}

func summarize(c *metrics.Collector, s metrics.Series) (SeriesSummary, error) {
	sum, err := c.Sum(s)
	if err != nil {
		return SeriesSummary{}, err
	}
	mean, err := c.Mean(s)
	if err != nil {
		return SeriesSummary{}, err
	}
	stddev, err := c.StdDev(s)
	if err != nil {
		return SeriesSummary{}, err
	}
	return SeriesSummary{Sum: sum, Mean: mean, StdDev: stddev}, nil
}

// SpearmanSkillVsRating computes Spearman's rank correlation coefficient
// between every player's latent skill and current visible rating — the
// convergence diagnostic the testable-properties section checks against
// a minimum threshold. Ranks are computed with the standard
// average-rank-on-ties rule, then fed to montanaflynn/stats' Pearson
// correlation, which is the textbook definition of Spearman's rho. It
// can be called mid-run (e.g. by the dashboard) as well as on a
// finished store.
func SpearmanSkillVsRating(store *player.Store) (float64, error) {
	all := store.All()
	n := len(all)
	if n < 2 {
		return 0, nil
	}

	skills := make([]float64, n)
	ratings := make([]float64, n)
	for i, p := range all {
		skills[i] = p.Skill
		ratings[i] = p.Rating
	}

	skillRanks := rank(skills)
	ratingRanks := rank(ratings)

	rho, err := stats.Correlation(skillRanks, ratingRanks)
	if err != nil {
		return 0, simerr.Internal("journal: spearman correlation: %v", err)
	}
	return rho, nil
}

// rank assigns each value its 1-based rank in ascending order, averaging
// ranks across ties.
func rank(values []float64) stats.Float64Data {
	type indexed struct {
		value float64
		index int
	}
	idx := make([]indexed, len(values))
	for i, v := range values {
		idx[i] = indexed{value: v, index: i}
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a].value < idx[b].value })

	ranks := make([]float64, len(values))
	i := 0
	for i < len(idx) {
		j := i
		for j+1 < len(idx) && idx[j+1].value == idx[i].value {
			j++
		}
		avgRank := float64(i+j)/2.0 + 1.0
		for k := i; k <= j; k++ {
			ranks[idx[k].index] = avgRank
		}
		i = j + 1
	}
	return ranks
}
