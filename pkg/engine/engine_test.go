package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/metrics"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/runconfig"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
)

func smallConfig() runconfig.RunConfig {
	cfg := runconfig.Default()
	cfg.N = 10
	cfg.Games = 100
	cfg.Seed = 1
	return cfg
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.N = 1
	_, err := Run(cfg, RunOptions{})
	assert.ErrorIs(t, err, simerr.ErrInvalidArgument)
}

func TestRunRejectsUnknownStrategy(t *testing.T) {
	cfg := smallConfig()
	cfg.Strategy = "not_a_real_one"
	_, err := Run(cfg, RunOptions{})
	assert.ErrorIs(t, err, simerr.ErrInvalidArgument)
}

func TestRunProducesReportAndStore(t *testing.T) {
	result, err := Run(smallConfig(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 10, result.Store.Len())
	assert.NotEmpty(t, result.Report.RunID)
	assert.Equal(t, 100, result.Metrics.Metrics.Len())
}

func TestRunWithCallerSinkAlsoUpdatesInternalCounts(t *testing.T) {
	cfg := smallConfig()
	cfg.Strategy = "naive"
	sink := simerr.NewRecordingSink()

	result, err := Run(cfg, RunOptions{Sink: sink})
	require.NoError(t, err)
	assert.Equal(t, len(sink.PairingFallbacks), result.Report.PairingFallbackCount)
	assert.Equal(t, len(sink.NumericFailures), result.Report.NumericFailureCount)
}

func TestRunParameterProbeRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.N = 1
	_, _, err := RunParameterProbe(cfg)
	assert.ErrorIs(t, err, simerr.ErrInvalidArgument)
}

func TestRunParameterProbeRejectsUnknownStrategy(t *testing.T) {
	cfg := smallConfig()
	cfg.Strategy = "not_a_real_one"
	_, _, err := RunParameterProbe(cfg)
	assert.ErrorIs(t, err, simerr.ErrInvalidArgument)
}

// TestRunParameterProbeMatchesFullRunSums checks the property a parameter
// sweep depends on: under the same config and seed, RunParameterProbe's
// two sums equal summing the full Run's prediction-error and skill-gap
// series, even though the probe never builds those series or any
// per-player history.
func TestRunParameterProbeMatchesFullRunSums(t *testing.T) {
	cfg := smallConfig()
	cfg.Strategy = "gaussian"

	full, err := Run(cfg, RunOptions{})
	require.NoError(t, err)
	wantPredictionError, err := full.Metrics.Metrics.Sum(metrics.PredictionError)
	require.NoError(t, err)
	wantSkillGap, err := full.Metrics.Metrics.Sum(metrics.SkillGap)
	require.NoError(t, err)

	gotPredictionError, gotSkillGap, err := RunParameterProbe(cfg)
	require.NoError(t, err)

	assert.InDelta(t, wantPredictionError, gotPredictionError, 1e-9)
	assert.InDelta(t, wantSkillGap, gotSkillGap, 1e-9)
}

func TestRunParameterProbeRepeatableGivenSameSeed(t *testing.T) {
	cfg := smallConfig()

	pred1, gap1, err := RunParameterProbe(cfg)
	require.NoError(t, err)
	pred2, gap2, err := RunParameterProbe(cfg)
	require.NoError(t, err)

	assert.Equal(t, pred1, pred2)
	assert.Equal(t, gap1, gap2)
}

func TestRunParameterProbeVariesWithSeed(t *testing.T) {
	cfgA := smallConfig()
	cfgB := smallConfig()
	cfgB.Seed = cfgA.Seed + 1

	predA, gapA, err := RunParameterProbe(cfgA)
	require.NoError(t, err)
	predB, gapB, err := RunParameterProbe(cfgB)
	require.NoError(t, err)

	assert.False(t, predA == predB && gapA == gapB, "expected different seeds to produce different probe sums")
}

func TestSkillDistributionDefaultsAndValidation(t *testing.T) {
	cfg := smallConfig()
	cfg.SkillDistribution = "bogus"
	_, err := skillDistribution(cfg)
	assert.ErrorIs(t, err, simerr.ErrInvalidArgument)

	cfg.SkillDistribution = "uniform"
	dist, err := skillDistribution(cfg)
	require.NoError(t, err)
	assert.NotNil(t, dist)
}
