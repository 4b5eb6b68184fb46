// Package metrics collects the three per-match time series a simulation
// run produces and exposes summary reducers over them (sum, windowed
// moving average, per-bin averages, standard deviation over a window),
// using github.com/montanaflynn/stats for the reductions themselves so
// the arithmetic matches a well-tested statistics library rather than a
// hand-rolled one.
package metrics

import (
	"github.com/montanaflynn/stats"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
)

// Collector holds the three parallel, pre-sized series. Writes are
// append-only and must happen in strict match-index order; the
// simulation driver is the only writer.
type Collector struct {
	predictionError []float64
	skillGap        []float64
	goodMatch       []float64
}

// New pre-sizes all three series to capacity games, matching the
// metrics-collector design note that the arrays are allocated once at run
// start and never reallocated.
func New(games int) *Collector {
	return &Collector{
		predictionError: make([]float64, 0, games),
		skillGap:        make([]float64, 0, games),
		goodMatch:       make([]float64, 0, games),
	}
}

// Record appends one match's metrics. goodMatch must be 0 or 1.
func (c *Collector) Record(predictionError, skillGap, goodMatch float64) {
	c.predictionError = append(c.predictionError, predictionError)
	c.skillGap = append(c.skillGap, skillGap)
	c.goodMatch = append(c.goodMatch, goodMatch)
}

// Len returns the number of matches recorded so far.
func (c *Collector) Len() int { return len(c.predictionError) }

// PredictionError, SkillGap, and GoodMatch return the raw series in match
// order. Callers must not mutate the returned slices.
func (c *Collector) PredictionError() []float64 { return c.predictionError }
func (c *Collector) SkillGap() []float64        { return c.skillGap }
func (c *Collector) GoodMatch() []float64        { return c.goodMatch }

// Series names a collected metric, for use with the summary reducers.
type Series string

const (
	PredictionError Series = "prediction_error"
	SkillGap        Series = "skill_gap"
	GoodMatch       Series = "good_match"
)

func (c *Collector) series(s Series) []float64 {
	switch s {
	case PredictionError:
		return c.predictionError
	case SkillGap:
		return c.skillGap
	case GoodMatch:
		return c.goodMatch
	default:
		return nil
	}
}

// Sum returns the total of a series.
func (c *Collector) Sum(s Series) (float64, error) {
	data := c.series(s)
	if len(data) == 0 {
		return 0, nil
	}
	v, err := stats.Sum(data)
	if err != nil {
		return 0, simerr.Internal("metrics: sum of %s: %v", s, err)
	}
	return v, nil
}

// Mean returns the arithmetic mean of a series.
func (c *Collector) Mean(s Series) (float64, error) {
	data := c.series(s)
	if len(data) == 0 {
		return 0, nil
	}
	v, err := stats.Mean(data)
	if err != nil {
		return 0, simerr.Internal("metrics: mean of %s: %v", s, err)
	}
	return v, nil
}

// StdDev returns the population standard deviation of a series over its
// full length.
func (c *Collector) StdDev(s Series) (float64, error) {
	data := c.series(s)
	if len(data) < 2 {
		return 0, nil
	}
	v, err := stats.StandardDeviation(data)
	if err != nil {
		return 0, simerr.Internal("metrics: stddev of %s: %v", s, err)
	}
	return v, nil
}

// WindowedStdDev returns the population standard deviation of the last
// window entries of a series (or all of it, if shorter than window).
func (c *Collector) WindowedStdDev(s Series, window int) (float64, error) {
	data := c.tail(s, window)
	if len(data) < 2 {
		return 0, nil
	}
	v, err := stats.StandardDeviation(data)
	if err != nil {
		return 0, simerr.Internal("metrics: windowed stddev of %s: %v", s, err)
	}
	return v, nil
}

// MovingAverage returns the trailing simple moving average of a series
// over the last window entries (or all of it, if shorter than window).
func (c *Collector) MovingAverage(s Series, window int) (float64, error) {
	data := c.tail(s, window)
	if len(data) == 0 {
		return 0, nil
	}
	v, err := stats.Mean(data)
	if err != nil {
		return 0, simerr.Internal("metrics: moving average of %s: %v", s, err)
	}
	return v, nil
}

// BinAverages splits a series into numBins contiguous, roughly equal
// chunks (in match-index order) and returns the mean of each. It is the
// "per-bin averages" reducer used to draw a downsampled convergence curve
// without returning every raw point.
func (c *Collector) BinAverages(s Series, numBins int) ([]float64, error) {
	data := c.series(s)
	if numBins <= 0 {
		return nil, simerr.InvalidArgument("metrics: numBins must be positive, got %d", numBins)
	}
	if len(data) == 0 {
		return make([]float64, 0), nil
	}
	if numBins > len(data) {
		numBins = len(data)
	}

	out := make([]float64, 0, numBins)
	n := len(data)
	binSize := n / numBins
	remainder := n % numBins
	start := 0
	for i := 0; i < numBins; i++ {
		size := binSize
		if i < remainder {
			size++
		}
		chunk := data[start : start+size]
		mean, err := stats.Mean(chunk)
		if err != nil {
			return nil, simerr.Internal("metrics: bin average of %s: %v", s, err)
		}
		out = append(out, mean)
		start += size
	}
	return out, nil
}

func (c *Collector) tail(s Series, window int) []float64 {
	data := c.series(s)
	if window <= 0 || window > len(data) {
		return data
	}
	return data[len(data)-window:]
}
