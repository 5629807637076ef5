// Package quantile derives empirical quantile tables from simulated
// trajectory sets. The p-quantile of n sorted values linearly interpolates
// between the order statistics at 0-indexed position (n-1)*p. This rule is
// shared with the scorer so quantile scores stay reproducible across runs.
package quantile

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aouyang1/go-ensembler/trajectory"
)

var (
	ErrNoTrajectories     = errors.New("no trajectory set to build quantiles from")
	ErrNoProbabilities    = errors.New("no probabilities requested")
	ErrInvalidProbability = errors.New("probability must be in the open interval (0, 1)")
	ErrUnknownProbability = errors.New("probability is not in the table grid")
	ErrStepOutOfBounds    = errors.New("horizon step index is out of bounds")
	ErrInvalidGrid        = errors.New("invalid probability grid bounds or step")
)

// Table maps every (horizon step, probability) pair to the empirical
// quantile of the across-run simulated values at that step. Tables are
// derived artifacts, rebuilt from a trajectory set on demand and never
// mutated in place.
type Table struct {
	t     []time.Time
	probs []float64
	vals  []float64 // vals[h*len(probs)+j] for the j-th probability
}

// Build computes the quantile table of a trajectory set on the requested
// probability grid. Probabilities may be passed in any order and are stored
// ascending.
func Build(set *trajectory.Set, probs []float64) (*Table, error) {
	if set == nil || set.NumRuns() == 0 {
		return nil, ErrNoTrajectories
	}
	if len(probs) == 0 {
		return nil, ErrNoProbabilities
	}
	for _, p := range probs {
		if p <= 0.0 || p >= 1.0 || math.IsNaN(p) {
			return nil, fmt.Errorf("got %f, %w", p, ErrInvalidProbability)
		}
	}

	gridProbs := make([]float64, len(probs))
	copy(gridProbs, probs)
	sort.Float64s(gridProbs)

	horizon := set.Horizon()
	vals := make([]float64, horizon*len(gridProbs))
	for h := 0; h < horizon; h++ {
		hVals, err := set.HorizonValues(h)
		if err != nil {
			return nil, err
		}
		sort.Float64s(hVals)
		for j, p := range gridProbs {
			vals[h*len(gridProbs)+j] = interpolate(hVals, p)
		}
	}

	return &Table{
		t:     set.Time(),
		probs: gridProbs,
		vals:  vals,
	}, nil
}

// interpolate computes the p-quantile of an ascending sorted slice using
// linear interpolation between the order statistics at position (n-1)*p.
func interpolate(sorted []float64, p float64) float64 {
	pos := float64(len(sorted)-1) * p
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Horizon returns the number of forecast steps covered by the table.
func (tb *Table) Horizon() int {
	if tb == nil {
		return 0
	}
	return len(tb.t)
}

// Time returns a copy of the horizon time labels.
func (tb *Table) Time() []time.Time {
	if tb == nil {
		return nil
	}
	t := make([]time.Time, len(tb.t))
	copy(t, tb.t)
	return t
}

// Probabilities returns a copy of the ascending probability grid.
func (tb *Table) Probabilities() []float64 {
	if tb == nil {
		return nil
	}
	probs := make([]float64, len(tb.probs))
	copy(probs, tb.probs)
	return probs
}

// At returns the quantile estimate for a horizon step and probability. The
// probability must be one of the grid points the table was built on.
func (tb *Table) At(h int, p float64) (float64, error) {
	if tb == nil {
		return 0, ErrNoTrajectories
	}
	if h < 0 || h >= len(tb.t) {
		return 0, fmt.Errorf("step %d of %d, %w", h, len(tb.t), ErrStepOutOfBounds)
	}
	j, err := tb.probIndex(p)
	if err != nil {
		return 0, err
	}
	return tb.vals[h*len(tb.probs)+j], nil
}

// Band returns the quantile estimates at one probability across all horizon
// steps, in step order. This is the shape a fan chart band is drawn from.
func (tb *Table) Band(p float64) ([]float64, error) {
	if tb == nil {
		return nil, ErrNoTrajectories
	}
	j, err := tb.probIndex(p)
	if err != nil {
		return nil, err
	}
	band := make([]float64, len(tb.t))
	for h := 0; h < len(tb.t); h++ {
		band[h] = tb.vals[h*len(tb.probs)+j]
	}
	return band, nil
}

func (tb *Table) probIndex(p float64) (int, error) {
	j := sort.SearchFloat64s(tb.probs, p)
	if j >= len(tb.probs) || tb.probs[j] != p {
		return 0, fmt.Errorf("got %f, %w", p, ErrUnknownProbability)
	}
	return j, nil
}
