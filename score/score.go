// Package score evaluates quantile forecasts against realized observations
// using the pinball loss, its CRPS aggregate, and CRPS-based skill scores.
package score

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-ensembler/quantile"
	"github.com/aouyang1/go-ensembler/trajectory"
)

var (
	ErrNoData         = errors.New("no horizon step has both a quantile estimate and an observation")
	ErrObsLenMismatch = errors.New("observations have a different length than the table horizon")
	ErrZeroBaseline   = errors.New("baseline CRPS is zero")
	ErrNoTable        = errors.New("no quantile table")
)

// PinballLoss computes the quantile loss of a single quantile estimate q at
// probability p against the observed value y. The loss is 2*(1-p)*(q-y)
// when the observation falls below the estimate and 2*p*(y-q) otherwise.
// At p=0.5 this reduces to the absolute error. A score of 0 means the
// estimate matched the observation exactly.
func PinballLoss(q, p, y float64) float64 {
	if y < q {
		return 2.0 * (1.0 - p) * (q - y)
	}
	return 2.0 * p * (y - q)
}

// AverageQuantileScore computes the mean pinball loss at one probability
// across every horizon step that has both a quantile estimate and a
// realized observation. Unrealized steps are skipped rather than scored.
func AverageQuantileScore(tb *quantile.Table, obs trajectory.Observations, p float64) (float64, error) {
	if tb == nil {
		return 0, ErrNoTable
	}
	if len(obs) != tb.Horizon() {
		return 0, fmt.Errorf("expected %d, but got %d, %w", tb.Horizon(), len(obs), ErrObsLenMismatch)
	}

	qs := 0.0
	var cnt int
	for h := 0; h < tb.Horizon(); h++ {
		if !obs.Observed(h) {
			continue
		}
		q, err := tb.At(h, p)
		if err != nil {
			return 0, err
		}
		qs += PinballLoss(q, p, obs[h])
		cnt++
	}
	if cnt == 0 {
		return 0, ErrNoData
	}
	return qs / float64(cnt), nil
}

// CRPS approximates the continuous ranked probability score by averaging
// the quantile score over every probability in the table grid. The value
// depends on the grid, so tables compared against each other must be built
// on the same grid. The canonical grid is quantile.CRPSGrid.
func CRPS(tb *quantile.Table, obs trajectory.Observations) (float64, error) {
	if tb == nil {
		return 0, ErrNoTable
	}

	probs := tb.Probabilities()
	crps := 0.0
	for _, p := range probs {
		qs, err := AverageQuantileScore(tb, obs, p)
		if err != nil {
			return 0, fmt.Errorf("unable to compute quantile score at %f, %w", p, err)
		}
		crps += qs
	}
	return crps / float64(len(probs)), nil
}

// SkillScore reports the percentage CRPS improvement of a candidate model
// over a baseline model, 100*(1 - candidate/baseline). Positive values mean
// the candidate improves on the baseline. A zero baseline is surfaced as
// ErrZeroBaseline instead of dividing through.
func SkillScore(candidateCRPS, baselineCRPS float64) (float64, error) {
	if baselineCRPS == 0.0 {
		return 0, ErrZeroBaseline
	}
	return 100.0 * (1.0 - candidateCRPS/baselineCRPS), nil
}
