// Package ensemble pools simulated trajectories from multiple models into a
// single trajectory set treated as a new synthetic model for downstream
// scoring. Weighted pooling apportions the run count of each source in
// proportion to its weight, duplicating or subsampling runs as needed. This
// is a documented approximation of closed-form mixture combination, not a
// precise statistical merge.
package ensemble

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aouyang1/go-ensembler/trajectory"
)

var (
	ErrNoTrajectorySets  = errors.New("no trajectory sets to combine")
	ErrWeightLenMismatch = errors.New("number of weights does not match number of trajectory sets")
	ErrInvalidWeights    = errors.New("weights must be non-negative with at least one positive")
	ErrMismatchedHorizon = errors.New("trajectory sets have mismatched horizons")
)

// Combine pools the runs of all input trajectory sets into one new set. All
// inputs must share the same horizon length and time labels. With nil
// weights every run of every source is carried over unchanged. With weights
// the pooled set keeps the same total run count, apportioned across sources
// by normalized weight; a source fills its share by cycling its runs in
// order, so the result is deterministic. The pooled set owns its own copy
// of the data, independent of the inputs.
func Combine(sets []*trajectory.Set, weights []float64) (*trajectory.Set, error) {
	if len(sets) == 0 {
		return nil, ErrNoTrajectorySets
	}
	for i, set := range sets {
		if set == nil || set.NumRuns() == 0 {
			return nil, fmt.Errorf("set %d, %w", i, trajectory.ErrUninitialized)
		}
	}
	var total int
	for i, set := range sets {
		if err := sets[0].Compatible(set); err != nil {
			return nil, fmt.Errorf("set %d, %w, %w", i, err, ErrMismatchedHorizon)
		}
		total += set.NumRuns()
	}

	if weights == nil {
		pooled := sets[0].Copy()
		var err error
		for _, set := range sets[1:] {
			pooled, err = trajectory.Append(pooled, set)
			if err != nil {
				return nil, err
			}
		}
		return pooled, nil
	}

	if len(weights) != len(sets) {
		return nil, fmt.Errorf("%d weights for %d sets, %w", len(weights), len(sets), ErrWeightLenMismatch)
	}
	var sumW float64
	for _, w := range weights {
		if w < 0.0 || math.IsNaN(w) {
			return nil, fmt.Errorf("got %f, %w", w, ErrInvalidWeights)
		}
		sumW += w
	}
	if sumW == 0.0 {
		return nil, ErrInvalidWeights
	}

	return pool(sets, apportion(weights, sumW, total))
}

// apportion splits total run slots across sources proportional to weight
// using the largest remainder method. Ties go to the lower source index so
// the split is deterministic.
func apportion(weights []float64, sumW float64, total int) []int {
	cnts := make([]int, len(weights))
	remainders := make([]float64, len(weights))
	assigned := 0
	for i, w := range weights {
		quota := w / sumW * float64(total)
		cnts[i] = int(math.Floor(quota))
		remainders[i] = quota - float64(cnts[i])
		assigned += cnts[i]
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for i := 0; i < total-assigned; i++ {
		cnts[order[i%len(order)]]++
	}
	return cnts
}

func pool(sets []*trajectory.Set, cnts []int) (*trajectory.Set, error) {
	var pooled [][]float64
	for i, set := range sets {
		for j := 0; j < cnts[i]; j++ {
			run, err := set.Run(j % set.NumRuns())
			if err != nil {
				return nil, err
			}
			pooled = append(pooled, run)
		}
	}
	if len(pooled) == 0 {
		return nil, ErrInvalidWeights
	}
	return trajectory.New(sets[0].Time(), pooled)
}
