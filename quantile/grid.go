package quantile

import (
	"fmt"
	"math"
)

// Grid creates an ascending probability grid from start to end inclusive
// with a fixed step. All grid points must fall in the open interval (0, 1).
func Grid(start, end, step float64) ([]float64, error) {
	if step <= 0.0 || start > end {
		return nil, fmt.Errorf("start %f, end %f, step %f, %w", start, end, step, ErrInvalidGrid)
	}
	if start <= 0.0 || end >= 1.0 {
		return nil, fmt.Errorf("start %f, end %f, %w", start, end, ErrInvalidProbability)
	}

	n := int(math.Floor((end-start)/step+1e-9)) + 1
	probs := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		probs = append(probs, start+float64(i)*step)
	}
	return probs, nil
}

// Deciles returns the nine decile probabilities 0.1 through 0.9. This is
// the default grid for fan chart bands and per-decile score breakdowns.
func Deciles() []float64 {
	probs, _ := Grid(0.1, 0.9, 0.1)
	return probs
}

// CRPSGrid returns the probability grid used to approximate CRPS, 0.01
// through 0.99 with a step of 0.01. CRPS values depend on the grid, so any
// comparison across models must hold the grid fixed.
func CRPSGrid() []float64 {
	probs, _ := Grid(0.01, 0.99, 0.01)
	return probs
}
