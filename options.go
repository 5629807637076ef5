package ensembler

import "github.com/aouyang1/go-ensembler/quantile"

// Options sets the probability grids an Evaluator scores and plots with.
// The score grid drives CRPS and must stay fixed across every model being
// compared. The band grid drives fan chart bands and the per-probability
// score breakdown.
type Options struct {
	ScoreProbabilities []float64
	BandProbabilities  []float64
}

// NewDefaultOptions returns options scoring on the canonical CRPS grid of
// 0.01 through 0.99 with decile bands.
func NewDefaultOptions() *Options {
	return &Options{
		ScoreProbabilities: quantile.CRPSGrid(),
		BandProbabilities:  quantile.Deciles(),
	}
}
