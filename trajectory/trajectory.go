package trajectory

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoRuns          = errors.New("no simulation runs")
	ErrNoHorizon       = errors.New("no horizon steps")
	ErrRunLenMismatch  = errors.New("simulation run has a different length than the horizon")
	ErrNonMonotonic    = errors.New("horizon time labels are not monotonic")
	ErrMismatchedSet   = errors.New("trajectory sets have mismatched horizons")
	ErrUninitialized   = errors.New("uninitialized trajectory set")
	ErrObsLenMismatch  = errors.New("observations have a different length than the horizon")
	ErrRunOutOfBounds  = errors.New("run index is out of bounds")
	ErrStepOutOfBounds = errors.New("horizon step index is out of bounds")
)

// Set holds the simulated sample paths of a single model from one forecast
// origin. Each run is one possible future of the series covering every
// horizon step. Values are stored in column major order so all run values at
// a given horizon step are contiguous,
// e.g. runs [][]float64{{1.0, 2.0}, {3.0, 4.0}} is stored as
// {1.0, 3.0, 2.0, 4.0}.
type Set struct {
	t       []time.Time
	vals    []float64
	numRuns int
}

// New creates a trajectory set from a horizon time slice and a slice of
// simulation runs. Every run must have the same length as the horizon and
// the time labels must be strictly increasing. Inputs are copied so the set
// does not alias caller memory.
func New(t []time.Time, runs [][]float64) (*Set, error) {
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	if len(t) == 0 {
		return nil, ErrNoHorizon
	}
	for i, run := range runs {
		if len(run) != len(t) {
			return nil, fmt.Errorf("run %d has length %d, but horizon has length %d, %w", i, len(run), len(t), ErrRunLenMismatch)
		}
	}

	var lastT time.Time
	for i, currT := range t {
		if currT.Before(lastT) || currT.Equal(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		lastT = currT
	}

	m := len(runs)
	n := len(t)
	tSeries := make([]time.Time, n)
	copy(tSeries, t)

	vals := make([]float64, m*n)
	for r, run := range runs {
		for h, val := range run {
			vals[h*m+r] = val
		}
	}

	return &Set{
		t:       tSeries,
		vals:    vals,
		numRuns: m,
	}, nil
}

// NumRuns returns the number of simulation runs in the set.
func (s *Set) NumRuns() int {
	if s == nil {
		return 0
	}
	return s.numRuns
}

// Horizon returns the number of forecast steps covered by every run.
func (s *Set) Horizon() int {
	if s == nil {
		return 0
	}
	return len(s.t)
}

// Time returns a copy of the horizon time labels.
func (s *Set) Time() []time.Time {
	if s == nil {
		return nil
	}
	t := make([]time.Time, len(s.t))
	copy(t, s.t)
	return t
}

// Run returns a copy of the i-th simulation run across all horizon steps.
func (s *Set) Run(i int) ([]float64, error) {
	if s == nil {
		return nil, ErrUninitialized
	}
	if i < 0 || i >= s.numRuns {
		return nil, fmt.Errorf("run %d of %d, %w", i, s.numRuns, ErrRunOutOfBounds)
	}
	run := make([]float64, len(s.t))
	for h := 0; h < len(s.t); h++ {
		run[h] = s.vals[h*s.numRuns+i]
	}
	return run, nil
}

// HorizonValues returns a copy of the across-run values at a single horizon
// step. This is the empirical distribution a quantile table is derived from.
func (s *Set) HorizonValues(h int) ([]float64, error) {
	if s == nil {
		return nil, ErrUninitialized
	}
	if h < 0 || h >= len(s.t) {
		return nil, fmt.Errorf("step %d of %d, %w", h, len(s.t), ErrStepOutOfBounds)
	}
	vals := make([]float64, s.numRuns)
	copy(vals, s.vals[h*s.numRuns:(h+1)*s.numRuns])
	return vals, nil
}

// Runs returns a copy of all simulation runs in row major order.
func (s *Set) Runs() [][]float64 {
	if s == nil {
		return nil
	}
	runs := make([][]float64, s.numRuns)
	for r := 0; r < s.numRuns; r++ {
		run := make([]float64, len(s.t))
		for h := 0; h < len(s.t); h++ {
			run[h] = s.vals[h*s.numRuns+r]
		}
		runs[r] = run
	}
	return runs
}

// Copy returns a deep copy of the trajectory set.
func (s *Set) Copy() *Set {
	if s == nil {
		return nil
	}
	t := make([]time.Time, len(s.t))
	copy(t, s.t)
	vals := make([]float64, len(s.vals))
	copy(vals, s.vals)
	return &Set{
		t:       t,
		vals:    vals,
		numRuns: s.numRuns,
	}
}

// Compatible reports whether two trajectory sets share the same horizon
// length and time labels and so can be pooled or compared step for step.
func (s *Set) Compatible(other *Set) error {
	if s == nil || other == nil {
		return ErrUninitialized
	}
	if len(s.t) != len(other.t) {
		return fmt.Errorf("horizon of %d against %d, %w", len(s.t), len(other.t), ErrMismatchedSet)
	}
	for i := range s.t {
		if !s.t[i].Equal(other.t[i]) {
			return fmt.Errorf("time label at step %d differs, %w", i, ErrMismatchedSet)
		}
	}
	return nil
}

// Append pools the runs of two compatible trajectory sets into a new set
// owning its own copy of the data.
func Append(a, b *Set) (*Set, error) {
	if err := a.Compatible(b); err != nil {
		return nil, err
	}

	m := a.numRuns + b.numRuns
	n := len(a.t)
	t := make([]time.Time, n)
	copy(t, a.t)

	vals := make([]float64, m*n)
	for h := 0; h < n; h++ {
		copy(vals[h*m:h*m+a.numRuns], a.vals[h*a.numRuns:(h+1)*a.numRuns])
		copy(vals[h*m+a.numRuns:(h+1)*m], b.vals[h*b.numRuns:(h+1)*b.numRuns])
	}
	return &Set{
		t:       t,
		vals:    vals,
		numRuns: m,
	}, nil
}

// Observations holds the realized values of the series aligned to the
// horizon steps of a trajectory set. A NaN marks a step that has not been
// realized yet.
type Observations []float64

// NewObservations creates an aligned observation slice, validating it against
// the horizon length.
func NewObservations(vals []float64, horizon int) (Observations, error) {
	if len(vals) != horizon {
		return nil, fmt.Errorf("got %d observations for a horizon of %d, %w", len(vals), horizon, ErrObsLenMismatch)
	}
	obs := make(Observations, len(vals))
	copy(obs, vals)
	return obs, nil
}

// ObservationsAt aligns a map of realized values keyed by time label to a
// horizon time slice. Steps without a realized value are set to NaN.
func ObservationsAt(t []time.Time, realized map[time.Time]float64) Observations {
	obs := make(Observations, len(t))
	for i, label := range t {
		val, exists := realized[label]
		if !exists {
			val = math.NaN()
		}
		obs[i] = val
	}
	return obs
}

// Observed reports whether the value at a horizon step has been realized.
func (o Observations) Observed(h int) bool {
	if h < 0 || h >= len(o) {
		return false
	}
	return !math.IsNaN(o[h])
}

// NumObserved returns the number of realized horizon steps.
func (o Observations) NumObserved() int {
	var cnt int
	for i := range o {
		if !math.IsNaN(o[i]) {
			cnt++
		}
	}
	return cnt
}

// Simulator produces simulated future sample paths from some externally
// fitted generative model. Model fitting and simulation internals stay
// behind this interface.
type Simulator interface {
	Simulate(horizon, numRuns int) (*Set, error)
}
