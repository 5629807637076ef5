package trajectory

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func horizonT(n int) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, time.Date(1970, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC))
	}
	return t
}

func TestNew(t *testing.T) {
	testData := map[string]struct {
		t    []time.Time
		runs [][]float64
		err  error
	}{
		"no runs": {
			t:   horizonT(2),
			err: ErrNoRuns,
		},
		"no horizon": {
			runs: [][]float64{{1, 2}},
			err:  ErrNoHorizon,
		},
		"run length mismatch": {
			t:    horizonT(2),
			runs: [][]float64{{1, 2}, {3}},
			err:  ErrRunLenMismatch,
		},
		"non increasing time": {
			t: []time.Time{
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			runs: [][]float64{{1, 2}},
			err:  ErrNonMonotonic,
		},
		"valid": {
			t:    horizonT(2),
			runs: [][]float64{{1, 2}, {3, 4}},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			set, err := New(td.t, td.runs)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, len(td.runs), set.NumRuns())
			assert.Equal(t, len(td.t), set.Horizon())
			assert.Equal(t, td.t, set.Time())
			assert.Equal(t, td.runs, set.Runs())
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	runs := [][]float64{{1, 2}, {3, 4}}
	set, err := New(horizonT(2), runs)
	require.Nil(t, err)

	runs[0][0] = 99.0
	got, err := set.Run(0)
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 2}, got)
}

func TestRun(t *testing.T) {
	set, err := New(horizonT(3), [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.Nil(t, err)

	run, err := set.Run(1)
	require.Nil(t, err)
	assert.Equal(t, []float64{4, 5, 6}, run)

	_, err = set.Run(2)
	assert.ErrorIs(t, err, ErrRunOutOfBounds)
	_, err = set.Run(-1)
	assert.ErrorIs(t, err, ErrRunOutOfBounds)
}

func TestHorizonValues(t *testing.T) {
	set, err := New(horizonT(3), [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.Nil(t, err)

	vals, err := set.HorizonValues(1)
	require.Nil(t, err)
	assert.Equal(t, []float64{2, 5}, vals)

	_, err = set.HorizonValues(3)
	assert.ErrorIs(t, err, ErrStepOutOfBounds)
}

func TestCopy(t *testing.T) {
	set, err := New(horizonT(2), [][]float64{{1, 2}})
	require.Nil(t, err)

	next := set.Copy()
	require.Equal(t, set, next)

	set.vals[0] = 99.0
	require.NotEqual(t, next, set)
}

func TestAppend(t *testing.T) {
	a, err := New(horizonT(2), [][]float64{{1, 2}})
	require.Nil(t, err)
	b, err := New(horizonT(2), [][]float64{{3, 4}, {5, 6}})
	require.Nil(t, err)

	pooled, err := Append(a, b)
	require.Nil(t, err)
	assert.Equal(t, 3, pooled.NumRuns())
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, pooled.Runs())
}

func TestAppendMismatched(t *testing.T) {
	a, err := New(horizonT(2), [][]float64{{1, 2}})
	require.Nil(t, err)
	b, err := New(horizonT(3), [][]float64{{3, 4, 5}})
	require.Nil(t, err)

	_, err = Append(a, b)
	assert.ErrorIs(t, err, ErrMismatchedSet)

	shifted := horizonT(2)
	shifted[1] = shifted[1].Add(time.Hour)
	c, err := New(shifted, [][]float64{{3, 4}})
	require.Nil(t, err)
	_, err = Append(a, c)
	assert.ErrorIs(t, err, ErrMismatchedSet)
}

func TestNewObservations(t *testing.T) {
	_, err := NewObservations([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrObsLenMismatch)

	obs, err := NewObservations([]float64{1, math.NaN(), 3}, 3)
	require.Nil(t, err)
	assert.True(t, obs.Observed(0))
	assert.False(t, obs.Observed(1))
	assert.False(t, obs.Observed(3))
	assert.Equal(t, 2, obs.NumObserved())
}

func TestObservationsAt(t *testing.T) {
	labels := horizonT(3)
	obs := ObservationsAt(labels, map[time.Time]float64{
		labels[0]: 1.5,
		labels[2]: 2.5,
	})
	assert.Equal(t, 1.5, obs[0])
	assert.True(t, math.IsNaN(obs[1]))
	assert.Equal(t, 2.5, obs[2])
	assert.Equal(t, 2, obs.NumObserved())
}
