package trajectory

import (
	"math"
	"time"

	"github.com/rickar/cal/v2"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// GenerateT creates a horizon time slice of n evenly spaced steps starting
// after the time returned by nowFunc.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i+1)))
	}
	return t
}

// GenerateMonthlyT creates a horizon time slice of n month starts beginning
// with the month after start. Calendar months are not a fixed duration so
// this steps with AddDate instead of a Duration.
func GenerateMonthlyT(n int, start time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		t = append(t, ct.AddDate(0, i+1, 0))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) SetConst(t []time.Time, val float64, start, end time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if (t[i].After(start) || t[i].Equal(start)) && t[i].Before(end) {
			s[i] = val
		}
	}
	return s
}

// AddHolidayUplift adds a constant bump to every point falling inside the
// window around each yearly observed occurrence of the holiday spanned by
// the time slice.
func (s Series) AddHolidayUplift(t []time.Time, hol *cal.Holiday, durBefore, durAfter time.Duration, uplift float64) Series {
	if len(t) == 0 {
		return s
	}
	for year := t[0].Year(); year <= t[len(t)-1].Year(); year++ {
		_, observed := hol.Calc(year)
		start := observed.Add(-durBefore)
		end := observed.Add(durAfter)
		for i := range t {
			if (t[i].After(start) || t[i].Equal(start)) && t[i].Before(end) {
				s[i] += uplift
			}
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

// GenerateNoisePaths simulates numRuns sample paths around a point forecast
// by adding independent gaussian noise at every horizon step. The seed fixes
// the generated paths for reproducible tests.
func GenerateNoisePaths(t []time.Time, point Series, scale float64, numRuns int, seed uint64) (*Set, error) {
	dist := distuv.Normal{
		Mu:    0.0,
		Sigma: scale,
		Src:   rand.NewSource(seed),
	}

	runs := make([][]float64, numRuns)
	for r := 0; r < numRuns; r++ {
		run := make([]float64, len(t))
		for h := 0; h < len(t); h++ {
			run[h] = point[h] + dist.Rand()
		}
		runs[r] = run
	}
	return New(t, runs)
}

// GenerateDriftPaths simulates numRuns random walk sample paths starting
// from last with a per-step drift and gaussian step noise. This mimics the
// trajectories a naive-with-drift model would produce.
func GenerateDriftPaths(t []time.Time, last, drift, scale float64, numRuns int, seed uint64) (*Set, error) {
	dist := distuv.Normal{
		Mu:    drift,
		Sigma: scale,
		Src:   rand.NewSource(seed),
	}

	runs := make([][]float64, numRuns)
	for r := 0; r < numRuns; r++ {
		run := make([]float64, len(t))
		val := last
		for h := 0; h < len(t); h++ {
			val += dist.Rand()
			run[h] = val
		}
		runs[r] = run
	}
	return New(t, runs)
}
