package ensembler

import (
	"testing"
	"time"

	"github.com/aouyang1/go-ensembler/trajectory"
	"github.com/pkg/profile"
)

var benchReport *Report

func setupEvaluator(b *testing.B) *Evaluator {
	horizon := trajectory.GenerateMonthlyT(24, time.Date(2015, 12, 1, 0, 0, 0, 0, time.UTC))

	naive, err := trajectory.GenerateDriftPaths(horizon, 2500.0, 8.0, 40.0, 5000, 1)
	if err != nil {
		b.Fatal(err)
	}
	seasonal, err := trajectory.GenerateNoisePaths(horizon, trajectory.GenerateConstY(24, 2500.0), 60.0, 5000, 2)
	if err != nil {
		b.Fatal(err)
	}

	e, err := New(nil)
	if err != nil {
		b.Fatal(err)
	}
	if err := e.AddModel("naive", naive); err != nil {
		b.Fatal(err)
	}
	if err := e.AddModel("seasonal", seasonal); err != nil {
		b.Fatal(err)
	}
	if err := e.Ensemble("ensemble", []string{"naive", "seasonal"}, nil); err != nil {
		b.Fatal(err)
	}

	obs := make(trajectory.Observations, 24)
	for i := range obs {
		obs[i] = 2500.0 + 9.0*float64(i+1)
	}
	if err := e.SetObservations(obs); err != nil {
		b.Fatal(err)
	}
	return e
}

func BenchmarkReport(b *testing.B) {
	e := setupEvaluator(b)

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for i := 0; i < b.N; i++ {
		var err error
		benchReport, err = e.Report("naive")
		if err != nil {
			panic(err)
		}
	}
}
