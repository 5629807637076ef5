package ensembler

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/aouyang1/go-ensembler/quantile"
	"github.com/aouyang1/go-ensembler/trajectory"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineFanChart generates an echart line chart of a model's quantile bands
// across the forecast horizon, one series per probability, along with the
// realized observations where present.
func LineFanChart(title string, tb *quantile.Table, obs trajectory.Observations) (*charts.Line, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	t := tb.Time()
	line = line.SetXAxis(t)
	for _, p := range tb.Probabilities() {
		band, err := tb.Band(p)
		if err != nil {
			return nil, err
		}
		lineData := make([]opts.LineData, 0, len(band))
		for _, val := range band {
			lineData = append(lineData, opts.LineData{Value: val})
		}
		line = line.AddSeries(fmt.Sprintf("q%.2f", p), lineData)
	}

	if len(obs) == len(t) {
		lineDataObs := make([]opts.LineData, 0, len(obs))
		for _, val := range obs {
			if math.IsNaN(val) {
				lineDataObs = append(lineDataObs, opts.LineData{Value: nil})
				continue
			}
			lineDataObs = append(lineDataObs, opts.LineData{Value: val})
		}
		line = line.AddSeries("Observed", lineDataObs)
	}

	return line, nil
}

// PlotFanChart uses the Apache Echarts library to generate an html file
// showing a registered model's quantile fan on the band grid with any
// realized observations overlaid.
func (e *Evaluator) PlotFanChart(path, name string) error {
	tb, err := e.QuantileTable(name, e.opt.BandProbabilities)
	if err != nil {
		return fmt.Errorf("unable to build band table for %q, %w", name, err)
	}

	fan, err := LineFanChart(fmt.Sprintf("Quantile Forecast %s", name), tb, e.obs)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(fan)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return page.Render(io.MultiWriter(file))
}
