package metrics

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// SavePlot renders the per-class F1 scores of a report as a bar chart and
// writes it to path. The output format follows the file extension
// (.png, .svg, .pdf).
func SavePlot(r *ClassificationReport, path string) error {
	p := plot.New()
	p.Title.Text = "Per-class F1"
	p.Y.Label.Text = "f1-score"
	p.Y.Min = 0
	p.Y.Max = 1

	values := make(plotter.Values, len(r.Classes))
	names := make([]string, len(r.Classes))
	for i, c := range r.Classes {
		values[i] = c.F1
		names[i] = c.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "build bar chart")
	}
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save report plot to %s", path)
	}
	return nil
}
