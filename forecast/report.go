package forecast

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/metrics"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// HorizonReport holds the held-out scores of one horizon.
type HorizonReport struct {
	Horizon  int                `json:"horizon"`
	Model    metrics.Regression `json:"model"`
	Baseline metrics.Regression `json:"baseline"`
	// Skill is the MAE improvement over persistence, in percent.
	Skill float64 `json:"skill"`
}

// Report summarizes a training run.
type Report struct {
	Target    airquality.Pollutant `json:"target"`
	TrainRows int                  `json:"train_rows"`
	TestRows  int                  `json:"test_rows"`
	Horizons  []HorizonReport      `json:"horizons"`
}

// WriteTable prints one line per horizon.
func (r *Report) WriteTable(w io.Writer) error {
	rule := strings.Repeat("-", 92)
	var b strings.Builder
	fmt.Fprintf(&b, "Test set metrics for %s (train %d rows, test %d rows)\n", r.Target, r.TrainRows, r.TestRows)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%-14s | %-8s | %-8s | %-8s | %-9s | %-8s | %-9s | %-8s\n",
		"Horizon", "MAE", "RMSE", "R2", "MAPE", "Corr", "Skill", "Base MAE")
	fmt.Fprintln(&b, rule)
	for _, h := range r.Horizons {
		fmt.Fprintf(&b, "%-14s | %-8.3f | %-8.3f | %-8.3f | %-8.2f%% | %-8.3f | %+8.2f%% | %-8.3f\n",
			fmt.Sprintf("%s_%dh", r.Target, h.Horizon),
			h.Model.MAE, h.Model.RMSE, h.Model.R2, h.Model.MAPE, h.Model.Corr, h.Skill, h.Baseline.MAE)
	}
	fmt.Fprintln(&b, rule)
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "writing report")
}

// Plot renders model and persistence MAE per horizon as grouped bars. The file
// extension picks the format (png, svg, pdf, ...).
func (r *Report) Plot(path string) error {
	if len(r.Horizons) == 0 {
		return errors.NewValueError("Report.Plot", "report has no horizons")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: MAE by horizon", r.Target)
	p.Y.Label.Text = "MAE"
	p.X.Label.Text = "horizon"

	modelMAE := make(plotter.Values, len(r.Horizons))
	baseMAE := make(plotter.Values, len(r.Horizons))
	labels := make([]string, len(r.Horizons))
	for i, h := range r.Horizons {
		modelMAE[i] = h.Model.MAE
		baseMAE[i] = h.Baseline.MAE
		labels[i] = fmt.Sprintf("%dh", h.Horizon)
	}

	width := vg.Points(14)
	modelBars, err := plotter.NewBarChart(modelMAE, width)
	if err != nil {
		return errors.Wrap(err, "building model bars")
	}
	modelBars.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	modelBars.Offset = -width / 2

	baseBars, err := plotter.NewBarChart(baseMAE, width)
	if err != nil {
		return errors.Wrap(err, "building baseline bars")
	}
	baseBars.Color = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	baseBars.Offset = width / 2

	p.Add(modelBars, baseBars)
	p.Legend.Add("model", modelBars)
	p.Legend.Add("persistence", baseBars)
	p.Legend.Top = true
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}
