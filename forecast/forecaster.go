package forecast

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/model"
	"github.com/YuminosukeSato/aqforecast/features"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
	"github.com/YuminosukeSato/aqforecast/pkg/log"
)

// Prediction is the forecast of one horizon from the latest history row.
type Prediction struct {
	Horizon int       `json:"horizon"`
	Time    time.Time `json:"time"`
	Value   float64   `json:"value"`
}

// Forecaster scores the most recent row of a history with per-horizon models.
// It is read-only after Train and safe for concurrent use.
type Forecaster struct {
	cfg      airquality.Config
	features []string
	models   map[int]model.Regressor
	logger   log.Logger
}

// NewForecaster wraps already-fitted models. Every horizon of cfg needs a model;
// cfg is switched to inference mode.
func NewForecaster(cfg airquality.Config, models map[int]model.Regressor) (*Forecaster, error) {
	inference, err := cfg.With(airquality.WithMode(airquality.ModeInference))
	if err != nil {
		return nil, err
	}
	cols, err := features.FeaturesFor(inference.Target())
	if err != nil {
		return nil, err
	}
	own := make(map[int]model.Regressor, len(models))
	for _, h := range inference.Horizons() {
		reg, ok := models[h]
		if !ok || reg == nil {
			return nil, errors.NewConfigError("models", "no model for horizon", h)
		}
		own[h] = reg
	}
	return &Forecaster{cfg: inference, features: cols, models: own, logger: log.GetLogger()}, nil
}

// Target returns the forecast pollutant.
func (f *Forecaster) Target() airquality.Pollutant {
	return f.cfg.Target()
}

// Features returns the column layout the models were fit on.
func (f *Forecaster) Features() []string {
	return append([]string(nil), f.features...)
}

// Horizons returns the horizons with a model, ascending.
func (f *Forecaster) Horizons() []int {
	hs := make([]int, 0, len(f.models))
	for h := range f.models {
		hs = append(hs, h)
	}
	sort.Ints(hs)
	return hs
}

// Predict runs the inference pipeline over history and forecasts every horizon
// from its latest row. Prediction times are the latest timestamp plus h hours.
func (f *Forecaster) Predict(history []airquality.Observation) ([]Prediction, error) {
	pipeline, err := features.NewPipeline(f.cfg, features.WithLogger(f.logger))
	if err != nil {
		return nil, err
	}
	table, err := pipeline.RunInference(history)
	if err != nil {
		return nil, err
	}
	if missing := table.Frame.Missing(f.features); len(missing) > 0 {
		return nil, errors.NewMissingFeatureError("Forecaster.Predict", missing)
	}

	last := table.Frame.Tail(1)
	x, err := last.Matrix(f.features)
	if err != nil {
		return nil, err
	}
	now := last.Time(0)

	out := make([]Prediction, 0, len(f.models))
	for _, h := range f.Horizons() {
		pred, err := f.predictOne(h, x)
		if err != nil {
			return nil, err
		}
		out = append(out, Prediction{
			Horizon: h,
			Time:    now.Add(time.Duration(h) * time.Hour),
			Value:   pred,
		})
	}
	f.logger.Debug("Forecast produced",
		log.TargetKey, string(f.cfg.Target()),
		log.OperationKey, log.OperationPredict,
		log.HorizonsKey, f.Horizons(),
	)
	return out, nil
}

func (f *Forecaster) predictOne(h int, x *mat.Dense) (float64, error) {
	raw, err := f.models[h].Predict(x)
	if err != nil {
		return 0, errors.Wrapf(err, "predicting horizon %dh", h)
	}
	v := raw.At(0, 0)
	if err := errors.CheckNumericalStability("Forecaster.Predict", []float64{v}, h); err != nil {
		return 0, err
	}
	return v, nil
}
