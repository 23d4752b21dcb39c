// Package forecast fits one regressor per horizon on a training table, scores
// it against the persistence baseline and serves multi-horizon predictions from
// the latest row of an inference table.
package forecast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/model"
	"github.com/YuminosukeSato/aqforecast/features"
	"github.com/YuminosukeSato/aqforecast/linear"
	"github.com/YuminosukeSato/aqforecast/metrics"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
	"github.com/YuminosukeSato/aqforecast/pkg/log"
	"github.com/YuminosukeSato/aqforecast/preprocessing"
)

// DefaultTestSize is the trailing share of the training table held out for
// evaluation.
const DefaultTestSize = 0.2

// DefaultRegressor standardizes features in front of a ridge regression.
func DefaultRegressor() model.Regressor {
	return model.NewScaledRegressor(preprocessing.NewStandardScalerDefault(), linear.NewLinearRegression())
}

// Trainer fits and evaluates the per-horizon models of one target.
type Trainer struct {
	newRegressor model.Factory
	testSize     float64
	logger       log.Logger
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithRegressor sets the factory called once per horizon.
func WithRegressor(f model.Factory) TrainerOption {
	return func(t *Trainer) {
		if f != nil {
			t.newRegressor = f
		}
	}
}

// WithTestSize sets the held-out share, in (0, 1).
func WithTestSize(size float64) TrainerOption {
	return func(t *Trainer) {
		t.testSize = size
	}
}

// WithLogger sets the logger used by the trainer and its pipelines.
func WithLogger(l log.Logger) TrainerOption {
	return func(t *Trainer) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTrainer creates a Trainer.
func NewTrainer(opts ...TrainerOption) (*Trainer, error) {
	t := &Trainer{
		newRegressor: DefaultRegressor,
		testSize:     DefaultTestSize,
		logger:       log.GetLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.testSize <= 0 || t.testSize >= 1 {
		return nil, errors.NewConfigError("test_size", "must be in (0, 1)", t.testSize)
	}
	t.logger = t.logger.With(log.ComponentKey, "forecast")
	return t, nil
}

// Train builds the training table for cfg.Target(), splits it chronologically and
// fits one regressor per horizon concurrently. cfg's mode is ignored.
func (t *Trainer) Train(ctx context.Context, obs []airquality.Observation, cfg airquality.Config) (*Report, *Forecaster, error) {
	start := time.Now()
	pipeline, err := features.NewPipeline(cfg, features.WithLogger(t.logger))
	if err != nil {
		return nil, nil, err
	}
	table, err := pipeline.RunTraining(obs)
	if err != nil {
		return nil, nil, err
	}

	n := table.Len()
	split := int(float64(n) * (1 - t.testSize))
	if split < 1 || split >= n {
		return nil, nil, errors.NewModelError("Trainer.Train",
			"not enough complete rows to split into train and test sets", errors.ErrEmptyData)
	}
	X, err := table.FeatureMatrix()
	if err != nil {
		return nil, nil, err
	}
	cols := len(table.Features)
	xTrain := X.Slice(0, split, 0, cols)
	xTest := X.Slice(split, n, 0, cols)
	baseline := mat.NewVecDense(n-split, append([]float64(nil), table.Observed[split:]...))

	logger := t.logger.With(log.TargetKey, string(table.Target))
	logger.Info("Training started",
		log.SamplesKey, n,
		log.FeaturesKey, cols,
		log.HorizonsKey, table.Horizons,
	)

	horizons := table.Horizons
	reports := make([]HorizonReport, len(horizons))
	models := make(map[int]model.Regressor, len(horizons))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, h := range horizons {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// regressor panics surface as a PanicError
			return errors.SafeExecute(fmt.Sprintf("Trainer.Train %dh", h), func() error {
				y, err := table.TargetVector(h)
				if err != nil {
					return err
				}
				reg := t.newRegressor()
				if err := reg.Fit(xTrain, y.SliceVec(0, split)); err != nil {
					return errors.Wrapf(err, "fitting horizon %dh", h)
				}
				rep, err := evaluate(reg, xTest, y.SliceVec(split, n).(*mat.VecDense), baseline)
				if err != nil {
					return errors.Wrapf(err, "evaluating horizon %dh", h)
				}
				rep.Horizon = h
				reports[i] = rep

				mu.Lock()
				models[h] = reg
				mu.Unlock()

				logger.Info("Horizon trained",
					log.HorizonKey, h,
					log.MAEKey, rep.Model.MAE,
					log.R2ScoreKey, rep.Model.R2,
					log.SkillKey, rep.Skill,
				)
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	inference, err := cfg.With(airquality.WithMode(airquality.ModeInference))
	if err != nil {
		return nil, nil, err
	}
	report := &Report{
		Target:    table.Target,
		TrainRows: split,
		TestRows:  n - split,
		Horizons:  reports,
	}
	forecaster := &Forecaster{
		cfg:      inference,
		features: append([]string(nil), table.Features...),
		models:   models,
		logger:   t.logger,
	}
	logger.Info("Training completed", log.DurationMsKey, time.Since(start).Milliseconds())
	return report, forecaster, nil
}

func evaluate(reg model.Regressor, xTest mat.Matrix, yTest, baseline *mat.VecDense) (HorizonReport, error) {
	raw, err := reg.Predict(xTest)
	if err != nil {
		return HorizonReport{}, err
	}
	pred, err := metrics.ColumnVector(raw)
	if err != nil {
		return HorizonReport{}, err
	}
	if err := errors.CheckNumericalStability("Trainer.evaluate", pred.RawVector().Data, 0); err != nil {
		return HorizonReport{}, err
	}
	modelScores, err := metrics.Evaluate(yTest, pred)
	if err != nil {
		return HorizonReport{}, err
	}
	baseScores, err := metrics.Evaluate(yTest, baseline)
	if err != nil {
		return HorizonReport{}, err
	}
	return HorizonReport{
		Model:    modelScores,
		Baseline: baseScores,
		Skill:    metrics.SkillScore(modelScores.MAE, baseScores.MAE),
	}, nil
}

// Trained pairs the evaluation and the fitted models of one target.
type Trained struct {
	Report     *Report
	Forecaster *Forecaster
}

// TrainTargets trains every target concurrently with the rest of cfg shared.
// obs is read-only for all runs.
func (t *Trainer) TrainTargets(ctx context.Context, obs []airquality.Observation, cfg airquality.Config, targets ...airquality.Pollutant) (map[airquality.Pollutant]*Trained, error) {
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	out := make(map[airquality.Pollutant]*Trained, len(targets))

	for _, target := range targets {
		g.Go(func() error {
			targetCfg, err := cfg.ForTarget(target)
			if err != nil {
				return err
			}
			report, forecaster, err := t.Train(ctx, obs, targetCfg)
			if err != nil {
				return errors.Wrapf(err, "target %s", target)
			}
			mu.Lock()
			out[target] = &Trained{Report: report, Forecaster: forecaster}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
