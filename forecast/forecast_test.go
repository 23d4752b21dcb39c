package forecast

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/model"
	"github.com/YuminosukeSato/aqforecast/linear"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
	"github.com/YuminosukeSato/aqforecast/pkg/log"
	"github.com/YuminosukeSato/aqforecast/preprocessing"
)

var epoch = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// trend returns n hourly observations where every pollutant rises by one per hour.
func trend(n int) []airquality.Observation {
	out := make([]airquality.Observation, n)
	for i := range out {
		x := float64(i)
		out[i] = airquality.Observation{
			Time:             epoch.Add(time.Duration(i) * time.Hour),
			PM25:             airquality.Float(x),
			PM10:             airquality.Float(2*x + 5),
			NitrogenDioxide:  airquality.Float(x + 40),
			Ozone:            airquality.Float(x + 80),
			Temperature:      airquality.Float(15 + 5*math.Sin(x/6)),
			RelativeHumidity: airquality.Float(60 + 10*math.Cos(x/9)),
			WindSpeed:        airquality.Float(3 + math.Mod(x, 5)),
			WindDirection:    airquality.Float(math.Mod(x*41, 360)),
			Precipitation:    airquality.Float(0),
			SurfacePressure:  airquality.Float(1010 + math.Mod(x, 3)),
		}
	}
	return out
}

func nearlyOLS() model.Regressor {
	return model.NewScaledRegressor(
		preprocessing.NewStandardScalerDefault(),
		linear.NewLinearRegression(linear.WithAlpha(1e-6)),
	)
}

func newTrainer(t *testing.T, opts ...TrainerOption) *Trainer {
	t.Helper()
	tr, err := NewTrainer(append([]TrainerOption{WithLogger(log.Nop()), WithRegressor(nearlyOLS)}, opts...)...)
	require.NoError(t, err)
	return tr
}

func TestTrainAndPredict(t *testing.T) {
	obs := trend(400)
	cfg, err := airquality.NewConfig("pm2_5")
	require.NoError(t, err)

	report, forecaster, err := newTrainer(t).Train(context.Background(), obs, cfg)
	require.NoError(t, err)

	rows := 400 - airquality.MaxLookback - 168
	assert.Equal(t, airquality.PM25, report.Target)
	assert.Equal(t, int(float64(rows)*0.8), report.TrainRows)
	assert.Equal(t, rows, report.TrainRows+report.TestRows)
	require.Len(t, report.Horizons, 5)
	for _, h := range report.Horizons {
		// persistence is off by exactly h on a unit trend
		assert.InDelta(t, float64(h.Horizon), h.Baseline.MAE, 1e-9)
		assert.Greater(t, h.Skill, 50.0, "horizon %d", h.Horizon)
	}

	assert.Equal(t, []int{1, 12, 24, 72, 168}, forecaster.Horizons())
	preds, err := forecaster.Predict(obs[len(obs)-48:])
	require.NoError(t, err)
	require.Len(t, preds, 5)
	last := obs[len(obs)-1].Time
	for _, p := range preds {
		assert.Equal(t, last.Add(time.Duration(p.Horizon)*time.Hour), p.Time)
		assert.InEpsilon(t, 399+float64(p.Horizon), p.Value, 0.05)
	}
}

func TestTrainRejectsShortHistory(t *testing.T) {
	cfg, err := airquality.NewConfig("ozone")
	require.NoError(t, err)
	_, _, err = newTrainer(t).Train(context.Background(), trend(150), cfg)
	assert.True(t, errors.Is(err, errors.ErrEmptyData), "got %v", err)
}

func TestTrainRejectsMissingPollutant(t *testing.T) {
	cfg, err := airquality.NewConfig("pm2_5", airquality.WithHorizons(1, 24))
	require.NoError(t, err)
	obs := trend(300)
	for i := range obs {
		obs[i].NitrogenDioxide = nil
	}

	_, _, err = newTrainer(t).Train(context.Background(), obs, cfg)
	var missing *errors.MissingFeatureError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, []string{string(airquality.NitrogenDioxide)}, missing.Missing)
	assert.False(t, errors.Is(err, errors.ErrEmptyData))
}

// exploding panics on Fit.
type exploding struct{ constant }

func (exploding) Fit(_, _ mat.Matrix) error { panic("singular workspace") }

func TestTrainRecoversRegressorPanic(t *testing.T) {
	cfg, err := airquality.NewConfig("ozone", airquality.WithHorizons(1, 12))
	require.NoError(t, err)
	tr := newTrainer(t, WithRegressor(func() model.Regressor { return exploding{} }))

	_, _, err = tr.Train(context.Background(), trend(300), cfg)
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr), "got %v", err)
	assert.Equal(t, "singular workspace", panicErr.PanicValue)
}

func TestNewTrainerValidation(t *testing.T) {
	for _, size := range []float64{0, 1, -0.5, 2} {
		_, err := NewTrainer(WithTestSize(size))
		var ce *errors.ConfigError
		assert.True(t, errors.As(err, &ce), "size %v", size)
	}
}

func TestTrainTargets(t *testing.T) {
	cfg, err := airquality.NewConfig("pm2_5", airquality.WithHorizons(1, 24))
	require.NoError(t, err)

	trained, err := newTrainer(t).TrainTargets(context.Background(), trend(300), cfg, airquality.PM10, airquality.Ozone)
	require.NoError(t, err)
	require.Len(t, trained, 2)
	for target, tr := range trained {
		assert.Equal(t, target, tr.Report.Target)
		assert.Equal(t, target, tr.Forecaster.Target())
		assert.Len(t, tr.Report.Horizons, 2)
	}
}

// constant predicts the same value for every row.
type constant float64

func (c constant) Fit(_, _ mat.Matrix) error { return nil }

func (c constant) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, _ := X.Dims()
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, float64(c))
	}
	return out, nil
}

func TestNewForecaster(t *testing.T) {
	cfg, err := airquality.NewConfig("nitrogen_dioxide", airquality.WithHorizons(1, 6))
	require.NoError(t, err)

	_, err = NewForecaster(cfg, map[int]model.Regressor{1: constant(1)})
	var ce *errors.ConfigError
	require.True(t, errors.As(err, &ce))

	f, err := NewForecaster(cfg, map[int]model.Regressor{1: constant(1), 6: constant(6), 99: constant(0)})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6}, f.Horizons())
	assert.Len(t, f.Features(), 17)

	history := trend(5)
	preds, err := f.Predict(history)
	require.NoError(t, err)
	assert.Equal(t, []Prediction{
		{Horizon: 1, Time: history[4].Time.Add(time.Hour), Value: 1},
		{Horizon: 6, Time: history[4].Time.Add(6 * time.Hour), Value: 6},
	}, preds)

	f, err = NewForecaster(cfg, map[int]model.Regressor{1: constant(math.NaN()), 6: constant(6)})
	require.NoError(t, err)
	_, err = f.Predict(history)
	var inst *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &inst))

	_, err = f.Predict(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	noOzone := trend(30)
	for i := range noOzone {
		noOzone[i].Ozone = nil
	}
	_, err = f.Predict(noOzone)
	var missing *errors.MissingFeatureError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, []string{string(airquality.Ozone)}, missing.Missing)
}

func TestReportOutputs(t *testing.T) {
	report := &Report{
		Target:    airquality.PM25,
		TrainRows: 80,
		TestRows:  20,
		Horizons: []HorizonReport{
			{Horizon: 1, Skill: 12.5},
			{Horizon: 24, Skill: -3},
		},
	}
	report.Horizons[0].Model.MAE, report.Horizons[0].Baseline.MAE = 0.7, 0.8
	report.Horizons[1].Model.MAE, report.Horizons[1].Baseline.MAE = 3.1, 3.0

	var buf bytes.Buffer
	require.NoError(t, report.WriteTable(&buf))
	assert.Contains(t, buf.String(), "pm2_5_1h")
	assert.Contains(t, buf.String(), "pm2_5_24h")
	assert.Contains(t, buf.String(), "+12.50%")

	path := filepath.Join(t.TempDir(), "mae.png")
	require.NoError(t, report.Plot(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, (&Report{}).Plot(path))
}
