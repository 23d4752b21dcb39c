package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/frame"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
	"github.com/YuminosukeSato/aqforecast/pkg/log"
)

func newPipeline(t *testing.T, target string, opts ...airquality.Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(mustConfig(t, target, opts...), WithLogger(log.Nop()))
	require.NoError(t, err)
	return p
}

func TestPipelineTraining(t *testing.T) {
	n := 300
	p := newPipeline(t, "pm2_5")

	res, err := p.RunTraining(synthetic(n))
	require.NoError(t, err)

	// rows 0..23 lack a full window, the last 168 lack the longest target
	assert.Equal(t, n-airquality.MaxLookback-168, res.Len())
	assert.Equal(t, airquality.ModeTraining, res.Mode)
	assert.Equal(t, append(append([]string(nil), res.Features...), res.Targets...), res.Frame.Columns())
	assert.Equal(t, []string{"target_1h", "target_12h", "target_24h", "target_72h", "target_168h"}, res.Targets)

	times := res.Frame.Times()
	for i := 1; i < len(times); i++ {
		assert.True(t, times[i].After(times[i-1]))
	}

	// pm2_5[i] == i, so each target is the observed value plus its horizon
	require.Len(t, res.Observed, res.Len())
	prev := -1.0
	for _, h := range res.Horizons {
		vec, err := res.TargetVector(h)
		require.NoError(t, err)
		for i := 0; i < vec.Len(); i++ {
			assert.Equal(t, res.Observed[i]+float64(h), vec.AtVec(i))
		}
		assert.Greater(t, vec.AtVec(0), prev, "targets grow with the horizon")
		prev = vec.AtVec(0)
	}

	for _, col := range res.Frame.Columns() {
		values, _ := res.Frame.Column(col)
		for i, v := range values {
			assert.False(t, frame.IsMissing(v), "%s row %d", col, i)
		}
	}
}

func TestPipelineTrainingShortHistoryWarns(t *testing.T) {
	warnings := captureWarnings(t)
	p := newPipeline(t, "ozone")

	res, err := p.RunTraining(synthetic(100))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())

	got := warnings()
	require.Len(t, got, 1)
	var w *errors.InsufficientHistoryWarning
	require.True(t, errors.As(got[0], &w))
	assert.Equal(t, "training", w.Mode)
	assert.Equal(t, 100, w.Rows)
}

func TestPipelineInference(t *testing.T) {
	obs := synthetic(48)
	obs[47].PM25 = nil
	obs[47].Ozone = nil
	p := newPipeline(t, "pm2_5", airquality.WithMode(airquality.ModeInference))

	res, err := p.Run(obs)
	require.NoError(t, err)
	assert.Equal(t, airquality.ModeInference, res.Mode)
	assert.Equal(t, 48, res.Len(), "inference keeps every row")
	assert.Empty(t, res.Targets)
	for _, col := range res.Frame.Columns() {
		assert.NotRegexp(t, "^target_", col)
	}
	assert.Equal(t, obs[47].Time, res.Frame.Time(res.Len()-1))

	x, err := res.FeatureMatrix()
	require.NoError(t, err)
	rows, cols := x.Dims()
	assert.Equal(t, 48, rows)
	assert.Equal(t, len(res.Features), cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.False(t, frame.IsMissing(x.At(i, j)), "row %d col %s", i, res.Features[j])
		}
	}

	_, err = res.TargetVector(1)
	assert.Error(t, err)
}

func TestPipelineInferenceShortHistory(t *testing.T) {
	warnings := captureWarnings(t)
	p := newPipeline(t, "nitrogen_dioxide", airquality.WithMode(airquality.ModeInference))

	res, err := p.Run(synthetic(3))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Len())

	lag24, _ := res.Frame.Column(airquality.LagColumn(airquality.NitrogenDioxide, 24))
	for _, v := range lag24 {
		assert.True(t, frame.IsMissing(v), "no value 24 rows back exists anywhere")
	}
	lag1, _ := res.Frame.Column(airquality.LagColumn(airquality.NitrogenDioxide, 1))
	assert.Equal(t, []float64{2000, 2000, 2001}, lag1, "leading gap back-filled")

	require.Len(t, warnings(), 1)
}

func TestPipelineColumnParity(t *testing.T) {
	obs := synthetic(260)
	for _, p := range airquality.SupportedPollutants() {
		train := newPipeline(t, string(p))
		infer := newPipeline(t, string(p), airquality.WithMode(airquality.ModeInference))

		tr, err := train.Run(obs)
		require.NoError(t, err)
		in, err := infer.Run(obs[200:])
		require.NoError(t, err)

		assert.Equal(t, tr.Features, in.Features)
		assert.Equal(t, in.Features, in.Frame.Columns())

		xt, err := tr.FeatureMatrix()
		require.NoError(t, err)
		xi, err := in.FeatureMatrix()
		require.NoError(t, err)
		_, ct := xt.Dims()
		_, ci := xi.Dims()
		assert.Equal(t, ct, ci)
	}
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	obs := synthetic(30)
	obs[0], obs[29] = obs[29], obs[0]
	obs[5].Temperature = nil
	snapshot := make([]airquality.Observation, len(obs))
	for i, o := range obs {
		snapshot[i] = o.Clone()
	}

	_, err := newPipeline(t, "pm10", airquality.WithMode(airquality.ModeInference)).Run(obs)
	require.NoError(t, err)
	assert.Equal(t, snapshot, obs)
}

func TestPipelineMissingRawColumn(t *testing.T) {
	pm25 := airquality.PM25
	tests := []struct {
		name  string
		clear func(o *airquality.Observation)
		want  []string
	}{
		{
			name:  "meteorology",
			clear: func(o *airquality.Observation) { o.SurfacePressure = nil },
			want:  []string{airquality.ColSurfacePressure},
		},
		{
			name:  "cross pollutant",
			clear: func(o *airquality.Observation) { o.PM10 = nil },
			want:  []string{string(airquality.PM10)},
		},
		{
			name:  "target",
			clear: func(o *airquality.Observation) { o.PM25 = nil },
			want: []string{
				airquality.LagColumn(pm25, airquality.ShortLag),
				airquality.LagColumn(pm25, airquality.DailyLag),
				airquality.RollingMeanColumn(pm25, airquality.RollingWindow),
				airquality.RollingStdColumn(pm25, airquality.RollingWindow),
				string(pm25),
			},
		},
	}
	for _, tt := range tests {
		for _, mode := range []airquality.Mode{airquality.ModeTraining, airquality.ModeInference} {
			t.Run(tt.name+"/"+mode.String(), func(t *testing.T) {
				warnings := captureWarnings(t)
				obs := synthetic(300)
				for i := range obs {
					tt.clear(&obs[i])
				}

				res, err := newPipeline(t, "pm2_5", airquality.WithMode(mode)).Run(obs)
				assert.Nil(t, res)
				var missing *errors.MissingFeatureError
				require.True(t, errors.As(err, &missing), "got %v", err)
				assert.Equal(t, tt.want, missing.Missing)
				assert.Empty(t, warnings(), "a missing column is not reported as short history")
			})
		}
	}
}

func TestPipelineErrors(t *testing.T) {
	_, err := airquality.NewConfig("benzene")
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	_, err = NewPipeline(airquality.Config{})
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))

	_, err = newPipeline(t, "ozone").Run(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestPipelineLogsStages(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	p, err := NewPipeline(mustConfig(t, "pm2_5", airquality.WithMode(airquality.ModeInference)), WithLogger(logger))
	require.NoError(t, err)

	_, err = p.Run(synthetic(30))
	require.NoError(t, err)

	for _, stage := range []string{log.StageLoaded, log.StageBuilt, log.StageCompleted} {
		assert.True(t, logger.ContainsField(log.StageKey, stage), "stage %s", stage)
	}
	assert.False(t, logger.ContainsField(log.StageKey, log.StageTargeted))
	assert.True(t, logger.ContainsField(log.ModeKey, "inference"))
	assert.True(t, logger.ContainsField(log.ComponentKey, "features"))
}

func TestPipelineRunTargets(t *testing.T) {
	p := newPipeline(t, "pm2_5", airquality.WithHorizons(1, 24))
	targets := airquality.SupportedPollutants()

	results, err := p.RunTargets(context.Background(), synthetic(120), targets...)
	require.NoError(t, err)
	require.Len(t, results, len(targets))
	for _, target := range targets {
		res := results[target]
		require.NotNil(t, res)
		assert.Equal(t, target, res.Target)
		assert.Equal(t, 120-airquality.MaxLookback-24, res.Len())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.RunTargets(ctx, synthetic(120), targets...)
	assert.ErrorIs(t, err, context.Canceled)
}
