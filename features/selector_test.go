package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/frame"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

func TestFeaturesForOzone(t *testing.T) {
	cols, err := FeaturesFor(airquality.Ozone)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"temperature_2m", "relative_humidity_2m", "precipitation", "surface_pressure", "wind_u", "wind_v",
		"hour_sin", "hour_cos", "month_sin", "month_cos",
		"pm2_5", "pm10", "nitrogen_dioxide",
		"ozone_lag_1", "ozone_lag_24", "ozone_rolling_mean_24", "ozone_rolling_std_24",
	}, cols)
	assert.NotContains(t, cols, "ozone")
}

func TestFeaturesForEveryTarget(t *testing.T) {
	for _, p := range airquality.SupportedPollutants() {
		t.Run(string(p), func(t *testing.T) {
			cols, err := FeaturesFor(p)
			require.NoError(t, err)
			assert.Len(t, cols, 17)
			assert.NotContains(t, cols, string(p))
			for _, want := range []string{
				airquality.LagColumn(p, 1),
				airquality.LagColumn(p, 24),
				airquality.RollingMeanColumn(p, 24),
				airquality.RollingStdColumn(p, 24),
			} {
				assert.Contains(t, cols, want)
			}

			again, err := FeaturesFor(p)
			require.NoError(t, err)
			assert.Equal(t, cols, again)
		})
	}
}

func TestFeaturesForUnsupportedTarget(t *testing.T) {
	_, err := FeaturesFor("sulphur_dioxide")
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestTargetColumns(t *testing.T) {
	assert.Equal(t, []string{"target_1h", "target_12h"}, TargetColumns([]int{1, 12}))
	assert.Empty(t, TargetColumns(nil))
}

func TestGenerateTargets(t *testing.T) {
	n := 200
	f := Load(synthetic(n))
	horizons := airquality.DefaultHorizons()

	out, err := GenerateTargets(f, airquality.PM25, horizons)
	require.NoError(t, err)
	assert.False(t, f.Has("target_1h"), "input frame is not modified")

	for _, h := range horizons {
		col, ok := out.Column(airquality.TargetColumn(h))
		require.True(t, ok)
		for i := 0; i < n; i++ {
			if i+h >= n {
				assert.True(t, frame.IsMissing(col[i]), "h=%d row %d", h, i)
				continue
			}
			assert.Equal(t, float64(i+h), col[i])
		}
	}

	_, err = GenerateTargets(f, airquality.PM25, []int{0})
	assert.Error(t, err)

	empty := frame.New(f.Times())
	_, err = GenerateTargets(empty, airquality.PM25, horizons)
	var missing *errors.MissingFeatureError
	assert.True(t, errors.As(err, &missing))
}
