package features

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

var epoch = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// synthetic returns n hourly observations. Every pollutant follows i + offset so
// shifted values are easy to predict; meteorology varies smoothly.
func synthetic(n int) []airquality.Observation {
	out := make([]airquality.Observation, n)
	for i := range out {
		x := float64(i)
		out[i] = airquality.Observation{
			Time:             epoch.Add(time.Duration(i) * time.Hour),
			PM25:             airquality.Float(x),
			PM10:             airquality.Float(x + 1000),
			NitrogenDioxide:  airquality.Float(x + 2000),
			Ozone:            airquality.Float(x + 3000),
			Temperature:      airquality.Float(15 + 5*math.Sin(x/10)),
			RelativeHumidity: airquality.Float(60 + x/100),
			WindSpeed:        airquality.Float(2 + math.Mod(x, 7)),
			WindDirection:    airquality.Float(math.Mod(x*37, 360)),
			Precipitation:    airquality.Float(0),
			SurfacePressure:  airquality.Float(1013),
		}
	}
	return out
}

func mustConfig(t *testing.T, target string, opts ...airquality.Option) airquality.Config {
	t.Helper()
	cfg, err := airquality.NewConfig(target, opts...)
	require.NoError(t, err)
	return cfg
}

// captureWarnings collects warnings raised through errors.Warn until the test ends.
func captureWarnings(t *testing.T) func() []error {
	t.Helper()
	var mu sync.Mutex
	var got []error
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, w)
	})
	t.Cleanup(func() {
		errors.SetWarningHandler(func(error) {})
	})
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), got...)
	}
}
