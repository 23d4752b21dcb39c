package features

import (
	"github.com/YuminosukeSato/aqforecast/airquality"
)

// meteorological feature block, in model column order.
var meteorological = []string{
	airquality.ColTemperature,
	airquality.ColRelativeHumidity,
	airquality.ColPrecipitation,
	airquality.ColSurfacePressure,
	airquality.ColWindU,
	airquality.ColWindV,
}

var cyclicalTime = []string{
	airquality.ColHourSin,
	airquality.ColHourCos,
	airquality.ColMonthSin,
	airquality.ColMonthCos,
}

// FeaturesFor returns the ordered feature columns a model for target consumes:
// meteorology, cyclical time, every other pollutant, then the target's lag and
// rolling columns. The target's own current value is never included.
//
// The result depends on target alone, so training and inference tables sliced
// with it have identical column layouts.
func FeaturesFor(target airquality.Pollutant) ([]string, error) {
	p, err := airquality.ParsePollutant(string(target))
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(meteorological)+len(cyclicalTime)+7)
	out = append(out, meteorological...)
	out = append(out, cyclicalTime...)
	for _, other := range airquality.SupportedPollutants() {
		if other != p {
			out = append(out, string(other))
		}
	}
	out = append(out,
		airquality.LagColumn(p, airquality.ShortLag),
		airquality.LagColumn(p, airquality.DailyLag),
		airquality.RollingMeanColumn(p, airquality.RollingWindow),
		airquality.RollingStdColumn(p, airquality.RollingWindow),
	)
	return out, nil
}

// TargetColumns names the target column of each horizon, in the given order.
func TargetColumns(horizons []int) []string {
	out := make([]string, len(horizons))
	for i, h := range horizons {
		out[i] = airquality.TargetColumn(h)
	}
	return out
}
