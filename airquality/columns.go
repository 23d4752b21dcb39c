package airquality

import "fmt"

// Raw meteorological columns.
const (
	ColTemperature      = "temperature_2m"
	ColRelativeHumidity = "relative_humidity_2m"
	ColWindSpeed        = "wind_speed_10m"
	ColWindDirection    = "wind_direction_10m"
	ColPrecipitation    = "precipitation"
	ColSurfacePressure  = "surface_pressure"
)

// Derived columns.
const (
	ColWindU    = "wind_u"
	ColWindV    = "wind_v"
	ColHourSin  = "hour_sin"
	ColHourCos  = "hour_cos"
	ColMonthSin = "month_sin"
	ColMonthCos = "month_cos"
)

// Lag and rolling window sizes, in rows (hours).
const (
	ShortLag      = 1
	DailyLag      = 24
	RollingWindow = 24
)

// MaxLookback is the largest number of past rows any feature reads.
const MaxLookback = DailyLag

// RawColumns lists every raw column an Observation carries, pollutants first.
func RawColumns() []string {
	return []string{
		string(PM25), string(PM10), string(NitrogenDioxide), string(Ozone),
		ColTemperature, ColRelativeHumidity, ColWindSpeed, ColWindDirection,
		ColPrecipitation, ColSurfacePressure,
	}
}

// LagColumn names the lag-n column of p, e.g. "ozone_lag_24".
func LagColumn(p Pollutant, n int) string {
	return fmt.Sprintf("%s_lag_%d", p, n)
}

// RollingMeanColumn names the trailing mean column of p, e.g. "pm10_rolling_mean_24".
func RollingMeanColumn(p Pollutant, window int) string {
	return fmt.Sprintf("%s_rolling_mean_%d", p, window)
}

// RollingStdColumn names the trailing standard deviation column of p.
func RollingStdColumn(p Pollutant, window int) string {
	return fmt.Sprintf("%s_rolling_std_%d", p, window)
}

// TargetColumn names the horizon-h target column, e.g. "target_24h".
func TargetColumn(h int) string {
	return fmt.Sprintf("target_%dh", h)
}
