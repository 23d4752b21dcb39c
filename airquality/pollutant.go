// Package airquality defines the observation record, column vocabulary and
// configuration shared by the feature pipeline and the forecasting harness.
package airquality

import (
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// Pollutant identifies a forecastable concentration column.
type Pollutant string

// Supported pollutants. The string value is the raw column name.
const (
	PM25            Pollutant = "pm2_5"
	PM10            Pollutant = "pm10"
	NitrogenDioxide Pollutant = "nitrogen_dioxide"
	Ozone           Pollutant = "ozone"
)

var supported = [...]Pollutant{PM25, PM10, NitrogenDioxide, Ozone}

// SupportedPollutants returns every supported pollutant in canonical order.
func SupportedPollutants() []Pollutant {
	out := make([]Pollutant, len(supported))
	copy(out, supported[:])
	return out
}

// Valid reports whether p is a supported pollutant.
func (p Pollutant) Valid() bool {
	for _, s := range supported {
		if p == s {
			return true
		}
	}
	return false
}

func (p Pollutant) String() string {
	return string(p)
}

// ParsePollutant validates a target name.
func ParsePollutant(name string) (Pollutant, error) {
	p := Pollutant(name)
	if !p.Valid() {
		return "", errors.NewConfigError("target", "unsupported pollutant; expected one of pm2_5, pm10, nitrogen_dioxide, ozone", name)
	}
	return p, nil
}
