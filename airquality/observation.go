package airquality

import "time"

// Observation is one hourly sensor reading. A nil field is an absent value;
// pollutants are routinely absent at inference time.
type Observation struct {
	Time time.Time `json:"time"`

	PM25            *float64 `json:"pm2_5,omitempty"`
	PM10            *float64 `json:"pm10,omitempty"`
	NitrogenDioxide *float64 `json:"nitrogen_dioxide,omitempty"`
	Ozone           *float64 `json:"ozone,omitempty"`

	Temperature      *float64 `json:"temperature_2m,omitempty"`
	RelativeHumidity *float64 `json:"relative_humidity_2m,omitempty"`
	WindSpeed        *float64 `json:"wind_speed_10m,omitempty"`
	WindDirection    *float64 `json:"wind_direction_10m,omitempty"`
	Precipitation    *float64 `json:"precipitation,omitempty"`
	SurfacePressure  *float64 `json:"surface_pressure,omitempty"`
}

// Float returns a pointer to v, for building Observations in code.
func Float(v float64) *float64 {
	return &v
}

// field returns the address of the struct field backing a raw column.
func (o *Observation) field(col string) **float64 {
	switch col {
	case string(PM25):
		return &o.PM25
	case string(PM10):
		return &o.PM10
	case string(NitrogenDioxide):
		return &o.NitrogenDioxide
	case string(Ozone):
		return &o.Ozone
	case ColTemperature:
		return &o.Temperature
	case ColRelativeHumidity:
		return &o.RelativeHumidity
	case ColWindSpeed:
		return &o.WindSpeed
	case ColWindDirection:
		return &o.WindDirection
	case ColPrecipitation:
		return &o.Precipitation
	case ColSurfacePressure:
		return &o.SurfacePressure
	}
	return nil
}

// Value returns the raw column value and whether it is present.
func (o Observation) Value(col string) (float64, bool) {
	f := o.field(col)
	if f == nil || *f == nil {
		return 0, false
	}
	return **f, true
}

// SetValue sets a raw column. Unknown columns are reported with false.
func (o *Observation) SetValue(col string, v float64) bool {
	f := o.field(col)
	if f == nil {
		return false
	}
	*f = Float(v)
	return true
}

// Clone returns a copy that shares no pointers with o.
func (o Observation) Clone() Observation {
	out := Observation{Time: o.Time}
	for _, col := range RawColumns() {
		if v, ok := o.Value(col); ok {
			out.SetValue(col, v)
		}
	}
	return out
}
